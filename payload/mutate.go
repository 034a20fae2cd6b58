package payload

import (
	"fmt"
	"math"
	"strings"

	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/specerrors"
)

// Sentinel values the mutation catalog (§4.4) substitutes in place of a
// valid value. Each is a fixed token so a rendered assertion can recognize
// it without re-deriving it.
const (
	SentinelInvalidType   = "__INVALID_TYPE__"
	SentinelInvalidEnum   = "__INVALID_ENUM_VALUE__"
	SentinelUnionNoMatch  = "__UNION_NO_MATCH__"
	SentinelUnexpectedKey = "__unexpected_kwarg__"
	SentinelExtraProperty = "__extra_property__"
	fillerChar            = "x"
	smallPrime            = 3
)

// Generate returns the full raw payload list for op: the golden record for
// HAPPY_PATH, and one mutated payload per remaining intent, in intent order.
func Generate(op *ir.Operation, intents []intent.Intent) ([]Payload, error) {
	golden := BuildGolden(op)
	out := make([]Payload, 0, len(intents))
	for _, in := range intents {
		p, err := Mutate(op, in, golden)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Mutate applies in's single catalogued transformation (§4.4), rooted at
// in.TargetPath, to a fresh copy of golden.
func Mutate(op *ir.Operation, in intent.Intent, golden Golden) (Payload, error) {
	out := Payload{
		OperationID:    op.ID,
		IntentID:       in.ID,
		TargetField:    in.Field,
		ExpectedStatus: in.ExpectedOutcome.Status,
	}

	if in.ID == intent.HappyPath {
		g := golden.clone()
		out.PathParams, out.QueryParams, out.Headers, out.Body = g.PathParams, g.QueryParams, g.Headers, g.Body
		return out, nil
	}

	g := golden.clone()
	gr := locateGroup(op, in.TargetPath)
	acc := accessorFor(&g, gr)
	segs := strings.Split(in.TargetPath, ".")
	schema := schemaAt(op, gr, in.TargetPath)

	if err := applyMutation(in.ID, acc, segs, schema); err != nil {
		return Payload{}, err
	}

	out.PathParams, out.QueryParams, out.Headers, out.Body = g.PathParams, g.QueryParams, g.Headers, g.Body
	return out, nil
}

// applyMutation dispatches on intent id to the transformation §4.4's catalog
// table names for it.
func applyMutation(id intent.ID, acc rootAccessor, segs []string, schema *ir.Schema) error {
	switch id {
	case intent.RequiredFieldMissing, intent.RequiredArgMissing:
		deleteAt(acc, segs)
	case intent.UnexpectedArgument:
		insertAtParent(acc, segs, SentinelUnexpectedKey, true)
	case intent.TypeViolation:
		setAt(acc, segs, SentinelInvalidType)
	case intent.NullNotAllowed:
		setAt(acc, segs, nil)
	case intent.BoundaryMinMinusOne:
		setAt(acc, segs, boundaryMinMinusOne(numericOf(schema), isInteger(schema)))
	case intent.BoundaryMaxPlusOne:
		setAt(acc, segs, boundaryMaxPlusOne(numericOf(schema), isInteger(schema)))
	case intent.BoundaryMinLengthMinusOne:
		setAt(acc, segs, fillerString(minLenMinusOne(schema)))
	case intent.BoundaryMaxLengthPlusOne:
		setAt(acc, segs, fillerString(maxLenPlusOne(schema)))
	case intent.BoundaryMinItemsMinusOne:
		resizeArrayAt(acc, segs, minItemsMinusOne(schema))
	case intent.BoundaryMaxItemsPlusOne:
		resizeArrayAt(acc, segs, maxItemsPlusOne(schema))
	case intent.NotMultipleOf:
		setAt(acc, segs, notMultipleOf(numericOf(schema), isInteger(schema)))
	case intent.FormatInvalid, intent.FormatInvalidPathParam:
		setAt(acc, segs, invalidFormatValue(formatOf(schema)))
	case intent.PatternMismatch:
		setAt(acc, segs, "__PATTERN_MISMATCH__")
	case intent.EnumMismatch:
		setAt(acc, segs, SentinelInvalidEnum)
	case intent.ArrayNotUnique:
		mutateArrayAt(acc, segs, duplicateFirst)
	case intent.ArrayItemTypeViolation:
		mutateArrayAt(acc, segs, replaceFirstItem)
	case intent.AdditionalPropertyNotAllowed:
		insertAtParent(acc, segs, SentinelExtraProperty, true)
	case intent.UnionNoMatch:
		setAt(acc, segs, SentinelUnionNoMatch)
	case intent.EmptyString:
		setAt(acc, segs, "")
	case intent.WhitespaceOnly:
		setAt(acc, segs, "   ")
	case intent.SQLInjection:
		setAt(acc, segs, "' OR '1'='1")
	case intent.XSSInjection:
		setAt(acc, segs, "<script>alert(1)</script>")
	case intent.CommandInjection:
		setAt(acc, segs, "; rm -rf /")
	case intent.ResourceNotFound:
		setAt(acc, segs, absentResourceID(schema))
	default:
		return &specerrors.IntentError{IntentID: string(id), Detail: "no mutation catalog entry for this intent"}
	}
	return nil
}

func numericOf(schema *ir.Schema) *ir.NumericConstraints {
	if schema == nil {
		return nil
	}
	return schema.Numeric
}

func isInteger(schema *ir.Schema) bool { return schema != nil && schema.Kind == ir.KindInteger }

func formatOf(schema *ir.Schema) ir.Format {
	if schema == nil || schema.String == nil {
		return ir.FormatNone
	}
	return schema.String.Format
}

func boundaryMinMinusOne(c *ir.NumericConstraints, integer bool) any {
	if c == nil || c.Min == nil {
		return nil
	}
	v := *c.Min - 1
	if c.ExclusiveMin {
		v = *c.Min
	}
	if integer {
		return int(v)
	}
	return v
}

func boundaryMaxPlusOne(c *ir.NumericConstraints, integer bool) any {
	if c == nil || c.Max == nil {
		return nil
	}
	v := *c.Max + 1
	if c.ExclusiveMax {
		v = *c.Max
	}
	if integer {
		return int(v)
	}
	return v
}

func notMultipleOf(c *ir.NumericConstraints, integer bool) any {
	if c == nil || c.MultipleOf == nil || *c.MultipleOf == 0 {
		return nil
	}
	m := *c.MultipleOf
	if m == math.Trunc(m) {
		v := m/2 + smallPrime
		if integer {
			return int(v)
		}
		return v
	}
	v := m + 0.001
	if integer {
		return int(v)
	}
	return v
}

func minLenMinusOne(schema *ir.Schema) int {
	if schema == nil || schema.String == nil || schema.String.MinLen == nil {
		return 0
	}
	n := *schema.String.MinLen - 1
	if n < 0 {
		n = 0
	}
	return n
}

func maxLenPlusOne(schema *ir.Schema) int {
	if schema == nil || schema.String == nil || schema.String.MaxLen == nil {
		return 0
	}
	return *schema.String.MaxLen + 1
}

func fillerString(n int) string { return strings.Repeat(fillerChar, n) }

func minItemsMinusOne(schema *ir.Schema) int {
	if schema == nil || schema.Array == nil || schema.Array.MinItems == nil {
		return 0
	}
	n := *schema.Array.MinItems - 1
	if n < 0 {
		n = 0
	}
	return n
}

func maxItemsPlusOne(schema *ir.Schema) int {
	if schema == nil || schema.Array == nil || schema.Array.MaxItems == nil {
		return 0
	}
	return *schema.Array.MaxItems + 1
}

func resizeArrayAt(acc rootAccessor, segs []string, n int) {
	root := acc.get()
	cur, ok := getAt(root, segs)
	if !ok {
		return
	}
	arr, _ := cur.([]any)
	setAt(acc, segs, resizeArray(arr, n))
}

func resizeArray(current []any, n int) []any {
	if n < 0 {
		n = 0
	}
	var item any
	if len(current) > 0 {
		item = current[0]
	}
	out := make([]any, n)
	for i := range out {
		out[i] = deepCopy(item)
	}
	return out
}

func mutateArrayAt(acc rootAccessor, segs []string, f func([]any) []any) {
	root := acc.get()
	cur, ok := getAt(root, segs)
	if !ok {
		return
	}
	arr, _ := cur.([]any)
	setAt(acc, segs, f(arr))
}

func duplicateFirst(current []any) []any {
	if len(current) == 0 {
		return current
	}
	out := append([]any{}, current...)
	return append(out, deepCopy(current[0]))
}

func replaceFirstItem(current []any) []any {
	out := append([]any{}, current...)
	if len(out) == 0 {
		return append(out, SentinelInvalidType)
	}
	out[0] = SentinelInvalidType
	return out
}

// invalidFormatValue picks a fixed value that violates format, per format
// (§4.4): "emails without @, uuids with wrong hyphenation, dates
// 'not-a-date', etc."
func invalidFormatValue(format ir.Format) any {
	switch format {
	case ir.FormatEmail:
		return "not-an-email"
	case ir.FormatUUID:
		return "not-a-valid-uuid"
	case ir.FormatDate:
		return "not-a-date"
	case ir.FormatDateTime:
		return "not-a-date-time"
	case ir.FormatIPv4:
		return "999.999.999.999"
	case ir.FormatIPv6:
		return "not-an-ipv6-address"
	case ir.FormatURI:
		return "not a uri"
	default:
		return "__FORMAT_INVALID__"
	}
}

// absentResourceID picks a syntactically valid but never-assigned id, fixed
// per schema format (§4.4), for RESOURCE_NOT_FOUND.
func absentResourceID(schema *ir.Schema) any {
	if schema != nil && schema.Kind == ir.KindString {
		if schema.String != nil && schema.String.Format == ir.FormatUUID {
			return "ffffffff-ffff-ffff-ffff-ffffffffffff"
		}
		return "00000000-absent-resource"
	}
	if schema != nil && schema.Kind == ir.KindInteger {
		return 999999999
	}
	return fmt.Sprintf("absent-%s", SentinelInvalidType)
}

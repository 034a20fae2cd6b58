package intent

import (
	"fmt"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/specerrors"
)

// Generate produces the ordered intent list for a single operation, per the
// strategy in §4.2. targetIntents is the caller's allow-list; a nil or empty
// slice is treated as "allow everything" (AllIDs).
func Generate(op *ir.Operation, dialectName dialect.Name, targetIntents []ID) ([]Intent, error) {
	if op == nil {
		return nil, &specerrors.IntentError{Detail: "operation is nil"}
	}
	for _, id := range targetIntents {
		if !isCatalogued(id) {
			return nil, &specerrors.IntentError{IntentID: string(id), Detail: "not in the frozen intent catalog"}
		}
	}
	allow := newAllowSet(targetIntents)

	var out []Intent
	emit := func(id ID, targetPath, fieldName, description string) {
		if !allow.permits(id) {
			return
		}
		out = append(out, Intent{
			ID:              id,
			Category:        CategoryOf(id),
			OperationID:     op.ID,
			TargetPath:      targetPath,
			Field:           fieldName,
			ExpectedOutcome: expectedOutcome(op, id),
			Description:     description,
		})
	}

	// Step 1: HAPPY_PATH is always emitted, regardless of the allow-list.
	out = append(out, Intent{
		ID:              HappyPath,
		Category:        CategoryHappy,
		OperationID:     op.ID,
		ExpectedOutcome: expectedOutcome(op, HappyPath),
		Description:     "valid request succeeds",
	})

	fields := flatten(op)
	requiredMissingID := RequiredFieldMissing
	if op.Kind.Tag == ir.KindTagFunction {
		requiredMissingID = RequiredArgMissing
	}

	// Step 2: required-field-missing, one full pass across all fields.
	for _, f := range fields {
		if !f.required {
			continue
		}
		emit(requiredMissingID, f.targetPath, f.name, fmt.Sprintf("%s is required but omitted", f.targetPath))
	}

	// Steps 3-9: per-field pass; for each field, type/null first, then the
	// field's own kind-specific intents, before moving to the next field.
	for _, f := range fields {
		if f.schema == nil {
			continue
		}
		emit(TypeViolation, f.targetPath, f.name, fmt.Sprintf("%s holds a value of the wrong type", f.targetPath))
		if !f.schema.IsNullable() {
			emit(NullNotAllowed, f.targetPath, f.name, fmt.Sprintf("%s is set to null", f.targetPath))
		}
		emitKindSpecific(emit, f)
	}

	// Step 10: HTTP path-param specific intents.
	if op.Kind.Tag == ir.KindTagHTTP {
		for _, p := range op.PathParams {
			emit(ResourceNotFound, p.Name, p.Name, fmt.Sprintf("%s refers to a resource that does not exist", p.Name))
			if p.Schema != nil && p.Schema.Kind == ir.KindString && p.Schema.String != nil && p.Schema.String.Format != ir.FormatNone {
				emit(FormatInvalidPathParam, p.Name, p.Name, fmt.Sprintf("%s does not conform to its declared format", p.Name))
			}
		}
	}

	// Step 11: free-text security injection intents, one final pass.
	for _, f := range fields {
		if !isFreeText(f.schema) {
			continue
		}
		emit(SQLInjection, f.targetPath, f.name, fmt.Sprintf("%s accepts a SQL injection payload", f.targetPath))
		emit(XSSInjection, f.targetPath, f.name, fmt.Sprintf("%s accepts an XSS injection payload", f.targetPath))
		emit(CommandInjection, f.targetPath, f.name, fmt.Sprintf("%s accepts a command injection payload", f.targetPath))
	}

	return out, nil
}

// isFreeText reports whether a string field is unconstrained enough to be
// worth probing with injection payloads. Fields with a declared pattern are
// excluded; a declared format (email, uuid, ...) does not exclude a field,
// since format validators commonly let injection payloads straight through.
func isFreeText(schema *ir.Schema) bool {
	return schema != nil && schema.Kind == ir.KindString && schema.String != nil && schema.String.Pattern == ""
}

func emitKindSpecific(emit func(id ID, targetPath, field, description string), f field) {
	switch f.schema.Kind {
	case ir.KindString:
		emitStringIntents(emit, f)
	case ir.KindInteger, ir.KindNumber:
		emitNumericIntents(emit, f)
	case ir.KindEnum:
		emit(EnumMismatch, f.targetPath, f.name, fmt.Sprintf("%s is set to a value outside its enum", f.targetPath))
	case ir.KindArray:
		emitArrayIntents(emit, f)
	case ir.KindUnion:
		if f.schema.Union != nil && len(f.schema.Union.Variants) > 1 {
			emit(UnionNoMatch, f.targetPath, f.name, fmt.Sprintf("%s matches none of its union variants", f.targetPath))
		}
	case ir.KindObject:
		if f.schema.Object != nil && !f.schema.Object.AdditionalAllowed {
			emit(AdditionalPropertyNotAllowed, f.targetPath, f.name, fmt.Sprintf("%s carries an undeclared property", f.targetPath))
		}
	}
}

func emitStringIntents(emit func(id ID, targetPath, field, description string), f field) {
	c := f.schema.String
	if c == nil {
		return
	}
	if c.Format != ir.FormatNone {
		emit(FormatInvalid, f.targetPath, f.name, fmt.Sprintf("%s violates its declared format", f.targetPath))
	}
	if c.Pattern != "" {
		emit(PatternMismatch, f.targetPath, f.name, fmt.Sprintf("%s does not match its declared pattern", f.targetPath))
	}
	if c.MinLen != nil {
		emit(BoundaryMinLengthMinusOne, f.targetPath, f.name, fmt.Sprintf("%s is one character shorter than its minimum length", f.targetPath))
	}
	if c.MaxLen != nil {
		emit(BoundaryMaxLengthPlusOne, f.targetPath, f.name, fmt.Sprintf("%s is one character longer than its maximum length", f.targetPath))
	}
	if c.MinLen != nil && *c.MinLen > 0 {
		emit(EmptyString, f.targetPath, f.name, fmt.Sprintf("%s is set to an empty string", f.targetPath))
		emit(WhitespaceOnly, f.targetPath, f.name, fmt.Sprintf("%s is set to a whitespace-only string", f.targetPath))
	}
}

func emitNumericIntents(emit func(id ID, targetPath, field, description string), f field) {
	c := f.schema.Numeric
	if c == nil {
		return
	}
	if c.Min != nil {
		emit(BoundaryMinMinusOne, f.targetPath, f.name, fmt.Sprintf("%s is one below its minimum", f.targetPath))
	}
	if c.Max != nil {
		emit(BoundaryMaxPlusOne, f.targetPath, f.name, fmt.Sprintf("%s is one above its maximum", f.targetPath))
	}
	if c.MultipleOf != nil {
		emit(NotMultipleOf, f.targetPath, f.name, fmt.Sprintf("%s is not a multiple of its declared step", f.targetPath))
	}
}

func emitArrayIntents(emit func(id ID, targetPath, field, description string), f field) {
	c := f.schema.Array
	if c == nil {
		return
	}
	if c.MinItems != nil && *c.MinItems > 0 {
		emit(BoundaryMinItemsMinusOne, f.targetPath, f.name, fmt.Sprintf("%s has one fewer item than its minimum", f.targetPath))
	}
	if c.MaxItems != nil && *c.MaxItems > 0 {
		emit(BoundaryMaxItemsPlusOne, f.targetPath, f.name, fmt.Sprintf("%s has one more item than its maximum", f.targetPath))
	}
	if c.UniqueItems {
		emit(ArrayNotUnique, f.targetPath, f.name, fmt.Sprintf("%s contains a duplicate item", f.targetPath))
	}
	emit(ArrayItemTypeViolation, f.targetPath, f.name, fmt.Sprintf("%s contains an item of the wrong type", f.targetPath))
}

// allowSet is the target_intents allow-list; nil/empty means "allow all".
type allowSet struct {
	all   bool
	ids   map[ID]bool
}

func newAllowSet(ids []ID) allowSet {
	if len(ids) == 0 {
		return allowSet{all: true}
	}
	m := make(map[ID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return allowSet{ids: m}
}

func (a allowSet) permits(id ID) bool {
	if a.all {
		return true
	}
	return a.ids[id]
}

package httpcontract

import (
	"fmt"

	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/specerrors"
)

// resolver converts rawSchema values into ir.Schema, eagerly inlining named
// type references (§3 invariant 1) while detecting reference cycles.
type resolver struct {
	sourceName string
	types      map[string]rawSchema
	// resolving tracks the $ref chain currently being inlined, for cycle
	// detection.
	resolving map[string]bool
	// decls holds TypeDecl markers keyed by id. Nothing in the resolver adds
	// entries to it; the parser builds the specification's TypeDecls itself.
	decls map[string]*ir.TypeDecl
}

func newResolver(sourceName string, types map[string]rawSchema) *resolver {
	return &resolver{
		sourceName: sourceName,
		types:      types,
		resolving:  map[string]bool{},
		decls:      map[string]*ir.TypeDecl{},
	}
}

func (r *resolver) parseErr(kind specerrors.ParseErrorKind, detail string) error {
	return &specerrors.ParseError{Path: r.sourceName, Kind: kind, Detail: detail}
}

// resolve converts a single rawSchema into an ir.Schema, following $ref
// chains eagerly.
func (r *resolver) resolve(raw rawSchema) (*ir.Schema, error) {
	if raw.Ref != "" {
		return r.resolveRef(raw.Ref)
	}
	return r.convert(raw)
}

func (r *resolver) resolveRef(name string) (*ir.Schema, error) {
	if r.resolving[name] {
		return nil, r.parseErr(specerrors.KindUnsupportedFeature,
			fmt.Sprintf("cyclic type reference involving %q", name))
	}
	target, ok := r.types[name]
	if !ok {
		return nil, r.parseErr(specerrors.KindUnresolvedReference,
			fmt.Sprintf("undefined type %q", name))
	}
	r.resolving[name] = true
	schema, err := r.convert(target)
	delete(r.resolving, name)
	if err != nil {
		return nil, err
	}
	schema.Ref = name
	return schema, nil
}

// Decls returns the TypeDecl markers held in r.decls, in no particular
// order. Resolving a reference does not add to r.decls, so the result is
// empty unless entries were placed there directly.
func (r *resolver) Decls() []*ir.TypeDecl {
	out := make([]*ir.TypeDecl, 0, len(r.decls))
	for _, d := range r.decls {
		out = append(out, d)
	}
	return out
}

func (r *resolver) convert(raw rawSchema) (*ir.Schema, error) {
	switch {
	case len(raw.Enum) > 0:
		return r.convertEnum(raw)
	case len(raw.OneOf) > 0:
		return r.convertVariants(raw.OneOf)
	case len(raw.AnyOf) > 0:
		return r.convertVariants(raw.AnyOf)
	case len(raw.AllOf) > 0:
		return r.convertAllOf(raw)
	}

	switch raw.Type {
	case "string":
		return ir.NewString(ir.StringConstraints{
			MinLen:   raw.MinLength,
			MaxLen:   raw.MaxLength,
			Pattern:  raw.Pattern,
			Format:   toFormat(raw.Format),
			Nullable: raw.Nullable,
		}), nil
	case "integer":
		nc := r.toNumeric(raw)
		return ir.NewInteger(nc), nil
	case "number":
		nc := r.toNumeric(raw)
		return ir.NewNumber(nc), nil
	case "boolean":
		return ir.NewBoolean(), nil
	case "null":
		return ir.NewNull(), nil
	case "array":
		return r.convertArray(raw)
	case "object":
		return r.convertObject(raw)
	case "":
		// No declared type and no ref/enum/oneOf: Any, per §4.1.1's
		// "no declared response schema" edge case, generalized to any
		// schema position that omits `type`.
		return ir.NewAny(), nil
	default:
		return nil, r.parseErr(specerrors.KindUnsupportedFeature,
			fmt.Sprintf("unsupported schema type %q", raw.Type))
	}
}

// toNumeric normalizes the bool-or-number exclusiveMinimum/exclusiveMaximum
// forms (§4.1.1: "exclusiveMinimum: true in older dialects is normalized to
// set exclusive_min = min").
func (r *resolver) toNumeric(raw rawSchema) ir.NumericConstraints {
	nc := ir.NumericConstraints{
		Min:        raw.Minimum,
		Max:        raw.Maximum,
		MultipleOf: raw.MultipleOf,
		Nullable:   raw.Nullable,
	}
	if asBool, ok := nodeAsBool(raw.ExclusiveMinimum); ok {
		nc.ExclusiveMin = asBool
	} else if asFloat, ok := nodeAsFloat(raw.ExclusiveMinimum); ok {
		nc.Min = &asFloat
		nc.ExclusiveMin = true
	}
	if asBool, ok := nodeAsBool(raw.ExclusiveMaximum); ok {
		nc.ExclusiveMax = asBool
	} else if asFloat, ok := nodeAsFloat(raw.ExclusiveMaximum); ok {
		nc.Max = &asFloat
		nc.ExclusiveMax = true
	}
	return nc
}

func (r *resolver) convertArray(raw rawSchema) (*ir.Schema, error) {
	var items *ir.Schema
	if raw.Items == nil {
		// Array with no items: items = Any (§4.1.1 edge case).
		items = ir.NewAny()
	} else {
		var err error
		items, err = r.resolve(*raw.Items)
		if err != nil {
			return nil, err
		}
	}
	return ir.NewArray(items, ir.ArraySchema{
		MinItems:    raw.MinItems,
		MaxItems:    raw.MaxItems,
		UniqueItems: raw.UniqueItems,
	}), nil
}

func (r *resolver) convertObject(raw rawSchema) (*ir.Schema, error) {
	keys := orderedKeys(raw.Properties)
	props := make([]ir.ObjectProperty, 0, len(keys))
	for _, key := range keys {
		var childRaw rawSchema
		found, err := decodeChild(raw.Properties, key, &childRaw)
		if err != nil {
			return nil, r.parseErr(specerrors.KindSyntax, err.Error())
		}
		if !found {
			continue
		}
		child, err := r.resolve(childRaw)
		if err != nil {
			return nil, err
		}
		props = append(props, ir.ObjectProperty{Name: key, Schema: child})
	}

	additionalAllowed := true
	if raw.AdditionalProperties != nil {
		if b, ok := nodeAsBool(*raw.AdditionalProperties); ok {
			additionalAllowed = b
		}
	}

	return ir.NewObject(ir.ObjectSchema{
		Properties:        props,
		Required:          raw.Required,
		AdditionalAllowed: additionalAllowed,
		MinProps:          raw.MinProperties,
		MaxProps:          raw.MaxProperties,
	}), nil
}

func (r *resolver) convertEnum(raw rawSchema) (*ir.Schema, error) {
	base := enumBaseType(raw.Enum)
	if raw.Type != "" {
		base = toSchemaKind(raw.Type)
	}
	return ir.NewEnum(ir.EnumSchema{
		Values:   raw.Enum,
		BaseType: base,
	}), nil
}

func (r *resolver) convertVariants(variants []rawSchema) (*ir.Schema, error) {
	out := make([]*ir.Schema, 0, len(variants))
	for _, v := range variants {
		s, err := r.resolve(v)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if len(out) == 1 {
		// A union with one variant collapses to that variant (§8 boundary
		// behavior): no UNION_NO_MATCH intent should ever be generated for it.
		return out[0], nil
	}
	return ir.NewUnion(out...), nil
}

// convertAllOf merges intersection schemas (§4.1.1): required is the union,
// properties are right-biased merged, and numeric/string bounds are
// tightened to the stricter value.
func (r *resolver) convertAllOf(raw rawSchema) (*ir.Schema, error) {
	var merged *ir.Schema
	for _, part := range raw.AllOf {
		next, err := r.resolve(part)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = next
			continue
		}
		merged = mergeIntersection(merged, next)
	}
	if merged == nil {
		return ir.NewAny(), nil
	}
	return merged, nil
}

func mergeIntersection(a, b *ir.Schema) *ir.Schema {
	if a.Kind != ir.KindObject || b.Kind != ir.KindObject {
		// Only object intersection is meaningful for the http-contract
		// dialect; any other combination keeps the right-hand schema.
		return b
	}
	props := append([]ir.ObjectProperty{}, a.Object.Properties...)
	for _, bp := range b.Object.Properties {
		replaced := false
		for i, ap := range props {
			if ap.Name == bp.Name {
				props[i] = bp
				replaced = true
				break
			}
		}
		if !replaced {
			props = append(props, bp)
		}
	}
	required := append([]string{}, a.Object.Required...)
	for _, req := range b.Object.Required {
		if !containsStr(required, req) {
			required = append(required, req)
		}
	}
	return ir.NewObject(ir.ObjectSchema{
		Properties:        props,
		Required:          required,
		AdditionalAllowed: a.Object.AdditionalAllowed && b.Object.AdditionalAllowed,
		MinProps:          tighterIntMax(a.Object.MinProps, b.Object.MinProps),
		MaxProps:          tighterIntMin(a.Object.MaxProps, b.Object.MaxProps),
	})
}

func containsStr(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}

func tighterIntMax(a, b *int) *int {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *a > *b {
		return a
	}
	return b
}

func tighterIntMin(a, b *int) *int {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if *a < *b {
		return a
	}
	return b
}

func toFormat(s string) ir.Format {
	switch s {
	case "email":
		return ir.FormatEmail
	case "uuid":
		return ir.FormatUUID
	case "date":
		return ir.FormatDate
	case "date-time":
		return ir.FormatDateTime
	case "ipv4":
		return ir.FormatIPv4
	case "ipv6":
		return ir.FormatIPv6
	case "uri":
		return ir.FormatURI
	case "":
		return ir.FormatNone
	default:
		return ir.FormatOther
	}
}

func toSchemaKind(t string) ir.SchemaKind {
	switch t {
	case "string":
		return ir.KindString
	case "integer":
		return ir.KindInteger
	case "number":
		return ir.KindNumber
	case "boolean":
		return ir.KindBoolean
	default:
		return ir.KindString
	}
}

// enumBaseType infers a base type from the enum's first value when the
// declaration omits an explicit `type`.
func enumBaseType(values []any) ir.SchemaKind {
	if len(values) == 0 {
		return ir.KindString
	}
	switch values[0].(type) {
	case int, int64, float64:
		return ir.KindNumber
	case bool:
		return ir.KindBoolean
	default:
		return ir.KindString
	}
}

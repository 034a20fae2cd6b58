package payload

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/specerrors"
)

// ValidateGolden checks a golden record against op's schema (testable
// property 3, §8: "every value satisfies its schema variant's constraints
// when placeholder tokens are treated as valid strings"). String
// constraints (min/max length, pattern, format) are dropped from the
// derived schema before validating, since the golden builder deliberately
// leaves string leaves as unresolved placeholder tokens.
func ValidateGolden(op *ir.Operation, g Golden) error {
	if op.Body != nil && op.Body.Schema != nil {
		if err := validateAgainst("body", op.Body.Schema, g.Body); err != nil {
			return err
		}
	}
	if err := validateGroup(op.PathParams, g.PathParams, "path_params"); err != nil {
		return err
	}
	if err := validateGroup(op.QueryParams, g.QueryParams, "query_params"); err != nil {
		return err
	}
	if err := validateGroup(op.Headers, g.Headers, "headers"); err != nil {
		return err
	}
	return nil
}

func validateGroup(params []ir.Parameter, values map[string]any, label string) error {
	for _, p := range params {
		v, ok := values[p.Name]
		if !ok {
			continue
		}
		if err := validateAgainst(fmt.Sprintf("%s.%s", label, p.Name), p.Schema, v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateValue checks value against schema using the same loose-typed
// conversion ValidateGolden uses, exported so the LLM enhancer's
// structural-invariant validator (§4.9) can check an enhanced leaf's type
// and enum membership against the same derived schema a golden record
// would be checked against.
func ValidateValue(schema *ir.Schema, value any) error {
	return validateAgainst("value", schema, value)
}

func validateAgainst(path string, schema *ir.Schema, value any) error {
	js := toLooseJSONSchema(schema)
	resolved, err := js.Resolve(nil)
	if err != nil {
		return &specerrors.InvariantError{Invariant: "golden-record-schema", Detail: fmt.Sprintf("%s: %v", path, err)}
	}
	if err := resolved.Validate(value); err != nil {
		return &specerrors.InvariantError{Invariant: "golden-record-validity", Detail: fmt.Sprintf("%s: %v", path, err)}
	}
	return nil
}

// toLooseJSONSchema converts an ir.Schema to a jsonschema.Schema, omitting
// string-leaf constraints so a placeholder token always validates.
func toLooseJSONSchema(s *ir.Schema) *jsonschema.Schema {
	if s == nil {
		return &jsonschema.Schema{}
	}
	switch s.Kind {
	case ir.KindString:
		return &jsonschema.Schema{Type: "string"}
	case ir.KindInteger:
		js := &jsonschema.Schema{Type: "integer"}
		applyNumericConstraints(js, s.Numeric)
		return js
	case ir.KindNumber:
		js := &jsonschema.Schema{Type: "number"}
		applyNumericConstraints(js, s.Numeric)
		return js
	case ir.KindBoolean:
		return &jsonschema.Schema{Type: "boolean"}
	case ir.KindNull:
		return &jsonschema.Schema{Type: "null"}
	case ir.KindAny:
		return &jsonschema.Schema{}
	case ir.KindEnum:
		if s.Enum == nil {
			return &jsonschema.Schema{}
		}
		return &jsonschema.Schema{Enum: s.Enum.Values}
	case ir.KindArray:
		if s.Array == nil {
			return &jsonschema.Schema{Type: "array"}
		}
		return &jsonschema.Schema{
			Type:        "array",
			Items:       toLooseJSONSchema(s.Array.Items),
			MinItems:    s.Array.MinItems,
			MaxItems:    s.Array.MaxItems,
			UniqueItems: s.Array.UniqueItems,
		}
	case ir.KindObject:
		if s.Object == nil {
			return &jsonschema.Schema{Type: "object"}
		}
		props := make(map[string]*jsonschema.Schema, len(s.Object.Properties))
		for _, p := range s.Object.Properties {
			props[p.Name] = toLooseJSONSchema(p.Schema)
		}
		js := &jsonschema.Schema{
			Type:       "object",
			Properties: props,
			Required:   s.Object.Required,
		}
		if !s.Object.AdditionalAllowed {
			js.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}
		}
		return js
	case ir.KindUnion:
		if s.Union == nil {
			return &jsonschema.Schema{}
		}
		variants := make([]*jsonschema.Schema, 0, len(s.Union.Variants))
		for _, v := range s.Union.Variants {
			variants = append(variants, toLooseJSONSchema(v))
		}
		return &jsonschema.Schema{AnyOf: variants}
	default:
		return &jsonschema.Schema{}
	}
}

func applyNumericConstraints(js *jsonschema.Schema, c *ir.NumericConstraints) {
	if c == nil {
		return
	}
	if c.ExclusiveMin {
		js.ExclusiveMinimum = c.Min
	} else {
		js.Minimum = c.Min
	}
	if c.ExclusiveMax {
		js.ExclusiveMaximum = c.Max
	} else {
		js.Maximum = c.Max
	}
	js.MultipleOf = c.MultipleOf
}

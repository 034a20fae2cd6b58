package ir

import (
	"fmt"

	"github.com/specforge/specforge/specerrors"
)

// Validate checks the §3 invariants a parser must guarantee before handing
// a Specification downstream. dialect.Parse calls this on every parser's
// result;
// a violation here is an implementation bug (specerrors.InvariantError), not
// a caller input error.
func (s *Specification) Validate() error {
	if s == nil {
		return &specerrors.InvariantError{Invariant: "non-nil-spec", Detail: "specification is nil"}
	}

	seenOps := make(map[string]bool, len(s.Operations))
	for _, op := range s.Operations {
		if op.ID == "" {
			return &specerrors.InvariantError{Invariant: "operation-id", Detail: "operation id is empty"}
		}
		if seenOps[op.ID] {
			return &specerrors.InvariantError{
				Invariant: "unique-operation-id",
				Detail:    fmt.Sprintf("duplicate operation id %q", op.ID),
			}
		}
		seenOps[op.ID] = true

		if err := validateDedupedParams(op.PathParams, "path_params", op.ID); err != nil {
			return err
		}
		if err := validateDedupedParams(op.QueryParams, "query_params", op.ID); err != nil {
			return err
		}
		if err := validateDedupedParams(op.Headers, "headers", op.ID); err != nil {
			return err
		}

		for _, p := range op.AllParameters() {
			if err := validateSchemaRefs(s, p.Schema, op.ID); err != nil {
				return err
			}
		}
		for _, r := range op.Successes {
			if err := validateSchemaRefs(s, r.Schema, op.ID); err != nil {
				return err
			}
		}
		for _, r := range op.Errors {
			if err := validateSchemaRefs(s, r.Schema, op.ID); err != nil {
				return err
			}
		}
	}

	for _, t := range s.Types {
		if t.Schema != nil && t.Schema.Kind == KindObject {
			if err := validateRequiredSubset(t.Schema.Object, t.ID); err != nil {
				return err
			}
		}
		if t.Schema != nil && t.Schema.Kind == KindEnum {
			if err := validateEnumValues(t.Schema.Enum, t.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateDedupedParams(params []Parameter, location, opID string) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			return &specerrors.InvariantError{
				Invariant: "deduped-parameters",
				Detail:    fmt.Sprintf("operation %q has duplicate %s parameter %q", opID, location, p.Name),
			}
		}
		seen[p.Name] = true
	}
	return nil
}

func validateSchemaRefs(s *Specification, schema *Schema, opID string) error {
	if schema == nil {
		return nil
	}
	switch schema.Kind {
	case KindRef:
		if s.FindType(schema.Ref) == nil {
			return &specerrors.InvariantError{
				Invariant: "resolved-ref",
				Detail:    fmt.Sprintf("operation %q references undeclared type %q", opID, schema.Ref),
			}
		}
	case KindArray:
		if schema.Array != nil {
			return validateSchemaRefs(s, schema.Array.Items, opID)
		}
	case KindObject:
		if schema.Object != nil {
			if err := validateRequiredSubset(schema.Object, opID); err != nil {
				return err
			}
			for _, prop := range schema.Object.Properties {
				if err := validateSchemaRefs(s, prop.Schema, opID); err != nil {
					return err
				}
			}
		}
	case KindUnion:
		if schema.Union != nil {
			for _, v := range schema.Union.Variants {
				if err := validateSchemaRefs(s, v, opID); err != nil {
					return err
				}
			}
		}
	case KindEnum:
		return validateEnumValues(schema.Enum, opID)
	}
	return nil
}

func validateRequiredSubset(obj *ObjectSchema, context string) error {
	if obj == nil {
		return nil
	}
	props := make(map[string]bool, len(obj.Properties))
	for _, p := range obj.Properties {
		props[p.Name] = true
	}
	for _, r := range obj.Required {
		if !props[r] {
			return &specerrors.InvariantError{
				Invariant: "required-subset-of-properties",
				Detail:    fmt.Sprintf("%s: required property %q is not declared", context, r),
			}
		}
	}
	return nil
}

func validateEnumValues(e *EnumSchema, context string) error {
	if e == nil {
		return nil
	}
	for _, v := range e.Values {
		if !valueMatchesBaseType(v, e.BaseType) {
			return &specerrors.InvariantError{
				Invariant: "enum-value-base-type",
				Detail:    fmt.Sprintf("%s: enum value %v is not a %s", context, v, e.BaseType),
			}
		}
	}
	return nil
}

func valueMatchesBaseType(v any, base SchemaKind) bool {
	switch base {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInteger:
		switch v.(type) {
		case int, int32, int64, float64:
			return true
		}
		return false
	case KindNumber:
		switch v.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case KindBoolean:
		_, ok := v.(bool)
		return ok
	default:
		return true
	}
}

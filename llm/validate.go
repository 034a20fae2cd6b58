package llm

import (
	"fmt"
	"strings"

	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/payload"
)

// validateCandidate enforces §4.9's four acceptance conditions on a
// provider's candidate payload, rooted at schema (nil for a non-object
// leaf). Any violation names the Reason an *specerrors.LLMPolicyViolation
// reports.
func validateCandidate(schema *ir.Schema, original, candidate any) error {
	return validateAt("$", schema, original, candidate)
}

func validateAt(path string, schema *ir.Schema, original, candidate any) error {
	switch o := original.(type) {
	case map[string]any:
		c, ok := candidate.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: candidate is not an object", path)
		}
		if err := sameKeySet(path, o, c); err != nil {
			return err
		}
		obj := objectSchema(schema)
		for key, ov := range o {
			var propSchema *ir.Schema
			if obj != nil {
				propSchema, _ = obj.Get(key)
			}
			if err := validateAt(path+"."+key, propSchema, ov, c[key]); err != nil {
				return err
			}
		}
		return nil
	case []any:
		c, ok := candidate.([]any)
		if !ok {
			return fmt.Errorf("%s: candidate is not an array", path)
		}
		if len(c) != len(o) {
			return fmt.Errorf("%s: candidate array length changed", path)
		}
		items := arrayItemSchema(schema)
		for i := range o {
			if err := validateAt(fmt.Sprintf("%s[%d]", path, i), items, o[i], c[i]); err != nil {
				return err
			}
		}
		return nil
	case string:
		cs, ok := candidate.(string)
		if !ok {
			return fmt.Errorf("%s: candidate leaf changed primitive type", path)
		}
		if strings.Contains(cs, payload.PlaceholderStringPrefix) {
			return fmt.Errorf("%s: candidate still carries a placeholder token", path)
		}
		if schema != nil && schema.Kind == ir.KindEnum {
			if err := payload.ValidateValue(schema, cs); err != nil {
				return fmt.Errorf("%s: candidate enum value not declared: %w", path, err)
			}
		}
		return nil
	case float64, int:
		switch candidate.(type) {
		case float64, int:
			return nil
		default:
			return fmt.Errorf("%s: candidate leaf changed primitive type", path)
		}
	case bool:
		if _, ok := candidate.(bool); !ok {
			return fmt.Errorf("%s: candidate leaf changed primitive type", path)
		}
		return nil
	case nil:
		if candidate != nil {
			return fmt.Errorf("%s: candidate set a value where the original had none", path)
		}
		return nil
	default:
		return fmt.Errorf("%s: original payload held an unsupported Go type %T", path, original)
	}
}

func sameKeySet(path string, a, b map[string]any) error {
	if len(a) != len(b) {
		return fmt.Errorf("%s: candidate key set changed size", path)
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return fmt.Errorf("%s: candidate dropped key %q", path, k)
		}
	}
	return nil
}

func objectSchema(schema *ir.Schema) *ir.ObjectSchema {
	if schema == nil || schema.Kind != ir.KindObject {
		return nil
	}
	return schema.Object
}

func arrayItemSchema(schema *ir.Schema) *ir.Schema {
	if schema == nil || schema.Kind != ir.KindArray || schema.Array == nil {
		return nil
	}
	return schema.Array.Items
}

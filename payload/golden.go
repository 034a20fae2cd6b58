package payload

import (
	"fmt"
	"math"

	"github.com/specforge/specforge/ir"
)

// PlaceholderStringPrefix opens every golden-record string leaf (§4.3),
// exported so the LLM enhancer's structural validator (§4.9: "no
// placeholder token survives") can recognize an unenhanced leaf without
// re-deriving the format.
const PlaceholderStringPrefix = "__PLACEHOLDER_STRING_"

// Golden is the canonical minimal-valid value for one operation's inputs
// (§4.3), grouped the way Operation itself groups its parameters.
type Golden struct {
	PathParams  map[string]any `json:"path_params,omitempty"`
	QueryParams map[string]any `json:"query_params,omitempty"`
	Headers     map[string]any `json:"headers,omitempty"`
	Body        any            `json:"body,omitempty"`
}

// BuildGolden constructs the golden record for op. It is a pure function of
// op's schema: identical input produces a byte-identical record every time.
func BuildGolden(op *ir.Operation) Golden {
	g := Golden{
		PathParams:  map[string]any{},
		QueryParams: map[string]any{},
		Headers:     map[string]any{},
	}
	for _, p := range op.PathParams {
		if p.Required {
			g.PathParams[p.Name] = value(p.Schema, p.Name)
		}
	}
	for _, p := range op.QueryParams {
		if p.Required {
			g.QueryParams[p.Name] = value(p.Schema, p.Name)
		}
	}
	for _, p := range op.Headers {
		if p.Required {
			g.Headers[p.Name] = value(p.Schema, p.Name)
		}
	}
	if op.Body != nil {
		g.Body = value(op.Body.Schema, op.Body.Name)
	}
	return g
}

func (g Golden) clone() Golden {
	return Golden{
		PathParams:  deepCopy(g.PathParams).(map[string]any),
		QueryParams: deepCopy(g.QueryParams).(map[string]any),
		Headers:     deepCopy(g.Headers).(map[string]any),
		Body:        deepCopy(g.Body),
	}
}

// value builds the golden-record value for schema. fieldName drives the
// string placeholder token (§4.3) and has no other effect.
func value(schema *ir.Schema, fieldName string) any {
	if schema == nil {
		return nil
	}
	switch schema.Kind {
	case ir.KindString:
		return fmt.Sprintf("%s%s__", PlaceholderStringPrefix, fieldName)
	case ir.KindInteger:
		return goldenNumeric(schema.Numeric, true)
	case ir.KindNumber:
		return goldenNumeric(schema.Numeric, false)
	case ir.KindBoolean:
		return true
	case ir.KindNull, ir.KindAny:
		return nil
	case ir.KindEnum:
		if schema.Enum != nil && len(schema.Enum.Values) > 0 {
			return schema.Enum.Values[0]
		}
		return nil
	case ir.KindArray:
		return goldenArray(schema.Array, fieldName)
	case ir.KindObject:
		return goldenObject(schema.Object)
	case ir.KindUnion:
		if schema.Union == nil || len(schema.Union.Variants) == 0 {
			return nil
		}
		return value(schema.Union.Variants[0], fieldName)
	default:
		return nil
	}
}

// goldenNumeric picks the smallest value satisfying c: min if set (bumped
// past an exclusive bound), otherwise 1, rounded up to the nearest multiple
// when multiple_of applies.
func goldenNumeric(c *ir.NumericConstraints, integer bool) any {
	v := 1.0
	if c != nil && c.Min != nil {
		v = *c.Min
		if c.ExclusiveMin {
			v++
		}
	}
	if c != nil && c.Max != nil && v > *c.Max {
		v = *c.Max
		if c.ExclusiveMax {
			v--
		}
	}
	if c != nil && c.MultipleOf != nil && *c.MultipleOf != 0 {
		m := *c.MultipleOf
		if math.Mod(v, m) != 0 {
			v = math.Ceil(v/m) * m
		}
	}
	if integer {
		return int(v)
	}
	return v
}

func goldenArray(a *ir.ArraySchema, fieldName string) []any {
	if a == nil {
		return []any{}
	}
	count := 1
	if a.MinItems != nil && *a.MinItems > 1 {
		count = *a.MinItems
	}
	out := make([]any, count)
	for i := range out {
		out[i] = value(a.Items, fieldName)
	}
	return out
}

// goldenObject includes only required properties, plus any optional property
// a present required one pulls in via dependent_required, in declaration
// order (§4.3).
func goldenObject(obj *ir.ObjectSchema) map[string]any {
	out := map[string]any{}
	if obj == nil {
		return out
	}
	for _, prop := range obj.Properties {
		if obj.IsRequired(prop.Name) {
			out[prop.Name] = value(prop.Schema, prop.Name)
		}
	}
	for _, prop := range obj.Properties {
		if _, present := out[prop.Name]; !present {
			continue
		}
		deps, ok := obj.DependentRequired[prop.Name]
		if !ok {
			continue
		}
		for _, depName := range deps {
			if _, already := out[depName]; already {
				continue
			}
			if depSchema, ok := obj.Get(depName); ok {
				out[depName] = value(depSchema, depName)
			}
		}
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

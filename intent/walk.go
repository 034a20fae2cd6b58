package intent

import "github.com/specforge/specforge/ir"

// paramLocation identifies which declaration group a field descends from.
type paramLocation string

const (
	locationPath   paramLocation = "path"
	locationQuery  paramLocation = "query"
	locationHeader paramLocation = "header"
	locationBody   paramLocation = "body"
)

// field is one flattened, addressable scalar-or-container position within
// an operation's inputs, produced by a depth-first walk of its parameters
// and (for object-typed parameters) their nested properties, in the order
// §4.2 requires: path params, then query params, then headers, then body,
// each walked depth-first through nested objects in declaration order.
type field struct {
	location   paramLocation
	targetPath string
	name       string
	schema     *ir.Schema
	required   bool
	isTopLevel bool
}

// flatten builds the ordered field list an operation's intents are driven
// from.
func flatten(op *ir.Operation) []field {
	var out []field
	for _, p := range op.PathParams {
		out = appendParam(out, locationPath, p)
	}
	for _, p := range op.QueryParams {
		out = appendParam(out, locationQuery, p)
	}
	for _, p := range op.Headers {
		out = appendParam(out, locationHeader, p)
	}
	if op.Body != nil {
		if op.Body.Schema != nil && op.Body.Schema.Kind == ir.KindObject {
			// The body container itself is not a field; its properties are
			// the top-level fields (matching Scenario A: email/age, not
			// "body").
			out = appendObjectProps(out, locationBody, "", op.Body.Schema.Object)
		} else {
			out = appendParam(out, locationBody, *op.Body)
		}
	}
	return out
}

func appendParam(out []field, loc paramLocation, p ir.Parameter) []field {
	out = append(out, field{
		location:   loc,
		targetPath: p.Name,
		name:       p.Name,
		schema:     p.Schema,
		required:   p.Required,
		isTopLevel: true,
	})
	if p.Schema != nil && p.Schema.Kind == ir.KindObject {
		out = appendObjectProps(out, loc, p.Name, p.Schema.Object)
	}
	return out
}

func appendObjectProps(out []field, loc paramLocation, prefix string, obj *ir.ObjectSchema) []field {
	if obj == nil {
		return out
	}
	for _, prop := range obj.Properties {
		path := prop.Name
		if prefix != "" {
			path = prefix + "." + prop.Name
		}
		out = append(out, field{
			location:   loc,
			targetPath: path,
			name:       prop.Name,
			schema:     prop.Schema,
			required:   obj.IsRequired(prop.Name),
			isTopLevel: prefix == "",
		})
		if prop.Schema != nil && prop.Schema.Kind == ir.KindObject {
			out = appendObjectProps(out, loc, path, prop.Schema.Object)
		}
	}
	return out
}

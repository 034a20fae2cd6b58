package typedsource

import (
	"fmt"
	"strings"

	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/specerrors"
)

// resolver maps parsed type-expression annotations to ir.Schema, eagerly
// inlining named type references (§3 invariant 1) while guarding against
// reference cycles (§9).
type resolver struct {
	sourceName string
	raw        map[string]*rawTypeDecl
	resolving  map[string]bool
	// bounds maps an in-scope generic type parameter name to the schema its
	// bound resolves to (§4.1.3: "generic type applications are resolved
	// structurally when the parameter is bounded, otherwise the bound
	// becomes the schema").
	bounds map[string]*ir.Schema
	log    ir.Logger
}

func newResolver(sourceName string, decls []*rawTypeDecl, log ir.Logger) *resolver {
	r := &resolver{
		sourceName: sourceName,
		raw:        make(map[string]*rawTypeDecl, len(decls)),
		resolving:  map[string]bool{},
		bounds:     map[string]*ir.Schema{},
		log:        log,
	}
	for _, d := range decls {
		r.raw[d.name] = d
	}
	return r
}

func (r *resolver) parseErr(kind specerrors.ParseErrorKind, detail string) error {
	return &specerrors.ParseError{Path: r.sourceName, Kind: kind, Detail: detail}
}

func (r *resolver) resolveDecl(name string) (*ir.Schema, error) {
	if r.resolving[name] {
		return nil, r.parseErr(specerrors.KindUnsupportedFeature,
			fmt.Sprintf("cyclic type reference involving %q", name))
	}
	decl, ok := r.raw[name]
	if !ok {
		return nil, r.parseErr(specerrors.KindUnresolvedReference, fmt.Sprintf("undefined type %q", name))
	}
	r.resolving[name] = true
	schema, err := r.convertDecl(decl)
	delete(r.resolving, name)
	if err != nil {
		return nil, err
	}
	schema.Ref = name
	return schema, nil
}

func (r *resolver) convertDecl(decl *rawTypeDecl) (*ir.Schema, error) {
	switch decl.kind {
	case rawEnum:
		return r.convertEnumDecl(decl), nil
	case rawAlias:
		return r.mapAnnotation(decl.alias)
	default:
		return r.convertObjectDecl(decl)
	}
}

func (r *resolver) convertEnumDecl(decl *rawTypeDecl) *ir.Schema {
	var values []any
	for _, p := range splitTopLevel(decl.alias, '|') {
		p = strings.TrimSpace(p)
		if len(p) >= 2 {
			values = append(values, p[1:len(p)-1])
		}
	}
	return ir.NewEnum(ir.EnumSchema{Values: values, BaseType: ir.KindString, NamedTypeRef: decl.name})
}

func (r *resolver) convertObjectDecl(decl *rawTypeDecl) (*ir.Schema, error) {
	props := make([]ir.ObjectProperty, 0, len(decl.fields))
	var required []string
	for _, f := range decl.fields {
		schema, err := r.mapAnnotation(f.annotation)
		if err != nil {
			return nil, err
		}
		if f.optional {
			schema = applyNullable(schema)
		} else {
			required = append(required, f.name)
		}
		props = append(props, ir.ObjectProperty{Name: f.name, Schema: schema})
	}
	return ir.NewObject(ir.ObjectSchema{
		Properties:        props,
		Required:          required,
		AdditionalAllowed: false,
	}), nil
}

func (r *resolver) mapAnnotation(raw string) (*ir.Schema, error) {
	return r.mapExpr(parseTypeExpr(raw), raw)
}

func (r *resolver) mapExpr(t typeExpr, original string) (*ir.Schema, error) {
	if t.isLiteral {
		return ir.NewEnum(ir.EnumSchema{Values: []any{t.literal}, BaseType: literalBaseType(t.literal)}), nil
	}
	switch t.name {
	case "string":
		return ir.NewString(ir.StringConstraints{}), nil
	case "number":
		return ir.NewNumber(ir.NumericConstraints{}), nil
	case "boolean":
		return ir.NewBoolean(), nil
	case "null":
		return ir.NewNull(), nil
	case "undefined", "void":
		return applyNullable(ir.NewAny()), nil
	case "any", "unknown", "object":
		return ir.NewAny(), nil
	case "Array":
		return r.mapArray(t)
	case "Record", "Map":
		return r.mapRecord(t)
	case "Promise":
		// Unwrapped by the caller for return schemas; elsewhere treated as
		// its inner type (§4.1.3).
		if len(t.args) == 0 {
			return ir.NewAny(), nil
		}
		return r.mapExpr(t.args[0], "")
	case "Union":
		return r.mapUnion(t)
	default:
		if bound, ok := r.bounds[t.name]; ok {
			return bound, nil
		}
		if _, ok := r.raw[t.name]; ok {
			return r.resolveDecl(t.name)
		}
		r.log.Warn("unmapped type annotation, falling back to any", "annotation", original)
		return ir.NewAny(), nil
	}
}

func (r *resolver) mapArray(t typeExpr) (*ir.Schema, error) {
	var items *ir.Schema
	var err error
	if len(t.args) == 0 {
		items = ir.NewAny()
	} else {
		items, err = r.mapExpr(t.args[0], "")
		if err != nil {
			return nil, err
		}
	}
	return ir.NewArray(items, ir.ArraySchema{}), nil
}

func (r *resolver) mapRecord(t typeExpr) (*ir.Schema, error) {
	obj := ir.ObjectSchema{AdditionalAllowed: true}
	if len(t.args) >= 1 {
		key, err := r.mapExpr(t.args[0], "")
		if err != nil {
			return nil, err
		}
		obj.AdditionalKey = key
	}
	if len(t.args) >= 2 {
		val, err := r.mapExpr(t.args[1], "")
		if err != nil {
			return nil, err
		}
		obj.AdditionalValue = val
	}
	return ir.NewObject(obj), nil
}

func (r *resolver) mapUnion(t typeExpr) (*ir.Schema, error) {
	variants := make([]*ir.Schema, 0, len(t.args))
	for _, a := range t.args {
		s, err := r.mapExpr(a, "")
		if err != nil {
			return nil, err
		}
		variants = append(variants, s)
	}
	nonNull := make([]*ir.Schema, 0, len(variants))
	hasNull := false
	for _, v := range variants {
		if v.Kind == ir.KindNull {
			hasNull = true
			continue
		}
		nonNull = append(nonNull, v)
	}
	if len(nonNull) == 1 {
		if hasNull {
			return applyNullable(nonNull[0]), nil
		}
		return nonNull[0], nil
	}
	return ir.NewUnion(variants...), nil
}

func applyNullable(schema *ir.Schema) *ir.Schema {
	switch schema.Kind {
	case ir.KindString:
		c := *schema.String
		c.Nullable = true
		return ir.NewString(c)
	case ir.KindInteger:
		c := *schema.Numeric
		c.Nullable = true
		return ir.NewInteger(c)
	case ir.KindNumber:
		c := *schema.Numeric
		c.Nullable = true
		return ir.NewNumber(c)
	default:
		return ir.NewUnion(schema, ir.NewNull())
	}
}

func literalBaseType(v any) ir.SchemaKind {
	switch v.(type) {
	case float64, int:
		return ir.KindNumber
	case bool:
		return ir.KindBoolean
	default:
		return ir.KindString
	}
}

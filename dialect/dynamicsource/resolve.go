package dynamicsource

import (
	"fmt"

	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/specerrors"
)

// resolver maps parsed type-expression annotations to ir.Schema, eagerly
// inlining named type references (§3 invariant 1) while guarding against
// reference cycles (§9: "Cycles in the input are not supported — reject
// with UnsupportedFeature during parse").
type resolver struct {
	sourceName string
	raw        map[string]*rawTypeDecl
	resolving  map[string]bool
	log        ir.Logger
}

func newResolver(sourceName string, decls []*rawTypeDecl, log ir.Logger) *resolver {
	r := &resolver{
		sourceName: sourceName,
		raw:        make(map[string]*rawTypeDecl, len(decls)),
		resolving:  map[string]bool{},
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

// resolveDecl builds the fully-inlined schema for a single named type
// declaration, tagging it with Ref so the renderer can emit an import.
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
	if decl.kind == rawEnum {
		return r.convertEnumDecl(decl), nil
	}
	return r.convertObjectDecl(decl)
}

func (r *resolver) convertEnumDecl(decl *rawTypeDecl) *ir.Schema {
	values := make([]any, 0, len(decl.enums))
	for _, m := range decl.enums {
		values = append(values, parseLiteralValue(m.value))
	}
	return ir.NewEnum(ir.EnumSchema{
		Values:       values,
		BaseType:     enumBaseType(values),
		NamedTypeRef: decl.name,
	})
}

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

func (r *resolver) convertObjectDecl(decl *rawTypeDecl) (*ir.Schema, error) {
	props := make([]ir.ObjectProperty, 0, len(decl.fields))
	var required []string
	for _, f := range decl.fields {
		schema, err := r.mapAnnotation(f.annotation)
		if err != nil {
			return nil, err
		}
		props = append(props, ir.ObjectProperty{Name: f.name, Schema: schema})
		if !f.hasDefault {
			required = append(required, f.name)
		}
	}
	return ir.NewObject(ir.ObjectSchema{
		Properties:        props,
		Required:          required,
		AdditionalAllowed: false,
	}), nil
}

// mapAnnotation converts a single parsed annotation string to ir.Schema,
// per the exhaustive mapping table in §4.1.2.
func (r *resolver) mapAnnotation(raw string) (*ir.Schema, error) {
	return r.mapExpr(parseTypeExpr(raw), raw)
}

func (r *resolver) mapExpr(t typeExpr, original string) (*ir.Schema, error) {
	switch t.name {
	case "str":
		return ir.NewString(ir.StringConstraints{}), nil
	case "int":
		return ir.NewInteger(ir.NumericConstraints{}), nil
	case "float":
		return ir.NewNumber(ir.NumericConstraints{}), nil
	case "bool":
		return ir.NewBoolean(), nil
	case "None", "NoneType":
		return ir.NewNull(), nil
	case "Any", "object":
		return ir.NewAny(), nil
	case "List", "list", "Sequence", "Tuple", "tuple", "Set", "set", "FrozenSet", "frozenset":
		return r.mapListLike(t)
	case "Dict", "dict", "Mapping", "MutableMapping":
		return r.mapDictLike(t)
	case "Optional":
		return r.mapOptional(t)
	case "Union":
		return r.mapUnion(t)
	case "Literal":
		return r.mapLiteral(t), nil
	default:
		if _, ok := r.raw[t.name]; ok {
			return r.resolveDecl(t.name)
		}
		r.log.Warn("unmapped type annotation, falling back to Any", "annotation", original)
		return ir.NewAny(), nil
	}
}

func (r *resolver) mapListLike(t typeExpr) (*ir.Schema, error) {
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

func (r *resolver) mapDictLike(t typeExpr) (*ir.Schema, error) {
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

// mapOptional maps Optional[T] to map(T) with nullable=true (§4.1.2).
func (r *resolver) mapOptional(t typeExpr) (*ir.Schema, error) {
	if len(t.args) == 0 {
		return ir.NewAny(), nil
	}
	schema, err := r.mapExpr(t.args[0], "")
	if err != nil {
		return nil, err
	}
	return applyNullable(schema), nil
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
		// Kinds without a nullable flag of their own become a Union with
		// Null, the idiomatic way to mark them nullable (ir.Schema.IsNullable doc).
		return ir.NewUnion(schema, ir.NewNull())
	}
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
	// A union with exactly one meaningful (non-null) variant collapses to
	// that variant (§8 boundary behavior).
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

func (r *resolver) mapLiteral(t typeExpr) *ir.Schema {
	values := make([]any, 0, len(t.literals))
	for _, tok := range t.literals {
		values = append(values, parseLiteralValue(tok))
	}
	return ir.NewEnum(ir.EnumSchema{Values: values, BaseType: enumBaseType(values)})
}

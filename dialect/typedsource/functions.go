package typedsource

import (
	"regexp"
	"strings"

	"github.com/specforge/specforge/ir"
)

// rawFunction is a parsed function header, before schema resolution.
type rawFunction struct {
	name       string
	isAsync    bool
	generics   []genericParam
	params     []rawField
	returnType string
}

// genericParam is one `<T extends Bound>` type parameter.
type genericParam struct {
	name  string
	bound string
}

var funcHeaderRe = regexp.MustCompile(`(?s)^(?:export\s+)?(async\s+)?function\s+(\w+)\s*(?:<([^>]*)>)?\s*\(([\s\S]*?)\)\s*(?::\s*([^{]+))?\{`)

// collectFunctions runs the second pass of §4.1.3: top-level function
// declarations, reconstructed from brace-balanced statements.
func collectFunctions(src string) []rawFunction {
	var out []rawFunction
	for _, stmt := range splitStatements(src) {
		stmt = strings.TrimSpace(stmt)
		m := funcHeaderRe.FindStringSubmatch(stmt)
		if m == nil {
			continue
		}
		fn := rawFunction{
			isAsync:    m[1] != "",
			name:       m[2],
			returnType: strings.TrimSpace(m[5]),
		}
		fn.generics = parseGenerics(m[3])
		for _, raw := range splitTopLevel(m[4], ',') {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			fn.params = append(fn.params, parseParam(raw))
		}
		out = append(out, fn)
	}
	return out
}

var genericRe = regexp.MustCompile(`^(\w+)(?:\s+extends\s+(.+))?$`)

func parseGenerics(raw string) []genericParam {
	var out []genericParam
	for _, p := range splitTopLevel(raw, ',') {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m := genericRe.FindStringSubmatch(p)
		if m == nil {
			continue
		}
		out = append(out, genericParam{name: m[1], bound: strings.TrimSpace(m[2])})
	}
	return out
}

var paramRe = regexp.MustCompile(`^(\w+)(\?)?\s*(?::\s*(.+))?$`)

func parseParam(raw string) rawField {
	// Strip a default value (`= expr`) at top level, which is not part of
	// the type annotation.
	eqParts := splitTopLevel(raw, '=')
	raw = strings.TrimSpace(eqParts[0])
	m := paramRe.FindStringSubmatch(raw)
	if m == nil {
		return rawField{name: raw}
	}
	return rawField{
		name:       m[1],
		optional:   m[2] == "?",
		annotation: strings.TrimSpace(m[3]),
	}
}

// buildOperation converts a parsed function into an ir.Operation: all
// parameters bundled into a synthetic body object schema (§4.1.3,
// generalizing §4.1.2's function-dialect shape).
func (r *resolver) buildOperation(fn rawFunction, moduleHint string) (*ir.Operation, error) {
	for _, g := range fn.generics {
		if g.bound == "" {
			r.bounds[g.name] = ir.NewAny()
			continue
		}
		bound, err := r.mapAnnotation(g.bound)
		if err != nil {
			return nil, err
		}
		r.bounds[g.name] = bound
	}
	defer func() {
		for _, g := range fn.generics {
			delete(r.bounds, g.name)
		}
	}()

	props := make([]ir.ObjectProperty, 0, len(fn.params))
	var required []string
	for _, p := range fn.params {
		var schema *ir.Schema
		var err error
		if p.annotation == "" {
			schema = ir.NewAny()
		} else {
			schema, err = r.mapAnnotation(p.annotation)
			if err != nil {
				return nil, err
			}
		}
		if p.optional {
			schema = applyNullable(schema)
		} else {
			required = append(required, p.name)
		}
		props = append(props, ir.ObjectProperty{Name: p.name, Schema: schema})
	}

	isAsync := fn.isAsync
	returnType := fn.returnType
	if strings.HasPrefix(returnType, "Promise") {
		isAsync = true
	}

	var successSchema *ir.Schema
	if returnType == "" {
		successSchema = ir.NewAny()
	} else {
		schema, err := r.mapAnnotation(returnType)
		if err != nil {
			return nil, err
		}
		successSchema = schema
	}

	return &ir.Operation{
		ID:   fn.name,
		Kind: ir.NewFunctionKind(isAsync, moduleHint),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties:        props,
				Required:          required,
				AdditionalAllowed: false,
			}),
		},
		Successes: []ir.Response{{Status: 0, Schema: successSchema}},
	}, nil
}

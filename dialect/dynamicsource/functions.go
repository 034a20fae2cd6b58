package dynamicsource

import (
	"regexp"
	"strings"

	"github.com/specforge/specforge/ir"
)

// rawFunction is a parsed function header, before schema resolution.
type rawFunction struct {
	name       string
	isAsync    bool
	params     []rawField
	returnType string
}

var defHeaderRe = regexp.MustCompile(`^(async\s+)?def\s+(\w+)\s*\(([\s\S]*?)\)\s*(?:->\s*(.+?))?\s*:$`)

// collectFunctions runs the second pass of §4.1.2: collecting function
// declarations at module top level. Multi-line headers (params spanning
// several physical lines) are reassembled by joining lines up to the
// closing paren before matching.
func collectFunctions(lines []line) []rawFunction {
	var out []rawFunction
	i := 0
	for i < len(lines) {
		l := lines[i]
		if l.indent != 0 || !(strings.HasPrefix(l.text, "def ") || strings.HasPrefix(l.text, "async def ")) {
			i++
			continue
		}
		header, consumed := joinHeader(lines, i)
		m := defHeaderRe.FindStringSubmatch(header)
		if m == nil {
			i += consumed
			continue
		}
		fn := rawFunction{
			isAsync:    m[1] != "",
			name:       m[2],
			returnType: strings.TrimSpace(m[4]),
		}
		for _, raw := range splitTopLevel(m[3], ',') {
			raw = strings.TrimSpace(raw)
			if raw == "" || raw == "self" || raw == "cls" {
				continue
			}
			if strings.HasPrefix(raw, "*") {
				continue
			}
			fn.params = append(fn.params, parseParam(raw))
		}
		out = append(out, fn)
		i += consumed
	}
	return out
}

// joinHeader concatenates physical lines starting at i until parens
// balance, returning the joined text and the number of lines consumed.
func joinHeader(lines []line, i int) (string, int) {
	var b strings.Builder
	depth := 0
	consumed := 0
	for j := i; j < len(lines); j++ {
		b.WriteString(lines[j].text)
		b.WriteString(" ")
		consumed++
		for _, r := range lines[j].text {
			switch r {
			case '(':
				depth++
			case ')':
				depth--
			}
		}
		if depth <= 0 && strings.Contains(lines[j].text, ")") {
			break
		}
	}
	return strings.TrimSpace(b.String()), consumed
}

var paramRe = regexp.MustCompile(`^(\w+)\s*(?::\s*([^=]+?))?\s*(?:=\s*(.+))?$`)

func parseParam(raw string) rawField {
	m := paramRe.FindStringSubmatch(raw)
	if m == nil {
		return rawField{name: raw}
	}
	return rawField{
		name:       m[1],
		annotation: strings.TrimSpace(m[2]),
		hasDefault: m[3] != "",
	}
}

// buildOperation converts a parsed function into an ir.Operation: all
// parameters bundled into a synthetic body object schema (§4.1.2).
func (r *resolver) buildOperation(fn rawFunction, moduleHint string) (*ir.Operation, error) {
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
		props = append(props, ir.ObjectProperty{Name: p.name, Schema: schema})
		if !p.hasDefault {
			required = append(required, p.name)
		}
	}

	var successSchema *ir.Schema
	if fn.returnType == "" {
		successSchema = ir.NewAny()
	} else {
		schema, err := r.mapAnnotation(fn.returnType)
		if err != nil {
			return nil, err
		}
		successSchema = schema
	}

	return &ir.Operation{
		ID:   fn.name,
		Kind: ir.NewFunctionKind(fn.isAsync, moduleHint),
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

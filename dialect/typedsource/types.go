package typedsource

import (
	"regexp"
	"strings"
)

// rawKind classifies a parsed type declaration before schema resolution.
type rawKind int

const (
	rawObject rawKind = iota
	rawEnum
	rawAlias
)

// rawField is one interface/object-literal property.
type rawField struct {
	name       string
	annotation string
	optional   bool
}

// rawTypeDecl is a parsed (but not yet schema-resolved) top-level type
// declaration: an interface/object-literal type, a string-literal union
// type alias, or a plain type alias.
type rawTypeDecl struct {
	name   string
	kind   rawKind
	fields []rawField
	// alias holds the raw annotation text for rawEnum (a `"a" | "b"` union)
	// and rawAlias declarations.
	alias string
}

var interfaceHeaderRe = regexp.MustCompile(`(?s)^(?:export\s+)?interface\s+(\w+)(?:<[^>]*>)?\s*(?:extends\s+[^{]+)?\{(.*)\}$`)
var typeAliasRe = regexp.MustCompile(`(?s)^(?:export\s+)?type\s+(\w+)(?:<[^>]*>)?\s*=\s*(.+?);?$`)

// collectTypes runs the first pass of §4.1.3: interfaces and object-literal
// types, and named string-literal unions, collected in declaration order.
// decls are matched against whole statements, reconstructed from source by
// joining lines until braces/parens balance.
func collectTypes(src string) ([]*rawTypeDecl, []string) {
	var decls []*rawTypeDecl
	var order []string

	for _, stmt := range splitStatements(src) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if m := interfaceHeaderRe.FindStringSubmatch(stmt); m != nil {
			name := m[1]
			decls = append(decls, &rawTypeDecl{
				name:   name,
				kind:   rawObject,
				fields: parseInterfaceBody(m[2]),
			})
			order = append(order, name)
			continue
		}
		if m := typeAliasRe.FindStringSubmatch(stmt); m != nil {
			name := m[1]
			body := strings.TrimSpace(m[2])
			decl := &rawTypeDecl{name: name, alias: body}
			if isStringLiteralUnion(body) {
				decl.kind = rawEnum
			} else {
				decl.kind = rawAlias
			}
			decls = append(decls, decl)
			order = append(order, name)
		}
	}
	return decls, order
}

// splitStatements reconstructs top-level interface/type/function
// declarations from raw source text, one statement per top-level brace or
// semicolon-terminated group.
func splitStatements(src string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	for i := 0; i < len(src); i++ {
		c := src[i]
		cur.WriteByte(c)
		switch c {
		case '{', '(':
			depth++
		case ')':
			depth--
		case '}':
			depth--
			if depth == 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		case ';':
			if depth == 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		out = append(out, cur.String())
	}
	return out
}

var fieldRe = regexp.MustCompile(`^(\w+)(\?)?\s*:\s*(.+)$`)

func parseInterfaceBody(body string) []rawField {
	var out []rawField
	for _, raw := range splitTopLevel(body, ';') {
		for _, part := range splitTopLevel(raw, ',') {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			m := fieldRe.FindStringSubmatch(part)
			if m == nil {
				continue
			}
			out = append(out, rawField{
				name:       m[1],
				optional:   m[2] == "?",
				annotation: strings.TrimSpace(m[3]),
			})
		}
	}
	return out
}

// isStringLiteralUnion reports whether a type alias body is entirely a `|`
// union of quoted string literals (§4.1.3: "named string-literal unions map
// to Enum").
func isStringLiteralUnion(body string) bool {
	parts := splitTopLevel(body, '|')
	if len(parts) < 1 {
		return false
	}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) < 2 {
			return false
		}
		if (p[0] != '\'' && p[0] != '"') || p[len(p)-1] != p[0] {
			return false
		}
	}
	return true
}

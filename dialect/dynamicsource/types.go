package dynamicsource

import (
	"regexp"
	"strings"
)

// rawKind classifies a parsed class declaration before schema resolution.
type rawKind int

const (
	rawEnum rawKind = iota
	rawObject
)

// rawField is one dataclass/TypedDict/NamedTuple field: a name, its
// (unparsed) annotation text, and whether it carries a default value.
type rawField struct {
	name       string
	annotation string
	hasDefault bool
}

// rawEnumMember is one `NAME = value` line inside an Enum subclass body.
type rawEnumMember struct {
	name  string
	value string
}

// rawTypeDecl is a parsed (but not yet schema-resolved) class declaration:
// an enum-like class, or a dataclass/TypedDict/NamedTuple model class.
type rawTypeDecl struct {
	name    string
	kind    rawKind
	enums   []rawEnumMember
	fields  []rawField
}

var classHeaderRe = regexp.MustCompile(`^class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:$`)

// collectTypes runs the first pass of §4.1.2: collecting enum-like classes,
// data-class-like structures, tagged-dict models, and named-tuple-like
// structures, in source declaration order.
func collectTypes(lines []line) ([]*rawTypeDecl, []string) {
	var decls []*rawTypeDecl
	var order []string

	i := 0
	for i < len(lines) {
		l := lines[i]
		if l.indent != 0 {
			i++
			continue
		}
		if strings.HasPrefix(l.text, "@") {
			i++
			continue
		}
		m := classHeaderRe.FindStringSubmatch(l.text)
		if m == nil {
			i++
			continue
		}
		name := m[1]
		bases := m[2]
		bodyStart := i + 1
		end := blockEnd(lines, bodyStart, l.indent)
		body := lines[bodyStart:end]

		decl := &rawTypeDecl{name: name}
		if strings.Contains(bases, "Enum") {
			decl.kind = rawEnum
			decl.enums = parseEnumBody(body)
		} else {
			decl.kind = rawObject
			decl.fields = parseFieldBody(body)
		}
		decls = append(decls, decl)
		order = append(order, name)

		i = end
	}
	return decls, order
}

var enumMemberRe = regexp.MustCompile(`^(\w+)\s*=\s*(.+)$`)

func parseEnumBody(body []line) []rawEnumMember {
	var out []rawEnumMember
	for _, l := range body {
		if l.indent == 0 {
			continue
		}
		m := enumMemberRe.FindStringSubmatch(l.text)
		if m == nil {
			continue
		}
		out = append(out, rawEnumMember{name: m[1], value: strings.TrimSpace(m[2])})
	}
	return out
}

var fieldRe = regexp.MustCompile(`^(\w+)\s*:\s*([^=]+?)(?:\s*=\s*(.+))?$`)

func parseFieldBody(body []line) []rawField {
	var out []rawField
	minIndent := -1
	for _, l := range body {
		if minIndent == -1 || l.indent < minIndent {
			minIndent = l.indent
		}
	}
	for _, l := range body {
		if l.indent != minIndent {
			continue
		}
		if strings.HasPrefix(l.text, "def ") || strings.HasPrefix(l.text, "async def ") || strings.HasPrefix(l.text, "@") {
			continue
		}
		if l.text == "pass" || l.text == "..." {
			continue
		}
		m := fieldRe.FindStringSubmatch(l.text)
		if m == nil {
			continue
		}
		out = append(out, rawField{
			name:       m[1],
			annotation: strings.TrimSpace(m[2]),
			hasDefault: m[3] != "",
		})
	}
	return out
}

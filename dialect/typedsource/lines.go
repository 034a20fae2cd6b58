package typedsource

import "strings"

// stripLineComments removes "// ..." line comments and "/* ... */" block
// comments, respecting quoted and template-literal strings well enough for
// the declaration shapes this dialect accepts (interfaces, type aliases,
// function signatures).
func stripLineComments(src []byte) string {
	s := string(src)
	var b strings.Builder
	inSingle, inDouble, inTemplate, inBlock := false, false, false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inBlock {
			if c == '*' && i+1 < len(s) && s[i+1] == '/' {
				inBlock = false
				i++
			}
			continue
		}
		if !inSingle && !inDouble && !inTemplate && c == '/' && i+1 < len(s) {
			if s[i+1] == '/' {
				for i < len(s) && s[i] != '\n' {
					i++
				}
				b.WriteByte('\n')
				continue
			}
			if s[i+1] == '*' {
				inBlock = true
				i++
				continue
			}
		}
		switch c {
		case '\'':
			if !inDouble && !inTemplate {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle && !inTemplate {
				inDouble = !inDouble
			}
		case '`':
			if !inSingle && !inDouble {
				inTemplate = !inTemplate
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// splitTopLevel splits s on sep at bracket/paren/brace/angle nesting depth
// zero, respecting quoted strings. Shared by parameter lists, interface
// bodies, and generic argument lists.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	inSingle, inDouble := false, false
	start := 0
	for i, r := range s {
		switch r {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '(', '[', '{', '<':
			if !inSingle && !inDouble {
				depth++
			}
		case ')', ']', '}', '>':
			if !inSingle && !inDouble {
				depth--
			}
		case sep:
			if !inSingle && !inDouble && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// findBalanced returns the index of the character matching open/close
// bracket pair, starting the scan at open's index, or -1 if unbalanced.
func findBalanced(s string, openIdx int, open, close byte) int {
	depth := 0
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Package stringutil provides naming and casing helpers shared by the
// dialect parsers, intent generator, and renderer.
package stringutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.AmericanEnglish, cases.NoLower)

// Title converts s to locale-stable title case, used when synthesizing
// human-readable intent descriptions (e.g. "email" -> "Email").
func Title(s string) string {
	if s == "" {
		return s
	}
	return titleCaser.String(s)
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeIdentifier replaces runs of non-alphanumeric characters with a
// single underscore, matching the HTTP-contract parser's operation-id
// synthesis rule (§4.1.1: "<method>_<path-with-non-alnum-to-underscore>").
func SanitizeIdentifier(s string) string {
	sanitized := nonAlnum.ReplaceAllString(s, "_")
	return strings.Trim(sanitized, "_")
}

// ToSnakeCase converts a PascalCase or camelCase identifier to snake_case.
// A run of capitals is kept as one word ("UserID" -> "user_id").
func ToSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToPascalCase converts a snake_case or kebab-case identifier to PascalCase.
func ToPascalCase(s string) string {
	parts := regexp.MustCompile(`[_\-]+`).Split(s, -1)
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(Title(p))
	}
	return b.String()
}

// ToCamelCase converts a snake_case or kebab-case identifier to camelCase,
// used by the renderer to turn a fixture BindName ("created_user") into a
// Go-idiomatic local variable name ("createdUser").
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return pascal
	}
	r := []rune(pascal)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// ResourceNameFromPath extracts a singular resource name from the last
// static path segment, mirroring the dependency analyzer's rule
// ("/users" -> "user").
func ResourceNameFromPath(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segs) - 1; i >= 0; i-- {
		seg := segs[i]
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		return Singularize(seg)
	}
	return ""
}

// Singularize applies a best-effort English singularization, sufficient for
// REST-style resource collection names ("users" -> "user", "categories" ->
// "category", "buses" -> "bus").
func Singularize(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "ses") && len(s) > 3:
		return s[:len(s)-2]
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") && len(s) > 1:
		return s[:len(s)-1]
	default:
		return s
	}
}

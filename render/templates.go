package render

import (
	"bytes"
	"embed"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/specforge/specforge/internal/stringutil"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates *template.Template

func init() {
	var err error
	templates, err = template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		panic(err)
	}
}

var templateFuncs = template.FuncMap{
	"quote":  quoteString,
	"pascal": stringutil.ToPascalCase,
}

func quoteString(s string) string { return GoLiteral(s) }

// executeTemplate renders name with data and formats the result with
// goimports, resolving the generated file's import block the same way the
// teacher's generator formats generated client code with go/format, extended
// to import-aware formatting since rendered cases reference stdlib packages
// the template itself does not declare one-for-one.
func executeTemplate(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}

	formatted, err := imports.Process("", buf.Bytes(), nil)
	if err != nil {
		// Fall back to the unformatted source rather than fail the whole
		// operation over a cosmetic formatting error.
		return buf.Bytes(), nil
	}
	return formatted, nil
}

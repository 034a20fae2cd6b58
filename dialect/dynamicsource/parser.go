// Package dynamicsource parses the dynamic-source dialect (§4.1.2): a
// dynamically-typed function source file (Python-shaped: enum classes,
// dataclass/TypedDict/NamedTuple models, and module-level function
// declarations with type annotations).
package dynamicsource

import (
	"path"
	"strings"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/ir"
)

func init() {
	dialect.Register(parser{})
}

type parser struct{}

func (parser) Name() dialect.Name { return dialect.DynamicSource }

func (p parser) Parse(src []byte, opts dialect.Options) (*ir.Specification, error) {
	sourceName := opts.SourceName
	if sourceName == "" {
		sourceName = "<dynamic-source>"
	}
	log := ir.Logger(ir.NopLogger{})
	if opts.Logger != nil {
		log = opts.Logger
	}

	lines := splitLines(src)

	rawTypes, order := collectTypes(lines)
	res := newResolver(sourceName, rawTypes, log)

	typeDecls := make([]*ir.TypeDecl, 0, len(order))
	for _, name := range order {
		schema, err := res.resolveDecl(name)
		if err != nil {
			return nil, err
		}
		typeDecls = append(typeDecls, &ir.TypeDecl{
			ID:     name,
			Name:   name,
			Kind:   declKind(res.raw[name]),
			Schema: schema,
		})
	}

	moduleHint := moduleHintFromSource(sourceName)
	rawFns := collectFunctions(lines)
	operations := make([]*ir.Operation, 0, len(rawFns))
	for _, fn := range rawFns {
		op, err := res.buildOperation(fn, moduleHint)
		if err != nil {
			return nil, err
		}
		operations = append(operations, op)
	}

	return &ir.Specification{
		Title:      moduleHint,
		Operations: operations,
		Types:      typeDecls,
	}, nil
}

func declKind(decl *rawTypeDecl) ir.TypeDeclKind {
	if decl.kind == rawEnum {
		return ir.TypeDeclEnum
	}
	return ir.TypeDeclObject
}

// moduleHintFromSource derives a module_hint from the source name (e.g.
// "users/service.py" -> "service"), matching FunctionKind.ModuleHint's
// purpose of letting the renderer reconstruct an import path.
func moduleHintFromSource(sourceName string) string {
	base := path.Base(sourceName)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Package typedsource parses the typed-source dialect (§4.1.3): a
// statically-typed function source file (TypeScript-shaped: interfaces,
// string-literal union types, and top-level function declarations with
// type annotations).
package typedsource

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

func (parser) Name() dialect.Name { return dialect.TypedSource }

func (p parser) Parse(src []byte, opts dialect.Options) (*ir.Specification, error) {
	sourceName := opts.SourceName
	if sourceName == "" {
		sourceName = "<typed-source>"
	}
	log := ir.Logger(ir.NopLogger{})
	if opts.Logger != nil {
		log = opts.Logger
	}

	clean := stripLineComments(src)

	rawTypes, order := collectTypes(clean)
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
	rawFns := collectFunctions(clean)
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
	switch decl.kind {
	case rawEnum:
		return ir.TypeDeclEnum
	case rawAlias:
		return ir.TypeDeclAlias
	default:
		return ir.TypeDeclObject
	}
}

func moduleHintFromSource(sourceName string) string {
	base := path.Base(sourceName)
	return strings.TrimSuffix(base, path.Ext(base))
}

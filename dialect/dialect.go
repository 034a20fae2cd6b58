// Package dialect defines the pluggable source-dialect abstraction (§4.1 of
// the specification): each of the three accepted input dialects
// (http-contract, dynamic-source, typed-source) implements Parser and
// registers itself so the pipeline driver can dispatch on the
// source_dialect tag from a GenerationRequest without depending on any
// concrete dialect package directly.
package dialect

import (
	"fmt"

	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/specerrors"
)

// Name identifies one of the three accepted source dialects.
type Name string

const (
	HTTPContract  Name = "http-contract"
	DynamicSource Name = "dynamic-source"
	TypedSource   Name = "typed-source"
)

// Options configures a single Parse call.
type Options struct {
	// Logger receives diagnostic output during parsing (e.g. "any with a
	// diagnostic" for unmapped type annotations). Defaults to ir.NopLogger.
	Logger ir.Logger
	// SourceName identifies the source for error messages (file path, etc.).
	SourceName string
}

func (o Options) logger() ir.Logger {
	if o.Logger == nil {
		return ir.NopLogger{}
	}
	return o.Logger
}

// Parser parses one dialect's source text into the shared IR.
type Parser interface {
	Name() Name
	Parse(src []byte, opts Options) (*ir.Specification, error)
}

var registry = map[Name]Parser{}

// Register adds a dialect parser to the registry. Dialect packages call
// this from an init() function.
func Register(p Parser) {
	registry[p.Name()] = p
}

// Lookup returns the registered parser for name, if any.
func Lookup(name Name) (Parser, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names returns every registered dialect name, in a fixed, stable order
// (used by the `specforge dialects` introspection command).
func Names() []Name {
	fixed := []Name{HTTPContract, DynamicSource, TypedSource}
	out := make([]Name, 0, len(fixed))
	for _, n := range fixed {
		if _, ok := registry[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Parse dispatches src to the registered parser for name, validating the
// resulting IR before returning it.
func Parse(name Name, src []byte, opts Options) (*ir.Specification, error) {
	p, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", specerrors.ErrUnsupportedDialect, name)
	}
	spec, err := p.Parse(src, opts)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

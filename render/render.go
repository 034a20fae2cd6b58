// Package render turns an (Operation, Payload set, optional FixtureProgram)
// triple into generated test source text for one of three target
// frameworks (§4.8): a pure function of its inputs, so the same triple
// always renders to byte-identical text.
//
// Templates handle output formatting only; this package's Go code decides
// everything else (body literals, path expressions, fixture wiring) and
// hands the template pre-computed leaf values, mirroring the teacher's
// "templates format, Go code decides" design principle.
package render

import (
	"fmt"

	"github.com/specforge/specforge/fixture"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/payload"
	"github.com/specforge/specforge/specerrors"
)

// Framework identifies one of the three accepted target frameworks (§4.8).
type Framework string

const (
	HTTPSync       Framework = "http-sync"
	HTTPAsync      Framework = "http-async"
	FunctionDirect Framework = "function-direct"
)

// Options configures a single Render call.
type Options struct {
	Framework Framework
	// BaseURL is substituted literally at render time (HTTP targets only).
	BaseURL string
	Logger  ir.Logger
}

func (o Options) logger() ir.Logger {
	if o.Logger == nil {
		return ir.NopLogger{}
	}
	return o.Logger
}

// GeneratedMarker opens every rendered file: a fixed comment identifying it
// as generated and forbidding hand-edits (§4.8).
const GeneratedMarker = "// Code generated by specforge. DO NOT EDIT."

// Render renders op's generated test file for opts.Framework. spec is
// consulted only to resolve the HTTP method/path of Producer operations a
// fixture program references (§4.6); it may be nil for function operations,
// which never carry a FixtureProgram. prog is nil for operations that need
// no setup and always nil for function operations.
func Render(spec *ir.Specification, op *ir.Operation, payloads []payload.Payload, prog *fixture.FixtureProgram, opts Options) ([]byte, error) {
	if op == nil {
		return nil, &specerrors.RenderError{Framework: string(opts.Framework), Detail: "operation is nil"}
	}

	data, err := buildFileData(spec, op, payloads, prog, opts)
	if err != nil {
		return nil, &specerrors.RenderError{
			OperationID: op.ID,
			Framework:   string(opts.Framework),
			Detail:      "building template data",
			Cause:       err,
		}
	}

	name, err := templateNameFor(opts.Framework)
	if err != nil {
		return nil, &specerrors.RenderError{OperationID: op.ID, Framework: string(opts.Framework), Cause: err}
	}

	out, err := executeTemplate(name, data)
	if err != nil {
		return nil, &specerrors.RenderError{
			OperationID: op.ID,
			Framework:   string(opts.Framework),
			Detail:      "executing template",
			Cause:       err,
		}
	}

	if sentinel := findLeakedSentinel(out); sentinel != "" {
		return nil, &specerrors.RenderError{
			OperationID: op.ID,
			Framework:   string(opts.Framework),
			Detail:      fmt.Sprintf("placeholder sentinel %q leaked into rendered output", sentinel),
		}
	}

	return out, nil
}

func templateNameFor(f Framework) (string, error) {
	switch f {
	case HTTPSync:
		return "http_sync.go.tmpl", nil
	case HTTPAsync:
		return "http_async.go.tmpl", nil
	case FunctionDirect:
		return "function_direct.go.tmpl", nil
	default:
		return "", fmt.Errorf("unknown target framework %q", f)
	}
}

// FileName returns the stable artifact path for op's rendered test file
// (§6: "tests/<operation-id>.<ext>").
func FileName(op *ir.Operation) string {
	return "tests/" + op.ID + ".go"
}

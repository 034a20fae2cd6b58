package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/specforge/specforge/fixture"
	"github.com/specforge/specforge/internal/stringutil"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/payload"
)

// fileData is the template data shared by all three target frameworks. Not
// every field applies to every framework; unused fields are simply left
// zero (§3 invariant 6's "orthogonal fields" philosophy applied to render
// data as well as schema data).
type fileData struct {
	Marker       string
	PackageName  string
	OperationID  string
	TestFuncName string
	Description  string

	// HTTP-only.
	Method       string
	PathTemplate string
	BaseURL      string
	HasFixture   bool
	Setup        []fixtureStepData
	Teardown     []fixtureStepData
	Cases        []caseData

	// Function-only.
	IsAsync    bool
	ModuleHint string
}

type fixtureStepData struct {
	VarName       string
	OperationID   string
	ResourceType  string
	Method        string
	PathTemplate  string
	BodyLiteral   string
	UniqueFields  []string
	PathParamName string
}

type paramData struct {
	Name     string
	Literal  string
	BoundVar string // non-empty if the value must come from a fixture variable
}

type caseData struct {
	Name        string
	IntentID    string
	Description string

	// HTTP.
	PathParams     []paramData
	QueryParams    []paramData
	Headers        []paramData
	HasBody        bool
	BodyLiteral    string
	ExpectedStatus int

	// Function.
	ArgsLiteral    string
	ExpectAnyValue bool

	// PathExpr is the Go expression computing the request path (HTTP only).
	PathExpr string
}

func buildFileData(spec *ir.Specification, op *ir.Operation, payloads []payload.Payload, prog *fixture.FixtureProgram, opts Options) (*fileData, error) {
	data := &fileData{
		Marker:       GeneratedMarker,
		PackageName:  "generatedtests",
		OperationID:  op.ID,
		TestFuncName: "Test" + stringutil.ToPascalCase(stringutil.SanitizeIdentifier(op.ID)),
		Description:  op.Description,
		BaseURL:      opts.BaseURL,
	}

	isHTTP := op.Kind.Tag == ir.KindTagHTTP
	if isHTTP {
		data.Method = string(op.Kind.HTTP.Method)
		data.PathTemplate = op.Kind.HTTP.Path
	} else if op.Kind.Function != nil {
		data.IsAsync = op.Kind.Function.IsAsync
		data.ModuleHint = op.Kind.Function.ModuleHint
	}

	boundVarByPathParam := map[string]string{}
	if prog != nil {
		setup, teardown, bound, err := buildFixtureSteps(spec, prog)
		if err != nil {
			return nil, err
		}
		data.HasFixture = len(setup) > 0
		data.Setup = setup
		data.Teardown = teardown
		boundVarByPathParam = bound
	}

	for _, p := range payloads {
		c, err := buildCase(op, p, boundVarByPathParam)
		if err != nil {
			return nil, err
		}
		data.Cases = append(data.Cases, c)
	}

	return data, nil
}

func buildCase(op *ir.Operation, p payload.Payload, boundVarByPathParam map[string]string) (caseData, error) {
	c := caseData{
		Name:           subtestName(p),
		IntentID:       string(p.IntentID),
		ExpectedStatus: p.ExpectedStatus,
	}

	if op.Kind.Tag == ir.KindTagFunction {
		c.ExpectAnyValue = p.ExpectedStatus == 0 && string(p.IntentID) == "HAPPY_PATH"
		obj := bodyObjectSchema(op)
		c.ArgsLiteral = bodyLiteral(p.Body, obj, string(p.IntentID) == "HAPPY_PATH")
		return c, nil
	}

	for _, param := range op.PathParams {
		c.PathParams = append(c.PathParams, paramDataFor(param.Name, p.PathParams, boundVarByPathParam))
	}
	for _, param := range op.QueryParams {
		c.QueryParams = append(c.QueryParams, paramDataFor(param.Name, p.QueryParams, nil))
	}
	for _, param := range op.Headers {
		c.Headers = append(c.Headers, paramDataFor(param.Name, p.Headers, nil))
	}
	if p.Body != nil {
		c.HasBody = true
		c.BodyLiteral = GoLiteral(p.Body)
	}

	expr, err := pathExpr(op.Kind.HTTP.Path, c.PathParams)
	if err != nil {
		return caseData{}, err
	}
	c.PathExpr = expr
	return c, nil
}

func paramDataFor(name string, values map[string]any, boundVarByName map[string]string) paramData {
	pd := paramData{Name: name}
	if boundVarByName != nil {
		if v, ok := values[name]; ok {
			if s, isStr := v.(string); isStr && strings.HasPrefix(s, "USE_CREATED_RESOURCE_") {
				if varName, bound := boundVarByName[name]; bound {
					pd.BoundVar = varName
					return pd
				}
			}
		}
	}
	pd.Literal = GoLiteral(values[name])
	return pd
}

// subtestName names a t.Run subtest, e.g. "REQUIRED_FIELD_MISSING/email" or
// just "HAPPY_PATH" when the intent targets no single field.
func subtestName(p payload.Payload) string {
	if p.TargetField == "" {
		return string(p.IntentID)
	}
	return string(p.IntentID) + "/" + p.TargetField
}

func bodyObjectSchema(op *ir.Operation) *ir.ObjectSchema {
	if op.Body == nil || op.Body.Schema == nil || op.Body.Schema.Kind != ir.KindObject {
		return nil
	}
	return op.Body.Schema.Object
}

// bodyLiteral renders body as a Go map literal. When convertEnums is true
// (the HAPPY_PATH case only, §4.8: "enum string values in happy-path
// payloads are converted to the named enum type at call time"), any
// top-level field whose schema is a named enum is wrapped in its declared
// type's conversion instead of left as a raw string.
func bodyLiteral(body any, obj *ir.ObjectSchema, convertEnums bool) string {
	m, ok := body.(map[string]any)
	if !ok || obj == nil {
		return GoLiteral(body)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("map[string]any{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		v := m[k]
		lit := GoLiteral(v)
		if convertEnums {
			if schema, found := obj.Get(k); found && schema.Kind == ir.KindEnum && schema.Enum != nil && schema.Enum.NamedTypeRef != "" {
				if s, isStr := v.(string); isStr {
					lit = stringutil.ToPascalCase(schema.Enum.NamedTypeRef) + "(" + strconv.Quote(s) + ")"
				}
			}
		}
		b.WriteString(strconv.Quote(k) + ": " + lit)
	}
	b.WriteString("}")
	return b.String()
}

// buildFixtureSteps walks prog's instructions into setup/teardown template
// data, resolving each step's Producer operation's method/path from spec
// (the compiled FixtureProgram carries only the operation id). It also
// returns the path-param -> Go variable name bindings the caller substitutes
// into case path params (§4.8's USE_CREATED_RESOURCE_ sentinel resolution).
func buildFixtureSteps(spec *ir.Specification, prog *fixture.FixtureProgram) ([]fixtureStepData, []fixtureStepData, map[string]string, error) {
	var setup, teardown []fixtureStepData
	bound := map[string]string{}

	var pending *fixtureStepData
	for _, instr := range prog.Instructions {
		switch instr.Kind {
		case fixture.InstructionCreateResource:
			c := instr.CreateResource
			producer := spec.FindOperation(c.OperationID)
			if producer == nil {
				return nil, nil, nil, fmt.Errorf("fixture references unknown operation %q", c.OperationID)
			}
			pending = &fixtureStepData{
				OperationID:  c.OperationID,
				ResourceType: c.ResourceType,
				Method:       string(producer.Kind.HTTP.Method),
				PathTemplate: producer.Kind.HTTP.Path,
				BodyLiteral:  GoLiteral(c.Body),
				UniqueFields: c.UniqueFields,
			}
		case fixture.InstructionCaptureIdFrom:
			if pending != nil {
				pending.VarName = goVarName(instr.CaptureIdFrom.BindName)
			}
		case fixture.InstructionBindPlaceholder:
			if pending != nil {
				pending.PathParamName = instr.BindPlaceholder.PathParamName
				bound[pending.PathParamName] = pending.VarName
				setup = append(setup, *pending)
				pending = nil
			}
		case fixture.InstructionDeleteResource:
			d := instr.DeleteResource
			teardown = append(teardown, fixtureStepData{
				VarName:      goVarName(d.BindName),
				ResourceType: d.ResourceType,
			})
		case fixture.InstructionHandleDeleteFailure:
			// Represented directly by the teardown template's error-tolerant
			// call shape; no separate data needed.
		}
	}
	return setup, teardown, bound, nil
}

func goVarName(bindName string) string {
	return stringutil.ToCamelCase(bindName)
}

// pathExpr builds the Go expression that computes the request path for a
// case at render time: the template's static segments joined with either a
// quoted literal or a bound fixture variable per {name} placeholder. Parsing
// via uritemplate keeps the variable extraction RFC 6570-correct instead of
// ad hoc brace-splitting.
func pathExpr(pathTemplate string, params []paramData) (string, error) {
	tpl, err := uritemplate.New(pathTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing path template %q: %w", pathTemplate, err)
	}
	names := tpl.Varnames()
	if len(names) == 0 {
		return strconv.Quote(pathTemplate), nil
	}

	byName := make(map[string]paramData, len(params))
	for _, p := range params {
		byName[p.Name] = p
	}

	format := pathTemplate
	args := make([]string, 0, len(names))
	for _, name := range names {
		format = strings.Replace(format, "{"+name+"}", "%v", 1)
		p, ok := byName[name]
		if !ok {
			return "", fmt.Errorf("path template references undeclared param %q", name)
		}
		if p.BoundVar != "" {
			args = append(args, p.BoundVar)
		} else {
			args = append(args, p.Literal)
		}
	}
	return fmt.Sprintf("fmt.Sprintf(%s, %s)", strconv.Quote(format), strings.Join(args, ", ")), nil
}

// findLeakedSentinel reports the first fixture placeholder sentinel found
// verbatim in rendered output, which would mean a case's path param was
// never resolved to its bound fixture variable (§9: "render-time
// substitution ... must be total; fail closed if a sentinel leaks into a
// final test file").
func findLeakedSentinel(out []byte) string {
	const prefix = "USE_CREATED_RESOURCE_"
	if i := strings.Index(string(out), prefix); i >= 0 {
		return prefix
	}
	return ""
}

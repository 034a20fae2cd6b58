package httpcontract

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/internal/stringutil"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/specerrors"
)

func init() {
	dialect.Register(parser{})
}

type parser struct{}

func (parser) Name() dialect.Name { return dialect.HTTPContract }

func (p parser) Parse(src []byte, opts dialect.Options) (*ir.Specification, error) {
	sourceName := opts.SourceName
	if sourceName == "" {
		sourceName = "<http-contract>"
	}
	log := dialectLogger(opts)

	var doc rawDocument
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, &specerrors.ParseError{Path: sourceName, Kind: specerrors.KindSyntax, Detail: "invalid YAML", Cause: err}
	}

	types, typeOrder, err := decodeTypes(doc.Types, sourceName)
	if err != nil {
		return nil, err
	}

	res := newResolver(sourceName, types)

	typeDecls := make([]*ir.TypeDecl, 0, len(typeOrder))
	for _, name := range typeOrder {
		raw := types[name]
		schema, err := res.resolveRef(name)
		if err != nil {
			return nil, err
		}
		typeDecls = append(typeDecls, &ir.TypeDecl{
			ID:     name,
			Name:   name,
			Kind:   declKind(raw),
			Schema: schema,
		})
	}

	operations, err := decodeOperations(doc.Paths, res, sourceName, log)
	if err != nil {
		return nil, err
	}

	return &ir.Specification{
		Title:      doc.Title,
		Version:    doc.Version,
		Operations: operations,
		Types:      typeDecls,
	}, nil
}

func dialectLogger(opts dialect.Options) ir.Logger {
	if opts.Logger == nil {
		return ir.NopLogger{}
	}
	return opts.Logger
}

// decodeTypes decodes the `types` section preserving declaration order.
func decodeTypes(node yaml.Node, sourceName string) (map[string]rawSchema, []string, error) {
	keys := orderedKeys(node)
	types := make(map[string]rawSchema, len(keys))
	for _, key := range keys {
		var raw rawSchema
		if _, err := decodeChild(node, key, &raw); err != nil {
			return nil, nil, &specerrors.ParseError{Path: sourceName, Kind: specerrors.KindSyntax, Detail: "decoding type " + key, Cause: err}
		}
		types[key] = raw
	}
	return types, keys, nil
}

func declKind(raw rawSchema) ir.TypeDeclKind {
	switch {
	case len(raw.Enum) > 0:
		return ir.TypeDeclEnum
	case raw.Type == "object":
		return ir.TypeDeclObject
	default:
		return ir.TypeDeclAlias
	}
}

// decodeOperations decodes the `paths` section, preserving path and method
// declaration order.
func decodeOperations(pathsNode yaml.Node, res *resolver, sourceName string, log ir.Logger) ([]*ir.Operation, error) {
	var operations []*ir.Operation
	for _, path := range orderedKeys(pathsNode) {
		methodsNode, ok := childNode(pathsNode, path)
		if !ok {
			continue
		}
		for _, methodKey := range orderedKeys(methodsNode) {
			method, ok := toMethod(methodKey)
			if !ok {
				log.Warn("skipping unrecognized method", "method", methodKey, "path", path)
				continue
			}
			var raw rawOperation
			if _, err := decodeChild(methodsNode, methodKey, &raw); err != nil {
				return nil, &specerrors.ParseError{Path: sourceName, Kind: specerrors.KindSyntax, Detail: "decoding " + methodKey + " " + path, Cause: err}
			}
			op, err := buildOperation(path, method, raw, res, sourceName)
			if err != nil {
				return nil, err
			}
			operations = append(operations, op)
		}
	}
	return operations, nil
}

func toMethod(s string) (ir.Method, bool) {
	switch strings.ToUpper(s) {
	case "GET":
		return ir.MethodGet, true
	case "POST":
		return ir.MethodPost, true
	case "PUT":
		return ir.MethodPut, true
	case "PATCH":
		return ir.MethodPatch, true
	case "DELETE":
		return ir.MethodDelete, true
	default:
		return "", false
	}
}

func buildOperation(path string, method ir.Method, raw rawOperation, res *resolver, sourceName string) (*ir.Operation, error) {
	id := raw.OperationID
	if id == "" {
		id = synthesizeOperationID(method, path)
	}

	op := &ir.Operation{
		ID:          id,
		Kind:        ir.NewHTTPKind(method, path),
		Description: raw.Description,
	}

	for _, param := range raw.Parameters {
		schema, err := res.resolve(param.Schema)
		if err != nil {
			return nil, err
		}
		p := ir.Parameter{Name: param.Name, Required: param.Required, Schema: schema}
		switch strings.ToLower(param.In) {
		case "path":
			p.Required = true
			op.PathParams = append(op.PathParams, p)
		case "query":
			op.QueryParams = append(op.QueryParams, p)
		case "header":
			op.Headers = append(op.Headers, p)
		default:
			return nil, &specerrors.ParseError{
				Path: sourceName, Kind: specerrors.KindUnsupportedFeature,
				Detail: fmt.Sprintf("parameter %q has unsupported location %q", param.Name, param.In),
			}
		}
	}

	if raw.RequestBody != nil {
		schema, err := res.resolve(raw.RequestBody.Schema)
		if err != nil {
			return nil, err
		}
		op.Body = &ir.Parameter{Name: "body", Required: raw.RequestBody.Required, Schema: schema}
	}

	successes, errs, err := decodeResponses(raw.Responses, res)
	if err != nil {
		return nil, err
	}
	op.Successes = successes
	op.Errors = errs

	return op, nil
}

// synthesizeOperationID builds an id from method and path when the document
// omits an explicit operationId: "<method>_<path-with-non-alnum-to-underscore>".
func synthesizeOperationID(method ir.Method, path string) string {
	return strings.ToLower(string(method)) + "_" + stringutil.SanitizeIdentifier(path)
}

// decodeResponses splits the `responses` section into successes (100-399)
// and errors (>=400), preserving declaration order within each group. A
// response with no declared schema resolves to Any (§4.1.1 edge case).
func decodeResponses(node yaml.Node, res *resolver) ([]ir.Response, []ir.Response, error) {
	var successes, errs []ir.Response
	for _, key := range orderedKeys(node) {
		status, convErr := strconv.Atoi(key)
		if convErr != nil {
			continue
		}
		var raw rawResponse
		if _, err := decodeChild(node, key, &raw); err != nil {
			return nil, nil, &specerrors.ParseError{Kind: specerrors.KindSyntax, Detail: "decoding response " + key, Cause: err}
		}
		var schema *ir.Schema
		if raw.Schema == nil {
			schema = ir.NewAny()
		} else {
			var err error
			schema, err = res.resolve(*raw.Schema)
			if err != nil {
				return nil, nil, err
			}
		}
		resp := ir.Response{Status: status, Schema: schema}
		if status >= 400 {
			errs = append(errs, resp)
		} else {
			successes = append(successes, resp)
		}
	}
	return successes, errs, nil
}

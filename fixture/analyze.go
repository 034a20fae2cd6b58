// Package fixture implements the HTTP dependency analyzer, setup planner,
// and fixture compiler (§4.5-4.7): it discovers which operations produce
// resources, which consume them by id, and builds the ordered program that
// creates and tears down prerequisite resources around a consumer test.
package fixture

import (
	"strings"

	"github.com/specforge/specforge/internal/stringutil"
	"github.com/specforge/specforge/ir"
)

// chainLink is one resource/path-param pair extracted from a nested path
// template, e.g. "/orgs/{org_id}/users/{user_id}" yields two links, outer
// (org) first.
type chainLink struct {
	ResourceType string
	ParamName    string
}

// Producer is an operation that creates a resource: POST /r with an object
// body producing an id-bearing response.
type Producer struct {
	Operation    *ir.Operation
	ResourceType string
}

// Consumer is an operation that addresses one or more resources by id in
// its path. Chain is ordered outer-to-inner, matching path nesting.
type Consumer struct {
	Operation  *ir.Operation
	Chain      []chainLink
	NeedsSetup bool
}

// Analysis is the dependency analyzer's output for one specification.
type Analysis struct {
	Producers []Producer
	Consumers []Consumer
}

// Analyze classifies every HTTP operation in spec per §4.5. Function
// operations carry no path template and are never producers or consumers.
func Analyze(spec *ir.Specification) Analysis {
	var a Analysis
	for i := range spec.Operations {
		op := spec.Operations[i]
		if op.Kind.Tag != ir.KindTagHTTP {
			continue
		}
		chain := pathChain(op.Kind.HTTP.Path)

		switch {
		case op.Kind.HTTP.Method == ir.MethodPost && len(chain) == 0 && isIDBearing(op):
			a.Producers = append(a.Producers, Producer{
				Operation:    op,
				ResourceType: stringutil.ResourceNameFromPath(op.Kind.HTTP.Path),
			})
		case len(chain) > 0 && op.Kind.HTTP.Method != ir.MethodPost:
			a.Consumers = append(a.Consumers, Consumer{
				Operation:  op,
				Chain:      chain,
				NeedsSetup: true,
			})
		}
	}
	return a
}

// pathChain walks a URI template's segments pairing each static segment
// with the following {param} segment, outer to inner. A trailing static
// segment adds no link ("/orders/{order_id}/items" yields only the order
// link), and a path with no static-then-{param} pair yields no chain.
func pathChain(path string) []chainLink {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	var chain []chainLink
	var pendingResource string
	for _, seg := range segs {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if pendingResource == "" {
				continue
			}
			chain = append(chain, chainLink{
				ResourceType: stringutil.Singularize(pendingResource),
				ParamName:    strings.Trim(seg, "{}"),
			})
			pendingResource = ""
			continue
		}
		pendingResource = seg
	}
	return chain
}

// isIDBearing reports whether op's first declared success response is an
// object carrying an "id" property, the signal §4.5 uses to recognize a
// resource-creating response.
func isIDBearing(op *ir.Operation) bool {
	if len(op.Successes) == 0 {
		return false
	}
	schema := op.Successes[0].Schema
	if schema == nil || schema.Kind != ir.KindObject || schema.Object == nil {
		return false
	}
	_, ok := schema.Object.Get("id")
	return ok
}

// ResolveProducer returns the Producer matching resourceType whose path is
// the shortest prefix, breaking ties by declaration order (§4.5: "the
// analyzer picks the one whose path is the shortest prefix — deterministic").
func (a Analysis) ResolveProducer(resourceType string) (Producer, bool) {
	var best Producer
	found := false
	for _, p := range a.Producers {
		if p.ResourceType != resourceType {
			continue
		}
		if !found || len(p.Operation.Kind.HTTP.Path) < len(best.Operation.Kind.HTTP.Path) {
			best, found = p, true
		}
	}
	return best, found
}

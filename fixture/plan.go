package fixture

import (
	"fmt"

	"github.com/specforge/specforge/payload"
	"github.com/specforge/specforge/specerrors"
)

// SetupStep is one required Producer invocation (§4.6): the operation to
// call, the golden-record body to send, the name the returned id is bound
// under, and the path-param name it resolves.
type SetupStep struct {
	Producer      *Producer
	Body          any
	BindName      string // "created_<resource>"
	PathParamName string
	ResourceType  string
}

// TeardownStep deletes a resource created by the matching SetupStep.
type TeardownStep struct {
	BindName     string
	ResourceType string
}

// SetupPlan is the ordered program of resource creation a Consumer
// operation's test needs before it can run, plus its reverse-order teardown.
type SetupPlan struct {
	Steps               []SetupStep
	TeardownSteps       []TeardownStep
	PlaceholderBindings map[string]string // path param name -> "USE_CREATED_RESOURCE_<resource>"
}

// BuildSetupPlan resolves consumer's resource chain against analysis's
// known Producers and topologically orders the resulting steps (outer
// resources before inner, §4.6).
func BuildSetupPlan(consumer Consumer, analysis Analysis) (*SetupPlan, error) {
	nodes := make([]string, 0, len(consumer.Chain))
	linkByResource := make(map[string]chainLink, len(consumer.Chain))
	for _, link := range consumer.Chain {
		if _, seen := linkByResource[link.ResourceType]; !seen {
			nodes = append(nodes, link.ResourceType)
		}
		linkByResource[link.ResourceType] = link
	}

	// A nested path's resource chain is a strict total order: each resource
	// depends on every resource that precedes it in the path. Kahn's
	// algorithm over that edge set gives the same order the chain already
	// has, but establishes the general mechanism §4.6/§8 property 6 needs
	// for any future fan-in between producers.
	edges := make(map[string][]string, len(nodes))
	for i := 1; i < len(nodes); i++ {
		edges[nodes[i]] = append(edges[nodes[i]], nodes[i-1])
	}
	ordered, err := topoSort(nodes, edges)
	if err != nil {
		return nil, err
	}

	plan := &SetupPlan{PlaceholderBindings: make(map[string]string, len(ordered))}
	for _, resourceType := range ordered {
		link := linkByResource[resourceType]
		producer, ok := analysis.ResolveProducer(resourceType)
		if !ok {
			return nil, &specerrors.InvariantError{
				Invariant: "fixture-dependency-resolution",
				Detail:    fmt.Sprintf("no Producer found for resource type %q required by %s", resourceType, consumer.Operation.ID),
			}
		}
		golden := payload.BuildGolden(producer.Operation)
		bindName := "created_" + resourceType

		plan.Steps = append(plan.Steps, SetupStep{
			Producer:      &producer,
			Body:          golden.Body,
			BindName:      bindName,
			PathParamName: link.ParamName,
			ResourceType:  resourceType,
		})
		plan.PlaceholderBindings[link.ParamName] = "USE_CREATED_RESOURCE_" + resourceType
	}

	plan.TeardownSteps = reverseTeardown(plan.Steps)
	return plan, nil
}

func reverseTeardown(steps []SetupStep) []TeardownStep {
	out := make([]TeardownStep, len(steps))
	for i, s := range steps {
		out[len(steps)-1-i] = TeardownStep{BindName: s.BindName, ResourceType: s.ResourceType}
	}
	return out
}

// topoSort orders nodes so that every dependency in edges[n] precedes n,
// using Kahn's algorithm with deterministic tie-breaking by nodes' original
// (source-declaration) order, per §5's ordering guarantee.
func topoSort(nodes []string, edges map[string][]string) ([]string, error) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	indegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		indegree[n] = 0
	}
	for n, deps := range edges {
		indegree[n] += len(deps)
		for _, d := range deps {
			dependents[d] = append(dependents[d], n)
		}
	}

	var ready []string
	for _, n := range nodes {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	var out []string
	for len(ready) > 0 {
		// Pick the lowest-index ready node for a deterministic order.
		bestPos, bestIdx := 0, index[ready[0]]
		for i, n := range ready {
			if index[n] < bestIdx {
				bestPos, bestIdx = i, index[n]
			}
		}
		n := ready[bestPos]
		ready = append(ready[:bestPos], ready[bestPos+1:]...)
		out = append(out, n)

		for _, dep := range dependents[n] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(out) != len(nodes) {
		return nil, &specerrors.InvariantError{
			Invariant: "fixture-dependency-acyclic",
			Detail:    "resource dependency chain contains a cycle",
		}
	}
	return out, nil
}

package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/specforge/ir"
)

// scenarioBSpec builds §8 Scenario B: GET /users/{user_id} (user_id:
// string, format=uuid) with a sibling POST /users.
func scenarioBSpec() *ir.Specification {
	createUser := ir.Operation{
		ID:   "createUser",
		Kind: ir.NewHTTPKind(ir.MethodPost, "/users"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "email", Schema: ir.NewString(ir.StringConstraints{Format: ir.FormatEmail})},
				},
				Required: []string{"email"},
			}),
		},
		Successes: []ir.Response{{
			Status: 201,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "id", Schema: ir.NewString(ir.StringConstraints{Format: ir.FormatUUID})},
				},
				Required: []string{"id"},
			}),
		}},
	}

	getUser := ir.Operation{
		ID:         "getUser",
		Kind:       ir.NewHTTPKind(ir.MethodGet, "/users/{user_id}"),
		PathParams: []ir.Parameter{{Name: "user_id", Required: true, Schema: ir.NewString(ir.StringConstraints{Format: ir.FormatUUID})}},
		Successes:  []ir.Response{{Status: 200, Schema: ir.NewAny()}},
		Errors:     []ir.Response{{Status: 404, Schema: ir.NewAny()}},
	}

	return &ir.Specification{Operations: []*ir.Operation{&createUser, &getUser}}
}

func TestAnalyzeScenarioB(t *testing.T) {
	a := Analyze(scenarioBSpec())

	require.Len(t, a.Producers, 1)
	assert.Equal(t, "createUser", a.Producers[0].Operation.ID)
	assert.Equal(t, "user", a.Producers[0].ResourceType)

	require.Len(t, a.Consumers, 1)
	c := a.Consumers[0]
	assert.Equal(t, "getUser", c.Operation.ID)
	assert.True(t, c.NeedsSetup)
	require.Len(t, c.Chain, 1)
	assert.Equal(t, "user", c.Chain[0].ResourceType)
	assert.Equal(t, "user_id", c.Chain[0].ParamName)
}

func TestResolveProducerShortestPrefixTiebreak(t *testing.T) {
	a := Analysis{
		Producers: []Producer{
			{Operation: &ir.Operation{ID: "createUserViaAdmin", Kind: ir.NewHTTPKind(ir.MethodPost, "/admin/users")}, ResourceType: "user"},
			{Operation: &ir.Operation{ID: "createUser", Kind: ir.NewHTTPKind(ir.MethodPost, "/users")}, ResourceType: "user"},
		},
	}
	p, ok := a.ResolveProducer("user")
	require.True(t, ok)
	assert.Equal(t, "createUser", p.Operation.ID)
}

func TestAnalyzeNestedChainOrdersOuterFirst(t *testing.T) {
	op := ir.Operation{
		ID:   "getOrderItem",
		Kind: ir.NewHTTPKind(ir.MethodGet, "/orders/{order_id}/items/{item_id}"),
		PathParams: []ir.Parameter{
			{Name: "order_id", Required: true, Schema: ir.NewString(ir.StringConstraints{})},
			{Name: "item_id", Required: true, Schema: ir.NewString(ir.StringConstraints{})},
		},
	}
	spec := &ir.Specification{Operations: []*ir.Operation{&op}}
	a := Analyze(spec)
	require.Len(t, a.Consumers, 1)
	chain := a.Consumers[0].Chain
	require.Len(t, chain, 2)
	assert.Equal(t, "order", chain[0].ResourceType)
	assert.Equal(t, "item", chain[1].ResourceType)
}

func TestAnalyzeIgnoresFunctionOperations(t *testing.T) {
	op := ir.Operation{ID: "createUser", Kind: ir.NewFunctionKind(false, "users")}
	a := Analyze(&ir.Specification{Operations: []*ir.Operation{&op}})
	assert.Empty(t, a.Producers)
	assert.Empty(t, a.Consumers)
}

package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSetupPlanScenarioB(t *testing.T) {
	spec := scenarioBSpec()
	a := Analyze(spec)
	require.Len(t, a.Consumers, 1)

	plan, err := BuildSetupPlan(a.Consumers[0], a)
	require.NoError(t, err)

	require.Len(t, plan.Steps, 1)
	step := plan.Steps[0]
	assert.Equal(t, "createUser", step.Producer.Operation.ID)
	assert.Equal(t, "created_user", step.BindName)
	assert.Equal(t, "user_id", step.PathParamName)
	assert.Equal(t, "USE_CREATED_RESOURCE_user", plan.PlaceholderBindings["user_id"])

	require.Len(t, plan.TeardownSteps, 1)
	assert.Equal(t, "created_user", plan.TeardownSteps[0].BindName)
}

func TestBuildSetupPlanOrdersOuterBeforeInner(t *testing.T) {
	orderConsumer := Consumer{
		Chain: []chainLink{
			{ResourceType: "order", ParamName: "order_id"},
			{ResourceType: "item", ParamName: "item_id"},
		},
	}
	analysis := Analysis{
		Producers: []Producer{
			{Operation: mustOp("createOrder", "/orders"), ResourceType: "order"},
			{Operation: mustOp("createItem", "/orders/{order_id}/items"), ResourceType: "item"},
		},
	}
	orderConsumer.Operation = mustOp("getOrderItem", "/orders/{order_id}/items/{item_id}")

	plan, err := BuildSetupPlan(orderConsumer, analysis)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "order", plan.Steps[0].ResourceType)
	assert.Equal(t, "item", plan.Steps[1].ResourceType)

	// Teardown is the exact reverse (§8 property 6).
	require.Len(t, plan.TeardownSteps, 2)
	assert.Equal(t, "item", plan.TeardownSteps[0].ResourceType)
	assert.Equal(t, "order", plan.TeardownSteps[1].ResourceType)
}

func TestBuildSetupPlanMissingProducerErrors(t *testing.T) {
	consumer := Consumer{
		Operation: mustOp("getUser", "/users/{user_id}"),
		Chain:     []chainLink{{ResourceType: "user", ParamName: "user_id"}},
	}
	_, err := BuildSetupPlan(consumer, Analysis{})
	assert.Error(t, err)
}

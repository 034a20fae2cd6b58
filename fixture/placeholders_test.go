package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/specforge/payload"
)

func TestApplyPlaceholdersSubstitutesExceptTargetedIntent(t *testing.T) {
	plan := &SetupPlan{
		PlaceholderBindings: map[string]string{"user_id": "USE_CREATED_RESOURCE_user"},
	}
	payloads := []payload.Payload{
		{IntentID: "HAPPY_PATH", PathParams: map[string]any{"user_id": "placeholder"}},
		{IntentID: "RESOURCE_NOT_FOUND", TargetField: "user_id", PathParams: map[string]any{"user_id": "00000000-0000-0000-0000-000000000000"}},
	}

	out := ApplyPlaceholders(payloads, plan)
	require.Len(t, out, 2)
	assert.Equal(t, "USE_CREATED_RESOURCE_user", out[0].PathParams["user_id"])
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", out[1].PathParams["user_id"])
}

func TestApplyPlaceholdersNilPlanIsNoop(t *testing.T) {
	payloads := []payload.Payload{{IntentID: "HAPPY_PATH"}}
	assert.Equal(t, payloads, ApplyPlaceholders(payloads, nil))
}

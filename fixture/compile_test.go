package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScenarioBProgram(t *testing.T) {
	spec := scenarioBSpec()
	a := Analyze(spec)
	require.Len(t, a.Consumers, 1)
	plan, err := BuildSetupPlan(a.Consumers[0], a)
	require.NoError(t, err)

	prog := Compile(plan)
	require.Len(t, prog.Instructions, 5)

	assert.Equal(t, InstructionCreateResource, prog.Instructions[0].Kind)
	assert.Equal(t, "createUser", prog.Instructions[0].CreateResource.OperationID)
	assert.Contains(t, prog.Instructions[0].CreateResource.UniqueFields, "email")

	assert.Equal(t, InstructionCaptureIdFrom, prog.Instructions[1].Kind)
	assert.Equal(t, "created_user", prog.Instructions[1].CaptureIdFrom.BindName)

	assert.Equal(t, InstructionBindPlaceholder, prog.Instructions[2].Kind)
	assert.Equal(t, "user_id", prog.Instructions[2].BindPlaceholder.PathParamName)

	assert.Equal(t, InstructionDeleteResource, prog.Instructions[3].Kind)
	assert.Equal(t, "created_user", prog.Instructions[3].DeleteResource.BindName)

	assert.Equal(t, InstructionHandleDeleteFailure, prog.Instructions[4].Kind)
}

func TestUniquifyStringAppendsSuffix(t *testing.T) {
	a := UniquifyString("alice")
	b := UniquifyString("alice")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "alice_")
}

func TestIdentityFieldsIgnoresNonMatchingKeys(t *testing.T) {
	fields := identityFields(map[string]any{"email": "x", "age": 1})
	assert.Equal(t, []string{"email"}, fields)
}

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/specforge/fixture"
	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/payload"
)

func getUserOp() *ir.Operation {
	return &ir.Operation{
		ID:   "getUser",
		Kind: ir.NewHTTPKind(ir.MethodGet, "/users/{user_id}"),
		PathParams: []ir.Parameter{
			{Name: "user_id", Required: true, Schema: ir.NewString(ir.StringConstraints{Format: ir.FormatUUID})},
		},
		Successes: []ir.Response{{Status: 200, Schema: ir.NewAny()}},
		Errors:    []ir.Response{{Status: 404, Schema: ir.NewAny()}},
	}
}

func createUserOp() *ir.Operation {
	return &ir.Operation{
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
				Properties: []ir.ObjectProperty{{Name: "id", Schema: ir.NewString(ir.StringConstraints{Format: ir.FormatUUID})}},
				Required:   []string{"id"},
			}),
		}},
		Errors: []ir.Response{{Status: 400, Schema: ir.NewAny()}},
	}
}

func scenarioBSpec() *ir.Specification {
	create := createUserOp()
	get := getUserOp()
	return &ir.Specification{Operations: []*ir.Operation{create, get}}
}

func TestRenderHTTPSyncHappyPath(t *testing.T) {
	op := createUserOp()
	payloads := []payload.Payload{
		{OperationID: op.ID, IntentID: intent.HappyPath, Body: map[string]any{"email": "a@example.com"}, ExpectedStatus: 201},
		{OperationID: op.ID, IntentID: intent.RequiredFieldMissing, TargetField: "email", Body: map[string]any{}, ExpectedStatus: 400},
	}

	out, err := Render(nil, op, payloads, nil, Options{Framework: HTTPSync, BaseURL: "http://localhost:8080"})
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "package generatedtests")
	assert.Contains(t, src, "func TestCreateUser(t *testing.T)")
	assert.Contains(t, src, `"HAPPY_PATH"`)
	assert.Contains(t, src, `"REQUIRED_FIELD_MISSING/email"`)
	assert.NotContains(t, src, "USE_CREATED_RESOURCE_")
}

func TestRenderHTTPAsyncWithFixture(t *testing.T) {
	spec := scenarioBSpec()
	a := fixture.Analyze(spec)
	require.Len(t, a.Consumers, 1)

	plan, err := fixture.BuildSetupPlan(a.Consumers[0], a)
	require.NoError(t, err)
	prog := fixture.Compile(plan)

	getOp := a.Consumers[0].Operation
	payloads := []payload.Payload{
		{OperationID: getOp.ID, IntentID: intent.HappyPath, PathParams: map[string]any{"user_id": "USE_CREATED_RESOURCE_user"}, ExpectedStatus: 200},
		{OperationID: getOp.ID, IntentID: intent.ResourceNotFound, TargetField: "user_id", PathParams: map[string]any{"user_id": "00000000-0000-0000-0000-000000000000"}, ExpectedStatus: 404},
	}
	payloads = fixture.ApplyPlaceholders(payloads, plan)

	out, err := Render(spec, getOp, payloads, prog, Options{Framework: HTTPAsync, BaseURL: "http://localhost:8080"})
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "mustCreateUserTestGetUser")
	assert.Contains(t, src, "asyncResult")
	assert.NotContains(t, src, "USE_CREATED_RESOURCE_")
	// The not-found case must keep its own literal id, not the fixture var.
	assert.Contains(t, src, "00000000-0000-0000-0000-000000000000")
}

func TestRenderFunctionDirect(t *testing.T) {
	op := &ir.Operation{
		ID:   "createUser",
		Kind: ir.NewFunctionKind(false, "users"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "status", Schema: ir.NewEnum(ir.EnumSchema{
						Values:       []any{"active", "inactive"},
						BaseType:     ir.KindString,
						NamedTypeRef: "user_status",
					})},
				},
				Required: []string{"status"},
			}),
		},
	}
	payloads := []payload.Payload{
		{OperationID: op.ID, IntentID: intent.HappyPath, Body: map[string]any{"status": "active"}},
		{OperationID: op.ID, IntentID: intent.RequiredArgMissing, TargetField: "status", Body: map[string]any{}},
	}

	out, err := Render(nil, op, payloads, nil, Options{Framework: FunctionDirect})
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "var Implementation func(args map[string]any) (any, error)")
	assert.Contains(t, src, "UserStatus(\"active\")")
	assert.Contains(t, src, "expectError: true")
}

func TestRenderUnknownFrameworkErrors(t *testing.T) {
	_, err := Render(nil, getUserOp(), nil, nil, Options{Framework: "bogus"})
	assert.Error(t, err)
}

func TestRenderNilOperationErrors(t *testing.T) {
	_, err := Render(nil, nil, nil, nil, Options{Framework: HTTPSync})
	assert.Error(t, err)
}

func TestFindLeakedSentinelFailsClosed(t *testing.T) {
	assert.Equal(t, "USE_CREATED_RESOURCE_", findLeakedSentinel([]byte("path := \"/users/USE_CREATED_RESOURCE_user\"")))
	assert.Empty(t, findLeakedSentinel([]byte("path := \"/users/abc\"")))
}

func TestBodyLiteralConvertsEnumOnlyForHappyPath(t *testing.T) {
	obj := &ir.ObjectSchema{
		Properties: []ir.ObjectProperty{
			{Name: "status", Schema: ir.NewEnum(ir.EnumSchema{NamedTypeRef: "user_status", BaseType: ir.KindString})},
		},
	}
	happy := bodyLiteral(map[string]any{"status": "active"}, obj, true)
	assert.True(t, strings.Contains(happy, "UserStatus(\"active\")"))

	negative := bodyLiteral(map[string]any{"status": "active"}, obj, false)
	assert.False(t, strings.Contains(negative, "UserStatus("))
	assert.Contains(t, negative, `"status": "active"`)
}

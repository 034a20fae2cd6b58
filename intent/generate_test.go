package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/ir"
)

// scenarioAOperation builds the §8 Scenario A fixture: POST /users with
// required email (format=email, maxLength=255) and age (min=0, max=150).
func scenarioAOperation() *ir.Operation {
	maxLen := 255
	minAge, maxAge := 0.0, 150.0
	return &ir.Operation{
		ID:   "createUser",
		Kind: ir.NewHTTPKind(ir.MethodPost, "/users"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "email", Schema: ir.NewString(ir.StringConstraints{MaxLen: &maxLen, Format: ir.FormatEmail})},
					{Name: "age", Schema: ir.NewInteger(ir.NumericConstraints{Min: &minAge, Max: &maxAge})},
				},
				Required: []string{"email", "age"},
			}),
		},
		Successes: []ir.Response{{Status: 200, Schema: ir.NewAny()}},
	}
}

func TestGenerateScenarioAOrder(t *testing.T) {
	intents, err := Generate(scenarioAOperation(), dialect.Name("http-contract"), nil)
	require.NoError(t, err)

	var ids []ID
	for _, in := range intents {
		ids = append(ids, in.ID)
	}
	assert.Equal(t, []ID{
		HappyPath,
		RequiredFieldMissing, RequiredFieldMissing,
		TypeViolation, NullNotAllowed, FormatInvalid, BoundaryMaxLengthPlusOne,
		TypeViolation, NullNotAllowed, BoundaryMinMinusOne, BoundaryMaxPlusOne,
		SQLInjection, XSSInjection, CommandInjection,
	}, ids)
}

func TestGenerateScenarioABoundaryMaxPlusOneTargetsAge(t *testing.T) {
	intents, err := Generate(scenarioAOperation(), dialect.Name("http-contract"), nil)
	require.NoError(t, err)

	for _, in := range intents {
		if in.ID == BoundaryMaxPlusOne {
			assert.Equal(t, "age", in.TargetPath)
			return
		}
	}
	t.Fatal("BOUNDARY_MAX_PLUS_ONE not emitted")
}

func TestGenerateEmptyTargetIntentsStillYieldsHappyPath(t *testing.T) {
	intents, err := Generate(scenarioAOperation(), dialect.Name("http-contract"), []ID{})
	require.NoError(t, err)
	require.NotEmpty(t, intents)
	assert.Equal(t, HappyPath, intents[0].ID)
}

func TestGenerateNoRequiredFieldsNeverEmitsRequiredMissing(t *testing.T) {
	op := &ir.Operation{
		ID:   "listItems",
		Kind: ir.NewHTTPKind(ir.MethodGet, "/items"),
		Body: &ir.Parameter{
			Name: "body",
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "limit", Schema: ir.NewInteger(ir.NumericConstraints{})},
				},
			}),
		},
		Successes: []ir.Response{{Status: 200, Schema: ir.NewAny()}},
	}

	intents, err := Generate(op, dialect.Name("http-contract"), nil)
	require.NoError(t, err)
	require.NotEmpty(t, intents)
	assert.Equal(t, HappyPath, intents[0].ID)
	for _, in := range intents {
		assert.NotEqual(t, RequiredFieldMissing, in.ID)
		assert.NotEqual(t, RequiredArgMissing, in.ID)
	}
}

func TestGenerateArrayZeroBoundsTriggerNoArrayBoundaryIntents(t *testing.T) {
	zero := 0
	op := &ir.Operation{
		ID:   "listTags",
		Kind: ir.NewFunctionKind(false, "tags"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "tags", Schema: ir.NewArray(ir.NewString(ir.StringConstraints{}), ir.ArraySchema{MinItems: &zero, MaxItems: &zero})},
				},
				Required: []string{"tags"},
			}),
		},
	}

	intents, err := Generate(op, dialect.Name("dynamic-source"), nil)
	require.NoError(t, err)
	for _, in := range intents {
		assert.NotEqual(t, BoundaryMinItemsMinusOne, in.ID)
		assert.NotEqual(t, BoundaryMaxItemsPlusOne, in.ID)
	}
}

func TestGenerateArrayPositiveBoundsDoTriggerArrayBoundaryIntents(t *testing.T) {
	min, max := 1, 5
	op := &ir.Operation{
		ID:   "listTags",
		Kind: ir.NewFunctionKind(false, "tags"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "tags", Schema: ir.NewArray(ir.NewString(ir.StringConstraints{}), ir.ArraySchema{MinItems: &min, MaxItems: &max})},
				},
				Required: []string{"tags"},
			}),
		},
	}

	intents, err := Generate(op, dialect.Name("dynamic-source"), nil)
	require.NoError(t, err)
	assert.Contains(t, ids(intents), BoundaryMinItemsMinusOne)
	assert.Contains(t, ids(intents), BoundaryMaxItemsPlusOne)
}

func TestGenerateUnionSingleVariantCollapsesNoMismatch(t *testing.T) {
	op := &ir.Operation{
		ID:   "setStatus",
		Kind: ir.NewFunctionKind(false, "status"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "value", Schema: ir.NewUnion(ir.NewString(ir.StringConstraints{}))},
				},
				Required: []string{"value"},
			}),
		},
	}

	intents, err := Generate(op, dialect.Name("dynamic-source"), nil)
	require.NoError(t, err)
	assert.NotContains(t, ids(intents), UnionNoMatch)
}

func TestGenerateUnionMultiVariantEmitsMismatch(t *testing.T) {
	op := &ir.Operation{
		ID:   "setStatus",
		Kind: ir.NewFunctionKind(false, "status"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "value", Schema: ir.NewUnion(ir.NewString(ir.StringConstraints{}), ir.NewInteger(ir.NumericConstraints{}))},
				},
				Required: []string{"value"},
			}),
		},
	}

	intents, err := Generate(op, dialect.Name("dynamic-source"), nil)
	require.NoError(t, err)
	assert.Contains(t, ids(intents), UnionNoMatch)
}

func TestGenerateFunctionUsesRequiredArgMissing(t *testing.T) {
	op := &ir.Operation{
		ID:   "createUser",
		Kind: ir.NewFunctionKind(false, "users"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "name", Schema: ir.NewString(ir.StringConstraints{})},
				},
				Required: []string{"name"},
			}),
		},
	}

	intents, err := Generate(op, dialect.Name("typed-source"), nil)
	require.NoError(t, err)
	assert.Contains(t, ids(intents), RequiredArgMissing)
	assert.NotContains(t, ids(intents), RequiredFieldMissing)
}

func TestGenerateRejectsUnknownTargetIntent(t *testing.T) {
	_, err := Generate(scenarioAOperation(), dialect.Name("http-contract"), []ID{"NOT_A_REAL_INTENT"})
	assert.Error(t, err)
}

func TestGenerateRejectsNilOperation(t *testing.T) {
	_, err := Generate(nil, dialect.Name("http-contract"), nil)
	assert.Error(t, err)
}

func TestGenerateAllowListFiltersButAlwaysKeepsHappyPath(t *testing.T) {
	intents, err := Generate(scenarioAOperation(), dialect.Name("http-contract"), []ID{SQLInjection})
	require.NoError(t, err)

	got := ids(intents)
	assert.Contains(t, got, HappyPath)
	assert.Contains(t, got, SQLInjection)
	assert.NotContains(t, got, TypeViolation)
	assert.NotContains(t, got, RequiredFieldMissing)
}

func ids(intents []Intent) []ID {
	out := make([]ID, len(intents))
	for i, in := range intents {
		out[i] = in.ID
	}
	return out
}

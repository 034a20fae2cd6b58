package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestBuildGoldenScenarioA(t *testing.T) {
	g := BuildGolden(scenarioAOperation())
	assert.Equal(t, map[string]any{
		"email": "__PLACEHOLDER_STRING_email__",
		"age":   0,
	}, g.Body)
}

func TestBuildGoldenIsDeterministic(t *testing.T) {
	op := scenarioAOperation()
	a := BuildGolden(op)
	b := BuildGolden(op)
	assert.Equal(t, a, b)
}

func TestBuildGoldenArrayRepeatsToMinItems(t *testing.T) {
	minItems := 3
	op := &ir.Operation{
		ID:   "listTags",
		Kind: ir.NewFunctionKind(false, "tags"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "tags", Schema: ir.NewArray(ir.NewString(ir.StringConstraints{}), ir.ArraySchema{MinItems: &minItems})},
				},
				Required: []string{"tags"},
			}),
		},
	}
	g := BuildGolden(op)
	body := g.Body.(map[string]any)
	tags := body["tags"].([]any)
	assert.Len(t, tags, 3)
	assert.Equal(t, "__PLACEHOLDER_STRING_tags__", tags[0])
}

func TestBuildGoldenOmitsOptionalUnlessDependentRequired(t *testing.T) {
	op := &ir.Operation{
		ID:   "createShipment",
		Kind: ir.NewHTTPKind(ir.MethodPost, "/shipments"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "express", Schema: ir.NewBoolean()},
					{Name: "courier", Schema: ir.NewString(ir.StringConstraints{})},
				},
				Required:          []string{"express"},
				DependentRequired: map[string][]string{"express": {"courier"}},
			}),
		},
	}
	g := BuildGolden(op)
	body := g.Body.(map[string]any)
	assert.Equal(t, true, body["express"])
	assert.Equal(t, "__PLACEHOLDER_STRING_courier__", body["courier"])
}

func TestBuildGoldenUnionUsesFirstVariant(t *testing.T) {
	op := &ir.Operation{
		ID:   "findUser",
		Kind: ir.NewFunctionKind(false, "users"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{
				Properties: []ir.ObjectProperty{
					{Name: "result", Schema: ir.NewUnion(ir.NewString(ir.StringConstraints{}), ir.NewNull())},
				},
				Required: []string{"result"},
			}),
		},
	}
	g := BuildGolden(op)
	body := g.Body.(map[string]any)
	assert.Equal(t, "__PLACEHOLDER_STRING_result__", body["result"])
}

func TestValidateGoldenAcceptsPlaceholderString(t *testing.T) {
	op := scenarioAOperation()
	g := BuildGolden(op)
	require.NoError(t, ValidateGolden(op, g))
}

func TestValidateGoldenRejectsMissingRequired(t *testing.T) {
	op := scenarioAOperation()
	g := BuildGolden(op)
	delete(g.Body.(map[string]any), "age")
	assert.Error(t, ValidateGolden(op, g))
}

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/payload"
)

func emailSchema() *ir.Schema {
	return ir.NewString(ir.StringConstraints{Format: ir.FormatEmail})
}

func statusSchema() *ir.Schema {
	return ir.NewEnum(ir.EnumSchema{Values: []any{"active", "inactive"}, BaseType: ir.KindString, NamedTypeRef: "user_status"})
}

func personSchema() *ir.Schema {
	return ir.NewObject(ir.ObjectSchema{Properties: []ir.ObjectProperty{
		{Name: "email", Schema: emailSchema()},
		{Name: "status", Schema: statusSchema()},
		{Name: "age", Schema: ir.NewInteger(ir.NumericConstraints{})},
	}})
}

func TestValidateCandidateAcceptsInKindReplacement(t *testing.T) {
	schema := personSchema()
	original := map[string]any{"email": "__PLACEHOLDER_STRING_email__", "status": "active", "age": 1}
	candidate := map[string]any{"email": "jane@example.com", "status": "inactive", "age": 29}
	assert.NoError(t, validateCandidate(schema, original, candidate))
}

func TestValidateCandidateRejectsDroppedKey(t *testing.T) {
	schema := personSchema()
	original := map[string]any{"email": "a@b.com", "status": "active", "age": 1}
	candidate := map[string]any{"email": "a@b.com", "status": "active"}
	assert.Error(t, validateCandidate(schema, original, candidate))
}

func TestValidateCandidateRejectsAddedKey(t *testing.T) {
	schema := personSchema()
	original := map[string]any{"email": "a@b.com"}
	candidate := map[string]any{"email": "a@b.com", "extra": "surprise"}
	assert.Error(t, validateCandidate(schema, original, candidate))
}

func TestValidateCandidateRejectsTypeChange(t *testing.T) {
	schema := personSchema()
	original := map[string]any{"age": 1}
	candidate := map[string]any{"age": "twenty-nine"}
	assert.Error(t, validateCandidate(schema, original, candidate))
}

func TestValidateCandidateRejectsUndeclaredEnumValue(t *testing.T) {
	schema := personSchema()
	original := map[string]any{"status": "active"}
	candidate := map[string]any{"status": "on-vacation"}
	assert.Error(t, validateCandidate(schema, original, candidate))
}

func TestValidateCandidateRejectsSurvivingPlaceholder(t *testing.T) {
	schema := personSchema()
	original := map[string]any{"email": payload.PlaceholderStringPrefix + "email__"}
	candidate := map[string]any{"email": payload.PlaceholderStringPrefix + "email__"}
	assert.Error(t, validateCandidate(schema, original, candidate))
}

func TestValidateCandidateRejectsArrayLengthChange(t *testing.T) {
	schema := ir.NewObject(ir.ObjectSchema{Properties: []ir.ObjectProperty{
		{Name: "tags", Schema: ir.NewArray(ir.NewString(ir.StringConstraints{}), ir.ArraySchema{})},
	}})
	original := map[string]any{"tags": []any{"a", "b"}}
	candidate := map[string]any{"tags": []any{"a"}}
	assert.Error(t, validateCandidate(schema, original, candidate))
}

func TestValidateCandidateAcceptsNestedObjectReplacement(t *testing.T) {
	schema := ir.NewObject(ir.ObjectSchema{Properties: []ir.ObjectProperty{
		{Name: "owner", Schema: personSchema()},
	}})
	original := map[string]any{"owner": map[string]any{"email": "__PLACEHOLDER_STRING_email__", "status": "active", "age": 1}}
	candidate := map[string]any{"owner": map[string]any{"email": "new@example.com", "status": "active", "age": 40}}
	assert.NoError(t, validateCandidate(schema, original, candidate))
}

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaEqual(t *testing.T) {
	minLen := 1
	a := NewString(StringConstraints{MinLen: &minLen, Format: FormatEmail})
	b := NewString(StringConstraints{MinLen: &minLen, Format: FormatEmail})
	assert.True(t, a.Equal(b))

	other := 2
	c := NewString(StringConstraints{MinLen: &other, Format: FormatEmail})
	assert.False(t, a.Equal(c))
}

func TestSchemaEqualNilHandling(t *testing.T) {
	var a, b *Schema
	assert.True(t, a.Equal(b))

	a = NewBoolean()
	assert.False(t, a.Equal(nil))
}

func TestObjectGetAndIsRequired(t *testing.T) {
	obj := ObjectSchema{
		Properties: []ObjectProperty{
			{Name: "email", Schema: NewString(StringConstraints{})},
			{Name: "age", Schema: NewInteger(NumericConstraints{})},
		},
		Required: []string{"email"},
	}
	sch, ok := obj.Get("age")
	assert.True(t, ok)
	assert.Equal(t, KindInteger, sch.Kind)

	_, ok = obj.Get("missing")
	assert.False(t, ok)

	assert.True(t, obj.IsRequired("email"))
	assert.False(t, obj.IsRequired("age"))
}

func TestSpecificationValidateDetectsDuplicateOperationID(t *testing.T) {
	spec := &Specification{
		Operations: []*Operation{
			{ID: "dup", Kind: NewFunctionKind(false, "")},
			{ID: "dup", Kind: NewFunctionKind(false, "")},
		},
	}
	err := spec.Validate()
	assert.Error(t, err)
}

func TestSpecificationValidateDetectsUnresolvedRef(t *testing.T) {
	spec := &Specification{
		Operations: []*Operation{
			{
				ID:   "op1",
				Kind: NewFunctionKind(false, ""),
				Body: &Parameter{Name: "body", Required: true, Schema: &Schema{Kind: KindRef, Ref: "Missing"}},
			},
		},
	}
	err := spec.Validate()
	assert.Error(t, err)
}

func TestSpecificationValidateAcceptsWellFormedSpec(t *testing.T) {
	spec := &Specification{
		Types: []*TypeDecl{
			{ID: "Status", Kind: TypeDeclEnum, Schema: NewEnum(EnumSchema{
				Values:   []any{"Active", "Inactive"},
				BaseType: KindString,
			})},
		},
		Operations: []*Operation{
			{
				ID:   "op1",
				Kind: NewFunctionKind(false, ""),
				Body: &Parameter{Name: "status", Required: true, Schema: &Schema{Kind: KindRef, Ref: "Status"}},
			},
		},
	}
	assert.NoError(t, spec.Validate())
}

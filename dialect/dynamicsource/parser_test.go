package dynamicsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/ir"
)

const scenarioCSource = `
from enum import Enum
from typing import Optional


class Status(Enum):
    ACTIVE = "Active"
    INACTIVE = "Inactive"
    PENDING = "Pending"


def create_user(name: str, status: Status = Status.PENDING) -> bool:
    pass
`

func TestParseScenarioCEnumParameter(t *testing.T) {
	spec, err := dialect.Parse(dialect.DynamicSource, []byte(scenarioCSource), dialect.Options{SourceName: "users.py"})
	require.NoError(t, err)
	require.Len(t, spec.Operations, 1)

	op := spec.Operations[0]
	assert.Equal(t, "create_user", op.ID)
	assert.Equal(t, ir.KindTagFunction, op.Kind.Tag)
	assert.False(t, op.Kind.Function.IsAsync)

	statusSchema, ok := op.Body.Schema.Object.Get("status")
	require.True(t, ok)
	assert.Equal(t, ir.KindEnum, statusSchema.Kind)
	assert.Equal(t, []any{"Active", "Inactive", "Pending"}, statusSchema.Enum.Values)
	assert.False(t, op.Body.Schema.Object.IsRequired("status"))
	assert.True(t, op.Body.Schema.Object.IsRequired("name"))
}

const dataclassSource = `
from dataclasses import dataclass
from typing import Optional, List


@dataclass
class Address:
    street: str
    city: str


@dataclass
class User:
    email: str
    tags: List[str]
    address: Optional[Address] = None


async def register(user: User) -> bool:
    pass
`

func TestParseDataclassAndAsyncFunction(t *testing.T) {
	spec, err := dialect.Parse(dialect.DynamicSource, []byte(dataclassSource), dialect.Options{SourceName: "models.py"})
	require.NoError(t, err)
	require.Len(t, spec.Operations, 1)

	op := spec.Operations[0]
	assert.True(t, op.Kind.Function.IsAsync)

	userSchema, ok := op.Body.Schema.Object.Get("user")
	require.True(t, ok)
	require.Equal(t, ir.KindObject, userSchema.Kind)

	tagsSchema, ok := userSchema.Object.Get("tags")
	require.True(t, ok)
	assert.Equal(t, ir.KindArray, tagsSchema.Kind)
	assert.Equal(t, ir.KindString, tagsSchema.Array.Items.Kind)

	addrSchema, ok := userSchema.Object.Get("address")
	require.True(t, ok)
	assert.Equal(t, ir.KindObject, addrSchema.Kind)
	assert.False(t, userSchema.Object.IsRequired("address"))
	assert.True(t, userSchema.Object.IsRequired("email"))

	require.Len(t, spec.Types, 2)
	assert.Equal(t, "Address", spec.Types[0].ID)
	assert.Equal(t, "User", spec.Types[1].ID)
}

package typedsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/ir"
)

const userSource = `
export type Status = "Active" | "Inactive" | "Pending";

export interface User {
  email: string;
  age?: number;
  status: Status;
}

export async function createUser(user: User): Promise<User> {
  return user;
}

export function findUser(id: string): User | null {
  return null;
}
`

func TestParseInterfaceAndAsyncFunction(t *testing.T) {
	spec, err := dialect.Parse(dialect.TypedSource, []byte(userSource), dialect.Options{SourceName: "user.ts"})
	require.NoError(t, err)
	require.Len(t, spec.Types, 2)
	require.Len(t, spec.Operations, 2)

	create := spec.Operations[0]
	assert.Equal(t, "createUser", create.ID)
	assert.True(t, create.Kind.Function.IsAsync)

	userSchema, ok := create.Body.Schema.Object.Get("user")
	require.True(t, ok)
	assert.Equal(t, ir.KindObject, userSchema.Kind)

	ageSchema, ok := userSchema.Object.Get("age")
	require.True(t, ok)
	assert.True(t, ageSchema.IsNullable())
	assert.False(t, userSchema.Object.IsRequired("age"))
	assert.True(t, userSchema.Object.IsRequired("email"))

	statusSchema, ok := userSchema.Object.Get("status")
	require.True(t, ok)
	assert.Equal(t, ir.KindEnum, statusSchema.Kind)
	assert.Equal(t, []any{"Active", "Inactive", "Pending"}, statusSchema.Enum.Values)

	find := spec.Operations[1]
	idSchema, ok := find.Body.Schema.Object.Get("id")
	require.True(t, ok)
	assert.Equal(t, ir.KindString, idSchema.Kind)

	require.Len(t, find.Successes, 1)
	assert.Equal(t, ir.KindUnion, find.Successes[0].Schema.Kind)
}

const genericSource = `
interface Box<T> {
  value: T;
}

function identity<T extends string>(value: T): T {
  return value;
}
`

func TestParseGenericFunction(t *testing.T) {
	spec, err := dialect.Parse(dialect.TypedSource, []byte(genericSource), dialect.Options{SourceName: "box.ts"})
	require.NoError(t, err)
	require.Len(t, spec.Operations, 1)

	op := spec.Operations[0]
	valueSchema, ok := op.Body.Schema.Object.Get("value")
	require.True(t, ok)
	assert.Equal(t, ir.KindString, valueSchema.Kind)
	require.Len(t, op.Successes, 1)
	assert.Equal(t, ir.KindString, op.Successes[0].Schema.Kind)
}

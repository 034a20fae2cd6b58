package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeIdentifier(t *testing.T) {
	assert.Equal(t, "get_users_id", SanitizeIdentifier("get-/users/{id}"))
	assert.Equal(t, "users", SanitizeIdentifier("/users/"))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "user_id", ToSnakeCase("UserID"))
	assert.Equal(t, "email", ToSnakeCase("email"))
}

func TestToPascalCase(t *testing.T) {
	assert.Equal(t, "UserId", ToPascalCase("user_id"))
	assert.Equal(t, "CreateUser", ToPascalCase("create-user"))
}

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "createdUser", ToCamelCase("created_user"))
	assert.Equal(t, "email", ToCamelCase("email"))
}

func TestResourceNameFromPath(t *testing.T) {
	assert.Equal(t, "user", ResourceNameFromPath("/users"))
	assert.Equal(t, "user", ResourceNameFromPath("/users/{user_id}"))
	assert.Equal(t, "category", ResourceNameFromPath("/categories"))
}

func TestSingularize(t *testing.T) {
	assert.Equal(t, "user", Singularize("users"))
	assert.Equal(t, "category", Singularize("categories"))
	assert.Equal(t, "bus", Singularize("buses"))
	assert.Equal(t, "data", Singularize("data"))
}

package httpcontract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/ir"
)

const scenarioADoc = `
title: Users API
version: "1.0"
paths:
  /users:
    post:
      operationId: create_user
      requestBody:
        required: true
        schema:
          type: object
          required: [email, age]
          properties:
            email:
              type: string
              format: email
              maxLength: 255
            age:
              type: integer
              minimum: 0
              maximum: 150
      responses:
        "201":
          schema:
            type: object
            properties:
              id:
                type: string
        "400": {}
`

func TestParseScenarioA(t *testing.T) {
	spec, err := dialect.Parse(dialect.HTTPContract, []byte(scenarioADoc), dialect.Options{SourceName: "scenario-a"})
	require.NoError(t, err)
	require.Len(t, spec.Operations, 1)

	op := spec.Operations[0]
	assert.Equal(t, "create_user", op.ID)
	assert.Equal(t, ir.KindTagHTTP, op.Kind.Tag)
	assert.Equal(t, ir.MethodPost, op.Kind.HTTP.Method)
	assert.Equal(t, "/users", op.Kind.HTTP.Path)

	require.NotNil(t, op.Body)
	require.Equal(t, ir.KindObject, op.Body.Schema.Kind)

	emailSchema, ok := op.Body.Schema.Object.Get("email")
	require.True(t, ok)
	assert.Equal(t, ir.KindString, emailSchema.Kind)
	assert.Equal(t, ir.FormatEmail, emailSchema.String.Format)
	require.NotNil(t, emailSchema.String.MaxLen)
	assert.Equal(t, 255, *emailSchema.String.MaxLen)
	assert.True(t, op.Body.Schema.Object.IsRequired("email"))

	ageSchema, ok := op.Body.Schema.Object.Get("age")
	require.True(t, ok)
	assert.Equal(t, ir.KindInteger, ageSchema.Kind)
	require.NotNil(t, ageSchema.Numeric.Min)
	assert.Equal(t, 0.0, *ageSchema.Numeric.Min)
	require.NotNil(t, ageSchema.Numeric.Max)
	assert.Equal(t, 150.0, *ageSchema.Numeric.Max)

	require.Len(t, op.Successes, 1)
	assert.Equal(t, 201, op.Successes[0].Status)
	require.Len(t, op.Errors, 1)
	assert.Equal(t, 400, op.Errors[0].Status)
	assert.Equal(t, ir.KindAny, op.Errors[0].Schema.Kind)
}

const scenarioBDoc = `
title: Users API
version: "1.0"
paths:
  /users:
    post:
      operationId: create_user
      requestBody:
        required: true
        schema:
          type: object
          required: [email]
          properties:
            email:
              type: string
      responses:
        "201": {}
  /users/{user_id}:
    get:
      operationId: get_user
      parameters:
        - name: user_id
          in: path
          schema:
            type: string
            format: uuid
      responses:
        "200":
          schema:
            type: object
            properties:
              id:
                type: string
        "404": {}
`

func TestParseScenarioB(t *testing.T) {
	spec, err := dialect.Parse(dialect.HTTPContract, []byte(scenarioBDoc), dialect.Options{SourceName: "scenario-b"})
	require.NoError(t, err)
	require.Len(t, spec.Operations, 2)

	create := spec.FindOperation("create_user")
	require.NotNil(t, create)

	get := spec.FindOperation("get_user")
	require.NotNil(t, get)
	assert.Equal(t, "/users/{user_id}", get.Kind.HTTP.Path)
	require.Len(t, get.PathParams, 1)
	assert.Equal(t, "user_id", get.PathParams[0].Name)
	assert.True(t, get.PathParams[0].Required)
	assert.Equal(t, ir.FormatUUID, get.PathParams[0].Schema.String.Format)

	require.Len(t, get.Successes, 1)
	assert.Equal(t, 200, get.Successes[0].Status)
	require.Len(t, get.Errors, 1)
	assert.Equal(t, 404, get.Errors[0].Status)
}

func TestSynthesizedOperationID(t *testing.T) {
	const doc = `
paths:
  /users/{user_id}/orders:
    delete:
      responses:
        "204": {}
`
	spec, err := dialect.Parse(dialect.HTTPContract, []byte(doc), dialect.Options{SourceName: "synth"})
	require.NoError(t, err)
	require.Len(t, spec.Operations, 1)
	assert.Equal(t, "delete_users_user_id_orders", spec.Operations[0].ID)
}

func TestUnresolvedRefRejected(t *testing.T) {
	const doc = `
paths:
  /widgets:
    post:
      requestBody:
        schema:
          $ref: Widget
      responses:
        "201": {}
`
	_, err := dialect.Parse(dialect.HTTPContract, []byte(doc), dialect.Options{SourceName: "bad-ref"})
	assert.Error(t, err)
}

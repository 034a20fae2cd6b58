package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/payload"
)

type fakeProvider struct {
	name      string
	responses []Response
	errs      []error
	calls     int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(_ context.Context, _ Request) (Response, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return Response{}, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return Response{}, errors.New("fakeProvider: ran out of scripted responses")
}

func createUserOperation() *ir.Operation {
	return &ir.Operation{
		ID:   "createUser",
		Kind: ir.NewHTTPKind(ir.MethodPost, "/users"),
		Body: &ir.Parameter{
			Name:     "body",
			Required: true,
			Schema: ir.NewObject(ir.ObjectSchema{Properties: []ir.ObjectProperty{
				{Name: "name", Schema: ir.NewString(ir.StringConstraints{})},
			}, Required: []string{"name"}}),
		},
		Successes: []ir.Response{{Status: 201}},
	}
}

func happyPathPayload() payload.Payload {
	return payload.Payload{
		OperationID:    "createUser",
		IntentID:       intent.HappyPath,
		Body:           map[string]any{"name": payload.PlaceholderStringPrefix + "name__"},
		ExpectedStatus: 201,
	}
}

// rootCandidate wraps body in the four-group object Enhance sends to the
// provider and validates the provider's answer against.
func rootCandidate(body map[string]any) map[string]any {
	return map[string]any{"path_params": map[string]any{}, "query_params": map[string]any{}, "headers": map[string]any{}, "body": body}
}

func testOptions() EnhancerOptions {
	return EnhancerOptions{BackoffBase: time.Millisecond, MaxAttempts: 1}
}

func TestEnhancerAppliesValidCandidate(t *testing.T) {
	fp := &fakeProvider{name: "fake", responses: []Response{
		{Payload: rootCandidate(map[string]any{"name": "Ada Lovelace"})},
	}}
	e := NewEnhancer(fp, testOptions())

	out, applied := e.Enhance(context.Background(), createUserOperation(), happyPathPayload())
	require.True(t, applied)
	assert.Equal(t, "Ada Lovelace", out.Body.(map[string]any)["name"])
	assert.Equal(t, 1, fp.calls)
	assert.False(t, e.breaker.Open())
}

func TestEnhancerSkipsNonHappyPathIntent(t *testing.T) {
	fp := &fakeProvider{name: "fake"}
	e := NewEnhancer(fp, testOptions())

	p := happyPathPayload()
	p.IntentID = intent.RequiredFieldMissing

	out, applied := e.Enhance(context.Background(), createUserOperation(), p)
	assert.False(t, applied)
	assert.Equal(t, p, out)
	assert.Equal(t, 0, fp.calls)
}

func TestEnhancerFallsBackOnProviderError(t *testing.T) {
	fp := &fakeProvider{name: "fake", errs: []error{errors.New("boom")}}
	e := NewEnhancer(fp, testOptions())

	original := happyPathPayload()
	out, applied := e.Enhance(context.Background(), createUserOperation(), original)
	assert.False(t, applied)
	assert.Equal(t, original, out)
}

func TestEnhancerFallsBackOnStructuralViolation(t *testing.T) {
	fp := &fakeProvider{name: "fake", responses: []Response{
		{Payload: rootCandidate(map[string]any{"name": 42})},
	}}
	e := NewEnhancer(fp, testOptions())

	original := happyPathPayload()
	out, applied := e.Enhance(context.Background(), createUserOperation(), original)
	assert.False(t, applied)
	assert.Equal(t, original, out)
	assert.False(t, e.breaker.Open())
}

func TestEnhancerFallsBackOnSurvivingPlaceholder(t *testing.T) {
	fp := &fakeProvider{name: "fake", responses: []Response{
		{Payload: rootCandidate(map[string]any{"name": payload.PlaceholderStringPrefix + "name__"})},
	}}
	e := NewEnhancer(fp, testOptions())

	original := happyPathPayload()
	out, applied := e.Enhance(context.Background(), createUserOperation(), original)
	assert.False(t, applied)
	assert.Equal(t, original, out)
}

func TestEnhancerSkipsWhenBreakerOpen(t *testing.T) {
	fp := &fakeProvider{name: "fake"}
	e := NewEnhancer(fp, testOptions())
	e.breaker = NewCircuitBreaker(1, time.Hour)
	e.breaker.RecordFailure()
	require.True(t, e.breaker.Open())

	original := happyPathPayload()
	out, applied := e.Enhance(context.Background(), createUserOperation(), original)
	assert.False(t, applied)
	assert.Equal(t, original, out)
	assert.Equal(t, 0, fp.calls)
}

func TestEnhancerRetriesBeforeFallingBack(t *testing.T) {
	fp := &fakeProvider{name: "fake", errs: []error{errors.New("transient"), nil}, responses: []Response{
		{},
		{Payload: rootCandidate(map[string]any{"name": "Grace Hopper"})},
	}}
	opts := testOptions()
	opts.MaxAttempts = 2
	e := NewEnhancer(fp, opts)

	out, applied := e.Enhance(context.Background(), createUserOperation(), happyPathPayload())
	require.True(t, applied)
	assert.Equal(t, "Grace Hopper", out.Body.(map[string]any)["name"])
	assert.Equal(t, 2, fp.calls)
}

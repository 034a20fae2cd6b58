// Package llm implements the optional payload enhancer (§4.9): a provider
// abstraction over Anthropic and OpenAI, a per-provider circuit breaker, and
// a structural-invariant validator that keeps enhancement from ever
// changing a payload's intent, shape, or expected outcome.
package llm

import "context"

// Request is a single enhancement call: schema gives the provider the
// shape it must preserve, Payload is the placeholder-bearing HAPPY_PATH
// payload being enriched, as one object with path_params, query_params and
// headers keys, plus a body key when the payload has a body.
type Request struct {
	OperationID string
	Model       string
	Schema      map[string]any
	Payload     map[string]any
}

// Response is a provider's raw candidate payload, prior to structural
// validation.
type Response struct {
	Payload map[string]any
}

// Provider is the minimal surface the enhancer needs from an LLM backend.
// Concrete adapters (AnthropicProvider, OpenAIProvider) wrap a narrower
// client interface each, so tests can substitute a fake without a network
// call, mirroring the teacher pack's goa-ai model.Client adapters.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (Response, error)
}

// Package llm implements the optional payload enhancer (§4.9): a provider
// abstraction over Anthropic and OpenAI, a per-provider circuit breaker, and
// a structural-invariant validator that keeps enhancement from ever
// changing a payload's intent, shape, or expected outcome.
package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/payload"
	"github.com/specforge/specforge/specerrors"
)

// EnhancerOptions configures an Enhancer. Zero values pick the defaults
// named in §4.9: a threshold-5/30s-cooldown breaker and a 2s-base/3-attempt
// backoff.
type EnhancerOptions struct {
	BreakerThreshold int
	BreakerCooldown  time.Duration
	BackoffBase      time.Duration
	MaxAttempts      int
	Model            string
	Logger           ir.Logger
}

// Enhancer wraps a Provider with a circuit breaker, retrying backoff, and
// the structural-invariant validator, so a caller gets back either an
// improved HAPPY_PATH payload or the untouched original — never an error.
type Enhancer struct {
	provider Provider
	breaker  *CircuitBreaker
	opts     EnhancerOptions
	logger   ir.Logger
}

// NewEnhancer builds an Enhancer around provider.
func NewEnhancer(provider Provider, opts EnhancerOptions) *Enhancer {
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 2 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	logger := opts.Logger
	if logger == nil {
		logger = ir.NopLogger{}
	}
	return &Enhancer{
		provider: provider,
		breaker:  NewCircuitBreaker(opts.BreakerThreshold, opts.BreakerCooldown),
		opts:     opts,
		logger:   logger.With("component", "llm.enhancer", "provider", provider.Name()),
	}
}

// Enhance attempts to improve the realism of p's values, returning the
// result and whether enhancement actually applied. p must carry the
// HAPPY_PATH intent; any other intent is returned unchanged since §4.9
// scopes enhancement to golden-path payloads only. Enhance never returns an
// error: every provider or validation failure falls back to the original
// payload, exactly as §4.9 requires.
func (e *Enhancer) Enhance(ctx context.Context, op *ir.Operation, p payload.Payload) (payload.Payload, bool) {
	if p.IntentID != intent.HappyPath {
		return p, false
	}
	if !e.breaker.Allow() {
		e.logger.Debug("circuit open, skipping enhancement", "operation_id", op.ID)
		return p, false
	}

	schema := rootSchema(op)
	original := rootPayload(p)

	var candidate map[string]any
	callErr := backoff.Retry(func() error {
		resp, err := e.provider.Complete(ctx, Request{
			OperationID: op.ID,
			Model:       e.opts.Model,
			Schema:      schemaJSON(schema),
			Payload:     original,
		})
		if err != nil {
			return err
		}
		candidate = resp.Payload
		return nil
	}, e.backoffPolicy(ctx))

	if callErr != nil {
		e.breaker.RecordFailure()
		e.logger.Warn("enhancement provider call failed, using original payload",
			"operation_id", op.ID, "error", callErr)
		return p, false
	}

	if err := validateCandidate(schema, original, candidate); err != nil {
		e.breaker.RecordSuccess()
		violation := &specerrors.LLMPolicyViolation{OperationID: op.ID, Reason: err.Error()}
		e.logger.Warn("enhancement rejected by structural validator, using original payload",
			"operation_id", op.ID, "error", violation.Error())
		return p, false
	}

	e.breaker.RecordSuccess()
	return applyRootPayload(p, candidate), true
}

func (e *Enhancer) backoffPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.opts.BackoffBase
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(e.opts.MaxAttempts-1)), ctx)
}

const (
	keyPathParams  = "path_params"
	keyQueryParams = "query_params"
	keyHeaders     = "headers"
	keyBody        = "body"
)

// rootSchema builds a single object Schema wrapping op's four input groups,
// so the structural validator can walk the whole payload in one pass.
func rootSchema(op *ir.Operation) *ir.Schema {
	props := []ir.ObjectProperty{
		{Name: keyPathParams, Schema: groupSchema(op.PathParams)},
		{Name: keyQueryParams, Schema: groupSchema(op.QueryParams)},
		{Name: keyHeaders, Schema: groupSchema(op.Headers)},
	}
	if op.Body != nil {
		props = append(props, ir.ObjectProperty{Name: keyBody, Schema: op.Body.Schema})
	}
	return ir.NewObject(ir.ObjectSchema{Properties: props, AdditionalAllowed: false})
}

func groupSchema(params []ir.Parameter) *ir.Schema {
	props := make([]ir.ObjectProperty, 0, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		props = append(props, ir.ObjectProperty{Name: p.Name, Schema: p.Schema})
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return ir.NewObject(ir.ObjectSchema{Properties: props, Required: required, AdditionalAllowed: false})
}

// rootPayload flattens p's four groups into the same shape rootSchema
// describes. An empty parameter group becomes an empty object; the body key
// is present only when p has a body.
func rootPayload(p payload.Payload) map[string]any {
	root := map[string]any{}
	if len(p.PathParams) > 0 {
		root[keyPathParams] = p.PathParams
	} else {
		root[keyPathParams] = map[string]any{}
	}
	if len(p.QueryParams) > 0 {
		root[keyQueryParams] = p.QueryParams
	} else {
		root[keyQueryParams] = map[string]any{}
	}
	if len(p.Headers) > 0 {
		root[keyHeaders] = p.Headers
	} else {
		root[keyHeaders] = map[string]any{}
	}
	if p.Body != nil {
		root[keyBody] = p.Body
	}
	return root
}

// applyRootPayload copies a validated candidate's groups back onto a copy of
// p, leaving everything but the four value groups (intent, expected status,
// target field) untouched.
func applyRootPayload(p payload.Payload, candidate map[string]any) payload.Payload {
	out := p
	if v, ok := candidate[keyPathParams].(map[string]any); ok {
		out.PathParams = v
	}
	if v, ok := candidate[keyQueryParams].(map[string]any); ok {
		out.QueryParams = v
	}
	if v, ok := candidate[keyHeaders].(map[string]any); ok {
		out.Headers = v
	}
	if v, ok := candidate[keyBody]; ok {
		out.Body = v
	}
	return out
}

// schemaJSON renders schema into the plain map[string]any shape Request
// carries, for inclusion in the provider prompt. It is a lossy, human
// readable projection, not a round-trippable encoding.
func schemaJSON(schema *ir.Schema) map[string]any {
	return schemaJSONValue(schema).(map[string]any)
}

func schemaJSONValue(schema *ir.Schema) any {
	if schema == nil {
		return map[string]any{"kind": "any"}
	}
	out := map[string]any{"kind": string(schema.Kind)}
	switch schema.Kind {
	case ir.KindObject:
		props := map[string]any{}
		if schema.Object != nil {
			for _, p := range schema.Object.Properties {
				props[p.Name] = schemaJSONValue(p.Schema)
			}
			out["required"] = schema.Object.Required
		}
		out["properties"] = props
	case ir.KindArray:
		if schema.Array != nil {
			out["items"] = schemaJSONValue(schema.Array.Items)
		}
	case ir.KindEnum:
		if schema.Enum != nil {
			out["values"] = schema.Enum.Values
			out["base_type"] = string(schema.Enum.BaseType)
		}
	case ir.KindUnion:
		if schema.Union != nil {
			variants := make([]any, len(schema.Union.Variants))
			for i, v := range schema.Union.Variants {
				variants[i] = schemaJSONValue(v)
			}
			out["variants"] = variants
		}
	}
	return out
}

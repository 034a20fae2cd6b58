// Package payload synthesizes the golden-record payload for an operation
// (§4.3) and mutates it into the raw payload for a single intent (§4.4).
package payload

import "github.com/specforge/specforge/intent"

// Payload is the raw request/call data for exercising one intent against one
// operation. Path, query, header, and body values are plain JSON-shaped Go
// values (string, int, float64, bool, nil, []any, map[string]any); the renderer
// is responsible for any target-language conversion.
type Payload struct {
	OperationID string    `json:"operation_id"`
	IntentID    intent.ID `json:"intent_id"`
	// TargetField names the field the intent targets, empty for HAPPY_PATH.
	TargetField string `json:"target_field,omitempty"`

	Body        any            `json:"body,omitempty"`
	PathParams  map[string]any `json:"path_params,omitempty"`
	QueryParams map[string]any `json:"query_params,omitempty"`
	Headers     map[string]any `json:"headers,omitempty"`

	// ExpectedStatus is the HTTP status the request should receive. Always
	// zero for function operations, which signal failure via exceptions.
	ExpectedStatus int `json:"expected_status,omitempty"`
}

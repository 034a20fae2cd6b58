package llm

import (
	"encoding/json"
	"fmt"
)

// enhancementPrompt builds the text prompt sent to either provider: the
// operation's schema plus its placeholder-bearing payload, asking for a
// single JSON object back that keeps the same shape (§4.9).
func enhancementPrompt(req Request) (string, error) {
	schemaJSON, err := json.MarshalIndent(req.Schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling schema: %w", err)
	}
	payloadJSON, err := json.MarshalIndent(req.Payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}
	return fmt.Sprintf(`Improve the realism of the following test payload's values without changing its shape.

Rules:
- Keep exactly the same set of keys at every nesting level.
- Keep each leaf value's primitive type (string stays string, number stays number, etc).
- If a key's schema declares an enum, only use one of its declared values.
- Replace every placeholder-looking value with a plausible realistic one.
- Return ONLY a single JSON object, no prose, no markdown fence.

Schema:
%s

Payload:
%s`, schemaJSON, payloadJSON), nil
}

package fixture

import "github.com/specforge/specforge/payload"

// ApplyPlaceholders returns a copy of payloads with each path param named by
// plan.PlaceholderBindings replaced by its "USE_CREATED_RESOURCE_<resource>"
// sentinel (§4.8: "a sentinel ... placeholder in the payload"), except on a
// payload whose own intent specifically targets that path param (e.g.
// RESOURCE_NOT_FOUND, FORMAT_INVALID_PATH_PARAM) — those keep the mutated
// value the intent produced, since substituting the sentinel there would
// erase the very intent being tested (Scenario B of the specification).
func ApplyPlaceholders(payloads []payload.Payload, plan *SetupPlan) []payload.Payload {
	if plan == nil || len(plan.PlaceholderBindings) == 0 {
		return payloads
	}

	out := make([]payload.Payload, len(payloads))
	for i, p := range payloads {
		out[i] = p
		if len(p.PathParams) == 0 {
			continue
		}
		patched := make(map[string]any, len(p.PathParams))
		for k, v := range p.PathParams {
			patched[k] = v
		}
		for paramName, sentinel := range plan.PlaceholderBindings {
			if p.TargetField == paramName {
				continue
			}
			if _, present := patched[paramName]; present {
				patched[paramName] = sentinel
			}
		}
		out[i].PathParams = patched
	}
	return out
}

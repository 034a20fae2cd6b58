package pipeline

import (
	"github.com/specforge/specforge/fixture"
	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/payload"
)

// operationIntents is one entry of the 2_intents.json artifact: the deduped
// intent list for a single operation (§6).
type operationIntents struct {
	OperationID string        `json:"operation_id"`
	Intents     []intent.Intent `json:"intents"`
}

// fixturePlanEntry is one entry of the 4_fixture_plan.json artifact: the
// consumer operation a setup plan was built for, plus the plan itself.
type fixturePlanEntry struct {
	OperationID         string              `json:"operation_id"`
	Steps               []fixture.SetupStep `json:"steps"`
	TeardownSteps       []fixture.TeardownStep `json:"teardown_steps"`
	PlaceholderBindings map[string]string   `json:"placeholder_bindings"`
}

// irArtifact is the 1_ir.json artifact: the parsed Specification verbatim.
type irArtifact = ir.Specification

// payloadsArtifact is the 3_payloads_raw.json / 3_payloads_enhanced.json
// artifact shape: every payload across every operation, in source
// declaration / intent order (§5 ordering guarantees).
type payloadsArtifact struct {
	Payloads []payload.Payload `json:"payloads"`
}

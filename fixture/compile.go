package fixture

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// InstructionKind discriminates FixtureProgram instructions (§4.7).
type InstructionKind string

const (
	InstructionCreateResource      InstructionKind = "create_resource"
	InstructionCaptureIdFrom       InstructionKind = "capture_id_from"
	InstructionBindPlaceholder     InstructionKind = "bind_placeholder"
	InstructionDeleteResource      InstructionKind = "delete_resource"
	InstructionHandleDeleteFailure InstructionKind = "handle_delete_failure"
)

// Instruction is one abstract fixture-program step. Exactly one payload
// field is populated, selected by Kind.
type Instruction struct {
	Kind InstructionKind

	CreateResource      *CreateResourceInstr
	CaptureIdFrom       *CaptureIdFromInstr
	BindPlaceholder     *BindPlaceholderInstr
	DeleteResource      *DeleteResourceInstr
	HandleDeleteFailure *HandleDeleteFailureInstr
}

// CreateResourceInstr issues the Producer's request. UniqueFields names
// body keys the runtime must suffix with a fresh random token before
// sending, so repeated runs against the same backend never collide
// (§4.7: uniqueness is injected at fixture-execution time, not by the
// mutator).
type CreateResourceInstr struct {
	OperationID  string
	ResourceType string
	Body         any
	UniqueFields []string
}

// CaptureIdFromInstr reads "id" out of the CreateResource response and
// binds it under BindName for later steps to reference.
type CaptureIdFromInstr struct {
	BindName string
}

// BindPlaceholderInstr resolves a consumer payload's sentinel
// USE_CREATED_RESOURCE_<resource> placeholder to the id captured under
// BindName.
type BindPlaceholderInstr struct {
	PathParamName string
	BindName      string
}

// DeleteResourceInstr issues the teardown DELETE against the resource
// captured under BindName.
type DeleteResourceInstr struct {
	BindName     string
	ResourceType string
}

// HandleDeleteFailureInstr marks the preceding DeleteResource's failure as
// non-fatal (§4.6: "teardown failures are non-fatal").
type HandleDeleteFailureInstr struct {
	BindName string
}

// FixtureProgram is the ordered instruction sequence a SetupPlan compiles
// to: creation, capture, and placeholder binding for every setup step,
// followed by deletion and failure-handling for every teardown step, in
// that order.
type FixtureProgram struct {
	Instructions []Instruction
}

// identityFieldHints are body-field name fragments the compiler treats as
// carrying identity, and therefore suffixes at execution time (§4.7).
var identityFieldHints = []string{"email", "username", "code", "name"}

// Compile turns a SetupPlan into a FixtureProgram.
func Compile(plan *SetupPlan) *FixtureProgram {
	prog := &FixtureProgram{}

	for _, step := range plan.Steps {
		prog.Instructions = append(prog.Instructions,
			Instruction{
				Kind: InstructionCreateResource,
				CreateResource: &CreateResourceInstr{
					OperationID:  step.Producer.Operation.ID,
					ResourceType: step.ResourceType,
					Body:         step.Body,
					UniqueFields: identityFields(step.Body),
				},
			},
			Instruction{
				Kind:          InstructionCaptureIdFrom,
				CaptureIdFrom: &CaptureIdFromInstr{BindName: step.BindName},
			},
			Instruction{
				Kind: InstructionBindPlaceholder,
				BindPlaceholder: &BindPlaceholderInstr{
					PathParamName: step.PathParamName,
					BindName:      step.BindName,
				},
			},
		)
	}

	for _, step := range plan.TeardownSteps {
		prog.Instructions = append(prog.Instructions,
			Instruction{
				Kind: InstructionDeleteResource,
				DeleteResource: &DeleteResourceInstr{
					BindName:     step.BindName,
					ResourceType: step.ResourceType,
				},
			},
			Instruction{
				Kind:                InstructionHandleDeleteFailure,
				HandleDeleteFailure: &HandleDeleteFailureInstr{BindName: step.BindName},
			},
		)
	}

	return prog
}

// identityFields walks a Producer's golden-record body (top level only —
// the analyzer's resource bodies are flat creation payloads) and returns
// the keys whose name suggests an identity field, sorted by name.
func identityFields(body any) []string {
	m, ok := body.(map[string]any)
	if !ok {
		return nil
	}
	var out []string
	for key := range m {
		lower := strings.ToLower(key)
		for _, hint := range identityFieldHints {
			if strings.Contains(lower, hint) {
				out = append(out, key)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// UniquifyString appends a short random suffix to v, the runtime-side
// counterpart to identityFields. Nothing in the generator calls it; the
// rendered setup helpers append the same eight-character uuid suffix
// inline to each UniqueFields entry when the fixture runs (§4.7's Open
// Question resolution: uniqueness belongs at fixture-execution time).
func UniquifyString(v string) string {
	return v + "_" + uuid.NewString()[:8]
}

// Package pipeline implements the generation driver (§4.10): it sequences
// the parse, intent, payload, enhancement, fixture, and render stages,
// emits progress events, and persists an artifact at each stage boundary.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/render"
)

// LLMTarget configures one of the two independently-enabled LLM surfaces
// named in spec.md §6 (`payload_enhancement`, `test_enhancement`).
// specforge implements payload_enhancement (§4.9); test_enhancement is
// accepted in the request but nothing in the pipeline reads it.
type LLMTarget struct {
	Provider string
	Model    string
}

// LLMConfig is the `llm_config` block of a GenerationRequest.
type LLMConfig struct {
	PayloadEnhancement *LLMTarget
	TestEnhancement    *LLMTarget
}

// GenerationRequest is the abstract, transport-agnostic request shape from
// spec.md §6.
type GenerationRequest struct {
	SpecPayload     []byte
	SourceDialect   dialect.Name
	TargetFramework render.Framework
	BaseURL         string
	TargetIntents   []intent.ID
	LLMConfig       *LLMConfig
}

// StageID identifies one of the six pipeline stages, in execution order.
type StageID int

const (
	StageParse StageID = iota + 1
	StageIntents
	StagePayloadsRaw
	StagePayloadsEnhanced
	StageFixturePlan
	StageRender
)

func (s StageID) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageIntents:
		return "intents"
	case StagePayloadsRaw:
		return "payloads_raw"
	case StagePayloadsEnhanced:
		return "payloads_enhanced"
	case StageFixturePlan:
		return "fixture_plan"
	case StageRender:
		return "render"
	default:
		return "unknown"
	}
}

// StageStatus is one stage's lifecycle state.
type StageStatus string

const (
	StatusPending   StageStatus = "pending"
	StatusRunning   StageStatus = "running"
	StatusCompleted StageStatus = "completed"
	StatusFailed    StageStatus = "failed"
)

// ProgressEvent is one `(job_id, stage_id, status, progress_percent)` tuple
// emitted by the driver (§6).
type ProgressEvent struct {
	JobID           string
	StageID         StageID
	Status          StageStatus
	ProgressPercent int
	Detail          string
}

// RenderedFile is one generated test file, keyed by the operation it
// belongs to.
type RenderedFile struct {
	OperationID string
	Path        string
	Contents    []byte
}

// OperationFailure records a per-operation render failure (§7: "fail the
// single operation's file but continue with other operations").
type OperationFailure struct {
	OperationID string
	Error       error
}

// Result is everything a completed (or partially-completed) job produced.
type Result struct {
	JobID          string
	Files          []RenderedFile
	Failures       []OperationFailure
	EnhancedCount  int
	FixturedCount  int
}

// newJobID generates a job id the way the fixture compiler generates
// render-safe unique suffixes: via google/uuid rather than a hand-rolled
// random-string generator.
func newJobID() string {
	return uuid.NewString()
}

// nowUTC returns the current wall-clock time in UTC. Nothing in the package
// calls it; the artifacts the driver writes carry no timestamps.
func nowUTC() time.Time {
	return time.Now().UTC()
}

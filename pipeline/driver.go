package pipeline

import (
	"context"
	"sync"

	encjson "github.com/segmentio/encoding/json"
	"golang.org/x/sync/errgroup"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/fixture"
	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/ir"
	"github.com/specforge/specforge/llm"
	"github.com/specforge/specforge/payload"
	"github.com/specforge/specforge/render"
)

// Driver sequences the six generation stages (§4.10) for one job at a time
// at the pipeline level, parallelizing within a stage across operations per
// §5. It depends only on the Store and Provider abstractions, never on a
// concrete backend.
type Driver struct {
	store     Store
	providers map[string]llm.Provider
	config    Config
	logger    ir.Logger
	telemetry telemetry

	mu   sync.Mutex
	buses map[string]*eventBus
}

// DriverOption configures a Driver at construction.
type DriverOption func(*Driver)

// WithLogger sets the Logger every stage reports through.
func WithLogger(l ir.Logger) DriverOption {
	return func(d *Driver) { d.logger = l }
}

// WithProvider registers an llm.Provider under its own Name(), selectable
// via a GenerationRequest's LLMConfig.PayloadEnhancement.Provider.
func WithProvider(p llm.Provider) DriverOption {
	return func(d *Driver) { d.providers[p.Name()] = p }
}

// NewDriver builds a Driver persisting artifacts to store and honoring
// config's worker/LLM defaults.
func NewDriver(store Store, config Config, opts ...DriverOption) *Driver {
	d := &Driver{
		store:     store,
		providers: map[string]llm.Provider{},
		config:    config,
		logger:    ir.NopLogger{},
		telemetry: newTelemetry(),
		buses:     map[string]*eventBus{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewJobID generates a fresh job identifier, ready to pass to Subscribe and
// Generate.
func (d *Driver) NewJobID() string {
	return newJobID()
}

// Subscribe returns a channel that receives every ProgressEvent published
// for jobID by a concurrent or subsequent Generate call, the supplemented
// "progress event bus" feature (SPEC_FULL.md). The channel closes once that
// job's Generate call returns.
func (d *Driver) Subscribe(jobID string) <-chan ProgressEvent {
	return d.busFor(jobID).Subscribe()
}

func (d *Driver) busFor(jobID string) *eventBus {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buses[jobID]
	if !ok {
		b = newEventBus()
		d.buses[jobID] = b
	}
	return b
}

func (d *Driver) publish(jobID string, stage StageID, status StageStatus, percent int, detail string) {
	d.busFor(jobID).publish(ProgressEvent{JobID: jobID, StageID: stage, Status: status, ProgressPercent: percent, Detail: detail})
}

func (d *Driver) releaseBus(jobID string) {
	d.mu.Lock()
	b := d.buses[jobID]
	delete(d.buses, jobID)
	d.mu.Unlock()
	if b != nil {
		b.close()
	}
}

// Generate runs one full generation job to completion (or first fatal
// failure), persisting each stage's artifact to the Driver's Store and
// publishing progress events to jobID's subscribers (§4.10, §7).
func (d *Driver) Generate(ctx context.Context, jobID string, req GenerationRequest) (*Result, error) {
	defer d.releaseBus(jobID)

	spec, err := d.runParse(ctx, jobID, req)
	if err != nil {
		return nil, err
	}

	opIntents, err := d.runIntents(ctx, jobID, spec, req)
	if err != nil {
		return nil, err
	}

	rawPayloads, err := d.runPayloadsRaw(ctx, jobID, spec, opIntents)
	if err != nil {
		return nil, err
	}

	enhancedPayloads, enhancedCount, err := d.runPayloadsEnhanced(ctx, jobID, spec, rawPayloads, req)
	if err != nil {
		return nil, err
	}

	fixturePrograms, fixturedCount, err := d.runFixturePlan(ctx, jobID, spec)
	if err != nil {
		return nil, err
	}

	result := d.runRender(ctx, jobID, spec, req, enhancedPayloads, fixturePrograms)
	result.JobID = jobID
	result.EnhancedCount = enhancedCount
	result.FixturedCount = fixturedCount
	return result, nil
}

func (d *Driver) runParse(ctx context.Context, jobID string, req GenerationRequest) (*ir.Specification, error) {
	ctx, end := d.telemetry.startStage(ctx, jobID, StageParse)
	d.publish(jobID, StageParse, StatusRunning, 0, "parsing source")

	spec, err := dialect.Parse(req.SourceDialect, req.SpecPayload, dialect.Options{Logger: d.logger, SourceName: "request"})
	if err != nil {
		end(err)
		d.publish(jobID, StageParse, StatusFailed, 0, err.Error())
		return nil, err
	}

	data, _ := encjson.Marshal((*irArtifact)(spec))
	if err := d.store.Put(ctx, jobID, ArtifactIR, data); err != nil {
		end(err)
		d.publish(jobID, StageParse, StatusFailed, 100, err.Error())
		return nil, err
	}

	end(nil)
	d.publish(jobID, StageParse, StatusCompleted, 100, "")
	return spec, nil
}

func (d *Driver) runIntents(ctx context.Context, jobID string, spec *ir.Specification, req GenerationRequest) ([]operationIntents, error) {
	ctx, end := d.telemetry.startStage(ctx, jobID, StageIntents)
	d.publish(jobID, StageIntents, StatusRunning, 0, "generating intents")

	out := make([]operationIntents, len(spec.Operations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workerLimit())
	for i, op := range spec.Operations {
		i, op := i, op
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ids, err := intent.Generate(op, req.SourceDialect, req.TargetIntents)
			if err != nil {
				return err
			}
			out[i] = operationIntents{OperationID: op.ID, Intents: ids}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		end(err)
		d.publish(jobID, StageIntents, StatusFailed, 0, err.Error())
		return nil, err
	}

	data, _ := encjson.Marshal(out)
	if err := d.store.Put(ctx, jobID, ArtifactIntents, data); err != nil {
		end(err)
		d.publish(jobID, StageIntents, StatusFailed, 100, err.Error())
		return nil, err
	}

	end(nil)
	d.publish(jobID, StageIntents, StatusCompleted, 100, "")
	return out, nil
}

func (d *Driver) runPayloadsRaw(ctx context.Context, jobID string, spec *ir.Specification, opIntents []operationIntents) ([]payload.Payload, error) {
	ctx, end := d.telemetry.startStage(ctx, jobID, StagePayloadsRaw)
	d.publish(jobID, StagePayloadsRaw, StatusRunning, 0, "synthesizing payloads")

	perOp := make([][]payload.Payload, len(spec.Operations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workerLimit())
	for i, op := range spec.Operations {
		i, op := i, op
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ps, err := payload.Generate(op, opIntents[i].Intents)
			if err != nil {
				return err
			}
			perOp[i] = ps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		end(err)
		d.publish(jobID, StagePayloadsRaw, StatusFailed, 0, err.Error())
		return nil, err
	}

	var all []payload.Payload
	for _, ps := range perOp {
		all = append(all, ps...)
	}

	data, _ := encjson.Marshal(payloadsArtifact{Payloads: all})
	if err := d.store.Put(ctx, jobID, ArtifactPayloadsRaw, data); err != nil {
		end(err)
		d.publish(jobID, StagePayloadsRaw, StatusFailed, 100, err.Error())
		return nil, err
	}

	end(nil)
	d.publish(jobID, StagePayloadsRaw, StatusCompleted, 100, "")
	return all, nil
}

// runPayloadsEnhanced applies the configured LLM enhancer to every
// HAPPY_PATH payload, in place, leaving every other payload untouched.
// Enhancement errors themselves never fail the job: they are absorbed by
// llm.Enhancer (§4.9). A store write failure still aborts the job like
// every other stage (§7).
func (d *Driver) runPayloadsEnhanced(ctx context.Context, jobID string, spec *ir.Specification, raw []payload.Payload, req GenerationRequest) ([]payload.Payload, int, error) {
	ctx, end := d.telemetry.startStage(ctx, jobID, StagePayloadsEnhanced)

	target := enhancementTarget(req)
	provider, ok := d.providerFor(target)
	if !ok {
		d.publish(jobID, StagePayloadsEnhanced, StatusCompleted, 100, "llm disabled")
		end(nil)
		return raw, 0, nil
	}
	d.publish(jobID, StagePayloadsEnhanced, StatusRunning, 0, "enhancing happy-path payloads")

	enhancer := llm.NewEnhancer(provider, llm.EnhancerOptions{
		BreakerThreshold: d.config.BreakerThreshold,
		BreakerCooldown:  d.config.BreakerCooldown,
		BackoffBase:      d.config.BackoffBase,
		MaxAttempts:      d.config.MaxAttempts,
		Model:            target.Model,
		Logger:           d.logger,
	})

	out := make([]payload.Payload, len(raw))
	copy(out, raw)
	var appliedCount int
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workerLimit())
	for i, p := range out {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			op := spec.FindOperation(p.OperationID)
			if op == nil {
				return nil
			}
			enhanced, applied := enhancer.Enhance(gctx, op, p)
			if applied {
				mu.Lock()
				out[i] = enhanced
				appliedCount++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	data, _ := encjson.Marshal(payloadsArtifact{Payloads: out})
	if err := d.store.Put(ctx, jobID, ArtifactPayloadsEnhanced, data); err != nil {
		end(err)
		d.publish(jobID, StagePayloadsEnhanced, StatusFailed, 100, err.Error())
		return nil, 0, err
	}

	end(nil)
	d.publish(jobID, StagePayloadsEnhanced, StatusCompleted, 100, "")
	return out, appliedCount, nil
}

func enhancementTarget(req GenerationRequest) *LLMTarget {
	if req.LLMConfig == nil {
		return nil
	}
	return req.LLMConfig.PayloadEnhancement
}

func (d *Driver) providerFor(target *LLMTarget) (llm.Provider, bool) {
	if !d.config.LLMEnabled || target == nil {
		return nil, false
	}
	p, ok := d.providers[target.Provider]
	return p, ok
}

// runFixturePlan analyzes the specification's HTTP operations for producer/
// consumer relationships and compiles a setup program for every consumer
// that needs one (§4.5-4.7). Function-only specifications produce no
// fixture plan at all.
func (d *Driver) runFixturePlan(ctx context.Context, jobID string, spec *ir.Specification) (map[string]*fixture.FixtureProgram, int, error) {
	ctx, end := d.telemetry.startStage(ctx, jobID, StageFixturePlan)

	analysis := fixture.Analyze(spec)
	if len(analysis.Consumers) == 0 {
		d.publish(jobID, StageFixturePlan, StatusCompleted, 100, "no HTTP consumers")
		end(nil)
		return map[string]*fixture.FixtureProgram{}, 0, nil
	}
	d.publish(jobID, StageFixturePlan, StatusRunning, 0, "building fixture plans")

	programs := map[string]*fixture.FixtureProgram{}
	var entries []fixturePlanEntry
	for _, consumer := range analysis.Consumers {
		if !consumer.NeedsSetup {
			continue
		}
		plan, err := fixture.BuildSetupPlan(consumer, analysis)
		if err != nil {
			end(err)
			d.publish(jobID, StageFixturePlan, StatusFailed, 0, err.Error())
			return nil, 0, err
		}
		programs[consumer.Operation.ID] = fixture.Compile(plan)
		entries = append(entries, fixturePlanEntry{
			OperationID:         consumer.Operation.ID,
			Steps:               plan.Steps,
			TeardownSteps:       plan.TeardownSteps,
			PlaceholderBindings: plan.PlaceholderBindings,
		})
	}

	data, _ := encjson.Marshal(entries)
	if err := d.store.Put(ctx, jobID, ArtifactFixturePlan, data); err != nil {
		end(err)
		d.publish(jobID, StageFixturePlan, StatusFailed, 100, err.Error())
		return nil, 0, err
	}

	end(nil)
	d.publish(jobID, StageFixturePlan, StatusCompleted, 100, "")
	return programs, len(entries), nil
}

// runRender applies each consumer operation's placeholder substitution
// (§4.8, via fixture.ApplyPlaceholders) and renders every operation's test
// file. A single operation's render failure is scoped to that operation
// (§7); the job otherwise completes with partial success.
func (d *Driver) runRender(ctx context.Context, jobID string, spec *ir.Specification, req GenerationRequest, payloads []payload.Payload, programs map[string]*fixture.FixtureProgram) *Result {
	ctx, end := d.telemetry.startStage(ctx, jobID, StageRender)
	d.publish(jobID, StageRender, StatusRunning, 0, "rendering test files")

	byOp := map[string][]payload.Payload{}
	for _, p := range payloads {
		byOp[p.OperationID] = append(byOp[p.OperationID], p)
	}

	files := make([]*RenderedFile, len(spec.Operations))
	failures := make([]*OperationFailure, len(spec.Operations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workerLimit())
	for i, op := range spec.Operations {
		i, op := i, op
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			opPayloads := applyFixturePlaceholders(byOp[op.ID], op, programs)

			out, err := render.Render(spec, op, opPayloads, programs[op.ID], render.Options{
				Framework: req.TargetFramework,
				BaseURL:   req.BaseURL,
				Logger:    d.logger,
			})
			if err != nil {
				failures[i] = &OperationFailure{OperationID: op.ID, Error: err}
				return nil
			}

			path := TestArtifactPath(op.ID)
			if err := d.store.Put(gctx, jobID, path, out); err != nil {
				failures[i] = &OperationFailure{OperationID: op.ID, Error: err}
				return nil
			}
			files[i] = &RenderedFile{OperationID: op.ID, Path: path, Contents: out}
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{}
	for _, f := range files {
		if f != nil {
			result.Files = append(result.Files, *f)
		}
	}
	for _, f := range failures {
		if f != nil {
			result.Failures = append(result.Failures, *f)
		}
	}

	status := StatusCompleted
	if len(result.Failures) > 0 && len(result.Files) == 0 {
		status = StatusFailed
	}
	end(nil)
	d.publish(jobID, StageRender, status, 100, "")
	return result
}

// applyFixturePlaceholders finds the SetupPlan backing op's fixture
// program, if any, and re-derives its PlaceholderBindings so
// fixture.ApplyPlaceholders can run on op's own payload slice; programs
// only retains the compiled FixtureProgram, not the originating SetupPlan,
// so bindings are recovered from the program's Setup instructions instead.
func applyFixturePlaceholders(payloads []payload.Payload, op *ir.Operation, programs map[string]*fixture.FixtureProgram) []payload.Payload {
	prog, ok := programs[op.ID]
	if !ok || prog == nil {
		return payloads
	}
	bindings := map[string]string{}
	var currentResourceType string
	for _, instr := range prog.Instructions {
		switch instr.Kind {
		case fixture.InstructionCreateResource:
			if instr.CreateResource != nil {
				currentResourceType = instr.CreateResource.ResourceType
			}
		case fixture.InstructionBindPlaceholder:
			if instr.BindPlaceholder != nil {
				bindings[instr.BindPlaceholder.PathParamName] = "USE_CREATED_RESOURCE_" + currentResourceType
			}
		}
	}
	if len(bindings) == 0 {
		return payloads
	}
	return fixture.ApplyPlaceholders(payloads, &fixture.SetupPlan{PlaceholderBindings: bindings})
}

func (d *Driver) workerLimit() int {
	if d.config.WorkerLimit <= 0 {
		return 4
	}
	return d.config.WorkerLimit
}


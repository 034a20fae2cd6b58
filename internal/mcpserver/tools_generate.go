package mcpserver

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/llm"
	"github.com/specforge/specforge/pipeline"
	"github.com/specforge/specforge/render"
)

// specInput represents the two ways a specification can be provided to the
// generate tool. Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a specification file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline specification source text"`
}

func (s specInput) resolve() ([]byte, error) {
	switch {
	case s.File != "" && s.Content != "":
		return nil, fmt.Errorf("specify exactly one of file or content, not both")
	case s.File != "":
		return os.ReadFile(s.File)
	case s.Content != "":
		return []byte(s.Content), nil
	default:
		return nil, fmt.Errorf("one of file or content is required")
	}
}

// llmInput configures the optional payload-enhancement target (§4.9).
type llmInput struct {
	Provider string `json:"provider,omitempty" jsonschema:"LLM provider: anthropic, openai"`
	Model    string `json:"model,omitempty"    jsonschema:"Model id for the provider"`
	APIKey   string `json:"api_key,omitempty"  jsonschema:"API key; falls back to ANTHROPIC_API_KEY/OPENAI_API_KEY"`
}

type generateInput struct {
	Spec          specInput `json:"spec"                    jsonschema:"The specification to generate tests from"`
	Dialect       string    `json:"dialect"                 jsonschema:"Source dialect: http-contract, dynamic-source, typed-source"`
	Framework     string    `json:"framework"               jsonschema:"Target framework: http-sync, http-async, function-direct"`
	BaseURL       string    `json:"base_url,omitempty"      jsonschema:"Base URL substituted into rendered HTTP tests"`
	TargetIntents []string  `json:"target_intents,omitempty" jsonschema:"Subset of the frozen intent catalog to emit; empty means all"`
	LLM           *llmInput `json:"llm,omitempty"           jsonschema:"Optional payload-enhancement provider configuration"`
}

type generatedFile struct {
	OperationID string `json:"operation_id"`
	Path        string `json:"path"`
	Contents    string `json:"contents"`
}

type generateFailure struct {
	OperationID string `json:"operation_id"`
	Error       string `json:"error"`
}

type generateOutput struct {
	JobID         string            `json:"job_id"`
	Files         []generatedFile   `json:"files"`
	Failures      []generateFailure `json:"failures,omitempty"`
	EnhancedCount int               `json:"enhanced_count"`
	FixturedCount int               `json:"fixtured_count"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	payload, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	dialectName := dialect.Name(input.Dialect)
	if _, ok := dialect.Lookup(dialectName); !ok {
		return errResult(fmt.Errorf("unknown dialect %q", input.Dialect)), generateOutput{}, nil
	}

	framework := render.Framework(input.Framework)
	switch framework {
	case render.HTTPSync, render.HTTPAsync, render.FunctionDirect:
	default:
		return errResult(fmt.Errorf("unknown framework %q", input.Framework)), generateOutput{}, nil
	}

	targetIntents := make([]intent.ID, 0, len(input.TargetIntents))
	for _, id := range input.TargetIntents {
		targetIntents = append(targetIntents, intent.ID(id))
	}

	req := pipeline.GenerationRequest{
		SpecPayload:     payload,
		SourceDialect:   dialectName,
		TargetFramework: framework,
		BaseURL:         input.BaseURL,
		TargetIntents:   targetIntents,
	}

	driverCfg := pipeline.LoadConfig()
	driverCfg.WorkerLimit = cfg.WorkerLimit
	driverCfg.LLMEnabled = false
	var opts []pipeline.DriverOption

	if input.LLM != nil && input.LLM.Provider != "" {
		if !mcpConfigAllowsLLM() {
			return errResult(fmt.Errorf("LLM payload enhancement is disabled on this server (SPECFORGE_MCP_LLM_ENABLED)")), generateOutput{}, nil
		}
		provider, err := buildProvider(*input.LLM)
		if err != nil {
			return errResult(err), generateOutput{}, nil
		}
		driverCfg.LLMEnabled = true
		opts = append(opts, pipeline.WithProvider(provider))
		req.LLMConfig = &pipeline.LLMConfig{
			PayloadEnhancement: &pipeline.LLMTarget{Provider: input.LLM.Provider, Model: input.LLM.Model},
		}
	}

	driver := pipeline.NewDriver(pipeline.NewMemoryStore(), driverCfg, opts...)
	jobID := driver.NewJobID()

	result, err := driver.Generate(ctx, jobID, req)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		JobID:         result.JobID,
		EnhancedCount: result.EnhancedCount,
		FixturedCount: result.FixturedCount,
	}
	output.Files = makeSlice[generatedFile](len(result.Files))
	for _, f := range result.Files {
		output.Files = append(output.Files, generatedFile{OperationID: f.OperationID, Path: f.Path, Contents: string(f.Contents)})
	}
	output.Failures = makeSlice[generateFailure](len(result.Failures))
	for _, f := range result.Failures {
		output.Failures = append(output.Failures, generateFailure{OperationID: f.OperationID, Error: sanitizeError(f.Error)})
	}

	return nil, output, nil
}

func mcpConfigAllowsLLM() bool {
	return cfg.LLMEnabled
}

func buildProvider(in llmInput) (llm.Provider, error) {
	if in.Model == "" {
		return nil, fmt.Errorf("llm.model is required when llm.provider is set")
	}
	switch in.Provider {
	case "anthropic":
		return llm.NewAnthropicProviderFromAPIKey(apiKeyOrEnv(in.APIKey, "ANTHROPIC_API_KEY"), in.Model)
	case "openai":
		return llm.NewOpenAIProviderFromAPIKey(apiKeyOrEnv(in.APIKey, "OPENAI_API_KEY"), in.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", in.Provider)
	}
}

func apiKeyOrEnv(explicit, envVar string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(envVar)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages to
// avoid leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

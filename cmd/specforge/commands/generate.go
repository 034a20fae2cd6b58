package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/specforge/specforge/dialect"
	"github.com/specforge/specforge/intent"
	"github.com/specforge/specforge/llm"
	"github.com/specforge/specforge/pipeline"
	"github.com/specforge/specforge/render"
)

// GenerateFlags contains flags for the generate command.
type GenerateFlags struct {
	Dialect     string
	Framework   string
	Output      string
	BaseURL     string
	Intents     string
	StoreKind   string
	LLMProvider string
	LLMModel    string
	LLMAPIKey   string
	Format      string
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}

	fs.StringVar(&flags.Dialect, "dialect", "", "source dialect: http-contract, dynamic-source, typed-source (required)")
	fs.StringVar(&flags.Framework, "framework", "http-sync", "target framework: http-sync, http-async, function-direct")
	fs.StringVar(&flags.Output, "o", "", "output directory for generated test files (required)")
	fs.StringVar(&flags.Output, "output", "", "output directory for generated test files (required)")
	fs.StringVar(&flags.BaseURL, "base-url", "", "base URL substituted into rendered HTTP tests")
	fs.StringVar(&flags.Intents, "intents", "", "comma-separated target_intents allow-list (default: all)")
	fs.StringVar(&flags.StoreKind, "store", "filesystem", "artifact store: memory, filesystem")
	fs.StringVar(&flags.LLMProvider, "llm-provider", "", "enable payload enhancement via this provider: anthropic, openai")
	fs.StringVar(&flags.LLMModel, "llm-model", "", "model id for the LLM provider")
	fs.StringVar(&flags.LLMAPIKey, "llm-api-key", "", "API key for the LLM provider (or set ANTHROPIC_API_KEY/OPENAI_API_KEY)")
	fs.StringVar(&flags.Format, "format", FormatText, "summary output format: text, json")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: specforge generate [flags] <spec-file|->\n\n")
		Writef(fs.Output(), "Generate an executable test suite from an API or source-code specification.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  specforge generate --dialect http-contract -o ./tests api.yaml\n")
		Writef(fs.Output(), "  specforge generate --dialect dynamic-source --framework function-direct -o ./tests users.py\n")
		Writef(fs.Output(), "  specforge generate --dialect typed-source -o ./tests --intents HAPPY_PATH,TYPE_VIOLATION users.ts\n")
		Writef(fs.Output(), "  cat api.yaml | specforge generate --dialect http-contract -o ./tests -\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command.
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one spec file path or '-' for stdin")
	}
	specPath := fs.Arg(0)

	if flags.Dialect == "" {
		fs.Usage()
		return fmt.Errorf("--dialect is required")
	}
	if flags.Output == "" {
		fs.Usage()
		return fmt.Errorf("output directory is required (use -o or --output)")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	req, err := buildRequest(specPath, flags)
	if err != nil {
		return err
	}

	cfg := pipeline.LoadConfig()

	var store pipeline.Store
	switch flags.StoreKind {
	case "memory":
		store = pipeline.NewMemoryStore()
	default:
		store = pipeline.NewFilesystemStore(flags.Output)
	}

	opts := []pipeline.DriverOption{}
	provider, err := buildProvider(flags)
	if err != nil {
		return err
	}
	if provider != nil {
		cfg.LLMEnabled = true
		opts = append(opts, pipeline.WithProvider(provider))
	}

	driver := pipeline.NewDriver(store, cfg, opts...)
	jobID := driver.NewJobID()

	startTime := time.Now()
	result, err := driver.Generate(context.Background(), jobID, req)
	if err != nil {
		return fmt.Errorf("generating tests: %w", err)
	}
	elapsed := time.Since(startTime)

	if flags.Format == FormatJSON {
		return OutputJSON(summary{
			JobID:         result.JobID,
			FileCount:     len(result.Files),
			FailureCount:  len(result.Failures),
			EnhancedCount: result.EnhancedCount,
			FixturedCount: result.FixturedCount,
			ElapsedMillis: elapsed.Milliseconds(),
		})
	}

	fmt.Printf("specforge test generator\n")
	fmt.Printf("=========================\n\n")
	fmt.Printf("Specification: %s\n", FormatSpecPath(specPath))
	fmt.Printf("Dialect: %s\n", flags.Dialect)
	fmt.Printf("Framework: %s\n", flags.Framework)
	fmt.Printf("Job ID: %s\n", result.JobID)
	fmt.Printf("Files written: %d\n", len(result.Files))
	fmt.Printf("Fixture-backed operations: %d\n", result.FixturedCount)
	fmt.Printf("Enhanced happy-path payloads: %d\n", result.EnhancedCount)
	fmt.Printf("Elapsed: %v\n\n", elapsed)

	for _, f := range result.Files {
		fmt.Printf("  - %s\n", f.Path)
	}
	if len(result.Failures) > 0 {
		fmt.Printf("\nFailed operations (%d):\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  - %s: %v\n", f.OperationID, f.Error)
		}
		return fmt.Errorf("generation completed with %d failed operation(s)", len(result.Failures))
	}
	return nil
}

type summary struct {
	JobID         string `json:"job_id"`
	FileCount     int    `json:"file_count"`
	FailureCount  int    `json:"failure_count"`
	EnhancedCount int    `json:"enhanced_count"`
	FixturedCount int    `json:"fixtured_count"`
	ElapsedMillis int64  `json:"elapsed_millis"`
}

func buildRequest(specPath string, flags *GenerateFlags) (pipeline.GenerationRequest, error) {
	payload, err := ReadSpecPayload(specPath)
	if err != nil {
		return pipeline.GenerationRequest{}, fmt.Errorf("reading spec: %w", err)
	}

	dialectName := dialect.Name(flags.Dialect)
	if _, ok := dialect.Lookup(dialectName); !ok {
		return pipeline.GenerationRequest{}, fmt.Errorf("unknown dialect %q; valid dialects: %v", flags.Dialect, dialect.Names())
	}

	framework := render.Framework(flags.Framework)
	switch framework {
	case render.HTTPSync, render.HTTPAsync, render.FunctionDirect:
	default:
		return pipeline.GenerationRequest{}, fmt.Errorf("unknown framework %q; valid frameworks: http-sync, http-async, function-direct", flags.Framework)
	}

	var targetIntents []intent.ID
	if flags.Intents != "" {
		for _, raw := range strings.Split(flags.Intents, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			targetIntents = append(targetIntents, intent.ID(raw))
		}
	}

	req := pipeline.GenerationRequest{
		SpecPayload:     payload,
		SourceDialect:   dialectName,
		TargetFramework: framework,
		BaseURL:         flags.BaseURL,
		TargetIntents:   targetIntents,
	}

	if flags.LLMProvider != "" {
		req.LLMConfig = &pipeline.LLMConfig{
			PayloadEnhancement: &pipeline.LLMTarget{Provider: flags.LLMProvider, Model: flags.LLMModel},
		}
	}
	return req, nil
}

func buildProvider(flags *GenerateFlags) (llm.Provider, error) {
	if flags.LLMProvider == "" {
		return nil, nil
	}
	if flags.LLMModel == "" {
		return nil, fmt.Errorf("--llm-model is required when --llm-provider is set")
	}
	switch flags.LLMProvider {
	case "anthropic":
		return llm.NewAnthropicProviderFromAPIKey(apiKeyOrEnv(flags.LLMAPIKey, "ANTHROPIC_API_KEY"), flags.LLMModel)
	case "openai":
		return llm.NewOpenAIProviderFromAPIKey(apiKeyOrEnv(flags.LLMAPIKey, "OPENAI_API_KEY"), flags.LLMModel)
	default:
		return nil, fmt.Errorf("unknown llm provider %q; valid providers: anthropic, openai", flags.LLMProvider)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/artifacts"
	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/logger"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/tailoring"
	"github.com/jonathan/resume-tailor/internal/types"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a job description",
	Long: `Rewrites a resume against a job description, reports the ATS score and
keyword coverage, and optionally renders PDF and DOCX documents.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runTailor,
}

var (
	tailorConfigPath string
	tailorResume     string
	tailorJob        string
	tailorJobURL     string
	tailorOutDir     string
	tailorTemplate   string
	tailorPDF        bool
	tailorDOCX       bool
	tailorAPIKey     string
	tailorVerbose    bool
)

func init() {
	tailorCmd.Flags().StringVar(&tailorConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	tailorCmd.Flags().StringVarP(&tailorResume, "resume", "r", "", "Path to resume JSON file")
	tailorCmd.Flags().StringVarP(&tailorJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	tailorCmd.Flags().StringVar(&tailorJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	tailorCmd.Flags().StringVarP(&tailorOutDir, "out", "o", "", "Directory for output files (default: current directory)")
	tailorCmd.Flags().StringVarP(&tailorTemplate, "template", "t", "", "Resume template name")
	tailorCmd.Flags().BoolVar(&tailorPDF, "pdf", false, "Render the tailored resume to PDF (requires Chrome)")
	tailorCmd.Flags().BoolVar(&tailorDOCX, "docx", false, "Render the tailored resume to DOCX")
	tailorCmd.Flags().BoolVarP(&tailorVerbose, "verbose", "v", false, "Print detailed progress")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	tailorCmd.Flags().StringVar(&tailorAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Resume == "" {
		return fmt.Errorf("--resume is required (via flag or config)")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided (via flag or config)")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (--api-key flag, config, or GEMINI_API_KEY env var)")
	}

	log, err := logger.New(false, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	resume, err := loadResume(cfg.Resume)
	if err != nil {
		return err
	}

	jobDescription, err := loadJobDescription(ctx, cfg)
	if err != nil {
		return err
	}

	modelConfig, err := modelConfigFrom(cfg)
	if err != nil {
		return err
	}

	client, err := llm.NewGeminiClient(ctx, modelConfig, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	service := tailoring.New(llm.NewGateway(client, modelConfig, log), log)

	result, err := service.Tailor(ctx, resume, jobDescription)
	if err != nil {
		return fmt.Errorf("tailoring failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintTailorResult(result)

	return writeOutputs(ctx, cfg, result)
}

// resolveConfig loads the optional config file and applies CLI overrides.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if tailorConfigPath != "" {
		loaded, err := config.LoadConfig(tailorConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		if tailorVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", tailorConfigPath)
		}
	}

	// CLI flags win over config file values when explicitly set.
	if cmd.Flags().Changed("resume") {
		cfg.Resume = tailorResume
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = tailorJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = tailorJobURL
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = tailorOutDir
	}
	if cmd.Flags().Changed("template") {
		cfg.Template = tailorTemplate
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = tailorAPIKey
	}
	if cmd.Flags().Changed("pdf") {
		cfg.PDF = tailorPDF
	}
	if cmd.Flags().Changed("docx") {
		cfg.DOCX = tailorDOCX
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = tailorVerbose
	}

	defaults := config.Config{
		OutDir:   ".",
		Template: rendering.DefaultTemplate,
		APIKey:   os.Getenv("GEMINI_API_KEY"),
	}
	return cfg.MergeWithDefaults(defaults), nil
}

func loadResume(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to parse resume JSON: %w", err)
	}
	return &resume, nil
}

func loadJobDescription(ctx context.Context, cfg config.Config) (string, error) {
	var (
		text string
		err  error
	)
	if cfg.JobURL != "" {
		text, err = ingestion.FromURL(ctx, cfg.JobURL)
	} else {
		text, err = ingestion.FromFile(cfg.Job)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load job description: %w", err)
	}
	if !ingestion.MeetsMinimumLength(text) {
		return "", fmt.Errorf("job description too short: need at least %d characters, got %d",
			ingestion.MinJobDescriptionLength, len(text))
	}
	return text, nil
}

// modelConfigFrom maps the CLI config onto the model gateway configuration.
func modelConfigFrom(cfg config.Config) (*llm.Config, error) {
	modelConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		modelConfig.Model = cfg.Model
	}
	if cfg.Temperature != 0 {
		modelConfig.Temperature = float32(cfg.Temperature)
	}
	if cfg.MaxOutputTokens != 0 {
		modelConfig.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}
	if cfg.RetryAttempts != 0 {
		modelConfig.RetryAttempts = cfg.RetryAttempts
	}
	if cfg.RetryBaseDelay != "" {
		delay, err := time.ParseDuration(cfg.RetryBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("invalid retry_base_delay: %w", err)
		}
		modelConfig.RetryBaseDelay = delay
	}
	if cfg.RequestTimeout != "" {
		timeout, err := time.ParseDuration(cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid request_timeout: %w", err)
		}
		modelConfig.RequestTimeout = timeout
	}
	return modelConfig, nil
}

// writeOutputs persists the tailored resume JSON and any requested documents.
func writeOutputs(ctx context.Context, cfg config.Config, result *types.TailorResult) error {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	name := result.TailoredResume.PersonalInfo.Name
	jsonPath := filepath.Join(cfg.OutDir, artifacts.ArtifactFilename(name, "json"))
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	fmt.Printf("Wrote %s\n", jsonPath)

	// PDF and DOCX rendering are independent, run them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	if cfg.PDF {
		g.Go(func() error {
			pdf, err := rendering.RenderPDF(gctx, &result.TailoredResume, cfg.Template)
			if err != nil {
				return fmt.Errorf("PDF rendering failed: %w", err)
			}
			path := filepath.Join(cfg.OutDir, artifacts.ArtifactFilename(name, "pdf"))
			if err := os.WriteFile(path, pdf, 0o644); err != nil {
				return fmt.Errorf("failed to write PDF: %w", err)
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		})
	}
	if cfg.DOCX {
		g.Go(func() error {
			docx, err := rendering.RenderDOCX(&result.TailoredResume)
			if err != nil {
				return fmt.Errorf("DOCX rendering failed: %w", err)
			}
			path := filepath.Join(cfg.OutDir, artifacts.ArtifactFilename(name, "docx"))
			if err := os.WriteFile(path, docx, 0o644); err != nil {
				return fmt.Errorf("failed to write DOCX: %w", err)
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		})
	}
	return g.Wait()
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/logger"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Extract structured keywords from a job description",
	RunE:  runKeywords,
}

var (
	keywordsJob     string
	keywordsJobURL  string
	keywordsAPIKey  string
	keywordsVerbose bool
)

func init() {
	keywordsCmd.Flags().StringVarP(&keywordsJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	keywordsCmd.Flags().StringVar(&keywordsJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	keywordsCmd.Flags().StringVar(&keywordsAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	keywordsCmd.Flags().BoolVarP(&keywordsVerbose, "verbose", "v", false, "Print detailed progress")
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if keywordsJob == "" && keywordsJobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided")
	}
	if keywordsJob != "" && keywordsJobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	apiKey := keywordsAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("Gemini API key is required (--api-key flag or GEMINI_API_KEY env var)")
	}

	var (
		jobDescription string
		err            error
	)
	if keywordsJobURL != "" {
		jobDescription, err = ingestion.FromURL(ctx, keywordsJobURL)
	} else {
		jobDescription, err = ingestion.FromFile(keywordsJob)
	}
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}
	if !ingestion.MeetsMinimumLength(jobDescription) {
		return fmt.Errorf("job description too short: need at least %d characters", ingestion.MinJobDescriptionLength)
	}

	log, err := logger.New(false, keywordsVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	modelConfig := llm.DefaultConfig()
	client, err := llm.NewGeminiClient(ctx, modelConfig, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	service := tailoring.New(llm.NewGateway(client, modelConfig, log), log)
	analysis, err := service.ExtractKeywords(ctx, jobDescription)
	if err != nil {
		return fmt.Errorf("keyword extraction failed: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintKeywordAnalysis(analysis)
	return nil
}

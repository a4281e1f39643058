package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/artifacts"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/logger"
	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

var (
	servePort  int
	serveDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for tailoring resumes and generating documents.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	log, err := logger.New(true, serveDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	modelConfig := llm.DefaultConfig()
	client, err := llm.NewGeminiClient(ctx, modelConfig, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	service := tailoring.New(llm.NewGateway(client, modelConfig, log), log)

	// Session persistence is optional: without DATABASE_URL the API still
	// tailors and renders, it just cannot answer status lookups.
	var store *artifacts.Store
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		store, err = artifacts.Connect(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
	} else {
		log.Warn("DATABASE_URL not set, sessions will not be persisted")
	}

	srv := server.New(server.Config{Port: servePort, Model: modelConfig.Model}, service, store, log)
	log.Info("starting API server", zap.Int("port", servePort), zap.String("model", modelConfig.Model))
	return srv.Start()
}

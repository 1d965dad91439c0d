package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-rewrite/internal/analysis"
	"github.com/jonathan/resume-rewrite/internal/config"
	"github.com/jonathan/resume-rewrite/internal/fetch"
	"github.com/jonathan/resume-rewrite/internal/llm"
	"github.com/jonathan/resume-rewrite/internal/schemas"
	"github.com/jonathan/resume-rewrite/internal/types"
)

// loadConfig reads the --config file and the environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newLogger writes to stderr when verbose, and nowhere otherwise
func newLogger(cfg *config.Config) *log.Logger {
	if cfg != nil && cfg.Verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// llmConfig returns the model client configuration, with model overriding the configured one when set
func llmConfig(cfg *config.Config, model string) *llm.Config {
	llmCfg := cfg.LLMConfig()
	if model != "" {
		llmCfg = llmCfg.WithModel(model)
	}
	return llmCfg
}

// newAnalyzer builds the model client and the retrying analyzer on top of it.
// The returned close func releases the client.
func newAnalyzer(ctx context.Context, cfg *config.Config, model string, logger *log.Logger) (*analysis.Analyzer, func(), error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}
	gen, err := llm.NewClient(ctx, llmConfig(cfg, model), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	closeFn := func() {
		if err := gen.Close(); err != nil {
			logger.Printf("[llm] close: %v", err)
		}
	}
	return analysis.New(gen, analysis.DefaultRetryPolicy(), logger), closeFn, nil
}

// newPostingFetcher builds the job posting fetcher, with the headless browser fallback when enabled
func newPostingFetcher(cfg *config.Config, logger *log.Logger) *fetch.PostingFetcher {
	var render fetch.RenderFunc
	if cfg.UseBrowser {
		render = fetch.BrowserRenderer(fetch.DefaultBrowserTimeout, logger)
	}
	return fetch.NewPostingFetcher(fetch.PostingFetcherConfig{
		Render: render,
		Cache:  cfg.CacheConfig(),
		Logger: logger,
	})
}

// readResumeDocument loads a résumé document and checks it against the schema and the struct rules
func readResumeDocument(path string) (*types.ResumeData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume document: %w", err)
	}
	if err := schemas.ValidateResumeDocument(string(raw)); err != nil {
		return nil, err
	}

	var doc types.ResumeData
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume document: %w", err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid resume document: %w", err)
	}
	return &doc, nil
}

// writeOutput writes data to path, creating parent directories, or to stdout when path is empty
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-rewrite/internal/cache"
	"github.com/jonathan/resume-rewrite/internal/pipeline"
	"github.com/jonathan/resume-rewrite/internal/server"
	"github.com/jonathan/resume-rewrite/internal/storage"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing résumé analysis, LaTeX rendering, PDF generation
and presigned object storage URLs.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, closeLLM, err := newAnalyzer(ctx, cfg, "", logger)
	if err != nil {
		return err
	}
	defer closeLLM()

	deps := pipeline.Deps{
		Analyzer: analyzer,
		Postings: newPostingFetcher(cfg, logger),
		Compiler: cfg.Compiler(),
		Results:  cache.NewResultCache(cfg.CacheConfig()),
		Logger:   logger,
	}

	var presigner server.Presigner
	if cfg.StorageEnabled() {
		store, err := storage.New(ctx, cfg.StorageConfig())
		if err != nil {
			return fmt.Errorf("failed to create object storage client: %w", err)
		}
		deps.Objects = store
		presigner = store
		logger.Printf("[serve] object storage bucket %s", store.Bucket())
	} else {
		logger.Printf("[serve] AWS_S3_BUCKET_NAME not set, upload and storage-key endpoints are disabled")
	}

	srv := server.New(server.Config{
		Port:          cfg.Port,
		AllowedOrigin: cfg.AllowedOrigin,
		Logger:        logger,
	}, pipeline.New(deps), presigner)

	return srv.Start(ctx)
}

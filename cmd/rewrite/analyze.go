package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-rewrite/internal/extraction"
	"github.com/jonathan/resume-rewrite/internal/observability"
	"github.com/jonathan/resume-rewrite/internal/pipeline"
	"github.com/jonathan/resume-rewrite/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a résumé against a job description",
	Long: `Extract the résumé text (PDF, DOCX or plain text), compare it with the job description
and ask the model for a match score and rewrite suggestions. The job description comes
from a file or is fetched from a job posting URL.`,
	RunE: runAnalyze,
}

var (
	analyzeResumeFile string
	analyzeJDFile     string
	analyzeJDURL      string
	analyzeOutputFile string
	analyzeModel      string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume", "r", "", "Path to résumé file (.pdf, .docx, .txt, .md)")
	analyzeCmd.Flags().StringVarP(&analyzeJDFile, "jd", "j", "", "Path to job description text file")
	analyzeCmd.Flags().StringVar(&analyzeJDURL, "jd-url", "", "Job posting URL to fetch instead of --jd")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (stdout when empty)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Gemini model name (overrides GEMINI_MODEL)")

	_ = analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")
	analyzeCmd.MarkFlagsOneRequired("jd", "jd-url")

	rootCmd.AddCommand(analyzeCmd)
}

// processor is the part of the pipeline the analyze command drives
type processor interface {
	Process(ctx context.Context, req pipeline.ProcessRequest) (*pipeline.ProcessResult, error)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	ctx := cmd.Context()

	analyzer, closeLLM, err := newAnalyzer(ctx, cfg, analyzeModel, logger)
	if err != nil {
		return err
	}
	defer closeLLM()

	svc := pipeline.New(pipeline.Deps{
		Analyzer: analyzer,
		Postings: newPostingFetcher(cfg, logger),
		Logger:   logger,
	})

	resp, err := analyzeFiles(ctx, svc, analyzeResumeFile, analyzeJDFile, analyzeJDURL)
	if err != nil {
		return err
	}

	data, err := marshalIndent(resp)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), analyzeOutputFile, data); err != nil {
		return err
	}
	if analyzeOutputFile != "" {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintAnalysis(resp)
		printer.PrintSuggestions(resp.Suggestions)
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", analyzeOutputFile)
	}
	return nil
}

// analyzeFiles reads the local inputs and runs one analysis
func analyzeFiles(ctx context.Context, p processor, resumePath, jdPath, jdURL string) (*types.AnalysisResponse, error) {
	resumeText, err := readResumeText(resumePath)
	if err != nil {
		return nil, err
	}

	req := pipeline.ProcessRequest{ResumeText: resumeText, JobURL: jdURL}
	if jdPath != "" {
		jd, err := os.ReadFile(jdPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read job description file: %w", err)
		}
		req.JobDescription = string(jd)
	}

	result, err := p.Process(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return result.Response, nil
}

// readResumeText extracts text from a résumé file by extension
func readResumeText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}
	text, err := extraction.ExtractText(path, "", data)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("resume file %s contains no text", path)
	}
	return text, nil
}

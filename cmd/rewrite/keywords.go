package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-rewrite/internal/keywords"
	"github.com/jonathan/resume-rewrite/internal/observability"
	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Compare résumé and job description keywords",
	Long:  "Compute the deterministic keyword overlap between a résumé and a job description. No model call is made.",
	RunE:  runKeywords,
}

var (
	keywordsResumeFile string
	keywordsJDFile     string
	keywordsSummary    bool
)

func init() {
	keywordsCmd.Flags().StringVarP(&keywordsResumeFile, "resume", "r", "", "Path to résumé file (.pdf, .docx, .txt, .md)")
	keywordsCmd.Flags().StringVarP(&keywordsJDFile, "jd", "j", "", "Path to job description text file")
	keywordsCmd.Flags().BoolVar(&keywordsSummary, "summary", false, "Print a human-readable summary instead of JSON")

	_ = keywordsCmd.MarkFlagRequired("resume")
	_ = keywordsCmd.MarkFlagRequired("jd")

	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, _ []string) error {
	resumeText, err := readResumeText(keywordsResumeFile)
	if err != nil {
		return err
	}
	jd, err := os.ReadFile(keywordsJDFile)
	if err != nil {
		return fmt.Errorf("failed to read job description file: %w", err)
	}

	report := keywords.Compare(resumeText, string(jd))
	if keywordsSummary {
		observability.NewPrinter(cmd.OutOrStdout()).PrintKeywordReport(report)
		return nil
	}

	data, err := marshalIndent(report)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), "", data)
}

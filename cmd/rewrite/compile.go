package main

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-rewrite/internal/pipeline"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Render a résumé document and compile it to PDF",
	Long:  "Render a résumé JSON document to LaTeX and compile it with the configured typesetter (tectonic by default).",
	RunE:  runCompile,
}

var (
	compileInputFile  string
	compileOutputFile string
	compileBinary     string
	compileTimeout    time.Duration
)

func init() {
	compileCmd.Flags().StringVarP(&compileInputFile, "in", "i", "", "Path to résumé JSON document")
	compileCmd.Flags().StringVarP(&compileOutputFile, "out", "o", "", "Path to output PDF file")
	compileCmd.Flags().StringVar(&compileBinary, "typeset-bin", "", "Typesetter binary (overrides TYPESET_BINARY)")
	compileCmd.Flags().DurationVar(&compileTimeout, "timeout", 0, "Compilation timeout (overrides TYPESET_TIMEOUT)")

	_ = compileCmd.MarkFlagRequired("in")
	_ = compileCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	compiler := cfg.Compiler()
	if compileBinary != "" {
		compiler.Binary = compileBinary
	}
	if compileTimeout > 0 {
		compiler.Timeout = compileTimeout
	}
	compiler.Logger = newLogger(cfg)

	doc, err := readResumeDocument(compileInputFile)
	if err != nil {
		return err
	}

	svc := pipeline.New(pipeline.Deps{Compiler: compiler, Logger: compiler.Logger})
	pdf, err := svc.GeneratePDF(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("failed to compile resume: %w", err)
	}

	if err := writeOutput(cmd.OutOrStdout(), compileOutputFile, pdf); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Successfully compiled PDF (%d bytes)\nOutput: %s\n", len(pdf), compileOutputFile)
	return nil
}

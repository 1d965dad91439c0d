package main

import (
	"fmt"

	"github.com/jonathan/resume-rewrite/internal/rendering"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a résumé document to LaTeX",
	Long:  "Render a résumé JSON document to LaTeX source using the fixed one-page layout.",
	RunE:  runRender,
}

var (
	renderInputFile  string
	renderOutputFile string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to résumé JSON document")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output .tex file (stdout when empty)")

	_ = renderCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	doc, err := readResumeDocument(renderInputFile)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd.OutOrStdout(), renderOutputFile, []byte(rendering.Render(doc))); err != nil {
		return err
	}
	if renderOutputFile != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Successfully rendered LaTeX resume\nOutput: %s\n", renderOutputFile)
	}
	return nil
}

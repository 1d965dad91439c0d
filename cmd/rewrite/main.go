// Package main implements the rewrite CLI: the HTTP service plus local analysis and rendering commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Résumé analysis and rewrite service",
	Long: `rewrite compares a résumé with a job description, asks a generative model for
tailored suggestions, and renders structured résumés to LaTeX and PDF.

Run "rewrite serve" for the HTTP API or use the local commands directly.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file (environment variables override it)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

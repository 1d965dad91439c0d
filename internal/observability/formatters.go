// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-rewrite/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(clip(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most width runes, marking the cut with an ellipsis
func clip(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// pad right-fills s with spaces to width runes
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// writeList writes up to limit items as bullets followed by a count of the rest
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintAnalysis outputs the match score, strengths and keyword coverage of an analysis.
func (p *Printer) PrintAnalysis(resp *types.AnalysisResponse) {
	if resp == nil || resp.Analysis == nil {
		return
	}
	a := resp.Analysis

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match score: %.2f / 100\n", a.MatchScore))
	if resp.Keywords != nil {
		sb.WriteString(fmt.Sprintf("Keyword overlap: %.2f%%\n", resp.Keywords.Score))
	}
	sb.WriteString("\n")

	writeList(&sb, "Strengths", a.Strengths, 3)
	writeList(&sb, "Matched keywords", a.MatchKeywords, maxItemsToShow)
	writeList(&sb, "Missing keywords", a.MissingKeywords, maxItemsToShow)

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintSuggestions outputs the first suggestions in presentation order.
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) PrintSuggestions(suggestions []types.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("NO SUGGESTIONS", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d suggestions:\n\n", len(suggestions)))

	count := min(len(suggestions), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := suggestions[i]
		sb.WriteString(fmt.Sprintf("[%s/%s] %s\n", s.Priority, s.Type, s.SuggestedText))
		if s.OriginalText != "" {
			sb.WriteString(fmt.Sprintf("  was: %s\n", s.OriginalText))
		}
		if s.Reason != "" {
			sb.WriteString(fmt.Sprintf("  why: %s\n", s.Reason))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(suggestions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more suggestions", len(suggestions)-maxItemsToShow))
	}

	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintKeywordReport outputs the deterministic keyword comparison.
func (p *Printer) PrintKeywordReport(report *types.KeywordReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:       %.2f\n", report.Score))
	sb.WriteString(fmt.Sprintf("JD keywords: %d (%d matched)\n", len(report.JDKeywords), len(report.MatchKeywords)))
	sb.WriteString("\n")

	writeList(&sb, "Missing", report.MissingKeywords, maxItemsToShow*2)
	writeList(&sb, "Matched", report.MatchKeywords, maxItemsToShow)

	p.printBox("KEYWORD COVERAGE", strings.TrimSuffix(sb.String(), "\n\n"))
}

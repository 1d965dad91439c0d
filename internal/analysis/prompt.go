package analysis

import (
	"strings"

	"github.com/jonathan/resume-rewrite/internal/keywords"
	"github.com/jonathan/resume-rewrite/internal/prompts"
)

// Prompt size bounds, in characters
const (
	MaxResumeChars         = 10000
	MaxJobDescriptionChars = 5000
)

// BuildPrompt embeds the truncated résumé and job description into the analysis template.
// The deterministic missing-keyword list is computed from the full texts.
func BuildPrompt(resumeText, jobDescription string) string {
	missing := keywords.Missing(keywords.Extract(resumeText), keywords.Extract(jobDescription))
	missingList := "None"
	if len(missing) > 0 {
		missingList = strings.Join(missing, ", ")
	}

	return prompts.Format(prompts.MustGet(prompts.AnalysisFile, prompts.AnalysisKey), map[string]string{
		"ResumeText":      truncate(resumeText, MaxResumeChars),
		"JobDescription":  truncate(jobDescription, MaxJobDescriptionChars),
		"MissingKeywords": missingList,
	})
}

// truncate keeps at most limit runes of s
func truncate(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

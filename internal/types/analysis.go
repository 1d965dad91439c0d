// Package types provides type definitions for structured data used throughout the resume rewrite service.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// SuggestionType classifies a suggestion
type SuggestionType string

// Suggestion types
const (
	SuggestionContent    SuggestionType = "content"
	SuggestionFormatting SuggestionType = "formatting"
	SuggestionGrammar    SuggestionType = "grammar"
)

// Priority ranks a suggestion for presentation
type Priority string

// Priorities
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// NoIndex marks a suggestion that is not anchored to a span of the résumé text
const NoIndex = -1

// Analysis is the model's assessment of the résumé against the job description
type Analysis struct {
	MatchScore      float64  `json:"matchScore"`
	Strengths       []string `json:"strengths"`
	MatchKeywords   []string `json:"matchKeywords"`
	JDKeywords      []string `json:"jdKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
}

// Suggestion is a single proposed edit. Order in a list is presentation order.
type Suggestion struct {
	ID            string         `json:"id"`
	Type          SuggestionType `json:"type" validate:"oneof=content formatting grammar"`
	OriginalText  string         `json:"originalText"`
	SuggestedText string         `json:"suggestedText"`
	StartIndex    int            `json:"startIndex"`
	EndIndex      int            `json:"endIndex"`
	Reason        string         `json:"reason"`
	Priority      Priority       `json:"priority" validate:"oneof=high medium low"`
}

// UnmarshalJSON defaults absent span offsets to NoIndex
func (s *Suggestion) UnmarshalJSON(data []byte) error {
	type plain Suggestion
	p := plain{StartIndex: NoIndex, EndIndex: NoIndex}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Suggestion(p)
	return nil
}

// AnalysisResponse is the complete result of processing one résumé against one job description
type AnalysisResponse struct {
	ResumeText  string         `json:"resumeText"`
	Analysis    *Analysis      `json:"analysis"`
	Suggestions []Suggestion   `json:"suggestions"`
	ResumeData  *ResumeData    `json:"resumeData,omitempty"`
	Score       float64        `json:"score"`
	Keywords    *KeywordReport `json:"keywords,omitempty"`
}

// KeywordReport is the deterministic keyword overlap between a résumé and a job description
type KeywordReport struct {
	Score           float64  `json:"score"`
	ResumeKeywords  []string `json:"resumeKeywords"`
	JDKeywords      []string `json:"jdKeywords"`
	MatchKeywords   []string `json:"matchKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
}

//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisResponse_JSONFieldNames(t *testing.T) {
	resp := AnalysisResponse{
		ResumeText: "resume",
		Analysis: &Analysis{
			MatchScore:      72.5,
			Strengths:       []string{"Go"},
			MatchKeywords:   []string{"golang"},
			JDKeywords:      []string{"golang", "kafka"},
			MissingKeywords: []string{"kafka"},
		},
		Suggestions: []Suggestion{{
			ID:            "s-1",
			Type:          SuggestionContent,
			OriginalText:  "Did work",
			SuggestedText: "Shipped 3 services",
			StartIndex:    NoIndex,
			EndIndex:      NoIndex,
			Reason:        "quantify",
			Priority:      PriorityHigh,
		}},
		Score: 72.5,
	}

	jsonBytes, err := json.Marshal(resp)
	require.NoError(t, err)
	out := string(jsonBytes)

	for _, field := range []string{
		`"resumeText"`, `"analysis"`, `"matchScore":72.5`, `"strengths"`, `"matchKeywords"`,
		`"jdKeywords"`, `"missingKeywords"`, `"suggestions"`, `"originalText"`, `"suggestedText"`,
		`"startIndex":-1`, `"endIndex":-1`, `"reason"`, `"priority":"high"`, `"score":72.5`,
	} {
		assert.Contains(t, out, field)
	}
	assert.NotContains(t, out, `"resumeData"`)
	assert.NotContains(t, out, `"keywords"`)
}

func TestSuggestion_ValidateEnums(t *testing.T) {
	v := validator.New()

	valid := Suggestion{Type: SuggestionGrammar, Priority: PriorityLow}
	assert.NoError(t, v.Struct(valid))

	invalid := Suggestion{Type: "keyword", Priority: PriorityLow}
	assert.Error(t, v.Struct(invalid))

	invalid = Suggestion{Type: SuggestionContent, Priority: "urgent"}
	assert.Error(t, v.Struct(invalid))
}

func TestSuggestion_UnmarshalDefaultsSpan(t *testing.T) {
	var s Suggestion
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","suggestedText":"x"}`), &s))
	assert.Equal(t, NoIndex, s.StartIndex)
	assert.Equal(t, NoIndex, s.EndIndex)

	require.NoError(t, json.Unmarshal([]byte(`{"startIndex":4,"endIndex":9}`), &s))
	assert.Equal(t, 4, s.StartIndex)
	assert.Equal(t, 9, s.EndIndex)
}

// Package keywords extracts and compares significant terms between a résumé and a job description.
// Every function is pure and safe for concurrent use.
package keywords

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-rewrite/internal/types"
)

// MinTokenLength is the shortest token kept as a keyword
const MinTokenLength = 3

// Normalize lowercases text, turns every character other than [a-z0-9] into a space,
// collapses whitespace runs and trims the result.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	var sb strings.Builder
	sb.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// Extract returns the keyword set of text: distinct normalized tokens of at least
// MinTokenLength characters that are not stopwords, sorted ascending.
func Extract(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	result := []string{}
	for _, token := range strings.Split(normalized, " ") {
		if len(token) < MinTokenLength || IsStopword(token) {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		result = append(result, token)
	}

	sort.Strings(result)
	return result
}

// MatchScore returns the percentage of jd keywords present in resume keywords,
// rounded half-up to two decimals. An empty jd set scores 0.
func MatchScore(resume, jd []string) float64 {
	if len(jd) == 0 {
		return 0.0
	}

	unique := dedupe(jd)
	present := toSet(resume)
	matched := 0
	for _, kw := range unique {
		if _, ok := present[kw]; ok {
			matched++
		}
	}

	return round2(100.0 * float64(matched) / float64(len(unique)))
}

// Missing returns the jd keywords absent from resume keywords, sorted ascending.
func Missing(resume, jd []string) []string {
	return partition(resume, jd, false)
}

// Matched returns the jd keywords present in resume keywords, sorted ascending.
func Matched(resume, jd []string) []string {
	return partition(resume, jd, true)
}

// Compare extracts both keyword sets and reports their overlap
func Compare(resumeText, jdText string) *types.KeywordReport {
	resume := Extract(resumeText)
	jd := Extract(jdText)

	return &types.KeywordReport{
		Score:           MatchScore(resume, jd),
		ResumeKeywords:  resume,
		JDKeywords:      jd,
		MatchKeywords:   Matched(resume, jd),
		MissingKeywords: Missing(resume, jd),
	}
}

func partition(resume, jd []string, wantPresent bool) []string {
	result := []string{}
	if len(jd) == 0 {
		return result
	}

	present := toSet(resume)
	for _, kw := range dedupe(jd) {
		if _, ok := present[kw]; ok == wantPresent {
			result = append(result, kw)
		}
	}

	sort.Strings(result)
	return result
}

// dedupe keeps the first occurrence of each element. Keyword sets from Extract are
// already distinct; callers passing arbitrary slices still get set semantics.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

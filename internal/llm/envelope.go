package llm

// Envelope mirrors the generateContent response:
// {"candidates":[{"content":{"parts":[{"text":"..."}]}}]}
type Envelope struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated alternative
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// Content holds the parts of a candidate or a request message
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a single piece of content. Text is nil for non-text parts.
type Part struct {
	Text *string `json:"text,omitempty"`
}

// TextPart builds a Part holding text
func TextPart(text string) Part {
	return Part{Text: &text}
}

// generateRequest is the body posted to generateContent
type generateRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature float32 `json:"temperature"`
}

func newGenerateRequest(prompt string, temperature float32) generateRequest {
	return generateRequest{
		Contents:         []Content{{Parts: []Part{TextPart(prompt)}}},
		GenerationConfig: generationConfig{Temperature: temperature},
	}
}

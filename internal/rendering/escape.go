// Package rendering turns structured résumé data into a LaTeX document.
package rendering

import "strings"

// latexEscaper substitutes LaTeX-reserved characters in a single left-to-right pass.
// Replacement text is never rescanned, so the backslash inserted for & is not escaped again.
var latexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// hrefEscaper only protects the characters that break an \href target
var hrefEscaper = strings.NewReplacer(
	"%", `\%`,
	"#", `\#`,
	"{", "",
	"}", "",
)

// EscapeLaTeX escapes special LaTeX characters in text
// Special characters: & % $ # _ { } ~ ^
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return latexEscaper.Replace(text)
}

func escapeHref(url string) string {
	return hrefEscaper.Replace(strings.TrimSpace(url))
}

// Package normalize canonicalises raw speech-to-text output before any
// matching takes place. Transcriptions of the same utterance vary in casing,
// punctuation, and contraction spelling; normalising both the live utterance
// and the stored trigger phrases lets the matcher compare like with like.
//
// Normalize is applied to spoken commands only — action values (paths and
// URLs) are stored verbatim and must never pass through this package.
package normalize

import (
	"strings"
	"unicode"
)

// contractions maps punctuation-stripped contraction spellings to their
// expanded forms. The table is applied per word, never as a substring
// replacement, so words that merely contain a key ("time" contains "im")
// are left alone.
var contractions = map[string]string{
	"whats":  "what is",
	"wheres": "where is",
	"hows":   "how is",
	"im":     "i am",
	"youre":  "you are",
	"dont":   "do not",
	"cant":   "can not",
	"wont":   "will not",
}

// Normalize canonicalises text for matching: lowercase, punctuation stripped
// (letters, digits, and underscores survive), whitespace collapsed to single
// spaces, and contractions expanded word-wise. It is pure, deterministic, and
// idempotent; empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	out := make([]string, 0, len(words))
	for _, w := range words {
		if expanded, ok := contractions[w]; ok {
			out = append(out, strings.Fields(expanded)...)
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

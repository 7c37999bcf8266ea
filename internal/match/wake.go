package match

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultWakePhoneticThreshold = 0.70
	defaultWakeFuzzyThreshold    = 0.85
)

// WakeOption is a functional option for configuring a [WakeDetector].
type WakeOption func(*WakeDetector)

// WithWakePhoneticThreshold sets the minimum Jaro-Winkler score required for
// a token that phonetically overlaps the wake word. Default: 0.70.
func WithWakePhoneticThreshold(threshold float64) WakeOption {
	return func(d *WakeDetector) {
		d.phoneticThreshold = threshold
	}
}

// WithWakeFuzzyThreshold sets the minimum Jaro-Winkler score required for a
// token with no phonetic overlap. Default: 0.85.
func WithWakeFuzzyThreshold(threshold float64) WakeOption {
	return func(d *WakeDetector) {
		d.fuzzyThreshold = threshold
	}
}

// WakeDetector recognises the wake word inside a normalized utterance,
// tolerating the spellings speech-to-text tends to produce for an invented
// name ("nova" heard as "nover" or "novah").
//
// Each utterance token is tested in two stages: Double Metaphone code overlap
// with the wake word ranked by Jaro-Winkler similarity, then a pure
// Jaro-Winkler pass with a higher threshold. A WakeDetector is read-only
// after construction and safe for concurrent use.
type WakeDetector struct {
	word              string
	primary           string
	secondary         string
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// NewWakeDetector returns a detector for word (stored lowercased).
func NewWakeDetector(word string, opts ...WakeOption) *WakeDetector {
	w := strings.ToLower(strings.TrimSpace(word))
	p, s := matchr.DoubleMetaphone(w)
	d := &WakeDetector{
		word:              w,
		primary:           p,
		secondary:         s,
		phoneticThreshold: defaultWakePhoneticThreshold,
		fuzzyThreshold:    defaultWakeFuzzyThreshold,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Word returns the configured wake word.
func (d *WakeDetector) Word() string {
	return d.word
}

// Detect reports whether utterance contains the wake word and returns the
// utterance with every wake token removed. Word order around the wake token
// is irrelevant: "nova stop" and "stop nova" both detect and both leave
// "stop" as the remainder.
func (d *WakeDetector) Detect(utterance string) (remainder string, ok bool) {
	if d.word == "" {
		return utterance, false
	}

	tokens := strings.Fields(strings.ToLower(utterance))
	rest := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if d.matchToken(tok) {
			ok = true
			continue
		}
		rest = append(rest, tok)
	}
	if !ok {
		return utterance, false
	}
	return strings.Join(rest, " "), true
}

// matchToken tests one token against the wake word.
func (d *WakeDetector) matchToken(tok string) bool {
	if tok == d.word {
		return true
	}
	score := matchr.JaroWinkler(tok, d.word, false)
	if d.codesOverlap(tok) {
		return score >= d.phoneticThreshold
	}
	return score >= d.fuzzyThreshold
}

// codesOverlap reports whether tok shares a Double Metaphone code with the
// wake word.
func (d *WakeDetector) codesOverlap(tok string) bool {
	p, s := matchr.DoubleMetaphone(tok)
	for _, code := range []string{p, s} {
		if code == "" {
			continue
		}
		if code == d.primary || (d.secondary != "" && code == d.secondary) {
			return true
		}
	}
	return false
}

// Package teach implements trigger-phrase validation for the learning flow.
//
// A candidate trigger is rejected when it could never be reliably matched
// later: too short, digits-only or digit-heavy, a single word, or built
// entirely from stop words. The returned reason is spoken back to the user,
// so every rule produces a short, human sentence.
package teach

import (
	"fmt"
	"strings"
	"unicode"
)

// Defaults for trigger acceptance.
const (
	DefaultMinTriggerLength = 3
	DefaultMinWordCount     = 2
)

// defaultStopWords are words that carry no meaning on their own; a trigger
// made only of these is rejected.
var defaultStopWords = []string{"the", "a", "an", "and", "or", "but", "in", "on", "at", "is", "of"}

// Option is a functional option for configuring a [Validator].
type Option func(*Validator)

// WithMinLength sets the minimum trigger length in characters. Default: 3.
func WithMinLength(n int) Option {
	return func(v *Validator) {
		v.minLength = n
	}
}

// WithMinWords sets the minimum trigger word count. Default: 2.
func WithMinWords(n int) Option {
	return func(v *Validator) {
		v.minWords = n
	}
}

// WithStopWords replaces the stop-word set.
func WithStopWords(words []string) Option {
	return func(v *Validator) {
		v.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			v.stopWords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// Validator accepts or rejects candidate trigger phrases during teaching.
// It is pure and read-only after construction, safe for concurrent use.
type Validator struct {
	minLength int
	minWords  int
	stopWords map[string]struct{}
}

// NewValidator returns a Validator with the supplied options applied over
// the defaults.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		minLength: DefaultMinTriggerLength,
		minWords:  DefaultMinWordCount,
	}
	WithStopWords(defaultStopWords)(v)
	for _, o := range opts {
		o(v)
	}
	return v
}

// Validate reports whether trigger is acceptable for learning. On rejection
// the reason of the first violated rule is returned, phrased for speech.
func (v *Validator) Validate(trigger string) (ok bool, reason string) {
	trigger = strings.TrimSpace(trigger)

	if trigger != "" && allDigits(trigger) {
		return false, "The trigger cannot be only numbers."
	}
	if len([]rune(trigger)) < v.minLength {
		return false, fmt.Sprintf("The trigger is too short. It needs at least %d characters.", v.minLength)
	}
	words := strings.Fields(trigger)
	if len(words) < v.minWords {
		return false, fmt.Sprintf("The trigger needs at least %d words.", v.minWords)
	}
	if digitRatio(trigger) > 0.5 {
		return false, "The trigger contains too many numbers."
	}
	if v.allStopWords(words) {
		return false, "The trigger cannot be only common words."
	}
	return true, ""
}

// allStopWords reports whether every word is in the stop-word set.
func (v *Validator) allStopWords(words []string) bool {
	for _, w := range words {
		if _, ok := v.stopWords[strings.ToLower(w)]; !ok {
			return false
		}
	}
	return len(words) > 0
}

// allDigits reports whether every rune in s is a digit.
func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// digitRatio returns the fraction of non-space runes that are digits.
func digitRatio(s string) float64 {
	var digits, total int
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(digits) / float64(total)
}

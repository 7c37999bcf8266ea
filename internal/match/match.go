// Package match implements the similarity scoring used to reconcile noisy
// speech-to-text output against known trigger phrases.
//
// The score is a longest-common-subsequence ratio over characters: symmetric,
// order-sensitive, and normalised to [0, 1]. A multi-word candidate whose
// words appear consecutively in the utterance short-circuits as a perfect
// score, mirroring the fact that a transcription often carries extra words
// around the trigger ("nova open notepad now" contains "open notepad"). A
// single-word candidate never short-circuits: "time" must not swallow "time
// now", which scores below the default threshold.
package match

import "strings"

// Default thresholds. Exit intent uses a stricter threshold than general
// command matching so that a mumbled phrase does not kill the session.
const (
	DefaultThreshold     = 0.75
	DefaultExitThreshold = 0.8
)

// Result is the best-scoring candidate for one utterance.
type Result struct {
	// Candidate is the matched phrase, exactly as it appeared in the
	// candidate list.
	Candidate string

	// Score is the similarity in [0, 1]. Containment matches score 1.0.
	Score float64
}

// Ratio returns the similarity between a and b as 2·LCS(a,b) / (|a|+|b|),
// computed over runes. It is symmetric and returns 0 when both strings are
// empty (an undefined score is treated as no similarity).
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	return 2 * float64(lcsLength(ra, rb)) / float64(total)
}

// Best selects the candidate most similar to text. A candidate of two or
// more words occurring word-for-word inside text scores 1.0; everything else
// scores by Ratio. The highest score wins; ties keep the earliest candidate
// in iteration order. Returns false when text is blank, candidates is empty,
// or the best score is below threshold.
func Best(text string, candidates []string, threshold float64) (Result, bool) {
	if strings.TrimSpace(text) == "" || len(candidates) == 0 {
		return Result{}, false
	}

	var best Result
	found := false
	for _, c := range candidates {
		if c == "" {
			continue
		}
		score := Ratio(text, c)
		if containsPhrase(text, c) {
			score = 1.0
		}
		if !found || score > best.Score {
			best = Result{Candidate: c, Score: score}
			found = true
		}
	}

	if !found || best.Score < threshold {
		return Result{}, false
	}
	return best, true
}

// containsPhrase reports whether phrase has at least two words and they occur
// consecutively, whole-word, in text. Single-word phrases are excluded so a
// short candidate cannot claim a perfect score against a longer utterance it
// merely shares one word with.
func containsPhrase(text, phrase string) bool {
	pw := strings.Fields(phrase)
	if len(pw) < 2 {
		return false
	}
	tw := strings.Fields(text)
	for i := 0; i+len(pw) <= len(tw); i++ {
		hit := true
		for j := range pw {
			if tw[i+j] != pw[j] {
				hit = false
				break
			}
		}
		if hit {
			return true
		}
	}
	return false
}

// lcsLength computes the longest-common-subsequence length with a two-row DP.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

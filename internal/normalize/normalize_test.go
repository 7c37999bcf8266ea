package normalize_test

import (
	"testing"

	"github.com/novakit/nova/internal/normalize"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"What's  the   time?", "what is the time"},
		{"don't stop", "do not stop"},
		{"I'm here!", "i am here"},
		{"OPEN   Notepad", "open notepad"},
		{"", ""},
		{"   \t\n ", ""},
		{"you're, right.", "you are right"},
		// Contractions expand per word, never inside other words.
		{"show me the time", "show me the time"},
		{"swimming", "swimming"},
		// Word-internal underscores survive for path-like tokens.
		{"run my_script now", "run my_script now"},
	}

	for _, tt := range tests {
		if got := normalize.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"What's  the   time?",
		"don't stop",
		"i'm going to teach you",
		"nova, open chrome!",
		"",
		"89",
	}

	for _, in := range inputs {
		once := normalize.Normalize(in)
		twice := normalize.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first=%q, second=%q", in, once, twice)
		}
	}
}

package teach_test

import (
	"strings"
	"testing"

	"github.com/novakit/nova/internal/teach"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	v := teach.NewValidator()

	tests := []struct {
		trigger    string
		wantOK     bool
		wantReason string // substring of the spoken reason, empty when wantOK
	}{
		{"open notepad", true, ""},
		{"89", false, "only numbers"},
		{"12345", false, "only numbers"},
		{"hi", false, "too short"},
		{"notepad", false, "at least 2 words"},
		{"the and", false, "common words"},
		{"a the an of", false, "common words"},
		{"call 12345678", false, "too many numbers"},
		{"open notepad 22", true, ""},
		{"", false, "too short"},
		{"   ", false, "too short"},
	}

	for _, tt := range tests {
		ok, reason := v.Validate(tt.trigger)
		if ok != tt.wantOK {
			t.Errorf("Validate(%q): ok=%v, want %v (reason=%q)", tt.trigger, ok, tt.wantOK, reason)
			continue
		}
		if !ok && !strings.Contains(reason, tt.wantReason) {
			t.Errorf("Validate(%q): reason=%q, want it to mention %q", tt.trigger, reason, tt.wantReason)
		}
		if ok && reason != "" {
			t.Errorf("Validate(%q): reason=%q, want empty for accepted trigger", tt.trigger, reason)
		}
	}
}

func TestValidate_CustomLimits(t *testing.T) {
	t.Parallel()

	v := teach.NewValidator(
		teach.WithMinLength(10),
		teach.WithMinWords(3),
	)

	if ok, reason := v.Validate("open notes"); ok {
		t.Error("Validate with min_words=3 should reject a two-word trigger")
	} else if !strings.Contains(reason, "3 words") {
		t.Errorf("Validate: reason=%q, want it to mention the word minimum", reason)
	}

	if ok, _ := v.Validate("open all my notes"); !ok {
		t.Error("Validate should accept a trigger meeting the custom limits")
	}
}

func TestValidate_CustomStopWords(t *testing.T) {
	t.Parallel()

	v := teach.NewValidator(teach.WithStopWords([]string{"foo", "bar"}))

	if ok, _ := v.Validate("foo bar"); ok {
		t.Error("Validate should reject a trigger made only of custom stop words")
	}
	if ok, _ := v.Validate("the and"); !ok {
		t.Error("Validate should accept former stop words once the set is replaced")
	}
}

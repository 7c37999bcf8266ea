package match_test

import (
	"testing"

	"github.com/novakit/nova/internal/match"
)

func TestWakeDetector_ExactToken(t *testing.T) {
	t.Parallel()

	d := match.NewWakeDetector("nova")

	rem, ok := d.Detect("nova open notepad")
	if !ok {
		t.Fatalf("Detect(%q): ok=false, want true", "nova open notepad")
	}
	if rem != "open notepad" {
		t.Errorf("Detect(%q): remainder=%q, want %q", "nova open notepad", rem, "open notepad")
	}
}

func TestWakeDetector_OrderIndependent(t *testing.T) {
	t.Parallel()

	d := match.NewWakeDetector("nova")

	for _, utterance := range []string{"nova stop", "stop nova"} {
		rem, ok := d.Detect(utterance)
		if !ok {
			t.Errorf("Detect(%q): ok=false, want true", utterance)
		}
		if rem != "stop" {
			t.Errorf("Detect(%q): remainder=%q, want %q", utterance, rem, "stop")
		}
	}
}

func TestWakeDetector_FuzzyTranscription(t *testing.T) {
	t.Parallel()

	d := match.NewWakeDetector("nova")

	// Common mis-transcriptions of the wake word share its phonetic codes.
	for _, utterance := range []string{"novah what time is it", "nover open chrome"} {
		if _, ok := d.Detect(utterance); !ok {
			t.Errorf("Detect(%q): ok=false, want fuzzy wake detection", utterance)
		}
	}
}

func TestWakeDetector_NoWakeWord(t *testing.T) {
	t.Parallel()

	d := match.NewWakeDetector("nova")

	rem, ok := d.Detect("open the window")
	if ok {
		t.Fatalf("Detect(%q): ok=true, want false", "open the window")
	}
	if rem != "open the window" {
		t.Errorf("Detect(%q): remainder=%q, want original utterance", "open the window", rem)
	}
}

func TestWakeDetector_BareWakeWord(t *testing.T) {
	t.Parallel()

	d := match.NewWakeDetector("nova")

	rem, ok := d.Detect("nova")
	if !ok {
		t.Fatal("Detect(\"nova\"): ok=false, want true")
	}
	if rem != "" {
		t.Errorf("Detect(\"nova\"): remainder=%q, want empty", rem)
	}
}

func TestWakeDetector_StrictThresholdsRejectNearMisses(t *testing.T) {
	t.Parallel()

	d := match.NewWakeDetector("nova",
		match.WithWakePhoneticThreshold(0.999),
		match.WithWakeFuzzyThreshold(0.999),
	)

	if _, ok := d.Detect("novah stop"); ok {
		t.Error("Detect with threshold 0.999 should reject near-misses")
	}
	// The exact token still matches regardless of thresholds.
	if _, ok := d.Detect("nova stop"); !ok {
		t.Error("Detect should always accept the exact wake token")
	}
}

// Package execspeak implements a speaker.Provider that shells out to an
// external text-to-speech command such as espeak, espeak-ng, or macOS say.
// The utterance text is appended as the final argument.
//
// Synthesis runs synchronously so consecutive replies do not talk over each
// other; the single-threaded dispatch loop never calls Say concurrently.
package execspeak

import (
	"context"
	"log/slog"
	"os/exec"

	"github.com/novakit/nova/pkg/provider/speaker"
)

const defaultBinary = "espeak"

// Option is a functional option for configuring a [Speaker].
type Option func(*Speaker)

// WithArgs sets extra arguments passed before the utterance text
// (e.g. "-v", "en-us", "-s", "160" for espeak).
func WithArgs(args ...string) Option {
	return func(s *Speaker) {
		s.args = args
	}
}

// Speaker synthesises speech by running an external command per utterance.
type Speaker struct {
	binary string
	args   []string
}

// Ensure Speaker implements speaker.Provider at compile time.
var _ speaker.Provider = (*Speaker)(nil)

// New returns a Speaker that runs binary for each utterance. An empty binary
// selects espeak.
func New(binary string, opts ...Option) *Speaker {
	if binary == "" {
		binary = defaultBinary
	}
	s := &Speaker{binary: binary}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Say runs the TTS command with text as the final argument. Failures are
// logged, never returned; a missing binary must not crash the assistant.
func (s *Speaker) Say(ctx context.Context, text string) {
	if text == "" {
		return
	}
	args := append(append([]string(nil), s.args...), text)
	cmd := exec.CommandContext(ctx, s.binary, args...)
	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		slog.Warn("execspeak: tts command failed", "binary", s.binary, "err", err)
	}
}

// Package console implements a speaker.Provider that prints utterances to a
// writer. It is the fallback output when no TTS engine is configured and is
// always useful alongside one for transcripts.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/novakit/nova/pkg/provider/speaker"
)

// Option is a functional option for configuring a [Speaker].
type Option func(*Speaker)

// WithWriter redirects output away from os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(s *Speaker) {
		s.w = w
	}
}

// Speaker prints each utterance as "<name>: <text>". Thread-safe.
type Speaker struct {
	mu   sync.Mutex
	w    io.Writer
	name string
}

// Ensure Speaker implements speaker.Provider at compile time.
var _ speaker.Provider = (*Speaker)(nil)

// New returns a console Speaker that labels output with name.
func New(name string, opts ...Option) *Speaker {
	s := &Speaker{w: os.Stdout, name: name}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Say writes the utterance. Write failures are logged, never returned.
func (s *Speaker) Say(_ context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "%s: %s\n", s.name, text); err != nil {
		slog.Warn("console speaker: write failed", "err", err)
	}
}

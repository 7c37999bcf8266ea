// Package transcriber defines the Provider interface for speech capture
// backends.
//
// A transcriber provider owns the full capture cycle: wait for a spoken
// phrase, transcribe it, and return the text. Implementations wrap either a
// hosted recognition API (OpenAI Whisper, Deepgram) or a local whisper.cpp
// model, all fed by a shared microphone [audio.Source].
//
// Errors are classified by sentinel so the dispatch loop can react without
// knowing the backend: ErrTimeout when nobody spoke, ErrUnintelligible when
// audio was captured but produced no text, and ErrServiceUnavailable when the
// recognition service itself failed.
package transcriber

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by Capture. Implementations wrap backend-specific
// failures into exactly one of these so callers can errors.Is on them.
var (
	// ErrTimeout means no speech was detected within the listening window.
	ErrTimeout = errors.New("transcriber: no speech before timeout")

	// ErrUnintelligible means audio was captured but could not be turned
	// into text.
	ErrUnintelligible = errors.New("transcriber: audio was unintelligible")

	// ErrServiceUnavailable means the recognition backend failed or could
	// not be reached.
	ErrServiceUnavailable = errors.New("transcriber: recognition service unavailable")
)

// Utterance is one recognised phrase.
type Utterance struct {
	// Text is the transcript, as returned by the backend. Callers are
	// responsible for normalization.
	Text string

	// Confidence is the backend's confidence in [0, 1], or 0 when the
	// backend does not report one.
	Confidence float64

	// Duration is the length of the captured audio.
	Duration time.Duration
}

// Provider is the abstraction over any speech capture backend.
type Provider interface {
	// Capture blocks until one phrase has been captured and transcribed,
	// a sentinel error condition occurs, or ctx is cancelled.
	Capture(ctx context.Context) (Utterance, error)
}

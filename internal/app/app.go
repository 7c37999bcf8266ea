// Package app wires the capture loop: listen, transcribe, dispatch, repeat
// until the session terminates or the context is cancelled.
//
// The App owns no collaborator lifetimes except the loop itself — main.go
// builds the providers and the dispatcher and hands them in, which keeps the
// loop trivially testable with mocks.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/novakit/nova/internal/dispatch"
	"github.com/novakit/nova/internal/observe"
	"github.com/novakit/nova/pkg/provider/speaker"
	"github.com/novakit/nova/pkg/provider/transcriber"
)

// App runs the assistant's main loop.
type App struct {
	transcriber transcriber.Provider
	dispatcher  *dispatch.Dispatcher
	speaker     speaker.Provider
	metrics     *observe.Metrics

	stopOnce sync.Once
}

// New returns an App ready to Run. metrics may be nil, in which case the
// package-level default instruments are used.
func New(tr transcriber.Provider, d *dispatch.Dispatcher, spk speaker.Provider, metrics *observe.Metrics) *App {
	if metrics == nil {
		metrics = observe.Default()
	}
	return &App{
		transcriber: tr,
		dispatcher:  d,
		speaker:     spk,
		metrics:     metrics,
	}
}

// Run executes the capture loop until the dispatcher terminates or ctx is
// cancelled. Capture failures are absorbed: a silent cycle or an
// unintelligible phrase just starts the next cycle, and a backend outage is
// announced so the user knows the assistant is not ignoring them.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.dispatcher.State() == dispatch.StateTerminated {
			return nil
		}

		start := time.Now()
		utterance, err := a.transcriber.Capture(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.handleCaptureError(ctx, err)
			continue
		}
		a.metrics.RecordCapture(ctx, time.Since(start))

		slog.Debug("captured utterance",
			"text", utterance.Text,
			"confidence", utterance.Confidence,
			"audio_duration", utterance.Duration,
		)
		a.dispatcher.Dispatch(ctx, utterance.Text)
	}
}

// handleCaptureError classifies a failed capture cycle. Timeouts and
// unintelligible audio are routine and only logged; a service outage is
// spoken.
func (a *App) handleCaptureError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, transcriber.ErrTimeout):
		a.metrics.RecordTranscribeError(ctx, "timeout")
		slog.Debug("no speech detected, listening again")
	case errors.Is(err, transcriber.ErrUnintelligible):
		a.metrics.RecordTranscribeError(ctx, "unintelligible")
		slog.Debug("could not understand audio, listening again")
	case errors.Is(err, transcriber.ErrServiceUnavailable):
		a.metrics.RecordTranscribeError(ctx, "unavailable")
		slog.Warn("speech recognition service unavailable")
		a.speaker.Say(ctx, "Sorry, my speech recognition service is unavailable.")
	default:
		a.metrics.RecordTranscribeError(ctx, "unknown")
		slog.Error("capture failed", "err", err)
	}
}

// Shutdown flushes the learned commands. Safe to call more than once.
func (a *App) Shutdown() error {
	var err error
	a.stopOnce.Do(func() {
		err = a.dispatcher.Flush()
	})
	return err
}

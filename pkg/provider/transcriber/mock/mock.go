// Package mock provides a scripted transcriber.Provider for tests.
package mock

import (
	"context"
	"sync"

	"github.com/novakit/nova/pkg/provider/transcriber"
)

// Compile-time assertion that Transcriber satisfies transcriber.Provider.
var _ transcriber.Provider = (*Transcriber)(nil)

// Step is one scripted Capture result.
type Step struct {
	Utterance transcriber.Utterance
	Err       error
}

// Transcriber replays a script of Capture results and records how many times
// it was called. Safe for concurrent use. Once the script is exhausted,
// Capture returns transcriber.ErrTimeout.
type Transcriber struct {
	mu    sync.Mutex
	steps []Step
	calls int
}

// New returns a Transcriber that will replay the given steps in order.
func New(steps ...Step) *Transcriber {
	return &Transcriber{steps: steps}
}

// Say appends a successful capture of text to the script.
func (t *Transcriber) Say(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, Step{Utterance: transcriber.Utterance{Text: text, Confidence: 1}})
}

// Fail appends a failing capture to the script.
func (t *Transcriber) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, Step{Err: err})
}

// Capture pops the next scripted step.
func (t *Transcriber) Capture(ctx context.Context) (transcriber.Utterance, error) {
	if err := ctx.Err(); err != nil {
		return transcriber.Utterance{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	if len(t.steps) == 0 {
		return transcriber.Utterance{}, transcriber.ErrTimeout
	}
	step := t.steps[0]
	t.steps = t.steps[1:]
	return step.Utterance, step.Err
}

// Calls reports how many times Capture has been invoked.
func (t *Transcriber) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

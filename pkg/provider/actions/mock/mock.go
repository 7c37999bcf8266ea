// Package mock provides a test double for the actions package.
package mock

import (
	"context"
	"sync"

	"github.com/novakit/nova/pkg/provider/actions"
)

// RunCall records a single invocation of Runner.Run.
type RunCall struct {
	// Action is the action string passed to Run.
	Action string
}

// Runner is a mock implementation of actions.Runner. Thread-safe.
type Runner struct {
	mu sync.Mutex

	// RunErr, if non-nil, is returned by every Run call.
	RunErr error

	// RunCalls records every call to Run in order.
	RunCalls []RunCall
}

// Ensure Runner implements actions.Runner at compile time.
var _ actions.Runner = (*Runner)(nil)

// Run records the call and returns RunErr.
func (r *Runner) Run(_ context.Context, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RunCalls = append(r.RunCalls, RunCall{Action: action})
	return r.RunErr
}

// Ran reports whether Run was called with action.
func (r *Runner) Ran(action string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.RunCalls {
		if c.Action == action {
			return true
		}
	}
	return false
}

// Reset clears all recorded calls. Thread-safe.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RunCalls = nil
}

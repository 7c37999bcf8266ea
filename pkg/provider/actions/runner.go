// Package actions defines the Runner interface for executing learned command
// actions. An action is an opaque string — an executable path, a document
// path, or a URL — and running one is a side effect on the host: a process
// launch or a browser open.
package actions

import (
	"context"
	"fmt"
)

// Runner is the abstraction over action execution.
//
// Implementations must be safe for concurrent use.
type Runner interface {
	// Run executes action. A failure (path not found, no handler for the
	// URL scheme) is returned as a *ExecutionError so the dispatcher can
	// report it to the user; it must never terminate the process.
	Run(ctx context.Context, action string) error
}

// ExecutionError describes a failed action invocation.
type ExecutionError struct {
	// Action is the opaque action string that failed.
	Action string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("actions: run %q: %v", e.Action, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Package speaker defines the Provider interface for speech output.
//
// A speaker turns the assistant's reply into something the user perceives —
// synthesised audio, a console line, or both. Say is fire-and-forget: the
// dispatcher never consumes a return value, so implementations handle their
// own failures (typically by logging) and must never panic on bad input.
package speaker

import "context"

// Provider is the abstraction over any speech output backend.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// Say renders text for the user. It blocks until the utterance has been
	// handed to the underlying output (not necessarily until playback ends)
	// and respects ctx cancellation for long synthesis calls. Failures are
	// logged by the implementation, never returned.
	Say(ctx context.Context, text string)
}

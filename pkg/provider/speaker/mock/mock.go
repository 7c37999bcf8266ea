// Package mock provides a test double for the speaker package.
//
// Use Speaker to capture everything the dispatcher says and assert on it:
//
//	spk := &mock.Speaker{}
//	d := dispatch.New(cfg, dispatch.Deps{Speaker: spk, ...})
//	...
//	if !spk.Said("Goodbye") { t.Error(...) }
package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/novakit/nova/pkg/provider/speaker"
)

// Speaker is a mock implementation of speaker.Provider that records every
// utterance. Thread-safe.
type Speaker struct {
	mu sync.Mutex

	// Utterances records every Say call in order.
	Utterances []string
}

// Ensure Speaker implements speaker.Provider at compile time.
var _ speaker.Provider = (*Speaker)(nil)

// Say records text.
func (s *Speaker) Say(_ context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Utterances = append(s.Utterances, text)
}

// Said reports whether any recorded utterance contains substr.
func (s *Speaker) Said(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Utterances {
		if strings.Contains(u, substr) {
			return true
		}
	}
	return false
}

// Last returns the most recent utterance, or "" when nothing was said.
func (s *Speaker) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Utterances) == 0 {
		return ""
	}
	return s.Utterances[len(s.Utterances)-1]
}

// Reset clears all recorded utterances. Thread-safe.
func (s *Speaker) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Utterances = nil
}

package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/novakit/nova/pkg/provider/speaker"
	"github.com/novakit/nova/pkg/provider/transcriber"
)

// ErrProviderNotRegistered is returned by Create* methods when no factory has
// been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps provider names to their constructor functions for each
// provider type. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	transcriber map[string]func(ProviderEntry) (transcriber.Provider, error)
	speaker     map[string]func(ProviderEntry) (speaker.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		transcriber: make(map[string]func(ProviderEntry) (transcriber.Provider, error)),
		speaker:     make(map[string]func(ProviderEntry) (speaker.Provider, error)),
	}
}

// RegisterTranscriber registers a transcriber factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterTranscriber(name string, factory func(ProviderEntry) (transcriber.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcriber[name] = factory
}

// RegisterSpeaker registers a speaker factory under name.
func (r *Registry) RegisterSpeaker(name string, factory func(ProviderEntry) (speaker.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.speaker[name] = factory
}

// CreateTranscriber instantiates a transcriber using the factory registered
// under entry.Name. Returns [ErrProviderNotRegistered] if no factory has been
// registered for that name.
func (r *Registry) CreateTranscriber(entry ProviderEntry) (transcriber.Provider, error) {
	r.mu.RLock()
	factory, ok := r.transcriber[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: transcriber/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateSpeaker instantiates a speaker using the factory registered under
// entry.Name.
func (r *Registry) CreateSpeaker(entry ProviderEntry) (speaker.Provider, error) {
	r.mu.RLock()
	factory, ok := r.speaker[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: speaker/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

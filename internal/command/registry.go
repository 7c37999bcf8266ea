package command

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the in-memory trigger → action table, loaded once at startup
// and flushed to its Store synchronously after each mutation.
//
// The dispatch loop is the only writer, but the registry locks anyway so a
// metrics or debug reader can never observe a torn map.
type Registry struct {
	mu       sync.RWMutex
	store    Store
	commands map[string]string
}

// NewRegistry loads the persisted table from store and returns a ready
// Registry.
func NewRegistry(store Store) (*Registry, error) {
	commands, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("command: load registry: %w", err)
	}
	return &Registry{store: store, commands: commands}, nil
}

// Put stores trigger → action (last write wins) and persists the table
// before returning. The in-memory entry is kept even when persistence fails,
// so the command works for the rest of the session; the error tells the
// caller the lesson was not saved to disk.
func (r *Registry) Put(trigger, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[trigger] = action
	return r.store.Save(r.commands)
}

// Get returns the action for trigger.
func (r *Registry) Get(trigger string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	action, ok := r.commands[trigger]
	return action, ok
}

// All returns every trigger in sorted order. The order is what the matcher
// iterates, so sorting keeps tie-breaking deterministic across runs.
func (r *Registry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	triggers := make([]string, 0, len(r.commands))
	for t := range r.commands {
		triggers = append(triggers, t)
	}
	sort.Strings(triggers)
	return triggers
}

// Len returns the number of learned commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Save rewrites the persisted table from the in-memory state. Used as the
// shutdown flush and after a Put that failed to persist.
func (r *Registry) Save() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Save(r.commands)
}

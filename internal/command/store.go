// Package command holds the learned-command registry, its persistent store,
// and the table of built-in commands.
package command

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Store persists the learned-command table. Triggers are stored normalized;
// actions are opaque strings (executable path, file path, or URL) kept
// verbatim.
type Store interface {
	// Load reads the full table. A missing backing file yields an empty
	// table, not an error.
	Load() (map[string]string, error)

	// Save rewrites the full table. A failed write is returned to the
	// caller so the teach flow can tell the user the lesson was not saved.
	Save(commands map[string]string) error
}

// JSONStore persists commands as an indented JSON object so the file can be
// hand-edited between runs. Malformed entries found on load are skipped with
// a warning, never treated as fatal.
type JSONStore struct {
	fs   afero.Fs
	path string
}

// Ensure JSONStore implements Store at compile time.
var _ Store = (*JSONStore)(nil)

// NewJSONStore returns a store writing to path on fs.
func NewJSONStore(fs afero.Fs, path string) *JSONStore {
	return &JSONStore{fs: fs, path: path}
}

// Load reads and sanitises the command table. A missing file yields an empty
// table; an unparseable file is logged and also yields an empty table, so a
// corrupted document never prevents startup.
func (s *JSONStore) Load() (map[string]string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("command: read %q: %w", s.path, err)
	}

	// Decode into loose types first: a hand-edited file may hold anything.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("command store: file is not a valid JSON object, starting empty",
			"path", s.path, "err", err)
		return map[string]string{}, nil
	}

	commands := make(map[string]string, len(raw))
	for trigger, v := range raw {
		action, ok := v.(string)
		if !ok || strings.TrimSpace(trigger) == "" || strings.TrimSpace(action) == "" {
			slog.Warn("command store: skipping malformed entry",
				"path", s.path, "trigger", trigger)
			continue
		}
		commands[trigger] = action
	}
	return commands, nil
}

// Save rewrites the table as indented JSON.
func (s *JSONStore) Save(commands map[string]string) error {
	data, err := json.MarshalIndent(commands, "", "    ")
	if err != nil {
		return fmt.Errorf("command: marshal: %w", err)
	}
	data = append(data, '\n')
	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("command: write %q: %w", s.path, err)
	}
	return nil
}

// Package interaction persists the conversation as append-only JSON lines:
// one record per turn with the raw and normalized text. The log exists for
// after-the-fact debugging of mis-heard commands, so a failed write is never
// allowed to disturb the session — it is logged and dropped.
package interaction

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Entry is a single logged turn.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Role       Role      `json:"role"`
	Raw        string    `json:"raw"`
	Normalized string    `json:"normalized,omitempty"`
}

// Recorder appends entries to a JSON-lines file. Thread-safe.
type Recorder struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	now  func() time.Time
}

// NewRecorder returns a Recorder writing to path on fs. The file is created
// on first write.
func NewRecorder(fs afero.Fs, path string) *Recorder {
	return &Recorder{fs: fs, path: path, now: time.Now}
}

// Record appends one turn. Failures are logged and swallowed.
func (r *Recorder) Record(role Role, raw, normalized string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := Entry{
		Timestamp:  r.now().UTC(),
		Role:       role,
		Raw:        raw,
		Normalized: normalized,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		slog.Warn("interaction log: marshal failed", "err", err)
		return
	}
	data = append(data, '\n')

	f, err := r.fs.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("interaction log: open failed", "path", r.path, "err", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		slog.Warn("interaction log: write failed", "path", r.path, "err", err)
	}
}

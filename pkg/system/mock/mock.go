// Package mock provides a test double for the system package.
package mock

import (
	"sync"

	"github.com/novakit/nova/pkg/system"
)

// Host is a mock implementation of system.Interface that records calls and
// returns scripted results. Thread-safe.
type Host struct {
	mu sync.Mutex

	// BatteryText is returned by BatteryStatus when BatteryErr is nil.
	BatteryText string

	// BatteryErr, if non-nil, is returned by BatteryStatus.
	BatteryErr error

	// ScreenshotErr, if non-nil, is returned by Screenshot.
	ScreenshotErr error

	// VolumeErr, if non-nil, is returned by the volume methods.
	VolumeErr error

	// --- Call records ---

	// ScreenshotPaths records the path of every Screenshot call.
	ScreenshotPaths []string

	// VolumeUpCalls counts VolumeUp invocations.
	VolumeUpCalls int

	// VolumeDownCalls counts VolumeDown invocations.
	VolumeDownCalls int

	// ToggleMuteCalls counts ToggleMute invocations.
	ToggleMuteCalls int
}

// Ensure Host implements system.Interface at compile time.
var _ system.Interface = (*Host)(nil)

// BatteryStatus returns the scripted battery summary.
func (h *Host) BatteryStatus() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.BatteryErr != nil {
		return "", h.BatteryErr
	}
	return h.BatteryText, nil
}

// Screenshot records path and returns ScreenshotErr.
func (h *Host) Screenshot(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ScreenshotPaths = append(h.ScreenshotPaths, path)
	return h.ScreenshotErr
}

// VolumeUp records the call and returns VolumeErr.
func (h *Host) VolumeUp() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.VolumeUpCalls++
	return h.VolumeErr
}

// VolumeDown records the call and returns VolumeErr.
func (h *Host) VolumeDown() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.VolumeDownCalls++
	return h.VolumeErr
}

// ToggleMute records the call and returns VolumeErr.
func (h *Host) ToggleMute() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ToggleMuteCalls++
	return h.VolumeErr
}

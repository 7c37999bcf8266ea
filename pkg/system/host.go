package system

import (
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/distatus/battery"
	"github.com/itchyny/volume-go"
	"github.com/kbinani/screenshot"
)

// volumeStep is the percentage change applied per volume command.
const volumeStep = 10

// Host implements Interface against the real machine.
type Host struct{}

// Ensure Host implements Interface at compile time.
var _ Interface = (*Host)(nil)

// NewHost returns the production host integration.
func NewHost() *Host {
	return &Host{}
}

// BatteryStatus summarises the first battery reported by the OS.
func (h *Host) BatteryStatus() (string, error) {
	batts, err := battery.GetAll()
	if err != nil {
		return "", fmt.Errorf("system: read battery: %w", err)
	}
	if len(batts) == 0 {
		return "", fmt.Errorf("system: no battery present")
	}

	b := batts[0]
	percent := 0
	if b.Full > 0 {
		percent = int(b.Current/b.Full*100 + 0.5)
	}

	state := strings.ToLower(b.State.String())
	status := "not plugged in"
	if state == "charging" || state == "full" {
		status = "plugged in"
	}
	return fmt.Sprintf("Battery is at %d percent and %s", percent, status), nil
}

// Screenshot captures display 0 and writes it as PNG to path.
func (h *Host) Screenshot(path string) error {
	if screenshot.NumActiveDisplays() == 0 {
		return fmt.Errorf("system: no active displays")
	}
	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return fmt.Errorf("system: capture screen: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("system: create %q: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("system: encode png: %w", err)
	}
	return nil
}

// VolumeUp raises the output volume by one step.
func (h *Host) VolumeUp() error {
	if err := volume.IncreaseVolume(volumeStep); err != nil {
		return fmt.Errorf("system: volume up: %w", err)
	}
	return nil
}

// VolumeDown lowers the output volume by one step.
func (h *Host) VolumeDown() error {
	if err := volume.IncreaseVolume(-volumeStep); err != nil {
		return fmt.Errorf("system: volume down: %w", err)
	}
	return nil
}

// ToggleMute flips the output mute state.
func (h *Host) ToggleMute() error {
	muted, err := volume.GetMuted()
	if err != nil {
		return fmt.Errorf("system: read mute state: %w", err)
	}
	if muted {
		err = volume.Unmute()
	} else {
		err = volume.Mute()
	}
	if err != nil {
		return fmt.Errorf("system: toggle mute: %w", err)
	}
	return nil
}

// Package system abstracts the host integrations behind the built-in
// commands: battery status, screenshots, and volume control. The Interface
// lets the command table be exercised in tests without touching real
// hardware; Host is the production implementation.
package system

// Interface is the host-integration surface consumed by built-in commands.
type Interface interface {
	// BatteryStatus returns a spoken-form summary of the primary battery,
	// e.g. "Battery is at 87 percent and charging".
	BatteryStatus() (string, error)

	// Screenshot captures the primary display and writes a PNG to path.
	Screenshot(path string) error

	// VolumeUp raises the system output volume one step.
	VolumeUp() error

	// VolumeDown lowers the system output volume one step.
	VolumeDown() error

	// ToggleMute flips the system output mute state.
	ToggleMute() error
}

// Package desktop implements an actions.Runner that hands the action to the
// host's default opener: xdg-open on Linux, open on macOS, and cmd /c start
// on Windows. The opener resolves both URLs and file paths, matching how
// users write actions ("https://mail.google.com", "C:\...\notepad.exe").
package desktop

import (
	"context"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/novakit/nova/pkg/provider/actions"
)

// Runner launches actions through the OS opener.
type Runner struct {
	goos string
}

// Ensure Runner implements actions.Runner at compile time.
var _ actions.Runner = (*Runner)(nil)

// New returns a Runner for the current operating system.
func New() *Runner {
	return &Runner{goos: runtime.GOOS}
}

// Run opens action with the host's default handler. Failures come back as a
// *actions.ExecutionError.
func (r *Runner) Run(ctx context.Context, action string) error {
	action = strings.TrimSpace(action)
	argv := openerArgs(r.goos, action)

	slog.Debug("desktop: running action", "action", action, "argv", argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Run(); err != nil {
		return &actions.ExecutionError{Action: action, Err: err}
	}
	return nil
}

// IsURL reports whether action begins with a web URL scheme.
func IsURL(action string) bool {
	lower := strings.ToLower(action)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// openerArgs returns the argv that opens action on the given OS.
func openerArgs(goos, action string) []string {
	switch goos {
	case "windows":
		// start treats its first quoted argument as a window title, and
		// cmd splits an unescaped & into a second command, which would
		// truncate URL query strings.
		if IsURL(action) {
			action = strings.ReplaceAll(action, "&", "^&")
		}
		return []string{"cmd", "/c", "start", "", action}
	case "darwin":
		return []string{"open", action}
	default:
		return []string{"xdg-open", action}
	}
}

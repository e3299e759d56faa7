//go:build !windows

package hostutil

// IsRunFromGUI always reports false on non-Windows: there's no console to
// detach from, and CLI-only launch is the norm (nohup/systemd/etc.),
// grounded on internal/util/util.go's stub for the same function.
func IsRunFromGUI() bool { return false }

// HideConsoleWindow is a no-op on non-Windows platforms.
func HideConsoleWindow() {}

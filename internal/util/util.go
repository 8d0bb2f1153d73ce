//go:build !windows

// Package util holds small helpers for the desktop launch path.
package util

// IsRunFromGUI reports whether the bridge was started by double-click rather
// than from a shell. Only Windows has that launch path; elsewhere the bridge
// comes up from a terminal or a service manager.
func IsRunFromGUI() bool {
	return false
}

// HideConsoleWindow is a no-op outside Windows.
func HideConsoleWindow() {}

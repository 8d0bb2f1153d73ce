//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

func install(_ *slog.Logger) error {
	return errors.New("service install is only supported on linux")
}

func uninstall(_ *slog.Logger) error {
	return errors.New("service install is only supported on linux")
}

package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/mantukin/dx3/internal/configpaths"
	"github.com/mantukin/dx3/internal/profile"
)

// ProfileInit writes the stock mapping profile so users have a complete
// file to edit. Format follows the destination extension.
type ProfileInit struct {
	Output string `help:"Destination file path (defaults to the config dir)"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

// Run is called by Kong when the profile-init command is executed.
func (p *ProfileInit) Run(logger *slog.Logger) error {
	dest := p.Output
	if dest == "" {
		var err error
		dest, err = configpaths.DefaultProfilePath()
		if err != nil {
			return err
		}
	}

	if !p.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}

	if err := profile.Default().Save(dest); err != nil {
		return err
	}
	logger.Info("Wrote mapping profile template", "path", dest)
	return nil
}

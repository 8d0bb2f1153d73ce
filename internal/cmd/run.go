package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mantukin/dx3/internal/configpaths"
	"github.com/mantukin/dx3/internal/hidhide"
	"github.com/mantukin/dx3/internal/hidio"
	"github.com/mantukin/dx3/internal/log"
	"github.com/mantukin/dx3/internal/output"
	"github.com/mantukin/dx3/internal/profile"
	"github.com/mantukin/dx3/internal/session"
	"github.com/mantukin/dx3/internal/util"
)

// Run is the bridge command: open the physical controller, expose the
// virtual pad and translate until interrupted.
type Run struct {
	Profile       string `help:"Mapping profile path (defaults to the config dir)" env:"DX3_PROFILE"`
	NoHide        bool   `help:"Skip HidHide cloaking of the physical controller" env:"DX3_NO_HIDE"`
	DisableOutput bool   `help:"Disable the periodic LED/trigger refresh" env:"DX3_DISABLE_OUTPUT"`
	Minimized     bool   `help:"Hide the console window after startup (windows)" env:"DX3_MINIMIZED"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(logger)

	if r.Minimized {
		util.HideConsoleWindow()
	}

	prof, path, err := r.loadProfile(logger)
	if err != nil {
		return err
	}
	table, tun, err := prof.Compile()
	if err != nil {
		return fmt.Errorf("invalid profile %s: %w", path, err)
	}

	ctrl := session.NewControl(table, tun, prof.OutputSettings())
	ctrl.SetOutput(prof.OutputSettings(), prof.Output.BatteryLEDs, prof.Output.PeriodicRefresh && !r.DisableOutput)
	ctrl.OnStatus(func(st session.Status) {
		logger.Debug("Session status",
			"text", st.Text,
			"device", st.Device,
			"mode", st.Mode.String(),
			"battery", st.Battery,
			"charging", st.Charging)
	})

	sink, err := output.NewSink()
	if err != nil {
		return fmt.Errorf("output backend unavailable: %w", err)
	}

	hide := hidhide.New()
	if r.NoHide {
		hide = hidhide.Disabled()
	} else if !hide.Installed() {
		logger.Info("HidHide not found, controller stays visible to other applications")
	}

	logger.Info("Starting bridge", "profile", path)

	worker := session.NewWorker(hidio.NewSystem(), sink, hide, ctrl, logger, rawLogger)
	go func() {
		<-ctx.Done()
		ctrl.RequestExit()
	}()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Bridge stopped")
	return nil
}

func (r *Run) loadProfile(logger *slog.Logger) (*profile.Profile, string, error) {
	path := r.Profile
	if path == "" {
		var err error
		path, err = configpaths.DefaultProfilePath()
		if err != nil {
			return nil, "", err
		}
	}

	if _, err := os.Stat(path); err == nil {
		prof, err := profile.Load(path)
		if err != nil {
			return nil, "", err
		}
		return prof, path, nil
	}

	prof := profile.Default()
	if err := prof.Save(path); err != nil {
		logger.Warn("Could not write default profile", "path", path, "error", err)
	} else {
		logger.Info("Wrote default profile", "path", path)
	}
	return prof, path, nil
}

// Package config declares the top-level CLI surface parsed by kong.
package config

import "github.com/mantukin/dx3/internal/cmd"

// Log groups the logging flags, embedded under the log. prefix so config
// files nest them.
type Log struct {
	Level   string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"DX3_LOG_LEVEL"`
	File    string `help:"Log file path (stdout/stderr if empty)" env:"DX3_LOG_FILE"`
	RawFile string `help:"Raw HID report log file" name:"raw-file" env:"DX3_LOG_RAW_FILE"`
}

// CLI is the root command tree.
type CLI struct {
	Config string `help:"Path to a configuration file" env:"DX3_CONFIG"`
	Log    Log    `embed:"" prefix:"log."`

	Run         cmd.Run         `cmd:"" default:"withargs" help:"Bridge a DualSense/DualShock 4 to a virtual Xbox 360 pad"`
	ProfileInit cmd.ProfileInit `cmd:"" name:"profile-init" help:"Write a mapping profile template"`
	ConfigInit  cmd.ConfigInit  `cmd:"" name:"config-init" help:"Generate a configuration template"`
	Install     cmd.Install     `cmd:"" help:"Install the background service (linux)"`
	Uninstall   cmd.Uninstall   `cmd:"" help:"Remove the background service (linux)"`
}

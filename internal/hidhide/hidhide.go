// Package hidhide drives the HidHide filter driver's command line client to
// cloak the physical controller from other applications while the bridge owns
// it. Everything here is best effort: a missing or failing HidHide install
// degrades to an uncloaked controller, never to a broken session.
package hidhide

import (
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

const cliName = "HidHideCLI.exe"

// Client shells out to HidHideCLI. The zero value is unusable; call New.
type Client struct {
	cliPath string
	hidden  map[string]bool
}

// New locates HidHideCLI on PATH and in its default install directory.
// A nil-op client is returned when HidHide is not installed.
func New() *Client {
	c := &Client{hidden: make(map[string]bool)}
	if path, err := exec.LookPath(cliName); err == nil {
		c.cliPath = path
		return c
	}
	def := `C:\Program Files\Nefarius Software Solutions\HidHide\x64\` + cliName
	if _, err := os.Stat(def); err == nil {
		c.cliPath = def
	}
	return c
}

// Disabled returns a client that never shells out, for --no-hide runs.
func Disabled() *Client {
	return &Client{hidden: make(map[string]bool)}
}

// Installed reports whether the CLI was found.
func (c *Client) Installed() bool {
	return c.cliPath != ""
}

func (c *Client) run(args ...string) error {
	out, err := exec.Command(c.cliPath, args...).CombinedOutput()
	if err != nil {
		slog.Warn("HidHideCLI failed", "args", args, "output", strings.TrimSpace(string(out)), "error", err)
	}
	return err
}

// WhitelistSelf registers this executable so it keeps access to cloaked
// devices.
func (c *Client) WhitelistSelf() error {
	if !c.Installed() {
		return nil
	}
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	return c.run("--app-reg", exe)
}

// Hide cloaks the instance and enables cloaking. Idempotent per instance.
func (c *Client) Hide(instanceID string) error {
	if !c.Installed() || instanceID == "" || c.hidden[instanceID] {
		return nil
	}
	if err := c.run("--dev-hide", instanceID); err != nil {
		return err
	}
	if err := c.run("--cloak-on"); err != nil {
		return err
	}
	c.hidden[instanceID] = true
	slog.Info("Controller cloaked", "instance", instanceID)
	return nil
}

// Unhide removes the instance from the cloak list.
func (c *Client) Unhide(instanceID string) error {
	if !c.Installed() || instanceID == "" || !c.hidden[instanceID] {
		return nil
	}
	if err := c.run("--dev-unhide", instanceID); err != nil {
		return err
	}
	delete(c.hidden, instanceID)
	slog.Info("Controller uncloaked", "instance", instanceID)
	return nil
}

// UnhideAll removes every instance this process cloaked.
func (c *Client) UnhideAll() {
	for id := range c.hidden {
		_ = c.Unhide(id)
	}
}

// PathToInstanceID derives the Windows device instance ID from a hidapi
// device path. Paths look like
// \\?\hid#vid_054c&pid_0ce6#7&2f3a...#{guid}; the instance ID is the same
// three segments with backslash separators and without the GUID suffix.
func PathToInstanceID(path string) string {
	lower := strings.ToLower(path)
	idx := strings.Index(lower, "hid#")
	if idx < 0 {
		return ""
	}
	rest := path[idx:]
	parts := strings.Split(rest, "#")
	if len(parts) < 3 {
		return ""
	}
	return strings.ToUpper(parts[0] + `\` + parts[1] + `\` + parts[2])
}

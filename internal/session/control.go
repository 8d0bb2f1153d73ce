// Package session owns the device lifecycle: bus/HID init, scanning, opening,
// the burst-read loop and teardown. A single worker goroutine runs the state
// machine; everything shared with the outside lives in Control behind one
// mutex.
package session

import (
	"sync"
	"time"

	"github.com/mantukin/dx3/internal/xpad"
	"github.com/mantukin/dx3/mapping"
	"github.com/mantukin/dx3/protocol"
	"github.com/mantukin/dx3/protocol/dualsense"
)

// Commands are one-shot request flags. The worker drains them atomically once
// per housekeeping pass; setting a flag twice before a drain coalesces into
// one action.
type Commands struct {
	Refresh      bool // abandon the current device / retry wait and rescan
	Reconnect    bool // power-off burst then rescan
	SendOutput   bool // push an LED/trigger frame now
	PowerOff     bool // power the controller down and rescan
	DiagSweep    bool // start the offset sweep probe
	DiagPinpoint bool // start the pinpoint probe
}

func (c Commands) any() bool {
	return c.Refresh || c.Reconnect || c.SendOutput || c.PowerOff || c.DiagSweep || c.DiagPinpoint
}

// Status is a point-in-time snapshot of the session, published at ~30 Hz
// while a device is active.
type Status struct {
	Text   string
	Device string
	Serial string

	Mode     protocol.Mode
	Battery  uint8
	Charging bool

	Pad       xpad.State
	RawReport []byte

	LastWriteOK  bool
	LastWriteHex string

	Time time.Time
}

// Control is the shared control and telemetry block between the session
// worker and its callers (CLI commands, UI frontends). All fields are guarded
// by a single mutex; the worker keeps local cached copies and only takes the
// lock when a dirty flag says something changed.
type Control struct {
	mu sync.Mutex

	cmds   Commands
	exit   bool
	paused bool

	table       mapping.Table
	tunables    mapping.Tunables
	mappingGen  uint64
	outSettings dualsense.OutputSettings
	batteryLEDs bool
	periodicOut bool
	outputGen   uint64

	status   Status
	onStatus func(Status)
}

// NewControl seeds the control block with an initial mapping and output
// configuration.
func NewControl(table mapping.Table, tun mapping.Tunables, out dualsense.OutputSettings) *Control {
	return &Control{
		table:       table,
		tunables:    tun,
		mappingGen:  1,
		outSettings: out,
		outputGen:   1,
		periodicOut: true,
	}
}

// Request sets one-shot command flags for the worker to drain.
func (c *Control) Request(cmds Commands) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds.Refresh = c.cmds.Refresh || cmds.Refresh
	c.cmds.Reconnect = c.cmds.Reconnect || cmds.Reconnect
	c.cmds.SendOutput = c.cmds.SendOutput || cmds.SendOutput
	c.cmds.PowerOff = c.cmds.PowerOff || cmds.PowerOff
	c.cmds.DiagSweep = c.cmds.DiagSweep || cmds.DiagSweep
	c.cmds.DiagPinpoint = c.cmds.DiagPinpoint || cmds.DiagPinpoint
}

// takeCommands drains and clears all pending command flags.
func (c *Control) takeCommands() Commands {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmds := c.cmds
	c.cmds = Commands{}
	return cmds
}

// RequestExit asks the worker to shut down.
func (c *Control) RequestExit() {
	c.mu.Lock()
	c.exit = true
	c.mu.Unlock()
}

func (c *Control) exiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exit
}

// SetPaused suspends or resumes scanning. A paused worker keeps an already
// open device; it only stops looking for new ones.
func (c *Control) SetPaused(paused bool) {
	c.mu.Lock()
	c.paused = paused
	c.mu.Unlock()
}

// Paused reports whether scanning is suspended.
func (c *Control) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// SetMapping replaces the mapping table and tunables.
func (c *Control) SetMapping(table mapping.Table, tun mapping.Tunables) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = table.Clone()
	c.tunables = tun
	c.mappingGen++
}

// SetOutput replaces the LED/trigger settings. The worker pushes a frame
// immediately on the next housekeeping pass.
func (c *Control) SetOutput(out dualsense.OutputSettings, batteryLEDs, periodic bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outSettings = out
	c.batteryLEDs = batteryLEDs
	c.periodicOut = periodic
	c.outputGen++
}

// syncMapping refreshes the worker's cached table/tunables if the generation
// moved. Returns changed=false without copying when nothing did.
func (c *Control) syncMapping(gen *uint64) (mapping.Table, mapping.Tunables, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *gen == c.mappingGen {
		return nil, mapping.Tunables{}, false
	}
	*gen = c.mappingGen
	return c.table.Clone(), c.tunables, true
}

// syncOutput refreshes the worker's cached output settings.
func (c *Control) syncOutput(gen *uint64) (dualsense.OutputSettings, bool, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := *gen != c.outputGen
	*gen = c.outputGen
	return c.outSettings, c.batteryLEDs, c.periodicOut, changed
}

// OnStatus registers the snapshot listener. Only one listener is supported;
// it is invoked from the worker goroutine and must not block.
func (c *Control) OnStatus(fn func(Status)) {
	c.mu.Lock()
	c.onStatus = fn
	c.mu.Unlock()
}

func (c *Control) publish(st Status) {
	c.mu.Lock()
	c.status = st
	fn := c.onStatus
	c.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}

// Snapshot returns the most recently published status.
func (c *Control) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

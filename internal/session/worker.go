package session

import (
	"bytes"
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/mantukin/dx3/internal/hidhide"
	"github.com/mantukin/dx3/internal/hidio"
	"github.com/mantukin/dx3/internal/log"
	"github.com/mantukin/dx3/internal/output"
	"github.com/mantukin/dx3/mapping"
	"github.com/mantukin/dx3/protocol"
	"github.com/mantukin/dx3/protocol/dualsense"
	"github.com/mantukin/dx3/protocol/dualshock4"
)

// Session timing. The read timeout doubles as the idle tick driving
// continuous mouse output between packets.
const (
	readTimeout      = 10 * time.Millisecond
	drainLimit       = 10
	retryDelay       = 2 * time.Second
	cooldownDelay    = 2 * time.Second
	scanDelay        = 2 * time.Second
	emptyScanLimit   = 5
	snapshotInterval = 32 * time.Millisecond
	keepaliveEvery   = time.Second
	housekeepGate    = time.Millisecond
	ledRefreshEvery  = time.Second
	hideRecheckEvery = time.Second
	powerOffBurst    = 10
	powerOffSpacing  = 10 * time.Millisecond
	wakePause        = 50 * time.Millisecond
)

type stateID int

const (
	stateInitBus stateID = iota
	stateInitHID
	stateScanning
	stateOpening
	stateActive
	stateShutdown
)

func (s stateID) String() string {
	switch s {
	case stateInitBus:
		return "InitBus"
	case stateInitHID:
		return "InitHID"
	case stateScanning:
		return "Scanning"
	case stateOpening:
		return "Opening"
	case stateActive:
		return "Active"
	case stateShutdown:
		return "Shutdown"
	}
	return "Unknown"
}

// Worker runs the whole device lifecycle on one goroutine.
type Worker struct {
	sys    hidio.System
	sink   output.Sink
	hide   *hidhide.Client
	ctrl   *Control
	logger *slog.Logger
	raw    log.RawLogger

	cand     hidio.Candidate
	dev      hidio.Device
	instance string
}

func NewWorker(sys hidio.System, sink output.Sink, hide *hidhide.Client, ctrl *Control, logger *slog.Logger, raw log.RawLogger) *Worker {
	return &Worker{
		sys:    sys,
		sink:   sink,
		hide:   hide,
		ctrl:   ctrl,
		logger: logger,
		raw:    raw,
	}
}

// Run drives the state machine until the context is cancelled or an exit is
// requested through the control block.
func (w *Worker) Run(ctx context.Context) error {
	st := stateInitBus
	emptyScans := 0
	tracker := &modeTracker{}

	for {
		if ctx.Err() != nil || w.ctrl.exiting() {
			st = stateShutdown
		}

		switch st {
		case stateInitBus:
			w.setStatus("Connecting to virtual bus")
			if err := w.sink.Connect(); err != nil {
				w.logger.Error("Virtual bus unavailable", "error", err)
				w.wait(ctx, retryDelay)
				continue
			}
			st = stateInitHID

		case stateInitHID:
			w.setStatus("Initializing HID")
			if err := w.sys.Init(); err != nil {
				w.logger.Error("HID init failed", "error", err)
				w.wait(ctx, retryDelay)
				continue
			}
			if err := w.hide.WhitelistSelf(); err != nil {
				w.logger.Warn("HidHide whitelist failed", "error", err)
			}
			emptyScans = 0
			st = stateScanning

		case stateScanning:
			if w.ctrl.Paused() {
				w.setStatus("Paused")
				w.wait(ctx, scanDelay)
				continue
			}
			w.setStatus("Scanning for controller")
			infos, err := w.sys.Enumerate(dualsense.VendorSony, 0)
			if err != nil {
				w.logger.Error("Enumeration failed", "error", err)
				w.wait(ctx, retryDelay)
				continue
			}
			cand, ok := hidio.PickCandidate(infos)
			if !ok {
				emptyScans++
				if emptyScans >= emptyScanLimit {
					// Stale enumeration state is the usual culprit when a
					// visibly connected pad never shows up.
					w.logger.Warn("No controller found, reinitializing HID")
					_ = w.sys.Exit()
					st = stateInitHID
					continue
				}
				w.wait(ctx, scanDelay)
				continue
			}
			emptyScans = 0
			w.cand = cand
			tracker.resetConnection()
			st = stateOpening

		case stateOpening:
			w.setStatus("Opening controller")
			// Cloak before open so no other process grabs the handle
			// in between.
			w.instance = hidhide.PathToInstanceID(w.cand.Info.Path)
			if err := w.hide.Hide(w.instance); err != nil {
				w.logger.Warn("Cloaking failed", "error", err)
			}
			dev, err := w.sys.Open(w.cand.Info.Path)
			if err != nil {
				w.logger.Error("Open failed", "path", w.cand.Info.Path, "error", err)
				_ = w.hide.Unhide(w.instance)
				w.wait(ctx, cooldownDelay)
				st = stateScanning
				continue
			}
			w.dev = dev
			w.logger.Info("Controller opened",
				"product", w.cand.Info.Product,
				"serial", w.cand.Info.Serial,
				"mode", w.cand.Mode.String())
			st = stateActive

		case stateActive:
			next := w.runActive(ctx, tracker)
			_ = w.dev.Close()
			w.dev = nil
			_ = w.sink.UnplugPad()
			_ = w.hide.Unhide(w.instance)
			if next == stateScanning {
				w.setStatus("Disconnected")
				w.wait(ctx, cooldownDelay)
			}
			st = next

		case stateShutdown:
			w.setStatus("Shutting down")
			if w.dev != nil {
				_ = w.dev.Close()
			}
			_ = w.sink.UnplugPad()
			_ = w.sink.Close()
			w.hide.UnhideAll()
			_ = w.sys.Exit()
			return ctx.Err()
		}
	}
}

// wait sleeps in small slices so exit and refresh requests cut it short.
func (w *Worker) wait(ctx context.Context, d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil || w.ctrl.exiting() {
			return
		}
		if w.ctrl.takeCommands().Refresh {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (w *Worker) setStatus(text string) {
	w.ctrl.publish(Status{Text: text, Time: time.Now()})
}

func (w *Worker) isDualSense() bool {
	return w.cand.Info.ProductID == dualsense.ProductID
}

func (w *Worker) decode(report []byte, bluetooth bool) *protocol.State {
	if w.isDualSense() {
		return dualsense.Decode(report, bluetooth)
	}
	return dualshock4.Decode(report)
}

// currentMode refines the transport guess with the observed report ID.
func (w *Worker) currentMode(reportID byte, bluetooth bool) protocol.Mode {
	if !w.isDualSense() {
		if bluetooth {
			return protocol.ModeDS4BT
		}
		return protocol.ModeDS4USB
	}
	if !bluetooth {
		return protocol.ModeUSBNative
	}
	if reportID == dualsense.ReportIDBTNative {
		return protocol.ModeBTNative
	}
	return protocol.ModeBTSimple
}

// activeSession is the per-connection scratch state of the burst loop.
type activeSession struct {
	engine *mapping.Engine
	disp   *output.Dispatcher
	table  mapping.Table

	mapGen uint64
	outGen uint64

	outSet      dualsense.OutputSettings
	batteryLEDs bool
	periodicOut bool

	seq  uint8
	mode protocol.Mode

	lastState   *protocol.State
	lastReport  []byte
	lastPad     mapping.Frame
	padEverSent bool
	plugged     bool
	woken       bool

	probe Probe

	lastTick      time.Time
	lastSnapshot  time.Time
	lastKeepalive time.Time
	lastHousekeep time.Time
	lastLED       time.Time
	lastHideCheck time.Time
	lastPublished Status

	lastWriteOK  bool
	lastWriteHex string
	statusText   string
}

func (a *activeSession) nextSeq() uint8 {
	s := a.seq
	a.seq = (a.seq + 1) & 0x0F
	return s
}

// runActive is the burst loop. It returns the state to enter after teardown.
func (w *Worker) runActive(ctx context.Context, tracker *modeTracker) stateID {
	bluetooth := w.cand.Mode.Bluetooth()

	if w.isDualSense() && bluetooth {
		w.activateEnhancedMode()
	}

	a := &activeSession{
		engine:     mapping.NewEngine(mapping.Tunables{}),
		disp:       output.NewDispatcher(w.sink),
		mode:       w.cand.Mode,
		statusText: "Active",
	}
	defer a.disp.Reset()

	readBuf := make([]byte, 128)
	drainBuf := make([]byte, 128)

	for {
		if ctx.Err() != nil || w.ctrl.exiting() {
			if tracker.safeToSend() {
				w.resetControllerOutput(a, bluetooth)
			}
			return stateShutdown
		}

		if tbl, tun, ok := w.ctrl.syncMapping(&a.mapGen); ok {
			a.table = tbl
			a.engine.SetTunables(tun)
		}

		n, err := w.dev.ReadWithTimeout(readBuf, readTimeout)
		if err != nil {
			w.logger.Info("Read failed, treating as disconnect", "error", err)
			return stateScanning
		}

		now := time.Now()
		dt := readTimeout.Seconds()
		if !a.lastTick.IsZero() {
			dt = now.Sub(a.lastTick).Seconds()
			if dt > 0.1 {
				dt = 0.1
			}
		}
		a.lastTick = now

		if n > 0 {
			report := readBuf[:n]
			w.raw.Log(true, report)
			if next, stop := w.handleReport(a, tracker, report, bluetooth); stop {
				return next
			}
			if next, stop := w.applyFrame(a, dt); stop {
				return next
			}

			// Drain queued reports to avoid input backlog. Every drained
			// frame is decoded and applied in arrival order; a press or
			// release living only in an intermediate frame must still reach
			// the virtual pad and the injectors.
			for i := 0; i < drainLimit; i++ {
				dn, derr := w.dev.ReadWithTimeout(drainBuf, 0)
				if derr != nil || dn == 0 {
					break
				}
				if next, stop := w.handleReport(a, tracker, drainBuf[:dn], bluetooth); stop {
					return next
				}
				if next, stop := w.applyFrame(a, 0); stop {
					return next
				}
			}
		} else if next, stop := w.applyFrame(a, dt); stop {
			// Timeout tick: re-drive the sink with the last state so
			// pointer/analog motion stays continuous between packets.
			return next
		}

		w.maybePublish(a, now)

		if now.Sub(a.lastHousekeep) >= housekeepGate {
			a.lastHousekeep = now
			if next, stop := w.housekeep(a, tracker, now, bluetooth); stop {
				return next
			}
		}
	}
}

// handleReport decodes one report and feeds the Bluetooth mode tracker.
// stop=true aborts the burst loop with the returned state.
func (w *Worker) handleReport(a *activeSession, tracker *modeTracker, report []byte, bluetooth bool) (stateID, bool) {
	st := w.decode(report, bluetooth)
	if st == nil {
		return 0, false
	}

	a.mode = w.currentMode(report[0], bluetooth)

	if w.isDualSense() && bluetooth {
		switch tracker.observe(a.mode == protocol.ModeBTNative) {
		case recoverReconnect:
			w.logger.Warn("Controller stuck in basic-HID mode, forcing reconnect")
			w.powerOffDevice(a, bluetooth)
			return stateScanning, true
		case recoverFailed:
			w.logger.Error("Controller stuck in basic-HID mode after forced reconnect, giving up")
			a.statusText = "Stuck in basic mode"
		}
	}

	if !a.plugged {
		if err := w.sink.PlugPad(); err != nil {
			w.logger.Error("Virtual pad plug failed", "error", err)
			return stateScanning, true
		}
		a.plugged = true
	}
	a.lastState = st
	a.lastReport = append(a.lastReport[:0], report...)
	return 0, false
}

// applyFrame runs one engine tick over the last decoded state and pushes the
// result to the sink. dt is zero for drained backlog frames, which arrive in
// the same instant as the read that uncovered them.
func (w *Worker) applyFrame(a *activeSession, dt float64) (stateID, bool) {
	if a.lastState == nil {
		return 0, false
	}
	frame := a.engine.Tick(a.lastState, a.table, dt)
	padChanged := !a.padEverSent || frame.Pad != a.lastPad.Pad
	if err := a.disp.Apply(frame, padChanged); err != nil {
		w.logger.Error("Virtual pad update failed", "error", err)
		return stateScanning, true
	}
	a.lastPad = frame
	a.padEverSent = true
	return 0, false
}

// housekeep runs the ~1 ms-gated block: command drain, LED refresh, probes
// and the cloaking recheck.
func (w *Worker) housekeep(a *activeSession, tracker *modeTracker, now time.Time, bluetooth bool) (stateID, bool) {
	cmds := w.ctrl.takeCommands()

	outSet, batteryLEDs, periodic, outChanged := w.ctrl.syncOutput(&a.outGen)
	a.outSet = outSet
	a.batteryLEDs = batteryLEDs
	a.periodicOut = periodic

	switch {
	case cmds.Refresh:
		w.logger.Info("Refresh requested")
		return stateScanning, true
	case cmds.PowerOff:
		w.logger.Info("Power-off requested")
		if w.powerOffDevice(a, bluetooth) {
			return stateScanning, true
		}
	case cmds.Reconnect:
		w.logger.Info("Reconnect requested")
		w.powerOffDevice(a, bluetooth)
		return stateScanning, true
	}

	if cmds.DiagSweep {
		a.probe = NewSweepProbe()
	}
	if cmds.DiagPinpoint {
		// Lightbar red on the USB layout; shifted by one over Bluetooth.
		a.probe = NewPinpointProbe(45, 0xFF)
	}

	// While the controller is emitting basic-HID frames a native output
	// report can wedge the firmware, so sends are withheld until the mode
	// settles.
	if w.isDualSense() && tracker.safeToSend() {
		ledDue := a.periodicOut && now.Sub(a.lastLED) >= ledRefreshEvery
		if cmds.SendOutput || outChanged || ledDue || a.lastLED.IsZero() {
			w.sendOutputFrame(a, bluetooth)
			a.lastLED = now
		}
	}

	if a.probe != nil {
		done, err := a.probe.Step(w.dev, bluetooth, a.nextSeq)
		if err != nil {
			w.logger.Warn("Probe write failed", "probe", a.probe.Name(), "error", err)
		}
		if done || err != nil {
			a.probe = nil
		}
	}

	if now.Sub(a.lastHideCheck) >= hideRecheckEvery {
		a.lastHideCheck = now
		if err := w.hide.Hide(w.instance); err != nil {
			w.logger.Warn("Cloak recheck failed", "error", err)
		}
	}

	return 0, false
}

// activateEnhancedMode reads the serial feature report, which flips Bluetooth
// DualSense firmware into the full 0x31 report format. Failure leaves the
// controller in basic-HID mode but the session still works.
func (w *Worker) activateEnhancedMode() {
	buf := make([]byte, 64)
	buf[0] = dualsense.FeatureSerial
	if _, err := w.dev.GetFeatureReport(buf); err == nil {
		w.logger.Debug("Enhanced mode activated", "feature", dualsense.FeatureSerial)
		return
	}
	buf = make([]byte, 64)
	buf[0] = dualsense.FeatureFirmware
	if _, err := w.dev.GetFeatureReport(buf); err != nil {
		w.logger.Warn("Enhanced mode activation failed, telemetry degraded", "error", err)
		return
	}
	w.logger.Debug("Enhanced mode activated", "feature", dualsense.FeatureFirmware)
}

// sendOutputFrame pushes the current LED/trigger settings, preceded by the
// one-time wake frame the firmware needs after (re)connect.
func (w *Worker) sendOutputFrame(a *activeSession, bluetooth bool) {
	set := a.outSet
	if a.batteryLEDs && a.lastState != nil {
		set.PlayerLEDs = dualsense.BatteryLEDMask(a.lastState.Battery)
	}

	if !a.woken {
		if bluetooth {
			w.writeOutput(a, dualsense.BuildWakeupBT(a.nextSeq()))
		} else {
			w.writeOutput(a, dualsense.BuildWakeupUSB(set))
		}
		// The firmware needs a beat to process the wake-up before it
		// accepts the follow-up LED frame, on both transports.
		time.Sleep(wakePause)
		a.woken = true
	}

	w.writeOutput(a, dualsense.BuildOutput(bluetooth, set, a.nextSeq()))
}

func (w *Worker) writeOutput(a *activeSession, frame []byte) {
	w.raw.Log(false, frame)
	_, err := w.dev.Write(frame)
	a.lastWriteOK = err == nil
	a.lastWriteHex = hex.EncodeToString(frame)
	if err != nil {
		w.logger.Warn("Output write failed", "error", err)
	}
}

// powerOffDevice emits the disconnect frame burst used both for manual
// power-off and stuck-mode recovery. The burst is a Bluetooth 0x31 report;
// on USB or a DualShock 4 there is nothing valid to write, so the burst is
// skipped and false is returned.
func (w *Worker) powerOffDevice(a *activeSession, bluetooth bool) bool {
	if !w.isDualSense() || !bluetooth {
		w.logger.Info("Power-off needs a Bluetooth DualSense, ignoring")
		return false
	}
	for i := 0; i < powerOffBurst; i++ {
		w.writeOutput(a, dualsense.BuildPowerOff(a.nextSeq()))
		time.Sleep(powerOffSpacing)
	}
	return true
}

// resetControllerOutput restores a neutral blue lightbar and releases the
// triggers before shutdown.
func (w *Worker) resetControllerOutput(a *activeSession, bluetooth bool) {
	if !w.isDualSense() {
		return
	}
	neutral := dualsense.OutputSettings{
		Blue:       255,
		PlayerLEDs: dualsense.PlayerLEDCenter,
	}
	w.writeOutput(a, dualsense.BuildOutput(bluetooth, neutral, a.nextSeq()))
}

// maybePublish emits a status snapshot at ~30 Hz, skipping unchanged content
// unless the keep-alive interval elapsed.
func (w *Worker) maybePublish(a *activeSession, now time.Time) {
	if now.Sub(a.lastSnapshot) < snapshotInterval {
		return
	}
	a.lastSnapshot = now

	st := Status{
		Text:         a.statusText,
		Device:       w.cand.Info.Product,
		Serial:       w.cand.Info.Serial,
		Mode:         a.mode,
		Pad:          a.lastPad.Pad,
		LastWriteOK:  a.lastWriteOK,
		LastWriteHex: a.lastWriteHex,
		Time:         now,
	}
	if a.lastState != nil {
		st.Battery = a.lastState.Battery
		st.Charging = a.lastState.Charging
		st.RawReport = append([]byte(nil), a.lastReport...)
	}

	if statusEqual(st, a.lastPublished) && now.Sub(a.lastKeepalive) < keepaliveEvery {
		return
	}
	a.lastKeepalive = now
	a.lastPublished = st
	w.ctrl.publish(st)
}

// statusEqual compares the content of two snapshots, ignoring timestamps.
func statusEqual(a, b Status) bool {
	return a.Text == b.Text &&
		a.Device == b.Device &&
		a.Serial == b.Serial &&
		a.Mode == b.Mode &&
		a.Battery == b.Battery &&
		a.Charging == b.Charging &&
		a.Pad == b.Pad &&
		a.LastWriteOK == b.LastWriteOK &&
		a.LastWriteHex == b.LastWriteHex &&
		bytes.Equal(a.RawReport, b.RawReport)
}

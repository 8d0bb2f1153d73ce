package session

// stuckFrameThreshold is the number of consecutive basic-HID frames over
// Bluetooth after which the controller is assumed stuck in its default
// report mode.
const stuckFrameThreshold = 200

type recovery int

const (
	recoverNone recovery = iota
	// recoverReconnect requests the single automatic power-off/rescan cycle.
	recoverReconnect
	// recoverFailed means the controller got stuck again after the one
	// allowed reconnect; no further automatic recovery is attempted.
	recoverFailed
)

// modeTracker watches the stream of decoded frame formats on a Bluetooth
// DualSense and decides when to trigger the stuck-mode recovery. It persists
// across reconnects within one scanning cycle so the one-reconnect budget
// holds.
type modeTracker struct {
	simpleCount int
	sawNative   bool
	reconnected bool
	failed      bool
}

// observe records one decoded frame. native is true for enhanced (0x31)
// frames. The returned recovery action fires at most once per threshold
// crossing.
func (t *modeTracker) observe(native bool) recovery {
	if native {
		// Confirmed native frames restore the reconnect budget so a later,
		// unrelated stall gets a fresh recovery attempt.
		t.simpleCount = 0
		t.sawNative = true
		t.reconnected = false
		t.failed = false
		return recoverNone
	}
	if t.sawNative || t.failed {
		return recoverNone
	}
	t.simpleCount++
	if t.simpleCount <= stuckFrameThreshold {
		return recoverNone
	}
	t.simpleCount = 0
	if t.reconnected {
		t.failed = true
		return recoverFailed
	}
	t.reconnected = true
	return recoverReconnect
}

// permanentlyFailed reports whether automatic recovery has been given up on.
func (t *modeTracker) permanentlyFailed() bool {
	return t.failed
}

// safeToSend reports whether native output frames may be written. A
// controller mid-stream of basic-HID frames can be wedged by one.
func (t *modeTracker) safeToSend() bool {
	return t.simpleCount == 0
}

// resetConnection clears per-connection counters but keeps the reconnect
// budget and failure latch.
func (t *modeTracker) resetConnection() {
	t.simpleCount = 0
	t.sawNative = false
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeTrackerTriggersAfterThreshold(t *testing.T) {
	tr := &modeTracker{}

	for i := 0; i < stuckFrameThreshold; i++ {
		assert.Equal(t, recoverNone, tr.observe(false))
	}
	// The frame after the threshold fires the one allowed reconnect.
	assert.Equal(t, recoverReconnect, tr.observe(false))
}

func TestModeTrackerFailsAfterSecondStall(t *testing.T) {
	tr := &modeTracker{}

	for i := 0; i < stuckFrameThreshold; i++ {
		tr.observe(false)
	}
	assert.Equal(t, recoverReconnect, tr.observe(false))
	tr.resetConnection()

	for i := 0; i < stuckFrameThreshold; i++ {
		assert.Equal(t, recoverNone, tr.observe(false))
	}
	assert.Equal(t, recoverFailed, tr.observe(false))
	assert.True(t, tr.permanentlyFailed())

	// Once failed, no further recovery attempts.
	for i := 0; i < 3*stuckFrameThreshold; i++ {
		assert.Equal(t, recoverNone, tr.observe(false))
	}
}

func TestModeTrackerNativeLatch(t *testing.T) {
	tr := &modeTracker{}

	for i := 0; i < stuckFrameThreshold-1; i++ {
		tr.observe(false)
	}
	assert.Equal(t, recoverNone, tr.observe(true))

	// After a native frame the counter never fires again this connection.
	for i := 0; i < 3*stuckFrameThreshold; i++ {
		assert.Equal(t, recoverNone, tr.observe(false))
	}
}

func TestModeTrackerNativeRestoresBudget(t *testing.T) {
	tr := &modeTracker{}

	// First stall spends the reconnect budget.
	for i := 0; i < stuckFrameThreshold; i++ {
		tr.observe(false)
	}
	assert.Equal(t, recoverReconnect, tr.observe(false))
	tr.resetConnection()

	// The controller comes back in native mode: the budget is restored.
	tr.observe(true)
	tr.resetConnection()

	// A later, unrelated stall gets a fresh reconnect rather than a failure.
	for i := 0; i < stuckFrameThreshold; i++ {
		assert.Equal(t, recoverNone, tr.observe(false))
	}
	assert.Equal(t, recoverReconnect, tr.observe(false))
	assert.False(t, tr.permanentlyFailed())
}

func TestModeTrackerSafeToSend(t *testing.T) {
	tr := &modeTracker{}
	assert.True(t, tr.safeToSend())

	// One basic-HID frame is enough to withhold native output.
	tr.observe(false)
	assert.False(t, tr.safeToSend())

	tr.observe(true)
	assert.True(t, tr.safeToSend())
}

func TestModeTrackerResetConnectionKeepsBudget(t *testing.T) {
	tr := &modeTracker{}
	for i := 0; i <= stuckFrameThreshold; i++ {
		tr.observe(false)
	}
	assert.True(t, tr.reconnected)

	tr.resetConnection()
	assert.True(t, tr.reconnected)
	assert.False(t, tr.sawNative)
	assert.Zero(t, tr.simpleCount)
}

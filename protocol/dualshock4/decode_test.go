package dualshock4_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantukin/dx3/protocol/dualshock4"
)

func usbReport() []byte {
	report := make([]byte, 64)
	report[0] = 0x01
	report[1] = 128 // LX
	report[2] = 128 // LY
	report[3] = 128 // RX
	report[4] = 128 // RY
	report[5] = 0x08 // dpad centered
	return report
}

func TestDecodeUSB(t *testing.T) {
	report := usbReport()
	report[5] = 0x28  // Cross, dpad centered
	report[6] = 0x30  // Share and Options
	report[7] = 0x02  // touchpad click
	report[8] = 0x80  // L2 half
	report[12] = 0x18 // battery level 8, charging

	s := dualshock4.Decode(report)
	require.NotNil(t, s)

	assert.True(t, s.Cross)
	assert.False(t, s.DpadUp)
	assert.True(t, s.Share)
	assert.True(t, s.Options)
	assert.True(t, s.TouchpadClick)
	assert.InDelta(t, 0.5, s.L2, 0.01)
	assert.Equal(t, uint8(80), s.Battery)
	assert.True(t, s.Charging)
}

func TestDecodeBTOffsetShift(t *testing.T) {
	// The 0x11 report wraps the same payload two bytes deeper.
	report := make([]byte, 64)
	report[0] = 0x11
	report[3] = 200 // LX
	report[4] = 128
	report[5] = 128
	report[6] = 128
	report[7] = 0x48 // Circle, dpad centered

	s := dualshock4.Decode(report)
	require.NotNil(t, s)

	assert.InDelta(t, 0.56, s.LeftX, 0.01)
	assert.True(t, s.Circle)
	assert.False(t, s.Cross)
}

func TestDecodeRejectsUnknown(t *testing.T) {
	assert.Nil(t, dualshock4.Decode(nil))
	assert.Nil(t, dualshock4.Decode([]byte{0x05, 0x00}))
	// Truncated USB report.
	assert.Nil(t, dualshock4.Decode([]byte{0x01, 128, 128}))
}

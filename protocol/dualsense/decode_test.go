package dualsense_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantukin/dx3/protocol/dualsense"
)

func neutralUSBReport() []byte {
	report := make([]byte, 64)
	report[0] = 0x01
	report[1] = 128 // LX
	report[2] = 128 // LY
	report[3] = 128 // RX
	report[4] = 128 // RY
	report[8] = 0x08 // dpad centered
	return report
}

func TestDecodeUSBNeutral(t *testing.T) {
	report := neutralUSBReport()
	report[53] = 0x05 // battery level 5, not charging

	s := dualsense.Decode(report, false)
	require.NotNil(t, s)

	assert.Equal(t, 0.0, s.LeftX)
	assert.Equal(t, 0.0, s.LeftY)
	assert.Equal(t, 0.0, s.RightX)
	assert.Equal(t, 0.0, s.RightY)
	assert.Equal(t, 0.0, s.L2)
	assert.Equal(t, 0.0, s.R2)
	assert.False(t, s.Cross)
	assert.False(t, s.DpadUp)
	assert.False(t, s.DpadDown)
	assert.False(t, s.TouchActive)
	assert.Equal(t, uint8(50), s.Battery)
	assert.False(t, s.Charging)
}

func TestDecodeUSBButtonsAndDpadDiagonal(t *testing.T) {
	report := neutralUSBReport()
	report[8] = 0x21  // Cross pressed, dpad up-right
	report[9] = 0x41  // L1 and L3
	report[10] = 0x02 // touchpad click
	report[5] = 0xFF  // L2 full

	s := dualsense.Decode(report, false)
	require.NotNil(t, s)

	assert.True(t, s.Cross)
	assert.False(t, s.Circle)
	assert.True(t, s.DpadUp)
	assert.True(t, s.DpadRight)
	assert.False(t, s.DpadDown)
	assert.True(t, s.L1)
	assert.True(t, s.L3)
	assert.True(t, s.TouchpadClick)
	assert.Equal(t, 1.0, s.L2)
}

func TestDecodeBTNativeTouchAndBattery(t *testing.T) {
	report := make([]byte, 78)
	report[0] = 0x31
	report[2] = 128
	report[3] = 128
	report[4] = 128
	report[5] = 128
	report[9] = 0x08

	// Touch contact: id bit 7 clear, X=564, Y=1653 packed over three bytes.
	report[34] = 0x00
	report[35] = 0x34
	report[36] = 0x52
	report[37] = 0x67

	report[54] = 0x15 // level 5, status nibble 1 = charging

	s := dualsense.Decode(report, true)
	require.NotNil(t, s)

	assert.True(t, s.TouchActive)
	assert.Equal(t, uint16(564), s.TouchX)
	assert.Equal(t, uint16(1653), s.TouchY)
	assert.Equal(t, uint8(50), s.Battery)
	assert.True(t, s.Charging)
}

func TestDecodeBTNativeNoTouch(t *testing.T) {
	report := make([]byte, 78)
	report[0] = 0x31
	report[9] = 0x08
	report[34] = 0x80 // no contact

	s := dualsense.Decode(report, true)
	require.NotNil(t, s)
	assert.False(t, s.TouchActive)
}

func TestDecodeSimpleDigitalTriggers(t *testing.T) {
	report := []byte{0x01, 128, 128, 128, 128, 0x48, 0x0C, 0x01, 0x00, 0x00}

	s := dualsense.Decode(report, true)
	require.NotNil(t, s)

	assert.True(t, s.Circle)
	assert.False(t, s.DpadUp)
	// Basic-HID reports carry triggers as on/off bits only.
	assert.Equal(t, 1.0, s.L2)
	assert.Equal(t, 1.0, s.R2)
	assert.True(t, s.PS)
}

func TestDecodeUnknownReport(t *testing.T) {
	assert.Nil(t, dualsense.Decode([]byte{0x77, 0x00, 0x00}, true))
	assert.Nil(t, dualsense.Decode(nil, false))
}

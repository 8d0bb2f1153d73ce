package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantukin/dx3/protocol"
)

func TestNormalizeAxis(t *testing.T) {
	assert.Equal(t, 0.0, protocol.NormalizeAxis(128))
	assert.Equal(t, -1.0, protocol.NormalizeAxis(0))
	assert.InDelta(t, 0.99, protocol.NormalizeAxis(255), 0.01)
}

func TestNormalizeTrigger(t *testing.T) {
	assert.Equal(t, 0.0, protocol.NormalizeTrigger(0))
	assert.Equal(t, 1.0, protocol.NormalizeTrigger(255))
}

func TestDecodeDpad(t *testing.T) {
	type testCase struct {
		name    string
		nibble  byte
		up      bool
		down    bool
		left    bool
		right   bool
	}

	cases := []testCase{
		{name: "up", nibble: 0, up: true},
		{name: "up-right diagonal", nibble: 1, up: true, right: true},
		{name: "right", nibble: 2, right: true},
		{name: "down-right diagonal", nibble: 3, down: true, right: true},
		{name: "down", nibble: 4, down: true},
		{name: "down-left diagonal", nibble: 5, down: true, left: true},
		{name: "left", nibble: 6, left: true},
		{name: "up-left diagonal", nibble: 7, up: true, left: true},
		{name: "centered", nibble: protocol.DpadCentered},
		{name: "high bits ignored", nibble: 0xF2, right: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			up, down, left, right := protocol.DecodeDpad(tc.nibble)
			assert.Equal(t, tc.up, up)
			assert.Equal(t, tc.down, down)
			assert.Equal(t, tc.left, left)
			assert.Equal(t, tc.right, right)
		})
	}
}

func TestBatteryPercent(t *testing.T) {
	assert.Equal(t, uint8(0), protocol.BatteryPercent(0))
	assert.Equal(t, uint8(50), protocol.BatteryPercent(5))
	assert.Equal(t, uint8(100), protocol.BatteryPercent(10))
	// Values above 10 cap at 100 instead of overflowing.
	assert.Equal(t, uint8(100), protocol.BatteryPercent(15))
}

func TestModeBluetooth(t *testing.T) {
	assert.True(t, protocol.ModeBTNative.Bluetooth())
	assert.True(t, protocol.ModeBTSimple.Bluetooth())
	assert.True(t, protocol.ModeDS4BT.Bluetooth())
	assert.False(t, protocol.ModeUSBNative.Bluetooth())
	assert.False(t, protocol.ModeDS4USB.Bluetooth())
}

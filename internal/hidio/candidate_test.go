package hidio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantukin/dx3/internal/hidio"
	"github.com/mantukin/dx3/protocol"
	"github.com/mantukin/dx3/protocol/dualsense"
	"github.com/mantukin/dx3/protocol/dualshock4"
)

func dsInfo(path string, usagePage, usage uint16, iface int) hidio.DeviceInfo {
	return hidio.DeviceInfo{
		Path:      path,
		VendorID:  dualsense.VendorSony,
		ProductID: dualsense.ProductID,
		UsagePage: usagePage,
		Usage:     usage,
		Interface: iface,
	}
}

func TestPickCandidateGamepadUsageWins(t *testing.T) {
	infos := []hidio.DeviceInfo{
		dsInfo("fallback", 0, 0, 0),
		dsInfo("gamepad", 0x0001, 0x0005, 0),
	}

	cand, ok := hidio.PickCandidate(infos)
	require.True(t, ok)
	assert.Equal(t, "gamepad", cand.Info.Path)
	assert.Equal(t, protocol.ModeUSBNative, cand.Mode)
}

func TestPickCandidateUsageZeroFallback(t *testing.T) {
	infos := []hidio.DeviceInfo{
		dsInfo("first", 0, 0, 0),
		dsInfo("second", 0, 0, 0),
	}

	cand, ok := hidio.PickCandidate(infos)
	require.True(t, ok)
	assert.Equal(t, "first", cand.Info.Path)
}

func TestPickCandidateFallbackNeedsEmptyUsagePage(t *testing.T) {
	// Platforms that report no usage page at all still qualify as a fallback,
	// even when a usage value is present.
	infos := []hidio.DeviceInfo{dsInfo("bare", 0, 0x0001, -1)}
	cand, ok := hidio.PickCandidate(infos)
	require.True(t, ok)
	assert.Equal(t, "bare", cand.Info.Path)

	// A populated vendor usage page is a different interface, not a fallback.
	infos = []hidio.DeviceInfo{dsInfo("vendor", 0xFF00, 0, 0)}
	_, ok = hidio.PickCandidate(infos)
	assert.False(t, ok)
}

func TestPickCandidateSkipsUnsupported(t *testing.T) {
	tests := []struct {
		name string
		info hidio.DeviceInfo
	}{
		{
			name: "wrong vendor",
			info: hidio.DeviceInfo{Path: "x", VendorID: 0x045E, ProductID: 0x028E, UsagePage: 0x0001, Usage: 0x0005},
		},
		{
			name: "unsupported sony product",
			info: hidio.DeviceInfo{Path: "x", VendorID: dualsense.VendorSony, ProductID: 0x0BA0, UsagePage: 0x0001, Usage: 0x0005},
		},
		{
			name: "keyboard usage no fallback",
			info: dsInfo("x", 0x0001, 0x0006, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := hidio.PickCandidate([]hidio.DeviceInfo{tt.info})
			assert.False(t, ok)
		})
	}
}

func TestPickCandidateNone(t *testing.T) {
	_, ok := hidio.PickCandidate(nil)
	assert.False(t, ok)
}

func TestPickCandidateModeGuess(t *testing.T) {
	tests := []struct {
		name string
		info hidio.DeviceInfo
		want protocol.Mode
	}{
		{
			name: "dualsense usb",
			info: dsInfo("p", 0x0001, 0x0005, 0),
			want: protocol.ModeUSBNative,
		},
		{
			// Bluetooth instances carry no USB interface number; the codec
			// upgrades the guess once a native report arrives.
			name: "dualsense bluetooth",
			info: dsInfo("p", 0x0001, 0x0005, -1),
			want: protocol.ModeBTSimple,
		},
		{
			name: "dualshock4 usb",
			info: hidio.DeviceInfo{
				Path: "p", VendorID: dualsense.VendorSony, ProductID: dualshock4.ProductIDv2,
				UsagePage: 0x0001, Usage: 0x0005, Interface: 0,
			},
			want: protocol.ModeDS4USB,
		},
		{
			name: "dualshock4 bluetooth",
			info: hidio.DeviceInfo{
				Path: "p", VendorID: dualsense.VendorSony, ProductID: dualshock4.ProductIDv1,
				UsagePage: 0x0001, Usage: 0x0005, Interface: -1,
			},
			want: protocol.ModeDS4BT,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand, ok := hidio.PickCandidate([]hidio.DeviceInfo{tt.info})
			require.True(t, ok)
			assert.Equal(t, tt.want, cand.Mode)
		})
	}
}

// Package protocol defines the canonical controller state produced by the
// transport codecs and consumed by the remapping engine, plus the helpers
// shared between the DualSense and DualShock 4 report parsers.
package protocol

// Mode identifies the transport/report-format combination a physical
// controller is currently speaking. It is derived from observed report IDs,
// never declared by the device.
type Mode int

const (
	ModeUnknown Mode = iota
	// ModeUSBNative is a DualSense on USB emitting full 0x01 reports.
	ModeUSBNative
	// ModeBTNative is a DualSense on Bluetooth emitting 0x31 reports.
	ModeBTNative
	// ModeBTSimple is a DualSense on Bluetooth stuck in the default
	// basic-HID format (0x01 reports without telemetry).
	ModeBTSimple
	ModeDS4USB
	ModeDS4BT
)

func (m Mode) String() string {
	switch m {
	case ModeUSBNative:
		return "Native (USB 0x01)"
	case ModeBTNative:
		return "Native (BT 0x31)"
	case ModeBTSimple:
		return "Simple (BT 0x01)"
	case ModeDS4USB:
		return "DS4 (USB 0x01)"
	case ModeDS4BT:
		return "DS4 (BT 0x11)"
	}
	return "Unknown"
}

// Bluetooth reports whether the mode rides on the Bluetooth transport.
func (m Mode) Bluetooth() bool {
	return m == ModeBTNative || m == ModeBTSimple || m == ModeDS4BT
}

// State is a normalized snapshot of the physical pad. Sticks are in [-1,1],
// triggers in [0,1], touch coordinates are the raw 12-bit values and battery
// is a percentage rounded to the nearest 10.
type State struct {
	LeftX, LeftY   float64
	RightX, RightY float64
	L2, R2         float64

	Cross, Circle, Square, Triangle bool
	L1, R1, L3, R3                  bool
	Options, Share, PS              bool
	DpadUp, DpadDown                bool
	DpadLeft, DpadRight             bool
	TouchpadClick, Mute             bool

	TouchX, TouchY uint16
	TouchActive    bool

	Battery  uint8
	Charging bool
}

// NormalizeAxis maps a raw unsigned stick byte to [-1,1] with 128 at center.
func NormalizeAxis(v byte) float64 {
	return (float64(v) - 128) / 128
}

// NormalizeTrigger maps a raw unsigned trigger byte to [0,1].
func NormalizeTrigger(v byte) float64 {
	return float64(v) / 255
}

// DpadCentered is the hat nibble value meaning no direction is pressed.
const DpadCentered = 8

// DecodeDpad expands the 8-way hat nibble into the four cardinal flags.
// Values 0-7 run clockwise starting at Up; diagonals set two flags.
func DecodeDpad(nibble byte) (up, down, left, right bool) {
	switch nibble & 0x0F {
	case 0:
		up = true
	case 1:
		up, right = true, true
	case 2:
		right = true
	case 3:
		right, down = true, true
	case 4:
		down = true
	case 5:
		down, left = true, true
	case 6:
		left = true
	case 7:
		left, up = true, true
	}
	return
}

// BatteryPercent converts a raw 0-10 battery level nibble to a percentage
// rounded to the nearest 10 and capped at 100.
func BatteryPercent(level byte) uint8 {
	pct := uint16(level&0x0F) * 10
	if pct > 100 {
		pct = 100
	}
	return uint8(pct)
}

package dualshock4

// DualShock 4 product identifiers (first and second hardware revision).
const (
	ProductIDv1 = 0x05C4
	ProductIDv2 = 0x09CC
)

// Input report IDs. The Bluetooth report wraps the common payload behind two
// extra header bytes.
const (
	ReportIDUSB = 0x01
	ReportIDBT  = 0x11
)

const (
	usbPayloadOffset = 1
	btPayloadOffset  = 3
)

// Common payload layout, relative to the payload start.
const (
	offLX       = 0
	offLY       = 1
	offRX       = 2
	offRY       = 3
	offButtons1 = 4 // dpad nibble low, face buttons high
	offButtons2 = 5
	offButtons3 = 6 // PS, touchpad click
	offL2       = 7
	offR2       = 8
	offBattery  = 11
)

const (
	maskSquare   = 0x01
	maskCross    = 0x02
	maskCircle   = 0x04
	maskTriangle = 0x08

	maskL1      = 0x01
	maskR1      = 0x02
	maskShare   = 0x10
	maskOptions = 0x20
	maskL3      = 0x40
	maskR3      = 0x80

	maskPS       = 0x01
	maskTouchpad = 0x02

	batteryLevelMask = 0x0F
	chargingBit      = 0x10
)

package dualsense

// Sony vendor and DualSense product identifiers.
const (
	VendorSony = 0x054C
	ProductID  = 0x0CE6
)

// Input report IDs.
const (
	ReportIDSimple   = 0x01 // basic-HID input on BT, native input on USB
	ReportIDBTNative = 0x31 // enhanced-mode input/output on BT
)

// Output report IDs.
const (
	ReportIDOutputUSB = 0x02
	ReportIDOutputBT  = 0x31
)

// Output frame sizes. The Bluetooth frame is 74 payload bytes followed by a
// 4-byte little-endian CRC trailer.
const (
	OutputSizeUSB    = 64
	OutputSizeBT     = 78
	crcCoverageBT    = 74
	phantomHeaderVal = 0xA2
)

// Feature report IDs that flip a Bluetooth controller out of basic-HID mode
// into the enhanced (0x31) report format.
const (
	FeatureSerial   = 0x09
	FeatureFirmware = 0x20
)

// Simple (basic-HID) input layout. Offsets are relative to the whole report
// including the leading ID byte.
const (
	simpleOffLX      = 1
	simpleOffLY      = 2
	simpleOffRX      = 3
	simpleOffRY      = 4
	simpleOffButtons = 5 // dpad nibble low, face buttons high
	simpleOffMisc    = 6 // L1/R1/L2/R2 digital, Share, Options, L3, R3
	simpleOffExtra   = 7 // PS, touchpad click, mute
)

// USB native input layout.
const (
	usbOffLX       = 1
	usbOffLY       = 2
	usbOffRX       = 3
	usbOffRY       = 4
	usbOffL2       = 5
	usbOffR2       = 6
	usbOffButtons1 = 8
	usbOffButtons2 = 9
	usbOffButtons3 = 10
	usbOffBattery  = 53
)

// BT native (0x31) input layout. The trigger and touch byte positions were
// found empirically and are not guaranteed across firmware revisions.
const (
	btOffLX       = 2
	btOffLY       = 3
	btOffRX       = 4
	btOffRY       = 5
	btOffL2       = 6
	btOffR2       = 7
	btOffButtons1 = 9
	btOffButtons2 = 10
	btOffButtons3 = 11
	btOffTouchID  = 34 // bit 7 set means no contact
	btOffTouchXLo = 35
	btOffTouchMid = 36 // X high nibble low, Y low nibble high
	btOffTouchYHi = 37
	btOffBattery  = 54
	btOffPower    = 55
)

// Button bit positions shared by the native layouts.
const (
	maskSquare   = 0x01 // high nibble of the first button byte
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
	maskMute     = 0x04
)

const (
	touchInactiveBit = 0x80
	batteryLevelMask = 0x0F
	chargingBit      = 0x10
)

// Output frame offsets. The Bluetooth layout is the USB layout shifted by one
// byte to make room for the sequence/header byte at index 1.
const (
	outUSBOffFlags1     = 1
	outUSBOffFlags2     = 2
	outUSBOffR2         = 11
	outUSBOffL2         = 22
	outUSBOffPledFlags  = 39
	outUSBOffLightbar   = 42
	outUSBOffPledBright = 43
	outUSBOffPlayerLED  = 44
	outUSBOffRGB        = 45

	outBTOffSeq        = 1
	outBTOffFlags1     = 2
	outBTOffFlags2     = 3
	outBTOffRumbleL    = 4
	outBTOffRumbleR    = 5
	outBTOffR2         = 12
	outBTOffL2         = 23
	outBTOffPledFlags  = 40
	outBTOffLightbar   = 43
	outBTOffPledBright = 44
	outBTOffPlayerLED  = 45
	outBTOffRGB        = 46
)

// Output flag values.
const (
	btHeaderHID        = 0x02 // low nibble of byte 1; required for LED output
	btHeaderDisconnect = 0x40
	flagsAllFeatures   = 0xFF
	flagsTriggerLED    = 0xF7
	flagsLED           = 0x15
	pledBrightEnable   = 0x01
	lightbarEnable     = 0x02
	pledImmediate      = 0x20 // skip the fade-in animation
	wakeRumble         = 0x20
)

// PlayerLEDCenter is the default single-LED mask when the battery display is
// disabled.
const PlayerLEDCenter = 0x04

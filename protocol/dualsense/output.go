package dualsense

import "encoding/binary"

// TriggerEffect programs one adaptive trigger motor.
type TriggerEffect struct {
	Mode  uint8
	Start uint8
	Force uint8
}

// OutputSettings describes one LED/trigger output frame. RGB values are the
// final wire values; brightness scaling is applied by the caller before
// encoding (see ScaleRGB). PlayerLEDs is the raw mask, PlayerLEDBrightness is
// 0=high, 1=medium, 2=low.
type OutputSettings struct {
	Red, Green, Blue    uint8
	PlayerLEDs          uint8
	PlayerLEDBrightness uint8
	Left, Right         TriggerEffect
}

// BuildOutput encodes an LED/adaptive-trigger output frame. Bluetooth frames
// are 78 bytes with a CRC trailer; USB frames are 64 bytes. seq is the
// rolling Bluetooth sequence counter and is ignored on USB.
func BuildOutput(bluetooth bool, s OutputSettings, seq uint8) []byte {
	if bluetooth {
		report := make([]byte, OutputSizeBT)
		report[0] = ReportIDOutputBT
		// The 0x02 low nibble marks an HID output; without it the
		// firmware ignores the LED payload.
		report[outBTOffSeq] = seq<<4 | btHeaderHID
		report[outBTOffFlags1] = flagsAllFeatures
		report[outBTOffFlags2] = flagsLED
		report[outBTOffRumbleL] = 0
		report[outBTOffRumbleR] = 0
		writeOutputBody(report, s, outBTOffR2, outBTOffL2, outBTOffPledFlags, outBTOffLightbar, outBTOffPledBright, outBTOffPlayerLED, outBTOffRGB)
		return AppendCRC(report)
	}

	report := make([]byte, OutputSizeUSB)
	report[0] = ReportIDOutputUSB
	report[outUSBOffFlags1] = flagsTriggerLED
	report[outUSBOffFlags2] = flagsLED
	writeOutputBody(report, s, outUSBOffR2, outUSBOffL2, outUSBOffPledFlags, outUSBOffLightbar, outUSBOffPledBright, outUSBOffPlayerLED, outUSBOffRGB)
	return report
}

func writeOutputBody(report []byte, s OutputSettings, offR2, offL2, offPledFlags, offLightbar, offPledBright, offPled, offRGB int) {
	report[offR2] = s.Right.Mode
	report[offR2+1] = s.Right.Start
	report[offR2+2] = s.Right.Force

	report[offL2] = s.Left.Mode
	report[offL2+1] = s.Left.Start
	report[offL2+2] = s.Left.Force

	report[offPledFlags] = pledBrightEnable
	report[offLightbar] = lightbarEnable
	report[offPledBright] = s.PlayerLEDBrightness
	report[offPled] = s.PlayerLEDs | pledImmediate
	report[offRGB] = s.Red
	report[offRGB+1] = s.Green
	report[offRGB+2] = s.Blue
}

// AppendCRC fills in the 4-byte little-endian CRC trailer of a Bluetooth
// output frame. The frame must already be OutputSizeBT bytes long.
func AppendCRC(report []byte) []byte {
	sum := CRC32BT(report[:crcCoverageBT])
	binary.LittleEndian.PutUint32(report[crcCoverageBT:], sum)
	return report
}

// BuildWakeupBT builds the Bluetooth wake-up frame with the activation flag
// bytes 2-4 all set to 0xFF. The firmware ignores LED/trigger commands after
// (re)connect until jolted by this frame.
func BuildWakeupBT(seq uint8) []byte {
	report := make([]byte, OutputSizeBT)
	report[0] = ReportIDOutputBT
	report[outBTOffSeq] = seq<<4 | btHeaderHID
	report[outBTOffFlags1] = 0xFF
	report[outBTOffFlags2] = 0xFF
	report[outBTOffRumbleL] = 0xFF
	return AppendCRC(report)
}

// BuildWakeupUSB builds the USB wake-up frame: all flags raised plus a brief
// rumble pulse, then the initial LED state.
func BuildWakeupUSB(s OutputSettings) []byte {
	report := make([]byte, OutputSizeUSB)
	report[0] = ReportIDOutputUSB
	report[outUSBOffFlags1] = 0xFF
	report[outUSBOffFlags2] = 0xFF
	report[3] = wakeRumble
	report[4] = wakeRumble
	report[outUSBOffPlayerLED] = s.PlayerLEDs
	report[outUSBOffRGB] = s.Red
	report[outUSBOffRGB+1] = s.Green
	report[outUSBOffRGB+2] = s.Blue
	return report
}

// BuildPowerOff builds the Bluetooth disconnect frame used by the stuck-mode
// recovery burst. Vibration bytes must stay zero or the firmware drops the
// packet.
func BuildPowerOff(seq uint8) []byte {
	report := make([]byte, OutputSizeBT)
	report[0] = ReportIDOutputBT
	report[outBTOffSeq] = seq<<4 | btHeaderHID | btHeaderDisconnect
	report[outBTOffFlags1] = flagsTriggerLED
	report[outBTOffFlags2] = flagsLED
	return AppendCRC(report)
}

// BuildProbeFrame builds a diagnostic frame with all feature flags raised and
// a single marker byte at the given offset. Offsets are in USB payload
// coordinates; the Bluetooth layout shifts them by one. Offsets that would
// land in the header or CRC trailer are clamped to a no-op frame.
func BuildProbeFrame(bluetooth bool, offset int, value byte, seq uint8) []byte {
	if bluetooth {
		report := make([]byte, OutputSizeBT)
		report[0] = ReportIDOutputBT
		report[outBTOffSeq] = seq<<4 | btHeaderHID
		report[outBTOffFlags1] = flagsAllFeatures
		report[outBTOffFlags2] = flagsAllFeatures
		if idx := offset + 1; idx > outBTOffFlags2 && idx < crcCoverageBT {
			report[idx] = value
		}
		return AppendCRC(report)
	}
	report := make([]byte, OutputSizeUSB)
	report[0] = ReportIDOutputUSB
	report[outUSBOffFlags1] = flagsAllFeatures
	report[outUSBOffFlags2] = flagsAllFeatures
	if offset > outUSBOffFlags2 && offset < OutputSizeUSB {
		report[offset] = value
	}
	return report
}

// ScaleRGB applies the lightbar brightness scalar to a color.
func ScaleRGB(r, g, b, brightness uint8) (uint8, uint8, uint8) {
	f := float64(brightness) / 255
	return uint8(float64(r) * f), uint8(float64(g) * f), uint8(float64(b) * f)
}

// BatteryLEDMask maps a battery percentage to the sequential left-to-right
// player LED fill used when the battery display is enabled.
func BatteryLEDMask(battery uint8) uint8 {
	switch {
	case battery >= 90:
		return 0x1F
	case battery >= 70:
		return 0x0F
	case battery >= 50:
		return 0x07
	case battery >= 30:
		return 0x03
	case battery >= 10:
		return 0x01
	}
	return 0x00
}

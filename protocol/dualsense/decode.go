package dualsense

import "github.com/mantukin/dx3/protocol"

// Decode parses a raw input report into the canonical controller state.
// It returns nil for any report ID or length it does not understand; both
// transports emit keep-alive and vendor frames this code has no use for, so
// a nil result is not an error and callers drop it silently.
func Decode(report []byte, bluetooth bool) *protocol.State {
	if len(report) == 0 {
		return nil
	}
	if bluetooth {
		switch {
		case report[0] == ReportIDSimple:
			// Windows pads simple reports to varying lengths; the layout
			// is the same regardless.
			return decodeSimple(report)
		case report[0] == ReportIDBTNative && len(report) >= 12:
			return decodeBTNative(report)
		}
		return nil
	}
	if report[0] == ReportIDSimple {
		return decodeUSBNative(report)
	}
	return nil
}

func decodeSimple(report []byte) *protocol.State {
	s := &protocol.State{}
	if len(report) <= simpleOffMisc {
		return s
	}

	s.LeftX = protocol.NormalizeAxis(report[simpleOffLX])
	s.LeftY = protocol.NormalizeAxis(report[simpleOffLY])
	s.RightX = protocol.NormalizeAxis(report[simpleOffRX])
	s.RightY = protocol.NormalizeAxis(report[simpleOffRY])

	s.DpadUp, s.DpadDown, s.DpadLeft, s.DpadRight = protocol.DecodeDpad(report[simpleOffButtons])
	face := report[simpleOffButtons] >> 4
	s.Square = face&maskSquare != 0
	s.Cross = face&maskCross != 0
	s.Circle = face&maskCircle != 0
	s.Triangle = face&maskTriangle != 0

	misc := report[simpleOffMisc]
	s.L1 = misc&0x01 != 0
	s.R1 = misc&0x02 != 0
	// Triggers are digital in the basic-HID format.
	if misc&0x04 != 0 {
		s.L2 = 1
	}
	if misc&0x08 != 0 {
		s.R2 = 1
	}
	s.Share = misc&0x10 != 0
	s.Options = misc&0x20 != 0
	s.L3 = misc&0x40 != 0
	s.R3 = misc&0x80 != 0

	if len(report) > simpleOffExtra {
		extra := report[simpleOffExtra]
		s.PS = extra&maskPS != 0
		s.TouchpadClick = extra&maskTouchpad != 0
		s.Mute = extra&maskMute != 0
	}
	return s
}

func decodeUSBNative(report []byte) *protocol.State {
	s := &protocol.State{}
	if len(report) <= usbOffButtons3 {
		return s
	}

	s.LeftX = protocol.NormalizeAxis(report[usbOffLX])
	s.LeftY = protocol.NormalizeAxis(report[usbOffLY])
	s.RightX = protocol.NormalizeAxis(report[usbOffRX])
	s.RightY = protocol.NormalizeAxis(report[usbOffRY])
	s.L2 = protocol.NormalizeTrigger(report[usbOffL2])
	s.R2 = protocol.NormalizeTrigger(report[usbOffR2])

	decodeNativeButtons(s, report[usbOffButtons1], report[usbOffButtons2], report[usbOffButtons3])

	if len(report) > usbOffBattery {
		b := report[usbOffBattery]
		s.Battery = protocol.BatteryPercent(b & batteryLevelMask)
		s.Charging = b&chargingBit != 0
	}
	return s
}

func decodeBTNative(report []byte) *protocol.State {
	s := &protocol.State{}
	if len(report) < 14 {
		return s
	}

	s.LeftX = protocol.NormalizeAxis(report[btOffLX])
	s.LeftY = protocol.NormalizeAxis(report[btOffLY])
	s.RightX = protocol.NormalizeAxis(report[btOffRX])
	s.RightY = protocol.NormalizeAxis(report[btOffRY])
	s.L2 = protocol.NormalizeTrigger(report[btOffL2])
	s.R2 = protocol.NormalizeTrigger(report[btOffR2])

	decodeNativeButtons(s, report[btOffButtons1], report[btOffButtons2], report[btOffButtons3])

	// Touch point 1. X/Y are 12-bit values packed across three bytes; the
	// top bit of the ID byte is set while there is no contact.
	if len(report) > btOffTouchYHi {
		if report[btOffTouchID]&touchInactiveBit == 0 {
			s.TouchActive = true
			xLo := uint16(report[btOffTouchXLo])
			mid := uint16(report[btOffTouchMid])
			yHi := uint16(report[btOffTouchYHi])
			s.TouchX = (mid&0x0F)<<8 | xLo
			s.TouchY = yHi<<4 | (mid&0xF0)>>4
		}
	}

	if len(report) > btOffPower {
		b := report[btOffBattery]
		s.Battery = protocol.BatteryPercent(b & batteryLevelMask)
		// Charging shows up either in the high nibble of the battery byte
		// or the low nibble of the next one (1=charging, 2=full).
		status := (b & 0xF0) >> 4
		power := report[btOffPower] & 0x0F
		s.Charging = status == 0x01 || status == 0x02 || power == 0x01 || power == 0x02
	}
	return s
}

func decodeNativeButtons(s *protocol.State, b1, b2, b3 byte) {
	s.DpadUp, s.DpadDown, s.DpadLeft, s.DpadRight = protocol.DecodeDpad(b1)
	face := b1 >> 4
	s.Square = face&maskSquare != 0
	s.Cross = face&maskCross != 0
	s.Circle = face&maskCircle != 0
	s.Triangle = face&maskTriangle != 0

	s.L1 = b2&maskL1 != 0
	s.R1 = b2&maskR1 != 0
	s.Share = b2&maskShare != 0
	s.Options = b2&maskOptions != 0
	s.L3 = b2&maskL3 != 0
	s.R3 = b2&maskR3 != 0

	s.PS = b3&maskPS != 0
	s.TouchpadClick = b3&maskTouchpad != 0
	s.Mute = b3&maskMute != 0
}

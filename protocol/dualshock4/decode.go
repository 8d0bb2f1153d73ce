// Package dualshock4 parses DualShock 4 input reports. The USB (0x01) and
// Bluetooth (0x11) reports share one payload layout at different offsets.
package dualshock4

import "github.com/mantukin/dx3/protocol"

// Decode parses a raw DS4 input report into the canonical controller state.
// Unrecognized report IDs and undersized buffers yield nil, which callers
// drop silently.
func Decode(report []byte) *protocol.State {
	if len(report) == 0 {
		return nil
	}
	switch {
	case report[0] == ReportIDUSB && len(report) >= 10:
		return decodePayload(report[usbPayloadOffset:])
	case report[0] == ReportIDBT && len(report) >= 13:
		return decodePayload(report[btPayloadOffset:])
	}
	return nil
}

func decodePayload(data []byte) *protocol.State {
	s := &protocol.State{}
	if len(data) < 9 {
		return s
	}

	s.LeftX = protocol.NormalizeAxis(data[offLX])
	s.LeftY = protocol.NormalizeAxis(data[offLY])
	s.RightX = protocol.NormalizeAxis(data[offRX])
	s.RightY = protocol.NormalizeAxis(data[offRY])

	s.DpadUp, s.DpadDown, s.DpadLeft, s.DpadRight = protocol.DecodeDpad(data[offButtons1])
	face := data[offButtons1] >> 4
	s.Square = face&maskSquare != 0
	s.Cross = face&maskCross != 0
	s.Circle = face&maskCircle != 0
	s.Triangle = face&maskTriangle != 0

	b2 := data[offButtons2]
	s.L1 = b2&maskL1 != 0
	s.R1 = b2&maskR1 != 0
	s.Share = b2&maskShare != 0
	s.Options = b2&maskOptions != 0
	s.L3 = b2&maskL3 != 0
	s.R3 = b2&maskR3 != 0

	if len(data) > offButtons3 {
		s.PS = data[offButtons3]&maskPS != 0
		s.TouchpadClick = data[offButtons3]&maskTouchpad != 0
	}

	s.L2 = protocol.NormalizeTrigger(data[offL2])
	s.R2 = protocol.NormalizeTrigger(data[offR2])

	if len(data) > offBattery {
		b := data[offBattery]
		s.Battery = protocol.BatteryPercent(b & batteryLevelMask)
		s.Charging = b&chargingBit != 0
	}
	return s
}

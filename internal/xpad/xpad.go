// Package xpad models the virtual Xbox 360 pad state pushed to the output
// sink. Button bitmasks follow the XInput wire convention.
package xpad

import "encoding/binary"

// Button bitmasks (XInput compatible).
const (
	ButtonDPadUp    uint16 = 0x0001
	ButtonDPadDown  uint16 = 0x0002
	ButtonDPadLeft  uint16 = 0x0004
	ButtonDPadRight uint16 = 0x0008
	ButtonStart     uint16 = 0x0010
	ButtonBack      uint16 = 0x0020
	ButtonLThumb    uint16 = 0x0040
	ButtonRThumb    uint16 = 0x0080
	ButtonLShoulder uint16 = 0x0100
	ButtonRShoulder uint16 = 0x0200
	ButtonGuide     uint16 = 0x0400
	ButtonA         uint16 = 0x1000
	ButtonB         uint16 = 0x2000
	ButtonX         uint16 = 0x4000
	ButtonY         uint16 = 0x8000
)

// State is one virtual pad update. Triggers are 0-255, stick axes are signed
// 16-bit with Y up-positive (the virtual bus convention, opposite to the
// physical pad's down-positive raw values).
type State struct {
	Buttons uint16
	LT, RT  uint8
	LX, LY  int16
	RX, RY  int16
}

// Report encodes the state as the 12-byte XUSB_REPORT layout consumed by the
// ViGEm bus and mirrored in telemetry snapshots.
func (s State) Report() []byte {
	b := make([]byte, 12)
	binary.LittleEndian.PutUint16(b[0:2], s.Buttons)
	b[2] = s.LT
	b[3] = s.RT
	binary.LittleEndian.PutUint16(b[4:6], uint16(s.LX))
	binary.LittleEndian.PutUint16(b[6:8], uint16(s.LY))
	binary.LittleEndian.PutUint16(b[8:10], uint16(s.RX))
	binary.LittleEndian.PutUint16(b[10:12], uint16(s.RY))
	return b
}

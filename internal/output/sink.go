// Package output is the only component touching the OS and virtual-bus
// boundaries: it feeds the virtual Xbox 360 pad and injects synthesized
// keyboard/mouse events derived from engine frames.
package output

import "github.com/mantukin/dx3/internal/xpad"

// Sink abstracts the platform input backends. Key codes are USB HID usage
// IDs; each backend translates them to its native codes. Mouse buttons are
// 0=left, 1=middle, 2=right.
type Sink interface {
	// Connect attaches to the virtual-pad bus (and creates injection
	// devices where the platform needs them). It does not plug the pad.
	Connect() error

	// PlugPad exposes the virtual pad to the OS. Called lazily on the
	// first successfully decoded frame, not at device open.
	PlugPad() error
	UnplugPad() error
	UpdatePad(st xpad.State) error

	SendKey(code uint16, down bool) error
	SendMouseButton(btn uint8, down bool) error
	SendMouseMove(dx, dy int32) error
	SendScroll(ticks int32) error

	Close() error
}

// MouseLeft and friends are the portable mouse button ids used in mapping
// targets.
const (
	MouseLeft   uint8 = 0
	MouseMiddle uint8 = 1
	MouseRight  uint8 = 2
)

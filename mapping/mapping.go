// Package mapping turns canonical controller state into virtual-pad updates
// and synthesized keyboard/mouse input according to a user mapping table.
package mapping

import (
	"fmt"
	"strings"

	"github.com/mantukin/dx3/protocol"
)

// Control enumerates the physical input sources a mapping entry can bind.
type Control int

const (
	Cross Control = iota
	Circle
	Square
	Triangle
	L1
	R1
	L3
	R3
	Options
	Share
	PS
	Touchpad
	TouchpadLeft
	TouchpadRight
	Mute
	DpadUp
	DpadDown
	DpadLeft
	DpadRight
	LeftStick
	RightStick
	L2
	R2
)

var controlNames = map[Control]string{
	Cross: "cross", Circle: "circle", Square: "square", Triangle: "triangle",
	L1: "l1", R1: "r1", L3: "l3", R3: "r3",
	Options: "options", Share: "share", PS: "ps",
	Touchpad: "touchpad", TouchpadLeft: "touchpad_left", TouchpadRight: "touchpad_right",
	Mute: "mute",
	DpadUp: "dpad_up", DpadDown: "dpad_down", DpadLeft: "dpad_left", DpadRight: "dpad_right",
	LeftStick: "left_stick", RightStick: "right_stick", L2: "l2", R2: "r2",
}

func (c Control) String() string {
	if n, ok := controlNames[c]; ok {
		return n
	}
	return fmt.Sprintf("control(%d)", int(c))
}

// ParseControl resolves a profile source name to a Control.
func ParseControl(name string) (Control, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for c, s := range controlNames {
		if s == n {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown control %q", name)
}

// IsAxis reports whether the control is a continuous source rather than a
// discrete button.
func (c Control) IsAxis() bool {
	switch c {
	case LeftStick, RightStick, L2, R2, Touchpad:
		return true
	}
	return false
}

// touchMidpoint splits the 1920-wide touchpad into left and right halves.
const touchMidpoint = 960

// Pressed evaluates a discrete control against a controller state. Axis
// controls always report false here; their values flow through the engine's
// axis path instead.
func (c Control) Pressed(s *protocol.State) bool {
	switch c {
	case Cross:
		return s.Cross
	case Circle:
		return s.Circle
	case Square:
		return s.Square
	case Triangle:
		return s.Triangle
	case L1:
		return s.L1
	case R1:
		return s.R1
	case L3:
		return s.L3
	case R3:
		return s.R3
	case Options:
		return s.Options
	case Share:
		return s.Share
	case PS:
		return s.PS
	case Touchpad:
		return s.TouchpadClick
	case TouchpadLeft:
		return s.TouchpadClick && s.TouchX < touchMidpoint
	case TouchpadRight:
		return s.TouchpadClick && s.TouchX >= touchMidpoint
	case Mute:
		return s.Mute
	case DpadUp:
		return s.DpadUp
	case DpadDown:
		return s.DpadDown
	case DpadLeft:
		return s.DpadLeft
	case DpadRight:
		return s.DpadRight
	}
	return false
}

// TargetKind tags the variant carried by a Target.
type TargetKind int

const (
	// TargetPadButtons ORs a button bitmask into the virtual pad.
	TargetPadButtons TargetKind = iota
	TargetPadLT
	TargetPadRT
	TargetPadLS
	TargetPadRS
	// TargetKey presses a keyboard key (USB HID usage ID).
	TargetKey
	// TargetMouseButton presses a mouse button (0=left 1=middle 2=right).
	TargetMouseButton
	// TargetMouseMove converts the source axis into continuous pointer
	// motion with per-axis speeds.
	TargetMouseMove
	// TargetScroll converts the source's vertical axis into wheel ticks.
	TargetScroll
)

// Target is one destination of a mapping entry.
type Target struct {
	Kind TargetKind

	Buttons     uint16 // TargetPadButtons
	Key         uint16 // TargetKey
	MouseButton uint8  // TargetMouseButton

	XSpeed, YSpeed float64 // TargetMouseMove
	Speed          float64 // TargetScroll
}

// Entry binds a physical control to zero or more targets. A press may fan
// out to a pad bit and a keystroke at the same time.
type Entry struct {
	Source  Control
	Targets []Target
}

// Table is an ordered mapping table. Controls without an entry are no-ops.
type Table []Entry

// Clone returns a deep copy safe to hand across the control-block boundary.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for i, e := range t {
		out[i] = Entry{Source: e.Source, Targets: append([]Target(nil), e.Targets...)}
	}
	return out
}

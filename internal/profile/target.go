package profile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mantukin/dx3/internal/output"
	"github.com/mantukin/dx3/internal/xpad"
	"github.com/mantukin/dx3/mapping"
)

// padButtonBits resolves "pad:<name>" button targets.
var padButtonBits = map[string]uint16{
	"a":          xpad.ButtonA,
	"b":          xpad.ButtonB,
	"x":          xpad.ButtonX,
	"y":          xpad.ButtonY,
	"lb":         xpad.ButtonLShoulder,
	"rb":         xpad.ButtonRShoulder,
	"start":      xpad.ButtonStart,
	"back":       xpad.ButtonBack,
	"guide":      xpad.ButtonGuide,
	"thumb_l":    xpad.ButtonLThumb,
	"thumb_r":    xpad.ButtonRThumb,
	"dpad_up":    xpad.ButtonDPadUp,
	"dpad_down":  xpad.ButtonDPadDown,
	"dpad_left":  xpad.ButtonDPadLeft,
	"dpad_right": xpad.ButtonDPadRight,
}

// ParseTarget parses one target string. Forms:
//
//	pad:<button>        virtual pad button
//	pad:lt | pad:rt     virtual trigger
//	pad:ls | pad:rs     virtual stick (axis sources only)
//	key:<name>          keyboard key
//	mouse:<button>      left, middle or right
//	mouse-move:<x>,<y>  pointer motion with per-axis speed multipliers
//	scroll:<speed>      wheel ticks
func ParseTarget(s string) (mapping.Target, error) {
	kind, arg, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return mapping.Target{}, fmt.Errorf("malformed target %q", s)
	}
	kind = strings.ToLower(kind)
	arg = strings.ToLower(strings.TrimSpace(arg))

	switch kind {
	case "pad":
		switch arg {
		case "lt":
			return mapping.Target{Kind: mapping.TargetPadLT}, nil
		case "rt":
			return mapping.Target{Kind: mapping.TargetPadRT}, nil
		case "ls":
			return mapping.Target{Kind: mapping.TargetPadLS}, nil
		case "rs":
			return mapping.Target{Kind: mapping.TargetPadRS}, nil
		}
		bits, ok := padButtonBits[arg]
		if !ok {
			return mapping.Target{}, fmt.Errorf("unknown pad target %q", arg)
		}
		return mapping.Target{Kind: mapping.TargetPadButtons, Buttons: bits}, nil

	case "key":
		code, err := output.ParseKey(arg)
		if err != nil {
			return mapping.Target{}, err
		}
		return mapping.Target{Kind: mapping.TargetKey, Key: code}, nil

	case "mouse":
		var btn uint8
		switch arg {
		case "left":
			btn = output.MouseLeft
		case "middle":
			btn = output.MouseMiddle
		case "right":
			btn = output.MouseRight
		default:
			return mapping.Target{}, fmt.Errorf("unknown mouse button %q", arg)
		}
		return mapping.Target{Kind: mapping.TargetMouseButton, MouseButton: btn}, nil

	case "mouse-move":
		xs, ys, ok := strings.Cut(arg, ",")
		if !ok {
			return mapping.Target{}, fmt.Errorf("mouse-move target needs x,y speeds, got %q", arg)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return mapping.Target{}, fmt.Errorf("mouse-move x speed: %w", err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return mapping.Target{}, fmt.Errorf("mouse-move y speed: %w", err)
		}
		return mapping.Target{Kind: mapping.TargetMouseMove, XSpeed: x, YSpeed: y}, nil

	case "scroll":
		speed, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return mapping.Target{}, fmt.Errorf("scroll speed: %w", err)
		}
		return mapping.Target{Kind: mapping.TargetScroll, Speed: speed}, nil
	}

	return mapping.Target{}, fmt.Errorf("unknown target kind %q", kind)
}

package mapping

import (
	"github.com/mantukin/dx3/internal/xpad"
	"github.com/mantukin/dx3/protocol"
)

// Tunables are the live remapping parameters. They are replaceable between
// ticks without touching the engine's smoothing state.
type Tunables struct {
	DeadzoneLeft  float64
	DeadzoneRight float64

	// Mouse sensitivities, per source.
	SensLeft     float64
	SensRight    float64
	SensTouchpad float64
}

// DefaultTunables mirror the stock profile.
func DefaultTunables() Tunables {
	return Tunables{
		DeadzoneLeft:  0.1,
		DeadzoneRight: 0.1,
		SensLeft:      25,
		SensRight:     25,
		SensTouchpad:  25,
	}
}

const (
	// referenceTick is the packet interval mouse speeds are calibrated
	// against (the 250 Hz USB rate). Actual tick intervals scale motion by
	// dt/referenceTick so pointer speed is independent of packet timing.
	referenceTick = 0.004

	// touchJumpLimit rejects coordinate deltas from a finger lift and
	// re-place; anything this large in one frame is not a swipe.
	touchJumpLimit = 500

	// touchFactor scales raw touchpad units into the same range as stick
	// motion so one sensitivity scale fits both.
	touchFactor = 0.02

	// touchScrollFactor scales raw touch deltas down for scroll targets.
	touchScrollFactor = 0.05
)

// Frame is the engine's per-tick output, consumed by the output dispatcher.
// Key and mouse-button sets carry this tick's desired-held state; edge
// detection against the previously injected state happens downstream.
type Frame struct {
	Pad xpad.State

	Keys         map[uint16]bool
	MouseButtons map[uint8]bool

	MouseDX, MouseDY float64
	ScrollDY         float64
}

// Engine owns the per-session smoothing state. It is not safe for concurrent
// use; the session worker is its only caller.
type Engine struct {
	tun Tunables

	smoothedAxes [4]float64 // LX, LY, RX, RY

	smoothTouchDX, smoothTouchDY float64
	lastTouchX, lastTouchY       uint16
	lastTouchActive              bool
}

func NewEngine(tun Tunables) *Engine {
	return &Engine{tun: tun}
}

// SetTunables swaps the live parameters; smoothing buffers are kept so a
// settings change mid-motion does not kick the pointer.
func (e *Engine) SetTunables(tun Tunables) {
	e.tun = tun
}

// Reset clears all smoothing and touch-tracking state. Called on disconnect.
func (e *Engine) Reset() {
	*e = Engine{tun: e.tun}
}

// Tick transforms one controller state snapshot through the mapping table.
// dt is the elapsed time since the previous tick in seconds; on read-timeout
// ticks the caller passes the last decoded state so continuous outputs keep
// flowing.
func (e *Engine) Tick(s *protocol.State, table Table, dt float64) Frame {
	f := Frame{
		Keys:         make(map[uint16]bool),
		MouseButtons: make(map[uint8]bool),
	}

	timeScale := dt / referenceTick

	lxRaw, lyRaw := Deadzone(s.LeftX, s.LeftY, e.tun.DeadzoneLeft)
	rxRaw, ryRaw := Deadzone(s.RightX, s.RightY, e.tun.DeadzoneRight)
	e.smoothedAxes[0] = ema(e.smoothedAxes[0], lxRaw)
	e.smoothedAxes[1] = ema(e.smoothedAxes[1], lyRaw)
	e.smoothedAxes[2] = ema(e.smoothedAxes[2], rxRaw)
	e.smoothedAxes[3] = ema(e.smoothedAxes[3], ryRaw)
	lx, ly := e.smoothedAxes[0], e.smoothedAxes[1]
	rx, ry := e.smoothedAxes[2], e.smoothedAxes[3]

	touchDX, touchDY := e.touchDelta(s)

	var (
		padLT, padRT float64
		lsX, lsY     float64
		rsX, rsY     float64
	)

	for _, m := range table {
		if m.Source.IsAxis() {
			var ax, ay float64
			switch m.Source {
			case LeftStick:
				ax, ay = lx, ly
			case RightStick:
				ax, ay = rx, ry
			case L2:
				ax = s.L2
			case R2:
				ax = s.R2
			case Touchpad:
				// handled per-target below
			}
			for _, t := range m.Targets {
				switch t.Kind {
				case TargetMouseMove:
					if m.Source == Touchpad {
						f.MouseDX += touchDX * t.XSpeed
						f.MouseDY += touchDY * t.YSpeed
					} else {
						sens := e.tun.SensRight
						if m.Source == LeftStick {
							sens = e.tun.SensLeft
						}
						f.MouseDX += ax * sens * t.XSpeed * timeScale
						f.MouseDY += ay * sens * t.YSpeed * timeScale
					}
				case TargetScroll:
					val := ay
					if m.Source == Touchpad {
						val = touchDY * touchScrollFactor
					}
					// Inverted for natural scroll direction.
					f.ScrollDY -= val * t.Speed * timeScale
				case TargetPadLT:
					padLT = max(padLT, ax)
				case TargetPadRT:
					padRT = max(padRT, ax)
				case TargetPadLS:
					lsX, lsY = ax, ay
				case TargetPadRS:
					rsX, rsY = ax, ay
				}
			}
			continue
		}

		if !m.Source.Pressed(s) {
			continue
		}
		for _, t := range m.Targets {
			switch t.Kind {
			case TargetPadButtons:
				f.Pad.Buttons |= t.Buttons
			case TargetPadLT:
				padLT = 1
			case TargetPadRT:
				padRT = 1
			case TargetKey:
				f.Keys[t.Key] = true
			case TargetMouseButton:
				f.MouseButtons[t.MouseButton] = true
			}
		}
	}

	f.Pad.LT = uint8(padLT * 255)
	f.Pad.RT = uint8(padRT * 255)
	f.Pad.LX = int16(lsX * 32767)
	f.Pad.LY = int16(-lsY * 32767) // virtual bus is up-positive
	f.Pad.RX = int16(rsX * 32767)
	f.Pad.RY = int16(-rsY * 32767)

	return f
}

// touchDelta derives smoothed pointer motion from consecutive active-contact
// touch samples, with momentum cut immediately on contact loss.
func (e *Engine) touchDelta(s *protocol.State) (float64, float64) {
	var targetDX, targetDY float64

	if s.TouchActive && e.lastTouchActive {
		dxRaw := int(s.TouchX) - int(e.lastTouchX)
		dyRaw := int(s.TouchY) - int(e.lastTouchY)
		if abs(dxRaw) < touchJumpLimit && abs(dyRaw) < touchJumpLimit {
			targetDX = float64(dxRaw) * e.tun.SensTouchpad * touchFactor
			targetDY = float64(dyRaw) * e.tun.SensTouchpad * touchFactor
		}
	} else if !s.TouchActive {
		e.smoothTouchDX = 0
		e.smoothTouchDY = 0
	}

	e.lastTouchX = s.TouchX
	e.lastTouchY = s.TouchY
	e.lastTouchActive = s.TouchActive

	e.smoothTouchDX = ema(e.smoothTouchDX, targetDX)
	e.smoothTouchDY = ema(e.smoothTouchDY, targetDY)
	return e.smoothTouchDX, e.smoothTouchDY
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package output

import (
	"math"

	"github.com/mantukin/dx3/internal/xpad"
	"github.com/mantukin/dx3/mapping"
)

// Dispatcher applies engine frames to a Sink. It owns the edge-detection
// sets for synthesized keys/mouse buttons and the fractional accumulators
// for pointer motion and scroll, so sub-unit movement survives across ticks
// instead of being rounded away.
type Dispatcher struct {
	sink Sink

	activeKeys  map[uint16]bool
	activeMouse map[uint8]bool

	accX, accY float64
	accScroll  float64
}

func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{
		sink:        sink,
		activeKeys:  make(map[uint16]bool),
		activeMouse: make(map[uint8]bool),
	}
}

// Apply pushes one frame. The pad is only written when padChanged is set
// (redundant bus writes are skipped); continuous outputs are always
// evaluated so pointer motion never stalls on idle ticks.
func (d *Dispatcher) Apply(f mapping.Frame, padChanged bool) error {
	if padChanged {
		if err := d.sink.UpdatePad(f.Pad); err != nil {
			return err
		}
	}

	// Press newly held keys, release newly absent ones. Comparing against
	// the previously injected set guarantees exactly one event per edge
	// and no stuck keys across mapping swaps.
	for code := range f.Keys {
		if !d.activeKeys[code] {
			_ = d.sink.SendKey(code, true)
		}
	}
	for code := range d.activeKeys {
		if !f.Keys[code] {
			_ = d.sink.SendKey(code, false)
		}
	}
	d.activeKeys = f.Keys

	for btn := range f.MouseButtons {
		if !d.activeMouse[btn] {
			_ = d.sink.SendMouseButton(btn, true)
		}
	}
	for btn := range d.activeMouse {
		if !f.MouseButtons[btn] {
			_ = d.sink.SendMouseButton(btn, false)
		}
	}
	d.activeMouse = f.MouseButtons

	d.accX += f.MouseDX
	d.accY += f.MouseDY
	moveX := int32(math.Trunc(d.accX))
	moveY := int32(math.Trunc(d.accY))
	if moveX != 0 || moveY != 0 {
		d.accX -= float64(moveX)
		d.accY -= float64(moveY)
		_ = d.sink.SendMouseMove(moveX, moveY)
	}

	d.accScroll += f.ScrollDY
	ticks := int32(math.Floor(math.Abs(d.accScroll)))
	if ticks > 0 {
		if d.accScroll < 0 {
			ticks = -ticks
		}
		d.accScroll -= float64(ticks)
		_ = d.sink.SendScroll(ticks)
	}

	return nil
}

// Reset releases everything still held, zeroes the accumulators and writes a
// neutral pad state. Called when the burst loop exits.
func (d *Dispatcher) Reset() {
	for code := range d.activeKeys {
		_ = d.sink.SendKey(code, false)
	}
	for btn := range d.activeMouse {
		_ = d.sink.SendMouseButton(btn, false)
	}
	d.activeKeys = make(map[uint16]bool)
	d.activeMouse = make(map[uint8]bool)
	d.accX, d.accY, d.accScroll = 0, 0, 0
	_ = d.sink.UpdatePad(xpad.State{})
}

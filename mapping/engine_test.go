package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantukin/dx3/internal/xpad"
	"github.com/mantukin/dx3/mapping"
	"github.com/mantukin/dx3/protocol"
)

const tick = 0.004

func TestTickDiscreteFanout(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.Cross, Targets: []mapping.Target{
			{Kind: mapping.TargetPadButtons, Buttons: xpad.ButtonA},
			{Kind: mapping.TargetKey, Key: 0x2C},
		}},
		{Source: mapping.L1, Targets: []mapping.Target{
			{Kind: mapping.TargetMouseButton, MouseButton: 0},
		}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	f := e.Tick(&protocol.State{Cross: true}, table, tick)

	assert.Equal(t, xpad.ButtonA, f.Pad.Buttons)
	assert.True(t, f.Keys[0x2C])
	assert.Empty(t, f.MouseButtons)

	f = e.Tick(&protocol.State{L1: true}, table, tick)
	assert.Zero(t, f.Pad.Buttons)
	assert.False(t, f.Keys[0x2C])
	assert.True(t, f.MouseButtons[0])
}

func TestTickStickSmoothing(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.LeftStick, Targets: []mapping.Target{{Kind: mapping.TargetPadLS}}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	s := &protocol.State{LeftX: 1}

	// First tick only moves 25% of the way toward full deflection.
	f := e.Tick(s, table, tick)
	assert.InDelta(t, 0.25*32767, float64(f.Pad.LX), 1)

	// Repeated ticks converge on full deflection.
	for i := 0; i < 100; i++ {
		f = e.Tick(s, table, tick)
	}
	assert.InDelta(t, 32767, float64(f.Pad.LX), 100)
}

func TestTickStickYInverted(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.RightStick, Targets: []mapping.Target{{Kind: mapping.TargetPadRS}}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	s := &protocol.State{RightY: 1} // physically down

	var f mapping.Frame
	for i := 0; i < 100; i++ {
		f = e.Tick(s, table, tick)
	}
	assert.Less(t, f.Pad.RY, int16(-30000))
}

func TestTickTriggerMaxCombine(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.L2, Targets: []mapping.Target{{Kind: mapping.TargetPadRT}}},
		{Source: mapping.R2, Targets: []mapping.Target{{Kind: mapping.TargetPadRT}}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	f := e.Tick(&protocol.State{L2: 0.3, R2: 0.7}, table, tick)

	// Multiple sources on one virtual trigger combine via max, not sum.
	r2 := 0.7
	assert.Equal(t, uint8(r2*255), f.Pad.RT)
}

func TestTickDiscreteTriggerForcesFull(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.Circle, Targets: []mapping.Target{{Kind: mapping.TargetPadLT}}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	f := e.Tick(&protocol.State{Circle: true}, table, tick)
	assert.Equal(t, uint8(255), f.Pad.LT)
}

func TestTickMouseMoveTimeScaled(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.LeftStick, Targets: []mapping.Target{
			{Kind: mapping.TargetMouseMove, XSpeed: 1, YSpeed: 1},
		}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	s := &protocol.State{LeftX: 1}

	f := e.Tick(s, table, tick)
	base := f.MouseDX
	assert.InDelta(t, 0.25*25, base, 0.01)

	// Twice the tick interval doubles motion for the same deflection.
	e2 := mapping.NewEngine(mapping.DefaultTunables())
	f2 := e2.Tick(s, table, 2*tick)
	assert.InDelta(t, 2*base, f2.MouseDX, 0.01)
}

func TestTickScrollInverted(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.RightStick, Targets: []mapping.Target{
			{Kind: mapping.TargetScroll, Speed: 2},
		}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	f := e.Tick(&protocol.State{RightY: 1}, table, tick)
	assert.InDelta(t, -0.5, f.ScrollDY, 0.01)
}

func TestTouchDelta(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.Touchpad, Targets: []mapping.Target{
			{Kind: mapping.TargetMouseMove, XSpeed: 1, YSpeed: 1},
		}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())

	// First contact establishes the reference point, no motion yet.
	f := e.Tick(&protocol.State{TouchActive: true, TouchX: 500, TouchY: 500}, table, tick)
	assert.Equal(t, 0.0, f.MouseDX)

	// A 10-unit swipe produces smoothed motion.
	f = e.Tick(&protocol.State{TouchActive: true, TouchX: 510, TouchY: 500}, table, tick)
	assert.InDelta(t, 0.25*10*25*0.02, f.MouseDX, 0.01)
}

func TestTouchJumpRejected(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.Touchpad, Targets: []mapping.Target{
			{Kind: mapping.TargetMouseMove, XSpeed: 1, YSpeed: 1},
		}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	e.Tick(&protocol.State{TouchActive: true, TouchX: 100, TouchY: 100}, table, tick)

	// A lift-and-replace shows up as a huge delta in one frame; it must not
	// fling the pointer.
	f := e.Tick(&protocol.State{TouchActive: true, TouchX: 1600, TouchY: 100}, table, tick)
	assert.Equal(t, 0.0, f.MouseDX)
}

func TestTouchMomentumStopsOnLift(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.Touchpad, Targets: []mapping.Target{
			{Kind: mapping.TargetMouseMove, XSpeed: 1, YSpeed: 1},
		}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	e.Tick(&protocol.State{TouchActive: true, TouchX: 100, TouchY: 100}, table, tick)
	f := e.Tick(&protocol.State{TouchActive: true, TouchX: 150, TouchY: 100}, table, tick)
	assert.NotEqual(t, 0.0, f.MouseDX)

	// Contact loss kills the smoothed momentum immediately.
	f = e.Tick(&protocol.State{TouchActive: false}, table, tick)
	assert.Equal(t, 0.0, f.MouseDX)
}

func TestEngineReset(t *testing.T) {
	table := mapping.Table{
		{Source: mapping.LeftStick, Targets: []mapping.Target{{Kind: mapping.TargetPadLS}}},
	}

	e := mapping.NewEngine(mapping.DefaultTunables())
	for i := 0; i < 50; i++ {
		e.Tick(&protocol.State{LeftX: 1}, table, tick)
	}
	e.Reset()

	f := e.Tick(&protocol.State{}, table, tick)
	assert.Zero(t, f.Pad.LX)
}

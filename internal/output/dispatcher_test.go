package output_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantukin/dx3/internal/output"
	"github.com/mantukin/dx3/internal/xpad"
	"github.com/mantukin/dx3/mapping"
)

// recordSink captures every sink call as a readable event string.
type recordSink struct {
	events []string
	pads   []xpad.State
}

func (r *recordSink) Connect() error   { return nil }
func (r *recordSink) PlugPad() error   { return nil }
func (r *recordSink) UnplugPad() error { return nil }
func (r *recordSink) Close() error     { return nil }

func (r *recordSink) UpdatePad(st xpad.State) error {
	r.pads = append(r.pads, st)
	r.events = append(r.events, "pad")
	return nil
}

func (r *recordSink) SendKey(code uint16, down bool) error {
	r.events = append(r.events, fmt.Sprintf("key:%#x:%v", code, down))
	return nil
}

func (r *recordSink) SendMouseButton(btn uint8, down bool) error {
	r.events = append(r.events, fmt.Sprintf("mouse:%d:%v", btn, down))
	return nil
}

func (r *recordSink) SendMouseMove(dx, dy int32) error {
	r.events = append(r.events, fmt.Sprintf("move:%d,%d", dx, dy))
	return nil
}

func (r *recordSink) SendScroll(ticks int32) error {
	r.events = append(r.events, fmt.Sprintf("scroll:%d", ticks))
	return nil
}

func frameWithKeys(codes ...uint16) mapping.Frame {
	f := mapping.Frame{Keys: map[uint16]bool{}, MouseButtons: map[uint8]bool{}}
	for _, c := range codes {
		f.Keys[c] = true
	}
	return f
}

func TestApplyKeyEdges(t *testing.T) {
	sink := &recordSink{}
	d := output.NewDispatcher(sink)

	// Held across two ticks: exactly one press event.
	assert.NoError(t, d.Apply(frameWithKeys(0x04), false))
	assert.NoError(t, d.Apply(frameWithKeys(0x04), false))
	assert.Equal(t, []string{"key:0x4:true"}, sink.events)

	// Released: exactly one release event.
	assert.NoError(t, d.Apply(frameWithKeys(), false))
	assert.Equal(t, []string{"key:0x4:true", "key:0x4:false"}, sink.events)
}

func TestApplyKeySwap(t *testing.T) {
	sink := &recordSink{}
	d := output.NewDispatcher(sink)

	_ = d.Apply(frameWithKeys(0x04), false)
	sink.events = nil

	// Swapping held keys in one tick presses the new and releases the old.
	_ = d.Apply(frameWithKeys(0x05), false)
	assert.ElementsMatch(t, []string{"key:0x5:true", "key:0x4:false"}, sink.events)
}

func TestApplyPadOnlyWhenChanged(t *testing.T) {
	sink := &recordSink{}
	d := output.NewDispatcher(sink)

	f := frameWithKeys()
	f.Pad = xpad.State{Buttons: xpad.ButtonA}

	_ = d.Apply(f, true)
	_ = d.Apply(f, false)
	_ = d.Apply(f, false)
	assert.Len(t, sink.pads, 1)
}

func TestApplyFractionalMouseMove(t *testing.T) {
	sink := &recordSink{}
	d := output.NewDispatcher(sink)

	f := frameWithKeys()
	f.MouseDX = 0.4

	// Sub-unit deltas accumulate instead of being rounded away.
	_ = d.Apply(f, false)
	_ = d.Apply(f, false)
	assert.Empty(t, sink.events)

	_ = d.Apply(f, false)
	assert.Equal(t, []string{"move:1,0"}, sink.events)

	// The emitted unit is subtracted back out of the accumulator.
	_ = d.Apply(f, false)
	assert.Equal(t, []string{"move:1,0"}, sink.events)
}

func TestApplyNegativeScrollAccumulation(t *testing.T) {
	sink := &recordSink{}
	d := output.NewDispatcher(sink)

	f := frameWithKeys()
	f.ScrollDY = -0.6

	_ = d.Apply(f, false)
	assert.Empty(t, sink.events)
	_ = d.Apply(f, false)
	assert.Equal(t, []string{"scroll:-1"}, sink.events)
}

func TestResetReleasesEverything(t *testing.T) {
	sink := &recordSink{}
	d := output.NewDispatcher(sink)

	f := frameWithKeys(0x04)
	f.MouseButtons[0] = true
	f.MouseDX = 0.9
	_ = d.Apply(f, false)
	sink.events = nil
	sink.pads = nil

	d.Reset()

	assert.Contains(t, sink.events, "key:0x4:false")
	assert.Contains(t, sink.events, "mouse:0:false")
	// Neutral pad write.
	assert.Equal(t, []xpad.State{{}}, sink.pads)

	// Accumulators were cleared; the old 0.9 remainder is gone.
	sink.events = nil
	f2 := frameWithKeys()
	f2.MouseDX = 0.5
	_ = d.Apply(f2, false)
	assert.Empty(t, sink.events)
}

package session

import (
	"log/slog"

	"github.com/mantukin/dx3/protocol/dualsense"
)

// reportWriter is the slice of the HID device a probe needs.
type reportWriter interface {
	Write(data []byte) (int, error)
}

// Probe is an interactive output-frame experiment run from the housekeeping
// block, one step per pass. Probes exist to find LED/trigger byte offsets on
// firmware revisions where the known layout stops working.
type Probe interface {
	Name() string
	// Step writes the next experimental frame. done=true ends the probe.
	Step(w reportWriter, bluetooth bool, nextSeq func() uint8) (done bool, err error)
}

// sweepProbe walks a marker byte across the output payload one offset per
// step, so the operator can watch which offset makes the lightbar react.
type sweepProbe struct {
	offset int
	end    int
}

// NewSweepProbe sweeps the whole output payload.
func NewSweepProbe() Probe {
	return &sweepProbe{offset: 1, end: dualsense.OutputSizeUSB - 1}
}

func (p *sweepProbe) Name() string { return "sweep" }

func (p *sweepProbe) Step(w reportWriter, bluetooth bool, nextSeq func() uint8) (bool, error) {
	if p.offset > p.end {
		return true, nil
	}
	frame := dualsense.BuildProbeFrame(bluetooth, p.offset, 0xFF, nextSeq())
	slog.Info("Probe sweep", "offset", p.offset)
	_, err := w.Write(frame)
	p.offset++
	return false, err
}

// pinpointProbe re-sends a marker at one offset a few times so a reaction
// spotted during a sweep can be confirmed.
type pinpointProbe struct {
	offset    int
	value     byte
	remaining int
}

// NewPinpointProbe hammers a single offset.
func NewPinpointProbe(offset int, value byte) Probe {
	return &pinpointProbe{offset: offset, value: value, remaining: 5}
}

func (p *pinpointProbe) Name() string { return "pinpoint" }

func (p *pinpointProbe) Step(w reportWriter, bluetooth bool, nextSeq func() uint8) (bool, error) {
	if p.remaining == 0 {
		return true, nil
	}
	frame := dualsense.BuildProbeFrame(bluetooth, p.offset, p.value, nextSeq())
	slog.Info("Probe pinpoint", "offset", p.offset, "value", p.value, "remaining", p.remaining)
	_, err := w.Write(frame)
	p.remaining--
	return false, err
}

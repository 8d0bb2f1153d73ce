package mapping

import "math"

// smoothingAlpha is the exponential-moving-average weight applied per tick to
// stick axes and touchpad deltas. 25% new sample, 75% history; enough to damp
// Bluetooth sampling jitter without adding noticeable lag.
const smoothingAlpha = 0.25

// Deadzone applies a radial deadzone to a stick pair. Inside the deadzone the
// output is zero; outside, magnitude is rescaled so the deadzone edge maps to
// 0 and full deflection to 1, preserving direction.
func Deadzone(x, y, deadzone float64) (float64, float64) {
	magnitude := math.Hypot(x, y)
	if magnitude < deadzone || magnitude == 0 {
		return 0, 0
	}
	rescaled := (magnitude - deadzone) / (1 - deadzone)
	ratio := rescaled / magnitude
	return x * ratio, y * ratio
}

// ema advances an exponentially-smoothed value toward target.
func ema(current, target float64) float64 {
	return current + smoothingAlpha*(target-current)
}

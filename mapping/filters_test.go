package mapping_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantukin/dx3/mapping"
)

func TestDeadzoneInside(t *testing.T) {
	x, y := mapping.Deadzone(0.05, 0.05, 0.1)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	x, y = mapping.Deadzone(0, 0, 0.1)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestDeadzoneEdgeMapsToZero(t *testing.T) {
	x, y := mapping.Deadzone(0.1, 0, 0.1)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)
}

func TestDeadzoneFullDeflection(t *testing.T) {
	x, y := mapping.Deadzone(1, 0, 0.1)
	assert.InDelta(t, 1.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)
}

func TestDeadzoneRescalesMidrange(t *testing.T) {
	x, _ := mapping.Deadzone(0.55, 0, 0.1)
	assert.InDelta(t, 0.5, x, 1e-9)
}

func TestDeadzonePreservesDirection(t *testing.T) {
	inX, inY := 0.6, 0.8 // unit magnitude
	x, y := mapping.Deadzone(inX, inY, 0.1)

	inAngle := math.Atan2(inY, inX)
	outAngle := math.Atan2(y, x)
	assert.InDelta(t, inAngle, outAngle, 1e-9)
	assert.InDelta(t, 1.0, math.Hypot(x, y), 1e-9)
}

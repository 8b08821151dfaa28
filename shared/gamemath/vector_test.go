package gamemath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0), Clamp(float32(-3), 0, 10))
	assert.Equal(t, float32(10), Clamp(float32(12), 0, 10))
	assert.Equal(t, 4, Clamp(4, 0, 10))
	assert.Equal(t, 3, Clamp(5, 3, 1), "lo wins on an empty range")
}

func TestNormalize(t *testing.T) {
	n := Vec2{X: 3, Y: 4}.Normalize()
	assert.InDelta(t, 0.6, n.X, 1e-6)
	assert.InDelta(t, 0.8, n.Y, 1e-6)
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
}

func TestLerpBoundaries(t *testing.T) {
	cur, prev := Vec2{X: 10, Y: -4}, Vec2{X: 2, Y: 8}
	assert.Equal(t, cur, cur.Lerp(prev, 1))
	assert.Equal(t, prev, cur.Lerp(prev, 0))
	assert.Equal(t, Vec2{X: 6, Y: 2}, cur.Lerp(prev, 0.5))
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 20, Y: 160, W: 10, H: 80}
	assert.Equal(t, Vec2{X: 25, Y: 200}, r.Center())
	assert.Equal(t, Vec2{X: 5, Y: 40}, r.HalfExtents())
}

// Package gamemath holds the float32 geometry shared by the simulation and the
// client. Every product is wrapped in an explicit float32 conversion: the Go spec
// lets the compiler fuse x*y+z into one FMA instruction unless the intermediate is
// converted, and fused results differ between amd64 and arm64.
package gamemath

import "math"

// Vec2 is a 2D vector. It is a value type; copies never alias.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: float32(v.X * s), Y: float32(v.Y * s)}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// LengthSquared avoids the square root for distance comparisons.
func (v Vec2) LengthSquared() float32 {
	return float32(v.X*v.X) + float32(v.Y*v.Y)
}

// Length uses the correctly rounded float64 square root, so it is identical on
// every IEEE-754 platform.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSquared())))
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Lerp blends v (current) with previous by alpha.
func (v Vec2) Lerp(previous Vec2, alpha float32) Vec2 {
	return Vec2{
		X: Lerp(v.X, previous.X, alpha),
		Y: Lerp(v.Y, previous.Y, alpha),
	}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float32
}

func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + float32(r.W*0.5), Y: r.Y + float32(r.H*0.5)}
}

func (r Rect) HalfExtents() Vec2 {
	return Vec2{X: float32(r.W * 0.5), Y: float32(r.H * 0.5)}
}

// Lerp blends every bound of r (current) with previous by alpha.
func (r Rect) Lerp(previous Rect, alpha float32) Rect {
	return Rect{
		X: Lerp(r.X, previous.X, alpha),
		Y: Lerp(r.Y, previous.Y, alpha),
		W: Lerp(r.W, previous.W, alpha),
		H: Lerp(r.H, previous.H, alpha),
	}
}

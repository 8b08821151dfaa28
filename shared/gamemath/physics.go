package gamemath

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. lo wins when the range is empty.
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Lerp mixes current and previous by alpha: alpha 1 yields current, 0 yields previous.
func Lerp(current, previous, alpha float32) float32 {
	return float32(current*alpha) + float32(previous*float32(1-alpha))
}

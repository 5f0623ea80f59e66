package animation

import "golang.org/x/exp/constraints"

// Lerp linearly interpolates between a and b.
func Lerp[T constraints.Float](a, b T, t T) T {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package gfx

import (
	"math"

	"golang.org/x/image/math/f64"
)

// ScrollOffset is a 2D scroll position in layout pixels.
type ScrollOffset struct {
	f64.Vec2
}

// NewScrollOffset returns the offset (x, y).
func NewScrollOffset(x, y float64) ScrollOffset {
	return ScrollOffset{f64.Vec2{x, y}}
}

// X returns the horizontal component.
func (s ScrollOffset) X() float64 { return s.Vec2[0] }

// Y returns the vertical component.
func (s ScrollOffset) Y() float64 { return s.Vec2[1] }

// Add returns s + o.
func (s ScrollOffset) Add(o ScrollOffset) ScrollOffset {
	return NewScrollOffset(s.X()+o.X(), s.Y()+o.Y())
}

// Sub returns s - o.
func (s ScrollOffset) Sub(o ScrollOffset) ScrollOffset {
	return NewScrollOffset(s.X()-o.X(), s.Y()-o.Y())
}

// Scale multiplies both components by k.
func (s ScrollOffset) Scale(k float64) ScrollOffset {
	return NewScrollOffset(s.X()*k, s.Y()*k)
}

// Length returns the euclidean length of the offset.
func (s ScrollOffset) Length() float64 {
	return math.Hypot(s.X(), s.Y())
}

// IsZero reports whether both components are zero.
func (s ScrollOffset) IsZero() bool {
	return s.X() == 0 && s.Y() == 0
}

// ClampTo limits each component to the range [0, max].
func (s ScrollOffset) ClampTo(max ScrollOffset) ScrollOffset {
	return NewScrollOffset(
		math.Max(0, math.Min(s.X(), max.X())),
		math.Max(0, math.Min(s.Y(), max.Y())),
	)
}

// LerpScrollOffset interpolates between a and b.
func LerpScrollOffset(a, b ScrollOffset, t float64) ScrollOffset {
	return NewScrollOffset(a.X()+(b.X()-a.X())*t, a.Y()+(b.Y()-a.Y())*t)
}

// Box is an axis aligned 3D box.
type Box struct {
	Min f64.Vec3
	Max f64.Vec3
}

// NewBox returns a box with its origin at (x, y, z) and the given extent.
func NewBox(x, y, z, width, height, depth float64) Box {
	return Box{
		Min: f64.Vec3{x, y, z},
		Max: f64.Vec3{x + width, y + height, z + depth},
	}
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	var out Box
	for i := range 3 {
		out.Min[i] = math.Min(b.Min[i], o.Min[i])
		out.Max[i] = math.Max(b.Max[i], o.Max[i])
	}
	return out
}

// Translate returns b moved by (dx, dy, dz).
func (b Box) Translate(dx, dy, dz float64) Box {
	d := f64.Vec3{dx, dy, dz}
	for i := range 3 {
		b.Min[i] += d[i]
		b.Max[i] += d[i]
	}
	return b
}

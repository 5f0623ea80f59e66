package gfx

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Transform is a 4x4 matrix applied to column vectors. Elements are stored
// row-major, so the translation lives in M[3], M[7] and M[11].
type Transform struct {
	M f64.Mat4
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{M: f64.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Translation returns a transform that translates by (x, y, z).
func Translation(x, y, z float64) Transform {
	t := Identity()
	t.M[3], t.M[7], t.M[11] = x, y, z
	return t
}

// Scaling returns a transform that scales by (x, y, z).
func Scaling(x, y, z float64) Transform {
	t := Identity()
	t.M[0], t.M[5], t.M[10] = x, y, z
	return t
}

// RotationZ returns a rotation about the z axis by degrees.
func RotationZ(degrees float64) Transform {
	rad := degrees * math.Pi / 180
	s, c := math.Sincos(rad)
	t := Identity()
	t.M[0], t.M[1] = c, -s
	t.M[4], t.M[5] = s, c
	return t
}

// Skewing returns a 2D skew by the given angles in degrees.
func Skewing(xDegrees, yDegrees float64) Transform {
	t := Identity()
	t.M[1] = math.Tan(xDegrees * math.Pi / 180)
	t.M[4] = math.Tan(yDegrees * math.Pi / 180)
	return t
}

// PerspectiveDepth returns a perspective projection with the given depth.
// A depth of zero yields the identity.
func PerspectiveDepth(depth float64) Transform {
	t := Identity()
	if depth != 0 {
		t.M[14] = -1 / depth
	}
	return t
}

// Concat returns t * o, so o is applied first.
func (t Transform) Concat(o Transform) Transform {
	var out Transform
	for r := range 4 {
		for c := range 4 {
			var sum float64
			for k := range 4 {
				sum += t.M[r*4+k] * o.M[k*4+c]
			}
			out.M[r*4+c] = sum
		}
	}
	return out
}

// Apply maps a point through the transform, dividing by w when needed.
func (t Transform) Apply(p f64.Vec3) f64.Vec3 {
	var out [4]float64
	in := [4]float64{p[0], p[1], p[2], 1}
	for r := range 4 {
		for k := range 4 {
			out[r] += t.M[r*4+k] * in[k]
		}
	}
	if out[3] != 0 && out[3] != 1 {
		return f64.Vec3{out[0] / out[3], out[1] / out[3], out[2] / out[3]}
	}
	return f64.Vec3{out[0], out[1], out[2]}
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t.M == Identity().M
}

// IsTranslation reports whether t only translates.
func (t Transform) IsTranslation() bool {
	id := Identity()
	for i, v := range t.M {
		if i == 3 || i == 7 || i == 11 {
			continue
		}
		if v != id.M[i] {
			return false
		}
	}
	return true
}

// Translation2D returns the x and y translation components.
func (t Transform) Translation2D() (x, y float64) {
	return t.M[3], t.M[7]
}

// ApproxEqual compares two transforms element-wise within tolerance.
func (t Transform) ApproxEqual(o Transform, tolerance float64) bool {
	for i := range t.M {
		if math.Abs(t.M[i]-o.M[i]) > tolerance {
			return false
		}
	}
	return true
}

// MapBox returns the bounding box of b's corners after transformation.
func (t Transform) MapBox(b Box) Box {
	var out Box
	for i := range 8 {
		corner := f64.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		p := t.Apply(corner)
		if i == 0 {
			out = Box{Min: p, Max: p}
			continue
		}
		out = out.Union(Box{Min: p, Max: p})
	}
	return out
}

// LerpTransform blends two matrices element-wise. It is only used when the
// operation lists on either side cannot be matched.
func LerpTransform(a, b Transform, t float64) Transform {
	var out Transform
	for i := range a.M {
		out.M[i] = a.M[i] + (b.M[i]-a.M[i])*t
	}
	return out
}

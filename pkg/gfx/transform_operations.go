package gfx

import "math"

// TransformOperationKind identifies a single step in a transform list.
type TransformOperationKind int

const (
	OpTranslate TransformOperationKind = iota
	OpRotate
	OpScale
	OpSkew
	OpPerspective
	OpMatrix
	OpIdentity
)

func (k TransformOperationKind) String() string {
	switch k {
	case OpTranslate:
		return "translate"
	case OpRotate:
		return "rotate"
	case OpScale:
		return "scale"
	case OpSkew:
		return "skew"
	case OpPerspective:
		return "perspective"
	case OpMatrix:
		return "matrix"
	case OpIdentity:
		return "identity"
	default:
		return "unknown"
	}
}

// TransformOperation is one entry of a CSS-style transform list. X, Y and Z
// carry the translate and scale components, Angle the rotation or skew in
// degrees (skew uses X and Y as angles), Depth the perspective depth, and
// Matrix is used only by OpMatrix.
type TransformOperation struct {
	Kind    TransformOperationKind
	X, Y, Z float64
	Angle   float64
	Depth   float64
	Matrix  Transform
}

// identityFor returns the neutral operation of the same kind.
func identityFor(kind TransformOperationKind) TransformOperation {
	switch kind {
	case OpScale:
		return TransformOperation{Kind: OpScale, X: 1, Y: 1, Z: 1}
	case OpMatrix:
		return TransformOperation{Kind: OpMatrix, Matrix: Identity()}
	default:
		return TransformOperation{Kind: kind}
	}
}

// Transform returns the matrix for this single operation.
func (op TransformOperation) Transform() Transform {
	switch op.Kind {
	case OpTranslate:
		return Translation(op.X, op.Y, op.Z)
	case OpRotate:
		return RotationZ(op.Angle)
	case OpScale:
		return Scaling(op.X, op.Y, op.Z)
	case OpSkew:
		return Skewing(op.X, op.Y)
	case OpPerspective:
		return PerspectiveDepth(op.Depth)
	case OpMatrix:
		return op.Matrix
	default:
		return Identity()
	}
}

func blendOperation(from, to TransformOperation, progress float64) TransformOperation {
	lerp := func(a, b float64) float64 { return a + (b-a)*progress }
	out := TransformOperation{Kind: to.Kind}
	switch to.Kind {
	case OpTranslate, OpScale, OpSkew:
		out.X, out.Y, out.Z = lerp(from.X, to.X), lerp(from.Y, to.Y), lerp(from.Z, to.Z)
	case OpRotate:
		out.Angle = lerp(from.Angle, to.Angle)
	case OpPerspective:
		out.Depth = lerp(from.Depth, to.Depth)
	case OpMatrix:
		out.Matrix = LerpTransform(from.Matrix, to.Matrix, progress)
	}
	return out
}

// TransformOperations is an ordered list of transform operations.
type TransformOperations []TransformOperation

// Translate appends a translation.
func (ops TransformOperations) Translate(x, y, z float64) TransformOperations {
	return append(ops, TransformOperation{Kind: OpTranslate, X: x, Y: y, Z: z})
}

// Scale appends a scale.
func (ops TransformOperations) Scale(x, y, z float64) TransformOperations {
	return append(ops, TransformOperation{Kind: OpScale, X: x, Y: y, Z: z})
}

// Rotate appends a rotation about z in degrees.
func (ops TransformOperations) Rotate(degrees float64) TransformOperations {
	return append(ops, TransformOperation{Kind: OpRotate, Angle: degrees})
}

// Skew appends a skew.
func (ops TransformOperations) Skew(xDegrees, yDegrees float64) TransformOperations {
	return append(ops, TransformOperation{Kind: OpSkew, X: xDegrees, Y: yDegrees})
}

// Perspective appends a perspective projection.
func (ops TransformOperations) Perspective(depth float64) TransformOperations {
	return append(ops, TransformOperation{Kind: OpPerspective, Depth: depth})
}

// AppendMatrix appends an arbitrary matrix.
func (ops TransformOperations) AppendMatrix(m Transform) TransformOperations {
	return append(ops, TransformOperation{Kind: OpMatrix, Matrix: m})
}

// Apply composes the list into one matrix, first operation outermost.
func (ops TransformOperations) Apply() Transform {
	t := Identity()
	for _, op := range ops {
		t = t.Concat(op.Transform())
	}
	return t
}

// Clone returns an independent copy of the list.
func (ops TransformOperations) Clone() TransformOperations {
	if ops == nil {
		return nil
	}
	out := make(TransformOperations, len(ops))
	copy(out, ops)
	return out
}

// MatchesTypes reports whether the two lists can be blended operation by
// operation. An empty list matches anything.
func (ops TransformOperations) MatchesTypes(other TransformOperations) bool {
	if len(ops) == 0 || len(other) == 0 {
		return true
	}
	if len(ops) != len(other) {
		return false
	}
	for i := range ops {
		if ops[i].Kind != other[i].Kind {
			return false
		}
	}
	return true
}

// Blend returns the transform between from (progress 0) and ops (progress 1).
func (ops TransformOperations) Blend(from TransformOperations, progress float64) Transform {
	if !ops.MatchesTypes(from) {
		return LerpTransform(from.Apply(), ops.Apply(), progress)
	}
	n := max(len(ops), len(from))
	t := Identity()
	for i := range n {
		var a, b TransformOperation
		switch {
		case i < len(from) && i < len(ops):
			a, b = from[i], ops[i]
		case i < len(ops):
			a, b = identityFor(ops[i].Kind), ops[i]
		default:
			a, b = from[i], identityFor(from[i].Kind)
		}
		t = t.Concat(blendOperation(a, b, progress).Transform())
	}
	return t
}

// IsTranslation reports whether every operation is a translation or identity.
func (ops TransformOperations) IsTranslation() bool {
	for _, op := range ops {
		switch op.Kind {
		case OpTranslate, OpIdentity:
		case OpMatrix:
			if !op.Matrix.IsTranslation() {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// PreservesAxisAlignment reports whether the list keeps axis aligned
// rectangles axis aligned.
func (ops TransformOperations) PreservesAxisAlignment() bool {
	for _, op := range ops {
		switch op.Kind {
		case OpTranslate, OpScale, OpIdentity:
		case OpRotate:
			if math.Mod(op.Angle, 90) != 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ScaleComponent returns the largest absolute scale factor in the list and
// whether it could be computed.
func (ops TransformOperations) ScaleComponent() (float64, bool) {
	scale := 1.0
	for _, op := range ops {
		switch op.Kind {
		case OpTranslate, OpRotate, OpIdentity:
		case OpScale:
			scale *= math.Max(math.Abs(op.X), math.Max(math.Abs(op.Y), math.Abs(op.Z)))
		default:
			return 0, false
		}
	}
	return scale, true
}

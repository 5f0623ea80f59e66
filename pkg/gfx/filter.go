package gfx

// FilterKind identifies a filter operation.
type FilterKind int

const (
	FilterGrayscale FilterKind = iota
	FilterSepia
	FilterSaturate
	FilterHueRotate
	FilterInvert
	FilterBrightness
	FilterContrast
	FilterOpacity
	FilterBlur
	FilterDropShadow
)

func (k FilterKind) String() string {
	switch k {
	case FilterGrayscale:
		return "grayscale"
	case FilterSepia:
		return "sepia"
	case FilterSaturate:
		return "saturate"
	case FilterHueRotate:
		return "hue-rotate"
	case FilterInvert:
		return "invert"
	case FilterBrightness:
		return "brightness"
	case FilterContrast:
		return "contrast"
	case FilterOpacity:
		return "opacity"
	case FilterBlur:
		return "blur"
	case FilterDropShadow:
		return "drop-shadow"
	default:
		return "unknown"
	}
}

// neutralAmount is the amount at which a filter has no visible effect.
func (k FilterKind) neutralAmount() float64 {
	switch k {
	case FilterSaturate, FilterBrightness, FilterContrast, FilterOpacity:
		return 1
	default:
		return 0
	}
}

// FilterOperation is a single filter with its amount. Blur and drop shadow
// use Amount as a radius; drop shadow also uses Offset and Color.
type FilterOperation struct {
	Kind   FilterKind
	Amount float64
	Offset ScrollOffset
	Color  Color
}

// MovesPixels reports whether the filter can draw outside the source bounds.
func (op FilterOperation) MovesPixels() bool {
	return op.Kind == FilterBlur || op.Kind == FilterDropShadow
}

// FilterOperations is an ordered filter chain.
type FilterOperations []FilterOperation

// Clone returns an independent copy.
func (ops FilterOperations) Clone() FilterOperations {
	if ops == nil {
		return nil
	}
	out := make(FilterOperations, len(ops))
	copy(out, ops)
	return out
}

// HasFilterThatMovesPixels reports whether any operation moves pixels.
func (ops FilterOperations) HasFilterThatMovesPixels() bool {
	for _, op := range ops {
		if op.MovesPixels() {
			return true
		}
	}
	return false
}

// Equal reports whether both chains hold the same operations.
func (ops FilterOperations) Equal(other FilterOperations) bool {
	if len(ops) != len(other) {
		return false
	}
	for i := range ops {
		if ops[i] != other[i] {
			return false
		}
	}
	return true
}

// Blend interpolates from (progress 0) toward ops (progress 1). Chains whose
// kinds do not line up snap to the nearer endpoint.
func (ops FilterOperations) Blend(from FilterOperations, progress float64) FilterOperations {
	n := max(len(ops), len(from))
	out := make(FilterOperations, 0, n)
	for i := range n {
		var a, b FilterOperation
		switch {
		case i < len(from) && i < len(ops):
			a, b = from[i], ops[i]
			if a.Kind != b.Kind {
				if progress < 0.5 {
					return from.Clone()
				}
				return ops.Clone()
			}
		case i < len(ops):
			b = ops[i]
			a = FilterOperation{Kind: b.Kind, Amount: b.Kind.neutralAmount()}
		default:
			a = from[i]
			b = FilterOperation{Kind: a.Kind, Amount: a.Kind.neutralAmount()}
		}
		out = append(out, FilterOperation{
			Kind:   b.Kind,
			Amount: a.Amount + (b.Amount-a.Amount)*progress,
			Offset: LerpScrollOffset(a.Offset, b.Offset, progress),
			Color:  LerpColor(a.Color, b.Color, progress),
		})
	}
	return out
}

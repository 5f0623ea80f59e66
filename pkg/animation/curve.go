package animation

import (
	"time"

	"github.com/go-drift/compositor/pkg/gfx"
)

// CurveKind tags the value type a curve produces.
type CurveKind int

const (
	CurveFloat CurveKind = iota
	CurveTransform
	CurveFilter
	CurveScrollOffset
	CurveColor
)

func (k CurveKind) String() string {
	switch k {
	case CurveFloat:
		return "float"
	case CurveTransform:
		return "transform"
	case CurveFilter:
		return "filter"
	case CurveScrollOffset:
		return "scroll-offset"
	case CurveColor:
		return "color"
	default:
		return "unknown"
	}
}

// Curve is the closed set of animation curves. The concrete types are
// *FloatCurve, *TransformCurve, *FilterCurve, *ColorCurve and
// *ScrollOffsetAnimationCurve; callers switch on them directly.
type Curve interface {
	Kind() CurveKind
	Duration() time.Duration
	Clone() Curve
	// Value evaluates the curve at local time t.
	Value(t time.Duration) Value

	curve()
}

// Value is the result of evaluating a curve. Only the field selected by
// Kind is meaningful.
type Value struct {
	Kind         CurveKind
	Float        float64
	Transform    gfx.Transform
	Filter       gfx.FilterOperations
	ScrollOffset gfx.ScrollOffset
	Color        gfx.Color
}

// Keyframe is one stop of a keyframed curve. Timing eases the segment that
// starts at this keyframe; nil means linear.
type Keyframe[T any] struct {
	Time   time.Duration
	Value  T
	Timing TimingFunction
}

// keyframes is the shared evaluator behind the keyframed curve types.
type keyframes[T any] struct {
	frames []Keyframe[T]
	timing TimingFunction
}

// insert keeps frames sorted by time; equal times keep insertion order.
func (k *keyframes[T]) insert(f Keyframe[T]) {
	i := len(k.frames)
	for i > 0 && k.frames[i-1].Time > f.Time {
		i--
	}
	k.frames = append(k.frames, Keyframe[T]{})
	copy(k.frames[i+1:], k.frames[i:])
	k.frames[i] = f
}

func (k *keyframes[T]) duration() time.Duration {
	if len(k.frames) == 0 {
		return 0
	}
	return k.frames[len(k.frames)-1].Time - k.frames[0].Time
}

func (k *keyframes[T]) clone() keyframes[T] {
	return keyframes[T]{frames: append([]Keyframe[T](nil), k.frames...), timing: k.timing}
}

// locate returns the segment containing t and the eased progress within it.
// When t lies outside the keyframe range, from == to and progress is zero.
func (k *keyframes[T]) locate(t time.Duration) (from, to int, progress float64) {
	n := len(k.frames)
	if n == 0 {
		return -1, -1, 0
	}
	first, last := k.frames[0].Time, k.frames[n-1].Time
	if k.timing != nil && last > first {
		p := float64(t-first) / float64(last-first)
		t = first + time.Duration(k.timing.GetValue(p)*float64(last-first))
	}
	if t <= first {
		return 0, 0, 0
	}
	if t >= last {
		return n - 1, n - 1, 0
	}
	i := 0
	for ; i < n-2; i++ {
		if t < k.frames[i+1].Time {
			break
		}
	}
	a, b := k.frames[i], k.frames[i+1]
	progress = float64(t-a.Time) / float64(b.Time-a.Time)
	if a.Timing != nil {
		progress = a.Timing.GetValue(progress)
	}
	return i, i + 1, progress
}

// FloatCurve animates a scalar such as opacity.
type FloatCurve struct {
	keyframes[float64]
}

// NewFloatCurve returns an empty curve with an optional curve-wide timing
// function applied on top of the per-keyframe ones.
func NewFloatCurve(timing TimingFunction) *FloatCurve {
	return &FloatCurve{keyframes[float64]{timing: timing}}
}

// AddKeyframe inserts a keyframe and returns the curve for chaining.
func (c *FloatCurve) AddKeyframe(f Keyframe[float64]) *FloatCurve {
	c.insert(f)
	return c
}

// GetValue evaluates the curve.
func (c *FloatCurve) GetValue(t time.Duration) float64 {
	from, to, p := c.locate(t)
	if from < 0 {
		return 0
	}
	if from == to {
		return c.frames[from].Value
	}
	return Lerp(c.frames[from].Value, c.frames[to].Value, p)
}

func (c *FloatCurve) Kind() CurveKind         { return CurveFloat }
func (c *FloatCurve) Duration() time.Duration { return c.duration() }
func (c *FloatCurve) Clone() Curve            { return &FloatCurve{c.clone()} }
func (c *FloatCurve) Value(t time.Duration) Value {
	return Value{Kind: CurveFloat, Float: c.GetValue(t)}
}
func (*FloatCurve) curve() {}

// TransformCurve animates a transform operation list.
type TransformCurve struct {
	keyframes[gfx.TransformOperations]
}

// NewTransformCurve returns an empty transform curve.
func NewTransformCurve(timing TimingFunction) *TransformCurve {
	return &TransformCurve{keyframes[gfx.TransformOperations]{timing: timing}}
}

// AddKeyframe inserts a keyframe and returns the curve for chaining.
func (c *TransformCurve) AddKeyframe(f Keyframe[gfx.TransformOperations]) *TransformCurve {
	c.insert(f)
	return c
}

// GetValue evaluates the curve.
func (c *TransformCurve) GetValue(t time.Duration) gfx.Transform {
	from, to, p := c.locate(t)
	if from < 0 {
		return gfx.Identity()
	}
	if from == to {
		return c.frames[from].Value.Apply()
	}
	return c.frames[to].Value.Blend(c.frames[from].Value, p)
}

// IsTranslation reports whether every keyframe only translates.
func (c *TransformCurve) IsTranslation() bool {
	for _, f := range c.frames {
		if !f.Value.IsTranslation() {
			return false
		}
	}
	return true
}

// PreservesAxisAlignment reports whether every keyframe keeps axis
// alignment.
func (c *TransformCurve) PreservesAxisAlignment() bool {
	for _, f := range c.frames {
		if !f.Value.PreservesAxisAlignment() {
			return false
		}
	}
	return true
}

// AnimatedBoundsForBox returns the union of box mapped through every
// keyframe. It only succeeds for translation curves, where that union is
// exact; other curves report false.
func (c *TransformCurve) AnimatedBoundsForBox(box gfx.Box) (gfx.Box, bool) {
	if len(c.frames) == 0 || !c.IsTranslation() {
		return gfx.Box{}, false
	}
	bounds := c.frames[0].Value.Apply().MapBox(box)
	for _, f := range c.frames[1:] {
		bounds = bounds.Union(f.Value.Apply().MapBox(box))
	}
	return bounds, true
}

// AnimationStartScale returns the scale at the keyframe where playback
// begins. forwardDirection selects the first or last keyframe.
func (c *TransformCurve) AnimationStartScale(forwardDirection bool) (float64, bool) {
	if len(c.frames) == 0 {
		return 0, false
	}
	f := c.frames[0]
	if !forwardDirection {
		f = c.frames[len(c.frames)-1]
	}
	return f.Value.ScaleComponent()
}

// MaximumTargetScale returns the largest scale reached at a keyframe other
// than the starting one.
func (c *TransformCurve) MaximumTargetScale(forwardDirection bool) (float64, bool) {
	if len(c.frames) < 2 {
		return 0, false
	}
	frames := c.frames[1:]
	if !forwardDirection {
		frames = c.frames[:len(c.frames)-1]
	}
	var maxScale float64
	for _, f := range frames {
		s, ok := f.Value.ScaleComponent()
		if !ok {
			return 0, false
		}
		maxScale = max(maxScale, s)
	}
	return maxScale, true
}

func (c *TransformCurve) Kind() CurveKind         { return CurveTransform }
func (c *TransformCurve) Duration() time.Duration { return c.duration() }
func (c *TransformCurve) Clone() Curve {
	k := c.clone()
	for i := range k.frames {
		k.frames[i].Value = k.frames[i].Value.Clone()
	}
	return &TransformCurve{k}
}
func (c *TransformCurve) Value(t time.Duration) Value {
	return Value{Kind: CurveTransform, Transform: c.GetValue(t)}
}
func (*TransformCurve) curve() {}

// FilterCurve animates a filter chain.
type FilterCurve struct {
	keyframes[gfx.FilterOperations]
}

// NewFilterCurve returns an empty filter curve.
func NewFilterCurve(timing TimingFunction) *FilterCurve {
	return &FilterCurve{keyframes[gfx.FilterOperations]{timing: timing}}
}

// AddKeyframe inserts a keyframe and returns the curve for chaining.
func (c *FilterCurve) AddKeyframe(f Keyframe[gfx.FilterOperations]) *FilterCurve {
	c.insert(f)
	return c
}

// GetValue evaluates the curve.
func (c *FilterCurve) GetValue(t time.Duration) gfx.FilterOperations {
	from, to, p := c.locate(t)
	if from < 0 {
		return nil
	}
	if from == to {
		return c.frames[from].Value.Clone()
	}
	return c.frames[to].Value.Blend(c.frames[from].Value, p)
}

// HasFilterThatMovesPixels reports whether any keyframe blurs or shadows.
func (c *FilterCurve) HasFilterThatMovesPixels() bool {
	for _, f := range c.frames {
		if f.Value.HasFilterThatMovesPixels() {
			return true
		}
	}
	return false
}

func (c *FilterCurve) Kind() CurveKind         { return CurveFilter }
func (c *FilterCurve) Duration() time.Duration { return c.duration() }
func (c *FilterCurve) Clone() Curve {
	k := c.clone()
	for i := range k.frames {
		k.frames[i].Value = k.frames[i].Value.Clone()
	}
	return &FilterCurve{k}
}
func (c *FilterCurve) Value(t time.Duration) Value {
	return Value{Kind: CurveFilter, Filter: c.GetValue(t)}
}
func (*FilterCurve) curve() {}

// ColorCurve animates a background color. Its values are computed but never
// pushed to the scene tree.
type ColorCurve struct {
	keyframes[gfx.Color]
}

// NewColorCurve returns an empty color curve.
func NewColorCurve(timing TimingFunction) *ColorCurve {
	return &ColorCurve{keyframes[gfx.Color]{timing: timing}}
}

// AddKeyframe inserts a keyframe and returns the curve for chaining.
func (c *ColorCurve) AddKeyframe(f Keyframe[gfx.Color]) *ColorCurve {
	c.insert(f)
	return c
}

// GetValue evaluates the curve.
func (c *ColorCurve) GetValue(t time.Duration) gfx.Color {
	from, to, p := c.locate(t)
	if from < 0 {
		return 0
	}
	if from == to {
		return c.frames[from].Value
	}
	return gfx.LerpColor(c.frames[from].Value, c.frames[to].Value, p)
}

func (c *ColorCurve) Kind() CurveKind         { return CurveColor }
func (c *ColorCurve) Duration() time.Duration { return c.duration() }
func (c *ColorCurve) Clone() Curve            { return &ColorCurve{c.clone()} }
func (c *ColorCurve) Value(t time.Duration) Value {
	return Value{Kind: CurveColor, Color: c.GetValue(t)}
}
func (*ColorCurve) curve() {}

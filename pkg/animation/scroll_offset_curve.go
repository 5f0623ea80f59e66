package animation

import (
	"math"
	"time"

	"github.com/go-drift/compositor/pkg/gfx"
)

// DurationBehavior picks how a scroll animation's duration follows from the
// distance it travels. Durations are measured in 60 Hz frames.
type DurationBehavior int

const (
	// DurationDeltaBased grows with the square root of the distance.
	DurationDeltaBased DurationBehavior = iota
	// DurationConstant always takes nine frames.
	DurationConstant
	// DurationInverseDelta is longer for short scrolls and shorter for long
	// ones, which keeps wheel ticks feeling responsive.
	DurationInverseDelta
)

func (d DurationBehavior) String() string {
	switch d {
	case DurationDeltaBased:
		return "delta_based"
	case DurationConstant:
		return "constant"
	case DurationInverseDelta:
		return "inverse_delta"
	default:
		return "unknown"
	}
}

// ParseDurationBehavior maps a behavior name back to its value.
func ParseDurationBehavior(s string) (DurationBehavior, bool) {
	for d := DurationDeltaBased; d <= DurationInverseDelta; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return 0, false
}

const (
	durationDivisor         = 60.0
	constantDuration        = 9.0
	deltaBasedMaxDuration   = 12.0
	inverseDeltaRampStartPx = 120.0
	inverseDeltaRampEndPx   = 480.0
	inverseDeltaMinDuration = 6.0
	inverseDeltaMaxDuration = 12.0
	inverseDeltaSlope       = (inverseDeltaMinDuration - inverseDeltaMaxDuration) /
		(inverseDeltaRampEndPx - inverseDeltaRampStartPx)
	inverseDeltaOffset = inverseDeltaMaxDuration - inverseDeltaRampStartPx*inverseDeltaSlope

	scrollEpsilon = 0.01
)

// maximumDimension returns the component of delta with the larger magnitude.
func maximumDimension(delta gfx.ScrollOffset) float64 {
	if math.Abs(delta.X()) > math.Abs(delta.Y()) {
		return delta.X()
	}
	return delta.Y()
}

func segmentDuration(delta gfx.ScrollOffset, behavior DurationBehavior) float64 {
	frames := constantDuration
	switch behavior {
	case DurationDeltaBased:
		frames = math.Min(math.Sqrt(math.Abs(maximumDimension(delta))), deltaBasedMaxDuration)
	case DurationInverseDelta:
		frames = Clamp(inverseDeltaOffset+math.Abs(maximumDimension(delta))*inverseDeltaSlope,
			inverseDeltaMinDuration, inverseDeltaMaxDuration)
	}
	return frames / durationDivisor
}

// velocityBasedDurationBound estimates, in seconds, how long reaching the
// new target takes at the current velocity with an ease-out fudge factor.
func velocityBasedDurationBound(oldDelta gfx.ScrollOffset, oldNormalizedVelocity, oldDuration float64, newDelta gfx.ScrollOffset) float64 {
	oldMax := maximumDimension(oldDelta)
	newMax := maximumDimension(newDelta)
	if math.Abs(newMax) < scrollEpsilon {
		return 0
	}
	if math.Abs(oldMax) < scrollEpsilon || math.Abs(oldNormalizedVelocity) < scrollEpsilon {
		return math.Inf(1)
	}
	trueVelocity := oldNormalizedVelocity * oldMax / oldDuration
	bound := newMax / trueVelocity * 2.5
	if bound < 0 {
		return math.Inf(1)
	}
	return bound
}

// easeOutWithInitialVelocity is ease-in-out with its first control point
// raised so the curve leaves with the given normalized velocity.
func easeOutWithInitialVelocity(velocity float64) TimingFunction {
	velocity = Clamp(velocity, -1000, 1000)
	const x1 = 0.42
	return CubicBezier(x1, velocity*x1, 0.58, 1)
}

// ScrollOffsetAnimationCurve animates a scroll position toward a target that
// may be moved while the animation runs.
type ScrollOffsetAnimationCurve struct {
	initial         gfx.ScrollOffset
	target          gfx.ScrollOffset
	hasInitialValue bool
	totalDuration   time.Duration
	lastRetarget    time.Duration
	timing          TimingFunction
	behavior        DurationBehavior
}

// NewScrollOffsetAnimationCurve returns a curve toward target. The duration
// is known once SetInitialValue is called.
func NewScrollOffsetAnimationCurve(target gfx.ScrollOffset, timing TimingFunction, behavior DurationBehavior) *ScrollOffsetAnimationCurve {
	if timing == nil {
		timing = EaseInOut
	}
	return &ScrollOffsetAnimationCurve{target: target, timing: timing, behavior: behavior}
}

// SetInitialValue sets the starting position and derives the duration.
func (c *ScrollOffsetAnimationCurve) SetInitialValue(initial gfx.ScrollOffset) {
	c.initial = initial
	c.hasInitialValue = true
	c.totalDuration = durationFromSeconds(segmentDuration(c.target.Sub(initial), c.behavior))
}

// HasSetInitialValue reports whether SetInitialValue has been called.
func (c *ScrollOffsetAnimationCurve) HasSetInitialValue() bool { return c.hasInitialValue }

// TargetValue returns the current target.
func (c *ScrollOffsetAnimationCurve) TargetValue() gfx.ScrollOffset { return c.target }

// GetValue evaluates the curve at t.
func (c *ScrollOffsetAnimationCurve) GetValue(t time.Duration) gfx.ScrollOffset {
	duration := c.totalDuration - c.lastRetarget
	t -= c.lastRetarget
	if t <= 0 {
		return c.initial
	}
	if t >= duration {
		return c.target
	}
	progress := c.timing.GetValue(float64(t) / float64(duration))
	return gfx.LerpScrollOffset(c.initial, c.target, progress)
}

// UpdateTarget moves the target while the animation is at t seconds. The
// remaining motion starts from the current position with the current
// velocity.
func (c *ScrollOffsetAnimationCurve) UpdateTarget(t float64, newTarget gfx.ScrollOffset) {
	if math.Abs(maximumDimension(c.target.Sub(newTarget))) < scrollEpsilon {
		c.target = newTarget
		return
	}

	current := c.GetValue(durationFromSeconds(t))
	oldDelta := c.target.Sub(c.initial)
	newDelta := newTarget.Sub(current)

	lastRetarget := c.lastRetarget.Seconds()
	oldDuration := (c.totalDuration - c.lastRetarget).Seconds()
	if oldDuration == 0 {
		c.totalDuration = durationFromSeconds(segmentDuration(newDelta, c.behavior))
		c.target = newTarget
		return
	}

	oldNormalizedVelocity := c.timing.Velocity((t - lastRetarget) / oldDuration)
	newDuration := math.Min(segmentDuration(newDelta, c.behavior),
		velocityBasedDurationBound(oldDelta, oldNormalizedVelocity, oldDuration, newDelta))
	if newDuration < scrollEpsilon {
		// Already at or next to the new target.
		c.target = newTarget
		c.totalDuration = durationFromSeconds(t)
		return
	}

	newVelocity := oldNormalizedVelocity * (newDuration / oldDuration) *
		(maximumDimension(oldDelta) / maximumDimension(newDelta))

	c.initial = current
	c.target = newTarget
	c.totalDuration = durationFromSeconds(t + newDuration)
	c.lastRetarget = durationFromSeconds(t)
	c.timing = easeOutWithInitialVelocity(newVelocity)
}

func (c *ScrollOffsetAnimationCurve) Kind() CurveKind         { return CurveScrollOffset }
func (c *ScrollOffsetAnimationCurve) Duration() time.Duration { return c.totalDuration }
func (c *ScrollOffsetAnimationCurve) Clone() Curve {
	clone := *c
	return &clone
}
func (c *ScrollOffsetAnimationCurve) Value(t time.Duration) Value {
	return Value{Kind: CurveScrollOffset, ScrollOffset: c.GetValue(t)}
}
func (*ScrollOffsetAnimationCurve) curve() {}

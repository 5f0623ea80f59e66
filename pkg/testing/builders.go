package testing

import (
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/gfx"
)

// AnimationAdder is anything animations can be added to: a player or an
// element's animations.
type AnimationAdder interface {
	AddAnimation(a *animation.Animation)
}

func add(target AnimationAdder, ids *animation.IDProvider, curve animation.Curve, property animation.TargetProperty) int {
	id := ids.NextAnimationID()
	a := animation.NewAnimation(curve, id, ids.NextGroupID(), property)
	a.SetNeedsSynchronizedStartTime(true)
	target.AddAnimation(a)
	return id
}

// AddOpacityTransition adds a fade from start to end over duration and
// returns the animation id. Without useTimingFunction the fade is linear;
// with it, the first segment eases.
func AddOpacityTransition(target AnimationAdder, ids *animation.IDProvider, duration time.Duration, start, end float64, useTimingFunction bool) int {
	curve := animation.NewFloatCurve(nil)
	var timing animation.TimingFunction
	if useTimingFunction {
		timing = animation.Ease
	}
	if duration > 0 {
		curve.AddKeyframe(animation.Keyframe[float64]{Time: 0, Value: start, Timing: timing})
	}
	curve.AddKeyframe(animation.Keyframe[float64]{Time: duration, Value: end})
	return add(target, ids, curve, animation.TargetOpacity)
}

// AddOpacityStepsToElement adds a stepped fade that jumps at the middle of
// each of numSteps steps.
func AddOpacityStepsToElement(target AnimationAdder, ids *animation.IDProvider, duration time.Duration, start, end float64, numSteps int) int {
	curve := animation.NewFloatCurve(nil).
		AddKeyframe(animation.Keyframe[float64]{Time: 0, Value: start, Timing: animation.Steps(numSteps, animation.StepMiddle)}).
		AddKeyframe(animation.Keyframe[float64]{Time: duration, Value: end})
	return add(target, ids, curve, animation.TargetOpacity)
}

// AddAnimatedTransform adds a translation from the origin to (dx, dy).
func AddAnimatedTransform(target AnimationAdder, ids *animation.IDProvider, duration time.Duration, dx, dy float64) int {
	return AddAnimatedTransformOperations(target, ids, duration, nil, gfx.TransformOperations{}.Translate(dx, dy, 0))
}

// AddAnimatedTransformOperations adds a transform animation between two
// operation lists.
func AddAnimatedTransformOperations(target AnimationAdder, ids *animation.IDProvider, duration time.Duration, from, to gfx.TransformOperations) int {
	curve := animation.NewTransformCurve(nil)
	if duration > 0 {
		curve.AddKeyframe(animation.Keyframe[gfx.TransformOperations]{Time: 0, Value: from})
	}
	curve.AddKeyframe(animation.Keyframe[gfx.TransformOperations]{Time: duration, Value: to})
	return add(target, ids, curve, animation.TargetTransform)
}

// AddAnimatedFilter adds a brightness animation.
func AddAnimatedFilter(target AnimationAdder, ids *animation.IDProvider, duration time.Duration, startBrightness, endBrightness float64) int {
	curve := animation.NewFilterCurve(nil)
	if duration > 0 {
		curve.AddKeyframe(animation.Keyframe[gfx.FilterOperations]{
			Time:  0,
			Value: gfx.FilterOperations{{Kind: gfx.FilterBrightness, Amount: startBrightness}},
		})
	}
	curve.AddKeyframe(animation.Keyframe[gfx.FilterOperations]{
		Time:  duration,
		Value: gfx.FilterOperations{{Kind: gfx.FilterBrightness, Amount: endBrightness}},
	})
	return add(target, ids, curve, animation.TargetFilter)
}

// AddScrollOffsetAnimation adds a smooth scroll to target. A nil initial
// leaves the start offset to be read from the client on commit.
func AddScrollOffsetAnimation(adder AnimationAdder, ids *animation.IDProvider, target gfx.ScrollOffset, initial *gfx.ScrollOffset) int {
	curve := animation.NewScrollOffsetAnimationCurve(target, animation.EaseInOut, animation.DurationDeltaBased)
	if initial != nil {
		curve.SetInitialValue(*initial)
	}
	return add(adder, ids, curve, animation.TargetScrollOffset)
}

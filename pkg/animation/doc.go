// Package animation provides the value types of the compositor animation
// system: animations, curves, timing functions and the events that cross
// the commit boundary.
//
// # Core Components
//
//   - [Animation]: one timed instance of a [Curve] bound to a
//     [TargetProperty]. It owns the run state machine and maps monotonic
//     frame time onto curve-local time through iterations, direction,
//     fill mode, playback rate and time offset.
//
//   - [Curve]: keyframed value curves for opacity ([FloatCurve]),
//     transforms ([TransformCurve]), filters ([FilterCurve]) and colors
//     ([ColorCurve]), plus [ScrollOffsetAnimationCurve] for smooth scrolls
//     whose target may move while running.
//
//   - [TimingFunction]: cubic béziers, steps, the named easings from
//     [Easing] and damped springs from [Spring].
//
//   - [AnimationEvent]: STARTED, FINISHED, ABORTED, PROPERTY_UPDATE and
//     TAKEOVER notifications sent from the impl side to the main side.
//
// # Time
//
// Frame time is [TimeTicks], nanoseconds on a monotonic clock. The zero
// value means "unset", so embedders start their clocks after zero.
//
// # Basic Usage
//
//	curve := animation.NewFloatCurve(animation.EaseInOut).
//		AddKeyframe(animation.Keyframe[float64]{Time: 0, Value: 0}).
//		AddKeyframe(animation.Keyframe[float64]{Time: 300 * time.Millisecond, Value: 1})
//	a := animation.NewAnimation(curve, ids.NextAnimationID(), ids.NextGroupID(), animation.TargetOpacity)
//
// Animations are not run directly; attach them to a player in package
// animhost, which ticks them every frame.
package animation

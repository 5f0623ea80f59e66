package config

import (
	"fmt"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/gfx"
)

// Build turns the scenario entry into an animation with the given ids. Scroll
// animations without From read their start offset from the scene on commit.
func (a AnimationSpec) Build(id, group int) (*animation.Animation, error) {
	property, ok := animation.ParseTargetProperty(a.Property)
	if !ok {
		return nil, fmt.Errorf("unknown property %q", a.Property)
	}
	timing, err := ParseTimingFunction(a.Timing)
	if err != nil {
		return nil, err
	}

	curve, err := a.curve(property, timing)
	if err != nil {
		return nil, err
	}
	anim := animation.NewAnimation(curve, id, group, property)
	anim.SetNeedsSynchronizedStartTime(true)
	anim.SetTimeOffset(a.TimeOffset.Std())
	if a.Iterations != nil {
		anim.SetIterations(*a.Iterations)
	}
	if a.PlaybackRate != nil {
		anim.SetPlaybackRate(*a.PlaybackRate)
	}
	if a.Direction != "" {
		d, ok := animation.ParseDirection(a.Direction)
		if !ok {
			return nil, fmt.Errorf("unknown direction %q", a.Direction)
		}
		anim.SetDirection(d)
	}
	if a.Fill != "" {
		f, ok := animation.ParseFillMode(a.Fill)
		if !ok {
			return nil, fmt.Errorf("unknown fill mode %q", a.Fill)
		}
		anim.SetFillMode(f)
	}
	return anim, nil
}

func (a AnimationSpec) curve(property animation.TargetProperty, timing animation.TimingFunction) (animation.Curve, error) {
	d := a.Duration.Std()
	if property != animation.TargetScrollOffset && d <= 0 {
		return nil, fmt.Errorf("duration must be positive")
	}

	switch property {
	case animation.TargetOpacity:
		if len(a.From) != 1 || len(a.To) != 1 {
			return nil, fmt.Errorf("opacity needs one from and one to value")
		}
		return animation.NewFloatCurve(nil).
			AddKeyframe(animation.Keyframe[float64]{Time: 0, Value: a.From[0], Timing: timing}).
			AddKeyframe(animation.Keyframe[float64]{Time: d, Value: a.To[0]}), nil

	case animation.TargetTransform:
		if len(a.From) != 2 || len(a.To) != 2 {
			return nil, fmt.Errorf("transform needs (x, y) from and to translations")
		}
		return animation.NewTransformCurve(nil).
			AddKeyframe(animation.Keyframe[gfx.TransformOperations]{
				Time: 0, Value: gfx.TransformOperations{}.Translate(a.From[0], a.From[1], 0), Timing: timing,
			}).
			AddKeyframe(animation.Keyframe[gfx.TransformOperations]{
				Time: d, Value: gfx.TransformOperations{}.Translate(a.To[0], a.To[1], 0),
			}), nil

	case animation.TargetFilter:
		if len(a.From) != 1 || len(a.To) != 1 {
			return nil, fmt.Errorf("filter needs one from and one to blur radius")
		}
		return animation.NewFilterCurve(nil).
			AddKeyframe(animation.Keyframe[gfx.FilterOperations]{
				Time: 0, Value: gfx.FilterOperations{{Kind: gfx.FilterBlur, Amount: a.From[0]}}, Timing: timing,
			}).
			AddKeyframe(animation.Keyframe[gfx.FilterOperations]{
				Time: d, Value: gfx.FilterOperations{{Kind: gfx.FilterBlur, Amount: a.To[0]}},
			}), nil

	case animation.TargetScrollOffset:
		if len(a.To) != 2 {
			return nil, fmt.Errorf("scroll-offset needs an (x, y) target")
		}
		if timing == nil {
			timing = animation.EaseInOut
		}
		c := animation.NewScrollOffsetAnimationCurve(gfx.NewScrollOffset(a.To[0], a.To[1]), timing, animation.DurationDeltaBased)
		switch len(a.From) {
		case 0:
		case 2:
			c.SetInitialValue(gfx.NewScrollOffset(a.From[0], a.From[1]))
		default:
			return nil, fmt.Errorf("scroll-offset from needs two values")
		}
		return c, nil
	}
	return nil, fmt.Errorf("property %s cannot be scripted", property)
}

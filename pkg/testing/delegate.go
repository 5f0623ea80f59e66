package testing

import (
	"github.com/go-drift/compositor/pkg/animation"
)

// DelegateEvent is one notification received by FakeDelegate.
type DelegateEvent struct {
	Type     animation.AnimationEventType
	Time     animation.TimeTicks
	Property animation.TargetProperty
	Group    int
}

// FakeDelegate records the lifecycle notifications of a player.
type FakeDelegate struct {
	Events []DelegateEvent

	Started  bool
	Finished bool
	Aborted  bool
	Takeover bool

	StartTime          animation.TimeTicks
	AnimationStartTime float64
	TakeoverCurve      animation.Curve
}

func (d *FakeDelegate) NotifyAnimationStarted(t animation.TimeTicks, property animation.TargetProperty, group int) {
	d.Started = true
	d.StartTime = t
	d.Events = append(d.Events, DelegateEvent{animation.EventStarted, t, property, group})
}

func (d *FakeDelegate) NotifyAnimationFinished(t animation.TimeTicks, property animation.TargetProperty, group int) {
	d.Finished = true
	d.Events = append(d.Events, DelegateEvent{animation.EventFinished, t, property, group})
}

func (d *FakeDelegate) NotifyAnimationAborted(t animation.TimeTicks, property animation.TargetProperty, group int) {
	d.Aborted = true
	d.Events = append(d.Events, DelegateEvent{animation.EventAborted, t, property, group})
}

func (d *FakeDelegate) NotifyAnimationTakeover(t animation.TimeTicks, property animation.TargetProperty, animationStartTime float64, curve animation.Curve) {
	d.Takeover = true
	d.AnimationStartTime = animationStartTime
	d.TakeoverCurve = curve
	d.Events = append(d.Events, DelegateEvent{animation.EventTakeover, t, property, 0})
}

// Reset forgets every recorded notification.
func (d *FakeDelegate) Reset() { *d = FakeDelegate{} }

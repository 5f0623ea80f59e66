package animhost

import (
	"math"
	"testing"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/errors"
	"github.com/go-drift/compositor/pkg/gfx"
	animtest "github.com/go-drift/compositor/pkg/testing"
)

const testElement animation.ElementID = 1

// initialTick is the first frame time used by tests. Zero means unset, so
// frames start one second in.
var initialTick = animtest.Ticks(time.Second)

func at(d time.Duration) animation.TimeTicks { return initialTick.Add(d) }

// fixture is a main host and its impl mirror with one timeline and one
// player targeting testElement. The main element is in the active tree; the
// impl element is in both trees.
type fixture struct {
	t   *testing.T
	ids *animation.IDProvider

	client     *animtest.RecordingClient
	clientImpl *animtest.RecordingClient
	host       *AnimationHost
	hostImpl   *AnimationHost

	timeline *AnimationTimeline
	player   *AnimationPlayer
	delegate *animtest.FakeDelegate

	delegateImpl *animtest.FakeDelegate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	prev := errors.SetStrict(true)
	t.Cleanup(func() { errors.SetStrict(prev) })

	f := &fixture{t: t, ids: animation.NewIDProvider()}
	f.client = animtest.NewRecordingClient()
	f.host = NewMainHost(f.client, WithIDProvider(f.ids), WithScrollDurationBehavior(animation.DurationInverseDelta))
	f.client.SetHost(f.host)

	f.clientImpl = animtest.NewRecordingClient()
	f.hostImpl = f.host.CreateImplInstance(f.clientImpl)
	f.clientImpl.SetHost(f.hostImpl)

	f.client.RegisterElement(testElement, animation.ListActive)
	f.clientImpl.RegisterElement(testElement, animation.ListPending)
	f.clientImpl.RegisterElement(testElement, animation.ListActive)

	f.timeline = NewAnimationTimeline(f.ids.NextTimelineID())
	if err := f.host.AddAnimationTimeline(f.timeline); err != nil {
		t.Fatal(err)
	}
	f.player = NewAnimationPlayer(f.ids.NextPlayerID())
	f.delegate = &animtest.FakeDelegate{}
	f.player.SetAnimationDelegate(f.delegate)
	if err := f.timeline.AttachPlayer(f.player); err != nil {
		t.Fatal(err)
	}
	return f
}

// attach binds the player to testElement and commits so the impl side has
// a mirror of the element.
func (f *fixture) attach() *fixture {
	f.t.Helper()
	if err := f.player.AttachElement(testElement); err != nil {
		f.t.Fatal(err)
	}
	f.push()
	f.delegateImpl = &animtest.FakeDelegate{}
	f.playerImpl().SetAnimationDelegate(f.delegateImpl)
	return f
}

func (f *fixture) push() {
	f.host.PushPropertiesTo(f.hostImpl)
}

func (f *fixture) playerImpl() *AnimationPlayer {
	f.t.Helper()
	ti := f.hostImpl.GetTimelineByID(f.timeline.ID())
	if ti == nil {
		f.t.Fatal("timeline was not pushed")
	}
	p := ti.GetPlayerByID(f.player.ID())
	if p == nil {
		f.t.Fatal("player was not pushed")
	}
	return p
}

func (f *fixture) animations() *ElementAnimations {
	f.t.Helper()
	e := f.host.GetElementAnimationsForElementID(testElement)
	if e == nil {
		f.t.Fatal("no main element animations")
	}
	return e
}

func (f *fixture) animationsImpl() *ElementAnimations {
	f.t.Helper()
	e := f.hostImpl.GetElementAnimationsForElementID(testElement)
	if e == nil {
		f.t.Fatal("no impl element animations")
	}
	return e
}

func (f *fixture) opacity(c *animtest.RecordingClient, list animation.ElementListType) float64 {
	f.t.Helper()
	v, ok := c.Opacity(testElement, list)
	if !ok {
		f.t.Fatalf("no %s opacity recorded", list)
	}
	return v
}

// unsynced builds an animation that starts on its own side without waiting
// for the other side's start time.
func unsynced(a *animation.Animation) *animation.Animation {
	a.SetNeedsSynchronizedStartTime(false)
	return a
}

// controlling returns a copy that owns its FINISHED acknowledgment, as impl
// side animations do.
func controlling(a *animation.Animation) *animation.Animation {
	return a.CloneAndInitialize(animation.WaitingForTargetAvailability)
}

func opacityAnimation(id, group int, d time.Duration, from, to float64) *animation.Animation {
	curve := animation.NewFloatCurve(nil).
		AddKeyframe(animation.Keyframe[float64]{Time: 0, Value: from}).
		AddKeyframe(animation.Keyframe[float64]{Time: d, Value: to})
	return animation.NewAnimation(curve, id, group, animation.TargetOpacity)
}

func transformAnimation(id, group int, d time.Duration, dx, dy float64) *animation.Animation {
	curve := animation.NewTransformCurve(nil).
		AddKeyframe(animation.Keyframe[gfx.TransformOperations]{Time: 0}).
		AddKeyframe(animation.Keyframe[gfx.TransformOperations]{Time: d, Value: gfx.TransformOperations{}.Translate(dx, dy, 0)})
	return animation.NewAnimation(curve, id, group, animation.TargetTransform)
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func approxOffset(a, b gfx.ScrollOffset) bool {
	return math.Abs(a.X()-b.X()) < 1e-3 && math.Abs(a.Y()-b.Y()) < 1e-3
}

func eventTypes(events animation.AnimationEvents) []animation.AnimationEventType {
	out := make([]animation.AnimationEventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

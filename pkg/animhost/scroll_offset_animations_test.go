package animhost

import (
	"testing"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/gfx"
	animtest "github.com/go-drift/compositor/pkg/testing"
)

func TestScrollOffsetTransition(t *testing.T) {
	f := newFixture(t).attach()
	ea, eaImpl := f.animations(), f.animationsImpl()

	initial := gfx.NewScrollOffset(100, 300)
	target := gfx.NewScrollOffset(300, 200)
	id := animtest.AddScrollOffsetAnimation(ea, f.ids, target, &initial)
	curve := ea.GetAnimationByID(id).Curve()
	if curve.Duration() != 200*time.Millisecond {
		t.Fatalf("duration = %v, want 200ms", curve.Duration())
	}

	ea.PushPropertiesTo(eaImpl)
	eaImpl.ActivateAnimations()

	ea.Animate(initialTick)
	ea.UpdateState(true, nil)
	if got, _ := f.client.ScrollOffset(testElement, animation.ListActive); got != initial {
		t.Errorf("main offset = %v, want %v", got, initial)
	}

	var events animation.AnimationEvents
	eaImpl.Animate(initialTick)
	eaImpl.UpdateState(true, &events)
	if got, _ := f.clientImpl.ScrollOffset(testElement, animation.ListActive); got != initial {
		t.Errorf("impl offset = %v, want %v", got, initial)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ea.NotifyAnimationStarted(events[0])

	mid := gfx.NewScrollOffset(200, 250)
	ea.Animate(at(100 * time.Millisecond))
	eaImpl.Animate(at(100 * time.Millisecond))
	if got, _ := f.client.ScrollOffset(testElement, animation.ListActive); !approxOffset(got, mid) {
		t.Errorf("main offset = %v, want %v", got, mid)
	}
	if got, _ := f.clientImpl.ScrollOffset(testElement, animation.ListActive); !approxOffset(got, mid) {
		t.Errorf("impl offset = %v, want %v", got, mid)
	}

	events = nil
	eaImpl.Animate(at(200 * time.Millisecond))
	eaImpl.UpdateState(true, &events)
	if got, _ := f.clientImpl.ScrollOffset(testElement, animation.ListActive); got != target {
		t.Errorf("impl offset = %v, want %v", got, target)
	}
	if len(events) != 1 || events[0].Type != animation.EventFinished {
		t.Errorf("events = %v, want one finish", eventTypes(events))
	}
}

func TestScrollOffsetInitialValueReadOnCommit(t *testing.T) {
	f := newFixture(t).attach()
	ea, eaImpl := f.animations(), f.animationsImpl()

	f.client.SetScrollOffsetForAnimation(testElement, gfx.NewScrollOffset(10, 10))
	f.clientImpl.SetScrollOffsetForAnimation(testElement, gfx.NewScrollOffset(20, 20))

	id := animtest.AddScrollOffsetAnimation(ea, f.ids, gfx.NewScrollOffset(100, 100), nil)
	ea.PushPropertiesTo(eaImpl)

	// The impl element is in the active tree, so its offset wins.
	curve := eaImpl.GetAnimationByID(id).Curve().(*animation.ScrollOffsetAnimationCurve)
	if !curve.HasSetInitialValue() {
		t.Fatal("commit should seed the initial value")
	}
	if got := curve.GetValue(0); got != gfx.NewScrollOffset(20, 20) {
		t.Errorf("initial = %v, want (20, 20)", got)
	}
}

func TestScrollOffsetRemovalClearsScrollDelta(t *testing.T) {
	f := newFixture(t).attach()
	ea, eaImpl := f.animations(), f.animationsImpl()

	initial := gfx.NewScrollOffset(100, 300)
	id := animtest.AddScrollOffsetAnimation(ea, f.ids, gfx.NewScrollOffset(300, 200), &initial)
	ea.PushPropertiesTo(eaImpl)
	eaImpl.ActivateAnimations()
	if ea.ScrollOffsetAnimationWasInterrupted() || eaImpl.ScrollOffsetAnimationWasInterrupted() {
		t.Fatal("nothing was interrupted yet")
	}

	ea.RemoveAnimation(id)
	if !ea.ScrollOffsetAnimationWasInterrupted() {
		t.Error("removing a scroll animation interrupts the scroll")
	}

	ea.PushPropertiesTo(eaImpl)
	if ea.ScrollOffsetAnimationWasInterrupted() {
		t.Error("the main flag is consumed by the commit")
	}
	if !eaImpl.ScrollOffsetAnimationWasInterrupted() {
		t.Error("the impl side should see the interruption")
	}
	if !f.hostImpl.ScrollOffsetAnimationWasInterrupted(testElement) {
		t.Error("the host query should see the interruption")
	}

	// A second commit before activation keeps the impl flag.
	ea.PushPropertiesTo(eaImpl)
	if !eaImpl.ScrollOffsetAnimationWasInterrupted() {
		t.Error("an empty commit must not clear the impl flag")
	}

	eaImpl.ActivateAnimations()
	if eaImpl.ScrollOffsetAnimationWasInterrupted() {
		t.Error("activation consumes the impl flag")
	}
}

func TestImplOnlyScrollAnimationFinishes(t *testing.T) {
	f := newFixture(t).attach()

	f.hostImpl.ImplOnlyScrollAnimationCreate(testElement, gfx.NewScrollOffset(0, 100), gfx.NewScrollOffset(0, 0))
	eaImpl := f.animationsImpl()
	a := eaImpl.GetAnimation(animation.TargetScrollOffset)
	if a == nil || !a.IsImplOnly() {
		t.Fatal("expected an impl-only scroll animation")
	}
	if f.hostImpl.IsAnimatingOnImplOnly(testElement, animation.TargetScrollOffset) != true {
		t.Error("host should report the impl-only scroll")
	}

	var events animation.AnimationEvents
	f.hostImpl.AnimateLayers(initialTick)
	f.hostImpl.UpdateAnimationState(true, &events)
	if len(events) != 0 {
		t.Errorf("impl-only animations send no events, got %v", eventTypes(events))
	}
	if !f.delegateImpl.Started {
		t.Error("impl delegate should hear about the start directly")
	}

	// (0,0) -> (0,100) takes twelve frames.
	f.hostImpl.AnimateLayers(at(200 * time.Millisecond))
	if got, _ := f.clientImpl.ScrollOffset(testElement, animation.ListActive); got != gfx.NewScrollOffset(0, 100) {
		t.Errorf("offset = %v, want (0, 100)", got)
	}
	f.hostImpl.UpdateAnimationState(true, &events)
	if len(events) != 0 {
		t.Errorf("impl-only animations send no events, got %v", eventTypes(events))
	}
	if f.clientImpl.ScrollFinishedCount != 1 {
		t.Errorf("ScrollFinishedCount = %d, want 1", f.clientImpl.ScrollFinishedCount)
	}
	if a.RunState() != animation.WaitingForDeletion {
		t.Errorf("state = %v, want waiting for deletion", a.RunState())
	}
}

func TestImplOnlyScrollAnimationUpdateTarget(t *testing.T) {
	f := newFixture(t).attach()
	maxScroll := gfx.NewScrollOffset(0, 120)

	if f.hostImpl.ImplOnlyScrollAnimationUpdateTarget(testElement, gfx.NewScrollOffset(0, 10), maxScroll, initialTick) {
		t.Error("no scroll is running yet")
	}

	f.hostImpl.ImplOnlyScrollAnimationCreate(testElement, gfx.NewScrollOffset(0, 100), gfx.NewScrollOffset(0, 0))
	curve := f.animationsImpl().GetAnimation(animation.TargetScrollOffset).Curve().(*animation.ScrollOffsetAnimationCurve)

	if !f.hostImpl.ImplOnlyScrollAnimationUpdateTarget(testElement, gfx.ScrollOffset{}, maxScroll, initialTick) {
		t.Error("a zero delta still targets a running scroll")
	}
	if got := curve.TargetValue(); got != gfx.NewScrollOffset(0, 100) {
		t.Errorf("target = %v, want unchanged", got)
	}

	if !f.hostImpl.ImplOnlyScrollAnimationUpdateTarget(testElement, gfx.NewScrollOffset(0, 50), maxScroll, initialTick) {
		t.Fatal("update should succeed")
	}
	if got := curve.TargetValue(); got != maxScroll {
		t.Errorf("target = %v, want clamped to %v", got, maxScroll)
	}

	if !f.hostImpl.ImplOnlyScrollAnimationUpdateTarget(testElement, gfx.NewScrollOffset(0, -500), maxScroll, initialTick) {
		t.Fatal("update should succeed")
	}
	if got := curve.TargetValue(); got != (gfx.ScrollOffset{}) {
		t.Errorf("target = %v, want clamped to zero", got)
	}

	if f.hostImpl.ImplOnlyScrollAnimationUpdateTarget(testElement+1, gfx.NewScrollOffset(0, 10), maxScroll, initialTick) {
		t.Error("another element has no scroll")
	}

	f.hostImpl.ClearTimelines()
	if f.hostImpl.ImplOnlyScrollAnimationUpdateTarget(testElement, gfx.NewScrollOffset(0, 10), maxScroll, initialTick) {
		t.Error("cleared timelines leave no scroll to update")
	}
}

func TestImplOnlyScrollTakeover(t *testing.T) {
	f := newFixture(t).attach()

	f.hostImpl.ImplOnlyScrollAnimationCreate(testElement, gfx.NewScrollOffset(0, 100), gfx.NewScrollOffset(0, 0))
	eaImpl := f.animationsImpl()
	a := eaImpl.GetAnimation(animation.TargetScrollOffset)
	a.SetStartTime(animtest.Ticks(123 * time.Second))

	eaImpl.AbortAnimations(animation.TargetScrollOffset, true)
	if a.RunState() != animation.AbortedButNeedsCompletion {
		t.Fatalf("state = %v, want aborted but needs completion", a.RunState())
	}

	var events animation.AnimationEvents
	eaImpl.Animate(initialTick)
	eaImpl.UpdateState(true, &events)
	if len(events) != 1 || events[0].Type != animation.EventTakeover {
		t.Fatalf("events = %v, want one takeover", eventTypes(events))
	}
	if events[0].AnimationStartTime != 123 {
		t.Errorf("AnimationStartTime = %v, want 123", events[0].AnimationStartTime)
	}
	if f.clientImpl.ScrollFinishedCount != 1 {
		t.Errorf("ScrollFinishedCount = %d, want 1", f.clientImpl.ScrollFinishedCount)
	}
	if a.RunState() != animation.WaitingForDeletion {
		t.Errorf("state = %v, want waiting for deletion", a.RunState())
	}

	f.host.SetAnimationEvents(events)
	if !f.delegate.Takeover {
		t.Fatal("main delegate should receive the takeover")
	}
	if f.delegate.AnimationStartTime != 123 {
		t.Errorf("delegate start = %v, want 123", f.delegate.AnimationStartTime)
	}
	if _, ok := f.delegate.TakeoverCurve.(*animation.ScrollOffsetAnimationCurve); !ok {
		t.Errorf("takeover curve = %T, want a scroll offset curve", f.delegate.TakeoverCurve)
	}
}

func TestScrollTakeoverRequestedFromMain(t *testing.T) {
	f := newFixture(t).attach()
	f.hostImpl.ImplOnlyScrollAnimationCreate(testElement, gfx.NewScrollOffset(0, 100), gfx.NewScrollOffset(0, 0))

	takeovers := f.host.ScrollOffsetAnimations()
	takeovers.AddTakeoverUpdate(testElement)
	if got := takeovers.PendingTakeovers(); len(got) != 1 || got[0] != testElement {
		t.Fatalf("pending = %v, want [%d]", got, testElement)
	}
	f.push()
	if len(takeovers.PendingTakeovers()) != 0 {
		t.Error("commit should drain the takeover queue")
	}

	a := f.animationsImpl().GetAnimation(animation.TargetScrollOffset)
	if a == nil || a.RunState() != animation.AbortedButNeedsCompletion {
		t.Fatal("commit should abort the impl-only scroll for takeover")
	}

	var events animation.AnimationEvents
	f.hostImpl.AnimateLayers(initialTick)
	f.hostImpl.UpdateAnimationState(true, &events)
	if len(events) != 1 || events[0].Type != animation.EventTakeover {
		t.Fatalf("events = %v, want one takeover", eventTypes(events))
	}
	if f.clientImpl.ScrollFinishedCount != 1 {
		t.Errorf("ScrollFinishedCount = %d, want 1", f.clientImpl.ScrollFinishedCount)
	}
}

package animhost

import (
	"slices"
	"testing"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	animtest "github.com/go-drift/compositor/pkg/testing"
)

func TestElementAnimations_TrivialTransition(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()
	var events animation.AnimationEvents

	ea.AddAnimation(opacityAnimation(1, 1, time.Second, 0, 1))
	if !ea.needsToStartAnimations {
		t.Fatal("adding an animation should schedule a start")
	}
	ea.Animate(initialTick)
	if ea.needsToStartAnimations {
		t.Error("animation should have started")
	}
	ea.UpdateState(true, &events)
	if !ea.HasActiveAnimation() {
		t.Error("expected active animation")
	}
	if got := f.opacity(f.client, animation.ListActive); got != 0 {
		t.Errorf("opacity = %v, want 0", got)
	}
	for _, ev := range events {
		if ev.Type == animation.EventPropertyUpdate {
			t.Error("a main side animation should not send property updates")
		}
	}

	ea.Animate(at(time.Second))
	ea.UpdateState(true, &events)
	if got := f.opacity(f.client, animation.ListActive); got != 1 {
		t.Errorf("opacity = %v, want 1", got)
	}
	if ea.HasActiveAnimation() {
		t.Error("animation should have finished")
	}
}

func TestElementAnimations_TrivialQueuing(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()
	var events animation.AnimationEvents

	ea.AddAnimation(opacityAnimation(1, 1, time.Second, 0, 1))
	ea.AddAnimation(opacityAnimation(2, 2, time.Second, 1, 0.5))

	ea.Animate(initialTick)
	if !ea.needsToStartAnimations {
		t.Error("the second animation still needs to start")
	}
	ea.UpdateState(true, &events)
	if got := f.opacity(f.client, animation.ListActive); got != 0 {
		t.Errorf("opacity = %v, want 0", got)
	}

	ea.Animate(at(time.Second))
	if !ea.needsToStartAnimations {
		t.Error("the second animation is blocked until the first finishes")
	}
	ea.UpdateState(true, &events)
	if ea.needsToStartAnimations {
		t.Error("the second animation should have started")
	}
	if !ea.HasActiveAnimation() {
		t.Error("expected active animation")
	}
	if got := f.opacity(f.client, animation.ListActive); got != 1 {
		t.Errorf("opacity = %v, want 1", got)
	}

	ea.Animate(at(2 * time.Second))
	ea.UpdateState(true, &events)
	if got := f.opacity(f.client, animation.ListActive); got != 0.5 {
		t.Errorf("opacity = %v, want 0.5", got)
	}
	if ea.HasActiveAnimation() {
		t.Error("both animations should have finished")
	}
}

func TestElementAnimations_Interrupt(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()
	var events animation.AnimationEvents

	ea.AddAnimation(opacityAnimation(1, 1, time.Second, 0, 1))
	ea.Animate(initialTick)
	ea.UpdateState(true, &events)
	if got := f.opacity(f.client, animation.ListActive); got != 0 {
		t.Errorf("opacity = %v, want 0", got)
	}

	ea.AbortAnimations(animation.TargetOpacity, false)
	ea.AddAnimation(opacityAnimation(2, 2, time.Second, 1, 0.5))

	// The aborted animation no longer holds the property.
	ea.Animate(at(500 * time.Millisecond))
	ea.UpdateState(true, &events)
	if !ea.HasActiveAnimation() {
		t.Error("expected active animation")
	}
	if got := f.opacity(f.client, animation.ListActive); got != 1 {
		t.Errorf("opacity = %v, want 1", got)
	}

	ea.Animate(at(1500 * time.Millisecond))
	ea.UpdateState(true, &events)
	if ea.HasActiveAnimation() {
		t.Error("animation should have finished")
	}
	if got := f.opacity(f.client, animation.ListActive); got != 0.5 {
		t.Errorf("opacity = %v, want 0.5", got)
	}
	if !slices.Contains(eventTypes(events), animation.EventAborted) {
		t.Errorf("events %v should include an abort", eventTypes(events))
	}
}

func TestElementAnimations_GroupStartsAtomically(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()
	var events animation.AnimationEvents

	ea.AddAnimation(transformAnimation(1, 1, time.Second, 10, 0))
	ea.Animate(initialTick)
	ea.UpdateState(true, &events)

	// Group 2 animates opacity and transform. Transform is held by group 1,
	// so neither member may start.
	ea.AddAnimation(opacityAnimation(2, 2, time.Second, 0, 1))
	ea.AddAnimation(transformAnimation(3, 2, time.Second, 0, 10))
	ea.Animate(at(500 * time.Millisecond))
	ea.UpdateState(true, &events)
	for _, id := range []int{2, 3} {
		if got := ea.GetAnimationByID(id).RunState(); got != animation.WaitingForTargetAvailability {
			t.Errorf("animation %d state = %v, want waiting", id, got)
		}
	}

	ea.Animate(at(time.Second))
	ea.UpdateState(true, &events)
	if got := ea.GetAnimationByID(1).RunState(); got != animation.Finished {
		t.Errorf("first animation state = %v, want finished", got)
	}
	for _, id := range []int{2, 3} {
		a := ea.GetAnimationByID(id)
		if a.RunState() != animation.Running {
			t.Errorf("animation %d state = %v, want running", id, a.RunState())
		}
		if a.StartTime() != at(time.Second) {
			t.Errorf("animation %d start = %v, want %v", id, a.StartTime(), at(time.Second))
		}
	}
}

func TestElementAnimations_FinishedEventsForGroup(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()

	ea.AddAnimation(controlling(transformAnimation(1, 1, time.Second, 10, 0)))
	ea.AddAnimation(controlling(opacityAnimation(2, 1, 2*time.Second, 0, 1)))

	var events animation.AnimationEvents
	ea.Animate(initialTick)
	ea.UpdateState(true, &events)
	if got := eventTypes(events); !slices.Equal(got, []animation.AnimationEventType{animation.EventStarted, animation.EventStarted}) {
		t.Fatalf("events = %v, want two starts", got)
	}

	events = nil
	ea.Animate(at(time.Second))
	ea.UpdateState(true, &events)
	if len(events) != 0 {
		t.Errorf("events = %v, want none until the whole group finishes", eventTypes(events))
	}
	if got := ea.GetAnimationByID(1).RunState(); got != animation.Finished {
		t.Errorf("transform state = %v, want finished", got)
	}
	if got := ea.GetAnimationByID(2).RunState(); got != animation.Running {
		t.Errorf("opacity state = %v, want running", got)
	}

	ea.Animate(at(2 * time.Second))
	ea.UpdateState(true, &events)
	if got := eventTypes(events); !slices.Equal(got, []animation.AnimationEventType{animation.EventFinished, animation.EventFinished}) {
		t.Errorf("events = %v, want two finishes", got)
	}
	for _, id := range []int{1, 2} {
		if got := ea.GetAnimationByID(id).RunState(); got != animation.WaitingForDeletion {
			t.Errorf("animation %d state = %v, want waiting for deletion", id, got)
		}
	}
}

func TestElementAnimations_FinishedAndAbortedEventsForGroup(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()

	ea.AddAnimation(controlling(transformAnimation(1, 1, time.Second, 10, 0)))
	ea.AddAnimation(controlling(opacityAnimation(2, 1, time.Second, 0, 1)))

	var events animation.AnimationEvents
	ea.Animate(initialTick)
	ea.UpdateState(true, &events)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	ea.AbortAnimations(animation.TargetOpacity, false)
	events = nil
	ea.Animate(at(time.Second))
	ea.UpdateState(true, &events)

	if len(events) != 2 {
		t.Fatalf("events = %v, want finish and abort", eventTypes(events))
	}
	if events[0].Type != animation.EventFinished || events[0].TargetProperty != animation.TargetTransform {
		t.Errorf("first event = %v %v, want finished transform", events[0].Type, events[0].TargetProperty)
	}
	if events[1].Type != animation.EventAborted || events[1].TargetProperty != animation.TargetOpacity {
		t.Errorf("second event = %v %v, want aborted opacity", events[1].Type, events[1].TargetProperty)
	}
}

func TestElementAnimations_ClippedOpacityValues(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()

	ea.AddAnimation(opacityAnimation(1, 1, time.Second, 1, 2))
	ea.AddAnimation(opacityAnimation(2, 2, time.Second, 0, -2))

	ea.Animate(initialTick)
	ea.UpdateState(true, nil)
	if got := f.opacity(f.client, animation.ListActive); got != 1 {
		t.Errorf("opacity = %v, want 1", got)
	}
	ea.Animate(at(time.Second))
	if got := f.opacity(f.client, animation.ListActive); got != 1 {
		t.Errorf("opacity = %v, want clipped to 1", got)
	}
	ea.UpdateState(true, nil)

	ea.Animate(at(1500 * time.Millisecond))
	ea.UpdateState(true, nil)
	ea.Animate(at(2 * time.Second))
	if got := f.opacity(f.client, animation.ListActive); got != 0 {
		t.Errorf("opacity = %v, want clipped to 0", got)
	}
}

func TestElementAnimations_Activation(t *testing.T) {
	f := newFixture(t).attach()
	ea, eaImpl := f.animations(), f.animationsImpl()

	if f.host.NeedsAnimateLayers() || f.hostImpl.NeedsAnimateLayers() {
		t.Fatal("no element should be ticking yet")
	}

	animtest.AddOpacityTransition(ea, f.ids, time.Second, 0, 1, false)
	if got := len(f.host.ActiveElements()); got != 1 {
		t.Errorf("main ticking elements = %d, want 1", got)
	}

	ea.PushPropertiesTo(eaImpl)
	eaImpl.ActivateAnimations()
	if got := len(f.hostImpl.ActiveElements()); got != 1 {
		t.Errorf("impl ticking elements = %d, want 1", got)
	}

	var events animation.AnimationEvents
	eaImpl.Animate(initialTick)
	eaImpl.UpdateState(true, &events)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ea.NotifyAnimationStarted(events[0])

	ea.Animate(at(500 * time.Millisecond))
	ea.UpdateState(true, nil)
	if got := len(f.host.ActiveElements()); got != 1 {
		t.Errorf("main ticking elements = %d, want 1", got)
	}

	ea.Animate(at(time.Second))
	ea.UpdateState(true, nil)
	if got := ea.GetAnimation(animation.TargetOpacity).RunState(); got != animation.Finished {
		t.Errorf("main state = %v, want finished", got)
	}
	if got := len(f.host.ActiveElements()); got != 1 {
		t.Errorf("a finished but unacknowledged animation keeps the element ticking")
	}

	events = nil
	eaImpl.Animate(at(1500 * time.Millisecond))
	eaImpl.UpdateState(true, &events)
	if got := eaImpl.GetAnimation(animation.TargetOpacity).RunState(); got != animation.WaitingForDeletion {
		t.Errorf("impl state = %v, want waiting for deletion", got)
	}
	if f.hostImpl.NeedsAnimateLayers() {
		t.Error("impl element should have deactivated")
	}
	if len(events) != 1 || events[0].Type != animation.EventFinished {
		t.Fatalf("events = %v, want one finish", eventTypes(events))
	}

	ea.NotifyAnimationFinished(events[0])
	ea.Animate(at(1500 * time.Millisecond))
	ea.UpdateState(true, nil)
	if got := ea.GetAnimation(animation.TargetOpacity).RunState(); got != animation.WaitingForDeletion {
		t.Errorf("main state = %v, want waiting for deletion", got)
	}
	if f.host.NeedsAnimateLayers() {
		t.Error("main element should have deactivated")
	}

	ea.PushPropertiesTo(eaImpl)
	eaImpl.ActivateAnimations()
	if ea.HasAnyAnimation() || eaImpl.HasAnyAnimation() {
		t.Error("both sides should have deleted the animation")
	}
	if f.host.NeedsAnimateLayers() || f.hostImpl.NeedsAnimateLayers() {
		t.Error("no element should be ticking")
	}
}

func TestElementAnimations_AnimationsAreDeleted(t *testing.T) {
	f := newFixture(t).attach()
	animtest.AddOpacityTransition(f.player, f.ids, time.Second, 0, 1, false)
	ea := f.animations()

	ea.Animate(initialTick)
	ea.UpdateState(true, nil)
	if !ea.HasActiveAnimation() {
		t.Error("main side should be animating")
	}

	f.push()
	eaImpl := f.animationsImpl()
	if eaImpl.HasActiveAnimation() != true {
		t.Error("impl side should hold the pushed animation")
	}
	if f.host.NeedsPushProperties() || f.hostImpl.NeedsPushProperties() {
		t.Error("commit should clear the push flags")
	}

	var events animation.AnimationEvents
	eaImpl.ActivateAnimations()
	eaImpl.Animate(at(500 * time.Millisecond))
	eaImpl.UpdateState(true, &events)
	if len(events) != 1 || events[0].Type != animation.EventStarted {
		t.Fatalf("events = %v, want one start", eventTypes(events))
	}
	ea.NotifyAnimationStarted(events[0])
	if !f.delegate.Started {
		t.Error("delegate should hear about the start")
	}

	ea.Animate(at(time.Second))
	ea.UpdateState(true, nil)
	if f.host.NeedsPushProperties() {
		t.Error("nothing new to commit yet")
	}

	events = nil
	eaImpl.Animate(at(2 * time.Second))
	eaImpl.UpdateState(true, &events)
	if len(events) != 1 || events[0].Type != animation.EventFinished {
		t.Fatalf("events = %v, want one finish", eventTypes(events))
	}
	if ea.GetAnimation(animation.TargetOpacity) == nil || eaImpl.GetAnimation(animation.TargetOpacity) == nil {
		t.Fatal("neither side may delete before the finish is acknowledged")
	}

	ea.NotifyAnimationFinished(events[0])
	ea.Animate(at(3 * time.Second))
	ea.UpdateState(true, nil)
	if !f.host.NeedsPushProperties() {
		t.Error("deletion should request a commit")
	}

	f.push()
	if ea.GetAnimation(animation.TargetOpacity) != nil || eaImpl.GetAnimation(animation.TargetOpacity) != nil {
		t.Error("both sides should have deleted the animation")
	}
}

func TestElementAnimations_ReAddSameGroupAfterRemove(t *testing.T) {
	f := newFixture(t).attach()
	ea, eaImpl := f.animations(), f.animationsImpl()

	ea.AddAnimation(unsynced(opacityAnimation(10, 7, time.Second, 0, 1)))
	f.push()
	eaImpl.ActivateAnimations()
	var events animation.AnimationEvents
	eaImpl.Animate(initialTick)
	eaImpl.UpdateState(true, &events)
	if a := eaImpl.GetAnimationByID(10); a == nil || a.IsFinished() {
		t.Fatal("first animation should be live on impl")
	}

	// The replacement reuses the group and property while the impl twin of
	// the removed animation is still unfinished.
	ea.RemoveAnimation(10)
	ea.AddAnimation(unsynced(opacityAnimation(11, 7, time.Second, 1, 0)))
	f.push()

	replacement := eaImpl.GetAnimationByID(11)
	if replacement == nil {
		t.Fatal("replacement was not pushed")
	}
	if !replacement.AffectsPendingElements() || replacement.AffectsActiveElements() {
		t.Error("replacement should affect the pending tree only before activation")
	}
	if old := eaImpl.GetAnimationByID(10); old == nil || old.AffectsPendingElements() {
		t.Error("removed twin should stay on the active tree only until activation")
	}

	eaImpl.ActivateAnimations()
	if eaImpl.GetAnimationByID(10) != nil {
		t.Error("activation should drop the removed twin")
	}
	if !replacement.AffectsActiveElements() {
		t.Error("activation should extend the replacement to the active tree")
	}
	eaImpl.Animate(at(100 * time.Millisecond))
	eaImpl.UpdateState(true, &events)
	if replacement.RunState() != animation.Starting && replacement.RunState() != animation.Running {
		t.Errorf("replacement state = %v, want starting or running", replacement.RunState())
	}

	f.push()
	if len(eaImpl.animations) != 1 {
		t.Errorf("impl holds %d animations, want 1", len(eaImpl.animations))
	}
}

func TestElementAnimations_NewlyPushedAnimationWaitsForActivation(t *testing.T) {
	f := newFixture(t).attach()
	ea, eaImpl := f.animations(), f.animationsImpl()

	id := animtest.AddOpacityTransition(ea, f.ids, time.Second, 0.5, 1, false)
	ea.PushPropertiesTo(eaImpl)

	a := eaImpl.GetAnimationByID(id)
	if a == nil {
		t.Fatal("animation was not pushed")
	}
	if a.RunState() != animation.WaitingForTargetAvailability {
		t.Errorf("state = %v, want waiting", a.RunState())
	}
	if !a.AffectsPendingElements() || a.AffectsActiveElements() {
		t.Error("a pushed animation should affect the pending tree only")
	}

	var events animation.AnimationEvents
	eaImpl.Animate(initialTick)
	eaImpl.UpdateState(true, &events)
	if a.RunState() != animation.Starting {
		t.Errorf("state = %v, want starting until activation", a.RunState())
	}
	if got := f.opacity(f.clientImpl, animation.ListPending); got != 0.5 {
		t.Errorf("pending opacity = %v, want 0.5", got)
	}
	if _, ok := f.clientImpl.Opacity(testElement, animation.ListActive); ok {
		t.Error("the active tree should not be ticked before activation")
	}

	eaImpl.ActivateAnimations()
	if !a.AffectsPendingElements() || !a.AffectsActiveElements() {
		t.Error("activation should extend the animation to the active tree")
	}

	eaImpl.Animate(at(time.Second))
	eaImpl.UpdateState(true, &events)
	if a.RunState() != animation.Running {
		t.Errorf("state = %v, want running", a.RunState())
	}
	if got := f.opacity(f.clientImpl, animation.ListPending); got != 0.5 {
		t.Errorf("pending opacity = %v, want 0.5", got)
	}
	if got := f.opacity(f.clientImpl, animation.ListActive); got != 0.5 {
		t.Errorf("active opacity = %v, want 0.5", got)
	}
}

func TestElementAnimations_MainThreadAbortedAnimationGetsDeleted(t *testing.T) {
	f := newFixture(t).attach()
	ea, eaImpl := f.animations(), f.animationsImpl()

	id := animtest.AddOpacityTransition(ea, f.ids, time.Second, 0, 1, false)
	ea.PushPropertiesTo(eaImpl)
	eaImpl.ActivateAnimations()
	if eaImpl.GetAnimationByID(id) == nil {
		t.Fatal("animation was not pushed")
	}

	ea.AbortAnimations(animation.TargetOpacity, false)
	if got := ea.GetAnimationByID(id).RunState(); got != animation.Aborted {
		t.Errorf("state = %v, want aborted", got)
	}
	ea.Animate(initialTick)
	ea.UpdateState(true, nil)
	if got := ea.GetAnimationByID(id).RunState(); got != animation.Aborted {
		t.Errorf("state = %v, want aborted until the commit", got)
	}

	ea.PushPropertiesTo(eaImpl)
	if ea.GetAnimationByID(id) != nil || eaImpl.GetAnimationByID(id) != nil {
		t.Error("both twins should be deleted")
	}
}

func TestElementAnimations_ImplThreadAbortedAnimationGetsDeleted(t *testing.T) {
	f := newFixture(t).attach()
	ea, eaImpl := f.animations(), f.animationsImpl()

	id := animtest.AddOpacityTransition(ea, f.ids, time.Second, 0, 1, false)
	ea.PushPropertiesTo(eaImpl)
	eaImpl.ActivateAnimations()

	eaImpl.AbortAnimations(animation.TargetOpacity, false)
	if got := eaImpl.GetAnimationByID(id).RunState(); got != animation.Aborted {
		t.Errorf("impl state = %v, want aborted", got)
	}

	var events animation.AnimationEvents
	eaImpl.Animate(initialTick)
	eaImpl.UpdateState(true, &events)
	if !f.hostImpl.NeedsPushProperties() {
		t.Error("impl deletion should mark the impl host")
	}
	if len(events) != 1 || events[0].Type != animation.EventAborted {
		t.Fatalf("events = %v, want one abort", eventTypes(events))
	}
	if got := eaImpl.GetAnimationByID(id).RunState(); got != animation.WaitingForDeletion {
		t.Errorf("impl state = %v, want waiting for deletion", got)
	}

	ea.NotifyAnimationAborted(events[0])
	if got := ea.GetAnimationByID(id).RunState(); got != animation.Aborted {
		t.Errorf("main state = %v, want aborted", got)
	}
	if !f.delegate.Aborted {
		t.Error("delegate should hear about the abort")
	}

	ea.Animate(at(500 * time.Millisecond))
	ea.UpdateState(true, nil)
	if !f.host.NeedsPushProperties() {
		t.Error("main deletion should request a commit")
	}
	if got := ea.GetAnimationByID(id).RunState(); got != animation.WaitingForDeletion {
		t.Errorf("main state = %v, want waiting for deletion", got)
	}

	ea.PushPropertiesTo(eaImpl)
	eaImpl.ActivateAnimations()
	if ea.GetAnimationByID(id) != nil || eaImpl.GetAnimationByID(id) != nil {
		t.Error("both twins should be deleted")
	}
}

func TestElementAnimations_SyncPause(t *testing.T) {
	f := newFixture(t).attach()
	ea, eaImpl := f.animations(), f.animationsImpl()

	// Two steps over three seconds: [0, 1.5) -> 0.2 step, middle jumps.
	id := animtest.AddOpacityStepsToElement(ea, f.ids, 3*time.Second, 0.2, 0.4, 2)
	ea.GetAnimationByID(id).SetTimeOffset(1010 * time.Millisecond)

	ea.PushPropertiesTo(eaImpl)
	eaImpl.ActivateAnimations()

	ea.Animate(initialTick)
	ea.UpdateState(true, nil)
	var events animation.AnimationEvents
	eaImpl.Animate(initialTick)
	eaImpl.UpdateState(true, &events)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ea.NotifyAnimationStarted(events[0])

	main, impl := ea.GetAnimationByID(id), eaImpl.GetAnimationByID(id)
	if main.RunState() != animation.Running || impl.RunState() != animation.Running {
		t.Errorf("states = %v/%v, want running", main.RunState(), impl.RunState())
	}
	if !approx(f.opacity(f.client, animation.ListActive), 0.3) || !approx(f.opacity(f.clientImpl, animation.ListActive), 0.3) {
		t.Errorf("opacity = %v/%v, want 0.3",
			f.opacity(f.client, animation.ListActive), f.opacity(f.clientImpl, animation.ListActive))
	}
	if main.StartTime() != initialTick || impl.StartTime() != initialTick {
		t.Errorf("start times = %v/%v, want %v", main.StartTime(), impl.StartTime(), initialTick)
	}

	// Pausing 1.5s in moves the offset local time into the last step.
	ea.PauseAnimation(id, 1500*time.Millisecond)
	if main.RunState() != animation.Paused {
		t.Errorf("main state = %v, want paused", main.RunState())
	}
	ea.PushPropertiesTo(eaImpl)
	eaImpl.ActivateAnimations()

	ea.Animate(at(10 * time.Millisecond))
	eaImpl.Animate(at(10 * time.Millisecond))
	if impl.RunState() != animation.Paused {
		t.Errorf("impl state = %v, want paused", impl.RunState())
	}
	if !approx(f.opacity(f.client, animation.ListActive), 0.4) || !approx(f.opacity(f.clientImpl, animation.ListActive), 0.4) {
		t.Errorf("opacity = %v/%v, want 0.4",
			f.opacity(f.client, animation.ListActive), f.opacity(f.clientImpl, animation.ListActive))
	}
}

func TestElementAnimations_IsCurrentlyAnimatingProperty(t *testing.T) {
	f := newFixture(t).attach()
	f.client.RegisterElement(testElement, animation.ListPending)
	ea := f.animations()

	a := transformAnimation(1, 1, time.Second, 10, 0)
	a.SetAffectsActiveElements(false)
	ea.AddAnimation(a)

	ea.Animate(initialTick)
	if !ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListPending) ||
		ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListActive) {
		t.Error("only the pending tree should animate transform")
	}
	ea.UpdateState(true, nil)
	if !ea.HasActiveAnimation() {
		t.Error("expected active animation")
	}
	if ea.IsCurrentlyAnimatingProperty(animation.TargetOpacity, animation.ListPending) {
		t.Error("opacity is not animating")
	}

	ea.ActivateAnimations()
	if !ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListPending) ||
		!ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListActive) {
		t.Error("both trees should animate transform after activation")
	}

	ea.Animate(at(10 * time.Millisecond))
	ea.UpdateState(true, nil)
	if !ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListActive) {
		t.Error("transform should still be animating")
	}

	ea.Animate(at(1100 * time.Millisecond))
	ea.UpdateState(true, nil)
	if ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListPending) ||
		ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListActive) {
		t.Error("a finished animation is not animating")
	}
}

func TestElementAnimations_IsAnimatingPropertyTimeOffsetFillMode(t *testing.T) {
	f := newFixture(t).attach()
	f.client.RegisterElement(testElement, animation.ListPending)
	ea := f.animations()

	a := transformAnimation(1, 1, time.Second, 10, 0)
	a.SetFillMode(animation.FillNone)
	a.SetTimeOffset(-2 * time.Second)
	a.SetAffectsActiveElements(false)
	ea.AddAnimation(a)

	ea.Animate(initialTick)
	if !ea.IsPotentiallyAnimatingProperty(animation.TargetTransform, animation.ListPending) {
		t.Error("a delayed animation is potentially animating")
	}
	if ea.IsPotentiallyAnimatingProperty(animation.TargetTransform, animation.ListActive) {
		t.Error("the active tree is not affected yet")
	}
	if ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListPending) {
		t.Error("a delayed animation without backwards fill is not in effect")
	}
	if !ea.HasActiveAnimation() {
		t.Error("expected active animation")
	}

	ea.ActivateAnimations()
	if !ea.IsPotentiallyAnimatingProperty(animation.TargetTransform, animation.ListActive) {
		t.Error("activation should extend to the active tree")
	}
	if ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListActive) {
		t.Error("still inside the delay")
	}
	ea.UpdateState(true, nil)

	ea.Animate(at(2 * time.Second))
	ea.UpdateState(true, nil)
	for _, list := range []animation.ElementListType{animation.ListActive, animation.ListPending} {
		if !ea.IsPotentiallyAnimatingProperty(animation.TargetTransform, list) ||
			!ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, list) {
			t.Errorf("%s tree should animate past the delay", list)
		}
	}

	ea.Animate(at(4 * time.Second))
	ea.UpdateState(true, nil)
	for _, list := range []animation.ElementListType{animation.ListActive, animation.ListPending} {
		if ea.IsPotentiallyAnimatingProperty(animation.TargetTransform, list) ||
			ea.IsCurrentlyAnimatingProperty(animation.TargetTransform, list) {
			t.Errorf("%s tree should stop animating once finished", list)
		}
	}
}

func TestElementAnimations_ClientAnimationState(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()

	a := opacityAnimation(1, 1, time.Second, 0, 1)
	a.SetTimeOffset(-500 * time.Millisecond)
	a.SetFillMode(animation.FillNone)
	ea.AddAnimation(a)

	st := f.client.Animating(testElement, animation.ListActive, animation.TargetOpacity)
	if !st.Potential || st.Running {
		t.Errorf("state = %+v, want potential only while delayed", st)
	}
	if got := f.client.Animating(testElement, animation.ListPending, animation.TargetOpacity); got != (animtest.AnimatingState{}) {
		t.Errorf("pending state = %+v; the element is not in the pending tree", got)
	}

	ea.Animate(initialTick)
	ea.UpdateState(true, nil)
	ea.Animate(at(600 * time.Millisecond))
	st = f.client.Animating(testElement, animation.ListActive, animation.TargetOpacity)
	if !st.Potential || !st.Running {
		t.Errorf("state = %+v, want running", st)
	}

	ea.Animate(at(2 * time.Second))
	ea.UpdateState(true, nil)
	st = f.client.Animating(testElement, animation.ListActive, animation.TargetOpacity)
	if st.Potential || st.Running {
		t.Errorf("state = %+v, want cleared after finishing", st)
	}

	var sawBoth bool
	for _, c := range f.client.AnimatingChanges {
		if c.Change == animation.ChangeBoth.String() && !c.Animating {
			sawBoth = true
		}
	}
	if !sawBoth {
		t.Error("finishing should clear both flags in one callback")
	}
}

func TestElementAnimations_ElementRegistrationDrivesActivation(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()
	ea.AddAnimation(opacityAnimation(1, 1, time.Second, 0, 1))
	if !f.host.NeedsAnimateLayers() {
		t.Fatal("element should tick")
	}

	f.client.UnregisterElement(testElement, animation.ListActive)
	if f.host.NeedsAnimateLayers() {
		t.Error("an element in no tree should not tick")
	}
	f.client.ResetLog()
	ea.Animate(initialTick)
	if len(f.client.Mutations) != 0 {
		t.Error("an element in no tree should not be mutated")
	}

	f.client.RegisterElement(testElement, animation.ListActive)
	if !f.host.NeedsAnimateLayers() {
		t.Error("re-registering should resume ticking")
	}
}

func TestElementAnimations_LookupsReturnLatest(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()

	first := opacityAnimation(7, 1, time.Second, 0, 1)
	second := opacityAnimation(7, 2, time.Second, 1, 0)
	ea.AddAnimation(first)
	ea.AddAnimation(second)

	if ea.GetAnimationByID(7) != second {
		t.Error("GetAnimationByID should return the latest match")
	}
	if ea.GetAnimation(animation.TargetOpacity) != second {
		t.Error("GetAnimation should return the latest match")
	}
	if ea.GetAnimation(animation.TargetFilter) != nil {
		t.Error("no filter animation was added")
	}
}

func TestElementAnimations_RemoveAnimation(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()
	ea.AddAnimation(opacityAnimation(1, 1, time.Second, 0, 1))
	ea.AddAnimation(transformAnimation(2, 2, time.Second, 1, 0))

	ea.RemoveAnimation(1)
	if ea.GetAnimationByID(1) != nil {
		t.Error("animation 1 should be removed")
	}
	if ea.GetAnimationByID(2) == nil {
		t.Error("animation 2 should remain")
	}
	if ea.ScrollOffsetAnimationWasInterrupted() {
		t.Error("removing a non-scroll animation is not a scroll interruption")
	}
	st := f.client.Animating(testElement, animation.ListActive, animation.TargetOpacity)
	if st.Potential {
		t.Error("client should learn opacity stopped animating")
	}
}

func TestElementAnimations_DuplicateGroupPropertyRejected(t *testing.T) {
	f := newFixture(t).attach()
	ea := f.animations()
	ea.AddAnimation(opacityAnimation(1, 1, time.Second, 0, 1))

	defer func() {
		if recover() == nil {
			t.Error("expected a panic in strict mode")
		}
		if ea.GetAnimationByID(2) != nil {
			t.Error("the duplicate should not be added")
		}
	}()
	ea.AddAnimation(opacityAnimation(2, 1, time.Second, 1, 0))
}

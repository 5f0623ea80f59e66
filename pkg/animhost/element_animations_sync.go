package animhost

import "github.com/go-drift/compositor/pkg/animation"

// PushPropertiesTo commits this main side element state into impl. Pushing
// twice with nothing changed in between is a no-op the second time.
func (e *ElementAnimations) PushPropertiesTo(impl *ElementAnimations) {
	if len(e.animations) == 0 && len(impl.animations) == 0 {
		return
	}
	e.markAbortedAnimationsForDeletion(impl)
	e.purgeAnimationsMarkedForDeletion()
	e.pushNewAnimationsToImpl(impl)
	e.removeAnimationsCompletedOnMainThread(impl)
	e.pushPropertiesToImpl(impl)
	impl.updateActivation(false)
	e.updateActivation(false)
}

// markAbortedAnimationsForDeletion retires both twins of every animation
// aborted on the main side.
func (e *ElementAnimations) markAbortedAnimationsForDeletion(impl *ElementAnimations) {
	changed := false
	for _, implAnim := range impl.animations {
		a := e.GetAnimationByID(implAnim.ID())
		if a == nil || a.RunState() != animation.Aborted {
			continue
		}
		implAnim.SetRunState(animation.WaitingForDeletion, impl.lastTickTime)
		a.SetRunState(animation.WaitingForDeletion, e.lastTickTime)
		changed = true
	}
	if changed {
		impl.UpdateClientAnimationState()
	}
}

func (e *ElementAnimations) purgeAnimationsMarkedForDeletion() {
	kept := e.animations[:0]
	for _, a := range e.animations {
		if a.RunState() != animation.WaitingForDeletion {
			kept = append(kept, a)
		}
	}
	clear(e.animations[len(kept):])
	e.animations = kept
}

// pushNewAnimationsToImpl clones main animations the impl side has not seen.
// Clones wait for activation before they touch the active tree.
func (e *ElementAnimations) pushNewAnimationsToImpl(impl *ElementAnimations) {
	for _, a := range e.animations {
		if impl.GetAnimationByID(a.ID()) != nil {
			continue
		}
		if c, ok := a.Curve().(*animation.ScrollOffsetAnimationCurve); ok && !c.HasSetInitialValue() {
			current := e.ScrollOffsetForAnimation()
			if impl.hasElementInActiveList {
				current = impl.ScrollOffsetForAnimation()
			}
			c.SetInitialValue(current)
		}
		clone := a.CloneAndInitialize(animation.WaitingForTargetAvailability)
		clone.SetAffectsActiveElements(false)
		impl.insertAnimation(clone)
	}
}

// removeAnimationsCompletedOnMainThread stops impl animations that the main
// side already deleted from affecting the pending tree. Ones that are also
// done on the active tree are dropped outright.
func (e *ElementAnimations) removeAnimationsCompletedOnMainThread(impl *ElementAnimations) {
	completed := false
	for _, a := range impl.animations {
		var done bool
		if a.IsImplOnly() {
			done = a.RunState() == animation.WaitingForDeletion
		} else {
			done = e.GetAnimationByID(a.ID()) == nil
		}
		if done {
			a.SetAffectsPendingElements(false)
			completed = true
		}
	}

	kept := impl.animations[:0]
	for _, a := range impl.animations {
		if a.RunState() == animation.WaitingForDeletion && !a.AffectsPendingElements() {
			continue
		}
		kept = append(kept, a)
	}
	clear(impl.animations[len(kept):])
	impl.animations = kept

	if impl.hasElementInActiveList && completed {
		impl.UpdateClientAnimationState()
	}
}

func (e *ElementAnimations) pushPropertiesToImpl(impl *ElementAnimations) {
	for _, a := range e.animations {
		if implAnim := impl.GetAnimationByID(a.ID()); implAnim != nil {
			a.PushPropertiesTo(implAnim)
		}
	}
	// Impl consumes the flag at activation, so a repeated push must not
	// clear it there.
	if e.scrollOffsetAnimationWasInterrupted {
		impl.scrollOffsetAnimationWasInterrupted = true
	}
	e.scrollOffsetAnimationWasInterrupted = false
}

// ActivateAnimations makes pending tree animation state current once the
// pending tree becomes the active one.
func (e *ElementAnimations) ActivateAnimations() {
	var changed animation.PropertySet
	for _, a := range e.animations {
		if a.AffectsActiveElements() != a.AffectsPendingElements() {
			changed = changed.Add(a.TargetProperty())
		}
		a.SetAffectsActiveElements(a.AffectsPendingElements())
	}

	kept := e.animations[:0]
	for _, a := range e.animations {
		if a.AffectsActiveElements() || a.AffectsPendingElements() {
			kept = append(kept, a)
		}
	}
	clear(e.animations[len(kept):])
	e.animations = kept

	e.scrollOffsetAnimationWasInterrupted = false
	e.updateActivation(false)
	if changed != 0 {
		e.UpdateClientAnimationState()
	}
}

// ScrollOffsetAnimationWasInterrupted reports whether a scroll offset
// animation was removed since the last activation.
func (e *ElementAnimations) ScrollOffsetAnimationWasInterrupted() bool {
	return e.scrollOffsetAnimationWasInterrupted
}

// NotifyAnimationStarted records the synchronized start time carried by a
// STARTED event from the impl side.
func (e *ElementAnimations) NotifyAnimationStarted(ev animation.AnimationEvent) {
	if ev.IsImplOnly {
		e.notifyPlayersStarted(ev)
		return
	}
	for _, a := range e.animations {
		if a.Group() != ev.GroupID || a.TargetProperty() != ev.TargetProperty || !a.NeedsSynchronizedStartTime() {
			continue
		}
		a.SetNeedsSynchronizedStartTime(false)
		if !a.HasSetStartTime() {
			a.SetStartTime(ev.MonotonicTime)
		}
		e.notifyPlayersStarted(ev)
		return
	}
}

// NotifyAnimationFinished acknowledges a FINISHED event so the group can be
// deleted on this side.
func (e *ElementAnimations) NotifyAnimationFinished(ev animation.AnimationEvent) {
	if ev.IsImplOnly {
		e.notifyPlayersFinished(ev)
		return
	}
	for _, a := range e.animations {
		if a.Group() != ev.GroupID || a.TargetProperty() != ev.TargetProperty {
			continue
		}
		a.SetReceivedFinishedEvent(true)
		e.notifyPlayersFinished(ev)
		return
	}
}

// NotifyAnimationAborted mirrors an impl side abort.
func (e *ElementAnimations) NotifyAnimationAborted(ev animation.AnimationEvent) {
	for _, a := range e.animations {
		if a.Group() != ev.GroupID || a.TargetProperty() != ev.TargetProperty {
			continue
		}
		a.SetRunState(animation.Aborted, ev.MonotonicTime)
		a.SetReceivedFinishedEvent(true)
		for _, p := range e.players {
			p.notifyAnimationAborted(ev)
		}
		break
	}
	e.UpdateClientAnimationState()
}

// NotifyAnimationTakeover hands an impl-only scroll animation over to the
// main side.
func (e *ElementAnimations) NotifyAnimationTakeover(ev animation.AnimationEvent) {
	if ev.Curve == nil {
		return
	}
	for _, p := range e.players {
		p.notifyAnimationTakeover(ev)
	}
}

// NotifyAnimationPropertyUpdate applies a value sent from the other side to
// both tree generations.
func (e *ElementAnimations) NotifyAnimationPropertyUpdate(ev animation.AnimationEvent) {
	switch ev.TargetProperty {
	case animation.TargetOpacity:
		e.notifyClientOpacityAnimated(ev.Opacity, true, true)
	case animation.TargetTransform:
		e.notifyClientTransformAnimated(ev.Transform, true, true)
	}
}

func (e *ElementAnimations) notifyPlayersStarted(ev animation.AnimationEvent) {
	for _, p := range e.players {
		p.notifyAnimationStarted(ev)
	}
}

func (e *ElementAnimations) notifyPlayersFinished(ev animation.AnimationEvent) {
	for _, p := range e.players {
		p.notifyAnimationFinished(ev)
	}
}

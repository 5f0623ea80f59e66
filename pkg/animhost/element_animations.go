package animhost

import (
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/errors"
)

// propertyAnimationState caches what the client was last told about one
// property, so callbacks fire only on change.
type propertyAnimationState struct {
	potentiallyAnimatingForActive  bool
	potentiallyAnimatingForPending bool
	currentlyRunningForActive      bool
	currentlyRunningForPending     bool
}

// ElementAnimations owns the animations of one scene element. Animations
// keep insertion order; lookups that match several entries return the last.
type ElementAnimations struct {
	host      *AnimationHost
	elementID animation.ElementID

	animations []*animation.Animation
	players    []*AnimationPlayer

	isActive                            bool
	lastTickTime                        animation.TimeTicks
	needsToStartAnimations              bool
	scrollOffsetAnimationWasInterrupted bool

	hasElementInActiveList  bool
	hasElementInPendingList bool

	transformState propertyAnimationState
	opacityState   propertyAnimationState
	filterState    propertyAnimationState
}

func newElementAnimations(id animation.ElementID) *ElementAnimations {
	return &ElementAnimations{elementID: id}
}

// ElementID returns the element these animations drive.
func (e *ElementAnimations) ElementID() animation.ElementID { return e.elementID }

// Host returns the owning host, or nil once detached.
func (e *ElementAnimations) Host() *AnimationHost { return e.host }

// IsActive reports whether the element is in its host's ticking set.
func (e *ElementAnimations) IsActive() bool { return e.isActive }

// LastTickTime returns the time of the last Animate call.
func (e *ElementAnimations) LastTickTime() animation.TimeTicks { return e.lastTickTime }

func (e *ElementAnimations) HasElementInActiveList() bool  { return e.hasElementInActiveList }
func (e *ElementAnimations) HasElementInPendingList() bool { return e.hasElementInPendingList }
func (e *ElementAnimations) hasElementInAnyList() bool {
	return e.hasElementInActiveList || e.hasElementInPendingList
}

// Animations returns the animation list. Callers must not modify it.
func (e *ElementAnimations) Animations() []*animation.Animation { return e.animations }

func (e *ElementAnimations) client() MutatorHostClient {
	if e.host == nil {
		return nil
	}
	return e.host.client
}

func (e *ElementAnimations) setNeedsPushProperties() {
	if e.host != nil {
		e.host.SetNeedsPushProperties()
	}
}

func (e *ElementAnimations) addPlayer(p *AnimationPlayer) {
	for _, existing := range e.players {
		if existing == p {
			return
		}
	}
	e.players = append(e.players, p)
}

func (e *ElementAnimations) removePlayer(p *AnimationPlayer) {
	for i, existing := range e.players {
		if existing == p {
			e.players = append(e.players[:i], e.players[i+1:]...)
			return
		}
	}
}

// isEmpty reports whether no player references the element any more.
func (e *ElementAnimations) isEmpty() bool { return len(e.players) == 0 }

// initAffectedElementTypes reads the element's tree membership from the
// client when the element animations join a host.
func (e *ElementAnimations) initAffectedElementTypes() {
	c := e.client()
	if c == nil {
		return
	}
	if c.IsElementInList(e.elementID, animation.ListActive) {
		e.hasElementInActiveList = true
	}
	if c.IsElementInList(e.elementID, animation.ListPending) {
		e.hasElementInPendingList = true
	}
	e.updateActivation(true)
}

// clearAffectedElementTypes tells the client nothing animates any more and
// leaves the ticking set. It runs just before the host forgets the element.
func (e *ElementAnimations) clearAffectedElementTypes() {
	c := e.client()
	for _, list := range []animation.ElementListType{animation.ListActive, animation.ListPending} {
		if c == nil || !e.hasElementInList(list) {
			continue
		}
		for _, p := range trackedProperties {
			st := e.stateFor(p)
			potential, running := st.get(list)
			if potential || running {
				notifyIsAnimatingChanged(c, p, e.elementID, list, animation.ChangeBoth, false)
			}
		}
	}
	e.transformState = propertyAnimationState{}
	e.opacityState = propertyAnimationState{}
	e.filterState = propertyAnimationState{}
	e.hasElementInActiveList = false
	e.hasElementInPendingList = false
	if e.host != nil {
		e.host.DidDeactivateElementAnimations(e)
	}
	e.isActive = false
}

func (e *ElementAnimations) hasElementInList(list animation.ElementListType) bool {
	if list == animation.ListActive {
		return e.hasElementInActiveList
	}
	return e.hasElementInPendingList
}

// ElementRegistered records that the element joined a tree generation.
func (e *ElementAnimations) ElementRegistered(list animation.ElementListType) {
	hadElement := e.hasElementInAnyList()
	if list == animation.ListActive {
		e.hasElementInActiveList = true
	} else {
		e.hasElementInPendingList = true
	}
	if !hadElement {
		e.updateActivation(true)
	}
}

// ElementUnregistered records that the element left a tree generation.
func (e *ElementAnimations) ElementUnregistered(list animation.ElementListType) {
	if list == animation.ListActive {
		e.hasElementInActiveList = false
	} else {
		e.hasElementInPendingList = false
	}
	if !e.hasElementInAnyList() && e.host != nil {
		e.host.DidDeactivateElementAnimations(e)
		e.isActive = false
	}
}

// AddAnimation appends an animation and schedules it to start. A group may
// animate each property only once at a time.
func (e *ElementAnimations) AddAnimation(a *animation.Animation) {
	for _, existing := range e.animations {
		if existing.Group() == a.Group() && existing.TargetProperty() == a.TargetProperty() && !existing.IsFinished() {
			errors.Invariant("ElementAnimations.AddAnimation", uint64(e.elementID), errors.ErrDuplicateAnimation)
			return
		}
	}
	e.insertAnimation(a)
}

// insertAnimation appends a without the group check. Commits use it: the impl
// side may still hold a twin the main side already replaced.
func (e *ElementAnimations) insertAnimation(a *animation.Animation) {
	e.animations = append(e.animations, a)
	e.needsToStartAnimations = true
	e.updateActivation(false)
	e.UpdateClientAnimationState()
	e.setNeedsPushProperties()
}

// PauseAnimation pauses the animation with id at offset past its start time.
func (e *ElementAnimations) PauseAnimation(id int, offset time.Duration) {
	for _, a := range e.animations {
		if a.ID() == id {
			a.SetRunState(animation.Paused, a.StartTime().Add(offset))
		}
	}
	e.setNeedsPushProperties()
}

// RemoveAnimation drops every animation with id. Removing a scroll offset
// animation from an element in the active tree marks the scroll as
// interrupted.
func (e *ElementAnimations) RemoveAnimation(id int) {
	removedUnfinished := false
	kept := e.animations[:0]
	for _, a := range e.animations {
		if a.ID() != id {
			kept = append(kept, a)
			continue
		}
		if a.TargetProperty() == animation.TargetScrollOffset {
			if e.hasElementInActiveList {
				e.scrollOffsetAnimationWasInterrupted = true
			}
		} else if !a.IsFinished() {
			removedUnfinished = true
		}
	}
	clear(e.animations[len(kept):])
	e.animations = kept
	e.updateActivation(false)
	if removedUnfinished {
		e.UpdateClientAnimationState()
	}
	e.setNeedsPushProperties()
}

// AbortAnimation aborts the animation with id unless it already finished.
func (e *ElementAnimations) AbortAnimation(id int) {
	if a := e.GetAnimationByID(id); a != nil && !a.IsFinished() {
		a.SetRunState(animation.Aborted, e.lastTickTime)
		e.UpdateClientAnimationState()
	}
	e.setNeedsPushProperties()
}

// AbortAnimations aborts every unfinished animation of property. With
// needsCompletion, impl-only animations are handed to the main side to
// finish instead.
func (e *ElementAnimations) AbortAnimations(property animation.TargetProperty, needsCompletion bool) {
	aborted := false
	for _, a := range e.animations {
		if a.TargetProperty() != property || a.IsFinished() {
			continue
		}
		if needsCompletion && a.IsImplOnly() {
			a.SetRunState(animation.AbortedButNeedsCompletion, e.lastTickTime)
		} else {
			a.SetRunState(animation.Aborted, e.lastTickTime)
		}
		aborted = true
	}
	if aborted {
		e.UpdateClientAnimationState()
	}
	e.setNeedsPushProperties()
}

// Animate starts waiting animations and pushes current values to the client.
// It does nothing for an element absent from both trees.
func (e *ElementAnimations) Animate(t animation.TimeTicks) {
	if !e.hasElementInAnyList() {
		return
	}
	if e.needsToStartAnimations {
		e.startAnimations(t)
	}
	e.tickAnimations(t)
	e.lastTickTime = t
	e.UpdateClientAnimationState()
}

// UpdateState advances run states after a tick. With startReady, starting
// animations begin running. Events for the other side are appended to
// events when it is non-nil.
func (e *ElementAnimations) UpdateState(startReady bool, events *animation.AnimationEvents) {
	if !e.hasElementInActiveList {
		return
	}
	// Not ticked yet: the element arrived between commit and draw.
	if e.lastTickTime.IsNull() {
		return
	}

	if startReady {
		e.promoteStartedAnimations(e.lastTickTime, events)
	}
	e.markFinishedAnimations(e.lastTickTime)
	e.markAnimationsForDeletion(e.lastTickTime, events)

	if e.needsToStartAnimations && startReady {
		e.startAnimations(e.lastTickTime)
		e.promoteStartedAnimations(e.lastTickTime, events)
	}
	e.updateActivation(false)
}

// startAnimations moves waiting groups to Starting when none of the group's
// properties is held by a starting or running animation on the same tree
// generation. Groups are admitted whole, in list order.
func (e *ElementAnimations) startAnimations(t animation.TimeTicks) {
	e.needsToStartAnimations = false

	var blockedActive, blockedPending animation.PropertySet
	var waiting []int
	groups := make(map[int][]int)
	for i, a := range e.animations {
		groups[a.Group()] = append(groups[a.Group()], i)
		switch a.RunState() {
		case animation.Starting, animation.Running:
			if a.AffectsActiveElements() {
				blockedActive = blockedActive.Add(a.TargetProperty())
			}
			if a.AffectsPendingElements() {
				blockedPending = blockedPending.Add(a.TargetProperty())
			}
		case animation.WaitingForTargetAvailability:
			waiting = append(waiting, i)
		}
	}

	for _, index := range waiting {
		first := e.animations[index]
		// An earlier group in this pass may already have started it.
		if first.RunState() != animation.WaitingForTargetAvailability {
			continue
		}

		var members []int
		for _, j := range groups[first.Group()] {
			if j > index {
				members = append(members, j)
			}
		}

		enqueued := animation.PropertySet(0).Add(first.TargetProperty())
		affectsActive := first.AffectsActiveElements()
		affectsPending := first.AffectsPendingElements()
		for _, j := range members {
			m := e.animations[j]
			enqueued = enqueued.Add(m.TargetProperty())
			affectsActive = affectsActive || m.AffectsActiveElements()
			affectsPending = affectsPending || m.AffectsPendingElements()
		}

		nullIntersection := true
		if affectsActive {
			if blockedActive.Intersects(enqueued) {
				nullIntersection = false
			}
			blockedActive |= enqueued
		}
		if affectsPending {
			if blockedPending.Intersects(enqueued) {
				nullIntersection = false
			}
			blockedPending |= enqueued
		}

		if !nullIntersection {
			e.needsToStartAnimations = true
			continue
		}
		first.SetRunState(animation.Starting, t)
		for _, j := range members {
			e.animations[j].SetRunState(animation.Starting, t)
		}
	}
}

func (e *ElementAnimations) promoteStartedAnimations(t animation.TimeTicks, events *animation.AnimationEvents) {
	for _, a := range e.animations {
		if a.RunState() != animation.Starting || !a.AffectsActiveElements() {
			continue
		}
		a.SetRunState(animation.Running, t)
		if !a.HasSetStartTime() && !a.NeedsSynchronizedStartTime() {
			a.SetStartTime(t)
		}
		if events == nil {
			continue
		}
		start := t
		if a.HasSetStartTime() {
			start = a.StartTime()
		}
		ev := animation.AnimationEvent{
			Type:           animation.EventStarted,
			ElementID:      e.elementID,
			GroupID:        a.Group(),
			TargetProperty: a.TargetProperty(),
			MonotonicTime:  start,
			IsImplOnly:     a.IsImplOnly(),
		}
		if ev.IsImplOnly {
			e.NotifyAnimationStarted(ev)
		} else {
			events.Append(ev)
		}
	}
}

func (e *ElementAnimations) markFinishedAnimations(t animation.TimeTicks) {
	finished := false
	for _, a := range e.animations {
		if !a.IsFinished() && a.IsFinishedAt(t) {
			a.SetRunState(animation.Finished, t)
			finished = true
		}
	}
	if finished {
		e.UpdateClientAnimationState()
	}
}

// willSendOrHasReceivedFinishEvent reports whether a finished animation's
// FINISHED acknowledgment is settled on this side.
func willSendOrHasReceivedFinishEvent(a *animation.Animation) bool {
	return a.IsControllingInstance() || a.IsImplOnly() || a.ReceivedFinishedEvent()
}

// markAnimationsForDeletion retires aborted animations and finished groups.
// A finished animation is only retired together with every other member of
// its group, and only once all of them have a settled FINISHED event.
func (e *ElementAnimations) markAnimationsForDeletion(t animation.TimeTicks, events *animation.AnimationEvents) {
	marked := false
	for i, a := range e.animations {
		group := a.Group()

		if a.RunState() == animation.Aborted {
			if events != nil && !a.IsImplOnly() {
				events.Append(animation.AnimationEvent{
					Type:           animation.EventAborted,
					ElementID:      e.elementID,
					GroupID:        group,
					TargetProperty: a.TargetProperty(),
					MonotonicTime:  t,
				})
			}
			// The impl side, or a main side that heard back, may delete.
			if events != nil || a.ReceivedFinishedEvent() {
				a.SetRunState(animation.WaitingForDeletion, t)
				marked = true
			}
			continue
		}

		if events != nil && a.RunState() == animation.AbortedButNeedsCompletion {
			ev := animation.AnimationEvent{
				Type:               animation.EventTakeover,
				ElementID:          e.elementID,
				GroupID:            group,
				TargetProperty:     a.TargetProperty(),
				MonotonicTime:      t,
				AnimationStartTime: a.StartTime().Seconds(),
				Curve:              a.Curve().Clone(),
			}
			finished := ev
			finished.Type = animation.EventFinished
			for _, p := range e.players {
				p.notifyAnimationFinished(finished)
			}
			events.Append(ev)
			a.SetRunState(animation.WaitingForDeletion, t)
			marked = true
			continue
		}

		if a.RunState() != animation.Finished || !willSendOrHasReceivedFinishEvent(a) {
			continue
		}

		allFinished := true
		var sameGroup []int
		for j, other := range e.animations {
			if other.Group() != group {
				continue
			}
			if !other.IsFinished() || (other.RunState() == animation.Finished && !willSendOrHasReceivedFinishEvent(other)) {
				allFinished = false
				break
			}
			if j >= i && other.RunState() != animation.Aborted {
				sameGroup = append(sameGroup, j)
			}
		}
		if !allFinished {
			continue
		}

		for _, j := range sameGroup {
			m := e.animations[j]
			if events != nil {
				ev := animation.AnimationEvent{
					Type:           animation.EventFinished,
					ElementID:      e.elementID,
					GroupID:        m.Group(),
					TargetProperty: m.TargetProperty(),
					MonotonicTime:  t,
					IsImplOnly:     m.IsImplOnly(),
				}
				if ev.IsImplOnly {
					e.NotifyAnimationFinished(ev)
				} else {
					events.Append(ev)
				}
			}
			m.SetRunState(animation.WaitingForDeletion, t)
		}
		marked = true
	}
	if marked {
		e.setNeedsPushProperties()
	}
}

// tickAnimations evaluates every live animation and writes the value to the
// trees it affects.
func (e *ElementAnimations) tickAnimations(t animation.TimeTicks) {
	for _, a := range e.animations {
		switch a.RunState() {
		case animation.Starting, animation.Running, animation.Paused:
		default:
			continue
		}
		if !a.InEffect(t) {
			continue
		}
		local := a.TrimTimeToCurrentIteration(t)
		active, pending := a.AffectsActiveElements(), a.AffectsPendingElements()

		switch a.TargetProperty() {
		case animation.TargetTransform:
			if c, ok := a.Curve().(*animation.TransformCurve); ok {
				e.notifyClientTransformAnimated(c.GetValue(local), active, pending)
			}
		case animation.TargetOpacity:
			if c, ok := a.Curve().(*animation.FloatCurve); ok {
				e.notifyClientOpacityAnimated(animation.Clamp(c.GetValue(local), 0, 1), active, pending)
			}
		case animation.TargetFilter:
			if c, ok := a.Curve().(*animation.FilterCurve); ok {
				e.notifyClientFilterAnimated(c.GetValue(local), active, pending)
			}
		case animation.TargetScrollOffset:
			if c, ok := a.Curve().(*animation.ScrollOffsetAnimationCurve); ok {
				e.notifyClientScrollOffsetAnimated(c.GetValue(local), active, pending)
			}
		case animation.TargetBackgroundColor:
			// Evaluated for completeness; scene trees have no background
			// color mutator.
		}
	}
}

// updateActivation keeps the host's ticking set in step with whether any
// animation is still alive. force re-announces the current state.
func (e *ElementAnimations) updateActivation(force bool) {
	if e.host == nil {
		return
	}
	wasActive := e.isActive
	e.isActive = false
	for _, a := range e.animations {
		if a.RunState() != animation.WaitingForDeletion {
			e.isActive = true
			break
		}
	}

	switch {
	case e.isActive && ((!wasActive && e.hasElementInAnyList()) || force):
		e.host.DidActivateElementAnimations(e)
	case !e.isActive && (wasActive || force):
		e.host.DidDeactivateElementAnimations(e)
	}
}

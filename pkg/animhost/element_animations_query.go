package animhost

import (
	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/gfx"
)

// trackedProperties are the properties whose animating state is reported to
// the client.
var trackedProperties = []animation.TargetProperty{
	animation.TargetTransform,
	animation.TargetOpacity,
	animation.TargetFilter,
}

func (s *propertyAnimationState) get(list animation.ElementListType) (potential, running bool) {
	if list == animation.ListActive {
		return s.potentiallyAnimatingForActive, s.currentlyRunningForActive
	}
	return s.potentiallyAnimatingForPending, s.currentlyRunningForPending
}

func (e *ElementAnimations) stateFor(p animation.TargetProperty) *propertyAnimationState {
	switch p {
	case animation.TargetTransform:
		return &e.transformState
	case animation.TargetOpacity:
		return &e.opacityState
	case animation.TargetFilter:
		return &e.filterState
	}
	return nil
}

func notifyIsAnimatingChanged(c MutatorHostClient, p animation.TargetProperty, id animation.ElementID, list animation.ElementListType, change animation.AnimationChangeType, animating bool) {
	switch p {
	case animation.TargetTransform:
		c.ElementTransformIsAnimatingChanged(id, list, change, animating)
	case animation.TargetOpacity:
		c.ElementOpacityIsAnimatingChanged(id, list, change, animating)
	case animation.TargetFilter:
		c.ElementFilterIsAnimatingChanged(id, list, change, animating)
	}
}

// UpdateClientAnimationState recomputes the potentially animating and
// currently running flags of every tracked property and reports the ones
// that changed for the tree generations the element belongs to.
func (e *ElementAnimations) UpdateClientAnimationState() {
	c := e.client()
	if c == nil {
		return
	}
	for _, p := range trackedProperties {
		st := e.stateFor(p)
		prev := *st
		*st = propertyAnimationState{}
		for _, a := range e.animations {
			if a.IsFinished() || a.TargetProperty() != p {
				continue
			}
			inEffect := a.InEffect(e.lastTickTime)
			if a.AffectsActiveElements() {
				st.potentiallyAnimatingForActive = true
				st.currentlyRunningForActive = st.currentlyRunningForActive || inEffect
			}
			if a.AffectsPendingElements() {
				st.potentiallyAnimatingForPending = true
				st.currentlyRunningForPending = st.currentlyRunningForPending || inEffect
			}
		}

		for _, list := range []animation.ElementListType{animation.ListActive, animation.ListPending} {
			if !e.hasElementInList(list) {
				continue
			}
			wasPotential, wasRunning := prev.get(list)
			potential, running := st.get(list)
			potentialChanged := wasPotential != potential
			runningChanged := wasRunning != running
			switch {
			case potentialChanged && runningChanged && potential == running:
				notifyIsAnimatingChanged(c, p, e.elementID, list, animation.ChangeBoth, potential)
			default:
				if potentialChanged {
					notifyIsAnimatingChanged(c, p, e.elementID, list, animation.ChangePotential, potential)
				}
				if runningChanged {
					notifyIsAnimatingChanged(c, p, e.elementID, list, animation.ChangeRunning, running)
				}
			}
		}
	}
}

func (e *ElementAnimations) notifyClientOpacityAnimated(opacity float64, active, pending bool) {
	c := e.client()
	if c == nil {
		return
	}
	if active && e.hasElementInActiveList {
		c.SetElementOpacityMutated(e.elementID, animation.ListActive, opacity)
	}
	if pending && e.hasElementInPendingList {
		c.SetElementOpacityMutated(e.elementID, animation.ListPending, opacity)
	}
}

func (e *ElementAnimations) notifyClientTransformAnimated(t gfx.Transform, active, pending bool) {
	c := e.client()
	if c == nil {
		return
	}
	if active && e.hasElementInActiveList {
		c.SetElementTransformMutated(e.elementID, animation.ListActive, t)
	}
	if pending && e.hasElementInPendingList {
		c.SetElementTransformMutated(e.elementID, animation.ListPending, t)
	}
}

func (e *ElementAnimations) notifyClientFilterAnimated(f gfx.FilterOperations, active, pending bool) {
	c := e.client()
	if c == nil {
		return
	}
	if active && e.hasElementInActiveList {
		c.SetElementFilterMutated(e.elementID, animation.ListActive, f)
	}
	if pending && e.hasElementInPendingList {
		c.SetElementFilterMutated(e.elementID, animation.ListPending, f)
	}
}

func (e *ElementAnimations) notifyClientScrollOffsetAnimated(o gfx.ScrollOffset, active, pending bool) {
	c := e.client()
	if c == nil {
		return
	}
	if active && e.hasElementInActiveList {
		c.SetElementScrollOffsetMutated(e.elementID, animation.ListActive, o)
	}
	if pending && e.hasElementInPendingList {
		c.SetElementScrollOffsetMutated(e.elementID, animation.ListPending, o)
	}
}

// GetAnimation returns the most recently added animation of property.
func (e *ElementAnimations) GetAnimation(property animation.TargetProperty) *animation.Animation {
	for i := len(e.animations) - 1; i >= 0; i-- {
		if e.animations[i].TargetProperty() == property {
			return e.animations[i]
		}
	}
	return nil
}

// GetAnimationByID returns the most recently added animation with id.
func (e *ElementAnimations) GetAnimationByID(id int) *animation.Animation {
	for i := len(e.animations) - 1; i >= 0; i-- {
		if e.animations[i].ID() == id {
			return e.animations[i]
		}
	}
	return nil
}

func affectsList(a *animation.Animation, list animation.ElementListType) bool {
	if list == animation.ListActive {
		return a.AffectsActiveElements()
	}
	return a.AffectsPendingElements()
}

// HasActiveAnimation reports whether any animation is unfinished.
func (e *ElementAnimations) HasActiveAnimation() bool {
	for _, a := range e.animations {
		if !a.IsFinished() {
			return true
		}
	}
	return false
}

func (e *ElementAnimations) HasAnyAnimation() bool { return len(e.animations) > 0 }

func (e *ElementAnimations) HasAnyAnimationTargetingProperty(property animation.TargetProperty) bool {
	return e.GetAnimation(property) != nil
}

// IsPotentiallyAnimatingProperty reports whether an unfinished animation of
// property affects list, whether or not it is in effect yet.
func (e *ElementAnimations) IsPotentiallyAnimatingProperty(property animation.TargetProperty, list animation.ElementListType) bool {
	for _, a := range e.animations {
		if !a.IsFinished() && a.TargetProperty() == property && affectsList(a, list) {
			return true
		}
	}
	return false
}

// IsCurrentlyAnimatingProperty is IsPotentiallyAnimatingProperty restricted
// to animations in effect at the last tick.
func (e *ElementAnimations) IsCurrentlyAnimatingProperty(property animation.TargetProperty, list animation.ElementListType) bool {
	for _, a := range e.animations {
		if !a.IsFinished() && a.InEffect(e.lastTickTime) && a.TargetProperty() == property && affectsList(a, list) {
			return true
		}
	}
	return false
}

// IsAnimatingOnImplOnly reports whether the latest animation of property is
// unfinished and lives only on the impl side.
func (e *ElementAnimations) IsAnimatingOnImplOnly(property animation.TargetProperty) bool {
	a := e.GetAnimation(property)
	return a != nil && !a.IsFinished() && a.IsImplOnly()
}

func (e *ElementAnimations) HasFilterAnimationThatInflatesBounds() bool {
	for _, a := range e.animations {
		if a.IsFinished() || a.TargetProperty() != animation.TargetFilter {
			continue
		}
		if c, ok := a.Curve().(*animation.FilterCurve); ok && c.HasFilterThatMovesPixels() {
			return true
		}
	}
	return false
}

func (e *ElementAnimations) HasTransformAnimationThatInflatesBounds() bool {
	return e.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListActive) ||
		e.IsCurrentlyAnimatingProperty(animation.TargetTransform, animation.ListPending)
}

// FilterAnimationBoundsForBox is not supported; filter bounds cannot be
// computed from the curve alone.
func (e *ElementAnimations) FilterAnimationBoundsForBox(box gfx.Box) (gfx.Box, bool) {
	return gfx.Box{}, false
}

// TransformAnimationBoundsForBox returns the box swept by box under every
// unfinished transform animation. ok is false when some curve cannot bound
// its motion.
func (e *ElementAnimations) TransformAnimationBoundsForBox(box gfx.Box) (gfx.Box, bool) {
	var bounds gfx.Box
	first := true
	for _, c := range e.transformCurves(nil) {
		b, ok := c.AnimatedBoundsForBox(box)
		if !ok {
			return gfx.Box{}, false
		}
		if first {
			bounds, first = b, false
			continue
		}
		bounds = bounds.Union(b)
	}
	return bounds, true
}

// transformCurves returns the curves of unfinished transform animations,
// optionally restricted to one tree generation.
func (e *ElementAnimations) transformCurves(list *animation.ElementListType) []*animation.TransformCurve {
	var out []*animation.TransformCurve
	for _, a := range e.transformAnimations(list) {
		if c, ok := a.Curve().(*animation.TransformCurve); ok {
			out = append(out, c)
		}
	}
	return out
}

func (e *ElementAnimations) transformAnimations(list *animation.ElementListType) []*animation.Animation {
	var out []*animation.Animation
	for _, a := range e.animations {
		if a.IsFinished() || a.TargetProperty() != animation.TargetTransform {
			continue
		}
		if list != nil && !affectsList(a, *list) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (e *ElementAnimations) HasOnlyTranslationTransforms(list animation.ElementListType) bool {
	for _, c := range e.transformCurves(&list) {
		if !c.IsTranslation() {
			return false
		}
	}
	return true
}

func (e *ElementAnimations) AnimationsPreserveAxisAlignment() bool {
	for _, c := range e.transformCurves(nil) {
		if !c.PreservesAxisAlignment() {
			return false
		}
	}
	return true
}

// isForwardDirection reports whether a plays its keyframes front to back at
// its first iteration.
func isForwardDirection(a *animation.Animation) bool {
	switch a.Direction() {
	case animation.DirectionNormal, animation.DirectionAlternateNormal:
		return a.PlaybackRate() >= 0
	default:
		return a.PlaybackRate() < 0
	}
}

// AnimationStartScale returns the largest scale any transform animation on
// list starts from.
func (e *ElementAnimations) AnimationStartScale(list animation.ElementListType) (float64, bool) {
	return e.maxScale(list, (*animation.TransformCurve).AnimationStartScale)
}

// MaximumTargetScale returns the largest scale any transform animation on
// list ends at.
func (e *ElementAnimations) MaximumTargetScale(list animation.ElementListType) (float64, bool) {
	return e.maxScale(list, (*animation.TransformCurve).MaximumTargetScale)
}

func (e *ElementAnimations) maxScale(list animation.ElementListType, scaleOf func(*animation.TransformCurve, bool) (float64, bool)) (float64, bool) {
	var scale float64
	for _, a := range e.transformAnimations(&list) {
		c, ok := a.Curve().(*animation.TransformCurve)
		if !ok {
			continue
		}
		s, ok := scaleOf(c, isForwardDirection(a))
		if !ok {
			return 0, false
		}
		scale = max(scale, s)
	}
	return scale, true
}

// ScrollOffsetForAnimation asks the client for the element's current scroll
// offset.
func (e *ElementAnimations) ScrollOffsetForAnimation() gfx.ScrollOffset {
	if c := e.client(); c != nil {
		return c.GetScrollOffsetForAnimation(e.elementID)
	}
	return gfx.ScrollOffset{}
}

package animhost

import (
	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/gfx"
)

// MutatorHostClient is the scene tree owner. The host writes animated values
// through it and asks it which tree generations contain an element.
type MutatorHostClient interface {
	IsElementInList(id animation.ElementID, list animation.ElementListType) bool

	SetMutatorsNeedCommit()
	SetMutatorsNeedRebuildPropertyTrees()

	SetElementFilterMutated(id animation.ElementID, list animation.ElementListType, filters gfx.FilterOperations)
	SetElementOpacityMutated(id animation.ElementID, list animation.ElementListType, opacity float64)
	SetElementTransformMutated(id animation.ElementID, list animation.ElementListType, transform gfx.Transform)
	SetElementScrollOffsetMutated(id animation.ElementID, list animation.ElementListType, offset gfx.ScrollOffset)

	ElementTransformIsAnimatingChanged(id animation.ElementID, list animation.ElementListType, change animation.AnimationChangeType, animating bool)
	ElementOpacityIsAnimatingChanged(id animation.ElementID, list animation.ElementListType, change animation.AnimationChangeType, animating bool)
	ElementFilterIsAnimatingChanged(id animation.ElementID, list animation.ElementListType, change animation.AnimationChangeType, animating bool)

	ScrollOffsetAnimationFinished()
	GetScrollOffsetForAnimation(id animation.ElementID) gfx.ScrollOffset
}

// AnimationDelegate observes the lifecycle of the animations on a player's
// element.
type AnimationDelegate interface {
	NotifyAnimationStarted(t animation.TimeTicks, property animation.TargetProperty, group int)
	NotifyAnimationFinished(t animation.TimeTicks, property animation.TargetProperty, group int)
	NotifyAnimationAborted(t animation.TimeTicks, property animation.TargetProperty, group int)
	// NotifyAnimationTakeover hands an impl-only animation's curve to the
	// main side so it can finish the motion itself.
	NotifyAnimationTakeover(t animation.TimeTicks, property animation.TargetProperty, animationStartTime float64, curve animation.Curve)
}

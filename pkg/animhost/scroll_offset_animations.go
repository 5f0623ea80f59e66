package animhost

import (
	"maps"
	"slices"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/gfx"
)

// ScrollOffsetAnimations queues main side requests that concern impl-only
// scroll animations. The only request is takeover: the impl side aborts its
// scroll and hands the curve back.
type ScrollOffsetAnimations struct {
	host      *AnimationHost
	takeovers map[animation.ElementID]struct{}
}

func newScrollOffsetAnimations(h *AnimationHost) *ScrollOffsetAnimations {
	return &ScrollOffsetAnimations{host: h, takeovers: make(map[animation.ElementID]struct{})}
}

// AddTakeoverUpdate asks the impl side to give up the scroll animation of id
// on the next commit.
func (s *ScrollOffsetAnimations) AddTakeoverUpdate(id animation.ElementID) {
	s.takeovers[id] = struct{}{}
	s.host.SetNeedsPushProperties()
}

// PendingTakeovers returns the queued element ids in ascending order.
func (s *ScrollOffsetAnimations) PendingTakeovers() []animation.ElementID {
	return slices.Sorted(maps.Keys(s.takeovers))
}

// PushPropertiesTo delivers queued takeovers to impl and empties the queue.
func (s *ScrollOffsetAnimations) PushPropertiesTo(impl *ScrollOffsetAnimationsImpl) {
	if s == nil || impl == nil || len(s.takeovers) == 0 {
		return
	}
	for range s.takeovers {
		impl.ScrollAnimationAbort(true)
	}
	clear(s.takeovers)
}

// ScrollOffsetAnimationsImpl runs smooth scrolls that never pass through the
// main side. It owns one impl-only timeline with one player, which moves to
// whichever element is scrolling.
type ScrollOffsetAnimationsImpl struct {
	host     *AnimationHost
	timeline *AnimationTimeline
	player   *AnimationPlayer
}

func newScrollOffsetAnimationsImpl(h *AnimationHost) *ScrollOffsetAnimationsImpl {
	s := &ScrollOffsetAnimationsImpl{
		host:     h,
		timeline: NewAnimationTimeline(h.ids.NextTimelineID()),
		player:   NewAnimationPlayer(h.ids.NextPlayerID()),
	}
	s.timeline.SetIsImplOnly(true)
	s.player.SetAnimationDelegate(s)
	_ = h.AddAnimationTimeline(s.timeline)
	_ = s.timeline.AttachPlayer(s.player)
	return s
}

// Player returns the player driving impl-only scrolls.
func (s *ScrollOffsetAnimationsImpl) Player() *AnimationPlayer { return s.player }

// ScrollAnimationCreate starts a scroll of id from current to target.
func (s *ScrollOffsetAnimationsImpl) ScrollAnimationCreate(id animation.ElementID, target, current gfx.ScrollOffset) {
	curve := animation.NewScrollOffsetAnimationCurve(target, animation.EaseInOut, s.host.scrollBehavior)
	curve.SetInitialValue(current)

	a := animation.NewAnimation(curve, s.host.ids.NextAnimationID(), s.host.ids.NextGroupID(), animation.TargetScrollOffset)
	a.SetIsImplOnly(true)

	s.reattachPlayerIfNeeded(id)
	s.player.AddAnimation(a)
	animation.Logger().Debug("impl-only scroll created", "element", id, "animation", a.ID())
}

// ScrollAnimationUpdateTarget retargets the running scroll by delta, keeping
// the new target inside [0, maxScroll].
func (s *ScrollOffsetAnimationsImpl) ScrollAnimationUpdateTarget(id animation.ElementID, delta, maxScroll gfx.ScrollOffset, frameTime animation.TimeTicks) bool {
	ea := s.player.ElementAnimations()
	if ea == nil || s.player.ElementID() != id {
		return false
	}
	a := ea.GetAnimation(animation.TargetScrollOffset)
	if a == nil {
		s.player.DetachElement()
		return false
	}
	if delta.IsZero() {
		return true
	}
	curve, ok := a.Curve().(*animation.ScrollOffsetAnimationCurve)
	if !ok {
		return false
	}
	target := curve.TargetValue().Add(delta).ClampTo(maxScroll)
	curve.UpdateTarget(a.TrimTimeToCurrentIteration(frameTime).Seconds(), target)
	return true
}

// ScrollAnimationAbort aborts the running scroll. With needsCompletion the
// main side receives a TAKEOVER event to finish it.
func (s *ScrollOffsetAnimationsImpl) ScrollAnimationAbort(needsCompletion bool) {
	s.player.AbortAnimations(animation.TargetScrollOffset, needsCompletion)
}

func (s *ScrollOffsetAnimationsImpl) reattachPlayerIfNeeded(id animation.ElementID) {
	if s.player.ElementID() == id {
		return
	}
	if s.player.ElementID() != 0 {
		s.player.DetachElement()
	}
	if id != 0 {
		_ = s.player.AttachElement(id)
	}
}

func (s *ScrollOffsetAnimationsImpl) NotifyAnimationStarted(animation.TimeTicks, animation.TargetProperty, int) {}

// NotifyAnimationFinished tells the client the impl-only scroll is done.
func (s *ScrollOffsetAnimationsImpl) NotifyAnimationFinished(_ animation.TimeTicks, property animation.TargetProperty, _ int) {
	if property != animation.TargetScrollOffset || s.host.client == nil {
		return
	}
	s.host.client.ScrollOffsetAnimationFinished()
}

func (s *ScrollOffsetAnimationsImpl) NotifyAnimationAborted(animation.TimeTicks, animation.TargetProperty, int) {}

func (s *ScrollOffsetAnimationsImpl) NotifyAnimationTakeover(animation.TimeTicks, animation.TargetProperty, float64, animation.Curve) {}

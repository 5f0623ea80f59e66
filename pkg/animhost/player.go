package animhost

import (
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/errors"
)

// AnimationPlayer is the authoring handle for the animations of one element.
// Animations added before the player is bound to an element are queued and
// handed over on binding.
type AnimationPlayer struct {
	id        int
	elementID animation.ElementID

	host              *AnimationHost
	timeline          *AnimationTimeline
	elementAnimations *ElementAnimations
	delegate          AnimationDelegate

	pending []*animation.Animation
}

// NewAnimationPlayer returns an unattached player with id.
func NewAnimationPlayer(id int) *AnimationPlayer {
	return &AnimationPlayer{id: id}
}

// CreateImplInstance returns the impl side twin of p, unattached.
func (p *AnimationPlayer) CreateImplInstance() *AnimationPlayer {
	return NewAnimationPlayer(p.id)
}

func (p *AnimationPlayer) ID() int                                  { return p.id }
func (p *AnimationPlayer) ElementID() animation.ElementID           { return p.elementID }
func (p *AnimationPlayer) AnimationHost() *AnimationHost            { return p.host }
func (p *AnimationPlayer) AnimationTimeline() *AnimationTimeline    { return p.timeline }
func (p *AnimationPlayer) ElementAnimations() *ElementAnimations    { return p.elementAnimations }
func (p *AnimationPlayer) SetAnimationDelegate(d AnimationDelegate) { p.delegate = d }

// SetAnimationHost is called by the owning timeline.
func (p *AnimationPlayer) SetAnimationHost(h *AnimationHost) { p.host = h }

// SetAnimationTimeline moves p to timeline, re-registering with the host so
// the element bookkeeping follows.
func (p *AnimationPlayer) SetAnimationTimeline(timeline *AnimationTimeline) {
	if p.timeline == timeline {
		return
	}
	if p.elementID != 0 && p.elementAnimations != nil {
		p.unregister()
	}
	p.timeline = timeline
	if p.elementID != 0 && p.host != nil {
		p.register()
	}
}

// AttachElement targets p at element id.
func (p *AnimationPlayer) AttachElement(id animation.ElementID) error {
	if id == 0 {
		return errors.Invariant("AnimationPlayer.AttachElement", 0, errors.ErrZeroElementID)
	}
	if p.elementID != 0 {
		return errors.Invariant("AnimationPlayer.AttachElement", uint64(id), errors.ErrElementAttached)
	}
	p.elementID = id
	if p.host != nil {
		p.register()
	}
	return nil
}

// DetachElement releases the element. Its animations stay with the element
// while other players still target it.
func (p *AnimationPlayer) DetachElement() {
	if p.elementID == 0 {
		return
	}
	if p.host != nil && p.elementAnimations != nil {
		p.unregister()
	}
	p.elementID = 0
}

func (p *AnimationPlayer) register() {
	if err := p.host.RegisterPlayerForElement(p.elementID, p); err != nil {
		return
	}
	p.elementAnimations = p.host.GetElementAnimationsForElementID(p.elementID)
	p.bind()
}

func (p *AnimationPlayer) unregister() {
	p.host.UnregisterPlayerForElement(p.elementID, p)
	p.elementAnimations = nil
}

// bind hands queued animations to the element.
func (p *AnimationPlayer) bind() {
	if len(p.pending) == 0 {
		return
	}
	for _, a := range p.pending {
		p.elementAnimations.AddAnimation(a)
	}
	clear(p.pending)
	p.pending = p.pending[:0]
	p.setNeedsCommit()
}

func (p *AnimationPlayer) setNeedsCommit() {
	if p.host == nil {
		return
	}
	p.host.SetNeedsCommit()
	p.host.SetNeedsRebuildPropertyTrees()
}

// AddAnimation adds a to the element, or queues it until p is bound.
func (p *AnimationPlayer) AddAnimation(a *animation.Animation) {
	if p.elementAnimations == nil {
		p.pending = append(p.pending, a)
		return
	}
	p.elementAnimations.AddAnimation(a)
	p.setNeedsCommit()
}

// PauseAnimation pauses animation id at offset into its run.
func (p *AnimationPlayer) PauseAnimation(id int, offset time.Duration) {
	if p.elementAnimations == nil {
		return
	}
	p.elementAnimations.PauseAnimation(id, offset)
	p.setNeedsCommit()
}

// RemoveAnimation deletes animation id.
func (p *AnimationPlayer) RemoveAnimation(id int) {
	if p.elementAnimations == nil {
		kept := p.pending[:0]
		for _, a := range p.pending {
			if a.ID() != id {
				kept = append(kept, a)
			}
		}
		clear(p.pending[len(kept):])
		p.pending = kept
		return
	}
	p.elementAnimations.RemoveAnimation(id)
	p.setNeedsCommit()
}

// AbortAnimation aborts animation id.
func (p *AnimationPlayer) AbortAnimation(id int) {
	if p.elementAnimations == nil {
		return
	}
	p.elementAnimations.AbortAnimation(id)
	p.setNeedsCommit()
}

// AbortAnimations aborts every animation of property.
func (p *AnimationPlayer) AbortAnimations(property animation.TargetProperty, needsCompletion bool) {
	if p.elementAnimations == nil {
		kept := p.pending[:0]
		for _, a := range p.pending {
			if a.TargetProperty() != property {
				kept = append(kept, a)
			}
		}
		clear(p.pending[len(kept):])
		p.pending = kept
		return
	}
	p.elementAnimations.AbortAnimations(property, needsCompletion)
	p.setNeedsCommit()
}

// PushPropertiesTo keeps impl's element binding in step with p.
func (p *AnimationPlayer) PushPropertiesTo(impl *AnimationPlayer) {
	if p.elementID == impl.elementID {
		return
	}
	if impl.elementID != 0 {
		impl.DetachElement()
	}
	if p.elementID != 0 {
		_ = impl.AttachElement(p.elementID)
	}
}

func (p *AnimationPlayer) notifyAnimationStarted(ev animation.AnimationEvent) {
	if p.delegate != nil {
		p.delegate.NotifyAnimationStarted(ev.MonotonicTime, ev.TargetProperty, ev.GroupID)
	}
}

func (p *AnimationPlayer) notifyAnimationFinished(ev animation.AnimationEvent) {
	if p.delegate != nil {
		p.delegate.NotifyAnimationFinished(ev.MonotonicTime, ev.TargetProperty, ev.GroupID)
	}
}

func (p *AnimationPlayer) notifyAnimationAborted(ev animation.AnimationEvent) {
	if p.delegate != nil {
		p.delegate.NotifyAnimationAborted(ev.MonotonicTime, ev.TargetProperty, ev.GroupID)
	}
}

func (p *AnimationPlayer) notifyAnimationTakeover(ev animation.AnimationEvent) {
	if p.delegate != nil && ev.Curve != nil {
		p.delegate.NotifyAnimationTakeover(ev.MonotonicTime, ev.TargetProperty, ev.AnimationStartTime, ev.Curve.Clone())
	}
}

package animhost

import (
	"maps"
	"slices"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/errors"
	"github.com/go-drift/compositor/pkg/gfx"
)

// ThreadInstance tells a main side host from its impl side mirror.
type ThreadInstance int

const (
	ThreadMain ThreadInstance = iota
	ThreadImpl
)

func (t ThreadInstance) String() string {
	if t == ThreadImpl {
		return "impl"
	}
	return "main"
}

// HostOption configures an AnimationHost.
type HostOption func(*AnimationHost)

// WithIDProvider shares an id sequence between hosts. A main host and its
// impl mirror should always share one.
func WithIDProvider(p *animation.IDProvider) HostOption {
	return func(h *AnimationHost) {
		h.ids = p
	}
}

// WithScrollDurationBehavior sets how impl-only scroll animations derive
// their duration.
func WithScrollDurationBehavior(b animation.DurationBehavior) HostOption {
	return func(h *AnimationHost) {
		h.scrollBehavior = b
	}
}

// AnimationHost is the registry of timelines and element animations for one
// side of the commit boundary. A host is used by a single goroutine; the
// main host reaches its impl mirror only through PushPropertiesTo.
type AnimationHost struct {
	client         MutatorHostClient
	thread         ThreadInstance
	ids            *animation.IDProvider
	scrollBehavior animation.DurationBehavior

	timelines map[int]*AnimationTimeline
	elements  map[animation.ElementID]*ElementAnimations
	active    map[animation.ElementID]*ElementAnimations

	needsPushProperties bool

	scrollOffsetAnimations     *ScrollOffsetAnimations
	scrollOffsetAnimationsImpl *ScrollOffsetAnimationsImpl
}

// NewMainHost returns the host for the authoring side.
func NewMainHost(client MutatorHostClient, opts ...HostOption) *AnimationHost {
	h := newHost(client, ThreadMain, opts)
	h.scrollOffsetAnimations = newScrollOffsetAnimations(h)
	return h
}

// NewImplHost returns the host for the frame producing side.
func NewImplHost(client MutatorHostClient, opts ...HostOption) *AnimationHost {
	h := newHost(client, ThreadImpl, opts)
	h.scrollOffsetAnimationsImpl = newScrollOffsetAnimationsImpl(h)
	return h
}

func newHost(client MutatorHostClient, thread ThreadInstance, opts []HostOption) *AnimationHost {
	h := &AnimationHost{
		client:         client,
		thread:         thread,
		scrollBehavior: animation.DurationInverseDelta,
		timelines:      make(map[int]*AnimationTimeline),
		elements:       make(map[animation.ElementID]*ElementAnimations),
		active:         make(map[animation.ElementID]*ElementAnimations),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.ids == nil {
		h.ids = animation.NewIDProvider()
	}
	return h
}

// CreateImplInstance returns an impl host sharing this host's id sequence
// and scroll settings.
func (h *AnimationHost) CreateImplInstance(client MutatorHostClient) *AnimationHost {
	return NewImplHost(client, WithIDProvider(h.ids), WithScrollDurationBehavior(h.scrollBehavior))
}

func (h *AnimationHost) Thread() ThreadInstance         { return h.thread }
func (h *AnimationHost) IDs() *animation.IDProvider     { return h.ids }
func (h *AnimationHost) Client() MutatorHostClient      { return h.client }
func (h *AnimationHost) SetClient(c MutatorHostClient)  { h.client = c }
func (h *AnimationHost) NeedsPushProperties() bool      { return h.needsPushProperties }
func (h *AnimationHost) SetNeedsPushProperties()        { h.needsPushProperties = true }
func (h *AnimationHost) SupportsScrollAnimations() bool { return true }

// ScrollOffsetAnimations returns the takeover queue of a main host, or nil.
func (h *AnimationHost) ScrollOffsetAnimations() *ScrollOffsetAnimations {
	return h.scrollOffsetAnimations
}

// ScrollOffsetAnimationsImpl returns the impl-only scroll manager of an impl
// host, or nil.
func (h *AnimationHost) ScrollOffsetAnimationsImpl() *ScrollOffsetAnimationsImpl {
	return h.scrollOffsetAnimationsImpl
}

// SetNeedsCommit asks the client to schedule a commit.
func (h *AnimationHost) SetNeedsCommit() {
	if h.client != nil {
		h.client.SetMutatorsNeedCommit()
	}
}

// SetNeedsRebuildPropertyTrees asks the client to rebuild its property trees.
func (h *AnimationHost) SetNeedsRebuildPropertyTrees() {
	if h.client != nil {
		h.client.SetMutatorsNeedRebuildPropertyTrees()
	}
}

// AddAnimationTimeline registers t. Timeline ids are unique per host.
func (h *AnimationHost) AddAnimationTimeline(t *AnimationTimeline) error {
	if _, ok := h.timelines[t.ID()]; ok {
		return errors.Invariant("AnimationHost.AddAnimationTimeline", 0, errors.ErrDuplicateTimeline)
	}
	t.SetAnimationHost(h)
	h.timelines[t.ID()] = t
	h.SetNeedsPushProperties()
	animation.Logger().Debug("timeline added", "thread", h.thread, "timeline", t.ID())
	return nil
}

// RemoveAnimationTimeline detaches every player of t and forgets it.
func (h *AnimationHost) RemoveAnimationTimeline(t *AnimationTimeline) {
	if h.timelines[t.ID()] != t {
		errors.Invariant("AnimationHost.RemoveAnimationTimeline", 0, errors.ErrUnknownTimeline)
		return
	}
	h.eraseTimeline(t)
	delete(h.timelines, t.ID())
	h.SetNeedsPushProperties()
}

func (h *AnimationHost) eraseTimeline(t *AnimationTimeline) {
	t.ClearPlayers()
	t.SetAnimationHost(nil)
}

// ClearTimelines removes every timeline.
func (h *AnimationHost) ClearTimelines() {
	for _, id := range slices.Sorted(maps.Keys(h.timelines)) {
		h.eraseTimeline(h.timelines[id])
	}
	clear(h.timelines)
}

// GetTimelineByID returns the timeline with id, or nil.
func (h *AnimationHost) GetTimelineByID(id int) *AnimationTimeline {
	return h.timelines[id]
}

// GetElementAnimationsForElementID returns the element's animations, or nil
// when no player targets it.
func (h *AnimationHost) GetElementAnimationsForElementID(id animation.ElementID) *ElementAnimations {
	return h.elements[id]
}

// ElementCount returns how many elements have animation state on h.
func (h *AnimationHost) ElementCount() int { return len(h.elements) }

// TimelineCount returns how many timelines are registered with h.
func (h *AnimationHost) TimelineCount() int { return len(h.timelines) }

// RegisterElement tells the host that id joined the tree generation list.
func (h *AnimationHost) RegisterElement(id animation.ElementID, list animation.ElementListType) {
	if e := h.elements[id]; e != nil {
		e.ElementRegistered(list)
	}
}

// UnregisterElement tells the host that id left the tree generation list.
func (h *AnimationHost) UnregisterElement(id animation.ElementID, list animation.ElementListType) {
	if e := h.elements[id]; e != nil {
		e.ElementUnregistered(list)
	}
}

// RegisterPlayerForElement binds p to the element, creating its
// ElementAnimations on first use.
func (h *AnimationHost) RegisterPlayerForElement(id animation.ElementID, p *AnimationPlayer) error {
	if id == 0 {
		return errors.Invariant("AnimationHost.RegisterPlayerForElement", 0, errors.ErrZeroElementID)
	}
	e := h.elements[id]
	if e == nil {
		e = newElementAnimations(id)
		h.elements[id] = e
		e.host = h
		e.initAffectedElementTypes()
	}
	if e.host != h {
		e.host = h
		e.initAffectedElementTypes()
	}
	e.addPlayer(p)
	return nil
}

// UnregisterPlayerForElement unbinds p. The element's animations are dropped
// with its last player.
func (h *AnimationHost) UnregisterPlayerForElement(id animation.ElementID, p *AnimationPlayer) {
	e := h.elements[id]
	if e == nil {
		return
	}
	e.removePlayer(p)
	if !e.isEmpty() {
		return
	}
	e.clearAffectedElementTypes()
	delete(h.elements, id)
	e.host = nil
}

// DidActivateElementAnimations adds e to the ticking set.
func (h *AnimationHost) DidActivateElementAnimations(e *ElementAnimations) {
	h.active[e.elementID] = e
}

// DidDeactivateElementAnimations removes e from the ticking set.
func (h *AnimationHost) DidDeactivateElementAnimations(e *ElementAnimations) {
	delete(h.active, e.elementID)
}

// PushPropertiesTo commits this main host into impl. It does nothing unless
// something changed since the last commit.
func (h *AnimationHost) PushPropertiesTo(impl *AnimationHost) {
	if h.thread != ThreadMain || impl.thread != ThreadImpl {
		errors.Invariant("AnimationHost.PushPropertiesTo", 0, errors.ErrHostMismatch)
		return
	}
	if !h.needsPushProperties {
		return
	}
	h.needsPushProperties = false
	h.pushTimelinesToImpl(impl)
	h.removeTimelinesFromImpl(impl)
	h.pushPropertiesToImpl(impl)
	impl.needsPushProperties = false
}

func (h *AnimationHost) pushTimelinesToImpl(impl *AnimationHost) {
	for _, id := range slices.Sorted(maps.Keys(h.timelines)) {
		if impl.GetTimelineByID(id) != nil {
			continue
		}
		_ = impl.AddAnimationTimeline(h.timelines[id].CreateImplInstance())
	}
}

// removeTimelinesFromImpl drops impl timelines deleted on the main side.
// Impl-only timelines have no main counterpart and stay.
func (h *AnimationHost) removeTimelinesFromImpl(impl *AnimationHost) {
	for _, id := range slices.Sorted(maps.Keys(impl.timelines)) {
		t := impl.timelines[id]
		if t.IsImplOnly() || h.timelines[id] != nil {
			continue
		}
		impl.eraseTimeline(t)
		delete(impl.timelines, id)
	}
}

func (h *AnimationHost) pushPropertiesToImpl(impl *AnimationHost) {
	// Players first: attaching them creates the impl element animations the
	// element push below needs.
	for _, id := range slices.Sorted(maps.Keys(h.timelines)) {
		if ti := impl.GetTimelineByID(id); ti != nil {
			h.timelines[id].PushPropertiesTo(ti)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(h.elements)) {
		if ei := impl.GetElementAnimationsForElementID(id); ei != nil {
			h.elements[id].PushPropertiesTo(ei)
		}
	}
	h.scrollOffsetAnimations.PushPropertiesTo(impl.scrollOffsetAnimationsImpl)
}

// NeedsAnimateLayers reports whether any element is in the ticking set.
func (h *AnimationHost) NeedsAnimateLayers() bool { return len(h.active) > 0 }

// activeSnapshot returns the ticking set in element order. Callbacks may
// change the set while it is walked.
func (h *AnimationHost) activeSnapshot() []*ElementAnimations {
	out := make([]*ElementAnimations, 0, len(h.active))
	for _, id := range slices.Sorted(maps.Keys(h.active)) {
		out = append(out, h.active[id])
	}
	return out
}

// ActivateAnimations promotes pending tree state on every ticking element.
func (h *AnimationHost) ActivateAnimations() bool {
	if !h.NeedsAnimateLayers() {
		return false
	}
	for _, e := range h.activeSnapshot() {
		e.ActivateAnimations()
	}
	return true
}

// AnimateLayers ticks every ticking element at t.
func (h *AnimationHost) AnimateLayers(t animation.TimeTicks) bool {
	if !h.NeedsAnimateLayers() {
		return false
	}
	for _, e := range h.activeSnapshot() {
		e.Animate(t)
	}
	return true
}

// UpdateAnimationState advances run states on every ticking element,
// collecting events for the other side into events.
func (h *AnimationHost) UpdateAnimationState(startReady bool, events *animation.AnimationEvents) bool {
	if !h.NeedsAnimateLayers() {
		return false
	}
	for _, e := range h.activeSnapshot() {
		e.UpdateState(startReady, events)
	}
	return true
}

// SetAnimationEvents delivers events produced by the other side. Events may
// target elements outside the ticking set, so every element is considered.
func (h *AnimationHost) SetAnimationEvents(events animation.AnimationEvents) {
	for _, ev := range events {
		e := h.elements[ev.ElementID]
		if e == nil {
			continue
		}
		switch ev.Type {
		case animation.EventStarted:
			e.NotifyAnimationStarted(ev)
		case animation.EventFinished:
			e.NotifyAnimationFinished(ev)
		case animation.EventAborted:
			e.NotifyAnimationAborted(ev)
		case animation.EventPropertyUpdate:
			e.NotifyAnimationPropertyUpdate(ev)
		case animation.EventTakeover:
			e.NotifyAnimationTakeover(ev)
		}
	}
}

// ScrollOffsetAnimationWasInterrupted reports whether the element's scroll
// animation was removed since the last activation.
func (h *AnimationHost) ScrollOffsetAnimationWasInterrupted(id animation.ElementID) bool {
	e := h.elements[id]
	return e != nil && e.ScrollOffsetAnimationWasInterrupted()
}

func (h *AnimationHost) IsAnimatingFilterProperty(id animation.ElementID, list animation.ElementListType) bool {
	e := h.elements[id]
	return e != nil && e.IsCurrentlyAnimatingProperty(animation.TargetFilter, list)
}

func (h *AnimationHost) IsAnimatingOpacityProperty(id animation.ElementID, list animation.ElementListType) bool {
	e := h.elements[id]
	return e != nil && e.IsCurrentlyAnimatingProperty(animation.TargetOpacity, list)
}

func (h *AnimationHost) IsAnimatingTransformProperty(id animation.ElementID, list animation.ElementListType) bool {
	e := h.elements[id]
	return e != nil && e.IsCurrentlyAnimatingProperty(animation.TargetTransform, list)
}

func (h *AnimationHost) HasPotentiallyRunningFilterAnimation(id animation.ElementID, list animation.ElementListType) bool {
	e := h.elements[id]
	return e != nil && e.IsPotentiallyAnimatingProperty(animation.TargetFilter, list)
}

func (h *AnimationHost) HasPotentiallyRunningOpacityAnimation(id animation.ElementID, list animation.ElementListType) bool {
	e := h.elements[id]
	return e != nil && e.IsPotentiallyAnimatingProperty(animation.TargetOpacity, list)
}

func (h *AnimationHost) HasPotentiallyRunningTransformAnimation(id animation.ElementID, list animation.ElementListType) bool {
	e := h.elements[id]
	return e != nil && e.IsPotentiallyAnimatingProperty(animation.TargetTransform, list)
}

func (h *AnimationHost) HasAnyAnimationTargetingProperty(id animation.ElementID, property animation.TargetProperty) bool {
	e := h.elements[id]
	return e != nil && e.HasAnyAnimationTargetingProperty(property)
}

func (h *AnimationHost) IsAnimatingOnImplOnly(id animation.ElementID, property animation.TargetProperty) bool {
	e := h.elements[id]
	return e != nil && e.IsAnimatingOnImplOnly(property)
}

func (h *AnimationHost) HasFilterAnimationThatInflatesBounds(id animation.ElementID) bool {
	e := h.elements[id]
	return e != nil && e.HasFilterAnimationThatInflatesBounds()
}

func (h *AnimationHost) HasTransformAnimationThatInflatesBounds(id animation.ElementID) bool {
	e := h.elements[id]
	return e != nil && e.HasTransformAnimationThatInflatesBounds()
}

func (h *AnimationHost) HasAnimationThatInflatesBounds(id animation.ElementID) bool {
	return h.HasTransformAnimationThatInflatesBounds(id) || h.HasFilterAnimationThatInflatesBounds(id)
}

func (h *AnimationHost) FilterAnimationBoundsForBox(id animation.ElementID, box gfx.Box) (gfx.Box, bool) {
	return gfx.Box{}, false
}

// TransformAnimationBoundsForBox returns an empty box for an element with no
// animations.
func (h *AnimationHost) TransformAnimationBoundsForBox(id animation.ElementID, box gfx.Box) (gfx.Box, bool) {
	e := h.elements[id]
	if e == nil {
		return gfx.Box{}, true
	}
	return e.TransformAnimationBoundsForBox(box)
}

func (h *AnimationHost) HasOnlyTranslationTransforms(id animation.ElementID, list animation.ElementListType) bool {
	e := h.elements[id]
	return e == nil || e.HasOnlyTranslationTransforms(list)
}

func (h *AnimationHost) AnimationsPreserveAxisAlignment(id animation.ElementID) bool {
	e := h.elements[id]
	return e == nil || e.AnimationsPreserveAxisAlignment()
}

func (h *AnimationHost) MaximumTargetScale(id animation.ElementID, list animation.ElementListType) (float64, bool) {
	e := h.elements[id]
	if e == nil {
		return 0, true
	}
	return e.MaximumTargetScale(list)
}

func (h *AnimationHost) AnimationStartScale(id animation.ElementID, list animation.ElementListType) (float64, bool) {
	e := h.elements[id]
	if e == nil {
		return 0, true
	}
	return e.AnimationStartScale(list)
}

func (h *AnimationHost) HasAnyAnimation(id animation.ElementID) bool {
	e := h.elements[id]
	return e != nil && e.HasAnyAnimation()
}

func (h *AnimationHost) HasActiveAnimationForTesting(id animation.ElementID) bool {
	e := h.elements[id]
	return e != nil && e.HasActiveAnimation()
}

// ActiveElements returns the ids in the ticking set in ascending order.
func (h *AnimationHost) ActiveElements() []animation.ElementID {
	return slices.Sorted(maps.Keys(h.active))
}

// ImplOnlyScrollAnimationCreate starts an impl-only smooth scroll of id from
// current to target.
func (h *AnimationHost) ImplOnlyScrollAnimationCreate(id animation.ElementID, target, current gfx.ScrollOffset) {
	if h.scrollOffsetAnimationsImpl == nil {
		errors.Invariant("AnimationHost.ImplOnlyScrollAnimationCreate", uint64(id), errors.ErrHostMismatch)
		return
	}
	h.scrollOffsetAnimationsImpl.ScrollAnimationCreate(id, target, current)
}

// ImplOnlyScrollAnimationUpdateTarget moves the running impl-only scroll's
// target by delta, clamped to [0, maxScroll]. It reports false when no such
// animation is running.
func (h *AnimationHost) ImplOnlyScrollAnimationUpdateTarget(id animation.ElementID, delta, maxScroll gfx.ScrollOffset, frameTime animation.TimeTicks) bool {
	if h.scrollOffsetAnimationsImpl == nil {
		return false
	}
	return h.scrollOffsetAnimationsImpl.ScrollAnimationUpdateTarget(id, delta, maxScroll, frameTime)
}

// ScrollAnimationAbort stops the impl-only scroll. With needsCompletion the
// main side is asked to finish the motion.
func (h *AnimationHost) ScrollAnimationAbort(needsCompletion bool) {
	if h.scrollOffsetAnimationsImpl != nil {
		h.scrollOffsetAnimationsImpl.ScrollAnimationAbort(needsCompletion)
	}
}

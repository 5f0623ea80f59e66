// Package engine drives a main animation host and its impl mirror through
// the compositor frame protocol.
//
// A Compositor owns both hosts, an in-memory scene tree for each side and
// one id provider shared between them. Each call to Frame ticks the main
// side, commits it, activates and ticks the impl side, and hands the
// impl events back to the main side.
package engine

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/animhost"
	"github.com/go-drift/compositor/pkg/config"
	"github.com/go-drift/compositor/pkg/gfx"
	"github.com/go-drift/compositor/pkg/scene"
)

// Option configures a Compositor.
type Option func(*Compositor)

// WithClock sets the clock frames read their time from. A clock that also
// implements Advancer is stepped by the scenario runner instead of waited
// on.
func WithClock(clock animation.Clock) Option {
	return func(c *Compositor) {
		c.clock = clock
	}
}

// WithIDProvider shares ids with code outside the compositor.
func WithIDProvider(ids *animation.IDProvider) Option {
	return func(c *Compositor) {
		c.ids = ids
	}
}

// Advancer is a clock that can be moved forward by hand.
type Advancer interface {
	Advance(d time.Duration)
}

// ElementPlacement says which scene tree generations hold an element.
type ElementPlacement struct {
	Active  bool
	Pending bool
}

// Compositor is an embedder harness for an animation host pair.
// All methods are safe for concurrent use; frames are serialized.
type Compositor struct {
	mu sync.Mutex

	settings config.Settings
	clock    animation.Clock
	origin   time.Time
	ids      *animation.IDProvider

	main     *animhost.AnimationHost
	impl     *animhost.AnimationHost
	mainTree *scene.Tree
	implTree *scene.Tree
	timeline *animhost.AnimationTimeline
	players  map[animation.ElementID]*animhost.AnimationPlayer

	// awaitingActivation holds elements that are only in the pending tree.
	awaitingActivation map[animation.ElementID]bool

	trace     *FrameTraceBuffer
	runtime   *RuntimeSampleBuffer
	frame     int
	lastFrame animation.TimeTicks
	counts    FrameCounts
	takeovers []takeover

	debugMu       sync.Mutex
	debugServer   *http.Server
	debugListener net.Listener
}

type takeover struct {
	element   animation.ElementID
	startTime float64
	curve     animation.Curve
}

// New returns a compositor configured by settings.
func New(settings config.Settings, opts ...Option) (*Compositor, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	c := &Compositor{
		settings:           settings,
		clock:              animation.SystemClock{},
		players:            make(map[animation.ElementID]*animhost.AnimationPlayer),
		awaitingActivation: make(map[animation.ElementID]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ids == nil {
		c.ids = animation.NewIDProvider()
	}
	// Frame time zero means unset, so the origin sits one interval before
	// the first frame.
	c.origin = c.clock.Now().Add(-settings.FrameInterval.Std())

	c.mainTree = scene.NewTree()
	c.main = animhost.NewMainHost(c.mainTree,
		animhost.WithIDProvider(c.ids),
		animhost.WithScrollDurationBehavior(settings.ScrollDurationBehavior()))
	c.mainTree.SetHost(c.main)

	c.implTree = scene.NewTree()
	c.impl = c.main.CreateImplInstance(c.implTree)
	c.implTree.SetHost(c.impl)

	c.timeline = animhost.NewAnimationTimeline(c.ids.NextTimelineID())
	if err := c.main.AddAnimationTimeline(c.timeline); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	c.trace = NewFrameTraceBuffer(settings.TraceCapacity, settings.DroppedFrameThreshold.Std())
	return c, nil
}

// Settings returns the settings the compositor was built with.
func (c *Compositor) Settings() config.Settings { return c.settings }

// IDs returns the id provider shared by both hosts.
func (c *Compositor) IDs() *animation.IDProvider { return c.ids }

// MainHost returns the main side host. Callers must not use it while a
// frame may be running on another goroutine.
func (c *Compositor) MainHost() *animhost.AnimationHost { return c.main }

// ImplHost returns the impl side host, with the same caveat as MainHost.
func (c *Compositor) ImplHost() *animhost.AnimationHost { return c.impl }

// MainTree returns the main side scene tree.
func (c *Compositor) MainTree() *scene.Tree { return c.mainTree }

// ImplTree returns the impl side scene tree, where ticked values land.
func (c *Compositor) ImplTree() *scene.Tree { return c.implTree }

// Trace returns the frame trace buffer.
func (c *Compositor) Trace() *FrameTraceBuffer { return c.trace }

// Runtime returns the runtime sample buffer, or nil without
// WithRuntimeSampling.
func (c *Compositor) Runtime() *RuntimeSampleBuffer { return c.runtime }

// Now returns the current clock reading as frame time.
func (c *Compositor) Now() animation.TimeTicks {
	return animation.TicksSince(c.origin, c.clock.Now())
}

// FrameCount returns how many frames have run.
func (c *Compositor) FrameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// AddElement places id in the scene trees. The main tree always holds it;
// the impl tree holds it in the generations placement names. An element
// only in the pending tree joins the active tree at the next activation.
// Every element gets a main side player so events for it can be delivered.
func (c *Compositor) AddElement(id animation.ElementID, placement ElementPlacement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == 0 {
		return fmt.Errorf("engine: element id must be non-zero")
	}
	if _, ok := c.players[id]; ok {
		return fmt.Errorf("engine: element %d already added", id)
	}

	c.mainTree.RegisterElement(id, animation.ListActive)
	if placement.Pending {
		c.implTree.RegisterElement(id, animation.ListPending)
	}
	if placement.Active {
		c.implTree.RegisterElement(id, animation.ListActive)
	} else if placement.Pending {
		c.awaitingActivation[id] = true
	}

	p := animhost.NewAnimationPlayer(c.ids.NextPlayerID())
	p.SetAnimationDelegate(&playerDelegate{c: c, element: id})
	if err := c.timeline.AttachPlayer(p); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := p.AttachElement(id); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	c.players[id] = p
	return nil
}

// RemoveElement takes id out of every tree and drops its player.
func (c *Compositor) RemoveElement(id animation.ElementID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.players[id]
	if !ok {
		return
	}
	c.timeline.DetachPlayer(p)
	delete(c.players, id)
	delete(c.awaitingActivation, id)
	c.mainTree.UnregisterElement(id, animation.ListActive)
	c.implTree.UnregisterElement(id, animation.ListActive)
	c.implTree.UnregisterElement(id, animation.ListPending)
}

// SetScrollOffset sets the offset scroll animations of id start from on
// both sides.
func (c *Compositor) SetScrollOffset(id animation.ElementID, offset gfx.ScrollOffset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mainTree.SetScrollOffsetForAnimation(id, offset)
	c.implTree.SetScrollOffsetForAnimation(id, offset)
}

// AddAnimation adds a to element id on the main side. It reaches the impl
// side at the next commit.
func (c *Compositor) AddAnimation(id animation.ElementID, a *animation.Animation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.players[id]
	if !ok {
		return fmt.Errorf("engine: unknown element %d", id)
	}
	p.AddAnimation(a)
	return nil
}

// PauseAnimation pauses animation animationID of element id at offset.
func (c *Compositor) PauseAnimation(id animation.ElementID, animationID int, offset time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.players[id]; ok {
		p.PauseAnimation(animationID, offset)
	}
}

// RemoveAnimation deletes animation animationID of element id.
func (c *Compositor) RemoveAnimation(id animation.ElementID, animationID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.players[id]; ok {
		p.RemoveAnimation(animationID)
	}
}

// AbortAnimations aborts every main side animation of property on id.
func (c *Compositor) AbortAnimations(id animation.ElementID, property animation.TargetProperty) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.players[id]; ok {
		p.AbortAnimations(property, false)
	}
}

// ScrollTo starts an impl-only smooth scroll of id toward target, from the
// offset last written to the impl tree.
func (c *Compositor) ScrollTo(id animation.ElementID, target gfx.ScrollOffset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.implTree.ScrollOffset(id, animation.ListActive)
	if !ok {
		current = c.implTree.GetScrollOffsetForAnimation(id)
	}
	c.impl.ImplOnlyScrollAnimationCreate(id, target, current)
}

// ScrollBy moves the target of the running impl-only scroll of id by delta,
// clamped to [0, maxScroll]. It reports false when id is not scrolling.
func (c *Compositor) ScrollBy(id animation.ElementID, delta, maxScroll gfx.ScrollOffset) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.impl.ImplOnlyScrollAnimationUpdateTarget(id, delta, maxScroll, c.Now())
}

// RequestTakeover asks the impl side to hand the scroll of id back to the
// main side at the next commit. The main side finishes the motion with the
// curve it receives.
func (c *Compositor) RequestTakeover(id animation.ElementID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.main.ScrollOffsetAnimations().AddTakeoverUpdate(id)
}

// finishTakeovers replays scroll curves handed over by the impl side as
// main side animations keeping their original start time.
func (c *Compositor) finishTakeovers() {
	for _, t := range c.takeovers {
		p, ok := c.players[t.element]
		if !ok {
			continue
		}
		a := animation.NewAnimation(t.curve, c.ids.NextAnimationID(), c.ids.NextGroupID(), animation.TargetScrollOffset)
		a.SetStartTime(animation.TicksFromSeconds(t.startTime))
		p.AddAnimation(a)
		animation.Logger().Debug("scroll taken over by main side",
			"element", t.element, "animation", a.ID())
	}
	clear(c.takeovers)
	c.takeovers = c.takeovers[:0]
}

// playerDelegate counts main side notifications for the frame sample.
type playerDelegate struct {
	c       *Compositor
	element animation.ElementID
}

func (d *playerDelegate) NotifyAnimationStarted(animation.TimeTicks, animation.TargetProperty, int) {
	d.c.counts.Started++
}

func (d *playerDelegate) NotifyAnimationFinished(animation.TimeTicks, animation.TargetProperty, int) {
	d.c.counts.Finished++
}

func (d *playerDelegate) NotifyAnimationAborted(animation.TimeTicks, animation.TargetProperty, int) {
	d.c.counts.Aborted++
}

func (d *playerDelegate) NotifyAnimationTakeover(_ animation.TimeTicks, _ animation.TargetProperty, startTime float64, curve animation.Curve) {
	d.c.counts.Takeovers++
	d.c.takeovers = append(d.c.takeovers, takeover{element: d.element, startTime: startTime, curve: curve})
}

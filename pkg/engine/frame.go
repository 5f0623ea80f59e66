package engine

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/errors"
)

// FrameResult is what one frame produced.
type FrameResult struct {
	Sample FrameSample
	// Events are the impl side events delivered to the main side.
	Events animation.AnimationEvents
	// ActiveElements are the impl elements still ticking after the frame.
	ActiveElements []animation.ElementID
}

// Frame runs one frame at the clock's current time:
//
//  1. tick the main side and advance its run states,
//  2. commit main state to the impl side,
//  3. activate the pending tree after a commit or when elements wait for it,
//  4. tick the impl side and advance its run states, collecting events,
//  5. deliver the events to the main side.
//
// A panic raised by a client callback is reported through
// errors.RecoverWithCallback and returned as an error. The hosts may be left
// mid-frame.
func (c *Compositor) Frame() (result FrameResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer errors.RecoverWithCallback("engine.Frame", func(r any) {
		err = fmt.Errorf("engine: frame %d panicked: %v", c.frame, r)
	})

	now := c.Now()
	c.counts = FrameCounts{}
	var phases FramePhaseTimings
	mark := time.Now()
	lap := func(dst *float64) {
		next := time.Now()
		*dst = durationToMillis(next.Sub(mark))
		mark = next
	}

	c.main.AnimateLayers(now)
	c.main.UpdateAnimationState(true, nil)
	lap(&phases.AnimateMainMs)

	committed := c.main.NeedsPushProperties()
	c.main.PushPropertiesTo(c.impl)
	lap(&phases.CommitMs)

	activated := committed || len(c.awaitingActivation) > 0
	if activated {
		c.activatePendingTree()
		c.impl.ActivateAnimations()
	}
	lap(&phases.ActivateMs)

	var events animation.AnimationEvents
	c.impl.AnimateLayers(now)
	c.impl.UpdateAnimationState(true, &events)
	lap(&phases.AnimateImplMs)

	c.main.SetAnimationEvents(events)
	c.finishTakeovers()
	lap(&phases.EventsMs)

	var interval time.Duration
	if !c.lastFrame.IsNull() {
		interval = now.Sub(c.lastFrame)
	}
	c.lastFrame = now

	counts := c.counts
	counts.MainTicking = len(c.main.ActiveElements())
	active := c.impl.ActiveElements()
	counts.ImplTicking = len(active)
	counts.Events = len(events)

	sample := FrameSample{
		Frame:      c.frame,
		Timestamp:  int64(now),
		IntervalMs: durationToMillis(interval),
		Phases:     phases,
		Counts:     counts,
		Flags:      FrameFlags{Committed: committed, Activated: activated},
	}
	c.trace.Add(sample, interval)
	c.sampleRuntime()
	c.frame++

	animation.Logger().Debug("frame",
		"frame", sample.Frame, "time", time.Duration(now),
		"events", counts.Events, "ticking", counts.ImplTicking)

	return FrameResult{Sample: sample, Events: events, ActiveElements: active}, nil
}

// activatePendingTree moves elements that were only in the pending tree
// into the active tree.
func (c *Compositor) activatePendingTree() {
	for _, id := range slices.Sorted(maps.Keys(c.awaitingActivation)) {
		c.implTree.RegisterElement(id, animation.ListActive)
	}
	clear(c.awaitingActivation)
}

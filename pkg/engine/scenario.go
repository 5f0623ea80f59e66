package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/config"
	"github.com/go-drift/compositor/pkg/gfx"
)

// scriptedAnimation remembers where a scenario animation went so pauses and
// removals can refer to it by index.
type scriptedAnimation struct {
	element animation.ElementID
	id      int
}

// RunScenario replays sc on c, calling observe after every frame.
//
// Work scheduled for frame i is applied before frame i runs, in this order:
// animations, pauses, removals, aborts, scrolls, takeovers. Between frames
// the clock moves one frame interval. A clock implementing Advancer is
// stepped directly; any other clock is waited on, and cancelling ctx stops
// the run.
func (c *Compositor) RunScenario(ctx context.Context, sc *config.Scenario, observe func(FrameResult)) error {
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("engine: scenario %q: %w", sc.Name, err)
	}
	for _, e := range sc.Elements {
		id := animation.ElementID(e.ID)
		if err := c.AddElement(id, ElementPlacement{Active: e.InActive, Pending: e.InPending}); err != nil {
			return err
		}
		if len(e.Scroll) == 2 {
			c.SetScrollOffset(id, gfx.NewScrollOffset(e.Scroll[0], e.Scroll[1]))
		}
	}

	interval := c.settings.FrameInterval.Std()
	advancer, stepped := c.clock.(Advancer)
	var ticker *time.Ticker
	if !stepped {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}

	scripted := make([]scriptedAnimation, len(sc.Animations))
	for frame := range sc.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.applyScheduled(sc, frame, scripted); err != nil {
			return err
		}
		result, err := c.Frame()
		if err != nil {
			return err
		}
		if observe != nil {
			observe(result)
		}
		if frame == sc.Frames-1 {
			break
		}
		if stepped {
			advancer.Advance(interval)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (c *Compositor) applyScheduled(sc *config.Scenario, frame int, scripted []scriptedAnimation) error {
	for i, spec := range sc.Animations {
		if spec.Frame != frame {
			continue
		}
		a, err := spec.Build(c.ids.NextAnimationID(), c.ids.NextGroupID())
		if err != nil {
			return fmt.Errorf("engine: animations[%d]: %w", i, err)
		}
		id := animation.ElementID(spec.Element)
		if err := c.AddAnimation(id, a); err != nil {
			return err
		}
		scripted[i] = scriptedAnimation{element: id, id: a.ID()}
	}
	for _, p := range sc.Pauses {
		if s := scripted[p.Animation]; p.Frame == frame && s.id != 0 {
			c.PauseAnimation(s.element, s.id, p.Offset.Std())
		}
	}
	for _, r := range sc.Removals {
		if s := scripted[r.Animation]; r.Frame == frame && s.id != 0 {
			c.RemoveAnimation(s.element, s.id)
		}
	}
	for _, a := range sc.Aborts {
		if a.Frame != frame {
			continue
		}
		property, _ := animation.ParseTargetProperty(a.Property)
		c.AbortAnimations(animation.ElementID(a.Element), property)
	}
	for _, s := range sc.Scrolls {
		if s.Frame != frame {
			continue
		}
		id := animation.ElementID(s.Element)
		if s.Delta != nil {
			c.ScrollBy(id, gfx.NewScrollOffset(s.Delta[0], s.Delta[1]), gfx.NewScrollOffset(s.Max[0], s.Max[1]))
			continue
		}
		c.ScrollTo(id, gfx.NewScrollOffset(s.Target[0], s.Target[1]))
	}
	for _, t := range sc.Takeovers {
		if t.Frame == frame {
			c.RequestTakeover(animation.ElementID(t.Element))
		}
	}
	return nil
}

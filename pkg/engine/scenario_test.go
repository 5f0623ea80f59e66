package engine

import (
	"context"
	"math"
	"testing"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/config"
)

const scriptedScenario = `
name: fade, pause and scroll
frames: 40
elements:
  - id: 1
    in_active: true
    in_pending: true
  - id: 2
    in_active: true
    scroll: [0, 0]
animations:
  - element: 1
    property: opacity
    duration: 160ms
    from: [0]
    to: [1]
  - element: 1
    property: transform
    frame: 2
    duration: 320ms
    from: [0, 0]
    to: [100, 0]
pauses:
  - frame: 4
    animation: 1
    offset: 160ms
scrolls:
  - frame: 1
    element: 2
    target: [0, 60]
`

func TestRunScenario(t *testing.T) {
	sc, err := config.ParseScenario([]byte(scriptedScenario))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := newCompositor(t)

	var results []FrameResult
	if err := c.RunScenario(context.Background(), sc, func(r FrameResult) {
		results = append(results, r)
	}); err != nil {
		t.Fatal(err)
	}
	if len(results) != sc.Frames {
		t.Fatalf("observed %d frames, want %d", len(results), sc.Frames)
	}

	var started, finished int
	for _, r := range results {
		started += r.Sample.Counts.Started
		finished += r.Sample.Counts.Finished
	}
	if started != 2 {
		t.Errorf("started = %d, want 2", started)
	}
	if finished != 1 {
		t.Errorf("finished = %d, want only the fade", finished)
	}

	if got, _ := c.ImplTree().Opacity(1, animation.ListActive); got != 1 {
		t.Errorf("opacity = %v, want 1", got)
	}
	transform, _ := c.ImplTree().Transform(1, animation.ListActive)
	if x, _ := transform.Translation2D(); math.Abs(x-50) > 1e-9 {
		t.Errorf("paused translation = %v, want 50", x)
	}
	scroll, _ := c.ImplTree().ScrollOffset(2, animation.ListActive)
	if math.Abs(scroll.Y()-60) > 1e-6 {
		t.Errorf("scroll = %v, want (0, 60)", scroll)
	}
	if c.ImplTree().ScrollFinishedCount != 1 {
		t.Errorf("ScrollFinishedCount = %d, want 1", c.ImplTree().ScrollFinishedCount)
	}
}

func TestRunScenario_Cancelled(t *testing.T) {
	sc, err := config.ParseScenario([]byte(scriptedScenario))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := newCompositor(t)
	ctx, cancel := context.WithCancel(context.Background())

	frames := 0
	err = c.RunScenario(ctx, sc, func(FrameResult) {
		frames++
		if frames == 3 {
			cancel()
		}
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if frames != 3 {
		t.Errorf("ran %d frames after cancel, want 3", frames)
	}
}

func TestRunScenario_DuplicateElement(t *testing.T) {
	sc, err := config.ParseScenario([]byte(scriptedScenario))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := newCompositor(t)
	if err := c.AddElement(1, ElementPlacement{Active: true}); err != nil {
		t.Fatal(err)
	}
	if err := c.RunScenario(context.Background(), sc, nil); err == nil {
		t.Error("scenario elements must be new to the compositor")
	}
}

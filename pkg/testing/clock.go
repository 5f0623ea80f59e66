package testing

import (
	"time"

	"github.com/go-drift/compositor/pkg/animation"
)

// Epoch is the wall time a FakeClock starts at.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock provides controllable time for deterministic animation tests.
// All methods are safe for concurrent use.
type FakeClock struct {
	*animation.ManualClock
}

// NewFakeClock returns a FakeClock starting at Epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{ManualClock: animation.NewManualClock(Epoch)}
}

// Ticks returns the current fake time as ticks since Epoch.
func (c *FakeClock) Ticks() animation.TimeTicks {
	return animation.TicksSince(Epoch, c.Now())
}

// Ticks converts an offset from the zero tick into TimeTicks. The zero tick
// itself means "unset", so tests usually start at one second.
func Ticks(d time.Duration) animation.TimeTicks {
	return animation.TimeTicks(0).Add(d)
}

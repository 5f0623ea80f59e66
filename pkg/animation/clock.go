package animation

import (
	"math"
	"sync"
	"time"
)

// TimeTicks is a monotonic timestamp measured from an arbitrary origin.
// The zero value means "not set", so frame times start after the origin.
type TimeTicks int64

// TicksFromSeconds converts seconds since the origin to TimeTicks.
func TicksFromSeconds(s float64) TimeTicks {
	return TimeTicks(math.Round(s * float64(time.Second)))
}

// TicksSince returns the ticks for now relative to origin.
func TicksSince(origin, now time.Time) TimeTicks {
	return TimeTicks(now.Sub(origin))
}

// IsNull reports whether t is unset.
func (t TimeTicks) IsNull() bool { return t == 0 }

// Add returns t shifted by d.
func (t TimeTicks) Add(d time.Duration) TimeTicks { return t + TimeTicks(d) }

// Sub returns the duration t - u.
func (t TimeTicks) Sub(u TimeTicks) time.Duration { return time.Duration(t - u) }

// Seconds returns t as seconds since the origin.
func (t TimeTicks) Seconds() float64 { return time.Duration(t).Seconds() }

// Clock provides wall time to the embedder driving frames.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a clock that only moves when told to, for simulated runs.
// All methods are safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a clock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current reading.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set sets the clock to an exact time.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func durationFromSeconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

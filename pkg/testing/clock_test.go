package testing

import (
	"testing"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestFakeClock_Ticks(t *testing.T) {
	clk := NewFakeClock()
	if !clk.Ticks().IsNull() {
		t.Errorf("expected null ticks at epoch, got %d", clk.Ticks())
	}
	clk.Advance(1500 * time.Millisecond)
	if got := clk.Ticks().Seconds(); got != 1.5 {
		t.Errorf("expected 1.5s, got %v", got)
	}
}

func TestTicks(t *testing.T) {
	if got := Ticks(2 * time.Second); got != animation.TicksFromSeconds(2) {
		t.Errorf("Ticks(2s) = %d, want %d", got, animation.TicksFromSeconds(2))
	}
}

package animation

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/tanema/gween/ease"
)

// TimingFunction maps normalized progress in [0, 1] to eased progress.
// Implementations are immutable and may be shared between animations.
type TimingFunction interface {
	// GetValue returns the eased progress at x.
	GetValue(x float64) float64
	// Velocity returns the slope of the curve at x.
	Velocity(x float64) float64
}

// LinearTimingFunction returns its input unchanged.
type LinearTimingFunction struct{}

func (LinearTimingFunction) GetValue(x float64) float64 { return x }
func (LinearTimingFunction) Velocity(float64) float64   { return 1 }

// CubicBezierTimingFunction matches CSS cubic-bezier(). The curve starts at
// (0,0) and ends at (1,1); (X1,Y1) and (X2,Y2) are the control points.
type CubicBezierTimingFunction struct {
	X1, Y1, X2, Y2 float64
}

// CubicBezier returns a cubic bezier timing function.
func CubicBezier(x1, y1, x2, y2 float64) CubicBezierTimingFunction {
	return CubicBezierTimingFunction{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Standard CSS presets.
var (
	Ease      = CubicBezier(0.25, 0.1, 0.25, 1.0)
	EaseIn    = CubicBezier(0.42, 0.0, 1.0, 1.0)
	EaseOut   = CubicBezier(0.0, 0.0, 0.58, 1.0)
	EaseInOut = CubicBezier(0.42, 0.0, 0.58, 1.0)
)

// GetValue solves the curve for x and returns y. Inputs outside [0, 1] are
// extrapolated along the end tangents.
func (c CubicBezierTimingFunction) GetValue(x float64) float64 {
	if x < 0 {
		return c.startGradient() * x
	}
	if x > 1 {
		return 1 + c.endGradient()*(x-1)
	}
	return sampleCurve(c.Y1, c.Y2, c.solve(x))
}

// Velocity returns dy/dx at x.
func (c CubicBezierTimingFunction) Velocity(x float64) float64 {
	if x < 0 {
		return c.startGradient()
	}
	if x > 1 {
		return c.endGradient()
	}
	u := c.solve(x)
	dx := sampleCurveDerivative(c.X1, c.X2, u)
	if dx == 0 {
		return 0
	}
	return sampleCurveDerivative(c.Y1, c.Y2, u) / dx
}

func (c CubicBezierTimingFunction) startGradient() float64 {
	switch {
	case c.X1 > 0:
		return c.Y1 / c.X1
	case c.Y1 == 0 && c.X2 > 0:
		return c.Y2 / c.X2
	default:
		return 0
	}
}

func (c CubicBezierTimingFunction) endGradient() float64 {
	switch {
	case c.X2 < 1:
		return (c.Y2 - 1) / (c.X2 - 1)
	case c.Y2 == 1 && c.X1 < 1:
		return (c.Y1 - 1) / (c.X1 - 1)
	default:
		return 0
	}
}

// solve finds the curve parameter whose x equals target.
func (c CubicBezierTimingFunction) solve(target float64) float64 {
	if target <= 0 {
		return 0
	}
	if target >= 1 {
		return 1
	}

	u := target
	// Newton-Raphson converges quickly for most values.
	for range 8 {
		x := sampleCurve(c.X1, c.X2, u) - target
		if math.Abs(x) < 1e-7 {
			return Clamp(u, 0, 1)
		}
		dx := sampleCurveDerivative(c.X1, c.X2, u)
		if math.Abs(dx) < 1e-7 {
			break
		}
		u -= x / dx
	}

	// Fall back to bisection for a stable solution in [0,1].
	lo, hi := 0.0, 1.0
	u = Clamp(u, 0, 1)
	for range 32 {
		x := sampleCurve(c.X1, c.X2, u) - target
		if math.Abs(x) < 1e-7 {
			break
		}
		if x > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) * 0.5
	}
	return u
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

// StepPosition selects where within each step the jump happens.
type StepPosition int

const (
	StepStart StepPosition = iota
	StepMiddle
	StepEnd
)

func (p StepPosition) String() string {
	switch p {
	case StepStart:
		return "start"
	case StepMiddle:
		return "middle"
	case StepEnd:
		return "end"
	default:
		return "unknown"
	}
}

// StepsTimingFunction quantizes progress into Steps equal jumps.
type StepsTimingFunction struct {
	Steps    int
	Position StepPosition
}

// Steps returns a steps timing function.
func Steps(steps int, position StepPosition) StepsTimingFunction {
	return StepsTimingFunction{Steps: steps, Position: position}
}

func (s StepsTimingFunction) GetValue(x float64) float64 {
	if s.Steps <= 0 {
		return x
	}
	var offset float64
	switch s.Position {
	case StepStart:
		offset = 1
	case StepMiddle:
		offset = 0.5
	}
	n := float64(s.Steps)
	step := Clamp(math.Floor(n*x+offset), 0, n)
	return step / n
}

func (StepsTimingFunction) Velocity(float64) float64 { return 0 }

// EasingTimingFunction adapts a Penner easing function to a TimingFunction.
type EasingTimingFunction struct {
	Name string
	fn   ease.TweenFunc
}

var easings = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-circ":        ease.InCirc,
	"out-circ":       ease.OutCirc,
	"in-out-circ":    ease.InOutCirc,
	"in-back":        ease.InBack,
	"out-back":       ease.OutBack,
	"in-out-back":    ease.InOutBack,
	"in-bounce":      ease.InBounce,
	"out-bounce":     ease.OutBounce,
	"in-out-bounce":  ease.InOutBounce,
	"in-elastic":     ease.InElastic,
	"out-elastic":    ease.OutElastic,
	"in-out-elastic": ease.InOutElastic,
}

// Easing looks up a named easing function such as "out-bounce".
func Easing(name string) (EasingTimingFunction, bool) {
	fn, ok := easings[name]
	if !ok {
		return EasingTimingFunction{}, false
	}
	return EasingTimingFunction{Name: name, fn: fn}, true
}

func (e EasingTimingFunction) GetValue(x float64) float64 {
	if e.fn == nil {
		return x
	}
	x = Clamp(x, 0, 1)
	return float64(e.fn(float32(x), 0, 1, 1))
}

// Velocity is estimated with a central difference.
func (e EasingTimingFunction) Velocity(x float64) float64 {
	const h = 1e-3
	lo, hi := Clamp(x-h, 0, 1), Clamp(x+h, 0, 1)
	if hi == lo {
		return 0
	}
	return (e.GetValue(hi) - e.GetValue(lo)) / (hi - lo)
}

// springSamples is the resolution of a pre-sampled spring.
const springSamples = 120

// SpringTimingFunction is a damped spring from 0 to 1, sampled once at
// construction so evaluation is a pure table lookup.
type SpringTimingFunction struct {
	Frequency float64
	Damping   float64
	table     []float64
}

// Spring samples a harmonica spring with the given angular frequency and
// damping ratio.
func Spring(frequency, damping float64) *SpringTimingFunction {
	s := harmonica.NewSpring(harmonica.FPS(springSamples), frequency, damping)
	table := make([]float64, springSamples+1)
	var pos, vel float64
	for i := 1; i <= springSamples; i++ {
		pos, vel = s.Update(pos, vel, 1)
		table[i] = pos
	}
	// The spring may not have settled; pin the end so the curve finishes.
	table[springSamples] = 1
	return &SpringTimingFunction{Frequency: frequency, Damping: damping, table: table}
}

func (s *SpringTimingFunction) GetValue(x float64) float64 {
	x = Clamp(x, 0, 1)
	f := x * springSamples
	i := int(f)
	if i >= springSamples {
		return s.table[springSamples]
	}
	return Lerp(s.table[i], s.table[i+1], f-float64(i))
}

func (s *SpringTimingFunction) Velocity(x float64) float64 {
	x = Clamp(x, 0, 1)
	i := min(int(x*springSamples), springSamples-1)
	return (s.table[i+1] - s.table[i]) * springSamples
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-drift/compositor/pkg/animation"
	"gopkg.in/yaml.v3"
)

// Scenario describes a scripted run: elements, the animations added to
// them, and what happens at which frame.
type Scenario struct {
	Name       string          `yaml:"name"`
	Frames     int             `yaml:"frames"`
	Elements   []ElementSpec   `yaml:"elements"`
	Animations []AnimationSpec `yaml:"animations"`
	Pauses     []PauseSpec     `yaml:"pauses"`
	Aborts     []AbortSpec     `yaml:"aborts"`
	Removals   []RemovalSpec   `yaml:"removals"`
	Scrolls    []ScrollSpec    `yaml:"scrolls"`
	Takeovers  []TakeoverSpec  `yaml:"takeovers"`
}

// ElementSpec places an element in the scene trees.
type ElementSpec struct {
	ID        uint64    `yaml:"id"`
	InActive  bool      `yaml:"in_active"`
	InPending bool      `yaml:"in_pending"`
	Scroll    []float64 `yaml:"scroll,flow"`
}

// AnimationSpec is one animation added on the main side at Frame.
//
// From and To are interpreted per property: one value for opacity, an
// (x, y) translation for transform, a blur radius for filter and an (x, y)
// offset for scroll-offset. Scroll animations ignore From unless it is set.
type AnimationSpec struct {
	Frame        int       `yaml:"frame"`
	Element      uint64    `yaml:"element"`
	Property     string    `yaml:"property"`
	Duration     Duration  `yaml:"duration"`
	From         []float64 `yaml:"from,flow"`
	To           []float64 `yaml:"to,flow"`
	Timing       string    `yaml:"timing"`
	Iterations   *float64  `yaml:"iterations"`
	Direction    string    `yaml:"direction"`
	Fill         string    `yaml:"fill"`
	PlaybackRate *float64  `yaml:"playback_rate"`
	TimeOffset   Duration  `yaml:"time_offset"`
}

// PauseSpec pauses the animation at index Animation when Frame is reached.
type PauseSpec struct {
	Frame     int      `yaml:"frame"`
	Animation int      `yaml:"animation"`
	Offset    Duration `yaml:"offset"`
}

// AbortSpec aborts every animation of Property on Element.
type AbortSpec struct {
	Frame    int    `yaml:"frame"`
	Element  uint64 `yaml:"element"`
	Property string `yaml:"property"`
}

// RemovalSpec removes the animation at index Animation.
type RemovalSpec struct {
	Frame     int `yaml:"frame"`
	Animation int `yaml:"animation"`
}

// ScrollSpec creates or retargets an impl-only scroll. With Delta set it
// updates the running scroll; otherwise it creates one toward Target.
type ScrollSpec struct {
	Frame   int       `yaml:"frame"`
	Element uint64    `yaml:"element"`
	Target  []float64 `yaml:"target,flow"`
	Delta   []float64 `yaml:"delta,flow"`
	Max     []float64 `yaml:"max,flow"`
}

// TakeoverSpec asks the impl side to hand its scroll back to the main side.
type TakeoverSpec struct {
	Frame   int    `yaml:"frame"`
	Element uint64 `yaml:"element"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scenario")
		}
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks references and value shapes.
func (sc *Scenario) Validate() error {
	if sc.Frames <= 0 {
		return fmt.Errorf("frames must be positive (got %d)", sc.Frames)
	}
	known := make(map[uint64]bool, len(sc.Elements))
	for i, e := range sc.Elements {
		if e.ID == 0 {
			return fmt.Errorf("elements[%d]: id must be non-zero", i)
		}
		if known[e.ID] {
			return fmt.Errorf("elements[%d]: duplicate id %d", i, e.ID)
		}
		if e.Scroll != nil && len(e.Scroll) != 2 {
			return fmt.Errorf("elements[%d]: scroll needs two values", i)
		}
		known[e.ID] = true
	}
	for i, a := range sc.Animations {
		if !known[a.Element] {
			return fmt.Errorf("animations[%d]: unknown element %d", i, a.Element)
		}
		if _, err := a.Build(1, 1); err != nil {
			return fmt.Errorf("animations[%d]: %w", i, err)
		}
	}
	for i, p := range sc.Pauses {
		if p.Animation < 0 || p.Animation >= len(sc.Animations) {
			return fmt.Errorf("pauses[%d]: no animation %d", i, p.Animation)
		}
	}
	for i, r := range sc.Removals {
		if r.Animation < 0 || r.Animation >= len(sc.Animations) {
			return fmt.Errorf("removals[%d]: no animation %d", i, r.Animation)
		}
	}
	for i, a := range sc.Aborts {
		if !known[a.Element] {
			return fmt.Errorf("aborts[%d]: unknown element %d", i, a.Element)
		}
		if _, ok := animation.ParseTargetProperty(a.Property); !ok {
			return fmt.Errorf("aborts[%d]: unknown property %q", i, a.Property)
		}
	}
	for i, s := range sc.Scrolls {
		if !known[s.Element] {
			return fmt.Errorf("scrolls[%d]: unknown element %d", i, s.Element)
		}
		switch {
		case s.Delta != nil:
			if len(s.Delta) != 2 || len(s.Max) != 2 {
				return fmt.Errorf("scrolls[%d]: delta and max need two values", i)
			}
		case len(s.Target) != 2:
			return fmt.Errorf("scrolls[%d]: target needs two values", i)
		}
	}
	for i, t := range sc.Takeovers {
		if !known[t.Element] {
			return fmt.Errorf("takeovers[%d]: unknown element %d", i, t.Element)
		}
	}
	return nil
}

// ParseTimingFunction resolves a timing function name. It accepts the CSS
// keywords (linear, ease, ease-in, ease-out, ease-in-out), steps(n) and
// steps(n, start|middle|end), spring(frequency, damping), and the Penner
// easing names known to animation.Easing. The empty string means linear.
func ParseTimingFunction(name string) (animation.TimingFunction, error) {
	name = strings.TrimSpace(name)
	switch name {
	case "", "linear":
		return nil, nil
	case "ease":
		return animation.Ease, nil
	case "ease-in":
		return animation.EaseIn, nil
	case "ease-out":
		return animation.EaseOut, nil
	case "ease-in-out":
		return animation.EaseInOut, nil
	}
	if args, ok := callArgs(name, "steps"); ok {
		return parseSteps(args)
	}
	if args, ok := callArgs(name, "spring"); ok {
		if len(args) != 2 {
			return nil, fmt.Errorf("spring needs frequency and damping: %q", name)
		}
		freq, err1 := strconv.ParseFloat(args[0], 64)
		damping, err2 := strconv.ParseFloat(args[1], 64)
		if err := errors.Join(err1, err2); err != nil {
			return nil, fmt.Errorf("spring %q: %w", name, err)
		}
		return animation.Spring(freq, damping), nil
	}
	if e, ok := animation.Easing(name); ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown timing function %q", name)
}

func callArgs(s, fn string) ([]string, bool) {
	if !strings.HasPrefix(s, fn+"(") || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	inner := s[len(fn)+1 : len(s)-1]
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

func parseSteps(args []string) (animation.TimingFunction, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, fmt.Errorf("steps needs one or two arguments")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("steps count must be a positive integer (got %q)", args[0])
	}
	position := animation.StepEnd
	if len(args) == 2 {
		switch args[1] {
		case "start":
			position = animation.StepStart
		case "middle":
			position = animation.StepMiddle
		case "end":
			position = animation.StepEnd
		default:
			return nil, fmt.Errorf("unknown step position %q", args[1])
		}
	}
	return animation.Steps(n, position), nil
}

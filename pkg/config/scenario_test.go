package config

import (
	"strings"
	"testing"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
)

const fadeScenario = `
name: fade and scroll
frames: 90
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
    duration: 1s
    from: [0]
    to: [1]
    timing: ease-in-out
  - element: 1
    property: transform
    frame: 10
    duration: 500ms
    from: [0, 0]
    to: [100, 0]
    iterations: 2
    direction: alternate
    fill: forwards
    playback_rate: 2
    time_offset: -100ms
pauses:
  - frame: 20
    animation: 1
    offset: 250ms
aborts:
  - frame: 40
    element: 1
    property: opacity
scrolls:
  - frame: 0
    element: 2
    target: [0, 400]
  - frame: 3
    element: 2
    delta: [0, 50]
    max: [0, 1000]
takeovers:
  - frame: 6
    element: 2
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(fadeScenario))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "fade and scroll" || sc.Frames != 90 {
		t.Errorf("header = %q/%d", sc.Name, sc.Frames)
	}
	if len(sc.Elements) != 2 || !sc.Elements[0].InPending || sc.Elements[1].InPending {
		t.Errorf("elements = %+v", sc.Elements)
	}
	if len(sc.Scrolls) != 2 || sc.Scrolls[1].Delta == nil {
		t.Errorf("scrolls = %+v", sc.Scrolls)
	}

	a, err := sc.Animations[1].Build(5, 6)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID() != 5 || a.Group() != 6 || a.TargetProperty() != animation.TargetTransform {
		t.Errorf("ids = %d/%d/%v", a.ID(), a.Group(), a.TargetProperty())
	}
	if a.Iterations() != 2 || a.PlaybackRate() != 2 {
		t.Errorf("iterations/rate = %v/%v", a.Iterations(), a.PlaybackRate())
	}
	if a.Direction() != animation.DirectionAlternateNormal || a.FillMode() != animation.FillForwards {
		t.Errorf("direction/fill = %v/%v", a.Direction(), a.FillMode())
	}
	if a.TimeOffset() != -100*time.Millisecond {
		t.Errorf("offset = %v", a.TimeOffset())
	}
	if !a.NeedsSynchronizedStartTime() {
		t.Error("scripted animations start in sync with the impl side")
	}
	if a.Curve().Duration() != 500*time.Millisecond {
		t.Errorf("duration = %v", a.Curve().Duration())
	}
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "", "empty scenario"},
		{"no frames", "frames: 0\n", "frames must be positive"},
		{"unknown field", "frames: 1\nspeed: 2\n", "field speed not found"},
		{"zero element", "frames: 1\nelements: [{id: 0}]\n", "non-zero"},
		{"duplicate element", "frames: 1\nelements: [{id: 1}, {id: 1}]\n", "duplicate id"},
		{"unknown element", "frames: 1\nanimations: [{element: 3, property: opacity, duration: 1s, from: [0], to: [1]}]\n", "unknown element"},
		{"bad property", "frames: 1\nelements: [{id: 1}]\nanimations: [{element: 1, property: color, duration: 1s}]\n", "unknown property"},
		{"bad timing", "frames: 1\nelements: [{id: 1}]\nanimations: [{element: 1, property: opacity, duration: 1s, from: [0], to: [1], timing: wobble}]\n", "unknown timing"},
		{"opacity shape", "frames: 1\nelements: [{id: 1}]\nanimations: [{element: 1, property: opacity, duration: 1s, from: [0, 1], to: [1]}]\n", "opacity needs"},
		{"zero duration", "frames: 1\nelements: [{id: 1}]\nanimations: [{element: 1, property: opacity, from: [0], to: [1]}]\n", "duration must be positive"},
		{"bad pause", "frames: 1\npauses: [{frame: 0, animation: 2}]\n", "no animation 2"},
		{"bad scroll", "frames: 1\nelements: [{id: 1}]\nscrolls: [{element: 1, target: [1]}]\n", "target needs two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseTimingFunction(t *testing.T) {
	tests := []struct {
		name    string
		at      float64
		want    float64
		wantErr bool
	}{
		{name: "", at: 0.3, want: 0.3},
		{name: "linear", at: 0.3, want: 0.3},
		{name: "ease-in-out", at: 0.5, want: 0.5},
		{name: "steps(4)", at: 0.3, want: 0.25},
		{name: "steps(4, start)", at: 0.3, want: 0.5},
		{name: "steps(2, middle)", at: 0.3, want: 0.5},
		{name: "in-quad", at: 0.5, want: 0.25},
		{name: "spring(20, 1)", at: 1, want: 1},
		{name: "steps(0)", wantErr: true},
		{name: "steps(2, late)", wantErr: true},
		{name: "spring(1)", wantErr: true},
		{name: "wobble", wantErr: true},
	}
	for _, tt := range tests {
		tf, err := ParseTimingFunction(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.name, err)
			continue
		}
		got := tt.at
		if tf != nil {
			got = tf.GetValue(tt.at)
		}
		if diff := got - tt.want; diff > 1e-4 || diff < -1e-4 {
			t.Errorf("%q(%v) = %v, want %v", tt.name, tt.at, got, tt.want)
		}
	}
}

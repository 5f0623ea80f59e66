// Package config loads compositor settings and animation scenarios from
// YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the settings schema this package writes. Files with the
// same major version are accepted.
const SchemaVersion = "v1.0.0"

// ErrUnsupportedSchema is returned for a settings file whose schema version
// is malformed or has a different major version.
var ErrUnsupportedSchema = errors.New("unsupported settings schema")

// Duration is a time.Duration written as a Go duration string ("16ms").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Settings configures an engine.Compositor.
type Settings struct {
	Schema                string         `yaml:"schema"`
	Strict                bool           `yaml:"strict"`
	FrameInterval         Duration       `yaml:"frame_interval"`
	TraceCapacity         int            `yaml:"trace_capacity"`
	DroppedFrameThreshold Duration       `yaml:"dropped_frame_threshold"`
	Scroll                ScrollSettings `yaml:"scroll"`
}

// ScrollSettings configures impl-only scroll animations.
type ScrollSettings struct {
	DurationBehavior string `yaml:"duration_behavior"`
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Schema:                SchemaVersion,
		FrameInterval:         Duration(16 * time.Millisecond),
		TraceCapacity:         120,
		DroppedFrameThreshold: Duration(32 * time.Millisecond),
		Scroll: ScrollSettings{
			DurationBehavior: animation.DurationInverseDelta.String(),
		},
	}
}

// Load reads settings from path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes settings, filling unset fields with defaults. Unknown keys
// are rejected.
func Parse(data []byte) (Settings, error) {
	s := Default()
	// A dropped frame threshold left unset follows the frame interval.
	s.DroppedFrameThreshold = 0

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.DroppedFrameThreshold == 0 {
		s.DroppedFrameThreshold = 2 * s.FrameInterval
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the schema version and value ranges.
func (s Settings) Validate() error {
	if !semver.IsValid(s.Schema) || semver.Major(s.Schema) != semver.Major(SchemaVersion) {
		return fmt.Errorf("%w: %q (want %s.x)", ErrUnsupportedSchema, s.Schema, semver.Major(SchemaVersion))
	}
	if s.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive (got %s)", s.FrameInterval.Std())
	}
	if s.TraceCapacity <= 0 {
		return fmt.Errorf("trace_capacity must be positive (got %d)", s.TraceCapacity)
	}
	if s.DroppedFrameThreshold < s.FrameInterval {
		return fmt.Errorf("dropped_frame_threshold %s is shorter than frame_interval %s",
			s.DroppedFrameThreshold.Std(), s.FrameInterval.Std())
	}
	if _, ok := animation.ParseDurationBehavior(s.Scroll.DurationBehavior); !ok {
		return fmt.Errorf("scroll.duration_behavior: unknown behavior %q", s.Scroll.DurationBehavior)
	}
	return nil
}

// ScrollDurationBehavior returns the parsed scroll duration behavior.
func (s Settings) ScrollDurationBehavior() animation.DurationBehavior {
	b, ok := animation.ParseDurationBehavior(s.Scroll.DurationBehavior)
	if !ok {
		return animation.DurationInverseDelta
	}
	return b
}

// Marshal encodes s as YAML.
func (s Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

package animation

import "github.com/go-drift/compositor/pkg/gfx"

// AnimationEventType identifies what happened to an animation.
type AnimationEventType int

const (
	EventStarted AnimationEventType = iota
	EventFinished
	EventAborted
	EventPropertyUpdate
	EventTakeover
)

func (t AnimationEventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventFinished:
		return "finished"
	case EventAborted:
		return "aborted"
	case EventPropertyUpdate:
		return "property-update"
	case EventTakeover:
		return "takeover"
	default:
		return "unknown"
	}
}

// AnimationEvent crosses the commit boundary from the impl side back to the
// main side.
type AnimationEvent struct {
	Type           AnimationEventType
	ElementID      ElementID
	GroupID        int
	TargetProperty TargetProperty
	MonotonicTime  TimeTicks
	IsImplOnly     bool

	// Opacity and Transform carry PROPERTY_UPDATE values.
	Opacity   float64
	Transform gfx.Transform

	// AnimationStartTime (seconds) and Curve are set for TAKEOVER.
	AnimationStartTime float64
	Curve              Curve
}

// AnimationEvents is the event queue filled by UpdateState. A nil
// *AnimationEvents means the caller does not collect events.
type AnimationEvents []AnimationEvent

// Append adds an event to the queue.
func (e *AnimationEvents) Append(ev AnimationEvent) {
	*e = append(*e, ev)
}

// IsEmpty reports whether the queue holds no events.
func (e AnimationEvents) IsEmpty() bool { return len(e) == 0 }

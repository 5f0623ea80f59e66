package animation

// TargetProperty is the element property an animation drives.
type TargetProperty int

const (
	TargetTransform TargetProperty = iota
	TargetOpacity
	TargetFilter
	TargetScrollOffset
	TargetBackgroundColor

	// targetPropertyCount must stay last.
	targetPropertyCount
)

// TargetProperties lists every property in declaration order.
func TargetProperties() []TargetProperty {
	out := make([]TargetProperty, 0, targetPropertyCount)
	for p := TargetProperty(0); p < targetPropertyCount; p++ {
		out = append(out, p)
	}
	return out
}

func (p TargetProperty) String() string {
	switch p {
	case TargetTransform:
		return "transform"
	case TargetOpacity:
		return "opacity"
	case TargetFilter:
		return "filter"
	case TargetScrollOffset:
		return "scroll-offset"
	case TargetBackgroundColor:
		return "background-color"
	default:
		return "unknown"
	}
}

// ParseTargetProperty maps a property name back to its value.
func ParseTargetProperty(s string) (TargetProperty, bool) {
	for _, p := range TargetProperties() {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}

// PropertySet is a bit set of target properties.
type PropertySet uint32

// Add returns s with p set.
func (s PropertySet) Add(p TargetProperty) PropertySet { return s | 1<<uint(p) }

// Has reports whether p is in s.
func (s PropertySet) Has(p TargetProperty) bool { return s&(1<<uint(p)) != 0 }

// Intersects reports whether s and o share any property.
func (s PropertySet) Intersects(o PropertySet) bool { return s&o != 0 }

// RunState is the lifecycle state of an Animation.
type RunState int

const (
	WaitingForTargetAvailability RunState = iota
	WaitingForDeletion
	Starting
	Running
	Paused
	Finished
	Aborted
	AbortedButNeedsCompletion

	runStateCount
)

func (s RunState) String() string {
	switch s {
	case WaitingForTargetAvailability:
		return "waiting-for-target-availability"
	case WaitingForDeletion:
		return "waiting-for-deletion"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	case Aborted:
		return "aborted"
	case AbortedButNeedsCompletion:
		return "aborted-but-needs-completion"
	default:
		return "unknown"
	}
}

// Direction controls how iterations map onto the curve.
type Direction int

const (
	DirectionNormal Direction = iota
	DirectionReverse
	DirectionAlternateNormal
	DirectionAlternateReverse
)

func (d Direction) String() string {
	switch d {
	case DirectionNormal:
		return "normal"
	case DirectionReverse:
		return "reverse"
	case DirectionAlternateNormal:
		return "alternate"
	case DirectionAlternateReverse:
		return "alternate-reverse"
	default:
		return "unknown"
	}
}

// ParseDirection maps a direction name back to its value.
func ParseDirection(s string) (Direction, bool) {
	for d := DirectionNormal; d <= DirectionAlternateReverse; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return 0, false
}

// FillMode controls whether an animation applies outside its active interval.
type FillMode int

const (
	FillNone FillMode = iota
	FillForwards
	FillBackwards
	FillBoth
)

func (f FillMode) String() string {
	switch f {
	case FillNone:
		return "none"
	case FillForwards:
		return "forwards"
	case FillBackwards:
		return "backwards"
	case FillBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseFillMode maps a fill mode name back to its value.
func ParseFillMode(s string) (FillMode, bool) {
	for f := FillNone; f <= FillBoth; f++ {
		if f.String() == s {
			return f, true
		}
	}
	return 0, false
}

// ElementID identifies a scene element. Zero is never a valid id.
type ElementID uint64

// ElementListType selects one of the two scene tree generations.
type ElementListType int

const (
	ListActive ElementListType = iota
	ListPending
)

func (l ElementListType) String() string {
	if l == ListPending {
		return "pending"
	}
	return "active"
}

// AnimationChangeType tells the client which animating flag changed.
type AnimationChangeType int

const (
	ChangePotential AnimationChangeType = iota
	ChangeRunning
	ChangeBoth
)

func (c AnimationChangeType) String() string {
	switch c {
	case ChangePotential:
		return "potential"
	case ChangeRunning:
		return "running"
	case ChangeBoth:
		return "both"
	default:
		return "unknown"
	}
}

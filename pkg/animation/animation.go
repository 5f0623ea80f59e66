package animation

import (
	"math"
	"time"
)

// Animation is one timed instance of a curve bound to a target property.
//
// An Animation and its twin on the other side of a commit share id, group
// and target property. Exactly one of the twins is the controlling
// instance; clones made by CloneAndInitialize are controlling.
type Animation struct {
	curve          Curve
	id             int
	group          int
	targetProperty TargetProperty

	runState       RunState
	iterations     float64
	iterationStart float64
	direction      Direction
	playbackRate   float64
	fillMode       FillMode

	startTime       TimeTicks
	hasStartTime    bool
	timeOffset      time.Duration
	pauseTime       TimeTicks
	totalPausedTime time.Duration
	suspended       bool

	needsSynchronizedStartTime bool
	receivedFinishedEvent      bool
	isControllingInstance      bool
	isImplOnly                 bool
	affectsActiveElements      bool
	affectsPendingElements     bool
}

// NewAnimation returns an animation waiting for its target, playing the
// curve once forward at normal speed and filling both ways.
func NewAnimation(curve Curve, id, group int, property TargetProperty) *Animation {
	return &Animation{
		curve:                  curve,
		id:                     id,
		group:                  group,
		targetProperty:         property,
		runState:               WaitingForTargetAvailability,
		iterations:             1,
		direction:              DirectionNormal,
		playbackRate:           1,
		fillMode:               FillBoth,
		affectsActiveElements:  true,
		affectsPendingElements: true,
	}
}

func (a *Animation) ID() int                        { return a.id }
func (a *Animation) Group() int                     { return a.group }
func (a *Animation) TargetProperty() TargetProperty { return a.targetProperty }
func (a *Animation) Curve() Curve                   { return a.curve }
func (a *Animation) RunState() RunState             { return a.runState }

func (a *Animation) Iterations() float64         { return a.iterations }
func (a *Animation) SetIterations(n float64)     { a.iterations = n }
func (a *Animation) IterationStart() float64     { return a.iterationStart }
func (a *Animation) SetIterationStart(s float64) { a.iterationStart = s }
func (a *Animation) Direction() Direction        { return a.direction }
func (a *Animation) SetDirection(d Direction)    { a.direction = d }
func (a *Animation) PlaybackRate() float64       { return a.playbackRate }
func (a *Animation) SetPlaybackRate(r float64)   { a.playbackRate = r }
func (a *Animation) FillMode() FillMode          { return a.fillMode }
func (a *Animation) SetFillMode(f FillMode)      { a.fillMode = f }

func (a *Animation) StartTime() TimeTicks          { return a.startTime }
func (a *Animation) HasSetStartTime() bool         { return a.hasStartTime }
func (a *Animation) TimeOffset() time.Duration     { return a.timeOffset }
func (a *Animation) SetTimeOffset(d time.Duration) { a.timeOffset = d }

// SetStartTime sets the start time. Any value counts as set, zero included.
func (a *Animation) SetStartTime(t TimeTicks) {
	a.startTime = t
	a.hasStartTime = true
}

func (a *Animation) NeedsSynchronizedStartTime() bool { return a.needsSynchronizedStartTime }
func (a *Animation) SetNeedsSynchronizedStartTime(v bool) {
	a.needsSynchronizedStartTime = v
}
func (a *Animation) ReceivedFinishedEvent() bool     { return a.receivedFinishedEvent }
func (a *Animation) SetReceivedFinishedEvent(v bool) { a.receivedFinishedEvent = v }
func (a *Animation) IsControllingInstance() bool     { return a.isControllingInstance }
func (a *Animation) IsImplOnly() bool                { return a.isImplOnly }
func (a *Animation) SetIsImplOnly(v bool)            { a.isImplOnly = v }
func (a *Animation) Suspended() bool                 { return a.suspended }

func (a *Animation) AffectsActiveElements() bool      { return a.affectsActiveElements }
func (a *Animation) SetAffectsActiveElements(v bool)  { a.affectsActiveElements = v }
func (a *Animation) AffectsPendingElements() bool     { return a.affectsPendingElements }
func (a *Animation) SetAffectsPendingElements(v bool) { a.affectsPendingElements = v }

// SetRunState moves the animation to state at time t. It does nothing while
// the animation is suspended.
func (a *Animation) SetRunState(state RunState, t TimeTicks) {
	if a.suspended {
		return
	}
	if state == Running && a.runState == Paused {
		a.totalPausedTime += t.Sub(a.pauseTime)
	} else if state == Paused {
		a.pauseTime = t
	}
	if a.runState != state {
		Logger().Debug("animation run state changed",
			"id", a.id, "group", a.group, "property", a.targetProperty,
			"from", a.runState, "to", state)
	}
	a.runState = state
}

// Suspend pauses the animation at t and ignores further state changes until
// Resume.
func (a *Animation) Suspend(t TimeTicks) {
	a.SetRunState(Paused, t)
	a.suspended = true
}

// Resume lifts a suspension and resumes running at t.
func (a *Animation) Resume(t TimeTicks) {
	a.suspended = false
	a.SetRunState(Running, t)
}

// IsFinished reports whether the animation reached a terminal state.
func (a *Animation) IsFinished() bool {
	switch a.runState {
	case Finished, Aborted, AbortedButNeedsCompletion, WaitingForDeletion:
		return true
	default:
		return false
	}
}

// IsFinishedAt reports whether a running animation has played all of its
// iterations by t.
func (a *Animation) IsFinishedAt(t TimeTicks) bool {
	if a.IsFinished() {
		return true
	}
	if a.needsSynchronizedStartTime || a.playbackRate == 0 {
		return false
	}
	if a.runState != Running || a.iterations < 0 {
		return false
	}
	total := scaleDuration(a.curve.Duration(), a.iterations/math.Abs(a.playbackRate))
	return total <= a.ConvertToActiveTime(t)
}

// ConvertToActiveTime returns the time elapsed since the animation started,
// excluding pauses and shifted by the time offset. While the start is not
// yet known the result is the time offset alone.
func (a *Animation) ConvertToActiveTime(t TimeTicks) time.Duration {
	if (a.runState == Starting && !a.HasSetStartTime()) || a.needsSynchronizedStartTime {
		return a.timeOffset
	}
	if a.runState == Paused {
		t = a.pauseTime
	}
	return t.Sub(a.startTime) - a.totalPausedTime + a.timeOffset
}

// InEffect reports whether the animation contributes a value at t.
func (a *Animation) InEffect(t TimeTicks) bool {
	return a.ConvertToActiveTime(t) >= 0 || a.fillMode == FillBoth || a.fillMode == FillBackwards
}

// TrimTimeToCurrentIteration maps t to a local time within one pass of the
// curve, after pauses, offset, rate, iteration start and direction.
func (a *Animation) TrimTimeToCurrentIteration(t TimeTicks) time.Duration {
	active := a.ConvertToActiveTime(t)
	duration := a.curve.Duration()
	startOffset := scaleDuration(duration, a.iterationStart)

	if active < 0 {
		return startOffset
	}
	if a.iterations == 0 || duration <= 0 {
		return 0
	}

	rate := a.playbackRate
	flip := false
	if a.iterations < 0 && rate < 0 {
		// An endless animation has no end to count back from.
		rate = -rate
		flip = true
	}

	repeated := scaleDuration(duration, a.iterations)
	var scaled time.Duration
	switch {
	case a.iterations > 0 && rate != 0:
		activeDuration := scaleDuration(repeated, 1/math.Abs(rate))
		if active >= activeDuration {
			active = activeDuration
		}
		if rate < 0 {
			scaled = scaleDuration(active-activeDuration, rate) + startOffset
		} else {
			scaled = scaleDuration(active, rate) + startOffset
		}
	default:
		scaled = scaleDuration(active, rate) + startOffset
	}

	var iterationTime time.Duration
	if a.iterations > 0 && scaled-startOffset == repeated && math.Mod(a.iterations+a.iterationStart, 1) == 0 {
		iterationTime = duration
	} else {
		iterationTime = scaled % duration
	}

	var iteration int
	switch {
	case scaled <= 0:
		iteration = 0
	case iterationTime == duration:
		iteration = int(math.Ceil(a.iterations + a.iterationStart - 1))
	default:
		iteration = int(scaled / duration)
	}

	reverse := a.direction == DirectionReverse ||
		(a.direction == DirectionAlternateNormal && iteration%2 == 1) ||
		(a.direction == DirectionAlternateReverse && iteration%2 == 0)
	if reverse != flip {
		iterationTime = duration - iterationTime
	}
	return iterationTime
}

// CloneAndInitialize returns a controlling copy for the other side of a
// commit, placed in initialState.
func (a *Animation) CloneAndInitialize(initialState RunState) *Animation {
	clone := &Animation{
		curve:                  a.curve.Clone(),
		id:                     a.id,
		group:                  a.group,
		targetProperty:         a.targetProperty,
		runState:               initialState,
		iterations:             a.iterations,
		iterationStart:         a.iterationStart,
		direction:              a.direction,
		playbackRate:           a.playbackRate,
		fillMode:               a.fillMode,
		startTime:              a.startTime,
		hasStartTime:           a.hasStartTime,
		timeOffset:             a.timeOffset,
		pauseTime:              a.pauseTime,
		totalPausedTime:        a.totalPausedTime,
		isControllingInstance:  true,
		affectsActiveElements:  true,
		affectsPendingElements: true,
	}
	return clone
}

// PushPropertiesTo copies main side changes onto the impl twin. Pause state
// flows whenever either side is paused; playback parameters always flow.
func (a *Animation) PushPropertiesTo(other *Animation) {
	if a.runState == Paused || other.runState == Paused {
		other.runState = a.runState
		other.pauseTime = a.pauseTime
		other.totalPausedTime = a.totalPausedTime
	}
	if a.HasSetStartTime() && !other.HasSetStartTime() {
		other.SetStartTime(a.startTime)
	}
	other.timeOffset = a.timeOffset
	other.playbackRate = a.playbackRate
	other.direction = a.direction
	other.fillMode = a.fillMode
}

func scaleDuration(d time.Duration, k float64) time.Duration {
	if math.IsInf(k, 0) {
		if (k > 0) == (d > 0) {
			return time.Duration(math.MaxInt64)
		}
		return time.Duration(math.MinInt64)
	}
	return time.Duration(math.Round(float64(d) * k))
}

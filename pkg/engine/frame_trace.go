package engine

import (
	"sync"
	"time"
)

const (
	frameTraceSamplesDefault   = 240
	defaultFrameTraceThreshold = 32 * time.Millisecond
)

// FramePhaseTimings captures wall time spent in each frame phase (ms).
type FramePhaseTimings struct {
	AnimateMainMs float64 `json:"animateMainMs"`
	CommitMs      float64 `json:"commitMs"`
	ActivateMs    float64 `json:"activateMs"`
	AnimateImplMs float64 `json:"animateImplMs"`
	EventsMs      float64 `json:"eventsMs"`
}

// FrameCounts captures per-frame workload indicators.
type FrameCounts struct {
	MainTicking int `json:"mainTicking"`
	ImplTicking int `json:"implTicking"`
	Events      int `json:"events"`
	Started     int `json:"started"`
	Finished    int `json:"finished"`
	Aborted     int `json:"aborted"`
	Takeovers   int `json:"takeovers"`
}

// FrameFlags captures contextual flags for a frame.
type FrameFlags struct {
	Committed bool `json:"committed"`
	Activated bool `json:"activated"`
}

// FrameSample is a single frame trace sample.
type FrameSample struct {
	Frame     int   `json:"frame"`
	Timestamp int64 `json:"ts"`
	// IntervalMs is the frame time distance to the previous frame.
	IntervalMs float64           `json:"intervalMs"`
	Phases     FramePhaseTimings `json:"phases"`
	Counts     FrameCounts       `json:"counts"`
	Flags      FrameFlags        `json:"flags"`
}

// FrameTimeline is the debug server response shape.
type FrameTimeline struct {
	Samples       []FrameSample `json:"samples"`
	DroppedFrames int           `json:"droppedFrames"`
	ThresholdMs   float64       `json:"thresholdMs"`
}

// FrameTraceBuffer stores recent frame samples in a ring buffer.
type FrameTraceBuffer struct {
	mu        sync.RWMutex
	samples   ring[FrameSample]
	dropped   int
	threshold time.Duration
}

// NewFrameTraceBuffer creates a new frame trace buffer. A frame whose
// interval exceeds threshold counts as dropped.
func NewFrameTraceBuffer(capacity int, threshold time.Duration) *FrameTraceBuffer {
	if capacity <= 0 {
		capacity = frameTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultFrameTraceThreshold
	}
	return &FrameTraceBuffer{
		samples:   newRing[FrameSample](capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *FrameTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.samples.capacity()
}

// Threshold returns the dropped frame threshold.
func (b *FrameTraceBuffer) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Add records a frame sample and updates the dropped frame count.
func (b *FrameTraceBuffer) Add(sample FrameSample, interval time.Duration) {
	b.mu.Lock()
	b.samples.add(sample)
	if interval > b.threshold {
		b.dropped++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of samples and stats.
func (b *FrameTraceBuffer) Snapshot() FrameTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return FrameTimeline{
		Samples:       b.samples.snapshot(),
		DroppedFrames: b.dropped,
		ThresholdMs:   durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

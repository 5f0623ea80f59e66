package engine

import (
	"runtime"
	"sync"
	"time"
)

const (
	runtimeSampleEveryDefault = 60
	runtimeSampleMaxSamples   = 120
)

// RuntimeSample pairs Go heap statistics with host bookkeeping sizes at a
// frame.
type RuntimeSample struct {
	Frame        int    `json:"frame"`
	Timestamp    int64  `json:"ts"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	NumGC        uint32 `json:"numGC"`
	LastPauseNs  uint64 `json:"lastPauseNs"`
	MainElements int    `json:"mainElements"`
	ImplElements int    `json:"implElements"`
	Timelines    int    `json:"timelines"`
}

// RuntimeSampleBuffer stores runtime samples taken every few frames.
type RuntimeSampleBuffer struct {
	mu      sync.RWMutex
	samples ring[RuntimeSample]
	every   int
}

// NewRuntimeSampleBuffer returns a buffer that wants a sample every
// everyFrames frames. Zero or less picks the default of 60.
func NewRuntimeSampleBuffer(everyFrames int) *RuntimeSampleBuffer {
	if everyFrames <= 0 {
		everyFrames = runtimeSampleEveryDefault
	}
	return &RuntimeSampleBuffer{
		samples: newRing[RuntimeSample](runtimeSampleMaxSamples),
		every:   everyFrames,
	}
}

// Every returns the sampling period in frames.
func (b *RuntimeSampleBuffer) Every() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.every
}

// due reports whether frame should be sampled.
func (b *RuntimeSampleBuffer) due(frame int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return frame%b.every == 0
}

// Add stores a runtime sample.
func (b *RuntimeSampleBuffer) Add(sample RuntimeSample) {
	b.mu.Lock()
	b.samples.add(sample)
	b.mu.Unlock()
}

// Snapshot returns samples in chronological order.
func (b *RuntimeSampleBuffer) Snapshot() []RuntimeSample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.samples.snapshot()
}

// WithRuntimeSampling records heap and host sizes every everyFrames frames.
// The samples are served at /runtime.
func WithRuntimeSampling(everyFrames int) Option {
	return func(c *Compositor) {
		c.runtime = NewRuntimeSampleBuffer(everyFrames)
	}
}

// sampleRuntime runs at the end of a frame while c.mu is held.
func (c *Compositor) sampleRuntime() {
	if c.runtime == nil || !c.runtime.due(c.frame) {
		return
	}
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	lastPause := uint64(0)
	if stats.NumGC > 0 {
		lastPause = stats.PauseNs[(stats.NumGC-1)%256]
	}
	c.runtime.Add(RuntimeSample{
		Frame:        c.frame,
		Timestamp:    time.Now().UnixMilli(),
		HeapAlloc:    stats.HeapAlloc,
		HeapInuse:    stats.HeapInuse,
		NumGC:        stats.NumGC,
		LastPauseNs:  lastPause,
		MainElements: c.main.ElementCount(),
		ImplElements: c.impl.ElementCount(),
		Timelines:    c.impl.TimelineCount(),
	})
}

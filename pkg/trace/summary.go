package trace

import (
	"maps"
	"slices"
	"time"
)

// Summary aggregates a trace.
type Summary struct {
	Frames   int
	Duration time.Duration
	// Events counts events by type name.
	Events map[string]int
	// Elements lists every element that produced an event, sorted.
	Elements []uint64
	// LastActive is the frame index of the last frame with a ticking
	// element, or -1.
	LastActive int
}

// Summarize aggregates records.
func Summarize(records []Record) Summary {
	s := Summary{Events: make(map[string]int), LastActive: -1}
	if len(records) == 0 {
		return s
	}
	s.Frames = len(records)
	s.Duration = time.Duration(records[len(records)-1].Time - records[0].Time)

	elements := make(map[uint64]bool)
	for _, r := range records {
		for _, e := range r.Events {
			s.Events[e.Type]++
			elements[e.Element] = true
		}
		if len(r.Active) > 0 {
			s.LastActive = r.Frame
		}
	}
	s.Elements = slices.Sorted(maps.Keys(elements))
	return s
}

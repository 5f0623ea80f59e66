package engine

// ring keeps the most recent values up to a fixed capacity. It is not safe
// for concurrent use; owners guard it with their own lock.
type ring[T any] struct {
	items []T
	index int
	count int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{items: make([]T, capacity)}
}

func (r *ring[T]) capacity() int { return len(r.items) }

func (r *ring[T]) add(v T) {
	r.items[r.index] = v
	r.index = (r.index + 1) % len(r.items)
	if r.count < len(r.items) {
		r.count++
	}
}

// snapshot returns a chronological copy, or nil when empty.
func (r *ring[T]) snapshot() []T {
	if r.count == 0 {
		return nil
	}
	out := make([]T, r.count)
	if r.count < len(r.items) {
		copy(out, r.items[:r.count])
	} else {
		copy(out, r.items[r.index:])
		copy(out[len(r.items)-r.index:], r.items[:r.index])
	}
	return out
}

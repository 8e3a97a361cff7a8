// Package gen implements the generation-stamped scratch-cache substrate
// (spec.md §4.1): instead of clearing a cache's backing storage every step,
// each cache bumps a generation counter and treats any entry stamped with an
// older generation as absent. Reset is therefore O(1) regardless of how much
// of the cache was populated the previous step.
//
// This is the same trick Voskan-arena-cache's genring uses to avoid
// rewriting an entire ring on rotation: bump a counter, let staleness fall
// out of a comparison instead of a sweep.
package gen

// Phase is a cache's lifecycle state. A cache is only meaningfully queried
// while Active; the other phases exist so callers can assert misuse without
// the cache itself ever panicking.
type Phase int

const (
	Unallocated Phase = iota
	Allocated
	Active
	Cleaned
)

// Scalar is a single generation-stamped value, for per-step caches that hold
// exactly one thing (e.g. "the current step's ally-threat total").
type Scalar[V any] struct {
	phase Phase
	gen   uint64
	value V
	valid bool
}

// NewScalar allocates a Scalar in the Allocated phase; it holds no value
// until the first Reset.
func NewScalar[V any]() *Scalar[V] {
	return &Scalar[V]{phase: Allocated}
}

// Reset bumps the generation and enters the Active phase, invalidating
// whatever value was set under the previous generation. Calling Reset from
// Unallocated or Cleaned is a caller error; it is treated as an implicit
// Alloc rather than panicking, since the core controller never panics on a
// misuse it can instead absorb.
func (s *Scalar[V]) Reset() {
	s.gen++
	s.phase = Active
	s.valid = false
}

// Cleanup releases the held value and marks the cache Cleaned. A Cleaned
// cache must be Reset before it can be used again.
func (s *Scalar[V]) Cleanup() {
	var zero V
	s.value = zero
	s.valid = false
	s.phase = Cleaned
}

// IsValid reports whether the cache holds a value for the current generation.
func (s *Scalar[V]) IsValid() bool {
	return s.phase == Active && s.valid
}

// Get returns the cached value and whether it is valid for the current
// generation.
func (s *Scalar[V]) Get() (V, bool) {
	if !s.IsValid() {
		var zero V
		return zero, false
	}
	return s.value, true
}

// GetOrCompute returns the cached value if valid, otherwise computes,
// stores, and returns a fresh one.
func (s *Scalar[V]) GetOrCompute(compute func() V) V {
	if v, ok := s.Get(); ok {
		return v
	}
	v := compute()
	s.Set(v)
	return v
}

// Set stores a value under the current generation.
func (s *Scalar[V]) Set(v V) {
	s.value = v
	s.valid = true
	if s.phase != Active {
		s.phase = Active
	}
}

// Invalidate clears the held value without bumping the generation.
func (s *Scalar[V]) Invalidate() {
	var zero V
	s.value = zero
	s.valid = false
}

// Phase reports the cache's current lifecycle phase.
func (s *Scalar[V]) Phase() Phase {
	return s.phase
}

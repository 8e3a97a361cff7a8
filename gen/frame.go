package gen

import (
	"sync"
	"time"
)

// Frame is a wall-clock-bound memoization cache for values expensive enough
// to amortize across several ticks but that must not go stale indefinitely
// (spec.md §4.1's "optional time-bound cache", e.g. a spatial-index rebuild
// triggered by map churn rather than by agent turn order). Unlike Scalar/
// PerAgent/PerTeam, which invalidate on an explicit step-generation bump,
// Frame invalidates itself once maxAge has elapsed and sweeps expired keys
// every cleanupInterval.
type Frame[K comparable, V any] struct {
	mu              sync.Mutex
	maxAge          time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time
	entries         map[K]frameEntry[V]
}

type frameEntry[V any] struct {
	value   V
	expires time.Time
}

// DefaultMaxAge and DefaultCleanupInterval match the cadence spec.md §4.1
// suggests for a background memoization sweep: refresh roughly once a
// second, and reclaim expired keys every five.
const (
	DefaultMaxAge          = time.Second
	DefaultCleanupInterval = 5 * time.Second
)

// NewFrame constructs a Frame cache with the given max entry age and cleanup
// cadence. A zero maxAge/cleanupInterval falls back to the defaults above.
func NewFrame[K comparable, V any](maxAge, cleanupInterval time.Duration) *Frame[K, V] {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Frame[K, V]{
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
		entries:         make(map[K]frameEntry[V]),
	}
}

// GetOrCompute returns the cached value for key if it hasn't expired,
// otherwise computes, stores, and returns a fresh one. now is passed in by
// the caller (rather than read via time.Now internally) so callers that
// already track a tick's wall-clock timestamp reuse it instead of issuing a
// fresh syscall per lookup.
func (f *Frame[K, V]) GetOrCompute(now time.Time, key K, compute func() V) V {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.maybeCleanup(now)

	if e, ok := f.entries[key]; ok && now.Before(e.expires) {
		return e.value
	}
	v := compute()
	f.entries[key] = frameEntry[V]{value: v, expires: now.Add(f.maxAge)}
	return v
}

// Invalidate drops key regardless of its expiry.
func (f *Frame[K, V]) Invalidate(key K) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
}

func (f *Frame[K, V]) maybeCleanup(now time.Time) {
	if f.lastCleanup.IsZero() {
		f.lastCleanup = now
		return
	}
	if now.Sub(f.lastCleanup) < f.cleanupInterval {
		return
	}
	for k, e := range f.entries {
		if !now.Before(e.expires) {
			delete(f.entries, k)
		}
	}
	f.lastCleanup = now
}

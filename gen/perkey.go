package gen

import "github.com/tribalctl/scripted-ai/limits"

// slot is one generation-stamped array cell.
type slot[V any] struct {
	gen   uint64
	valid bool
	value V
}

// PerAgent is a fixed-size, array-indexed generation cache keyed by agent id
// (spec.md §4.1 "per-agent scratch"). Array indexing keeps it allocation-free
// across resets, unlike a map-backed cache that would need re-keying.
type PerAgent[V any] struct {
	phase Phase
	gen   uint64
	slots [limits.MaxAgents]slot[V]
}

// NewPerAgent allocates a PerAgent cache in the Allocated phase.
func NewPerAgent[V any]() *PerAgent[V] {
	return &PerAgent[V]{phase: Allocated}
}

// Reset bumps the generation; every previously cached agent entry becomes
// stale in O(1), with no sweep over the backing array.
func (c *PerAgent[V]) Reset() {
	c.gen++
	c.phase = Active
}

// Cleanup releases all held values and marks the cache Cleaned.
func (c *PerAgent[V]) Cleanup() {
	var zero slot[V]
	for i := range c.slots {
		c.slots[i] = zero
	}
	c.phase = Cleaned
}

func (c *PerAgent[V]) index(id int) bool {
	return id >= 0 && id < limits.MaxAgents
}

// IsValid reports whether id has a cached value for the current generation.
func (c *PerAgent[V]) IsValid(id int) bool {
	if !c.index(id) || c.phase != Active {
		return false
	}
	s := &c.slots[id]
	return s.valid && s.gen == c.gen
}

// Get returns the cached value for id and whether it is valid.
func (c *PerAgent[V]) Get(id int) (V, bool) {
	if !c.IsValid(id) {
		var zero V
		return zero, false
	}
	return c.slots[id].value, true
}

// GetOrCompute returns the cached value for id if valid, otherwise computes,
// stores under the current generation, and returns a fresh one.
func (c *PerAgent[V]) GetOrCompute(id int, compute func() V) V {
	if v, ok := c.Get(id); ok {
		return v
	}
	v := compute()
	c.Set(id, v)
	return v
}

// Set stores value for id under the current generation. Out-of-range ids are
// silently ignored.
func (c *PerAgent[V]) Set(id int, value V) {
	if !c.index(id) {
		return
	}
	c.slots[id] = slot[V]{gen: c.gen, valid: true, value: value}
}

// Invalidate drops id's cached value without bumping the generation.
func (c *PerAgent[V]) Invalidate(id int) {
	if !c.index(id) {
		return
	}
	c.slots[id].valid = false
}

// Phase reports the cache's current lifecycle phase.
func (c *PerAgent[V]) Phase() Phase {
	return c.phase
}

// PerTeam is the team-indexed analogue of PerAgent (spec.md §3, §4.3 — threat
// maps, request rings and reservations are all per-team tables).
type PerTeam[V any] struct {
	phase Phase
	gen   uint64
	slots [limits.MaxTeams]slot[V]
}

// NewPerTeam allocates a PerTeam cache in the Allocated phase.
func NewPerTeam[V any]() *PerTeam[V] {
	return &PerTeam[V]{phase: Allocated}
}

// Reset bumps the generation in O(1).
func (c *PerTeam[V]) Reset() {
	c.gen++
	c.phase = Active
}

// Cleanup releases all held values and marks the cache Cleaned.
func (c *PerTeam[V]) Cleanup() {
	var zero slot[V]
	for i := range c.slots {
		c.slots[i] = zero
	}
	c.phase = Cleaned
}

func (c *PerTeam[V]) index(team int) bool {
	return team >= 0 && team < limits.MaxTeams
}

// IsValid reports whether team has a cached value for the current generation.
func (c *PerTeam[V]) IsValid(team int) bool {
	if !c.index(team) || c.phase != Active {
		return false
	}
	s := &c.slots[team]
	return s.valid && s.gen == c.gen
}

// Get returns the cached value for team and whether it is valid.
func (c *PerTeam[V]) Get(team int) (V, bool) {
	if !c.IsValid(team) {
		var zero V
		return zero, false
	}
	return c.slots[team].value, true
}

// GetOrCompute returns the cached value for team if valid, otherwise
// computes, stores under the current generation, and returns a fresh one.
func (c *PerTeam[V]) GetOrCompute(team int, compute func() V) V {
	if v, ok := c.Get(team); ok {
		return v
	}
	v := compute()
	c.Set(team, v)
	return v
}

// Set stores value for team under the current generation. Out-of-range team
// indices are silently ignored.
func (c *PerTeam[V]) Set(team int, value V) {
	if !c.index(team) {
		return
	}
	c.slots[team] = slot[V]{gen: c.gen, valid: true, value: value}
}

// Invalidate drops team's cached value without bumping the generation.
func (c *PerTeam[V]) Invalidate(team int) {
	if !c.index(team) {
		return
	}
	c.slots[team].valid = false
}

// Phase reports the cache's current lifecycle phase.
func (c *PerTeam[V]) Phase() Phase {
	return c.phase
}

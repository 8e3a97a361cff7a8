package gen

import "github.com/tribalctl/scripted-ai/limits"

// LifecycleTracker records which agent slots are currently active, so
// per-agent caches (gatherer sub-task state, build locks, patrol routes...)
// can be told apart from slots that belong to an agent who died or was never
// spawned. Mirrors the bit-array bookkeeping spec.md §3 implies for
// AgentState entries that must survive across ticks until the agent is gone.
type LifecycleTracker struct {
	activeAgents   [limits.MaxAgents]bool
	lastActiveStep [limits.MaxAgents]int
	needsCleanup   [limits.MaxAgents]bool
}

// NewLifecycleTracker returns a tracker with every slot inactive.
func NewLifecycleTracker() *LifecycleTracker {
	t := &LifecycleTracker{}
	for i := range t.lastActiveStep {
		t.lastActiveStep[i] = -1
	}
	return t
}

func valid(id int) bool {
	return id >= 0 && id < limits.MaxAgents
}

// MarkActive records that id acted this step.
func (t *LifecycleTracker) MarkActive(id int, step int) {
	if !valid(id) {
		return
	}
	t.activeAgents[id] = true
	t.lastActiveStep[id] = step
	t.needsCleanup[id] = false
}

// MarkInactive records that id no longer exists (died, or was never spawned)
// and flags its per-agent caches for cleanup on the next sweep.
func (t *LifecycleTracker) MarkInactive(id int) {
	if !valid(id) {
		return
	}
	t.activeAgents[id] = false
	t.needsCleanup[id] = true
}

// IsActive reports whether id is currently tracked as alive.
func (t *LifecycleTracker) IsActive(id int) bool {
	return valid(id) && t.activeAgents[id]
}

// LastActiveStep returns the last step id was marked active, or -1 if never.
func (t *LifecycleTracker) LastActiveStep(id int) int {
	if !valid(id) {
		return -1
	}
	return t.lastActiveStep[id]
}

// DetectStaleAgents returns every id flagged needsCleanup, and clears the
// flag for each one returned. Callers use this to drain their own per-agent
// scratch state (agentstate entries, cache slots) for agents that died.
func (t *LifecycleTracker) DetectStaleAgents() []int {
	var stale []int
	for id := 0; id < limits.MaxAgents; id++ {
		if t.needsCleanup[id] {
			stale = append(stale, id)
			t.needsCleanup[id] = false
		}
	}
	return stale
}

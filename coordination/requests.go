package coordination

import (
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// Request is one entry in a team's coordination request ring (spec.md §4.3).
type Request struct {
	Kind       worldenv.RequestKind
	Requester  worldenv.AgentID
	Pos        worldenv.Pos
	ThreatPos  worldenv.Pos
	Step       int
	Priority   worldenv.Priority
	Fulfilled  bool
}

// RequestRing is a per-team, fixed-capacity FIFO ring of outstanding
// coordination requests.
type RequestRing struct {
	entries []Request
}

// NewRequestRing allocates an empty request ring at spec capacity.
func NewRequestRing() *RequestRing {
	return &RequestRing{entries: make([]Request, 0, limits.RequestRingCapacity)}
}

// AddRequest appends a request, suppressing duplicates from the same
// (requester, kind) pair within the dedup window, and evicting the oldest
// entry (FIFO) once the ring is at capacity. Returns false if suppressed.
func (r *RequestRing) AddRequest(kind worldenv.RequestKind, requester worldenv.AgentID, pos, threatPos worldenv.Pos, step int, priority worldenv.Priority) bool {
	for _, e := range r.entries {
		if e.Requester == requester && e.Kind == kind && step-e.Step < limits.RequestDedupWindow {
			return false
		}
	}
	req := Request{Kind: kind, Requester: requester, Pos: pos, ThreatPos: threatPos, Step: step, Priority: priority}
	if len(r.entries) >= limits.RequestRingCapacity {
		r.entries = append(r.entries[1:], req)
		return true
	}
	r.entries = append(r.entries, req)
	return true
}

// ClearExpired drops fulfilled requests and those older than the expiry
// window.
func (r *RequestRing) ClearExpired(step int) {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.Fulfilled || step-e.Step >= limits.RequestExpirySteps {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
}

// FindNearestProtection scans for the highest-priority, nearest-by-Chebyshev
// unfulfilled request within the response radius of pos. Returns false if
// none qualify.
func (r *RequestRing) FindNearestProtection(pos worldenv.Pos) (Request, bool) {
	best := -1
	for i, e := range r.entries {
		if e.Fulfilled {
			continue
		}
		d := worldenv.ChebyshevDist(pos, e.Pos)
		if d > limits.RequestResponseRadius {
			continue
		}
		if best == -1 || betterCandidate(e, d, r.entries[best], worldenv.ChebyshevDist(pos, r.entries[best].Pos)) {
			best = i
		}
	}
	if best == -1 {
		return Request{}, false
	}
	return r.entries[best], true
}

func betterCandidate(a Request, distA int, b Request, distB int) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return distA < distB
}

// HasUnfulfilled reports whether any unfulfilled request of kind exists.
func (r *RequestRing) HasUnfulfilled(kind worldenv.RequestKind) bool {
	for _, e := range r.entries {
		if e.Kind == kind && !e.Fulfilled {
			return true
		}
	}
	return false
}

// MarkFulfilled marks the highest-priority unfulfilled request of kind as
// fulfilled. Returns false if none exist.
func (r *RequestRing) MarkFulfilled(kind worldenv.RequestKind) bool {
	best := -1
	for i, e := range r.entries {
		if e.Kind != kind || e.Fulfilled {
			continue
		}
		if best == -1 || e.Priority > r.entries[best].Priority {
			best = i
		}
	}
	if best == -1 {
		return false
	}
	r.entries[best].Fulfilled = true
	return true
}

// Count returns the current number of outstanding requests, for telemetry
// (spec.md §8's invariant 1: requestCount <= 16).
func (r *RequestRing) Count() int {
	return len(r.entries)
}

// RequestRings is the per-team table of RequestRing instances.
type RequestRings struct {
	byTeam map[worldenv.Team]*RequestRing
}

// NewRequestRings allocates an empty per-team table.
func NewRequestRings() *RequestRings {
	return &RequestRings{byTeam: make(map[worldenv.Team]*RequestRing)}
}

// For returns team's RequestRing, allocating one on first use.
func (t *RequestRings) For(team worldenv.Team) *RequestRing {
	r, ok := t.byTeam[team]
	if !ok {
		r = NewRequestRing()
		t.byTeam[team] = r
	}
	return r
}

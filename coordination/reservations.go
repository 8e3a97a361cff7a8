package coordination

import (
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// Reservation is one agent's claim on a grid position (spec.md §4.3), e.g.
// a gatherer's claimed resource tile or a builder's claimed build site.
type Reservation struct {
	Agent worldenv.AgentID
	Pos   worldenv.Pos
	Step  int
}

// Reservations is a per-team, fixed-capacity store enforcing one reservation
// per agent.
type Reservations struct {
	entries []Reservation
}

// NewReservations allocates an empty reservation store at spec capacity.
func NewReservations() *Reservations {
	return &Reservations{entries: make([]Reservation, 0, limits.ReservationCapacity)}
}

// Reserve claims pos for agent, succeeding only if no other agent holds it.
// Any prior reservation by the same agent is atomically dropped first, so an
// agent never holds more than one reservation. At capacity, Reserve rejects
// the new claim rather than evicting an older one (spec.md §7: reservations
// use a reject-new policy, unlike the request ring and threat map's
// oldest-wins eviction).
func (r *Reservations) Reserve(agent worldenv.AgentID, pos worldenv.Pos, step int) bool {
	held := -1
	for i, e := range r.entries {
		if e.Pos == pos && e.Agent != agent {
			return false
		}
		if e.Agent == agent {
			held = i
		}
	}
	if held == -1 && len(r.entries) >= limits.ReservationCapacity {
		return false
	}
	r.Release(agent)
	r.entries = append(r.entries, Reservation{Agent: agent, Pos: pos, Step: step})
	return true
}

// Release drops any reservation held by agent.
func (r *Reservations) Release(agent worldenv.AgentID) {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.Agent != agent {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

// IsReserved reports whether pos is held by an agent other than excludeAgent.
func (r *Reservations) IsReserved(pos worldenv.Pos, excludeAgent worldenv.AgentID) bool {
	for _, e := range r.entries {
		if e.Pos == pos && e.Agent != excludeAgent {
			return true
		}
	}
	return false
}

// ClearExpired drops reservations older than the expiry window or whose
// holder is no longer alive.
func (r *Reservations) ClearExpired(env worldenv.Environment, step int) {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if step-e.Step > limits.ReservationExpirySteps {
			continue
		}
		if !env.IsAgentAlive(e.Agent) {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
}

// Count returns the current number of held reservations, for telemetry
// (spec.md §8's invariant 2: count <= 64).
func (r *Reservations) Count() int {
	return len(r.entries)
}

// ReservationTables is the per-team table of Reservations instances.
type ReservationTables struct {
	byTeam map[worldenv.Team]*Reservations
}

// NewReservationTables allocates an empty per-team table.
func NewReservationTables() *ReservationTables {
	return &ReservationTables{byTeam: make(map[worldenv.Team]*Reservations)}
}

// For returns team's Reservations, allocating one on first use.
func (t *ReservationTables) For(team worldenv.Team) *Reservations {
	res, ok := t.byTeam[team]
	if !ok {
		res = NewReservations()
		t.byTeam[team] = res
	}
	return res
}

// Package coordination implements the team-indexed coordination bus
// spec.md §4.3 describes: a threat map, a request ring, and resource
// reservations. All three are plain slices mutated in place — the
// single-threaded, ascending-agent-id tick model (spec.md §5) means no
// locking is needed here.
package coordination

import (
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// ThreatEntry is one sighting recorded in a team's threat map.
type ThreatEntry struct {
	Pos         worldenv.Pos
	Strength    float64
	Step        int
	EnemyID     worldenv.AgentID
	IsStructure bool
}

// ThreatMap is a per-team, fixed-capacity, oldest-overwrite ring of recent
// enemy sightings (spec.md §4.3).
type ThreatMap struct {
	entries []ThreatEntry
	next    int // ring-write cursor once full
}

// NewThreatMap allocates an empty threat map at spec capacity.
func NewThreatMap() *ThreatMap {
	return &ThreatMap{entries: make([]ThreatEntry, 0, limits.ThreatMapCapacity)}
}

// ReportThreat appends a sighting, overwriting the oldest entry once the map
// is at capacity.
func (m *ThreatMap) ReportThreat(pos worldenv.Pos, strength float64, step int, enemyID worldenv.AgentID, isStructure bool) {
	e := ThreatEntry{Pos: pos, Strength: strength, Step: step, EnemyID: enemyID, IsStructure: isStructure}
	if len(m.entries) < limits.ThreatMapCapacity {
		m.entries = append(m.entries, e)
		return
	}
	m.entries[m.next] = e
	m.next = (m.next + 1) % limits.ThreatMapCapacity
}

// TotalThreatStrength sums the strength of entries within Chebyshev radius
// of pos that were seen within the recency window ending at step.
func (m *ThreatMap) TotalThreatStrength(pos worldenv.Pos, radius int, step int) float64 {
	var total float64
	for _, e := range m.entries {
		if step-e.Step > limits.ThreatRecencyWindow {
			continue
		}
		if worldenv.ChebyshevDist(pos, e.Pos) > radius {
			continue
		}
		total += e.Strength
	}
	return total
}

// UpdateFromVision pushes sightings of enemy agents and hostile structures
// within agent's vision cone into the map, and reveals fog along the way.
// threatStrength scores one sighted thing (environment-specific; callers
// typically weigh unit class / building kind).
func (m *ThreatMap) UpdateFromVision(env worldenv.Environment, agent worldenv.AgentID, step int, threatStrength func(worldenv.Pos) (float64, worldenv.AgentID, bool, bool)) {
	env.RevealVisionFrom(agent)
	for _, p := range env.VisionCone(agent) {
		strength, enemyID, isStructure, ok := threatStrength(p)
		if !ok {
			continue
		}
		m.ReportThreat(p, strength, step, enemyID, isStructure)
	}
}

// TotalStrength sums every entry's strength regardless of position or
// recency, for coarse per-team telemetry (the dashboard's threat gauge).
func (m *ThreatMap) TotalStrength() float64 {
	var total float64
	for _, e := range m.entries {
		total += e.Strength
	}
	return total
}

// Count returns the current number of retained threat entries, for
// telemetry (spec.md §8's invariant 3: at most 64 threat entries).
func (m *ThreatMap) Count() int {
	return len(m.entries)
}

// ThreatMaps is the per-team table of ThreatMap instances.
type ThreatMaps struct {
	byTeam map[worldenv.Team]*ThreatMap
}

// NewThreatMaps allocates an empty per-team table.
func NewThreatMaps() *ThreatMaps {
	return &ThreatMaps{byTeam: make(map[worldenv.Team]*ThreatMap)}
}

// For returns team's ThreatMap, allocating one on first use.
func (t *ThreatMaps) For(team worldenv.Team) *ThreatMap {
	m, ok := t.byTeam[team]
	if !ok {
		m = NewThreatMap()
		t.byTeam[team] = m
	}
	return m
}

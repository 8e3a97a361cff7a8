// Package teamcache holds the per-team, step-stamped caches spec.md §3
// assigns directly to Controller rather than to the coordination bus:
// building counts, claimed-buildings-this-step sets, population counts, the
// ally-threat cache, the damaged-building cache, per-agent fog-reveal
// bookkeeping, and the town-split/auto-bell step markers. These are plain
// step-stamped values rather than generation-counter caches because they are
// read and written by name (per kind, per agent) rather than swept in bulk.
package teamcache

import (
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// BuildingCounts caches how many of each Kind a team owns, refreshed once
// per step on first access (spec.md §3 "cached per-team building counts
// with step stamp").
type BuildingCounts struct {
	step   int
	loaded bool
	counts map[worldenv.Kind]int
	total  int
	claimed map[worldenv.Pos]bool
}

// Get returns team's count of kind, computing (and caching) all kinds for
// the current step on first use via countAll.
func (b *BuildingCounts) Get(step int, kind worldenv.Kind, countAll func() (map[worldenv.Kind]int, int)) int {
	b.ensure(step, countAll)
	return b.counts[kind]
}

// Total returns the team's total building count for the current step.
func (b *BuildingCounts) Total(step int, countAll func() (map[worldenv.Kind]int, int)) int {
	b.ensure(step, countAll)
	return b.total
}

func (b *BuildingCounts) ensure(step int, countAll func() (map[worldenv.Kind]int, int)) {
	if b.loaded && b.step == step {
		return
	}
	b.counts, b.total = countAll()
	b.step = step
	b.loaded = true
	b.claimed = make(map[worldenv.Pos]bool)
}

// Claim marks pos as claimed this step (e.g. a build target another agent is
// already walking toward), so a second agent's "first missing" scan skips
// it. Claims are cleared implicitly at the next step's ensure().
func (b *BuildingCounts) Claim(pos worldenv.Pos) {
	if b.claimed == nil {
		b.claimed = make(map[worldenv.Pos]bool)
	}
	b.claimed[pos] = true
}

// IsClaimed reports whether pos was already claimed this step.
func (b *BuildingCounts) IsClaimed(pos worldenv.Pos) bool {
	return b.claimed != nil && b.claimed[pos]
}

// Population caches a team's agent count, refreshed once per step.
type Population struct {
	step    int
	loaded  bool
	count   int
}

// Get returns team's cached population for step, computing it via count on
// first access this step.
func (p *Population) Get(step int, count func() int) int {
	if p.loaded && p.step == step {
		return p.count
	}
	p.count = count()
	p.step = step
	p.loaded = true
	return p.count
}

// allyThreatKey pairs a team with an enemy agent for the ally-threat cache.
type allyThreatKey struct {
	team worldenv.Team
	enemy worldenv.AgentID
}

// AllyThreatCache caches, per (team, enemy agent) and step, whether the
// enemy threatens any ally: -1 unknown/uncached, 0 no, 1 yes (spec.md §4.7
// "Ally-threat check").
type AllyThreatCache struct {
	step    int
	entries map[allyThreatKey]int
}

// Get returns the cached verdict for (team, enemy) this step, or -1 if
// uncached (including because the step rolled over).
func (c *AllyThreatCache) Get(step int, team worldenv.Team, enemy worldenv.AgentID) int {
	if c.entries == nil || c.step != step {
		return -1
	}
	v, ok := c.entries[allyThreatKey{team, enemy}]
	if !ok {
		return -1
	}
	return v
}

// Set stores the verdict for (team, enemy) at step, resetting the whole
// cache if step has advanced.
func (c *AllyThreatCache) Set(step int, team worldenv.Team, enemy worldenv.AgentID, threatens bool) {
	if c.entries == nil || c.step != step {
		c.entries = make(map[allyThreatKey]int)
		c.step = step
	}
	v := 0
	if threatens {
		v = 1
	}
	c.entries[allyThreatKey{team, enemy}] = v
}

// DamagedBuildings caches up to limits.DamagedBuildingCacheCap damaged
// building positions per team, refreshed once per step by scanning
// worldenv.TeamBuildingKinds (spec.md §4.6).
type DamagedBuildings struct {
	step      int
	loaded    bool
	positions []worldenv.Pos
}

// Refresh repopulates the cache for step using scan, which should iterate
// TeamBuildingKinds via things_by_kind and report damaged positions. A
// no-op if already refreshed for step.
func (d *DamagedBuildings) Refresh(step int, scan func() []worldenv.Pos) {
	if d.loaded && d.step == step {
		return
	}
	positions := scan()
	if len(positions) > limits.DamagedBuildingCacheCap {
		positions = positions[:limits.DamagedBuildingCacheCap]
	}
	d.positions = positions
	d.step = step
	d.loaded = true
}

// Nearest returns the nearest still-damaged cached position to pos, verified
// live via stillDamaged (spec.md §7: a cached lookup must re-check validity
// before being trusted).
func (d *DamagedBuildings) Nearest(pos worldenv.Pos, stillDamaged func(worldenv.Pos) bool) (worldenv.Pos, bool) {
	result, ok := worldenv.Pos{}, false
	bestDist := 0
	for _, p := range d.positions {
		if !stillDamaged(p) {
			continue
		}
		dist := worldenv.ChebyshevDist(pos, p)
		if !ok || dist < bestDist {
			result, bestDist, ok = p, dist, true
		}
	}
	return result, ok
}

// FogReveal remembers, per agent, the last position fog was revealed from
// and the step that happened, so repeated vision updates for the same agent
// at the same position within one step don't re-reveal.
type FogReveal struct {
	lastPos  [limits.MaxAgents]worldenv.Pos
	lastStep [limits.MaxAgents]int
	seen     [limits.MaxAgents]bool
}

// ShouldReveal reports whether agent has moved, the step has changed, or it
// never revealed since its last recorded reveal, and records pos/step as the
// new baseline.
func (f *FogReveal) ShouldReveal(agent worldenv.AgentID, pos worldenv.Pos, step int) bool {
	if int(agent) < 0 || int(agent) >= limits.MaxAgents {
		return true
	}
	i := int(agent)
	if f.seen[i] && f.lastPos[i] == pos && f.lastStep[i] == step {
		return false
	}
	f.lastPos[i] = pos
	f.lastStep[i] = step
	f.seen[i] = true
	return true
}

// AltarPopulation is the "separate map" spec.md §3 calls for: home-altar
// back-references on agents are weak, so an altar's settler-contributed
// population is tracked here instead, keyed directly by altar position
// (unique across teams) and adjusted explicitly on reassignment rather than
// derived by scanning agents.
type AltarPopulation struct {
	counts map[worldenv.Pos]int
}

// Get returns altar's current tracked population, 0 if never set.
func (a *AltarPopulation) Get(altar worldenv.Pos) int {
	return a.counts[altar]
}

// Add applies delta to altar's tracked population, allocating the backing
// map on first use.
func (a *AltarPopulation) Add(altar worldenv.Pos, delta int) {
	if a.counts == nil {
		a.counts = make(map[worldenv.Pos]int)
	}
	a.counts[altar] += delta
}

// TeamSteps tracks a single step marker per team, used for both town-split's
// TownSplitLastStep and the auto-bell last-check step (spec.md §3 — the
// latter has no further behavior specified in this spec beyond the field
// itself, so it is carried as plain bookkeeping for a future alarm policy).
type TeamSteps struct {
	values map[worldenv.Team]int
}

// Get returns the stored step for team, or -1 if never set.
func (t *TeamSteps) Get(team worldenv.Team) int {
	if t.values == nil {
		return -1
	}
	if v, ok := t.values[team]; ok {
		return v
	}
	return -1
}

// Set records step for team.
func (t *TeamSteps) Set(team worldenv.Team, step int) {
	if t.values == nil {
		t.values = make(map[worldenv.Team]int)
	}
	t.values[team] = step
}

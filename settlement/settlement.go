// Package settlement implements the town-split state machine spec.md §4.8
// describes: a per-team detector that periodically checks whether a team
// should found a new town, selects settlers, drives them toward a scored
// site, and founds the town once a quorum has arrived. Unlike the role
// catalogs, this runs once per team per tick rather than once per agent.
package settlement

import (
	"math/rand"

	"github.com/tribalctl/scripted-ai/agentstate"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/spatialsearch"
	"github.com/tribalctl/scripted-ai/teamcache"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// Phase names the settlement state machine's steps (spec.md §4.8).
// CheckAndTrigger does not write TeamState.Phase, which stays Stable; it
// tracks progress through PendingSiteValid instead.
type Phase int

const (
	Stable Phase = iota
	CheckCondition
	SelectSettlers
	MarkAndSetTarget
	CheckArrivals
	FoundTown
)

// TeamState is one team's settlement bookkeeping. The controller owns one
// per team, alongside its other per-team caches.
type TeamState struct {
	Phase         Phase
	LastCheckStep int
	LastSplitStep int

	PendingSite      worldenv.Pos
	PendingSiteValid bool
	PendingOrigin    worldenv.Pos
}

// NewTeamState returns a TeamState ready for its first check.
func NewTeamState() *TeamState {
	return &TeamState{LastCheckStep: -limits.TownSplitCheckInterval, LastSplitStep: -limits.TownSplitCooldownSteps}
}

// Deps bundles what CheckAndTrigger needs for one team on one tick. The
// controller supplies Villagers and StateFor because worldenv exposes no
// by-team agent enumeration of its own (only the controller tracks every
// agent id it dispatched, same rationale as behavior.Deps.CountTeamPopulation).
type Deps struct {
	Env        worldenv.Environment
	Team       worldenv.Team
	Step       int
	Rng        *rand.Rand
	Villagers  func() []worldenv.AgentID
	StateFor   func(worldenv.AgentID) *agentstate.State
	Population func() int

	// Altars is the controller-owned altar-population map (spec.md §3, §4.8
	// invariant 6): foundTown adjusts it explicitly rather than deriving
	// population from a scan, since home-altar back-references are weak.
	Altars *teamcache.AltarPopulation
}

// CheckAndTrigger advances team's settlement state machine by one interval
// tick, a no-op between TownSplitCheckInterval boundaries (spec.md §4.8).
func CheckAndTrigger(d *Deps, s *TeamState) {
	if d.Step-s.LastCheckStep < limits.TownSplitCheckInterval {
		return
	}
	s.LastCheckStep = d.Step

	if s.PendingSiteValid {
		checkArrivals(d, s)
		return
	}
	checkCondition(d, s)
}

func checkCondition(d *Deps, s *TeamState) {
	if d.Step-s.LastSplitStep < limits.TownSplitCooldownSteps {
		return
	}
	if d.Population() < limits.TownSplitPopThreshold {
		return
	}
	if d.Env.StockpileCount(d.Team, worldenv.Wood) < limits.TownSplitWoodCost {
		return
	}
	origin, ok := originAltar(d)
	if !ok {
		return
	}
	site, ok := scoreSites(d, origin)
	if !ok {
		return
	}
	selectSettlers(d, origin, site)
	s.PendingSite = site
	s.PendingOrigin = origin
	s.PendingSiteValid = true
}

// selectSettlers marks up to TownSplitSettlerCount non-settler villagers near
// origin, sorted by (isIdle DESC, distFromAltar ASC), travelling to site
// (spec.md §4.8 "Settler selection").
func selectSettlers(d *Deps, origin, site worldenv.Pos) {
	type candidate struct {
		agent worldenv.AgentID
		idle  bool
		dist  int
	}
	var pool []candidate
	for _, a := range d.Villagers() {
		st := d.StateFor(a)
		if st.IsSettler {
			continue
		}
		pool = append(pool, candidate{a, d.Env.AgentIsIdle(a), worldenv.ChebyshevDist(d.Env.AgentPos(a), origin)})
	}
	for i := 1; i < len(pool); i++ {
		j := i
		for j > 0 && less(pool[j], pool[j-1]) {
			pool[j], pool[j-1] = pool[j-1], pool[j]
			j--
		}
	}
	n := limits.TownSplitSettlerCount
	if n > len(pool) {
		n = len(pool)
	}
	for _, c := range pool[:n] {
		st := d.StateFor(c.agent)
		st.IsSettler = true
		st.SettlerTarget = site
		st.SettlerArrived = false
	}
}

func less(a, b struct {
	agent worldenv.AgentID
	idle  bool
	dist  int
}) bool {
	if a.idle != b.idle {
		return a.idle
	}
	return a.dist < b.dist
}

// checkArrivals counts settlers targeting the pending site who have arrived;
// founds the town once the quorum is met (spec.md §4.8's FoundTown step).
func checkArrivals(d *Deps, s *TeamState) {
	arrived := 0
	for _, a := range d.Villagers() {
		st := d.StateFor(a)
		if st.IsSettler && st.SettlerTarget == s.PendingSite && st.SettlerArrived {
			arrived++
		}
	}
	if arrived < limits.SettlerFoundingQuorum {
		return
	}
	foundTown(d, s)
}

// foundTown places the new altar/town center/starting resource buildings and
// reassigns every settler targeting the site (arrived or not), atomically:
// on placement failure nothing is deducted and the machine reverts to idle
// (spec.md §4.8, §7 "Settlement founding failure"). Reassignment updates
// each settler's homeAltar and applies the altar-population deltas spec.md
// §3/§8 invariant 6 requires: the new altar gains exactly the reassigned
// settler count, and the origin altar loses the same count.
func foundTown(d *Deps, s *TeamState) {
	altarPos, ok := d.Env.PlaceAltar(d.Team, s.PendingSite)
	if !ok {
		s.PendingSiteValid = false
		return
	}
	d.Env.PlaceStartingTownCenter(d.Team, altarPos)
	d.Env.PlaceStartingResourceBuildings(d.Team, altarPos)

	reassigned := 0
	for _, a := range d.Villagers() {
		st := d.StateFor(a)
		if st.IsSettler && st.SettlerTarget == s.PendingSite {
			st.IsSettler = false
			st.SettlerArrived = false
			st.SettlerTarget = worldenv.Pos{}
			st.HomeAltar = altarPos
			reassigned++
		}
	}
	if d.Altars != nil && reassigned > 0 {
		d.Altars.Add(altarPos, reassigned)
		d.Altars.Add(s.PendingOrigin, -reassigned)
	}

	d.Env.SpendStockpile(d.Team, worldenv.Wood, limits.TownSplitWoodCost)
	s.LastSplitStep = d.Step
	s.PendingSiteValid = false
}

func originAltar(d *Deps) (worldenv.Pos, bool) {
	var best worldenv.Pos
	bestPop := -1
	for _, t := range d.Env.ThingsByKind(worldenv.KindAltar) {
		if t.Team != d.Team {
			continue
		}
		pop := 0
		for _, a := range d.Villagers() {
			if worldenv.ChebyshevDist(d.Env.AgentPos(a), t.Pos) <= limits.TownSplitMinDistance {
				pop++
			}
		}
		if pop > bestPop {
			best, bestPop = t.Pos, pop
		}
	}
	return best, bestPop >= 0
}

// scoreSites implements the site-scoring rule in spec.md §4.8: an annulus
// between TownSplitMinDistance and TownSplitMaxDistance around origin,
// excluding map-edge and altar-proximity disqualifications, scored by nearby
// resource density minus distance-from-preferred penalty.
func scoreSites(d *Deps, origin worldenv.Pos) (worldenv.Pos, bool) {
	preferred := (limits.TownSplitMinDistance + limits.TownSplitMaxDistance) / 2
	bestScore := -1 << 30
	found := false
	var best worldenv.Pos

	for dx := -limits.TownSplitMaxDistance; dx <= limits.TownSplitMaxDistance; dx++ {
		for dy := -limits.TownSplitMaxDistance; dy <= limits.TownSplitMaxDistance; dy++ {
			dist := worldenv.ChebyshevDist(worldenv.Pos{}, worldenv.Pos{X: dx, Y: dy})
			if dist < limits.TownSplitMinDistance || dist > limits.TownSplitMaxDistance {
				continue
			}
			p := origin.Add(dx, dy)
			if !siteEligible(d, p, origin) {
				continue
			}
			score := siteScore(d, p) - 2*absInt(dist-preferred)
			if !found || score > bestScore {
				best, bestScore, found = p, score, true
			}
		}
	}
	return best, found
}

func siteEligible(d *Deps, p, origin worldenv.Pos) bool {
	border := limits.MapBorder + 2
	for _, probe := range []worldenv.Pos{
		p.Add(-border, 0), p.Add(border, 0), p.Add(0, -border), p.Add(0, border),
	} {
		if !d.Env.IsValidPos(probe) {
			return false
		}
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			cell := p.Add(dx, dy)
			if !d.Env.IsValidPos(cell) || !d.Env.IsEmpty(cell) || !d.Env.CanPlace(cell) {
				return false
			}
		}
	}
	for _, t := range d.Env.ThingsByKind(worldenv.KindAltar) {
		dist := worldenv.ChebyshevDist(p, t.Pos)
		if t.Team == d.Team && dist < limits.TownSplitMinDistance {
			return false
		}
		if t.Team != d.Team && t.Team != 0 && dist < limits.TownSplitMinDistance/2 {
			return false
		}
	}
	_ = origin
	return true
}

func siteScore(d *Deps, p worldenv.Pos) int {
	woodish := spatialsearch.CountWithin(p, 8, append(d.Env.ThingsByKind(worldenv.KindTree), d.Env.ThingsByKind(worldenv.KindStump)...))
	stonish := spatialsearch.CountWithin(p, 8, append(d.Env.ThingsByKind(worldenv.KindStoneVein), d.Env.ThingsByKind(worldenv.KindStalagmite)...))
	gold := spatialsearch.CountWithin(p, 8, d.Env.ThingsByKind(worldenv.KindGoldVein))
	return 2*woodish + 3*stonish + 4*gold
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

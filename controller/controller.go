// Package controller implements the top-level scripted AI (spec.md §4
// item 6): it owns per-agent AgentState, per-team caches and coordination
// tables, the pathfinding scratch, and the RNG, and on each tick dispatches
// every alive agent to its role's option catalog.
package controller

import (
	"math/rand"
	"sort"
	"time"

	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/agentstate"
	"github.com/tribalctl/scripted-ai/audit"
	"github.com/tribalctl/scripted-ai/behavior"
	"github.com/tribalctl/scripted-ai/builder"
	"github.com/tribalctl/scripted-ai/coordination"
	"github.com/tribalctl/scripted-ai/difficulty"
	"github.com/tribalctl/scripted-ai/fighter"
	"github.com/tribalctl/scripted-ai/gatherer"
	"github.com/tribalctl/scripted-ai/gen"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/option"
	"github.com/tribalctl/scripted-ai/pathfind"
	"github.com/tribalctl/scripted-ai/server/metrics"
	"github.com/tribalctl/scripted-ai/settlement"
	"github.com/tribalctl/scripted-ai/teamcache"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// HomeAltarHearts is the environment-specific "home altar's current hearts
// count" accessor the gatherer catalog needs but worldenv.Environment does
// not otherwise expose (spec.md §4.5's Hearts sub-task).
type HomeAltarHearts = gatherer.HomeAltarHearts

// perTeam bundles one team's caches, coordination state and this-tick
// roster, rebuilt at the top of every Dispatch call.
type perTeam struct {
	difficulty *difficulty.Config
	buildings  *teamcache.BuildingCounts
	population *teamcache.Population
	allyThreat *teamcache.AllyThreatCache
	damaged    *teamcache.DamagedBuildings
	settle     *settlement.TeamState

	allAgents     []worldenv.AgentID
	villagers     []worldenv.AgentID
	villagerIndex map[worldenv.AgentID]int
	builderQuota  int
}

// Controller is the per-match scripted AI driving every team's agents.
type Controller struct {
	Env      worldenv.Environment
	HeartsOf HomeAltarHearts
	Rng      *rand.Rand

	// Audit and Metrics are optional reporting companions (spec.md §6, §7,
	// §11): they observe what the controller decided and never influence a
	// decision. Both default to silent/no-op sinks so a caller that never
	// sets them pays nothing extra.
	Audit   *audit.Auditor
	Metrics metrics.Sink

	states    map[worldenv.AgentID]*agentstate.State
	lifecycle *gen.LifecycleTracker

	threats      *coordination.ThreatMaps
	requests     *coordination.RequestRings
	reservations *coordination.ReservationTables
	path         *pathfind.Cache

	teams map[worldenv.Team]*perTeam

	// altars is the controller-owned altar-population map settlement founding
	// adjusts (spec.md §3, §4.8 invariant 6). It is keyed directly by altar
	// position rather than per-team since altar positions are unique across
	// the whole match.
	altars *teamcache.AltarPopulation

	// territoryCache amortizes territoryFraction's full building scan across
	// a wall-clock window: every team's difficulty check reads it once per
	// tick, but the scan itself only needs to be fresh to within a second or
	// so (spec.md §4.1's optional time-bound cache, gen.Frame).
	territoryCache *gen.Frame[worldenv.Team, float64]
}

// New returns a Controller ready to dispatch. heartsOf supplies the
// environment-specific home-altar-hearts lookup the gatherer catalog needs.
func New(env worldenv.Environment, heartsOf HomeAltarHearts, rng *rand.Rand) *Controller {
	return &Controller{
		Env:          env,
		HeartsOf:     heartsOf,
		Rng:          rng,
		Audit:        audit.NewNop(),
		Metrics:      metrics.Noop,
		states:       make(map[worldenv.AgentID]*agentstate.State),
		lifecycle:    gen.NewLifecycleTracker(),
		threats:      coordination.NewThreatMaps(),
		requests:     coordination.NewRequestRings(),
		reservations: coordination.NewReservationTables(),
		path:           pathfind.New(),
		teams:          make(map[worldenv.Team]*perTeam),
		altars:         &teamcache.AltarPopulation{},
		territoryCache: gen.NewFrame[worldenv.Team, float64](time.Second, 10*time.Second),
	}
}

func (c *Controller) teamOf(team worldenv.Team) *perTeam {
	t, ok := c.teams[team]
	if !ok {
		t = &perTeam{
			difficulty: difficulty.New(difficulty.Normal),
			buildings:  &teamcache.BuildingCounts{},
			population: &teamcache.Population{},
			allyThreat: &teamcache.AllyThreatCache{},
			damaged:    &teamcache.DamagedBuildings{},
			settle:     settlement.NewTeamState(),
		}
		c.teams[team] = t
	}
	return t
}

// SetDifficulty overrides team's difficulty configuration (default Normal
// with adaptive escalation disabled).
func (c *Controller) SetDifficulty(team worldenv.Team, cfg *difficulty.Config) {
	c.teamOf(team).difficulty = cfg
}

func (c *Controller) stateFor(agent worldenv.AgentID) *agentstate.State {
	s, ok := c.states[agent]
	if !ok {
		s = agentstate.New()
		c.states[agent] = s
	}
	return s
}

// Dispatch runs one simulation tick over agentIDs and returns the encoded
// action for each, in the same order as agentIDs. Agents are internally
// processed in ascending id order regardless of input order, per spec.md
// §5's ordering guarantee (requests/reservations created by an
// earlier-processed agent are visible to a later one in the same tick).
func (c *Controller) Dispatch(step int, agentIDs []worldenv.AgentID) []action.Action {
	tickStart := time.Now()
	ordered := append([]worldenv.AgentID(nil), agentIDs...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	c.refreshRosters(ordered)

	for team, t := range c.teams {
		c.requests.For(team).ClearExpired(step)
		c.reservations.For(team).ClearExpired(c.Env, step)
		t.difficulty.MaybeAdapt(step, c.territoryFraction(team))
		settlement.CheckAndTrigger(&settlement.Deps{
			Env:        c.Env,
			Team:       team,
			Step:       step,
			Rng:        c.Rng,
			Villagers:  func() []worldenv.AgentID { return t.villagers },
			StateFor:   c.stateFor,
			Population: func() int { return len(t.allAgents) },
			Altars:     c.altars,
		}, t.settle)

		c.Metrics.SetRequestQueueDepth(team, c.requests.For(team).Count())
		c.Metrics.SetReservationCount(team, c.reservations.For(team).Count())
		c.Metrics.SetThreatTotal(team, c.threats.For(team).TotalStrength())
	}

	results := make([]action.Action, len(ordered))
	for i, id := range ordered {
		if !c.Env.IsAgentAlive(id) {
			c.lifecycle.MarkInactive(int(id))
			continue
		}
		c.lifecycle.MarkActive(int(id), step)

		team := c.Env.AgentTeam(id)
		t := c.teamOf(team)
		state := c.stateFor(id)

		c.reportVisibleThreats(id, team, step)

		d := &behavior.Deps{
			Env: c.Env, Agent: id, Team: team, Step: step, State: state, Rng: c.Rng,

			Threats:      c.threats.For(team),
			Requests:     c.requests.For(team),
			Reservations: c.reservations.For(team),
			Difficulty:   t.difficulty,
			Path:         c.path,

			Buildings:  t.buildings,
			Population: t.population,
			AllyThreat: t.allyThreat,
			Damaged:    t.damaged,

			CountTeamPopulation: func() int { return len(t.allAgents) },
		}

		if t.difficulty.ShouldDelay(c.Rng.Float64()) {
			results[i] = action.None
			c.Audit.RecordAction(step, id, team, "", true)
			c.Metrics.ObserveNoop(team)
			continue
		}

		act, optName := c.runAgentNamed(d, t)
		results[i] = act
		if action.IsNoop(act) {
			c.Audit.RecordNoop(step, id)
			c.Metrics.ObserveNoop(team)
		} else {
			c.Audit.RecordAction(step, id, team, optName, false)
			verb, _ := action.Decode(act)
			c.Metrics.ObserveAction(team, verb)
		}
	}

	for _, stale := range c.lifecycle.DetectStaleAgents() {
		delete(c.states, worldenv.AgentID(stale))
	}

	c.Audit.EndTick(step)
	c.Metrics.SetTickDuration(time.Since(tickStart).Seconds())

	byID := make(map[worldenv.AgentID]action.Action, len(ordered))
	for i, id := range ordered {
		byID[id] = results[i]
	}
	out := make([]action.Action, len(agentIDs))
	for i, id := range agentIDs {
		out[i] = byID[id]
	}
	return out
}

// runAgentNamed picks and runs the role catalog for one agent's current
// tick, returning both the encoded action and the name of the option that
// produced it (for the audit companion; see option.RunOptionsNamed).
// Villagers split into Gatherer/Builder by a per-team quota recomputed every
// tick from the current villager roster (spec.md §3's "role" AgentState
// field); every other unit class always runs Fighter.
func (c *Controller) runAgentNamed(d *behavior.Deps, t *perTeam) (action.Action, string) {
	class := c.Env.AgentUnitClass(d.Agent)
	if class != worldenv.ClassVillager {
		d.State.Role = agentstate.RoleFighter
		return option.RunOptionsNamed(&d.State.Run, fighter.Build(d))
	}

	if idx, ok := t.villagerIndex[d.Agent]; ok && idx < t.builderQuota {
		d.State.Role = agentstate.RoleBuilder
	} else {
		d.State.Role = agentstate.RoleGatherer
	}

	var catalog option.Catalog
	switch d.State.Role {
	case agentstate.RoleBuilder:
		if t.difficulty.ThreatResponse && d.Threats.TotalThreatStrength(d.Pos(), limits.BuilderFleeRadius, d.Step) > 0 {
			catalog = builder.BuildThreatReordered(d)
		} else {
			catalog = builder.Build(d)
		}
	default:
		catalog = gatherer.Build(d, c.HeartsOf)
	}
	return option.RunOptionsNamed(&d.State.Run, catalog)
}

// refreshRosters rebuilds each team's alive-agent and villager lists for
// this tick, and the villager-index/builder-quota split runAgentNamed reads.
func (c *Controller) refreshRosters(ids []worldenv.AgentID) {
	byTeam := make(map[worldenv.Team][]worldenv.AgentID)
	for _, id := range ids {
		if !c.Env.IsAgentAlive(id) {
			continue
		}
		team := c.Env.AgentTeam(id)
		byTeam[team] = append(byTeam[team], id)
	}
	for team, agents := range byTeam {
		t := c.teamOf(team)
		t.allAgents = agents

		var villagers []worldenv.AgentID
		for _, id := range agents {
			if c.Env.AgentUnitClass(id) == worldenv.ClassVillager {
				villagers = append(villagers, id)
			}
		}
		t.villagers = villagers
		t.villagerIndex = make(map[worldenv.AgentID]int, len(villagers))
		for i, id := range villagers {
			t.villagerIndex[id] = i
		}
		t.builderQuota = len(villagers)/6 + 1
	}
}

// reportVisibleThreats pushes sightings of enemy agents within agent's
// observation radius into its team's threat map and reveals fog along the
// way (spec.md §4.3's threat map feed, grounded on ThreatMap.UpdateFromVision
// but implemented directly here since worldenv has no pos->agent reverse
// lookup, only the spatial index's cell->agents iteration).
func (c *Controller) reportVisibleThreats(agent worldenv.AgentID, team worldenv.Team, step int) {
	c.Env.RevealVisionFrom(agent)

	pos := c.Env.AgentPos(agent)
	radius := c.Env.ObservationRadius()
	cx, cy := c.Env.CellCoords(pos)
	radiusCells := c.Env.DistToCellRadius16(radius)
	tm := c.threats.For(team)

	for dx := -radiusCells; dx <= radiusCells; dx++ {
		for dy := -radiusCells; dy <= radiusCells; dy++ {
			acx, acy := cx+dx, cy+dy
			if acx < 0 || acy < 0 || acx >= c.Env.SpatialCellsX() || acy >= c.Env.SpatialCellsY() {
				continue
			}
			for kind := worldenv.Kind(0); kind < worldenv.NumKinds; kind++ {
				for _, other := range c.Env.KindCellAgents(kind, acx, acy) {
					if c.Env.SameTeam(other, agent) || !c.Env.IsAgentAlive(other) {
						continue
					}
					opos := c.Env.AgentPos(other)
					if worldenv.ChebyshevDist(pos, opos) > radius {
						continue
					}
					tm.ReportThreat(opos, threatStrength(c.Env, other), step, other, false)
				}
			}
		}
	}
}

func threatStrength(env worldenv.Environment, agent worldenv.AgentID) float64 {
	switch env.AgentUnitClass(agent) {
	case worldenv.ClassSiege, worldenv.ClassBatteringRam, worldenv.ClassCannonGalleon, worldenv.ClassFireShip:
		return 3
	case worldenv.ClassMeleeLine, worldenv.ClassRangedLine, worldenv.ClassDemoShip:
		return 2
	default:
		return 1
	}
}

// territoryFraction estimates team's share of contested territory as its
// building count over the sum of every team's building count, feeding the
// difficulty config's adaptive escalation (spec.md §4.4). Returns 0.5
// (neutral) when no team owns any buildings yet. The scan is amortized
// through territoryCache since every team's difficulty check calls this each
// tick but the underlying building census barely moves tick to tick.
func (c *Controller) territoryFraction(team worldenv.Team) float64 {
	return c.territoryCache.GetOrCompute(time.Now(), team, func() float64 {
		own, total := 0, 0
		for _, kind := range worldenv.TeamBuildingKinds {
			for _, t := range c.Env.ThingsByKind(kind) {
				if t.Team == 0 {
					continue
				}
				total++
				if t.Team == team {
					own++
				}
			}
		}
		if total == 0 {
			return 0.5
		}
		return float64(own) / float64(total)
	})
}

// TeamSnapshot is one team's coordination/threat telemetry for a single
// tick, the unit the dashboard (server/dashboard) publishes to its
// websocket subscribers.
type TeamSnapshot struct {
	Team             worldenv.Team
	DifficultyLevel  difficulty.Level
	RequestQueue     int
	ReservationCount int
	ThreatTotal      float64
	PopulationCount  int
}

// TickSnapshot bundles every team's TeamSnapshot for one tick.
type TickSnapshot struct {
	Step  int
	Teams []TeamSnapshot
}

// Snapshot returns this tick's telemetry without mutating any controller
// state; callers typically send the result down a channel after Dispatch
// returns (the teacher's root_view.NewRootView fan-out pattern, repointed at
// controller telemetry instead of RL training telemetry).
func (c *Controller) Snapshot(step int) TickSnapshot {
	snap := TickSnapshot{Step: step}
	for team, t := range c.teams {
		snap.Teams = append(snap.Teams, TeamSnapshot{
			Team:             team,
			DifficultyLevel:  t.difficulty.Level,
			RequestQueue:     c.requests.For(team).Count(),
			ReservationCount: c.reservations.For(team).Count(),
			ThreatTotal:      c.threats.For(team).TotalStrength(),
			PopulationCount:  len(t.allAgents),
		})
	}
	sort.Slice(snap.Teams, func(i, j int) bool { return snap.Teams[i].Team < snap.Teams[j].Team })
	return snap
}

// Package behavior holds the shared per-tick, per-agent dependency bundle
// and the small set of movement/targeting helpers every role catalog
// (gatherer, builder, fighter, settlement) needs. Spec.md §9 calls for a
// single shared utilities module in place of the source's include-based
// namespace sharing; this is that module.
package behavior

import (
	"math/rand"

	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/agentstate"
	"github.com/tribalctl/scripted-ai/coordination"
	"github.com/tribalctl/scripted-ai/difficulty"
	"github.com/tribalctl/scripted-ai/pathfind"
	"github.com/tribalctl/scripted-ai/teamcache"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// Deps bundles everything an option's CanStart/ShouldTerminate/Act closures
// need to read or mutate for one agent on one tick. The controller
// constructs one Deps per agent per tick; options never hold their own
// reference to the environment or caches.
type Deps struct {
	Env    worldenv.Environment
	Agent  worldenv.AgentID
	Team   worldenv.Team
	Step   int
	State  *agentstate.State
	Rng    *rand.Rand

	Threats      *coordination.ThreatMap
	Requests     *coordination.RequestRing
	Reservations *coordination.Reservations
	Difficulty   *difficulty.Config
	Path         *pathfind.Cache

	Buildings  *teamcache.BuildingCounts
	Population *teamcache.Population
	AllyThreat *teamcache.AllyThreatCache
	Damaged    *teamcache.DamagedBuildings

	// CountTeamPopulation counts d.Team's living agents. The controller
	// supplies this closure because worldenv has no by-team enumeration of
	// its own — only the controller tracks every agent id it dispatched.
	CountTeamPopulation func() int
}

// Pos returns the agent's current position.
func (d *Deps) Pos() worldenv.Pos {
	return d.Env.AgentPos(d.Agent)
}

// HPFraction returns the agent's current HP as a fraction of max, or 1 if
// max HP is reported as zero (treated as "not applicable" rather than dead).
func (d *Deps) HPFraction() float64 {
	hp, max := d.Env.AgentHP(d.Agent)
	if max <= 0 {
		return 1
	}
	return float64(hp) / float64(max)
}

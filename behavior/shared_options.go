package behavior

import (
	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/option"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// EmergencyHeal is shared across every role catalog (§4.5 item 3, §4.6
// item 2, §4.7's EmergencyHeal): at half HP or below, an agent carrying bread
// uses it, ahead of role-specific economy work. Monasteries are not sought.
func EmergencyHeal(d *Deps) option.Def {
	canStart := func() bool {
		return d.HPFraction() <= 0.5 && d.Env.AgentHasBread(d.Agent)
	}
	return option.FromPredicate("EmergencyHeal", canStart, func() action.Action {
		if !canStart() {
			return action.None
		}
		return action.Encode(action.Use, 0)
	}, true)
}

// MarketTrade is shared across gatherer and builder catalogs (§4.5 item 5,
// §4.6 item 13): use the team's market when some resource stockpile exceeds
// 200 and the agent is within one tile of the market. No other stockpile is
// checked for scarcity.
func MarketTrade(d *Deps, nearestMarket func() (worldenv.Pos, bool)) option.Def {
	canStart := func() bool {
		if !d.Difficulty.OptimalBuildOrder {
			return false
		}
		market, ok := nearestMarket()
		if !ok {
			return false
		}
		return surplusResource(d) != -1 && worldenv.ChebyshevDist(d.Pos(), market) <= 1
	}
	return option.FromPredicate("MarketTrade", canStart, func() action.Action {
		market, ok := nearestMarket()
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), market) > 1 {
			return StepToward(d, market)
		}
		return action.Encode(action.Use, 0)
	}, true)
}

func surplusResource(d *Deps) int {
	for _, res := range []worldenv.Resource{worldenv.Food, worldenv.Wood, worldenv.Stone, worldenv.Gold} {
		if d.Env.StockpileCount(d.Team, res) > 200 {
			return int(res)
		}
	}
	return -1
}

// PlantOnFertile is shared (§4.5 item 4, §4.6 item 3): a carrying agent
// standing on fertile ground plants its cargo as a resource seed instead of
// hauling it home.
func PlantOnFertile(d *Deps, carrying func() (worldenv.Resource, bool)) option.Def {
	canStart := func() bool {
		if d.Env.Terrain(d.Pos()) != worldenv.KindFertile {
			t, ok := d.Env.Thing(d.Pos())
			if !ok || !t.Fertile {
				return false
			}
		}
		_, ok := carrying()
		return ok
	}
	return option.FromPredicate("PlantOnFertile", canStart, func() action.Action {
		if !canStart() {
			return action.None
		}
		return action.Encode(action.PlantResource, 0)
	}, true)
}

// StoreValuables is shared (§4.5 item 10, §4.6 item 13, §4.7): deposit a
// carried valuable (gold only) into the nearest friendly dropoff once
// nothing higher-priority needs doing.
func StoreValuables(d *Deps, nearestDropoff func() (worldenv.Pos, bool)) option.Def {
	canStart := func() bool {
		if !d.Env.AgentIsCarrying(d.Agent, worldenv.Gold) {
			return false
		}
		_, ok := nearestDropoff()
		return ok
	}
	return option.FromPredicate("StoreValuables", canStart, func() action.Action {
		dropoff, ok := nearestDropoff()
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), dropoff) <= 1 {
			return action.Encode(action.Put, int(worldenv.Gold))
		}
		return StepToward(d, dropoff)
	}, true)
}

// FallbackSearch is the catch-all at the bottom of every catalog (§4.5,
// §4.6, §4.7): wander outward from the agent's current position via spiral
// search when nothing else could act, so an agent is never fully idle.
func FallbackSearch(d *Deps, spiralStep func() (worldenv.Pos, bool)) option.Def {
	canStart := func() bool { return true }
	return option.FromPredicate("FallbackSearch", canStart, func() action.Action {
		target, ok := spiralStep()
		if !ok {
			return action.None
		}
		return StepToward(d, target)
	}, true)
}

// SettlerTravel drives a villager marked as a settler (spec.md §4.8) toward
// its settlement target, setting SettlerArrived once within one tile. It
// takes over ahead of ordinary economy options for as long as the commitment
// lasts; the settlement state machine clears IsSettler once the town founds
// or reassigns the target.
func SettlerTravel(d *Deps) option.Def {
	canStart := func() bool { return d.State.IsSettler }
	return option.FromPredicate("SettlerTravel", canStart, func() action.Action {
		if !d.State.IsSettler {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), d.State.SettlerTarget) <= 1 {
			d.State.SettlerArrived = true
			return action.None
		}
		d.State.SettlerArrived = false
		return StepToward(d, d.State.SettlerTarget)
	}, true)
}

// Scavenge is used by the gatherer catalog (§4.5, via
// "Scavenge (skeletons)"): attack/loot a skeleton thing within reach.
func Scavenge(d *Deps, nearestSkeleton func() (worldenv.Pos, bool)) option.Def {
	canStart := func() bool {
		pos, ok := nearestSkeleton()
		return ok && worldenv.ChebyshevDist(d.Pos(), pos) <= 8
	}
	return option.FromPredicate("Scavenge", canStart, func() action.Action {
		pos, ok := nearestSkeleton()
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), pos) <= 1 {
			return action.AttackAt(DirectionTo(d.Pos(), pos))
		}
		return StepToward(d, pos)
	}, true)
}

package gatherer

import (
	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/agentstate"
	"github.com/tribalctl/scripted-ai/behavior"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/option"
	"github.com/tribalctl/scripted-ai/spatialsearch"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// nearestOfKind returns the nearest live thing of kind to d's position,
// refreshing d.State's per-kind cache when it has gone stale (spec.md §3
// "per-kind cached thing positions with staleness step").
func nearestOfKind(d *behavior.Deps, kind worldenv.Kind, maxAge int) (worldenv.Thing, bool) {
	cache, ok := d.State.KindCaches[kind]
	if !ok || cache.Stale(d.Step, maxAge) {
		things := d.Env.ThingsByKind(kind)
		positions := make([]worldenv.Pos, 0, len(things))
		for _, t := range things {
			positions = append(positions, t.Pos)
		}
		cache = agentstate.KindCache{Positions: positions, RefreshStep: d.Step}
		d.State.KindCaches[kind] = cache
	}
	var best worldenv.Thing
	found := false
	bestD := 0
	for _, p := range cache.Positions {
		t, ok := d.Env.Thing(p)
		if !ok || t.Kind != kind {
			continue
		}
		dist := worldenv.ChebyshevDist(d.Pos(), p)
		if !found || dist < bestD {
			best, bestD, found = t, dist, true
		}
	}
	return best, found
}

func nearestDropoff(d *behavior.Deps) (worldenv.Pos, bool) {
	candidates := []worldenv.Kind{worldenv.KindTownCenter, worldenv.KindGranary, worldenv.KindAltar}
	var best worldenv.Pos
	found := false
	bestD := 0
	for _, kind := range candidates {
		for _, t := range d.Env.ThingsByKind(kind) {
			if t.Team != d.Team {
				continue
			}
			dist := worldenv.ChebyshevDist(d.Pos(), t.Pos)
			if !found || dist < bestD {
				best, bestD, found = t.Pos, dist, true
			}
		}
	}
	return best, found
}

func nearestMagma(d *behavior.Deps) (worldenv.Pos, bool) {
	t, ok := nearestOfKind(d, worldenv.KindMagma, 50)
	return t.Pos, ok
}

func nearestMarket(d *behavior.Deps) func() (worldenv.Pos, bool) {
	return func() (worldenv.Pos, bool) {
		t, ok := nearestOfKind(d, worldenv.KindMarket, 50)
		return t.Pos, ok
	}
}

func carryingAny(d *behavior.Deps) (worldenv.Resource, bool) {
	for _, res := range []worldenv.Resource{worldenv.Food, worldenv.Wood, worldenv.Stone, worldenv.Gold} {
		if d.Env.AgentIsCarrying(d.Agent, res) {
			return res, true
		}
	}
	return 0, false
}

func nearestSkeleton(d *behavior.Deps) func() (worldenv.Pos, bool) {
	return func() (worldenv.Pos, bool) {
		t, ok := nearestOfKind(d, worldenv.KindSkeleton, 40)
		return t.Pos, ok
	}
}

func spiralWander(d *behavior.Deps) func() (worldenv.Pos, bool) {
	return func() (worldenv.Pos, bool) {
		p, cursor, ok := spatialsearch.NextFromCursor(d.Pos(), 20, d.State.SpiralCursor, func(p worldenv.Pos) bool {
			return d.Env.IsValidPos(p) && d.Env.IsEmpty(p) && !d.State.VisitedRecently(p)
		})
		if ok {
			d.State.SpiralCursor = cursor
			d.State.PushRecentPosition(p)
		}
		return p, ok
	}
}

// Build returns the gatherer role's fixed priority catalog (spec.md §4.5).
// heartsOf supplies the home altar's current hearts count, an
// environment-specific concept not otherwise in the worldenv contract.
func Build(d *behavior.Deps, heartsOf HomeAltarHearts) option.Catalog {
	UpdateTask(d, heartsOf)

	resourceKindFor := func(res worldenv.Resource) worldenv.Kind {
		switch res {
		case worldenv.Wood:
			return worldenv.KindTree
		case worldenv.Stone:
			return worldenv.KindStoneVein
		case worldenv.Gold:
			return worldenv.KindGoldVein
		default:
			return worldenv.KindNone
		}
	}

	flee := option.FromPredicate("Flee", func() bool {
		return d.Threats.TotalThreatStrength(d.Pos(), limits.GathererFleeRadius, d.Step) > 0
	}, func() action.Action {
		home := d.Env.AgentHomeAltar(d.Agent)
		d.Requests.AddRequest(worldenv.Protection, d.Agent, d.Pos(), d.Pos(), d.Step, worldenv.Normal)
		return behavior.StepToward(d, home)
	}, false)

	predatorFlee := option.FromPredicate("PredatorFlee", func() bool {
		pred, ok := nearestOfKind(d, worldenv.KindSpawner, 20)
		return ok && worldenv.ChebyshevDist(d.Pos(), pred.Pos) <= 6
	}, func() action.Action {
		pred, ok := nearestOfKind(d, worldenv.KindSpawner, 20)
		if !ok {
			return action.None
		}
		home := d.Env.AgentHomeAltar(d.Agent)
		pos := d.Pos()
		bestDir := action.Direction(-1)
		bestScore := -1 << 30
		for dir, delta := range action.Deltas {
			cand := pos.Add(delta[0], delta[1])
			if !d.Env.IsValidPos(cand) || !d.Env.IsEmpty(cand) {
				continue
			}
			score := 2*worldenv.ChebyshevDist(cand, pred.Pos) - worldenv.ChebyshevDist(cand, home)
			if score > bestScore {
				bestScore, bestDir = score, action.Direction(dir)
			}
		}
		if bestDir == -1 {
			return action.None
		}
		return action.MoveTo(bestDir)
	}, false)

	heal := behavior.EmergencyHeal(d)
	settlerTravel := behavior.SettlerTravel(d)
	plant := behavior.PlantOnFertile(d, func() (worldenv.Resource, bool) { return carryingAny(d) })
	market := behavior.MarketTrade(d, nearestMarket(d))

	dropoff := option.FromPredicate("CarryingDropoff", func() bool {
		_, ok := carryingAny(d)
		return ok
	}, func() action.Action {
		res, ok := carryingAny(d)
		if !ok {
			return action.None
		}
		if d.State.GathererTask == agentstate.TaskHearts && res == worldenv.Gold {
			magma, ok := nearestMagma(d)
			if ok {
				if worldenv.ChebyshevDist(d.Pos(), magma) <= 1 {
					return action.Encode(action.Put, int(worldenv.Gold))
				}
				return behavior.StepToward(d, magma)
			}
		}
		target, ok := nearestDropoff(d)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), target) <= 1 {
			return action.Encode(action.Put, int(res))
		}
		return behavior.StepToward(d, target)
	}, true)

	hearts := option.FromPredicate("Hearts", func() bool {
		return d.State.GathererTask == agentstate.TaskHearts
	}, func() action.Action {
		if d.Env.AgentIsCarrying(d.Agent, worldenv.Gold) {
			magma, ok := nearestMagma(d)
			if ok {
				return behavior.StepToward(d, magma)
			}
		}
		gold, ok := nearestOfKind(d, worldenv.KindGoldVein, 30)
		if ok {
			if worldenv.ChebyshevDist(d.Pos(), gold.Pos) <= 1 {
				return action.Encode(action.Use, int(worldenv.Gold))
			}
			return behavior.StepToward(d, gold.Pos)
		}
		target, ok := spiralWander(d)()
		if !ok {
			return action.None
		}
		return behavior.StepToward(d, target)
	}, true)

	gatherResource := option.FromPredicate("GatherResource", func() bool {
		res, ok := resourceForTask(d.State.GathererTask)
		return ok && res != worldenv.Food
	}, func() action.Action {
		res, ok := resourceForTask(d.State.GathererTask)
		if !ok {
			return action.None
		}
		kind := resourceKindFor(res)
		if campKind, ok := worldenv.CampKindFor(res); ok {
			things := d.Env.ThingsByKind(kind)
			nearby := spatialsearch.CountWithin(d.Pos(), 4, things)
			threshold := 6
			if res == worldenv.Stone {
				threshold = 4
			}
			camps := d.Env.ThingsByKind(campKind)
			hasCampNear := spatialsearch.CountWithin(d.Pos(), 3, camps) > 0
			if nearby >= threshold && !hasCampNear {
				if d.Env.TryBuildCampThreshold(d.Agent, campKind) {
					return action.Encode(action.Build, int(campKind))
				}
			}
		}
		t, ok := nearestOfKind(d, kind, 30)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), t.Pos) <= 1 {
			return action.Encode(action.Use, int(res))
		}
		if d.Reservations.Reserve(d.Agent, t.Pos, d.Step) {
			return behavior.StepToward(d, t.Pos)
		}
		return action.None
	}, true)

	gatherFood := option.FromPredicate("GatherFood", func() bool {
		return d.State.GathererTask == agentstate.TaskFood
	}, func() action.Action {
		wheat := d.Env.ThingsByKind(worldenv.KindWheat)
		fertile := d.Env.ThingsByKind(worldenv.KindFertile)
		if spatialsearch.CountWithin(d.Pos(), 4, append(wheat, fertile...)) >= 8 {
			if d.Env.TryBuildIfMissing(d.Agent, worldenv.KindGranary) {
				return action.Encode(action.Build, int(worldenv.KindGranary))
			}
			if d.Env.TryBuildIfMissing(d.Agent, worldenv.KindMill) {
				return action.Encode(action.Build, int(worldenv.KindMill))
			}
		}
		cows := d.Env.ThingsByKind(worldenv.KindCow)
		if cow, ok := spatialsearch.NearestThing(d.Pos(), cows); ok {
			if worldenv.ChebyshevDist(d.Pos(), cow.Pos) <= 1 {
				critical := d.Env.CurrentBottleneck(d.Team) == worldenv.FoodCritical
				if cow.Healthy && !critical {
					return action.Encode(action.Use, int(worldenv.Food))
				}
				return action.AttackAt(behavior.DirectionTo(d.Pos(), cow.Pos))
			}
		}
		for _, kind := range []worldenv.Kind{worldenv.KindWheat, worldenv.KindFertile} {
			t, ok := nearestOfKind(d, kind, 20)
			if !ok {
				continue
			}
			if t.Frozen {
				continue
			}
			if d.Reservations.IsReserved(t.Pos, d.Agent) {
				continue
			}
			if worldenv.ChebyshevDist(d.Pos(), t.Pos) <= 1 {
				if kind == worldenv.KindFertile {
					return action.Encode(action.PlantResource, int(worldenv.KindWheat))
				}
				return action.Encode(action.Use, int(worldenv.Food))
			}
			if d.Reservations.Reserve(d.Agent, t.Pos, d.Step) {
				return behavior.StepToward(d, t.Pos)
			}
		}
		return action.None
	}, true)

	irrigate := option.FromPredicate("Irrigate", func() bool {
		_, ok := nearestOfKind(d, worldenv.KindFertile, 30)
		return ok && d.Env.CanAffordBuild(d.Agent, worldenv.KindMill)
	}, func() action.Action {
		t, ok := nearestOfKind(d, worldenv.KindFertile, 30)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), t.Pos) <= 1 {
			return action.Encode(action.Use, 0)
		}
		return behavior.StepToward(d, t.Pos)
	}, true)

	scavenge := behavior.Scavenge(d, nearestSkeleton(d))
	store := behavior.StoreValuables(d, func() (worldenv.Pos, bool) { return nearestDropoff(d) })
	fallback := behavior.FallbackSearch(d, spiralWander(d))

	return option.Catalog{
		flee,
		predatorFlee,
		heal,
		settlerTravel,
		plant,
		market,
		dropoff,
		hearts,
		gatherResource,
		gatherFood,
		irrigate,
		scavenge,
		store,
		fallback,
	}
}

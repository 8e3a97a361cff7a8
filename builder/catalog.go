// Package builder implements the villager construction role's option
// catalog (spec.md §4.6): core infrastructure, tech buildings, the adaptive
// wall ring, repair, and a threat-reordered variant that promotes defense
// work above economy work.
package builder

import (
	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/behavior"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/option"
	"github.com/tribalctl/scripted-ai/spatialsearch"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func carryingAny(d *behavior.Deps) (worldenv.Resource, bool) {
	for _, res := range []worldenv.Resource{worldenv.Food, worldenv.Wood, worldenv.Stone, worldenv.Gold} {
		if d.Env.AgentIsCarrying(d.Agent, res) {
			return res, true
		}
	}
	return 0, false
}

func nearestDropoff(d *behavior.Deps) (worldenv.Pos, bool) {
	var best worldenv.Pos
	found := false
	bestD := 0
	for _, kind := range []worldenv.Kind{worldenv.KindTownCenter, worldenv.KindGranary, worldenv.KindAltar} {
		for _, t := range d.Env.ThingsByKind(kind) {
			if t.Team != d.Team {
				continue
			}
			if dist := worldenv.ChebyshevDist(d.Pos(), t.Pos); !found || dist < bestD {
				best, bestD, found = t.Pos, dist, true
			}
		}
	}
	return best, found
}

func nearestMarket(d *behavior.Deps) (worldenv.Pos, bool) {
	var best worldenv.Pos
	found := false
	bestD := 0
	for _, t := range d.Env.ThingsByKind(worldenv.KindMarket) {
		if t.Team != d.Team {
			continue
		}
		if dist := worldenv.ChebyshevDist(d.Pos(), t.Pos); !found || dist < bestD {
			best, bestD, found = t.Pos, dist, true
		}
	}
	return best, found
}

func buildingCounts(d *behavior.Deps) (map[worldenv.Kind]int, int) {
	counts := make(map[worldenv.Kind]int)
	total := 0
	for _, kind := range worldenv.TeamBuildingKinds {
		for _, t := range d.Env.ThingsByKind(kind) {
			if t.Team == d.Team {
				counts[kind]++
				total++
			}
		}
	}
	return counts, total
}

func firstMissing(d *behavior.Deps, kinds []worldenv.Kind) (worldenv.Kind, bool) {
	for _, kind := range kinds {
		if d.Buildings.Get(d.Step, kind, func() (map[worldenv.Kind]int, int) { return buildingCounts(d) }) == 0 {
			return kind, true
		}
	}
	return worldenv.KindNone, false
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

func refreshDamaged(d *behavior.Deps) {
	d.Damaged.Refresh(d.Step, func() []worldenv.Pos {
		var out []worldenv.Pos
		for _, kind := range worldenv.TeamBuildingKinds {
			for _, t := range d.Env.ThingsByKind(kind) {
				if t.Team == d.Team && t.Damaged {
					out = append(out, t.Pos)
				}
			}
		}
		return out
	})
}

func stillDamaged(d *behavior.Deps) func(worldenv.Pos) bool {
	return func(p worldenv.Pos) bool {
		t, ok := d.Env.Thing(p)
		return ok && t.Damaged && t.Team == d.Team
	}
}

// commonOptions builds the pieces shared by Build and BuildThreatReordered:
// flee, heal, plant, dropoff, pop-cap house, core infra, mill, camps, repair,
// tech buildings, defense/siege response, wall ring, gather scarce, and the
// shared tail (market/trading/smelt/bread/valuables/fallback).
type commonOptions struct {
	flee, heal, plant, dropoff, popHouse          option.Def
	core, mill, campPlant, camps, repair          option.Def
	tech, defenseResponse, siegeResponse, wallRing option.Def
	gatherScarce                                  option.Def
	market, hub, smelt, craft, store, fallback    option.Def
}

func build(d *behavior.Deps) commonOptions {
	refreshDamaged(d)

	flee := option.FromPredicate("Flee", func() bool {
		return d.Threats.TotalThreatStrength(d.Pos(), limits.BuilderFleeRadius, d.Step) > 0
	}, func() action.Action {
		home := d.Env.AgentHomeAltar(d.Agent)
		return behavior.StepToward(d, home)
	}, false)

	heal := behavior.EmergencyHeal(d)
	plant := behavior.PlantOnFertile(d, func() (worldenv.Resource, bool) { return carryingAny(d) })

	dropoff := option.FromPredicate("DropOffCarrying", func() bool {
		_, ok := carryingAny(d)
		return ok
	}, func() action.Action {
		res, ok := carryingAny(d)
		if !ok {
			return action.None
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

	popHouse := option.FromPredicate("PopCapHouse", func() bool {
		return d.Env.CurrentBottleneck(d.Team) == worldenv.NoBottleneck && d.Env.CanAffordBuild(d.Agent, worldenv.KindHouse) && needsHouse(d)
	}, func() action.Action {
		if d.Env.TryBuildIfMissing(d.Agent, worldenv.KindHouse) {
			return action.Encode(action.Build, int(worldenv.KindHouse))
		}
		return action.None
	}, true)

	core := option.FromPredicate("CoreInfrastructure", func() bool {
		_, ok := firstMissing(d, worldenv.CoreInfrastructure)
		return ok
	}, func() action.Action {
		kind, ok := firstMissing(d, worldenv.CoreInfrastructure)
		if !ok {
			return action.None
		}
		if d.Env.TryBuildIfMissing(d.Agent, kind) {
			d.Buildings.Claim(d.Pos())
			return action.Encode(action.Build, int(kind))
		}
		return action.None
	}, true)

	mill := option.FromPredicate("MillNearResource", func() bool {
		wheat := d.Env.ThingsByKind(worldenv.KindWheat)
		stubble := d.Env.ThingsByKind(worldenv.KindStubble)
		fertile := d.Env.ThingsByKind(worldenv.KindFertile)
		nearby := spatialsearch.CountWithin(d.Pos(), 4, append(append(wheat, stubble...), fertile...))
		if nearby < 8 {
			return false
		}
		existing := append(d.Env.ThingsByKind(worldenv.KindMill), append(d.Env.ThingsByKind(worldenv.KindGranary), d.Env.ThingsByKind(worldenv.KindTownCenter)...)...)
		if spatialsearch.CountWithin(d.Pos(), 5, existing) > 0 {
			return false
		}
		home := d.Env.AgentHomeAltar(d.Agent)
		return worldenv.ChebyshevDist(d.Pos(), home) > 10
	}, func() action.Action {
		if d.Env.TryBuildNearResource(d.Agent, worldenv.KindMill, 4) {
			return action.Encode(action.Build, int(worldenv.KindMill))
		}
		return action.None
	}, true)

	campPlant := option.FromPredicate("PlantIfTwoMills", func() bool {
		mills := d.Env.ThingsByKind(worldenv.KindMill)
		own := 0
		for _, m := range mills {
			if m.Team == d.Team {
				own++
			}
		}
		if own < 2 {
			return false
		}
		_, ok := carryingAny(d)
		return ok
	}, func() action.Action {
		if d.Env.Terrain(d.Pos()) == worldenv.KindFertile {
			return action.Encode(action.PlantResource, int(worldenv.KindWheat))
		}
		return action.None
	}, true)

	camps := option.FromPredicate("CampThreshold", func() bool {
		return campNeeded(d) != worldenv.KindNone
	}, func() action.Action {
		kind := campNeeded(d)
		if kind == worldenv.KindNone {
			return action.None
		}
		if d.Env.TryBuildCampThreshold(d.Agent, kind) {
			return action.Encode(action.Build, int(kind))
		}
		return action.None
	}, true)

	repair := option.FromPredicate("Repair", func() bool {
		_, ok := d.Damaged.Nearest(d.Pos(), stillDamaged(d))
		return ok
	}, func() action.Action {
		pos, ok := d.Damaged.Nearest(d.Pos(), stillDamaged(d))
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), pos) <= 1 {
			return action.Encode(action.Use, 0)
		}
		return behavior.StepToward(d, pos)
	}, true)

	tech := option.FromPredicate("TechBuildings", func() bool {
		if !d.Difficulty.OptimalBuildOrder {
			return false
		}
		_, ok := firstMissing(d, worldenv.TechBuildings)
		return ok
	}, func() action.Action {
		kind, ok := firstMissing(d, worldenv.TechBuildings)
		if !ok {
			return action.None
		}
		if d.Env.TryBuildIfMissing(d.Agent, kind) {
			return action.Encode(action.Build, int(kind))
		}
		return action.None
	}, true)

	defenseResponse := option.FromPredicate("DefenseResponse", func() bool {
		return d.Difficulty.Coordination && d.Requests.HasUnfulfilled(worldenv.Defense)
	}, func() action.Action {
		req, ok := d.Requests.FindNearestProtection(d.Pos())
		if !ok || req.Kind != worldenv.Defense {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), req.ThreatPos) <= 1 {
			d.Requests.MarkFulfilled(worldenv.Defense)
			return action.Encode(action.Use, 0)
		}
		return behavior.StepToward(d, req.ThreatPos)
	}, true)

	siegeResponse := option.FromPredicate("SiegeResponse", func() bool {
		return d.Difficulty.Coordination && d.Requests.HasUnfulfilled(worldenv.SiegeBuild)
	}, func() action.Action {
		req, ok := d.Requests.FindNearestProtection(d.Pos())
		if !ok || req.Kind != worldenv.SiegeBuild {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), req.Pos) <= 1 {
			if d.Env.TryBuildIfMissing(d.Agent, worldenv.KindSiegeWorkshop) {
				d.Requests.MarkFulfilled(worldenv.SiegeBuild)
				return action.Encode(action.Build, int(worldenv.KindSiegeWorkshop))
			}
			return action.None
		}
		return behavior.StepToward(d, req.Pos)
	}, true)

	wallRing := option.FromPredicate("WallRing", func() bool {
		_, ok := wallRingCandidate(d)
		return ok
	}, func() action.Action {
		target, ok := wallRingCandidate(d)
		if !ok {
			if d.Env.TryBuildIfMissing(d.Agent, worldenv.KindLumberCamp) {
				return action.Encode(action.Build, int(worldenv.KindLumberCamp))
			}
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), target) <= 1 {
			kind := worldenv.KindWall
			if spatialsearch.IsAxisSlot(d.Env.AgentHomeAltar(d.Agent), target) && doorCount(d) < limits.WallRingMaxDoors {
				kind = worldenv.KindDoor
			}
			if d.Env.GoToAdjacentAndBuild(d.Agent, target, kind) {
				return action.Encode(action.Build, int(kind))
			}
			return action.None
		}
		return behavior.StepToward(d, target)
	}, true)

	gatherScarce := option.FromPredicate("GatherScarce", func() bool {
		return scarceResource(d) != -1
	}, func() action.Action {
		res := scarceResource(d)
		if res == -1 {
			return action.None
		}
		kind := resourceKindFor(worldenv.Resource(res))
		for _, t := range d.Env.ThingsByKind(kind) {
			if worldenv.ChebyshevDist(d.Pos(), t.Pos) <= 1 {
				return action.Encode(action.Use, res)
			}
			if d.Reservations.Reserve(d.Agent, t.Pos, d.Step) {
				return behavior.StepToward(d, t.Pos)
			}
		}
		return action.None
	}, true)

	market := behavior.MarketTrade(d, func() (worldenv.Pos, bool) { return nearestMarket(d) })
	hub := option.FromPredicate("VisitTradingHub", func() bool {
		pos, ok := nearestMarket(d)
		return ok && worldenv.ChebyshevDist(d.Pos(), pos) > 1 && d.Difficulty.OptimalBuildOrder
	}, func() action.Action {
		pos, _ := nearestMarket(d)
		return behavior.StepToward(d, pos)
	}, true)

	smelt := option.FromPredicate("SmeltGold", func() bool {
		return d.Env.AgentIsCarrying(d.Agent, worldenv.Gold)
	}, func() action.Action {
		for _, t := range d.Env.ThingsByKind(worldenv.KindMagma) {
			if worldenv.ChebyshevDist(d.Pos(), t.Pos) <= 1 {
				return action.Encode(action.Use, int(worldenv.Gold))
			}
			return behavior.StepToward(d, t.Pos)
		}
		return action.None
	}, true)

	craft := option.FromPredicate("CraftBread", func() bool {
		for _, t := range d.Env.ThingsByKind(worldenv.KindClayOven) {
			if t.Team == d.Team {
				return d.Env.StockpileCount(d.Team, worldenv.Food) > 20
			}
		}
		return false
	}, func() action.Action {
		for _, t := range d.Env.ThingsByKind(worldenv.KindClayOven) {
			if t.Team != d.Team {
				continue
			}
			if worldenv.ChebyshevDist(d.Pos(), t.Pos) <= 1 {
				return action.Encode(action.Use, int(worldenv.Food))
			}
			return behavior.StepToward(d, t.Pos)
		}
		return action.None
	}, true)

	store := behavior.StoreValuables(d, func() (worldenv.Pos, bool) { return nearestDropoff(d) })
	fallback := behavior.FallbackSearch(d, spiralWander(d))

	return commonOptions{
		flee: flee, heal: heal, plant: plant, dropoff: dropoff, popHouse: popHouse,
		core: core, mill: mill, campPlant: campPlant, camps: camps, repair: repair,
		tech: tech, defenseResponse: defenseResponse, siegeResponse: siegeResponse, wallRing: wallRing,
		gatherScarce: gatherScarce,
		market: market, hub: hub, smelt: smelt, craft: craft, store: store, fallback: fallback,
	}
}

// Build returns the builder role's normal-priority catalog (spec.md §4.6).
func Build(d *behavior.Deps) option.Catalog {
	c := build(d)
	return option.Catalog{
		c.flee, c.heal, c.plant, c.dropoff, c.popHouse,
		c.core, c.mill, c.campPlant, c.camps, c.repair,
		c.tech, c.defenseResponse, c.siegeResponse, c.wallRing,
		c.gatherScarce,
		c.market, c.hub, c.smelt, c.craft, c.store, c.fallback,
	}
}

// BuildThreatReordered returns the variant that promotes wall-ring, defense
// response, siege response and repair above core infrastructure (§4.6).
func BuildThreatReordered(d *behavior.Deps) option.Catalog {
	c := build(d)
	return option.Catalog{
		c.flee, c.heal, c.plant, c.dropoff, c.popHouse,
		c.wallRing, c.defenseResponse, c.siegeResponse, c.repair,
		c.core, c.mill, c.campPlant, c.camps,
		c.tech,
		c.gatherScarce,
		c.market, c.hub, c.smelt, c.craft, c.store, c.fallback,
	}
}

func needsHouse(d *behavior.Deps) bool {
	houses := 0
	for _, t := range d.Env.ThingsByKind(worldenv.KindHouse) {
		if t.Team == d.Team {
			houses++
		}
	}
	pop := d.Population.Get(d.Step, d.CountTeamPopulation)
	return pop >= houses*5
}

func resourceKindFor(res worldenv.Resource) worldenv.Kind {
	switch res {
	case worldenv.Wood:
		return worldenv.KindTree
	case worldenv.Stone:
		return worldenv.KindStoneVein
	case worldenv.Gold:
		return worldenv.KindGoldVein
	default:
		return worldenv.KindWheat
	}
}

func scarceResource(d *behavior.Deps) int {
	for _, res := range []worldenv.Resource{worldenv.Food, worldenv.Wood, worldenv.Stone} {
		if d.Env.StockpileCount(d.Team, res) < 5 {
			return int(res)
		}
	}
	return -1
}

func campNeeded(d *behavior.Deps) worldenv.Kind {
	thresholds := map[worldenv.Resource]struct {
		kind      worldenv.Kind
		feature   worldenv.Kind
		threshold int
	}{
		worldenv.Wood:  {worldenv.KindLumberCamp, worldenv.KindTree, 6},
		worldenv.Stone: {worldenv.KindQuarry, worldenv.KindStoneVein, 4},
		worldenv.Gold:  {worldenv.KindMiningCamp, worldenv.KindGoldVein, 6},
	}
	for _, res := range []worldenv.Resource{worldenv.Wood, worldenv.Stone, worldenv.Gold} {
		t := thresholds[res]
		features := d.Env.ThingsByKind(t.feature)
		if spatialsearch.CountWithin(d.Pos(), 4, features) < t.threshold {
			continue
		}
		camps := d.Env.ThingsByKind(t.kind)
		if spatialsearch.CountWithin(d.Pos(), 3, camps) > 0 {
			continue
		}
		return t.kind
	}
	return worldenv.KindNone
}

func wallRadius(totalBuildings int) int {
	r := limits.WallRingBaseRadius + totalBuildings/limits.WallRingBuildingsPerRadius
	if r > limits.WallRingMaxRadius {
		r = limits.WallRingMaxRadius
	}
	return r
}

func doorCount(d *behavior.Deps) int {
	n := 0
	for _, t := range d.Env.ThingsByKind(worldenv.KindDoor) {
		if t.Team == d.Team {
			n++
		}
	}
	return n
}

// wallRingCandidate scans the Chebyshev ring (and its ±slack neighbors) at
// the adaptive radius around the team's altar, picking the candidate that
// minimizes (blocked-count, then distance-to-agent) (spec.md §4.6).
func wallRingCandidate(d *behavior.Deps) (worldenv.Pos, bool) {
	if !d.Env.CanAffordBuild(d.Agent, worldenv.KindWall) {
		return worldenv.Pos{}, false
	}
	home := d.Env.AgentHomeAltar(d.Agent)
	total := d.Buildings.Total(d.Step, func() (map[worldenv.Kind]int, int) { return buildingCounts(d) })
	r := wallRadius(total)

	var best worldenv.Pos
	found := false
	bestBlocked := 1 << 30
	bestDist := 1 << 30
	for dr := -limits.WallRingRadiusSlack; dr <= limits.WallRingRadiusSlack; dr++ {
		radius := r + dr
		if radius < 1 {
			continue
		}
		for _, p := range spatialsearch.Ring(home, radius) {
			if !d.Env.IsValidPos(p) || !d.Env.CanPlace(p) {
				continue
			}
			if d.Buildings.IsClaimed(p) {
				continue
			}
			blocked := 0
			if !d.Env.IsEmpty(p) {
				blocked = 1
			}
			dist := worldenv.ChebyshevDist(d.Pos(), p)
			if !found || blocked < bestBlocked || (blocked == bestBlocked && dist < bestDist) {
				best, bestBlocked, bestDist, found = p, blocked, dist, true
			}
		}
	}
	return best, found
}

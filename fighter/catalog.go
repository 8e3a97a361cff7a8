package fighter

import (
	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/behavior"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/option"
	"github.com/tribalctl/scripted-ai/spatialsearch"
	"github.com/tribalctl/scripted-ai/worldenv"
)

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

func nearbyEnemyAgents(d *behavior.Deps, radius int) []worldenv.AgentID {
	pos := d.Pos()
	cx, cy := d.Env.CellCoords(pos)
	radiusCells := d.Env.DistToCellRadius16(radius)
	var out []worldenv.AgentID
	for dx := -radiusCells; dx <= radiusCells; dx++ {
		for dy := -radiusCells; dy <= radiusCells; dy++ {
			acx, acy := cx+dx, cy+dy
			if acx < 0 || acy < 0 || acx >= d.Env.SpatialCellsX() || acy >= d.Env.SpatialCellsY() {
				continue
			}
			for kind := worldenv.Kind(0); kind < worldenv.NumKinds; kind++ {
				for _, a := range d.Env.KindCellAgents(kind, acx, acy) {
					if d.Env.SameTeam(a, d.Agent) || !d.Env.IsAgentAlive(a) {
						continue
					}
					if worldenv.ChebyshevDist(pos, d.Env.AgentPos(a)) > radius {
						continue
					}
					out = append(out, a)
				}
			}
		}
	}
	return out
}

func nearestEnemyStructure(d *behavior.Deps, radius int) (worldenv.Pos, bool) {
	pos := d.Pos()
	found := false
	var best worldenv.Pos
	bestD := 0
	for _, kind := range worldenv.TeamBuildingKinds {
		for _, t := range d.Env.ThingsByKind(kind) {
			if t.Team == d.Team || t.Team == 0 {
				continue
			}
			if dist := worldenv.ChebyshevDist(pos, t.Pos); dist <= radius && (!found || dist < bestD) {
				best, bestD, found = t.Pos, dist, true
			}
		}
	}
	return best, found
}

func nearestKindTeam(d *behavior.Deps, kind worldenv.Kind, team worldenv.Team, radius int) (worldenv.Pos, bool) {
	found := false
	var best worldenv.Pos
	bestD := 0
	for _, t := range d.Env.ThingsByKind(kind) {
		if t.Team != team {
			continue
		}
		if dist := worldenv.ChebyshevDist(d.Pos(), t.Pos); dist <= radius && (!found || dist < bestD) {
			best, bestD, found = t.Pos, dist, true
		}
	}
	return best, found
}

func nearestMonk(d *behavior.Deps, radius int) (worldenv.AgentID, bool) {
	best := worldenv.NoAgent
	bestD := 0
	found := false
	for _, a := range nearbySameTeamAgents(d, radius) {
		if d.Env.AgentUnitClass(a) != worldenv.ClassMonk {
			continue
		}
		if dist := worldenv.ChebyshevDist(d.Pos(), d.Env.AgentPos(a)); !found || dist < bestD {
			best, bestD, found = a, dist, true
		}
	}
	return best, found
}

func nearbySameTeamAgents(d *behavior.Deps, radius int) []worldenv.AgentID {
	pos := d.Pos()
	cx, cy := d.Env.CellCoords(pos)
	radiusCells := d.Env.DistToCellRadius16(radius)
	var out []worldenv.AgentID
	for dx := -radiusCells; dx <= radiusCells; dx++ {
		for dy := -radiusCells; dy <= radiusCells; dy++ {
			acx, acy := cx+dx, cy+dy
			if acx < 0 || acy < 0 || acx >= d.Env.SpatialCellsX() || acy >= d.Env.SpatialCellsY() {
				continue
			}
			for kind := worldenv.Kind(0); kind < worldenv.NumKinds; kind++ {
				for _, a := range d.Env.KindCellAgents(kind, acx, acy) {
					if a == d.Agent || !d.Env.SameTeam(a, d.Agent) || !d.Env.IsAgentAlive(a) {
						continue
					}
					out = append(out, a)
				}
			}
		}
	}
	return out
}

// Build returns the fighter role's fixed priority catalog (spec.md §4.7).
func Build(d *behavior.Deps) option.Catalog {
	gate := StanceGate(d)
	class := d.Env.AgentUnitClass(d.Agent)

	ram := option.FromPredicate("BatteringRamAdvance", func() bool {
		if class != worldenv.ClassBatteringRam {
			return false
		}
		_, ok := nearestEnemyStructure(d, 30)
		return ok
	}, func() action.Action {
		target, ok := nearestEnemyStructure(d, 30)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), target) <= 1 {
			return action.AttackAt(behavior.DirectionTo(d.Pos(), target))
		}
		return behavior.StepToward(d, target)
	}, false)

	demoKamikaze := option.FromPredicate("DemoShipKamikaze", func() bool {
		if class != worldenv.ClassDemoShip {
			return false
		}
		enemies := nearbyEnemyAgents(d, 10)
		return len(enemies) > 0
	}, func() action.Action {
		enemies := nearbyEnemyAgents(d, 10)
		target, ok := SelectTarget(d, enemies)
		if !ok {
			return action.None
		}
		pos := d.Env.AgentPos(target)
		if worldenv.ChebyshevDist(d.Pos(), pos) <= 1 {
			return action.AttackAt(behavior.DirectionTo(d.Pos(), pos))
		}
		return behavior.StepToward(d, pos)
	}, false)

	navalRoam := option.FromPredicate("NavalPatrol", func() bool {
		switch class {
		case worldenv.ClassFishingShip, worldenv.ClassGalley, worldenv.ClassFireShip,
			worldenv.ClassCannonGalleon, worldenv.ClassTransportShip:
			return true
		default:
			return false
		}
	}, func() action.Action {
		target, ok := spiralWander(d)()
		if !ok {
			return action.None
		}
		return behavior.StepToward(d, target)
	}, true)

	breakout := option.FromPredicate("Breakout", func() bool {
		return isEnclosed(d)
	}, func() action.Action {
		target, ok := spiralWander(d)()
		if !ok {
			return action.None
		}
		return behavior.StepToward(d, target)
	}, false)

	retreat := option.FromPredicate("Retreat", func() bool {
		return d.HPFraction() <= 0.33
	}, func() action.Action {
		home := d.Env.AgentHomeAltar(d.Agent)
		return behavior.StepToward(d, home)
	}, false)

	scoutFlee := option.FromPredicate("ScoutFlee", func() bool {
		if !worldenv.ScoutUnits[class] {
			return false
		}
		return d.Threats.TotalThreatStrength(d.Pos(), limits.ScoutFleeRadius, d.Step) > 0
	}, func() action.Action {
		enemies := nearbyEnemyAgents(d, limits.ScoutFleeRadius)
		if len(enemies) == 0 {
			return action.None
		}
		target, _ := SelectTarget(d, enemies)
		d.Threats.ReportThreat(d.Env.AgentPos(target), 1, d.Step, target, false)
		return behavior.MoveAwayFrom(d, d.Env.AgentPos(target))
	}, false)

	heal := behavior.EmergencyHeal(d)

	seekHealer := option.FromPredicate("SeekHealer", func() bool {
		if d.HPFraction() > 0.33 || d.Env.AgentHasBread(d.Agent) {
			return false
		}
		_, ok := nearestMonk(d, limits.HealerSeekRadius)
		return ok
	}, func() action.Action {
		monk, ok := nearestMonk(d, limits.HealerSeekRadius)
		if !ok {
			return action.None
		}
		pos := d.Env.AgentPos(monk)
		if worldenv.ChebyshevDist(d.Pos(), pos) <= 1 {
			return action.Encode(action.Use, 0)
		}
		return behavior.StepToward(d, pos)
	}, true)

	monk := option.FromPredicate("Monk", func() bool {
		return class == worldenv.ClassMonk
	}, func() action.Action {
		if d.Env.AgentIsCarrying(d.Agent, worldenv.Gold) {
			mon, ok := nearestKindTeam(d, worldenv.KindMonastery, d.Team, 40)
			if ok {
				if worldenv.ChebyshevDist(d.Pos(), mon) <= 1 {
					return action.Encode(action.Put, 0)
				}
				return behavior.StepToward(d, mon)
			}
		}
		relics := d.Env.ThingsByKind(worldenv.KindRelic)
		if relic, ok := spatialsearch.NearestThing(d.Pos(), relics); ok {
			if worldenv.ChebyshevDist(d.Pos(), relic.Pos) <= 1 {
				return action.Encode(action.Use, 0)
			}
			return behavior.StepToward(d, relic.Pos)
		}
		target, ok := spiralWander(d)()
		if !ok {
			return action.None
		}
		return behavior.StepToward(d, target)
	}, true)

	patrol := option.FromPredicate("Patrol", func() bool {
		return d.State.Patrol.Active && len(d.State.Patrol.Points) >= 2
	}, func() action.Action {
		if gate.Chase || gate.MoveToAttack {
			if enemies := nearbyEnemyAgents(d, 6); len(enemies) > 0 {
				target, _ := SelectTarget(d, enemies)
				pos := d.Env.AgentPos(target)
				if worldenv.ChebyshevDist(d.Pos(), pos) <= 1 && gate.AutoAttack {
					return action.AttackAt(behavior.DirectionTo(d.Pos(), pos))
				}
				if gate.Chase {
					return behavior.StepToward(d, pos)
				}
			}
		}
		wp := &d.State.Patrol
		target := wp.Points[wp.Index]
		if worldenv.ChebyshevDist(d.Pos(), target) <= limits.PatrolArrivalThreshold {
			wp.Index = (wp.Index + 1) % len(wp.Points)
			target = wp.Points[wp.Index]
		}
		return behavior.StepToward(d, target)
	}, true)

	holdPosition := option.FromPredicate("HoldPosition", func() bool {
		return d.State.Hold.Active
	}, func() action.Action {
		if gate.AutoAttack {
			if enemies := nearbyEnemyAgents(d, 2); len(enemies) > 0 {
				target, _ := SelectTarget(d, enemies)
				return action.AttackAt(behavior.DirectionTo(d.Pos(), d.Env.AgentPos(target)))
			}
		}
		return action.None
	}, true)

	follow := option.FromPredicate("Follow", func() bool {
		return d.State.Follow.Active && d.Env.IsAgentAlive(d.State.Follow.FollowTarget)
	}, func() action.Action {
		target := d.Env.AgentPos(d.State.Follow.FollowTarget)
		if worldenv.ChebyshevDist(d.Pos(), target) <= 2 {
			return action.None
		}
		return behavior.StepToward(d, target)
	}, true)

	guard := option.FromPredicate("Guard", func() bool {
		return d.State.Guard.Active
	}, func() action.Action {
		if gate.Chase {
			if enemies := nearbyEnemyAgents(d, 5); len(enemies) > 0 {
				target, _ := SelectTarget(d, enemies)
				return behavior.StepToward(d, d.Env.AgentPos(target))
			}
		}
		if worldenv.ChebyshevDist(d.Pos(), d.State.Guard.GuardPos) > 1 {
			return behavior.StepToward(d, d.State.Guard.GuardPos)
		}
		return action.None
	}, true)

	dividerDefense := option.FromPredicate("DividerDefense", func() bool {
		if class != worldenv.ClassVillager {
			return false
		}
		req, ok := d.Requests.FindNearestProtection(d.Pos())
		return ok && req.Kind == worldenv.Defense
	}, func() action.Action {
		req, ok := d.Requests.FindNearestProtection(d.Pos())
		if !ok {
			return action.None
		}
		home := d.Env.AgentHomeAltar(d.Agent)
		mid := worldenv.Pos{X: (home.X + req.ThreatPos.X) / 2, Y: (home.Y + req.ThreatPos.Y) / 2}
		if worldenv.ChebyshevDist(d.Pos(), mid) <= 1 {
			if d.Env.TryBuildIfMissing(d.Agent, worldenv.KindWall) {
				return action.Encode(action.Build, int(worldenv.KindWall))
			}
			return action.None
		}
		return behavior.StepToward(d, mid)
	}, true)

	lanterns := option.FromPredicate("Lanterns", func() bool {
		return class == worldenv.ClassVillager && needsLantern(d)
	}, func() action.Action {
		return action.Encode(action.PlantLantern, 0)
	}, true)

	dropoffFood := option.FromPredicate("DropoffFood", func() bool {
		return d.Env.AgentIsCarrying(d.Agent, worldenv.Food)
	}, func() action.Action {
		target, ok := nearestKindTeam(d, worldenv.KindGranary, d.Team, 40)
		if !ok {
			target, ok = nearestKindTeam(d, worldenv.KindTownCenter, d.Team, 40)
		}
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), target) <= 1 {
			return action.Encode(action.Put, int(worldenv.Food))
		}
		return behavior.StepToward(d, target)
	}, true)

	train := option.FromPredicate("Train", func() bool {
		if class != worldenv.ClassVillager {
			return false
		}
		_, ok := firstAffordableTrainer(d)
		return ok
	}, func() action.Action {
		building, ok := firstAffordableTrainer(d)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), building) <= 1 {
			batch := 1
			if d.Env.ProductionQueueLen(building) < 3 {
				batch = 3 - d.Env.ProductionQueueLen(building)
			}
			if d.Env.TryBatchQueueTrain(building, d.Team, batch) {
				return action.Encode(action.Use, 0)
			}
			return action.None
		}
		return behavior.StepToward(d, building)
	}, true)

	becomeSiege := option.FromPredicate("BecomeSiege", func() bool {
		if class != worldenv.ClassMeleeLine {
			return false
		}
		workshop, ok := nearestKindTeam(d, worldenv.KindSiegeWorkshop, d.Team, 30)
		if !ok {
			return false
		}
		_, sawEnemy := nearestEnemyStructure(d, d.Env.ObservationRadius())
		return sawEnemy && worldenv.ChebyshevDist(d.Pos(), workshop) <= 30
	}, func() action.Action {
		workshop, ok := nearestKindTeam(d, worldenv.KindSiegeWorkshop, d.Team, 30)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), workshop) <= 1 {
			return action.Encode(action.Swap, int(worldenv.ClassSiege))
		}
		return behavior.StepToward(d, workshop)
	}, true)

	maintainGear := option.FromPredicate("MaintainGear", func() bool {
		cur, max := d.Env.AgentArmor(d.Agent)
		if max > 0 && cur < max {
			return true
		}
		return class == worldenv.ClassMeleeLine && !d.Env.AgentHasGear(d.Agent, worldenv.KindBlacksmith)
	}, func() action.Action {
		smith, ok := nearestKindTeam(d, worldenv.KindBlacksmith, d.Team, 40)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), smith) <= 1 {
			return action.Encode(action.Use, 0)
		}
		return behavior.StepToward(d, smith)
	}, true)

	kite := option.FromPredicate("Kite", func() bool {
		if !worldenv.KitingRangedUnits[class] || !gate.AutoAttack {
			return false
		}
		enemies := nearbyEnemyAgents(d, limits.KiteTriggerDistance)
		for _, e := range enemies {
			if isMeleeClass(d.Env.AgentUnitClass(e)) {
				return true
			}
		}
		return false
	}, func() action.Action {
		enemies := nearbyEnemyAgents(d, limits.KiteTriggerDistance)
		var melee []worldenv.AgentID
		for _, e := range enemies {
			if isMeleeClass(d.Env.AgentUnitClass(e)) {
				melee = append(melee, e)
			}
		}
		target, ok := SelectTarget(d, melee)
		if !ok {
			return action.None
		}
		pos := d.Env.AgentPos(target)
		if dir, ok := KiteDirection(d, pos); ok {
			return action.MoveTo(dir)
		}
		return action.AttackAt(behavior.DirectionTo(d.Pos(), pos))
	}, true)

	antiSiege := option.FromPredicate("AntiSiege", func() bool {
		enemies := nearbyEnemyAgents(d, 10)
		for _, e := range enemies {
			if isSiegeClass(d.Env.AgentUnitClass(e)) {
				return gate.Chase
			}
		}
		return false
	}, func() action.Action {
		enemies := nearbyEnemyAgents(d, 10)
		var siege []worldenv.AgentID
		for _, e := range enemies {
			if isSiegeClass(d.Env.AgentUnitClass(e)) {
				siege = append(siege, e)
			}
		}
		target, ok := SelectTarget(d, siege)
		if !ok {
			return action.None
		}
		pos := d.Env.AgentPos(target)
		if worldenv.ChebyshevDist(d.Pos(), pos) <= 1 && gate.AutoAttack {
			return action.AttackAt(behavior.DirectionTo(d.Pos(), pos))
		}
		return behavior.StepToward(d, pos)
	}, true)

	escort := option.FromPredicate("Escort", func() bool {
		return d.Difficulty.Coordination && d.Requests.HasUnfulfilled(worldenv.Protection)
	}, func() action.Action {
		req, ok := d.Requests.FindNearestProtection(d.Pos())
		if !ok || req.Kind != worldenv.Protection {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), req.Pos) <= 2 {
			d.Requests.MarkFulfilled(worldenv.Protection)
			return action.None
		}
		return behavior.StepToward(d, req.Pos)
	}, true)

	huntPredators := option.FromPredicate("HuntPredators", func() bool {
		_, ok := nearestOfKind(d, worldenv.KindSpawner)
		return ok && gate.Chase
	}, func() action.Action {
		t, ok := nearestOfKind(d, worldenv.KindSpawner)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), t.Pos) <= 1 {
			return action.AttackAt(behavior.DirectionTo(d.Pos(), t.Pos))
		}
		return behavior.StepToward(d, t.Pos)
	}, true)

	clearGoblins := option.FromPredicate("ClearGoblins", func() bool {
		_, ok := nearestOfKind(d, worldenv.KindGoblin)
		return ok && gate.Chase
	}, func() action.Action {
		t, ok := nearestOfKind(d, worldenv.KindGoblin)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), t.Pos) <= 1 {
			return action.AttackAt(behavior.DirectionTo(d.Pos(), t.Pos))
		}
		return behavior.StepToward(d, t.Pos)
	}, true)

	smelt := option.FromPredicate("SmeltGold", func() bool {
		return d.Env.AgentIsCarrying(d.Agent, worldenv.Gold)
	}, func() action.Action {
		t, ok := nearestKindTeam(d, worldenv.KindMagma, d.Team, 40)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), t) <= 1 {
			return action.Encode(action.Use, int(worldenv.Gold))
		}
		return behavior.StepToward(d, t)
	}, true)

	craftBread := option.FromPredicate("CraftBread", func() bool {
		_, ok := nearestKindTeam(d, worldenv.KindClayOven, d.Team, 10)
		return ok && d.Env.StockpileCount(d.Team, worldenv.Food) > 20
	}, func() action.Action {
		t, ok := nearestKindTeam(d, worldenv.KindClayOven, d.Team, 10)
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), t) <= 1 {
			return action.Encode(action.Use, int(worldenv.Food))
		}
		return behavior.StepToward(d, t)
	}, true)

	store := behavior.StoreValuables(d, func() (worldenv.Pos, bool) {
		return nearestKindTeam(d, worldenv.KindTownCenter, d.Team, 40)
	})

	aggressive := option.FromPredicate("Aggressive", func() bool {
		if !gate.Chase {
			return false
		}
		_, ok := nearestOfKind(d, worldenv.KindTumor)
		if ok {
			return true
		}
		_, ok = nearestOfKind(d, worldenv.KindSpawner)
		return ok
	}, func() action.Action {
		t, ok := nearestOfKind(d, worldenv.KindTumor)
		if !ok {
			t, ok = nearestOfKind(d, worldenv.KindSpawner)
		}
		if !ok {
			return action.None
		}
		if worldenv.ChebyshevDist(d.Pos(), t.Pos) <= 1 {
			return action.AttackAt(behavior.DirectionTo(d.Pos(), t.Pos))
		}
		return behavior.StepToward(d, t.Pos)
	}, true)

	attackMove := option.FromPredicate("AttackMove", func() bool {
		return d.State.AttackMove.Active && len(d.State.AttackMove.Points) > 0
	}, func() action.Action {
		if gate.Chase {
			if enemies := nearbyEnemyAgents(d, 6); len(enemies) > 0 {
				target, _ := SelectTarget(d, enemies)
				pos := d.Env.AgentPos(target)
				if worldenv.ChebyshevDist(d.Pos(), pos) <= 1 && gate.AutoAttack {
					return action.AttackAt(behavior.DirectionTo(d.Pos(), pos))
				}
				return behavior.StepToward(d, pos)
			}
		}
		wp := &d.State.AttackMove
		target := wp.Points[wp.Index]
		if worldenv.ChebyshevDist(d.Pos(), target) <= limits.PatrolArrivalThreshold {
			if wp.Index < len(wp.Points)-1 {
				wp.Index++
			} else {
				wp.Active = false
			}
			return action.None
		}
		return behavior.StepToward(d, target)
	}, true)

	// Formation never starts (its predicate is always false), so fighters
	// produce no formation movement; the entry only holds its catalog slot.
	formation := option.FromPredicate("Formation", func() bool {
		return d.State.Guard.Active == false && d.State.Hold.Active == false && false
	}, func() action.Action {
		return action.None
	}, true)

	scoutExplore := option.FromPredicate("ScoutExplore", func() bool {
		return worldenv.ScoutUnits[class]
	}, func() action.Action {
		target, ok := scoutExploreCandidate(d)
		if !ok {
			return action.None
		}
		return behavior.StepToward(d, target)
	}, true)

	fallback := behavior.FallbackSearch(d, spiralWander(d))

	return option.Catalog{
		ram, demoKamikaze, navalRoam, breakout, retreat, scoutFlee, heal, seekHealer, monk,
		patrol, holdPosition, follow, guard, dividerDefense, lanterns, dropoffFood, train,
		becomeSiege, maintainGear, kite, antiSiege, escort, huntPredators, clearGoblins,
		smelt, craftBread, store, aggressive, attackMove, formation, scoutExplore, fallback,
	}
}

func isMeleeClass(c worldenv.UnitClass) bool {
	return c == worldenv.ClassMeleeLine || c == worldenv.ClassBatteringRam
}

func nearestOfKind(d *behavior.Deps, kind worldenv.Kind) (worldenv.Thing, bool) {
	things := d.Env.ThingsByKind(kind)
	return spatialsearch.NearestThing(d.Pos(), things)
}

func isEnclosed(d *behavior.Deps) bool {
	pos := d.Pos()
	for _, delta := range action.Deltas {
		cand := pos.Add(delta[0], delta[1])
		if d.Env.IsValidPos(cand) && d.Env.IsEmpty(cand) {
			return false
		}
	}
	return true
}

func needsLantern(d *behavior.Deps) bool {
	for _, kind := range worldenv.TeamBuildingKinds {
		for _, t := range d.Env.ThingsByKind(kind) {
			if t.Team != d.Team {
				continue
			}
			if worldenv.ChebyshevDist(d.Pos(), t.Pos) > 3 {
				continue
			}
			lanterns := d.Env.ThingsByKind(worldenv.KindLantern)
			if spatialsearch.CountWithin(t.Pos, limits.LanternSpacing, lanterns) == 0 {
				return true
			}
		}
	}
	return false
}

func firstAffordableTrainer(d *behavior.Deps) (worldenv.Pos, bool) {
	candidates := []worldenv.Kind{
		worldenv.KindBarracks, worldenv.KindArcheryRange, worldenv.KindStable,
		worldenv.KindSiegeWorkshop, worldenv.KindMangonelWorkshop, worldenv.KindTownCenter,
	}
	for _, kind := range candidates {
		for _, t := range d.Env.ThingsByKind(kind) {
			if t.Team != d.Team {
				continue
			}
			if d.Env.CanAffordBuild(d.Agent, kind) {
				return t.Pos, true
			}
		}
	}
	return worldenv.Pos{}, false
}

func scoutExploreCandidate(d *behavior.Deps) (worldenv.Pos, bool) {
	radius := limits.ScoutFleeRadius + d.State.ExploreRadius
	if radius < 10 {
		radius = 10
	}
	type cand struct {
		pos   worldenv.Pos
		score float64
	}
	var best cand
	found := false
	crossedFrontier := false
	for _, p := range spatialsearch.Spiral(d.Pos(), radius) {
		if !d.Env.IsValidPos(p) || !d.Env.IsEmpty(p) {
			continue
		}
		dist := worldenv.ChebyshevDist(d.Pos(), p)
		unrevealed := 0.0
		if !d.Env.IsRevealed(d.Team, p) {
			unrevealed = 1
			if dist >= radius-2 {
				crossedFrontier = true
			}
		}
		nearbySample := sampleUnrevealedNearby(d, p)
		threat := d.Threats.TotalThreatStrength(p, 3, d.Step)
		score := 100 - float64(absInt(dist-radius))*2 - threat*20 + 50*unrevealed + 10*nearbySample
		if !found || score > best.score {
			best, found = cand{p, score}, true
		}
		if score >= limits.ScoutExploreEarlyExitScore {
			break
		}
	}
	if crossedFrontier {
		d.State.ExploreRadius += limits.ScoutExploreGrowth
	}
	if !found {
		return worldenv.Pos{}, false
	}
	return best.pos, true
}

func sampleUnrevealedNearby(d *behavior.Deps, p worldenv.Pos) float64 {
	n := 0.0
	for _, delta := range action.Deltas {
		if !d.Env.IsRevealed(d.Team, p.Add(delta[0], delta[1])) {
			n++
		}
	}
	return n / float64(len(action.Deltas))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package fighter implements the combat role's option catalog (spec.md
// §4.7): the largest catalog in the controller, covering siege, naval,
// retreat/heal, monk, patrol/formation movement, lanterns, training,
// maintenance, kiting, and the aggressive attack-move/formation tail.
package fighter

import (
	"github.com/tribalctl/scripted-ai/behavior"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// Gate reports whether stance permits chasing, moving to attack, and
// auto-attacking, per spec.md §4.7's stance table.
type Gate struct {
	Chase, MoveToAttack, AutoAttack bool
}

// StanceGate computes the permission gate for agent's current stance.
func StanceGate(d *behavior.Deps) Gate {
	switch d.Env.AgentStance(d.Agent) {
	case worldenv.Aggressive:
		return Gate{true, true, true}
	case worldenv.Defensive:
		recent := d.Step-d.Env.AgentLastAttackedStep(d.Agent) <= limits.DefensiveRetaliationWindow
		return Gate{recent, recent, recent}
	case worldenv.StandGround:
		return Gate{false, false, true}
	default: // NoAttack
		return Gate{false, false, false}
	}
}

// ThreatensAlly reports whether enemy threatens any of d.Team's agents,
// consulting the per-(team,enemy)-per-step cache before falling back to a
// spatial scan within AllyThreatRadius (spec.md §4.7).
func ThreatensAlly(d *behavior.Deps, enemy worldenv.AgentID) bool {
	if cached := d.AllyThreat.Get(d.Step, d.Team, enemy); cached != -1 {
		return cached == 1
	}
	enemyPos := d.Env.AgentPos(enemy)
	teamMask := d.Env.TeamMask(d.Team)
	threatens := false
	cx, cy := d.Env.CellCoords(enemyPos)
	radiusCells := d.Env.DistToCellRadius16(limits.AllyThreatRadius)
	for dx := -radiusCells; dx <= radiusCells && !threatens; dx++ {
		for dy := -radiusCells; dy <= radiusCells && !threatens; dy++ {
			for _, other := range allAgentsInCell(d, cx+dx, cy+dy) {
				if d.Env.AgentMask(other)&teamMask == 0 {
					continue
				}
				if worldenv.ChebyshevDist(d.Env.AgentPos(other), enemyPos) > limits.AllyThreatRadius {
					continue
				}
				threatens = true
				break
			}
		}
	}
	d.AllyThreat.Set(d.Step, d.Team, enemy, threatens)
	return threatens
}

func allAgentsInCell(d *behavior.Deps, cx, cy int) []worldenv.AgentID {
	if cx < 0 || cy < 0 || cx >= d.Env.SpatialCellsX() || cy >= d.Env.SpatialCellsY() {
		return nil
	}
	var out []worldenv.AgentID
	for kind := worldenv.Kind(0); kind < worldenv.NumKinds; kind++ {
		out = append(out, d.Env.KindCellAgents(kind, cx, cy)...)
	}
	return out
}

// scoreEnemy implements the advanced target-selection formula (§4.7).
func scoreEnemy(d *behavior.Deps, enemy worldenv.AgentID) float64 {
	pos := d.Pos()
	epos := d.Env.AgentPos(enemy)
	dist := worldenv.ChebyshevDist(pos, epos)
	score := float64(20 - min(dist, 20))

	hp, maxHP := d.Env.AgentHP(enemy)
	if maxHP > 0 {
		ratio := float64(hp) / float64(maxHP)
		switch {
		case ratio <= 0.25:
			score += 15
		case ratio <= 0.5:
			score += 10
		case ratio <= 0.75:
			score += 5
		}
	}
	if ThreatensAlly(d, enemy) {
		score += 20
	}
	score += 6 * counterDamageBonus(d, enemy)
	if isSiegeClass(d.Env.AgentUnitClass(enemy)) {
		score += 15
	}
	capHP := maxHP
	if capHP > 15 {
		capHP = 15
	}
	score += 0.67 * float64(capHP)
	return score
}

func counterDamageBonus(d *behavior.Deps, enemy worldenv.AgentID) float64 {
	self := d.Env.AgentUnitClass(d.Agent)
	other := d.Env.AgentUnitClass(enemy)
	if self == worldenv.ClassMeleeLine && other == worldenv.ClassSiege {
		return 1
	}
	if self == worldenv.ClassRangedLine && other == worldenv.ClassMeleeLine {
		return 1
	}
	return 0
}

func isSiegeClass(c worldenv.UnitClass) bool {
	return c == worldenv.ClassSiege || c == worldenv.ClassBatteringRam
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// SelectTarget picks the best enemy agent visible near pos. When advanced
// targeting is off, it picks nearest; otherwise it re-evaluates every
// TargetSwapInterval ticks (or when the cached target is gone) using
// scoreEnemy, caching the winner in d.State.
func SelectTarget(d *behavior.Deps, candidates []worldenv.AgentID) (worldenv.AgentID, bool) {
	if len(candidates) == 0 {
		return worldenv.NoAgent, false
	}
	if !d.Difficulty.AdvancedTargeting {
		best := candidates[0]
		bestD := worldenv.ChebyshevDist(d.Pos(), d.Env.AgentPos(best))
		for _, c := range candidates[1:] {
			if dist := worldenv.ChebyshevDist(d.Pos(), d.Env.AgentPos(c)); dist < bestD {
				best, bestD = c, dist
			}
		}
		return best, true
	}

	cached := d.State.CachedTargetEnemy
	stillValid := cached != worldenv.NoAgent && d.Env.IsAgentAlive(cached) && d.Env.AgentTeam(cached) != d.Team
	if stillValid {
		inRange := false
		for _, c := range candidates {
			if c == cached {
				inRange = true
				break
			}
		}
		stillValid = inRange
	}
	dueReeval := d.Step-d.State.CachedTargetStep >= limits.TargetSwapInterval
	if stillValid && !dueReeval {
		return cached, true
	}

	best := candidates[0]
	bestScore := scoreEnemy(d, best)
	for _, c := range candidates[1:] {
		if s := scoreEnemy(d, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	d.State.CachedTargetEnemy = best
	d.State.CachedTargetStep = d.Step
	return best, true
}

package behavior

import (
	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/pathfind"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// DirectionTo returns the 8-connected direction from a toward b, picking the
// delta that matches the sign of each axis of (b-a). Any nonzero offset on
// both axes yields a diagonal; a == b yields North.
func DirectionTo(a, b worldenv.Pos) action.Direction {
	dx, dy := sign(b.X-a.X), sign(b.Y-a.Y)
	for d, delta := range action.Deltas {
		if delta[0] == dx && delta[1] == dy {
			return action.Direction(d)
		}
	}
	return action.North
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Passable returns a pathfind.FindPath predicate that treats a position as
// enterable if it's empty (or a door) and not reserved by another agent.
func Passable(d *Deps) func(worldenv.Pos) bool {
	return func(p worldenv.Pos) bool {
		if !d.Env.IsValidPos(p) {
			return false
		}
		if d.Env.HasDoor(p) {
			return true
		}
		if !d.Env.IsEmpty(p) {
			return false
		}
		if d.Reservations != nil && d.Reservations.IsReserved(p, d.Agent) {
			return false
		}
		return true
	}
}

// StepToward advances the agent's planned path toward target (replanning via
// d.Path if the target changed or no plan exists) and returns a Move action
// for the next hop, or action.None if no path is found.
func StepToward(d *Deps, target worldenv.Pos) action.Action {
	ps := &d.State.Path
	if ps.Target != target || ps.Index >= len(ps.Path) {
		result := d.Path.FindPath(d.Env, d.Pos(), []pathfind.Goal{{Pos: target}}, Passable(d))
		if !result.Found {
			ps.HasBlocked = true
			ps.BlockedAt = target
			return action.None
		}
		ps.Path = result.Path
		ps.Index = 0
		ps.Target = target
		ps.HasBlocked = false
	}
	if ps.Index >= len(ps.Path) {
		return action.None
	}
	next := ps.Path[ps.Index]
	ps.Index++
	return action.MoveTo(DirectionTo(d.Pos(), next))
}

// MoveAwayFrom picks the 8-direction step from pos that maximizes distance
// from threat, preferring an enterable tile; ties favor the first direction
// scanned in action.Deltas order.
func MoveAwayFrom(d *Deps, threat worldenv.Pos) action.Action {
	pos := d.Pos()
	passable := Passable(d)
	best := action.Direction(-1)
	bestScore := -1 << 30
	for dir, delta := range action.Deltas {
		cand := pos.Add(delta[0], delta[1])
		if !passable(cand) {
			continue
		}
		score := worldenv.ChebyshevDist(cand, threat)
		if score > bestScore {
			bestScore, best = score, action.Direction(dir)
		}
	}
	if best == -1 {
		return action.None
	}
	return action.MoveTo(best)
}

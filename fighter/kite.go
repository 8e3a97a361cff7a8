package fighter

import (
	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/behavior"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// KiteDirection picks a retreat step away from threat: strictly-away first,
// then the two perpendicular strafes, accepting the first enterable
// candidate that preserves or increases distance (spec.md §4.7 "Kiting").
func KiteDirection(d *behavior.Deps, threat worldenv.Pos) (action.Direction, bool) {
	pos := d.Pos()
	curDist := worldenv.ChebyshevDist(pos, threat)
	away := behavior.DirectionTo(threat, pos)
	candidates := []action.Direction{away, perpendicular(away, true), perpendicular(away, false)}
	passable := behavior.Passable(d)
	for _, dir := range candidates {
		delta := action.Deltas[dir]
		cand := pos.Add(delta[0], delta[1])
		if !passable(cand) {
			continue
		}
		if worldenv.ChebyshevDist(cand, threat) >= curDist {
			return dir, true
		}
	}
	return 0, false
}

// perpendicular rotates d by 90 degrees (clockwise if cw, else counter-
// clockwise) through the 8-direction wheel.
func perpendicular(d action.Direction, cw bool) action.Direction {
	if cw {
		return (d + 2) % action.NumDirections
	}
	return (d + action.NumDirections - 2) % action.NumDirections
}

// Package spatialsearch holds the deterministic spiral enumeration used for
// wandering, exploration and town-site placement (GLOSSARY: "Spiral
// search"), plus the small set of Chebyshev-ring and nearest-candidate
// helpers the role catalogs share. None of this is role-specific; it is the
// utilities module spec.md §9 calls for in place of the source's
// include-based sharing.
package spatialsearch

import "github.com/tribalctl/scripted-ai/worldenv"

// Spiral enumerates grid cells outward from center in a deterministic
// square-ring order (ring 0 is center itself, ring r visits its Chebyshev
// boundary clockwise starting from its north-west corner), up to maxRadius.
// NextFromCursor takes a cursor into this fixed sequence, so repeated calls
// advance a wandering search without revisiting the same cells first.
func Spiral(center worldenv.Pos, maxRadius int) []worldenv.Pos {
	out := make([]worldenv.Pos, 0, (maxRadius*2+1)*(maxRadius*2+1))
	out = append(out, center)
	for r := 1; r <= maxRadius; r++ {
		out = append(out, ring(center, r)...)
	}
	return out
}

// ring returns the Chebyshev-r boundary cells of center, walked clockwise
// starting from the north edge.
func ring(center worldenv.Pos, r int) []worldenv.Pos {
	var out []worldenv.Pos
	// top edge, left to right
	for x := -r; x <= r; x++ {
		out = append(out, center.Add(x, r))
	}
	// right edge, top-1 to bottom+1
	for y := r - 1; y >= -r; y-- {
		out = append(out, center.Add(r, y))
	}
	// bottom edge, right-1 to left
	for x := r - 1; x >= -r; x-- {
		out = append(out, center.Add(x, -r))
	}
	// left edge, bottom+1 to top-1
	for y := -r + 1; y <= r-1; y++ {
		out = append(out, center.Add(-r, y))
	}
	return out
}

// NextFromCursor walks Spiral(center, maxRadius), skipping positions that
// fail the accept predicate, and returns the first accepted position at or
// after cursor along with the cursor value to resume from next time. It
// wraps back to the start of the sequence if the cursor runs off the end,
// so a long-lived spiral search never gets stuck once it exhausts a radius.
func NextFromCursor(center worldenv.Pos, maxRadius, cursor int, accept func(worldenv.Pos) bool) (worldenv.Pos, int, bool) {
	seq := Spiral(center, maxRadius)
	if len(seq) == 0 {
		return worldenv.Pos{}, cursor, false
	}
	for i := 0; i < len(seq); i++ {
		idx := (cursor + i) % len(seq)
		p := seq[idx]
		if accept(p) {
			return p, idx + 1, true
		}
	}
	return worldenv.Pos{}, cursor, false
}

// Ring returns the Chebyshev-r boundary of center, exported for callers
// (e.g. the builder wall-ring option) that need exactly one radius rather
// than a full spiral.
func Ring(center worldenv.Pos, r int) []worldenv.Pos {
	if r == 0 {
		return []worldenv.Pos{center}
	}
	return ring(center, r)
}

// IsAxisSlot reports whether p lies on one of center's 8 cardinal/diagonal
// axes, the "door slot" test the wall-ring option uses (spec.md §4.6).
func IsAxisSlot(center, p worldenv.Pos) bool {
	dx, dy := p.X-center.X, p.Y-center.Y
	if dx == 0 || dy == 0 {
		return true
	}
	if dx == dy || dx == -dy {
		return true
	}
	return false
}

// Nearest returns the element of candidates minimizing Chebyshev distance
// from pos, and whether candidates was non-empty.
func Nearest(pos worldenv.Pos, candidates []worldenv.Pos) (worldenv.Pos, bool) {
	if len(candidates) == 0 {
		return worldenv.Pos{}, false
	}
	best := candidates[0]
	bestD := worldenv.ChebyshevDist(pos, best)
	for _, c := range candidates[1:] {
		if d := worldenv.ChebyshevDist(pos, c); d < bestD {
			best, bestD = c, d
		}
	}
	return best, true
}

// NearestThing is Nearest specialized over Thing values, keyed by Pos.
func NearestThing(pos worldenv.Pos, things []worldenv.Thing) (worldenv.Thing, bool) {
	if len(things) == 0 {
		return worldenv.Thing{}, false
	}
	best := things[0]
	bestD := worldenv.ChebyshevDist(pos, best.Pos)
	for _, t := range things[1:] {
		if d := worldenv.ChebyshevDist(pos, t.Pos); d < bestD {
			best, bestD = t, d
		}
	}
	return best, true
}

// CountWithin counts the things within radius (inclusive) of pos among the
// given slice, a helper for the many "≥N within radius R" thresholds in
// §4.5/§4.6 (camp/mill/wall density checks).
func CountWithin(pos worldenv.Pos, radius int, things []worldenv.Thing) int {
	n := 0
	for _, t := range things {
		if worldenv.ChebyshevDist(pos, t.Pos) <= radius {
			n++
		}
	}
	return n
}

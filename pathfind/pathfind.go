// Package pathfind implements the generation-stamped A* scratch space
// spec.md §4.1 describes: rather than clearing the closed set, g-scores and
// came-from map between queries, every cell carries a stamped generation;
// a cell only counts as touched by the current search if its stamp matches.
// Reset is then a single counter bump (§8 invariant: "after reset, every
// cell's effective state is empty in O(1)").
package pathfind

import (
	"container/heap"

	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

type cellGen struct {
	gen uint64
}

type gScoreCell struct {
	gen   uint64
	score int
}

type cameFromCell struct {
	gen  uint64
	from worldenv.Pos
	has  bool
}

// Cache is one reusable A* scratch space. A single Cache instance is shared
// across a tick (and across ticks); Reset between queries is O(1).
type Cache struct {
	gen uint64

	closed   map[worldenv.Pos]cellGen
	gScore   map[worldenv.Pos]gScoreCell
	cameFrom map[worldenv.Pos]cameFromCell

	exploredCount int
}

// New allocates an empty pathfinding cache.
func New() *Cache {
	return &Cache{
		closed:   make(map[worldenv.Pos]cellGen),
		gScore:   make(map[worldenv.Pos]gScoreCell),
		cameFrom: make(map[worldenv.Pos]cameFromCell),
	}
}

// Reset bumps the generation, invalidating every prior query's scratch state
// without touching the backing maps.
func (c *Cache) Reset() {
	c.gen++
	c.exploredCount = 0
}

func (c *Cache) isClosed(p worldenv.Pos) bool {
	e, ok := c.closed[p]
	return ok && e.gen == c.gen
}

func (c *Cache) markClosed(p worldenv.Pos) {
	c.closed[p] = cellGen{gen: c.gen}
}

func (c *Cache) gScoreOf(p worldenv.Pos) (int, bool) {
	e, ok := c.gScore[p]
	if !ok || e.gen != c.gen {
		return 0, false
	}
	return e.score, true
}

func (c *Cache) setGScore(p worldenv.Pos, score int) {
	c.gScore[p] = gScoreCell{gen: c.gen, score: score}
}

func (c *Cache) setCameFrom(p, from worldenv.Pos) {
	c.cameFrom[p] = cameFromCell{gen: c.gen, from: from, has: true}
}

func (c *Cache) cameFromOf(p worldenv.Pos) (worldenv.Pos, bool) {
	e, ok := c.cameFrom[p]
	if !ok || e.gen != c.gen || !e.has {
		return worldenv.Pos{}, false
	}
	return e.from, true
}

// heapNode is one entry of the open set's binary min-heap, ordered by
// fScore. Tie-break is arbitrary (insertion order), per spec.md §4.1.
type heapNode struct {
	pos    worldenv.Pos
	fScore int
}

type openHeap []heapNode

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].fScore < h[j].fScore }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x interface{}) { *h = append(*h, x.(heapNode)) }
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// Goal is one candidate destination in a multi-goal query.
type Goal struct {
	Pos worldenv.Pos
}

// Result is a completed search: the reconstructed path (excluding the start
// cell, including the reached goal) and which goal was reached.
type Result struct {
	Path     []worldenv.Pos
	Reached  worldenv.Pos
	Found    bool
	Explored int
}

// FindPath runs A* from start toward the nearest of goals (capped at
// limits.PathMaxGoals), using env's terrain/occupancy to test passability.
// The search stops once it has explored limits.PathHeapCapacity nodes, or
// reconstructs at most limits.PathMaxLen cells of path.
func (c *Cache) FindPath(env worldenv.Environment, start worldenv.Pos, goals []Goal, passable func(worldenv.Pos) bool) Result {
	c.Reset()

	if len(goals) == 0 {
		return Result{}
	}
	if len(goals) > limits.PathMaxGoals {
		goals = goals[:limits.PathMaxGoals]
	}
	goalSet := make(map[worldenv.Pos]bool, len(goals))
	for _, g := range goals {
		goalSet[g.Pos] = true
	}

	heuristic := func(p worldenv.Pos) int {
		best := -1
		for _, g := range goals {
			d := worldenv.ChebyshevDist(p, g.Pos)
			if best == -1 || d < best {
				best = d
			}
		}
		return best
	}

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, heapNode{pos: start, fScore: heuristic(start)})
	c.setGScore(start, 0)

	for open.Len() > 0 && c.exploredCount < limits.PathHeapCapacity {
		cur := heap.Pop(open).(heapNode)
		if c.isClosed(cur.pos) {
			continue
		}
		c.markClosed(cur.pos)
		c.exploredCount++

		if goalSet[cur.pos] {
			return Result{
				Path:     c.reconstruct(cur.pos),
				Reached:  cur.pos,
				Found:    true,
				Explored: c.exploredCount,
			}
		}

		curG, _ := c.gScoreOf(cur.pos)
		for _, d := range neighborDeltas {
			next := cur.pos.Add(d[0], d[1])
			if !env.IsValidPos(next) || c.isClosed(next) {
				continue
			}
			if !goalSet[next] && !passable(next) {
				continue
			}
			tentative := curG + 1
			if existing, ok := c.gScoreOf(next); ok && existing <= tentative {
				continue
			}
			c.setGScore(next, tentative)
			c.setCameFrom(next, cur.pos)
			heap.Push(open, heapNode{pos: next, fScore: tentative + heuristic(next)})
		}
	}

	return Result{Explored: c.exploredCount}
}

func (c *Cache) reconstruct(goal worldenv.Pos) []worldenv.Pos {
	path := make([]worldenv.Pos, 0, limits.PathMaxLen)
	cur := goal
	for len(path) < limits.PathMaxLen {
		prev, ok := c.cameFromOf(cur)
		if !ok {
			break
		}
		path = append(path, cur)
		cur = prev
	}
	// reverse into start->goal order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

var neighborDeltas = [8][2]int{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

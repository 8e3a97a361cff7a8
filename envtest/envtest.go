// Package envtest provides a small in-memory worldenv.Environment fixture
// for this module's own tests. It is not a simulator: it holds just enough
// state (a terrain grid, a handful of things, and per-agent fields) for
// option/catalog/controller tests to drive real decisions against.
//
// Grid construction follows the teacher's Convert idiom (tabular/grid_world):
// build the grid from a slice of same-length strings, reading bottom row
// first so (0,0) is the bottom-left corner and +y is "up".
package envtest

import (
	"github.com/tribalctl/scripted-ai/worldenv"
)

// Env is a mutable fixture environment. Tests construct one with New,
// populate it with helper setters, and pass it to the code under test as a
// worldenv.Environment.
type Env struct {
	width, height int
	terrain       [][]worldenv.Kind
	things        map[worldenv.Pos]worldenv.Thing

	agents map[worldenv.AgentID]*agentFixture

	revealed map[worldenv.Team]map[worldenv.Pos]bool

	stockpiles map[worldenv.Team]map[worldenv.Resource]int
	flows      map[worldenv.Team]worldenv.ResourceFlow
	bottleneck map[worldenv.Team]worldenv.Bottleneck

	queueLen map[worldenv.Pos]int

	step, maxSteps int
	obsRadius      int
}

type agentFixture struct {
	alive      bool
	pos        worldenv.Pos
	hp, maxHP  int
	team       worldenv.Team
	stance     worldenv.Stance
	class      worldenv.UnitClass
	lastAttack int
	homeAltar  worldenv.Pos
	isSettler  bool
	settleAt   worldenv.Pos
	arrived    bool
	inventory  map[worldenv.Resource]int
	idle       bool
	gear       map[worldenv.Kind]bool
	armor      [2]int
	bread      bool
}

// New builds an Env from a layout of equal-length rows, read bottom-to-top
// so increasing y is "up" (matching the teacher's Convert). charKinds maps
// a layout rune to the Kind it should place as terrain; runes absent from
// charKinds are treated as KindNone (open ground).
func New(layout []string, charKinds map[rune]worldenv.Kind) *Env {
	height := len(layout)
	width := 0
	if height > 0 {
		width = len(layout[0])
	}

	e := &Env{
		width:      width,
		height:     height,
		terrain:    make([][]worldenv.Kind, width),
		things:     make(map[worldenv.Pos]worldenv.Thing),
		agents:     make(map[worldenv.AgentID]*agentFixture),
		revealed:   make(map[worldenv.Team]map[worldenv.Pos]bool),
		stockpiles: make(map[worldenv.Team]map[worldenv.Resource]int),
		flows:      make(map[worldenv.Team]worldenv.ResourceFlow),
		bottleneck: make(map[worldenv.Team]worldenv.Bottleneck),
		queueLen:   make(map[worldenv.Pos]int),
		maxSteps:   1000,
		obsRadius:  6,
	}
	for x := 0; x < width; x++ {
		e.terrain[x] = make([]worldenv.Kind, height)
	}
	for y := 0; y < height; y++ {
		row := layout[height-y-1]
		for x := 0; x < width && x < len(row); x++ {
			if kind, ok := charKinds[rune(row[x])]; ok {
				e.terrain[x][y] = kind
			}
		}
	}
	return e
}

// SetStep sets the current/max step counters.
func (e *Env) SetStep(step, maxSteps int) {
	e.step = step
	e.maxSteps = maxSteps
}

// PlaceThing records a thing at its own Pos, overwriting anything there.
func (e *Env) PlaceThing(t worldenv.Thing) {
	e.things[t.Pos] = t
}

// SetStockpile sets team's stockpile count for res.
func (e *Env) SetStockpile(team worldenv.Team, res worldenv.Resource, amount int) {
	if e.stockpiles[team] == nil {
		e.stockpiles[team] = make(map[worldenv.Resource]int)
	}
	e.stockpiles[team][res] = amount
}

// SetFlow sets team's resource flow vector.
func (e *Env) SetFlow(team worldenv.Team, flow worldenv.ResourceFlow) {
	e.flows[team] = flow
}

// SetBottleneck sets team's current bottleneck.
func (e *Env) SetBottleneck(team worldenv.Team, b worldenv.Bottleneck) {
	e.bottleneck[team] = b
}

// SpawnAgent registers a new living agent.
func (e *Env) SpawnAgent(id worldenv.AgentID, team worldenv.Team, pos worldenv.Pos, class worldenv.UnitClass, hp int) {
	e.agents[id] = &agentFixture{
		alive: true, pos: pos, team: team, class: class,
		hp: hp, maxHP: hp, inventory: make(map[worldenv.Resource]int),
		gear: make(map[worldenv.Kind]bool), armor: [2]int{hp, hp},
	}
}

// Kill marks id as dead.
func (e *Env) Kill(id worldenv.AgentID) {
	if a, ok := e.agents[id]; ok {
		a.alive = false
	}
}

// SetAgentPos moves id.
func (e *Env) SetAgentPos(id worldenv.AgentID, pos worldenv.Pos) {
	if a, ok := e.agents[id]; ok {
		a.pos = pos
	}
}

// SetInventory sets id's carried amount of res.
func (e *Env) SetInventory(id worldenv.AgentID, res worldenv.Resource, amount int) {
	if a, ok := e.agents[id]; ok {
		a.inventory[res] = amount
	}
}

// --- worldenv.Environment implementation ---

func (e *Env) Terrain(p worldenv.Pos) worldenv.Kind {
	if !e.IsValidPos(p) {
		return worldenv.KindNone
	}
	return e.terrain[p.X][p.Y]
}

func (e *Env) Thing(p worldenv.Pos) (worldenv.Thing, bool) {
	t, ok := e.things[p]
	return t, ok
}

func (e *Env) BackgroundThing(p worldenv.Pos) (worldenv.Thing, bool) {
	return worldenv.Thing{}, false
}

func (e *Env) IsEmpty(p worldenv.Pos) bool {
	if !e.IsValidPos(p) {
		return false
	}
	if e.terrain[p.X][p.Y] != worldenv.KindNone {
		return false
	}
	if _, occupied := e.things[p]; occupied {
		return false
	}
	for _, a := range e.agents {
		if a.alive && a.pos == p {
			return false
		}
	}
	return true
}

func (e *Env) HasDoor(p worldenv.Pos) bool {
	t, ok := e.things[p]
	return ok && t.Kind == worldenv.KindDoor
}

func (e *Env) CanPlace(p worldenv.Pos) bool {
	return e.IsEmpty(p)
}

func (e *Env) IsValidPos(p worldenv.Pos) bool {
	return p.X >= 0 && p.X < e.width && p.Y >= 0 && p.Y < e.height
}

func (e *Env) IsRevealed(team worldenv.Team, p worldenv.Pos) bool {
	m := e.revealed[team]
	return m != nil && m[p]
}

func (e *Env) ThingsByKind(kind worldenv.Kind) []worldenv.Thing {
	var out []worldenv.Thing
	for _, t := range e.things {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

func (e *Env) CellCoords(p worldenv.Pos) (int, int) {
	return p.X / 16, p.Y / 16
}

func (e *Env) SpatialCellsX() int { return e.width/16 + 1 }
func (e *Env) SpatialCellsY() int { return e.height/16 + 1 }
func (e *Env) SpatialCellSize() int { return 16 }

func (e *Env) KindCellAgents(kind worldenv.Kind, cx, cy int) []worldenv.AgentID {
	var out []worldenv.AgentID
	for id, a := range e.agents {
		if !a.alive || a.class != kind2class(kind) {
			continue
		}
		acx, acy := e.CellCoords(a.pos)
		if acx == cx && acy == cy {
			out = append(out, id)
		}
	}
	return out
}

// kind2class is a test-only bridge: envtest never models unit-kind things,
// so KindCellAgents always reports no matches via this sentinel.
func kind2class(worldenv.Kind) worldenv.UnitClass { return worldenv.UnitClass(-1) }

func (e *Env) DistToCellRadius16(dist int) int {
	return (dist + 15) / 16
}

func (e *Env) IsAgentAlive(id worldenv.AgentID) bool {
	a, ok := e.agents[id]
	return ok && a.alive
}

func (e *Env) AgentPos(id worldenv.AgentID) worldenv.Pos {
	if a, ok := e.agents[id]; ok {
		return a.pos
	}
	return worldenv.Pos{}
}

func (e *Env) AgentHP(id worldenv.AgentID) (int, int) {
	if a, ok := e.agents[id]; ok {
		return a.hp, a.maxHP
	}
	return 0, 0
}

func (e *Env) AgentTeam(id worldenv.AgentID) worldenv.Team {
	if a, ok := e.agents[id]; ok {
		return a.team
	}
	return 0
}

func (e *Env) TeamMask(team worldenv.Team) uint64 {
	var mask uint64
	for id, a := range e.agents {
		if a.alive && a.team == team && id >= 0 && id < 64 {
			mask |= 1 << uint(id)
		}
	}
	return mask
}

func (e *Env) AgentMask(id worldenv.AgentID) uint64 {
	if id < 0 || id >= 64 {
		return 0
	}
	return 1 << uint(id)
}

func (e *Env) SameTeam(a, b worldenv.AgentID) bool {
	return e.AgentTeam(a) == e.AgentTeam(b)
}

func (e *Env) AgentStance(id worldenv.AgentID) worldenv.Stance {
	if a, ok := e.agents[id]; ok {
		return a.stance
	}
	return worldenv.Aggressive
}

func (e *Env) AgentLastAttackedStep(id worldenv.AgentID) int {
	if a, ok := e.agents[id]; ok {
		return a.lastAttack
	}
	return -1
}

func (e *Env) AgentUnitClass(id worldenv.AgentID) worldenv.UnitClass {
	if a, ok := e.agents[id]; ok {
		return a.class
	}
	return worldenv.ClassVillager
}

func (e *Env) AgentHomeAltar(id worldenv.AgentID) worldenv.Pos {
	if a, ok := e.agents[id]; ok {
		return a.homeAltar
	}
	return worldenv.Pos{}
}

func (e *Env) AgentIsSettler(id worldenv.AgentID) bool {
	a, ok := e.agents[id]
	return ok && a.isSettler
}

func (e *Env) AgentSettlerTarget(id worldenv.AgentID) worldenv.Pos {
	if a, ok := e.agents[id]; ok {
		return a.settleAt
	}
	return worldenv.Pos{}
}

func (e *Env) AgentSettlerArrived(id worldenv.AgentID) bool {
	a, ok := e.agents[id]
	return ok && a.arrived
}

func (e *Env) AgentInventory(id worldenv.AgentID, res worldenv.Resource) int {
	if a, ok := e.agents[id]; ok {
		return a.inventory[res]
	}
	return 0
}

func (e *Env) AgentIsCarrying(id worldenv.AgentID, res worldenv.Resource) bool {
	return e.AgentInventory(id, res) > 0
}

func (e *Env) AgentIsIdle(id worldenv.AgentID) bool {
	a, ok := e.agents[id]
	return ok && a.idle
}

func (e *Env) AgentHasGear(id worldenv.AgentID, kind worldenv.Kind) bool {
	a, ok := e.agents[id]
	return ok && a.gear[kind]
}

func (e *Env) AgentArmor(id worldenv.AgentID) (int, int) {
	if a, ok := e.agents[id]; ok {
		return a.armor[0], a.armor[1]
	}
	return 0, 0
}

func (e *Env) AgentHasBread(id worldenv.AgentID) bool {
	a, ok := e.agents[id]
	return ok && a.bread
}

func (e *Env) StockpileCount(team worldenv.Team, res worldenv.Resource) int {
	return e.stockpiles[team][res]
}

func (e *Env) CanSpendStockpile(team worldenv.Team, costs worldenv.Costs) bool {
	for res, amount := range costs {
		if e.stockpiles[team][res] < amount {
			return false
		}
	}
	return true
}

func (e *Env) CanAffordBuild(id worldenv.AgentID, kind worldenv.Kind) bool {
	return true
}

func (e *Env) FlowRate(team worldenv.Team) worldenv.ResourceFlow {
	return e.flows[team]
}

func (e *Env) CurrentBottleneck(team worldenv.Team) worldenv.Bottleneck {
	return e.bottleneck[team]
}

func (e *Env) SpendStockpile(team worldenv.Team, res worldenv.Resource, amount int) bool {
	if e.stockpiles[team][res] < amount {
		return false
	}
	e.stockpiles[team][res] -= amount
	return true
}

func (e *Env) TryBatchQueueTrain(building worldenv.Pos, team worldenv.Team, batchSize int) bool {
	e.queueLen[building] += batchSize
	return true
}

func (e *Env) ProductionQueueLen(building worldenv.Pos) int {
	return e.queueLen[building]
}

func (e *Env) TryBuildIfMissing(agent worldenv.AgentID, kind worldenv.Kind) bool  { return false }
func (e *Env) TryBuildNearResource(agent worldenv.AgentID, kind worldenv.Kind, radius int) bool {
	return false
}
func (e *Env) TryBuildCampThreshold(agent worldenv.AgentID, kind worldenv.Kind) bool { return false }
func (e *Env) GoToAdjacentAndBuild(agent worldenv.AgentID, target worldenv.Pos, kind worldenv.Kind) bool {
	return false
}

func (e *Env) PlaceStartingTownCenter(team worldenv.Team, near worldenv.Pos) (worldenv.Pos, bool) {
	return near, e.CanPlace(near)
}

func (e *Env) PlaceStartingResourceBuildings(team worldenv.Team, near worldenv.Pos) bool {
	return true
}

func (e *Env) PlaceAltar(team worldenv.Team, near worldenv.Pos) (worldenv.Pos, bool) {
	return near, e.CanPlace(near)
}

func (e *Env) RevealVisionFrom(agent worldenv.AgentID) {
	a, ok := e.agents[agent]
	if !ok {
		return
	}
	m := e.revealed[a.team]
	if m == nil {
		m = make(map[worldenv.Pos]bool)
		e.revealed[a.team] = m
	}
	for dx := -e.obsRadius; dx <= e.obsRadius; dx++ {
		for dy := -e.obsRadius; dy <= e.obsRadius; dy++ {
			p := a.pos.Add(dx, dy)
			if e.IsValidPos(p) {
				m[p] = true
			}
		}
	}
}

func (e *Env) ObservationRadius() int { return e.obsRadius }

func (e *Env) VisionCone(agent worldenv.AgentID) []worldenv.Pos {
	a, ok := e.agents[agent]
	if !ok {
		return nil
	}
	var out []worldenv.Pos
	for dx := -e.obsRadius; dx <= e.obsRadius; dx++ {
		for dy := -e.obsRadius; dy <= e.obsRadius; dy++ {
			p := a.pos.Add(dx, dy)
			if e.IsValidPos(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

func (e *Env) CurrentStep() int { return e.step }
func (e *Env) MaxSteps() int    { return e.maxSteps }

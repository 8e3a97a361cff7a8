// Package agentstate holds the per-agent scratch state spec.md §3 assigns
// to AgentState: active-option bookkeeping, role sub-tasks, cached spatial
// lookups, and the parameters each role's option catalog reads and writes
// across ticks. One State belongs to exactly one agent slot for the life of
// the match; only that agent's own options ever mutate it.
package agentstate

import (
	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/option"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// GathererTask is the gatherer role's current sub-task (spec.md §4.5).
type GathererTask int

const (
	TaskNone GathererTask = iota
	TaskFood
	TaskWood
	TaskStone
	TaskGold
	TaskHearts
)

// EscapeDirection names a locked flee heading, held for a few ticks once
// chosen so a fleeing agent doesn't flicker between neighboring directions.
type EscapeDirection = action.Direction

// KindCache remembers the last-known positions of one Kind this agent has
// seen, stamped with the step it was refreshed so staleness can be judged
// without a generation cache (spec.md §3: "per-kind cached thing positions
// with staleness step").
type KindCache struct {
	Positions   []worldenv.Pos
	RefreshStep int
}

// Stale reports whether the cache was last refreshed more than maxAge steps
// before currentStep.
func (k KindCache) Stale(currentStep, maxAge int) bool {
	return currentStep-k.RefreshStep > maxAge
}

// BuildTask records an in-progress construction commitment so a builder
// doesn't re-plan its target building every tick.
type BuildTask struct {
	Target   worldenv.Pos
	Stand    worldenv.Pos
	Kind     worldenv.Kind
	Index    int
	Locked   bool
}

// PathState is the agent's currently planned route, an index into it, and
// the target that produced it (so a changed target invalidates the plan).
type PathState struct {
	Path         []worldenv.Pos
	Index        int
	Target       worldenv.Pos
	BlockedAt    worldenv.Pos
	HasBlocked   bool
}

// Waypoints holds the parameters for patrol/attack-move/scout/hold/follow/
// guard/stop behaviors (spec.md §3), all of which share "a small set of
// positions plus a cursor" shape.
type Waypoints struct {
	Points       []worldenv.Pos
	Index        int
	FollowTarget worldenv.AgentID
	GuardPos     worldenv.Pos
	HoldPos      worldenv.Pos
	Active       bool
}

// Role selects which catalog a villager runs this tick (spec.md §3
// AgentState's "role" field); non-villager unit classes always run Fighter.
type Role int

const (
	RoleGatherer Role = iota
	RoleBuilder
	RoleFighter
)

// State is one agent's full scratch record (spec.md §3's AgentState row).
type State struct {
	Role Role

	Run option.RunState

	GathererTask     GathererTask
	TaskHysteresisAt float64

	LastEngagedEnemy     worldenv.AgentID
	LastEngagedStep      int

	SpiralCursor int

	RecentPositions [limits.RecentPositionsLen]worldenv.Pos
	RecentCount     int

	EscapeMode    bool
	EscapeCounter int
	EscapeDir     EscapeDirection

	BlockedMoveDir   action.Direction
	BlockedMoveSteps int

	KindCaches map[worldenv.Kind]KindCache
	ClosestOfKind map[worldenv.Kind]worldenv.Pos

	Build BuildTask
	Path  PathState

	Patrol     Waypoints
	AttackMove Waypoints
	Scout      Waypoints
	Hold       Waypoints
	Follow     Waypoints
	Guard      Waypoints
	Stopped    bool

	ExploreRadius int

	CachedTargetEnemy    worldenv.AgentID
	CachedTargetStep     int

	// IsSettler, SettlerTarget and SettlerArrived mirror the settlement
	// state machine's per-agent commitment (spec.md §4.8): the controller's
	// own bookkeeping of which villagers are travelling to found a new
	// town, independent of worldenv's read-only AgentIsSettler family.
	IsSettler      bool
	SettlerTarget  worldenv.Pos
	SettlerArrived bool

	// HomeAltar is the controller's own record of which altar this agent is
	// attached to. Home-altar back-references are weak (spec.md §3): this
	// field is only ever written by town-founding reassignment, never read
	// back to influence worldenv's own AgentHomeAltar, and is kept in sync
	// with teamcache.AltarPopulation's counts.
	HomeAltar worldenv.Pos

	Dead bool
}

// New returns a freshly reset State for an agent slot.
func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset clears a State back to its just-spawned shape, e.g. when a slot is
// reused after the previous occupant died (spec.md §3: "reset when agent
// dies").
func (s *State) Reset() {
	*s = State{
		Run:               option.NewRunState(),
		LastEngagedEnemy:  worldenv.NoAgent,
		LastEngagedStep:   -1,
		KindCaches:        make(map[worldenv.Kind]KindCache),
		ClosestOfKind:     make(map[worldenv.Kind]worldenv.Pos),
		CachedTargetEnemy: worldenv.NoAgent,
		CachedTargetStep:  -1,
	}
}

// PushRecentPosition records pos into the fixed-length recent-positions
// ring (spec.md §3, length limits.RecentPositionsLen).
func (s *State) PushRecentPosition(pos worldenv.Pos) {
	idx := s.RecentCount % limits.RecentPositionsLen
	s.RecentPositions[idx] = pos
	s.RecentCount++
}

// VisitedRecently reports whether pos appears anywhere in the recent-
// positions ring, used by wander/spiral behaviors to avoid looping in place.
func (s *State) VisitedRecently(pos worldenv.Pos) bool {
	n := limits.RecentPositionsLen
	if s.RecentCount < n {
		n = s.RecentCount
	}
	for i := 0; i < n; i++ {
		if s.RecentPositions[i] == pos {
			return true
		}
	}
	return false
}

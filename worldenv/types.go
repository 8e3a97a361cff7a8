// Package worldenv declares the contract the controller consumes from the
// simulator: the grid, spatial index, agents, economy, production,
// construction helpers and vision/fog the core treats as an external
// collaborator (spec.md §1, §6). This package owns only the shapes of that
// contract, never an implementation of the simulated world itself.
package worldenv

// Pos is a grid coordinate. The zero value is a valid position (the origin),
// so callers must use IsValidPos to test membership rather than a zero-check.
type Pos struct {
	X, Y int
}

// Add returns p shifted by (dx, dy).
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// ChebyshevDist returns the 8-connected grid distance between p and q.
func ChebyshevDist(p, q Pos) int {
	dx := p.X - q.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - q.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// AgentID identifies an agent slot; stable for the lifetime of the match.
type AgentID int

// NoAgent is the sentinel for "no enemy agent" (e.g. a structure threat).
const NoAgent AgentID = -1

// Team identifies one of the simulation's teams.
type Team int

// Resource is one of the four stockpile resource kinds.
type Resource int

const (
	Food Resource = iota
	Wood
	Stone
	Gold

	NumResources
)

// Bottleneck names the team's current limiting resource, as computed by the
// environment's economy model.
type Bottleneck int

const (
	NoBottleneck Bottleneck = iota
	FoodCritical
	WoodCritical
	StoneCritical
	GoldCritical
)

// Costs is a sparse resource cost vector, e.g. for a building or unit.
type Costs map[Resource]int

// Kind enumerates the "thing" kinds the environment can report by position
// or by things_by_kind iteration (spec.md §6). Not every kind is relevant to
// every role; each role catalog only consults the subset it needs.
type Kind int

const (
	KindNone Kind = iota

	// Resource-bearing terrain/features.
	KindTree
	KindStump
	KindGoldVein
	KindStoneVein
	KindStalagmite
	KindWheat
	KindStubble
	KindFertile
	KindCow
	KindSkeleton
	KindTumor
	KindSpawner
	KindRelic
	KindGoblin

	// Team infrastructure.
	KindTownCenter
	KindAltar
	KindHouse
	KindGranary
	KindMill
	KindLumberCamp
	KindMiningCamp
	KindQuarry
	KindWeavingLoom
	KindClayOven
	KindBlacksmith
	KindBarracks
	KindArcheryRange
	KindStable
	KindSiegeWorkshop
	KindMangonelWorkshop
	KindOutpost
	KindCastle
	KindMarket
	KindMonastery
	KindWall
	KindDoor
	KindLantern
	KindMagma

	NumKinds
)

// TeamBuildingKinds lists the structures the damaged-building cache (§4.6)
// scans once per step.
var TeamBuildingKinds = []Kind{
	KindTownCenter, KindAltar, KindHouse, KindGranary, KindMill,
	KindLumberCamp, KindMiningCamp, KindQuarry, KindWeavingLoom,
	KindClayOven, KindBlacksmith, KindBarracks, KindArcheryRange,
	KindStable, KindSiegeWorkshop, KindMangonelWorkshop, KindOutpost,
	KindCastle, KindMarket, KindMonastery, KindWall,
}

// CoreInfrastructure is the builder catalog's "first missing" set (§4.6).
var CoreInfrastructure = []Kind{KindGranary, KindLumberCamp, KindQuarry, KindMiningCamp}

// TechBuildings is the builder catalog's "first missing" tech set (§4.6).
var TechBuildings = []Kind{
	KindWeavingLoom, KindClayOven, KindBlacksmith, KindBarracks,
	KindArcheryRange, KindStable, KindSiegeWorkshop, KindMangonelWorkshop,
	KindOutpost, KindCastle, KindMarket, KindMonastery,
}

// CampKindFor maps a gathered resource to the camp building that boosts it.
func CampKindFor(res Resource) (Kind, bool) {
	switch res {
	case Wood:
		return KindLumberCamp, true
	case Gold:
		return KindMiningCamp, true
	case Stone:
		return KindQuarry, true
	default:
		return KindNone, false
	}
}

// UnitClass enumerates agent unit classes relevant to fighter/gatherer logic.
type UnitClass int

const (
	ClassVillager UnitClass = iota
	ClassScout
	ClassLightCavalry
	ClassHussar
	ClassMonk
	ClassMeleeLine
	ClassRangedLine
	ClassSiege
	ClassBatteringRam
	ClassDemoShip
	ClassFishingShip
	ClassGalley
	ClassFireShip
	ClassCannonGalleon
	ClassTransportShip
)

// KitingRangedUnits is the set of unit classes eligible for the Kite option
// (§4.7).
var KitingRangedUnits = map[UnitClass]bool{
	ClassRangedLine: true,
	ClassHussar:     true,
}

// ScoutUnits is the set of unit classes eligible for Scout/ScoutFlee (§4.7).
var ScoutUnits = map[UnitClass]bool{
	ClassScout:        true,
	ClassLightCavalry: true,
	ClassHussar:       true,
}

// Stance is an agent's behavioral policy flag (GLOSSARY).
type Stance int

const (
	Aggressive Stance = iota
	Defensive
	StandGround
	NoAttack
)

// RequestKind is a coordination-bus request type (§3, §4.3).
type RequestKind int

const (
	Protection RequestKind = iota
	Defense
	SiegeBuild
)

// Priority orders coordination requests (§3).
type Priority int

const (
	Low Priority = iota
	Normal
	High
)

// Thing is a read-only snapshot of something the grid holds at a position:
// terrain feature, resource, or building. The environment returns these by
// value; the controller never mutates the world directly.
type Thing struct {
	Pos        Pos
	Kind       Kind
	Team       Team // zero value for unowned/neutral things
	Damaged    bool
	Fertile    bool
	Healthy    bool // relevant to Kind == KindCow
	Frozen     bool // tile excluded from gathering (spec §4.5)
	MaxHP      int
	HP         int
}

// ResourceFlow reports the team's net per-step stockpile change for each
// resource, consulted by the gatherer task-selection hysteresis (§4.5).
type ResourceFlow [NumResources]float64

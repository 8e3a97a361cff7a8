package worldenv

// Environment is the full contract the controller consumes each tick
// (spec.md §6). It is implemented by the simulator; the controller treats it
// as a read-only collaborator between ticks and issues construction/training
// requests through it during a tick. The `envtest` package provides a small
// in-memory implementation used only by this module's own tests.
type Environment interface {
	// --- Grid ---
	Terrain(p Pos) Kind
	Thing(p Pos) (Thing, bool)
	BackgroundThing(p Pos) (Thing, bool)
	IsEmpty(p Pos) bool
	HasDoor(p Pos) bool
	CanPlace(p Pos) bool
	IsValidPos(p Pos) bool
	IsRevealed(team Team, p Pos) bool

	// --- Things by kind ---
	ThingsByKind(kind Kind) []Thing

	// --- Spatial index ---
	CellCoords(p Pos) (cx, cy int)
	SpatialCellsX() int
	SpatialCellsY() int
	SpatialCellSize() int
	KindCellAgents(kind Kind, cx, cy int) []AgentID
	DistToCellRadius16(dist int) int

	// --- Agents ---
	IsAgentAlive(id AgentID) bool
	AgentPos(id AgentID) Pos
	AgentHP(id AgentID) (hp, max int)
	AgentTeam(id AgentID) Team
	TeamMask(team Team) uint64
	AgentMask(id AgentID) uint64
	SameTeam(a, b AgentID) bool
	AgentStance(id AgentID) Stance
	AgentLastAttackedStep(id AgentID) int
	AgentUnitClass(id AgentID) UnitClass
	AgentHomeAltar(id AgentID) Pos
	AgentIsSettler(id AgentID) bool
	AgentSettlerTarget(id AgentID) Pos
	AgentSettlerArrived(id AgentID) bool
	AgentInventory(id AgentID, res Resource) int
	AgentIsCarrying(id AgentID, res Resource) bool
	AgentIsIdle(id AgentID) bool
	AgentHasGear(id AgentID, kind Kind) bool
	AgentArmor(id AgentID) (cur, max int)
	AgentHasBread(id AgentID) bool

	// --- Stockpile / economy ---
	StockpileCount(team Team, res Resource) int
	CanSpendStockpile(team Team, costs Costs) bool
	CanAffordBuild(id AgentID, kind Kind) bool
	FlowRate(team Team) ResourceFlow
	CurrentBottleneck(team Team) Bottleneck
	SpendStockpile(team Team, res Resource, amount int) bool

	// --- Production ---
	TryBatchQueueTrain(building Pos, team Team, batchSize int) bool
	ProductionQueueLen(building Pos) int

	// --- Construction helpers ---
	TryBuildIfMissing(agent AgentID, kind Kind) bool
	TryBuildNearResource(agent AgentID, kind Kind, radius int) bool
	TryBuildCampThreshold(agent AgentID, kind Kind) bool
	GoToAdjacentAndBuild(agent AgentID, target Pos, kind Kind) bool
	PlaceStartingTownCenter(team Team, near Pos) (Pos, bool)
	PlaceStartingResourceBuildings(team Team, near Pos) bool
	PlaceAltar(team Team, near Pos) (Pos, bool)

	// --- Vision / fog ---
	RevealVisionFrom(agent AgentID)
	ObservationRadius() int
	VisionCone(agent AgentID) []Pos

	// --- Misc ---
	CurrentStep() int
	MaxSteps() int
}

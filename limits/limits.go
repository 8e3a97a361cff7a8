// Package limits collects the fixed capacities spec.md assigns to the
// controller's scratch structures (§3, §4.1, §4.3). Centralizing them here
// keeps every package that allocates a fixed-size array or ring buffer
// consistent with the same numbers.
package limits

const (
	// MaxAgents bounds the per-agent state table (spec.md §3 AgentState[MapAgents]).
	MaxAgents = 2048
	// MaxTeams bounds the per-team coordination/cache tables.
	MaxTeams = 8

	// RecentPositionsLen is the ring length for an agent's recent-position trail.
	RecentPositionsLen = 12

	// ThreatMapCapacity is the max threat entries retained per team (§3, §4.3).
	ThreatMapCapacity = 64
	// ThreatRecencyWindow is how many steps a threat entry stays "seen recently".
	ThreatRecencyWindow = 30

	// RequestRingCapacity is the max coordination requests retained per team (§3).
	RequestRingCapacity = 16
	// RequestExpirySteps is how long an unfulfilled request survives (§4.3).
	RequestExpirySteps = 60
	// RequestDedupWindow suppresses duplicate (requester,kind) requests within this window.
	RequestDedupWindow = 30
	// RequestResponseRadius bounds find_nearest_protection candidates (§4.3).
	RequestResponseRadius = 15

	// ReservationCapacity is the max resource reservations retained per team (§3).
	ReservationCapacity = 64
	// ReservationExpirySteps is how long a reservation survives unrefreshed (§4.3).
	ReservationExpirySteps = 30

	// PathHeapCapacity bounds explored nodes per pathfinding query (§4.1).
	PathHeapCapacity = 512
	// PathMaxLen bounds a reconstructed path's length (§4.1).
	PathMaxLen = 256
	// PathMaxGoals bounds simultaneous goals per pathfinding query (§4.1).
	PathMaxGoals = 10

	// DamagedBuildingCacheCap is the max damaged positions cached per team (§4.6).
	DamagedBuildingCacheCap = 32
)

// Tuning constants named throughout §4.5–§4.8 and §4.4. Grouped here with
// the capacity constants above so every package that reads a spec-named
// radius or cooldown agrees on one number.
const (
	// GathererFleeRadius triggers the gatherer's Flee option (§4.5).
	GathererFleeRadius = 6
	// BuilderFleeRadius triggers the builder's Flee option (§4.6).
	BuilderFleeRadius = 8

	// TaskSwitchHysteresis is the minimum score improvement required to
	// switch the gatherer's sub-task away from its current one (§4.5, §8 S6).
	TaskSwitchHysteresis = 2.0

	// WallRingBaseRadius, WallRingMaxRadius, WallRingBuildingsPerRadius and
	// WallRingRadiusSlack parameterize the builder's adaptive wall ring (§4.6).
	WallRingBaseRadius         = 6
	WallRingMaxRadius          = 14
	WallRingBuildingsPerRadius = 4
	WallRingRadiusSlack        = 1
	// WallRingMaxDoors caps door slots placed per ring (§4.6).
	WallRingMaxDoors = 4

	// HealerSeekRadius bounds SeekHealer's monk search (§4.7).
	HealerSeekRadius = 10
	// DefensiveRetaliationWindow is the Defensive stance's retaliation window (§4.7).
	DefensiveRetaliationWindow = 30
	// TargetSwapInterval is how often advanced targeting re-evaluates (§4.7).
	TargetSwapInterval = 20
	// AllyThreatRadius bounds the ally-threat spatial scan (§4.7).
	AllyThreatRadius = 6
	// KiteTriggerDistance is how close a melee enemy must be to trigger Kite (§4.7).
	KiteTriggerDistance = 3
	// ScoutFleeRadius triggers ScoutFlee (§4.7).
	ScoutFleeRadius = 5
	// ScoutExploreGrowth is how much ScoutExplore's radius grows past the frontier (§4.7).
	ScoutExploreGrowth = 4
	// PatrolArrivalThreshold is how close a patroller must be to advance its waypoint (§4.7).
	PatrolArrivalThreshold = 2
	// ScoutExploreEarlyExitScore short-circuits ScoutExplore's candidate scan (§4.7).
	ScoutExploreEarlyExitScore = 140
	// LanternSpacing is the minimum spacing enforced between placed lanterns (§4.7).
	LanternSpacing = 3

	// TownSplitCheckInterval is the cadence of the settlement state machine's
	// Stable->CheckCondition transition (§4.8).
	TownSplitCheckInterval = 100
	// TownSplitMinDistance and TownSplitMaxDistance bound the site-search ring (§4.8).
	TownSplitMinDistance = 20
	TownSplitMaxDistance = 40
	// TownSplitSettlerCount is the max settlers selected per split (§4.8).
	TownSplitSettlerCount = 6
	// SettlerFoundingQuorum is the minimum arrived settlers to found (§4.8).
	SettlerFoundingQuorum = 5
	// TownSplitCooldownSteps is the minimum gap between a team's splits (§4.8).
	TownSplitCooldownSteps = 500
	// TownSplitPopThreshold is the minimum team population to consider splitting (§4.8).
	TownSplitPopThreshold = 9
	// TownSplitWoodCost is wood spent per founded town (§4.8).
	TownSplitWoodCost = 14
	// MapBorder excludes site candidates within this many tiles of the map edge (§4.8).
	MapBorder = 3
)

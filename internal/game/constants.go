package game

// Timing policy, in seconds.
const (
	StartGracePeriod       int64 = 1800
	PhaseAdvanceBuffer     int64 = 600
	Phase3ReadyWindow      int64 = 1800
	Phase3ExtendedWindow   int64 = 3600
	AdminReadyWindow       int64 = 300
	AdminExtendedWindow    int64 = 900
	NonCreatorAdvanceDelay int64 = 300
	secondsPerHour         int64 = 3600
)

// Player and game limits.
const (
	MinMaxPlayers     = 2
	MaxPlayersAllowed = 100
	MinPlayersToStart = 3
	MinDurationHours  = 1
	MaxDurationHours  = 24
	MaxGameNameLength = 64
)

// Phase 2 policy.
const (
	MinPhase2Games      = 3
	MaxPhase2Games      = 10
	MaxOpponentDeclines = 5
	MaxOpponentHistory  = 10
)

// Economic policy.
const (
	PlatformFeePercent       uint64 = 1
	AdminShareNoReadyPercent uint64 = 25
	InitialBalanceMultiplier uint64 = 10
)

// Market states for the trading activity.
const (
	MarketCrash  uint8 = 0
	MarketNormal uint8 = 1
	MarketBoom   uint8 = 2
)

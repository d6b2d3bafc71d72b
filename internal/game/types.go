package game

import "slices"

type Status string

const (
	StatusWaitingForPlayers  Status = "waiting_for_players"
	StatusReadyToStart       Status = "ready_to_start"
	StatusInProgress         Status = "in_progress"
	StatusCompleted          Status = "completed"
	StatusCancelled          Status = "cancelled"
	StatusExpired            Status = "expired"
	StatusExpiredWithPenalty Status = "expired_with_penalty"
)

func (s Status) refundable() bool {
	return s == StatusCancelled || s == StatusExpired || s == StatusExpiredWithPenalty
}

func (s Status) preStart() bool {
	return s == StatusWaitingForPlayers || s == StatusReadyToStart
}

type PhaseDurations struct {
	Phase1 int64 `json:"phase1"`
	Phase2 int64 `json:"phase2"`
	Phase3 int64 `json:"phase3"`
}

func (d PhaseDurations) forPhase(phase int) int64 {
	switch phase {
	case 1:
		return d.Phase1
	case 2:
		return d.Phase2
	case 3:
		return d.Phase3
	default:
		return 0
	}
}

// Registry is the process-wide singleton that issues game ids.
type Registry struct {
	Admin             string `json:"admin"`
	GameCount         uint64 `json:"game_count"`
	TotalGamesCreated uint64 `json:"total_games_created"`
}

// Game is one game instance and the exclusive owner of its escrowed funds.
type Game struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Creator    string   `json:"creator"`
	EntryFee   uint64   `json:"entry_fee"`
	MaxPlayers int      `json:"max_players"`
	Players    []string `json:"players"`
	StartTime  int64    `json:"start_time"`
	ExpireTime int64    `json:"expire_time"`
	Status     Status   `json:"status"`
	Started    bool     `json:"started"`
	PrizePool  uint64   `json:"prize_pool"`
	Refunded   []string `json:"refunded"`

	Phase           int            `json:"phase"`
	PhaseStart      int64          `json:"phase_start"`
	PhaseEnd        int64          `json:"phase_end"`
	AdvanceDeadline int64          `json:"advance_deadline"`
	Durations       PhaseDurations `json:"durations"`

	Phase2Required       int `json:"phase2_required"`
	Phase2MaxPerOpponent int `json:"phase2_max_per_opponent"`

	Phase3ReadyDeadline    int64  `json:"phase3_ready_deadline"`
	Phase3ExtendedDeadline int64  `json:"phase3_extended_deadline"`
	Phase3ReadyCount       int    `json:"phase3_ready_count"`
	Phase3Started          bool   `json:"phase3_started"`
	Phase3Winner           string `json:"phase3_winner,omitempty"`
	Phase3PrizeClaimed     bool   `json:"phase3_prize_claimed"`

	FeeCollected  uint64 `json:"fee_collected"`
	FeeClaimed    bool   `json:"fee_claimed"`
	Redistributed bool   `json:"redistributed"`
	TotalEscrowed uint64 `json:"total_escrowed"`
	TotalPaidOut  uint64 `json:"total_paid_out"`
	CreatedAt     int64  `json:"created_at"`
}

func (g *Game) CurrentPlayers() int {
	return len(g.Players)
}

func (g *Game) IsMember(player string) bool {
	return slices.Contains(g.Players, player)
}

func (g *Game) IsRefunded(player string) bool {
	return slices.Contains(g.Refunded, player)
}

// ActiveReadyDeadline is the extended deadline once set, else the ready deadline.
func (g *Game) ActiveReadyDeadline() int64 {
	if g.Phase3ExtendedDeadline > 0 {
		return g.Phase3ExtendedDeadline
	}
	return g.Phase3ReadyDeadline
}

func (g *Game) clone() *Game {
	out := *g
	out.Players = slices.Clone(g.Players)
	out.Refunded = slices.Clone(g.Refunded)
	return &out
}

type Allocations struct {
	Mining   uint64 `json:"mining"`
	Farming  uint64 `json:"farming"`
	Trading  uint64 `json:"trading"`
	Research uint64 `json:"research"`
	Social   uint64 `json:"social"`
}

type OpponentRecord struct {
	Opponent string `json:"opponent"`
	Games    int    `json:"games"`
}

// PlayerState is one player's economy inside one game.
type PlayerState struct {
	GameID         uint64 `json:"game_id"`
	Player         string `json:"player"`
	VirtualBalance uint64 `json:"virtual_balance"`
	TotalEarned    uint64 `json:"total_earned"`
	LastClaimTime  int64  `json:"last_claim_time"`

	HasActiveAllocation bool        `json:"has_active_allocation"`
	Allocations         Allocations `json:"allocations"`

	GamesPlayed    int              `json:"games_played"`
	GamesWon       int              `json:"games_won"`
	Opponents      []OpponentRecord `json:"opponents"`
	RequirementMet bool             `json:"requirement_met"`
	PenaltyApplied bool             `json:"penalty_applied"`
	PrizeClaimed   bool             `json:"prize_claimed"`
}

func (p *PlayerState) gamesAgainst(opponent string) int {
	for _, record := range p.Opponents {
		if record.Opponent == opponent {
			return record.Games
		}
	}
	return 0
}

// CanChallenge reports whether fewer than maxGames were played against opponent.
func (p *PlayerState) CanChallenge(opponent string, maxGames int) bool {
	return p.gamesAgainst(opponent) < maxGames
}

// recordGame counts a finished mini-game. Once MaxOpponentHistory distinct
// opponents are tracked, new opponents are not added.
func (p *PlayerState) recordGame(opponent string, won bool) {
	p.GamesPlayed++
	if won {
		p.GamesWon++
	}
	for i := range p.Opponents {
		if p.Opponents[i].Opponent == opponent {
			p.Opponents[i].Games++
			return
		}
	}
	if len(p.Opponents) < MaxOpponentHistory {
		p.Opponents = append(p.Opponents, OpponentRecord{Opponent: opponent, Games: 1})
	}
}

// MeetsRequirement reports whether at least 80% of required games were played.
func (p *PlayerState) MeetsRequirement(required int) bool {
	return p.GamesPlayed >= minimumGames(required)
}

func (p *PlayerState) clone() *PlayerState {
	out := *p
	out.Opponents = slices.Clone(p.Opponents)
	return &out
}

// PoolState aggregates resource totals for one game.
type PoolState struct {
	GameID             uint64 `json:"game_id"`
	MiningTotal        uint64 `json:"mining_total"`
	FarmingTotal       uint64 `json:"farming_total"`
	TradingTotal       uint64 `json:"trading_total"`
	ResearchTotal      uint64 `json:"research_total"`
	SocialTotal        uint64 `json:"social_total"`
	SocialParticipants uint32 `json:"social_participants"`
	FarmingSeason      uint8  `json:"farming_season"`
	MarketState        uint8  `json:"market_state"`
	LastEventTime      int64  `json:"last_event_time"`
}

func (p *PoolState) clone() *PoolState {
	out := *p
	return &out
}

type MiniGameType string

const (
	MiniGameCryptoTrivia      MiniGameType = "crypto_trivia"
	MiniGameRockPaperScissors MiniGameType = "rock_paper_scissors"
	MiniGameSpeedTrading      MiniGameType = "speed_trading"
	MiniGameMemeBattle        MiniGameType = "meme_battle"
)

func (t MiniGameType) Valid() bool {
	switch t {
	case MiniGameCryptoTrivia, MiniGameRockPaperScissors, MiniGameSpeedTrading, MiniGameMemeBattle:
		return true
	default:
		return false
	}
}

type ChallengeStatus string

const (
	ChallengePending      ChallengeStatus = "pending"
	ChallengeAccepted     ChallengeStatus = "accepted"
	ChallengeBothReady    ChallengeStatus = "both_ready"
	ChallengeInProgress   ChallengeStatus = "in_progress"
	ChallengeCompleted    ChallengeStatus = "completed"
	ChallengeExpired      ChallengeStatus = "expired"
	ChallengeForcedAccept ChallengeStatus = "forced_accept"
)

// Challenge is one PvP engagement between two members of a game.
type Challenge struct {
	ID         string          `json:"id"`
	GameID     uint64          `json:"game_id"`
	Challenger string          `json:"challenger"`
	Opponent   string          `json:"opponent"`
	BetAmount  uint64          `json:"bet_amount"`
	Type       MiniGameType    `json:"type"`
	Status     ChallengeStatus `json:"status"`
	CreatedAt  int64           `json:"created_at"`
	AcceptedAt int64           `json:"accepted_at,omitempty"`
	StartedAt  int64           `json:"started_at,omitempty"`
	Winner     string          `json:"winner,omitempty"`
	Declines   int             `json:"declines"`
}

func (c *Challenge) isParticipant(player string) bool {
	return player == c.Challenger || player == c.Opponent
}

func (c *Challenge) clone() *Challenge {
	out := *c
	return &out
}

// ReadyRecord is one member's opt-in to the purge.
type ReadyRecord struct {
	GameID   uint64 `json:"game_id"`
	Player   string `json:"player"`
	Ready    bool   `json:"ready"`
	MarkedAt int64  `json:"marked_at"`
}

func (r *ReadyRecord) clone() *ReadyRecord {
	out := *r
	return &out
}

type PayoutKind string

const (
	PayoutRefund       PayoutKind = "refund"
	PayoutForcedRefund PayoutKind = "forced_refund"
	PayoutPrize        PayoutKind = "prize"
	PayoutPlatformFee  PayoutKind = "platform_fee"
	PayoutAdminShare   PayoutKind = "admin_share"
	PayoutPlayerShare  PayoutKind = "player_share"
)

// Payout is a release of escrowed funds to a recipient.
type Payout struct {
	GameID    uint64     `json:"game_id"`
	Recipient string     `json:"recipient"`
	Amount    uint64     `json:"amount"`
	Kind      PayoutKind `json:"kind"`
	PaidAt    int64      `json:"paid_at"`
}

package game

type EventType string

const (
	EventRegistryInitialized    EventType = "registry_initialized"
	EventGameCreated            EventType = "game_created"
	EventPlayerJoined           EventType = "player_joined"
	EventGameStarted            EventType = "game_started"
	EventGameCancelled          EventType = "game_cancelled"
	EventGameExpiredWithPenalty EventType = "game_expired_with_penalty"
	EventRefundClaimed          EventType = "refund_claimed"
	EventForcedRefundClaimed    EventType = "forced_refund_claimed"
	EventPlayerStateInitialized EventType = "player_state_initialized"
	EventPoolStateInitialized   EventType = "pool_state_initialized"
	EventAllocationsSubmitted   EventType = "allocations_submitted"
	EventRewardsClaimed         EventType = "rewards_claimed"
	EventPhase2PenaltyApplied   EventType = "phase2_penalty_applied"
	EventPhase2RequirementMet   EventType = "phase2_requirement_met"
	EventPhaseAdvanced          EventType = "phase_advanced"
	EventChallengeCreated       EventType = "challenge_created"
	EventChallengeAccepted      EventType = "challenge_accepted"
	EventChallengeDeclined      EventType = "challenge_declined"
	EventChallengeReady         EventType = "challenge_ready"
	EventMiniGameStarted        EventType = "mini_game_started"
	EventMiniGameCompleted      EventType = "mini_game_completed"
	EventPlayerReady            EventType = "phase3_player_ready"
	EventPurgeExtended          EventType = "phase3_deadline_extended"
	EventPurgeStarted           EventType = "phase3_started"
	EventPhase3WinnerDeclared   EventType = "phase3_winner_declared"
	EventGameEndedNoWinner      EventType = "game_ended_no_winner"
	EventPhase3PrizeClaimed     EventType = "phase3_prize_claimed"
	EventPlatformFeeClaimed     EventType = "platform_fee_claimed"
	EventGameClosedNoReady      EventType = "game_closed_no_ready"
)

// Event records a committed state change for indexing and broadcast.
type Event struct {
	Type        EventType `json:"type"`
	GameID      uint64    `json:"game_id,omitempty"`
	Player      string    `json:"player,omitempty"`
	Opponent    string    `json:"opponent,omitempty"`
	ChallengeID string    `json:"challenge_id,omitempty"`
	Amount      uint64    `json:"amount,omitempty"`
	Fee         uint64    `json:"fee,omitempty"`
	Count       int       `json:"count,omitempty"`
	Required    int       `json:"required,omitempty"`
	Phase       int       `json:"phase,omitempty"`
	PhaseEnd    int64     `json:"phase_end,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	At          int64     `json:"at"`
}

package game

import "errors"

// Kind groups error codes by how a caller should react to them.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindPrecondition  Kind = "precondition"
	KindAuthorization Kind = "authorization"
	KindEconomic      Kind = "economic"
	KindTiming        Kind = "timing"
	KindNotFound      Kind = "not_found"
	KindInternal      Kind = "internal"
)

// Code is a machine-readable error code.
type Code string

// Error is the domain error type returned by every engine operation.
type Error struct {
	Code     Code              // Machine-readable error code
	Kind     Kind              // Error family
	Message  string            // User-facing message
	Metadata map[string]string // Additional context
	Cause    error             // Wrapped underlying error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithMetadata returns a copy of e carrying metadata.
func (e *Error) WithMetadata(metadata map[string]string) *Error {
	clone := *e
	clone.Metadata = metadata
	return &clone
}

// Wrap returns a copy of e wrapping cause.
func (e *Error) Wrap(cause error) *Error {
	clone := *e
	clone.Cause = cause
	return &clone
}

func newError(kind Kind, code Code, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message}
}

// KindOf returns the kind of err, or KindInternal for errors outside the domain.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// CodeOf returns the code of err, or an empty code for errors outside the domain.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// Validation errors
var (
	ErrInvalidMaxPlayers   = newError(KindValidation, "INVALID_MAX_PLAYERS", "maximum players must be between 2 and 100")
	ErrInvalidEntryFee     = newError(KindValidation, "INVALID_ENTRY_FEE", "entry fee must be greater than zero")
	ErrInvalidStartTime    = newError(KindValidation, "INVALID_START_TIME", "start time must be in the future")
	ErrInvalidGameDuration = newError(KindValidation, "INVALID_GAME_DURATION", "game duration must be between 1 and 24 hours")
	ErrInvalidGameName     = newError(KindValidation, "INVALID_GAME_NAME", "game name is required")
	ErrInvalidAllocation   = newError(KindValidation, "INVALID_ALLOCATION", "allocation does not match total balance")
	ErrInvalidMiniGameType = newError(KindValidation, "INVALID_MINI_GAME_TYPE", "unknown mini-game type")
	ErrCannotChallengeSelf = newError(KindValidation, "CANNOT_CHALLENGE_SELF", "cannot challenge yourself")
	ErrInvalidWinner       = newError(KindValidation, "INVALID_WINNER", "winner is not a participant of this challenge")
	ErrInvalidIdentity     = newError(KindValidation, "INVALID_IDENTITY", "caller identity is required")
)

// Lookup errors
var (
	ErrRegistryNotInitialized = newError(KindNotFound, "REGISTRY_NOT_INITIALIZED", "registry has not been initialized")
	ErrGameNotFound           = newError(KindNotFound, "GAME_NOT_FOUND", "game not found")
	ErrPlayerStateNotFound    = newError(KindNotFound, "PLAYER_STATE_NOT_FOUND", "player state not initialized")
	ErrPoolStateNotFound      = newError(KindNotFound, "POOL_STATE_NOT_FOUND", "pool state not initialized")
	ErrChallengeNotFound      = newError(KindNotFound, "CHALLENGE_NOT_FOUND", "challenge not found")
)

// Precondition errors
var (
	ErrRegistryAlreadyInitialized = newError(KindPrecondition, "REGISTRY_ALREADY_INITIALIZED", "registry already initialized")
	ErrGameNotOpen                = newError(KindPrecondition, "GAME_NOT_OPEN", "game is not accepting new players")
	ErrGameAlreadyStarted         = newError(KindPrecondition, "GAME_ALREADY_STARTED", "game has already started")
	ErrGameFull                   = newError(KindPrecondition, "GAME_FULL", "game is full")
	ErrAlreadyJoined              = newError(KindPrecondition, "ALREADY_JOINED", "already joined this game")
	ErrGameNotStarted             = newError(KindPrecondition, "GAME_NOT_STARTED", "game has not started yet")
	ErrGameNotCancelled           = newError(KindPrecondition, "GAME_NOT_CANCELLED", "game is not cancelled or expired")
	ErrGameNotCompleted           = newError(KindPrecondition, "GAME_NOT_COMPLETED", "game must be completed first")
	ErrNotEnoughPlayers           = newError(KindPrecondition, "NOT_ENOUGH_PLAYERS", "at least 3 players are required to start")
	ErrNotInGame                  = newError(KindPrecondition, "NOT_IN_GAME", "not a participant in this game")
	ErrAlreadyRefunded            = newError(KindPrecondition, "ALREADY_REFUNDED", "refund already claimed")
	ErrInvalidRefundCondition     = newError(KindPrecondition, "INVALID_REFUND_CONDITION", "conditions for refund are not met")
	ErrCreatorForfeitedFunds      = newError(KindPrecondition, "CREATOR_FORFEITED_FUNDS", "creator forfeited their entry by not fulfilling obligations")
	ErrPlayerStateExists          = newError(KindPrecondition, "PLAYER_STATE_EXISTS", "player state already initialized")
	ErrPoolStateExists            = newError(KindPrecondition, "POOL_STATE_EXISTS", "pool state already initialized")
	ErrOpponentNotInGame          = newError(KindPrecondition, "OPPONENT_NOT_IN_GAME", "opponent must be in the game")
	ErrInvalidChallengeStatus     = newError(KindPrecondition, "INVALID_CHALLENGE_STATUS", "challenge is not in the correct state for that action")
	ErrMaxGamesPerOpponent        = newError(KindPrecondition, "MAX_GAMES_PER_OPPONENT", "maximum games against this opponent reached")
	ErrPhase3AlreadyStarted       = newError(KindPrecondition, "PHASE3_ALREADY_STARTED", "the purge has already started")
	ErrPhase3NotStarted           = newError(KindPrecondition, "PHASE3_NOT_STARTED", "the purge has not started yet")
	ErrReadyPlayerNotFound        = newError(KindPrecondition, "READY_PLAYER_NOT_FOUND", "could not find a ready player")
	ErrWinnerAlreadyDeclared      = newError(KindPrecondition, "WINNER_ALREADY_DECLARED", "a winner has already been declared")
	ErrNoWinnerDeclared           = newError(KindPrecondition, "NO_WINNER_DECLARED", "no winner has been declared yet")
	ErrAlreadyClaimed             = newError(KindPrecondition, "ALREADY_CLAIMED", "the prize has already been claimed")
	ErrAlreadyRedistributed       = newError(KindPrecondition, "ALREADY_REDISTRIBUTED", "the pool has already been redistributed")
	ErrInvalidPhase               = newError(KindPrecondition, "INVALID_PHASE", "action not allowed in the current phase")
	ErrSomePlayersReady           = newError(KindPrecondition, "SOME_PLAYERS_READY", "cannot redistribute while players are ready")
	ErrInvalidGameStatus          = newError(KindPrecondition, "INVALID_GAME_STATUS", "game status does not allow this action")
)

// Authorization errors
var (
	ErrNotCreator                 = newError(KindAuthorization, "NOT_CREATOR", "only the game creator can perform this action")
	ErrNotAdmin                   = newError(KindAuthorization, "NOT_ADMIN", "only the admin can perform this action")
	ErrNotAuthorizedToAdvance     = newError(KindAuthorization, "NOT_AUTHORIZED_TO_ADVANCE", "not allowed to advance the phase yet")
	ErrUnauthorized               = newError(KindAuthorization, "UNAUTHORIZED", "not authorized to perform this action")
	ErrNotChallengeOpponent       = newError(KindAuthorization, "NOT_CHALLENGE_OPPONENT", "only the challenged player can respond")
	ErrNotChallengeParticipant    = newError(KindAuthorization, "NOT_CHALLENGE_PARTICIPANT", "not part of this challenge")
	ErrNotWinner                  = newError(KindAuthorization, "NOT_WINNER", "not the winner of this game")
	ErrOnlyCreatorCanAdvanceEarly = newError(KindAuthorization, "ONLY_CREATOR_CAN_ADVANCE_EARLY", "only the creator can advance this early")
)

// Economic errors
var (
	ErrInsufficientBalance = newError(KindEconomic, "INSUFFICIENT_BALANCE", "not enough virtual tokens for this action")
	ErrNoPrizeToCollect    = newError(KindEconomic, "NO_PRIZE_TO_COLLECT", "there is no prize to collect")
	ErrNoFeeToCollect      = newError(KindEconomic, "NO_FEE_TO_COLLECT", "no platform fees available to collect")
	ErrNoPurgePlayersFound = newError(KindEconomic, "NO_PURGE_PLAYERS_FOUND", "no eligible players found for redistribution")
	ErrMathOverflow        = newError(KindEconomic, "MATH_OVERFLOW", "math operation would overflow")
	ErrMathUnderflow       = newError(KindEconomic, "MATH_UNDERFLOW", "math operation would underflow")
	ErrInsufficientEscrow  = newError(KindEconomic, "INSUFFICIENT_ESCROW", "escrow cannot cover this payout")
)

// Timing errors
var (
	ErrGameExpired           = newError(KindTiming, "GAME_EXPIRED", "the registration window has closed")
	ErrStartWindowNotOpen    = newError(KindTiming, "START_WINDOW_NOT_OPEN", "the start time has not been reached")
	ErrStartWindowExpired    = newError(KindTiming, "START_WINDOW_EXPIRED", "the 30-minute start window has expired")
	ErrCancelWindowExpired   = newError(KindTiming, "CANCEL_WINDOW_EXPIRED", "the cancellation window has closed")
	ErrRefundNotYetAvailable = newError(KindTiming, "REFUND_NOT_YET_AVAILABLE", "refunds open 30 minutes after start time")
	ErrPhaseNotEnded         = newError(KindTiming, "PHASE_NOT_ENDED", "the current phase has not ended yet")
	ErrReadyDeadlineExpired  = newError(KindTiming, "READY_DEADLINE_EXPIRED", "the deadline to mark ready has passed")
	ErrReadyPeriodNotExpired = newError(KindTiming, "READY_PERIOD_NOT_EXPIRED", "the ready period has not ended yet")
)

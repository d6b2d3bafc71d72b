package game

import "github.com/google/uuid"

// phase2Game loads a game and checks it is in the challenge phase.
func (tx *Tx) phase2Game(gameID uint64) (*Game, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase != 2 {
		return nil, ErrInvalidPhase
	}
	return game, nil
}

func (tx *Tx) createChallenge(gameID uint64, challenger string, params CreateChallengeParams) (*Challenge, error) {
	if err := requireIdentity(challenger, params.Opponent); err != nil {
		return nil, err
	}
	if !params.Type.Valid() {
		return nil, ErrInvalidMiniGameType
	}
	if params.Opponent == challenger {
		return nil, ErrCannotChallengeSelf
	}
	game, err := tx.phase2Game(gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsMember(challenger) {
		return nil, ErrNotInGame
	}
	if !game.IsMember(params.Opponent) {
		return nil, ErrOpponentNotInGame
	}
	state, err := tx.PlayerState(gameID, challenger)
	if err != nil {
		return nil, err
	}
	if _, err := tx.PlayerState(gameID, params.Opponent); err != nil {
		return nil, err
	}
	if state.VirtualBalance < params.BetAmount {
		return nil, ErrInsufficientBalance
	}
	if !state.CanChallenge(params.Opponent, game.Phase2MaxPerOpponent) {
		return nil, ErrMaxGamesPerOpponent
	}

	createdAt := params.Timestamp
	if createdAt <= 0 {
		createdAt = tx.now
	}
	challenge := &Challenge{
		ID:         uuid.NewString(),
		GameID:     gameID,
		Challenger: challenger,
		Opponent:   params.Opponent,
		BetAmount:  params.BetAmount,
		Type:       params.Type,
		Status:     ChallengePending,
		CreatedAt:  createdAt,
	}
	tx.putChallenge(challenge)
	tx.emit(Event{
		Type:        EventChallengeCreated,
		GameID:      gameID,
		Player:      challenger,
		Opponent:    params.Opponent,
		ChallengeID: challenge.ID,
		Amount:      params.BetAmount,
		Reason:      string(params.Type),
	})
	return challenge, nil
}

// loadChallenge returns the challenge together with its game, which must
// still be in the challenge phase.
func (tx *Tx) loadChallenge(challengeID string) (*Challenge, *Game, error) {
	challenge, err := tx.Challenge(challengeID)
	if err != nil {
		return nil, nil, err
	}
	game, err := tx.phase2Game(challenge.GameID)
	if err != nil {
		return nil, nil, err
	}
	return challenge, game, nil
}

// respondChallenge accepts or declines a pending challenge. The fifth decline
// forces the challenge through.
func (tx *Tx) respondChallenge(challengeID, caller string, accept bool) (*Challenge, error) {
	challenge, _, err := tx.loadChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.Status != ChallengePending {
		return nil, ErrInvalidChallengeStatus
	}
	if caller != challenge.Opponent {
		return nil, ErrNotChallengeOpponent
	}

	if accept {
		state, err := tx.PlayerState(challenge.GameID, caller)
		if err != nil {
			return nil, err
		}
		if state.VirtualBalance < challenge.BetAmount {
			return nil, ErrInsufficientBalance
		}
		challenge.Status = ChallengeAccepted
		challenge.AcceptedAt = tx.now
		tx.emit(Event{
			Type:        EventChallengeAccepted,
			GameID:      challenge.GameID,
			Player:      caller,
			Opponent:    challenge.Challenger,
			ChallengeID: challenge.ID,
			Amount:      challenge.BetAmount,
		})
	} else {
		challenge.Declines++
		if challenge.Declines >= MaxOpponentDeclines {
			challenge.Status = ChallengeForcedAccept
			challenge.AcceptedAt = tx.now
		}
		tx.emit(Event{
			Type:        EventChallengeDeclined,
			GameID:      challenge.GameID,
			Player:      caller,
			Opponent:    challenge.Challenger,
			ChallengeID: challenge.ID,
			Count:       challenge.Declines,
			Reason:      string(challenge.Status),
		})
	}
	tx.putChallenge(challenge)
	return challenge, nil
}

func (tx *Tx) readyForGame(challengeID, caller string) (*Challenge, error) {
	challenge, _, err := tx.loadChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	switch challenge.Status {
	case ChallengeAccepted, ChallengeForcedAccept, ChallengeBothReady:
	default:
		return nil, ErrInvalidChallengeStatus
	}
	if !challenge.isParticipant(caller) {
		return nil, ErrNotChallengeParticipant
	}
	if challenge.Status == ChallengeBothReady {
		return challenge, nil
	}
	challenge.Status = ChallengeBothReady
	tx.putChallenge(challenge)
	tx.emit(Event{
		Type:        EventChallengeReady,
		GameID:      challenge.GameID,
		Player:      caller,
		ChallengeID: challenge.ID,
	})
	return challenge, nil
}

func (tx *Tx) startMiniGame(challengeID, caller string) (*Challenge, error) {
	challenge, _, err := tx.loadChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.Status != ChallengeBothReady {
		return nil, ErrInvalidChallengeStatus
	}
	if !challenge.isParticipant(caller) {
		return nil, ErrNotChallengeParticipant
	}
	challenge.Status = ChallengeInProgress
	challenge.StartedAt = tx.now
	tx.putChallenge(challenge)
	tx.emit(Event{
		Type:        EventMiniGameStarted,
		GameID:      challenge.GameID,
		Player:      caller,
		ChallengeID: challenge.ID,
		Reason:      string(challenge.Type),
	})
	return challenge, nil
}

// claimMiniGameWin moves the bet from the loser to winner and records the
// game on both players.
func (tx *Tx) claimMiniGameWin(challengeID, caller, winner string) (*Challenge, error) {
	challenge, _, err := tx.loadChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.Status != ChallengeInProgress {
		return nil, ErrInvalidChallengeStatus
	}
	if !challenge.isParticipant(winner) {
		return nil, ErrInvalidWinner
	}
	if !challenge.isParticipant(caller) {
		return nil, ErrNotChallengeParticipant
	}
	loser := challenge.Opponent
	if winner == challenge.Opponent {
		loser = challenge.Challenger
	}

	winnerState, err := tx.PlayerState(challenge.GameID, winner)
	if err != nil {
		return nil, err
	}
	loserState, err := tx.PlayerState(challenge.GameID, loser)
	if err != nil {
		return nil, err
	}
	if loserState.VirtualBalance < challenge.BetAmount {
		return nil, ErrInsufficientBalance
	}
	credited, err := addAmount(winnerState.VirtualBalance, challenge.BetAmount)
	if err != nil {
		return nil, err
	}
	loserState.VirtualBalance -= challenge.BetAmount
	winnerState.VirtualBalance = credited
	winnerState.recordGame(loser, true)
	loserState.recordGame(winner, false)

	challenge.Status = ChallengeCompleted
	challenge.Winner = winner
	tx.putPlayerState(winnerState)
	tx.putPlayerState(loserState)
	tx.putChallenge(challenge)
	tx.emit(Event{
		Type:        EventMiniGameCompleted,
		GameID:      challenge.GameID,
		Player:      winner,
		Opponent:    loser,
		ChallengeID: challenge.ID,
		Amount:      challenge.BetAmount,
		Reason:      "claimed_by:" + caller,
	})
	return challenge, nil
}

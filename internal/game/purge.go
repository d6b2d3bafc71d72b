package game

func (tx *Tx) purgeGame(gameID uint64) (*Game, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase != 3 {
		return nil, ErrInvalidPhase
	}
	return game, nil
}

// advanceToPhase3 opens the purge. The creator may do it as soon as Phase 2
// ends; anyone else must also wait NonCreatorAdvanceDelay into the phase.
func (tx *Tx) advanceToPhase3(gameID uint64, caller string) (*Game, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase != 2 {
		return nil, ErrInvalidPhase
	}
	if game.Status != StatusInProgress {
		return nil, ErrInvalidGameStatus
	}
	if caller != game.Creator && tx.now-game.PhaseStart < NonCreatorAdvanceDelay {
		return nil, ErrOnlyCreatorCanAdvanceEarly
	}
	if tx.now < game.PhaseEnd {
		return nil, ErrPhaseNotEnded
	}
	tx.nextPhase(game, Phase3ReadyWindow, 0)
	return game, nil
}

func (tx *Tx) markReadyPhase3(gameID uint64, player string) (*Game, error) {
	game, err := tx.purgeGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase3Started {
		return nil, ErrPhase3AlreadyStarted
	}
	if game.Status != StatusInProgress {
		return nil, ErrInvalidGameStatus
	}
	if tx.now > game.ActiveReadyDeadline() {
		return nil, ErrReadyDeadlineExpired
	}
	if !game.IsMember(player) {
		return nil, ErrNotInGame
	}

	record := tx.ReadyRecord(gameID, player)
	if record.Ready {
		return game, nil
	}
	record.Ready = true
	record.MarkedAt = tx.now
	game.Phase3ReadyCount++
	tx.putReady(record)
	tx.putGame(game)
	tx.emit(Event{
		Type:   EventPlayerReady,
		GameID: gameID,
		Player: player,
		Count:  game.Phase3ReadyCount,
	})
	return game, nil
}

// startPhase3Game resolves the ready window. With nobody ready the window is
// extended once and the second time the game ends without a winner. A single
// ready player wins outright. Two or more start the purge itself.
func (tx *Tx) startPhase3Game(gameID uint64, caller string) (*Game, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	game, err := tx.purgeGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase3Started {
		return nil, ErrPhase3AlreadyStarted
	}
	if game.Status != StatusInProgress {
		return nil, ErrInvalidGameStatus
	}
	eligible := len(tx.eligiblePlayers(game))
	allReady := eligible > 0 && game.Phase3ReadyCount == eligible
	if tx.now < game.ActiveReadyDeadline() && !allReady {
		return nil, ErrReadyPeriodNotExpired
	}

	switch {
	case game.Phase3ReadyCount == 0 && game.Phase3ExtendedDeadline == 0:
		game.Phase3ExtendedDeadline = tx.now + Phase3ExtendedWindow
		tx.emit(Event{
			Type:     EventPurgeExtended,
			GameID:   gameID,
			Player:   caller,
			PhaseEnd: game.Phase3ExtendedDeadline,
		})
	case game.Phase3ReadyCount == 0:
		game.Status = StatusCompleted
		tx.emit(Event{Type: EventGameEndedNoWinner, GameID: gameID, Player: caller})
	case game.Phase3ReadyCount == 1:
		ready := tx.readyPlayers(game)
		if len(ready) == 0 {
			return nil, ErrReadyPlayerNotFound
		}
		if err := tx.declareWinner(game, ready[0], "last_player_standing"); err != nil {
			return nil, err
		}
	default:
		game.Phase3Started = true
		tx.emit(Event{
			Type:   EventPurgeStarted,
			GameID: gameID,
			Player: caller,
			Count:  game.Phase3ReadyCount,
		})
	}
	tx.putGame(game)
	return game, nil
}

// declareWinner completes the game and accrues the platform fee.
func (tx *Tx) declareWinner(game *Game, winner, reason string) error {
	fee, err := percentOf(game.PrizePool, PlatformFeePercent)
	if err != nil {
		return err
	}
	collected, err := addAmount(game.FeeCollected, fee)
	if err != nil {
		return err
	}
	game.FeeCollected = collected
	game.Phase3Winner = winner
	game.Status = StatusCompleted
	tx.putGame(game)
	tx.emit(Event{
		Type:   EventPhase3WinnerDeclared,
		GameID: game.ID,
		Player: winner,
		Amount: game.PrizePool - fee,
		Fee:    fee,
		Reason: reason,
	})
	return nil
}

func (tx *Tx) submitPhase3Winner(gameID uint64, submitter, winner string) (*Game, error) {
	game, err := tx.purgeGame(gameID)
	if err != nil {
		return nil, err
	}
	if submitter != game.Creator {
		if err := tx.requireAdmin(submitter); err != nil {
			return nil, ErrUnauthorized
		}
	}
	if !game.Phase3Started {
		return nil, ErrPhase3NotStarted
	}
	if game.Phase3Winner != "" {
		return nil, ErrWinnerAlreadyDeclared
	}
	if !game.IsMember(winner) {
		return nil, ErrNotInGame
	}
	if err := tx.declareWinner(game, winner, "submitted_by:"+submitter); err != nil {
		return nil, err
	}
	return game, nil
}

// claimPhase3Prize pays the winner everything in escrow except the unpaid
// platform fee.
func (tx *Tx) claimPhase3Prize(gameID uint64, caller string) (*Game, error) {
	game, err := tx.purgeGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != StatusCompleted {
		return nil, ErrGameNotCompleted
	}
	if game.Phase3Winner == "" {
		return nil, ErrNoWinnerDeclared
	}
	if game.Phase3PrizeClaimed {
		return nil, ErrAlreadyClaimed
	}
	if caller != game.Phase3Winner {
		return nil, ErrNotWinner
	}
	if game.PrizePool <= game.FeeCollected {
		return nil, ErrNoPrizeToCollect
	}
	prize := game.PrizePool - game.FeeCollected
	if err := tx.release(game, caller, prize, PayoutPrize); err != nil {
		return nil, err
	}
	game.Phase3PrizeClaimed = true
	if state, err := tx.PlayerState(gameID, caller); err == nil {
		state.PrizeClaimed = true
		tx.putPlayerState(state)
	}
	tx.putGame(game)
	tx.emit(Event{
		Type:   EventPhase3PrizeClaimed,
		GameID: gameID,
		Player: caller,
		Amount: prize,
	})
	return game, nil
}

func (tx *Tx) claimPlatformFee(gameID uint64, caller string) (*Game, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if caller != game.Creator {
		return nil, ErrNotCreator
	}
	if game.FeeCollected == 0 {
		return nil, ErrNoFeeToCollect
	}
	fee := game.FeeCollected
	if err := tx.release(game, caller, fee, PayoutPlatformFee); err != nil {
		return nil, err
	}
	game.FeeCollected = 0
	game.FeeClaimed = true
	tx.putGame(game)
	tx.emit(Event{
		Type:   EventPlatformFeeClaimed,
		GameID: gameID,
		Player: caller,
		Fee:    fee,
	})
	return game, nil
}

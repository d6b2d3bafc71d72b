package game

// adminStartGame starts a game without the creator and without the upper
// bound of the start window.
func (tx *Tx) adminStartGame(gameID uint64, admin string) (*Game, error) {
	if err := tx.requireAdmin(admin); err != nil {
		return nil, err
	}
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if err := checkStartable(game); err != nil {
		return nil, err
	}
	if tx.now < game.StartTime {
		return nil, ErrStartWindowNotOpen
	}
	tx.beginGame(game, admin)
	return game, nil
}

// adminAdvancePhase skips the advance buffer. A purge entered this way gets
// the short admin ready windows.
func (tx *Tx) adminAdvancePhase(gameID uint64, admin string) (*Game, error) {
	if err := tx.requireAdmin(admin); err != nil {
		return nil, err
	}
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if !game.Started {
		return nil, ErrGameNotStarted
	}
	if game.Status != StatusInProgress {
		return nil, ErrInvalidGameStatus
	}
	if game.Phase >= 3 {
		return nil, ErrInvalidPhase
	}
	if tx.now < game.PhaseEnd {
		return nil, ErrPhaseNotEnded
	}
	tx.nextPhase(game, AdminReadyWindow, AdminExtendedWindow)
	return game, nil
}

// adminClosePurgeNoReady settles a purge nobody opted into: a quarter of the
// pool goes to the admin and the rest is split evenly among members that met
// the Phase 2 requirement. The division remainder stays in escrow.
func (tx *Tx) adminClosePurgeNoReady(gameID uint64, admin string) (*Game, error) {
	if err := tx.requireAdmin(admin); err != nil {
		return nil, err
	}
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase != 3 {
		return nil, ErrInvalidPhase
	}
	if game.Phase3ExtendedDeadline == 0 || tx.now <= game.Phase3ExtendedDeadline {
		return nil, ErrReadyPeriodNotExpired
	}
	if game.Phase3ReadyCount > 0 {
		return nil, ErrSomePlayersReady
	}
	if game.Redistributed {
		return nil, ErrAlreadyRedistributed
	}

	eligible := tx.eligiblePlayers(game)
	if len(eligible) == 0 {
		return nil, ErrNoPurgePlayersFound
	}
	adminShare, err := percentOf(game.PrizePool, AdminShareNoReadyPercent)
	if err != nil {
		return nil, err
	}
	playersTotal := game.PrizePool - adminShare
	share := playersTotal / uint64(len(eligible))

	if err := tx.release(game, admin, adminShare, PayoutAdminShare); err != nil {
		return nil, err
	}
	if share > 0 {
		for _, player := range eligible {
			if err := tx.release(game, player, share, PayoutPlayerShare); err != nil {
				return nil, err
			}
		}
	}

	game.Status = StatusCompleted
	game.Redistributed = true
	tx.putGame(game)
	tx.emit(Event{
		Type:   EventGameClosedNoReady,
		GameID: gameID,
		Player: admin,
		Amount: share,
		Fee:    adminShare,
		Count:  len(eligible),
	})
	return game, nil
}

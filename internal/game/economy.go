package game

func (tx *Tx) initPlayerState(gameID uint64, player string) (*PlayerState, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if !game.Started {
		return nil, ErrGameNotStarted
	}
	if !game.IsMember(player) {
		return nil, ErrNotInGame
	}
	if _, err := tx.PlayerState(gameID, player); err == nil {
		return nil, ErrPlayerStateExists
	}
	balance, err := mulAmount(game.EntryFee, InitialBalanceMultiplier)
	if err != nil {
		return nil, err
	}
	state := &PlayerState{
		GameID:         gameID,
		Player:         player,
		VirtualBalance: balance,
		LastClaimTime:  tx.now,
		Opponents:      []OpponentRecord{},
	}
	tx.putPlayerState(state)
	tx.emit(Event{
		Type:   EventPlayerStateInitialized,
		GameID: gameID,
		Player: player,
		Amount: balance,
	})
	return state, nil
}

func (tx *Tx) initPoolState(gameID uint64, caller string) (*PoolState, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if !game.Started {
		return nil, ErrGameNotStarted
	}
	if _, err := tx.Pool(gameID); err == nil {
		return nil, ErrPoolStateExists
	}
	pool := &PoolState{
		GameID:        gameID,
		MarketState:   MarketNormal,
		LastEventTime: tx.now,
	}
	tx.putPool(pool)
	tx.emit(Event{Type: EventPoolStateInitialized, GameID: gameID, Player: caller})
	return pool, nil
}

func (a Allocations) total() (uint64, error) {
	var sum uint64
	for _, v := range []uint64{a.Mining, a.Farming, a.Trading, a.Research, a.Social} {
		var err error
		if sum, err = addAmount(sum, v); err != nil {
			return 0, err
		}
	}
	return sum, nil
}

// apply adds an allocation to the pool totals, or takes it out when remove
// is set.
func (p *PoolState) apply(a Allocations, remove bool) error {
	op := addAmount
	if remove {
		op = subAmount
	}
	fields := []struct {
		total  *uint64
		amount uint64
	}{
		{&p.MiningTotal, a.Mining},
		{&p.FarmingTotal, a.Farming},
		{&p.TradingTotal, a.Trading},
		{&p.ResearchTotal, a.Research},
		{&p.SocialTotal, a.Social},
	}
	for _, f := range fields {
		v, err := op(*f.total, f.amount)
		if err != nil {
			return err
		}
		*f.total = v
	}
	if a.Social > 0 {
		if remove {
			if p.SocialParticipants > 0 {
				p.SocialParticipants--
			}
		} else {
			p.SocialParticipants++
		}
	}
	return nil
}

func (tx *Tx) submitAllocations(gameID uint64, player string, alloc Allocations) (*PlayerState, *PoolState, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, nil, err
	}
	if game.Phase != 1 {
		return nil, nil, ErrInvalidPhase
	}
	state, err := tx.PlayerState(gameID, player)
	if err != nil {
		return nil, nil, err
	}
	pool, err := tx.Pool(gameID)
	if err != nil {
		return nil, nil, err
	}
	total, err := alloc.total()
	if err != nil {
		return nil, nil, err
	}
	if total != state.VirtualBalance {
		return nil, nil, ErrInvalidAllocation.WithMetadata(map[string]string{
			"allocated": formatAmount(total),
			"balance":   formatAmount(state.VirtualBalance),
		})
	}

	if state.HasActiveAllocation {
		if err := pool.apply(state.Allocations, true); err != nil {
			return nil, nil, err
		}
	}
	if err := pool.apply(alloc, false); err != nil {
		return nil, nil, err
	}
	state.Allocations = alloc
	state.HasActiveAllocation = true

	tx.putPool(pool)
	tx.putPlayerState(state)
	tx.emit(Event{
		Type:   EventAllocationsSubmitted,
		GameID: gameID,
		Player: player,
		Amount: total,
	})
	return state, pool, nil
}

// claimRewards credits the rewards accrued since the last claim. Time past
// the end of Phase 1 does not count.
func (tx *Tx) claimRewards(gameID uint64, player string) (*PlayerState, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase != 1 {
		return nil, ErrInvalidPhase
	}
	state, err := tx.PlayerState(gameID, player)
	if err != nil {
		return nil, err
	}
	pool, err := tx.Pool(gameID)
	if err != nil {
		return nil, err
	}
	if !state.HasActiveAllocation {
		return state, nil
	}
	effective := min(tx.now, game.PhaseEnd)
	elapsed := effective - state.LastClaimTime
	if elapsed <= 0 {
		return state, nil
	}

	reward, err := accruedRewards(state.Allocations, pool, elapsed)
	if err != nil {
		return nil, err
	}
	balance, err := addAmount(state.VirtualBalance, reward)
	if err != nil {
		return nil, err
	}
	earned, err := addAmount(state.TotalEarned, reward)
	if err != nil {
		return nil, err
	}
	state.VirtualBalance = balance
	state.TotalEarned = earned
	state.LastClaimTime = effective
	tx.putPlayerState(state)
	tx.emit(Event{
		Type:   EventRewardsClaimed,
		GameID: gameID,
		Player: player,
		Amount: reward,
	})
	return state, nil
}

// claimPhaseEndRewards settles the Phase 2 participation requirement once
// the game is in the purge. Calls in other phases, or after settlement, leave
// the state unchanged.
func (tx *Tx) claimPhaseEndRewards(gameID uint64, player string) (*PlayerState, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if game.Phase <= 1 {
		return nil, ErrPhaseNotEnded
	}
	state, err := tx.PlayerState(gameID, player)
	if err != nil {
		return nil, err
	}
	if game.Phase != 3 || state.RequirementMet || state.PenaltyApplied {
		return state, nil
	}

	if state.MeetsRequirement(game.Phase2Required) {
		state.RequirementMet = true
		tx.emit(Event{
			Type:     EventPhase2RequirementMet,
			GameID:   gameID,
			Player:   player,
			Count:    state.GamesPlayed,
			Required: game.Phase2Required,
		})
	} else {
		penalty := state.VirtualBalance / 2
		state.VirtualBalance -= penalty
		state.PenaltyApplied = true
		tx.emit(Event{
			Type:     EventPhase2PenaltyApplied,
			GameID:   gameID,
			Player:   player,
			Amount:   penalty,
			Count:    state.GamesPlayed,
			Required: game.Phase2Required,
		})
	}
	tx.putPlayerState(state)
	return state, nil
}

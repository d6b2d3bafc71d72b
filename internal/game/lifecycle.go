package game

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

func (tx *Tx) createGame(creator string, params CreateGameParams) (*Game, error) {
	if err := requireIdentity(creator); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(params.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxGameNameLength {
		return nil, ErrInvalidGameName
	}
	if params.MaxPlayers < MinMaxPlayers || params.MaxPlayers > MaxPlayersAllowed {
		return nil, ErrInvalidMaxPlayers
	}
	if params.EntryFee == 0 {
		return nil, ErrInvalidEntryFee
	}
	if params.StartTime <= tx.now {
		return nil, ErrInvalidStartTime
	}
	if params.DurationHours < MinDurationHours || params.DurationHours > MaxDurationHours {
		return nil, ErrInvalidGameDuration
	}

	id, err := tx.nextGameID()
	if err != nil {
		return nil, err
	}

	perPhase := int64(params.DurationHours) * secondsPerHour / 3
	durations := PhaseDurations{Phase1: perPhase, Phase2: perPhase, Phase3: perPhase}
	required, maxPerOpponent := Phase2Requirements(params.MaxPlayers, durations.Phase2)

	game := &Game{
		ID:                   id,
		Name:                 name,
		Slug:                 fmt.Sprintf("%s-%d", slug.Make(name), id),
		Creator:              creator,
		EntryFee:             params.EntryFee,
		MaxPlayers:           params.MaxPlayers,
		Players:              []string{},
		StartTime:            params.StartTime,
		ExpireTime:           params.StartTime + StartGracePeriod,
		Status:               StatusWaitingForPlayers,
		Refunded:             []string{},
		Durations:            durations,
		Phase2Required:       required,
		Phase2MaxPerOpponent: maxPerOpponent,
		CreatedAt:            tx.now,
	}
	tx.putGame(game)
	tx.emit(Event{
		Type:     EventGameCreated,
		GameID:   id,
		Player:   creator,
		Amount:   params.EntryFee,
		Count:    params.MaxPlayers,
		Required: required,
	})
	return game, nil
}

func (tx *Tx) enterGame(gameID uint64, player string) (*Game, error) {
	if err := requireIdentity(player); err != nil {
		return nil, err
	}
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != StatusWaitingForPlayers {
		return nil, ErrGameNotOpen
	}
	if game.Started {
		return nil, ErrGameAlreadyStarted
	}
	if game.CurrentPlayers() >= game.MaxPlayers {
		return nil, ErrGameFull
	}
	if game.IsMember(player) {
		return nil, ErrAlreadyJoined
	}
	if tx.now >= game.StartTime {
		return nil, ErrGameExpired
	}

	if err := escrow(game, game.EntryFee); err != nil {
		return nil, err
	}
	game.Players = append(game.Players, player)
	if game.CurrentPlayers() == game.MaxPlayers {
		game.Status = StatusReadyToStart
	}
	tx.putGame(game)
	tx.emit(Event{
		Type:   EventPlayerJoined,
		GameID: gameID,
		Player: player,
		Amount: game.EntryFee,
		Count:  game.CurrentPlayers(),
	})
	return game, nil
}

// checkStartable holds the rules shared by the creator and admin start paths.
func checkStartable(game *Game) error {
	if game.Started {
		return ErrGameAlreadyStarted
	}
	if !game.Status.preStart() {
		return ErrInvalidGameStatus
	}
	if game.CurrentPlayers() < MinPlayersToStart {
		return ErrNotEnoughPlayers
	}
	return nil
}

func (tx *Tx) startGame(gameID uint64, caller string) (*Game, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if caller != game.Creator {
		return nil, ErrNotCreator
	}
	if err := checkStartable(game); err != nil {
		return nil, err
	}
	if tx.now < game.StartTime {
		return nil, ErrStartWindowNotOpen
	}
	if tx.now > game.StartTime+StartGracePeriod {
		return nil, ErrStartWindowExpired
	}
	tx.beginGame(game, caller)
	return game, nil
}

func (tx *Tx) beginGame(game *Game, by string) {
	game.Started = true
	game.Status = StatusInProgress
	tx.enterPhase(game, 1)
	tx.putGame(game)
	tx.emit(Event{
		Type:     EventGameStarted,
		GameID:   game.ID,
		Player:   by,
		Count:    game.CurrentPlayers(),
		Phase:    1,
		PhaseEnd: game.PhaseEnd,
	})
}

// enterPhase moves game into phase and restarts its phase clock.
func (tx *Tx) enterPhase(game *Game, phase int) {
	game.Phase = phase
	game.PhaseStart = tx.now
	game.PhaseEnd = tx.now + game.Durations.forPhase(phase)
	game.AdvanceDeadline = game.PhaseEnd + PhaseAdvanceBuffer
}

// enterPurge moves game into phase 3 with the given ready window and clears
// any leftover purge state.
func (tx *Tx) enterPurge(game *Game, readyWindow, extendedWindow int64) {
	tx.enterPhase(game, 3)
	game.Phase3ReadyDeadline = tx.now + readyWindow
	game.Phase3ExtendedDeadline = 0
	if extendedWindow > 0 {
		game.Phase3ExtendedDeadline = tx.now + extendedWindow
	}
	game.Phase3ReadyCount = 0
	game.Phase3Started = false
	game.Phase3Winner = ""
}

func (tx *Tx) cancelGame(gameID uint64, caller string) (*Game, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if caller != game.Creator {
		return nil, ErrNotCreator
	}
	if game.Started {
		return nil, ErrGameAlreadyStarted
	}
	if !game.Status.preStart() {
		return nil, ErrInvalidGameStatus
	}
	if tx.now > game.StartTime+StartGracePeriod {
		return nil, ErrCancelWindowExpired
	}
	game.Status = StatusCancelled
	tx.putGame(game)
	tx.emit(Event{
		Type:   EventGameCancelled,
		GameID: gameID,
		Player: caller,
		Count:  game.CurrentPlayers(),
	})
	return game, nil
}

// refund releases one entry fee to player and marks them refunded.
func (tx *Tx) refund(game *Game, player string, kind PayoutKind) error {
	if err := tx.release(game, player, game.EntryFee, kind); err != nil {
		return err
	}
	game.Refunded = append(game.Refunded, player)
	return nil
}

func (tx *Tx) claimRefund(gameID uint64, player string) (*Game, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if !game.Status.refundable() {
		return nil, ErrGameNotCancelled
	}
	if !game.IsMember(player) {
		return nil, ErrNotInGame
	}
	if game.IsRefunded(player) {
		return nil, ErrAlreadyRefunded
	}
	if player == game.Creator && game.Status == StatusExpiredWithPenalty {
		return nil, ErrCreatorForfeitedFunds
	}
	if err := tx.refund(game, player, PayoutRefund); err != nil {
		return nil, err
	}
	tx.putGame(game)
	tx.emit(Event{
		Type:   EventRefundClaimed,
		GameID: gameID,
		Player: player,
		Amount: game.EntryFee,
	})
	return game, nil
}

// forceRefund lets a member recover their entry once the creator let the
// start window lapse. The creator is the party at fault and gets nothing.
func (tx *Tx) forceRefund(gameID uint64, player string) (*Game, error) {
	game, err := tx.Game(gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsMember(player) {
		return nil, ErrNotInGame
	}
	if game.IsRefunded(player) {
		return nil, ErrAlreadyRefunded
	}
	if game.Started {
		return nil, ErrGameAlreadyStarted
	}
	if !game.Status.preStart() && game.Status != StatusExpiredWithPenalty {
		return nil, ErrInvalidRefundCondition
	}
	if tx.now < game.StartTime+StartGracePeriod {
		return nil, ErrRefundNotYetAvailable
	}
	if player == game.Creator {
		return nil, ErrCreatorForfeitedFunds
	}

	if game.Status != StatusExpiredWithPenalty {
		reason := "should_have_cancelled"
		if game.CurrentPlayers() >= MinPlayersToStart {
			reason = "should_have_started"
		}
		game.Status = StatusExpiredWithPenalty
		tx.emit(Event{
			Type:   EventGameExpiredWithPenalty,
			GameID: gameID,
			Player: game.Creator,
			Count:  game.CurrentPlayers(),
			Reason: reason,
		})
	}
	if err := tx.refund(game, player, PayoutForcedRefund); err != nil {
		return nil, err
	}
	tx.putGame(game)
	tx.emit(Event{
		Type:   EventForcedRefundClaimed,
		GameID: gameID,
		Player: player,
		Amount: game.EntryFee,
	})
	return game, nil
}

func (tx *Tx) advancePhase(gameID uint64, caller string) (*Game, error) {
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
	if game.Status != StatusInProgress {
		return nil, ErrInvalidGameStatus
	}
	if game.Phase >= 3 {
		return nil, ErrInvalidPhase
	}
	if tx.now < game.PhaseEnd {
		return nil, ErrPhaseNotEnded
	}
	if caller != game.Creator && tx.now < game.AdvanceDeadline {
		return nil, ErrNotAuthorizedToAdvance
	}
	tx.nextPhase(game, Phase3ReadyWindow, 0)
	return game, nil
}

func (tx *Tx) nextPhase(game *Game, readyWindow, extendedWindow int64) {
	if game.Phase == 2 {
		tx.enterPurge(game, readyWindow, extendedWindow)
	} else {
		tx.enterPhase(game, game.Phase+1)
	}
	tx.putGame(game)
	tx.emit(Event{
		Type:     EventPhaseAdvanced,
		GameID:   game.ID,
		Phase:    game.Phase,
		PhaseEnd: game.PhaseEnd,
	})
}

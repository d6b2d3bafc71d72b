package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// purgeGame returns a game just entered into Phase 3. Only the listed players
// have settled their Phase 2 requirement, which makes them eligible.
func purgeGame(t *testing.T, qualified ...string) (*fixture, *Game) {
	f, game := challengeGame(t)
	isQualified := map[string]bool{}
	for _, player := range qualified {
		isQualified[player] = true
	}
	if isQualified["alice"] || isQualified["bob"] || isQualified["carol"] {
		f.playChallenge(game.ID, "alice", "bob", "alice", 0)
		f.playChallenge(game.ID, "alice", "bob", "bob", 0)
		f.playChallenge(game.ID, "alice", "carol", "alice", 0)
		f.playChallenge(game.ID, "bob", "carol", "carol", 0)
		f.playChallenge(game.ID, "carol", "bob", "bob", 0)
	}
	game = f.toNextPhase(game.ID)
	for _, player := range game.Players {
		if isQualified[player] {
			_, err := f.engine.ClaimPhaseEndRewards(f.ctx, game.ID, player)
			require.NoError(t, err)
		}
	}
	return f, game
}

func TestAdvanceToPhase3(t *testing.T) {
	f, game := challengeGame(t)

	f.clock.set(game.PhaseStart + NonCreatorAdvanceDelay - 1)
	_, err := f.engine.AdvanceToPhase3(f.ctx, game.ID, "alice")
	assert.ErrorIs(t, err, ErrOnlyCreatorCanAdvanceEarly)
	_, err = f.engine.AdvanceToPhase3(f.ctx, game.ID, testCreator)
	assert.ErrorIs(t, err, ErrPhaseNotEnded)

	f.clock.set(game.PhaseEnd)
	receipt, err := f.engine.AdvanceToPhase3(f.ctx, game.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, receipt.Game.Phase)
	assert.Equal(t, f.engine.Now()+Phase3ReadyWindow, receipt.Game.Phase3ReadyDeadline)
	assert.Zero(t, receipt.Game.Phase3ReadyCount)

	_, err = f.engine.AdvanceToPhase3(f.ctx, game.ID, testCreator)
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestMarkReadyIsIdempotent(t *testing.T) {
	f, game := purgeGame(t, "alice", "bob", "carol")

	receipt, err := f.engine.MarkReadyPhase3(f.ctx, game.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Game.Phase3ReadyCount)

	receipt, err = f.engine.MarkReadyPhase3(f.ctx, game.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Game.Phase3ReadyCount)
	assert.Empty(t, receipt.Events)

	_, err = f.engine.MarkReadyPhase3(f.ctx, game.ID, "mallory")
	assert.ErrorIs(t, err, ErrNotInGame)

	f.clock.set(game.Phase3ReadyDeadline + 1)
	_, err = f.engine.MarkReadyPhase3(f.ctx, game.ID, "bob")
	assert.ErrorIs(t, err, ErrReadyDeadlineExpired)
}

func TestStartPhase3WaitsForDeadline(t *testing.T) {
	f, game := purgeGame(t, "alice", "bob", "carol")
	_, err := f.engine.MarkReadyPhase3(f.ctx, game.ID, "alice")
	require.NoError(t, err)

	_, err = f.engine.StartPhase3Game(f.ctx, game.ID, "alice")
	assert.ErrorIs(t, err, ErrReadyPeriodNotExpired)
}

func TestStartPhase3WhenAllEligibleReady(t *testing.T) {
	f, game := purgeGame(t, "alice", "bob", "carol")
	for _, player := range []string{"alice", "bob", "carol"} {
		_, err := f.engine.MarkReadyPhase3(f.ctx, game.ID, player)
		require.NoError(t, err)
	}
	receipt, err := f.engine.StartPhase3Game(f.ctx, game.ID, "alice")
	require.NoError(t, err)
	assert.True(t, receipt.Game.Phase3Started)

	_, err = f.engine.MarkReadyPhase3(f.ctx, game.ID, "bob")
	assert.ErrorIs(t, err, ErrPhase3AlreadyStarted)
	_, err = f.engine.StartPhase3Game(f.ctx, game.ID, "alice")
	assert.ErrorIs(t, err, ErrPhase3AlreadyStarted)
}

func TestSingleReadyPlayerWins(t *testing.T) {
	f, game := purgeGame(t, "alice", "bob", "carol")
	_, err := f.engine.MarkReadyPhase3(f.ctx, game.ID, "carol")
	require.NoError(t, err)

	f.clock.set(game.Phase3ReadyDeadline)
	receipt, err := f.engine.StartPhase3Game(f.ctx, game.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "carol", receipt.Game.Phase3Winner)
	assert.Equal(t, StatusCompleted, receipt.Game.Status)
	assert.Equal(t, uint64(3), receipt.Game.FeeCollected)

	_, err = f.engine.StartPhase3Game(f.ctx, game.ID, "bob")
	assert.ErrorIs(t, err, ErrInvalidGameStatus)

	// the fee can be claimed before the prize without shorting the winner
	_, err = f.engine.ClaimPlatformFee(f.ctx, game.ID, testCreator)
	require.NoError(t, err)
	receipt, err = f.engine.ClaimPhase3Prize(f.ctx, game.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, uint64(297), receipt.Payouts[0].Amount)
	assert.Equal(t, uint64(0), receipt.Game.PrizePool)
	assert.Equal(t, receipt.Game.TotalEscrowed, receipt.Game.TotalPaidOut)
}

func TestNobodyReadyExtendsThenEnds(t *testing.T) {
	f, game := purgeGame(t, "alice", "bob", "carol")

	f.clock.set(game.Phase3ReadyDeadline)
	receipt, err := f.engine.StartPhase3Game(f.ctx, game.ID, "alice")
	require.NoError(t, err)
	extended := receipt.Game.Phase3ExtendedDeadline
	assert.Equal(t, f.engine.Now()+Phase3ExtendedWindow, extended)
	assert.Equal(t, StatusInProgress, receipt.Game.Status)

	// the extension reopens the ready window
	_, err = f.engine.StartPhase3Game(f.ctx, game.ID, "alice")
	assert.ErrorIs(t, err, ErrReadyPeriodNotExpired)

	f.clock.set(extended)
	receipt, err = f.engine.StartPhase3Game(f.ctx, game.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, receipt.Game.Status)
	assert.Empty(t, receipt.Game.Phase3Winner)
	assert.Empty(t, receipt.Payouts)
	assert.Equal(t, uint64(300), receipt.Game.PrizePool)

	_, err = f.engine.ClaimPhase3Prize(f.ctx, game.ID, "alice")
	assert.ErrorIs(t, err, ErrNoWinnerDeclared)
}

func TestSubmitPhase3Winner(t *testing.T) {
	f, game := purgeGame(t, "alice", "bob", "carol")

	_, err := f.engine.SubmitPhase3Winner(f.ctx, game.ID, testCreator, "alice")
	assert.ErrorIs(t, err, ErrPhase3NotStarted)

	for _, player := range []string{"alice", "bob", "carol"} {
		_, err := f.engine.MarkReadyPhase3(f.ctx, game.ID, player)
		require.NoError(t, err)
	}
	_, err = f.engine.StartPhase3Game(f.ctx, game.ID, "alice")
	require.NoError(t, err)

	_, err = f.engine.SubmitPhase3Winner(f.ctx, game.ID, "alice", "alice")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.engine.SubmitPhase3Winner(f.ctx, game.ID, testAdmin, "mallory")
	assert.ErrorIs(t, err, ErrNotInGame)

	receipt, err := f.engine.SubmitPhase3Winner(f.ctx, game.ID, testAdmin, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", receipt.Game.Phase3Winner)

	_, err = f.engine.SubmitPhase3Winner(f.ctx, game.ID, testCreator, "alice")
	assert.ErrorIs(t, err, ErrWinnerAlreadyDeclared)

	_, err = f.engine.ClaimPhase3Prize(f.ctx, game.ID, "alice")
	assert.ErrorIs(t, err, ErrNotWinner)
	_, err = f.engine.ClaimPlatformFee(f.ctx, game.ID, "bob")
	assert.ErrorIs(t, err, ErrNotCreator)
}

func TestClaimPrizeBeforeCompletion(t *testing.T) {
	f, game := purgeGame(t, "alice", "bob", "carol")
	_, err := f.engine.ClaimPhase3Prize(f.ctx, game.ID, "alice")
	assert.ErrorIs(t, err, ErrGameNotCompleted)
	_, err = f.engine.ClaimPlatformFee(f.ctx, game.ID, testCreator)
	assert.ErrorIs(t, err, ErrNoFeeToCollect)
}

func TestAdminClosePurgeNoReady(t *testing.T) {
	f, game := purgeGame(t, "alice", "bob")
	require.False(t, f.player(game.ID, "carol").RequirementMet)

	_, err := f.engine.AdminClosePurgeNoReady(f.ctx, game.ID, testAdmin)
	assert.ErrorIs(t, err, ErrReadyPeriodNotExpired)

	f.clock.set(game.Phase3ReadyDeadline)
	receipt, err := f.engine.StartPhase3Game(f.ctx, game.ID, "alice")
	require.NoError(t, err)
	extended := receipt.Game.Phase3ExtendedDeadline

	f.clock.set(extended)
	_, err = f.engine.AdminClosePurgeNoReady(f.ctx, game.ID, testAdmin)
	assert.ErrorIs(t, err, ErrReadyPeriodNotExpired)

	f.clock.set(extended + 1)
	_, err = f.engine.AdminClosePurgeNoReady(f.ctx, game.ID, "alice")
	assert.ErrorIs(t, err, ErrNotAdmin)

	receipt, err = f.engine.AdminClosePurgeNoReady(f.ctx, game.ID, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, receipt.Game.Status)
	assert.True(t, receipt.Game.Redistributed)

	paid := map[string]Payout{}
	for _, payout := range receipt.Payouts {
		paid[payout.Recipient] = payout
	}
	assert.Equal(t, Payout{GameID: game.ID, Recipient: testAdmin, Amount: 75, Kind: PayoutAdminShare, PaidAt: f.engine.Now()}, paid[testAdmin])
	assert.Equal(t, uint64(112), paid["alice"].Amount)
	assert.Equal(t, uint64(112), paid["bob"].Amount)
	assert.NotContains(t, paid, "carol")
	// 300 - 75 - 2*112 = 1 stays in escrow
	assert.Equal(t, uint64(1), receipt.Game.PrizePool)
	assert.Equal(t, uint64(299), receipt.Game.TotalPaidOut)

	_, err = f.engine.AdminClosePurgeNoReady(f.ctx, game.ID, testAdmin)
	assert.ErrorIs(t, err, ErrAlreadyRedistributed)
}

func TestAdminClosePurgeRequiresEligiblePlayers(t *testing.T) {
	f, game := purgeGame(t)
	f.clock.set(game.Phase3ReadyDeadline)
	receipt, err := f.engine.StartPhase3Game(f.ctx, game.ID, "alice")
	require.NoError(t, err)

	f.clock.set(receipt.Game.Phase3ExtendedDeadline + 1)
	_, err = f.engine.AdminClosePurgeNoReady(f.ctx, game.ID, testAdmin)
	assert.ErrorIs(t, err, ErrNoPurgePlayersFound)
	assert.Equal(t, uint64(300), f.game(game.ID).PrizePool)
}

func TestAdminClosePurgeWithReadyPlayers(t *testing.T) {
	f, game := purgeGame(t, "alice", "bob", "carol")
	_, err := f.engine.MarkReadyPhase3(f.ctx, game.ID, "alice")
	require.NoError(t, err)
	f.clock.set(game.Phase3ReadyDeadline)
	_, err = f.engine.AdminClosePurgeNoReady(f.ctx, game.ID, testAdmin)
	assert.ErrorIs(t, err, ErrReadyPeriodNotExpired)
}

func TestEscrowNeverOverdrawn(t *testing.T) {
	f := newFixture(t)
	game := f.createGame(100, 3, 3)
	f.join(game.ID, "alice")

	_, err := f.engine.Store().Apply(f.ctx, f.engine.Now(), func(tx *Tx) error {
		working, err := tx.Game(game.ID)
		if err != nil {
			return err
		}
		return tx.release(working, "alice", 101, PayoutRefund)
	})
	assert.ErrorIs(t, err, ErrInsufficientEscrow)
	assert.Equal(t, uint64(100), f.game(game.ID).PrizePool)
}

func TestPercentOf(t *testing.T) {
	fee, err := percentOf(300, PlatformFeePercent)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), fee)

	share, err := percentOf(^uint64(0), AdminShareNoReadyPercent)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0)/4, share)

	_, err = addAmount(^uint64(0), 1)
	assert.ErrorIs(t, err, ErrMathOverflow)
	_, err = subAmount(0, 1)
	assert.ErrorIs(t, err, ErrMathUnderflow)
}

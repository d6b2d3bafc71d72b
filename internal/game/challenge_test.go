package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// challengeGame returns a game in Phase 2 with every member's state set up.
func challengeGame(t *testing.T) (*fixture, *Game) {
	f, game := economyGame(t)
	game = f.toNextPhase(game.ID)
	require.Equal(t, 2, game.Phase)
	return f, game
}

func (f *fixture) challenge(gameID uint64, challenger, opponent string, bet uint64) *Challenge {
	f.t.Helper()
	receipt, err := f.engine.CreateChallenge(f.ctx, gameID, challenger, CreateChallengeParams{
		Opponent:  opponent,
		Timestamp: 1_700_000_123,
		BetAmount: bet,
		Type:      MiniGameCryptoTrivia,
	})
	require.NoError(f.t, err)
	return receipt.Challenge
}

func TestCreateChallenge(t *testing.T) {
	f, game := challengeGame(t)
	challenge := f.challenge(game.ID, "alice", "bob", 50)
	assert.NotEmpty(t, challenge.ID)
	assert.Equal(t, ChallengePending, challenge.Status)
	assert.Equal(t, int64(1_700_000_123), challenge.CreatedAt)

	other := f.challenge(game.ID, "alice", "bob", 50)
	assert.NotEqual(t, challenge.ID, other.ID)
	assert.Len(t, f.engine.Store().ListChallenges(game.ID), 2)
}

func TestCreateChallengeRejections(t *testing.T) {
	f, game := challengeGame(t)
	params := func(opponent string, bet uint64, kind MiniGameType) CreateChallengeParams {
		return CreateChallengeParams{Opponent: opponent, BetAmount: bet, Type: kind}
	}
	tests := []struct {
		name       string
		challenger string
		params     CreateChallengeParams
		want       error
	}{
		{"self", "alice", params("alice", 1, MiniGameMemeBattle), ErrCannotChallengeSelf},
		{"unknown type", "alice", params("bob", 1, "chess"), ErrInvalidMiniGameType},
		{"outsider opponent", "alice", params("mallory", 1, MiniGameMemeBattle), ErrOpponentNotInGame},
		{"outsider challenger", "mallory", params("alice", 1, MiniGameMemeBattle), ErrNotInGame},
		{"bet above balance", "alice", params("bob", 1001, MiniGameSpeedTrading), ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CreateChallenge(f.ctx, game.ID, tt.challenger, tt.params)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateChallengeOutsidePhase2(t *testing.T) {
	f, game := economyGame(t)
	_, err := f.engine.CreateChallenge(f.ctx, game.ID, "alice", CreateChallengeParams{
		Opponent:  "bob",
		BetAmount: 1,
		Type:      MiniGameMemeBattle,
	})
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestChallengePerOpponentCap(t *testing.T) {
	f, game := challengeGame(t)
	require.Equal(t, 2, game.Phase2MaxPerOpponent)
	f.playChallenge(game.ID, "alice", "bob", "alice", 0)
	f.playChallenge(game.ID, "bob", "alice", "alice", 0)

	_, err := f.engine.CreateChallenge(f.ctx, game.ID, "alice", CreateChallengeParams{
		Opponent: "bob",
		Type:     MiniGameMemeBattle,
	})
	assert.ErrorIs(t, err, ErrMaxGamesPerOpponent)
}

func TestRespondChallenge(t *testing.T) {
	f, game := challengeGame(t)
	challenge := f.challenge(game.ID, "alice", "bob", 50)

	_, err := f.engine.RespondChallenge(f.ctx, challenge.ID, "alice", true)
	assert.ErrorIs(t, err, ErrNotChallengeOpponent)

	receipt, err := f.engine.RespondChallenge(f.ctx, challenge.ID, "bob", true)
	require.NoError(t, err)
	assert.Equal(t, ChallengeAccepted, receipt.Challenge.Status)
	assert.Equal(t, f.engine.Now(), receipt.Challenge.AcceptedAt)

	_, err = f.engine.RespondChallenge(f.ctx, challenge.ID, "bob", true)
	assert.ErrorIs(t, err, ErrInvalidChallengeStatus)
}

func TestDeclinesForceAcceptance(t *testing.T) {
	f, game := challengeGame(t)
	challenge := f.challenge(game.ID, "alice", "bob", 50)

	for i := 1; i < MaxOpponentDeclines; i++ {
		receipt, err := f.engine.RespondChallenge(f.ctx, challenge.ID, "bob", false)
		require.NoError(t, err)
		assert.Equal(t, ChallengePending, receipt.Challenge.Status)
		assert.Equal(t, i, receipt.Challenge.Declines)
	}
	receipt, err := f.engine.RespondChallenge(f.ctx, challenge.ID, "bob", false)
	require.NoError(t, err)
	assert.Equal(t, ChallengeForcedAccept, receipt.Challenge.Status)

	_, err = f.engine.RespondChallenge(f.ctx, challenge.ID, "bob", false)
	assert.ErrorIs(t, err, ErrInvalidChallengeStatus)

	_, err = f.engine.ReadyForGame(f.ctx, challenge.ID, "bob")
	require.NoError(t, err)
}

func TestReadyAndStart(t *testing.T) {
	f, game := challengeGame(t)
	challenge := f.challenge(game.ID, "alice", "bob", 50)

	_, err := f.engine.ReadyForGame(f.ctx, challenge.ID, "alice")
	assert.ErrorIs(t, err, ErrInvalidChallengeStatus)
	_, err = f.engine.StartMiniGame(f.ctx, challenge.ID, "alice")
	assert.ErrorIs(t, err, ErrInvalidChallengeStatus)

	_, err = f.engine.RespondChallenge(f.ctx, challenge.ID, "bob", true)
	require.NoError(t, err)
	_, err = f.engine.ReadyForGame(f.ctx, challenge.ID, "carol")
	assert.ErrorIs(t, err, ErrNotChallengeParticipant)

	receipt, err := f.engine.ReadyForGame(f.ctx, challenge.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, ChallengeBothReady, receipt.Challenge.Status)

	receipt, err = f.engine.ReadyForGame(f.ctx, challenge.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, ChallengeBothReady, receipt.Challenge.Status)
	assert.Empty(t, receipt.Events)

	_, err = f.engine.StartMiniGame(f.ctx, challenge.ID, "carol")
	assert.ErrorIs(t, err, ErrNotChallengeParticipant)
	receipt, err = f.engine.StartMiniGame(f.ctx, challenge.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, ChallengeInProgress, receipt.Challenge.Status)
	assert.Equal(t, f.engine.Now(), receipt.Challenge.StartedAt)
}

func TestClaimMiniGameWin(t *testing.T) {
	f, game := challengeGame(t)
	completed := f.playChallenge(game.ID, "alice", "bob", "bob", 200)
	assert.Equal(t, ChallengeCompleted, completed.Status)
	assert.Equal(t, "bob", completed.Winner)

	alice := f.player(game.ID, "alice")
	bob := f.player(game.ID, "bob")
	assert.Equal(t, uint64(800), alice.VirtualBalance)
	assert.Equal(t, uint64(1200), bob.VirtualBalance)
	assert.Equal(t, 1, alice.GamesPlayed)
	assert.Equal(t, 0, alice.GamesWon)
	assert.Equal(t, 1, bob.GamesWon)
	assert.Equal(t, []OpponentRecord{{Opponent: "bob", Games: 1}}, alice.Opponents)

	_, err := f.engine.ClaimMiniGameWin(f.ctx, completed.ID, "bob", "bob")
	assert.ErrorIs(t, err, ErrInvalidChallengeStatus)
}

func TestClaimMiniGameWinRejections(t *testing.T) {
	f, game := challengeGame(t)
	challenge := f.challenge(game.ID, "alice", "bob", 900)
	_, err := f.engine.RespondChallenge(f.ctx, challenge.ID, "bob", true)
	require.NoError(t, err)
	_, err = f.engine.ReadyForGame(f.ctx, challenge.ID, "alice")
	require.NoError(t, err)
	_, err = f.engine.StartMiniGame(f.ctx, challenge.ID, "alice")
	require.NoError(t, err)

	_, err = f.engine.ClaimMiniGameWin(f.ctx, challenge.ID, "alice", "carol")
	assert.ErrorIs(t, err, ErrInvalidWinner)
	_, err = f.engine.ClaimMiniGameWin(f.ctx, challenge.ID, "carol", "alice")
	assert.ErrorIs(t, err, ErrNotChallengeParticipant)

	// bob spends most of his balance in another match before losing this one
	f.playChallenge(game.ID, "bob", "carol", "carol", 500)
	_, err = f.engine.ClaimMiniGameWin(f.ctx, challenge.ID, "alice", "alice")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	assert.Equal(t, uint64(1000), f.player(game.ID, "alice").VirtualBalance)
	assert.Equal(t, ChallengeInProgress, f.engine.Store().ListChallenges(game.ID)[0].Status)
}

func TestOpponentHistoryCap(t *testing.T) {
	state := &PlayerState{}
	for i := range MaxOpponentHistory + 2 {
		state.recordGame(string(rune('a'+i)), i%2 == 0)
	}
	assert.Len(t, state.Opponents, MaxOpponentHistory)
	assert.Equal(t, MaxOpponentHistory+2, state.GamesPlayed)
	assert.Equal(t, 6, state.GamesWon)
	assert.True(t, state.CanChallenge("l", 1))

	state.recordGame("a", false)
	assert.Equal(t, 2, state.gamesAgainst("a"))
	assert.False(t, state.CanChallenge("a", 2))
}

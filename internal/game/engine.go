package game

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Receipt is what a committed operation hands back: the primary records it
// produced or changed and everything it emitted.
type Receipt struct {
	Registry  *Registry
	Game      *Game
	Player    *PlayerState
	Pool      *PoolState
	Challenge *Challenge
	Events    []Event
	Payouts   []Payout
}

// Engine exposes the game operations. Every call runs as one Store.Apply,
// so a failing call leaves no trace.
type Engine struct {
	store       *Store
	now         func() time.Time
	listenersMu sync.Mutex
	listeners   []func(*ChangeSet)

	deliverMu   sync.Mutex
	deliverCond *sync.Cond
	delivered   uint64
}

func NewEngine(store *Store, now func() time.Time) *Engine {
	if now == nil {
		now = timeNowUTC
	}
	e := &Engine{store: store, now: now, delivered: store.LastSeq()}
	e.deliverCond = sync.NewCond(&e.deliverMu)
	return e
}

func (e *Engine) Store() *Store {
	return e.store
}

// Subscribe registers fn to run after every committed, non-empty change set.
// Change sets are delivered one at a time in commit order. fn must not call
// engine operations.
func (e *Engine) Subscribe(fn func(*ChangeSet)) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) Now() int64 {
	return e.now().Unix()
}

func (e *Engine) apply(ctx context.Context, receipt *Receipt, fn func(tx *Tx) error) (*Receipt, error) {
	changes, err := e.store.Apply(ctx, e.Now(), fn)
	if err != nil {
		return nil, err
	}
	receipt.Events = changes.Events
	receipt.Payouts = changes.Payouts
	if !changes.Empty() {
		e.deliver(changes)
	}
	return receipt, nil
}

// deliver waits for every earlier change set to reach the listeners before
// handing over this one.
func (e *Engine) deliver(changes *ChangeSet) {
	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()
	for e.delivered+1 < changes.Seq {
		e.deliverCond.Wait()
	}
	defer func() {
		e.delivered = changes.Seq
		e.deliverCond.Broadcast()
	}()

	e.listenersMu.Lock()
	listeners := append([]func(*ChangeSet){}, e.listeners...)
	e.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(changes)
	}
}

func requireIdentity(ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidIdentity
		}
	}
	return nil
}

func (e *Engine) InitRegistry(ctx context.Context, admin string) (*Receipt, error) {
	receipt := &Receipt{}
	return e.apply(ctx, receipt, func(tx *Tx) error {
		registry, err := tx.initRegistry(admin)
		receipt.Registry = registry
		return err
	})
}

type CreateGameParams struct {
	Name          string
	EntryFee      uint64
	MaxPlayers    int
	StartTime     int64
	DurationHours int
}

func (e *Engine) CreateGame(ctx context.Context, creator string, params CreateGameParams) (*Receipt, error) {
	receipt := &Receipt{}
	return e.apply(ctx, receipt, func(tx *Tx) error {
		game, err := tx.createGame(creator, params)
		receipt.Game = game
		return err
	})
}

// gameOp runs a lifecycle operation that only changes the game record.
func (e *Engine) gameOp(ctx context.Context, fn func(tx *Tx) (*Game, error)) (*Receipt, error) {
	receipt := &Receipt{}
	return e.apply(ctx, receipt, func(tx *Tx) error {
		game, err := fn(tx)
		receipt.Game = game
		return err
	})
}

func (e *Engine) EnterGame(ctx context.Context, gameID uint64, player string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.enterGame(gameID, player) })
}

func (e *Engine) StartGame(ctx context.Context, gameID uint64, caller string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.startGame(gameID, caller) })
}

func (e *Engine) CancelGame(ctx context.Context, gameID uint64, caller string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.cancelGame(gameID, caller) })
}

func (e *Engine) ClaimRefund(ctx context.Context, gameID uint64, player string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.claimRefund(gameID, player) })
}

func (e *Engine) ForceRefund(ctx context.Context, gameID uint64, player string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.forceRefund(gameID, player) })
}

func (e *Engine) AdvancePhase(ctx context.Context, gameID uint64, caller string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.advancePhase(gameID, caller) })
}

func (e *Engine) AdminStartGame(ctx context.Context, gameID uint64, admin string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.adminStartGame(gameID, admin) })
}

func (e *Engine) AdminAdvancePhase(ctx context.Context, gameID uint64, admin string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.adminAdvancePhase(gameID, admin) })
}

func (e *Engine) InitPlayerState(ctx context.Context, gameID uint64, player string) (*Receipt, error) {
	receipt := &Receipt{}
	return e.apply(ctx, receipt, func(tx *Tx) error {
		state, err := tx.initPlayerState(gameID, player)
		receipt.Player = state
		return err
	})
}

func (e *Engine) InitPoolState(ctx context.Context, gameID uint64, caller string) (*Receipt, error) {
	receipt := &Receipt{}
	return e.apply(ctx, receipt, func(tx *Tx) error {
		pool, err := tx.initPoolState(gameID, caller)
		receipt.Pool = pool
		return err
	})
}

func (e *Engine) SubmitAllocations(ctx context.Context, gameID uint64, player string, alloc Allocations) (*Receipt, error) {
	receipt := &Receipt{}
	return e.apply(ctx, receipt, func(tx *Tx) error {
		state, pool, err := tx.submitAllocations(gameID, player, alloc)
		receipt.Player = state
		receipt.Pool = pool
		return err
	})
}

func (e *Engine) ClaimRewards(ctx context.Context, gameID uint64, player string) (*Receipt, error) {
	receipt := &Receipt{}
	return e.apply(ctx, receipt, func(tx *Tx) error {
		state, err := tx.claimRewards(gameID, player)
		receipt.Player = state
		return err
	})
}

func (e *Engine) ClaimPhaseEndRewards(ctx context.Context, gameID uint64, player string) (*Receipt, error) {
	receipt := &Receipt{}
	return e.apply(ctx, receipt, func(tx *Tx) error {
		state, err := tx.claimPhaseEndRewards(gameID, player)
		receipt.Player = state
		return err
	})
}

type CreateChallengeParams struct {
	Opponent  string
	Timestamp int64
	BetAmount uint64
	Type      MiniGameType
}

func (e *Engine) CreateChallenge(ctx context.Context, gameID uint64, challenger string, params CreateChallengeParams) (*Receipt, error) {
	return e.challengeOp(ctx, func(tx *Tx) (*Challenge, error) { return tx.createChallenge(gameID, challenger, params) })
}

// challengeOp runs a Phase 2 operation whose primary record is a challenge.
func (e *Engine) challengeOp(ctx context.Context, fn func(tx *Tx) (*Challenge, error)) (*Receipt, error) {
	receipt := &Receipt{}
	return e.apply(ctx, receipt, func(tx *Tx) error {
		challenge, err := fn(tx)
		receipt.Challenge = challenge
		return err
	})
}

func (e *Engine) RespondChallenge(ctx context.Context, challengeID, caller string, accept bool) (*Receipt, error) {
	return e.challengeOp(ctx, func(tx *Tx) (*Challenge, error) { return tx.respondChallenge(challengeID, caller, accept) })
}

func (e *Engine) ReadyForGame(ctx context.Context, challengeID, caller string) (*Receipt, error) {
	return e.challengeOp(ctx, func(tx *Tx) (*Challenge, error) { return tx.readyForGame(challengeID, caller) })
}

func (e *Engine) StartMiniGame(ctx context.Context, challengeID, caller string) (*Receipt, error) {
	return e.challengeOp(ctx, func(tx *Tx) (*Challenge, error) { return tx.startMiniGame(challengeID, caller) })
}

func (e *Engine) ClaimMiniGameWin(ctx context.Context, challengeID, caller, winner string) (*Receipt, error) {
	return e.challengeOp(ctx, func(tx *Tx) (*Challenge, error) { return tx.claimMiniGameWin(challengeID, caller, winner) })
}

func (e *Engine) AdvanceToPhase3(ctx context.Context, gameID uint64, caller string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.advanceToPhase3(gameID, caller) })
}

func (e *Engine) MarkReadyPhase3(ctx context.Context, gameID uint64, player string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.markReadyPhase3(gameID, player) })
}

func (e *Engine) StartPhase3Game(ctx context.Context, gameID uint64, caller string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.startPhase3Game(gameID, caller) })
}

func (e *Engine) SubmitPhase3Winner(ctx context.Context, gameID uint64, submitter, winner string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.submitPhase3Winner(gameID, submitter, winner) })
}

func (e *Engine) ClaimPhase3Prize(ctx context.Context, gameID uint64, caller string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.claimPhase3Prize(gameID, caller) })
}

func (e *Engine) ClaimPlatformFee(ctx context.Context, gameID uint64, caller string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.claimPlatformFee(gameID, caller) })
}

func (e *Engine) AdminClosePurgeNoReady(ctx context.Context, gameID uint64, admin string) (*Receipt, error) {
	return e.gameOp(ctx, func(tx *Tx) (*Game, error) { return tx.adminClosePurgeNoReady(gameID, admin) })
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}

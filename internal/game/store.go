package game

import (
	"context"
	"sort"
	"sync"
)

type playerKey struct {
	gameID uint64
	player string
}

// Committer persists a change set before it becomes visible in memory.
// Returning an error aborts the whole operation.
type Committer interface {
	Commit(ctx context.Context, changes *ChangeSet) error
}

// Store holds every record of the game engine. Operations run one at a time
// through Apply, which gives them a private working copy of the records they
// touch and publishes the copy only when the operation succeeds.
type Store struct {
	mu         sync.Mutex
	committer  Committer
	registry   *Registry
	games      map[uint64]*Game
	players    map[playerKey]*PlayerState
	pools      map[uint64]*PoolState
	challenges map[string]*Challenge
	ready      map[playerKey]*ReadyRecord
	payouts    map[uint64][]Payout
	seq        uint64
}

func NewStore() *Store {
	return &Store{
		games:      make(map[uint64]*Game),
		players:    make(map[playerKey]*PlayerState),
		pools:      make(map[uint64]*PoolState),
		challenges: make(map[string]*Challenge),
		ready:      make(map[playerKey]*ReadyRecord),
		payouts:    make(map[uint64][]Payout),
	}
}

// LastSeq returns the sequence number of the latest published change set.
func (s *Store) LastSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// SetCommitter installs the persistence hook used by Apply.
func (s *Store) SetCommitter(c Committer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committer = c
}

// ChangeSet lists every record written by one operation, plus the events and
// payouts it produced. Seq numbers non-empty change sets in commit order.
type ChangeSet struct {
	Seq        uint64
	Registry   *Registry
	Games      []*Game
	Players    []*PlayerState
	Pools      []*PoolState
	Challenges []*Challenge
	Ready      []*ReadyRecord
	Events     []Event
	Payouts    []Payout
}

func (c *ChangeSet) Empty() bool {
	return c.Registry == nil && len(c.Games) == 0 && len(c.Players) == 0 && len(c.Pools) == 0 &&
		len(c.Challenges) == 0 && len(c.Ready) == 0 && len(c.Events) == 0 && len(c.Payouts) == 0
}

// Tx is the working copy handed to an operation.
type Tx struct {
	store      *Store
	now        int64
	registry   *Registry
	games      map[uint64]*Game
	players    map[playerKey]*PlayerState
	pools      map[uint64]*PoolState
	challenges map[string]*Challenge
	ready      map[playerKey]*ReadyRecord
	dirty      map[any]struct{}
	events     []Event
	payouts    []Payout
}

// Apply runs fn against a fresh Tx. When fn fails nothing is changed. When
// it succeeds the change set is passed to the committer and then published.
func (s *Store) Apply(ctx context.Context, now int64, fn func(tx *Tx) error) (*ChangeSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		store:      s,
		now:        now,
		games:      make(map[uint64]*Game),
		players:    make(map[playerKey]*PlayerState),
		pools:      make(map[uint64]*PoolState),
		challenges: make(map[string]*Challenge),
		ready:      make(map[playerKey]*ReadyRecord),
		dirty:      make(map[any]struct{}),
	}
	if err := fn(tx); err != nil {
		return nil, err
	}
	changes := tx.changeSet()
	if s.committer != nil && !changes.Empty() {
		if err := s.committer.Commit(ctx, changes); err != nil {
			return nil, err
		}
	}
	if !changes.Empty() {
		s.seq++
		changes.Seq = s.seq
	}
	s.publish(changes)
	return changes, nil
}

func (s *Store) publish(changes *ChangeSet) {
	if changes.Registry != nil {
		s.registry = changes.Registry
	}
	for _, game := range changes.Games {
		s.games[game.ID] = game
	}
	for _, player := range changes.Players {
		s.players[playerKey{player.GameID, player.Player}] = player
	}
	for _, pool := range changes.Pools {
		s.pools[pool.GameID] = pool
	}
	for _, challenge := range changes.Challenges {
		s.challenges[challenge.ID] = challenge
	}
	for _, record := range changes.Ready {
		s.ready[playerKey{record.GameID, record.Player}] = record
	}
	for _, payout := range changes.Payouts {
		s.payouts[payout.GameID] = append(s.payouts[payout.GameID], payout)
	}
}

func (tx *Tx) changeSet() *ChangeSet {
	changes := &ChangeSet{Events: tx.events, Payouts: tx.payouts}
	if _, ok := tx.dirty[tx.registry]; ok && tx.registry != nil {
		changes.Registry = tx.registry.clonePtr()
	}
	for _, game := range tx.games {
		if _, ok := tx.dirty[game]; ok {
			changes.Games = append(changes.Games, game.clone())
		}
	}
	for _, player := range tx.players {
		if _, ok := tx.dirty[player]; ok {
			changes.Players = append(changes.Players, player.clone())
		}
	}
	for _, pool := range tx.pools {
		if _, ok := tx.dirty[pool]; ok {
			changes.Pools = append(changes.Pools, pool.clone())
		}
	}
	for _, challenge := range tx.challenges {
		if _, ok := tx.dirty[challenge]; ok {
			changes.Challenges = append(changes.Challenges, challenge.clone())
		}
	}
	for _, record := range tx.ready {
		if _, ok := tx.dirty[record]; ok {
			changes.Ready = append(changes.Ready, record.clone())
		}
	}
	sort.Slice(changes.Games, func(i, j int) bool { return changes.Games[i].ID < changes.Games[j].ID })
	sort.Slice(changes.Players, func(i, j int) bool { return changes.Players[i].Player < changes.Players[j].Player })
	return changes
}

func (tx *Tx) Now() int64 {
	return tx.now
}

func (tx *Tx) emit(event Event) {
	event.At = tx.now
	tx.events = append(tx.events, event)
}

func (tx *Tx) touch(record any) {
	tx.dirty[record] = struct{}{}
}

func (tx *Tx) Registry() (*Registry, error) {
	if tx.registry != nil {
		return tx.registry, nil
	}
	if tx.store.registry == nil {
		return nil, ErrRegistryNotInitialized
	}
	tx.registry = tx.store.registry.clonePtr()
	return tx.registry, nil
}

func (tx *Tx) Game(id uint64) (*Game, error) {
	if game, ok := tx.games[id]; ok {
		return game, nil
	}
	game, ok := tx.store.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	working := game.clone()
	tx.games[id] = working
	return working, nil
}

func (tx *Tx) putGame(game *Game) {
	tx.games[game.ID] = game
	tx.touch(game)
}

func (tx *Tx) PlayerState(gameID uint64, player string) (*PlayerState, error) {
	key := playerKey{gameID, player}
	if state, ok := tx.players[key]; ok {
		return state, nil
	}
	state, ok := tx.store.players[key]
	if !ok {
		return nil, ErrPlayerStateNotFound
	}
	working := state.clone()
	tx.players[key] = working
	return working, nil
}

func (tx *Tx) putPlayerState(state *PlayerState) {
	tx.players[playerKey{state.GameID, state.Player}] = state
	tx.touch(state)
}

func (tx *Tx) Pool(gameID uint64) (*PoolState, error) {
	if pool, ok := tx.pools[gameID]; ok {
		return pool, nil
	}
	pool, ok := tx.store.pools[gameID]
	if !ok {
		return nil, ErrPoolStateNotFound
	}
	working := pool.clone()
	tx.pools[gameID] = working
	return working, nil
}

func (tx *Tx) putPool(pool *PoolState) {
	tx.pools[pool.GameID] = pool
	tx.touch(pool)
}

func (tx *Tx) Challenge(id string) (*Challenge, error) {
	if challenge, ok := tx.challenges[id]; ok {
		return challenge, nil
	}
	challenge, ok := tx.store.challenges[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	working := challenge.clone()
	tx.challenges[id] = working
	return working, nil
}

func (tx *Tx) putChallenge(challenge *Challenge) {
	tx.challenges[challenge.ID] = challenge
	tx.touch(challenge)
}

// ReadyRecord returns the purge opt-in of player, creating an unsaved blank
// record when the player never marked ready.
func (tx *Tx) ReadyRecord(gameID uint64, player string) *ReadyRecord {
	key := playerKey{gameID, player}
	if record, ok := tx.ready[key]; ok {
		return record
	}
	if record, ok := tx.store.ready[key]; ok {
		working := record.clone()
		tx.ready[key] = working
		return working
	}
	record := &ReadyRecord{GameID: gameID, Player: player}
	tx.ready[key] = record
	return record
}

func (tx *Tx) putReady(record *ReadyRecord) {
	tx.ready[playerKey{record.GameID, record.Player}] = record
	tx.touch(record)
}

// readyPlayers lists members of game whose ready flag is set, in member order.
func (tx *Tx) readyPlayers(game *Game) []string {
	out := make([]string, 0)
	for _, player := range game.Players {
		if record := tx.ReadyRecord(game.ID, player); record.Ready {
			out = append(out, player)
		}
	}
	return out
}

// eligiblePlayers lists members whose Phase 2 requirement is recorded as met.
func (tx *Tx) eligiblePlayers(game *Game) []string {
	out := make([]string, 0)
	for _, player := range game.Players {
		state, err := tx.PlayerState(game.ID, player)
		if err != nil {
			continue
		}
		if state.RequirementMet {
			out = append(out, player)
		}
	}
	return out
}

func (r *Registry) clonePtr() *Registry {
	out := *r
	return &out
}

// Restore loads persisted records into an empty store. It is used on boot
// and bypasses the committer.
func (s *Store) Restore(changes *ChangeSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish(changes)
}

// Snapshot reads.

func (s *Store) Registry() (Registry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		return Registry{}, false
	}
	return *s.registry, true
}

func (s *Store) GetGame(id uint64) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil, false
	}
	return game.clone(), true
}

func (s *Store) ListGames(status Status) []*Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Game, 0, len(s.games))
	for _, game := range s.games {
		if status != "" && game.Status != status {
			continue
		}
		list = append(list, game.clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

func (s *Store) GetPlayerState(gameID uint64, player string) (*PlayerState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.players[playerKey{gameID, player}]
	if !ok {
		return nil, false
	}
	return state.clone(), true
}

func (s *Store) ListPlayerStates(gameID uint64) []*PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*PlayerState, 0)
	for key, state := range s.players {
		if key.gameID == gameID {
			list = append(list, state.clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Player < list[j].Player
	})
	return list
}

func (s *Store) GetPool(gameID uint64) (*PoolState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool, ok := s.pools[gameID]
	if !ok {
		return nil, false
	}
	return pool.clone(), true
}

func (s *Store) GetChallenge(id string) (*Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	challenge, ok := s.challenges[id]
	if !ok {
		return nil, false
	}
	return challenge.clone(), true
}

func (s *Store) ListChallenges(gameID uint64) []*Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Challenge, 0)
	for _, challenge := range s.challenges {
		if challenge.GameID == gameID {
			list = append(list, challenge.clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt == list[j].CreatedAt {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt < list[j].CreatedAt
	})
	return list
}

func (s *Store) ListReady(gameID uint64) []*ReadyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*ReadyRecord, 0)
	for key, record := range s.ready {
		if key.gameID == gameID {
			list = append(list, record.clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Player < list[j].Player
	})
	return list
}

// ListPayouts returns the escrow releases of a game in the order they happened.
func (s *Store) ListPayouts(gameID uint64) []Payout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Payout{}, s.payouts[gameID]...)
}

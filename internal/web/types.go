package web

import (
	"time"

	"github.com/qtrix/the-final-stake/internal/game"
)

type GameSummary struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Status     string `json:"status"`
	Phase      int    `json:"phase"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	PrizePool  uint64 `json:"prize_pool"`
}

func Summarize(g *game.Game) GameSummary {
	return GameSummary{
		ID:         g.ID,
		Name:       g.Name,
		Slug:       g.Slug,
		Status:     string(g.Status),
		Phase:      g.Phase,
		Players:    g.CurrentPlayers(),
		MaxPlayers: g.MaxPlayers,
		PrizePool:  g.PrizePool,
	}
}

type ReportPlayer struct {
	Name           string
	Balance        uint64
	GamesPlayed    int
	GamesWon       int
	RequirementMet bool
	Ready          bool
	Refunded       bool
}

type ReportPayout struct {
	Recipient string
	Kind      string
	Amount    uint64
	PaidAt    time.Time
}

// ReportData is the settlement view of one game.
type ReportData struct {
	GameID        uint64
	Name          string
	Slug          string
	Creator       string
	Status        string
	Phase         int
	EntryFee      uint64
	PrizePool     uint64
	TotalEscrowed uint64
	TotalPaidOut  uint64
	FeeCollected  uint64
	Winner        string
	StartTime     time.Time
	Players       []ReportPlayer
	Payouts       []ReportPayout
	GeneratedAt   time.Time
}

func NewReport(g *game.Game, states []*game.PlayerState, ready []*game.ReadyRecord, payouts []game.Payout, now time.Time) ReportData {
	report := ReportData{
		GameID:        g.ID,
		Name:          g.Name,
		Slug:          g.Slug,
		Creator:       g.Creator,
		Status:        string(g.Status),
		Phase:         g.Phase,
		EntryFee:      g.EntryFee,
		PrizePool:     g.PrizePool,
		TotalEscrowed: g.TotalEscrowed,
		TotalPaidOut:  g.TotalPaidOut,
		FeeCollected:  g.FeeCollected,
		Winner:        g.Phase3Winner,
		StartTime:     time.Unix(g.StartTime, 0).UTC(),
		GeneratedAt:   now.UTC(),
	}
	byPlayer := make(map[string]*game.PlayerState, len(states))
	for _, state := range states {
		byPlayer[state.Player] = state
	}
	readyPlayers := make(map[string]bool, len(ready))
	for _, record := range ready {
		readyPlayers[record.Player] = record.Ready
	}
	for _, player := range g.Players {
		row := ReportPlayer{
			Name:     player,
			Ready:    readyPlayers[player],
			Refunded: g.IsRefunded(player),
		}
		if state, ok := byPlayer[player]; ok {
			row.Balance = state.VirtualBalance
			row.GamesPlayed = state.GamesPlayed
			row.GamesWon = state.GamesWon
			row.RequirementMet = state.RequirementMet
		}
		report.Players = append(report.Players, row)
	}
	for _, payout := range payouts {
		report.Payouts = append(report.Payouts, ReportPayout{
			Recipient: payout.Recipient,
			Kind:      string(payout.Kind),
			Amount:    payout.Amount,
			PaidAt:    time.Unix(payout.PaidAt, 0).UTC(),
		})
	}
	return report
}

// ReportFor collects the settlement view of a game from the engine store.
func ReportFor(engine *game.Engine, gameID uint64) (ReportData, bool) {
	store := engine.Store()
	g, ok := store.GetGame(gameID)
	if !ok {
		return ReportData{}, false
	}
	return NewReport(
		g,
		store.ListPlayerStates(gameID),
		store.ListReady(gameID),
		store.ListPayouts(gameID),
		time.Unix(engine.Now(), 0),
	), true
}

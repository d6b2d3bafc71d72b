package web

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/qtrix/the-final-stake/internal/game"
)

func TestSettlementReportEscapesAndLists(t *testing.T) {
	g := &game.Game{
		ID:            7,
		Name:          "<script>alert(1)</script>",
		Creator:       "creator",
		Status:        game.StatusCompleted,
		Phase:         3,
		EntryFee:      100,
		Players:       []string{"alice", "bob"},
		Refunded:      []string{},
		TotalEscrowed: 200,
		TotalPaidOut:  198,
		PrizePool:     2,
		FeeCollected:  2,
		Phase3Winner:  "alice",
	}
	states := []*game.PlayerState{{Player: "alice", VirtualBalance: 1500, GamesPlayed: 4, GamesWon: 3, RequirementMet: true}}
	ready := []*game.ReadyRecord{{Player: "alice", Ready: true}}
	payouts := []game.Payout{{GameID: 7, Recipient: "alice", Amount: 198, Kind: game.PayoutPrize, PaidAt: 1_700_000_000}}

	data := NewReport(g, states, ready, payouts, time.Unix(1_700_000_100, 0))
	if len(data.Players) != 2 {
		t.Fatalf("expected 2 player rows, got %d", len(data.Players))
	}
	if !data.Players[0].Ready || data.Players[1].Ready {
		t.Fatalf("unexpected ready flags: %+v", data.Players)
	}

	var buf bytes.Buffer
	if err := SettlementReport(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected game name to be escaped")
	}
	for _, want := range []string{"Game #7", "<td>alice</td><td>1500</td>", "<td>prize</td><td>198</td>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected report to contain %q", want)
		}
	}
}

func TestSettlementReportWithoutPayouts(t *testing.T) {
	g := &game.Game{ID: 1, Name: "Quiet", Status: game.StatusWaitingForPlayers, Players: []string{}, Refunded: []string{}}
	var buf bytes.Buffer
	if err := SettlementReport(NewReport(g, nil, nil, nil, time.Now())).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No funds released yet.") {
		t.Fatalf("expected empty payout notice")
	}
}

package db

import (
	"time"

	"github.com/qtrix/the-final-stake/internal/game"
)

// Payout is an append-only ledger of escrow releases. A recipient receives
// each kind of payout at most once per game.
type Payout struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint64    `gorm:"not null;uniqueIndex:idx_payouts_game_recipient_kind"`
	Recipient string    `gorm:"size:128;not null;uniqueIndex:idx_payouts_game_recipient_kind"`
	Kind      string    `gorm:"size:32;not null;uniqueIndex:idx_payouts_game_recipient_kind"`
	Amount    uint64    `gorm:"not null"`
	PaidAt    int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func PayoutFromDomain(p game.Payout) Payout {
	return Payout{
		GameID:    p.GameID,
		Recipient: p.Recipient,
		Kind:      string(p.Kind),
		Amount:    p.Amount,
		PaidAt:    p.PaidAt,
	}
}

func (r Payout) Domain() game.Payout {
	return game.Payout{
		GameID:    r.GameID,
		Recipient: r.Recipient,
		Amount:    r.Amount,
		Kind:      game.PayoutKind(r.Kind),
		PaidAt:    r.PaidAt,
	}
}

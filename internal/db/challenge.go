package db

import (
	"time"

	"github.com/qtrix/the-final-stake/internal/game"
)

type Challenge struct {
	ID         string    `gorm:"primaryKey;size:36"`
	GameID     uint64    `gorm:"index;not null"`
	Challenger string    `gorm:"size:128;not null"`
	Opponent   string    `gorm:"size:128;not null"`
	BetAmount  uint64    `gorm:"not null;default:0"`
	Type       string    `gorm:"size:32;not null"`
	Status     string    `gorm:"size:32;not null"`
	CreatedAt  int64     `gorm:"not null;autoCreateTime:false"`
	AcceptedAt int64     `gorm:"not null;default:0"`
	StartedAt  int64     `gorm:"not null;default:0"`
	Winner     string    `gorm:"size:128"`
	Declines   int       `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func ChallengeFromDomain(c *game.Challenge) Challenge {
	return Challenge{
		ID:         c.ID,
		GameID:     c.GameID,
		Challenger: c.Challenger,
		Opponent:   c.Opponent,
		BetAmount:  c.BetAmount,
		Type:       string(c.Type),
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt,
		AcceptedAt: c.AcceptedAt,
		StartedAt:  c.StartedAt,
		Winner:     c.Winner,
		Declines:   c.Declines,
	}
}

func (r Challenge) Domain() *game.Challenge {
	return &game.Challenge{
		ID:         r.ID,
		GameID:     r.GameID,
		Challenger: r.Challenger,
		Opponent:   r.Opponent,
		BetAmount:  r.BetAmount,
		Type:       game.MiniGameType(r.Type),
		Status:     game.ChallengeStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		AcceptedAt: r.AcceptedAt,
		StartedAt:  r.StartedAt,
		Winner:     r.Winner,
		Declines:   r.Declines,
	}
}

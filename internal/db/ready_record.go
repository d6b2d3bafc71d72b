package db

import (
	"time"

	"github.com/qtrix/the-final-stake/internal/game"
)

type ReadyRecord struct {
	GameID    uint64    `gorm:"primaryKey;autoIncrement:false"`
	Player    string    `gorm:"primaryKey;size:128"`
	Ready     bool      `gorm:"not null;default:false"`
	MarkedAt  int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func ReadyRecordFromDomain(r *game.ReadyRecord) ReadyRecord {
	return ReadyRecord{
		GameID:   r.GameID,
		Player:   r.Player,
		Ready:    r.Ready,
		MarkedAt: r.MarkedAt,
	}
}

func (r ReadyRecord) Domain() *game.ReadyRecord {
	return &game.ReadyRecord{
		GameID:   r.GameID,
		Player:   r.Player,
		Ready:    r.Ready,
		MarkedAt: r.MarkedAt,
	}
}

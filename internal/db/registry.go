package db

import (
	"time"

	"github.com/qtrix/the-final-stake/internal/game"
)

// Registry holds the single registry row. ID is always 1.
type Registry struct {
	ID                uint      `gorm:"primaryKey;autoIncrement:false"`
	Admin             string    `gorm:"size:128;not null"`
	GameCount         uint64    `gorm:"not null;default:0"`
	TotalGamesCreated uint64    `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

func (Registry) TableName() string {
	return "registry"
}

func RegistryFromDomain(r *game.Registry) Registry {
	return Registry{
		ID:                1,
		Admin:             r.Admin,
		GameCount:         r.GameCount,
		TotalGamesCreated: r.TotalGamesCreated,
	}
}

func (r Registry) Domain() *game.Registry {
	return &game.Registry{
		Admin:             r.Admin,
		GameCount:         r.GameCount,
		TotalGamesCreated: r.TotalGamesCreated,
	}
}

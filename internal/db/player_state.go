package db

import (
	"time"

	"github.com/qtrix/the-final-stake/internal/game"

	"gorm.io/datatypes"
)

type PlayerState struct {
	GameID              uint64                                   `gorm:"primaryKey;autoIncrement:false"`
	Player              string                                   `gorm:"primaryKey;size:128"`
	VirtualBalance      uint64                                   `gorm:"not null;default:0"`
	TotalEarned         uint64                                   `gorm:"not null;default:0"`
	LastClaimTime       int64                                    `gorm:"not null;default:0"`
	HasActiveAllocation bool                                     `gorm:"not null;default:false"`
	Allocations         datatypes.JSONType[game.Allocations]     `gorm:"type:jsonb;not null"`
	GamesPlayed         int                                      `gorm:"not null;default:0"`
	GamesWon            int                                      `gorm:"not null;default:0"`
	Opponents           datatypes.JSONSlice[game.OpponentRecord] `gorm:"type:jsonb;not null"`
	RequirementMet      bool                                     `gorm:"not null;default:false"`
	PenaltyApplied      bool                                     `gorm:"not null;default:false"`
	PrizeClaimed        bool                                     `gorm:"not null;default:false"`
	CreatedAt           time.Time                                `gorm:"not null"`
	UpdatedAt           time.Time                                `gorm:"not null"`
}

func PlayerStateFromDomain(p *game.PlayerState) PlayerState {
	return PlayerState{
		GameID:              p.GameID,
		Player:              p.Player,
		VirtualBalance:      p.VirtualBalance,
		TotalEarned:         p.TotalEarned,
		LastClaimTime:       p.LastClaimTime,
		HasActiveAllocation: p.HasActiveAllocation,
		Allocations:         datatypes.NewJSONType(p.Allocations),
		GamesPlayed:         p.GamesPlayed,
		GamesWon:            p.GamesWon,
		Opponents:           datatypes.NewJSONSlice(p.Opponents),
		RequirementMet:      p.RequirementMet,
		PenaltyApplied:      p.PenaltyApplied,
		PrizeClaimed:        p.PrizeClaimed,
	}
}

func (r PlayerState) Domain() *game.PlayerState {
	opponents := []game.OpponentRecord(r.Opponents)
	if opponents == nil {
		opponents = []game.OpponentRecord{}
	}
	return &game.PlayerState{
		GameID:              r.GameID,
		Player:              r.Player,
		VirtualBalance:      r.VirtualBalance,
		TotalEarned:         r.TotalEarned,
		LastClaimTime:       r.LastClaimTime,
		HasActiveAllocation: r.HasActiveAllocation,
		Allocations:         r.Allocations.Data(),
		GamesPlayed:         r.GamesPlayed,
		GamesWon:            r.GamesWon,
		Opponents:           opponents,
		RequirementMet:      r.RequirementMet,
		PenaltyApplied:      r.PenaltyApplied,
		PrizeClaimed:        r.PrizeClaimed,
	}
}

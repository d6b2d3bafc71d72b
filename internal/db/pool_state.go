package db

import (
	"time"

	"github.com/qtrix/the-final-stake/internal/game"
)

type PoolState struct {
	GameID             uint64    `gorm:"primaryKey;autoIncrement:false"`
	MiningTotal        uint64    `gorm:"not null;default:0"`
	FarmingTotal       uint64    `gorm:"not null;default:0"`
	TradingTotal       uint64    `gorm:"not null;default:0"`
	ResearchTotal      uint64    `gorm:"not null;default:0"`
	SocialTotal        uint64    `gorm:"not null;default:0"`
	SocialParticipants uint32    `gorm:"not null;default:0"`
	FarmingSeason      uint8     `gorm:"not null;default:0"`
	MarketState        uint8     `gorm:"not null;default:1"`
	LastEventTime      int64     `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

func PoolStateFromDomain(p *game.PoolState) PoolState {
	return PoolState{
		GameID:             p.GameID,
		MiningTotal:        p.MiningTotal,
		FarmingTotal:       p.FarmingTotal,
		TradingTotal:       p.TradingTotal,
		ResearchTotal:      p.ResearchTotal,
		SocialTotal:        p.SocialTotal,
		SocialParticipants: p.SocialParticipants,
		FarmingSeason:      p.FarmingSeason,
		MarketState:        p.MarketState,
		LastEventTime:      p.LastEventTime,
	}
}

func (r PoolState) Domain() *game.PoolState {
	return &game.PoolState{
		GameID:             r.GameID,
		MiningTotal:        r.MiningTotal,
		FarmingTotal:       r.FarmingTotal,
		TradingTotal:       r.TradingTotal,
		ResearchTotal:      r.ResearchTotal,
		SocialTotal:        r.SocialTotal,
		SocialParticipants: r.SocialParticipants,
		FarmingSeason:      r.FarmingSeason,
		MarketState:        r.MarketState,
		LastEventTime:      r.LastEventTime,
	}
}

package db

import (
	"time"

	"github.com/qtrix/the-final-stake/internal/game"

	"gorm.io/datatypes"
)

type Game struct {
	ID         uint64                      `gorm:"primaryKey;autoIncrement:false"`
	Name       string                      `gorm:"size:64;not null"`
	Slug       string                      `gorm:"size:96;uniqueIndex;not null"`
	Creator    string                      `gorm:"size:128;index;not null"`
	EntryFee   uint64                      `gorm:"not null"`
	MaxPlayers int                         `gorm:"not null"`
	Players    datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	Refunded   datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	StartTime  int64                       `gorm:"not null"`
	ExpireTime int64                       `gorm:"not null"`
	Status     string                      `gorm:"size:32;index;not null"`
	Started    bool                        `gorm:"not null;default:false"`
	PrizePool  uint64                      `gorm:"not null;default:0"`

	Phase           int   `gorm:"not null;default:0"`
	PhaseStart      int64 `gorm:"not null;default:0"`
	PhaseEnd        int64 `gorm:"not null;default:0"`
	AdvanceDeadline int64 `gorm:"not null;default:0"`
	Phase1Duration  int64 `gorm:"not null"`
	Phase2Duration  int64 `gorm:"not null"`
	Phase3Duration  int64 `gorm:"not null"`

	Phase2Required       int `gorm:"not null"`
	Phase2MaxPerOpponent int `gorm:"not null"`

	Phase3ReadyDeadline    int64  `gorm:"not null;default:0"`
	Phase3ExtendedDeadline int64  `gorm:"not null;default:0"`
	Phase3ReadyCount       int    `gorm:"not null;default:0"`
	Phase3Started          bool   `gorm:"not null;default:false"`
	Phase3Winner           string `gorm:"size:128"`
	Phase3PrizeClaimed     bool   `gorm:"not null;default:false"`

	FeeCollected  uint64    `gorm:"not null;default:0"`
	FeeClaimed    bool      `gorm:"not null;default:false"`
	Redistributed bool      `gorm:"not null;default:false"`
	TotalEscrowed uint64    `gorm:"not null;default:0"`
	TotalPaidOut  uint64    `gorm:"not null;default:0"`
	CreatedUnix   int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func GameFromDomain(g *game.Game) Game {
	return Game{
		ID:                     g.ID,
		Name:                   g.Name,
		Slug:                   g.Slug,
		Creator:                g.Creator,
		EntryFee:               g.EntryFee,
		MaxPlayers:             g.MaxPlayers,
		Players:                datatypes.NewJSONSlice(g.Players),
		Refunded:               datatypes.NewJSONSlice(g.Refunded),
		StartTime:              g.StartTime,
		ExpireTime:             g.ExpireTime,
		Status:                 string(g.Status),
		Started:                g.Started,
		PrizePool:              g.PrizePool,
		Phase:                  g.Phase,
		PhaseStart:             g.PhaseStart,
		PhaseEnd:               g.PhaseEnd,
		AdvanceDeadline:        g.AdvanceDeadline,
		Phase1Duration:         g.Durations.Phase1,
		Phase2Duration:         g.Durations.Phase2,
		Phase3Duration:         g.Durations.Phase3,
		Phase2Required:         g.Phase2Required,
		Phase2MaxPerOpponent:   g.Phase2MaxPerOpponent,
		Phase3ReadyDeadline:    g.Phase3ReadyDeadline,
		Phase3ExtendedDeadline: g.Phase3ExtendedDeadline,
		Phase3ReadyCount:       g.Phase3ReadyCount,
		Phase3Started:          g.Phase3Started,
		Phase3Winner:           g.Phase3Winner,
		Phase3PrizeClaimed:     g.Phase3PrizeClaimed,
		FeeCollected:           g.FeeCollected,
		FeeClaimed:             g.FeeClaimed,
		Redistributed:          g.Redistributed,
		TotalEscrowed:          g.TotalEscrowed,
		TotalPaidOut:           g.TotalPaidOut,
		CreatedUnix:            g.CreatedAt,
	}
}

func (r Game) Domain() *game.Game {
	players := []string(r.Players)
	if players == nil {
		players = []string{}
	}
	refunded := []string(r.Refunded)
	if refunded == nil {
		refunded = []string{}
	}
	return &game.Game{
		ID:         r.ID,
		Name:       r.Name,
		Slug:       r.Slug,
		Creator:    r.Creator,
		EntryFee:   r.EntryFee,
		MaxPlayers: r.MaxPlayers,
		Players:    players,
		StartTime:  r.StartTime,
		ExpireTime: r.ExpireTime,
		Status:     game.Status(r.Status),
		Started:    r.Started,
		PrizePool:  r.PrizePool,
		Refunded:   refunded,

		Phase:           r.Phase,
		PhaseStart:      r.PhaseStart,
		PhaseEnd:        r.PhaseEnd,
		AdvanceDeadline: r.AdvanceDeadline,
		Durations: game.PhaseDurations{
			Phase1: r.Phase1Duration,
			Phase2: r.Phase2Duration,
			Phase3: r.Phase3Duration,
		},

		Phase2Required:       r.Phase2Required,
		Phase2MaxPerOpponent: r.Phase2MaxPerOpponent,

		Phase3ReadyDeadline:    r.Phase3ReadyDeadline,
		Phase3ExtendedDeadline: r.Phase3ExtendedDeadline,
		Phase3ReadyCount:       r.Phase3ReadyCount,
		Phase3Started:          r.Phase3Started,
		Phase3Winner:           r.Phase3Winner,
		Phase3PrizeClaimed:     r.Phase3PrizeClaimed,

		FeeCollected:  r.FeeCollected,
		FeeClaimed:    r.FeeClaimed,
		Redistributed: r.Redistributed,
		TotalEscrowed: r.TotalEscrowed,
		TotalPaidOut:  r.TotalPaidOut,
		CreatedAt:     r.CreatedUnix,
	}
}

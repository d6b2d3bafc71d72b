package db

import (
	"encoding/json"
	"time"

	"github.com/qtrix/the-final-stake/internal/game"

	"gorm.io/datatypes"
)

type Event struct {
	ID          uint           `gorm:"primaryKey"`
	GameID      uint64         `gorm:"index;not null"`
	ChallengeID *string        `gorm:"index;size:36"`
	Player      *string        `gorm:"index;size:128"`
	Type        string         `gorm:"size:64;not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	At          int64          `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null"`
}

func EventFromDomain(e game.Event) (Event, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return Event{}, err
	}
	record := Event{
		GameID:  e.GameID,
		Type:    string(e.Type),
		Payload: datatypes.JSON(data),
		At:      e.At,
	}
	if e.ChallengeID != "" {
		id := e.ChallengeID
		record.ChallengeID = &id
	}
	if e.Player != "" {
		player := e.Player
		record.Player = &player
	}
	return record, nil
}

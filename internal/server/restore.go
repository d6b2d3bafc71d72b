package server

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/qtrix/the-final-stake/internal/db"
	"github.com/qtrix/the-final-stake/internal/game"

	"gorm.io/gorm"
)

// Bootstrap reloads persisted state into the engine and, when an admin id
// is configured, initializes the registry on first boot.
func (s *Server) Bootstrap(ctx context.Context) error {
	if s.db != nil {
		changes, err := loadChangeSet(s.db.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("restore state: %w", err)
		}
		s.engine.Store().Restore(changes)
		log.Printf("state restored games=%d players=%d challenges=%d payouts=%d",
			len(changes.Games), len(changes.Players), len(changes.Challenges), len(changes.Payouts))
	}
	if _, ok := s.engine.Store().Registry(); ok || s.cfg.AdminID == "" {
		return nil
	}
	if _, err := s.engine.InitRegistry(ctx, s.cfg.AdminID); err != nil {
		return fmt.Errorf("init registry: %w", err)
	}
	log.Printf("registry initialized admin=%s", s.cfg.AdminID)
	return nil
}

func loadChangeSet(conn *gorm.DB) (*game.ChangeSet, error) {
	changes := &game.ChangeSet{}

	var registry db.Registry
	if err := conn.First(&registry).Error; err == nil {
		changes.Registry = registry.Domain()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var games []db.Game
	if err := conn.Order("id asc").Find(&games).Error; err != nil {
		return nil, err
	}
	for _, record := range games {
		changes.Games = append(changes.Games, record.Domain())
	}

	var states []db.PlayerState
	if err := conn.Find(&states).Error; err != nil {
		return nil, err
	}
	for _, record := range states {
		changes.Players = append(changes.Players, record.Domain())
	}

	var pools []db.PoolState
	if err := conn.Find(&pools).Error; err != nil {
		return nil, err
	}
	for _, record := range pools {
		changes.Pools = append(changes.Pools, record.Domain())
	}

	var challenges []db.Challenge
	if err := conn.Find(&challenges).Error; err != nil {
		return nil, err
	}
	for _, record := range challenges {
		changes.Challenges = append(changes.Challenges, record.Domain())
	}

	var ready []db.ReadyRecord
	if err := conn.Find(&ready).Error; err != nil {
		return nil, err
	}
	for _, record := range ready {
		changes.Ready = append(changes.Ready, record.Domain())
	}

	var payouts []db.Payout
	if err := conn.Order("id asc").Find(&payouts).Error; err != nil {
		return nil, err
	}
	for _, record := range payouts {
		changes.Payouts = append(changes.Payouts, record.Domain())
	}
	return changes, nil
}

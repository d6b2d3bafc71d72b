package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/qtrix/the-final-stake/internal/db"
	"github.com/qtrix/the-final-stake/internal/game"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// committer writes a change set in one database transaction. It runs while
// the engine holds its lock, so rows are written in commit order.
type committer struct {
	db *gorm.DB
}

func (c *committer) Commit(ctx context.Context, changes *game.ChangeSet) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if changes.Registry != nil {
			record := db.RegistryFromDomain(changes.Registry)
			if err := upsert(tx, &record); err != nil {
				return fmt.Errorf("save registry: %w", err)
			}
		}
		for _, g := range changes.Games {
			record := db.GameFromDomain(g)
			if err := upsert(tx, &record); err != nil {
				return fmt.Errorf("save game %d: %w", g.ID, err)
			}
		}
		for _, state := range changes.Players {
			record := db.PlayerStateFromDomain(state)
			if err := upsert(tx, &record); err != nil {
				return fmt.Errorf("save player state %d/%s: %w", state.GameID, state.Player, err)
			}
		}
		for _, pool := range changes.Pools {
			record := db.PoolStateFromDomain(pool)
			if err := upsert(tx, &record); err != nil {
				return fmt.Errorf("save pool %d: %w", pool.GameID, err)
			}
		}
		for _, challenge := range changes.Challenges {
			record := db.ChallengeFromDomain(challenge)
			if err := upsert(tx, &record); err != nil {
				return fmt.Errorf("save challenge %s: %w", challenge.ID, err)
			}
		}
		for _, ready := range changes.Ready {
			record := db.ReadyRecordFromDomain(ready)
			if err := upsert(tx, &record); err != nil {
				return fmt.Errorf("save ready record %d/%s: %w", ready.GameID, ready.Player, err)
			}
		}
		for _, payout := range changes.Payouts {
			record := db.PayoutFromDomain(payout)
			if err := tx.Create(&record).Error; err != nil {
				if isUniqueViolation(err) {
					return game.ErrAlreadyClaimed.Wrap(err)
				}
				return fmt.Errorf("save payout: %w", err)
			}
		}
		for _, event := range changes.Events {
			record, err := db.EventFromDomain(event)
			if err != nil {
				return err
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("save event %s: %w", event.Type, err)
			}
		}
		return nil
	})
}

func upsert(tx *gorm.DB, record any) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

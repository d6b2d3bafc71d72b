package game

import "strings"

// initRegistry creates the singleton registry. It fails once one exists.
func (tx *Tx) initRegistry(admin string) (*Registry, error) {
	admin = strings.TrimSpace(admin)
	if admin == "" {
		return nil, ErrInvalidIdentity
	}
	if tx.registry != nil || tx.store.registry != nil {
		return nil, ErrRegistryAlreadyInitialized
	}
	tx.registry = &Registry{Admin: admin}
	tx.touch(tx.registry)
	tx.emit(Event{Type: EventRegistryInitialized, Player: admin})
	return tx.registry, nil
}

// nextGameID is the only place game ids are issued. Ids start at 1.
func (tx *Tx) nextGameID() (uint64, error) {
	registry, err := tx.Registry()
	if err != nil {
		return 0, err
	}
	count, err := addAmount(registry.GameCount, 1)
	if err != nil {
		return 0, err
	}
	total, err := addAmount(registry.TotalGamesCreated, 1)
	if err != nil {
		return 0, err
	}
	registry.GameCount = count
	registry.TotalGamesCreated = total
	tx.touch(registry)
	return count, nil
}

func (tx *Tx) requireAdmin(caller string) error {
	registry, err := tx.Registry()
	if err != nil {
		return err
	}
	if caller == "" || caller != registry.Admin {
		return ErrNotAdmin
	}
	return nil
}

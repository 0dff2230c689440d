package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yingzhou-world/chronicle/internal/chronicle/storage"
)

// GetWorldState returns the stored world state singleton. A store that has
// never been written returns the zero state.
func (s *Store) GetWorldState(ctx context.Context) (storage.WorldState, error) {
	if err := ctx.Err(); err != nil {
		return storage.WorldState{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.WorldState{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT state, finalized FROM world_state WHERE id = 1`,
	)
	var state int64
	var finalized int64
	if err := row.Scan(&state, &finalized); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.WorldState{}, nil
		}
		return storage.WorldState{}, fmt.Errorf("get world state: %w", err)
	}
	return storage.WorldState{State: uint8(state), Finalized: finalized != 0}, nil
}

// SetWorldState overwrites the stored world state singleton.
func (s *Store) SetWorldState(ctx context.Context, state storage.WorldState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	finalized := int64(0)
	if state.Finalized {
		finalized = 1
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO world_state (id, state, finalized) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET state = excluded.state, finalized = excluded.finalized`,
		int64(state.State),
		finalized,
	); err != nil {
		return fmt.Errorf("set world state: %w", err)
	}
	return nil
}

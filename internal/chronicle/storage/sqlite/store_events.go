package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/event"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage"
)

// AppendEvent atomically appends an event and returns it with its sequence
// id set. Ids start at 0 and never gap; the sequence row is initialized on
// first append.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return event.Event{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO event_seq (id, next_id) VALUES (1, 0)
		 ON CONFLICT (id) DO NOTHING`,
	); err != nil {
		return event.Event{}, fmt.Errorf("init event seq: %w", err)
	}

	var nextID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT next_id FROM event_seq WHERE id = 1`,
	).Scan(&nextID); err != nil {
		return event.Event{}, fmt.Errorf("get event seq: %w", err)
	}
	evt.ID = uint64(nextID)

	if _, err := tx.ExecContext(ctx,
		`UPDATE event_seq SET next_id = next_id + 1 WHERE id = 1`,
	); err != nil {
		return event.Event{}, fmt.Errorf("increment event seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, timestamp_ms, sequence_marker, event_type, actor, content_hash, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nextID,
		toMillis(evt.Timestamp),
		int64(evt.SequenceMarker),
		string(evt.Type),
		evt.Actor,
		evt.ContentHash,
		evt.Metadata,
	); err != nil {
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return event.Event{}, fmt.Errorf("commit: %w", err)
	}
	return evt, nil
}

// GetEvent returns the event with the given id.
func (s *Store) GetEvent(ctx context.Context, id uint64) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, timestamp_ms, sequence_marker, event_type, actor, content_hash, metadata
		   FROM events
		  WHERE id = ?`,
		int64(id),
	)
	evt, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, storage.ErrNotFound
		}
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	return evt, nil
}

// CountEvents returns the number of stored events.
func (s *Store) CountEvents(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var count int64
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return uint64(count), nil
}

// ListEvents returns up to limit events starting at id start, in id order.
func (s *Store) ListEvents(ctx context.Context, start uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, timestamp_ms, sequence_marker, event_type, actor, content_hash, metadata
		   FROM events
		  WHERE id >= ?
		  ORDER BY id ASC
		  LIMIT ?`,
		int64(start),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		evt, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		out = append(out, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func scanEvent(scan func(dest ...any) error) (event.Event, error) {
	var (
		evt            event.Event
		id             int64
		timestampMS    int64
		sequenceMarker int64
		eventType      string
	)
	if err := scan(&id, &timestampMS, &sequenceMarker, &eventType, &evt.Actor, &evt.ContentHash, &evt.Metadata); err != nil {
		return event.Event{}, err
	}
	evt.ID = uint64(id)
	evt.Timestamp = fromMillis(timestampMS)
	evt.SequenceMarker = uint64(sequenceMarker)
	evt.Type = event.Type(eventType)
	return evt, nil
}

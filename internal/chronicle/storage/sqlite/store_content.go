package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/domain/dialogue"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// PutContent stores a dialogue payload under its request id. An identical
// re-put is a no-op; a divergent payload under the same key reports
// ErrContentConflict instead of overwriting.
func (s *Store) PutContent(ctx context.Context, content dialogue.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	requestID := strings.TrimSpace(content.RequestID)
	if requestID == "" {
		return fmt.Errorf("request id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO dialogue_contents (request_id, question, response, created_at_ms)
		 VALUES (?, ?, ?, ?)`,
		requestID,
		content.Question,
		content.Response,
		toMillis(time.Now()),
	)
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err) {
		return fmt.Errorf("put content: %w", err)
	}

	existing, ok, lookupErr := s.GetContent(ctx, requestID)
	if lookupErr != nil {
		return lookupErr
	}
	if ok && existing.Equal(content) {
		return nil
	}
	return storage.ErrContentConflict
}

// GetContent returns the payload stored under the request id.
func (s *Store) GetContent(ctx context.Context, requestID string) (dialogue.Content, bool, error) {
	if err := ctx.Err(); err != nil {
		return dialogue.Content{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return dialogue.Content{}, false, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT request_id, question, response
		   FROM dialogue_contents
		  WHERE request_id = ?`,
		strings.TrimSpace(requestID),
	)
	var content dialogue.Content
	if err := row.Scan(&content.RequestID, &content.Question, &content.Response); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dialogue.Content{}, false, nil
		}
		return dialogue.Content{}, false, fmt.Errorf("get content: %w", err)
	}
	return content, true, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

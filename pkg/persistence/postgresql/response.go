package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/formlane/formlane/pkg/models"
)

// ResponseRepository handles submission-related database operations.
type ResponseRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewResponseRepository creates a new response repository.
func NewResponseRepository(db *sql.DB, logger *slog.Logger) *ResponseRepository {
	return &ResponseRepository{db: db, logger: logger}
}

// Add stores a new submission entry.
func (r *ResponseRepository) Add(ctx context.Context, entry *models.ResponseEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	stepsJSON, err := json.Marshal(entry.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal response steps: %w", err)
	}

	query := `
		INSERT INTO responses (id, share_id, steps, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = r.db.ExecContext(ctx, query, entry.ID, entry.ShareID, stepsJSON, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save response %s: %w", entry.ID, err)
	}

	return nil
}

// List returns submission entries newest first. An empty shareID lists
// entries across all forms.
func (r *ResponseRepository) List(ctx context.Context, shareID string) ([]*models.ResponseEntry, error) {
	query := `
		SELECT id, share_id, steps, created_at
		FROM responses
		WHERE $1 = '' OR share_id::text = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, shareID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	entries := make([]*models.ResponseEntry, 0)

	for rows.Next() {
		var (
			entry     models.ResponseEntry
			stepsJSON []byte
		)

		err := rows.Scan(&entry.ID, &entry.ShareID, &stepsJSON, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}

		if stepsJSON != nil {
			err := json.Unmarshal(stepsJSON, &entry.Steps)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal response steps: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating responses: %w", err)
	}

	return entries, nil
}

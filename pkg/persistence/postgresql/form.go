package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/persistence"
)

// FormRepository handles form-related database operations.
type FormRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewFormRepository creates a new form repository.
func NewFormRepository(db *sql.DB, logger *slog.Logger) *FormRepository {
	return &FormRepository{db: db, logger: logger}
}

// Save upserts a form document. Timestamps are stamped here so file and
// database backends behave the same way.
func (r *FormRepository) Save(ctx context.Context, form *models.Form) error {
	now := time.Now().UTC()

	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}

	form.UpdatedAt = now

	stepsJSON, err := json.Marshal(form.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}

	query := `
		INSERT INTO forms (id, share_id, owner, title, steps, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			share_id = EXCLUDED.share_id,
			owner = EXCLUDED.owner,
			title = EXCLUDED.title,
			steps = EXCLUDED.steps,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		form.ID,
		form.ShareID,
		form.Owner,
		form.Title,
		stepsJSON,
		form.CreatedAt,
		form.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save form %s: %w", form.ID, err)
	}

	return nil
}

// GetByID returns a form by its ID.
func (r *FormRepository) GetByID(ctx context.Context, id string) (*models.Form, error) {
	query := `
		SELECT
			id
		  , share_id
		  , owner
		  , title
		  , steps
		  , created_at
		  , updated_at
		FROM forms
		WHERE id = $1
	`

	form, err := r.scanForm(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewFormError("GetByID", id, persistence.ErrFormNotFound)
		}

		return nil, fmt.Errorf("failed to scan form %s: %w", id, err)
	}

	return form, nil
}

// GetByShareID returns a form by its public share ID.
func (r *FormRepository) GetByShareID(ctx context.Context, shareID string) (*models.Form, error) {
	query := `
		SELECT
			id
		  , share_id
		  , owner
		  , title
		  , steps
		  , created_at
		  , updated_at
		FROM forms
		WHERE share_id = $1
	`

	form, err := r.scanForm(r.db.QueryRowContext(ctx, query, shareID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewFormError("GetByShareID", shareID, persistence.ErrFormNotFound)
		}

		return nil, fmt.Errorf("failed to scan form for share %s: %w", shareID, err)
	}

	return form, nil
}

// Delete removes a form. Deleting a missing form is not an error.
func (r *FormRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM forms WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete form %s: %w", id, err)
	}

	return nil
}

func (r *FormRepository) scanForm(scanner interface {
	Scan(dest ...any) error
}) (*models.Form, error) {
	var (
		form      models.Form
		stepsJSON []byte
	)

	err := scanner.Scan(
		&form.ID,
		&form.ShareID,
		&form.Owner,
		&form.Title,
		&stepsJSON,
		&form.CreatedAt,
		&form.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if stepsJSON != nil {
		err := json.Unmarshal(stepsJSON, &form.Steps)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
		}
	}

	return &form, nil
}

package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/persistence"
)

// FormRepository handles form-related file operations.
type FormRepository struct {
	root string // File system root for storing forms
}

// NewFormRepository creates a new form repository.
func NewFormRepository(root string) *FormRepository {
	return &FormRepository{root: root}
}

// Save writes a form to the file system, stamping timestamps.
func (fr *FormRepository) Save(_ context.Context, form *models.Form) error {
	err := os.MkdirAll(fr.root+"/forms", 0750)
	if err != nil {
		return fmt.Errorf("failed to create forms directory: %w", err)
	}

	now := time.Now().UTC()
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}

	form.UpdatedAt = now

	data, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal form %s: %w", form.ID, err)
	}

	filePath := path.Join(fr.root+"/forms", form.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// GetByID retrieves a form by its owner-side id.
func (fr *FormRepository) GetByID(_ context.Context, id string) (*models.Form, error) {
	filePath := filepath.Clean(path.Join(fr.root, "forms", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewFormError("GetByID", id, persistence.ErrFormNotFound)
		}

		return nil, fmt.Errorf("failed to fetch form %s: %w", id, err)
	}

	var form models.Form

	err = json.Unmarshal(body, &form)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal form %s: %w", id, err)
	}

	return &form, nil
}

// GetByShareID retrieves a form by its public share id, scanning the stored
// documents.
func (fr *FormRepository) GetByShareID(ctx context.Context, shareID string) (*models.Form, error) {
	root := os.DirFS(fr.root + "/forms")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list form files: %w", err)
	}

	for _, file := range jsonFiles {
		formID := file[:len(file)-5] // Remove .json extension

		form, err := fr.GetByID(ctx, formID)
		if err != nil {
			if persistence.IsFormNotFound(err) {
				continue
			}

			return nil, err
		}

		if form.ShareID == shareID {
			return form, nil
		}
	}

	return nil, persistence.NewFormError("GetByShareID", shareID, persistence.ErrFormNotFound)
}

// Delete removes a form by its id. Deleting a missing form is a no-op.
func (fr *FormRepository) Delete(_ context.Context, id string) error {
	filePath := path.Join(fr.root+"/forms", id+".json")

	err := os.Remove(filePath)

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete form %s: %w", id, err)
	}

	return nil
}

package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/formlane/formlane/pkg/models"
)

// ResponseRepository handles response entry file operations.
type ResponseRepository struct {
	root string
}

// NewResponseRepository creates a new response repository.
func NewResponseRepository(root string) *ResponseRepository {
	return &ResponseRepository{root: root}
}

// Add appends a response entry, stamping its creation time.
func (rr *ResponseRepository) Add(_ context.Context, entry *models.ResponseEntry) error {
	err := os.MkdirAll(rr.root+"/responses", 0750)
	if err != nil {
		return fmt.Errorf("failed to create responses directory: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response entry %s: %w", entry.ID, err)
	}

	filePath := path.Join(rr.root+"/responses", entry.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// List returns stored entries newest first; an empty shareID lists all.
func (rr *ResponseRepository) List(_ context.Context, shareID string) ([]*models.ResponseEntry, error) {
	root := os.DirFS(rr.root + "/responses")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list response files: %w", err)
	}

	entries := make([]*models.ResponseEntry, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		filePath := filepath.Clean(path.Join(rr.root, "responses", file))

		body, err := os.ReadFile(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return nil, fmt.Errorf("failed to fetch response entry %s: %w", file, err)
		}

		var entry models.ResponseEntry

		err = json.Unmarshal(body, &entry)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal response entry %s: %w", file, err)
		}

		if shareID != "" && entry.ShareID != shareID {
			continue
		}

		entries = append(entries, &entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries, nil
}

// Package file provides file-based persistence for forms, responses and
// users, one JSON document per record.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/formlane/formlane/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root         string
	formRepo     *FormRepository
	responseRepo *ResponseRepository
	userRepo     *UserRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		formRepo:     NewFormRepository(cleanRoot),
		responseRepo: NewResponseRepository(cleanRoot),
		userRepo:     NewUserRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) FormRepository() persistence.FormRepository {
	return fp.formRepo
}

func (fp *Persistence) ResponseRepository() persistence.ResponseRepository {
	return fp.responseRepo
}

func (fp *Persistence) UserRepository() persistence.UserRepository {
	return fp.userRepo
}

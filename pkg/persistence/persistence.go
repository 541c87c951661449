// Package persistence provides the data storage abstraction for forms,
// response entries and users.
package persistence

import (
	"context"

	"github.com/formlane/formlane/pkg/models"
)

// FormRepository stores form documents. Save assigns timestamps; lookups
// return ErrFormNotFound (wrapped) for unknown identifiers.
type FormRepository interface {
	Save(ctx context.Context, form *models.Form) error
	GetByID(ctx context.Context, id string) (*models.Form, error)
	GetByShareID(ctx context.Context, shareID string) (*models.Form, error)
	Delete(ctx context.Context, id string) error
}

// ResponseRepository appends and lists submission entries. List returns
// entries newest first; an empty shareID lists across all forms.
type ResponseRepository interface {
	Add(ctx context.Context, entry *models.ResponseEntry) error
	List(ctx context.Context, shareID string) ([]*models.ResponseEntry, error)
}

// UserRepository stores accounts, keyed by id with unique emails.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type Persistence interface {
	FormRepository() FormRepository
	ResponseRepository() ResponseRepository
	UserRepository() UserRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// Package postgresql provides PostgreSQL persistence for forms, responses and users.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/formlane/formlane/pkg/persistence"
	"github.com/formlane/formlane/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	formRepo     *FormRepository
	responseRepo *ResponseRepository
	userRepo     *UserRepository
}

// NewPersistence creates a new PostgreSQL persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	postgres := &Persistence{
		db:           database,
		logger:       logger,
		formRepo:     NewFormRepository(database, logger),
		responseRepo: NewResponseRepository(database, logger),
		userRepo:     NewUserRepository(database, logger),
	}

	// Run migrations on initialization
	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

// FormRepository returns the form repository.
func (p *Persistence) FormRepository() persistence.FormRepository {
	return p.formRepo
}

// ResponseRepository returns the response repository.
func (p *Persistence) ResponseRepository() persistence.ResponseRepository {
	return p.responseRepo
}

// UserRepository returns the user repository.
func (p *Persistence) UserRepository() persistence.UserRepository {
	return p.userRepo
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

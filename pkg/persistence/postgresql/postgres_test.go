package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/persistence"
	"github.com/formlane/formlane/pkg/persistence/postgresql"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"responses", "forms", "users", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("formlane_test"),
			postgres.WithUsername("formlane"),
			postgres.WithPassword("formlane"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	var exists bool

	for _, table := range []string{"forms", "responses", "users", "schema_migrations"} {
		err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = $1)`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, table+" table should exist")
	}

	var version int

	err = db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestNewPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	require.NoError(t, p.HealthCheck(ctx))
}

func TestFormRepository_RoundTrip(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.FormRepository()

	form := models.NewForm()
	form.ID = uuid.NewString()
	form.ShareID = uuid.NewString()
	form.Owner = "ada@example.com"
	form.Title = "Customer Survey"
	form.Steps[0] = append(form.Steps[0],
		models.DefaultField(models.FieldTypeText),
		models.DefaultField(models.FieldTypeDropdown),
	)

	require.NoError(t, repo.Save(ctx, form))

	fetched, err := repo.GetByID(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Customer Survey", fetched.Title)
	require.Len(t, fetched.Steps, 1)
	require.Len(t, fetched.Steps[0], 2)
	assert.Equal(t, []string{"Option 1", "Option 2"}, fetched.Steps[0][1].Options)

	byShare, err := repo.GetByShareID(ctx, form.ShareID)
	require.NoError(t, err)
	assert.Equal(t, form.ID, byShare.ID)

	// Upsert keeps the same document.
	form.Title = "Renamed Survey"
	require.NoError(t, repo.Save(ctx, form))

	fetched, err = repo.GetByID(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Survey", fetched.Title)
}

func TestFormRepository_NotFoundAndDelete(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.FormRepository()

	_, err := repo.GetByID(ctx, uuid.NewString())
	require.Error(t, err)
	assert.True(t, persistence.IsFormNotFound(err))

	_, err = repo.GetByShareID(ctx, uuid.NewString())
	assert.True(t, persistence.IsFormNotFound(err))

	form := models.NewForm()
	form.ID = uuid.NewString()
	form.ShareID = uuid.NewString()
	require.NoError(t, repo.Save(ctx, form))
	require.NoError(t, repo.Delete(ctx, form.ID))

	_, err = repo.GetByID(ctx, form.ID)
	assert.True(t, persistence.IsFormNotFound(err))

	require.NoError(t, repo.Delete(ctx, uuid.NewString()))
}

func TestResponseRepository_AddAndList(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.ResponseRepository()

	shareID := uuid.NewString()
	otherShareID := uuid.NewString()

	first := &models.ResponseEntry{
		ID:      uuid.NewString(),
		ShareID: shareID,
		Steps: map[string]map[string]any{
			"step1": {"field-a": "hello"},
		},
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	second := &models.ResponseEntry{
		ID:      uuid.NewString(),
		ShareID: shareID,
		Steps: map[string]map[string]any{
			"step1": {"field-a": "world"},
		},
	}

	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, second))
	require.NoError(t, repo.Add(ctx, &models.ResponseEntry{ID: uuid.NewString(), ShareID: otherShareID}))

	entries, err := repo.List(ctx, shareID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, "world", entries[0].Steps["step1"]["field-a"])

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserRepository_Lifecycle(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.UserRepository()

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "hashed",
	}

	require.NoError(t, repo.Create(ctx, user))

	dup := &models.User{ID: uuid.NewString(), Name: "Ada 2", Email: "ADA@example.com", PasswordHash: "x"}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, persistence.IsUserAlreadyExists(err))

	byEmail, err := repo.GetByEmail(ctx, "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byEmail.Verified = true
	require.NoError(t, repo.Update(ctx, byEmail))

	fetched, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Verified)

	err = repo.Update(ctx, &models.User{ID: uuid.NewString(), Email: "ghost@example.com"})
	assert.True(t, persistence.IsUserNotFound(err))
}

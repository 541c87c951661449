package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/formlane/formlane/pkg/eventbus"
	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/persistence"
	"github.com/formlane/formlane/pkg/persistence/file"
	"github.com/formlane/formlane/pkg/services"
)

func testTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("test")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPersistence(t *testing.T) persistence.Persistence {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	t.Cleanup(func() {
		_ = p.Close(context.Background())
	})

	return p
}

func TestForm_CreateForm_AssignsFreshIdentifiers(t *testing.T) {
	p := newTestPersistence(t)
	service := services.NewForm(p, nil, testTracer(), testLogger())
	ctx := context.Background()

	form := models.NewForm()
	form.Title = "Customer Survey"
	form.Steps[0] = append(form.Steps[0], models.DefaultField(models.FieldTypeText))

	first, err := service.CreateForm(ctx, form)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.ShareID)
	assert.NotEqual(t, first.ID, first.ShareID)

	// Saving the same snapshot again creates a brand new document.
	second, err := service.CreateForm(ctx, form)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.ShareID, second.ShareID)

	stored, err := service.FetchByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Customer Survey", stored.Title)
}

func TestForm_CreateForm_CopiesSteps(t *testing.T) {
	p := newTestPersistence(t)
	service := services.NewForm(p, nil, testTracer(), testLogger())
	ctx := context.Background()

	form := models.NewForm()
	field := models.DefaultField(models.FieldTypeText)
	form.Steps[0] = append(form.Steps[0], field)

	saved, err := service.CreateForm(ctx, form)
	require.NoError(t, err)

	// Mutating the input after saving must not affect the stored document.
	field.Label = "changed"

	stored, err := service.FetchByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Text Field", stored.Steps[0][0].Label)
}

func TestForm_CreateForm_Defaults(t *testing.T) {
	p := newTestPersistence(t)
	service := services.NewForm(p, nil, testTracer(), testLogger())

	saved, err := service.CreateForm(context.Background(), &models.Form{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFormTitle, saved.Title)
	require.Len(t, saved.Steps, 1)
	assert.Empty(t, saved.Steps[0])
}

func TestForm_CreateForm_NilForm(t *testing.T) {
	p := newTestPersistence(t)
	service := services.NewForm(p, nil, testTracer(), testLogger())

	_, err := service.CreateForm(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}

func TestForm_FetchByShareID(t *testing.T) {
	p := newTestPersistence(t)
	service := services.NewForm(p, nil, testTracer(), testLogger())
	ctx := context.Background()

	saved, err := service.CreateForm(ctx, models.NewForm())
	require.NoError(t, err)

	found, err := service.FetchByShareID(ctx, saved.ShareID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)

	_, err = service.FetchByShareID(ctx, "unknown")
	require.Error(t, err)
	assert.True(t, persistence.IsFormNotFound(err))

	_, err = service.FetchByShareID(ctx, "")
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}

func TestForm_Delete(t *testing.T) {
	p := newTestPersistence(t)
	service := services.NewForm(p, nil, testTracer(), testLogger())
	ctx := context.Background()

	saved, err := service.CreateForm(ctx, models.NewForm())
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, saved.ID))

	_, err = service.FetchByID(ctx, saved.ID)
	assert.True(t, persistence.IsFormNotFound(err))
}

func TestForm_HealthCheck(t *testing.T) {
	p := newTestPersistence(t)
	service := services.NewForm(p, nil, testTracer(), testLogger())

	message, healthy := service.HealthCheck(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, "Persistence layer is healthy", message)
}

type failingPublisher struct{}

func (failingPublisher) Publish(_ context.Context, _ string, _ eventbus.Event) error {
	return errors.New("broker unavailable")
}

func TestForm_CreateForm_PublishFailureIsLoggedNotFatal(t *testing.T) {
	p := newTestPersistence(t)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	service := services.NewForm(p, failingPublisher{}, testTracer(), logger)

	saved, err := service.CreateForm(context.Background(), models.NewForm())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	assert.Contains(t, logs.String(), "failed to publish form event")
	assert.Contains(t, logs.String(), "broker unavailable")
}

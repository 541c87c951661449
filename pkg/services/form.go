package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/formlane/formlane/pkg/eventbus"
	"github.com/formlane/formlane/pkg/events"
	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/otelhelper"
	"github.com/formlane/formlane/pkg/persistence"
)

// ErrFormNotFound is returned when a form is not found.
var ErrFormNotFound = persistence.ErrFormNotFound

// Form provides form document operations. Every CreateForm call persists a
// fresh document with its own ID and share ID, so saved forms are immutable
// snapshots rather than versions of one record.
type Form struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewForm creates a new form service.
func NewForm(p persistence.Persistence, publisher eventbus.EventPublisher, tracer trace.Tracer, logger *slog.Logger) *Form {
	return &Form{
		persistence: p,
		publisher:   publisher,
		tracer:      tracer,
		logger:      logger,
	}
}

// HealthCheck checks the health of the persistence layer.
func (f *Form) HealthCheck(ctx context.Context) (string, bool) {
	if f.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := f.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreateForm stores a snapshot as a new document. The input form's ID and
// ShareID are ignored; the returned form carries the assigned identifiers.
// This method satisfies the builder's Saver interface.
func (f *Form) CreateForm(ctx context.Context, form *models.Form) (*models.Form, error) {
	if form == nil {
		return nil, NewValidationError("CreateForm", "FORM_NIL", "form is required", ErrFormNil)
	}

	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "services.form create",
		attribute.String(otelhelper.FormTitleKey, form.Title),
	)
	defer span.End()

	saved := &models.Form{
		ID:      uuid.NewString(),
		ShareID: uuid.NewString(),
		Owner:   form.Owner,
		Title:   form.Title,
		Steps:   models.CloneSteps(form.Steps),
	}

	if saved.Title == "" {
		saved.Title = models.DefaultFormTitle
	}

	if len(saved.Steps) == 0 {
		saved.Steps = []models.Step{{}}
	}

	err := f.persistence.FormRepository().Save(ctx, saved)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to save form: %w", err)
	}

	span.SetAttributes(
		attribute.String(otelhelper.FormIDKey, saved.ID),
		attribute.String(otelhelper.ShareIDKey, saved.ShareID),
	)

	f.publishSaved(ctx, saved)

	return saved, nil
}

// FetchByID returns a form document by its ID.
func (f *Form) FetchByID(ctx context.Context, id string) (*models.Form, error) {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "services.form fetch_by_id",
		attribute.String(otelhelper.FormIDKey, id),
	)
	defer span.End()

	form, err := f.persistence.FormRepository().GetByID(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return form, nil
}

// FetchByShareID returns a form document by its public share ID. This is the
// lookup respondents use, so it carries no ownership checks.
func (f *Form) FetchByShareID(ctx context.Context, shareID string) (*models.Form, error) {
	if shareID == "" {
		return nil, NewValidationError("FetchByShareID", "EMPTY_SHARE_ID", "share ID is required", ErrEmptyShareID)
	}

	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "services.form fetch_by_share_id",
		attribute.String(otelhelper.ShareIDKey, shareID),
	)
	defer span.End()

	form, err := f.persistence.FormRepository().GetByShareID(ctx, shareID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return form, nil
}

// Delete removes a form document. Deleting a missing form is not an error.
func (f *Form) Delete(ctx context.Context, id string) error {
	ctx, span := otelhelper.StartSpan(ctx, f.tracer, "services.form delete",
		attribute.String(otelhelper.FormIDKey, id),
	)
	defer span.End()

	err := f.persistence.FormRepository().Delete(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	return nil
}

// publishSaved emits a form.saved event. Publishing failures do not fail the
// save; the document is already durable.
func (f *Form) publishSaved(ctx context.Context, form *models.Form) {
	if f.publisher == nil {
		return
	}

	event := events.FormSaved{
		BaseEvent:  events.NewBaseEvent(events.FormSavedEvent),
		FormID:     form.ID,
		ShareID:    form.ShareID,
		Owner:      form.Owner,
		Title:      form.Title,
		FieldCount: form.FieldCount(),
		StepCount:  len(form.Steps),
	}

	err := f.publisher.Publish(ctx, form.ID, event)
	if err != nil {
		f.logger.ErrorContext(ctx, "failed to publish form event", "event_type", event.GetType(), "error", err)
	}
}

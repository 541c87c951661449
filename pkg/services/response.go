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

// ErrResponseNotFound is returned when a submission is not found.
var ErrResponseNotFound = persistence.ErrResponseNotFound

// Response records and lists form submissions.
type Response struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewResponse creates a new response service.
func NewResponse(p persistence.Persistence, publisher eventbus.EventPublisher, tracer trace.Tracer, logger *slog.Logger) *Response {
	return &Response{
		persistence: p,
		publisher:   publisher,
		tracer:      tracer,
		logger:      logger,
	}
}

// Add records a submission against the form identified by shareID. The form
// must exist; values arrive already grouped per step key.
func (r *Response) Add(ctx context.Context, shareID string, steps map[string]map[string]any) (*models.ResponseEntry, error) {
	if shareID == "" {
		return nil, NewValidationError("Add", "EMPTY_SHARE_ID", "share ID is required", ErrEmptyShareID)
	}

	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "services.response add",
		attribute.String(otelhelper.ShareIDKey, shareID),
	)
	defer span.End()

	form, err := r.persistence.FormRepository().GetByShareID(ctx, shareID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if steps == nil {
		steps = make(map[string]map[string]any)
	}

	entry := &models.ResponseEntry{
		ID:      uuid.NewString(),
		ShareID: shareID,
		Steps:   steps,
	}

	err = r.persistence.ResponseRepository().Add(ctx, entry)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	span.SetAttributes(attribute.String(otelhelper.ResponseIDKey, entry.ID))

	r.publishReceived(ctx, form, entry)

	return entry, nil
}

// List returns submissions for a share ID, newest first. An empty shareID
// lists submissions across all forms.
func (r *Response) List(ctx context.Context, shareID string) ([]*models.ResponseEntry, error) {
	ctx, span := otelhelper.StartSpan(ctx, r.tracer, "services.response list",
		attribute.String(otelhelper.ShareIDKey, shareID),
	)
	defer span.End()

	entries, err := r.persistence.ResponseRepository().List(ctx, shareID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	return entries, nil
}

// publishReceived emits a response.received event so the mail dispatcher can
// acknowledge the submission. The respondent email, when present, is the
// value of the first email field answered in the submission.
func (r *Response) publishReceived(ctx context.Context, form *models.Form, entry *models.ResponseEntry) {
	if r.publisher == nil {
		return
	}

	event := events.ResponseReceived{
		BaseEvent:  events.NewBaseEvent(events.ResponseReceivedEvent),
		ResponseID: entry.ID,
		ShareID:    entry.ShareID,
		FormTitle:  form.Title,
		Owner:      form.Owner,
		Respondent: respondentEmail(form, entry),
	}

	err := r.publisher.Publish(ctx, entry.ShareID, event)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to publish response event", "event_type", event.GetType(), "error", err)
	}
}

func respondentEmail(form *models.Form, entry *models.ResponseEntry) string {
	for index, step := range form.Steps {
		values, ok := entry.Steps[models.StepKey(index)]
		if !ok {
			continue
		}

		for _, field := range step {
			if field.Type != models.FieldTypeEmail {
				continue
			}

			if email, ok := values[field.ID].(string); ok && email != "" {
				return email
			}
		}
	}

	return ""
}

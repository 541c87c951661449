package web

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/formlane/formlane/pkg/runtime"
	"github.com/formlane/formlane/pkg/services"
)

// FillHandlers drives a visitor through a shared form one step at a time:
// fetch by share id, validate per step, submit from the last step. Fill
// sessions are anonymous and held in memory; there is no terminal state, a
// session can keep navigating after submission.
type FillHandlers struct {
	forms     *services.Form
	responses *services.Response
	validator *validator.Validate

	mu       sync.Mutex
	sessions map[string]*fillSession
}

type fillSession struct {
	shareID string
	run     *runtime.FillSession
}

func NewFillHandlers(forms *services.Form, responses *services.Response, validator *validator.Validate) *FillHandlers {
	return &FillHandlers{
		forms:     forms,
		responses: responses,
		validator: validator,
		sessions:  make(map[string]*fillSession),
	}
}

func (h *FillHandlers) get(id string) *fillSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.sessions[id]
}

func (h *FillHandlers) state(id string, fill *fillSession) fiber.Map {
	return fiber.Map{
		"sessionId": id,
		"step":      fill.run.CurrentStep(),
		"controls":  fill.run.Controls(),
		"errors":    fill.run.Errors(),
	}
}

// Start fetches the form behind a share id and opens a fill session on its
// first step.
func (h *FillHandlers) Start(c fiber.Ctx) error {
	form, err := h.forms.FetchByShareID(c.Context(), c.Params("shareId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	id := uuid.NewString()
	fill := &fillSession{shareID: form.ShareID, run: runtime.NewFillSession(form)}

	h.mu.Lock()
	h.sessions[id] = fill
	h.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(h.state(id, fill))
}

func (h *FillHandlers) GetState(c fiber.Ctx) error {
	id := c.Params("id")

	fill := h.get(id)
	if fill == nil {
		return notFound(c, "Fill session not found")
	}

	return c.JSON(h.state(id, fill))
}

// SetValue records one answer and clears any stale error for the field.
func (h *FillHandlers) SetValue(c fiber.Ctx) error {
	id := c.Params("id")

	fill := h.get(id)
	if fill == nil {
		return notFound(c, "Fill session not found")
	}

	var req FillValueRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	fill.run.SetValue(req.FieldID, req.Value)

	return c.JSON(h.state(id, fill))
}

// Next advances past the current step when it validates cleanly; otherwise
// the cursor stays put and the per-field messages come back with a 422.
func (h *FillHandlers) Next(c fiber.Ctx) error {
	id := c.Params("id")

	fill := h.get(id)
	if fill == nil {
		return notFound(c, "Fill session not found")
	}

	stepErrors, err := fill.run.Next()
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": stepErrors})
	}

	return c.JSON(h.state(id, fill))
}

func (h *FillHandlers) Previous(c fiber.Ctx) error {
	id := c.Params("id")

	fill := h.get(id)
	if fill == nil {
		return notFound(c, "Fill session not found")
	}

	fill.run.Previous()

	return c.JSON(h.state(id, fill))
}

// Submit re-validates the last step and stores the collected answers as a
// new response entry.
func (h *FillHandlers) Submit(c fiber.Ctx) error {
	id := c.Params("id")

	fill := h.get(id)
	if fill == nil {
		return notFound(c, "Fill session not found")
	}

	payload, err := fill.run.Submit()
	if err != nil {
		if errors.Is(err, runtime.ErrNotLastStep) {
			return badRequest(c, "Submit is only available from the last step")
		}

		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": fill.run.Errors()})
	}

	entry, err := h.responses.Add(c.Context(), fill.shareID, payload)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": entry.ID})
}

package web

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/formlane/formlane/pkg/builder"
	"github.com/formlane/formlane/pkg/models"
)

// BuilderHandlers exposes authoring sessions over HTTP. Every route runs
// behind the session cookie; a session is only visible to its owner.
type BuilderHandlers struct {
	manager   *builder.Manager
	validator *validator.Validate
}

func NewBuilderHandlers(manager *builder.Manager, validator *validator.Validate) *BuilderHandlers {
	return &BuilderHandlers{
		manager:   manager,
		validator: validator,
	}
}

// session resolves the addressed session for the authenticated user. A
// missing session and someone else's session are indistinguishable to the
// caller.
func (h *BuilderHandlers) session(c fiber.Ctx) *builder.Session {
	session := h.manager.Get(c.Params("id"))
	if session == nil || session.Owner() != authenticatedUserID(c) {
		return nil
	}

	return session
}

func sessionState(session *builder.Session) fiber.Map {
	return fiber.Map{
		"sessionId":       session.ID(),
		"form":            session.Snapshot(),
		"currentStep":     session.CurrentStep(),
		"selectedFieldId": session.SelectedFieldID(),
		"previewMode":     session.PreviewMode(),
	}
}

func (h *BuilderHandlers) CreateSession(c fiber.Ctx) error {
	// The auto-save timer outlives the request.
	session := h.manager.Create(context.WithoutCancel(c.Context()), authenticatedUserID(c))

	return c.Status(fiber.StatusCreated).JSON(sessionState(session))
}

func (h *BuilderHandlers) GetSession(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	return c.JSON(sessionState(session))
}

func (h *BuilderHandlers) CloseSession(c fiber.Ctx) error {
	if h.session(c) == nil {
		return notFound(c, "Builder session not found")
	}

	h.manager.Close(c.Params("id"))

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BuilderHandlers) SetTitle(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	var req SetTitleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	session.SetTitle(req.Title)

	return c.JSON(sessionState(session))
}

func (h *BuilderHandlers) AddField(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	var req AddBuilderFieldRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	fieldType := models.FieldType(req.Type)
	if !fieldType.IsValid() {
		return badRequest(c, "Unknown field type: "+req.Type)
	}

	var field *models.Field
	if req.Index != nil {
		field = session.InsertFieldAtIndex(fieldType, req.StepIndex, *req.Index)
	} else {
		field = session.AddField(fieldType, req.StepIndex)
	}

	return c.Status(fiber.StatusCreated).JSON(field)
}

func (h *BuilderHandlers) UpdateField(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	var patch builder.FieldPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	session.UpdateField(c.Params("fieldId"), patch)

	return c.JSON(sessionState(session))
}

func (h *BuilderHandlers) RemoveField(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	session.RemoveField(c.Params("fieldId"))

	return c.JSON(sessionState(session))
}

func (h *BuilderHandlers) ReorderFields(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	var req ReorderFieldsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	session.ReorderFields(req.StepIndex, req.FromIndex, req.ToIndex)

	return c.JSON(sessionState(session))
}

func (h *BuilderHandlers) AddStep(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	session.AddStep()

	return c.JSON(sessionState(session))
}

func (h *BuilderHandlers) RemoveStep(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, "Step index must be a number")
	}

	session.RemoveStep(index)

	return c.JSON(sessionState(session))
}

func (h *BuilderHandlers) SetPreviewMode(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	var req SetPreviewModeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	session.SetPreviewMode(builder.PreviewMode(req.Mode))

	return c.JSON(sessionState(session))
}

// Save persists the current document as a new form and reports the assigned
// identifiers. The session keeps running.
func (h *BuilderHandlers) Save(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	created, err := session.Save(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *BuilderHandlers) Export(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	data, filename, err := session.Export()
	if err != nil {
		return internalError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return c.Send(data)
}

func (h *BuilderHandlers) Import(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	if err := session.Import(c.Body()); err != nil {
		if errors.Is(err, builder.ErrInvalidFormFile) {
			return badRequest(c, "Invalid form file")
		}

		return internalError(c, err)
	}

	return c.JSON(sessionState(session))
}

func (h *BuilderHandlers) ListTemplates(c fiber.Ctx) error {
	templates := builder.BuiltinTemplates()

	names := make([]string, 0, len(templates))
	for _, template := range templates {
		names = append(names, template.Name)
	}

	return c.JSON(fiber.Map{"templates": names})
}

func (h *BuilderHandlers) LoadTemplate(c fiber.Ctx) error {
	session := h.session(c)
	if session == nil {
		return notFound(c, "Builder session not found")
	}

	var req LoadTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	template, ok := builder.TemplateByName(req.Name)
	if !ok {
		return notFound(c, "Unknown template: "+req.Name)
	}

	session.LoadTemplate(template)

	return c.JSON(sessionState(session))
}

package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/formlane/formlane/pkg/auth"
	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/persistence"
	"github.com/formlane/formlane/pkg/services"
)

type APIHandlers struct {
	formService     *services.Form
	responseService *services.Response
	authService     *auth.Service
	validator       *validator.Validate
}

func NewAPIHandlers(
	formService *services.Form,
	responseService *services.Response,
	authService *auth.Service,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		formService:     formService,
		responseService: responseService,
		authService:     authService,
		validator:       validator,
	}
}

// CreateForm saves a snapshot as a new document. The builder calls this on
// every manual save and autosave tick, so the handler never updates in place.
func (h *APIHandlers) CreateForm(c fiber.Ctx) error {
	var req CreateFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	form := &models.Form{
		Owner: authenticatedUserID(c),
		Title: req.Title,
		Steps: req.Steps,
	}

	created, err := h.formService.CreateForm(c.Context(), form)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Form ID is required")
	}

	form, err := h.formService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsFormNotFound(err) {
			return notFound(c, "Form not found")
		}

		return internalError(c, err)
	}

	return c.JSON(form)
}

// GetSharedForm is the public lookup respondents use to render a form.
func (h *APIHandlers) GetSharedForm(c fiber.Ctx) error {
	shareID := c.Params("shareId")
	if shareID == "" {
		return badRequest(c, "Share ID is required")
	}

	form, err := h.formService.FetchByShareID(c.Context(), shareID)
	if err != nil {
		if persistence.IsFormNotFound(err) {
			return notFound(c, "Form not found")
		}

		return handleServiceError(c, err)
	}

	return c.JSON(form)
}

func (h *APIHandlers) DeleteForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Form ID is required")
	}

	err := h.formService.Delete(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AddResponse records a submission against a shared form. It is public:
// respondents are not account holders.
func (h *APIHandlers) AddResponse(c fiber.Ctx) error {
	var req AddResponseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	entry, err := h.responseService.Add(c.Context(), req.ShareID, req.Steps)
	if err != nil {
		if persistence.IsFormNotFound(err) {
			return notFound(c, "Form not found")
		}

		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *APIHandlers) ListResponses(c fiber.Ctx) error {
	entries, err := h.responseService.List(c.Context(), c.Query("shareId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"responses": entries,
		"count":     len(entries),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.formService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Formlane API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Formlane API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// Register creates an account and signs the user in via the session cookie.
func (h *APIHandlers) Register(c fiber.Ctx) error {
	var req RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, token, err := h.authService.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if persistence.IsUserAlreadyExists(err) {
			return c.Status(fiber.StatusConflict).JSON(StatusResponse{
				Success: false,
				Message: "An account with this email already exists",
			})
		}

		if errors.Is(err, auth.ErrWeakPassword) {
			return badRequest(c, err.Error())
		}

		return internalError(c, err)
	}

	h.setSessionCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account created",
		"user":    TransformUserResponse(user),
	})
}

func (h *APIHandlers) Login(c fiber.Ctx) error {
	var req LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(StatusResponse{
				Success: false,
				Message: "Invalid email or password",
			})
		}

		return internalError(c, err)
	}

	h.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged in",
		"user":    TransformUserResponse(user),
	})
}

func (h *APIHandlers) Logout(c fiber.Ctx) error {
	c.ClearCookie(auth.CookieName)

	return c.JSON(StatusResponse{Success: true, Message: "Logged out"})
}

// IsAuthenticated reports whether the session cookie is valid and returns the
// account it belongs to.
func (h *APIHandlers) IsAuthenticated(c fiber.Ctx) error {
	user, err := h.authService.CurrentUser(c.Context(), c.Cookies(auth.CookieName))
	if err != nil {
		return c.JSON(StatusResponse{Success: false, Message: "Not authenticated"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Authenticated",
		"user":    TransformUserResponse(user),
	})
}

func (h *APIHandlers) SendVerifyOTP(c fiber.Ctx) error {
	err := h.authService.SendVerifyOTP(c.Context(), authenticatedUserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrAlreadyVerified) {
			return c.JSON(StatusResponse{Success: false, Message: "Account already verified"})
		}

		return handleServiceError(c, err)
	}

	return c.JSON(StatusResponse{Success: true, Message: "Verification code sent"})
}

func (h *APIHandlers) VerifyEmail(c fiber.Ctx) error {
	var req VerifyEmailRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.authService.VerifyEmail(c.Context(), authenticatedUserID(c), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyVerified):
			return c.JSON(StatusResponse{Success: false, Message: "Account already verified"})
		case errors.Is(err, auth.ErrInvalidOTP):
			return c.JSON(StatusResponse{Success: false, Message: "Invalid or expired code"})
		default:
			return handleServiceError(c, err)
		}
	}

	return c.JSON(StatusResponse{Success: true, Message: "Email verified"})
}

// SendResetOTP always answers success so the endpoint cannot be used to probe
// which emails have accounts.
func (h *APIHandlers) SendResetOTP(c fiber.Ctx) error {
	var req SendResetOTPRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.authService.SendResetOTP(c.Context(), req.Email)
	if err != nil && !persistence.IsUserNotFound(err) {
		return internalError(c, err)
	}

	return c.JSON(StatusResponse{Success: true, Message: "If the email exists, a reset code was sent"})
}

func (h *APIHandlers) ResetPassword(c fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.authService.ResetPassword(c.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidOTP), persistence.IsUserNotFound(err):
			return c.JSON(StatusResponse{Success: false, Message: "Invalid or expired code"})
		case errors.Is(err, auth.ErrWeakPassword):
			return badRequest(c, err.Error())
		default:
			return handleServiceError(c, err)
		}
	}

	return c.JSON(StatusResponse{Success: true, Message: "Password reset"})
}

func (h *APIHandlers) setSessionCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(h.authService.Tokens().TTL().Seconds()),
	})
}

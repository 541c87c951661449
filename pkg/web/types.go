// Package web provides HTTP handlers and REST API endpoints for the form
// builder, submissions and account flows.
package web

import "github.com/formlane/formlane/pkg/models"

// CreateFormRequest represents the request body for saving a form snapshot.
// Every save creates a new document with a fresh share ID.
type CreateFormRequest struct {
	Title string        `json:"title"`
	Steps []models.Step `json:"steps"`
}

// AddResponseRequest represents the request body for submitting a filled form.
// Values arrive grouped per step key ("step1", "step2", ...).
type AddResponseRequest struct {
	ShareID string                    `json:"shareId" validate:"required"`
	Steps   map[string]map[string]any `json:"steps"`
}

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the request body for signing in.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest carries the 6-digit verification code.
type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// SendResetOTPRequest asks for a password reset code.
type SendResetOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the reset code and the new password.
type ResetPasswordRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	Code        string `json:"code"        validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// SetTitleRequest renames the form being authored.
type SetTitleRequest struct {
	Title string `json:"title"`
}

// AddBuilderFieldRequest drops a palette field onto a step. A nil Index
// appends; an out-of-range index appends too.
type AddBuilderFieldRequest struct {
	Type      string `json:"type" validate:"required"`
	StepIndex int    `json:"stepIndex"`
	Index     *int   `json:"index"`
}

// ReorderFieldsRequest moves a field within a step.
type ReorderFieldsRequest struct {
	StepIndex int `json:"stepIndex"`
	FromIndex int `json:"fromIndex"`
	ToIndex   int `json:"toIndex"`
}

// SetPreviewModeRequest switches the responsive preview width.
type SetPreviewModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=desktop tablet mobile"`
}

// LoadTemplateRequest loads a named starter template into the session.
type LoadTemplateRequest struct {
	Name string `json:"name" validate:"required"`
}

// FillValueRequest records one answer on a fill session.
type FillValueRequest struct {
	FieldID string `json:"fieldId" validate:"required"`
	Value   any    `json:"value"`
}

// StatusResponse is the envelope auth endpoints answer with.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UserResponse is the public view of an account; the password hash never
// leaves the server.
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// TransformUserResponse converts an account into its public view.
func TransformUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Verified: user.Verified,
	}
}

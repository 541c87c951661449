// Package auth implements account registration, login and one-time-code flows
// for email verification and password resets.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/formlane/formlane/pkg/eventbus"
	"github.com/formlane/formlane/pkg/events"
	"github.com/formlane/formlane/pkg/models"
	"github.com/formlane/formlane/pkg/persistence"
)

const bcryptCost = 10

// Account flow errors. These map to 4xx responses at the web layer; the
// message returned to clients never distinguishes a wrong password from an
// unknown email.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Service implements the account operations.
type Service struct {
	users     persistence.UserRepository
	otps      OTPStore
	tokens    *TokenManager
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

func NewService(users persistence.UserRepository, otps OTPStore, tokens *TokenManager, publisher eventbus.EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		otps:      otps,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
	}
}

// Tokens exposes the token manager for the web layer's cookie handling.
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// Register creates a new account and returns a session token so the user is
// signed in immediately.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	err = s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, user.Email, events.UserRegistered{
		BaseEvent: events.NewBaseEvent(events.UserRegisteredEvent),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
	})

	return user, token, nil
}

// Login verifies credentials and returns a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if persistence.IsUserNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// CurrentUser resolves a session token to the account it belongs to.
func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	return s.users.GetByID(ctx, userID)
}

// SendVerifyOTP issues a verification code and publishes it for mail delivery.
func (s *Service) SendVerifyOTP(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	return s.issueOTP(ctx, user, events.OTPPurposeVerify, VerifyOTPTTL)
}

// VerifyEmail checks a verification code and marks the account verified.
func (s *Service) VerifyEmail(ctx context.Context, userID, code string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	err = s.checkOTP(ctx, events.OTPPurposeVerify, userID, code)
	if err != nil {
		return err
	}

	user.Verified = true

	return s.users.Update(ctx, user)
}

// SendResetOTP issues a password reset code for the account with the given
// email. Unknown emails return ErrUserNotFound; the web layer decides how
// much of that to reveal.
func (s *Service) SendResetOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.issueOTP(ctx, user, events.OTPPurposeReset, ResetOTPTTL)
}

// ResetPassword checks a reset code and replaces the account password.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	err = s.checkOTP(ctx, events.OTPPurposeReset, user.ID, code)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)

	return s.users.Update(ctx, user)
}

func (s *Service) issueOTP(ctx context.Context, user *models.User, purpose string, ttl time.Duration) error {
	code, err := GenerateOTP()
	if err != nil {
		return err
	}

	err = s.otps.Set(ctx, purpose, user.ID, code, ttl)
	if err != nil {
		return err
	}

	s.publish(ctx, user.Email, events.OTPRequested{
		BaseEvent: events.NewBaseEvent(events.OTPRequestedEvent),
		UserID:    user.ID,
		Email:     user.Email,
		Code:      code,
		Purpose:   purpose,
	})

	return nil
}

func (s *Service) checkOTP(ctx context.Context, purpose, userID, code string) error {
	stored, err := s.otps.Get(ctx, purpose, userID)
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			return ErrInvalidOTP
		}

		return err
	}

	if stored != code {
		return ErrInvalidOTP
	}

	return s.otps.Delete(ctx, purpose, userID)
}

func (s *Service) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, key, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish auth event", "event_type", event.GetType(), "error", err)
	}
}

package models

import "time"

// User is an account that can author forms. PasswordHash is a bcrypt hash;
// the web layer never serializes users directly, repositories store the
// full record.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"  validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"passwordHash"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

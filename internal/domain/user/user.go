// Package user defines the user domain model for registration and login.
package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Strob0t/SkillSprint/internal/domain"
)

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// User represents a registered learner.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	CreatedAt    time.Time `json:"created_at"`
}

// CreateRequest is the input for registering a new user.
type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
}

// Normalize trims surrounding whitespace from name and email.
// Email case is preserved: uniqueness is an exact match.
func (r *CreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks that the CreateRequest has all required fields.
// minPassword is the minimum accepted password length.
func (r *CreateRequest) Validate(minPassword int) error {
	if r.Name == "" {
		return domain.Validation("name is required")
	}
	if r.Email == "" {
		return domain.Validation("email is required")
	}
	// Reject display-name forms such as "Ada <ada@example.com>".
	if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		return domain.Validation("invalid email format")
	}
	return ValidatePassword(r.Password, minPassword)
}

// ValidatePassword checks a new password against the length bounds.
func ValidatePassword(password string, minLength int) error {
	if password == "" {
		return domain.Validation("password is required")
	}
	if len(password) < minLength {
		return domain.Validation("password is too short")
	}
	if len(password) > MaxPasswordBytes {
		return domain.Validation(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}

// LoginRequest is the input for user authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
}

// Validate checks that the LoginRequest has all required fields.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return domain.Validation("email is required")
	}
	if r.Password == "" {
		return domain.Validation("password is required")
	}
	return nil
}

package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxEmailLen       = 255
	maxDisplayNameLen = 100
	minPasswordLen    = 8
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id"           db:"id"`
	Email        string    `json:"email"        db:"email"`
	PasswordHash string    `json:"-"            db:"password_hash"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	CreatedAt    time.Time `json:"created_at"   db:"created_at"`
}

// SignUpRequest represents parameters to create a User.
type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Validate normalizes and validates SignUpRequest.
func (r *SignUpRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.DisplayName = strings.TrimSpace(r.DisplayName)

	if r.Email == "" {
		return errors.New("email is required")
	}
	if utf8.RuneCountInString(r.Email) > maxEmailLen {
		return errors.New("email cannot exceed 255 characters")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email is not a valid address")
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if r.DisplayName == "" {
		return errors.New("display name is required")
	}
	if utf8.RuneCountInString(r.DisplayName) > maxDisplayNameLen {
		return errors.New("display name cannot exceed 100 characters")
	}
	return nil
}

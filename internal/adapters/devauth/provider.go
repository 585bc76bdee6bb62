package devauth

// Package devauth provides a config-driven credential verifier for local development.

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	domainauth "github.com/isaacgyampoh/recipe-saver/internal/domain/auth"
)

// Config controls the dev auth provider behavior.
type Config struct {
	UserID          string
	Email           string
	DisplayName     string
	SessionDuration time.Duration // default 8h when zero
}

// Provider accepts any credentials and returns the configured identity.
// It exists so the app can run without Postgres-backed accounts during development.
type Provider struct {
	userID          string
	email           string
	displayName     string
	sessionDuration time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	displayName := cfg.DisplayName
	if displayName == "" {
		displayName = "Dev User"
	}
	return &Provider{
		userID:          cfg.UserID,
		email:           cfg.Email,
		displayName:     displayName,
		sessionDuration: dur,
	}, nil
}

// Session builds a fresh dev session with a random ID, ignoring credentials.
func (p *Provider) Session() (domainauth.Session, error) {
	id, err := RandomString(32)
	if err != nil {
		return domainauth.Session{}, err
	}
	return domainauth.Session{
		ID:          id,
		UserID:      p.userID,
		Email:       p.email,
		DisplayName: p.displayName,
		ExpiresAt:   time.Now().Add(p.sessionDuration),
	}, nil
}

// RandomString returns n base64 URL-safe characters from a CSPRNG.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	// Compute number of random bytes needed to produce at least n base64 URL chars
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		// pad
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}

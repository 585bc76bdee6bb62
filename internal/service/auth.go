package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/isaacgyampoh/recipe-saver/internal/adapters/devauth"
	"github.com/isaacgyampoh/recipe-saver/internal/core"
	"github.com/isaacgyampoh/recipe-saver/internal/data"
	domainauth "github.com/isaacgyampoh/recipe-saver/internal/domain/auth"
	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
	apperrors "github.com/isaacgyampoh/recipe-saver/internal/errors"
	"github.com/isaacgyampoh/recipe-saver/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users      core.UserRepository
	Sessions   ports.SessionStore
	Hasher     ports.PasswordHasher
	SessionTTL time.Duration
	// DevProvider, when set, bypasses credential checks entirely (mock auth mode).
	DevProvider *devauth.Provider
}

// AuthService orchestrates sign-up, login, and session lifecycle.
type AuthService struct {
	users      core.UserRepository
	sessions   ports.SessionStore
	hasher     ports.PasswordHasher
	sessionTTL time.Duration
	dev        *devauth.Provider
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:      opts.Users,
		sessions:   opts.Sessions,
		hasher:     opts.Hasher,
		sessionTTL: ttl,
		dev:        opts.DevProvider,
	}
}

// SignUp registers a new account and opens a session for it.
func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (*domainauth.Session, error) {
	if s.dev != nil {
		return s.devSession(ctx)
	}

	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not process password.")
	}

	user, err := s.users.Create(ctx, req.Email, hash, req.DisplayName)
	if err != nil {
		if errors.Is(err, data.ErrEmailExists) {
			return nil, apperrors.Auth("An account with this email already exists.")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMutation, "Could not create account.")
	}

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session.
// Unknown email and wrong password produce the same error so callers
// cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domainauth.Session, error) {
	if s.dev != nil {
		return s.devSession(ctx)
	}

	if email == "" || password == "" {
		return nil, apperrors.Auth("Email and password are required.")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.Auth("Invalid email or password.")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeQuery, "Could not look up account.")
	}

	if compareErr := s.hasher.Compare(user.PasswordHash, password); compareErr != nil {
		return nil, apperrors.Auth("Invalid email or password.")
	}

	return s.openSession(ctx, user)
}

// GetSession retrieves a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		// Clean up expired session
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (s *AuthService) openSession(ctx context.Context, user *model.User) (*domainauth.Session, error) {
	session := domainauth.Session{
		ID:          generateSessionID(),
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		ExpiresAt:   time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not save session.")
	}
	return &session, nil
}

func (s *AuthService) devSession(ctx context.Context) (*domainauth.Session, error) {
	session, err := s.dev.Session()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not build dev session.")
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, apperrors.Wrap(saveErr, apperrors.ErrCodeInternal, "Could not save session.")
	}
	return &session, nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	id := uuid.New()
	return id.String()
}

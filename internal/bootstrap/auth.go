package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/isaacgyampoh/recipe-saver/config"
	"github.com/isaacgyampoh/recipe-saver/internal/adapters/devauth"
	"github.com/isaacgyampoh/recipe-saver/internal/adapters/password"
	redisadapter "github.com/isaacgyampoh/recipe-saver/internal/adapters/redis"
	"github.com/isaacgyampoh/recipe-saver/internal/core"
	"github.com/isaacgyampoh/recipe-saver/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Users       core.UserRepository
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	// Sessions live in Redis regardless of auth mode
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuthService(cfg, sessionStore)

	case config.AuthModePassword:
		return buildPasswordAuthService(cfg, sessionStore)

	default:
		return nil
	}
}

func buildDevAuthService(cfg AuthConfig, sessionStore *redisadapter.SessionStore) *service.AuthService {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:      cfg.Auth.DevAuth.UserID,
		Email:       cfg.Auth.DevAuth.Email,
		DisplayName: cfg.Auth.DevAuth.DisplayName,
		// session duration defaults inside provider
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Users:       cfg.Users,
		Sessions:    sessionStore,
		SessionTTL:  cfg.Auth.SessionTTL,
		DevProvider: prov,
	})
}

func buildPasswordAuthService(cfg AuthConfig, sessionStore *redisadapter.SessionStore) *service.AuthService {
	if cfg.Users == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("password auth selected but user repository missing; auth disabled")
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Users:      cfg.Users,
		Sessions:   sessionStore,
		Hasher:     password.NewHasher(cfg.Auth.BcryptCost),
		SessionTTL: cfg.Auth.SessionTTL,
	})
}

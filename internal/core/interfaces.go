package core

import (
	"context"

	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// RecipeRepository defines the interface for recipe data operations.
// Reads are open to any caller; writes are scoped to the owning user.
type RecipeRepository interface {
	Create(ctx context.Context, userID string, fields *model.RecipeFields) (*model.Recipe, error)
	GetByID(ctx context.Context, id string) (*model.Recipe, error)
	GetOwned(ctx context.Context, id, userID string) (*model.Recipe, error)
	ListWithOptions(ctx context.Context, opts model.RecipesListOptions) ([]*model.Recipe, error)
	Update(ctx context.Context, id, userID string, fields *model.RecipeFields) (*model.Recipe, error)
	SetFavorite(ctx context.Context, id, userID string, value bool) (*model.Recipe, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

// UserRepository defines the interface for user account data operations.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash, displayName string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/isaacgyampoh/recipe-saver/internal/core"
	"github.com/isaacgyampoh/recipe-saver/internal/data"
	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
	apperrors "github.com/isaacgyampoh/recipe-saver/internal/errors"
)

// RecipeServiceOptions groups dependencies for RecipeService.
type RecipeServiceOptions struct {
	Recipes core.RecipeRepository
}

// RecipeService orchestrates recipe CRUD and favorite toggling.
type RecipeService struct {
	recipes core.RecipeRepository

	// toggleTokens tracks the most recent favorite-toggle token per recipe so
	// that out-of-order responses from rapid toggling can be detected and
	// their effects discarded.
	mu           sync.Mutex
	toggleTokens map[string]uint64
	nextToken    uint64
}

// NewRecipeService constructs a new RecipeService.
func NewRecipeService(opts RecipeServiceOptions) *RecipeService {
	return &RecipeService{
		recipes:      opts.Recipes,
		toggleTokens: make(map[string]uint64),
	}
}

// Create creates a recipe owned by userID.
func (s *RecipeService) Create(ctx context.Context, userID string, fields *model.RecipeFields) (*model.Recipe, error) {
	if fields == nil {
		return nil, apperrors.Validation("Recipe fields are required.")
	}
	if err := fields.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	recipe, err := s.recipes.Create(ctx, userID, fields)
	if err != nil {
		return nil, mapRecipeWriteErr(err, "Could not save recipe.")
	}
	return recipe, nil
}

// Update replaces a recipe's fields. Only the owner may update.
func (s *RecipeService) Update(ctx context.Context, id, userID string, fields *model.RecipeFields) (*model.Recipe, error) {
	if fields == nil {
		return nil, apperrors.Validation("Recipe fields are required.")
	}
	if err := fields.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	recipe, err := s.recipes.Update(ctx, id, userID, fields)
	if err != nil {
		return nil, mapRecipeWriteErr(err, "Could not update recipe.")
	}
	return recipe, nil
}

// Delete removes a recipe. Only the owner may delete.
func (s *RecipeService) Delete(ctx context.Context, id, userID string) error {
	ok, err := s.recipes.Delete(ctx, id, userID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeMutation, "Could not delete recipe.")
	}
	if !ok {
		return apperrors.NotFound("Recipe not found.")
	}
	s.forgetToggleToken(id)
	return nil
}

// GetByID retrieves a recipe visible to any authenticated viewer.
func (s *RecipeService) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrRecipeNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Recipe not found.")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeQuery, "Could not load recipe.")
	}
	return recipe, nil
}

// GetOwned retrieves a recipe only if userID owns it.
func (s *RecipeService) GetOwned(ctx context.Context, id, userID string) (*model.Recipe, error) {
	recipe, err := s.recipes.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, data.ErrRecipeNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Recipe not found.")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeQuery, "Could not load recipe.")
	}
	return recipe, nil
}

// List returns recipes matching the given filters, newest first.
func (s *RecipeService) List(ctx context.Context, opts model.RecipesListOptions) ([]*model.Recipe, error) {
	recipes, err := s.recipes.ListWithOptions(ctx, normalizeRecipeListOptions(opts))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeQuery, "Could not load recipes.")
	}
	return recipes, nil
}

// ToggleResult carries the outcome of a favorite toggle along with the token
// that identifies this toggle attempt. Stale is true when a newer toggle for
// the same recipe was issued while this one was in flight; stale results must
// not be rendered.
type ToggleResult struct {
	Recipe *model.Recipe
	Token  uint64
	Stale  bool
}

// ToggleFavorite flips or sets is_favorite for an owned recipe.
// Concurrent toggles on the same recipe resolve to the latest call: earlier
// in-flight calls come back with Stale=true. A failure that has already been
// superseded by a newer toggle is also reported as stale rather than an
// error, so its revert never overwrites the newer optimistic state.
func (s *RecipeService) ToggleFavorite(ctx context.Context, id, userID string, value bool) (*ToggleResult, error) {
	token := s.issueToggleToken(id)

	recipe, err := s.recipes.SetFavorite(ctx, id, userID, value)
	if err != nil {
		if !s.isLatestToggle(id, token) {
			return &ToggleResult{Token: token, Stale: true}, nil
		}
		if errors.Is(err, data.ErrRecipeNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Recipe not found.")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMutation, "Could not update favorite.")
	}

	return &ToggleResult{
		Recipe: recipe,
		Token:  token,
		Stale:  !s.isLatestToggle(id, token),
	}, nil
}

func (s *RecipeService) issueToggleToken(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextToken++
	s.toggleTokens[id] = s.nextToken
	return s.nextToken
}

func (s *RecipeService) isLatestToggle(id string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggleTokens[id] == token
}

func (s *RecipeService) forgetToggleToken(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.toggleTokens, id)
}

func mapRecipeWriteErr(err error, fallback string) error {
	if errors.Is(err, data.ErrRecipeNotFound) {
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Recipe not found.")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return apperrors.MapDBError(err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return apperrors.Wrap(err, apperrors.ErrCodeMutation, fallback)
}

func normalizeRecipeListOptions(opts model.RecipesListOptions) model.RecipesListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}

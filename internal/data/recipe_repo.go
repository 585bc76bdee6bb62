package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/isaacgyampoh/recipe-saver/internal/data/database"
	"github.com/isaacgyampoh/recipe-saver/internal/data/pgxutil"
	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
)

// ErrRecipeNotFound is returned when a recipe is not found or not owned by the caller.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeRepo provides database operations for recipes.
type RecipeRepo struct {
	DB    *sql.DB
	clock Clock
}

// NewRecipeRepo creates a new RecipeRepo backed by the system clock.
func NewRecipeRepo(db *sql.DB) *RecipeRepo {
	return &RecipeRepo{DB: db, clock: SystemClock{}}
}

// NewRecipeRepoWithClock creates a new RecipeRepo with a custom clock (useful for tests).
func NewRecipeRepoWithClock(db *sql.DB, clock Clock) *RecipeRepo {
	return &RecipeRepo{DB: db, clock: clock}
}

// Create inserts a new recipe owned by userID.
func (r *RecipeRepo) Create(
	ctx context.Context,
	userID string,
	fields *model.RecipeFields,
) (*model.Recipe, error) {
	if fields == nil {
		return nil, errors.New("recipe fields are required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user_id is required")
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.clock.Now().UTC()
	var out model.Recipe
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO recipes (
				user_id, title, description, ingredients, instructions,
				prep_time, cook_time, servings, category, image_url, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11
			) RETURNING `+recipeColumnList,
			userID,
			fields.Title,
			fields.Description,
			fields.Ingredients,
			fields.Instructions,
			fields.PrepTime,
			fields.CookTime,
			fields.Servings,
			fields.Category,
			fields.ImageURL,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Recipe])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a recipe by ID regardless of owner.
func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	return r.getByQuery(ctx, recipeGetByIDQuery, "failed to get recipe by ID", id)
}

// GetOwned retrieves a recipe by ID scoped to the owner. A recipe owned by
// another user yields ErrRecipeNotFound, never the record.
func (r *RecipeRepo) GetOwned(ctx context.Context, id, userID string) (*model.Recipe, error) {
	return r.getByQuery(ctx, recipeGetOwnedQuery, "failed to get owned recipe", id, userID)
}

// ListWithOptions retrieves recipes with optional filters.
// Results are always ordered by created_at descending.
func (r *RecipeRepo) ListWithOptions(
	ctx context.Context,
	opts model.RecipesListOptions,
) ([]*model.Recipe, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := r.buildRecipeQueryOptions(opts, limit, offset)
	query, args := database.BuildListQuery(queryOpts)

	var rowsOut []model.Recipe
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Recipe])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	res := make([]*model.Recipe, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update replaces the mutable fields of a recipe owned by userID.
func (r *RecipeRepo) Update(
	ctx context.Context,
	id, userID string,
	fields *model.RecipeFields,
) (*model.Recipe, error) {
	if fields == nil {
		return nil, errors.New("recipe fields are required")
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	var out model.Recipe
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE recipes SET
				title = $3, description = $4, ingredients = $5, instructions = $6,
				prep_time = $7, cook_time = $8, servings = $9, category = $10,
				image_url = $11, updated_at = $12
			WHERE id = $1 AND user_id = $2
			RETURNING `+recipeColumnList,
			id,
			userID,
			fields.Title,
			fields.Description,
			fields.Ingredients,
			fields.Instructions,
			fields.PrepTime,
			fields.CookTime,
			fields.Servings,
			fields.Category,
			fields.ImageURL,
			r.clock.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Recipe])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &out, nil
}

// SetFavorite updates is_favorite for a recipe owned by userID and returns the updated row.
func (r *RecipeRepo) SetFavorite(
	ctx context.Context,
	id, userID string,
	value bool,
) (*model.Recipe, error) {
	var out model.Recipe
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE recipes SET is_favorite = $3, updated_at = $4
			WHERE id = $1 AND user_id = $2
			RETURNING `+recipeColumnList,
			id, userID, value, r.clock.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Recipe])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &out, nil
}

// Delete deletes a recipe owned by userID.
func (r *RecipeRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete recipe: %w", err)
	}
	return rows > 0, nil
}

// --- helpers ---

// recipeColumnList is the standard column list for recipe queries.
const recipeColumnList = `id, user_id, title, description, ingredients, instructions,
	prep_time, cook_time, servings, category, image_url, is_favorite, created_at, updated_at`

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	recipeGetByIDQuery = `
		SELECT ` + recipeColumnList + `
		FROM recipes
		WHERE id = $1`

	recipeGetOwnedQuery = `
		SELECT ` + recipeColumnList + `
		FROM recipes
		WHERE id = $1 AND user_id = $2`
)

// recipeColumns returns the standard column list for dynamic recipe queries.
func recipeColumns() []string {
	return []string{
		"id",
		"user_id",
		"title",
		"description",
		"ingredients",
		"instructions",
		"prep_time",
		"cook_time",
		"servings",
		"category",
		"image_url",
		"is_favorite",
		"created_at",
		"updated_at",
	}
}

// buildRecipeQueryOptions builds query options for recipe listing with filters.
// All filters are conjunctive; ordering is fixed to created_at descending.
func (r *RecipeRepo) buildRecipeQueryOptions(
	opts model.RecipesListOptions,
	limit, offset int,
) *database.ListQueryOptions {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(recipeColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.UserID != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("user_id", database.Equal, opts.UserID),
		))
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.FavoritesOnly {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("is_favorite", database.Equal, true),
		))
	}
	if opts.Category != nil && *opts.Category != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("category", database.Equal, *opts.Category),
		))
	}

	queryOpts = append(queryOpts, database.WithOrderBy("created_at", "desc"))

	return database.NewListQueryOptions("recipes", queryOpts...)
}

// getByQuery is a helper function to execute a query and return a single recipe.
// Uses variadic args to avoid slice allocation at call sites.
func (r *RecipeRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Recipe, error) {
	var recipe model.Recipe
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		recipe, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Recipe])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &recipe, nil
}

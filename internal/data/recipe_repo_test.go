package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
	"github.com/isaacgyampoh/recipe-saver/internal/testutil"
)

func createTestUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	ur := NewUserRepo(db)
	u, err := ur.Create(context.Background(), email, "$2a$10$fakehashfakehashfakehash", "Test Cook")
	require.NoError(t, err)
	return u
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func TestRecipeRepo_Create_Get_List_Update_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewRecipeRepo(db)
		owner := createTestUser(t, db, uniqueEmail("owner"))

		// create
		fields := testutil.NewRecipeFields().
			WithTitle(fmt.Sprintf("lasagna-%d", time.Now().UnixNano())).
			WithDescription("layers of pasta").
			Build()
		r, err := repo.Create(ctx, owner.ID, fields)
		require.NoError(t, err)
		require.NotEmpty(t, r.ID)
		assert.Equal(t, owner.ID, r.UserID)
		assert.False(t, r.IsFavorite)
		assert.NotZero(t, r.CreatedAt)
		assert.Equal(t, r.CreatedAt, r.UpdatedAt)

		// get by id
		got, err := repo.GetByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.Title, got.Title)
		assert.Equal(t, fields.Ingredients, got.Ingredients)

		// owner-scoped get
		owned, err := repo.GetOwned(ctx, r.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, r.ID, owned.ID)

		// list
		lst, err := repo.ListWithOptions(ctx, model.RecipesListOptions{Limit: 10})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(lst), 1)

		// update - full replace of mutable fields
		upd := testutil.NewRecipeFields().
			WithTitle("updated lasagna").
			WithIngredients("pasta", "ragu", "bechamel").
			WithTimes(30, 60).
			WithCategory(model.CategoryDinner).
			Build()
		updated, err := repo.Update(ctx, r.ID, owner.ID, upd)
		require.NoError(t, err)
		assert.Equal(t, "updated lasagna", updated.Title)
		assert.Equal(t, []string{"pasta", "ragu", "bechamel"}, updated.Ingredients)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

		// delete
		deleted, err := repo.Delete(ctx, r.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, r.ID)
		require.ErrorIs(t, err, ErrRecipeNotFound)
	})
}

func TestRecipeRepo_OwnershipScoping(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewRecipeRepo(db)
		owner := createTestUser(t, db, uniqueEmail("owner"))
		stranger := createTestUser(t, db, uniqueEmail("stranger"))

		r, err := repo.Create(ctx, owner.ID, testutil.NewRecipeFields().Build())
		require.NoError(t, err)

		// anyone can read
		_, err = repo.GetByID(ctx, r.ID)
		require.NoError(t, err)

		// non-owner cannot read via owner-scoped get
		_, err = repo.GetOwned(ctx, r.ID, stranger.ID)
		require.ErrorIs(t, err, ErrRecipeNotFound)

		// non-owner cannot update
		_, err = repo.Update(ctx, r.ID, stranger.ID, testutil.NewRecipeFields().Build())
		require.ErrorIs(t, err, ErrRecipeNotFound)

		// non-owner cannot toggle favorite
		_, err = repo.SetFavorite(ctx, r.ID, stranger.ID, true)
		require.ErrorIs(t, err, ErrRecipeNotFound)

		// non-owner delete affects nothing
		deleted, err := repo.Delete(ctx, r.ID, stranger.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		// record still present
		_, err = repo.GetByID(ctx, r.ID)
		require.NoError(t, err)
	})
}

func TestRecipeRepo_ListFilters(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewRecipeRepo(db)
		owner := createTestUser(t, db, uniqueEmail("owner"))

		mk := func(title string, cat model.Category, fav bool) *model.Recipe {
			r, err := repo.Create(ctx, owner.ID, testutil.NewRecipeFields().
				WithTitle(title).
				WithCategory(cat).
				Build())
			require.NoError(t, err)
			if fav {
				r, err = repo.SetFavorite(ctx, r.ID, owner.ID, true)
				require.NoError(t, err)
			}
			return r
		}

		mk("Spaghetti Carbonara", model.CategoryDinner, true)
		mk("Pancake Stack", model.CategoryBreakfast, false)
		mk("Chocolate cake", model.CategoryDessert, true)

		// title search is case-insensitive substring match
		q := "CAKE"
		lst, err := repo.ListWithOptions(ctx, model.RecipesListOptions{Q: &q, Limit: 10})
		require.NoError(t, err)
		require.Len(t, lst, 2)
		for _, r := range lst {
			assert.Contains(t, []string{"Pancake Stack", "Chocolate cake"}, r.Title)
		}

		// favorites only
		lst, err = repo.ListWithOptions(ctx, model.RecipesListOptions{FavoritesOnly: true, Limit: 10})
		require.NoError(t, err)
		require.Len(t, lst, 2)

		// category filter
		dessert := model.CategoryDessert
		lst, err = repo.ListWithOptions(ctx, model.RecipesListOptions{Category: &dessert, Limit: 10})
		require.NoError(t, err)
		require.Len(t, lst, 1)
		assert.Equal(t, "Chocolate cake", lst[0].Title)

		// filters combine conjunctively
		lst, err = repo.ListWithOptions(ctx, model.RecipesListOptions{
			Q:             &q,
			FavoritesOnly: true,
			Category:      &dessert,
			Limit:         10,
		})
		require.NoError(t, err)
		require.Len(t, lst, 1)
		assert.Equal(t, "Chocolate cake", lst[0].Title)

		// newest first regardless of filters
		all, err := repo.ListWithOptions(ctx, model.RecipesListOptions{Limit: 10})
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i-1].CreatedAt.Before(all[i].CreatedAt),
				"expected created_at descending at index %d", i)
		}
	})
}

func TestRecipeRepo_SetFavorite(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewRecipeRepo(db)
		owner := createTestUser(t, db, uniqueEmail("owner"))

		r, err := repo.Create(ctx, owner.ID, testutil.NewRecipeFields().Build())
		require.NoError(t, err)
		require.False(t, r.IsFavorite)

		on, err := repo.SetFavorite(ctx, r.ID, owner.ID, true)
		require.NoError(t, err)
		assert.True(t, on.IsFavorite)

		off, err := repo.SetFavorite(ctx, r.ID, owner.ID, false)
		require.NoError(t, err)
		assert.False(t, off.IsFavorite)
	})
}

func TestRecipeRepo_ClockPinsTimestamps(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		clock := NewFrozenClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
		repo := NewRecipeRepoWithClock(db, clock)
		owner := createTestUser(t, db, uniqueEmail("owner"))

		r, err := repo.Create(ctx, owner.ID, testutil.NewRecipeFields().Build())
		require.NoError(t, err)
		assert.True(t, r.CreatedAt.Equal(clock.Now()))
		assert.True(t, r.UpdatedAt.Equal(clock.Now()))

		clock.Advance(45 * time.Minute)
		updated, err := repo.Update(ctx, r.ID, owner.ID, testutil.NewRecipeFields().WithTitle("retimed").Build())
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.Equal(clock.Now()))
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	})
}

func TestRecipeRepo_Create_ValidationErrors(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewRecipeRepo(db)
		ctx := context.Background()

		// nil fields
		_, err := repo.Create(ctx, "user", nil)
		require.Error(t, err)

		// missing owner
		_, err = repo.Create(ctx, " ", testutil.NewRecipeFields().Build())
		require.Error(t, err)

		// empty title
		_, err = repo.Create(ctx, "user", testutil.NewRecipeFields().WithTitle(" ").Build())
		require.Error(t, err)

		// empty instructions
		_, err = repo.Create(ctx, "user", testutil.NewRecipeFields().WithInstructions("").Build())
		require.Error(t, err)

		// unknown category
		_, err = repo.Create(ctx, "user", testutil.NewRecipeFields().WithCategory("Brunch").Build())
		require.Error(t, err)
	})
}

func TestRecipeRepo_Create_FiltersBlankIngredients(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewRecipeRepo(db)
		owner := createTestUser(t, db, uniqueEmail("owner"))

		r, err := repo.Create(ctx, owner.ID, testutil.NewRecipeFields().
			WithIngredients("  2 eggs ", "", "   ", "1 cup flour").
			Build())
		require.NoError(t, err)
		assert.Equal(t, []string{"2 eggs", "1 cup flour"}, r.Ingredients)
	})
}

func TestUserRepo_Create_Get(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		email := uniqueEmail("cook")

		u, err := repo.Create(ctx, email, "hash", "Cook")
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		assert.Equal(t, email, u.Email)

		// lookup trims and lowercases
		byEmail, err := repo.GetByEmail(ctx, "  "+strings.ToUpper(email))
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		byID, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, byID.Email)

		_, err = repo.GetByEmail(ctx, uniqueEmail("missing"))
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		email := uniqueEmail("dup")

		_, err := repo.Create(ctx, email, "hash", "First")
		require.NoError(t, err)

		_, err = repo.Create(ctx, email, "hash", "Second")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmailExists))

		// case variants collide too
		_, err = repo.Create(ctx, strings.ToUpper(email), "hash", "Third")
		require.Error(t, err)
	})
}

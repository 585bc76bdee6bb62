package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/isaacgyampoh/recipe-saver/internal/domain/auth"
	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
	"github.com/isaacgyampoh/recipe-saver/internal/service"
)

// fakeRecipesService implements RecipesService with overridable behavior per test.
type fakeRecipesService struct {
	createFunc   func(ctx context.Context, userID string, fields *model.RecipeFields) (*model.Recipe, error)
	updateFunc   func(ctx context.Context, id, userID string, fields *model.RecipeFields) (*model.Recipe, error)
	deleteFunc   func(ctx context.Context, id, userID string) error
	getOwnedFunc func(ctx context.Context, id, userID string) (*model.Recipe, error)
	listFunc     func(ctx context.Context, opts model.RecipesListOptions) ([]*model.Recipe, error)
	toggleFunc   func(ctx context.Context, id, userID string, value bool) (*service.ToggleResult, error)
}

func (f *fakeRecipesService) Create(ctx context.Context, userID string, fields *model.RecipeFields) (*model.Recipe, error) {
	if f.createFunc == nil {
		return nil, errors.New("unexpected Create call")
	}
	return f.createFunc(ctx, userID, fields)
}

func (f *fakeRecipesService) Update(ctx context.Context, id, userID string, fields *model.RecipeFields) (*model.Recipe, error) {
	if f.updateFunc == nil {
		return nil, errors.New("unexpected Update call")
	}
	return f.updateFunc(ctx, id, userID, fields)
}

func (f *fakeRecipesService) Delete(ctx context.Context, id, userID string) error {
	if f.deleteFunc == nil {
		return errors.New("unexpected Delete call")
	}
	return f.deleteFunc(ctx, id, userID)
}

func (f *fakeRecipesService) GetOwned(ctx context.Context, id, userID string) (*model.Recipe, error) {
	if f.getOwnedFunc == nil {
		return nil, errors.New("unexpected GetOwned call")
	}
	return f.getOwnedFunc(ctx, id, userID)
}

func (f *fakeRecipesService) List(ctx context.Context, opts model.RecipesListOptions) ([]*model.Recipe, error) {
	if f.listFunc == nil {
		return nil, errors.New("unexpected List call")
	}
	return f.listFunc(ctx, opts)
}

func (f *fakeRecipesService) ToggleFavorite(ctx context.Context, id, userID string, value bool) (*service.ToggleResult, error) {
	if f.toggleFunc == nil {
		return nil, errors.New("unexpected ToggleFavorite call")
	}
	return f.toggleFunc(ctx, id, userID, value)
}

// authedRequest builds a request carrying an authenticated session.
func authedRequest(method, target string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, target, body)
	session := &domainauth.Session{
		ID:          "sess-1",
		UserID:      "user-1",
		Email:       "cook@example.com",
		DisplayName: "Cook",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	return r.WithContext(SetSessionInContext(r.Context(), session))
}

func testRecipe(id, title string) *model.Recipe {
	return &model.Recipe{
		ID:           id,
		UserID:       "user-1",
		Title:        title,
		Ingredients:  []string{"1 cup flour", "2 eggs"},
		Instructions: "Mix everything and bake.",
		PrepTime:     10,
		CookTime:     20,
		Servings:     4,
		Category:     model.CategoryDinner,
		CreatedAt:    time.Now().Add(-time.Hour),
		UpdatedAt:    time.Now().Add(-time.Hour),
	}
}

func makeRecipes(n int) []*model.Recipe {
	recipes := make([]*model.Recipe, 0, n)
	for i := 1; i <= n; i++ {
		recipes = append(recipes, testRecipe(fmt.Sprintf("r%d", i), fmt.Sprintf("Recipe %d", i)))
	}
	return recipes
}

func TestParseRecipesFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    recipesFilter
		wantErr bool
	}{
		{
			name:  "no filters",
			query: "",
			want:  recipesFilter{},
		},
		{
			name:  "search trimmed",
			query: "q=%20pie%20",
			want:  recipesFilter{Q: "pie"},
		},
		{
			name:  "favorites true",
			query: "favorites=true",
			want:  recipesFilter{FavoritesOnly: true},
		},
		{
			name:  "favorites numeric",
			query: "favorites=1",
			want:  recipesFilter{FavoritesOnly: true},
		},
		{
			name:  "favorites off",
			query: "favorites=no",
			want:  recipesFilter{},
		},
		{
			name:  "legacy search alias",
			query: "search=pie",
			want:  recipesFilter{Q: "pie"},
		},
		{
			name:  "legacy favorites alias",
			query: "filter=favorites",
			want:  recipesFilter{FavoritesOnly: true},
		},
		{
			name:  "category normalized",
			query: "category=dinner",
			want:  recipesFilter{Category: model.CategoryDinner},
		},
		{
			name:  "all combined",
			query: "q=pie&favorites=true&category=Dessert",
			want:  recipesFilter{Q: "pie", FavoritesOnly: true, Category: model.CategoryDessert},
		},
		{
			name:    "unknown category",
			query:   "category=Brunch",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, parseErr := parseRecipesFilter(q)
			if tt.wantErr {
				require.Error(t, parseErr)
				assert.Contains(t, parseErr.Error(), "unknown category")
				return
			}
			require.NoError(t, parseErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecipesFilter_ListOptions(t *testing.T) {
	f := recipesFilter{Q: "pie", FavoritesOnly: true, Category: model.CategoryDessert}
	opts := f.listOptions("user-1", pageOpts{Page: 2, PageSize: 10})

	assert.Equal(t, 11, opts.Limit) // one extra to detect next page
	assert.Equal(t, 10, opts.Offset)
	assert.Equal(t, "user-1", opts.UserID)
	assert.True(t, opts.FavoritesOnly)
	require.NotNil(t, opts.Q)
	assert.Equal(t, "pie", *opts.Q)
	require.NotNil(t, opts.Category)
	assert.Equal(t, model.CategoryDessert, *opts.Category)
}

func TestRecipesFilter_ListOptions_EmptyFilter(t *testing.T) {
	opts := recipesFilter{}.listOptions("user-1", pageOpts{Page: 1, PageSize: 12})

	assert.Equal(t, 13, opts.Limit)
	assert.Equal(t, 0, opts.Offset)
	assert.Nil(t, opts.Q)
	assert.Nil(t, opts.Category)
	assert.False(t, opts.FavoritesOnly)
}

func TestRecipesFilter_Active(t *testing.T) {
	assert.False(t, recipesFilter{}.active())
	assert.True(t, recipesFilter{Q: "pie"}.active())
	assert.True(t, recipesFilter{FavoritesOnly: true}.active())
	assert.True(t, recipesFilter{Category: model.CategorySnack}.active())
}

func TestHomePage_AppliesFiltersConjunctively(t *testing.T) {
	handler := CreateUIHandlersForTest(t)
	require.NotNil(t, handler)

	var captured model.RecipesListOptions
	handler.RecipeSvc = &fakeRecipesService{
		listFunc: func(_ context.Context, opts model.RecipesListOptions) ([]*model.Recipe, error) {
			captured = opts
			return makeRecipes(11), nil
		},
	}

	r := authedRequest(http.MethodGet, "/?q=pie&favorites=true&category=Dessert&seq=4&page=2&page_size=10", nil)
	w := httptest.NewRecorder()

	handler.HomePage(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", w.Header().Get(ListSeqHeader))

	assert.Equal(t, "user-1", captured.UserID)
	assert.True(t, captured.FavoritesOnly)
	require.NotNil(t, captured.Q)
	assert.Equal(t, "pie", *captured.Q)
	require.NotNil(t, captured.Category)
	assert.Equal(t, model.CategoryDessert, *captured.Category)
	assert.Equal(t, 11, captured.Limit)
	assert.Equal(t, 10, captured.Offset)

	// The extra fetched row signals another page; filters survive in the link
	body := w.Body.String()
	assert.Contains(t, body, "page=3")
	assert.Contains(t, body, "q=pie")
	assert.NotContains(t, body, "seq=")
}

func TestHomePage_UnknownCategoryRendersFilterError(t *testing.T) {
	handler := CreateUIHandlersForTest(t)
	require.NotNil(t, handler)
	handler.RecipeSvc = &fakeRecipesService{} // List must not be called

	r := authedRequest(http.MethodGet, "/?category=Brunch", nil)
	w := httptest.NewRecorder()

	handler.HomePage(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid filter parameters: unknown category")
}

func TestHomePage_EmptyStates(t *testing.T) {
	t.Run("no recipes yet", func(t *testing.T) {
		handler := CreateUIHandlersForTest(t)
		require.NotNil(t, handler)
		handler.RecipeSvc = &fakeRecipesService{
			listFunc: func(_ context.Context, _ model.RecipesListOptions) ([]*model.Recipe, error) {
				return nil, nil
			},
		}

		r := authedRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.HomePage(w, r)

		assert.Contains(t, w.Body.String(), "saved any recipes yet.")
	})

	t.Run("no recipes match filters", func(t *testing.T) {
		handler := CreateUIHandlersForTest(t)
		require.NotNil(t, handler)
		handler.RecipeSvc = &fakeRecipesService{
			listFunc: func(_ context.Context, _ model.RecipesListOptions) ([]*model.Recipe, error) {
				return nil, nil
			},
		}

		r := authedRequest(http.MethodGet, "/?favorites=true", nil)
		w := httptest.NewRecorder()

		handler.HomePage(w, r)

		assert.Contains(t, w.Body.String(), "No recipes match your filters.")
	})
}

func TestHomePage_FetchErrorShowsMessage(t *testing.T) {
	handler := CreateUIHandlersForTest(t)
	require.NotNil(t, handler)
	handler.RecipeSvc = &fakeRecipesService{
		listFunc: func(_ context.Context, _ model.RecipesListOptions) ([]*model.Recipe, error) {
			return nil, errors.New("boom")
		},
	}

	r := authedRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.HomePage(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to load recipes.")
}

func TestHomePage_PartialRenderForHTMX(t *testing.T) {
	handler := CreateUIHandlersForTest(t)
	require.NotNil(t, handler)
	handler.RecipeSvc = &fakeRecipesService{
		listFunc: func(_ context.Context, _ model.RecipesListOptions) ([]*model.Recipe, error) {
			return makeRecipes(2), nil
		},
	}

	r := authedRequest(http.MethodGet, "/", nil)
	r.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()

	handler.HomePage(w, r)

	body := w.Body.String()
	assert.Contains(t, body, "<title>Recipe Saver - My Recipes</title>")
	assert.Contains(t, body, `hx-swap-oob="outerHTML"`)
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "nav:activate")
}

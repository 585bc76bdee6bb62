package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
)

// recipesFilter holds the parsed filter parameters for the recipe list.
// All filters combine conjunctively.
type recipesFilter struct {
	Q             string
	FavoritesOnly bool
	Category      model.Category
}

// parseRecipesFilter parses list filters from query parameters.
// The legacy parameter names (search, filter=favorites) are accepted as
// aliases so old bookmarks keep working.
// An unknown category is rejected so the UI can surface the problem instead
// of silently showing unfiltered results.
func parseRecipesFilter(q url.Values) (recipesFilter, error) {
	text := strings.TrimSpace(q.Get("q"))
	if text == "" {
		text = strings.TrimSpace(q.Get("search"))
	}
	f := recipesFilter{
		Q:             text,
		FavoritesOnly: q.Get("favorites") == "true" || q.Get("favorites") == "1" || q.Get("filter") == "favorites",
	}

	if raw := strings.TrimSpace(q.Get("category")); raw != "" {
		category, ok := model.ParseCategory(raw)
		if !ok {
			return f, fmt.Errorf("unknown category %q", raw)
		}
		f.Category = category
	}

	return f, nil
}

// listOptions translates the filter plus pagination into repository options.
func (f recipesFilter) listOptions(userID string, pg pageOpts) model.RecipesListOptions {
	limit, offset := pg.LimitAndOffset()
	opts := model.RecipesListOptions{
		Limit:         limit,
		Offset:        offset,
		UserID:        userID,
		FavoritesOnly: f.FavoritesOnly,
	}
	if f.Q != "" {
		q := f.Q
		opts.Q = &q
	}
	if f.Category != "" {
		c := f.Category
		opts.Category = &c
	}
	return opts
}

// active reports whether any filter narrows the list. Used to distinguish
// "no recipes yet" from "no recipes match".
func (f recipesFilter) active() bool {
	return f.Q != "" || f.FavoritesOnly || f.Category != ""
}

// HomePage renders the recipe collection with search, favorites, and
// category filters applied conjunctively, newest first.
func (h *UIHandlers) HomePage(w http.ResponseWriter, r *http.Request) {
	userID := SessionUserID(r.Context())

	HandleList(ListHandlerOpts[*model.Recipe, recipesFilter]{
		Handler: h,
		W:       w,
		R:       r,
		FilteredFetcher: func(ctx context.Context, f recipesFilter, pg pageOpts) ([]*model.Recipe, error) {
			return h.RecipeSvc.List(ctx, f.listOptions(userID, pg))
		},
		FilterParser: parseRecipesFilter,
		EnrichData: func(builder *TemplateDataBuilder, items []*model.Recipe, f recipesFilter) {
			builder.With("Search", f.Q).
				With("FavoritesOnly", f.FavoritesOnly).
				With("SelectedCategory", string(f.Category)).
				With("Categories", model.Categories()).
				With("FilterActive", f.active()).
				With("Empty", len(items) == 0)
		},
		BasePath:     "/",
		PageMeta:     homePageMeta(),
		ItemsKey:     "Recipes",
		ErrorMessage: "Unable to load recipes.",
	})
}

func homePageMeta() PageMeta {
	return PageMeta{
		Title:       "Recipe Saver - My Recipes",
		PageTitle:   "My Recipes",
		CurrentPage: PageHome,
	}
}

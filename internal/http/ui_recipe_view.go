package httpx

import (
	"net/http"
	"strconv"

	apperrors "github.com/isaacgyampoh/recipe-saver/internal/errors"
)

// Response headers for the favorite toggle.
// The token identifies the toggle attempt; clients keep the highest token seen
// per recipe and ignore renders carrying an older one. A stale response is
// signalled explicitly so the client leaves the newer state untouched.
const (
	ToggleTokenHeader = "X-Toggle-Token"
	ToggleStaleHeader = "X-Toggle-Stale"
)

// RecipeViewPage renders the detail view for a single owned recipe.
func (h *UIHandlers) RecipeViewPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.NotFound(w, r)
		return
	}

	recipe, err := h.RecipeSvc.GetOwned(r.Context(), id, SessionUserID(r.Context()))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.logger().Error("failed to load recipe", "recipe_id", id, "error", err)
		RenderError(ErrorOpts{
			W:        w,
			R:        r,
			Err:      err,
			Renderer: h.renderAppPage,
			PageMeta: recipeViewPageMeta(""),
		})
		return
	}

	data := NewTemplateData(r, recipeViewPageMeta(recipe.Title)).
		With("Recipe", recipe).
		Build()
	h.renderAppPage(w, r, data)
}

// ToggleFavoritePage handles the favorite toggle for a recipe.
// The request carries the desired state in the "favorite" form field. A result
// superseded by a newer toggle returns 204 with the stale header set so the
// optimistic UI keeps the latest state. Failures re-render the previous state
// and raise a toast, identical for list and detail placements.
func (h *UIHandlers) ToggleFavoritePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	desired := r.PostFormValue("favorite") == "true" || r.PostFormValue("favorite") == "1"

	result, err := h.RecipeSvc.ToggleFavorite(r.Context(), id, SessionUserID(r.Context()), desired)
	if err != nil {
		h.logger().Error("favorite toggle failed", "recipe_id", id, "error", err)
		var fieldErrors map[string]string
		triggerToast(w, processError(err, &fieldErrors), "error")
		// Revert to the pre-toggle state so the optimistic flip is undone.
		// Superseded failures never reach here; the service reports those
		// as stale results.
		h.renderFavoriteButton(w, r, id, !desired, 0)
		return
	}

	if result.Stale {
		w.Header().Set(ToggleStaleHeader, "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set(ToggleTokenHeader, strconv.FormatUint(result.Token, 10))
	h.renderFavoriteButton(w, r, result.Recipe.ID, result.Recipe.IsFavorite, result.Token)
}

// renderFavoriteButton renders the shared favorite-button partial. The token
// rides along as a data attribute so the client can order later responses
// against the last one it applied.
func (h *UIHandlers) renderFavoriteButton(w http.ResponseWriter, r *http.Request, id string, favorite bool, token uint64) {
	data := map[string]any{
		"RecipeID":    id,
		"IsFavorite":  favorite,
		"ToggleToken": token,
		"CSRFToken":   GetCSRFToken(r),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.T.t.ExecuteTemplate(w, "favorite-button", data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "favorite button render")
	}
}

// DeleteConfirmPage renders the confirmation dialog for deleting a recipe.
// Deletion only happens on the follow-up POST; dismissing the dialog is a no-op.
func (h *UIHandlers) DeleteConfirmPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.NotFound(w, r)
		return
	}

	recipe, err := h.RecipeSvc.GetOwned(r.Context(), id, SessionUserID(r.Context()))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.logger().Error("failed to load recipe for delete confirm", "recipe_id", id, "error", err)
		var fieldErrors map[string]string
		triggerToast(w, processError(err, &fieldErrors), "error")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data := map[string]any{
		"Recipe":    recipe,
		"CSRFToken": GetCSRFToken(r),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.T.t.ExecuteTemplate(w, "delete-confirm", data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "delete confirm render")
	}
}

// DeleteRecipePage deletes an owned recipe after confirmation and sends the
// browser back to the collection.
func (h *UIHandlers) DeleteRecipePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.NotFound(w, r)
		return
	}

	if err := h.RecipeSvc.Delete(r.Context(), id, SessionUserID(r.Context())); err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.logger().Error("recipe delete failed", "recipe_id", id, "error", err)
		var fieldErrors map[string]string
		triggerToast(w, processError(err, &fieldErrors), "error")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	triggerToast(w, "Recipe deleted.", "success")
	HTMX(w).Redirect("/")
}

func recipeViewPageMeta(title string) PageMeta {
	pageTitle := title
	if pageTitle == "" {
		pageTitle = "Recipe"
	}
	return PageMeta{
		Title:       "Recipe Saver - " + pageTitle,
		PageTitle:   pageTitle,
		CurrentPage: PageRecipeView,
	}
}

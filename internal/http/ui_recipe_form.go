package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
	apperrors "github.com/isaacgyampoh/recipe-saver/internal/errors"
	"github.com/isaacgyampoh/recipe-saver/internal/http/validation"
)

const (
	maxTitleLen        = 255
	maxDescriptionLen  = 2000
	maxIngredientLen   = 500
	maxInstructionsLen = 10000
	maxTimeMinutes     = 10080 // one week
	maxServings        = 100
	maxImageURLLen     = 2048
)

// RecipeFormPage renders the recipe form for create or edit.
// Edit mode loads the owned recipe and pre-fills the form.
func (h *UIHandlers) RecipeFormPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	data := map[string]any{
		"Categories": model.Categories(),
	}

	if id == "" {
		frame, _ := prepareFormFrame(FormFrameOpts{
			R:           r,
			Data:        data,
			DefaultMode: FormModeCreate,
			MetaForMode: recipeFormPageMeta,
		})
		h.renderAppPage(w, r, frame)
		return
	}

	recipe, err := h.RecipeSvc.GetOwned(r.Context(), id, SessionUserID(r.Context()))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.logger().Error("failed to load recipe for edit", "recipe_id", id, "error", err)
		RenderError(ErrorOpts{
			W:        w,
			R:        r,
			Err:      err,
			Renderer: h.renderAppPage,
			PageMeta: recipeFormPageMeta(FormModeEdit),
		})
		return
	}

	data["Mode"] = FormModeEdit
	data["RecipeID"] = recipe.ID
	data["FormData"] = recipeFieldsFrom(recipe)
	frame, _ := prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeEdit,
		MetaForMode: recipeFormPageMeta,
	})
	h.renderAppPage(w, r, frame)
}

// CreateRecipePage handles POST /recipes.
func (h *UIHandlers) CreateRecipePage(w http.ResponseWriter, r *http.Request) {
	h.handleRecipeForm(w, r, FormModeCreate)
}

// UpdateRecipePage handles POST /recipes/{id}.
func (h *UIHandlers) UpdateRecipePage(w http.ResponseWriter, r *http.Request) {
	h.handleRecipeForm(w, r, FormModeEdit)
}

func (h *UIHandlers) handleRecipeForm(w http.ResponseWriter, r *http.Request, mode FormMode) {
	HandleForm(FormHandlerOpts[*model.RecipeFields]{
		W:        w,
		R:        r,
		Mode:     mode,
		Parser:   parseRecipeForm,
		Service:  recipeFormService{svc: h.RecipeSvc, userID: SessionUserID(r.Context())},
		Renderer: h.renderRecipeForm,
		SuccessURLFor: func(result any) string {
			if recipe, ok := result.(*model.Recipe); ok && recipe != nil {
				return "/recipes/" + recipe.ID
			}
			return "/"
		},
		SuccessURL: "/",
		PageMeta:   recipeFormPageMeta(mode),
		ExtraData: map[string]any{
			"Categories": model.Categories(),
			"RecipeID":   r.PathValue("id"),
		},
	})
}

// recipeFormService adapts RecipesService to the generic form service shape,
// binding the owner from the session.
type recipeFormService struct {
	svc    RecipesService
	userID string
}

func (s recipeFormService) Create(ctx context.Context, fields *model.RecipeFields) (any, error) {
	return s.svc.Create(ctx, s.userID, fields)
}

func (s recipeFormService) Update(ctx context.Context, id string, fields *model.RecipeFields) (any, error) {
	return s.svc.Update(ctx, id, s.userID, fields)
}

// parseRecipeForm extracts and validates recipe fields from the submitted form.
// Ingredient lines arrive as a repeated "ingredient" field; blank lines are
// dropped while the remaining order is preserved.
func parseRecipeForm(r *http.Request) (*model.RecipeFields, map[string]string) {
	fields := &model.RecipeFields{}
	if err := r.ParseForm(); err != nil {
		return fields, map[string]string{"form": "Invalid form data."}
	}

	fields.Title = strings.TrimSpace(r.PostFormValue("title"))
	fields.Instructions = strings.TrimSpace(r.PostFormValue("instructions"))

	if desc := strings.TrimSpace(r.PostFormValue("description")); desc != "" {
		fields.Description = &desc
	}
	if img := strings.TrimSpace(r.PostFormValue("image_url")); img != "" {
		fields.ImageURL = &img
	}

	fields.Ingredients = parseIngredientLines(r.PostForm["ingredient"])

	fv := validation.New().
		Validate("title", fields.Title, validation.Required("Title", maxTitleLen)).
		Validate("instructions", fields.Instructions, validation.Required("Instructions", maxInstructionsLen)).
		Validate("description", r.PostFormValue("description"), validation.Optional("Description", maxDescriptionLen))
	if fields.ImageURL != nil {
		fv.Validate("image_url", *fields.ImageURL, validation.HTTPSURL("Image URL", maxImageURLLen))
	}

	errs := fv.Errors()
	if errs == nil {
		errs = map[string]string{}
	}

	if len(fields.Ingredients) == 0 {
		errs["ingredients"] = "At least one ingredient is required."
	}
	for _, line := range fields.Ingredients {
		if len(line) > maxIngredientLen {
			errs["ingredients"] = "Ingredient lines must be at most " + strconv.Itoa(maxIngredientLen) + " characters."
			break
		}
	}

	fields.PrepTime = parseFormInt(r.PostFormValue("prep_time"), "prep_time", "Prep time", errs)
	fields.CookTime = parseFormInt(r.PostFormValue("cook_time"), "cook_time", "Cook time", errs)
	fields.Servings = parseFormInt(r.PostFormValue("servings"), "servings", "Servings", errs)

	if raw := strings.TrimSpace(r.PostFormValue("category")); raw != "" {
		category, ok := model.ParseCategory(raw)
		if !ok {
			errs["category"] = "Please choose a valid category."
		} else {
			fields.Category = category
		}
	}

	if len(errs) == 0 {
		fields.Normalize()
		return fields, nil
	}
	return fields, errs
}

// parseIngredientLines drops blank lines while preserving order.
func parseIngredientLines(raw []string) []string {
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// parseFormInt parses a numeric form value. Unparsable or negative input
// normalizes to zero instead of blocking the submit; only values past the
// sanity limit record a field error.
func parseFormInt(raw, field, label string, errs map[string]string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	limit := maxTimeMinutes
	if field == "servings" {
		limit = maxServings
	}
	if n > limit {
		errs[field] = label + " is too large."
		return 0
	}
	return n
}

// renderRecipeForm renders the recipe form page with the provided data.
func (h *UIHandlers) renderRecipeForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	frame, _ := prepareFormFrame(FormFrameOpts{
		R:           r,
		Data:        data,
		DefaultMode: FormModeCreate,
		MetaForMode: recipeFormPageMeta,
	})
	if _, ok := frame["Categories"]; !ok {
		frame["Categories"] = model.Categories()
	}
	h.renderAppPage(w, r, frame)
}

// recipeFieldsFrom copies the editable fields out of a stored recipe for
// form pre-fill.
func recipeFieldsFrom(recipe *model.Recipe) *model.RecipeFields {
	if recipe == nil {
		return &model.RecipeFields{}
	}
	return &model.RecipeFields{
		Title:        recipe.Title,
		Description:  recipe.Description,
		Ingredients:  recipe.Ingredients,
		Instructions: recipe.Instructions,
		PrepTime:     recipe.PrepTime,
		CookTime:     recipe.CookTime,
		Servings:     recipe.Servings,
		Category:     recipe.Category,
		ImageURL:     recipe.ImageURL,
	}
}

func recipeFormPageMeta(mode FormMode) PageMeta {
	title := "New Recipe"
	if mode == FormModeEdit {
		title = "Edit Recipe"
	}
	return PageMeta{
		Title:       "Recipe Saver - " + title,
		PageTitle:   title,
		CurrentPage: PageRecipeForm,
	}
}

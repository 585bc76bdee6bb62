//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxRecipeTitleLen       = 255
	maxRecipeDescriptionLen = 2000
	maxIngredientLen        = 500
)

// Category classifies a recipe into a fixed set of meal types.
type Category string

const (
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategoryDessert   Category = "Dessert"
	CategorySnack     Category = "Snack"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryDessert, CategorySnack}
}

// Valid reports whether the category is one of the supported values.
func (c Category) Valid() bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryDessert, CategorySnack:
		return true
	default:
		return false
	}
}

// normalizeCategory trims and title-cases the input, defaulting to Dinner when empty.
func normalizeCategory(v Category) Category {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return CategoryDinner
	}
	s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	return Category(s)
}

// ParseCategory normalizes a category string and reports whether it is supported.
func ParseCategory(value string) (Category, bool) {
	c := normalizeCategory(Category(value))
	if c.Valid() {
		return c, true
	}
	return "", false
}

// RecipesListOptions controls paging and filtering for listing recipes.
// Notes:
// - Q matches title via ILIKE substring.
// - FavoritesOnly restricts to is_favorite = true.
// - Category matches exactly when set.
// - Results are always ordered by created_at descending.
type RecipesListOptions struct {
	Limit         int
	Offset        int
	UserID        string    // restrict to the owner's recipes when set
	Q             *string   // substring match on title (ILIKE)
	FavoritesOnly bool      // is_favorite = true when set
	Category      *Category // exact match
}

// Recipe represents a stored recipe.
type Recipe struct {
	ID           string    `json:"id"                    db:"id"`
	UserID       string    `json:"user_id"               db:"user_id"`
	Title        string    `json:"title"                 db:"title"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Ingredients  []string  `json:"ingredients"           db:"ingredients"`
	Instructions string    `json:"instructions"          db:"instructions"`
	PrepTime     int       `json:"prep_time"             db:"prep_time"`
	CookTime     int       `json:"cook_time"             db:"cook_time"`
	Servings     int       `json:"servings"              db:"servings"`
	Category     Category  `json:"category"              db:"category"`
	ImageURL     *string   `json:"image_url,omitempty"   db:"image_url"`
	IsFavorite   bool      `json:"is_favorite"           db:"is_favorite"`
	CreatedAt    time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"            db:"updated_at"`
}

// RecipeFields carries the mutable fields for create and update.
// Update is a full replace of these fields; id, user_id, and created_at
// never change after creation.
type RecipeFields struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings"`
	Category     Category `json:"category,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
}

// Normalize applies the field normalization shared by create and update:
// blank ingredient lines are dropped (order preserved), negative numerics
// clamp to zero, and the category defaults to Dinner.
func (f *RecipeFields) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Instructions = strings.TrimSpace(f.Instructions)

	kept := f.Ingredients[:0]
	for _, line := range f.Ingredients {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	f.Ingredients = kept

	if f.PrepTime < 0 {
		f.PrepTime = 0
	}
	if f.CookTime < 0 {
		f.CookTime = 0
	}
	if f.Servings < 0 {
		f.Servings = 0
	}

	f.Category = normalizeCategory(f.Category)

	if f.Description != nil && strings.TrimSpace(*f.Description) == "" {
		f.Description = nil
	}
	if f.ImageURL != nil && strings.TrimSpace(*f.ImageURL) == "" {
		f.ImageURL = nil
	}
}

// Validate normalizes and validates the fields.
func (f *RecipeFields) Validate() error {
	f.Normalize()

	if f.Title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(f.Title) > maxRecipeTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if f.Instructions == "" {
		return errors.New("instructions are required and cannot be empty")
	}
	if f.Description != nil && utf8.RuneCountInString(*f.Description) > maxRecipeDescriptionLen {
		return errors.New("description cannot exceed 2000 characters")
	}
	for _, line := range f.Ingredients {
		if utf8.RuneCountInString(line) > maxIngredientLen {
			return errors.New("ingredient lines cannot exceed 500 characters")
		}
	}
	if !f.Category.Valid() {
		return errors.New("invalid category")
	}
	return nil
}

// Package testutil provides testing utilities and helpers shared across packages.
package testutil

import (
	"fmt"
	"time"

	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
)

// RecipeFieldsBuilder provides a fluent interface for building RecipeFields objects for testing.
type RecipeFieldsBuilder struct {
	fields *model.RecipeFields
}

// NewRecipeFields creates a new RecipeFieldsBuilder with sensible defaults.
func NewRecipeFields() *RecipeFieldsBuilder {
	return &RecipeFieldsBuilder{
		fields: &model.RecipeFields{
			Title:        fmt.Sprintf("recipe-%d", time.Now().UnixNano()),
			Ingredients:  []string{"2 eggs", "1 cup flour"},
			Instructions: "Mix and cook.",
			PrepTime:     10,
			CookTime:     20,
			Servings:     2,
			Category:     model.CategoryDinner,
		},
	}
}

// WithTitle sets the recipe title.
func (b *RecipeFieldsBuilder) WithTitle(title string) *RecipeFieldsBuilder {
	b.fields.Title = title
	return b
}

// WithDescription sets the recipe description.
func (b *RecipeFieldsBuilder) WithDescription(desc string) *RecipeFieldsBuilder {
	b.fields.Description = &desc
	return b
}

// WithIngredients sets the ingredient lines.
func (b *RecipeFieldsBuilder) WithIngredients(lines ...string) *RecipeFieldsBuilder {
	b.fields.Ingredients = lines
	return b
}

// WithInstructions sets the instructions text.
func (b *RecipeFieldsBuilder) WithInstructions(text string) *RecipeFieldsBuilder {
	b.fields.Instructions = text
	return b
}

// WithTimes sets prep and cook time in minutes.
func (b *RecipeFieldsBuilder) WithTimes(prep, cook int) *RecipeFieldsBuilder {
	b.fields.PrepTime = prep
	b.fields.CookTime = cook
	return b
}

// WithServings sets the serving count.
func (b *RecipeFieldsBuilder) WithServings(n int) *RecipeFieldsBuilder {
	b.fields.Servings = n
	return b
}

// WithCategory sets the category.
func (b *RecipeFieldsBuilder) WithCategory(c model.Category) *RecipeFieldsBuilder {
	b.fields.Category = c
	return b
}

// WithImageURL sets the image URL.
func (b *RecipeFieldsBuilder) WithImageURL(u string) *RecipeFieldsBuilder {
	b.fields.ImageURL = &u
	return b
}

// Build returns the constructed RecipeFields.
func (b *RecipeFieldsBuilder) Build() *model.RecipeFields {
	return b.fields
}

// Common recipe presets.

// BreakfastRecipe creates a breakfast recipe fields preset.
func BreakfastRecipe() *model.RecipeFields {
	return NewRecipeFields().
		WithTitle(fmt.Sprintf("pancakes-%d", time.Now().UnixNano())).
		WithCategory(model.CategoryBreakfast).
		WithIngredients("1 cup flour", "1 egg", "milk").
		Build()
}

// DessertRecipe creates a dessert recipe fields preset.
func DessertRecipe() *model.RecipeFields {
	return NewRecipeFields().
		WithTitle(fmt.Sprintf("brownies-%d", time.Now().UnixNano())).
		WithCategory(model.CategoryDessert).
		WithTimes(15, 35).
		Build()
}

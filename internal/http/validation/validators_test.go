package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var recipeCategories = []string{"Breakfast", "Lunch", "Dinner", "Dessert", "Snack"}

func TestRequired(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "valid title", value: "Weeknight Chili", want: ""},
		{name: "empty", value: "", want: "Title is required."},
		{name: "whitespace only", value: "   ", want: "Title is required."},
		{name: "exceeds max length", value: strings.Repeat("x", 256), want: "Title cannot exceed 255 characters."},
		{name: "exactly max length", value: strings.Repeat("x", 255), want: ""},
		{name: "multi-byte runes counted as one", value: strings.Repeat("寿", 255), want: ""},
		{name: "multi-byte runes over limit", value: strings.Repeat("寿", 256), want: "Title cannot exceed 255 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := Required("Title", 255)
			assert.Equal(t, tt.want, check(tt.value))
		})
	}
}

func TestRequiredRange(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "valid display name", value: "Cook", want: ""},
		{name: "empty", value: "", want: "Display name is required."},
		{name: "too short", value: "C", want: "Display name must be between 2 and 50 characters."},
		{name: "too long", value: strings.Repeat("c", 51), want: "Display name must be between 2 and 50 characters."},
		{name: "exactly min", value: "Jo", want: ""},
		{name: "exactly max", value: strings.Repeat("c", 50), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := RequiredRange("Display name", 2, 50)
			assert.Equal(t, tt.want, check(tt.value))
		})
	}
}

func TestOptional(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "blank passes", value: "", want: ""},
		{name: "whitespace passes", value: "   ", want: ""},
		{name: "short description passes", value: "Fluffy weekend pancakes.", want: ""},
		{name: "over limit", value: strings.Repeat("x", 2001), want: "Description cannot exceed 2000 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := Optional("Description", 2000)
			assert.Equal(t, tt.want, check(tt.value))
		})
	}
}

func TestIntRange(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "valid servings", value: "4", want: ""},
		{name: "below minimum", value: "0", want: "Servings must be between 1 and 100."},
		{name: "above maximum", value: "101", want: "Servings must be between 1 and 100."},
		{name: "not a number", value: "a few", want: "Servings must be a number."},
		{name: "empty", value: "", want: "Servings must be a number."},
		{name: "exactly minimum", value: "1", want: ""},
		{name: "exactly maximum", value: "100", want: ""},
		{name: "whitespace trimmed", value: " 4 ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := IntRange("Servings", 1, 100)
			assert.Equal(t, tt.want, check(tt.value))
		})
	}
}

func TestHTTPSURL(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "https image URL", value: "https://cdn.example.com/recipes/chili.jpg", want: ""},
		{name: "http allowed", value: "http://cdn.example.com/recipes/chili.jpg", want: ""},
		{name: "empty", value: "", want: "Image URL is required."},
		{name: "over limit", value: "https://cdn.example.com/" + strings.Repeat("x", 2048), want: "Image URL cannot exceed 2048 characters."},
		{name: "not a URL", value: "a picture of chili", want: "Enter a valid http(s) URL."},
		{name: "missing scheme", value: "cdn.example.com/chili.jpg", want: "Enter a valid http(s) URL."},
		{name: "ftp rejected", value: "ftp://cdn.example.com/chili.jpg", want: "Enter a valid http(s) URL."},
		{name: "missing host", value: "https://", want: "Enter a valid http(s) URL."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := HTTPSURL("Image URL", 2048)
			assert.Equal(t, tt.want, check(tt.value))
		})
	}
}

func TestOneOf(t *testing.T) {
	wantMsg := "Category must be one of: Breakfast, Lunch, Dinner, Dessert, Snack"

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "exact case", value: "Dinner", want: ""},
		{name: "lower case", value: "dinner", want: ""},
		{name: "upper case", value: "BREAKFAST", want: ""},
		{name: "unknown category", value: "Brunch", want: wantMsg},
		{name: "empty", value: "", want: wantMsg},
		{name: "whitespace trimmed", value: "  Snack  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := OneOf("Category", recipeCategories)
			assert.Equal(t, tt.want, check(tt.value))
		})
	}
}

func TestPattern(t *testing.T) {
	displayNameRe := regexp.MustCompile(`^[\pL\pN][\pL\pN '._-]*$`)

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "plain name", value: "Cook", want: ""},
		{name: "name with apostrophe", value: "O'Brien", want: ""},
		{name: "blank passes", value: "", want: ""},
		{name: "leading punctuation rejected", value: "-cook", want: "Display name has an invalid format."},
		{name: "control characters rejected", value: "cook\tcook", want: "Display name has an invalid format."},
		{name: "whitespace trimmed before matching", value: "  Cook  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := Pattern("Display name", displayNameRe)
			assert.Equal(t, tt.want, check(tt.value))
		})
	}
}

func TestFieldValidator_CollectsPerField(t *testing.T) {
	errs := New().
		Validate("title", "Weeknight Chili", Required("Title", 255)).
		Validate("servings", "4", IntRange("Servings", 1, 100)).
		Errors()
	assert.Empty(t, errs)

	errs = New().
		Validate("title", "", Required("Title", 255)).
		Validate("servings", "500", IntRange("Servings", 1, 100)).
		Errors()
	assert.Len(t, errs, 2)
	assert.Equal(t, "Title is required.", errs["title"])
	assert.Equal(t, "Servings must be between 1 and 100.", errs["servings"])
}

func TestFieldValidator_StopsAtFirstErrorPerField(t *testing.T) {
	// An empty category fails OneOf first, so the Pattern check never runs.
	errs := New().
		Validate("category", "", OneOf("Category", recipeCategories), Pattern("Category", regexp.MustCompile(`^[A-Z]`))).
		Errors()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs["category"], "must be one of")
}

func TestFieldValidator_LaterValidatorTriggers(t *testing.T) {
	// Passes the length check, fails the scheme check.
	errs := New().
		Validate("image_url", "not-a-url", Optional("Image URL", 2048), HTTPSURL("Image URL", 2048)).
		Errors()
	assert.Len(t, errs, 1)
	assert.Equal(t, "Enter a valid http(s) URL.", errs["image_url"])
}

func TestFieldValidator_EmptyByDefault(t *testing.T) {
	assert.Empty(t, New().Errors())
}

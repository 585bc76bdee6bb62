package model

import (
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{"Dinner", CategoryDinner, true},
		{"dinner", CategoryDinner, true},
		{"BREAKFAST", CategoryBreakfast, true},
		{" Snack ", CategorySnack, true},
		{"", CategoryDinner, true},
		{"Brunch", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseCategory(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecipeFields_Normalize(t *testing.T) {
	f := RecipeFields{
		Title:        "  Pasta Bake  ",
		Ingredients:  []string{"  pasta ", "", "   ", "cheese", "tomato sauce "},
		Instructions: " Bake it. ",
		PrepTime:     -5,
		CookTime:     30,
		Servings:     -1,
	}
	f.Normalize()

	if f.Title != "Pasta Bake" {
		t.Errorf("title = %q", f.Title)
	}
	want := []string{"pasta", "cheese", "tomato sauce"}
	if len(f.Ingredients) != len(want) {
		t.Fatalf("ingredients = %v, want %v", f.Ingredients, want)
	}
	for i := range want {
		if f.Ingredients[i] != want[i] {
			t.Errorf("ingredients[%d] = %q, want %q", i, f.Ingredients[i], want[i])
		}
	}
	if f.PrepTime != 0 || f.Servings != 0 {
		t.Errorf("negative numerics not clamped: prep=%d servings=%d", f.PrepTime, f.Servings)
	}
	if f.CookTime != 30 {
		t.Errorf("cook time changed: %d", f.CookTime)
	}
	if f.Category != CategoryDinner {
		t.Errorf("category default = %q, want Dinner", f.Category)
	}
}

func TestRecipeFields_Validate(t *testing.T) {
	valid := func() RecipeFields {
		return RecipeFields{
			Title:        "Pasta Bake",
			Ingredients:  []string{"pasta", "cheese"},
			Instructions: "Bake it.",
			Category:     CategoryDinner,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*RecipeFields)
		wantErr bool
	}{
		{"valid", func(f *RecipeFields) {}, false},
		{"missing title", func(f *RecipeFields) { f.Title = "  " }, true},
		{"missing instructions", func(f *RecipeFields) { f.Instructions = "" }, true},
		{"empty category defaults", func(f *RecipeFields) { f.Category = "" }, false},
		{"bad category", func(f *RecipeFields) { f.Category = "Brunch" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			tt.mutate(&f)
			err := f.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSignUpRequest_Validate(t *testing.T) {
	valid := func() SignUpRequest {
		return SignUpRequest{
			Email:       "Cook@Example.com",
			Password:    "supersecret",
			DisplayName: "Cook",
		}
	}

	t.Run("valid normalizes email", func(t *testing.T) {
		r := valid()
		if err := r.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Email != "cook@example.com" {
			t.Errorf("email = %q, want lowercased", r.Email)
		}
	})

	tests := []struct {
		name   string
		mutate func(*SignUpRequest)
	}{
		{"missing email", func(r *SignUpRequest) { r.Email = "" }},
		{"invalid email", func(r *SignUpRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *SignUpRequest) { r.Password = "short" }},
		{"missing display name", func(r *SignUpRequest) { r.DisplayName = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

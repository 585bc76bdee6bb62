package devseed

// Package devseed populates a development database with a known account and
// a handful of recipes so the UI has something to show on first boot.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/isaacgyampoh/recipe-saver/internal/adapters/password"
	"github.com/isaacgyampoh/recipe-saver/internal/data"
	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
	"github.com/isaacgyampoh/recipe-saver/internal/service"
)

const (
	// SeedEmail is the email of the seeded development account.
	SeedEmail = "dev@example.com"
	// SeedPassword is the password of the seeded development account.
	SeedPassword = "devpassword"

	seedDisplayName = "Dev User"
	// seedBcryptCost keeps seeding fast; never used for real accounts.
	seedBcryptCost = 6
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB      *sql.DB
	users   *data.UserRepo
	recipes *service.RecipeService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:    db,
		users: data.NewUserRepo(db),
		recipes: service.NewRecipeService(service.RecipeServiceOptions{
			Recipes: data.NewRecipeRepo(db),
		}),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	user, err := ensureSeedUser(ctx, svcs.users, logger)
	if err != nil {
		return err
	}

	return seedRecipes(ctx, svcs.recipes, user, logger)
}

// ensureSeedUser creates the dev account or returns the existing one.
func ensureSeedUser(ctx context.Context, users *data.UserRepo, logger *slog.Logger) (*model.User, error) {
	existing, err := users.GetByEmail(ctx, SeedEmail)
	if err == nil {
		logger.InfoContext(ctx, "seed user already exists", "email", SeedEmail)
		return existing, nil
	}
	if !errors.Is(err, data.ErrUserNotFound) {
		return nil, fmt.Errorf("look up seed user: %w", err)
	}

	hash, err := password.NewHasher(seedBcryptCost).Hash(SeedPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	user, err := users.Create(ctx, SeedEmail, hash, seedDisplayName)
	if err != nil {
		return nil, fmt.Errorf("create seed user: %w", err)
	}

	logger.InfoContext(ctx, "seed user created", "email", SeedEmail, "user_id", user.ID)
	return user, nil
}

// seedRecipes inserts the sample recipes, skipping any the user already has.
func seedRecipes(ctx context.Context, recipes *service.RecipeService, user *model.User, logger *slog.Logger) error {
	existing, err := recipes.List(ctx, model.RecipesListOptions{UserID: user.ID, Limit: 1})
	if err != nil {
		return fmt.Errorf("check existing recipes: %w", err)
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "recipes already present; skipping recipe seeding", "user_id", user.ID)
		return nil
	}

	failures := 0
	for _, fields := range sampleRecipes() {
		if _, createErr := recipes.Create(ctx, user.ID, fields); createErr != nil {
			failures++
			logger.WarnContext(ctx, "failed to seed recipe", "title", fields.Title, "error", createErr)
		}
	}

	if failures > 0 {
		return fmt.Errorf("seeding finished with %d failed recipes", failures)
	}

	logger.InfoContext(ctx, "development recipes seeded", "count", len(sampleRecipes()))
	return nil
}

func strptr(s string) *string { return &s }

func sampleRecipes() []*model.RecipeFields {
	return []*model.RecipeFields{
		{
			Title:       "Overnight Oats",
			Description: strptr("No-cook oats that set up in the fridge while you sleep."),
			Ingredients: []string{
				"1/2 cup rolled oats",
				"1/2 cup milk",
				"1 tbsp chia seeds",
				"1 tsp honey",
				"Handful of berries",
			},
			Instructions: "Stir the oats, milk, chia seeds, and honey together in a jar.\n" +
				"Refrigerate overnight.\nTop with berries before serving.",
			PrepTime: 5,
			Servings: 1,
			Category: model.CategoryBreakfast,
		},
		{
			Title:       "Chickpea Salad Sandwich",
			Description: strptr("A quick lunch built from pantry staples."),
			Ingredients: []string{
				"1 can chickpeas, drained",
				"2 tbsp mayonnaise",
				"1 tsp dijon mustard",
				"1 celery stalk, diced",
				"4 slices sandwich bread",
			},
			Instructions: "Mash the chickpeas roughly with a fork.\n" +
				"Mix in the mayonnaise, mustard, and celery.\nSeason and pile onto bread.",
			PrepTime: 10,
			Servings: 2,
			Category: model.CategoryLunch,
		},
		{
			Title:       "Weeknight Chili",
			Description: strptr("One pot, minimal chopping, better the next day."),
			Ingredients: []string{
				"1 lb ground beef",
				"1 onion, diced",
				"2 cans diced tomatoes",
				"1 can kidney beans",
				"2 tbsp chili powder",
				"1 tsp cumin",
			},
			Instructions: "Brown the beef with the onion in a large pot.\n" +
				"Add the tomatoes, beans, and spices.\nSimmer uncovered for 30 minutes, stirring occasionally.",
			PrepTime: 10,
			CookTime: 40,
			Servings: 4,
			Category: model.CategoryDinner,
		},
		{
			Title: "Banana Bread",
			Ingredients: []string{
				"3 ripe bananas",
				"1/3 cup melted butter",
				"3/4 cup sugar",
				"1 egg",
				"1 tsp baking soda",
				"1 1/2 cups flour",
			},
			Instructions: "Mash the bananas and whisk in the butter, sugar, and egg.\n" +
				"Fold in the baking soda and flour.\nBake at 350F for 55 minutes in a greased loaf pan.",
			PrepTime: 15,
			CookTime: 55,
			Servings: 8,
			Category: model.CategoryDessert,
		},
		{
			Title:       "Spiced Roasted Almonds",
			Description: strptr("Keeps for a week in an airtight jar."),
			Ingredients: []string{
				"2 cups raw almonds",
				"1 tbsp olive oil",
				"1 tsp smoked paprika",
				"1/2 tsp salt",
			},
			Instructions: "Toss the almonds with oil, paprika, and salt.\n" +
				"Roast at 325F for 15 minutes, shaking the pan halfway through.",
			PrepTime: 5,
			CookTime: 15,
			Servings: 6,
			Category: model.CategorySnack,
		},
	}
}

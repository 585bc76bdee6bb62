// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockRecipeRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(recipe, nil)
package mocks

// Generate mock for RecipeRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=recipe_repository_mock.go github.com/isaacgyampoh/recipe-saver/internal/core RecipeRepository

// Generate mock for UserRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_repository_mock.go github.com/isaacgyampoh/recipe-saver/internal/core UserRepository

package mocks

import (
	"context"

	"github.com/gourmich/recipeform/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockRecipeRepository is a mock implementation of the recipe repository
type MockRecipeRepository struct {
	mock.Mock
}

// FetchRecipe mocks the FetchRecipe method
func (m *MockRecipeRepository) FetchRecipe(ctx context.Context, id int64) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeRepository) CreateRecipe(ctx context.Context, payload *model.RecipePayload) (int64, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(int64), args.Error(1)
}

// UpdateRecipe mocks the UpdateRecipe method
func (m *MockRecipeRepository) UpdateRecipe(ctx context.Context, id int64, payload *model.RecipePayload) (int64, error) {
	args := m.Called(ctx, id, payload)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteRecipe mocks the DeleteRecipe method
func (m *MockRecipeRepository) DeleteRecipe(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockIdentity is a mock implementation of the signed-in user lookup
type MockIdentity struct {
	mock.Mock
}

// CurrentUsername mocks the CurrentUsername method
func (m *MockIdentity) CurrentUsername(ctx context.Context) (string, bool) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1)
}

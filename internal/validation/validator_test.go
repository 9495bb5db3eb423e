package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/validation"
)

func validPayload() *model.RecipePayload {
	return &model.RecipePayload{
		Title:       "Tomato Soup",
		ImageURL:    "https://x.com/a.png",
		Category:    "SOUP",
		Difficulty:  2,
		CookingTime: 20,
		Ingredients: []model.IngredientPayload{
			{Name: "Tomato", Quantity: 4, Unit: "pcs"},
		},
		Instructions:   "Blend everything and simmer.",
		AuthorUsername: "alice",
	}
}

func TestValidator_ValidPayload(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(validPayload()))
}

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := validation.New()

	p := validPayload()
	p.Title = "abc"
	p.Difficulty = 7
	p.Ingredients[0].Name = ""
	p.AuthorUsername = ""

	err := v.Validate(p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrInvalidPayload))

	var perr *validation.PayloadError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "must be at least 4 characters", perr.Fields["title"])
	assert.Equal(t, "must be less than or equal to 5", perr.Fields["difficulty"])
	assert.Equal(t, "is required", perr.Fields["ingredients[0].name"])
	assert.Equal(t, "is required", perr.Fields["authorUsername"])
}

func TestValidator_EmptyIngredientList(t *testing.T) {
	v := validation.New()

	p := validPayload()
	p.Ingredients = []model.IngredientPayload{}

	var perr *validation.PayloadError
	require.True(t, errors.As(v.Validate(p), &perr))
	assert.Equal(t, "must have at least 1 entries", perr.Fields["ingredients"])
}

package form_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gourmich/recipeform/internal/form"
	"github.com/gourmich/recipeform/internal/mocks"
	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/testhelpers"
)

type statusErr struct{ code int }

func (e statusErr) Error() string   { return http.StatusText(e.code) }
func (e statusErr) HTTPStatus() int { return e.code }

func newCoordinator(repo *mocks.MockRecipeRepository, user string) *form.Coordinator {
	id := new(mocks.MockIdentity)
	id.On("CurrentUsername", mock.Anything).Return(user, user != "")
	return form.NewCoordinator(repo, id, testhelpers.DiscardLogger())
}

func submissionError(t *testing.T, err error) *form.SubmissionError {
	t.Helper()
	var se *form.SubmissionError
	require.ErrorAs(t, err, &se)
	return se
}

func TestSubmit_CreatesRecipe(t *testing.T) {
	ctx := context.Background()
	s := newCreateSession(t)
	fillTomatoSoup(t, s)
	require.True(t, s.FormValid())

	want := &model.RecipePayload{
		Title:          "Tomato Soup",
		ImageURL:       "https://x.com/a.png",
		Category:       "SOUP",
		Difficulty:     2,
		CookingTime:    20,
		Ingredients:    []model.IngredientPayload{{Name: "Tomato", Quantity: 4, Unit: "pcs"}},
		Instructions:   "Simmer the tomatoes for twenty minutes.",
		AuthorUsername: "chef",
	}
	repo := new(mocks.MockRecipeRepository)
	repo.On("CreateRecipe", ctx, want).Return(int64(42), nil)

	res, err := newCoordinator(repo, "chef").Submit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, form.ModeCreate, res.Mode)
	assert.Equal(t, int64(42), res.RecipeID)
	assert.Equal(t, "Recipe added successfully!", res.Message)
	repo.AssertExpectations(t)
}

func TestSubmit_UpdatesRecipe(t *testing.T) {
	ctx := context.Background()
	s, err := form.New(form.ModeEdit, &model.RecipeDraft{
		ID:           5,
		Title:        "Tomato Soup",
		ImageURL:     "https://x.com/a.png",
		Category:     "SOUP",
		Difficulty:   2,
		CookingTime:  20,
		Ingredients:  []model.IngredientDraft{{Name: "Tomato", Quantity: 4, Unit: model.UnitPiece}},
		Instructions: "Simmer the tomatoes.",
	})
	require.NoError(t, err)
	require.NoError(t, s.SetField(form.StepBasics, form.FieldTitle, "Roast Tomato Soup"))

	repo := new(mocks.MockRecipeRepository)
	repo.On("UpdateRecipe", ctx, int64(5), mock.MatchedBy(func(p *model.RecipePayload) bool {
		return p.Title == "Roast Tomato Soup" && p.AuthorUsername == "chef"
	})).Return(int64(5), nil)

	res, err := newCoordinator(repo, "chef").Submit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, form.ModeEdit, res.Mode)
	assert.Equal(t, int64(5), res.RecipeID)
	assert.Equal(t, "Recipe updated!", res.Message)
	repo.AssertExpectations(t)
}

func TestSubmit_InvalidFormMakesNoCall(t *testing.T) {
	s := newCreateSession(t)
	require.NoError(t, s.SetField(form.StepBasics, form.FieldTitle, "abc"))
	repo := new(mocks.MockRecipeRepository)

	res, err := newCoordinator(repo, "chef").Submit(context.Background(), s)
	assert.Nil(t, res)
	se := submissionError(t, err)
	assert.Equal(t, form.KindInvalid, se.Kind)
	assert.ErrorIs(t, err, form.ErrFormInvalid)

	title, _ := s.Field(form.StepBasics, form.FieldTitle)
	assert.True(t, title.Touched)
	repo.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything)
}

func TestSubmit_Unauthenticated(t *testing.T) {
	s := newCreateSession(t)
	fillTomatoSoup(t, s)
	repo := new(mocks.MockRecipeRepository)

	_, err := newCoordinator(repo, "").Submit(context.Background(), s)
	se := submissionError(t, err)
	assert.Equal(t, form.KindUnauthenticated, se.Kind)
	repo.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything)
}

func TestSubmit_RemoteFailure(t *testing.T) {
	ctx := context.Background()
	s := newCreateSession(t)
	fillTomatoSoup(t, s)
	before := s.Snapshot()

	repo := new(mocks.MockRecipeRepository)
	repo.On("CreateRecipe", ctx, mock.Anything).Return(int64(0), statusErr{http.StatusInternalServerError}).Once()

	_, err := newCoordinator(repo, "chef").Submit(ctx, s)
	se := submissionError(t, err)
	assert.Equal(t, form.KindRemote, se.Kind)
	assert.Equal(t, "Failed to save the recipe.", se.Message)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, before, s.Snapshot(), "a failed submit leaves the draft alone")
	repo.AssertNumberOfCalls(t, "CreateRecipe", 1)
}

func TestSubmit_RemoteUpdateFailure(t *testing.T) {
	ctx := context.Background()
	s, err := form.New(form.ModeEdit, &model.RecipeDraft{
		ID:           5,
		Title:        "Tomato Soup",
		ImageURL:     "https://x.com/a.png",
		Category:     "SOUP",
		Difficulty:   2,
		CookingTime:  20,
		Ingredients:  []model.IngredientDraft{{Name: "Tomato", Quantity: 4, Unit: model.UnitPiece}},
		Instructions: "Simmer the tomatoes.",
	})
	require.NoError(t, err)
	repo := new(mocks.MockRecipeRepository)
	repo.On("UpdateRecipe", ctx, int64(5), mock.Anything).Return(int64(0), errors.New("dial tcp: refused"))

	_, err = newCoordinator(repo, "chef").Submit(ctx, s)
	se := submissionError(t, err)
	assert.Equal(t, "Failed to update the recipe.", se.Message)
	assert.Zero(t, se.Status)
}

func TestSubmit_CommitsValidPendingEdit(t *testing.T) {
	ctx := context.Background()
	s := newCreateSession(t)
	fillTomatoSoup(t, s)
	ed := s.Ingredients()
	require.NoError(t, ed.Edit(0))
	require.NoError(t, ed.SetScratch(form.FieldQuantity, "6"))

	repo := new(mocks.MockRecipeRepository)
	repo.On("CreateRecipe", ctx, mock.MatchedBy(func(p *model.RecipePayload) bool {
		return len(p.Ingredients) == 1 && p.Ingredients[0].Quantity == 6
	})).Return(int64(1), nil)

	_, err := newCoordinator(repo, "chef").Submit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, form.EditorIdle, ed.State())
	repo.AssertExpectations(t)
}

func TestSubmit_DiscardsInvalidPendingEdit(t *testing.T) {
	ctx := context.Background()
	s := newCreateSession(t)
	fillTomatoSoup(t, s)
	ed := s.Ingredients()
	require.NoError(t, ed.Edit(0))
	require.NoError(t, ed.SetScratch(form.FieldQuantity, "0"))

	repo := new(mocks.MockRecipeRepository)
	repo.On("CreateRecipe", ctx, mock.MatchedBy(func(p *model.RecipePayload) bool {
		return p.Ingredients[0].Quantity == 4
	})).Return(int64(1), nil)

	_, err := newCoordinator(repo, "chef").Submit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, form.EditorIdle, ed.State())
	assert.Equal(t, 4.0, ed.Items()[0].Quantity)
	repo.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockRecipeRepository)
	repo.On("DeleteRecipe", ctx, int64(8)).Return(nil).Once()
	repo.On("DeleteRecipe", ctx, int64(9)).Return(statusErr{http.StatusNotFound}).Once()
	c := newCoordinator(repo, "chef")

	res, err := c.Delete(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, "Recipe deleted.", res.Message)

	_, err = c.Delete(ctx, 9)
	se := submissionError(t, err)
	assert.Equal(t, form.KindRemote, se.Kind)
	assert.Equal(t, http.StatusNotFound, se.Status)

	_, err = newCoordinator(repo, "").Delete(ctx, 8)
	assert.Equal(t, form.KindUnauthenticated, submissionError(t, err).Kind)
}

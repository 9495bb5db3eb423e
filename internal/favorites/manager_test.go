package favorites_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gourmich/recipeform/internal/favorites"
	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/testhelpers"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Favorites(ctx context.Context) ([]model.Favorite, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Favorite), args.Error(1)
}

func (m *mockAPI) ToggleFavorite(ctx context.Context, recipeID int64) (bool, error) {
	args := m.Called(ctx, recipeID)
	return args.Bool(0), args.Error(1)
}

type loggedIn bool

func (l loggedIn) IsLoggedIn(context.Context) bool { return bool(l) }

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	api.On("Favorites", ctx).Return([]model.Favorite{{RecipeID: 2}, {RecipeID: 9}}, nil)

	m := favorites.NewManager(api, loggedIn(true), testhelpers.DiscardLogger())
	m.Initialize(ctx, []int64{1, 2, 3})

	assert.False(t, m.Status(1))
	assert.True(t, m.Status(2))
	assert.False(t, m.Status(3))
	assert.False(t, m.Status(9), "favorites not on screen are not cached")
}

func TestInitialize_SignedOutOrFailing(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	api.On("Favorites", ctx).Return(nil, errors.New("boom"))

	m := favorites.NewManager(api, loggedIn(true), testhelpers.DiscardLogger())
	m.Initialize(ctx, []int64{1})
	assert.False(t, m.Status(1))

	out := favorites.NewManager(new(mockAPI), loggedIn(false), testhelpers.DiscardLogger())
	out.Initialize(ctx, []int64{1})
	assert.False(t, out.Status(1))
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	api.On("ToggleFavorite", ctx, int64(4)).Return(true, nil).Once()
	api.On("ToggleFavorite", ctx, int64(4)).Return(false, nil).Once()
	m := favorites.NewManager(api, loggedIn(true), testhelpers.DiscardLogger())

	on, err := m.Toggle(ctx, 4)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, m.Status(4))
	assert.Equal(t, "Added to favorites", favorites.Message(on))

	on, err = m.Toggle(ctx, 4)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, m.Status(4))
}

func TestToggle_Errors(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	api.On("ToggleFavorite", ctx, int64(4)).Return(false, errors.New("server error"))

	_, err := favorites.NewManager(api, loggedIn(false), nil).Toggle(ctx, 4)
	assert.ErrorIs(t, err, favorites.ErrNotAuthenticated)
	api.AssertNotCalled(t, "ToggleFavorite", mock.Anything, mock.Anything)

	_, err = favorites.NewManager(api, loggedIn(true), testhelpers.DiscardLogger()).Toggle(ctx, 4)
	assert.Error(t, err)
}

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/testhelpers"
)

type fakeTokens struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (f *fakeTokens) Token(context.Context) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.token != ""
}

func (f *fakeTokens) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared++
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithHTTPClient(server.Client()), WithLogger(testhelpers.DiscardLogger())}, opts...)
	c, err := New(server.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)
	_, err = New("://nope")
	assert.Error(t, err)
}

func TestIsPublic(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/api/recipes", true},
		{http.MethodGet, "/api/recipes/latest", true},
		{http.MethodGet, "/api/recipes/by-id/4", true},
		{http.MethodPost, "/api/recipes", false},
		{http.MethodPut, "/api/recipes/by-id/4", false},
		{http.MethodDelete, "/api/recipes/by-id/4", false},
		{http.MethodPost, "/api/auth/login", true},
		{http.MethodGet, "/api/auth/login", false},
		{http.MethodGet, "/api/auth/check-email", true},
		{http.MethodGet, "/api/favorites", false},
		{http.MethodGet, "/api/categories", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isPublic(tt.method, tt.path), "%s %s", tt.method, tt.path)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"bad request", http.StatusBadRequest, ErrBadRequest},
		{"conflict", http.StatusConflict, ErrConflict},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusBadGateway, ErrServer},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := c.FetchRecipe(context.Background(), 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "fetchRecipe", apiErr.Op)
			assert.Equal(t, tt.statusCode, apiErr.HTTPStatus())
		})
	}
}

func TestClient_AttachesTokenOnProtectedRoutes(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]string{}
	tokens := &fakeTokens{token: "abc"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.Method+" "+r.URL.Path] = r.Header.Get("Authorization")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/recipes":
			if r.Method == http.MethodPost {
				w.Write([]byte(`{"id": 12}`))
				return
			}
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`[]`))
		}
	}, WithTokenSource(tokens))
	ctx := context.Background()

	_, err := c.ListRecipes(ctx)
	require.NoError(t, err)
	id, err := c.CreateRecipe(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	_, err = c.Favorites(ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, seen["GET /api/recipes"])
	assert.Equal(t, "Bearer abc", seen["POST /api/recipes"])
	assert.Equal(t, "Bearer abc", seen["GET /api/favorites"])
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	tokens := &fakeTokens{token: "expired"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithTokenSource(tokens))
	ctx := context.Background()

	_, err := c.Login(ctx, model.Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, tokens.cleared, "a failed login leaves the session alone")

	_, err = c.Favorites(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, tokens.cleared)
}

func TestClient_ToggleFavoriteResponses(t *testing.T) {
	bodies := map[string]string{
		"7": `{"id":1,"recipeId":7,"title":"Soup"}`,
		"8": "Unfav recipe",
		"9": "<html>",
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bodies[r.URL.Query().Get("recipeId")]))
	})
	ctx := context.Background()

	on, err := c.ToggleFavorite(ctx, 7)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = c.ToggleFavorite(ctx, 8)
	require.NoError(t, err)
	assert.False(t, on)

	_, err = c.ToggleFavorite(ctx, 9)
	assert.Error(t, err)
}

func TestClient_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":`))
	})
	_, err := c.FetchRecipe(context.Background(), 1)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "decode response")
}

func TestClient_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, WithRateLimit(1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListRecipes(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// Package favorites tracks which listed recipes the signed-in user has bookmarked.
package favorites

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gourmich/recipeform/internal/model"
)

var ErrNotAuthenticated = errors.New("favorites: not signed in")

// API is the remote favorites endpoint.
type API interface {
	Favorites(ctx context.Context) ([]model.Favorite, error)
	ToggleFavorite(ctx context.Context, recipeID int64) (bool, error)
}

// AuthChecker reports whether a user is signed in.
type AuthChecker interface {
	IsLoggedIn(ctx context.Context) bool
}

// Manager caches the favorite flag of the recipes on screen.
type Manager struct {
	api  API
	auth AuthChecker
	log  *slog.Logger

	mu     sync.RWMutex
	status map[int64]bool
}

// NewManager returns a manager with no known favorites.
func NewManager(api API, auth AuthChecker, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{api: api, auth: auth, log: log, status: make(map[int64]bool)}
}

// Initialize sets the flag of every id in recipeIDs. Signed-out users and
// failed lookups see every recipe as not favorite.
func (m *Manager) Initialize(ctx context.Context, recipeIDs []int64) {
	favSet := make(map[int64]bool)
	if m.auth.IsLoggedIn(ctx) {
		favs, err := m.api.Favorites(ctx)
		if err != nil {
			m.log.Warn("loading favorites failed", "error", err)
		}
		for _, f := range favs {
			favSet[f.RecipeID] = true
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range recipeIDs {
		m.status[id] = favSet[id]
	}
}

// Status returns the cached flag of recipeID; unknown recipes are not favorites.
func (m *Manager) Status(recipeID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status[recipeID]
}

// Toggle flips the flag of recipeID on the server and caches the result.
func (m *Manager) Toggle(ctx context.Context, recipeID int64) (bool, error) {
	if !m.auth.IsLoggedIn(ctx) {
		return false, ErrNotAuthenticated
	}
	on, err := m.api.ToggleFavorite(ctx, recipeID)
	if err != nil {
		m.log.Error("toggling favorite failed", "recipe_id", recipeID, "error", err)
		return m.Status(recipeID), err
	}
	m.mu.Lock()
	m.status[recipeID] = on
	m.mu.Unlock()
	return on, nil
}

// Message returns the notice shown after a toggle.
func Message(on bool) string {
	if on {
		return "Added to favorites"
	}
	return "Removed from favorites"
}

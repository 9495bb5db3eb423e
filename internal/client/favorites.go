package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gourmich/recipeform/internal/model"
)

// Favorites returns the signed-in user's favorites.
func (c *Client) Favorites(ctx context.Context) ([]model.Favorite, error) {
	var out []model.Favorite
	err := c.doJSON(ctx, request{op: "favorites", method: http.MethodGet, path: "/api/favorites"}, &out)
	return out, err
}

// ToggleFavorite flips the favorite flag of recipeID and reports the new state.
func (c *Client) ToggleFavorite(ctx context.Context, recipeID int64) (bool, error) {
	data, err := c.do(ctx, request{
		op:     "toggleFavorite",
		method: http.MethodPost,
		path:   "/api/favorites/toggle",
		query:  url.Values{"recipeId": {strconv.FormatInt(recipeID, 10)}},
	})
	if err != nil {
		return false, err
	}
	if string(bytes.TrimSpace(data)) == model.UnfavoriteResponse {
		return false, nil
	}
	var fav model.Favorite
	if err := json.Unmarshal(data, &fav); err != nil {
		return false, wrapError("toggleFavorite", 0, fmt.Errorf("decode response: %w", err))
	}
	return true, nil
}

// IsFavorite reports whether recipeID is among the user's favorites.
func (c *Client) IsFavorite(ctx context.Context, recipeID int64) (bool, error) {
	var out bool
	err := c.doJSON(ctx, request{
		op:     "isFavorite",
		method: http.MethodGet,
		path:   "/api/favorites/is-favorite/" + strconv.FormatInt(recipeID, 10),
	}, &out)
	return out, err
}

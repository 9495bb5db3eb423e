package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gourmich/recipeform/internal/model"
)

func recipePath(id int64) string {
	return "/api/recipes/by-id/" + strconv.FormatInt(id, 10)
}

// ListRecipes returns every recipe in the catalog.
func (c *Client) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	var out []model.Recipe
	err := c.doJSON(ctx, request{op: "listRecipes", method: http.MethodGet, path: "/api/recipes"}, &out)
	return out, err
}

// LatestRecipes returns the n most recently added recipes.
func (c *Client) LatestRecipes(ctx context.Context, n int) ([]model.Recipe, error) {
	var out []model.Recipe
	err := c.doJSON(ctx, request{
		op:     "latestRecipes",
		method: http.MethodGet,
		path:   "/api/recipes/latest",
		query:  url.Values{"n": {strconv.Itoa(n)}},
	}, &out)
	return out, err
}

// FetchRecipe returns one recipe.
func (c *Client) FetchRecipe(ctx context.Context, id int64) (*model.Recipe, error) {
	var out model.Recipe
	if err := c.doJSON(ctx, request{op: "fetchRecipe", method: http.MethodGet, path: recipePath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRecipe stores a new recipe and returns its id.
func (c *Client) CreateRecipe(ctx context.Context, payload *model.RecipePayload) (int64, error) {
	var out model.Recipe
	err := c.doJSON(ctx, request{op: "createRecipe", method: http.MethodPost, path: "/api/recipes", body: payload}, &out)
	return out.ID, err
}

// UpdateRecipe replaces recipe id and returns the id the server reports.
func (c *Client) UpdateRecipe(ctx context.Context, id int64, payload *model.RecipePayload) (int64, error) {
	var out model.Recipe
	err := c.doJSON(ctx, request{op: "updateRecipe", method: http.MethodPut, path: recipePath(id), body: payload}, &out)
	if err != nil {
		return 0, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return out.ID, nil
}

// DeleteRecipe removes recipe id.
func (c *Client) DeleteRecipe(ctx context.Context, id int64) error {
	_, err := c.do(ctx, request{op: "deleteRecipe", method: http.MethodDelete, path: recipePath(id)})
	return err
}

// ListCategories returns the category codes the catalog accepts.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.doJSON(ctx, request{op: "listCategories", method: http.MethodGet, path: "/api/categories"}, &out)
	return out, err
}

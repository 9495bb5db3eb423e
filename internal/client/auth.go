package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gourmich/recipeform/internal/model"
)

var errEmptyToken = errors.New("login response carried no token")

type tokenResponse struct {
	Token string `json:"token"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (string, error) {
	var out tokenResponse
	if err := c.doJSON(ctx, request{op: "login", method: http.MethodPost, path: "/api/auth/login", body: creds}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", wrapError("login", 0, errEmptyToken)
	}
	return out.Token, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg model.Registration) error {
	_, err := c.do(ctx, request{op: "register", method: http.MethodPost, path: "/api/auth/register", body: reg})
	return err
}

// UsernameExists reports whether username is already registered.
func (c *Client) UsernameExists(ctx context.Context, username string) (bool, error) {
	return c.exists(ctx, "checkUsername", "/api/auth/check-username", url.Values{"username": {username}})
}

// EmailExists reports whether email is already registered.
func (c *Client) EmailExists(ctx context.Context, email string) (bool, error) {
	return c.exists(ctx, "checkEmail", "/api/auth/check-email", url.Values{"email": {email}})
}

func (c *Client) exists(ctx context.Context, op, path string, q url.Values) (bool, error) {
	var out existsResponse
	err := c.doJSON(ctx, request{op: op, method: http.MethodGet, path: path, query: q}, &out)
	return out.Exists, err
}

package form

import (
	"context"

	"github.com/gourmich/recipeform/internal/model"
)

// RecipeFetcher loads a stored recipe for editing.
type RecipeFetcher interface {
	FetchRecipe(ctx context.Context, id int64) (*model.Recipe, error)
}

// RecipeRepository is the remote recipe store.
type RecipeRepository interface {
	RecipeFetcher
	CreateRecipe(ctx context.Context, payload *model.RecipePayload) (int64, error)
	UpdateRecipe(ctx context.Context, id int64, payload *model.RecipePayload) (int64, error)
	DeleteRecipe(ctx context.Context, id int64) error
}

// Identity reports who is signed in.
type Identity interface {
	CurrentUsername(ctx context.Context) (string, bool)
}

// UniquenessChecker answers whether account identifiers are already registered.
type UniquenessChecker interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, reg model.Registration) error
}

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (string, error)
}

// SessionWriter persists a signed-in session.
type SessionWriter interface {
	Save(ctx context.Context, token, username string) error
}

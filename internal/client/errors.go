package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog API operations.
var (
	ErrNotFound     = errors.New("api: not found")
	ErrUnauthorized = errors.New("api: unauthorized")
	ErrBadRequest   = errors.New("api: bad request")
	ErrConflict     = errors.New("api: conflict")
	ErrRateLimited  = errors.New("api: rate limited by server")
	ErrServer       = errors.New("api: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // Operation: "createRecipe", "login", ...
	Status int    // HTTP status, 0 when the request never completed
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api %s [%d]: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("api %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the response status of the failed call.
func (e *Error) HTTPStatus() int {
	return e.Status
}

func wrapError(op string, status int, err error) error {
	return &Error{Op: op, Status: status, Err: err}
}

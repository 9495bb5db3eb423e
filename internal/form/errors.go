package form

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField      = errors.New("unknown field")
	ErrMissingRecipeID   = errors.New("edit mode requires a recipe id")
	ErrIngredientIndex   = errors.New("ingredient index out of range")
	ErrRecipeUnavailable = errors.New("recipe unavailable")
	ErrInvalidMode       = errors.New("invalid form mode")
	ErrFormInvalid       = errors.New("form is invalid")
)

// ErrorKind classifies a failed submission.
type ErrorKind int

const (
	// KindInvalid means the form did not pass validation and nothing was sent.
	KindInvalid ErrorKind = iota
	// KindUnauthenticated means no user is signed in.
	KindUnauthenticated
	// KindRemote means the API rejected the request or could not be reached.
	KindRemote
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// SubmissionError is returned by every failed submit. Message is safe to show to the user.
type SubmissionError struct {
	Kind    ErrorKind
	Message string
	// Status is the HTTP status of a remote failure, or 0 when unknown.
	Status int
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// statusCoder is implemented by transport errors that carry an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

func statusOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus()
	}
	return 0
}

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericErrorMessage is shown when the backend gives no detail.
const GenericErrorMessage = "Something went wrong"

var (
	// ErrNotLoggedIn is returned before any request when no token is stored.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrUnauthorized matches an APIError with status 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidFormat is returned when a response has an unexpected shape.
	ErrInvalidFormat = errors.New("invalid format")
)

// ValidationError reports bad input caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// APIError is a non-success response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

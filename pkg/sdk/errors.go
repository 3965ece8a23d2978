package estaterec

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/estaterec/internal/domain"
)

// Sentinel errors matched by APIError via errors.Is.
var (
	ErrUnauthorized     = domain.ErrUnauthenticated
	ErrForbidden        = domain.ErrForbidden
	ErrNotFound         = domain.ErrNotFound
	ErrPayloadTooLarge  = domain.ErrPayloadTooLarge
	ErrInvalidPassword  = domain.ErrInvalidPassword
	ErrRateLimited      = errors.New("rate limited")
	ErrServerError      = errors.New("server error")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("estaterec: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// Is maps the HTTP status onto the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrPayloadTooLarge:
		return e.Status == http.StatusRequestEntityTooLarge
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrInvalidArguments:
		return e.Status == http.StatusBadRequest
	case ErrServerError:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

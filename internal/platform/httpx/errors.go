// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/tidelist/tidelist/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Not-found and not-owned are indistinguishable on the wire so one user
// cannot probe for the existence of another user's resources.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", "todo not found")
	case errors.Is(err, shared.ErrDuplicateEmail):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "incorrect credentials")
	case errors.Is(err, shared.ErrInvalidToken):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or missing token")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

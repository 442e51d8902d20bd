package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"geoMaster/internal/logging"
	"geoMaster/models"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug().Err(err).Msg("write response")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", models.ErrValidation)
	}
	return validateRequest(v)
}

// classify maps a domain error to its status and code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, models.ErrDuplicateUsername):
		return http.StatusBadRequest, "DUPLICATE_USERNAME"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, "UNAUTHENTICATED"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, models.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func publicMessage(status int, err error) string {
	switch status {
	case http.StatusInternalServerError:
		return "internal error"
	case http.StatusGatewayTimeout:
		return models.ErrTimeout.Error()
	default:
		return err.Error()
	}
}

// writeError logs server-side failures with their real cause and sends the
// caller only the public message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, status, APIError{Error: publicMessage(status, err), Code: code})
}

var (
	errNothingToUpdate = fmt.Errorf("%w: name or userColor is required", models.ErrValidation)
	errBadLimit        = fmt.Errorf("%w: limit must be between 1 and 1000", models.ErrValidation)
	errBadOffset       = fmt.Errorf("%w: offset must be a non-negative integer", models.ErrValidation)
	errNotMeasured     = fmt.Errorf("%w: run no-index and with-index first", models.ErrValidation)
)

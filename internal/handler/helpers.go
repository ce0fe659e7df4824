package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"imagevault/internal/domain"
	"imagevault/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Unexpected errors are
// logged with the request and answered with a generic 500 body.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		httputil.RespondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, "invalid request")
	case errors.As(err, &notFoundErr):
		httputil.RespondError(w, http.StatusNotFound, notFoundErr.Message)
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Message, map[string]interface{}{
			"resourceType": conflictErr.ResourceType,
			"resourceId":   conflictErr.ResourceID,
		})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, "an item with this name already exists in this location")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	default:
		logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method,
			"user_id", httputil.GetUserID(r),
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireField rejects a request whose identifier field is missing
func requireField(value, name string) error {
	if value == "" {
		return domain.NewValidationError(name + " is required")
	}
	return nil
}

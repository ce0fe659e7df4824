package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey contextKey = "userID"
)

// WithUserID returns a copy of r whose context carries the verified user ID
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// UserIDFromContext returns the verified user ID, or "" when the request
// never passed the auth middleware.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// GetUserID retrieves the user ID stored on the request
func GetUserID(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

package auth

import (
	"log/slog"

	"imagevault/internal/domain/models"
)

// TokenVerifier verifies bearer tokens issued by the external credential service.
// Keeping it behind an interface lets the middleware stay agnostic to the
// signing scheme.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}

// NewTokenVerifier picks the JWKS verifier when jwksURL is set and falls back
// to the shared-secret verifier otherwise.
func NewTokenVerifier(jwksURL, secret string, logger *slog.Logger) (TokenVerifier, error) {
	if jwksURL != "" {
		return NewJWKSVerifier(jwksURL, logger)
	}
	return NewHMACVerifier(secret, logger)
}

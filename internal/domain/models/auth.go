package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the bearer token payload issued by the credential service.
// Tokens carry the user id in the "id" claim; identity providers that
// follow the registered claims put it in "sub" instead.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	UserID               string `json:"id,omitempty"`
	Email                string `json:"email,omitempty"`
	Role                 string `json:"role,omitempty"`
}

// GetUserID returns the user ID carried by the token.
func (c *Claims) GetUserID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"imagevault/internal/domain"
	"imagevault/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-entropy"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestHMACVerifier(t *testing.T) {
	v, err := NewHMACVerifier(testSecret, discardLogger())
	require.NoError(t, err)

	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		token   string
		wantID  string
		wantErr bool
	}{
		{
			name: "id claim",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), &models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
				UserID:           "user-1",
			}),
			wantID: "user-1",
		},
		{
			name: "falls back to sub",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), &models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-2", ExpiresAt: future},
			}),
			wantID: "user-2",
		},
		{
			name: "expired",
			token: sign(t, jwt.SigningMethodHS256, []byte(testSecret), &models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: past},
				UserID:           "user-1",
			}),
			wantErr: true,
		},
		{
			name: "wrong secret",
			token: sign(t, jwt.SigningMethodHS256, []byte("another-secret"), &models.Claims{
				UserID: "user-1",
			}),
			wantErr: true,
		},
		{
			name: "wrong algorithm",
			token: sign(t, jwt.SigningMethodHS512, []byte(testSecret), &models.Claims{
				UserID: "user-1",
			}),
			wantErr: true,
		},
		{
			name:    "no user id",
			token:   sign(t, jwt.SigningMethodHS256, []byte(testSecret), &models.Claims{Email: "a@example.com"}),
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   "not.a.jwt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.VerifyToken(tt.token)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrUnauthorized), "got %v", err)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, claims.GetUserID())
		})
	}
}

func TestNewHMACVerifier_EmptySecret(t *testing.T) {
	_, err := NewHMACVerifier("", discardLogger())
	assert.Error(t, err)
}

func TestNewTokenVerifier_PicksHMACWithoutJWKS(t *testing.T) {
	v, err := NewTokenVerifier("", testSecret, discardLogger())
	require.NoError(t, err)
	defer v.Close()

	_, ok := v.(*HMACVerifier)
	assert.True(t, ok)
}

func TestNewJWKSVerifier_EmptyURL(t *testing.T) {
	_, err := NewJWKSVerifier("", discardLogger())
	assert.Error(t, err)
}

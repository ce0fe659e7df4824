package library

import (
	"errors"
	"strings"
	"testing"

	"imagevault/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "Trips", want: "Trips"},
		{name: "trims surrounding whitespace", input: "  Trips \t", want: "Trips"},
		{name: "keeps inner whitespace", input: "Summer  2024", want: "Summer  2024"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "exactly 100 characters", input: strings.Repeat("a", 100), want: strings.Repeat("a", 100)},
		{name: "101 characters", input: strings.Repeat("a", 101), wantErr: true},
		{name: "100 characters after trimming", input: "  " + strings.Repeat("a", 100) + "  ", want: strings.Repeat("a", 100)},
		{name: "multibyte counted as characters", input: strings.Repeat("é", 100), want: strings.Repeat("é", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeName(tt.input, 100)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrValidation), "expected validation error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeName_Messages(t *testing.T) {
	_, err := NormalizeName(" ", 100)
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())

	_, err = NormalizeName(strings.Repeat("x", 11), 10)
	require.Error(t, err)
	assert.Equal(t, "name must be at most 10 characters", err.Error())
}

func TestNormalizeID(t *testing.T) {
	assert.Nil(t, normalizeID(nil))
	assert.Nil(t, normalizeID(strPtr("")))
	assert.Nil(t, normalizeID(strPtr("  ")))
	require.NotNil(t, normalizeID(strPtr(" abc ")))
	assert.Equal(t, "abc", *normalizeID(strPtr(" abc ")))
}

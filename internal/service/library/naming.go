package library

import (
	"errors"
	"fmt"
	"strings"

	"imagevault/internal/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NormalizeName trims a folder or image name and checks it against the
// naming rules: non-empty and at most maxLen characters after trimming.
func NormalizeName(name string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(name)

	err := validation.Validate(trimmed,
		validation.Required.Error("name is required"),
		validation.RuneLength(1, maxLen).Error(fmt.Sprintf("name must be at most %d characters", maxLen)),
	)
	if err != nil {
		var ve validation.Error
		if errors.As(err, &ve) {
			return "", domain.NewValidationError(ve.Error())
		}
		return "", fmt.Errorf("validate name: %w", err)
	}

	return trimmed, nil
}

// normalizeID turns an empty optional identifier into nil (root).
func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

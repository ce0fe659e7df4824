package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"imagevault/internal/config"
	"imagevault/internal/domain"
)

// ParseJSON decodes a JSON request body into dest. Bodies larger than
// config.MaxJSONBodyBytes and malformed JSON are reported as ValidationErrors.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxJSONBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewValidationError("request body too large")
		}
		return domain.NewValidationError(fmt.Sprintf("invalid JSON: %v", err))
	}

	return nil
}

// OptionalFormValue returns a pointer to the trimmed form value, or nil when
// the field is absent or blank.
func OptionalFormValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}

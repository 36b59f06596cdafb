package services

import (
	"strings"

	"github.com/google/uuid"

	"moviecatalog/internal/apperr"
)

// parseID normalizes a record id. Anything that is not a UUID is rejected
// before it reaches the store.
func parseID(id, what string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", apperr.Validation("Invalid " + what + " id")
	}
	return parsed.String(), nil
}

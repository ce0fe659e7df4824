package services

import (
	"context"

	"imagevault/internal/domain/models"
)

// TreeService defines operations for building folder trees
type TreeService interface {
	// GetTree builds and returns the nested folder/image tree of a user
	GetTree(ctx context.Context, userID string) (*models.Tree, error)
}

package repositories

import (
	"context"

	"imagevault/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Every method is scoped to a single owning user.
type FolderRepository interface {
	// Create persists a new folder and assigns its ID
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder owned by userID
	GetByID(ctx context.Context, id, userID string) (*models.Folder, error)

	// FindByName returns the sibling with an exactly matching name, or nil
	FindByName(ctx context.Context, userID string, parentID *string, name string) (*models.Folder, error)

	// ListChildren lists immediate child folders, newest first
	ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Folder, error)

	// ListAllByUser retrieves every folder of a user (flat list, oldest first)
	ListAllByUser(ctx context.Context, userID string) ([]models.Folder, error)

	// Update updates name, parent and updated_at
	Update(ctx context.Context, folder *models.Folder) error

	// DeleteMany deletes the given folders and returns how many were removed
	DeleteMany(ctx context.Context, userID string, ids []string) (int, error)
}

package repositories

import (
	"context"

	"imagevault/internal/domain/models"
)

// ImageRepository defines data access operations for images
type ImageRepository interface {
	// Create persists a new image record and assigns its ID
	Create(ctx context.Context, image *models.Image) error

	// GetByID retrieves an image owned by userID
	GetByID(ctx context.Context, id, userID string) (*models.Image, error)

	// FindByName returns the sibling image with an exactly matching name, or nil
	FindByName(ctx context.Context, userID string, folderID *string, name string) (*models.Image, error)

	// ListByFolder lists images directly inside a folder (nil = root), newest first
	ListByFolder(ctx context.Context, userID string, folderID *string) ([]models.Image, error)

	// ListByFolders lists images contained in any of the given folders
	ListByFolders(ctx context.Context, userID string, folderIDs []string) ([]models.Image, error)

	// ListAllByUser retrieves every image of a user
	ListAllByUser(ctx context.Context, userID string) ([]models.Image, error)

	// Update updates name, folder and updated_at
	Update(ctx context.Context, image *models.Image) error

	// Delete deletes a single image
	Delete(ctx context.Context, id, userID string) error

	// DeleteMany deletes the given images and returns how many were removed
	DeleteMany(ctx context.Context, userID string, ids []string) (int, error)

	// Search performs a case-insensitive substring match on image names, newest first
	Search(ctx context.Context, userID, query string) ([]models.Image, error)
}

package services

import (
	"context"

	"imagevault/internal/domain/models"
)

// ImageService handles image business logic
type ImageService interface {
	// UploadImage stores the binary payload and records the image
	UploadImage(ctx context.Context, userID string, req *UploadImageRequest) (*models.Image, error)

	// DeleteImage removes the blob (best effort) and the image record
	DeleteImage(ctx context.Context, userID, imageID string) error

	// RenameImage renames an image within its current folder
	RenameImage(ctx context.Context, userID string, req *RenameImageRequest) (*models.Image, error)

	// SearchImages finds images whose name contains query, ignoring case
	SearchImages(ctx context.Context, userID, query string) ([]models.Image, error)
}

// UploadImageRequest carries an already-read multipart upload
type UploadImageRequest struct {
	Name        string
	FolderID    *string
	Filename    string
	ContentType string
	Data        []byte
}

// RenameImageRequest represents an image rename request
type RenameImageRequest struct {
	ImageID string `json:"imageId"`
	NewName string `json:"newName"`
}

package services

import (
	"context"

	"imagevault/internal/domain/models"
)

// BlobStore is the binary object store images are uploaded to.
type BlobStore interface {
	// Upload stores the payload and returns its identifier, URL and metadata
	Upload(ctx context.Context, blob *BlobUpload) (*models.ExternalRef, error)

	// Delete removes a previously uploaded object by its public ID
	Delete(ctx context.Context, publicID string) error
}

// BlobUpload is a single object to store
type BlobUpload struct {
	Namespace   string // e.g. "image-manager/<user id>"
	Filename    string
	ContentType string
	Data        []byte
}

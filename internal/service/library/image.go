package library

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"imagevault/internal/config"
	"imagevault/internal/domain"
	"imagevault/internal/domain/models"
	"imagevault/internal/domain/repositories"
	"imagevault/internal/domain/services"
)

type imageService struct {
	folderRepo repositories.FolderRepository
	imageRepo  repositories.ImageRepository
	blobs      services.BlobStore
	namespace  string
	logger     *slog.Logger
	now        func() time.Time
}

// NewImageService creates a new image service. Uploaded blobs are stored
// under "<namespace>/<user id>".
func NewImageService(
	folderRepo repositories.FolderRepository,
	imageRepo repositories.ImageRepository,
	blobs services.BlobStore,
	namespace string,
	logger *slog.Logger,
) services.ImageService {
	return &imageService{
		folderRepo: folderRepo,
		imageRepo:  imageRepo,
		blobs:      blobs,
		namespace:  namespace,
		logger:     logger,
		now:        time.Now,
	}
}

// UploadImage stores the payload in the blob store and records the image.
// Name and folder checks run before the upload so a rejected request never
// leaves an orphaned blob behind.
func (s *imageService) UploadImage(ctx context.Context, userID string, req *services.UploadImageRequest) (*models.Image, error) {
	name, err := NormalizeName(req.Name, config.MaxImageNameLength)
	if err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, domain.NewValidationError("image is required")
	}
	folderID := normalizeID(req.FolderID)

	if folderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *folderID, userID); err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
	}

	if err := s.checkImageName(ctx, userID, folderID, name, ""); err != nil {
		return nil, err
	}

	ref, err := s.blobs.Upload(ctx, &services.BlobUpload{
		Namespace:   path.Join(s.namespace, userID),
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Data:        req.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	img := &models.Image{
		Name:        name,
		UserID:      userID,
		FolderID:    folderID,
		ExternalRef: *ref,
		Filename:    req.Filename,
		Type:        req.ContentType,
		CreatedAt:   s.now(),
	}

	if err := s.imageRepo.Create(ctx, img); err != nil {
		if delErr := s.blobs.Delete(ctx, ref.PublicID); delErr != nil {
			s.logger.Warn("failed to remove blob after image insert failed",
				"public_id", ref.PublicID,
				"error", delErr,
			)
		}
		return nil, err
	}

	s.logger.Info("image uploaded",
		"id", img.ID,
		"name", img.Name,
		"user_id", userID,
		"folder_id", img.FolderID,
		"bytes", img.ExternalRef.Bytes,
	)

	return img, nil
}

// DeleteImage removes the blob (best effort) and the image record
func (s *imageService) DeleteImage(ctx context.Context, userID, imageID string) error {
	img, err := s.imageRepo.GetByID(ctx, imageID, userID)
	if err != nil {
		return err
	}

	if img.ExternalRef.PublicID != "" {
		if err := s.blobs.Delete(ctx, img.ExternalRef.PublicID); err != nil {
			s.logger.Warn("failed to delete image blob",
				"image_id", img.ID,
				"public_id", img.ExternalRef.PublicID,
				"error", err,
			)
		}
	}

	if err := s.imageRepo.Delete(ctx, img.ID, userID); err != nil {
		return err
	}

	s.logger.Info("image deleted",
		"id", img.ID,
		"user_id", userID,
	)

	return nil
}

// RenameImage renames an image within its current folder
func (s *imageService) RenameImage(ctx context.Context, userID string, req *services.RenameImageRequest) (*models.Image, error) {
	img, err := s.imageRepo.GetByID(ctx, req.ImageID, userID)
	if err != nil {
		return nil, err
	}

	name, err := NormalizeName(req.NewName, config.MaxImageNameLength)
	if err != nil {
		return nil, err
	}

	if err := s.checkImageName(ctx, userID, img.FolderID, name, img.ID); err != nil {
		return nil, err
	}

	now := s.now()
	img.Name = name
	img.UpdatedAt = &now

	if err := s.imageRepo.Update(ctx, img); err != nil {
		return nil, err
	}

	s.logger.Info("image renamed",
		"id", img.ID,
		"name", img.Name,
		"user_id", userID,
	)

	return img, nil
}

// SearchImages finds images whose name contains query, ignoring case.
// A blank query matches nothing.
func (s *imageService) SearchImages(ctx context.Context, userID, query string) ([]models.Image, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Image{}, nil
	}

	images, err := s.imageRepo.Search(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("search images: %w", err)
	}
	if images == nil {
		images = []models.Image{}
	}
	return images, nil
}

func (s *imageService) checkImageName(ctx context.Context, userID string, folderID *string, name, selfID string) error {
	existing, err := s.imageRepo.FindByName(ctx, userID, folderID, name)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("an image named %q already exists in this folder", name),
			ResourceType: "image",
			ResourceID:   existing.ID,
		}
	}
	return nil
}

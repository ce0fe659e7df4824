package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"imagevault/internal/config"
	"imagevault/internal/domain"
	"imagevault/internal/domain/models"
	"imagevault/internal/domain/repositories"
	"imagevault/internal/domain/services"

	"golang.org/x/sync/errgroup"
)

type folderService struct {
	folderRepo      repositories.FolderRepository
	imageRepo       repositories.ImageRepository
	blobs           services.BlobStore
	blobConcurrency int
	logger          *slog.Logger
	now             func() time.Time
}

// NewFolderService creates the folder tree engine.
// blobConcurrency bounds parallel blob deletions during a cascading delete.
func NewFolderService(
	folderRepo repositories.FolderRepository,
	imageRepo repositories.ImageRepository,
	blobs services.BlobStore,
	blobConcurrency int,
	logger *slog.Logger,
) services.FolderService {
	if blobConcurrency < 1 {
		blobConcurrency = 1
	}
	return &folderService{
		folderRepo:      folderRepo,
		imageRepo:       imageRepo,
		blobs:           blobs,
		blobConcurrency: blobConcurrency,
		logger:          logger,
		now:             time.Now,
	}
}

// CreateFolder creates a new folder after checking the parent and sibling names
func (s *folderService) CreateFolder(ctx context.Context, userID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	name, err := NormalizeName(req.Name, config.MaxFolderNameLength)
	if err != nil {
		return nil, err
	}
	parentID := normalizeID(req.ParentID)

	if parentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *parentID, userID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	if err := s.checkFolderName(ctx, userID, parentID, name, ""); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		Name:      name,
		UserID:    userID,
		ParentID:  parentID,
		CreatedAt: s.now(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", userID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a folder owned by the user
func (s *folderService) GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, folderID, userID)
}

// ListContents lists the direct children of a folder, or the root level when folderID is nil.
// A non-root folder must belong to the caller; otherwise the listing is NotFound
// rather than an empty result.
func (s *folderService) ListContents(ctx context.Context, userID string, folderID *string) (*services.FolderContents, error) {
	folderID = normalizeID(folderID)

	var folder *models.Folder
	if folderID != nil {
		var err error
		folder, err = s.folderRepo.GetByID(ctx, *folderID, userID)
		if err != nil {
			return nil, err
		}
	}

	childFolders, err := s.folderRepo.ListChildren(ctx, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child folders: %w", err)
	}

	images, err := s.imageRepo.ListByFolder(ctx, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	if childFolders == nil {
		childFolders = []models.Folder{}
	}
	if images == nil {
		images = []models.Image{}
	}

	return &services.FolderContents{
		Folder:  folder,
		Folders: childFolders,
		Images:  images,
	}, nil
}

// RenameFolder renames a folder, keeping names unique within its current parent
func (s *folderService) RenameFolder(ctx context.Context, userID string, req *services.RenameFolderRequest) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, req.FolderID, userID)
	if err != nil {
		return nil, err
	}

	name, err := NormalizeName(req.NewName, config.MaxFolderNameLength)
	if err != nil {
		return nil, err
	}

	if err := s.checkFolderName(ctx, userID, folder.ParentID, name, folder.ID); err != nil {
		return nil, err
	}

	now := s.now()
	folder.Name = name
	folder.UpdatedAt = &now

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", userID,
	)

	return folder, nil
}

// MoveFolder moves a folder under a new parent (nil = root)
func (s *folderService) MoveFolder(ctx context.Context, userID string, req *services.MoveFolderRequest) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, req.FolderID, userID)
	if err != nil {
		return nil, err
	}

	parentID := normalizeID(req.ParentID)
	if sameParent(folder.ParentID, parentID) {
		return folder, nil
	}

	if parentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *parentID, userID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
		if err := s.validateNoCircularReference(ctx, userID, folder.ID, *parentID); err != nil {
			return nil, err
		}
	}

	if err := s.checkFolderName(ctx, userID, parentID, folder.Name, folder.ID); err != nil {
		return nil, err
	}

	now := s.now()
	folder.ParentID = parentID
	folder.UpdatedAt = &now

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder moved",
		"id", folder.ID,
		"parent_id", folder.ParentID,
		"user_id", userID,
	)

	return folder, nil
}

// GetFolderPath walks parent pointers up to the root and returns the chain root first
func (s *folderService) GetFolderPath(ctx context.Context, userID, folderID string) ([]models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}

	path := []models.Folder{*folder}
	visited := map[string]bool{folder.ID: true}

	for current := folder; current.ParentID != nil; {
		if visited[*current.ParentID] {
			return nil, fmt.Errorf("folder %s: parent chain loops back to %s", folderID, *current.ParentID)
		}
		parent, err := s.folderRepo.GetByID(ctx, *current.ParentID, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve ancestor of %s: %w", current.ID, err)
		}
		visited[parent.ID] = true
		path = append(path, *parent)
		current = parent
	}

	// Reverse to root-first order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// DeleteFolder deletes a folder together with every descendant folder and
// every image inside that subtree. Blob deletions are best effort: a failed
// remote delete is logged and the local records are removed anyway. The
// sequence is not transactional.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) (*models.DeleteResult, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}

	folderIDs, err := s.collectSubtree(ctx, userID, folder.ID)
	if err != nil {
		return nil, err
	}

	images, err := s.imageRepo.ListByFolders(ctx, userID, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list images in subtree: %w", err)
	}

	failed := s.deleteBlobs(ctx, images)

	imageIDs := make([]string, 0, len(images))
	for _, img := range images {
		imageIDs = append(imageIDs, img.ID)
	}

	deletedImages, err := s.imageRepo.DeleteMany(ctx, userID, imageIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to delete images: %w", err)
	}

	deletedFolders, err := s.folderRepo.DeleteMany(ctx, userID, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to delete folders: %w", err)
	}

	s.logger.Info("folder deleted",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", userID,
		"deleted_folders", deletedFolders,
		"deleted_images", deletedImages,
		"failed_blob_deletes", failed,
	)

	return &models.DeleteResult{
		DeletedFolders: deletedFolders,
		DeletedImages:  deletedImages,
	}, nil
}

// collectSubtree returns rootID and the IDs of all its descendants using an
// explicit stack, so depth is bounded by memory rather than the call stack.
func (s *folderService) collectSubtree(ctx context.Context, userID, rootID string) ([]string, error) {
	visited := map[string]bool{rootID: true}
	ids := []string{rootID}
	stack := []string{rootID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := s.folderRepo.ListChildren(ctx, userID, &current)
		if err != nil {
			return nil, fmt.Errorf("failed to list children of %s: %w", current, err)
		}

		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			ids = append(ids, child.ID)
			stack = append(stack, child.ID)
		}
	}

	return ids, nil
}

// deleteBlobs removes the binary objects behind images with bounded
// parallelism and returns the number of failures.
func (s *folderService) deleteBlobs(ctx context.Context, images []models.Image) int {
	var (
		g      errgroup.Group
		failed = make(chan struct{}, len(images))
	)
	g.SetLimit(s.blobConcurrency)

	for _, img := range images {
		if img.ExternalRef.PublicID == "" {
			continue
		}
		g.Go(func() error {
			if err := s.blobs.Delete(ctx, img.ExternalRef.PublicID); err != nil {
				s.logger.Warn("failed to delete image blob",
					"image_id", img.ID,
					"public_id", img.ExternalRef.PublicID,
					"error", err,
				)
				failed <- struct{}{}
			}
			return nil
		})
	}

	_ = g.Wait() // workers never return errors
	close(failed)

	return len(failed)
}

// checkFolderName fails with a ConflictError when another folder (not selfID)
// under parentID already uses name.
func (s *folderService) checkFolderName(ctx context.Context, userID string, parentID *string, name, selfID string) error {
	existing, err := s.folderRepo.FindByName(ctx, userID, parentID, name)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}
	return nil
}

// validateNoCircularReference ensures moving folderID under newParentID won't create a cycle
func (s *folderService) validateNoCircularReference(ctx context.Context, userID, folderID, newParentID string) error {
	if folderID == newParentID {
		return domain.NewValidationError("cannot move folder into itself")
	}

	visited := map[string]bool{}
	currentID := newParentID
	for {
		if visited[currentID] {
			return fmt.Errorf("folder %s: parent chain loops back on itself", currentID)
		}
		visited[currentID] = true

		parent, err := s.folderRepo.GetByID(ctx, currentID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Ancestor vanished mid-walk (concurrent delete); nothing left to loop through
				return nil
			}
			return err
		}

		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == folderID {
			return domain.NewValidationError("cannot move folder into one of its own subfolders")
		}
		currentID = *parent.ParentID
	}
}

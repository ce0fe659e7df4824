package memory

import (
	"context"
	"fmt"
	"strings"

	"imagevault/internal/domain"
	"imagevault/internal/domain/models"
	"imagevault/internal/domain/repositories"

	"github.com/google/uuid"
)

// ImageRepository implements repositories.ImageRepository on a Store
type ImageRepository struct {
	store *Store
}

// NewImageRepository creates a new image repository
func NewImageRepository(store *Store) repositories.ImageRepository {
	return &ImageRepository{store: store}
}

// Create persists a new image record
func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.siblingLocked(image.UserID, image.FolderID, image.Name, "") != nil {
		return fmt.Errorf("image '%s': %w", image.Name, domain.ErrConflict)
	}
	if image.FolderID != nil {
		if f, ok := s.folders[*image.FolderID]; !ok || f.folder.UserID != image.UserID {
			return fmt.Errorf("folder %s: %w", *image.FolderID, domain.ErrNotFound)
		}
	}

	image.ID = uuid.NewString()
	s.images[image.ID] = &imageRecord{image: cloneImage(*image), seq: s.nextSeq()}
	return nil
}

// GetByID retrieves an image by ID
func (r *ImageRepository) GetByID(ctx context.Context, id, userID string) (*models.Image, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec := r.ownedLocked(id, userID)
	if rec == nil {
		return nil, domain.NewNotFoundError("image")
	}
	img := cloneImage(rec.image)
	return &img, nil
}

// FindByName returns the sibling image named name, or nil
func (r *ImageRepository) FindByName(ctx context.Context, userID string, folderID *string, name string) (*models.Image, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec := r.siblingLocked(userID, folderID, name, "")
	if rec == nil {
		return nil, nil
	}
	img := cloneImage(rec.image)
	return &img, nil
}

// ListByFolder lists images directly inside a folder, newest first
func (r *ImageRepository) ListByFolder(ctx context.Context, userID string, folderID *string) ([]models.Image, error) {
	return r.filter(userID, true, func(img *models.Image) bool {
		return sameRef(img.FolderID, folderID)
	}), nil
}

// ListByFolders lists images contained in any of the given folders
func (r *ImageRepository) ListByFolders(ctx context.Context, userID string, folderIDs []string) ([]models.Image, error) {
	set := make(map[string]struct{}, len(folderIDs))
	for _, id := range folderIDs {
		set[id] = struct{}{}
	}
	return r.filter(userID, true, func(img *models.Image) bool {
		if img.FolderID == nil {
			return false
		}
		_, ok := set[*img.FolderID]
		return ok
	}), nil
}

// ListAllByUser retrieves every image of a user, oldest first
func (r *ImageRepository) ListAllByUser(ctx context.Context, userID string) ([]models.Image, error) {
	return r.filter(userID, false, func(*models.Image) bool { return true }), nil
}

// Update updates name, folder and updated_at
func (r *ImageRepository) Update(ctx context.Context, image *models.Image) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := r.ownedLocked(image.ID, image.UserID)
	if rec == nil {
		return fmt.Errorf("image %s: %w", image.ID, domain.ErrNotFound)
	}
	if r.siblingLocked(image.UserID, image.FolderID, image.Name, image.ID) != nil {
		return fmt.Errorf("image '%s': %w", image.Name, domain.ErrConflict)
	}

	rec.image.Name = image.Name
	rec.image.FolderID = copyRef(image.FolderID)
	rec.image.UpdatedAt = copyTime(image.UpdatedAt)
	return nil
}

// Delete deletes a single image
func (r *ImageRepository) Delete(ctx context.Context, id, userID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ownedLocked(id, userID) == nil {
		return fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
	}
	delete(s.images, id)
	return nil
}

// DeleteMany deletes the given images and returns how many were removed
func (r *ImageRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for _, id := range ids {
		if r.ownedLocked(id, userID) != nil {
			delete(s.images, id)
			deleted++
		}
	}
	return deleted, nil
}

// Search performs a case-insensitive substring match on image names
func (r *ImageRepository) Search(ctx context.Context, userID, query string) ([]models.Image, error) {
	needle := strings.ToLower(query)
	return r.filter(userID, true, func(img *models.Image) bool {
		return strings.Contains(strings.ToLower(img.Name), needle)
	}), nil
}

func (r *ImageRepository) filter(userID string, newestFirst bool, keep func(*models.Image) bool) []models.Image {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var recs []*imageRecord
	for _, rec := range r.store.images {
		if rec.image.UserID == userID && keep(&rec.image) {
			recs = append(recs, rec)
		}
	}
	sortImageRecords(recs, newestFirst)

	out := make([]models.Image, 0, len(recs))
	for _, rec := range recs {
		out = append(out, cloneImage(rec.image))
	}
	return out
}

func (r *ImageRepository) ownedLocked(id, userID string) *imageRecord {
	rec, ok := r.store.images[id]
	if !ok || rec.image.UserID != userID {
		return nil
	}
	return rec
}

func (r *ImageRepository) siblingLocked(userID string, folderID *string, name, excludeID string) *imageRecord {
	for id, rec := range r.store.images {
		if id == excludeID {
			continue
		}
		if rec.image.UserID == userID && rec.image.Name == name && sameRef(rec.image.FolderID, folderID) {
			return rec
		}
	}
	return nil
}

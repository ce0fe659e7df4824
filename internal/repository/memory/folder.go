package memory

import (
	"context"
	"fmt"

	"imagevault/internal/domain"
	"imagevault/internal/domain/models"
	"imagevault/internal/domain/repositories"

	"github.com/google/uuid"
)

// FolderRepository implements repositories.FolderRepository on a Store
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(store *Store) repositories.FolderRepository {
	return &FolderRepository{store: store}
}

// Create creates a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.siblingLocked(folder.UserID, folder.ParentID, folder.Name, "") != nil {
		return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
	}
	if folder.ParentID != nil && r.ownedLocked(*folder.ParentID, folder.UserID) == nil {
		return fmt.Errorf("parent folder %s: %w", *folder.ParentID, domain.ErrNotFound)
	}

	folder.ID = uuid.NewString()
	s.folders[folder.ID] = &folderRecord{folder: cloneFolder(*folder), seq: s.nextSeq()}
	return nil
}

// GetByID retrieves a folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec := r.ownedLocked(id, userID)
	if rec == nil {
		return nil, domain.NewNotFoundError("folder")
	}
	f := cloneFolder(rec.folder)
	return &f, nil
}

// FindByName returns the sibling named name, or nil
func (r *FolderRepository) FindByName(ctx context.Context, userID string, parentID *string, name string) (*models.Folder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec := r.siblingLocked(userID, parentID, name, "")
	if rec == nil {
		return nil, nil
	}
	f := cloneFolder(rec.folder)
	return &f, nil
}

// ListChildren lists immediate child folders, newest first
func (r *FolderRepository) ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Folder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var recs []*folderRecord
	for _, rec := range r.store.folders {
		if rec.folder.UserID == userID && sameRef(rec.folder.ParentID, parentID) {
			recs = append(recs, rec)
		}
	}
	sortFolderRecords(recs, true)
	return collectFolders(recs), nil
}

// ListAllByUser retrieves every folder of a user, oldest first
func (r *FolderRepository) ListAllByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var recs []*folderRecord
	for _, rec := range r.store.folders {
		if rec.folder.UserID == userID {
			recs = append(recs, rec)
		}
	}
	sortFolderRecords(recs, false)
	return collectFolders(recs), nil
}

// Update updates name, parent and updated_at
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := r.ownedLocked(folder.ID, folder.UserID)
	if rec == nil {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	if r.siblingLocked(folder.UserID, folder.ParentID, folder.Name, folder.ID) != nil {
		return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
	}

	rec.folder.Name = folder.Name
	rec.folder.ParentID = copyRef(folder.ParentID)
	rec.folder.UpdatedAt = copyTime(folder.UpdatedAt)
	return nil
}

// DeleteMany deletes the given folders and returns how many were removed
func (r *FolderRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for _, id := range ids {
		if r.ownedLocked(id, userID) != nil {
			delete(s.folders, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *FolderRepository) ownedLocked(id, userID string) *folderRecord {
	rec, ok := r.store.folders[id]
	if !ok || rec.folder.UserID != userID {
		return nil
	}
	return rec
}

func (r *FolderRepository) siblingLocked(userID string, parentID *string, name, excludeID string) *folderRecord {
	for id, rec := range r.store.folders {
		if id == excludeID {
			continue
		}
		if rec.folder.UserID == userID && rec.folder.Name == name && sameRef(rec.folder.ParentID, parentID) {
			return rec
		}
	}
	return nil
}

func collectFolders(recs []*folderRecord) []models.Folder {
	out := make([]models.Folder, 0, len(recs))
	for _, rec := range recs {
		out = append(out, cloneFolder(rec.folder))
	}
	return out
}

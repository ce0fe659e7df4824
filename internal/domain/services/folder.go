package services

import (
	"context"

	"imagevault/internal/domain/models"
)

// FolderService is the folder tree engine: it owns the tree invariants
// (sibling-unique names, same-owner parents) and cascading deletes.
type FolderService interface {
	// CreateFolder creates a new folder under req.ParentID (nil = root)
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder owned by userID
	GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error)

	// ListContents lists direct child folders and images (folderID nil = root)
	ListContents(ctx context.Context, userID string, folderID *string) (*FolderContents, error)

	// RenameFolder renames a folder within its current parent
	RenameFolder(ctx context.Context, userID string, req *RenameFolderRequest) (*models.Folder, error)

	// MoveFolder re-parents a folder (ParentID nil = root)
	MoveFolder(ctx context.Context, userID string, req *MoveFolderRequest) (*models.Folder, error)

	// GetFolderPath returns the ancestors of a folder, root first, ending with the folder itself
	GetFolderPath(ctx context.Context, userID, folderID string) ([]models.Folder, error)

	// DeleteFolder deletes a folder, its descendant folders and every image inside them
	DeleteFolder(ctx context.Context, userID, folderID string) (*models.DeleteResult, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"` // null for root folders
}

// RenameFolderRequest represents a folder rename request
type RenameFolderRequest struct {
	FolderID string `json:"folderId"`
	NewName  string `json:"newName"`
}

// MoveFolderRequest represents a folder move request
type MoveFolderRequest struct {
	FolderID string  `json:"folderId"`
	ParentID *string `json:"parentId"` // null moves the folder to the root
}

// FolderContents is a single directory listing
type FolderContents struct {
	Folder  *models.Folder  `json:"folder,omitempty"` // omitted for root
	Folders []models.Folder `json:"folders"`
	Images  []models.Image  `json:"images"`
}

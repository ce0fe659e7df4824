package models

import "time"

// Tree is the root of a user's nested folder/image tree
type Tree struct {
	Folders []*FolderTreeNode `json:"folders"`
	Images  []ImageTreeNode   `json:"images"`
}

// FolderTreeNode represents a folder in the tree with nested children
type FolderTreeNode struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	ParentID  *string           `json:"parentId"`
	CreatedAt time.Time         `json:"createdAt"`
	Folders   []*FolderTreeNode `json:"folders"` // Pointers for proper nesting
	Images    []ImageTreeNode   `json:"images"`
}

// ImageTreeNode represents an image leaf (no binary metadata beyond the URL)
type ImageTreeNode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FolderID  *string   `json:"folderId"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

package models

import (
	"time"
)

// Folder is a node in a user's folder tree.
type Folder struct {
	ID        string     `json:"id" db:"id" bson:"_id"`
	Name      string     `json:"name" db:"name" bson:"name"`
	UserID    string     `json:"userId" db:"user_id" bson:"userId"`
	ParentID  *string    `json:"parentId" db:"parent_id" bson:"parentId"` // nil = root level
	CreatedAt time.Time  `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at" bson:"updatedAt,omitempty"`
}

// IsRoot reports whether the folder sits at the root level.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// DeleteResult reports what a cascading folder delete removed.
type DeleteResult struct {
	DeletedFolders int `json:"deletedFolders"`
	DeletedImages  int `json:"deletedImages"`
}

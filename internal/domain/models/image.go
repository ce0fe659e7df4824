package models

import (
	"time"
)

// ExternalRef points at the binary object that backs an image.
type ExternalRef struct {
	PublicID string `json:"publicId" db:"public_id" bson:"publicId"`
	URL      string `json:"url" db:"url" bson:"url"`
	Width    int    `json:"width" db:"width" bson:"width"`
	Height   int    `json:"height" db:"height" bson:"height"`
	Format   string `json:"format" db:"format" bson:"format"`
	Bytes    int64  `json:"bytes" db:"bytes" bson:"bytes"`
}

type Image struct {
	ID          string      `json:"id" db:"id" bson:"_id"`
	Name        string      `json:"name" db:"name" bson:"name"`
	UserID      string      `json:"userId" db:"user_id" bson:"userId"`
	FolderID    *string     `json:"folderId" db:"folder_id" bson:"folderId"` // nil = root level
	ExternalRef ExternalRef `json:"externalRef" bson:"externalRef"`
	Filename    string      `json:"filename" db:"filename" bson:"filename"`
	Type        string      `json:"type" db:"content_type" bson:"type"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty" db:"updated_at" bson:"updatedAt,omitempty"`
}

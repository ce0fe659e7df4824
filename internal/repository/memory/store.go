// Package memory is an in-process entity store. It keeps the same ordering,
// ownership and uniqueness rules as the database stores and backs local
// development and tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"imagevault/internal/domain/models"
)

// Store holds folders and images for every user behind a single lock.
type Store struct {
	mu      sync.RWMutex
	seq     uint64
	folders map[string]*folderRecord
	images  map[string]*imageRecord
}

type folderRecord struct {
	folder models.Folder
	seq    uint64
}

type imageRecord struct {
	image models.Image
	seq   uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		folders: make(map[string]*folderRecord),
		images:  make(map[string]*imageRecord),
	}
}

// Close is a no-op; it lets the store share the lifecycle of the database stores.
func (s *Store) Close() error { return nil }

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyRef(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFolder(f models.Folder) models.Folder {
	f.ParentID = copyRef(f.ParentID)
	f.UpdatedAt = copyTime(f.UpdatedAt)
	return f
}

func cloneImage(img models.Image) models.Image {
	img.FolderID = copyRef(img.FolderID)
	img.UpdatedAt = copyTime(img.UpdatedAt)
	return img
}

// newest first; insertion order breaks ties
func sortFolderRecords(recs []*folderRecord, newestFirst bool) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.folder.CreatedAt.Equal(b.folder.CreatedAt) {
			if newestFirst {
				return a.folder.CreatedAt.After(b.folder.CreatedAt)
			}
			return a.folder.CreatedAt.Before(b.folder.CreatedAt)
		}
		if newestFirst {
			return a.seq > b.seq
		}
		return a.seq < b.seq
	})
}

func sortImageRecords(recs []*imageRecord, newestFirst bool) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.image.CreatedAt.Equal(b.image.CreatedAt) {
			if newestFirst {
				return a.image.CreatedAt.After(b.image.CreatedAt)
			}
			return a.image.CreatedAt.Before(b.image.CreatedAt)
		}
		if newestFirst {
			return a.seq > b.seq
		}
		return a.seq < b.seq
	})
}

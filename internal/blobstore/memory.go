package blobstore

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"imagevault/internal/domain"
	"imagevault/internal/domain/models"
	"imagevault/internal/domain/services"

	"github.com/google/uuid"
)

// MemoryStore keeps blobs in process. Used for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

// NewMemoryStore creates an empty store whose URLs start with baseURL
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://blobs"
	}
	return &MemoryStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

var _ services.BlobStore = (*MemoryStore)(nil)

// Upload stores a copy of the payload
func (m *MemoryStore) Upload(ctx context.Context, blob *services.BlobUpload) (*models.ExternalRef, error) {
	info, err := Probe(blob.Data)
	if err != nil {
		return nil, err
	}

	key := objectKey(blob.Namespace, blob.Filename)

	m.mu.Lock()
	m.objects[key] = append([]byte(nil), blob.Data...)
	m.mu.Unlock()

	return &models.ExternalRef{
		PublicID: key,
		URL:      m.baseURL + "/" + key,
		Width:    info.Width,
		Height:   info.Height,
		Format:   info.Format,
		Bytes:    info.Bytes,
	}, nil
}

// Delete removes an object; unknown IDs are NotFound
func (m *MemoryStore) Delete(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[publicID]; !ok {
		return fmt.Errorf("blob %s: %w", publicID, domain.ErrNotFound)
	}
	delete(m.objects, publicID)
	return nil
}

// Has reports whether an object is stored under publicID
func (m *MemoryStore) Has(publicID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[publicID]
	return ok
}

// Len returns the number of stored objects
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// objectKey builds "<namespace>/<uuid><ext>" keeping the original extension
func objectKey(namespace, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(namespace, uuid.NewString()+ext)
}

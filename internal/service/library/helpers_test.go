package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"imagevault/internal/domain/models"
	"imagevault/internal/domain/repositories"
	"imagevault/internal/domain/services"
	"imagevault/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

// fakeBlobStore records uploads and deletes; deletes of ids in failDeletes fail.
type fakeBlobStore struct {
	mu          sync.Mutex
	seq         int
	uploads     []*services.BlobUpload
	deleted     []string
	failDeletes map[string]bool
	failUpload  bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{failDeletes: map[string]bool{}}
}

func (f *fakeBlobStore) Upload(ctx context.Context, blob *services.BlobUpload) (*models.ExternalRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpload {
		return nil, errors.New("blob store unavailable")
	}

	f.seq++
	f.uploads = append(f.uploads, blob)
	publicID := fmt.Sprintf("%s/blob-%d", blob.Namespace, f.seq)
	return &models.ExternalRef{
		PublicID: publicID,
		URL:      "https://blobs.test/" + publicID,
		Width:    640,
		Height:   480,
		Format:   "png",
		Bytes:    int64(len(blob.Data)),
	}, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDeletes[publicID] {
		return errors.New("remote delete failed")
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeBlobStore) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func (f *fakeBlobStore) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// fakeClock hands out strictly increasing timestamps
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testEnv struct {
	folderRepo repositories.FolderRepository
	imageRepo  repositories.ImageRepository
	blobs      *fakeBlobStore
	folders    *folderService
	images     *imageService
	tree       services.TreeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	folderRepo := memory.NewFolderRepository(store)
	imageRepo := memory.NewImageRepository(store)
	blobs := newFakeBlobStore()
	clock := newFakeClock()

	folders := NewFolderService(folderRepo, imageRepo, blobs, 2, logger).(*folderService)
	folders.now = clock.Now
	images := NewImageService(folderRepo, imageRepo, blobs, "image-manager", logger).(*imageService)
	images.now = clock.Now

	return &testEnv{
		folderRepo: folderRepo,
		imageRepo:  imageRepo,
		blobs:      blobs,
		folders:    folders,
		images:     images,
		tree:       NewTreeService(folderRepo, imageRepo, logger),
	}
}

func strPtr(s string) *string { return &s }

func (e *testEnv) mustCreateFolder(t *testing.T, userID, name string, parentID *string) *models.Folder {
	t.Helper()
	folder, err := e.folders.CreateFolder(context.Background(), userID, &services.CreateFolderRequest{
		Name:     name,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return folder
}

func (e *testEnv) mustUpload(t *testing.T, userID, name string, folderID *string) *models.Image {
	t.Helper()
	img, err := e.images.UploadImage(context.Background(), userID, &services.UploadImageRequest{
		Name:        name,
		FolderID:    folderID,
		Filename:    name + ".png",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	require.NoError(t, err)
	return img
}

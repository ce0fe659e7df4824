package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"imagevault/internal/blobstore"
	"imagevault/internal/repository/memory"
	"imagevault/internal/service/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeeder(t *testing.T) (*LibrarySeeder, *blobstore.MemoryStore) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	folders := memory.NewFolderRepository(store)
	images := memory.NewImageRepository(store)
	blobs := blobstore.NewMemoryStore("")

	return NewLibrarySeeder(
		library.NewFolderService(folders, images, blobs, 2, logger),
		library.NewImageService(folders, images, blobs, "image-manager", logger),
		logger,
	), blobs
}

func TestSeed(t *testing.T) {
	seeder, blobs := newSeeder(t)
	ctx := context.Background()

	result, err := seeder.Seed(ctx, "dev-user")
	require.NoError(t, err)
	assert.Equal(t, 7, result.Folders) // Trips, Italy, Rome, Spain, Family, Work, Screenshots
	assert.Equal(t, len(sampleImages), result.Images)
	assert.Equal(t, len(sampleImages), blobs.Len())

	again, err := seeder.Seed(ctx, "dev-user")
	require.NoError(t, err)
	assert.Zero(t, again.Folders)
	assert.Zero(t, again.Images)
	assert.Equal(t, len(sampleImages), blobs.Len())
}

func TestClear(t *testing.T) {
	seeder, blobs := newSeeder(t)
	ctx := context.Background()

	_, err := seeder.Seed(ctx, "dev-user")
	require.NoError(t, err)
	_, err = seeder.Seed(ctx, "other-user")
	require.NoError(t, err)

	cleared, err := seeder.Clear(ctx, "dev-user")
	require.NoError(t, err)
	assert.Equal(t, 7, cleared.Folders)
	assert.Equal(t, len(sampleImages), cleared.Images)
	assert.Equal(t, len(sampleImages), blobs.Len(), "other user's blobs stay")
}

func TestRenderPNG(t *testing.T) {
	data, err := renderPNG(sampleImages[0])
	require.NoError(t, err)

	info, err := blobstore.Probe(data)
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, sampleImages[0].width, info.Width)
	assert.Equal(t, sampleImages[0].height, info.Height)
}

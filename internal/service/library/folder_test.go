package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"imagevault/internal/domain"
	"imagevault/internal/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root, err := env.folders.CreateFolder(ctx, alice, &services.CreateFolderRequest{Name: "  Trips  "})
	require.NoError(t, err)
	assert.NotEmpty(t, root.ID)
	assert.Equal(t, "Trips", root.Name)
	assert.Equal(t, alice, root.UserID)
	assert.Nil(t, root.ParentID)
	assert.True(t, root.IsRoot())
	assert.Nil(t, root.UpdatedAt)
	assert.False(t, root.CreatedAt.IsZero())

	child, err := env.folders.CreateFolder(ctx, alice, &services.CreateFolderRequest{Name: "Italy", ParentID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)
	assert.False(t, child.IsRoot())
}

func TestCreateFolder_EmptyParentIsRoot(t *testing.T) {
	env := newTestEnv(t)

	folder := env.mustCreateFolder(t, alice, "Trips", strPtr(""))
	assert.Nil(t, folder.ParentID)
}

func TestCreateFolder_SiblingUniqueness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	trips := env.mustCreateFolder(t, alice, "Trips", nil)
	env.mustCreateFolder(t, alice, "Italy", &trips.ID)

	t.Run("duplicate at root", func(t *testing.T) {
		_, err := env.folders.CreateFolder(ctx, alice, &services.CreateFolderRequest{Name: "Trips"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))

		var conflict *domain.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "folder", conflict.ResourceType)
		assert.Equal(t, trips.ID, conflict.ResourceID)
	})

	t.Run("duplicate after trimming", func(t *testing.T) {
		_, err := env.folders.CreateFolder(ctx, alice, &services.CreateFolderRequest{Name: " Italy ", ParentID: &trips.ID})
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("same name under a different parent", func(t *testing.T) {
		_, err := env.folders.CreateFolder(ctx, alice, &services.CreateFolderRequest{Name: "Trips", ParentID: &trips.ID})
		assert.NoError(t, err)
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		_, err := env.folders.CreateFolder(ctx, alice, &services.CreateFolderRequest{Name: "trips"})
		assert.NoError(t, err)
	})

	t.Run("another user may reuse the name", func(t *testing.T) {
		_, err := env.folders.CreateFolder(ctx, bob, &services.CreateFolderRequest{Name: "Trips"})
		assert.NoError(t, err)
	})
}

func TestCreateFolder_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "blank", input: "   ", wantErr: true},
		{name: "100 characters", input: strings.Repeat("n", 100)},
		{name: "101 characters", input: strings.Repeat("m", 101), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.folders.CreateFolder(ctx, alice, &services.CreateFolderRequest{Name: tt.input})
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateFolder_ForeignParentNotFound(t *testing.T) {
	env := newTestEnv(t)

	bobs := env.mustCreateFolder(t, bob, "Private", nil)

	_, err := env.folders.CreateFolder(context.Background(), alice, &services.CreateFolderRequest{
		Name:     "Sneaky",
		ParentID: &bobs.ID,
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	contents, err := env.folders.ListContents(context.Background(), bob, &bobs.ID)
	require.NoError(t, err)
	assert.Empty(t, contents.Folders)
}

func TestListContents_Root(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.mustCreateFolder(t, alice, "First", nil)
	second := env.mustCreateFolder(t, alice, "Second", nil)
	env.mustCreateFolder(t, alice, "Nested", &first.ID)
	env.mustCreateFolder(t, bob, "Bob's", nil)

	rootImg := env.mustUpload(t, alice, "root-photo", nil)
	env.mustUpload(t, alice, "nested-photo", &first.ID)
	env.mustUpload(t, bob, "bob-photo", nil)

	contents, err := env.folders.ListContents(ctx, alice, nil)
	require.NoError(t, err)

	assert.Nil(t, contents.Folder)
	require.Len(t, contents.Folders, 2)
	assert.Equal(t, second.ID, contents.Folders[0].ID, "newest first")
	assert.Equal(t, first.ID, contents.Folders[1].ID)

	require.Len(t, contents.Images, 1)
	assert.Equal(t, rootImg.ID, contents.Images[0].ID)
}

func TestListContents_Folder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	trips := env.mustCreateFolder(t, alice, "Trips", nil)
	italy := env.mustCreateFolder(t, alice, "Italy", &trips.ID)
	env.mustCreateFolder(t, alice, "Rome", &italy.ID)
	photo := env.mustUpload(t, alice, "beach", &trips.ID)

	contents, err := env.folders.ListContents(ctx, alice, &trips.ID)
	require.NoError(t, err)

	require.NotNil(t, contents.Folder)
	assert.Equal(t, trips.ID, contents.Folder.ID)
	require.Len(t, contents.Folders, 1, "direct children only")
	assert.Equal(t, italy.ID, contents.Folders[0].ID)
	require.Len(t, contents.Images, 1)
	assert.Equal(t, photo.ID, contents.Images[0].ID)
}

func TestListContents_EmptyListsAreNotNil(t *testing.T) {
	env := newTestEnv(t)

	contents, err := env.folders.ListContents(context.Background(), alice, nil)
	require.NoError(t, err)
	assert.NotNil(t, contents.Folders)
	assert.NotNil(t, contents.Images)
}

func TestListContents_ForeignFolderNotFound(t *testing.T) {
	env := newTestEnv(t)

	bobs := env.mustCreateFolder(t, bob, "Private", nil)
	env.mustUpload(t, bob, "secret", &bobs.ID)

	_, err := env.folders.ListContents(context.Background(), alice, &bobs.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = env.folders.ListContents(context.Background(), alice, strPtr("does-not-exist"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRenameFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	trips := env.mustCreateFolder(t, alice, "Trips", nil)
	env.mustCreateFolder(t, alice, "Work", nil)

	t.Run("renames", func(t *testing.T) {
		renamed, err := env.folders.RenameFolder(ctx, alice, &services.RenameFolderRequest{FolderID: trips.ID, NewName: " Travel "})
		require.NoError(t, err)
		assert.Equal(t, "Travel", renamed.Name)
		require.NotNil(t, renamed.UpdatedAt)

		stored, err := env.folders.GetFolder(ctx, alice, trips.ID)
		require.NoError(t, err)
		assert.Equal(t, "Travel", stored.Name)
	})

	t.Run("same name is a no-op rename", func(t *testing.T) {
		renamed, err := env.folders.RenameFolder(ctx, alice, &services.RenameFolderRequest{FolderID: trips.ID, NewName: "Travel"})
		require.NoError(t, err)
		assert.Equal(t, "Travel", renamed.Name)

		contents, err := env.folders.ListContents(ctx, alice, nil)
		require.NoError(t, err)
		assert.Len(t, contents.Folders, 2)
	})

	t.Run("sibling conflict", func(t *testing.T) {
		_, err := env.folders.RenameFolder(ctx, alice, &services.RenameFolderRequest{FolderID: trips.ID, NewName: "Work"})
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := env.folders.RenameFolder(ctx, alice, &services.RenameFolderRequest{FolderID: trips.ID, NewName: strings.Repeat("x", 101)})
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("other user's folder", func(t *testing.T) {
		_, err := env.folders.RenameFolder(ctx, bob, &services.RenameFolderRequest{FolderID: trips.ID, NewName: "Mine"})
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		stored, err := env.folders.GetFolder(ctx, alice, trips.ID)
		require.NoError(t, err)
		assert.Equal(t, "Travel", stored.Name)
	})
}

func TestMoveFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mustCreateFolder(t, alice, "A", nil)
	b := env.mustCreateFolder(t, alice, "B", &a.ID)
	c := env.mustCreateFolder(t, alice, "C", &b.ID)
	other := env.mustCreateFolder(t, alice, "Other", nil)

	t.Run("into itself", func(t *testing.T) {
		_, err := env.folders.MoveFolder(ctx, alice, &services.MoveFolderRequest{FolderID: a.ID, ParentID: &a.ID})
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("into a descendant", func(t *testing.T) {
		_, err := env.folders.MoveFolder(ctx, alice, &services.MoveFolderRequest{FolderID: a.ID, ParentID: &c.ID})
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("to another parent", func(t *testing.T) {
		moved, err := env.folders.MoveFolder(ctx, alice, &services.MoveFolderRequest{FolderID: c.ID, ParentID: &other.ID})
		require.NoError(t, err)
		require.NotNil(t, moved.ParentID)
		assert.Equal(t, other.ID, *moved.ParentID)
	})

	t.Run("to root", func(t *testing.T) {
		moved, err := env.folders.MoveFolder(ctx, alice, &services.MoveFolderRequest{FolderID: b.ID, ParentID: nil})
		require.NoError(t, err)
		assert.Nil(t, moved.ParentID)
	})

	t.Run("name taken in target", func(t *testing.T) {
		env.mustCreateFolder(t, alice, "C", nil)
		_, err := env.folders.MoveFolder(ctx, alice, &services.MoveFolderRequest{FolderID: c.ID, ParentID: nil})
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("into another user's folder", func(t *testing.T) {
		bobs := env.mustCreateFolder(t, bob, "Bob", nil)
		_, err := env.folders.MoveFolder(ctx, alice, &services.MoveFolderRequest{FolderID: a.ID, ParentID: &bobs.ID})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestGetFolderPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mustCreateFolder(t, alice, "A", nil)
	b := env.mustCreateFolder(t, alice, "B", &a.ID)
	c := env.mustCreateFolder(t, alice, "C", &b.ID)

	path, err := env.folders.GetFolderPath(ctx, alice, c.ID)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{path[0].Name, path[1].Name, path[2].Name})

	_, err = env.folders.GetFolderPath(ctx, bob, c.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteFolder_Cascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A ⊃ B ⊃ C, one image in A and one in C
	a := env.mustCreateFolder(t, alice, "A", nil)
	b := env.mustCreateFolder(t, alice, "B", &a.ID)
	c := env.mustCreateFolder(t, alice, "C", &b.ID)
	imgA := env.mustUpload(t, alice, "in-a", &a.ID)
	imgC := env.mustUpload(t, alice, "in-c", &c.ID)

	keep := env.mustCreateFolder(t, alice, "Keep", nil)
	keepImg := env.mustUpload(t, alice, "root-image", nil)

	result, err := env.folders.DeleteFolder(ctx, alice, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.DeletedFolders)
	assert.Equal(t, 2, result.DeletedImages)

	for _, id := range []string{a.ID, b.ID, c.ID} {
		_, err := env.folderRepo.GetByID(ctx, id, alice)
		assert.True(t, errors.Is(err, domain.ErrNotFound), "folder %s should be gone", id)
	}
	for _, id := range []string{imgA.ID, imgC.ID} {
		_, err := env.imageRepo.GetByID(ctx, id, alice)
		assert.True(t, errors.Is(err, domain.ErrNotFound), "image %s should be gone", id)
	}

	assert.ElementsMatch(t,
		[]string{imgA.ExternalRef.PublicID, imgC.ExternalRef.PublicID},
		env.blobs.deletedIDs(),
	)

	_, err = env.folderRepo.GetByID(ctx, keep.ID, alice)
	assert.NoError(t, err)
	_, err = env.imageRepo.GetByID(ctx, keepImg.ID, alice)
	assert.NoError(t, err)
}

func TestDeleteFolder_DeepChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const depth = 3000
	top := env.mustCreateFolder(t, alice, "level-0", nil)
	parent := top
	for i := 1; i <= depth; i++ {
		parent = env.mustCreateFolder(t, alice, fmt.Sprintf("level-%d", i), &parent.ID)
	}
	leafImg := env.mustUpload(t, alice, "leaf", &parent.ID)

	result, err := env.folders.DeleteFolder(ctx, alice, top.ID)
	require.NoError(t, err)
	assert.Equal(t, depth+1, result.DeletedFolders)
	assert.Equal(t, 1, result.DeletedImages)

	_, err = env.folderRepo.GetByID(ctx, parent.ID, alice)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, []string{leafImg.ExternalRef.PublicID}, env.blobs.deletedIDs())

	remaining, err := env.folderRepo.ListAllByUser(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteFolder_BlobFailuresDoNotAbort(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mustCreateFolder(t, alice, "A", nil)
	broken := env.mustUpload(t, alice, "broken", &a.ID)
	fine := env.mustUpload(t, alice, "fine", &a.ID)
	env.blobs.failDeletes[broken.ExternalRef.PublicID] = true

	result, err := env.folders.DeleteFolder(ctx, alice, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DeletedFolders)
	assert.Equal(t, 2, result.DeletedImages)
	assert.Equal(t, []string{fine.ExternalRef.PublicID}, env.blobs.deletedIDs())

	_, err = env.imageRepo.GetByID(ctx, broken.ID, alice)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "record is removed even though the blob delete failed")
}

func TestDeleteFolder_OtherUserNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.mustCreateFolder(t, alice, "A", nil)
	img := env.mustUpload(t, alice, "photo", &a.ID)

	_, err := env.folders.DeleteFolder(ctx, bob, a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = env.folderRepo.GetByID(ctx, a.ID, alice)
	assert.NoError(t, err)
	_, err = env.imageRepo.GetByID(ctx, img.ID, alice)
	assert.NoError(t, err)
	assert.Empty(t, env.blobs.deletedIDs())
}

func TestDeleteFolder_EmptyFolder(t *testing.T) {
	env := newTestEnv(t)

	a := env.mustCreateFolder(t, alice, "A", nil)

	result, err := env.folders.DeleteFolder(context.Background(), alice, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DeletedFolders)
	assert.Equal(t, 0, result.DeletedImages)
}

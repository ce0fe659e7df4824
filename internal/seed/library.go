// Package seed fills a user's library with sample folders and images for
// local development.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"imagevault/internal/domain"
	"imagevault/internal/domain/services"

	"github.com/disintegration/imaging"
)

// sampleImage is a generated image placed at a slash separated folder path ("" = root)
type sampleImage struct {
	folder string
	name   string
	width  int
	height int
	fill   color.NRGBA
}

var sampleFolders = []string{
	"Trips",
	"Trips/Italy",
	"Trips/Italy/Rome",
	"Trips/Spain",
	"Family",
	"Work/Screenshots",
}

var sampleImages = []sampleImage{
	{folder: "", name: "Wallpaper", width: 320, height: 180, fill: color.NRGBA{R: 30, G: 60, B: 120, A: 255}},
	{folder: "Trips/Italy", name: "Amalfi coast", width: 240, height: 160, fill: color.NRGBA{R: 20, G: 140, B: 200, A: 255}},
	{folder: "Trips/Italy/Rome", name: "Colosseum", width: 200, height: 200, fill: color.NRGBA{R: 190, G: 150, B: 90, A: 255}},
	{folder: "Trips/Spain", name: "Sagrada Familia", width: 160, height: 240, fill: color.NRGBA{R: 210, G: 120, B: 60, A: 255}},
	{folder: "Family", name: "Birthday", width: 180, height: 120, fill: color.NRGBA{R: 230, G: 80, B: 120, A: 255}},
	{folder: "Work/Screenshots", name: "Dashboard", width: 400, height: 250, fill: color.NRGBA{R: 240, G: 240, B: 240, A: 255}},
}

// Result counts what a Seed call created
type Result struct {
	Folders int
	Images  int
}

// LibrarySeeder creates sample data through the regular services so every
// naming and ownership rule applies.
type LibrarySeeder struct {
	folders services.FolderService
	images  services.ImageService
	logger  *slog.Logger
}

// NewLibrarySeeder creates a new library seeder
func NewLibrarySeeder(folders services.FolderService, images services.ImageService, logger *slog.Logger) *LibrarySeeder {
	return &LibrarySeeder{
		folders: folders,
		images:  images,
		logger:  logger,
	}
}

// Seed creates the sample tree for userID. Folders that already exist are
// reused and images that already exist are skipped, so running it twice is harmless.
func (s *LibrarySeeder) Seed(ctx context.Context, userID string) (*Result, error) {
	result := &Result{}
	ids := map[string]string{}

	for _, p := range sampleFolders {
		id, created, err := s.ensurePath(ctx, userID, p, ids)
		if err != nil {
			return result, err
		}
		result.Folders += created
		s.logger.Debug("seeded folder", "path", p, "id", id)
	}

	for _, sample := range sampleImages {
		var folderID *string
		if sample.folder != "" {
			id := ids[sample.folder]
			folderID = &id
		}

		data, err := renderPNG(sample)
		if err != nil {
			return result, err
		}

		img, err := s.images.UploadImage(ctx, userID, &services.UploadImageRequest{
			Name:        sample.name,
			FolderID:    folderID,
			Filename:    strings.ToLower(strings.ReplaceAll(sample.name, " ", "-")) + ".png",
			ContentType: "image/png",
			Data:        data,
		})
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Debug("sample image already present", "name", sample.name)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("seed image %q: %w", sample.name, err)
		}
		result.Images++
		s.logger.Info("seeded image", "name", img.Name, "id", img.ID, "url", img.ExternalRef.URL)
	}

	return result, nil
}

// Clear removes every root-level folder (with its subtree) and root-level image of userID
func (s *LibrarySeeder) Clear(ctx context.Context, userID string) (*Result, error) {
	contents, err := s.folders.ListContents(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, f := range contents.Folders {
		deleted, err := s.folders.DeleteFolder(ctx, userID, f.ID)
		if err != nil {
			return result, fmt.Errorf("clear folder %q: %w", f.Name, err)
		}
		result.Folders += deleted.DeletedFolders
		result.Images += deleted.DeletedImages
	}
	for _, img := range contents.Images {
		if err := s.images.DeleteImage(ctx, userID, img.ID); err != nil {
			return result, fmt.Errorf("clear image %q: %w", img.Name, err)
		}
		result.Images++
	}

	return result, nil
}

// ensurePath creates each missing segment of a folder path and records the IDs in ids
func (s *LibrarySeeder) ensurePath(ctx context.Context, userID, folderPath string, ids map[string]string) (string, int, error) {
	var (
		parentID *string
		current  string
		created  int
	)

	for _, segment := range strings.Split(folderPath, "/") {
		if current == "" {
			current = segment
		} else {
			current += "/" + segment
		}

		if id, ok := ids[current]; ok {
			parentID = &id
			continue
		}

		folder, err := s.folders.CreateFolder(ctx, userID, &services.CreateFolderRequest{
			Name:     segment,
			ParentID: parentID,
		})

		var id string
		var conflict *domain.ConflictError
		switch {
		case err == nil:
			id = folder.ID
			created++
		case errors.As(err, &conflict):
			id = conflict.ResourceID
		default:
			return "", created, fmt.Errorf("seed folder %q: %w", current, err)
		}

		ids[current] = id
		parentID = &id
	}

	return ids[folderPath], created, nil
}

func renderPNG(sample sampleImage) ([]byte, error) {
	img := imaging.New(sample.width, sample.height, sample.fill)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("render %q: %w", sample.name, err)
	}
	return buf.Bytes(), nil
}

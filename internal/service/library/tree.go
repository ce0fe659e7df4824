package library

import (
	"context"
	"log/slog"
	"sort"

	"imagevault/internal/domain/models"
	"imagevault/internal/domain/repositories"
	"imagevault/internal/domain/services"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo repositories.FolderRepository
	imageRepo  repositories.ImageRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	imageRepo repositories.ImageRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		imageRepo:  imageRepo,
		logger:     logger,
	}
}

// GetTree builds and returns the nested folder/image tree of a user
func (s *treeService) GetTree(ctx context.Context, userID string) (*models.Tree, error) {
	allFolders, err := s.folderRepo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	allImages, err := s.imageRepo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	folderMap := make(map[string]*models.FolderTreeNode, len(allFolders))
	var rootFolderIDs []string

	// First pass: create all folder nodes
	for _, folder := range allFolders {
		folderMap[folder.ID] = &models.FolderTreeNode{
			ID:        folder.ID,
			Name:      folder.Name,
			ParentID:  folder.ParentID,
			CreatedAt: folder.CreatedAt,
			Folders:   []*models.FolderTreeNode{},
			Images:    []models.ImageTreeNode{},
		}
	}

	// Second pass: connect children to parents
	for _, folder := range allFolders {
		node := folderMap[folder.ID]
		if folder.IsRoot() {
			rootFolderIDs = append(rootFolderIDs, folder.ID)
			continue
		}
		if parent, exists := folderMap[*folder.ParentID]; exists {
			parent.Folders = append(parent.Folders, node)
		}
	}

	// Third pass: attach images
	rootImages := make([]models.ImageTreeNode, 0)
	for _, img := range allImages {
		imgNode := models.ImageTreeNode{
			ID:        img.ID,
			Name:      img.Name,
			FolderID:  img.FolderID,
			URL:       img.ExternalRef.URL,
			CreatedAt: img.CreatedAt,
		}

		if img.FolderID == nil {
			rootImages = append(rootImages, imgNode)
		} else if parent, exists := folderMap[*img.FolderID]; exists {
			parent.Images = append(parent.Images, imgNode)
		}
	}

	rootFolders := make([]*models.FolderTreeNode, 0, len(rootFolderIDs))
	for _, folderID := range rootFolderIDs {
		rootFolders = append(rootFolders, folderMap[folderID])
	}

	sortFolderNodes(rootFolders)
	sortImageNodes(rootImages)
	for _, node := range folderMap {
		sortFolderNodes(node.Folders)
		sortImageNodes(node.Images)
	}

	s.logger.Debug("tree built",
		"user_id", userID,
		"folder_count", len(allFolders),
		"image_count", len(allImages),
	)

	return &models.Tree{
		Folders: rootFolders,
		Images:  rootImages,
	}, nil
}

// newest first, matching directory listings
func sortFolderNodes(nodes []*models.FolderTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].CreatedAt.After(nodes[j].CreatedAt)
	})
}

func sortImageNodes(nodes []models.ImageTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].CreatedAt.After(nodes[j].CreatedAt)
	})
}

package mongo

import (
	"context"
	"fmt"

	"imagevault/internal/domain"
	"imagevault/internal/domain/models"
	"imagevault/internal/domain/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FolderRepository implements repositories.FolderRepository on MongoDB
type FolderRepository struct {
	collection *mongo.Collection
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(store *Store) repositories.FolderRepository {
	return &FolderRepository{collection: store.database.Collection(foldersCollection)}
}

// Create creates a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	folder.ID = uuid.NewString()

	if _, err := r.collection.InsertOne(ctx, folder); err != nil {
		folder.ID = ""
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

// GetByID retrieves a folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	var folder models.Folder
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&folder)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.NewNotFoundError("folder")
		}
		return nil, fmt.Errorf("failed to find folder: %w", err)
	}
	return &folder, nil
}

// FindByName returns the sibling with an exactly matching name, or nil
func (r *FolderRepository) FindByName(ctx context.Context, userID string, parentID *string, name string) (*models.Folder, error) {
	filter := bson.M{
		"userId":   userID,
		"parentId": refFilter(parentID),
		"name":     name,
	}

	var folder models.Folder
	if err := r.collection.FindOne(ctx, filter).Decode(&folder); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find folder by name: %w", err)
	}
	return &folder, nil
}

// ListChildren lists immediate child folders, newest first
func (r *FolderRepository) ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Folder, error) {
	filter := bson.M{"userId": userID, "parentId": refFilter(parentID)}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

// ListAllByUser retrieves every folder of a user, oldest first
func (r *FolderRepository) ListAllByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

// Update updates name, parent and updated_at
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	update := bson.M{
		"$set": bson.M{
			"name":      folder.Name,
			"parentId":  folder.ParentID,
			"updatedAt": folder.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": folder.ID, "userId": folder.UserID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("failed to update folder: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.NewNotFoundError("folder")
	}
	return nil
}

// DeleteMany deletes the given folders and returns how many were removed
func (r *FolderRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{
		"userId": userID,
		"_id":    bson.M{"$in": ids},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete folders: %w", err)
	}
	return int(result.DeletedCount), nil
}

func (r *FolderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Folder, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find folders: %w", err)
	}
	defer cursor.Close(ctx)

	folders := []models.Folder{}
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders: %w", err)
	}
	return folders, nil
}

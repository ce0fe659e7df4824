package mongo

import (
	"context"
	"fmt"
	"regexp"

	"imagevault/internal/domain"
	"imagevault/internal/domain/models"
	"imagevault/internal/domain/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImageRepository implements repositories.ImageRepository on MongoDB
type ImageRepository struct {
	collection *mongo.Collection
}

// NewImageRepository creates a new image repository
func NewImageRepository(store *Store) repositories.ImageRepository {
	return &ImageRepository{collection: store.database.Collection(imagesCollection)}
}

// Create persists a new image record
func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	image.ID = uuid.NewString()

	if _, err := r.collection.InsertOne(ctx, image); err != nil {
		image.ID = ""
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("image '%s': %w", image.Name, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetByID retrieves an image by ID
func (r *ImageRepository) GetByID(ctx context.Context, id, userID string) (*models.Image, error) {
	var image models.Image
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&image)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.NewNotFoundError("image")
		}
		return nil, fmt.Errorf("failed to find image: %w", err)
	}
	return &image, nil
}

// FindByName returns the sibling image with an exactly matching name, or nil
func (r *ImageRepository) FindByName(ctx context.Context, userID string, folderID *string, name string) (*models.Image, error) {
	filter := bson.M{
		"userId":   userID,
		"folderId": refFilter(folderID),
		"name":     name,
	}

	var image models.Image
	if err := r.collection.FindOne(ctx, filter).Decode(&image); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find image by name: %w", err)
	}
	return &image, nil
}

// ListByFolder lists images directly inside a folder, newest first
func (r *ImageRepository) ListByFolder(ctx context.Context, userID string, folderID *string) ([]models.Image, error) {
	filter := bson.M{"userId": userID, "folderId": refFilter(folderID)}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

// ListByFolders lists images contained in any of the given folders
func (r *ImageRepository) ListByFolders(ctx context.Context, userID string, folderIDs []string) ([]models.Image, error) {
	if len(folderIDs) == 0 {
		return []models.Image{}, nil
	}
	filter := bson.M{"userId": userID, "folderId": bson.M{"$in": folderIDs}}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

// ListAllByUser retrieves every image of a user, oldest first
func (r *ImageRepository) ListAllByUser(ctx context.Context, userID string) ([]models.Image, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

// Update updates name, folder and updated_at
func (r *ImageRepository) Update(ctx context.Context, image *models.Image) error {
	update := bson.M{
		"$set": bson.M{
			"name":      image.Name,
			"folderId":  image.FolderID,
			"updatedAt": image.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": image.ID, "userId": image.UserID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("image '%s': %w", image.Name, domain.ErrConflict)
		}
		return fmt.Errorf("failed to update image: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.NewNotFoundError("image")
	}
	return nil
}

// Delete deletes a single image
func (r *ImageRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.NewNotFoundError("image")
	}
	return nil
}

// DeleteMany deletes the given images and returns how many were removed
func (r *ImageRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{
		"userId": userID,
		"_id":    bson.M{"$in": ids},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete images: %w", err)
	}
	return int(result.DeletedCount), nil
}

// Search performs a case-insensitive substring match on image names, newest first
func (r *ImageRepository) Search(ctx context.Context, userID, query string) ([]models.Image, error) {
	return r.find(ctx, searchFilter(userID, query), options.Find().SetSort(newestFirst))
}

// searchFilter matches query literally; regex metacharacters are escaped
func searchFilter(userID, query string) bson.M {
	return bson.M{
		"userId": userID,
		"name": primitive.Regex{
			Pattern: regexp.QuoteMeta(query),
			Options: "i",
		},
	}
}

func (r *ImageRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Image, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find images: %w", err)
	}
	defer cursor.Close(ctx)

	images := []models.Image{}
	if err := cursor.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	return images, nil
}

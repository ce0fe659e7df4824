// Package mongo implements the entity store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	foldersCollection = "folders"
	imagesCollection  = "images"
)

// Store owns the client connection. Open it once at startup and Close it on shutdown.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *slog.Logger
}

// Connect dials MongoDB and verifies the connection
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("connected to mongodb", "database", database)

	return &Store{
		client:   client,
		database: client.Database(database),
		logger:   logger,
	}, nil
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the uniqueness and listing indexes. Safe to call repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		foldersCollection: {
			{
				Keys: bson.D{
					{Key: "userId", Value: 1},
					{Key: "parentId", Value: 1},
					{Key: "name", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("sibling_name"),
			},
			{
				Keys: bson.D{
					{Key: "userId", Value: 1},
					{Key: "parentId", Value: 1},
					{Key: "createdAt", Value: -1},
				},
			},
		},
		imagesCollection: {
			{
				Keys: bson.D{
					{Key: "userId", Value: 1},
					{Key: "folderId", Value: 1},
					{Key: "name", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("sibling_name"),
			},
			{
				Keys: bson.D{
					{Key: "userId", Value: 1},
					{Key: "folderId", Value: 1},
					{Key: "createdAt", Value: -1},
				},
			},
		},
	}

	for collection, indexes := range specs {
		if _, err := s.database.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes for %s: %w", collection, err)
		}
	}

	s.logger.Info("mongodb indexes ensured")
	return nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// refFilter matches a nullable parent reference; nil matches root-level documents
func refFilter(ref *string) interface{} {
	if ref == nil {
		return nil
	}
	return *ref
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

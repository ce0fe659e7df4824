package main

import (
	"context"
	"fmt"
	"log/slog"

	"imagevault/internal/blobstore"
	"imagevault/internal/config"
	"imagevault/internal/domain/repositories"
	"imagevault/internal/domain/services"
	"imagevault/internal/repository/memory"
	"imagevault/internal/repository/mongo"
	"imagevault/internal/repository/postgres"
)

// entityStore is the opened entity store. close releases the underlying handle.
type entityStore struct {
	folders repositories.FolderRepository
	images  repositories.ImageRepository
	close   func()
}

// openEntityStore connects the store selected by STORE_DRIVER
func openEntityStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*entityStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		return &entityStore{
			folders: postgres.NewFolderRepository(repoConfig),
			images:  postgres.NewImageRepository(repoConfig),
			close:   pool.Close,
		}, nil

	case config.StoreDriverMongo:
		store, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return &entityStore{
			folders: mongo.NewFolderRepository(store),
			images:  mongo.NewImageRepository(store),
			close: func() {
				if err := store.Close(); err != nil {
					logger.Warn("failed to disconnect mongodb", "error", err)
				}
			},
		}, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory entity store; data is lost on restart")
		store := memory.NewStore()
		return &entityStore{
			folders: memory.NewFolderRepository(store),
			images:  memory.NewImageRepository(store),
			close:   func() { _ = store.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// openBlobStore creates the blob store selected by BLOB_DRIVER
func openBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.BlobStore, error) {
	switch cfg.BlobDriver {
	case config.BlobDriverS3:
		store, err := blobstore.NewS3Store(ctx, blobstore.S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("s3 blob store configured", "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)
		return store, nil

	case config.BlobDriverMemory:
		logger.Warn("using in-memory blob store; uploads are lost on restart")
		return blobstore.NewMemoryStore(""), nil

	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.BlobDriver)
	}
}

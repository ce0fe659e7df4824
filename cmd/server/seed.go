package main

import (
	"context"
	"errors"
	"fmt"

	"imagevault/internal/seed"
	"imagevault/internal/service/library"

	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	var (
		userID     string
		clearFirst bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a sample library for a user",
		Long: `Create sample folders and generated images for a user in the configured
entity and blob stores. With --clear the user's existing library is removed
first. Refuses to run when ENVIRONMENT=prod.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), userID, clearFirst)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID that owns the sample library (required)")
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "delete the user's existing folders and images first")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runSeed(ctx context.Context, userID string, clearFirst bool) error {
	cfg, logger, logCloser, err := bootstrap()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if cfg.Environment == "prod" {
		return errors.New("refusing to seed a prod environment")
	}

	store, err := openEntityStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	blobs, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	seeder := seed.NewLibrarySeeder(
		library.NewFolderService(store.folders, store.images, blobs, cfg.BlobDeleteConcurrency, logger),
		library.NewImageService(store.folders, store.images, blobs, cfg.BlobNamespace, logger),
		logger,
	)

	if clearFirst {
		cleared, err := seeder.Clear(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %d folders and %d images\n", cleared.Folders, cleared.Images)
	}

	result, err := seeder.Seed(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d folders and %d images for user %s\n", result.Folders, result.Images, userID)
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"imagevault/internal/auth"
	"imagevault/internal/handler"
	"imagevault/internal/middleware"
	"imagevault/internal/service/library"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, logger, logCloser, err := bootstrap()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store_driver", cfg.StoreDriver,
		"blob_driver", cfg.BlobDriver,
	)

	verifier, err := auth.NewTokenVerifier(cfg.JWKSURL, cfg.JWTSecret, logger)
	if err != nil {
		return fmt.Errorf("create token verifier: %w", err)
	}
	defer verifier.Close()

	store, err := openEntityStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	blobs, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// Services
	folderService := library.NewFolderService(store.folders, store.images, blobs, cfg.BlobDeleteConcurrency, logger)
	imageService := library.NewImageService(store.folders, store.images, blobs, cfg.BlobNamespace, logger)
	treeService := library.NewTreeService(store.folders, store.images, logger)

	handlers := &handler.Handlers{
		Folders: handler.NewFolderHandler(folderService, logger),
		Images:  handler.NewImageHandler(imageService, cfg.MaxUploadBytes, logger),
		Tree:    handler.NewTreeHandler(treeService, logger),
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	api := http.NewServeMux()
	handlers.Register(api)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("/api/", middleware.Auth(verifier, logger)(api))

	// CORS - Must be outermost to answer OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})

	// Order: CORS → request log → recovery → routes (auth wraps /api only)
	root := middleware.Chain(mux,
		corsHandler.Handler,
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

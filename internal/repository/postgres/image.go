package postgres

import (
	"context"
	"fmt"

	"imagevault/internal/domain"
	"imagevault/internal/domain/models"
	"imagevault/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const imageColumns = `id::text, user_id, folder_id::text, name,
	public_id, url, width, height, format, bytes,
	filename, content_type, created_at, updated_at`

// PostgresImageRepository implements the ImageRepository interface
type PostgresImageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewImageRepository creates a new image repository
func NewImageRepository(config *RepositoryConfig) repositories.ImageRepository {
	return &PostgresImageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create persists a new image record
func (r *PostgresImageRepository) Create(ctx context.Context, image *models.Image) error {
	if image.FolderID != nil && !isUUID(*image.FolderID) {
		return domain.NewNotFoundError("folder")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_id, name, public_id, url, width, height, format, bytes,
			filename, content_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id::text
	`, r.tables.Images)

	ref := image.ExternalRef
	err := r.pool.QueryRow(ctx, query,
		image.UserID,
		image.FolderID,
		image.Name,
		ref.PublicID,
		ref.URL,
		ref.Width,
		ref.Height,
		ref.Format,
		ref.Bytes,
		image.Filename,
		image.Type,
		image.CreatedAt,
		image.UpdatedAt,
	).Scan(&image.ID)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("image '%s': %w", image.Name, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("target folder: %w", domain.NewNotFoundError("folder"))
		}
		return fmt.Errorf("create image: %w", err)
	}

	return nil
}

// GetByID retrieves an image by ID
func (r *PostgresImageRepository) GetByID(ctx context.Context, id, userID string) (*models.Image, error) {
	if !isUUID(id) {
		return nil, domain.NewNotFoundError("image")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, imageColumns, r.tables.Images)

	image, err := scanImage(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NewNotFoundError("image")
		}
		return nil, fmt.Errorf("get image: %w", err)
	}

	return image, nil
}

// FindByName returns the sibling image with an exactly matching name, or nil
func (r *PostgresImageRepository) FindByName(ctx context.Context, userID string, folderID *string, name string) (*models.Image, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND name = $2 AND folder_id IS NULL
		`, imageColumns, r.tables.Images)
		args = append(args, userID, name)
	} else {
		if !isUUID(*folderID) {
			return nil, nil
		}
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND name = $2 AND folder_id = $3
		`, imageColumns, r.tables.Images)
		args = append(args, userID, name, *folderID)
	}

	image, err := scanImage(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get image by name: %w", err)
	}

	return image, nil
}

// ListByFolder lists images directly inside a folder (nil = root), newest first
func (r *PostgresImageRepository) ListByFolder(ctx context.Context, userID string, folderID *string) ([]models.Image, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND folder_id IS NULL
			ORDER BY created_at DESC
		`, imageColumns, r.tables.Images)
		args = append(args, userID)
	} else {
		if !isUUID(*folderID) {
			return []models.Image{}, nil
		}
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND folder_id = $2
			ORDER BY created_at DESC
		`, imageColumns, r.tables.Images)
		args = append(args, userID, *folderID)
	}

	return r.queryImages(ctx, "list images", query, args...)
}

// ListByFolders lists images contained in any of the given folders
func (r *PostgresImageRepository) ListByFolders(ctx context.Context, userID string, folderIDs []string) ([]models.Image, error) {
	folderIDs = uuidsOnly(folderIDs)
	if len(folderIDs) == 0 {
		return []models.Image{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1 AND folder_id = ANY($2::uuid[])
		ORDER BY created_at DESC
	`, imageColumns, r.tables.Images)

	return r.queryImages(ctx, "list images in folders", query, userID, folderIDs)
}

// ListAllByUser retrieves every image of a user
func (r *PostgresImageRepository) ListAllByUser(ctx context.Context, userID string) ([]models.Image, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, imageColumns, r.tables.Images)

	return r.queryImages(ctx, "get all images", query, userID)
}

// Update updates name, folder and updated_at
func (r *PostgresImageRepository) Update(ctx context.Context, image *models.Image) error {
	if !isUUID(image.ID) || (image.FolderID != nil && !isUUID(*image.FolderID)) {
		return domain.NewNotFoundError("image")
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, name = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`, r.tables.Images)

	result, err := r.pool.Exec(ctx, query,
		image.FolderID,
		image.Name,
		image.UpdatedAt,
		image.ID,
		image.UserID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("image '%s': %w", image.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("image")
	}

	return nil
}

// Delete deletes a single image
func (r *PostgresImageRepository) Delete(ctx context.Context, id, userID string) error {
	if !isUUID(id) {
		return domain.NewNotFoundError("image")
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Images)

	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("image")
	}

	return nil
}

// DeleteMany deletes the given images and returns how many rows were removed
func (r *PostgresImageRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int, error) {
	ids = uuidsOnly(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND id = ANY($2::uuid[])
	`, r.tables.Images)

	result, err := r.pool.Exec(ctx, query, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete images: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// Search performs a case-insensitive substring match on image names.
// LIKE wildcards in the query match literally.
func (r *PostgresImageRepository) Search(ctx context.Context, userID, query string) ([]models.Image, error) {
	sqlQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1 AND name ILIKE $2 ESCAPE '\'
		ORDER BY created_at DESC
	`, imageColumns, r.tables.Images)

	return r.queryImages(ctx, "search images", sqlQuery, userID, containsPattern(query))
}

func (r *PostgresImageRepository) queryImages(ctx context.Context, op, query string, args ...interface{}) ([]models.Image, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	images := []models.Image{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, *image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}

	return images, nil
}

func scanImage(row pgx.Row) (*models.Image, error) {
	var image models.Image
	err := row.Scan(
		&image.ID,
		&image.UserID,
		&image.FolderID,
		&image.Name,
		&image.ExternalRef.PublicID,
		&image.ExternalRef.URL,
		&image.ExternalRef.Width,
		&image.ExternalRef.Height,
		&image.ExternalRef.Format,
		&image.ExternalRef.Bytes,
		&image.Filename,
		&image.Type,
		&image.CreatedAt,
		&image.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &image, nil
}

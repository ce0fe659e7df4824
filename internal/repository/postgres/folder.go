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

const folderColumns = `id::text, user_id, parent_id::text, name, created_at, updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ParentID != nil && !isUUID(*folder.ParentID) {
		return domain.NewNotFoundError("folder")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, parent_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text
	`, r.tables.Folders)

	err := r.pool.QueryRow(ctx, query,
		folder.UserID,
		folder.ParentID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.NewNotFoundError("folder"))
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, userID string) (*models.Folder, error) {
	if !isUUID(id) {
		return nil, domain.NewNotFoundError("folder")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, folderColumns, r.tables.Folders)

	folder, err := scanFolder(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NewNotFoundError("folder")
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// FindByName returns the sibling with an exactly matching name, or nil
func (r *PostgresFolderRepository) FindByName(ctx context.Context, userID string, parentID *string, name string) (*models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND name = $2 AND parent_id IS NULL
		`, folderColumns, r.tables.Folders)
		args = append(args, userID, name)
	} else {
		if !isUUID(*parentID) {
			return nil, nil
		}
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND name = $2 AND parent_id = $3
		`, folderColumns, r.tables.Folders)
		args = append(args, userID, name, *parentID)
	}

	folder, err := scanFolder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get folder by name and parent: %w", err)
	}

	return folder, nil
}

// ListChildren lists immediate child folders, newest first
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND parent_id IS NULL
			ORDER BY created_at DESC
		`, folderColumns, r.tables.Folders)
		args = append(args, userID)
	} else {
		if !isUUID(*parentID) {
			return []models.Folder{}, nil
		}
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND parent_id = $2
			ORDER BY created_at DESC
		`, folderColumns, r.tables.Folders)
		args = append(args, userID, *parentID)
	}

	return r.queryFolders(ctx, "list folder children", query, args...)
}

// ListAllByUser retrieves all folders of a user (flat list)
func (r *PostgresFolderRepository) ListAllByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, "get all folders", query, userID)
}

// Update updates a folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	if !isUUID(folder.ID) || (folder.ParentID != nil && !isUUID(*folder.ParentID)) {
		return domain.NewNotFoundError("folder")
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`, r.tables.Folders)

	result, err := r.pool.Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.UpdatedAt,
		folder.ID,
		folder.UserID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.NewNotFoundError("folder"))
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("folder")
	}

	return nil
}

// DeleteMany deletes the given folders and returns how many rows were removed.
// Children are removed by the ON DELETE CASCADE foreign key if they were
// created after the caller collected the subtree.
func (r *PostgresFolderRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int, error) {
	ids = uuidsOnly(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND id = ANY($2::uuid[])
	`, r.tables.Folders)

	result, err := r.pool.Exec(ctx, query, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete folders: %w", err)
	}

	return int(result.RowsAffected()), nil
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, op, query string, args ...interface{}) ([]models.Folder, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.ParentID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

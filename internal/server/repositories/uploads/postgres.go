package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

// PostgresRepository implements upload bookkeeping over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrUpdate upserts a pending upload by storage_key. A key that is
// already attached to a recording is left untouched, so re-issuing a
// ticket for the same content never detaches it.
func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, upload *models.Upload) error {
	query := `
		INSERT INTO uploads (storage_key, content_type, size, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (storage_key)
		DO UPDATE SET
			content_type = EXCLUDED.content_type,
			size = EXCLUDED.size
			WHERE uploads.status = 'pending';
	`
	res, err := r.db.ExecContext(ctx, query, upload.StorageKey, upload.ContentType, upload.Size, models.UploadStatusPending)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n > 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// Get returns the upload row for key or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, key string) (*models.Upload, error) {
	query := `SELECT storage_key, content_type, size, status, created_at FROM uploads
		WHERE storage_key = $1
		`

	u := &models.Upload{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(&u.StorageKey, &u.ContentType, &u.Size, &u.Status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select upload: %w", err)
	}
	return u, nil
}

// MarkAttached flags key as referenced by a recording. It reports whether
// the key was known at all.
func (r *PostgresRepository) MarkAttached(ctx context.Context, key string) (bool, error) {
	query := `UPDATE uploads SET status = 'attached' WHERE storage_key = $1`
	result, err := r.db.ExecContext(ctx, query, key)
	if err != nil {
		return false, fmt.Errorf("failed to mark attached: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch ra {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("wrong rows affected count: %d", ra)
	}
}

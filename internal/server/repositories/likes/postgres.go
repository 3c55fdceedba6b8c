package likes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, recordingID int64, userID string) (*models.Like, error) {
	query :=
		`SELECT id, recording_id, user_id FROM likes
		 WHERE recording_id = $1 AND user_id = $2
		 `

	like := &models.Like{}
	err := r.db.QueryRowContext(ctx, query, recordingID, userID).Scan(&like.ID, &like.RecordingID, &like.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return like, nil
}

// Insert relies on the (recording_id, user_id) unique constraint: a
// concurrent insert of the same pair waits for the other transaction and
// then reports false instead of failing.
func (r *PostgresRepository) Insert(ctx context.Context, recordingID int64, userID string) (bool, error) {
	query :=
		`INSERT INTO likes (recording_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (recording_id, user_id) DO NOTHING
		 `

	n, err := dbx.RowsAffected(ctx, r.db, query, recordingID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, recordingID int64, userID string) (bool, error) {
	query := `DELETE FROM likes WHERE recording_id = $1 AND user_id = $2`

	n, err := dbx.RowsAffected(ctx, r.db, query, recordingID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Count(ctx context.Context, recordingID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM likes WHERE recording_id = $1`, recordingID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

package recordings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

const selectColumns = `id, user_id, audio_url, duration, mood, likes_count, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecording(s scanner) (*models.Recording, error) {
	rec := &models.Recording{}
	var mood string
	if err := s.Scan(&rec.ID, &rec.UserID, &rec.AudioURL, &rec.Duration, &mood, &rec.LikesCount, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Mood = models.Mood(mood)
	return rec, nil
}

// Create inserts rec with a zero like counter and fills ID and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, rec *models.Recording) (*models.Recording, error) {
	query :=
		`INSERT INTO recordings (user_id, audio_url, duration, mood)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, likes_count, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, rec.UserID, rec.AudioURL, rec.Duration, string(rec.Mood)).
		Scan(&rec.ID, &rec.LikesCount, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Recording, error) {
	query := `SELECT ` + selectColumns + ` FROM recordings WHERE id = $1`

	rec, err := scanRecording(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func orderClause(sort models.Sort) string {
	if sort == models.SortPopular {
		return ` ORDER BY likes_count DESC, created_at DESC, id DESC`
	}
	return ` ORDER BY created_at DESC, id DESC`
}

func (r *PostgresRepository) List(ctx context.Context, mood *models.Mood, sort models.Sort) ([]*models.Recording, error) {
	query := `SELECT ` + selectColumns + ` FROM recordings`
	var args []any
	if mood != nil {
		query += ` WHERE mood = $1`
		args = append(args, string(*mood))
	}
	query += orderClause(sort)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select recordings: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Recording, 0)
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Random picks a uniform offset into the id-ordered table in a single
// statement, so the count and the pick see the same snapshot.
func (r *PostgresRepository) Random(ctx context.Context) (*models.Recording, error) {
	query := `SELECT ` + selectColumns + ` FROM recordings
		ORDER BY id
		OFFSET floor(random() * (SELECT count(*) FROM recordings))::bigint
		LIMIT 1`

	rec, err := scanRecording(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM recordings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) AddLikes(ctx context.Context, id int64, delta int) (int, error) {
	query :=
		`UPDATE recordings SET likes_count = likes_count + $2
		 WHERE id = $1
		 RETURNING likes_count
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

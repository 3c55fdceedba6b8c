// Package repomanager provides RepositoryManager implementations for
// PostgreSQL and for the in-memory store, wiring together repository
// constructors, transactions and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/migrations"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/likes"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/uploads"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Recordings returns a recordings.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Recordings(db dbx.DBTX) recordings.Repository {
	return recordings.NewPostgresRepository(db)
}

// Likes returns a likes.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Likes(db dbx.DBTX) likes.Repository {
	return likes.NewPostgresRepository(db)
}

// Uploads returns an uploads.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Uploads(db dbx.DBTX) uploads.Repository {
	return uploads.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Conn() dbx.DBTX {
	return m.db
}

// WithTx runs fn in a read-committed transaction.
func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn dbx.TxFunc) error {
	return dbx.WithTx(ctx, m.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the manager's database.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{db: db}, nil
}

// OpenPostgres opens a pgx-backed *sql.DB for dsn and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

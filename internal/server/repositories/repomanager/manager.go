package repomanager

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/likes"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/uploads"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or to a
// transaction handle handed out by WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the non-transactional handle for single-statement work.
	Conn() dbx.DBTX
	// WithTx runs fn atomically; repositories built from tx take part in it.
	WithTx(ctx context.Context, fn dbx.TxFunc) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	Close() error

	Users(db dbx.DBTX) users.Repository
	Recordings(db dbx.DBTX) recordings.Repository
	Likes(db dbx.DBTX) likes.Repository
	Uploads(db dbx.DBTX) uploads.Repository
}

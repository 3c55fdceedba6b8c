package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/likes"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/memory"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/uploads"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/users"
)

// MemoryRepositoryManager serves every repository from one memory.Store.
// Transactions are serialized and roll back by undoing their own journaled
// writes; writes made through Conn meanwhile are kept.
type MemoryRepositoryManager struct {
	store *memory.Store
	txMu  sync.Mutex
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

// Store exposes the backing store.
func (m *MemoryRepositoryManager) Store() *memory.Store {
	return m.store
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

// Conn returns nil: memory repositories ignore the handle.
func (m *MemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryRepositoryManager) Close() error { return nil }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn dbx.TxFunc) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := memory.NewTx()
	defer func() {
		if p := recover(); p != nil {
			m.store.Rollback(tx)
			panic(p)
		}
		if err != nil {
			m.store.Rollback(tx)
		}
	}()

	return fn(ctx, tx)
}

func (m *MemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	r := memory.NewUsersRepository(m.store)
	if tx, ok := db.(*memory.Tx); ok {
		return r.InTx(tx)
	}
	return r
}

func (m *MemoryRepositoryManager) Recordings(db dbx.DBTX) recordings.Repository {
	r := memory.NewRecordingsRepository(m.store)
	if tx, ok := db.(*memory.Tx); ok {
		return r.InTx(tx)
	}
	return r
}

func (m *MemoryRepositoryManager) Likes(db dbx.DBTX) likes.Repository {
	r := memory.NewLikesRepository(m.store)
	if tx, ok := db.(*memory.Tx); ok {
		return r.InTx(tx)
	}
	return r
}

func (m *MemoryRepositoryManager) Uploads(db dbx.DBTX) uploads.Repository {
	r := memory.NewUploadsRepository(m.store)
	if tx, ok := db.(*memory.Tx); ok {
		return r.InTx(tx)
	}
	return r
}

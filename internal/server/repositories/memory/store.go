// Package memory keeps users, recordings, likes and uploads in process
// memory. It backs the "memory" store mode and the engine's property tests.
package memory

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type likeKey struct {
	recordingID int64
	userID      string
}

// Store is the shared state behind all memory repositories. Every method
// is safe for concurrent use; multi-step atomicity comes from the
// transaction lock held by the repository manager.
type Store struct {
	mu sync.RWMutex

	users      map[string]models.User
	recordings map[int64]models.Recording
	likes      map[likeKey]models.Like
	uploads    map[string]models.Upload

	nextRecordingID int64
	nextLikeID      int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]models.User),
		recordings: make(map[int64]models.Recording),
		likes:      make(map[likeKey]models.Like),
		uploads:    make(map[string]models.Upload),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the timestamp source, used by tests that need
// deterministic creation times.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Tx journals the writes made through one transaction's repositories.
// Rollback undoes only those writes, so concurrent writes outside the
// transaction survive. Id sequences are not rolled back.
type Tx struct {
	// memory repositories never query the handle
	dbx.DBTX

	undo []func()
}

func NewTx() *Tx {
	return &Tx{}
}

// remember records how to restore m[k] to its current value. The caller
// holds s.mu; tx may be nil outside a transaction.
func remember[K comparable, V any](tx *Tx, m map[K]V, k K) {
	if tx == nil {
		return
	}
	old, existed := m[k]
	tx.undo = append(tx.undo, func() {
		if existed {
			m[k] = old
		} else {
			delete(m, k)
		}
	})
}

// Rollback undoes the writes journaled in tx, newest first.
func (s *Store) Rollback(tx *Tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

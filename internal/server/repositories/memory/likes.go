package memory

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type LikesRepository struct {
	s  *Store
	tx *Tx
}

func NewLikesRepository(s *Store) *LikesRepository {
	return &LikesRepository{s: s}
}

// InTx returns a repository whose writes are journaled in tx.
func (r *LikesRepository) InTx(tx *Tx) *LikesRepository {
	return &LikesRepository{s: r.s, tx: tx}
}

func (r *LikesRepository) Get(ctx context.Context, recordingID int64, userID string) (*models.Like, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	like, ok := r.s.likes[likeKey{recordingID, userID}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &like, nil
}

func (r *LikesRepository) Insert(ctx context.Context, recordingID int64, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recordings[recordingID]; !ok {
		return false, fmt.Errorf("db error: recording %d does not exist", recordingID)
	}
	if _, ok := r.s.users[userID]; !ok {
		return false, fmt.Errorf("db error: user %q does not exist", userID)
	}
	key := likeKey{recordingID, userID}
	if _, ok := r.s.likes[key]; ok {
		return false, nil
	}
	remember(r.tx, r.s.likes, key)
	r.s.nextLikeID++
	r.s.likes[key] = models.Like{ID: r.s.nextLikeID, RecordingID: recordingID, UserID: userID}
	return true, nil
}

func (r *LikesRepository) Delete(ctx context.Context, recordingID int64, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := likeKey{recordingID, userID}
	if _, ok := r.s.likes[key]; !ok {
		return false, nil
	}
	remember(r.tx, r.s.likes, key)
	delete(r.s.likes, key)
	return true, nil
}

func (r *LikesRepository) Count(ctx context.Context, recordingID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for k := range r.s.likes {
		if k.recordingID == recordingID {
			n++
		}
	}
	return n, nil
}

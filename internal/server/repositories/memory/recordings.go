package memory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type RecordingsRepository struct {
	s  *Store
	tx *Tx
}

func NewRecordingsRepository(s *Store) *RecordingsRepository {
	return &RecordingsRepository{s: s}
}

// InTx returns a repository whose writes are journaled in tx.
func (r *RecordingsRepository) InTx(tx *Tx) *RecordingsRepository {
	return &RecordingsRepository{s: r.s, tx: tx}
}

func (r *RecordingsRepository) Create(ctx context.Context, rec *models.Recording) (*models.Recording, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[rec.UserID]; !ok {
		return nil, fmt.Errorf("db error: user %q does not exist", rec.UserID)
	}
	r.s.nextRecordingID++
	rec.ID = r.s.nextRecordingID
	rec.LikesCount = 0
	rec.CreatedAt = r.s.now()
	remember(r.tx, r.s.recordings, rec.ID)
	r.s.recordings[rec.ID] = *rec
	return rec, nil
}

func (r *RecordingsRepository) Get(ctx context.Context, id int64) (*models.Recording, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.recordings[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rec, nil
}

func less(sortBy models.Sort, a, b *models.Recording) bool {
	if sortBy == models.SortPopular && a.LikesCount != b.LikesCount {
		return a.LikesCount > b.LikesCount
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (r *RecordingsRepository) List(ctx context.Context, mood *models.Mood, sortBy models.Sort) ([]*models.Recording, error) {
	r.s.mu.RLock()
	result := make([]*models.Recording, 0, len(r.s.recordings))
	for _, rec := range r.s.recordings {
		if mood != nil && rec.Mood != *mood {
			continue
		}
		rec := rec
		result = append(result, &rec)
	}
	r.s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return less(sortBy, result[i], result[j]) })
	return result, nil
}

func (r *RecordingsRepository) Random(ctx context.Context) (*models.Recording, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if len(r.s.recordings) == 0 {
		return nil, common.ErrorNotFound
	}
	ids := make([]int64, 0, len(r.s.recordings))
	for id := range r.s.recordings {
		ids = append(ids, id)
	}
	rec := r.s.recordings[ids[rand.IntN(len(ids))]]
	return &rec, nil
}

func (r *RecordingsRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.recordings)), nil
}

func (r *RecordingsRepository) AddLikes(ctx context.Context, id int64, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.recordings[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	if rec.LikesCount+delta < 0 {
		return 0, fmt.Errorf("db error: likes_count of recording %d would become negative", id)
	}
	remember(r.tx, r.s.recordings, id)
	rec.LikesCount += delta
	r.s.recordings[id] = rec
	return rec.LikesCount, nil
}

package memory

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type UploadsRepository struct {
	s  *Store
	tx *Tx
}

func NewUploadsRepository(s *Store) *UploadsRepository {
	return &UploadsRepository{s: s}
}

// InTx returns a repository whose writes are journaled in tx.
func (r *UploadsRepository) InTx(tx *Tx) *UploadsRepository {
	return &UploadsRepository{s: r.s, tx: tx}
}

func (r *UploadsRepository) CreateOrUpdate(ctx context.Context, upload *models.Upload) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.uploads[upload.StorageKey]
	if ok && existing.Status != models.UploadStatusPending {
		return nil
	}
	u := *upload
	u.Status = models.UploadStatusPending
	if ok {
		u.CreatedAt = existing.CreatedAt
	} else {
		u.CreatedAt = r.s.now()
	}
	remember(r.tx, r.s.uploads, u.StorageKey)
	r.s.uploads[u.StorageKey] = u
	return nil
}

func (r *UploadsRepository) Get(ctx context.Context, key string) (*models.Upload, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.uploads[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UploadsRepository) MarkAttached(ctx context.Context, key string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.uploads[key]
	if !ok {
		return false, nil
	}
	remember(r.tx, r.s.uploads, key)
	u.Status = models.UploadStatusAttached
	r.s.uploads[key] = u
	return true, nil
}

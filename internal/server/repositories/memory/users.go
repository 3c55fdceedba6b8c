package memory

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type UsersRepository struct {
	s  *Store
	tx *Tx
}

func NewUsersRepository(s *Store) *UsersRepository {
	return &UsersRepository{s: s}
}

// InTx returns a repository whose writes are journaled in tx.
func (r *UsersRepository) InTx(tx *Tx) *UsersRepository {
	return &UsersRepository{s: r.s, tx: tx}
}

func (r *UsersRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; ok {
		return nil, common.NewValidationError("id", "user already exists")
	}
	user.CreatedAt = r.s.now()
	remember(r.tx, r.s.users, user.ID)
	r.s.users[user.ID] = *user
	return user, nil
}

func (r *UsersRepository) Get(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

// Package identity issues and remembers the client's anonymous user.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/client/models"
)

// Users is the slice of the API the provider needs.
type Users interface {
	CreateUser(ctx context.Context, seed string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Provider resolves the locally held identity token to a user, creating a
// fresh user when there is no token or the token is stale.
type Provider struct {
	users Users
	store metadata.Repository
	log   logging.Logger
}

func NewProvider(users Users, store metadata.Repository, log logging.Logger) *Provider {
	return &Provider{users: users, store: store, log: log.With("module", "identity")}
}

// GetOrCreate returns the current user. A token the server reports as not
// found is cleared and replaced by a newly created user; any other lookup
// failure is returned and the token is kept.
func (p *Provider) GetOrCreate(ctx context.Context, seed string) (*models.User, error) {
	token, ok, err := p.store.Get(ctx, common.UserIDKey)
	if err != nil {
		return nil, fmt.Errorf("read identity token: %w", err)
	}

	if ok && token != "" {
		user, err := p.users.GetUser(ctx, token)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("resolve identity: %w", err)
		}

		p.log.Warn(ctx, "stored identity no longer exists, creating a new one", "user_id", token)
		if err := p.store.Delete(ctx, common.UserIDKey); err != nil {
			return nil, fmt.Errorf("clear identity token: %w", err)
		}
	}

	user, err := p.users.CreateUser(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}
	if err := p.store.Set(ctx, common.UserIDKey, user.ID); err != nil {
		return nil, fmt.Errorf("save identity token: %w", err)
	}

	p.log.Info(ctx, "identity created", "user_id", user.ID)
	return user, nil
}

// Token returns the stored token without contacting the server.
func (p *Provider) Token(ctx context.Context) (string, bool, error) {
	return p.store.Get(ctx, common.UserIDKey)
}

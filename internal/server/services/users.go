// Package services contains server-side business logic: anonymous identity,
// the engagement store (recordings and likes), feed composition, media
// uploads and demo seeding.
package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	randomSeedLength = 10
	maxSeedLength    = 64
)

// UserService issues anonymous identities.
type UserService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	newID       func() string
	newSeed     func() (string, error)
}

// NewUserService constructs a UserService over the given repositories.
func NewUserService(m repomanager.RepositoryManager, log logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		log:         log.With("module", "users"),
		newID:       uuid.NewString,
		newSeed:     func() (string, error) { return common.RandomSeed(randomSeedLength) },
	}
}

// CreateUser stores a new user. A blank seed is replaced by a random one.
func (s *UserService) CreateUser(ctx context.Context, seed string) (*models.User, error) {
	seed = strings.TrimSpace(seed)
	if utf8.RuneCountInString(seed) > maxSeedLength {
		return nil, common.NewValidationError("avatarSeed", fmt.Sprintf("avatarSeed must be at most %d characters", maxSeedLength))
	}
	if seed == "" {
		var err error
		if seed, err = s.newSeed(); err != nil {
			return nil, fmt.Errorf("error generating seed: %w", err)
		}
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).Create(ctx, &models.User{ID: s.newID(), AvatarSeed: seed})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// GetUser returns common.ErrorNotFound for unknown ids.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Users(s.repomanager.Conn()).Get(ctx, id)
}

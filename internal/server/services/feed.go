package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
)

// FeedService composes recordings with their authors and the viewer's
// like status. It never writes.
type FeedService struct {
	repomanager repomanager.RepositoryManager
}

func NewFeedService(m repomanager.RepositoryManager) *FeedService {
	return &FeedService{repomanager: m}
}

// Compose enriches a single recording. viewerID may be empty.
func (s *FeedService) Compose(ctx context.Context, rec *models.Recording, viewerID string) (*models.EnrichedRecording, error) {
	out, err := s.ComposeAll(ctx, []*models.Recording{rec}, viewerID)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// ComposeAll enriches recs in order. Each author is looked up once; a
// missing author leaves User nil instead of failing.
func (s *FeedService) ComposeAll(ctx context.Context, recs []*models.Recording, viewerID string) ([]*models.EnrichedRecording, error) {
	conn := s.repomanager.Conn()
	usersRepo := s.repomanager.Users(conn)
	likesRepo := s.repomanager.Likes(conn)

	authors := make(map[string]*models.User)
	out := make([]*models.EnrichedRecording, 0, len(recs))

	for _, rec := range recs {
		author, seen := authors[rec.UserID]
		if !seen {
			u, err := usersRepo.Get(ctx, rec.UserID)
			if err != nil && !errors.Is(err, common.ErrorNotFound) {
				return nil, err
			}
			author = u
			authors[rec.UserID] = u
		}

		item := &models.EnrichedRecording{Recording: *rec, User: author}

		if viewerID != "" {
			_, err := likesRepo.Get(ctx, rec.ID, viewerID)
			switch {
			case err == nil:
				item.IsLiked = boolPtr(true)
			case errors.Is(err, common.ErrorNotFound):
				item.IsLiked = boolPtr(false)
			default:
				return nil, err
			}
		}

		out = append(out, item)
	}
	return out, nil
}

func boolPtr(b bool) *bool { return &b }

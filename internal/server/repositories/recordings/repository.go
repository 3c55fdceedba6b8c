package recordings

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, rec *models.Recording) (*models.Recording, error)
	Get(ctx context.Context, id int64) (*models.Recording, error)
	// List returns recordings matching mood (nil means all) in sort order.
	List(ctx context.Context, mood *models.Mood, sort models.Sort) ([]*models.Recording, error)
	// Random returns a uniformly chosen recording or common.ErrorNotFound when empty.
	Random(ctx context.Context) (*models.Recording, error)
	Count(ctx context.Context) (int64, error)
	// AddLikes atomically applies delta to likes_count and returns the new value.
	AddLikes(ctx context.Context, id int64, delta int) (int, error)
}

package uploads

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type Repository interface {
	CreateOrUpdate(ctx context.Context, upload *models.Upload) error
	Get(ctx context.Context, key string) (*models.Upload, error)
	MarkAttached(ctx context.Context, key string) (bool, error)
}

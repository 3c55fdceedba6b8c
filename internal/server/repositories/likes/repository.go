package likes

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type Repository interface {
	// Get returns the like for the pair or common.ErrorNotFound.
	Get(ctx context.Context, recordingID int64, userID string) (*models.Like, error)
	// Insert adds the pair unless it already exists and reports whether a row was added.
	Insert(ctx context.Context, recordingID int64, userID string) (bool, error)
	// Delete removes the pair and reports whether a row was removed.
	Delete(ctx context.Context, recordingID int64, userID string) (bool, error)
	Count(ctx context.Context, recordingID int64) (int, error)
}

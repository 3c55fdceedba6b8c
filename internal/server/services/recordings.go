package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
)

// maxToggleAttempts bounds the delete/insert loop of ToggleLike. Each lost
// race means another transaction committed a change to the same pair.
const maxToggleAttempts = 5

// RecordingService is the engagement store: recordings, likes and the
// like counter kept equal to the number of likes.
type RecordingService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewRecordingService(m repomanager.RepositoryManager, log logging.Logger) *RecordingService {
	return &RecordingService{repomanager: m, log: log.With("module", "recordings")}
}

func validateNewRecording(in models.NewRecording) (models.Mood, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return "", common.NewValidationError("userId", "userId is required")
	}
	if strings.TrimSpace(in.AudioURL) == "" {
		return "", common.NewValidationError("audioUrl", "audioUrl is required")
	}
	if in.Duration < 0 {
		return "", common.NewValidationError("duration", "duration must not be negative")
	}
	return models.ParseMood(in.Mood)
}

// CreateRecording validates in and stores it with a zero like counter.
// When the audio location is an upload issued by this server, the upload
// is marked attached in the same transaction.
func (s *RecordingService) CreateRecording(ctx context.Context, in models.NewRecording) (*models.Recording, error) {
	mood, err := validateNewRecording(in)
	if err != nil {
		return nil, err
	}

	var created *models.Recording
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Get(ctx, in.UserID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewValidationError("userId", "unknown user")
			}
			return err
		}

		rec, err := s.repomanager.Recordings(tx).Create(ctx, &models.Recording{
			UserID:   in.UserID,
			AudioURL: strings.TrimSpace(in.AudioURL),
			Duration: in.Duration,
			Mood:     mood,
		})
		if err != nil {
			return err
		}

		if key := ObjectKeyFromLocation(rec.AudioURL); key != "" {
			if _, err := s.repomanager.Uploads(tx).MarkAttached(ctx, key); err != nil {
				return err
			}
		}

		created = rec
		return nil
	})
	if err != nil {
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating recording: %w", err)
	}

	s.log.Info(ctx, "recording created", "recording_id", created.ID, "mood", created.Mood, "duration", created.Duration)
	return created, nil
}

func (s *RecordingService) GetRecording(ctx context.Context, id int64) (*models.Recording, error) {
	return s.repomanager.Recordings(s.repomanager.Conn()).Get(ctx, id)
}

// ListRecordings returns every recording when mood is nil.
func (s *RecordingService) ListRecordings(ctx context.Context, mood *models.Mood, sort models.Sort) ([]*models.Recording, error) {
	return s.repomanager.Recordings(s.repomanager.Conn()).List(ctx, mood, sort)
}

// GetRandomRecording returns common.ErrorNotFound when the store is empty.
func (s *RecordingService) GetRandomRecording(ctx context.Context) (*models.Recording, error) {
	return s.repomanager.Recordings(s.repomanager.Conn()).Random(ctx)
}

func (s *RecordingService) CountRecordings(ctx context.Context) (int64, error) {
	return s.repomanager.Recordings(s.repomanager.Conn()).Count(ctx)
}

// GetLike returns nil without error when the user does not like the recording.
func (s *RecordingService) GetLike(ctx context.Context, recordingID int64, userID string) (*models.Like, error) {
	like, err := s.repomanager.Likes(s.repomanager.Conn()).Get(ctx, recordingID, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return like, err
}

// ToggleLike flips the (recording, user) membership and moves the counter
// by exactly one in the same transaction.
//
// The membership change is a compare-and-swap: delete the like if present,
// otherwise insert it with ON CONFLICT DO NOTHING. An insert that loses to
// a concurrent insert of the same pair sees that row once the other
// transaction commits, so the loop retries the delete.
func (s *RecordingService) ToggleLike(ctx context.Context, recordingID int64, userID string) (*models.LikeResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, common.NewValidationError("userId", "userId is required")
	}

	var result *models.LikeResult
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		recs := s.repomanager.Recordings(tx)
		likes := s.repomanager.Likes(tx)

		if _, err := recs.Get(ctx, recordingID); err != nil {
			return err
		}
		if _, err := s.repomanager.Users(tx).Get(ctx, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewValidationError("userId", "unknown user")
			}
			return err
		}

		for attempt := 0; attempt < maxToggleAttempts; attempt++ {
			removed, err := likes.Delete(ctx, recordingID, userID)
			if err != nil {
				return err
			}
			if removed {
				n, err := recs.AddLikes(ctx, recordingID, -1)
				if err != nil {
					return err
				}
				result = &models.LikeResult{Success: true, Liked: false, LikesCount: n}
				return nil
			}

			added, err := likes.Insert(ctx, recordingID, userID)
			if err != nil {
				return err
			}
			if added {
				n, err := recs.AddLikes(ctx, recordingID, 1)
				if err != nil {
					return err
				}
				result = &models.LikeResult{Success: true, Liked: true, LikesCount: n}
				return nil
			}

			s.log.Debug(ctx, "like toggle lost a race, retrying", "recording_id", recordingID, "attempt", attempt+1)
		}
		return fmt.Errorf("like membership kept changing after %d attempts", maxToggleAttempts)
	})
	if err != nil {
		var ve *common.ValidationError
		if errors.Is(err, common.ErrorNotFound) || errors.As(err, &ve) {
			return nil, err
		}
		return nil, fmt.Errorf("error toggling like: %w", err)
	}

	s.log.Debug(ctx, "like toggled", "recording_id", recordingID, "liked", result.Liked, "likes", result.LikesCount)
	return result, nil
}

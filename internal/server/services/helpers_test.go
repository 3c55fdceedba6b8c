package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

type memEnv struct {
	rm    *repomanager.MemoryRepositoryManager
	users *UserService
	recs  *RecordingService
	feed  *FeedService
}

func newMemEnv(t *testing.T) *memEnv {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	log := logging.Nop()
	return &memEnv{
		rm:    rm,
		users: NewUserService(rm, log),
		recs:  NewRecordingService(rm, log),
		feed:  NewFeedService(rm),
	}
}

func (e *memEnv) user(t *testing.T) *models.User {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), "")
	require.NoError(t, err)
	return u
}

func (e *memEnv) recording(t *testing.T, userID string, mood models.Mood) *models.Recording {
	t.Helper()
	rec, err := e.recs.CreateRecording(context.Background(), models.NewRecording{
		UserID: userID, AudioURL: "https://cdn.example/a.webm", Duration: 4, Mood: string(mood),
	})
	require.NoError(t, err)
	return rec
}

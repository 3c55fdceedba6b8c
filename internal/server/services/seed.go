package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type demoRecording struct {
	seed     string
	audioURL string
	duration int
	mood     models.Mood
}

var demoRecordings = []demoRecording{
	{seed: "happy-seed", audioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3", duration: 30, mood: models.MoodHappy},
	{seed: "calm-seed", audioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3", duration: 45, mood: models.MoodCalm},
}

// SeedDemoData adds two demo users with one recording each, but only when
// the store has no recordings yet.
func SeedDemoData(ctx context.Context, users *UserService, recordings *RecordingService, log logging.Logger) error {
	n, err := recordings.CountRecordings(ctx)
	if err != nil {
		return fmt.Errorf("error counting recordings: %w", err)
	}
	if n > 0 {
		return nil
	}

	log.Info(ctx, "seeding database")
	for _, d := range demoRecordings {
		u, err := users.CreateUser(ctx, d.seed)
		if err != nil {
			return err
		}
		if _, err := recordings.CreateRecording(ctx, models.NewRecording{
			UserID:   u.ID,
			AudioURL: d.audioURL,
			Duration: d.duration,
			Mood:     string(d.mood),
		}); err != nil {
			return err
		}
	}
	log.Info(ctx, "database seeded", "recordings", len(demoRecordings))
	return nil
}

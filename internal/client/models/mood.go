package models

import (
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/common"
)

// Mood is one label from the closed mood vocabulary.
type Mood string

const (
	MoodHappy    Mood = "Happy"
	MoodSad      Mood = "Sad"
	MoodCalm     Mood = "Calm"
	MoodAngry    Mood = "Angry"
	MoodConfused Mood = "Confused"
	MoodExcited  Mood = "Excited"
	MoodLonely   Mood = "Lonely"
)

// Moods lists the vocabulary in display order.
var Moods = []Mood{MoodHappy, MoodSad, MoodCalm, MoodAngry, MoodConfused, MoodExcited, MoodLonely}

// ParseMood matches s case-insensitively and returns the canonical label.
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	for _, m := range Moods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	if s == "" {
		return "", common.NewValidationError("mood", "mood is required")
	}
	return "", common.NewValidationError("mood", "unknown mood "+s)
}

// Listing orders accepted by GET /api/recordings.
const (
	SortLatest  = "latest"
	SortPopular = "popular"
)

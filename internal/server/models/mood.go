package models

import (
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/common"
)

// Mood is one tag from the closed mood vocabulary.
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

// MoodAll is the list filter meaning "every mood". It is never stored.
const MoodAll = "All"

// Moods lists the vocabulary in display order.
var Moods = []Mood{MoodHappy, MoodSad, MoodCalm, MoodAngry, MoodConfused, MoodExcited, MoodLonely}

// ParseMood matches s case-insensitively against the vocabulary and returns
// the canonical label.
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

// ParseMoodFilter parses a list filter. An empty value or "All" yields
// nil, meaning unfiltered.
func ParseMoodFilter(s string) (*Mood, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, MoodAll) {
		return nil, nil
	}
	m, err := ParseMood(s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Sort is the listing order.
type Sort string

const (
	SortLatest  Sort = "latest"
	SortPopular Sort = "popular"
)

// ParseSort defaults to SortLatest for an empty value.
func ParseSort(s string) (Sort, error) {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortLatest:
		return SortLatest, nil
	case SortPopular:
		return SortPopular, nil
	}
	return "", common.NewValidationError("sort", "sort must be latest or popular")
}

package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMood(t *testing.T) {
	for _, m := range Moods {
		got, err := ParseMood(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMood("  hAPPy ")
	require.NoError(t, err)
	assert.Equal(t, MoodHappy, got)

	for _, bad := range []string{"", "All", "Grumpy"} {
		_, err := ParseMood(bad)
		var ve *common.ValidationError
		require.True(t, errors.As(err, &ve), bad)
		assert.Equal(t, "mood", ve.Field)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	}
}

func TestParseMoodFilter(t *testing.T) {
	f, err := ParseMoodFilter("")
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = ParseMoodFilter("all")
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = ParseMoodFilter("calm")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, MoodCalm, *f)

	_, err = ParseMoodFilter("nope")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortLatest, s)

	s, err = ParseSort("POPULAR")
	require.NoError(t, err)
	assert.Equal(t, SortPopular, s)

	_, err = ParseSort("oldest")
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "sort", ve.Field)
}

func TestEnrichedRecording_JSONShape(t *testing.T) {
	liked := true
	b, err := json.Marshal(EnrichedRecording{
		Recording: Recording{ID: 3, UserID: "u1", AudioURL: "/objects/k", Duration: 12, Mood: MoodSad, LikesCount: 2},
		User:      &User{ID: "u1", AvatarSeed: "seed"},
		IsLiked:   &liked,
	})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.EqualValues(t, 3, m["id"])
	assert.Equal(t, "Sad", m["mood"])
	assert.EqualValues(t, 2, m["likesCount"])
	assert.Equal(t, true, m["isLiked"])
	assert.Equal(t, "seed", m["user"].(map[string]any)["avatarSeed"])

	b, err = json.Marshal(EnrichedRecording{Recording: Recording{ID: 4}})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "isLiked")
	assert.NotContains(t, string(b), `"user"`)
}

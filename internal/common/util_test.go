package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- RandomSeed ----------

func TestRandomSeed_LengthAndAlphabet(t *testing.T) {
	s, err := RandomSeed(8)
	require.NoError(t, err)
	require.Len(t, s, 8)
	for _, r := range s {
		assert.True(t, strings.ContainsRune(seedAlphabet, r), "unexpected rune %q", r)
	}
}

func TestRandomSeed_Distinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		s, err := RandomSeed(8)
		require.NoError(t, err)
		seen[s] = struct{}{}
	}
	assert.Greater(t, len(seen), 95)
}

// ---------- ValidationError ----------

func TestValidationError_IsAndAs(t *testing.T) {
	err := fmt.Errorf("create recording: %w", NewValidationError("mood", "unknown mood"))

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrorNotFound))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "mood", ve.Field)
	assert.Equal(t, "unknown mood", ve.Message)
	assert.Contains(t, err.Error(), "validation error: mood: unknown mood")
}

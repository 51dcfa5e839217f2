package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name         string
		validityTime int64
		expected     bool
	}{
		{
			name:         "Future time in seconds",
			validityTime: time.Now().Add(1 * time.Hour).Unix(),
			expected:     false,
		},
		{
			name:         "Past time in seconds",
			validityTime: time.Now().Add(-1 * time.Hour).Unix(),
			expected:     true,
		},
		{
			name:         "Past time in milliseconds",
			validityTime: time.Now().Add(-1 * time.Hour).UnixMilli(),
			expected:     true,
		},
		{
			name:         "Future time in milliseconds",
			validityTime: time.Now().Add(1 * time.Hour).UnixMilli(),
			expected:     false,
		},
		{
			name:         "Zero validity time",
			validityTime: 0,
			expected:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsExpired(tt.validityTime))
		})
	}
}

func TestParseEpochOrRFC3339(t *testing.T) {
	t.Run("epoch seconds", func(t *testing.T) {
		v, err := ParseEpochOrRFC3339("1700000000")
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), v)
	})

	t.Run("epoch millis", func(t *testing.T) {
		v, err := ParseEpochOrRFC3339("1700000000123")
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), v)
	})

	t.Run("rfc3339", func(t *testing.T) {
		v, err := ParseEpochOrRFC3339("2023-11-14T22:13:20Z")
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), v)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseEpochOrRFC3339("next tuesday")
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseEpochOrRFC3339("  ")
		assert.Error(t, err)
	})
}

func TestNextTimestampMillis_StrictlyIncreasing(t *testing.T) {
	prev := NextTimestampMillis()
	for i := 0; i < 1000; i++ {
		next := NextTimestampMillis()
		assert.Greater(t, next, prev)
		prev = next
	}
}

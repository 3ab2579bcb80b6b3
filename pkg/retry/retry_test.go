package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(time.Millisecond),
	}

	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var calls int
		err := Do(t.Context(), cfg, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		wantErr := errors.New("persistent")

		var calls int
		err := Do(t.Context(), cfg, func() error {
			calls++
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)
		assert.Equal(t, 3, calls)
	})

	t.Run("NonRetryableStopsEarly", func(t *testing.T) {
		wantErr := errors.New("fatal")
		cfg := RetryConfig{
			MaxAttempts: 3,
			Backoff:     LinearBackoff(time.Millisecond),
			ShouldRetry: func(err error) bool { return !errors.Is(err, wantErr) },
		}

		var calls int
		err := Do(t.Context(), cfg, func() error {
			calls++
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, calls)
	})
}

func TestDoWithResult(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 2,
		Backoff:     LinearBackoff(time.Millisecond),
	}

	got, err := DoWithResult(t.Context(), cfg, func() (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

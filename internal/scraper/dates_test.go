package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePublished(t *testing.T) {
	t.Parallel()
	fallback := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	t.Run("rfc3339", func(t *testing.T) {
		got := ParsePublished("2026-08-28T15:04:05Z", fallback)
		require.Equal(t, time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC), got)
	})

	t.Run("human readable", func(t *testing.T) {
		got := ParsePublished("August 28, 2026", fallback)
		require.Equal(t, 2026, got.Year())
		require.Equal(t, time.August, got.Month())
		require.Equal(t, 28, got.Day())
	})

	t.Run("empty falls back", func(t *testing.T) {
		require.Equal(t, fallback, ParsePublished("", fallback))
		require.Equal(t, fallback, ParsePublished("   ", fallback))
	})

	t.Run("garbage falls back", func(t *testing.T) {
		require.Equal(t, fallback, ParsePublished("updated moments ago", fallback))
	})
}

package scraper

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stampClock struct{ now time.Time }

func (c stampClock) Now() time.Time { return c.now }

func sampleReport() CollectionReport {
	articles := []Article{
		{Title: "A", URL: "https://a.example.com/1", Source: "alpha"},
		{Title: "B", URL: "https://b.example.com/1", Source: "beta"},
	}
	return CollectionReport{
		RunID:     "run-1",
		StartedAt: time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC),
		Articles:  articles,
		Outcomes: []ScrapeOutcome{
			{Source: "alpha", Articles: articles[:1], Errors: []string{}, DurationMs: 1200},
			{Source: "beta", Articles: articles[1:], Errors: []string{"one bad link"}, DurationMs: 800},
		},
		TotalErrors: 1,
		WallMs:      1500,
	}
}

func TestFileSystemSink_WritesAllFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	clock := stampClock{now: time.Date(2026, 8, 29, 9, 30, 15, 123e6, time.UTC)}
	sink, err := NewFileSystemSink(dir, clock, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sink.WriteReport(context.Background(), sampleReport()))

	stamp := FileTimestamp(clock.now)
	require.Equal(t, "2026-08-29T09-30-15-123Z", stamp)

	for _, name := range []string{
		"articles-" + stamp + ".json",
		"results-" + stamp + ".json",
		"summary-" + stamp + ".json",
		"articles-latest.json",
		"summary-latest.json",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "expected %s to exist", name)
	}

	timestamped, err := os.ReadFile(filepath.Join(dir, "articles-"+stamp+".json"))
	require.NoError(t, err)
	latest, err := os.ReadFile(filepath.Join(dir, "articles-latest.json"))
	require.NoError(t, err)
	require.Equal(t, timestamped, latest)
}

func TestFileSystemSink_SummaryContents(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sink, err := NewFileSystemSink(dir, stampClock{now: time.Now().UTC()}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, sink.WriteReport(context.Background(), sampleReport()))

	raw, err := os.ReadFile(filepath.Join(dir, "summary-latest.json"))
	require.NoError(t, err)

	var summary struct {
		TotalArticles    int   `json:"total_articles"`
		TotalErrors      int   `json:"total_errors"`
		TotalExecutionMs int64 `json:"total_execution_ms"`
		Sources          []struct {
			Name         string `json:"name"`
			ArticleCount int    `json:"article_count"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(raw, &summary))
	require.Equal(t, 2, summary.TotalArticles)
	require.Equal(t, 1, summary.TotalErrors)
	require.Equal(t, int64(2000), summary.TotalExecutionMs)
	require.Len(t, summary.Sources, 2)
	require.Equal(t, "alpha", summary.Sources[0].Name)
	require.Equal(t, 1, summary.Sources[0].ArticleCount)
}

func TestFileSystemSink_IdempotentLatestFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	clock := stampClock{now: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)}
	sink, err := NewFileSystemSink(dir, clock, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sink.WriteReport(context.Background(), sampleReport()))
	first, err := os.ReadFile(filepath.Join(dir, "articles-latest.json"))
	require.NoError(t, err)

	require.NoError(t, sink.WriteReport(context.Background(), sampleReport()))
	second, err := os.ReadFile(filepath.Join(dir, "articles-latest.json"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestNewFileSystemSink_CreatesNestedDir(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	_, err := NewFileSystemSink(dir, stampClock{now: time.Now()}, zap.NewNop())
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileSystemSink persists collection reports as JSON files in a single
// output directory. Each run writes timestamped article/result/summary
// files plus "latest" copies that are overwritten every run.
type FileSystemSink struct {
	root   string
	clock  Clock
	logger *zap.Logger
}

// NewFileSystemSink returns a sink rooted at dir, creating it if missing.
func NewFileSystemSink(root string, clock Clock, logger *zap.Logger) (*FileSystemSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", root, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemSink{
		root:   root,
		clock:  clock,
		logger: logger,
	}, nil
}

// runSummary is the shape of summary-*.json.
type runSummary struct {
	Timestamp time.Time `json:"timestamp"`
	// TotalArticles and TotalErrors aggregate across all outcomes.
	TotalArticles int `json:"total_articles"`
	TotalErrors   int `json:"total_errors"`
	// TotalExecutionMs sums per-outcome durations; overlapping runs make
	// it larger than the report's wall time.
	TotalExecutionMs int64           `json:"total_execution_ms"`
	Sources          []SourceSummary `json:"sources"`
}

// WriteReport writes all five output files. Writes are sequential and each
// targets a distinct filename, so no locking is needed.
func (s *FileSystemSink) WriteReport(ctx context.Context, report CollectionReport) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	now := time.Now().UTC()
	if s.clock != nil {
		now = s.clock.Now()
	}
	stamp := FileTimestamp(now)

	summary := runSummary{
		Timestamp:        now,
		TotalArticles:    report.TotalArticles(),
		TotalErrors:      report.TotalErrors,
		TotalExecutionMs: report.ExecutionMs(),
		Sources:          report.SourceSummaries(),
	}

	files := []struct {
		name    string
		payload any
	}{
		{fmt.Sprintf("articles-%s.json", stamp), report.Articles},
		{fmt.Sprintf("results-%s.json", stamp), report.Outcomes},
		{fmt.Sprintf("summary-%s.json", stamp), summary},
		{"articles-latest.json", report.Articles},
		{"summary-latest.json", summary},
	}
	for _, f := range files {
		if err := s.writeJSON(f.name, f.payload); err != nil {
			return err
		}
	}
	s.logger.Info("Report persisted",
		zap.String("dir", s.root),
		zap.Int("articles", report.TotalArticles()),
		zap.Int("errors", report.TotalErrors))
	return nil
}

func (s *FileSystemSink) writeJSON(name string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	target := filepath.Join(s.root, name)
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

// FileTimestamp renders t as ISO-8601 with ':' and '.' replaced by '-'
// so the result is safe in filenames on every platform.
func FileTimestamp(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return strings.NewReplacer(":", "-", ".", "-").Replace(iso)
}

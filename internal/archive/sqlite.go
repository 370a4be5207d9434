// Package archive appends collected articles to a local SQLite database
// so runs accumulate into a browsable history.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/newswire-dev/collector/internal/scraper"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id       TEXT NOT NULL,
    source       TEXT NOT NULL,
    url          TEXT NOT NULL,
    title        TEXT NOT NULL,
    published_at TIMESTAMP NOT NULL,
    author       TEXT,
    category     TEXT,
    tags         TEXT,
    summary      TEXT,
    content      TEXT,
    image_url    TEXT,
    archived_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_articles_run ON articles(run_id);
CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source);
`

// Store implements scraper.ReportSink over SQLite.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the archive database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// WriteReport appends every article of the run in one transaction.
func (s *Store) WriteReport(ctx context.Context, report scraper.CollectionReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles
			(run_id, source, url, title, published_at, author, category, tags, summary, content, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range report.Articles {
		if _, err := stmt.ExecContext(ctx,
			report.RunID, a.Source, a.URL, a.Title, a.PublishedAt,
			a.Author, a.Category, strings.Join(a.Tags, ","),
			a.Summary, a.Content, a.ImageURL,
		); err != nil {
			return fmt.Errorf("archive article %s: %w", a.URL, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	s.logger.Debug("Articles archived",
		zap.String("run_id", report.RunID),
		zap.Int("count", len(report.Articles)))
	return nil
}

// CountArticles returns the number of archived articles, optionally
// filtered by run ID.
func (s *Store) CountArticles(ctx context.Context, runID string) (int, error) {
	query := "SELECT COUNT(*) FROM articles"
	args := []any{}
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count archived articles: %w", err)
	}
	return count, nil
}

package scraper

import (
	"context"
	"time"
)

// LoadOptions tunes one page load.
type LoadOptions struct {
	// Timeout bounds the navigation itself.
	Timeout time.Duration
	// Settle is an extra wait after the page reports ready, giving
	// client-side rendering a chance to fill the DOM.
	Settle time.Duration
}

// Fetcher opens browser sessions. Implementations own the underlying
// browser or HTTP client; a Session is the scoped per-run resource.
type Fetcher interface {
	Session(ctx context.Context) (Session, error)
}

// Session loads pages and must be closed on every exit path.
type Session interface {
	Load(ctx context.Context, rawURL string, opts LoadOptions) (string, error)
	Close() error
}

// Extractor parses rendered HTML into a queryable document.
type Extractor interface {
	Parse(html string) (Document, error)
}

// Document answers CSS selector queries against one parsed page.
type Document interface {
	// FirstText returns the trimmed text of the first match.
	FirstText(selector string) (string, bool)
	// Attribute returns the named attribute of the first match.
	Attribute(selector, attr string) (string, bool)
	// All returns the trimmed text of every match, empties dropped.
	All(selector string) []string
	// Attributes returns the named attribute of every match that has it.
	Attributes(selector, attr string) []string
}

// Scraper runs one source end to end. A non-nil error marks the run as
// fatal and eligible for retry; the outcome still carries whatever was
// collected before the failure.
type Scraper interface {
	Name() string
	Run(ctx context.Context) (ScrapeOutcome, error)
}

// ReportSink persists a finished collection report.
type ReportSink interface {
	WriteReport(ctx context.Context, report CollectionReport) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

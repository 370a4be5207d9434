// Package scraper defines the core types shared across the collection
// pipeline: article records, per-site configuration, and run outcomes.
package scraper

import (
	"fmt"
	"time"
)

// RunState represents the lifecycle state of one scraper run as tracked
// by the orchestrator's retry wrapper.
type RunState string

// Run state values reported on progress events and metrics.
const (
	RunStatePending   RunState = "pending"
	RunStateRunning   RunState = "running"
	RunStateSucceeded RunState = "succeeded"
	RunStateFailed    RunState = "failed"
	RunStateExhausted RunState = "exhausted_retries"
)

// Article is one extracted news story. Articles are immutable once built:
// the scraper that constructed one hands it to the orchestrator and never
// touches it again.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content,omitempty"`
	Author      string    `json:"author,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// Selectors maps semantic article fields to CSS queries. ArticleLink and
// Title are mandatory; everything else degrades to an empty field.
type Selectors struct {
	ArticleLink string
	Title       string
	Summary     string
	Content     string
	Author      string
	PublishedAt string
	Category    string
	Tags        string
	Image       string
}

// Pagination controls how a scraper walks listing pages.
type Pagination struct {
	Enabled bool
	// NextSelector locates the "next page" indicator on a listing page.
	// When set and it stops matching, pagination ends early.
	NextSelector string
	MaxPages     int
}

// SiteConfig describes one news source. It is constructed once per scraper
// and never mutated.
type SiteConfig struct {
	Name         string
	BaseURL      string
	Selectors    Selectors
	Pagination   Pagination
	RequestDelay time.Duration
	// RenderJS selects the headless fetcher; server-rendered sources can
	// use the plain HTTP fetcher instead.
	RenderJS bool
}

// Validate enforces the mandatory SiteConfig fields.
func (c SiteConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("site config: name must be set")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("site config %s: base URL must be set", c.Name)
	}
	if c.Selectors.ArticleLink == "" {
		return fmt.Errorf("site config %s: article link selector must be set", c.Name)
	}
	if c.Selectors.Title == "" {
		return fmt.Errorf("site config %s: title selector must be set", c.Name)
	}
	if c.Pagination.Enabled && c.Pagination.MaxPages <= 0 {
		return fmt.Errorf("site config %s: max pages must be > 0 when pagination is enabled", c.Name)
	}
	return nil
}

// ScrapeOutcome is the result of one scraper run, success or partial
// failure. Never mutated after the run that produced it returns.
type ScrapeOutcome struct {
	Source     string    `json:"source"`
	Articles   []Article `json:"articles"`
	Errors     []string  `json:"errors"`
	DurationMs int64     `json:"duration_ms"`
}

// SourceSummary is the per-source line item of the run summary file.
type SourceSummary struct {
	Name         string `json:"name"`
	ArticleCount int    `json:"article_count"`
	ErrorCount   int    `json:"error_count"`
	DurationMs   int64  `json:"duration_ms"`
}

// CollectionReport aggregates every outcome of one collection run.
// Built incrementally by the orchestrator, finalized once, then persisted.
type CollectionReport struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Articles  []Article       `json:"articles"`
	Outcomes  []ScrapeOutcome `json:"outcomes"`
	// TotalErrors sums error counts across outcomes.
	TotalErrors int `json:"total_errors"`
	// WallMs is measured from orchestrator start to finish, independent
	// of the per-outcome duration sum.
	WallMs int64 `json:"wall_ms"`
}

// TotalArticles returns the aggregate article count.
func (r CollectionReport) TotalArticles() int {
	return len(r.Articles)
}

// ExecutionMs sums the per-outcome durations. This is distinct from WallMs:
// outcomes overlap in time, so the sum usually exceeds the wall clock.
func (r CollectionReport) ExecutionMs() int64 {
	var total int64
	for _, out := range r.Outcomes {
		total += out.DurationMs
	}
	return total
}

// SourceSummaries builds the per-source breakdown for the summary file.
func (r CollectionReport) SourceSummaries() []SourceSummary {
	summaries := make([]SourceSummary, 0, len(r.Outcomes))
	for _, out := range r.Outcomes {
		summaries = append(summaries, SourceSummary{
			Name:         out.Source,
			ArticleCount: len(out.Articles),
			ErrorCount:   len(out.Errors),
			DurationMs:   out.DurationMs,
		})
	}
	return summaries
}

// Package orchestrator runs site scrapers in fixed-size concurrent
// batches, retries fatal failures with linear backoff, and aggregates
// every outcome into a single collection report.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newswire-dev/collector/internal/metrics"
	"github.com/newswire-dev/collector/internal/scraper"
)

// Options are the recognized collection knobs. Zero values fall back to
// the documented defaults.
type Options struct {
	// MaxConcurrent caps scrapers per batch. Default 3.
	MaxConcurrent int
	// RetryAttempts is the total attempts per scraper. Default 3.
	RetryAttempts int
	// BatchDelay separates consecutive batches, skipped after the last
	// one. Default 1s.
	BatchDelay time.Duration
	// RetryBackoffBase scales the linear backoff: the wait after attempt
	// n is n times this value. Default 2s.
	RetryBackoffBase time.Duration
	// IncludeContent is informational only; extraction always follows
	// the configured selectors.
	IncludeContent bool
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 3
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = 3
	}
	if o.BatchDelay <= 0 {
		o.BatchDelay = time.Second
	}
	if o.RetryBackoffBase <= 0 {
		o.RetryBackoffBase = 2 * time.Second
	}
	return o
}

// Orchestrator owns a collection run end to end.
type Orchestrator struct {
	sinks  []scraper.ReportSink
	clock  scraper.Clock
	logger *zap.Logger
}

// New builds an Orchestrator. Sinks receive the finished report in order;
// the first sink failure terminates the run.
func New(sinks []scraper.ReportSink, clock scraper.Clock, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		sinks:  sinks,
		clock:  clock,
		logger: logger,
	}
}

// Collect runs all scrapers in batches of at most opts.MaxConcurrent,
// waits for each batch to finish before starting the next, and persists
// the aggregate. Partial failure is not an error: scraper-level problems
// land in the report, and only persistence failures propagate.
func (o *Orchestrator) Collect(ctx context.Context, scrapers []scraper.Scraper, opts Options) (scraper.CollectionReport, error) {
	opts = opts.withDefaults()
	metrics.Init()
	start := time.Now()

	report := scraper.CollectionReport{
		RunID:     uuid.NewString(),
		StartedAt: o.now(),
		Articles:  []scraper.Article{},
		Outcomes:  []scraper.ScrapeOutcome{},
	}
	o.logger.Info("Collection run starting",
		zap.String("run_id", report.RunID),
		zap.Int("scrapers", len(scrapers)),
		zap.Int("max_concurrent", opts.MaxConcurrent))

	batches := partition(scrapers, opts.MaxConcurrent)
	for i, batch := range batches {
		outcomes := o.runBatch(ctx, batch, opts)
		// Append strictly after the batch completes, in declared order,
		// never in completion order.
		for _, out := range outcomes {
			report.Articles = append(report.Articles, out.Articles...)
			report.Outcomes = append(report.Outcomes, out)
			report.TotalErrors += len(out.Errors)
		}
		if i < len(batches)-1 {
			if err := sleepCtx(ctx, opts.BatchDelay); err != nil {
				o.logger.Warn("Inter-batch delay interrupted", zap.Error(err))
				break
			}
		}
	}

	report.WallMs = time.Since(start).Milliseconds()
	o.logger.Info("Collection run finished",
		zap.String("run_id", report.RunID),
		zap.Int("articles", report.TotalArticles()),
		zap.Int("errors", report.TotalErrors),
		zap.Int64("wall_ms", report.WallMs))

	for _, sink := range o.sinks {
		if err := sink.WriteReport(ctx, report); err != nil {
			return report, fmt.Errorf("persist report: %w", err)
		}
	}
	return report, nil
}

// runBatch launches every scraper in the batch concurrently and waits for
// all of them. Results are collected per slot so aggregation order matches
// declaration order.
func (o *Orchestrator) runBatch(ctx context.Context, batch []scraper.Scraper, opts Options) []scraper.ScrapeOutcome {
	outcomes := make([]scraper.ScrapeOutcome, len(batch))
	var wg sync.WaitGroup
	for i, sc := range batch {
		if sc == nil {
			// A slot that could not be scheduled costs one error, not
			// the rest of the run.
			outcomes[i] = scraper.ScrapeOutcome{Errors: []string{"scraper could not be scheduled"}}
			continue
		}
		wg.Add(1)
		go func(i int, sc scraper.Scraper) {
			defer wg.Done()
			metrics.ScraperStarted()
			defer metrics.ScraperStopped()
			outcomes[i] = o.runWithRetry(ctx, sc, opts)
		}(i, sc)
	}
	wg.Wait()

	for i := range outcomes {
		normalize(&outcomes[i])
		metrics.ArticlesCollected(outcomes[i].Source, len(outcomes[i].Articles))
		metrics.ScrapeErrors(outcomes[i].Source, len(outcomes[i].Errors))
	}
	return outcomes
}

// runWithRetry wraps one scraper run with up to opts.RetryAttempts
// attempts. The backoff is linear: attempt n waits n x base before the
// next try. Exhausted retries synthesize an empty outcome carrying the
// last failure's message.
func (o *Orchestrator) runWithRetry(ctx context.Context, sc scraper.Scraper, opts Options) scraper.ScrapeOutcome {
	var lastErr error
	for attempt := 1; attempt <= opts.RetryAttempts; attempt++ {
		out, err := sc.Run(ctx)
		if err == nil {
			if attempt > 1 {
				o.logger.Info("Scraper recovered after retry",
					zap.String("source", sc.Name()),
					zap.Int("attempt", attempt))
			}
			metrics.ScraperRunFinished(sc.Name(), string(scraper.RunStateSucceeded))
			return out
		}
		lastErr = err
		o.logger.Warn("Scraper run failed",
			zap.String("source", sc.Name()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", opts.RetryAttempts),
			zap.Error(err))
		metrics.ScraperRunFinished(sc.Name(), string(scraper.RunStateFailed))
		if attempt < opts.RetryAttempts {
			metrics.RetryScheduled(sc.Name())
			if serr := sleepCtx(ctx, time.Duration(attempt)*opts.RetryBackoffBase); serr != nil {
				break
			}
		}
	}

	msg := "unknown error"
	if lastErr != nil {
		msg = lastErr.Error()
	}
	o.logger.Error("Scraper retries exhausted",
		zap.String("source", sc.Name()),
		zap.String("last_error", msg))
	metrics.ScraperRunFinished(sc.Name(), string(scraper.RunStateExhausted))
	return scraper.ScrapeOutcome{
		Source: sc.Name(),
		Errors: []string{msg},
	}
}

func (o *Orchestrator) now() time.Time {
	if o.clock == nil {
		return time.Now().UTC()
	}
	return o.clock.Now()
}

// partition splits scrapers into consecutive batches of at most size.
func partition(scrapers []scraper.Scraper, size int) [][]scraper.Scraper {
	var batches [][]scraper.Scraper
	for start := 0; start < len(scrapers); start += size {
		end := start + size
		if end > len(scrapers) {
			end = len(scrapers)
		}
		batches = append(batches, scrapers[start:end])
	}
	return batches
}

// normalize keeps the persisted JSON arrays non-null.
func normalize(out *scraper.ScrapeOutcome) {
	if out.Articles == nil {
		out.Articles = []scraper.Article{}
	}
	if out.Errors == nil {
		out.Errors = []string{}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

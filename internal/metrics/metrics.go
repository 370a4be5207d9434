// Package metrics exposes Prometheus collectors for the collection run.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	articlesTotal     *prometheus.CounterVec
	scrapeErrorsTotal *prometheus.CounterVec
	scraperRunsTotal  *prometheus.CounterVec
	retriesTotal      *prometheus.CounterVec
	activeScrapers    prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		articlesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newswire_articles_total",
				Help: "Total articles collected, labeled by source.",
			},
			[]string{"source"},
		)
		scrapeErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newswire_scrape_errors_total",
				Help: "Total per-article and per-scraper errors, labeled by source.",
			},
			[]string{"source"},
		)
		scraperRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newswire_scraper_runs_total",
				Help: "Total scraper runs, labeled by source and final state.",
			},
			[]string{"source", "state"},
		)
		retriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newswire_retries_total",
				Help: "Total retry attempts scheduled, labeled by source.",
			},
			[]string{"source"},
		)
		activeScrapers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "newswire_active_scrapers",
				Help: "Scrapers currently running in the active batch.",
			},
		)
	})
}

// ArticlesCollected records n articles for a source.
func ArticlesCollected(source string, n int) {
	if articlesTotal == nil {
		return
	}
	articlesTotal.WithLabelValues(source).Add(float64(n))
}

// ScrapeErrors records n errors for a source.
func ScrapeErrors(source string, n int) {
	if scrapeErrorsTotal == nil {
		return
	}
	scrapeErrorsTotal.WithLabelValues(source).Add(float64(n))
}

// ScraperRunFinished records the terminal state of one scraper run.
func ScraperRunFinished(source, state string) {
	if scraperRunsTotal == nil {
		return
	}
	scraperRunsTotal.WithLabelValues(source, state).Inc()
}

// RetryScheduled records a scheduled retry for a source.
func RetryScheduled(source string) {
	if retriesTotal == nil {
		return
	}
	retriesTotal.WithLabelValues(source).Inc()
}

// ScraperStarted bumps the active scraper gauge.
func ScraperStarted() {
	if activeScrapers == nil {
		return
	}
	activeScrapers.Inc()
}

// ScraperStopped drops the active scraper gauge.
func ScraperStopped() {
	if activeScrapers == nil {
		return
	}
	activeScrapers.Dec()
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/newswire-dev/collector/internal/api"
	"github.com/newswire-dev/collector/internal/archive"
	"github.com/newswire-dev/collector/internal/clock/system"
	"github.com/newswire-dev/collector/internal/config"
	"github.com/newswire-dev/collector/internal/extractor"
	"github.com/newswire-dev/collector/internal/fetcher/headless"
	"github.com/newswire-dev/collector/internal/fetcher/static"
	"github.com/newswire-dev/collector/internal/logging"
	"github.com/newswire-dev/collector/internal/metrics"
	"github.com/newswire-dev/collector/internal/orchestrator"
	"github.com/newswire-dev/collector/internal/scraper"
	"github.com/newswire-dev/collector/internal/sources"
)

// newScrapeCmd creates and configures the 'scrape' subcommand, which runs
// one full collection and writes the report files.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs a collection across the configured news sources",
		Long: `Runs every requested site scraper in fixed-size concurrent batches,
retries fatal scraper failures with backoff, and writes the aggregated
articles, per-source results, and run summary as JSON files.`,

		RunE: runScrapeCommand,
	}

	cmd.Flags().String("output", "", "output directory for JSON reports")
	cmd.Flags().Int("concurrent", 0, "max scrapers per batch")
	cmd.Flags().Int("retry", 0, "retry attempts per scraper")
	cmd.Flags().Int("delay", 0, "delay between batches in milliseconds")
	cmd.Flags().Bool("include-content", false, "include full article content in output")
	cmd.Flags().String("sources", "", "comma-separated source names (default: all)")
	cmd.Flags().String("metrics-addr", "", "serve /healthz and /metrics on this address during the run")
	cmd.Flags().String("archive", "", "append collected articles to this SQLite database")
	return cmd
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(cmd, &cfg)
	logger := logging.L

	names := cfg.Sources
	if len(names) == 0 {
		names = sources.Names()
	}
	defs, unknown := sources.Resolve(names)
	for _, name := range unknown {
		logger.Warn("Unknown source, skipping", zap.String("source", name))
	}
	if len(defs) == 0 {
		return errors.New("no valid sources resolved")
	}

	scrapers, cleanup, err := buildScrapers(defs, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	sinks, closeSinks, err := buildSinks(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	if cfg.MetricsAddr != "" {
		metrics.Init()
		srv := api.New(cfg.MetricsAddr, logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := srv.Shutdown(shutdownCtx); serr != nil {
				logger.Warn("Ops endpoint shutdown failed", zap.Error(serr))
			}
		}()
	}

	orch := orchestrator.New(sinks, system.New(), logger)
	report, err := orch.Collect(cmd.Context(), scrapers, orchestrator.Options{
		MaxConcurrent:    cfg.MaxConcurrent,
		RetryAttempts:    cfg.RetryAttempts,
		BatchDelay:       cfg.BatchDelay,
		RetryBackoffBase: cfg.RetryBackoffBase,
		IncludeContent:   cfg.IncludeContent,
	})
	if err != nil {
		return fmt.Errorf("run collection: %w", err)
	}

	// Partial failure is not a failure exit: individual error messages
	// live in results-*.json, not on the console.
	fmt.Printf("Collected %d articles with %d errors across %d sources\n",
		report.TotalArticles(), report.TotalErrors, len(report.Outcomes))
	return nil
}

// applyFlagOverrides lets explicit CLI flags win over config file and
// environment values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("concurrent") {
		cfg.MaxConcurrent, _ = flags.GetInt("concurrent")
	}
	if flags.Changed("retry") {
		cfg.RetryAttempts, _ = flags.GetInt("retry")
	}
	if flags.Changed("delay") {
		ms, _ := flags.GetInt("delay")
		cfg.BatchDelay = time.Duration(ms) * time.Millisecond
	}
	if flags.Changed("include-content") {
		cfg.IncludeContent, _ = flags.GetBool("include-content")
	}
	if flags.Changed("sources") {
		raw, _ := flags.GetString("sources")
		cfg.Sources = nil
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Sources = append(cfg.Sources, p)
			}
		}
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("archive") {
		cfg.ArchivePath, _ = flags.GetString("archive")
	}
}

// buildScrapers wires one SiteScraper per definition, sharing a headless
// fetcher across browser-rendered sources and a colly fetcher across the
// rest.
func buildScrapers(defs []sources.Definition, cfg config.Config, logger *zap.Logger) ([]scraper.Scraper, func(), error) {
	ext := extractor.New()
	clk := system.New()
	timeouts := scraper.Timeouts{
		Listing: cfg.ListingTimeout,
		Article: cfg.ArticleTimeout,
		Settle:  cfg.SettleDelay,
	}

	staticFetcher := static.New(static.Config{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.ArticleTimeout,
	}, logger)

	var headlessFetcher *headless.Fetcher
	cleanup := func() {}
	for _, def := range defs {
		if def.Config.RenderJS {
			var err error
			headlessFetcher, err = headless.New(headless.Config{
				MaxParallel: cfg.BrowserParallel,
				UserAgent:   cfg.UserAgent,
				DomainQPS:   cfg.DomainQPS,
			}, logger)
			if err != nil {
				return nil, nil, fmt.Errorf("init headless fetcher: %w", err)
			}
			cleanup = headlessFetcher.Close
			break
		}
	}

	scrapers := make([]scraper.Scraper, 0, len(defs))
	for _, def := range defs {
		var fetcher scraper.Fetcher = staticFetcher
		if def.Config.RenderJS {
			fetcher = headlessFetcher
		}
		sc, err := scraper.NewSiteScraper(def.Config, def.PageURL, fetcher, ext, clk, timeouts, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("build scraper %s: %w", def.Config.Name, err)
		}
		scrapers = append(scrapers, sc)
	}
	return scrapers, cleanup, nil
}

func buildSinks(cfg config.Config, logger *zap.Logger) ([]scraper.ReportSink, func(), error) {
	sink, err := scraper.NewFileSystemSink(cfg.OutputDir, system.New(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init output dir: %w", err)
	}
	sinks := []scraper.ReportSink{sink}
	closeSinks := func() {}

	if cfg.ArchivePath != "" {
		store, err := archive.Open(cfg.ArchivePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open archive: %w", err)
		}
		sinks = append(sinks, store)
		closeSinks = func() {
			if cerr := store.Close(); cerr != nil {
				logger.Warn("Failed to close archive", zap.Error(cerr))
			}
		}
	}
	return sinks, closeSinks, nil
}

// Package config loads and validates collection configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a collection
// run. All values originate from Viper so the collector can be configured
// via files, env vars, or CLI flags.
type Config struct {
	OutputDir        string
	MaxConcurrent    int
	RetryAttempts    int
	BatchDelay       time.Duration
	RetryBackoffBase time.Duration
	IncludeContent   bool
	Sources          []string
	UserAgent        string
	ListingTimeout   time.Duration
	ArticleTimeout   time.Duration
	SettleDelay      time.Duration
	BrowserParallel  int
	DomainQPS        float64
	MetricsAddr      string
	ArchivePath      string
	Development      bool
}

// Load constructs a Config by reading from Viper.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		OutputDir:        v.GetString("collector.output_dir"),
		MaxConcurrent:    v.GetInt("collector.max_concurrent"),
		RetryAttempts:    v.GetInt("collector.retry_attempts"),
		BatchDelay:       v.GetDuration("collector.batch_delay"),
		RetryBackoffBase: v.GetDuration("collector.retry_backoff_base"),
		IncludeContent:   v.GetBool("collector.include_content"),
		Sources:          splitSources(v.GetString("collector.sources")),
		UserAgent:        v.GetString("fetcher.user_agent"),
		ListingTimeout:   v.GetDuration("fetcher.listing_timeout"),
		ArticleTimeout:   v.GetDuration("fetcher.article_timeout"),
		SettleDelay:      v.GetDuration("fetcher.settle_delay"),
		BrowserParallel:  v.GetInt("fetcher.browser_parallel"),
		DomainQPS:        v.GetFloat64("fetcher.domain_qps"),
		MetricsAddr:      v.GetString("ops.metrics_addr"),
		ArchivePath:      v.GetString("ops.archive_path"),
		Development:      v.GetBool("logging.development"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("collector.output_dir must be set")
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("collector.max_concurrent must be > 0")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("collector.retry_attempts must be > 0")
	}
	if c.BatchDelay < 0 {
		return fmt.Errorf("collector.batch_delay must be >= 0")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("fetcher.user_agent must be set")
	}
	if c.ListingTimeout <= 0 {
		return fmt.Errorf("fetcher.listing_timeout must be > 0")
	}
	if c.ArticleTimeout <= 0 {
		return fmt.Errorf("fetcher.article_timeout must be > 0")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("fetcher.settle_delay must be >= 0")
	}
	if c.BrowserParallel < 0 {
		return fmt.Errorf("fetcher.browser_parallel must be >= 0")
	}
	if c.DomainQPS < 0 {
		return fmt.Errorf("fetcher.domain_qps must be >= 0")
	}
	return nil
}

func splitSources(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

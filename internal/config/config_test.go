package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func defaultViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("collector.output_dir", "./data")
	v.SetDefault("collector.max_concurrent", 3)
	v.SetDefault("collector.retry_attempts", 3)
	v.SetDefault("collector.batch_delay", "1s")
	v.SetDefault("collector.retry_backoff_base", "2s")
	v.SetDefault("fetcher.user_agent", "test-agent")
	v.SetDefault("fetcher.listing_timeout", "30s")
	v.SetDefault("fetcher.article_timeout", "15s")
	v.SetDefault("fetcher.settle_delay", "500ms")
	v.SetDefault("fetcher.browser_parallel", 3)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(defaultViper())
	require.NoError(t, err)
	require.Equal(t, "./data", cfg.OutputDir)
	require.Equal(t, 3, cfg.MaxConcurrent)
	require.Equal(t, 3, cfg.RetryAttempts)
	require.Equal(t, time.Second, cfg.BatchDelay)
	require.Equal(t, 2*time.Second, cfg.RetryBackoffBase)
	require.Equal(t, 30*time.Second, cfg.ListingTimeout)
	require.Equal(t, 15*time.Second, cfg.ArticleTimeout)
	require.Equal(t, 500*time.Millisecond, cfg.SettleDelay)
	require.False(t, cfg.IncludeContent)
	require.Empty(t, cfg.Sources)
}

func TestLoad_SourceList(t *testing.T) {
	t.Parallel()
	v := defaultViper()
	v.Set("collector.sources", "cnn, bbc ,,guardian")
	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, []string{"cnn", "bbc", "guardian"}, cfg.Sources)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		set  func(v *viper.Viper)
		want string
	}{
		{"missing output dir", func(v *viper.Viper) { v.Set("collector.output_dir", "") }, "output_dir"},
		{"zero concurrency", func(v *viper.Viper) { v.Set("collector.max_concurrent", 0) }, "max_concurrent"},
		{"zero retries", func(v *viper.Viper) { v.Set("collector.retry_attempts", 0) }, "retry_attempts"},
		{"missing user agent", func(v *viper.Viper) { v.Set("fetcher.user_agent", "") }, "user_agent"},
		{"zero listing timeout", func(v *viper.Viper) { v.Set("fetcher.listing_timeout", "0s") }, "listing_timeout"},
		{"negative qps", func(v *viper.Viper) { v.Set("fetcher.domain_qps", -1.0) }, "domain_qps"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := defaultViper()
			tc.set(v)
			_, err := Load(v)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

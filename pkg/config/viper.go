// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from a config
// file, environment variables, and command-line flags, providing a unified
// configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/newswire-dev/collector/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and
// enables reading from environment variables. Designed to be called once
// at application startup.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/newswire/")
	viper.AddConfigPath("$HOME/.newswire")

	const defaultUA = "newswire-collector/1.0 (+https://github.com/newswire-dev/collector)"
	viper.SetDefault("collector.output_dir", "./data")
	viper.SetDefault("collector.max_concurrent", 3)
	viper.SetDefault("collector.retry_attempts", 3)
	viper.SetDefault("collector.batch_delay", "1s")
	viper.SetDefault("collector.retry_backoff_base", "2s")
	viper.SetDefault("collector.include_content", false)
	viper.SetDefault("collector.sources", "")

	viper.SetDefault("fetcher.user_agent", defaultUA)
	viper.SetDefault("fetcher.listing_timeout", "30s")
	viper.SetDefault("fetcher.article_timeout", "15s")
	viper.SetDefault("fetcher.settle_delay", "500ms")
	viper.SetDefault("fetcher.browser_parallel", 3)
	viper.SetDefault("fetcher.domain_qps", 0.0)

	viper.SetDefault("ops.metrics_addr", "")
	viper.SetDefault("ops.archive_path", "")
	viper.SetDefault("logging.development", true)

	viper.SetEnvPrefix("NEWSWIRE") // e.g. NEWSWIRE_COLLECTOR_OUTPUT_DIR=/tmp/out
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Not fatal: defaults and environment variables still apply.
			logging.L.Debug("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}

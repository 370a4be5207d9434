// Package cmd defines and implements the CLI commands for the newswire
// executable.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/newswire-dev/collector/internal/logging"
	"github.com/newswire-dev/collector/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newswire",
		Short: "A concurrent news article collector.",
		Long: `newswire collects news articles from multiple websites by rendering
pages in a headless browser, extracting structured fields via site-specific
CSS selectors, and persisting results as timestamped JSON.`,

		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.InitLogger(viper.GetBool("logging.development"))
		},
	}

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		}
		config.InitConfig()
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.newswire/config.yaml)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newListSourcesCmd())
	cmd.AddCommand(newInfoCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}

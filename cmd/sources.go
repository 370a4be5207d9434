package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newswire-dev/collector/internal/sources"
)

// newListSourcesCmd enumerates the built-in news sources.
func newListSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-sources",
		Short: "Lists the built-in news sources",
		Run: func(_ *cobra.Command, _ []string) {
			for _, name := range sources.Names() {
				def, _ := sources.Lookup(name)
				mode := "static"
				if def.Config.RenderJS {
					mode = "rendered"
				}
				fmt.Printf("%-10s %s (%s)\n", name, def.Config.BaseURL, mode)
			}
		},
	}
}

// newInfoCmd prints a static description of the tool.
func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describes the collector",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(`newswire collects news articles from a fixed set of websites.
Pages are rendered in a headless browser (or fetched directly for
server-rendered sources), fields are extracted with per-site CSS
selectors, and each run writes timestamped JSON reports plus
articles-latest.json / summary-latest.json into the output directory.

Run "newswire list-sources" to see the available sources and
"newswire scrape --help" for the collection options.`)
		},
	}
}

// Package sources holds the built-in site definitions. Each source is a
// SiteConfig data value plus a listing-URL rule; there is no per-source
// scraping logic.
package sources

import (
	"fmt"
	"sort"
	"strings"

	"github.com/newswire-dev/collector/internal/scraper"
)

// Definition pairs a site's selector table with its listing-URL rule.
type Definition struct {
	Config  scraper.SiteConfig
	PageURL scraper.PageURLFunc
}

// registry maps lowercase source names to their definitions.
var registry = map[string]Definition{
	"cnn":      cnnDefinition(),
	"bbc":      bbcDefinition(),
	"reuters":  reutersDefinition(),
	"guardian": guardianDefinition(),
}

// Names returns all registered source names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the definition for one source name.
func Lookup(name string) (Definition, bool) {
	def, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// Resolve maps a list of source names to definitions, preserving input
// order. Unknown names are returned separately so the caller can log and
// skip them instead of failing the run.
func Resolve(names []string) (defs []Definition, unknown []string) {
	for _, name := range names {
		if def, ok := Lookup(name); ok {
			defs = append(defs, def)
		} else {
			unknown = append(unknown, name)
		}
	}
	return defs, unknown
}

// All returns every definition in name order.
func All() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, name := range Names() {
		defs = append(defs, registry[name])
	}
	return defs
}

// queryPageURL builds the common listing-URL rule: page 1 is the
// canonical listing, later pages append a numeric query parameter.
func queryPageURL(param string) scraper.PageURLFunc {
	return func(baseURL string, page int) string {
		if page <= 1 {
			return baseURL
		}
		sep := "?"
		if strings.Contains(baseURL, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%s%s=%d", baseURL, sep, param, page)
	}
}

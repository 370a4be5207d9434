package sources

import (
	"time"

	"github.com/newswire-dev/collector/internal/scraper"
)

// BBC pages render server side, so the plain HTTP fetcher is enough.
func bbcDefinition() Definition {
	return Definition{
		Config: scraper.SiteConfig{
			Name:    "bbc",
			BaseURL: "https://www.bbc.com/news",
			Selectors: scraper.Selectors{
				ArticleLink: "a[data-testid='internal-link'][href^='/news/articles']",
				Title:       "article h1",
				Summary:     "article p[data-component='text-block']:first-of-type",
				Content:     "article",
				Author:      "span[data-testid='byline-name']",
				PublishedAt: "time[datetime]",
				Category:    "a[data-testid='topic-link']",
				Tags:        "div[data-component='topic-list'] a",
				Image:       "article figure img",
			},
			Pagination: scraper.Pagination{
				Enabled:      true,
				NextSelector: "button[data-testid='pagination-next-button']",
				MaxPages:     3,
			},
			RequestDelay: 500 * time.Millisecond,
			RenderJS:     false,
		},
		PageURL: queryPageURL("page"),
	}
}

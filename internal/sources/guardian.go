package sources

import (
	"time"

	"github.com/newswire-dev/collector/internal/scraper"
)

func guardianDefinition() Definition {
	return Definition{
		Config: scraper.SiteConfig{
			Name:    "guardian",
			BaseURL: "https://www.theguardian.com/world",
			Selectors: scraper.Selectors{
				ArticleLink: "a[data-link-name='article']",
				Title:       "h1[data-gu-name='headline']",
				Summary:     "div[data-gu-name='standfirst'] p",
				Content:     "div[data-gu-name='body']",
				Author:      "a[rel='author']",
				PublishedAt: "details[data-component='meta-date'] summary, span.dcr-u0h1qy",
				Category:    "a[data-link-name='article section']",
				Tags:        "section[data-component='related-topics'] a",
				Image:       "div[data-gu-name='media'] img",
			},
			Pagination: scraper.Pagination{
				Enabled:      true,
				NextSelector: "a[rel='next']",
				MaxPages:     3,
			},
			RequestDelay: 500 * time.Millisecond,
			RenderJS:     true,
		},
		// The Guardian paginates with a path-less query parameter on the
		// section front.
		PageURL: queryPageURL("page"),
	}
}

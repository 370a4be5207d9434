package sources

import (
	"time"

	"github.com/newswire-dev/collector/internal/scraper"
)

func reutersDefinition() Definition {
	return Definition{
		Config: scraper.SiteConfig{
			Name:    "reuters",
			BaseURL: "https://www.reuters.com/world/",
			Selectors: scraper.Selectors{
				ArticleLink: "a[data-testid='Heading']",
				Title:       "h1[data-testid='Heading']",
				Summary:     "div[data-testid='paragraph-0']",
				Content:     "div.article-body__content__17Yit",
				Author:      "a[rel='author']",
				PublishedAt: "time[datetime]",
				Category:    "nav[aria-label='Breadcrumb'] a:last-of-type",
				Tags:        "div[data-testid='tags'] a",
				Image:       "div[data-testid='primary-image'] img",
			},
			Pagination: scraper.Pagination{
				Enabled:      true,
				NextSelector: "button[aria-label='Next stories']",
				MaxPages:     2,
			},
			RequestDelay: time.Second,
			RenderJS:     true,
		},
		PageURL: queryPageURL("page"),
	}
}

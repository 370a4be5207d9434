package sources

import (
	"time"

	"github.com/newswire-dev/collector/internal/scraper"
)

func cnnDefinition() Definition {
	return Definition{
		Config: scraper.SiteConfig{
			Name:    "cnn",
			BaseURL: "https://www.cnn.com/world",
			Selectors: scraper.Selectors{
				ArticleLink: "a.container__link--type-article",
				Title:       "h1.headline__text",
				Summary:     "div.article__content p.paragraph:first-of-type",
				Content:     "div.article__content",
				Author:      "div.byline__names span.byline__name",
				PublishedAt: "div.timestamp",
				Category:    "a.breadcrumb__link",
				Tags:        "div.tags a.tag",
				Image:       "div.image__lede img",
			},
			Pagination: scraper.Pagination{
				Enabled:      true,
				NextSelector: "div.pagination a.pagination__next",
				MaxPages:     3,
			},
			RequestDelay: 500 * time.Millisecond,
			RenderJS:     true,
		},
		PageURL: queryPageURL("page"),
	}
}

package scraper

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParsePublished parses the published-date text scraped off an article
// page. News sites emit every date shape imaginable, so we lean on a
// permissive parser rather than a format table. When the text is absent
// or unparseable the collection time is used instead; callers that care
// about the distinction can compare against fallback.
func ParsePublished(text string, fallback time.Time) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	ts, err := dateparse.ParseAny(text)
	if err != nil {
		return fallback
	}
	return ts
}

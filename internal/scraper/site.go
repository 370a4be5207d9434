package scraper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PageURLFunc computes the listing URL for a page number. Page 1 is the
// canonical listing URL; later pages usually append a source-specific
// query parameter.
type PageURLFunc func(baseURL string, page int) string

// Timeouts bounds the individual page loads performed by a SiteScraper.
type Timeouts struct {
	Listing time.Duration
	Article time.Duration
	Settle  time.Duration
}

// DefaultTimeouts returns the stock load policy: generous listing waits,
// tighter article waits, and a short settle delay for late-rendering DOM.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Listing: 30 * time.Second,
		Article: 15 * time.Second,
		Settle:  500 * time.Millisecond,
	}
}

// SiteScraper is the single generic scraper. Sources differ only in their
// SiteConfig selector table and the injected listing-URL rule, so each
// source is a data value rather than a subtype.
type SiteScraper struct {
	cfg      SiteConfig
	pageURL  PageURLFunc
	fetcher  Fetcher
	extract  Extractor
	clock    Clock
	timeouts Timeouts
	logger   *zap.Logger
}

// NewSiteScraper builds a scraper for one source.
func NewSiteScraper(
	cfg SiteConfig,
	pageURL PageURLFunc,
	fetcher Fetcher,
	extract Extractor,
	clock Clock,
	timeouts Timeouts,
	logger *zap.Logger,
) (*SiteScraper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pageURL == nil {
		return nil, fmt.Errorf("site %s: page URL rule must be set", cfg.Name)
	}
	if fetcher == nil || extract == nil {
		return nil, fmt.Errorf("site %s: fetcher and extractor must be set", cfg.Name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteScraper{
		cfg:      cfg,
		pageURL:  pageURL,
		fetcher:  fetcher,
		extract:  extract,
		clock:    clock,
		timeouts: timeouts,
		logger:   logger.With(zap.String("source", cfg.Name)),
	}, nil
}

// Name returns the source name.
func (s *SiteScraper) Name() string {
	return s.cfg.Name
}

// Run walks the listing pages, visits each distinct article link, and
// returns everything collected. A returned error is fatal (session setup
// or a listing load failure); per-article failures are recorded in the
// outcome and never abort the run. The browser session is released on
// every exit path.
func (s *SiteScraper) Run(ctx context.Context) (ScrapeOutcome, error) {
	start := time.Now()
	out := ScrapeOutcome{Source: s.cfg.Name}

	sess, err := s.fetcher.Session(ctx)
	if err != nil {
		out.Errors = append(out.Errors, fmt.Sprintf("open session: %v", err))
		out.DurationMs = time.Since(start).Milliseconds()
		return out, fmt.Errorf("open session for %s: %w", s.cfg.Name, err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			s.logger.Warn("Failed to close session", zap.Error(cerr))
		}
	}()

	fatal := s.walkPages(ctx, sess, &out)
	out.DurationMs = time.Since(start).Milliseconds()
	if fatal != nil {
		out.Errors = append(out.Errors, fatal.Error())
		return out, fatal
	}
	return out, nil
}

func (s *SiteScraper) walkPages(ctx context.Context, sess Session, out *ScrapeOutcome) error {
	maxPages := s.maxPages()
	seen := make(map[string]struct{})

	for page := 1; page <= maxPages; page++ {
		listingURL := s.pageURL(s.cfg.BaseURL, page)
		s.logger.Debug("Loading listing page",
			zap.Int("page", page),
			zap.String("url", listingURL))

		html, err := sess.Load(ctx, listingURL, LoadOptions{
			Timeout: s.timeouts.Listing,
			Settle:  s.cfg.RequestDelay,
		})
		if err != nil {
			return fmt.Errorf("load listing page %d (%s): %w", page, listingURL, err)
		}
		doc, err := s.extract.Parse(html)
		if err != nil {
			return fmt.Errorf("parse listing page %d: %w", page, err)
		}

		links := s.collectLinks(doc, seen)
		s.logger.Debug("Found article links", zap.Int("page", page), zap.Int("count", len(links)))
		s.scrapeArticles(ctx, sess, links, out)

		if page == maxPages || !s.cfg.Pagination.Enabled {
			break
		}
		if !s.hasNextPage(doc) {
			s.logger.Debug("No next-page indicator, stopping pagination", zap.Int("page", page))
			break
		}
		if err := sleepCtx(ctx, s.cfg.RequestDelay); err != nil {
			return fmt.Errorf("inter-page delay: %w", err)
		}
	}
	return nil
}

// collectLinks extracts article links from a listing page, resolves them
// against the base URL, and drops anything already visited this run.
func (s *SiteScraper) collectLinks(doc Document, seen map[string]struct{}) []string {
	raw := doc.Attributes(s.cfg.Selectors.ArticleLink, "href")
	links := make([]string, 0, len(raw))
	for _, href := range raw {
		resolved, err := ResolveLink(s.cfg.BaseURL, href)
		if err != nil {
			s.logger.Debug("Skipping unresolvable link", zap.String("href", href), zap.Error(err))
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	}
	return links
}

func (s *SiteScraper) scrapeArticles(ctx context.Context, sess Session, links []string, out *ScrapeOutcome) {
	for _, link := range links {
		article, err := s.scrapeArticle(ctx, sess, link)
		if err != nil {
			// One bad link never costs the rest of the batch.
			out.Errors = append(out.Errors, err.Error())
			s.logger.Warn("Article scrape failed", zap.String("url", link), zap.Error(err))
			continue
		}
		if article == nil {
			// Empty title: not an article, not an error.
			continue
		}
		out.Articles = append(out.Articles, *article)
	}
}

// scrapeArticle loads one article page and extracts every configured
// field. A nil, nil return means the page had no usable title and should
// be skipped silently.
func (s *SiteScraper) scrapeArticle(ctx context.Context, sess Session, link string) (*Article, error) {
	html, err := sess.Load(ctx, link, LoadOptions{
		Timeout: s.timeouts.Article,
		Settle:  s.timeouts.Settle,
	})
	if err != nil {
		return nil, fmt.Errorf("load article %s: %w", link, err)
	}
	doc, err := s.extract.Parse(html)
	if err != nil {
		return nil, fmt.Errorf("parse article %s: %w", link, err)
	}

	title, ok := doc.FirstText(s.cfg.Selectors.Title)
	if !ok || title == "" {
		return nil, nil
	}

	article := &Article{
		Title:  title,
		URL:    link,
		Source: s.cfg.Name,
	}
	sel := s.cfg.Selectors
	if sel.Summary != "" {
		article.Summary, _ = doc.FirstText(sel.Summary)
	}
	if sel.Content != "" {
		article.Content, _ = doc.FirstText(sel.Content)
	}
	if sel.Author != "" {
		article.Author, _ = doc.FirstText(sel.Author)
	}
	if sel.Category != "" {
		article.Category, _ = doc.FirstText(sel.Category)
	}
	if sel.Tags != "" {
		article.Tags = doc.All(sel.Tags)
	}
	if sel.Image != "" {
		article.ImageURL, _ = doc.Attribute(sel.Image, "src")
	}

	var dateText string
	if sel.PublishedAt != "" {
		dateText, _ = doc.FirstText(sel.PublishedAt)
	}
	now := s.now()
	article.PublishedAt = ParsePublished(dateText, now)
	if article.PublishedAt.Equal(now) && dateText != "" {
		s.logger.Debug("Unparseable published date, using collection time",
			zap.String("url", link), zap.String("text", dateText))
	}
	return article, nil
}

// hasNextPage reports whether pagination should continue. An unset
// selector means "trust MaxPages"; a set selector that stops matching
// ends pagination early without recording an error.
func (s *SiteScraper) hasNextPage(doc Document) bool {
	if s.cfg.Pagination.NextSelector == "" {
		return true
	}
	_, ok := doc.FirstText(s.cfg.Pagination.NextSelector)
	return ok
}

func (s *SiteScraper) maxPages() int {
	if !s.cfg.Pagination.Enabled {
		return 1
	}
	return s.cfg.Pagination.MaxPages
}

func (s *SiteScraper) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock.Now()
}

// sleepCtx sleeps for d unless the context finishes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

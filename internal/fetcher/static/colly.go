// Package static implements a plain-HTTP fetcher using gocolly, for
// sources whose pages render server side and need no browser.
package static

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/newswire-dev/collector/internal/scraper"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher implements scraper.Fetcher using the Colly collector. Sessions
// share nothing beyond the pooled transport, so any number may be open.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
}

// Session returns a session backed by a cloned collector.
func (f *Fetcher) Session(_ context.Context) (scraper.Session, error) {
	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = true
	return &session{fetcher: f, collector: collector}, nil
}

type session struct {
	fetcher   *Fetcher
	collector *colly.Collector
}

// Load executes a single HTTP GET and applies the settle delay for parity
// with the headless fetcher's timing semantics.
func (s *session) Load(ctx context.Context, rawURL string, opts scraper.LoadOptions) (string, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.fetcher.cfg.Timeout
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	var (
		mu       sync.Mutex
		body     []byte
		fetchErr error
	)
	collector := s.collector.Clone()
	collector.SetRequestTimeout(timeout)
	collector.OnResponse(func(r *colly.Response) {
		mu.Lock()
		body = append([]byte(nil), r.Body...)
		mu.Unlock()
	})
	collector.OnError(func(_ *colly.Response, err error) {
		mu.Lock()
		fetchErr = err
		mu.Unlock()
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("visit %s: %w", rawURL, err)
		}
	}
	mu.Lock()
	html, err := string(body), fetchErr
	mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if opts.Settle > 0 {
		if serr := sleepCtx(ctx, opts.Settle); serr != nil {
			return "", serr
		}
	}
	return html, nil
}

// Close is a no-op; colly collectors hold no per-session resources.
func (s *session) Close() error {
	return nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package headless contains the fetcher that renders pages with a real
// browser via chromedp.
package headless

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/newswire-dev/collector/internal/scraper"
)

// Config controls the behavior of the headless fetcher.
type Config struct {
	// MaxParallel caps concurrently open browser tabs. Zero means no cap.
	MaxParallel int
	UserAgent   string
	// DomainQPS throttles loads per host; zero disables throttling.
	DomainQPS float64
}

// Fetcher implements scraper.Fetcher using chromedp and headless Chrome.
// One Chrome process is shared; each Session gets its own tab.
type Fetcher struct {
	cfg            Config
	limiter        chan struct{}
	allocator      context.Context
	allocCancel    context.CancelFunc
	domainLimiters sync.Map
	logger         *zap.Logger
}

// New creates a headless fetcher backed by chromedp.
func New(cfg Config, logger *zap.Logger) (*Fetcher, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Fetcher{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
		logger:      logger,
	}, nil
}

// Close cancels the allocator context, shutting down the browser.
func (f *Fetcher) Close() {
	f.allocCancel()
}

// Session opens a fresh browser tab. The caller must Close it.
func (f *Fetcher) Session(ctx context.Context) (scraper.Session, error) {
	if err := f.acquire(ctx); err != nil {
		return nil, err
	}
	tabCtx, tabCancel := chromedp.NewContext(f.allocator)
	return &session{
		fetcher:   f,
		tabCtx:    tabCtx,
		tabCancel: tabCancel,
	}, nil
}

type session struct {
	fetcher   *Fetcher
	tabCtx    context.Context
	tabCancel context.CancelFunc
	closeOnce sync.Once
}

// Load navigates the tab and returns the rendered DOM after the page
// reports ready plus the configured settle delay.
func (s *session) Load(ctx context.Context, rawURL string, opts scraper.LoadOptions) (string, error) {
	if err := s.fetcher.waitDomainLimit(ctx, rawURL); err != nil {
		return "", fmt.Errorf("domain rate limit: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	taskCtx, cancelTask := context.WithTimeout(s.tabCtx, timeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	var html string
	actions := []chromedp.Action{
		network.Enable(),
	}
	if ua := s.fetcher.cfg.UserAgent; ua != "" {
		actions = append(actions, emulation.SetUserAgentOverride(ua))
	}
	actions = append(actions,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if opts.Settle > 0 {
		actions = append(actions, chromedp.Sleep(opts.Settle))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return "", fmt.Errorf("chromedp run %s: %w", rawURL, err)
	}
	return html, nil
}

// Close releases the tab and its concurrency slot. Safe to call twice.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.tabCancel()
		s.fetcher.release()
	})
	return nil
}

func (f *Fetcher) acquire(ctx context.Context) error {
	if f.limiter == nil {
		return nil
	}
	select {
	case f.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("browser slot wait canceled: %w", ctx.Err())
	}
}

func (f *Fetcher) release() {
	if f.limiter == nil {
		return
	}
	select {
	case <-f.limiter:
	default:
	}
}

func (f *Fetcher) waitDomainLimit(ctx context.Context, rawURL string) error {
	if f.cfg.DomainQPS <= 0 {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	host := strings.ToLower(parsed.Host)
	val, _ := f.domainLimiters.LoadOrStore(host, rate.NewLimiter(rate.Limit(f.cfg.DomainQPS), 1))
	limiter, ok := val.(*rate.Limiter)
	if !ok {
		return fmt.Errorf("unexpected limiter type %T", val)
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait limiter: %w", err)
	}
	return nil
}

// forwardCancel propagates cancellation from the caller's context into
// the chromedp task context, which hangs off the tab rather than the
// caller.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

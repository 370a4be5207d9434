package static

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/newswire-dev/collector/internal/scraper"
)

func TestFetcher_Load(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><h1>hello %s</h1></body></html>", r.URL.Path)
	}))
	defer srv.Close()

	fetcher := New(Config{UserAgent: "test-agent", Timeout: 5 * time.Second}, zap.NewNop())
	sess, err := fetcher.Session(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	html, err := sess.Load(context.Background(), srv.URL+"/page", scraper.LoadOptions{})
	require.NoError(t, err)
	require.Contains(t, html, "hello /page")
}

func TestFetcher_LoadError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := New(Config{}, zap.NewNop())
	sess, err := fetcher.Session(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.Load(context.Background(), srv.URL, scraper.LoadOptions{})
	require.Error(t, err)
}

func TestFetcher_LoadCanceled(t *testing.T) {
	t.Parallel()
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	fetcher := New(Config{Timeout: 30 * time.Second}, zap.NewNop())
	sess, err := fetcher.Session(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = sess.Load(ctx, srv.URL, scraper.LoadOptions{})
	require.Error(t, err)
}

func TestFetcher_SettleDelayApplied(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html></html>")
	}))
	defer srv.Close()

	fetcher := New(Config{}, zap.NewNop())
	sess, err := fetcher.Session(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	start := time.Now()
	_, err = sess.Load(context.Background(), srv.URL, scraper.LoadOptions{Settle: 60 * time.Millisecond})
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

package champions

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/ibs-source/champions-bot/internal/config"
	"github.com/ibs-source/champions-bot/internal/log"
)

// Fetcher retrieves the raw title holder page
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// PageCache stores page bodies by URL
type PageCache interface {
	Get(ctx context.Context, pageURL string) ([]byte, bool, error)
	Set(ctx context.Context, pageURL string, body []byte) error
}

// HTTPFetcher downloads the page over HTTP
type HTTPFetcher struct {
	http    *resty.Client
	pageURL string
}

// NewHTTPFetcher creates a fetcher for cfg.PageURL
func NewHTTPFetcher(cfg *config.ScrapeConfig) *HTTPFetcher {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html")

	return &HTTPFetcher{http: httpClient, pageURL: cfg.PageURL}
}

// URL returns the page address
func (f *HTTPFetcher) URL() string {
	return f.pageURL
}

// Fetch downloads the page body
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	resp, err := f.http.R().SetContext(ctx).Get(f.pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.pageURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: http %d", f.pageURL, resp.StatusCode())
	}
	return resp.Body(), nil
}

// CachedFetcher serves the page from a cache and falls back to the origin.
// Cache failures are logged and never fail a fetch.
type CachedFetcher struct {
	origin  Fetcher
	cache   PageCache
	pageURL string
	log     *log.Logger
}

// NewCachedFetcher wraps origin with cache, keyed by pageURL
func NewCachedFetcher(origin Fetcher, cache PageCache, pageURL string, logger *log.Logger) *CachedFetcher {
	return &CachedFetcher{origin: origin, cache: cache, pageURL: pageURL, log: logger}
}

// Fetch returns the cached page or downloads and stores it
func (f *CachedFetcher) Fetch(ctx context.Context) ([]byte, error) {
	body, found, err := f.cache.Get(ctx, f.pageURL)
	switch {
	case err != nil:
		f.log.Warn("Page cache read failed: %v", err)
	case found:
		f.log.Debug("Page cache hit for %s", f.pageURL)
		return body, nil
	}

	body, err = f.origin.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := f.cache.Set(ctx, f.pageURL, body); err != nil {
		f.log.Warn("Page cache write failed: %v", err)
	}
	return body, nil
}

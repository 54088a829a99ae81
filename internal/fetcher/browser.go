package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maltedev/dealer-ad-studio/internal/browser"
)

// Renderer is the part of browser.Browser the fetcher needs.
type Renderer interface {
	Render(url string) (finalURL string, status int, html string, err error)
	Close() error
}

// BrowserFetcher renders pages in headless Chromium for dealer sites that
// build their inventory list client-side. Renders share one browser context
// and run one at a time.
type BrowserFetcher struct {
	mu       sync.Mutex
	renderer Renderer
	logger   *slog.Logger
}

func NewBrowserFetcher(opts *browser.Options, logger *slog.Logger) (*BrowserFetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b, err := browser.New(opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return newBrowserFetcher(b, logger), nil
}

func newBrowserFetcher(renderer Renderer, logger *slog.Logger) *BrowserFetcher {
	return &BrowserFetcher{
		renderer: renderer,
		logger:   logger.With("component", "browser_fetcher"),
	}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	final, status, html, err := f.renderer.Render(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if status != 0 && (status < 200 || status > 299) {
		return nil, &StatusError{StatusCode: status}
	}

	f.logger.Debug("page rendered", "url", rawURL, "final_url", final, "status", status)

	return newPage(rawURL, final, status, html), nil
}

func (f *BrowserFetcher) Close() error {
	return f.renderer.Close()
}

package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultAcceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	defaultAcceptLanguage = "en-US,en;q=0.5"
)

type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string
}

// HTTPFetcher downloads pages with a single GET. It does not retry.
type HTTPFetcher struct {
	client *resty.Client
	logger *slog.Logger
}

func NewHTTPFetcher(opts HTTPOptions, logger *slog.Logger) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("Accept", defaultAcceptHeader).
		SetHeader("Accept-Language", defaultAcceptLanguage)

	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &HTTPFetcher{
		client: client,
		logger: logger.With("component", "http_fetcher"),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	startTime := time.Now()

	resp, err := f.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	f.logger.Debug("page fetched",
		"url", rawURL,
		"status", resp.StatusCode(),
		"bytes", len(resp.Body()),
		"duration", time.Since(startTime),
	)

	if !resp.IsSuccess() {
		return nil, &StatusError{StatusCode: resp.StatusCode()}
	}

	final := rawURL
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		final = resp.RawResponse.Request.URL.String()
	}

	return newPage(rawURL, final, resp.StatusCode(), resp.String()), nil
}

package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var ErrFetchFailed = errors.New("failed to fetch page")

// StatusError reports a non-2xx response from the dealership site.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch page: %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrFetchFailed
}

// Page is a fetched inventory page.
type Page struct {
	URL        string
	FinalURL   string
	Origin     string
	StatusCode int
	HTML       string
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// Origin returns scheme://host[:port] of rawURL, or "" when it has none.
func Origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func newPage(requested, final string, status int, html string) *Page {
	if final == "" {
		final = requested
	}
	origin := Origin(final)
	if origin == "" {
		origin = Origin(requested)
	}
	return &Page{
		URL:        requested,
		FinalURL:   final,
		Origin:     origin,
		StatusCode: status,
		HTML:       html,
	}
}

package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/maltedev/dealer-ad-studio/internal/fetcher"
	"github.com/maltedev/dealer-ad-studio/internal/models"
	"github.com/maltedev/dealer-ad-studio/internal/parser"
)

var (
	ErrURLRequired  = errors.New("url is required")
	ErrInvalidURL   = errors.New("invalid url provided")
	ErrScrapeFailed = errors.New("failed to scrape inventory; the website may be blocking automated access")
)

type Service struct {
	fetcher fetcher.Fetcher
	parser  parser.Parser
	logger  *slog.Logger
}

func NewService(f fetcher.Fetcher, p parser.Parser, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher: f,
		parser:  p,
		logger:  logger.With("component", "inventory"),
	}
}

// ValidateURL trims rawURL and checks that it is an absolute http(s) URL.
func ValidateURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrURLRequired
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}

	return u, nil
}

// Scrape fetches the inventory page at rawURL and extracts a snapshot.
// Fetch errors are returned as-is so callers can tell an upstream status
// (fetcher.StatusError) from a blocked or broken site.
func (s *Service) Scrape(ctx context.Context, rawURL string) (*models.InventorySnapshot, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	pageURL := u.String()

	s.logger.Info("scraping inventory", "url", pageURL)

	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		s.logger.Error("failed to fetch inventory page", "url", pageURL, "error", err)
		return nil, err
	}

	baseURL := page.Origin
	if baseURL == "" {
		baseURL = u.Scheme + "://" + u.Host
	}

	snapshot, err := s.parse(page.HTML, pageURL, baseURL)
	if err != nil {
		s.logger.Error("failed to parse inventory page", "url", pageURL, "error", err)
		return nil, err
	}

	s.logger.Info("inventory scraped",
		"url", pageURL,
		"dealership", snapshot.DealershipName,
		"vehicles", len(snapshot.Vehicles),
		"duration", time.Since(startTime),
	)

	return snapshot, nil
}

// ParseHTML extracts a snapshot from HTML that was obtained elsewhere, such
// as a saved page. baseURL defaults to the origin of pageURL.
func (s *Service) ParseHTML(html, pageURL, baseURL string) (*models.InventorySnapshot, error) {
	if baseURL == "" {
		baseURL = fetcher.Origin(pageURL)
	}

	return s.parse(html, pageURL, baseURL)
}

// parse runs the parser and reports any failure, including a panic outside
// the per-candidate guard, as ErrScrapeFailed.
func (s *Service) parse(html, pageURL, baseURL string) (snapshot *models.InventorySnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("parser panicked", "url", pageURL, "panic", r)
			snapshot, err = nil, fmt.Errorf("%w: parser panic: %v", ErrScrapeFailed, r)
		}
	}()

	snapshot, err = s.parser.ParseInventory(html, pageURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}
	return snapshot, nil
}

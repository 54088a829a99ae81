package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/dealer-ad-studio/internal/models"
)

type Parser interface {
	ParseInventory(html, pageURL, baseURL string) (*models.InventorySnapshot, error)
	ExtractVehicles(doc *goquery.Document, baseURL string) []models.Vehicle
}

// DealerParser turns a dealership inventory page into vehicle records. It
// holds no per-page state and is safe for concurrent use.
type DealerParser struct {
	logger *slog.Logger
}

func NewDealerParser(logger *slog.Logger) *DealerParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &DealerParser{
		logger: logger.With("component", "parser"),
	}
}

// ParseInventory parses html fetched from pageURL. Relative links and
// images are resolved against baseURL.
func (p *DealerParser) ParseInventory(html, pageURL, baseURL string) (*models.InventorySnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	name := ExtractDealershipName(doc, pageURL)
	vehicles := p.ExtractVehicles(doc, baseURL)

	return models.NewInventorySnapshot(name, pageURL, vehicles), nil
}

// ExtractVehicles runs the discovery tiers in order and returns the
// deduplicated records of the first tier that commits.
func (p *DealerParser) ExtractVehicles(doc *goquery.Document, baseURL string) []models.Vehicle {
	base := parseBaseURL(baseURL)

	for _, tier := range discoveryTiers {
		result := tier.run(p, doc, base)
		if !result.committed {
			continue
		}

		p.logger.Debug("discovery tier committed",
			"tier", tier.name,
			"vehicles", len(result.records),
		)
		return Deduplicate(result.records)
	}

	return []models.Vehicle{}
}

// safeExtract isolates one candidate so a failure inside it only drops
// that candidate.
func (p *DealerParser) safeExtract(index int, extract func() (models.Vehicle, bool)) (v models.Vehicle, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("skipping candidate after extraction failure",
				"index", index,
				"panic", r,
			)
			v, ok = models.Vehicle{}, false
		}
	}()
	return extract()
}

package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/maltedev/dealer-ad-studio/internal/models"
)

// containerSelectors are the platform-specific listing containers, most
// specific first. The first selector with any match is used for the page.
var containerSelectors = []string{
	".rspotlightItem",
	".spotlightItem",
	".vehicle-card",
	".inventory-listing",
	".srp-list-item",
	"[data-vehicle]",
	".vehicle-item",
	".inventory-item",
	".vehicle-listing",
	".listing-row",
	".hproduct",
	`article[class*="vehicle"]`,
	`div[class*="vehicle-card"]`,
	`li[class*="vehicle"]`,
}

const (
	detailLinkSelector = `a[href*="/vehicle/"], a[href*="/inventory/"], a[href*="/used/"], a[href*="/new/"], a[href*="/car/"], a[href*="vin="], a[href*="stock"]`
	headingSelector    = `h2, h3, h4, h5, .vehicle-title, [class*="title"]`
)

// tierResult carries the records of one discovery tier. committed means the
// cascade stops here, even when records is empty.
type tierResult struct {
	records   []models.Vehicle
	committed bool
}

type discoveryTier struct {
	name string
	run  func(p *DealerParser, doc *goquery.Document, base *url.URL) tierResult
}

var discoveryTiers = []discoveryTier{
	{name: "containers", run: (*DealerParser).discoverContainers},
	{name: "detail_links", run: (*DealerParser).discoverDetailLinks},
	{name: "headings", run: (*DealerParser).discoverHeadings},
}

// discoverContainers commits as soon as one container selector matches,
// whether or not any container yields a vehicle.
func (p *DealerParser) discoverContainers(doc *goquery.Document, base *url.URL) tierResult {
	for _, selector := range containerSelectors {
		containers := doc.Find(selector)
		if containers.Length() == 0 {
			continue
		}

		p.logger.Debug("container selector matched", "selector", selector, "count", containers.Length())

		records := make([]models.Vehicle, 0, containers.Length())
		containers.Each(func(i int, s *goquery.Selection) {
			if v, ok := p.safeExtract(i, func() (models.Vehicle, bool) {
				return extractElement(s, i, base)
			}); ok {
				records = append(records, v)
			}
		})
		return tierResult{records: records, committed: true}
	}
	return tierResult{}
}

// discoverDetailLinks treats every anchor pointing at a vehicle page whose
// text carries a year as one vehicle.
func (p *DealerParser) discoverDetailLinks(doc *goquery.Document, base *url.URL) tierResult {
	var records []models.Vehicle
	doc.Find(detailLinkSelector).Each(func(i int, s *goquery.Selection) {
		if v, ok := p.safeExtract(i, func() (models.Vehicle, bool) {
			return vehicleFromLink(s, base)
		}); ok {
			records = append(records, v)
		}
	})

	records = Deduplicate(records)
	return tierResult{records: records, committed: len(records) > 0}
}

// discoverHeadings is the last resort: any heading with a year, priced and
// linked from its parent.
func (p *DealerParser) discoverHeadings(doc *goquery.Document, base *url.URL) tierResult {
	var records []models.Vehicle
	doc.Find(headingSelector).Each(func(i int, s *goquery.Selection) {
		if v, ok := p.safeExtract(i, func() (models.Vehicle, bool) {
			return vehicleFromHeading(s, i, base)
		}); ok {
			records = append(records, v)
		}
	})

	return tierResult{records: Deduplicate(records), committed: true}
}

func vehicleFromLink(s *goquery.Selection, base *url.URL) (models.Vehicle, bool) {
	text := collapseWhitespace(s.Text())
	year := ExtractYear(text)
	if year == "" {
		return models.Vehicle{}, false
	}

	mm := ParseMakeModel(text, year)
	return models.Vehicle{
		ID:        "vehicle-" + uuid.NewString(),
		Year:      year,
		Make:      mm.Make,
		Model:     mm.Model,
		Trim:      mm.Trim,
		DetailURL: resolveURL(base, s.AttrOr("href", "")),
	}, true
}

// vehicleFromHeading reads the year and make from the heading. The next
// sibling element's text is appended before the make/model split, since
// some templates put the model line right after the heading.
func vehicleFromHeading(s *goquery.Selection, index int, base *url.URL) (models.Vehicle, bool) {
	text := collapseWhitespace(s.Text())
	year := ExtractYear(text)
	if year == "" {
		return models.Vehicle{}, false
	}

	parent := s.Parent()
	sibling := collapseWhitespace(s.Next().Text())

	mm := ParseMakeModel(strings.TrimSpace(text+" "+sibling), year)
	v := models.Vehicle{
		ID:    fmt.Sprintf("vehicle-%d", index),
		Year:  year,
		Make:  mm.Make,
		Model: mm.Model,
		Trim:  mm.Trim,
		Price: ExtractPrice(collapseWhitespace(parent.Text())),
	}

	if href, ok := parent.Find("a").First().Attr("href"); ok {
		v.DetailURL = resolveURL(base, href)
	}

	return v, true
}

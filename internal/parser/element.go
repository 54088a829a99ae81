package parser

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/dealer-ad-studio/internal/models"
)

const (
	structuredYearMakeSelector  = ".vehicle-year-make"
	structuredModelTrimSelector = ".vehicle-model-trim"
	structuredPriceSelector     = ".vehiclePrice"
	structuredDetailSelector    = `a[href*="/vdp/"], a[href*="/vehicle/"], a[href*="/inventory/"]`
	genericTitleSelector        = `h2, h3, h4, .title, .vehicle-title, [class*="title"]`
)

var vdpStockPattern = regexp.MustCompile(`/vdp/(\d+)`)

// elementStrategy is one way of reading a vehicle out of a container. The
// first strategy whose match reports true owns the element: if its extract
// then finds no year the element is discarded, no other strategy is tried.
type elementStrategy struct {
	name    string
	match   func(s *goquery.Selection) bool
	extract func(s *goquery.Selection, index int, base *url.URL) (models.Vehicle, bool)
}

var elementStrategies = []elementStrategy{
	{
		name: "structured",
		match: func(s *goquery.Selection) bool {
			return s.Find(structuredYearMakeSelector).Length() > 0
		},
		extract: extractStructured,
	},
	{
		name:    "generic",
		match:   func(*goquery.Selection) bool { return true },
		extract: extractGeneric,
	},
}

// extractElement runs the strategy cascade against one container.
func extractElement(s *goquery.Selection, index int, base *url.URL) (models.Vehicle, bool) {
	for _, strategy := range elementStrategies {
		if strategy.match(s) {
			return strategy.extract(s, index, base)
		}
	}
	return models.Vehicle{}, false
}

// extractStructured handles the spotlight layout where year and make sit in
// one element and model and trim in another.
func extractStructured(s *goquery.Selection, index int, base *url.URL) (models.Vehicle, bool) {
	yearMakeText := collapseWhitespace(s.Find(structuredYearMakeSelector).First().Text())
	year := ExtractYear(yearMakeText)
	if year == "" {
		return models.Vehicle{}, false
	}

	makeName := collapseWhitespace(removeYear(yearMakeText, year))
	if makeName == "" {
		makeName = models.UnknownValue
	}

	v := models.Vehicle{
		Year:  year,
		Make:  makeName,
		Model: models.UnknownValue,
	}

	modelTrim := strings.Fields(s.Find(structuredModelTrimSelector).First().Text())
	if len(modelTrim) > 0 {
		v.Model = modelTrim[0]
		v.Trim = strings.Join(modelTrim[1:], " ")
	}

	v.Price = ExtractPrice(s.Find(structuredPriceSelector).First().Text())
	v.ImageURL = resolveURL(base, lazyImageSource(s.Find("img").First()))

	if href, ok := s.Find(structuredDetailSelector).First().Attr("href"); ok {
		v.DetailURL = resolveURL(base, href)
	}

	if v.DetailURL != "" {
		v.VIN = ExtractVIN(v.DetailURL)
		if m := vdpStockPattern.FindStringSubmatch(v.DetailURL); len(m) > 1 {
			v.StockNumber = m[1]
		}
	}

	v.ID = vehicleID(v, index)
	return v, true
}

// extractGeneric reads everything from the container's flattened text.
func extractGeneric(s *goquery.Selection, index int, base *url.URL) (models.Vehicle, bool) {
	fullText := collapseWhitespace(s.Text())
	year := ExtractYear(fullText)
	if year == "" {
		return models.Vehicle{}, false
	}

	titleText := collapseWhitespace(s.Find(genericTitleSelector).First().Text())
	if titleText == "" {
		titleText = fullText
	}
	mm := ParseMakeModel(titleText, year)

	v := models.Vehicle{
		Year:        year,
		Make:        mm.Make,
		Model:       mm.Model,
		Trim:        mm.Trim,
		Price:       ExtractPrice(fullText),
		Mileage:     ExtractMileage(fullText),
		VIN:         ExtractVIN(fullText),
		StockNumber: ExtractStockNumber(fullText),
		ImageURL:    resolveURL(base, eagerImageSource(s.Find("img").First())),
	}

	if href, ok := s.Find("a").First().Attr("href"); ok {
		v.DetailURL = resolveURL(base, href)
	}

	v.ID = vehicleID(v, index)
	return v, true
}

// lazyImageSource prefers lazy-load attributes, which many dealer templates
// fill while src holds an inline placeholder.
func lazyImageSource(img *goquery.Selection) string {
	return firstImageAttr(img, "data-src", "data-lazy-src", "src")
}

func eagerImageSource(img *goquery.Selection) string {
	return firstImageAttr(img, "src", "data-src", "data-lazy-src")
}

func firstImageAttr(img *goquery.Selection, attrs ...string) string {
	for _, attr := range attrs {
		value := strings.TrimSpace(img.AttrOr(attr, ""))
		if value == "" || strings.HasPrefix(strings.ToLower(value), "data:") {
			continue
		}
		return value
	}
	return ""
}

func vehicleID(v models.Vehicle, index int) string {
	switch {
	case v.VIN != "":
		return v.VIN
	case v.StockNumber != "":
		return v.StockNumber
	default:
		return fmt.Sprintf("vehicle-%d", index)
	}
}

package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractDealershipName(t *testing.T) {
	const pageURL = "https://www.example-dealer.com/inventory"

	tests := []struct {
		name     string
		html     string
		url      string
		expected string
	}{
		{
			name:     "og site name",
			html:     `<html><head><meta property="og:site_name" content="Joe's Motors"><title>Other | Name</title></head></html>`,
			url:      pageURL,
			expected: "Joe's Motors",
		},
		{
			name: "denylisted og site name falls through to author",
			html: `<html><head>
				<meta property="og:site_name" content="Large Inventory of Trucks">
				<meta name="author" content="Hilltop Cars">
			</head></html>`,
			url:      pageURL,
			expected: "Hilltop Cars",
		},
		{
			name: "too short candidate skipped",
			html: `<html><head>
				<meta property="og:site_name" content="AB">
				<meta name="author" content="Hilltop Cars">
			</head></html>`,
			url:      pageURL,
			expected: "Hilltop Cars",
		},
		{
			name:     "description pattern",
			html:     `<html><head><meta name="description" content="Great deals at Johnson Auto Sales in Austin, TX."></head></html>`,
			url:      pageURL,
			expected: "Johnson Auto Sales",
		},
		{
			name:     "keywords pattern",
			html:     `<html><head><meta name="keywords" content="used cars, Bob's Motors, trucks"></head></html>`,
			url:      pageURL,
			expected: "Bob's Motors",
		},
		{
			name:     "logo alt text",
			html:     `<html><body><img src="/logo.png" alt="Smith Motors Logo"></body></html>`,
			url:      pageURL,
			expected: "Smith Motors Logo",
		},
		{
			name:     "dealer name element",
			html:     `<html><body><div class="site-dealer-name"> Riverside   Cars </div></body></html>`,
			url:      pageURL,
			expected: "Riverside Cars",
		},
		{
			name:     "header heading",
			html:     `<html><body><header><h1>Lakeside Autos</h1></header></body></html>`,
			url:      pageURL,
			expected: "Lakeside Autos",
		},
		{
			name:     "title first segment before pipe",
			html:     `<html><head><title>Oak Street Cars | Used Trucks in Dallas</title></head></html>`,
			url:      pageURL,
			expected: "Oak Street Cars",
		},
		{
			name:     "title first segment before dash",
			html:     `<html><head><title>Pine Valley Cars - Home</title></head></html>`,
			url:      pageURL,
			expected: "Pine Valley Cars",
		},
		{
			name:     "denylisted title falls back to hostname",
			html:     `<html><head><title>Used Cars For Sale | Cheap</title></head></html>`,
			url:      "https://www.johnsautosales.com/inventory",
			expected: "Johns Auto Sales",
		},
		{
			name:     "hostname with motors",
			html:     `<html></html>`,
			url:      "https://bestmotors.net/",
			expected: "Best Motors",
		},
		{
			name:     "hostname ending in auto",
			html:     `<html></html>`,
			url:      "http://cityauto.com",
			expected: "City Auto",
		},
		{
			name:     "hostname with automotive",
			html:     `<html></html>`,
			url:      "https://smithautomotive.com",
			expected: "Smith Automotive",
		},
		{
			name:     "camel case hostname",
			html:     `<html></html>`,
			url:      "https://www.RiverCity.com",
			expected: "River City",
		},
		{
			name:     "unparseable url",
			html:     `<html></html>`,
			url:      "not a url",
			expected: "Dealership",
		},
		{
			name:     "empty url",
			html:     `<html></html>`,
			url:      "",
			expected: "Dealership",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDocument(t, tt.html)
			assert.Equal(t, tt.expected, ExtractDealershipName(doc, tt.url))
		})
	}
}

func TestExtractDealershipName_NeverEmpty(t *testing.T) {
	inputs := []string{"", "::", "https://", "https://www./"}
	for _, in := range inputs {
		name := ExtractDealershipName(mustDocument(t, ""), in)
		assert.NotEmpty(t, name, "url %q", in)
	}
}

func TestIsValidDealershipName(t *testing.T) {
	assert.True(t, isValidDealershipName("Joe's Motors"))
	assert.False(t, isValidDealershipName(""))
	assert.False(t, isValidDealershipName("AB"))
	assert.False(t, isValidDealershipName(strings.Repeat("a", 100)))
	assert.True(t, isValidDealershipName(strings.Repeat("a", 99)))
	assert.False(t, isValidDealershipName("Reliable Used Cars in Ohio"))
	assert.False(t, isValidDealershipName("BUY HERE PAY HERE Lot"))
}

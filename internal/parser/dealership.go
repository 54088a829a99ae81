package parser

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultDealershipName is returned when neither the page nor its URL
// yields a name.
const DefaultDealershipName = "Dealership"

var (
	dealerNamePattern = regexp.MustCompile(`([A-Z][a-z']+(?:\s+[A-Z][a-z']+)*(?:\s+Auto\s+Sales|\s+Motors|\s+Automotive|\s+Auto))`)

	// Phrases that show up in SEO titles and meta tags but are never names.
	dealerNameDenylist = regexp.MustCompile(`(?i)large inventory|used cars for sale|reliable used cars|buy here pay here`)

	camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
)

type nameSource struct {
	name    string
	extract func(doc *goquery.Document) string
}

// dealershipNameSources are tried in order; the first candidate that passes
// isValidDealershipName wins.
var dealershipNameSources = []nameSource{
	{name: "og_site_name", extract: metaContent(`meta[property="og:site_name"]`)},
	{name: "author", extract: metaContent(`meta[name="author"]`)},
	{name: "description", extract: metaPattern(`meta[name="description"]`)},
	{name: "keywords", extract: metaPattern(`meta[name="keywords"]`)},
	{name: "logo_alt", extract: func(doc *goquery.Document) string {
		return doc.Find(`img[alt*="Auto"], img[alt*="Motors"], img[alt*="Dealer"]`).First().AttrOr("alt", "")
	}},
	{name: "dealer_name", extract: firstText(`.dealer-name, .dealership-name, [class*="dealer-name"]`)},
	{name: "header", extract: firstText(`header h1, header .logo-text`)},
	{name: "title", extract: func(doc *goquery.Document) string {
		title := doc.Find("title").First().Text()
		title, _, _ = strings.Cut(title, "|")
		title, _, _ = strings.Cut(title, "-")
		return title
	}},
}

// hostnameExpansions turn run-together hostnames into words. Each applies
// to the first occurrence only.
var hostnameExpansions = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)autosales`), " Auto Sales "},
	{regexp.MustCompile(`(?i)automotive`), " Automotive "},
	{regexp.MustCompile(`(?i)motors`), " Motors "},
	{regexp.MustCompile(`(?i)auto$`), " Auto"},
}

// ExtractDealershipName picks the dealership's display name from page
// metadata and visible branding, falling back to the source URL's hostname
// and finally to DefaultDealershipName. It never returns "".
func ExtractDealershipName(doc *goquery.Document, sourceURL string) string {
	for _, source := range dealershipNameSources {
		candidate := collapseWhitespace(source.extract(doc))
		if isValidDealershipName(candidate) {
			return candidate
		}
	}
	return dealershipNameFromHost(sourceURL)
}

func isValidDealershipName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n <= 2 || n >= 100 {
		return false
	}
	return !dealerNameDenylist.MatchString(name)
}

func dealershipNameFromHost(sourceURL string) string {
	u, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil || u.Hostname() == "" {
		return DefaultDealershipName
	}

	host := u.Hostname()
	if strings.HasPrefix(strings.ToLower(host), "www.") {
		host = host[len("www."):]
	}
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return DefaultDealershipName
	}

	name := label
	for _, exp := range hostnameExpansions {
		if loc := exp.pattern.FindStringIndex(name); loc != nil {
			name = name[:loc[0]] + exp.replacement + name[loc[1]:]
		}
	}
	name = camelBoundary.ReplaceAllString(name, "$1 $2")
	name = collapseWhitespace(name)
	if name == "" {
		return DefaultDealershipName
	}

	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + name[size:]
}

func metaContent(selector string) func(doc *goquery.Document) string {
	return func(doc *goquery.Document) string {
		return doc.Find(selector).First().AttrOr("content", "")
	}
}

// metaPattern pulls a "<Name> Auto Sales|Motors|Automotive|Auto" phrase out
// of a meta tag's content.
func metaPattern(selector string) func(doc *goquery.Document) string {
	return func(doc *goquery.Document) string {
		content := doc.Find(selector).First().AttrOr("content", "")
		return dealerNamePattern.FindString(content)
	}
}

func firstText(selector string) func(doc *goquery.Document) string {
	return func(doc *goquery.Document) string {
		return doc.Find(selector).First().Text()
	}
}

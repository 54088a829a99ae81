package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	yearPattern  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	pricePattern = regexp.MustCompile(`\$(?:\d{1,3}(?:,\d{3})+|\d+)`)
	// "k miles" must be tried before "miles" and "mi". No leading boundary:
	// text joined from sibling nodes can glue the number to a word ("LX45,000 mi").
	mileagePattern = regexp.MustCompile(`(?i)(\d[\d,]*)\s*(k\s*miles|miles|mi)\b`)
	vinPattern     = regexp.MustCompile(`\b[A-HJ-NPR-Z0-9]{17}\b`)
	stockPattern   = regexp.MustCompile(`(?i)\b(?:stock|stk)\b\s*#?\s*:?\s*([A-Z0-9][A-Z0-9-]*)`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// ExtractYear returns the first 4-digit token in 1900-2099, or "".
func ExtractYear(text string) string {
	return yearPattern.FindString(text)
}

// ExtractPrice returns the first dollar amount such as "$12,345", or "".
func ExtractPrice(text string) string {
	return pricePattern.FindString(text)
}

// ExtractMileage returns the first odometer reading normalized to
// "<number> miles". A "k miles" reading is expanded to thousands.
func ExtractMileage(text string) string {
	matches := mileagePattern.FindStringSubmatch(text)
	if len(matches) < 3 {
		return ""
	}

	number := strings.Trim(matches[1], ",")
	if number == "" {
		return ""
	}

	unit := strings.ToLower(matches[2])
	if strings.HasPrefix(unit, "k") {
		if n, err := strconv.Atoi(strings.ReplaceAll(number, ",", "")); err == nil {
			number = formatThousands(n * 1000)
		}
	}

	return number + " miles"
}

// ExtractVIN returns the first 17-character token from the VIN alphabet
// (no I, O or Q), or "".
func ExtractVIN(text string) string {
	return vinPattern.FindString(text)
}

// ExtractStockNumber returns the identifier following a "stock" or "stk"
// label, or "".
func ExtractStockNumber(text string) string {
	matches := stockPattern.FindStringSubmatch(text)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

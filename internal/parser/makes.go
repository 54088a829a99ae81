package parser

import (
	"regexp"
	"strings"

	"github.com/maltedev/dealer-ad-studio/internal/models"
)

// makeEntry is one row of the make catalog. Name is the spelling matched in
// text; Canonical is what gets reported.
type makeEntry struct {
	Name      string
	Canonical string
	pattern   *regexp.Regexp
}

// MakeModel is the result of splitting a title into make, model and trim.
type MakeModel struct {
	Make  string
	Model string
	Trim  string
}

// makeCatalog is scanned in order and the first entry found in the text wins,
// so earlier rows take precedence over later ones ("Dodge" before "Ram").
var makeCatalog = newMakeCatalog(
	"Acura", "Alfa Romeo", "Audi", "BMW", "Buick", "Cadillac",
	"Chevrolet", "Chevy=Chevrolet", "Chrysler", "Dodge", "Ferrari", "Fiat",
	"Ford", "Genesis", "GMC", "Honda", "Hyundai", "Infiniti", "Jaguar", "Jeep",
	"Kia", "Lamborghini", "Land Rover", "Lexus", "Lincoln", "Maserati", "Mazda",
	"McLaren", "Mercedes-Benz", "Mercedes=Mercedes-Benz", "Mini", "Mitsubishi",
	"Nissan", "Porsche", "Ram", "Rolls-Royce", "Subaru", "Tesla", "Toyota",
	"Volkswagen", "VW=Volkswagen", "Volvo",
)

func newMakeCatalog(rows ...string) []makeEntry {
	entries := make([]makeEntry, 0, len(rows))
	for _, row := range rows {
		name, canonical, aliased := strings.Cut(row, "=")
		if !aliased {
			canonical = name
		}
		entries = append(entries, makeEntry{
			Name:      name,
			Canonical: canonical,
			pattern:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`),
		})
	}
	return entries
}

// ParseMakeModel removes the first year token equal to year from text, finds the
// first catalog make, and splits what is left into model (first word) and
// trim (the rest). Make and model default to "Unknown", trim to "".
func ParseMakeModel(text, year string) MakeModel {
	result := MakeModel{
		Make:  models.UnknownValue,
		Model: models.UnknownValue,
	}

	clean := collapseWhitespace(removeYear(text, year))

	for _, entry := range makeCatalog {
		loc := entry.pattern.FindStringIndex(clean)
		if loc == nil {
			continue
		}
		result.Make = entry.Canonical
		clean = collapseWhitespace(clean[:loc[0]] + " " + clean[loc[1]:])
		break
	}

	fields := strings.Fields(clean)
	if len(fields) > 0 {
		result.Model = fields[0]
		result.Trim = strings.Join(fields[1:], " ")
	}

	return result
}

// removeYear cuts the first whole year token matching year, so digits inside
// longer numbers such as stock "20201" are left alone.
func removeYear(text, year string) string {
	if year == "" {
		return text
	}
	for _, loc := range yearPattern.FindAllStringIndex(text, -1) {
		if text[loc[0]:loc[1]] == year {
			return text[:loc[0]] + " " + text[loc[1]:]
		}
	}
	return text
}

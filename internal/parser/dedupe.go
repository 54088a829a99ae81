package parser

import (
	"strings"

	"github.com/maltedev/dealer-ad-studio/internal/models"
)

// Deduplicate keeps the first record for each (year, make, model, identity)
// key, where identity is the VIN, else the stock number, else the detail URL.
// Records with none of the three share an empty identity, so two listings of
// the same year/make/model without identifiers collapse into one.
func Deduplicate(vehicles []models.Vehicle) []models.Vehicle {
	seen := make(map[string]struct{}, len(vehicles))
	unique := make([]models.Vehicle, 0, len(vehicles))

	for _, v := range vehicles {
		key := dedupeKey(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, v)
	}

	return unique
}

func dedupeKey(v models.Vehicle) string {
	identity := v.VIN
	if identity == "" {
		identity = v.StockNumber
	}
	if identity == "" {
		identity = v.DetailURL
	}
	return strings.Join([]string{v.Year, v.Make, v.Model, identity}, "\x1f")
}

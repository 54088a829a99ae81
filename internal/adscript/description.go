package adscript

import (
	"fmt"
	"strings"

	"github.com/maltedev/dealer-ad-studio/internal/models"
)

const promptTemplate = `
Create a %s for the following vehicle:

VEHICLE: %s

DEALERSHIP: %s

TARGET AUDIENCE: %s - %s

INSTRUCTIONS: %s

Write a compelling, unique ad that speaks directly to this audience. Make it memorable and action-oriented.

Respond with ONLY the ad script, no additional commentary or explanations.
`

// BuildVehicleDescription renders v as ". "-joined sentence fragments,
// skipping every optional attribute that is empty.
func BuildVehicleDescription(v models.Vehicle) string {
	parts := []string{v.Title()}

	add := func(value, format string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf(format, value))
		}
	}

	add(v.Trim, "%s trim")
	add(v.Price, "priced at %s")
	add(v.Mileage, "with %s")
	add(v.ExteriorColor, "in %s")
	add(v.Engine, "featuring a %s engine")
	add(v.Transmission, "%s transmission")
	add(v.Drivetrain, "%s")
	if len(v.Features) > 0 {
		add(strings.Join(v.Features, ", "), "Key features: %s")
	}
	add(v.Description, "Additional details: %s")

	return strings.Join(parts, ". ")
}

func buildPrompt(format AdFormat, audience Audience, vehicleDescription, dealershipName string) string {
	return fmt.Sprintf(promptTemplate,
		format.Name,
		vehicleDescription,
		dealershipName,
		audience.Name,
		audience.Description,
		format.Instructions,
	)
}

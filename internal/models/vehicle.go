package models

import (
	"time"
)

// UnknownValue is used for make and model when they cannot be parsed.
const UnknownValue = "Unknown"

type Vehicle struct {
	ID            string   `json:"id"`
	Year          string   `json:"year"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	Trim          string   `json:"trim,omitempty"`
	Price         string   `json:"price,omitempty"`
	Mileage       string   `json:"mileage,omitempty"`
	ExteriorColor string   `json:"exteriorColor,omitempty"`
	InteriorColor string   `json:"interiorColor,omitempty"`
	Engine        string   `json:"engine,omitempty"`
	Transmission  string   `json:"transmission,omitempty"`
	Drivetrain    string   `json:"drivetrain,omitempty"`
	FuelType      string   `json:"fuelType,omitempty"`
	VIN           string   `json:"vin,omitempty"`
	StockNumber   string   `json:"stockNumber,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	DetailURL     string   `json:"detailUrl,omitempty"`
	Features      []string `json:"features,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// InventorySnapshot is the result of one scrape. It is built once and not
// modified after it is handed to the caller.
type InventorySnapshot struct {
	DealershipName string    `json:"dealershipName"`
	DealershipURL  string    `json:"dealershipUrl"`
	Vehicles       []Vehicle `json:"vehicles"`
	ScrapedAt      time.Time `json:"scrapedAt"`
}

func NewInventorySnapshot(dealershipName, dealershipURL string, vehicles []Vehicle) *InventorySnapshot {
	if vehicles == nil {
		vehicles = make([]Vehicle, 0)
	}
	return &InventorySnapshot{
		DealershipName: dealershipName,
		DealershipURL:  dealershipURL,
		Vehicles:       vehicles,
		ScrapedAt:      time.Now().UTC(),
	}
}

// Title returns "<year> <make> <model>".
func (v *Vehicle) Title() string {
	return v.Year + " " + v.Make + " " + v.Model
}

func (v *Vehicle) Validate() []string {
	var errors []string

	if v.Year == "" {
		errors = append(errors, "year is required")
	}

	if v.Make == "" {
		errors = append(errors, "make is required")
	}

	if v.Model == "" {
		errors = append(errors, "model is required")
	}

	return errors
}

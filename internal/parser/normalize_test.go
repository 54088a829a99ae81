package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "year at start", text: "2021 Toyota Camry SE", expected: "2021"},
		{name: "year in sentence", text: "Certified 1998 Honda Accord", expected: "1998"},
		{name: "first of two years", text: "2019/2020 Ford F-150", expected: "2019"},
		{name: "outside range", text: "Model 1899 or 2100", expected: ""},
		{name: "embedded in longer number", text: "Stock 120205", expected: ""},
		{name: "no digits", text: "Call for details", expected: ""},
		{name: "empty", text: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractYear(tt.text))
		})
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "thousands separator with trailing words", text: "$12,345 OBO", expected: "$12,345"},
		{name: "no separator", text: "Now only $9999!", expected: "$9999"},
		{name: "millions", text: "Price: $1,250,000", expected: "$1,250,000"},
		{name: "first price wins", text: "Was $25,000 now $23,500", expected: "$25,000"},
		{name: "malformed group stops early", text: "$1,23", expected: "$1"},
		{name: "trailing comma ignored", text: "Only $8,500, today", expected: "$8,500"},
		{name: "no amount", text: "Call for price $", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractPrice(tt.text))
		})
	}
}

func TestExtractMileage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "mi abbreviation", text: "45,210 mi", expected: "45,210 miles"},
		{name: "miles capitalized", text: "Odometer 12000 Miles", expected: "12000 miles"},
		{name: "no space before unit", text: "1,200mi.", expected: "1,200 miles"},
		{name: "k miles expanded", text: "only 45k miles", expected: "45,000 miles"},
		{name: "k miles with space", text: "120 K Miles", expected: "120,000 miles"},
		{name: "number glued to preceding word", text: "LX45,000 mi", expected: "45,000 miles"},
		{name: "label glued to number", text: "Odometer45000 miles", expected: "45000 miles"},
		{name: "word starting with mi is not a unit", text: "2020 Mini Cooper", expected: ""},
		{name: "no mileage", text: "2020 Honda Civic", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractMileage(tt.text))
		})
	}
}

func TestExtractVIN(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "labelled", text: "VIN: 1HGCM82633A004352", expected: "1HGCM82633A004352"},
		{name: "inside url", text: "https://dealer.com/vdp/2T1BURHE0JC123456/", expected: "2T1BURHE0JC123456"},
		{name: "contains forbidden letter I", text: "VIN 1HGCM82633A00435I", expected: ""},
		{name: "contains forbidden letter O", text: "VIN 1HGCM8263OA004352", expected: ""},
		{name: "lowercase rejected", text: "vin 1hgcm82633a004352", expected: ""},
		{name: "too long", text: "1HGCM82633A0043521", expected: ""},
		{name: "too short", text: "1HGCM82633A00435", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractVIN(tt.text))
		})
	}
}

func TestExtractStockNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "hash and colon", text: "Stock #: A1234", expected: "A1234"},
		{name: "stk with colon", text: "STK: 98-77", expected: "98-77"},
		{name: "hash without space", text: "stock#P5521", expected: "P5521"},
		{name: "plain space", text: "Stock 44120", expected: "44120"},
		{name: "label inside a longer word", text: "Stocking fee waived", expected: ""},
		{name: "label with nothing after", text: "In Stock", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractStockNumber(tt.text))
		})
	}
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", formatThousands(0))
	assert.Equal(t, "999", formatThousands(999))
	assert.Equal(t, "1,000", formatThousands(1000))
	assert.Equal(t, "45,000", formatThousands(45000))
	assert.Equal(t, "1,234,567", formatThousands(1234567))
}

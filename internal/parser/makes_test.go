package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMakeModel(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		year     string
		expected MakeModel
	}{
		{
			name:     "make model trim",
			text:     "2020 Honda Civic LX",
			year:     "2020",
			expected: MakeModel{Make: "Honda", Model: "Civic", Trim: "LX"},
		},
		{
			name:     "multi word trim",
			text:     "2021 Toyota Camry XSE V6 Sedan",
			year:     "2021",
			expected: MakeModel{Make: "Toyota", Model: "Camry", Trim: "XSE V6 Sedan"},
		},
		{
			name:     "year inside a longer number is kept",
			text:     "Stock 20201 2020 Honda Civic",
			year:     "2020",
			expected: MakeModel{Make: "Honda", Model: "Stock", Trim: "20201 Civic"},
		},
		{
			name:     "two word make",
			text:     "2019 Land Rover Range Rover Sport",
			year:     "2019",
			expected: MakeModel{Make: "Land Rover", Model: "Range", Trim: "Rover Sport"},
		},
		{
			name:     "hyphenated make",
			text:     "2022 Mercedes-Benz C-Class C300",
			year:     "2022",
			expected: MakeModel{Make: "Mercedes-Benz", Model: "C-Class", Trim: "C300"},
		},
		{
			name:     "alias reports canonical make",
			text:     "2018 Chevy Silverado 1500 LT",
			year:     "2018",
			expected: MakeModel{Make: "Chevrolet", Model: "Silverado", Trim: "1500 LT"},
		},
		{
			name:     "short alias",
			text:     "VW Golf GTI",
			year:     "",
			expected: MakeModel{Make: "Volkswagen", Model: "Golf", Trim: "GTI"},
		},
		{
			name:     "case insensitive",
			text:     "2020 toyota camry",
			year:     "2020",
			expected: MakeModel{Make: "Toyota", Model: "camry"},
		},
		{
			name:     "earlier catalog entry wins",
			text:     "2017 Dodge Ram 1500",
			year:     "2017",
			expected: MakeModel{Make: "Dodge", Model: "Ram", Trim: "1500"},
		},
		{
			name:     "make later in text",
			text:     "Used 2016 Ford Mustang GT",
			year:     "2016",
			expected: MakeModel{Make: "Ford", Model: "Used", Trim: "Mustang GT"},
		},
		{
			name:     "unknown make keeps first word as model",
			text:     "2020 Polestar 2 Long Range",
			year:     "2020",
			expected: MakeModel{Make: "Unknown", Model: "Polestar", Trim: "2 Long Range"},
		},
		{
			name:     "year only",
			text:     "2020",
			year:     "2020",
			expected: MakeModel{Make: "Unknown", Model: "Unknown"},
		},
		{
			name:     "make only",
			text:     "2015   Jeep  ",
			year:     "2015",
			expected: MakeModel{Make: "Jeep", Model: "Unknown"},
		},
		{
			name:     "make must be a whole word",
			text:     "2019 Kiawah Edition",
			year:     "2019",
			expected: MakeModel{Make: "Unknown", Model: "Kiawah", Trim: "Edition"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMakeModel(tt.text, tt.year))
		})
	}
}

func TestParseMakeModel_Deterministic(t *testing.T) {
	first := ParseMakeModel("2020 Ford Mustang EcoBoost Premium", "2020")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ParseMakeModel("2020 Ford Mustang EcoBoost Premium", "2020"))
	}
	assert.Equal(t, "Ford", first.Make)
}

func TestMakeCatalog_Order(t *testing.T) {
	require.NotEmpty(t, makeCatalog)
	assert.Equal(t, "Acura", makeCatalog[0].Name)
	assert.Equal(t, "Volvo", makeCatalog[len(makeCatalog)-1].Name)

	index := make(map[string]int, len(makeCatalog))
	for i, entry := range makeCatalog {
		index[entry.Name] = i
	}

	assert.Less(t, index["Chevrolet"], index["Chevy"])
	assert.Less(t, index["Dodge"], index["Ram"])
	assert.Less(t, index["Mercedes-Benz"], index["Mercedes"])
	assert.Less(t, index["Volkswagen"], index["VW"])
	assert.Equal(t, "Mercedes-Benz", makeCatalog[index["Mercedes"]].Canonical)
}

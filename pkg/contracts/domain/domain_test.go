package domain

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestFormatDateRange(t *testing.T) {
	from := time.Date(2022, 5, 1, 13, 0, 0, 0, time.UTC)
	to := time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2022-05-01 to 2022-06-15", FormatDateRange(from, to))
}

func TestCaseRecord_Key(t *testing.T) {
	a := CaseRecord{Country: "Spain", CountryCode: "ES", Source: "TESSy", DateRange: "r", ConfirmedCases: 3}
	b := a
	b.ConfirmedCases = 9
	assert.Equal(t, a.Key(), b.Key(), "counts are not part of the key")

	b.Source = "Media"
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestAgeRange(t *testing.T) {
	assert.Equal(t, "15~24", AgeRange{Low: 15, High: 24}.String())

	v := validator.New()
	tests := []struct {
		name  string
		r     AgeRange
		valid bool
	}{
		{"range", AgeRange{Low: 15, High: 24}, true},
		{"single age", AgeRange{Low: 85, High: 85}, true},
		{"negative low", AgeRange{Low: -1, High: 4}, false},
		{"reversed", AgeRange{Low: 24, High: 15}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.r)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAggregationKey_Less(t *testing.T) {
	a := AggregationKey{Country: "Spain", CountryCode: "ES", Source: "Media"}
	b := AggregationKey{Country: "Spain", CountryCode: "ES", Source: "TESSy"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
	assert.True(t, AggregationKey{Country: "Austria", Source: "Z"}.Less(a))
}

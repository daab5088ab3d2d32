package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero value", input: 0.0, expected: "0"},
		{name: "full rate", input: 100.0, expected: "100"},
		{name: "one third", input: 100.0 / 3.0, expected: "33.333333333333336"},
		{name: "short decimal", input: 12.5, expected: "12.5"},
		{name: "small decimal", input: 0.001234, expected: "0.001234"},
		{name: "negative decimal", input: -789.123, expected: "-789.123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{name: "zero", input: 0, expected: "0"},
		{name: "positive", input: 1300, expected: "1300"},
		{name: "large", input: 9223372036854775807, expected: "9223372036854775807"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatInt(tt.input))
		})
	}
}

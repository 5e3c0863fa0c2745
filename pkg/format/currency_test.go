package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "R$ 0,00"},
		{"Small", 4.9, "R$ 4,90"},
		{"Thousands", 1234.56, "R$ 1.234,56"},
		{"Millions", 1234567.891, "R$ 1.234.567,89"},
		{"Negative", -2500, "-R$ 2.500,00"},
		{"Rounds half up", 0.125, "R$ 0,13"},
		{"Negative cents round to zero", -0.001, "R$ 0,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "0,00"},
		{-0.004, "0,00"},
		{999.999, "1.000,00"},
		{-1234.5, "-1.234,50"},
	}

	for _, tt := range tests {
		if got := NumericCurrency(tt.amount); got != tt.expected {
			t.Errorf("NumericCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestPercentAndLiters(t *testing.T) {
	if got := Percent(12.5); got != "12,5%" {
		t.Errorf("Percent(12.5) = %q", got)
	}
	if got := Percent(100); got != "100%" {
		t.Errorf("Percent(100) = %q", got)
	}
	if got := Liters(472.5); got != "472,5 L" {
		t.Errorf("Liters(472.5) = %q", got)
	}
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		value    float64
		digits   int
		expected string
	}{
		{3.14159, 2, "3,14"},
		{7, 0, "7"},
		{0.5, 1, "0,5"},
	}
	for _, tt := range tests {
		if got := Decimal(tt.value, tt.digits); got != tt.expected {
			t.Errorf("Decimal(%v, %d) = %q, expected %q", tt.value, tt.digits, got, tt.expected)
		}
	}
}

// Package format renders amounts for display in Brazilian conventions.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency returns a currency string with the real sign and Brazilian
// separators (e.g., "R$ 1.234,56" or "-R$ 1.234,56").
func Currency(amount float64) string {
	rounded := cents(amount)
	if rounded.IsNegative() {
		return "-R$ " + formatPositiveCurrency(rounded.Abs())
	}
	return "R$ " + formatPositiveCurrency(rounded)
}

// NumericCurrency returns a currency string without a symbol but with
// separators (e.g., "-1.234,56").
func NumericCurrency(amount float64) string {
	rounded := cents(amount)
	if rounded.IsNegative() {
		return "-" + formatPositiveCurrency(rounded.Abs())
	}
	return formatPositiveCurrency(rounded)
}

// Percent renders a percentage value such as 12.5 as "12,5%".
func Percent(value float64) string {
	return Decimal(value, 1) + "%"
}

// Liters renders a volume such as 472.5 as "472,5 L".
func Liters(value float64) string {
	return Decimal(value, 1) + " L"
}

// cents rounds half away from zero to two decimals.
func cents(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

func formatPositiveCurrency(value decimal.Decimal) string {
	parts := strings.SplitN(value.StringFixed(2), ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte('.')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "," + decPart
}

// Decimal renders a number with Brazilian separators and at most digits
// fraction digits.
func Decimal(value float64, digits int) string {
	return printer.Sprint(number.Decimal(value, number.MaxFractionDigits(digits)))
}

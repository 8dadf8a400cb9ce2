// internal/receipt/money.go
package receipt

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "R$"

// FormatAmount renders a value with comma decimals and dot thousands: 1.234,50
func FormatAmount(value decimal.Decimal) string {
	fixed := value.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if value.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatDeduction renders an amount taken off the total with a single sign:
// -R$ 2,50 for a discount, +R$ 2,00 when the deduction is negative.
func FormatDeduction(value decimal.Decimal) string {
	if value.Round(2).IsNegative() {
		return "+" + FormatCurrency(value.Abs())
	}
	return "-" + FormatCurrency(value)
}

// FormatCurrency prefixes FormatAmount with the currency symbol: R$ 25,00
func FormatCurrency(value decimal.Decimal) string {
	return currencySymbol + " " + FormatAmount(value)
}

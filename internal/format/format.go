// Package format renders amounts for display. Values are rounded here
// only; the analytics core never rounds.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money formats amount as US dollars, e.g. "$1,234.56" or "-$5.75".
func Money(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	return sign + "$" + groupThousands(whole) + "." + frac
}

// Percent formats p (already scaled to 0-100) with one decimal place.
func Percent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

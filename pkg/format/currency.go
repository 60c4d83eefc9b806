// Package format provides display formatting helpers for amounts shown in
// reports and CLI output.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Euro returns an amount formatted the way the Spanish locale writes currency:
// rounded to whole euros, dot thousands separators, trailing symbol
// (e.g. "-1.234.567 €").
func Euro(amount float64) string {
	formatted := groupThousands(math.Abs(amount))
	if amount < 0 {
		return "-" + formatted + " €"
	}
	return formatted + " €"
}

// Percent returns a percentage with one decimal place (e.g. "32,5 %").
// The Spanish locale uses a comma decimal separator.
func Percent(value float64) string {
	formatted := fmt.Sprintf("%.1f", value)
	formatted = strings.Replace(formatted, ".", ",", 1)
	return formatted + " %"
}

func groupThousands(value float64) string {
	intPart := fmt.Sprintf("%.0f", value)

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

	return intPart
}

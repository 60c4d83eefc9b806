// Package annuity provides the amortization math shared by the affordability
// engine and the property comparison: a loan is modeled as an annuity with
// monthly compounding, solved either for the principal a payment can support
// or for the payment a principal requires.
package annuity

import (
	"math"

	"viabilidad/pkg/constants"
)

// Principal returns the loan amount a fixed monthly payment can support over
// the given term at the given annual interest rate (%). A zero or negative
// rate or term yields 0 by definition, not a computed small number.
func Principal(payment float64, termYears int, annualRatePercent float64) float64 {
	if annualRatePercent <= 0 || termYears <= 0 {
		return 0
	}

	monthlyRate := annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
	n := float64(termYears * constants.MonthsPerYear)

	if monthlyRate == 0 {
		return payment * n
	}
	return payment * (1 - math.Pow(1+monthlyRate, -n)) / monthlyRate
}

// Payment returns the monthly payment required to amortize a principal over
// the given term at the given annual interest rate (%). The inverse of
// Principal under the same annuity model. A zero or negative term yields 0;
// a zero rate divides the principal evenly across the term.
func Payment(principal float64, termYears int, annualRatePercent float64) float64 {
	if termYears <= 0 {
		return 0
	}

	monthlyRate := annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
	n := float64(termYears * constants.MonthsPerYear)

	if monthlyRate <= 0 {
		return principal / n
	}
	power := math.Pow(1+monthlyRate, n)
	return principal * (monthlyRate * power) / (power - 1)
}

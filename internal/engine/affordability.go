// Package engine implements the affordability calculator: it converts
// household income, age and expense inputs into the maximum monthly payment,
// loan term, loan amount and ideal purchase price, applying the special
// financing condition rules. The computation is pure; every call returns a
// fresh Result and identical inputs yield identical outputs.
package engine

import (
	"viabilidad/pkg/annuity"
	"viabilidad/pkg/constants"
	"viabilidad/pkg/mathutil"
)

// Result is an immutable snapshot of one affordability computation. It is
// superseded by recomputation, never mutated.
type Result struct {
	MaxMonthlyPayment          float64 `json:"maxMonthlyPayment"`
	MaxLoanTermYears           int     `json:"maxLoanTermYears"`
	LoanTermYears              int     `json:"loanTermYears"`
	MaxLoanAmount              float64 `json:"maxLoanAmount"`
	IdealPurchasePrice         float64 `json:"idealPurchasePrice"`
	IdealPurchasePrice90       float64 `json:"idealPurchasePrice90"`
	MeetsSpecialConditions     bool    `json:"meetsSpecialConditions"`
	MeetsSpecialConditionsBase bool    `json:"meetsSpecialConditionsBase"`
	TotalIncome                float64 `json:"totalIncome"`
	MonthlyExpenses            float64 `json:"monthlyExpenses"`
}

// FinancingPercentage returns the loan-to-value the result was computed with.
func (r *Result) FinancingPercentage() float64 {
	if r.MeetsSpecialConditions {
		return constants.FinancingPercentageSpecial
	}
	return constants.FinancingPercentageStandard
}

// Compute derives the affordability result for a household at the given
// annual interest rate (%). It returns nil when the inputs are insufficient
// to compute anything (non-positive combined income or non-positive younger
// holder age); callers must treat that as "not yet computable", not a fault.
func Compute(input Input, interestRatePercent float64) *Result {
	age1 := input.Holder1.Age

	var age2 int
	if input.Holders == 2 {
		age2 = input.Holder2.Age
	}

	totalIncome := input.TotalMonthlyIncome()

	// A second holder with a non-positive age is treated as absent for the
	// term derivation.
	youngerAge := age1
	if age2 > 0 && age2 < age1 {
		youngerAge = age2
	}

	if totalIncome <= 0 || youngerAge <= 0 {
		return nil
	}

	expenses := input.MonthlyExpenses
	netIncome := mathutil.Max(totalIncome-expenses, 0)

	// A household reporting no expenses tolerates a higher payment-to-income
	// ratio than one with stated expenses. The threshold is deliberately
	// discrete, not a smoothing function.
	debtRatio := constants.DebtRatioNoExpenses
	if expenses > 0 {
		debtRatio = constants.DebtRatioWithExpenses
	}
	payment := netIncome * debtRatio

	termFromAge := constants.RetirementAge - youngerAge
	if termFromAge < 1 {
		termFromAge = 1
	}
	maxTerm := termFromAge
	if maxTerm > constants.MaxLoanTermYears {
		maxTerm = constants.MaxLoanTermYears
	}

	anyHolderUnder36 := age1 < constants.SpecialConditionsMaxAge ||
		(input.Holders == 2 && age2 < constants.SpecialConditionsMaxAge)
	meetsIncomeThreshold := totalIncome > constants.SpecialConditionsMinIncome
	loanForCheck := annuity.Principal(payment, maxTerm, interestRatePercent)

	meetsBase := anyHolderUnder36 && meetsIncomeThreshold &&
		loanForCheck > constants.SpecialConditionsMinLoan
	meetsSpecial := meetsBase && !input.Use90Financing

	termToUse := maxTerm
	if input.TermPreference == "30" && maxTerm > constants.SpecialConditionsTermYears {
		termToUse = constants.SpecialConditionsTermYears
	}

	finalTerm := termToUse
	if meetsSpecial {
		finalTerm = constants.SpecialConditionsTermYears
	}

	loanAmount := annuity.Principal(payment, finalTerm, interestRatePercent)

	financingPercentage := constants.FinancingPercentageStandard
	if meetsSpecial {
		financingPercentage = constants.FinancingPercentageSpecial
	}

	return &Result{
		MaxMonthlyPayment:          payment,
		MaxLoanTermYears:           maxTerm,
		LoanTermYears:              finalTerm,
		MaxLoanAmount:              loanAmount,
		IdealPurchasePrice:         loanAmount / financingPercentage,
		IdealPurchasePrice90:       loanAmount / constants.FinancingPercentageStandard,
		MeetsSpecialConditions:     meetsSpecial,
		MeetsSpecialConditionsBase: meetsBase,
		TotalIncome:                totalIncome,
		MonthlyExpenses:            expenses,
	}
}

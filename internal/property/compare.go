// Package property evaluates candidate properties against a computed
// affordability result: financing amount, funds required up front, monthly
// payment and debt-to-income ratio, plus the small comparison list the agent
// works with during a client session.
package property

import (
	"errors"

	"viabilidad/internal/engine"
	"viabilidad/internal/itp"
	"viabilidad/pkg/annuity"
	"viabilidad/pkg/constants"
)

// Comparison is one evaluated candidate property.
type Comparison struct {
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Region            string  `json:"region"`
	FinancingAmount   float64 `json:"financingAmount"`
	DownPayment       float64 `json:"downPayment"`
	TransferTax       float64 `json:"transferTax"`
	RequiredFunds     float64 `json:"requiredFunds"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
	DebtToIncomeRatio float64 `json:"debtToIncomeRatio"`
	RegionResolved    bool    `json:"regionResolved"`
	IsFavorite        bool    `json:"isFavorite,omitempty"`
}

// ErrNoAffordability is returned when a property is evaluated before an
// affordability result exists.
var ErrNoAffordability = errors.New("affordability result required before evaluating a property")

// Evaluate derives the comparison figures for a candidate property. The
// required funds are the down payment plus transfer tax plus the fixed
// notary/registry costs; the monthly payment amortizes the financed amount
// over the chosen loan term.
func Evaluate(name string, price float64, region string, result *engine.Result, input engine.Input, table *itp.Table, interestRatePercent float64) (Comparison, error) {
	if result == nil {
		return Comparison{}, ErrNoAffordability
	}

	financingPercentage := result.FinancingPercentage()
	financingAmount := price * financingPercentage
	downPayment := price * (1 - financingPercentage)

	assessment := table.Estimate(price, region, input)
	requiredFunds := downPayment + assessment.Tax + constants.FixedPurchaseCosts

	monthlyPayment := annuity.Payment(financingAmount, result.LoanTermYears, interestRatePercent)

	totalMonthlyDebt := result.MonthlyExpenses + monthlyPayment
	ratio := 0.0
	if result.TotalIncome > 0 {
		ratio = totalMonthlyDebt / result.TotalIncome * constants.PercentageMultiplier
	}

	return Comparison{
		Name:              name,
		Price:             price,
		Region:            region,
		FinancingAmount:   financingAmount,
		DownPayment:       downPayment,
		TransferTax:       assessment.Tax,
		RequiredFunds:     requiredFunds,
		MonthlyPayment:    monthlyPayment,
		DebtToIncomeRatio: ratio,
		RegionResolved:    assessment.Resolved,
	}, nil
}

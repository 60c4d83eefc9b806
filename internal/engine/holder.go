package engine

import "viabilidad/pkg/constants"

// HolderProfile describes one mortgage applicant.
type HolderProfile struct {
	MonthlyIncome    float64 `json:"monthlyIncome" yaml:"monthlyIncome"`
	AnnualPayments   int     `json:"annualPayments" yaml:"annualPayments"` // pay periods per year: 12, 14 or 15
	Age              int     `json:"age" yaml:"age"`
	EmploymentStatus string  `json:"employmentStatus,omitempty" yaml:"employmentStatus,omitempty"`
}

// AnnualIncome returns the holder's yearly income across all pay periods.
func (h HolderProfile) AnnualIncome() float64 {
	return h.MonthlyIncome * float64(h.AnnualPayments)
}

// EffectiveMonthlyIncome returns the yearly income spread over twelve months,
// which is the figure every affordability rule works with.
func (h HolderProfile) EffectiveMonthlyIncome() float64 {
	return h.AnnualIncome() / constants.MonthsPerYear
}

// Input aggregates the household data the engine computes from. A second
// holder is considered only when Holders is 2; its income and age are
// excluded from every computation otherwise.
type Input struct {
	Holders         int           `json:"holders" yaml:"holders"` // 1 or 2
	Holder1         HolderProfile `json:"holder1" yaml:"holder1"`
	Holder2         HolderProfile `json:"holder2,omitempty" yaml:"holder2,omitempty"`
	MonthlyExpenses float64       `json:"monthlyExpenses" yaml:"monthlyExpenses"`
	TermPreference  string        `json:"termPreference,omitempty" yaml:"termPreference,omitempty"` // "max" (default) or "30"
	Use90Financing  bool          `json:"use90Financing,omitempty" yaml:"use90Financing,omitempty"`
}

// TotalMonthlyIncome returns the combined effective monthly income of the
// qualifying holders.
func (in Input) TotalMonthlyIncome() float64 {
	total := in.Holder1.EffectiveMonthlyIncome()
	if in.Holders == 2 {
		total += in.Holder2.EffectiveMonthlyIncome()
	}
	return total
}

// TotalAnnualIncome returns the combined annual income of the qualifying
// holders, the figure the tax bonus income conditions are checked against.
func (in Input) TotalAnnualIncome() float64 {
	total := in.Holder1.AnnualIncome()
	if in.Holders == 2 {
		total += in.Holder2.AnnualIncome()
	}
	return total
}

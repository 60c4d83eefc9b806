package itp

import (
	"viabilidad/internal/engine"
	"viabilidad/pkg/constants"
)

// Assessment is the outcome of a tax estimate. Resolved is false when the
// region is not in the table; the tax is then zero. That silent fallback is
// deliberate, but callers get the flag so they can surface it.
type Assessment struct {
	Tax      float64 `json:"tax"`
	Resolved bool    `json:"resolved"`
}

type holder struct {
	age          int
	annualIncome float64
}

// Estimate computes the transfer tax for a property at the given price in the
// given region. With two holders the price is split evenly and each half is
// taxed at that holder's own resolved rate, modeling jointly-owned property
// where each owner's personal bracket applies to their nominal half.
func (t *Table) Estimate(price float64, region string, input engine.Input) Assessment {
	rates, ok := t.Lookup(region)
	if !ok {
		return Assessment{}
	}

	holder1 := holder{age: input.Holder1.Age, annualIncome: input.Holder1.AnnualIncome()}
	holder2 := holder{age: input.Holder2.Age, annualIncome: input.Holder2.AnnualIncome()}
	jointIncome := input.TotalAnnualIncome()

	switch input.Holders {
	case 1:
		rate := rates.resolveRate(holder1, price, holder1, holder2, holder1.annualIncome, 1)
		return Assessment{Tax: price * rate / constants.PercentageMultiplier, Resolved: true}
	case 2:
		halfPrice := price / 2
		rate1 := rates.resolveRate(holder1, price, holder1, holder2, jointIncome, 2)
		rate2 := rates.resolveRate(holder2, price, holder1, holder2, jointIncome, 2)
		tax := halfPrice*rate1/constants.PercentageMultiplier +
			halfPrice*rate2/constants.PercentageMultiplier
		return Assessment{Tax: tax, Resolved: true}
	}

	// Degenerate holder count: tax the full price at the general rate.
	return Assessment{Tax: price * rates.General / constants.PercentageMultiplier, Resolved: true}
}

// resolveRate scans the bonuses in listed order and applies the first one
// whose conditions all pass. First match, not best rate: the table order is
// significant, so this must not be turned into a lowest-rate selection.
func (r RegionRate) resolveRate(h holder, price float64, h1, h2 holder, income float64, numHolders int) float64 {
	for _, bonus := range r.Bonuses {
		if bonus.qualifies(h, price, h1, h2, income, numHolders) {
			return bonus.Rate
		}
	}
	return r.General
}

func (b Bonus) qualifies(h holder, price float64, h1, h2 holder, income float64, numHolders int) bool {
	if b.MaxAge > 0 && h.age >= b.MaxAge {
		return false
	}
	// The full property price is checked, not the per-holder share.
	if b.MaxPropertyPrice > 0 && price > b.MaxPropertyPrice {
		return false
	}
	if numHolders == 1 && b.MaxIncome > 0 && h.annualIncome > b.MaxIncome {
		return false
	}
	if numHolders == 2 && b.MaxJointIncome > 0 {
		if income > b.MaxJointIncome {
			return false
		}
		// Conservative guard: when both limits are defined, either holder
		// exceeding the individual limit rejects the bonus even if the joint
		// check passes.
		if b.MaxIncome > 0 && (h1.annualIncome > b.MaxIncome || h2.annualIncome > b.MaxIncome) {
			return false
		}
	}
	return true
}

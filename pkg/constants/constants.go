// Package constants provides shared constants for the viabilidad application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Affordability policy constants
const (
	// DefaultInterestRate is the annual interest rate (%) applied when the
	// configuration does not specify one
	DefaultInterestRate = 3.5

	// DebtRatioWithExpenses is the payment-to-income ratio for households
	// reporting monthly expenses
	DebtRatioWithExpenses = 0.30

	// DebtRatioNoExpenses is the payment-to-income ratio for households
	// reporting no monthly expenses
	DebtRatioNoExpenses = 0.35

	// RetirementAge is the age a mortgage must be repaid by; the maximum term
	// is derived from it
	RetirementAge = 75

	// MaxLoanTermYears caps the age-derived loan term
	MaxLoanTermYears = 40

	// SpecialConditionsTermYears is the fixed term applied under special
	// financing conditions
	SpecialConditionsTermYears = 30

	// SpecialConditionsMaxAge is the age below which a holder counts toward
	// special conditions eligibility
	SpecialConditionsMaxAge = 36

	// SpecialConditionsMinIncome is the combined monthly income a household
	// must exceed for special conditions
	SpecialConditionsMinIncome = 1500.0

	// SpecialConditionsMinLoan is the reference loan amount a household must
	// exceed for special conditions
	SpecialConditionsMinLoan = 100000.0

	// FinancingPercentageSpecial is the loan-to-value under special conditions
	FinancingPercentageSpecial = 0.95

	// FinancingPercentageStandard is the regular loan-to-value
	FinancingPercentageStandard = 0.90

	// FixedPurchaseCosts covers notary, registry and processing fees added to
	// the funds required for a purchase
	FixedPurchaseCosts = 3000.0
)

// Property comparison constants
const (
	// MaxComparisons is the number of candidate properties held per client session
	MaxComparisons = 3
)

// Client pipeline constants
const (
	// PhoneCountryPrefix is prepended to stored phone numbers when missing
	PhoneCountryPrefix = "34"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default scenario configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultDatabasePath is the default location of the client pipeline store
	DefaultDatabasePath = "clients.db"
)

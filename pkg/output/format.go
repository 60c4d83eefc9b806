// Package output provides utilities for formatting and displaying
// affordability study results.
package output

import (
	"fmt"
	"strings"

	"viabilidad/internal/engine"
	"viabilidad/internal/property"
	"viabilidad/pkg/format"
	"viabilidad/pkg/mathutil"
)

// Report aggregates everything one scenario run produced.
type Report struct {
	ClientName  string
	Result      *engine.Result
	Comparisons []property.Comparison
	Warnings    []string
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(report Report) {
	name := report.ClientName
	if name == "" {
		name = "cliente"
	}
	fmt.Printf("--- Estudio de viabilidad para %s ---\n", name)

	if report.Result == nil {
		fmt.Printf("Datos insuficientes para calcular.\n")
		return
	}

	result := report.Result
	fmt.Printf("Precio de compra ideal:   %s (financiación del %.0f%%)\n",
		format.Euro(result.IdealPurchasePrice), result.FinancingPercentage()*100)
	fmt.Printf("Cuota máxima mensual:     %s\n", format.Euro(result.MaxMonthlyPayment))
	fmt.Printf("Importe máximo préstamo:  %s\n", format.Euro(result.MaxLoanAmount))
	fmt.Printf("Plazo del préstamo:       %d años (máximo %d)\n",
		result.LoanTermYears, result.MaxLoanTermYears)
	if result.MeetsSpecialConditionsBase {
		fmt.Printf("Condiciones especiales:   cumple los requisitos (95%% a 30 años)\n")
	}

	if len(report.Comparisons) > 0 {
		fmt.Printf("\nVivienda              | Precio      | ITP         | Fondos      | Cuota     | Endeudamiento\n")
		fmt.Printf("________              | ______      | ___         | ______      | _____     | _____________\n")
		for _, c := range report.Comparisons {
			marker := ""
			if c.IsFavorite {
				marker = " *"
			}
			fmt.Printf("%-21s | %-11s | %-11s | %-11s | %-9s | %s%s\n",
				c.Name, format.Euro(c.Price), format.Euro(c.TransferTax),
				format.Euro(c.RequiredFunds), format.Euro(c.MonthlyPayment),
				format.Percent(c.DebtToIncomeRatio), marker)
		}
	}

	for _, warning := range report.Warnings {
		fmt.Printf("\naviso: %s\n", warning)
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(report Report) {
	fmt.Print(CsvString(report))
}

// CsvString renders the comparison table as CSV, one row per property.
func CsvString(report Report) string {
	var builder strings.Builder
	builder.WriteString(`"name","price","region","financingAmount","transferTax","requiredFunds","monthlyPayment","debtToIncomeRatio"` + "\n")
	for _, c := range report.Comparisons {
		builder.WriteString(fmt.Sprintf(`"%s","%.2f","%s","%.2f","%.2f","%.2f","%.2f","%.2f"`,
			escapeQuotes(c.Name), mathutil.Round(c.Price), escapeQuotes(c.Region),
			mathutil.Round(c.FinancingAmount), mathutil.Round(c.TransferTax),
			mathutil.Round(c.RequiredFunds), mathutil.Round(c.MonthlyPayment),
			mathutil.Round(c.DebtToIncomeRatio)))
		builder.WriteString("\n")
	}
	return builder.String()
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

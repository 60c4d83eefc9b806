package output

import (
	"strings"
	"testing"

	"viabilidad/internal/property"
)

func TestCsvString(t *testing.T) {
	report := Report{
		Comparisons: []property.Comparison{
			{
				Name:              "Piso centro",
				Price:             200000,
				Region:            "Madrid",
				FinancingAmount:   190000,
				TransferTax:       12000,
				RequiredFunds:     25000,
				MonthlyPayment:    853.25,
				DebtToIncomeRatio: 36.57,
			},
		},
	}

	csv := CsvString(report)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, expected header plus one row", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"name","price"`) {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"Piso centro","200000.00","Madrid"`) {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestCsvStringEscapesQuotes(t *testing.T) {
	report := Report{
		Comparisons: []property.Comparison{
			{Name: `Ático "El Mirador"`, Price: 150000},
		},
	}

	csv := CsvString(report)
	if !strings.Contains(csv, `"Ático ""El Mirador"""`) {
		t.Errorf("quotes not escaped: %s", csv)
	}
}

func TestCsvStringRoundsToCents(t *testing.T) {
	report := Report{
		Comparisons: []property.Comparison{
			{
				Name:              "Piso",
				Price:             199999.999,
				MonthlyPayment:    853.248,
				DebtToIncomeRatio: 36.566,
			},
		},
	}

	csv := CsvString(report)
	if !strings.Contains(csv, `"200000.00"`) {
		t.Errorf("price not rounded to cents: %s", csv)
	}
	if !strings.Contains(csv, `"853.25"`) {
		t.Errorf("payment not rounded to cents: %s", csv)
	}
	if !strings.Contains(csv, `"36.57"`) {
		t.Errorf("ratio not rounded to cents: %s", csv)
	}
}

func TestCsvStringEmptyReport(t *testing.T) {
	csv := CsvString(Report{})
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, expected header only", len(lines))
	}
}

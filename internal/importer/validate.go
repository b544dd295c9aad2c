package importer

import (
	"fmt"
	"strings"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/report"
)

// ValidateReport checks an imported report for content the review desk
// cannot use. It returns every problem found.
func ValidateReport(r domain.ReportData) []error {
	var errs []error
	errs = append(errs, validateAmount(r.GuaranteeInfo.Amount)...)
	errs = append(errs, validateFinancialLabels(r)...)
	errs = append(errs, validateShareholders(r.Shareholders)...)
	return errs
}

func validateAmount(amount string) []error {
	if strings.TrimSpace(amount) == "" || report.ParseAmount(amount) > 0 {
		return nil
	}
	return []error{fmt.Errorf("guaranteeInfo.amount: no positive number in %q", amount)}
}

// validateFinancialLabels rejects rows whose item label names a different
// row, which means values were pasted into the wrong line.
func validateFinancialLabels(r domain.ReportData) []error {
	var errs []error
	for _, f := range report.Fields(r) {
		key, ok := financialItemKey(f.Path)
		if !ok {
			continue
		}
		got := strings.TrimSpace(report.Get(r, f.Path))
		if want := report.FinancialLabel(key); got != "" && got != want {
			errs = append(errs, fmt.Errorf("%s: label %q does not match row %q", f.Path, got, want))
		}
	}
	return errs
}

func financialItemKey(p report.Path) (string, bool) {
	if len(p) != 3 || p[0] != "financials" || p[2] != "item" {
		return "", false
	}
	return p[1], true
}

func validateShareholders(rows []domain.ShareholderRow) []error {
	var errs []error
	for i, row := range rows {
		filled := row.Amount != "" || row.Ratio != "" || row.Method != "" || row.Controller != "" || row.Note != ""
		if filled && strings.TrimSpace(row.Name) == "" {
			errs = append(errs, fmt.Errorf("shareholders.%d.name is required when other cells are filled", i))
		}
	}
	return errs
}

package report

import "github.com/suretydesk/suretydesk/internal/domain"

// Default returns the blank report: empty leaves, labelled financial rows,
// two placeholder shareholders and empty signatures.
func Default() domain.ReportData {
	var r domain.ReportData
	for _, row := range financialRows {
		row.row(&r.Financials).Item = row.label
	}
	r.Shareholders = []domain.ShareholderRow{{Name: "股东A"}, {Name: "股东B"}}
	r.Signatures = &domain.Signatures{}
	return r
}

// FinancialLabel returns the fixed label of a financial row key.
func FinancialLabel(key string) string {
	for _, row := range financialRows {
		if row.name == key {
			return row.label
		}
	}
	return ""
}

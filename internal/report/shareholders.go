package report

import (
	"fmt"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// UpdateShareholder sets one cell of an existing shareholder row.
func UpdateShareholder(r domain.ReportData, idx int, field, value string) (domain.ReportData, error) {
	if idx < 0 || idx >= len(r.Shareholders) {
		return r, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, idx, len(r.Shareholders))
	}
	out := Clone(r)
	ptr, err := shareholderField(&out.Shareholders[idx], field)
	if err != nil {
		return r, err
	}
	*ptr = value
	return out, nil
}

// AppendShareholder adds a row at the end.
func AppendShareholder(r domain.ReportData, row domain.ShareholderRow) domain.ReportData {
	out := Clone(r)
	out.Shareholders = append(out.Shareholders, row)
	return out
}

// RemoveShareholder drops the row at idx.
func RemoveShareholder(r domain.ReportData, idx int) (domain.ReportData, error) {
	if idx < 0 || idx >= len(r.Shareholders) {
		return r, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, idx, len(r.Shareholders))
	}
	out := Clone(r)
	out.Shareholders = append(out.Shareholders[:idx], out.Shareholders[idx+1:]...)
	return out, nil
}

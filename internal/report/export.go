package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/suretydesk/suretydesk/internal/domain"
)

var csvHeader = []string{"section", "field", "path", "value"}

// WriteCSV writes one row per leaf in report order. Signatures are emitted
// even when the section is absent.
func WriteCSV(w io.Writer, r domain.ReportData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, f := range Fields(r) {
		if err := cw.Write([]string{f.Section, f.Label, f.Path.String(), Get(r, f.Path)}); err != nil {
			return fmt.Errorf("write csv row %s: %w", f.Path, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

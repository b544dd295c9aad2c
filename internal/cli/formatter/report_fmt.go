package formatter

import (
	"strings"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/report"
)

// FormatReport renders every report leaf grouped by section, in report
// order.
func FormatReport(r domain.ReportData) string {
	var b strings.Builder
	section := ""
	var t *Table
	flush := func() {
		if t != nil && t.Len() > 0 {
			b.WriteString(Header(section) + "\n" + t.Render() + "\n")
		}
	}
	for _, f := range report.Fields(r) {
		if f.Section != section {
			flush()
			section = f.Section
			t = NewTable("字段", "内容")
		}
		t.Row(Dim(f.Label), Or(oneLine(report.Get(r, f.Path))))
	}
	flush()
	return strings.TrimRight(b.String(), "\n")
}

// FormatPaths lists every addressable path with its label.
func FormatPaths(r domain.ReportData) string {
	t := NewTable("PATH", "SECTION", "FIELD")
	for _, f := range report.Fields(r) {
		t.Row(f.Path.String(), Dim(f.Section), f.Label)
	}
	return t.Render()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

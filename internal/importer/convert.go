package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/report"
)

// ParseCSV rebuilds a report from export rows (section, field, path,
// value). Only path and value are read; shareholder rows are created as
// their indices appear. Every bad row is reported, not just the first. A
// failing reader ends parsing with that error.
func ParseCSV(r io.Reader) (domain.ReportData, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return domain.ReportData{}, asError([]error{fmt.Errorf("reading csv header: %w", err)})
	}
	pathCol, valueCol := column(header, "path"), column(header, "value")
	if pathCol < 0 || valueCol < 0 {
		return domain.ReportData{}, asError([]error{errors.New("csv header must contain path and value columns")})
	}

	var out domain.ReportData
	var problems []error
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			problems = append(problems, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if err != nil {
			return domain.ReportData{}, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		if len(rec) <= max(pathCol, valueCol) {
			problems = append(problems, fmt.Errorf("line %d: expected at least %d columns", line, max(pathCol, valueCol)+1))
			continue
		}
		path := strings.TrimSpace(rec[pathCol])
		if path == "" {
			continue
		}
		p, err := report.ParsePath(path)
		if err != nil {
			problems = append(problems, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		out = growShareholders(out, p)
		next, err := report.Set(out, p, rec[valueCol])
		if err != nil {
			problems = append(problems, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		out = next
	}
	problems = append(problems, ValidateReport(out)...)
	return out, asError(problems)
}

// growShareholders appends blank rows until a shareholders.N path is
// addressable. Indices past a sane bound are left for Set to reject.
func growShareholders(r domain.ReportData, p report.Path) domain.ReportData {
	if len(p) < 2 || p[0] != "shareholders" {
		return r
	}
	idx, err := strconv.Atoi(p[1])
	if err != nil || idx < 0 || idx >= maxShareholders {
		return r
	}
	for len(r.Shareholders) <= idx {
		r = report.AppendShareholder(r, domain.ShareholderRow{})
	}
	return r
}

const maxShareholders = 50

func column(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

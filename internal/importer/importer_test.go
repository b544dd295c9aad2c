package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/report"
)

func sampleReport() domain.ReportData {
	r := report.Default()
	r = report.MustSet(r, "guaranteeInfo.projectName", "安置房项目")
	r = report.MustSet(r, "guaranteeInfo.amount", "¥1,000,000")
	r = report.MustSet(r, "financials.netProfit.yearCurr", "1,200万")
	r = report.MustSet(r, "shareholders.1.ratio", "40%")
	r = report.MustSet(r, "analysis", "第一行\n第二行, 含逗号")
	return report.AppendShareholder(r, domain.ShareholderRow{Name: "股东C", Ratio: "10%"})
}

func TestParseCSV_RoundTripsExport(t *testing.T) {
	want := sampleReport()
	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	require.NoError(t, report.WriteCSV(&buf, want))

	got, err := ParseCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseCSV_CollectsRowErrors(t *testing.T) {
	in := strings.Join([]string{
		"path,value",
		"guaranteeInfo.projectName,项目",
		"guaranteeInfo.nope,x",
		"shareholders.0.shoeSize,42",
		"shareholders.0.ratio,30%",
		",ignored",
	}, "\n")

	got, err := ParseCSV(strings.NewReader(in))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidReport)
	assert.ErrorIs(t, err, report.ErrUnknownPath)
	assert.ErrorIs(t, err, report.ErrUnknownFieldName)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3, "two bad paths plus the nameless shareholder")
	assert.Contains(t, verr.Problems[0].Error(), "line 3")
	assert.Equal(t, "项目", got.GuaranteeInfo.ProjectName)
}

func TestParseCSV_RequiresPathAndValueColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("section,field\na,b\n"))
	assert.ErrorContains(t, err, "path and value")
}

// failingReader yields the header once, then fails on every read.
type failingReader struct {
	header bool
	err    error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.header {
		r.header = true
		return copy(p, "path,value\n"), nil
	}
	return 0, r.err
}

func TestParseCSV_ReaderErrorStopsParsing(t *testing.T) {
	readErr := errors.New("http: request body too large")
	done := make(chan error, 1)
	go func() {
		_, err := ParseCSV(&failingReader{err: readErr})
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, readErr)
		assert.NotErrorIs(t, err, ErrInvalidReport)
	case <-time.After(3 * time.Second):
		t.Fatal("ParseCSV kept reading after a persistent reader error")
	}
}

func TestParseCSV_MalformedQuotingIsARowProblem(t *testing.T) {
	in := "path,value\nanalysis,\"unterminated\nguaranteeInfo.projectName,项目\n"
	_, err := ParseCSV(strings.NewReader(in))
	assert.ErrorIs(t, err, ErrInvalidReport)
}

func TestParseJSON(t *testing.T) {
	r, err := ParseJSON([]byte(`{"guaranteeInfo":{"projectName":"项目","amount":"500000"},"analysis":"ok"}`))
	require.NoError(t, err)
	assert.Equal(t, "项目", r.GuaranteeInfo.ProjectName)
	assert.Equal(t, "ok", r.Analysis)
}

func TestParseJSON_RejectsUnknownFields(t *testing.T) {
	_, err := ParseJSON([]byte(`{"guaranteeInfo":{"projectNmae":"typo"}}`))
	assert.ErrorIs(t, err, ErrInvalidReport)
	assert.ErrorContains(t, err, "projectNmae")
}

func TestValidateReport(t *testing.T) {
	assert.Empty(t, ValidateReport(sampleReport()))

	r := report.Default()
	r.GuaranteeInfo.Amount = "待定"
	r.Financials.Revenue.Item = "净利润"
	r.Shareholders = []domain.ShareholderRow{{Ratio: "60%"}}

	errs := ValidateReport(r)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "guaranteeInfo.amount")
	assert.Contains(t, errs[1].Error(), "financials.revenue.item")
	assert.Contains(t, errs[2].Error(), "shareholders.0.name")
}

func TestLoadReport(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "r.csv")
	f, err := os.Create(csvPath)
	require.NoError(t, err)
	require.NoError(t, report.WriteCSV(f, sampleReport()))
	require.NoError(t, f.Close())

	r, err := LoadReport(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "安置房项目", r.GuaranteeInfo.ProjectName)

	txt := filepath.Join(dir, "r.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = LoadReport(txt)
	assert.ErrorContains(t, err, "unsupported")

	_, err = LoadReport(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "reading report file")
}

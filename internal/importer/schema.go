// Package importer reads review reports prepared outside a session, either
// as the JSON document the API returns or as the CSV written by export, and
// validates them before they replace a session's working report.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// ValidationError collects every problem found in one import.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("report import has %d problem(s): %s", len(e.Problems), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error { return e.Problems }

// ErrInvalidReport is matched by every ValidationError.
var ErrInvalidReport = errors.New("invalid report")

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidReport }

func asError(problems []error) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// LoadReport reads a .json or .csv report file and validates it.
func LoadReport(path string) (domain.ReportData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ReportData{}, fmt.Errorf("reading report file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".csv":
		return ParseCSV(bytes.NewReader(data))
	default:
		return domain.ReportData{}, fmt.Errorf("unsupported report file type %q (want .json or .csv)", filepath.Ext(path))
	}
}

// ParseJSON decodes the nested report document. Unknown keys are rejected
// so a misspelt field is not silently dropped.
func ParseJSON(data []byte) (domain.ReportData, error) {
	var r domain.ReportData
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return domain.ReportData{}, asError([]error{fmt.Errorf("decoding report JSON: %w", err)})
	}
	return r, asError(ValidateReport(r))
}

var utf8BOM = []byte("\ufeff")

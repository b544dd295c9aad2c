// Package report holds the review-report model operations: path-addressed
// reads and writes, shareholder row edits, and merging extracted data with
// manual overrides.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/suretydesk/suretydesk/internal/domain"
)

var (
	ErrUnknownPath      = errors.New("unknown report path")
	ErrIndexOutOfRange  = errors.New("shareholder index out of range")
	ErrInvalidPath      = errors.New("invalid report path")
	ErrUnknownFieldName = errors.New("unknown shareholder field")
)

const shareholdersKey = "shareholders"

// Path is a sequence of field names and array indices, e.g.
// ["guaranteeInfo", "amount"] or ["shareholders", "0", "ratio"].
type Path []string

// ParsePath splits dotted notation. Callers taking paths from users parse
// once at the edge and pass the Path on.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
	}
	return Path(parts), nil
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

func (p Path) validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	for _, name := range p {
		if name == "" || strings.Contains(name, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidPath, []string(p))
		}
	}
	return nil
}

// Get reads a leaf. Unknown or absent paths read as "".
func Get(r domain.ReportData, p Path) string {
	if p.validate() != nil {
		return ""
	}
	if p[0] == shareholdersKey {
		idx, field, err := shareholderTarget(p)
		if err != nil || idx >= len(r.Shareholders) {
			return ""
		}
		ptr, err := shareholderField(&r.Shareholders[idx], field)
		if err != nil {
			return ""
		}
		return *ptr
	}
	get, ok := leafIndex[p.String()]
	if !ok {
		return ""
	}
	if ptr := get(&r, false); ptr != nil {
		return *ptr
	}
	return ""
}

// Set returns a copy of r with one leaf replaced. r is never modified.
// Absent optional sections are created along the way; shareholder indices
// must already exist.
func Set(r domain.ReportData, p Path, value string) (domain.ReportData, error) {
	if err := p.validate(); err != nil {
		return r, err
	}
	if p[0] == shareholdersKey {
		idx, field, err := shareholderTarget(p)
		if err != nil {
			return r, err
		}
		return UpdateShareholder(r, idx, field, value)
	}
	get, ok := leafIndex[p.String()]
	if !ok {
		return r, fmt.Errorf("%w: %s", ErrUnknownPath, p)
	}
	out := Clone(r)
	*get(&out, true) = value
	return out, nil
}

// MustSet is Set for dotted paths known at compile time.
func MustSet(r domain.ReportData, path, value string) domain.ReportData {
	p, err := ParsePath(path)
	if err != nil {
		panic(err)
	}
	out, err := Set(r, p, value)
	if err != nil {
		panic(err)
	}
	return out
}

func shareholderTarget(p Path) (int, string, error) {
	if len(p) != 3 {
		return 0, "", fmt.Errorf("%w: %s", ErrUnknownPath, p)
	}
	idx, err := strconv.Atoi(p[1])
	if err != nil || idx < 0 {
		return 0, "", fmt.Errorf("%w: %s", ErrIndexOutOfRange, p)
	}
	return idx, p[2], nil
}

func shareholderField(row *domain.ShareholderRow, field string) (*string, error) {
	for _, c := range shareholderColumns {
		if c.name == field {
			return c.col(row), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFieldName, field)
}

// Clone deep-copies r so the result shares no mutable state with it.
func Clone(r domain.ReportData) domain.ReportData {
	if r.Shareholders != nil {
		rows := make([]domain.ShareholderRow, len(r.Shareholders))
		copy(rows, r.Shareholders)
		r.Shareholders = rows
	}
	if r.Signatures != nil {
		s := *r.Signatures
		r.Signatures = &s
	}
	return r
}

// Fields enumerates every addressable leaf of r in report order, including
// one entry per shareholder cell.
func Fields(r domain.ReportData) []Field {
	var out []Field
	for _, s := range sections {
		for _, l := range s.leaves {
			out = append(out, Field{Path: joinPath(s.name, l.name), Section: s.label, Label: l.label})
		}
		if s.name == "clientInfo" {
			for i := range r.Shareholders {
				for _, c := range shareholderColumns {
					out = append(out, Field{
						Path:    Path{shareholdersKey, strconv.Itoa(i), c.name},
						Section: "股权结构",
						Label:   fmt.Sprintf("股东%d/%s", i+1, c.label),
					})
				}
			}
		}
	}
	return out
}

// Paths is Fields reduced to the dotted paths.
func Paths(r domain.ReportData) []string {
	fields := Fields(r)
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Path.String()
	}
	return out
}

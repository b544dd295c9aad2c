package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// Overrides are the free-text form fields entered by the officer.
type Overrides struct {
	ProjectName  string `json:"projectName,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Beneficiary  string `json:"beneficiary,omitempty"`
}

// overridePaths maps each override onto its report leaf.
var overridePaths = []struct {
	path string
	get  func(Overrides) string
}{
	{"guaranteeInfo.projectName", func(o Overrides) string { return o.ProjectName }},
	{"clientInfo.name", func(o Overrides) string { return o.CustomerName }},
	{"guaranteeInfo.amount", func(o Overrides) string { return o.Amount }},
	{"guaranteeInfo.beneficiary", func(o Overrides) string { return o.Beneficiary }},
}

// Merge layers extracted data and manual overrides over base. For every leaf
// the first non-empty of (override, extracted, base) wins. Shareholders come
// from extracted when it has any rows. The result always has signatures.
func Merge(base domain.ReportData, extracted *domain.ReportData, ov Overrides) domain.ReportData {
	out := Clone(base)

	if extracted != nil {
		for _, s := range sections {
			for _, l := range s.leaves {
				src := l.get(extracted, false)
				if src == nil || *src == "" {
					continue
				}
				*l.get(&out, true) = *src
			}
		}
		if len(extracted.Shareholders) > 0 {
			out.Shareholders = Clone(*extracted).Shareholders
		}
	}

	for _, o := range overridePaths {
		if v := strings.TrimSpace(o.get(ov)); v != "" {
			*leafIndex[o.path](&out, true) = v
		}
	}

	for _, row := range financialRows {
		if r := row.row(&out.Financials); r.Item == "" {
			r.Item = row.label
		}
	}
	if out.Signatures == nil {
		out.Signatures = &domain.Signatures{}
	}
	return out
}

// ApplyBasicInfo fills the form from an extraction result. Non-empty
// extracted values replace what the form holds.
func ApplyBasicInfo(form Overrides, info domain.BasicInfo) Overrides {
	form.ProjectName = domain.FirstNonEmpty(info.ProjectName, form.ProjectName)
	form.CustomerName = domain.FirstNonEmpty(info.CustomerName, form.CustomerName)
	form.Amount = domain.FirstNonEmpty(info.Amount, form.Amount)
	form.Beneficiary = domain.FirstNonEmpty(info.Beneficiary, form.Beneficiary)
	return form
}

// FillBlanks is ApplyBasicInfo with the form winning: extracted values
// only land in empty form fields.
func FillBlanks(form Overrides, info domain.BasicInfo) Overrides {
	form.ProjectName = domain.FirstNonEmpty(form.ProjectName, info.ProjectName)
	form.CustomerName = domain.FirstNonEmpty(form.CustomerName, info.CustomerName)
	form.Amount = domain.FirstNonEmpty(form.Amount, info.Amount)
	form.Beneficiary = domain.FirstNonEmpty(form.Beneficiary, info.Beneficiary)
	return form
}

// FromProject copies the reusable fields of a past project into a form.
// Beneficiary is not stored on projects and is left as is.
func FromProject(form Overrides, p *domain.Project) Overrides {
	form.ProjectName = p.Name
	form.CustomerName = p.CustomerName
	form.Amount = strconv.FormatFloat(p.Amount, 'f', -1, 64)
	return form
}

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.]`)
	numericPrefix = regexp.MustCompile(`^[0-9]*\.?[0-9]*`)
)

// ParseAmount keeps digits and dots, then parses the longest leading number
// ("1.2.3" reads as 1.2). Anything unparseable yields 0.
func ParseAmount(s string) float64 {
	digits := numericPrefix.FindString(nonNumeric.ReplaceAllString(s, ""))
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return v
}

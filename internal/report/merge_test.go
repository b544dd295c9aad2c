package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suretydesk/suretydesk/internal/domain"
)

func TestMerge_OverrideBeatsExtracted(t *testing.T) {
	extracted := domain.ReportData{GuaranteeInfo: domain.GuaranteeInfo{Amount: "100"}}

	out := Merge(Default(), &extracted, Overrides{Amount: "200"})
	assert.Equal(t, "200", out.GuaranteeInfo.Amount)
}

func TestMerge_ExtractedBeatsDefaults(t *testing.T) {
	extracted := domain.ReportData{
		ClientInfo: domain.ClientInfo{Name: "某建设集团有限公司", Nature: "国企"},
		Financials: domain.Financials{TotalAssets: domain.FinancialRow{YearLast: "12000"}},
		Analysis:   "1. 申请人主体合法",
	}

	out := Merge(Default(), &extracted, Overrides{})
	assert.Equal(t, "某建设集团有限公司", out.ClientInfo.Name)
	assert.Equal(t, "国企", out.ClientInfo.Nature)
	assert.Equal(t, "12000", out.Financials.TotalAssets.YearLast)
	assert.Equal(t, "1. 申请人主体合法", out.Analysis)
}

func TestMerge_FinancialLabelsNeverEmpty(t *testing.T) {
	out := Merge(domain.ReportData{}, &domain.ReportData{}, Overrides{})
	for _, row := range financialRows {
		assert.Equal(t, row.label, row.row(&out.Financials).Item)
	}

	extracted := domain.ReportData{Financials: domain.Financials{Revenue: domain.FinancialRow{Item: "主营业务收入"}}}
	out = Merge(Default(), &extracted, Overrides{})
	assert.Equal(t, "主营业务收入", out.Financials.Revenue.Item)
}

func TestMerge_SignaturesAlwaysPresent(t *testing.T) {
	out := Merge(domain.ReportData{}, &domain.ReportData{}, Overrides{})
	require.NotNil(t, out.Signatures)
	assert.Equal(t, domain.Signatures{}, *out.Signatures)

	out = Merge(domain.ReportData{}, nil, Overrides{})
	require.NotNil(t, out.Signatures)

	ex := domain.ReportData{Signatures: &domain.Signatures{Manager: "王五"}}
	out = Merge(Default(), &ex, Overrides{})
	assert.Equal(t, "王五", out.Signatures.Manager)
	ex.Signatures.Manager = "changed"
	assert.Equal(t, "王五", out.Signatures.Manager)
}

func TestMerge_OverridesMapToReportFields(t *testing.T) {
	out := Merge(Default(), nil, Overrides{
		ProjectName:  "XX路改造工程",
		CustomerName: "甲公司",
		Amount:       "300",
		Beneficiary:  "XX市交通局",
	})
	assert.Equal(t, "XX路改造工程", out.GuaranteeInfo.ProjectName)
	assert.Equal(t, "甲公司", out.ClientInfo.Name)
	assert.Equal(t, "300", out.GuaranteeInfo.Amount)
	assert.Equal(t, "XX市交通局", out.GuaranteeInfo.Beneficiary)
}

func TestMerge_BlankOverrideDoesNotClear(t *testing.T) {
	extracted := domain.ReportData{GuaranteeInfo: domain.GuaranteeInfo{Beneficiary: "业主单位"}}
	out := Merge(Default(), &extracted, Overrides{Beneficiary: "   "})
	assert.Equal(t, "业主单位", out.GuaranteeInfo.Beneficiary)
}

func TestMerge_Shareholders(t *testing.T) {
	out := Merge(Default(), &domain.ReportData{}, Overrides{})
	assert.Len(t, out.Shareholders, 2)

	ex := domain.ReportData{Shareholders: []domain.ShareholderRow{{Name: "张三", Ratio: "100%"}}}
	out = Merge(Default(), &ex, Overrides{})
	require.Len(t, out.Shareholders, 1)
	assert.Equal(t, "张三", out.Shareholders[0].Name)

	ex.Shareholders[0].Name = "changed"
	assert.Equal(t, "张三", out.Shareholders[0].Name)
}

func TestMerge_BaseUntouched(t *testing.T) {
	base := Default()
	ex := domain.ReportData{Litigation: "无"}
	_ = Merge(base, &ex, Overrides{ProjectName: "P"})
	assert.Empty(t, base.Litigation)
	assert.Empty(t, base.GuaranteeInfo.ProjectName)
}

func TestApplyBasicInfo(t *testing.T) {
	form := Overrides{ProjectName: "手填项目", Amount: "50"}
	got := ApplyBasicInfo(form, domain.BasicInfo{ProjectName: "识别项目", CustomerName: "乙公司"})

	assert.Equal(t, "识别项目", got.ProjectName)
	assert.Equal(t, "乙公司", got.CustomerName)
	assert.Equal(t, "50", got.Amount)
	assert.Empty(t, got.Beneficiary)
}

func TestFromProject(t *testing.T) {
	p := &domain.Project{Name: "历史项目", CustomerName: "丙公司", Amount: 1250.5}
	got := FromProject(Overrides{Beneficiary: "保留"}, p)

	assert.Equal(t, Overrides{ProjectName: "历史项目", CustomerName: "丙公司", Amount: "1250.5", Beneficiary: "保留"}, got)
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"500万元":      500,
		"¥1,234.50":  1234.5,
		"":           0,
		"待定":         0,
		"1.2.3":      1.2,
		"人民币 300 万": 300,
	}
	for in, want := range cases {
		assert.InDelta(t, want, ParseAmount(in), 1e-9, in)
	}
}

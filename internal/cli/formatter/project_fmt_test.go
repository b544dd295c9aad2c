package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suretydesk/suretydesk/internal/domain"
	"github.com/suretydesk/suretydesk/internal/report"
	"github.com/suretydesk/suretydesk/internal/testutil"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatProjectList(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := testutil.NewTestProject("安置房项目",
		testutil.WithCustomer("某建工集团"),
		testutil.WithAmount(1234567.5),
		testutil.WithProjectStatus(domain.ProjectApproved),
		testutil.WithCreatedAt(now.Add(-2*time.Hour)))

	out := stripANSI(FormatProjectList([]*domain.Project{p}, now))

	assert.Contains(t, out, p.DisplayID())
	assert.Contains(t, out, "安置房项目")
	assert.Contains(t, out, "某建工集团")
	assert.Contains(t, out, "¥1,234,567.50")
	assert.Contains(t, out, "2h ago")
	assert.NotContains(t, out, p.ID)
}

func TestFormatProjectList_Empty(t *testing.T) {
	out := stripANSI(FormatProjectList(nil, time.Now()))
	assert.Contains(t, out, "No projects yet")
}

func TestFormatProjectShow(t *testing.T) {
	now := time.Now()
	p := testutil.NewTestProject("老项目", testutil.WithReport(testutil.NewTestReport("老项目", "", "")))
	logs := []*domain.OperationLog{
		{Action: domain.ActionProjectCreated, Details: "投标保函 · 老项目", CreatedAt: now},
		{Action: domain.ActionStatusChanged, Details: "Reviewing -> Approved", User: "alice", CreatedAt: now},
	}

	out := stripANSI(FormatProjectShow(p, logs, now))

	assert.Contains(t, out, p.ID)
	assert.Contains(t, out, "创建项目")
	assert.Contains(t, out, "Reviewing -> Approved")
	assert.Contains(t, out, "(alice)")
	assert.Contains(t, out, "已存档")
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:         "--",
		999:       "¥999.00",
		1000:      "¥1,000.00",
		1234567.5: "¥1,234,567.50",
		-25000:    "-¥25,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount(in), "%v", in)
	}
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
}

func TestTable_AlignsWideRunes(t *testing.T) {
	out := stripANSI(NewTable("名称", "N").AlignRight(1).Row("营业执照", "1").Row("ab", "22").Render())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "营业执照   1", lines[2])
	assert.Equal(t, "ab        22", lines[3])
}

func TestFormatChecklist_ShowsIntakeState(t *testing.T) {
	cl := domain.Checklist{{ID: "g", Title: "基础资料", Items: []domain.ChecklistItem{
		{ID: "license", Label: "营业执照复印件", Required: true},
		{ID: "articles", Label: "公司章程", Required: true},
	}}}
	files := domain.IntakeMap{
		"license":             {{OriginalName: "scan.pdf", DisplayName: "营业执照.pdf", Status: domain.FileDone}},
		domain.CatchAllItemID: {{OriginalName: "misc.png", Status: domain.FileError, Err: "read failed"}},
	}

	out := stripANSI(FormatChecklist(cl, files))

	assert.Contains(t, out, "✔ 营业执照复印件 *")
	assert.Contains(t, out, "✖ 公司章程 *")
	assert.Contains(t, out, "营业执照.pdf ← scan.pdf")
	assert.Contains(t, out, domain.CatchAllLabel)
	assert.Contains(t, out, "read failed")
}

func TestFormatMissing(t *testing.T) {
	assert.Contains(t, stripANSI(FormatMissing(nil)), "齐全")
	out := stripANSI(FormatMissing([]string{"公司章程", "主合同"}))
	assert.Contains(t, out, "缺少 2 项")
	assert.Contains(t, out, "✖ 主合同")
}

func TestFormatReport(t *testing.T) {
	r := report.Default()
	r.GuaranteeInfo.ProjectName = "安置房项目"
	r.Analysis = "经营稳定\n风险可控"

	out := stripANSI(FormatReport(r))

	assert.Contains(t, out, "保函要素")
	assert.Contains(t, out, "安置房项目")
	assert.Contains(t, out, "经营稳定 风险可控")
	assert.Contains(t, out, "审批意见")
}

func TestFormatPaths(t *testing.T) {
	out := stripANSI(FormatPaths(report.Default()))
	assert.Contains(t, out, "guaranteeInfo.amount")
	assert.Contains(t, out, "shareholders.1.ratio")
	assert.Contains(t, out, "signatures.approver")
}

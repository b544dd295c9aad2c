package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// FormatProjectList renders projects newest first inside a bordered box.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	if len(projects) == 0 {
		return RenderBox("项目台账", Dim("No projects yet. Submit a review to create one."))
	}
	t := NewTable("ID", "项目名称", "客户", "品种", "金额", "状态", "创建").AlignRight(4)
	for _, p := range projects {
		t.Row(
			Dim(p.DisplayID()),
			Bold(p.Name),
			p.CustomerName,
			CategoryBadge(p.BondCategory),
			FormatAmount(p.Amount),
			StatusPill(p.Status),
			HumanTimestamp(p.CreatedAt, now),
		)
	}
	return RenderBox("项目台账", strings.TrimRight(t.Render(), "\n"))
}

// FormatProjectShow renders the project card next to its operation history.
func FormatProjectShow(p *domain.Project, logs []*domain.OperationLog, now time.Time) string {
	left := projectPanel(p, now)
	right := historyPanel(logs, now)
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func projectPanel(p *domain.Project, now time.Time) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "\n")
	b.WriteString(CategoryBadge(p.BondCategory) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(label), value))
	}
	field("状态", StatusPill(p.Status))
	field("客户", Or(p.CustomerName))
	field("金额", FormatAmount(p.Amount))
	field("编号", Dim(p.ID))
	field("创建", HumanTimestamp(p.CreatedAt, now))
	field("更新", HumanTimestamp(p.UpdatedAt, now))
	if p.Report != nil {
		field("报告", StyleGreen.Render("已存档"))
	}
	return b.String()
}

func historyPanel(logs []*domain.OperationLog, now time.Time) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("操作记录") + "\n\n")
	if len(logs) == 0 {
		b.WriteString(Dim("no entries"))
		return b.String()
	}
	for _, l := range logs {
		line := fmt.Sprintf("%s  %s", Dim(HumanTimestamp(l.CreatedAt, now)), actionLabel(l.Action))
		if l.Details != "" {
			line += "  " + StyleFg.Render(l.Details)
		}
		if l.User != "" {
			line += Dim(" (" + l.User + ")")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func actionLabel(action string) string {
	switch action {
	case domain.ActionProjectCreated:
		return StyleGreen.Render("创建项目")
	case domain.ActionStatusChanged:
		return StyleBlue.Render("变更状态")
	default:
		return action
	}
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// FormatChecklist renders each group with its items. When files is non-nil
// every item shows its intake state and the catch-all bucket is appended.
func FormatChecklist(cl domain.Checklist, files domain.IntakeMap) string {
	var b strings.Builder
	for i, g := range cl {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(g.Title) + "\n")
		for _, item := range g.Items {
			b.WriteString(checklistLine(item, files) + "\n")
			for _, f := range files[item.ID] {
				b.WriteString(fileLine(f) + "\n")
			}
		}
	}
	if other := files[domain.CatchAllItemID]; len(other) > 0 {
		b.WriteString("\n" + Header(domain.CatchAllLabel) + "\n")
		for _, f := range other {
			b.WriteString(fileLine(f) + "\n")
		}
	}
	return b.String()
}

func checklistLine(item domain.ChecklistItem, files domain.IntakeMap) string {
	mark := Dim("·")
	if files != nil {
		switch {
		case len(files[item.ID]) > 0:
			mark = StyleGreen.Render("✔")
		case item.Required:
			mark = StyleRed.Render("✖")
		}
	}
	label := item.Label
	if item.Required {
		label = Bold(label) + StyleRed.Render(" *")
	}
	line := fmt.Sprintf("  %s %s %s", mark, label, Dim("["+item.ID+"]"))
	if item.Description != "" {
		line += "  " + Dim(item.Description)
	}
	return line
}

func fileLine(f domain.FileRecord) string {
	line := fmt.Sprintf("      %s %s", FileMark(f.Status), f.Name())
	if f.DisplayName != "" && f.DisplayName != f.OriginalName {
		line += Dim(" ← " + f.OriginalName)
	}
	if f.Err != "" {
		line += " " + StyleRed.Render(f.Err)
	}
	return line
}

// FormatMissing lists the labels of missing required items.
func FormatMissing(missing []string) string {
	if len(missing) == 0 {
		return StyleGreen.Render("必备资料已齐全")
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render(fmt.Sprintf("缺少 %d 项必备资料:", len(missing))) + "\n")
	for _, m := range missing {
		b.WriteString("  " + StyleRed.Render("✖") + " " + m + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

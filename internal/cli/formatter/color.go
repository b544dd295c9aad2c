// Package formatter renders checklists, review reports and project records
// for the terminal.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// Gruvbox-inspired palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill returns a colored indicator for a project status.
func StatusPill(status domain.ProjectStatus) string {
	text := status.Label()
	switch status {
	case domain.ProjectReviewing:
		return StyleYellow.Render("● " + text)
	case domain.ProjectApproved:
		return StyleGreen.Render("✔ " + text)
	case domain.ProjectRejected:
		return StyleRed.Render("✖ " + text)
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ " + text)
	case domain.ProjectDraft:
		return StyleBlue.Render("○ " + text)
	default:
		return StyleDim.Render(string(status))
	}
}

// FileMark returns a one-character marker for an intake file state.
func FileMark(status domain.FileStatus) string {
	switch status {
	case domain.FileDone:
		return StyleGreen.Render("✔")
	case domain.FileError:
		return StyleRed.Render("✖")
	default:
		return StyleYellow.Render("…")
	}
}

// CategoryBadge renders the bond category label in purple.
func CategoryBadge(c domain.BondCategory) string {
	if label := c.Label(); label != "" {
		return StylePurple.Render(label)
	}
	return StyleDim.Render("--")
}

// Header renders a section title over a dim rule of the same display width.
func Header(text string) string {
	title := strings.ToUpper(text)
	rule := strings.Repeat("─", lipgloss.Width(title))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(title), StyleDim.Render(rule))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

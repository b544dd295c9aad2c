package cli

import (
	"github.com/charmbracelet/huh"
)

// HuhConfirm asks a yes/no question on the terminal.
func HuhConfirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("继续").
				Negative("取消").
				Value(&ok),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

package ui

import "github.com/charmbracelet/lipgloss"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	muted     = lipgloss.AdaptiveColor{Light: "#969B86", Dark: "#696969"}
	paid      = lipgloss.Color("#2EA44F")
	white     = lipgloss.Color("#FFFFFF")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)

	statusStyle = lipgloss.NewStyle().
			Foreground(muted)

	buttonStyle = lipgloss.NewStyle().
			Background(highlight).
			Foreground(lipgloss.AdaptiveColor{Light: "#FFF", Dark: "#FFF"}).
			Margin(0, 1).
			Padding(0, 1)

	buttonActiveStyle = buttonStyle.
				Background(special).
				Bold(true)

	buttonDisabledStyle = buttonStyle.
				Background(subtle).
				Foreground(muted)
)

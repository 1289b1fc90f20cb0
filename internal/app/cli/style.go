package cli

import (
	"github.com/charmbracelet/lipgloss"

	"logview/internal/config"
)

var (
	appNameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	appVersionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BDBDBD"))
	bodyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9D7BF5"))
	locationStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA726"))
)

// RenderTitle renders the app name, version and description
func RenderTitle() string {
	title := appNameStyle.Render(config.AppName) + appVersionStyle.Render(" v"+config.Version)

	return lipgloss.JoinVertical(lipgloss.Left, title, bodyStyle.Render(config.AppDescription))
}

// RenderError renders an error line for stderr
func RenderError(err error) string {
	return errorStyle.Render("Error:") + " " + err.Error()
}

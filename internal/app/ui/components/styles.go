package components

import "github.com/charmbracelet/lipgloss"

// Common styles shared across UI components
var (
	AppContainerStyle = lipgloss.NewStyle()

	// BorderStyle colours panel borders
	BorderStyle = lipgloss.NewStyle().
			Foreground(FgPrimary)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FgPrimary)

	HelpStyle = lipgloss.NewStyle().
			Foreground(FgBorder).
			Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(FgMuted)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(FgMuted)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(FgMuted).
			MarginTop(1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(FgPrimary)

	LoaderSpacerStyle = lipgloss.NewStyle().
				PaddingLeft(1)
)

// Form styles
var (
	FormLabelStyle = lipgloss.NewStyle().
			Foreground(FgMuted).
			Width(8)

	FormFocusedLabelStyle = lipgloss.NewStyle().
				Foreground(FgPrimary).
				Bold(true).
				Width(8)

	SubmitStyle = lipgloss.NewStyle().
			Foreground(FgPrimary).
			Padding(0, 1)

	SubmitFocusedStyle = lipgloss.NewStyle().
				Foreground(FgOnError).
				Background(FgPrimary).
				Bold(true).
				Padding(0, 1)

	SubmitDisabledStyle = lipgloss.NewStyle().
				Foreground(FgBorder).
				Padding(0, 1)
)

// Table styles
var (
	HeaderRowStyle = lipgloss.NewStyle().
			Foreground(FgBorder).
			Bold(true)

	RowStyle = lipgloss.NewStyle()

	SelectedRowStyle = lipgloss.NewStyle().
				Background(BgSelection)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(BgHighlight)

	LevelErrorStyle = lipgloss.NewStyle().Foreground(FgLevelError).Bold(true)
	LevelWarnStyle  = lipgloss.NewStyle().Foreground(FgLevelWarn).Bold(true)
	LevelInfoStyle  = lipgloss.NewStyle().Foreground(FgLevelInfo)
	LevelDebugStyle = lipgloss.NewStyle().Foreground(FgLevelDebug)
)

// Modal and banner styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FgPrimary).
			Padding(0, 1)

	ModalKeyStyle = lipgloss.NewStyle().
			Foreground(FgPrimary).
			Bold(true)

	PivotStyle = lipgloss.NewStyle().
			Foreground(FgPrimary).
			Italic(true)

	PivotDimStyle = lipgloss.NewStyle().
			Foreground(FgBorder).
			Faint(true)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(FgOnError).
				Background(BgError).
				Bold(true).
				Padding(1, 2)

	LiveStyle = lipgloss.NewStyle().
			Foreground(FgLevelInfo)
)

// LevelStyle returns the style for a log level
func LevelStyle(level string) lipgloss.Style {
	switch level {
	case "error", "ERROR", "fatal", "FATAL", "critical", "CRITICAL":
		return LevelErrorStyle
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarnStyle
	case "info", "INFO":
		return LevelInfoStyle
	case "debug", "DEBUG", "trace", "TRACE":
		return LevelDebugStyle
	default:
		return MutedStyle
	}
}

package components

import "github.com/charmbracelet/lipgloss"

// Color palette for the UI with semantic naming
const (
	// Foreground colors - text and elements
	FgPrimary = lipgloss.Color("#7D56F4") // Purple - primary/focus color
	FgMuted   = lipgloss.Color("7")       // Light gray - muted elements
	FgBorder  = lipgloss.Color("8")       // Gray - borders and help text
	FgOnError = lipgloss.Color("15")      // White - text on the error banner

	// Background colors
	BgSelection = lipgloss.Color("235") // Dark gray - selected background
	BgError     = lipgloss.Color("52")  // Dark red - error banner
	BgHighlight = lipgloss.Color("#FDE68A")

	// Level colors
	FgLevelError = lipgloss.Color("9")  // Red - error/fatal
	FgLevelWarn  = lipgloss.Color("11") // Yellow - warn
	FgLevelInfo  = lipgloss.Color("10") // Green - info
	FgLevelDebug = lipgloss.Color("12") // Blue - debug/trace
)

// ServiceColorPalette provides distinct colors for service names
var ServiceColorPalette = []lipgloss.AdaptiveColor{
	{Light: "#0891b2", Dark: "#22d3ee"}, // Cyan
	{Light: "#d97706", Dark: "#fbbf24"}, // Amber
	{Light: "#059669", Dark: "#34d399"}, // Emerald
	{Light: "#7c3aed", Dark: "#a78bfa"}, // Violet
	{Light: "#db2777", Dark: "#f472b6"}, // Pink
	{Light: "#2563eb", Dark: "#60a5fa"}, // Blue
	{Light: "#65a30d", Dark: "#a3e635"}, // Lime
	{Light: "#ea580c", Dark: "#fb923c"}, // Orange
}

// ServiceColor picks a stable palette color for a service name
func ServiceColor(name string) lipgloss.AdaptiveColor {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*31 + uint32(name[i])
	}

	return ServiceColorPalette[h%uint32(len(ServiceColorPalette))]
}

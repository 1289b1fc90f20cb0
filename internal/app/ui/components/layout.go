package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panel border characters
const (
	BorderTopLeft     = "╭"
	BorderTopRight    = "╮"
	BorderBottomLeft  = "╰"
	BorderBottomRight = "╯"
	BorderHorizontal  = "─"
	BorderVertical    = "│"
)

// PanelOptions describes a bordered panel with its surrounding chrome
type PanelOptions struct {
	Title   string
	Status  string
	Content string
	Stats   string
	Version string
	Help    string
	Tip     string
	Height  int
	Width   int
}

// RenderPanel renders a bordered panel: title and status in the top border,
// stats and version in the bottom border, help and tip lines underneath
func RenderPanel(opts PanelOptions) string {
	border := func(s string) string { return BorderStyle.Render(s) }

	width := opts.Width
	if width < PanelInnerPadding+2 {
		width = PanelInnerPadding + 2
	}

	height := opts.Height
	if height < PanelBorderHeight+1 {
		height = PanelBorderHeight + 1
	}

	innerWidth := width - PanelInnerPadding

	lines := []string{BuildTopBorder(border, opts.Title, opts.Status, width)}
	lines = AppendContentLines(lines, splitAndPadContent(opts.Content, height-PanelBorderHeight), innerWidth, border)
	lines = append(lines, BuildBottomBorder(border, opts.Stats, opts.Version, width))

	if opts.Help != "" {
		lines = append(lines, opts.Help)
	}

	if opts.Tip != "" {
		lines = append(lines, HelpStyle.Render(opts.Tip))
	}

	return strings.Join(lines, "\n")
}

// BuildTopBorder renders ╭─ title ───── right ─╮ across width columns
func BuildTopBorder(border func(string) string, title, right string, width int) string {
	left := border(BorderTopLeft + BorderHorizontal)
	if title != "" {
		left += " " + TitleStyle.Render(title) + " "
	}

	tail := border(BorderHorizontal + BorderTopRight)
	if right != "" {
		tail = " " + right + " " + tail
	}

	return left + border(strings.Repeat(BorderHorizontal, fillWidth(width, left, tail))) + tail
}

// BuildBottomBorder renders ╰─ info ───── version ─╯ across width columns
func BuildBottomBorder(border func(string) string, info, version string, width int) string {
	left := border(BorderBottomLeft + BorderHorizontal)
	if info != "" {
		left += " " + MutedStyle.Render(info) + " "
	}

	tail := border(BorderHorizontal + BorderBottomRight)
	if version != "" {
		tail = " " + MutedStyle.Render(version) + " " + tail
	}

	return left + border(strings.Repeat(BorderHorizontal, fillWidth(width, left, tail))) + tail
}

// AppendContentLines appends content lines framed by vertical borders, padded or cut to innerWidth
func AppendContentLines(lines, contentLines []string, innerWidth int, border func(string) string) []string {
	for _, line := range contentLines {
		line = PadRight(Truncate(line, innerWidth), innerWidth)
		lines = append(lines, border(BorderVertical)+" "+line+" "+border(BorderVertical))
	}

	return lines
}

// RenderLine renders a horizontal rule of the given width
func RenderLine(width int) string {
	if width < 0 {
		width = 0
	}

	return MutedStyle.Render(strings.Repeat(BorderHorizontal, width))
}

// PadRight pads s with spaces up to width display columns
func PadRight(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}

	return s + strings.Repeat(" ", gap)
}

// Truncate cuts s, which may contain ANSI styling, to width columns ending with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(s) <= width {
		return s
	}

	return ansi.Truncate(s, width, Ellipsis)
}

// TruncateAndPad fits s into exactly width columns
func TruncateAndPad(s string, width int) string {
	if width <= 0 {
		return Ellipsis
	}

	return PadRight(Truncate(s, width), width)
}

func splitAndPadContent(content string, height int) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}

	for len(lines) < height {
		lines = append(lines, "")
	}

	return lines
}

func fillWidth(width int, parts ...string) int {
	fill := width
	for _, p := range parts {
		fill -= lipgloss.Width(p)
	}

	if fill < 1 {
		return 1
	}

	return fill
}

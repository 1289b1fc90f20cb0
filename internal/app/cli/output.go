package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"

	"logview/internal/app/hit"
	"logview/internal/app/ui/components"
	"logview/internal/config"
)

const defaultTableWidth = 120

// terminalWidth returns the width of stdout, or a fixed width when it is not a terminal
func terminalWidth() int {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return defaultTableWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultTableWidth
	}

	return width
}

// writeJSON prints the raw hits as an indented JSON array
func writeJSON(w io.Writer, hits []hit.Hit) error {
	if hits == nil {
		hits = []hit.Hit{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(hits)
}

// writeTable prints one row per hit with the same columns as the viewer
func writeTable(w io.Writer, hits []hit.Hit, fields hit.Fields, zone *time.Location, width int) error {
	header := fmt.Sprintf(
		"%-*s  %-*s  %-*s  %s",
		components.ColWidthTimestamp, "timestamp",
		components.ColWidthLevel, "level",
		components.ColWidthService, "service",
		"message",
	)

	if _, err := fmt.Fprintln(w, headerStyle.Render(header)); err != nil {
		return err
	}

	messageWidth := max(width-components.ColWidthTimestamp-components.ColWidthLevel-components.ColWidthService-6, components.MessageMinWidth)

	for _, h := range hits {
		line := hit.NewLogLine(h, fields)

		row := fmt.Sprintf(
			"%s  %s  %s  %s",
			components.TimestampStyle.Render(components.TruncateAndPad(line.FormatTime(zone), components.ColWidthTimestamp)),
			components.LevelStyle(line.Level()).Render(components.TruncateAndPad(hit.Sanitize(line.Level()), components.ColWidthLevel)),
			components.TruncateAndPad(hit.Sanitize(line.Service()), components.ColWidthService),
			components.Truncate(hit.Sanitize(hit.Plain(line.Message())), messageWidth),
		)

		if _, err := fmt.Fprintln(w, strings.TrimRight(row, " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d hits", len(hits))))

	return err
}

// writeHits prints hits in the requested format
func writeHits(w io.Writer, format string, hits []hit.Hit, cfg *config.Config) error {
	if format == config.OutputJSON {
		return writeJSON(w, hits)
	}

	return writeTable(w, hits, hit.NewFields(cfg.Fields), cfg.Location(), terminalWidth())
}

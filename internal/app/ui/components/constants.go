package components

import "time"

// UI timing constants
const (
	// UITickInterval is the base tick rate for animations
	UITickInterval = 100 * time.Millisecond

	// UITicksPerSecond is the derived animation frame rate
	UITicksPerSecond = int(time.Second / UITickInterval)

	StatsPollingInterval = 2 * time.Second
	StatsCallTimeout     = 500 * time.Millisecond

	TipRotationTicks = 100
)

// Panel layout constants
const (
	PanelHeightPadding = 2
	PanelInnerPadding  = 4
	PanelBorderHeight  = 2
	MinPanelHeight     = 10
	FormHeight         = 4
	FooterHeight       = 1
)

// Results table constants
const (
	ColWidthIndicator = 1
	ColWidthTimestamp = 16
	ColWidthLevel     = 7
	ColWidthService   = 18
	MessageMinWidth   = 20
	FixedColumnsWidth = ColWidthIndicator + ColWidthTimestamp + ColWidthLevel + ColWidthService + 8
)

// Detail modal constants
const (
	ModalKeyMaxWidth   = 24
	ModalWidthPercent  = 80
	ModalHeightPercent = 80
)

// Indicators
const (
	IndicatorSelected = "▶"
	IndicatorEmpty    = " "
	CheckboxOn        = "[x]"
	CheckboxOff       = "[ ]"
	Ellipsis          = "…"
)

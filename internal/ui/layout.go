package ui

import "time"

// Grid geometry.
const (
	// CellWidth is the width of one preset cell including its border.
	CellWidth = 26

	// CellHeight is the height of one preset cell including its border.
	CellHeight = 4

	// chromeHeight is the toolbar, status line and footer.
	chromeHeight = 3
)

// Log pane limits.
const (
	// LogTailLines is how many lines of the application log the pane reads.
	LogTailLines = 500

	// LogRefreshInterval is how often the pane re-reads the log while open.
	LogRefreshInterval = 2 * time.Second

	// logPaneHeight is the pane height when it shares the screen with the grid.
	logPaneHeight = 10
)

// SettingsPanelWidth is the width of the settings panel beside the grid.
const SettingsPanelWidth = 54

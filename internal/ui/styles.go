package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - using ANSI 256 colors for broad terminal support
var (
	ColorCyan    = lipgloss.Color("6")
	ColorYellow  = lipgloss.Color("3")
	ColorRed     = lipgloss.Color("1")
	ColorGreen   = lipgloss.Color("2")
	ColorMagenta = lipgloss.Color("5")
	ColorGray    = lipgloss.Color("8")
	ColorBlack   = lipgloss.Color("0")
)

// Text styles
var (
	// Service (PSM) and instance names
	ServiceStyle = lipgloss.NewStyle().Foreground(ColorYellow)

	// Source locations (file:line)
	LocationStyle = lipgloss.NewStyle().Foreground(ColorMagenta)

	// Status messages ("Querying...")
	StatusStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	// Error messages
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

	// Warning messages
	WarningStyle = lipgloss.NewStyle().Foreground(ColorYellow)

	// Success messages
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	// Muted/secondary text
	MutedStyle = lipgloss.NewStyle().Foreground(ColorGray)

	// Highlighted/matched text
	HighlightStyle = lipgloss.NewStyle().
			Background(ColorYellow).
			Foreground(ColorBlack).
			Bold(true)

	// Labels (field names, headers)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)

	SectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan)
)

// Log level styles
var (
	levelErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	levelWarnStyle  = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	levelInfoStyle  = lipgloss.NewStyle().Foreground(ColorGreen)
	levelOtherStyle = lipgloss.NewStyle().Foreground(ColorGray)
)

// LevelStyle returns the style for a log level name such as "ERROR" or "Warn".
func LevelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "FATAL", "ERROR":
		return levelErrorStyle
	case "WARN", "WARNING":
		return levelWarnStyle
	case "INFO", "NOTICE":
		return levelInfoStyle
	default:
		return levelOtherStyle
	}
}

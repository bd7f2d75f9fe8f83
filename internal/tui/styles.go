// Package tui provides the interactive terminal viewer for agent traces.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agentrace/agentrace/internal/trace"
)

// Color palette
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#06B6D4") // Cyan
	successColor   = lipgloss.Color("#10B981") // Green
	errorColor     = lipgloss.Color("#EF4444") // Red
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	accentColor    = lipgloss.Color("#F472B6") // Pink
)

// Box styles
var (
	// PaneStyle is the bordered container for panels
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	// HeaderStyle for panel headers
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	// TitleStyle for the main title
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 2)

	// SectionHeaderStyle for detail view sections
	SectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(secondaryColor).
				Padding(0, 1).
				Margin(1, 0, 0, 0)
)

// Text styles
var (
	// SelectedStyle for the item under the cursor
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(secondaryColor)

	// CursorStyle for the cursor indicator
	CursorStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	// MutedStyle for less important text
	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// SuccessStyle for success indicators
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// ErrorStyle for error indicators
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// WarningStyle for running steps
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// DurationStyle for duration values
	DurationStyle = lipgloss.NewStyle().
			Foreground(accentColor)
)

// Step kind styles
var (
	ContainerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8B5CF6")) // Violet

	ModelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")) // Emerald

	ToolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")) // Amber

	ThoughtStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")) // Blue

	CodeActStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F472B6")) // Pink
)

// Help bar style
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)
)

// KindStyle returns the text style for a step kind.
func KindStyle(kind trace.Kind) lipgloss.Style {
	switch kind {
	case trace.KindContainer:
		return ContainerStyle
	case trace.KindModel:
		return ModelStyle
	case trace.KindTool:
		return ToolStyle
	case trace.KindThought:
		return ThoughtStyle
	case trace.KindCodeAct:
		return CodeActStyle
	default:
		return lipgloss.NewStyle()
	}
}

// StatusStyle returns the text style for a step status.
func StatusStyle(status trace.Status) lipgloss.Style {
	switch status {
	case trace.StatusCompleted:
		return SuccessStyle
	case trace.StatusError:
		return ErrorStyle
	case trace.StatusRunning:
		return WarningStyle
	default:
		return MutedStyle
	}
}

// KindIcon returns the tree glyph for a step kind.
func KindIcon(kind trace.Kind) string {
	switch kind {
	case trace.KindContainer:
		return "📦"
	case trace.KindModel:
		return "🤖"
	case trace.KindTool:
		return "🔧"
	case trace.KindThought:
		return "💭"
	case trace.KindCodeAct:
		return "📝"
	default:
		return "•"
	}
}

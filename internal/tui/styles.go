// Package tui provides the terminal user interface for dualchat.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/diogo/dualchat/internal/errors"
)

// Base colors
var (
	colorBorder = lipgloss.Color("#3b4261")

	colorPrimary   = lipgloss.Color("#7aa2f7")
	colorSecondary = lipgloss.Color("#bb9af7")
	colorAccent    = lipgloss.Color("#7dcfff")
	colorError     = lipgloss.Color("#f7768e")

	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#414868")
)

var (
	// Hint text style
	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextMute).
			Italic(true)

	// Loading/spinner style
	loadingStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	// Status bar styles
	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	// Error style
	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	// Selector styles
	selectorHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginBottom(1).
				Align(lipgloss.Center)

	selectorTitleStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true).
				MarginBottom(1).
				PaddingLeft(1)

	selectorPanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(1, 2)

	selectorSectionStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Bold(true).
				MarginTop(1)

	selectorItemStyle = lipgloss.NewStyle().
				Foreground(colorText).
				PaddingLeft(2)

	selectorSelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	selectorCursorStyle = lipgloss.NewStyle().
				Foreground(colorAccent)

	selectorDimStyle = lipgloss.NewStyle().
				Foreground(colorTextDim)

	selectorStatusBarStyle = lipgloss.NewStyle().
				Foreground(colorTextMute).
				MarginTop(1).
				Align(lipgloss.Center)
)

// FormatError returns a styled error message with a hint for known failures.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	out := errStyle.Render(fmt.Sprintf("✗ %v", err))

	switch {
	case errors.Is(err, apperrors.ErrNoActiveConversation):
		out += dimStyle.Render("\n  Hint: Run 'dualchat new' or 'dualchat select' to pick a conversation")
	case errors.Is(err, apperrors.ErrNoConversations):
		out += dimStyle.Render("\n  Hint: Run 'dualchat new' to start your first conversation")
	case errors.Is(err, apperrors.ErrImportFailed):
		out += dimStyle.Render("\n  Hint: The file must contain a JSON conversation export")
	}

	return out
}

// PrintError prints a styled error message.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Println(FormatError(err))
}

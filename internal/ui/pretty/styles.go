// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/yaklabco/qfix/pkg/config"
)

// DefaultWidth is the width used when the output is not a terminal.
const DefaultWidth = 80

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Issue components
	FilePath lipgloss.Style
	Location lipgloss.Style
	RuleID   lipgloss.Style
	Message  lipgloss.Style

	// Fix statuses
	Applicable lipgloss.Style
	Applied    lipgloss.Style
	Discarded  lipgloss.Style
	Stale      lipgloss.Style
	Failed     lipgloss.Style

	// Edit previews
	DiffAdd    lipgloss.Style
	DiffRemove lipgloss.Style

	// Summary
	Success lipgloss.Style
	Warning lipgloss.Style
	Failure lipgloss.Style

	// Help
	Heading lipgloss.Style
	Command lipgloss.Style
	Flag    lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return &Styles{
		FilePath: lipgloss.NewStyle().Bold(true),
		Location: fg("8"),
		RuleID:   fg("8"),
		Message:  lipgloss.NewStyle(),

		Applicable: fg("10"),
		Applied:    fg("10").Bold(true),
		Discarded:  fg("11"),
		Stale:      fg("11").Italic(true),
		Failed:     fg("9").Bold(true),

		DiffAdd:    fg("10"),
		DiffRemove: fg("9"),

		Success: fg("10").Bold(true),
		Warning: fg("11").Bold(true),
		Failure: fg("9").Bold(true),

		Heading: fg("11").Bold(true),
		Command: fg("14").Bold(true),
		Flag:    fg("12"),

		Dim:  fg("8"),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		FilePath:   plain,
		Location:   plain,
		RuleID:     plain,
		Message:    plain,
		Applicable: plain,
		Applied:    plain,
		Discarded:  plain,
		Stale:      plain,
		Failed:     plain,
		DiffAdd:    plain,
		DiffRemove: plain,
		Success:    plain,
		Warning:    plain,
		Failure:    plain,
		Heading:    plain,
		Command:    plain,
		Flag:       plain,
		Dim:        plain,
		Bold:       plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode config.ColorMode, writer io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// TerminalWidth returns the column count of writer if it is a terminal,
// DefaultWidth otherwise.
func TerminalWidth(writer io.Writer) int {
	f, ok := writer.(*os.File)
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

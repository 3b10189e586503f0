package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status is the outcome shown next to a quick fix.
type Status int

const (
	StatusApplicable Status = iota
	StatusNotApplicable
	StatusDiscarded
	StatusApplied
	StatusStale
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusApplicable:
		return "applicable"
	case StatusNotApplicable:
		return "not applicable"
	case StatusDiscarded:
		return "discarded"
	case StatusApplied:
		return "applied"
	case StatusStale:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// FixLine describes one quick fix of an issue.
type FixLine struct {
	// Index is the 1-based position of the fix among the issue's alternatives.
	Index   int
	Message string
	Status  Status

	// Reason explains a discarded, skipped or failed fix.
	Reason string
}

// EditPreview shows what one edit replaces.
type EditPreview struct {
	Path    string
	Line    int
	Column  int
	OldText string
	NewText string
}

// FormatIssue formats the header line of an issue.
func (s *Styles) FormatIssue(path string, line int, rule, message string) string {
	location := s.FilePath.Render(path)
	if line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d", line))
	}
	out := location + "  " + s.Message.Render(message)
	if rule != "" {
		out += "  " + s.RuleID.Render("("+rule+")")
	}
	return out + "\n"
}

// FormatFix formats one quick fix with its status.
func (s *Styles) FormatFix(fix FixLine) string {
	status := s.statusStyle(fix.Status).Render(fix.Status.String())
	out := fmt.Sprintf("  %s %s  %s", s.Dim.Render(fmt.Sprintf("[%d]", fix.Index)), fix.Message, status)
	if fix.Reason != "" {
		out += s.Dim.Render(": " + fix.Reason)
	}
	return out + "\n"
}

func (s *Styles) statusStyle(status Status) lipgloss.Style {
	switch status {
	case StatusApplicable:
		return s.Applicable
	case StatusApplied:
		return s.Applied
	case StatusDiscarded, StatusNotApplicable:
		return s.Discarded
	case StatusStale:
		return s.Stale
	default:
		return s.Failed
	}
}

// FormatEdit formats an edit as removed and added lines, each cut to width
// columns. An empty side is omitted.
func (s *Styles) FormatEdit(edit EditPreview, width int) string {
	const indent = "      "

	var builder strings.Builder
	builder.WriteString(indent + s.Location.Render(fmt.Sprintf("%s:%d:%d", edit.Path, edit.Line, edit.Column)) + "\n")

	limit := width - len(indent) - 2
	writeSide := func(text, sign string, style lipgloss.Style) {
		if text == "" {
			return
		}
		for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
			builder.WriteString(indent + style.Render(sign+" "+truncate(visible(line), limit)) + "\n")
		}
	}
	writeSide(edit.OldText, "-", s.DiffRemove)
	writeSide(edit.NewText, "+", s.DiffAdd)

	if edit.OldText == "" && edit.NewText == "" {
		builder.WriteString(indent + s.Dim.Render("(no change)") + "\n")
	}
	return builder.String()
}

// visible makes tabs and carriage returns printable.
func visible(line string) string {
	return strings.NewReplacer("\t", "→   ", "\r", "␍").Replace(line)
}

// truncate cuts s to at most limit display columns, marking the cut.
func truncate(s string, limit int) string {
	if limit <= 1 || lipgloss.Width(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

package pretty

import (
	"fmt"
	"strings"
)

// Stats counts the outcomes of a check or apply run.
type Stats struct {
	Issues        int
	Fixes         int
	Applicable    int
	Discarded     int
	Applied       int
	Stale         int
	Failed        int
	FilesModified int
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 issues, 5 quick fixes (4 applicable, 1 discarded), 2 applied in 1 file".
func (s *Styles) FormatSummaryOneLine(stats Stats) string {
	if stats.Issues == 0 {
		return s.Success.Render("No issues with quick fixes") + "\n"
	}

	parts := []string{
		plural(stats.Issues, "issue", "issues"),
	}

	fixes := plural(stats.Fixes, "quick fix", "quick fixes")
	var breakdown []string
	if stats.Applicable > 0 {
		breakdown = append(breakdown, s.Applicable.Render(fmt.Sprintf("%d applicable", stats.Applicable)))
	}
	if stats.Discarded > 0 {
		breakdown = append(breakdown, s.Discarded.Render(fmt.Sprintf("%d discarded", stats.Discarded)))
	}
	if len(breakdown) > 0 {
		fixes += " (" + strings.Join(breakdown, ", ") + ")"
	}
	parts = append(parts, fixes)

	if stats.Applied > 0 {
		applied := fmt.Sprintf("%d applied", stats.Applied)
		if stats.FilesModified > 0 {
			applied += " in " + plural(stats.FilesModified, "file", "files")
		}
		parts = append(parts, s.Success.Render(applied))
	}
	if stats.Stale > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.Stale)))
	}
	if stats.Failed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.Failed)))
	}

	return strings.Join(parts, ", ") + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

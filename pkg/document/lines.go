// Package document is an in-memory editor model: documents with a line table
// and range markers that follow edits, and a workspace that resolves analysis
// file handles to open documents.
package document

import "sort"

// LineInfo holds the offsets of one line.
type LineInfo struct {
	// StartOffset is the offset of the first byte of the line.
	StartOffset int

	// NewlineStart is the offset of the line terminator, or the end of the
	// content for the last line.
	NewlineStart int

	// EndOffset is the offset just past the line terminator.
	EndOffset int
}

// BuildLines constructs the line table for content.
// It handles both LF (\n) and CRLF (\r\n) line endings. Empty content has a
// single empty line, like an empty editor buffer.
func BuildLines(content []byte) []LineInfo {
	lines := make([]LineInfo, 0, 1+len(content)/40)
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// The last line has no terminator; after a trailing newline it is empty.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// lineAt returns the 0-based index of the line containing offset.
func lineAt(lines []LineInfo, offset int) int {
	idx := sort.Search(len(lines), func(i int) bool {
		return lines[i].EndOffset > offset
	})
	if idx >= len(lines) {
		idx = len(lines) - 1
	}
	return idx
}

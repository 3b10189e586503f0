// Package fix applies accepted quick fixes to their documents.
package fix

import (
	"github.com/yaklabco/qfix/pkg/quickfix"
)

// TextEdit is a replacement resolved to the current offsets of a document.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Edits snapshots the tracked edits of q at their current positions, in the
// fix's order. It fails with ErrNotApplicable if any range is no longer valid.
func Edits(q *quickfix.QuickFix) ([]TextEdit, error) {
	edits := make([]TextEdit, 0, q.EditCount())
	for _, fe := range q.FileEdits {
		for _, e := range fe.Edits {
			if !e.Range.IsValid() {
				return nil, ErrNotApplicable
			}
			span := e.Range.Span()
			edits = append(edits, TextEdit{
				StartOffset: span.Start,
				EndOffset:   span.End,
				NewText:     e.NewText,
			})
		}
	}
	return edits, nil
}

package fix

import (
	"errors"
	"fmt"

	"github.com/yaklabco/qfix/pkg/quickfix"
)

var (
	// ErrNotApplicable is returned for fixes that were applied already or
	// whose file or ranges went stale.
	ErrNotApplicable = errors.New("quick fix is not applicable")

	// ErrReadOnlyDocument is returned when the target document cannot be edited.
	ErrReadOnlyDocument = errors.New("document cannot be edited")
)

// Editor is a document that accepts replacements. Replacing must move the
// document's live ranges.
type Editor interface {
	Len() int
	Replace(start, end int, text string) error
}

// Apply writes q into its document, marks it applied and releases its ranges.
//
// Edits are applied from the end of the document backwards so that offsets
// read before the first replacement stay correct. Nothing is changed if the
// fix is not applicable or its edits overlap.
func Apply(q *quickfix.QuickFix) error {
	if !q.IsApplicable() {
		return ErrNotApplicable
	}
	target := q.Target()
	if target == nil {
		q.MarkApplied()
		return nil
	}

	doc, ok := target.Document()
	if !ok {
		return ErrNotApplicable
	}
	editor, ok := doc.(Editor)
	if !ok {
		return fmt.Errorf("%s: %w", target.Path(), ErrReadOnlyDocument)
	}

	edits, err := Edits(q)
	if err != nil {
		return err
	}
	prepared, err := PrepareEdits(edits, editor.Len())
	if err != nil {
		return fmt.Errorf("%s: %w", target.Path(), err)
	}

	for i := len(prepared) - 1; i >= 0; i-- {
		e := prepared[i]
		if err := editor.Replace(e.StartOffset, e.EndOffset, e.NewText); err != nil {
			return fmt.Errorf("%s: apply edit [%d:%d]: %w", target.Path(), e.StartOffset, e.EndOffset, err)
		}
	}

	q.MarkApplied()
	q.Release()
	return nil
}

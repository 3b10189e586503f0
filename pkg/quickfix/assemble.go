package quickfix

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Rejection reasons. A rejected suggestion is dropped as a whole.
var (
	ErrUnresolvableDocument = errors.New("unresolvable document")
	ErrMultiFileEdit        = errors.New("multi-file edits unsupported")
)

// RejectedError reports a suggestion that cannot become a QuickFix.
type RejectedError struct {
	// Message is the message of the rejected suggestion.
	Message string

	// Reason is ErrUnresolvableDocument or ErrMultiFileEdit.
	Reason error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("quick fix %q discarded: %v", e.Message, e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return e.Reason
}

// IsRejected reports whether err is a rejection rather than a failure.
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

// Assembler converts suggestions into QuickFix values.
type Assembler struct {
	resolver Resolver
	logger   Logger
}

// NewAssembler creates an Assembler. A nil logger discards diagnostics.
func NewAssembler(resolver Resolver, logger Logger) *Assembler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Assembler{resolver: resolver, logger: logger}
}

// Assemble converts s into a QuickFix.
//
// The result is all or nothing. A suggestion whose files cannot be resolved
// to open documents, or that spans more than one file, is rejected with a
// *RejectedError after logging the reason. Errors from translating positions
// or opening ranges are returned wrapped; ranges opened before the failure
// are released. A suggestion without file edits yields a QuickFix without
// edits.
func (a *Assembler) Assemble(s Suggestion) (*QuickFix, error) {
	files := make([]File, len(s.FileEdits))
	docs := make([]Document, len(s.FileEdits))
	for i, fe := range s.FileEdits {
		file, ok := a.resolver.Resolve(fe.Target)
		if !ok || file == nil {
			return nil, a.reject(s, ErrUnresolvableDocument, "quick fix discarded: unresolvable document")
		}
		doc, ok := file.Document()
		if !ok || doc == nil {
			return nil, a.reject(s, ErrUnresolvableDocument, "quick fix discarded: unresolvable document")
		}
		files[i] = file
		docs[i] = doc
	}

	if countDistinct(files) > 1 {
		return nil, a.reject(s, ErrMultiFileEdit, "quick fix discarded: multi-file edits unsupported")
	}

	fix := &QuickFix{
		Message:   s.Message,
		FileEdits: make([]FileEdit, 0, len(s.FileEdits)),
	}
	for i, fe := range s.FileEdits {
		edits := make([]TrackedEdit, 0, len(fe.TextEdits))
		for j, te := range fe.TextEdits {
			edit, err := track(docs[i], te)
			if err != nil {
				fix.Release()
				releaseEdits(edits)
				return nil, fmt.Errorf("file edit %d, text edit %d: %w", i, j, err)
			}
			edits = append(edits, edit)
		}
		fix.FileEdits = append(fix.FileEdits, FileEdit{Target: files[i], Edits: edits})
	}

	return fix, nil
}

// Convert is Assemble for callers that only care whether a fix came out.
// It returns nil when the suggestion was rejected or could not be converted.
func (a *Assembler) Convert(s Suggestion) *QuickFix {
	fix, err := a.Assemble(s)
	if err != nil {
		if !IsRejected(err) {
			a.logger.Debug("quick fix discarded: conversion failed", "message", s.Message, "error", err)
		}
		return nil
	}
	return fix
}

// ConvertAll converts the alternative fixes attached to one finding.
// Rejected suggestions are dropped; any other error stops the conversion and
// releases the fixes built so far.
func (a *Assembler) ConvertAll(suggestions []Suggestion) ([]*QuickFix, error) {
	fixes := make([]*QuickFix, 0, len(suggestions))
	for _, s := range suggestions {
		fix, err := a.Assemble(s)
		if err != nil {
			if IsRejected(err) {
				continue
			}
			for _, f := range fixes {
				f.Release()
			}
			return nil, err
		}
		fixes = append(fixes, fix)
	}
	return fixes, nil
}

func (a *Assembler) reject(s Suggestion, reason error, msg string) error {
	a.logger.Debug(msg, "message", s.Message, "file_edits", len(s.FileEdits))
	return &RejectedError{Message: s.Message, Reason: reason}
}

func track(doc Document, te TextEditSuggestion) (TrackedEdit, error) {
	span, err := ToSpan(doc, te.Range)
	if err != nil {
		return TrackedEdit{}, err
	}
	r, err := doc.OpenRange(span.Start, span.End)
	if err != nil {
		return TrackedEdit{}, fmt.Errorf("open range [%d:%d]: %w", span.Start, span.End, err)
	}
	return TrackedEdit{Range: r, NewText: te.NewText}, nil
}

func releaseEdits(edits []TrackedEdit) {
	for _, e := range edits {
		e.Range.Release()
	}
}

func countDistinct(files []File) int {
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		seen[f.Path()] = struct{}{}
	}
	return len(seen)
}

// Package quickfix turns quick-fix suggestions reported by a static-analysis
// engine into edits bound to live, editor-tracked ranges.
//
// The package owns no document state. Line lookup, range tracking and file
// identity belong to the host, reached through the interfaces declared here.
package quickfix

// FileHandle identifies a file as the analysis engine knows it (a path or a
// URI). It is opaque to this package and only meaningful to a Resolver.
type FileHandle string

// Position is a location in analysis-engine coordinates.
type Position struct {
	// Line is the 1-based line number.
	Line int

	// LineOffset is the 0-based character offset within the line.
	LineOffset int
}

// TextRange is a span in analysis-engine coordinates.
type TextRange struct {
	Start Position
	End   Position
}

// TextEditSuggestion replaces the text in Range with NewText.
type TextEditSuggestion struct {
	Range   TextRange
	NewText string
}

// FileEditSuggestion groups the text edits proposed for one file.
type FileEditSuggestion struct {
	Target    FileHandle
	TextEdits []TextEditSuggestion
}

// Suggestion is a quick fix as produced by the analysis engine.
// It is consumed once by an Assembler.
type Suggestion struct {
	// Message describes the fix to the user (e.g., "Remove unused import").
	Message string

	// FileEdits lists the per-file edits in engine order.
	FileEdits []FileEditSuggestion
}

// Span is a half-open range of absolute character offsets in a document.
type Span struct {
	// Start is the offset where the span begins (inclusive).
	Start int

	// End is the offset where the span ends (exclusive).
	End int
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span covers no characters.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// LineIndex exposes the line table of a document.
type LineIndex interface {
	// LineStartOffset returns the absolute offset of the first character of
	// the given 0-based line. Out-of-range lines are reported as errors.
	LineStartOffset(line int) (int, error)
}

// LiveRange is a span tracked by the host document. The host shifts it as the
// document changes and marks it invalid once the text it covered is deleted
// or the document is closed. A LiveRange is borrowed, not owned: it may expire
// at any time.
type LiveRange interface {
	IsValid() bool

	// Span returns the current position of the range.
	Span() Span

	// Release stops tracking. Calling it more than once is harmless.
	Release()
}

// Document is the editor-side model of an open file.
type Document interface {
	LineIndex

	// OpenRange starts tracking [start, end).
	OpenRange(start, end int) (LiveRange, error)
}

// File is a concrete editor-side file.
type File interface {
	// Path identifies the file. Two files with equal paths are the same file.
	Path() string

	// IsValid reports whether the file still exists in the editor.
	IsValid() bool

	// Document returns the live document attached to the file, if any.
	Document() (Document, bool)
}

// Resolver maps analysis-engine handles to editor files.
type Resolver interface {
	Resolve(handle FileHandle) (File, bool)
}

// Logger receives diagnostics when suggestions are discarded.
// *log.Logger from github.com/charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
}

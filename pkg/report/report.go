// Package report decodes the findings of an analysis engine, with the quick
// fixes attached to them, from YAML or JSON.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/qfix/pkg/quickfix"
)

// Report is the top-level document written by the analysis engine.
type Report struct {
	Issues []Issue `yaml:"issues" json:"issues"`
}

// Issue is a single finding.
type Issue struct {
	// Rule identifies the check that produced the issue (e.g., "S1128").
	Rule string `yaml:"rule" json:"rule"`

	// Message describes the finding.
	Message string `yaml:"message" json:"message"`

	// File is the handle of the file the issue was raised on.
	File string `yaml:"file" json:"file"`

	// Range locates the issue, if known.
	Range *Range `yaml:"range,omitempty" json:"range,omitempty"`

	// QuickFixes lists alternative fixes in order of preference.
	QuickFixes []QuickFix `yaml:"quick_fixes" json:"quick_fixes"`
}

// QuickFix is one proposed fix.
type QuickFix struct {
	Message string     `yaml:"message" json:"message"`
	Edits   []FileEdit `yaml:"edits" json:"edits"`
}

// FileEdit lists the text edits for one file.
type FileEdit struct {
	File      string     `yaml:"file" json:"file"`
	TextEdits []TextEdit `yaml:"text_edits" json:"text_edits"`
}

// TextEdit replaces Range with NewText.
type TextEdit struct {
	Range   Range  `yaml:"range" json:"range"`
	NewText string `yaml:"new_text" json:"new_text"`
}

// Range uses 1-based lines and 0-based line offsets.
type Range struct {
	Start Position `yaml:"start" json:"start"`
	End   Position `yaml:"end" json:"end"`
}

// Position is a line and an offset within it.
type Position struct {
	Line   int `yaml:"line" json:"line"`
	Offset int `yaml:"offset" json:"offset"`
}

// FieldError describes an invalid value in a report.
type FieldError struct {
	// Field is a path to the value, e.g. "issues[0].quick_fixes[1].edits[0].file".
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and validates the report at path.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode parses and validates a report. JSON input is accepted as YAML.
func Decode(r io.Reader) (*Report, error) {
	var rep Report
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&rep); err != nil {
		if errors.Is(err, io.EOF) {
			return &rep, nil
		}
		return nil, fmt.Errorf("parse report: %w", err)
	}
	if err := rep.Validate(); err != nil {
		return nil, err
	}
	return &rep, nil
}

// Validate checks every position and file reference in the report.
func (r *Report) Validate() error {
	for i, issue := range r.Issues {
		for j, qf := range issue.QuickFixes {
			prefix := fmt.Sprintf("issues[%d].quick_fixes[%d]", i, j)
			if err := qf.validate(prefix); err != nil {
				return err
			}
		}
	}
	return nil
}

func (q QuickFix) validate(prefix string) error {
	for k, fe := range q.Edits {
		field := fmt.Sprintf("%s.edits[%d]", prefix, k)
		if fe.File == "" {
			return &FieldError{Field: field + ".file", Message: "must not be empty"}
		}
		for l, te := range fe.TextEdits {
			if err := te.Range.validate(fmt.Sprintf("%s.text_edits[%d].range", field, l)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r Range) validate(field string) error {
	if err := r.Start.validate(field + ".start"); err != nil {
		return err
	}
	if err := r.End.validate(field + ".end"); err != nil {
		return err
	}
	if r.End.Line < r.Start.Line || (r.End.Line == r.Start.Line && r.End.Offset < r.Start.Offset) {
		return &FieldError{Field: field, Message: "end is before start"}
	}
	return nil
}

func (p Position) validate(field string) error {
	if p.Line < 1 {
		return &FieldError{Field: field + ".line", Message: fmt.Sprintf("must be at least 1, got %d", p.Line)}
	}
	if p.Offset < 0 {
		return &FieldError{Field: field + ".offset", Message: fmt.Sprintf("must not be negative, got %d", p.Offset)}
	}
	return nil
}

// Suggestions converts the issue's quick fixes, keeping their order.
func (i Issue) Suggestions() []quickfix.Suggestion {
	out := make([]quickfix.Suggestion, 0, len(i.QuickFixes))
	for _, qf := range i.QuickFixes {
		s := quickfix.Suggestion{
			Message:   qf.Message,
			FileEdits: make([]quickfix.FileEditSuggestion, 0, len(qf.Edits)),
		}
		for _, fe := range qf.Edits {
			edits := make([]quickfix.TextEditSuggestion, 0, len(fe.TextEdits))
			for _, te := range fe.TextEdits {
				edits = append(edits, quickfix.TextEditSuggestion{
					Range:   te.Range.toQuickFix(),
					NewText: te.NewText,
				})
			}
			s.FileEdits = append(s.FileEdits, quickfix.FileEditSuggestion{
				Target:    quickfix.FileHandle(fe.File),
				TextEdits: edits,
			})
		}
		out = append(out, s)
	}
	return out
}

// Files returns the distinct file handles referenced by the report's quick
// fixes, in first-seen order.
func (r *Report) Files() []quickfix.FileHandle {
	seen := make(map[string]struct{})
	var files []quickfix.FileHandle
	for _, issue := range r.Issues {
		for _, qf := range issue.QuickFixes {
			for _, fe := range qf.Edits {
				if _, ok := seen[fe.File]; ok {
					continue
				}
				seen[fe.File] = struct{}{}
				files = append(files, quickfix.FileHandle(fe.File))
			}
		}
	}
	return files
}

func (r Range) toQuickFix() quickfix.TextRange {
	return quickfix.TextRange{
		Start: quickfix.Position{Line: r.Start.Line, LineOffset: r.Start.Offset},
		End:   quickfix.Position{Line: r.End.Line, LineOffset: r.End.Offset},
	}
}

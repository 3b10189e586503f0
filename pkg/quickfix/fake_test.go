package quickfix_test

import (
	"errors"
	"fmt"

	"github.com/yaklabco/qfix/pkg/quickfix"
)

var errOutOfRange = errors.New("out of range")

// fakeDoc is a line table with no content.
type fakeDoc struct {
	starts  []int
	size    int
	opened  []*fakeRange
	openErr error
}

func (d *fakeDoc) LineStartOffset(line int) (int, error) {
	if line < 0 || line >= len(d.starts) {
		return 0, fmt.Errorf("line index %d: %w", line, errOutOfRange)
	}
	return d.starts[line], nil
}

func (d *fakeDoc) OpenRange(start, end int) (quickfix.LiveRange, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	if start < 0 || end < start || end > d.size {
		return nil, errOutOfRange
	}
	r := &fakeRange{span: quickfix.Span{Start: start, End: end}, valid: true}
	d.opened = append(d.opened, r)
	return r, nil
}

type fakeRange struct {
	span     quickfix.Span
	valid    bool
	released bool
}

func (r *fakeRange) IsValid() bool       { return r.valid && !r.released }
func (r *fakeRange) Span() quickfix.Span { return r.span }
func (r *fakeRange) Release()            { r.released = true }

type fakeFile struct {
	path  string
	valid bool
	doc   *fakeDoc
}

func (f *fakeFile) Path() string { return f.path }
func (f *fakeFile) IsValid() bool { return f.valid }

func (f *fakeFile) Document() (quickfix.Document, bool) {
	if f.doc == nil {
		return nil, false
	}
	return f.doc, true
}

type fakeResolver map[quickfix.FileHandle]*fakeFile

func (r fakeResolver) Resolve(h quickfix.FileHandle) (quickfix.File, bool) {
	f, ok := r[h]
	if !ok {
		return nil, false
	}
	return f, true
}

// newFile returns a valid file whose document has ten lines of 20 characters.
func newFile(path string) *fakeFile {
	starts := make([]int, 10)
	for i := range starts {
		starts[i] = i * 21
	}
	return &fakeFile{path: path, valid: true, doc: &fakeDoc{starts: starts, size: 10 * 21}}
}

func edit(startLine, startOff, endLine, endOff int, text string) quickfix.TextEditSuggestion {
	return quickfix.TextEditSuggestion{
		Range: quickfix.TextRange{
			Start: quickfix.Position{Line: startLine, LineOffset: startOff},
			End:   quickfix.Position{Line: endLine, LineOffset: endOff},
		},
		NewText: text,
	}
}

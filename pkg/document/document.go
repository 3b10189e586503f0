package document

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/qfix/pkg/quickfix"
)

// Errors returned by Document.
var (
	ErrLineOutOfRange   = errors.New("line out of range")
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrClosed           = errors.New("document closed")
)

// Document is an editable buffer that keeps its range markers up to date.
// Offsets count bytes.
//
// Editing normally happens on one goroutine; the mutex only guards against a
// watcher closing the document concurrently.
type Document struct {
	mu      sync.Mutex
	path    string
	content []byte
	lines   []LineInfo
	markers []*RangeMarker
	version int
	closed  bool
}

var _ quickfix.Document = (*Document)(nil)

// New creates a document holding a copy of content.
func New(path string, content []byte) *Document {
	buf := slices.Clone(content)
	return &Document{
		path:    path,
		content: buf,
		lines:   BuildLines(buf),
	}
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Content returns a copy of the current content.
func (d *Document) Content() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.content)
}

// Len returns the content length in bytes.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.content)
}

// LineCount returns the number of lines. It is never zero.
func (d *Document) LineCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lines)
}

// Version counts the changes made to the document.
func (d *Document) Version() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// IsClosed reports whether Close was called.
func (d *Document) IsClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// LineStartOffset returns the offset of the first byte of the 0-based line.
func (d *Document) LineStartOffset(line int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if line < 0 || line >= len(d.lines) {
		return 0, fmt.Errorf("line index %d of %d: %w", line, len(d.lines), ErrLineOutOfRange)
	}
	return d.lines[line].StartOffset, nil
}

// PositionAt converts offset into a 1-based line and 0-based line offset.
func (d *Document) PositionAt(offset int) (quickfix.Position, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if offset < 0 || offset > len(d.content) {
		return quickfix.Position{}, fmt.Errorf("offset %d of %d: %w", offset, len(d.content), ErrOffsetOutOfRange)
	}
	idx := lineAt(d.lines, offset)
	return quickfix.Position{Line: idx + 1, LineOffset: offset - d.lines[idx].StartOffset}, nil
}

// Text returns the current text of [start, end).
func (d *Document) Text(start, end int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkSpan(start, end); err != nil {
		return "", err
	}
	return string(d.content[start:end]), nil
}

// OpenRange creates a marker tracking [start, end).
func (d *Document) OpenRange(start, end int) (quickfix.LiveRange, error) {
	m, err := d.NewMarker(start, end)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewMarker creates a marker tracking [start, end).
func (d *Document) NewMarker(start, end int) (*RangeMarker, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if err := d.checkSpan(start, end); err != nil {
		return nil, err
	}

	m := &RangeMarker{doc: d, start: start, end: end, valid: true}
	d.markers = append(d.markers, m)
	return m, nil
}

// MarkerCount returns the number of markers still tracked.
func (d *Document) MarkerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.markers)
}

// Replace substitutes text for [start, end) and moves every marker.
// Markers whose whole text is removed become invalid.
func (d *Document) Replace(start, end int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if err := d.checkSpan(start, end); err != nil {
		return err
	}

	next := make([]byte, 0, len(d.content)-(end-start)+len(text))
	next = append(next, d.content[:start]...)
	next = append(next, text...)
	next = append(next, d.content[end:]...)

	d.content = next
	d.lines = BuildLines(next)
	d.version++

	kept := d.markers[:0]
	for _, m := range d.markers {
		if m.shift(start, end, len(text)) {
			kept = append(kept, m)
		}
	}
	clear(d.markers[len(kept):])
	d.markers = kept

	return nil
}

// Insert inserts text at offset.
func (d *Document) Insert(offset int, text string) error {
	return d.Replace(offset, offset, text)
}

// Delete removes [start, end).
func (d *Document) Delete(start, end int) error {
	return d.Replace(start, end, "")
}

// Close invalidates every marker. A closed document rejects further edits.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for _, m := range d.markers {
		m.valid = false
	}
	d.markers = nil
}

func (d *Document) checkSpan(start, end int) error {
	if start < 0 || end < start || end > len(d.content) {
		return fmt.Errorf("span [%d:%d] of %d: %w", start, end, len(d.content), ErrOffsetOutOfRange)
	}
	return nil
}

func (d *Document) release(m *RangeMarker) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if m.released {
		return
	}
	m.released = true
	m.valid = false
	d.markers = slices.DeleteFunc(d.markers, func(other *RangeMarker) bool {
		return other == m
	})
}

package document

import "github.com/yaklabco/qfix/pkg/quickfix"

// RangeMarker is a span of a Document that follows edits made around it.
type RangeMarker struct {
	doc      *Document
	start    int
	end      int
	valid    bool
	released bool
}

var _ quickfix.LiveRange = (*RangeMarker)(nil)

// IsValid reports whether the marker still tracks text.
func (m *RangeMarker) IsValid() bool {
	m.doc.mu.Lock()
	defer m.doc.mu.Unlock()
	return m.valid
}

// Span returns the marker's current span. The span of an invalid marker is
// the last one it had.
func (m *RangeMarker) Span() quickfix.Span {
	m.doc.mu.Lock()
	defer m.doc.mu.Unlock()
	return quickfix.Span{Start: m.start, End: m.end}
}

// Release detaches the marker from its document.
func (m *RangeMarker) Release() {
	m.doc.release(m)
}

// shift moves the marker for a replacement of [start, end) by n bytes and
// reports whether it is still valid. Insertions at the marker's edges stay
// outside it.
func (m *RangeMarker) shift(start, end, n int) bool {
	delta := n - (end - start)

	switch {
	case end <= m.start:
		m.start += delta
		m.end += delta
	case start >= m.end:
	case start <= m.start && end >= m.end:
		m.valid = false
	case start >= m.start && end <= m.end:
		m.end += delta
	case start < m.start:
		m.start = start + n
		m.end += delta
	default:
		m.end = start
	}

	return m.valid
}

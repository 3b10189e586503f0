package quickfix

import "fmt"

// ToOffset converts a 1-based line and 0-based line offset into an absolute
// offset in doc. Bounds are not checked here: a line outside the document
// fails in doc's lookup and that error is returned. The line offset is added
// as is, without clamping to the line's length.
func ToOffset(doc LineIndex, pos Position) (int, error) {
	start, err := doc.LineStartOffset(pos.Line - 1)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", pos.Line, err)
	}
	return start + pos.LineOffset, nil
}

// ToSpan converts both ends of r with ToOffset.
func ToSpan(doc LineIndex, r TextRange) (Span, error) {
	start, err := ToOffset(doc, r.Start)
	if err != nil {
		return Span{}, fmt.Errorf("range start: %w", err)
	}
	end, err := ToOffset(doc, r.End)
	if err != nil {
		return Span{}, fmt.Errorf("range end: %w", err)
	}
	return Span{Start: start, End: end}, nil
}

package document_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/qfix/pkg/document"
	"github.com/yaklabco/qfix/pkg/quickfix"
)

const sample = "package main\n\nimport \"fmt\"\n\nfunc main() {}\n"

func TestDocumentLineStartOffset(t *testing.T) {
	t.Parallel()

	doc := document.New("main.go", []byte(sample))
	assert.Equal(t, 6, doc.LineCount())

	for line, want := range []int{0, 13, 14, 27, 28, 43} {
		got, err := doc.LineStartOffset(line)
		require.NoError(t, err)
		assert.Equal(t, want, got, "line %d", line)
	}

	_, err := doc.LineStartOffset(6)
	require.ErrorIs(t, err, document.ErrLineOutOfRange)
	_, err = doc.LineStartOffset(-1)
	require.ErrorIs(t, err, document.ErrLineOutOfRange)
}

func TestDocumentPositionAt(t *testing.T) {
	t.Parallel()

	doc := document.New("main.go", []byte(sample))

	pos, err := doc.PositionAt(21)
	require.NoError(t, err)
	assert.Equal(t, quickfix.Position{Line: 3, LineOffset: 7}, pos)

	off, err := quickfix.ToOffset(doc, pos)
	require.NoError(t, err)
	assert.Equal(t, 21, off)

	pos, err = doc.PositionAt(len(sample))
	require.NoError(t, err)
	assert.Equal(t, quickfix.Position{Line: 6, LineOffset: 0}, pos)

	_, err = doc.PositionAt(len(sample) + 1)
	require.ErrorIs(t, err, document.ErrOffsetOutOfRange)
}

func TestDocumentReplace(t *testing.T) {
	t.Parallel()

	doc := document.New("a.txt", []byte("hello world"))
	require.NoError(t, doc.Replace(0, 5, "goodbye"))
	assert.Equal(t, "goodbye world", string(doc.Content()))
	assert.Equal(t, 1, doc.Version())

	require.NoError(t, doc.Insert(7, ",\n"))
	assert.Equal(t, "goodbye,\n world", string(doc.Content()))
	assert.Equal(t, 2, doc.LineCount())

	require.NoError(t, doc.Delete(7, 10))
	assert.Equal(t, "goodbyeworld", string(doc.Content()))

	require.ErrorIs(t, doc.Replace(5, 100, ""), document.ErrOffsetOutOfRange)
	require.ErrorIs(t, doc.Replace(5, 4, ""), document.ErrOffsetOutOfRange)

	text, err := doc.Text(0, 7)
	require.NoError(t, err)
	assert.Equal(t, "goodbye", text)
}

func TestMarkerFollowsEdits(t *testing.T) {
	t.Parallel()

	// Marker covers "world" in "hello world!" at [6, 11).
	tests := []struct {
		name      string
		start     int
		end       int
		text      string
		wantValid bool
		wantSpan  quickfix.Span
	}{
		{"insert before", 0, 0, ">> ", true, quickfix.Span{Start: 9, End: 14}},
		{"delete before", 0, 6, "", true, quickfix.Span{Start: 0, End: 5}},
		{"insert at start stays outside", 6, 6, "big ", true, quickfix.Span{Start: 10, End: 15}},
		{"insert at end stays outside", 11, 11, "s", true, quickfix.Span{Start: 6, End: 11}},
		{"edit after", 11, 12, "?!", true, quickfix.Span{Start: 6, End: 11}},
		{"edit inside", 7, 9, "OOO", true, quickfix.Span{Start: 6, End: 12}},
		{"edit at marker start inside", 6, 7, "W", true, quickfix.Span{Start: 6, End: 11}},
		{"overlap left edge", 4, 8, "_", true, quickfix.Span{Start: 5, End: 8}},
		{"overlap right edge", 9, 12, "", true, quickfix.Span{Start: 6, End: 9}},
		{"delete exactly", 6, 11, "", false, quickfix.Span{Start: 6, End: 11}},
		{"replace exactly", 6, 11, "there", false, quickfix.Span{Start: 6, End: 11}},
		{"delete around", 5, 12, "", false, quickfix.Span{Start: 6, End: 11}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := document.New("a.txt", []byte("hello world!"))
			m, err := doc.NewMarker(6, 11)
			require.NoError(t, err)

			require.NoError(t, doc.Replace(tc.start, tc.end, tc.text))
			assert.Equal(t, tc.wantValid, m.IsValid())
			assert.Equal(t, tc.wantSpan, m.Span())
			if tc.wantValid {
				assert.Equal(t, 1, doc.MarkerCount())
			} else {
				assert.Zero(t, doc.MarkerCount(), "invalid markers are dropped")
			}
		})
	}
}

func TestMarkerText(t *testing.T) {
	t.Parallel()

	doc := document.New("a.txt", []byte("alpha beta gamma"))
	m, err := doc.NewMarker(6, 10)
	require.NoError(t, err)

	require.NoError(t, doc.Insert(0, "0123456789"))
	require.NoError(t, doc.Delete(20, 21))
	require.NoError(t, doc.Insert(len("0123456789alpha beta"), "!"))

	span := m.Span()
	text, err := doc.Text(span.Start, span.End)
	require.NoError(t, err)
	assert.Equal(t, "beta", text)
}

func TestEmptyMarker(t *testing.T) {
	t.Parallel()

	doc := document.New("a.txt", []byte("abcdef"))
	m, err := doc.NewMarker(3, 3)
	require.NoError(t, err)

	require.NoError(t, doc.Insert(3, "XY"))
	assert.True(t, m.IsValid())
	assert.Equal(t, quickfix.Span{Start: 5, End: 5}, m.Span())

	require.NoError(t, doc.Delete(4, 6))
	assert.False(t, m.IsValid())
}

func TestDocumentClose(t *testing.T) {
	t.Parallel()

	doc := document.New("a.txt", []byte("abc"))
	m1, err := doc.OpenRange(0, 1)
	require.NoError(t, err)
	m2, err := doc.OpenRange(1, 3)
	require.NoError(t, err)

	doc.Close()
	assert.True(t, doc.IsClosed())
	assert.False(t, m1.IsValid())
	assert.False(t, m2.IsValid())

	require.ErrorIs(t, doc.Insert(0, "x"), document.ErrClosed)
	_, err = doc.OpenRange(0, 1)
	require.ErrorIs(t, err, document.ErrClosed)
}

func TestMarkerRelease(t *testing.T) {
	t.Parallel()

	doc := document.New("a.txt", []byte("abcdef"))
	m, err := doc.NewMarker(2, 4)
	require.NoError(t, err)
	require.Equal(t, 1, doc.MarkerCount())

	m.Release()
	m.Release()
	assert.Zero(t, doc.MarkerCount())
	assert.False(t, m.IsValid())

	require.NoError(t, doc.Insert(0, "zz"))
	assert.Equal(t, quickfix.Span{Start: 2, End: 4}, m.Span(), "released markers stop tracking")
}

func TestMarkerConcurrentRelease(t *testing.T) {
	t.Parallel()

	doc := document.New("a.txt", []byte("abcdef"))
	m, err := doc.NewMarker(2, 4)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Release()
			_ = m.IsValid()
		}()
	}
	wg.Wait()

	assert.Zero(t, doc.MarkerCount())
	assert.False(t, m.IsValid())
}

func TestOpenRangeOutOfBounds(t *testing.T) {
	t.Parallel()

	doc := document.New("a.txt", []byte("abc"))
	_, err := doc.OpenRange(2, 5)
	require.ErrorIs(t, err, document.ErrOffsetOutOfRange)
	_, err = doc.OpenRange(-1, 1)
	require.ErrorIs(t, err, document.ErrOffsetOutOfRange)
}

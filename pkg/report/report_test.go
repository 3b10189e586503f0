package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/qfix/pkg/quickfix"
	"github.com/yaklabco/qfix/pkg/report"
)

const yamlReport = `
issues:
  - rule: S1128
    message: Remove this unused import
    file: src/main.go
    range: {start: {line: 3, offset: 0}, end: {line: 3, offset: 10}}
    quick_fixes:
      - message: Remove unused import
        edits:
          - file: src/main.go
            text_edits:
              - range: {start: {line: 3, offset: 0}, end: {line: 3, offset: 10}}
                new_text: ""
      - message: Comment out import
        edits:
          - file: src/main.go
            text_edits:
              - range: {start: {line: 3, offset: 0}, end: {line: 3, offset: 0}}
                new_text: "// "
  - rule: S100
    message: Rename this function
    file: src/util.go
    quick_fixes:
      - message: Rename everywhere
        edits:
          - file: src/util.go
            text_edits: []
          - file: src/main.go
            text_edits: []
`

const jsonReport = `{
  "issues": [{
    "rule": "S1128",
    "message": "Remove this unused import",
    "file": "a.go",
    "quick_fixes": [{
      "message": "Remove unused import",
      "edits": [{"file": "a.go", "text_edits": [
        {"range": {"start": {"line": 2, "offset": 1}, "end": {"line": 2, "offset": 4}}, "new_text": "x"}
      ]}]
    }]
  }]
}`

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	rep, err := report.Decode(strings.NewReader(yamlReport))
	require.NoError(t, err)
	require.Len(t, rep.Issues, 2)

	issue := rep.Issues[0]
	assert.Equal(t, "S1128", issue.Rule)
	require.NotNil(t, issue.Range)
	assert.Equal(t, 3, issue.Range.Start.Line)

	suggestions := issue.Suggestions()
	require.Len(t, suggestions, 2)
	assert.Equal(t, quickfix.Suggestion{
		Message: "Remove unused import",
		FileEdits: []quickfix.FileEditSuggestion{{
			Target: "src/main.go",
			TextEdits: []quickfix.TextEditSuggestion{{
				Range: quickfix.TextRange{
					Start: quickfix.Position{Line: 3, LineOffset: 0},
					End:   quickfix.Position{Line: 3, LineOffset: 10},
				},
				NewText: "",
			}},
		}},
	}, suggestions[0])
	assert.Equal(t, "// ", suggestions[1].FileEdits[0].TextEdits[0].NewText)

	assert.Equal(t, []quickfix.FileHandle{"src/main.go", "src/util.go"}, rep.Files())
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	rep, err := report.Decode(strings.NewReader(jsonReport))
	require.NoError(t, err)
	require.Len(t, rep.Issues, 1)

	s := rep.Issues[0].Suggestions()
	require.Len(t, s, 1)
	assert.Equal(t, quickfix.Position{Line: 2, LineOffset: 1}, s[0].FileEdits[0].TextEdits[0].Range.Start)
}

func TestDecodeEmpty(t *testing.T) {
	t.Parallel()

	rep, err := report.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rep.Issues)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := report.Decode(strings.NewReader("issues:\n  - rule: x\n    severity: high\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse report")
}

func TestDecodeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  string
		field string
	}{
		{
			name:  "empty file",
			edit:  `{file: "", text_edits: []}`,
			field: "issues[0].quick_fixes[0].edits[0].file",
		},
		{
			name:  "zero line",
			edit:  `{file: a.go, text_edits: [{range: {start: {line: 0, offset: 0}, end: {line: 1, offset: 0}}}]}`,
			field: "issues[0].quick_fixes[0].edits[0].text_edits[0].range.start.line",
		},
		{
			name:  "negative offset",
			edit:  `{file: a.go, text_edits: [{range: {start: {line: 1, offset: 0}, end: {line: 1, offset: -2}}}]}`,
			field: "issues[0].quick_fixes[0].edits[0].text_edits[0].range.end.offset",
		},
		{
			name:  "end before start",
			edit:  `{file: a.go, text_edits: [{range: {start: {line: 2, offset: 0}, end: {line: 1, offset: 5}}}]}`,
			field: "issues[0].quick_fixes[0].edits[0].text_edits[0].range",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			input := "issues:\n  - quick_fixes:\n      - message: m\n        edits:\n          - " + tc.edit + "\n"
			_, err := report.Decode(strings.NewReader(input))

			var fieldErr *report.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonReport), 0o600))

	rep, err := report.Load(path)
	require.NoError(t, err)
	assert.Len(t, rep.Issues, 1)

	_, err = report.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/qfix/internal/cli"
)

const mainSource = `package main

import "os"
import "fmt"

func main() { fmt.Println("hi") }
`

// Line 3 spans offsets [14, 25); the first fix removes it with its newline,
// the second rewrites "os" and goes stale once the first is applied.
const alternativesReport = `
issues:
  - rule: S1128
    message: Remove this unused import
    file: main.go
    range: {start: {line: 3, offset: 0}, end: {line: 3, offset: 11}}
    quick_fixes:
      - message: Remove unused import
        edits:
          - file: main.go
            text_edits:
              - range: {start: {line: 3, offset: 0}, end: {line: 4, offset: 0}}
                new_text: ""
      - message: Use io instead
        edits:
          - file: main.go
            text_edits:
              - range: {start: {line: 3, offset: 7}, end: {line: 3, offset: 11}}
                new_text: '"io"'
`

const rejectedReport = `
issues:
  - rule: S1128
    message: Remove this unused import
    file: main.go
    range: {start: {line: 3, offset: 0}, end: {line: 3, offset: 11}}
    quick_fixes:
      - message: Remove unused import
        edits:
          - file: main.go
            text_edits:
              - range: {start: {line: 3, offset: 0}, end: {line: 4, offset: 0}}
                new_text: ""
      - message: Rename everywhere
        edits:
          - file: main.go
            text_edits: []
          - file: other.go
            text_edits: []
  - rule: X1
    message: Missing file
    file: missing.go
    quick_fixes:
      - message: Touch
        edits:
          - file: missing.go
            text_edits:
              - range: {start: {line: 1, offset: 0}, end: {line: 1, offset: 0}}
                new_text: "// x\n"
`

// syncBuffer is a bytes.Buffer safe for a command writing while a test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type project struct {
	dir    string
	report string
}

func newProject(t *testing.T, report string) project {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(mainSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.go"), []byte("package main\n"), 0o644))

	reportPath := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(reportPath, []byte(report), 0o644))

	return project{dir: dir, report: reportPath}
}

func (p project) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(p.dir, name))
	require.NoError(t, err)
	return string(data)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	assert.Equal(t, "qfix", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"check", "apply", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, name := range []string{"debug", "config", "color", "root"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "global flag %s", name)
	}

	apply, _, err := cmd.Find([]string{"apply"})
	require.NoError(t, err)
	assert.NotNil(t, apply.Flags().Lookup("write"))
	assert.NotNil(t, apply.Flags().Lookup("all"))

	check, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)
	assert.NotNil(t, check.Flags().Lookup("watch"))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "version=1.2.3")
	assert.Contains(t, out.String(), "commit=abc123")
}

func TestHelpIsStyled(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "apply", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "--write")
	assert.Contains(t, stdout, "Global Flags:")
}

func TestCheck(t *testing.T) {
	t.Parallel()

	p := newProject(t, rejectedReport)
	stdout, stderr, err := execute(t, "check", "--root", p.dir, "--color", "never", p.report)
	require.NoError(t, err)

	assert.Equal(t, ""+
		"main.go:3  Remove this unused import  (S1128)\n"+
		"  [1] Remove unused import  applicable\n"+
		"  [2] Rename everywhere  discarded: multi-file edits unsupported\n"+
		"missing.go  Missing file  (X1)\n"+
		"  [1] Touch  discarded: unresolvable document\n"+
		"2 issues, 3 quick fixes (1 applicable, 2 discarded)\n", stdout)
	assert.Contains(t, stderr, "cannot open quick fix target")
	assert.Equal(t, mainSource, p.read(t, "main.go"))
}

func TestCheckDebugLogsRejections(t *testing.T) {
	t.Parallel()

	p := newProject(t, rejectedReport)
	_, stderr, err := execute(t, "check", "--debug", "--root", p.dir, p.report)
	require.NoError(t, err)
	assert.Contains(t, stderr, "quick fix discarded: multi-file edits unsupported")
	assert.Contains(t, stderr, "quick fix discarded: unresolvable document")
}

func TestApplyPreview(t *testing.T) {
	t.Parallel()

	p := newProject(t, rejectedReport)
	stdout, _, err := execute(t, "apply", "--root", p.dir, p.report)
	require.ErrorIs(t, err, cli.ErrFixesSkipped)
	assert.Equal(t, cli.ExitFixesSkipped, cli.ExitCode(err))

	assert.Equal(t, ""+
		"main.go:3  Remove this unused import  (S1128)\n"+
		"  [1] Remove unused import  applied\n"+
		"      main.go:3:1\n"+
		"      - import \"os\"\n"+
		"  [2] Rename everywhere  discarded: multi-file edits unsupported\n"+
		"missing.go  Missing file  (X1)\n"+
		"  [1] Touch  discarded: unresolvable document\n"+
		"dry run: use --write to save changes\n"+
		"2 issues, 3 quick fixes (1 applicable, 2 discarded), 1 applied in 1 file\n", stdout)
	assert.Equal(t, mainSource, p.read(t, "main.go"), "preview must not touch the file")
}

func TestApplyWrite(t *testing.T) {
	t.Parallel()

	p := newProject(t, alternativesReport)
	stdout, _, err := execute(t, "apply", "--write", "--root", p.dir, p.report)
	require.NoError(t, err)

	assert.Contains(t, stdout, "[1] Remove unused import  applied")
	assert.Contains(t, stdout, "[2] Use io instead  not applicable: another fix of this issue was applied")
	assert.Contains(t, stdout, "1 applied in 1 file")
	assert.NotContains(t, stdout, "dry run")

	assert.Equal(t, "package main\n\nimport \"fmt\"\n\nfunc main() { fmt.Println(\"hi\") }\n", p.read(t, "main.go"))
}

func TestApplyAllSkipsStaleFixes(t *testing.T) {
	t.Parallel()

	p := newProject(t, alternativesReport)
	stdout, _, err := execute(t, "apply", "--all", "-w", "--root", p.dir, p.report)
	require.ErrorIs(t, err, cli.ErrFixesSkipped)

	assert.Contains(t, stdout, "[2] Use io instead  skipped: no longer applicable")
	assert.Contains(t, stdout, "1 skipped")
	assert.NotContains(t, p.read(t, "main.go"), `"io"`)
	assert.NotContains(t, p.read(t, "main.go"), `"os"`)
}

func TestApplyWriteFromEnvironment(t *testing.T) {
	t.Setenv("QFIX_WRITE", "true")

	p := newProject(t, alternativesReport)
	_, _, err := execute(t, "apply", "--root", p.dir, p.report)
	require.NoError(t, err)
	assert.NotContains(t, p.read(t, "main.go"), `"os"`)
}

func TestApplyWriteFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("QFIX_WRITE", "true")

	p := newProject(t, alternativesReport)
	stdout, _, err := execute(t, "apply", "--write=false", "--root", p.dir, p.report)
	require.NoError(t, err)
	assert.Contains(t, stdout, "dry run: use --write to save changes")
	assert.Equal(t, mainSource, p.read(t, "main.go"))
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	p := newProject(t, alternativesReport)

	badReport := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badReport, []byte("issues:\n  - quick_fixes: [{edits: [{file: ''}]}]\n"), 0o644))

	badConfig := filepath.Join(t.TempDir(), "qfix.yml")
	require.NoError(t, os.WriteFile(badConfig, []byte("color: purple\n"), 0o644))

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing argument", []string{"check"}, cli.ExitInvalidUsage},
		{"unknown flag", []string{"check", "--bogus", p.report}, cli.ExitInvalidUsage},
		{"missing report", []string{"check", filepath.Join(p.dir, "nope.yaml")}, cli.ExitIOError},
		{"invalid report", []string{"check", badReport}, cli.ExitDataError},
		{"invalid config", []string{"check", "--config", badConfig, p.report}, cli.ExitConfigError},
		{"invalid color flag", []string{"check", "--color", "purple", p.report}, cli.ExitConfigError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, append(tc.args, "--root", p.dir)...)
			require.Error(t, err)
			assert.Equal(t, tc.want, cli.ExitCode(err))
		})
	}

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitInternalError, cli.ExitCode(errors.New("boom")))
}

func TestCheckWatch(t *testing.T) {
	t.Parallel()

	p := newProject(t, alternativesReport)

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	var stdout, stderr syncBuffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"check", "--watch", "--root", p.dir, p.report})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(stderr.String()), []byte("watching for changes"))
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(p.dir, "main.go"), []byte("package main\n"), 0o644))

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(stdout.String()), []byte("changed: main.go"))
	}, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(stdout.String()), []byte("[1] Remove unused import  not applicable"))
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("check --watch did not stop")
	}
}

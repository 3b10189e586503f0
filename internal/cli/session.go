package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/qfix/internal/configloader"
	"github.com/yaklabco/qfix/internal/logging"
	"github.com/yaklabco/qfix/internal/ui/pretty"
	"github.com/yaklabco/qfix/pkg/config"
	"github.com/yaklabco/qfix/pkg/document"
	"github.com/yaklabco/qfix/pkg/quickfix"
	"github.com/yaklabco/qfix/pkg/report"
)

// session is the state shared by check and apply: the resolved
// configuration, the report, and the workspace holding its target files.
type session struct {
	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
	styles *pretty.Styles
	width  int

	report    *report.Report
	workspace *document.Workspace
	assembler *quickfix.Assembler
}

// candidate is one suggestion of an issue and what became of it.
type candidate struct {
	index      int
	suggestion quickfix.Suggestion
	fix        *quickfix.QuickFix
	err        error
}

// issueFixes groups the candidates of one issue in report order.
type issueFixes struct {
	issue      report.Issue
	candidates []*candidate
}

// newSession loads configuration and the report, then opens every file the
// report's quick fixes reference. Files that cannot be opened are logged and
// left out; suggestions targeting them are discarded later.
func newSession(cmd *cobra.Command, flags *globalFlags, reportPath string, override *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, ioErr(fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: flags.configPath,
		CLIConfig:    configloader.MergeAll(flags.cliConfig(cmd), override),
	})
	if err != nil {
		return nil, configErr(fmt.Errorf("load configuration: %w", err))
	}
	cfg := loadResult.Config

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)
	ctx = logging.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	rep, err := report.Load(reportPath)
	if err != nil {
		var fieldErr *report.FieldError
		if errors.As(err, &fieldErr) {
			return nil, reportErr(fmt.Errorf("%s: %w", reportPath, err))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, ioErr(err)
		}
		return nil, reportErr(err)
	}

	ws, err := document.NewWorkspace(cfg.Root, logger)
	if err != nil {
		return nil, ioErr(err)
	}
	for _, handle := range rep.Files() {
		if _, err := ws.Open(ctx, handle); err != nil {
			logger.Warn("cannot open quick fix target", logging.FieldPath, string(handle), logging.FieldError, err)
		}
	}

	out := cmd.OutOrStdout()
	return &session{
		cfg:       cfg,
		logger:    logger,
		out:       out,
		styles:    pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out)),
		width:     pretty.TerminalWidth(out),
		report:    rep,
		workspace: ws,
		assembler: quickfix.NewAssembler(ws, logging.FromContext(ctx)),
	}, nil
}

// assemble converts every suggestion of the report. Failures are kept on the
// candidate rather than returned.
func (s *session) assemble() []issueFixes {
	issues := make([]issueFixes, 0, len(s.report.Issues))
	for _, issue := range s.report.Issues {
		group := issueFixes{issue: issue}
		for i, suggestion := range issue.Suggestions() {
			q, err := s.assembler.Assemble(suggestion)
			if err != nil && !quickfix.IsRejected(err) {
				s.logger.Warn("cannot track quick fix",
					logging.FieldRule, issue.Rule,
					logging.FieldMessage, suggestion.Message,
					logging.FieldError, err)
			}
			group.candidates = append(group.candidates, &candidate{
				index:      i + 1,
				suggestion: suggestion,
				fix:        q,
				err:        err,
			})
		}
		issues = append(issues, group)
	}
	return issues
}

// release drops the live ranges of every fix still held.
func release(issues []issueFixes) {
	for _, group := range issues {
		for _, c := range group.candidates {
			if c.fix != nil {
				c.fix.Release()
			}
		}
	}
}

// print writes s.
func (s *session) print(text string) {
	_, _ = io.WriteString(s.out, text)
}

// printIssue writes the header line of an issue.
func (s *session) printIssue(issue report.Issue) {
	line := 0
	if issue.Range != nil {
		line = issue.Range.Start.Line
	}
	path := issue.File
	if path != "" {
		path = s.workspace.Rel(s.workspace.PathOf(quickfix.FileHandle(path)))
	}
	s.print(s.styles.FormatIssue(path, line, issue.Rule, issue.Message))
}

// status classifies a candidate that has not been applied by this run.
func (c *candidate) status() (pretty.Status, string) {
	var rejected *quickfix.RejectedError
	switch {
	case errors.As(c.err, &rejected):
		return pretty.StatusDiscarded, rejected.Reason.Error()
	case c.err != nil:
		return pretty.StatusFailed, c.err.Error()
	case c.fix.Applied():
		return pretty.StatusApplied, ""
	case c.fix.IsApplicable():
		return pretty.StatusApplicable, ""
	default:
		return pretty.StatusNotApplicable, "target file or edited text changed"
	}
}

func (c *candidate) line(status pretty.Status, reason string) pretty.FixLine {
	return pretty.FixLine{Index: c.index, Message: c.suggestion.Message, Status: status, Reason: reason}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/qfix/internal/logging"
	"github.com/yaklabco/qfix/internal/ui/pretty"
	"github.com/yaklabco/qfix/pkg/config"
	"github.com/yaklabco/qfix/pkg/document"
	"github.com/yaklabco/qfix/pkg/fix"
	"github.com/yaklabco/qfix/pkg/quickfix"
)

type applyFlags struct {
	write bool
	all   bool
}

func newApplyCommand(flags *globalFlags) *cobra.Command {
	local := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply REPORT",
		Short: "Apply the quick fixes of a report",
		Long: `Apply quick fixes from a report in report order.

By default the first applicable fix of each issue is applied; with --all every
fix is tried. A fix whose text was changed by an earlier fix is skipped.
Without --write the edits are only previewed; with --write changed files are
saved atomically, unless they changed on disk since they were read.

Examples:
  qfix apply report.yaml
  qfix apply --write report.yaml
  qfix apply --all --write report.json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, flags, local, args[0])
		},
	}

	cmd.Flags().BoolVarP(&local.write, "write", "w", false, "save changed files")
	cmd.Flags().BoolVar(&local.all, "all", false, "apply every applicable fix of an issue, not only the first")

	return cmd
}

func runApply(cmd *cobra.Command, flags *globalFlags, local *applyFlags, reportPath string) error {
	override := &config.Config{}
	if cmd.Flags().Changed("write") {
		override.Apply.Write = config.Bool(local.write)
	}
	if cmd.Flags().Changed("all") {
		override.Apply.All = config.Bool(local.all)
	}
	sess, err := newSession(cmd, flags, reportPath, override)
	if err != nil {
		return err
	}

	issues := sess.assemble()
	defer release(issues)

	var stats pretty.Stats
	for _, group := range issues {
		if len(group.candidates) > 0 {
			sess.applyIssue(group, &stats)
		}
	}

	saveErr := sess.finish(cmd, &stats)
	sess.print(sess.styles.FormatSummaryOneLine(stats))

	sess.logger.Debug("apply finished",
		logging.FieldIssuesTotal, stats.Issues,
		logging.FieldFixesApplied, stats.Applied,
		logging.FieldFixesStale, stats.Stale,
		logging.FieldFilesModified, stats.FilesModified,
	)

	if saveErr != nil {
		return saveErr
	}
	if stats.Discarded+stats.Stale+stats.Failed > 0 {
		return ErrFixesSkipped
	}
	return nil
}

// applyIssue applies the fixes of one issue and prints their outcome.
func (s *session) applyIssue(group issueFixes, stats *pretty.Stats) {
	stats.Issues++
	s.printIssue(group.issue)

	chosen := false
	for _, c := range group.candidates {
		stats.Fixes++

		status, reason := c.status()
		switch {
		case status == pretty.StatusDiscarded:
			stats.Discarded++
		case status == pretty.StatusFailed:
			stats.Failed++
		case chosen && !s.cfg.Apply.AllEnabled():
			status, reason = pretty.StatusNotApplicable, "another fix of this issue was applied"
		case status == pretty.StatusNotApplicable:
			status, reason = pretty.StatusStale, "no longer applicable"
			stats.Stale++
		default:
			stats.Applicable++
			previews := s.previews(c.fix)
			if err := fix.Apply(c.fix); err != nil {
				status, reason = pretty.StatusFailed, err.Error()
				stats.Failed++
				s.logger.Debug("quick fix failed", logging.FieldMessage, c.suggestion.Message, logging.FieldError, err)
				break
			}
			status, chosen = pretty.StatusApplied, true
			stats.Applied++
			s.print(s.styles.FormatFix(c.line(status, reason)))
			for _, p := range previews {
				s.print(s.styles.FormatEdit(p, s.width))
			}
			continue
		}
		s.print(s.styles.FormatFix(c.line(status, reason)))
	}
}

// previews renders the edits of q against the current document text.
func (s *session) previews(q *quickfix.QuickFix) []pretty.EditPreview {
	f, ok := q.Target().(*document.File)
	if !ok {
		return nil
	}
	edits, err := fix.Edits(q)
	if err != nil {
		return nil
	}

	doc := f.Buffer()
	out := make([]pretty.EditPreview, 0, len(edits))
	for _, e := range edits {
		pos, err := doc.PositionAt(e.StartOffset)
		if err != nil {
			continue
		}
		old, err := doc.Text(e.StartOffset, e.EndOffset)
		if err != nil {
			continue
		}
		out = append(out, pretty.EditPreview{
			Path:    s.workspace.Rel(f.Path()),
			Line:    pos.Line,
			Column:  pos.LineOffset + 1,
			OldText: old,
			NewText: e.NewText,
		})
	}
	return out
}

// finish saves changed files with --write, or counts them otherwise.
func (s *session) finish(cmd *cobra.Command, stats *pretty.Stats) error {
	var errs []error
	for _, f := range s.workspace.Files() {
		if !f.Dirty() {
			continue
		}
		if !s.cfg.Apply.WriteEnabled() {
			stats.FilesModified++
			continue
		}
		written, err := s.workspace.Save(cmd.Context(), f)
		if err != nil {
			s.logger.Error("cannot save file", logging.FieldPath, s.workspace.Rel(f.Path()), logging.FieldError, err)
			errs = append(errs, err)
			continue
		}
		if written {
			stats.FilesModified++
			s.logger.Info("saved", logging.FieldPath, s.workspace.Rel(f.Path()))
		}
	}

	if !s.cfg.Apply.WriteEnabled() && stats.FilesModified > 0 {
		s.print(s.styles.Dim.Render("dry run: use --write to save changes") + "\n")
	}
	if len(errs) > 0 {
		return ioErr(fmt.Errorf("save files: %w", errors.Join(errs...)))
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaklabco/qfix/internal/logging"
	"github.com/yaklabco/qfix/internal/ui/pretty"
)

func newCheckCommand(flags *globalFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check REPORT",
		Short: "Show which quick fixes of a report can be applied",
		Long: `Load a report, track every quick fix it contains in the files it targets,
and print each fix with its status.

A fix is discarded when its file cannot be opened or when it edits more than
one file. With --watch, statuses are printed again whenever a target file
changes on disk, until interrupted.

Examples:
  qfix check report.yaml
  qfix check --root src report.json
  qfix check --watch report.yaml`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags, args[0], watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-check whenever a target file changes on disk")

	return cmd
}

func runCheck(cmd *cobra.Command, flags *globalFlags, reportPath string, watch bool) error {
	sess, err := newSession(cmd, flags, reportPath, nil)
	if err != nil {
		return err
	}

	issues := sess.assemble()
	defer release(issues)

	sess.printStatuses(issues)
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return sess.watch(ctx, issues)
}

// printStatuses writes every issue with the current status of its fixes.
func (s *session) printStatuses(issues []issueFixes) pretty.Stats {
	var stats pretty.Stats
	for _, group := range issues {
		if len(group.candidates) == 0 {
			continue
		}
		stats.Issues++
		s.printIssue(group.issue)
		for _, c := range group.candidates {
			stats.Fixes++
			status, reason := c.status()
			switch status {
			case pretty.StatusApplicable:
				stats.Applicable++
			case pretty.StatusDiscarded:
				stats.Discarded++
			case pretty.StatusFailed:
				stats.Failed++
			}
			s.print(s.styles.FormatFix(c.line(status, reason)))
		}
	}
	s.print(s.styles.FormatSummaryOneLine(stats))
	return stats
}

// watch reprints statuses after every change to an open target file until
// ctx is done.
func (s *session) watch(ctx context.Context, issues []issueFixes) error {
	changed := make(chan string, 16)
	watcher, err := s.workspace.Watch(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	if err != nil {
		return ioErr(fmt.Errorf("watch targets: %w", err))
	}

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	s.logger.Info("watching for changes", logging.FieldFiles, len(s.workspace.Files()))
	for {
		select {
		case <-ctx.Done():
			return <-done
		case path := <-changed:
			s.print("\n" + s.styles.Dim.Render("changed: "+s.workspace.Rel(path)) + "\n")
			s.printStatuses(issues)
		}
	}
}

// exactArgs is cobra.ExactArgs with errors classified as usage errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageErr(err)
		}
		return nil
	}
}

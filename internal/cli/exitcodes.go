package cli

import (
	"errors"

	"github.com/yaklabco/qfix/pkg/config"
	"github.com/yaklabco/qfix/pkg/fsutil"
	"github.com/yaklabco/qfix/pkg/report"
)

// Exit codes for qfix.
const (
	// ExitSuccess indicates every selected fix was applied or is applicable.
	ExitSuccess = 0

	// ExitFixesSkipped indicates some fixes were discarded, skipped or failed.
	ExitFixesSkipped = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates a malformed report.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 78
)

// ErrFixesSkipped signals that a run completed but not every fix went through.
var ErrFixesSkipped = errors.New("some quick fixes were not applied")

// Sentinels tagging the stage a command failed in.
var (
	errUsage  = errors.New("usage")
	errConfig = errors.New("configuration")
	errReport = errors.New("report")
	errIO     = errors.New("i/o")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var (
		valErr   *config.ValidationError
		fieldErr *report.FieldError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFixesSkipped):
		return ExitFixesSkipped
	case errors.Is(err, errUsage):
		return ExitInvalidUsage
	case errors.Is(err, errConfig), errors.As(err, &valErr):
		return ExitConfigError
	case errors.As(err, &fieldErr), errors.Is(err, errReport):
		return ExitDataError
	case errors.Is(err, errIO), errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fsutil.ErrPermissionDenied):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// stageError tags an error with the stage it came from without changing its
// message.
type stageError struct {
	stage error
	err   error
}

func (e *stageError) Error() string   { return e.err.Error() }
func (e *stageError) Unwrap() []error { return []error{e.stage, e.err} }

func usageErr(err error) error  { return &stageError{stage: errUsage, err: err} }
func configErr(err error) error { return &stageError{stage: errConfig, err: err} }
func reportErr(err error) error { return &stageError{stage: errReport, err: err} }
func ioErr(err error) error     { return &stageError{stage: errIO, err: err} }

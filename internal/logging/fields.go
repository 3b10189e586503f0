package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Report fields.
	FieldRule    = "rule"
	FieldIssue   = "issue"
	FieldMessage = "message"

	// Statistics fields.
	FieldIssuesTotal   = "issues_total"
	FieldFixesTotal    = "fixes_total"
	FieldFixesApplied  = "fixes_applied"
	FieldFixesRejected = "fixes_rejected"
	FieldFixesStale    = "fixes_stale"
	FieldFilesModified = "files_modified"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

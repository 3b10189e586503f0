package quickfix

// TrackedEdit replaces the text currently covered by Range with NewText.
type TrackedEdit struct {
	Range   LiveRange
	NewText string
}

// FileEdit groups the tracked edits for one file.
type FileEdit struct {
	Target File
	Edits  []TrackedEdit
}

// QuickFix is an assembled fix ready to be offered to the user.
//
// Every FileEdit targets the same file. The live ranges are borrowed from the
// host document; callers that drop a QuickFix should call Release.
type QuickFix struct {
	// Message is the suggestion's message, unchanged.
	Message string

	// FileEdits keeps the suggestion's order.
	FileEdits []FileEdit

	applied bool
}

// Applied reports whether the fix has been accepted.
func (q *QuickFix) Applied() bool {
	return q.applied
}

// MarkApplied records that the user accepted the fix. After this the fix is
// never applicable again.
func (q *QuickFix) MarkApplied() {
	q.applied = true
}

// IsApplicable reports whether the fix can still be applied: it has not been
// applied yet, and every target file and every tracked range is still valid.
// The answer can change between calls as the documents are edited.
func (q *QuickFix) IsApplicable() bool {
	if q.applied {
		return false
	}
	for _, fe := range q.FileEdits {
		if fe.Target == nil || !fe.Target.IsValid() {
			return false
		}
		for _, e := range fe.Edits {
			if e.Range == nil || !e.Range.IsValid() {
				return false
			}
		}
	}
	return true
}

// Target returns the file the fix edits, or nil for a fix without edits.
func (q *QuickFix) Target() File {
	if len(q.FileEdits) == 0 {
		return nil
	}
	return q.FileEdits[0].Target
}

// EditCount returns the total number of tracked edits.
func (q *QuickFix) EditCount() int {
	n := 0
	for _, fe := range q.FileEdits {
		n += len(fe.Edits)
	}
	return n
}

// Release stops tracking every range of the fix.
func (q *QuickFix) Release() {
	for _, fe := range q.FileEdits {
		for _, e := range fe.Edits {
			if e.Range != nil {
				e.Range.Release()
			}
		}
	}
}

package ankitab

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a database, deck, model or row lookup
	// does not resolve to exactly one result.
	ErrNotFound = errors.New("not found")

	// ErrMalformedRecord is returned when a note's field blob does not
	// match the field list declared by its model. It is never repaired
	// automatically.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnmergeableState is returned when a derive operation is invoked
	// on a table whose format does not allow it, e.g. merging note fields
	// twice or merging a table built from a stale snapshot.
	ErrUnmergeableState = errors.New("table state does not allow this merge")

	// ErrLockedStore is returned when the collection file is held by
	// another process. Close Anki and retry.
	ErrLockedStore = errors.New("collection is locked by another process (close Anki and retry)")
)

// Violation is one integrity problem found by table validation. Fatal
// violations always abort a write; non-fatal ones can be overridden with
// WriteOptions.Force.
type Violation struct {
	Table string
	RowID int64
	Fatal bool
	Msg   string
}

func (v Violation) String() string {
	kind := "warning"
	if v.Fatal {
		kind = "fatal"
	}
	return fmt.Sprintf("%s: %s row %d: %s", kind, v.Table, v.RowID, v.Msg)
}

// ValidationError reports all violations found before a write. The write
// is aborted as a whole; no rows have been touched.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("validation failed with %d violation(s): %s",
		len(e.Violations), strings.Join(msgs, "; "))
}

// HasFatal reports whether any violation is fatal.
func (e *ValidationError) HasFatal() bool {
	for _, v := range e.Violations {
		if v.Fatal {
			return true
		}
	}
	return false
}

// BackupError means the pre-write backup could not be created. The
// collection has not been modified.
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("failed to create backup at %s: %v", e.Path, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

// WriteError wraps a failure that happened after the backup succeeded.
// The collection may be partially written; BackupPath names the copy to
// restore from.
type WriteError struct {
	BackupPath string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write failed after backup was taken, restore manually from %s: %v",
		e.BackupPath, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

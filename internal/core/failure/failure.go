// Package failure defines the three error kinds the record store reports to
// its callers. None of them is fatal: the caller prints the message and keeps
// working with local data.
package failure

import (
	"errors"
	"fmt"
)

// StorageError reports a local I/O problem: missing file, permission, corrupt
// CSV, failed backup.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SyncError reports a remote transport, auth or conflict problem. Local data
// stays authoritative.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync: %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// ValidationError reports input rejected before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsStorage reports whether err is or wraps a StorageError.
func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

// IsSync reports whether err is or wraps a SyncError.
func IsSync(err error) bool {
	var target *SyncError
	return errors.As(err, &target)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

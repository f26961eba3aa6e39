package store

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError names a single invalid field and the reason it was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports caller-supplied data violating a field
// constraint. Fields lists every offending field, not just the first.
type ValidationError struct {
	Kind   string       `json:"kind"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, "; "))
}

// Invalid builds a single-field ValidationError.
func Invalid(kind, field, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Fields: []FieldError{{Field: field, Reason: reason}}}
}

// NotFoundError reports an operation referencing an id absent from the
// current snapshot.
type NotFoundError struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// BackendError wraps a failure of the backing data source. The snapshot is
// always left untouched when one is returned.
type BackendError struct {
	Kind string
	Op   string
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Kind, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ConflictError is reserved for backing sources carrying optimistic
// concurrency tokens. No bundled source returns it today; callers should
// still be prepared to see one.
type ConflictError struct {
	Kind string
	ID   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q was modified concurrently", e.Kind, e.ID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsBackend reports whether err is (or wraps) a BackendError.
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

package profile

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. Every typed error below matches exactly one of them.
var (
	ErrInvalidState = errors.New("operation not valid in current state")
	ErrUnknownField = errors.New("unknown profile field")
	ErrValidation   = errors.New("profile validation failed")
	ErrRemoteSync   = errors.New("remote profile update failed")
	ErrCacheWrite   = errors.New("profile cache write failed")
	ErrLinked       = errors.New("profile is already linked to an identity")
)

// InvalidStateError reports an operation attempted in the wrong state. It is a
// caller defect, not something to show an end user.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("profile: cannot %s while %s", e.Op, e.State)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// UnknownFieldError reports a field name SetField does not accept.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("profile: field %q is not editable", e.Field)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// ValidationError lists the fields of a draft that break the record invariants.
// Reasons carries a short explanation per field for display.
type ValidationError struct {
	Fields  []string
	Reasons map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if reason, ok := e.Reasons[f]; ok {
			parts = append(parts, f+": "+reason)
		} else {
			parts = append(parts, f)
		}
	}
	return "profile: invalid fields: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) add(field, reason string) {
	if e.Reasons == nil {
		e.Reasons = make(map[string]string)
	}
	e.Fields = append(e.Fields, field)
	e.Reasons[field] = reason
}

// RemoteSyncError reports that the remote store did not accept an update. The
// edit session is still open, so the caller may retry or cancel.
type RemoteSyncError struct {
	Err error
}

func (e *RemoteSyncError) Error() string {
	return "profile: remote update failed: " + e.Err.Error()
}

func (e *RemoteSyncError) Unwrap() error { return e.Err }

func (e *RemoteSyncError) Is(target error) bool { return target == ErrRemoteSync }

// CacheWriteError reports that a commit reached the remote store but the local
// cache could not be updated. The commit itself took effect.
type CacheWriteError struct {
	Err error
}

func (e *CacheWriteError) Error() string {
	return "profile: committed, but cache write failed: " + e.Err.Error()
}

func (e *CacheWriteError) Unwrap() error { return e.Err }

func (e *CacheWriteError) Is(target error) bool { return target == ErrCacheWrite }

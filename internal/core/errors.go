package core

import (
	"errors"
	"fmt"
)

// NotFoundError reports an operation against an ID that is not in the store.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError reports a rejected write, such as a task with no display
// text.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FormatError reports a malformed import document. Corrupt persisted slots
// are never surfaced this way; they degrade to empty collections at the load
// boundary instead.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormat reports whether err is a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// CycleError reports a write that would make a task reachable from itself
// through its parent chain or dependency references.
type CycleError struct {
	TaskID  string
	Through string
}

func (e *CycleError) Error() string {
	if e.Through == "" || e.Through == e.TaskID {
		return fmt.Sprintf("task %s cannot reference itself", e.TaskID)
	}
	return fmt.Sprintf("task %s would form a cycle through %s", e.TaskID, e.Through)
}

// IsCycle reports whether err is a CycleError.
func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}

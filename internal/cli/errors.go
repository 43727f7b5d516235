package cli

import (
	"errors"
	"fmt"

	"github.com/datasetutil/datasetutil/internal/model"
)

var (
	// ErrInvalidAction is returned for an unset or unrecognized action.
	ErrInvalidAction = errors.New("invalid action")

	// ErrMissingField is returned when an action lacks a required parameter.
	ErrMissingField = errors.New("required parameter missing")

	// ErrInputClosed is returned when the console input is exhausted.
	ErrInputClosed = errors.New("console input closed")

	// ErrLoginFailed wraps authentication failures.
	ErrLoginFailed = errors.New("login failed")

	// ErrCollaboratorPanic wraps a panic raised inside a collaborator.
	ErrCollaboratorPanic = errors.New("unexpected failure")

	// ErrUploadFailed is returned when the loader reports an unsuccessful upload.
	ErrUploadFailed = errors.New("upload failed, check sessionLog for details")
)

// ArgumentError reports a bad flag or flag value.
type ArgumentError struct {
	Flag   string
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	switch {
	case e.Flag == "":
		return e.Reason
	case e.Value == "":
		return fmt.Sprintf("%s: %s", e.Reason, e.Flag)
	default:
		return fmt.Sprintf("%s {%s} for %s", e.Reason, e.Value, e.Flag)
	}
}

// ActionError wraps a failure reported while performing an action.
type ActionError struct {
	Action model.Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// ExitError carries the process exit code after the failure was reported.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func missingField(action model.Action, field string) error {
	return &ActionError{Action: action, Err: fmt.Errorf("%w: %s must be specified", ErrMissingField, field)}
}

package services

import "errors"

// ErrorKind classifies a workflow failure so the API layer can map it to a
// stable HTTP status without parsing message text.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindForbidden     ErrorKind = "forbidden"
	KindInvalidTarget ErrorKind = "invalid_target"
	KindConflict      ErrorKind = "conflict"
	KindInvalidState  ErrorKind = "invalid_state"
	KindValidation    ErrorKind = "validation_error"
)

// WorkflowError is a precondition failure from the review workflow. Reason is
// a machine-readable detail (e.g. "not_owner"), Message the user-facing text.
type WorkflowError struct {
	Kind    ErrorKind
	Reason  string
	Message string
}

func (e *WorkflowError) Error() string {
	return string(e.Kind) + " (" + e.Reason + "): " + e.Message
}

func notFoundErr(reason, message string) *WorkflowError {
	return &WorkflowError{Kind: KindNotFound, Reason: reason, Message: message}
}

func forbiddenErr(reason, message string) *WorkflowError {
	return &WorkflowError{Kind: KindForbidden, Reason: reason, Message: message}
}

func invalidTargetErr(reason, message string) *WorkflowError {
	return &WorkflowError{Kind: KindInvalidTarget, Reason: reason, Message: message}
}

func conflictErr(reason, message string) *WorkflowError {
	return &WorkflowError{Kind: KindConflict, Reason: reason, Message: message}
}

func invalidStateErr(reason, message string) *WorkflowError {
	return &WorkflowError{Kind: KindInvalidState, Reason: reason, Message: message}
}

func validationErr(reason, message string) *WorkflowError {
	return &WorkflowError{Kind: KindValidation, Reason: reason, Message: message}
}

// AsWorkflowError unwraps err into a WorkflowError if it is one.
func AsWorkflowError(err error) (*WorkflowError, bool) {
	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		return wfErr, true
	}
	return nil, false
}

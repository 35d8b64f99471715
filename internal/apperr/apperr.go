// Package apperr defines the error taxonomy shared by the HTTP handlers and
// services, and the fiber error handler that renders it as {error, code}.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"backend-cuisinequest/internal/db"
)

type Code string

const (
	CodeMissingParameter     Code = "missing-parameter"
	CodeInvalidParameter     Code = "invalid-parameter"
	CodeSelfFollow           Code = "self-follow-not-allowed"
	CodeAlreadyFollowing     Code = "already-following"
	CodeNotFollowing         Code = "not-following"
	CodeMissingRequiredField Code = "missing-required-field"
	CodeNotFound             Code = "not-found"
	CodeIdentityMismatch     Code = "identity-mismatch"
	CodePermissionDenied     Code = "permission-denied"
	CodeStoreUnavailable     Code = "store-unavailable"
)

type Error struct {
	Code    Code
	Status  int
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrMissingParameter     = &Error{Code: CodeMissingParameter, Status: http.StatusBadRequest, Message: "missing parameter"}
	ErrInvalidParameter     = &Error{Code: CodeInvalidParameter, Status: http.StatusBadRequest, Message: "invalid parameter"}
	ErrSelfFollow           = &Error{Code: CodeSelfFollow, Status: http.StatusBadRequest, Message: "cannot follow yourself"}
	ErrAlreadyFollowing     = &Error{Code: CodeAlreadyFollowing, Status: http.StatusBadRequest, Message: "already following this user"}
	ErrNotFollowing         = &Error{Code: CodeNotFollowing, Status: http.StatusNotFound, Message: "not following this user"}
	ErrMissingRequiredField = &Error{Code: CodeMissingRequiredField, Status: http.StatusBadRequest, Message: "missing required field"}
	ErrNotFound             = &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: "not found"}
	ErrIdentityMismatch     = &Error{Code: CodeIdentityMismatch, Status: http.StatusForbidden, Message: "user id does not match the authenticated identity"}
	ErrPermissionDenied     = &Error{Code: CodePermissionDenied, Status: http.StatusForbidden, Message: "content store denied access; check the database role grants for this service"}
	ErrStoreUnavailable     = &Error{Code: CodeStoreUnavailable, Status: http.StatusInternalServerError, Message: "content store unavailable"}
)

func MissingParameter(names ...string) *Error {
	return &Error{
		Code:    CodeMissingParameter,
		Status:  http.StatusBadRequest,
		Message: "missing " + strings.Join(names, " or "),
		Fields:  names,
	}
}

func InvalidParameter(name, value string) *Error {
	return &Error{
		Code:    CodeInvalidParameter,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("invalid %s %q", name, value),
		Fields:  []string{name},
	}
}

func MissingRequiredField(fields ...string) *Error {
	return &Error{
		Code:    CodeMissingRequiredField,
		Status:  http.StatusBadRequest,
		Message: "missing required field(s): " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

func NotFound(what string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: what + " not found"}
}

// Store classifies an error returned by a Content Store round trip.
// Errors that are already classified pass through unchanged.
func Store(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if db.IsPermissionDenied(err) {
		return &Error{Code: CodePermissionDenied, Status: http.StatusForbidden, Message: ErrPermissionDenied.Message, Err: err}
	}
	return &Error{Code: CodeStoreUnavailable, Status: http.StatusInternalServerError, Message: ErrStoreUnavailable.Message, Err: err}
}

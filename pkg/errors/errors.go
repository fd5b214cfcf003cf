package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind is a semantic error category. Kinds are sentinels and work with errors.Is.
type Kind interface {
	error
	Code() string
	isKind()
}

type kind struct {
	name string
	code string
}

func (k kind) Error() string { return k.name }
func (k kind) Code() string  { return k.code }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind.
func NewKind(name, code string) Kind { return kind{name: name, code: code} }

// Common application error kinds
var (
	ErrNotFound     = NewKind("NOT_FOUND", "not_found")
	ErrUnauthorized = NewKind("UNAUTHORIZED", "unauthorized")
	ErrForbidden    = NewKind("FORBIDDEN", "forbidden")
	ErrBadRequest   = NewKind("BAD_REQUEST", "bad_request")
	ErrConflict     = NewKind("CONFLICT", "conflict")
	ErrInternal     = NewKind("INTERNAL", "internal")
	ErrTimeout      = NewKind("TIMEOUT", "timeout")
	ErrUnavailable  = NewKind("UNAVAILABLE", "unavailable")
	ErrRateLimited  = NewKind("RATE_LIMITED", "rate_limited")
)

// Error carries a kind, an optional message and an optional wrapped cause.
//
// errors.Is matches either the kind sentinel or anything in the cause chain.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error that wraps cause.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates an error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error { return e.err }

// Is matches against the kind sentinel or the wrapped error.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && stderrors.Is(e.kind, target) {
		return true
	}
	return e.err != nil && stderrors.Is(e.err, target)
}

// Kind returns the semantic kind, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }

// GRPCStatus returns the gRPC status for this error
func (e *Error) GRPCStatus() *status.Status {
	msg := e.Error()
	if stderrors.Is(e, ErrInternal) {
		msg = e.msg
	}
	return status.New(GRPCCode(e), msg)
}

// NewValidationError creates a bad request error for a field.
func NewValidationError(field, message string) *Error {
	if field != "" {
		return With(ErrBadRequest, "validation failed: %s - %s", field, message)
	}
	return With(ErrBadRequest, "validation failed: %s", message)
}

// NewNotFoundError creates a not found error for resource.
func NewNotFoundError(resource, message string) *Error {
	if message == "" {
		message = resource + " not found"
	}
	return With(ErrNotFound, "%s", message)
}

// NewAlreadyExistsError creates a conflict error for resource.
func NewAlreadyExistsError(resource, message string) *Error {
	if message == "" {
		message = resource + " already exists"
	}
	return With(ErrConflict, "%s", message)
}

// NewInternalError creates an internal error wrapping err.
func NewInternalError(message string, err error) *Error {
	if err == nil {
		return With(ErrInternal, "%s", message)
	}
	return Wrap(ErrInternal, err, "%s", message)
}

// KindOf returns the kind of err, defaulting to ErrInternal.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) && e.kind != nil {
		return e.kind
	}
	for _, k := range []Kind{ErrNotFound, ErrUnauthorized, ErrForbidden, ErrBadRequest, ErrConflict,
		ErrTimeout, ErrUnavailable, ErrRateLimited} {
		if stderrors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// HTTPStatus maps err to an HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrTimeout:
		return http.StatusGatewayTimeout
	case ErrUnavailable:
		return http.StatusServiceUnavailable
	case ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode maps err to a gRPC status code.
func GRPCCode(err error) codes.Code {
	switch KindOf(err) {
	case ErrNotFound:
		return codes.NotFound
	case ErrUnauthorized:
		return codes.Unauthenticated
	case ErrForbidden:
		return codes.PermissionDenied
	case ErrBadRequest:
		return codes.InvalidArgument
	case ErrConflict:
		return codes.AlreadyExists
	case ErrTimeout:
		return codes.DeadlineExceeded
	case ErrUnavailable:
		return codes.Unavailable
	case ErrRateLimited:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}

// PublicMessage returns a message safe to show to clients.
func PublicMessage(err error) string {
	if KindOf(err) == ErrInternal {
		return "An internal error occurred"
	}
	var e *Error
	if stderrors.As(err, &e) && e.msg != "" {
		return e.msg
	}
	return err.Error()
}

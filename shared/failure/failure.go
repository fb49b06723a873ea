package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable failure kinds. These are part of the API contract and must
// stay stable even if the HTTP status mapping changes.
const (
	KindBadRequest             = "bad_request"
	KindUnauthorized           = "unauthorized"
	KindForbidden              = "forbidden"
	KindNotFound               = "not_found"
	KindConflict               = "conflict"
	KindInternal               = "internal_error"
	KindIdentityNotProvisioned = "identity_not_provisioned"
	KindDuplicateAssignment    = "duplicate_assignment"
	KindCapacityExceeded       = "capacity_exceeded"
	KindInvalidTransition      = "invalid_transition"
)

// Failure is a wrapper for error messages with an HTTP status code and a
// stable machine-readable kind.
type Failure struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Error returns the failure message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: msg,
	}
}

// Forbidden returns a new Failure for callers lacking permission on a resource.
func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Kind:    KindForbidden,
		Message: msg,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName + " not found",
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Kind:    KindInternal,
			Message: err.Error(),
		}
	}

	return nil
}

// IdentityNotProvisioned signals that an authenticated caller has no employee
// record yet. Recoverable: the caller can retry once provisioning completes.
func IdentityNotProvisioned() error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindIdentityNotProvisioned,
		Message: "no employee record is provisioned for this identity yet",
	}
}

// DuplicateAssignment signals an active assignment already exists for the
// (booking, employee) pair.
func DuplicateAssignment() error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindDuplicateAssignment,
		Message: "employee already has an active assignment for this booking",
	}
}

// CapacityExceeded signals the booking already has staff_required active
// assignments. Admins may raise staff_required first to override.
func CapacityExceeded(required int) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindCapacityExceeded,
		Message: fmt.Sprintf("booking already has the required %d staff assigned", required),
	}
}

// InvalidTransition names both the current and the requested state.
func InvalidTransition(from, to string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot transition assignment from %s to %s", from, to),
	}
}

// GetCode returns the HTTP status code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the machine-readable kind of an error interface.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind string) bool {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind == kind
	}

	return false
}

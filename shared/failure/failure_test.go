package failure_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/JokoCodes/service-scheduler/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Kind:    failure.KindBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{
			name: "IdentityNotProvisioned",
			err:  failure.IdentityNotProvisioned(),
			code: http.StatusConflict,
			kind: failure.KindIdentityNotProvisioned,
		},
		{
			name: "DuplicateAssignment",
			err:  failure.DuplicateAssignment(),
			code: http.StatusConflict,
			kind: failure.KindDuplicateAssignment,
		},
		{
			name: "CapacityExceeded",
			err:  failure.CapacityExceeded(2),
			code: http.StatusUnprocessableEntity,
			kind: failure.KindCapacityExceeded,
		},
		{
			name: "InvalidTransition",
			err:  failure.InvalidTransition("declined", "accepted"),
			code: http.StatusConflict,
			kind: failure.KindInvalidTransition,
		},
		{
			name: "Forbidden",
			err:  failure.Forbidden("not yours"),
			code: http.StatusForbidden,
			kind: failure.KindForbidden,
		},
		{
			name: "NotFound",
			err:  failure.NotFound("assignment"),
			code: http.StatusNotFound,
			kind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, got)
			}
			if got := failure.GetKind(tt.err); got != tt.kind {
				t.Errorf("expected kind to be %s, got %s", tt.kind, got)
			}
			if !failure.IsKind(tt.err, tt.kind) {
				t.Errorf("expected IsKind to report %s", tt.kind)
			}
		})
	}
}

func TestInvalidTransition_NamesBothStates(t *testing.T) {
	err := failure.InvalidTransition("completed", "accepted")

	want := "cannot transition assignment from completed to accepted"
	if err.Error() != want {
		t.Errorf("expected message %q, got %q", want, err.Error())
	}
}

func TestGetCode_UnknownError(t *testing.T) {
	if code := failure.GetCode(errors.New("boom")); code != http.StatusInternalServerError {
		t.Errorf("expected fallback code 500, got %d", code)
	}

	if kind := failure.GetKind(errors.New("boom")); kind != failure.KindInternal {
		t.Errorf("expected fallback kind internal_error, got %s", kind)
	}
}

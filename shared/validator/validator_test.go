package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JokoCodes/service-scheduler/shared/failure"
	"github.com/JokoCodes/service-scheduler/shared/validator"
)

type assignPayload struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	Role       string `json:"role"        validate:"omitempty,max=50"`
	Notes      string `json:"notes"       validate:"omitempty,max=500"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid payload",
			body:    `{"employee_id":"7b1e6cbe-94d4-4f0a-9f3e-0a4076ac6c33","role":"lead"}`,
			wantErr: false,
		},
		{
			name:    "missing required field",
			body:    `{"role":"lead"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"employee_id":`,
			wantErr: true,
		},
		{
			name:    "employee id is not a uuid",
			body:    `{"employee_id":"auth-identity-123"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := assignPayload{}
			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, failure.IsKind(err, failure.KindBadRequest))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	req := assignPayload{EmployeeID: "7b1e6cbe-94d4-4f0a-9f3e-0a4076ac6c33"}
	assert.NoError(t, validator.ValidateStruct(&req))

	bad := assignPayload{}
	assert.Error(t, validator.ValidateStruct(&bad))
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("accepted", "oneof=accepted declined completed cancelled"))
	assert.Error(t, validator.ValidateVar("paused", "oneof=accepted declined completed cancelled"))
}

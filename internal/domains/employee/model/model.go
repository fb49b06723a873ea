package model

import (
	userModel "github.com/JokoCodes/service-scheduler/internal/domains/user/model"
	"github.com/JokoCodes/service-scheduler/shared/model"
)

const (
	TableName  = "employees"
	EntityName = "employee"

	FieldID         = "id"
	FieldAuthUserID = "auth_user_id"
	FieldFullName   = "full_name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldPosition   = "position"
	FieldActive     = "active"
)

// EmployeeID identifies a staffable worker. It deliberately shares no type
// with user.UserID: an authentication identity must pass through the resolver
// before it can be used anywhere staffing-related.
type EmployeeID string

func (id EmployeeID) String() string {
	return string(id)
}

type Employee struct {
	ID         EmployeeID       `db:"id"`
	AuthUserID userModel.UserID `db:"auth_user_id"`
	FullName   string           `db:"full_name"`
	Email      string           `db:"email"`
	Phone      *string          `db:"phone"`
	Position   *string          `db:"position"`
	Active     bool             `db:"active"`
	model.Metadata
}

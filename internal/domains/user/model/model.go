package model

import (
	"time"

	"github.com/JokoCodes/service-scheduler/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldFullName  = "full_name"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

// UserID identifies an authentication identity. It is a distinct type from
// employee.EmployeeID so the two keyspaces cannot be mixed up in code.
type UserID string

func (id UserID) String() string {
	return string(id)
}

type User struct {
	ID        UserID     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	FullName  *string    `db:"full_name"`
	LastLogin *time.Time `db:"last_login"`
	Active    bool       `db:"active"`
	model.Metadata
}

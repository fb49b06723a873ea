package model

import (
	"time"

	employeeModel "github.com/JokoCodes/service-scheduler/internal/domains/employee/model"
	"github.com/JokoCodes/service-scheduler/shared/model"
)

const (
	TableName  = "assignments"
	EntityName = "assignment"

	FieldID          = "id"
	FieldBookingID   = "booking_id"
	FieldEmployeeID  = "employee_id"
	FieldRole        = "role"
	FieldStatus      = "status"
	FieldAssignedAt  = "assigned_at"
	FieldAcceptedAt  = "accepted_at"
	FieldCompletedAt = "completed_at"
	FieldNotes       = "notes"
)

// Assignment lifecycle states.
const (
	StatusAssigned  = "assigned"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Common assignment roles. The column is free text; these are the values the
// dashboard offers.
const (
	RoleLead       = "lead"
	RoleAssistant  = "assistant"
	RoleSpecialist = "specialist"
	RoleTrainee    = "trainee"
)

// ActiveStatuses are the states that occupy a staffing slot. They match the
// partial unique index on (booking_id, employee_id).
var ActiveStatuses = []string{StatusAssigned, StatusAccepted, StatusCompleted}

// FulfilledStatuses are the states counted into bookings.staff_fulfilled.
var FulfilledStatuses = []string{StatusAccepted, StatusCompleted}

// transitions is the whole lifecycle: assigned branches on the employee's
// response, accepted can complete, and an admin can cancel anything
// non-terminal.
var transitions = map[string][]string{
	StatusAssigned: {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether an assignment may move from one status to
// another. Terminal states allow nothing.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}

	return false
}

// IsTerminal reports whether a status ends the assignment lifecycle.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

type Assignment struct {
	ID         string                   `db:"id"`
	BookingID  string                   `db:"booking_id"`
	EmployeeID employeeModel.EmployeeID `db:"employee_id"`
	Role       string                   `db:"role"`
	Status     string                   `db:"status"`
	AssignedAt time.Time                `db:"assigned_at"`
	// AcceptedAt and CompletedAt are stamped by the corresponding
	// transitions and stay nil otherwise.
	AcceptedAt  *time.Time `db:"accepted_at"`
	CompletedAt *time.Time `db:"completed_at"`
	Notes       string     `db:"notes"`
	model.Metadata
}

// Staffing bands derived from progress counts.
const (
	BandUnstaffed        = "unstaffed"
	BandPartiallyStaffed = "partially_staffed"
	BandFullyStaffed     = "fully_staffed"
)

// StaffingCounts is the aggregator result for one booking. Counting rule:
// assigned includes every active assignment, accepted includes completed,
// completed stands alone, so assigned >= accepted >= completed always holds.
type StaffingCounts struct {
	Required  int `db:"required"`
	Assigned  int `db:"assigned"`
	Accepted  int `db:"accepted"`
	Completed int `db:"completed"`
}

// Band classifies fulfilment against the staffing target using accepted
// assignments, the same measure as bookings.staff_fulfilled.
func (c StaffingCounts) Band() string {
	switch {
	case c.Accepted == 0:
		return BandUnstaffed
	case c.Accepted < c.Required:
		return BandPartiallyStaffed
	default:
		return BandFullyStaffed
	}
}

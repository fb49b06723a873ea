package model

import (
	"time"

	"github.com/JokoCodes/service-scheduler/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldCustomerName   = "customer_name"
	FieldCustomerEmail  = "customer_email"
	FieldCustomerPhone  = "customer_phone"
	FieldAddress        = "address"
	FieldServiceType    = "service_type"
	FieldScheduledDate  = "scheduled_date"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldStaffRequired  = "staff_required"
	FieldStaffFulfilled = "staff_fulfilled"
	FieldStatus         = "status"
	FieldNotes          = "notes"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

type Booking struct {
	ID            string    `db:"id"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
	CustomerPhone string    `db:"customer_phone"`
	Address       string    `db:"address"`
	ServiceType   string    `db:"service_type"`
	ScheduledDate time.Time `db:"scheduled_date"`
	StartTime     time.Time `db:"start_time"`
	EndTime       time.Time `db:"end_time"`
	// StaffRequired is the staffing target; StaffFulfilled is derived from
	// accepted assignments and only ever written by the staffing store.
	StaffRequired  int    `db:"staff_required"`
	StaffFulfilled int    `db:"staff_fulfilled"`
	Status         string `db:"status"`
	Notes          string `db:"notes"`
	model.Metadata
}

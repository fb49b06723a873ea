package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/JokoCodes/service-scheduler/shared/timezone"
)

const (
	TableName  = "notification_outbox"
	EntityName = "notification"

	FieldID        = "id"
	FieldEventType = "event_type"
	FieldAudience  = "audience"
	FieldBookingID = "booking_id"
	FieldPayload   = "payload"
	FieldCreatedAt = "created_at"
	FieldSentAt    = "sent_at"
)

const (
	AudienceAdmin    = "admin"
	AudienceEmployee = "employee"
)

const (
	EventAssignmentCreated   = "assignment.created"
	EventAssignmentAccepted  = "assignment.accepted"
	EventAssignmentDeclined  = "assignment.declined"
	EventAssignmentCompleted = "assignment.completed"
	EventAssignmentCancelled = "assignment.cancelled"
)

// Outbox is a pending notification, appended in the same transaction as the
// assignment mutation it describes and relayed to Kafka by the worker.
type Outbox struct {
	ID        string     `db:"id"`
	EventType string     `db:"event_type"`
	Audience  string     `db:"audience"`
	BookingID string     `db:"booking_id"`
	Payload   []byte     `db:"payload"`
	CreatedAt time.Time  `db:"created_at"`
	SentAt    *time.Time `db:"sent_at"`
}

// AssignmentEventPayload is the notification body for staffing lifecycle
// events. Consumers fan it out to push and dashboard channels.
type AssignmentEventPayload struct {
	AssignmentID string    `json:"assignment_id"`
	BookingID    string    `json:"booking_id"`
	EmployeeID   string    `json:"employee_id"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewAssignmentEvent builds an outbox row for one staffing lifecycle event.
// Marshalling cannot fail for this payload shape, so the error is swallowed
// into an empty body rather than failing the enclosing transaction.
func NewAssignmentEvent(eventType, audience, assignmentID, bookingID, employeeID, status string) Outbox {
	now := timezone.Now()

	payload, err := json.Marshal(AssignmentEventPayload{
		AssignmentID: assignmentID,
		BookingID:    bookingID,
		EmployeeID:   employeeID,
		Status:       status,
		OccurredAt:   now,
	})
	if err != nil {
		payload = []byte("{}")
	}

	return Outbox{
		ID:        uuid.NewString(),
		EventType: eventType,
		Audience:  audience,
		BookingID: bookingID,
		Payload:   payload,
		CreatedAt: now,
	}
}

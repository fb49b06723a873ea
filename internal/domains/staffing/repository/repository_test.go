package repository_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/JokoCodes/service-scheduler/infras/otel/mocks"
	"github.com/JokoCodes/service-scheduler/infras/postgres"
	employeeModel "github.com/JokoCodes/service-scheduler/internal/domains/employee/model"
	notifModel "github.com/JokoCodes/service-scheduler/internal/domains/notification/model"
	notifRepo "github.com/JokoCodes/service-scheduler/internal/domains/notification/repository"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/repository"
	"github.com/JokoCodes/service-scheduler/shared/failure"
	gModel "github.com/JokoCodes/service-scheduler/shared/model"
)

func newAssignmentRepo(t *testing.T) (repository.Assignment, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	conn := &postgres.Connection{
		Read:  sqlx.NewDb(db, "postgres"),
		Write: sqlx.NewDb(db, "postgres"),
	}

	otl := mocks.NewOtel()

	return repository.New(conn, otl, notifRepo.New(conn, otl)), mock
}

func newAssignment(id string, employeeID employeeModel.EmployeeID) model.Assignment {
	now := time.Now()

	return model.Assignment{
		ID:         id,
		BookingID:  "booking-1",
		EmployeeID: employeeID,
		Role:       model.RoleLead,
		Status:     model.StatusAssigned,
		AssignedAt: now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "admin-1",
			ModifiedBy: "admin-1",
		},
	}
}

func createdEvent(assignmentID string, employeeID employeeModel.EmployeeID) notifModel.Outbox {
	return notifModel.NewAssignmentEvent(
		notifModel.EventAssignmentCreated, notifModel.AudienceEmployee,
		assignmentID, "booking-1", string(employeeID), model.StatusAssigned,
	)
}

func bookingRow(staffRequired int, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"staff_required", "status"}).AddRow(staffRequired, status)
}

func activeCountRow(count int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(count)
}

// expectCreateScript scripts one successful create transaction. Ordered
// expectations double as an ordering assertion: the booking row lock must be
// taken before the recount, the insert, and the staff_fulfilled refresh.
func expectCreateScript(mock sqlmock.Sqlmock, staffRequired, activeBefore int) {
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT staff_required, status FROM bookings WHERE id = .+ FOR UPDATE").
		WithArgs("booking-1").
		WillReturnRows(bookingRow(staffRequired, "confirmed"))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(activeCountRow(activeBefore))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET staff_fulfilled").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notification_outbox").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestAssignmentRepository_Create_CommitsAtomically(t *testing.T) {
	repo, mock := newAssignmentRepo(t)

	expectCreateScript(mock, 2, 0)

	err := repo.Create(
		context.Background(),
		newAssignment("assignment-1", "employee-1"),
		createdEvent("assignment-1", "employee-1"),
	)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two creates for the same pair serialize on the booking row lock; the loser
// hits the partial unique index and surfaces a duplicate failure, so exactly
// one attempt succeeds.
func TestAssignmentRepository_Create_SamePairExactlyOneSuccess(t *testing.T) {
	repo, mock := newAssignmentRepo(t)

	expectCreateScript(mock, 3, 0)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT staff_required, status FROM bookings WHERE id = .+ FOR UPDATE").
		WithArgs("booking-1").
		WillReturnRows(bookingRow(3, "confirmed"))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(activeCountRow(1))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	first := repo.Create(context.Background(), newAssignment("assignment-1", "employee-1"), createdEvent("assignment-1", "employee-1"))
	second := repo.Create(context.Background(), newAssignment("assignment-2", "employee-1"), createdEvent("assignment-2", "employee-1"))

	assert.NoError(t, first)
	assert.Error(t, second)
	assert.True(t, failure.IsKind(second, failure.KindDuplicateAssignment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// With staff_required=1 the second create observes the winner's row in its
// post-lock recount and fails capacity before ever reaching the insert: the
// script for the losing transaction contains no INSERT, so an attempted
// insert would fail the test.
func TestAssignmentRepository_Create_SingleSlotExactlyOneSuccess(t *testing.T) {
	repo, mock := newAssignmentRepo(t)

	expectCreateScript(mock, 1, 0)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT staff_required, status FROM bookings WHERE id = .+ FOR UPDATE").
		WithArgs("booking-1").
		WillReturnRows(bookingRow(1, "confirmed"))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(activeCountRow(1))
	mock.ExpectRollback()

	first := repo.Create(context.Background(), newAssignment("assignment-1", "employee-1"), createdEvent("assignment-1", "employee-1"))
	second := repo.Create(context.Background(), newAssignment("assignment-2", "employee-2"), createdEvent("assignment-2", "employee-2"))

	assert.NoError(t, first)
	assert.Error(t, second)
	assert.True(t, failure.IsKind(second, failure.KindCapacityExceeded))
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(second))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An employee_id that does not exist in employees, such as an authentication
// identity pasted where an employee identity belongs, fails the foreign key
// and never produces an assignment row.
func TestAssignmentRepository_Create_UnknownEmployeeIdentity(t *testing.T) {
	repo, mock := newAssignmentRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT staff_required, status FROM bookings WHERE id = .+ FOR UPDATE").
		WithArgs("booking-1").
		WillReturnRows(bookingRow(2, "confirmed"))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(activeCountRow(0))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newAssignment("assignment-1", "auth-user-id"))

	assert.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepository_Create_CancelledBooking(t *testing.T) {
	repo, mock := newAssignmentRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT staff_required, status FROM bookings WHERE id = .+ FOR UPDATE").
		WithArgs("booking-1").
		WillReturnRows(bookingRow(2, "cancelled"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newAssignment("assignment-1", "employee-1"))

	assert.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The transition transaction must take the booking row lock before updating
// the assignment and refreshing staff_fulfilled, otherwise a refresh that
// blocks on a concurrent transition keeps its pre-lock snapshot for the count
// subquery and commits a stale value.
func TestAssignmentRepository_Transition_LocksBookingBeforeRefresh(t *testing.T) {
	repo, mock := newAssignmentRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT staff_required, status FROM bookings WHERE id = .+ FOR UPDATE").
		WithArgs("booking-1").
		WillReturnRows(bookingRow(2, "confirmed"))
	mock.ExpectExec("UPDATE assignments SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET staff_fulfilled").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notification_outbox").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assignment := newAssignment("assignment-1", "employee-1")
	fields := map[string]any{model.FieldStatus: model.StatusAccepted}
	event := notifModel.NewAssignmentEvent(
		notifModel.EventAssignmentAccepted, notifModel.AudienceAdmin,
		assignment.ID, assignment.BookingID, "employee-1", model.StatusAccepted,
	)

	err := repo.Transition(context.Background(), assignment, fields, event)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepository_Transition_MissingBooking(t *testing.T) {
	repo, mock := newAssignmentRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT staff_required, status FROM bookings WHERE id = .+ FOR UPDATE").
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"staff_required", "status"}))
	mock.ExpectRollback()

	err := repo.Transition(context.Background(), newAssignment("assignment-1", "employee-1"), map[string]any{model.FieldStatus: model.StatusAccepted})

	assert.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	bookingModel "github.com/JokoCodes/service-scheduler/internal/domains/booking/model"
	notifModel "github.com/JokoCodes/service-scheduler/internal/domains/notification/model"
	notifRepo "github.com/JokoCodes/service-scheduler/internal/domains/notification/repository"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model"

	"github.com/JokoCodes/service-scheduler/infras/otel"
	"github.com/JokoCodes/service-scheduler/infras/postgres"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	"github.com/JokoCodes/service-scheduler/shared/failure"
	"github.com/JokoCodes/service-scheduler/shared/logger"
	gRepo "github.com/JokoCodes/service-scheduler/shared/repository"
)

// Assignment persists staffing decisions. Every mutation runs in one
// transaction that also refreshes bookings.staff_fulfilled and appends the
// notification outbox rows, so readers never observe a half-applied change.
type Assignment interface {
	Create(ctx context.Context, assignment model.Assignment, events ...notifModel.Outbox) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Assignment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Assignment, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Transition(ctx context.Context, assignment model.Assignment, fields map[string]any, events ...notifModel.Outbox) error
	ProgressCounts(ctx context.Context, bookingID string) (model.StaffingCounts, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Assignment]
	db        *postgres.Connection
	otel      otel.Otel
	notifRepo notifRepo.Notification
}

func New(db *postgres.Connection, otel otel.Otel, notifRepo notifRepo.Notification) Assignment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Assignment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
		notifRepo:  notifRepo,
	}
}

type lockedBooking struct {
	StaffRequired int    `db:"staff_required"`
	Status        string `db:"status"`
}

// Create inserts an assignment behind a row lock on the booking. The lock
// serializes concurrent assignment attempts so the capacity recount cannot
// race; the partial unique index backstops duplicates regardless.
func (repo *repositoryImpl) Create(ctx context.Context, assignment model.Assignment, events ...notifModel.Outbox) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".assignment.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}
	defer repo.rollbackOnError(tx, &err)

	booking, err := repo.lockBooking(ctx, tx, assignment.BookingID)
	if err != nil {
		return err
	}

	if booking.Status == bookingModel.StatusCancelled {
		return failure.Conflict("booking is cancelled")
	}

	active, err := repo.countActiveTx(ctx, tx, assignment.BookingID)
	if err != nil {
		return err
	}

	if active >= booking.StaffRequired {
		return failure.CapacityExceeded(booking.StaffRequired)
	}

	if err = repo.InsertTx(ctx, tx, assignment); err != nil {
		return translateConstraintError(err)
	}

	if err = repo.refreshFulfilledTx(ctx, tx, assignment.BookingID); err != nil {
		return err
	}

	if err = repo.appendEventsTx(ctx, tx, events); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

// Transition applies the already-validated status change. The service owns
// state machine and authorization checks; this only keeps the write atomic.
// The booking row lock must be taken before the staff_fulfilled refresh: under
// READ COMMITTED a refresh that merely blocks on the row lock keeps its
// pre-lock statement snapshot for the count subquery and undercounts a
// concurrently committed transition.
func (repo *repositoryImpl) Transition(ctx context.Context, assignment model.Assignment, fields map[string]any, events ...notifModel.Outbox) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".assignment.Transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}
	defer repo.rollbackOnError(tx, &err)

	if _, err = repo.lockBooking(ctx, tx, assignment.BookingID); err != nil {
		return err
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    assignment.ID,
				Table:    model.TableName,
			},
		},
	}

	if err = repo.UpdateTx(ctx, tx, fields, filter); err != nil {
		return err //nolint:wrapcheck
	}

	if err = repo.refreshFulfilledTx(ctx, tx, assignment.BookingID); err != nil {
		return err
	}

	if err = repo.appendEventsTx(ctx, tx, events); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

// ProgressCounts aggregates one booking's staffing state in a single query.
// The FILTER clauses implement the containment rule: assigned covers every
// active assignment, accepted covers accepted and completed.
func (repo *repositoryImpl) ProgressCounts(ctx context.Context, bookingID string) (counts model.StaffingCounts, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".assignment.ProgressCounts")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `
		SELECT
			b.staff_required AS required,
			COUNT(a.id) FILTER (WHERE a.status IN ('assigned', 'accepted', 'completed')) AS assigned,
			COUNT(a.id) FILTER (WHERE a.status IN ('accepted', 'completed')) AS accepted,
			COUNT(a.id) FILTER (WHERE a.status = 'completed') AS completed
		FROM bookings b
		LEFT JOIN assignments a ON a.booking_id = b.id
		WHERE b.id = $1
		GROUP BY b.staff_required`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.GetContext(ctx, &counts, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return counts, failure.NotFound("booking")
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return counts, fmt.Errorf("failed to aggregate staffing progress: %w", err)
	}

	return counts, nil
}

func (repo *repositoryImpl) lockBooking(ctx context.Context, tx *sqlx.Tx, bookingID string) (booking lockedBooking, err error) {
	query := fmt.Sprintf("SELECT staff_required, status FROM %s WHERE id = $1 FOR UPDATE", bookingModel.TableName)

	err = tx.GetContext(ctx, &booking, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return booking, failure.NotFound("booking")
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return booking, fmt.Errorf("failed to lock booking row: %w", err)
	}

	return booking, nil
}

func (repo *repositoryImpl) countActiveTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (count int, err error) {
	query, args, err := sqlx.In(
		fmt.Sprintf("SELECT COUNT(id) FROM %s WHERE booking_id = ? AND status IN (?)", model.TableName),
		bookingID, model.ActiveStatuses,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to build active assignment count query: %w", err)
	}

	err = tx.GetContext(ctx, &count, tx.Rebind(query), args...)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count active assignments: %w", err)
	}

	return count, nil
}

// refreshFulfilledTx recomputes staff_fulfilled from accepted assignments in
// the same transaction as the mutation, so the denormalized column can never
// lag behind the assignment rows.
func (repo *repositoryImpl) refreshFulfilledTx(ctx context.Context, tx *sqlx.Tx, bookingID string) error {
	query, args, err := sqlx.In(
		fmt.Sprintf(
			"UPDATE %s SET staff_fulfilled = (SELECT COUNT(id) FROM %s WHERE booking_id = ? AND status IN (?)) WHERE id = ?",
			bookingModel.TableName, model.TableName,
		),
		bookingID, model.FulfilledStatuses, bookingID,
	)
	if err != nil {
		return fmt.Errorf("failed to build staff_fulfilled refresh query: %w", err)
	}

	if _, err = tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to refresh staff_fulfilled: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) appendEventsTx(ctx context.Context, tx *sqlx.Tx, events []notifModel.Outbox) error {
	for _, event := range events {
		if err := repo.notifRepo.InsertTx(ctx, tx, event); err != nil {
			log.Error().Err(err).Str("eventType", event.EventType).Msg("failed to append notification outbox row")

			return fmt.Errorf("failed to append notification outbox row: %w", err)
		}
	}

	return nil
}

func (repo *repositoryImpl) rollbackOnError(tx *sqlx.Tx, err *error) {
	if *err == nil {
		return
	}

	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		log.Error().Err(rbErr).Msg("failed to rollback assignment transaction")
	}
}

// translateConstraintError maps database constraint violations onto the
// staffing failure taxonomy so raw pq errors never reach callers.
func translateConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeUniqueViolation:
		return failure.DuplicateAssignment()
	case constant.PqErrorCodeFkViolation:
		return failure.NotFound("employee")
	default:
		return err
	}
}

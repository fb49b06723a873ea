package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/infras/otel/mocks"
	employeeModel "github.com/JokoCodes/service-scheduler/internal/domains/employee/model"
	resolverMocks "github.com/JokoCodes/service-scheduler/internal/domains/employee/service/mocks"
	notifModel "github.com/JokoCodes/service-scheduler/internal/domains/notification/model"
	staffingMocks "github.com/JokoCodes/service-scheduler/internal/domains/staffing/mocks"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model/dto"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/service"
	cacheMocks "github.com/JokoCodes/service-scheduler/shared/cache/mocks"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	"github.com/JokoCodes/service-scheduler/shared/failure"
	"github.com/JokoCodes/service-scheduler/shared/timezone"
)

const (
	testBookingID    = "booking-1"
	testAssignmentID = "assignment-1"
	testEmployeeID   = employeeModel.EmployeeID("emp-1")
	testAuthID       = "auth-1"
)

type testDeps struct {
	svc      service.Staffing
	repo     *staffingMocks.MockAssignment
	resolver *resolverMocks.MockEmployee
	cache    *cacheMocks.MockRedisCache
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := staffingMocks.NewMockAssignment(ctrl)
	resolver := resolverMocks.NewMockEmployee(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	// Mutations invalidate caches from a detached goroutine; the calls may or
	// may not land before the test finishes.
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return testDeps{
		svc:      service.New(repo, resolver, cfg, cache, mocks.NewOtel()),
		repo:     repo,
		resolver: resolver,
		cache:    cache,
	}
}

func employeeCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, testAuthID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleEmployee)
}

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-auth-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func assignedAssignment() model.Assignment {
	return model.Assignment{
		ID:         testAssignmentID,
		BookingID:  testBookingID,
		EmployeeID: testEmployeeID,
		Role:       model.RoleLead,
		Status:     model.StatusAssigned,
		AssignedAt: timezone.Now(),
	}
}

func TestStaffingService_Assign(t *testing.T) {
	req := dto.CreateAssignmentRequest{
		EmployeeID: "emp-1",
		Role:       model.RoleLead,
	}

	t.Run("creates assignment with outbox event", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, assignment model.Assignment, events ...notifModel.Outbox) error {
				assert.Equal(t, testBookingID, assignment.BookingID)
				assert.Equal(t, testEmployeeID, assignment.EmployeeID)
				assert.Equal(t, model.StatusAssigned, assignment.Status)

				if assert.Len(t, events, 1) {
					assert.Equal(t, notifModel.EventAssignmentCreated, events[0].EventType)
					assert.Equal(t, notifModel.AudienceEmployee, events[0].Audience)
				}

				return nil
			})

		res, err := deps.svc.Assign(adminCtx(), testBookingID, req)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusAssigned, res.Status)
	})

	t.Run("duplicate active assignment", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(failure.DuplicateAssignment())

		_, err := deps.svc.Assign(adminCtx(), testBookingID, req)

		assert.True(t, failure.IsKind(err, failure.KindDuplicateAssignment))
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(failure.CapacityExceeded(2))

		_, err := deps.svc.Assign(adminCtx(), testBookingID, req)

		assert.True(t, failure.IsKind(err, failure.KindCapacityExceeded))
		assert.Equal(t, 422, failure.GetCode(err))
	})
}

func TestStaffingService_Transition(t *testing.T) {
	t.Run("owner accepts assigned assignment", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedAssignment(), nil)

		deps.resolver.EXPECT().
			ResolveEmployeeID(gomock.Any(), gomock.Any()).
			Return(testEmployeeID, nil)

		deps.repo.EXPECT().
			Transition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ model.Assignment, fields map[string]any, events ...notifModel.Outbox) error {
				assert.Equal(t, model.StatusAccepted, fields[model.FieldStatus])
				assert.NotNil(t, fields[model.FieldAcceptedAt])

				if assert.Len(t, events, 1) {
					assert.Equal(t, notifModel.EventAssignmentAccepted, events[0].EventType)
					assert.Equal(t, notifModel.AudienceAdmin, events[0].Audience)
				}

				return nil
			})

		res, err := deps.svc.Transition(employeeCtx(), testBookingID, testAssignmentID, dto.TransitionAssignmentRequest{Status: model.StatusAccepted})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusAccepted, res.Status)
		assert.NotEmpty(t, res.AcceptedAt)
	})

	t.Run("non-owner gets forbidden before any state check", func(t *testing.T) {
		deps := newTestDeps(t)

		// Already-terminal row: a forbidden caller must still see 403, not
		// the invalid-transition conflict.
		declined := assignedAssignment()
		declined.Status = model.StatusDeclined

		deps.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(declined, nil)

		deps.resolver.EXPECT().
			ResolveEmployeeID(gomock.Any(), gomock.Any()).
			Return(employeeModel.EmployeeID("someone-else"), nil)

		_, err := deps.svc.Transition(employeeCtx(), testBookingID, testAssignmentID, dto.TransitionAssignmentRequest{Status: model.StatusAccepted})

		assert.True(t, failure.IsKind(err, failure.KindForbidden))
	})

	t.Run("unprovisioned caller", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedAssignment(), nil)

		deps.resolver.EXPECT().
			ResolveEmployeeID(gomock.Any(), gomock.Any()).
			Return(employeeModel.EmployeeID(""), failure.IdentityNotProvisioned())

		_, err := deps.svc.Transition(employeeCtx(), testBookingID, testAssignmentID, dto.TransitionAssignmentRequest{Status: model.StatusAccepted})

		assert.True(t, failure.IsKind(err, failure.KindIdentityNotProvisioned))
	})

	t.Run("illegal transition names both states", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedAssignment(), nil)

		deps.resolver.EXPECT().
			ResolveEmployeeID(gomock.Any(), gomock.Any()).
			Return(testEmployeeID, nil)

		_, err := deps.svc.Transition(employeeCtx(), testBookingID, testAssignmentID, dto.TransitionAssignmentRequest{Status: model.StatusCompleted})

		assert.True(t, failure.IsKind(err, failure.KindInvalidTransition))
		assert.Contains(t, err.Error(), model.StatusAssigned)
		assert.Contains(t, err.Error(), model.StatusCompleted)
	})

	t.Run("admin may transition on behalf of the employee", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedAssignment(), nil)

		deps.repo.EXPECT().
			Transition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := deps.svc.Transition(adminCtx(), testBookingID, testAssignmentID, dto.TransitionAssignmentRequest{Status: model.StatusDeclined})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusDeclined, res.Status)
	})

	t.Run("assignment missing", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Assignment{}, nil)

		_, err := deps.svc.Transition(adminCtx(), testBookingID, "missing", dto.TransitionAssignmentRequest{Status: model.StatusAccepted})

		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestStaffingService_AcceptThenComplete(t *testing.T) {
	deps := newTestDeps(t)

	accepted := assignedAssignment()
	accepted.Status = model.StatusAccepted
	now := timezone.Now()
	accepted.AcceptedAt = &now

	deps.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(accepted, nil)

	deps.resolver.EXPECT().
		ResolveEmployeeID(gomock.Any(), gomock.Any()).
		Return(testEmployeeID, nil)

	deps.repo.EXPECT().
		Transition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ model.Assignment, fields map[string]any, events ...notifModel.Outbox) error {
			assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])
			assert.NotNil(t, fields[model.FieldCompletedAt])

			if assert.Len(t, events, 1) {
				assert.Equal(t, notifModel.EventAssignmentCompleted, events[0].EventType)
			}

			return nil
		})

	res, err := deps.svc.Transition(employeeCtx(), testBookingID, testAssignmentID, dto.TransitionAssignmentRequest{Status: model.StatusCompleted})

	assert.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, res.Status)
	assert.NotEmpty(t, res.CompletedAt)
}

func TestStaffingService_Cancel(t *testing.T) {
	t.Run("non-admin forbidden without touching the store", func(t *testing.T) {
		deps := newTestDeps(t)

		err := deps.svc.Cancel(employeeCtx(), testBookingID, testAssignmentID)

		assert.True(t, failure.IsKind(err, failure.KindForbidden))
	})

	t.Run("cancels active assignment", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedAssignment(), nil)

		deps.repo.EXPECT().
			Transition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ model.Assignment, fields map[string]any, events ...notifModel.Outbox) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])

				if assert.Len(t, events, 1) {
					assert.Equal(t, notifModel.EventAssignmentCancelled, events[0].EventType)
					assert.Equal(t, notifModel.AudienceEmployee, events[0].Audience)
				}

				return nil
			})

		err := deps.svc.Cancel(adminCtx(), testBookingID, testAssignmentID)

		assert.NoError(t, err)
	})

	t.Run("already terminal succeeds without a write", func(t *testing.T) {
		for _, status := range []string{model.StatusCancelled, model.StatusDeclined, model.StatusCompleted} {
			deps := newTestDeps(t)

			terminal := assignedAssignment()
			terminal.Status = status

			deps.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(terminal, nil)

			err := deps.svc.Cancel(adminCtx(), testBookingID, testAssignmentID)

			assert.NoError(t, err, status)
		}
	})
}

func TestStaffingService_Progress(t *testing.T) {
	t.Run("aggregates and bands", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		deps.repo.EXPECT().
			ProgressCounts(gomock.Any(), testBookingID).
			Return(model.StaffingCounts{Required: 3, Assigned: 3, Accepted: 2, Completed: 1}, nil)

		res, err := deps.svc.Progress(context.Background(), testBookingID)

		assert.NoError(t, err)
		assert.Equal(t, 3, res.Required)
		assert.Equal(t, 3, res.Assigned)
		assert.Equal(t, 2, res.Accepted)
		assert.Equal(t, 1, res.Completed)
		assert.Equal(t, model.BandPartiallyStaffed, res.Band)
		assert.GreaterOrEqual(t, res.Assigned, res.Accepted)
		assert.GreaterOrEqual(t, res.Accepted, res.Completed)
	})

	t.Run("unknown booking", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		deps.repo.EXPECT().
			ProgressCounts(gomock.Any(), "missing").
			Return(model.StaffingCounts{}, failure.NotFound("booking"))

		_, err := deps.svc.Progress(context.Background(), "missing")

		assert.True(t, failure.IsKind(err, failure.KindNotFound))
	})
}

func TestStaffingService_ListMine(t *testing.T) {
	t.Run("resolves caller then lists", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.resolver.EXPECT().
			ResolveEmployeeID(gomock.Any(), gomock.Any()).
			Return(testEmployeeID, nil)

		deps.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		deps.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)

		deps.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Assignment{assignedAssignment()}, nil)

		res, err := deps.svc.ListMine(employeeCtx(), listParams(), "")

		assert.NoError(t, err)
		assert.Len(t, res.Assignments, 1)
		assert.Equal(t, testAssignmentID, res.Assignments[0].ID)
	})

	t.Run("deactivated caller is rejected", func(t *testing.T) {
		deps := newTestDeps(t)

		deps.resolver.EXPECT().
			ResolveEmployeeID(gomock.Any(), gomock.Any()).
			Return(employeeModel.EmployeeID(""), failure.Forbidden("employee account is deactivated"))

		_, err := deps.svc.ListMine(employeeCtx(), listParams(), "")

		assert.True(t, failure.IsKind(err, failure.KindForbidden))
	})
}

func listParams() gDto.QueryParams {
	return gDto.QueryParams{Page: 1, Limit: 10, SortBy: "assigned_at", SortDir: "DESC"}
}

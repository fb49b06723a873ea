package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/infras/otel"
	bookingService "github.com/JokoCodes/service-scheduler/internal/domains/booking/service"
	employeeModel "github.com/JokoCodes/service-scheduler/internal/domains/employee/model"
	employeeService "github.com/JokoCodes/service-scheduler/internal/domains/employee/service"
	notifModel "github.com/JokoCodes/service-scheduler/internal/domains/notification/model"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model/dto"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/repository"
	userModel "github.com/JokoCodes/service-scheduler/internal/domains/user/model"
	"github.com/JokoCodes/service-scheduler/shared"
	"github.com/JokoCodes/service-scheduler/shared/cache"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	"github.com/JokoCodes/service-scheduler/shared/failure"
	"github.com/JokoCodes/service-scheduler/shared/timezone"
)

const (
	cacheGetAllStaffing = "staffing:gets"
	cacheSummary        = "staffing:summary"
)

// Staffing owns the assignment lifecycle. Callers are identified by the auth
// context; employee-facing operations resolve the auth identity to an
// employee identity before anything else, and authorization is always checked
// before state validity so a forbidden caller learns nothing about the row.
type Staffing interface {
	Assign(ctx context.Context, bookingID string, req dto.CreateAssignmentRequest) (dto.AssignmentResponse, error)
	ListByBooking(ctx context.Context, bookingID string, params gDto.QueryParams) (dto.GetAssignmentsResponse, error)
	ListMine(ctx context.Context, params gDto.QueryParams, statusFilter string) (dto.GetAssignmentsResponse, error)
	Transition(ctx context.Context, bookingID, assignmentID string, req dto.TransitionAssignmentRequest) (dto.AssignmentResponse, error)
	Cancel(ctx context.Context, bookingID, assignmentID string) error
	Progress(ctx context.Context, bookingID string) (dto.StaffingSummaryResponse, error)
}

type serviceImpl struct {
	repo     repository.Assignment
	resolver employeeService.Employee
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Assignment, resolver employeeService.Employee, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Staffing {
	return &serviceImpl{
		repo:     repo,
		resolver: resolver,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Assign(ctx context.Context, bookingID string, req dto.CreateAssignmentRequest) (res dto.AssignmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	assignment := req.ToModel(bookingID, user)

	event := notifModel.NewAssignmentEvent(
		notifModel.EventAssignmentCreated,
		notifModel.AudienceEmployee,
		assignment.ID, bookingID, assignment.EmployeeID.String(), assignment.Status,
	)

	if err = s.repo.Create(ctx, assignment, event); err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to create assignment")

		if failure.GetCode(err) >= 500 {
			return res, fmt.Errorf("failed to create assignment: %w", err)
		}

		return res, err
	}

	s.invalidateStaffing(ctx, bookingID)

	res.FromModel(assignment)

	return res, nil
}

func (s *serviceImpl) ListByBooking(ctx context.Context, bookingID string, params gDto.QueryParams) (res dto.GetAssignmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(bookingID, model.FieldBookingID, model.TableName)

	return s.list(ctx, params, filter)
}

// ListMine lists the calling employee's own assignments. The auth identity is
// resolved first; an unprovisioned or deactivated caller never reaches the
// assignment store.
func (s *serviceImpl) ListMine(ctx context.Context, params gDto.QueryParams, statusFilter string) (res dto.GetAssignmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	employeeID, err := s.resolveCaller(ctx)
	if err != nil {
		return res, err
	}

	filters := []any{
		gDto.Filter{
			Field:    model.FieldEmployeeID,
			Operator: gDto.FilterOperatorEq,
			Value:    employeeID.String(),
			Table:    model.TableName,
		},
	}

	if statusFilter != "" {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    statusFilter,
			Table:    model.TableName,
		})
	}

	return s.list(ctx, params, gDto.FilterGroup{Filters: filters})
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAssignmentsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllStaffing, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for assignments")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count assignments")

		return res, fmt.Errorf("failed to count assignments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get assignments")

		return res, fmt.Errorf("failed to get assignments: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save assignments to cache")
		}
	}()

	return res, nil
}

// Transition moves an assignment through its lifecycle on behalf of the
// calling employee, or of an admin acting for them. Authorization is decided
// strictly before the state machine is consulted.
func (s *serviceImpl) Transition(ctx context.Context, bookingID, assignmentID string, req dto.TransitionAssignmentRequest) (res dto.AssignmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	assignment, err := s.getScoped(ctx, bookingID, assignmentID)
	if err != nil {
		return res, err
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleAdmin {
		employeeID, resolveErr := s.resolveCaller(ctx)
		if resolveErr != nil {
			return res, resolveErr
		}

		if employeeID != assignment.EmployeeID {
			return res, failure.Forbidden("not allowed to modify this assignment")
		}
	}

	if !model.CanTransition(assignment.Status, req.Status) {
		return res, failure.InvalidTransition(assignment.Status, req.Status)
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	fields := shared.TransformFields(struct{}{}, user)
	fields[model.FieldStatus] = req.Status

	if req.Notes != "" {
		fields[model.FieldNotes] = req.Notes
		assignment.Notes = req.Notes
	}

	switch req.Status {
	case model.StatusAccepted:
		fields[model.FieldAcceptedAt] = now
		assignment.AcceptedAt = &now
	case model.StatusCompleted:
		fields[model.FieldCompletedAt] = now
		assignment.CompletedAt = &now
	}

	event := notifModel.NewAssignmentEvent(
		transitionEventType(req.Status),
		notifModel.AudienceAdmin,
		assignment.ID, bookingID, assignment.EmployeeID.String(), req.Status,
	)

	if err = s.repo.Transition(ctx, assignment, fields, event); err != nil {
		log.Error().Err(err).Str("assignmentID", assignmentID).Msg("failed to transition assignment")

		return res, fmt.Errorf("failed to transition assignment: %w", err)
	}

	s.invalidateStaffing(ctx, bookingID)

	assignment.Status = req.Status
	res.FromModel(assignment)

	return res, nil
}

// Cancel withdraws an assignment. Only admins may cancel, and cancelling an
// already-terminal assignment succeeds without touching the row so retried
// requests stay safe.
func (s *serviceImpl) Cancel(ctx context.Context, bookingID, assignmentID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleAdmin {
		return failure.Forbidden("only admins can cancel assignments")
	}

	assignment, err := s.getScoped(ctx, bookingID, assignmentID)
	if err != nil {
		return err
	}

	if model.IsTerminal(assignment.Status) {
		return nil
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	fields := shared.TransformFields(struct{}{}, user)
	fields[model.FieldStatus] = model.StatusCancelled

	event := notifModel.NewAssignmentEvent(
		notifModel.EventAssignmentCancelled,
		notifModel.AudienceEmployee,
		assignment.ID, bookingID, assignment.EmployeeID.String(), model.StatusCancelled,
	)

	if err = s.repo.Transition(ctx, assignment, fields, event); err != nil {
		log.Error().Err(err).Str("assignmentID", assignmentID).Msg("failed to cancel assignment")

		return fmt.Errorf("failed to cancel assignment: %w", err)
	}

	s.invalidateStaffing(ctx, bookingID)

	return nil
}

// Progress reports staffing fulfilment for a booking, cached until the next
// assignment mutation invalidates it.
func (s *serviceImpl) Progress(ctx context.Context, bookingID string) (res dto.StaffingSummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Progress")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheSummary, bookingID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staffing summary")

		return res, nil
	}

	counts, err := s.repo.ProgressCounts(ctx, bookingID)
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to aggregate staffing progress")

			return res, fmt.Errorf("failed to aggregate staffing progress: %w", err)
		}

		return res, err
	}

	res.FromCounts(bookingID, counts)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staffing summary to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) resolveCaller(ctx context.Context) (employeeModel.EmployeeID, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return s.resolver.ResolveEmployeeID(ctx, userModel.UserID(user)) //nolint:wrapcheck
}

// getScoped fetches an assignment within its booking. Scoping the lookup by
// booking id keeps assignment ids unguessable across bookings.
func (s *serviceImpl) getScoped(ctx context.Context, bookingID, assignmentID string) (model.Assignment, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    assignmentID,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "filter_booking_id",
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.TableName,
			},
		},
	}

	assignment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("assignmentID", assignmentID).Msg("failed to get assignment")

		return assignment, fmt.Errorf("failed to get assignment: %w", err)
	}

	if assignment.ID == constant.Empty {
		return assignment, failure.NotFound("assignment")
	}

	return assignment, nil
}

func (s *serviceImpl) invalidateStaffing(ctx context.Context, bookingID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheSummary, bookingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete staffing summary from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllStaffing)

		// staff_fulfilled changed under the booking domain's feet.
		if err := s.cache.Delete(c, shared.BuildCacheKey(bookingService.CacheGetBooking, bookingID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, bookingService.CacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, bookingService.CacheCountBooking)
	}()
}

func transitionEventType(status string) string {
	switch status {
	case model.StatusAccepted:
		return notifModel.EventAssignmentAccepted
	case model.StatusDeclined:
		return notifModel.EventAssignmentDeclined
	case model.StatusCompleted:
		return notifModel.EventAssignmentCompleted
	default:
		return notifModel.EventAssignmentCancelled
	}
}

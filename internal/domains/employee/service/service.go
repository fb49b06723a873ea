package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/infras/otel"
	"github.com/JokoCodes/service-scheduler/internal/domains/employee/model"
	"github.com/JokoCodes/service-scheduler/internal/domains/employee/model/dto"
	"github.com/JokoCodes/service-scheduler/internal/domains/employee/repository"
	userModel "github.com/JokoCodes/service-scheduler/internal/domains/user/model"
	"github.com/JokoCodes/service-scheduler/shared"
	"github.com/JokoCodes/service-scheduler/shared/cache"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	"github.com/JokoCodes/service-scheduler/shared/failure"
)

const (
	cacheGetEmployee    = "employee:get"
	cacheGetAllEmployee = "employee:gets"
	cacheCountEmployee  = "employee:count"
	cacheResolve        = "employee:resolve"
)

// Employee resolves authentication identities to employee identities and
// carries the admin-facing roster operations. Staffing code must always go
// through ResolveEmployeeID; nothing downstream of it accepts a user id.
type Employee interface {
	ResolveEmployeeID(ctx context.Context, authID userModel.UserID) (model.EmployeeID, error)
	Provision(ctx context.Context, req dto.ProvisionEmployeeRequest) (dto.EmployeeResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetEmployeesResponse, error)
	Get(ctx context.Context, id string) (dto.EmployeeResponse, error)
	Update(ctx context.Context, req dto.UpdateEmployeeRequest, id string) error
	Deactivate(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Employee
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Employee, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Employee {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func filterByAuthUserID(authID userModel.UserID) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAuthUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    authID.String(),
				Table:    model.TableName,
			},
		},
	}
}

// ResolveEmployeeID maps an authentication identity to its employee identity.
// Absence and deactivation are distinct failures: absence is recoverable once
// provisioning completes, deactivation is a hard forbidden.
func (s *serviceImpl) ResolveEmployeeID(ctx context.Context, authID userModel.UserID) (res model.EmployeeID, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolveEmployeeID")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheResolve, authID.String())

	var cached string
	if err = s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return model.EmployeeID(cached), nil
	}

	employee, err := s.repo.Get(ctx, filterByAuthUserID(authID))
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve employee identity")

		return res, fmt.Errorf("failed to resolve employee identity: %w", err)
	}

	if employee.ID == "" {
		return res, failure.IdentityNotProvisioned()
	}

	if !employee.Active {
		return res, failure.Forbidden("employee account is deactivated")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, employee.ID.String(), s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save resolved employee id to cache")
		}
	}()

	return employee.ID, nil
}

// Provision creates the employee record for an auth identity. On a concurrent
// double-provision the unique index on auth_user_id picks one winner; the
// loser resolves to the winner's row instead of failing the request.
func (s *serviceImpl) Provision(ctx context.Context, req dto.ProvisionEmployeeRequest) (res dto.EmployeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Provision")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	employee := req.ToModel(user)

	err = s.repo.Insert(ctx, employee)
	if failure.IsKind(err, failure.KindConflict) {
		existing, getErr := s.repo.Get(ctx, filterByAuthUserID(employee.AuthUserID))
		if getErr != nil || existing.ID == "" {
			log.Error().Err(getErr).Msg("failed to read existing employee after provisioning conflict")

			return res, err
		}

		res.FromModel(existing)

		return res, nil
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to provision employee")

		return res, fmt.Errorf("failed to provision employee: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllEmployee)
		shared.InvalidateCaches(c, s.cache, cacheCountEmployee)
	}()

	res.FromModel(employee)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetEmployeesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllEmployee, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for employees")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count employees")

		return res, fmt.Errorf("failed to count employees: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get employees")

		return res, fmt.Errorf("failed to get employees: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save employees to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountEmployee, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count employees: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save employee count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.EmployeeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetEmployee, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for employee")

		return res, nil
	}

	employee, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get employee")

		return res, fmt.Errorf("failed to get employee: %w", err)
	}

	if employee.ID == "" {
		return res, failure.NotFound("employee")
	}

	res.FromModel(employee)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save employee to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateEmployeeRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	employee, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get employee")

		return fmt.Errorf("failed to get employee: %w", err)
	}

	if employee.ID == "" {
		return failure.NotFound("employee")
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update employee")

		return fmt.Errorf("failed to update employee: %w", err)
	}

	s.invalidateEmployee(ctx, employee)

	return nil
}

// Deactivate disables the employee without deleting history. Active
// assignments are untouched; resolution simply starts failing closed.
func (s *serviceImpl) Deactivate(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Deactivate")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	employee, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get employee")

		return fmt.Errorf("failed to get employee: %w", err)
	}

	if employee.ID == "" {
		return failure.NotFound("employee")
	}

	updatedFields := shared.TransformFields(struct{}{}, user)
	updatedFields[model.FieldActive] = false

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to deactivate employee")

		return fmt.Errorf("failed to deactivate employee: %w", err)
	}

	s.invalidateEmployee(ctx, employee)

	return nil
}

func (s *serviceImpl) invalidateEmployee(ctx context.Context, employee model.Employee) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetEmployee, employee.ID.String())); err != nil {
			log.Error().Err(err).Msg("failed to delete employee from cache")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheResolve, employee.AuthUserID.String())); err != nil {
			log.Error().Err(err).Msg("failed to delete resolved employee id from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllEmployee)
		shared.InvalidateCaches(c, s.cache, cacheCountEmployee)
	}()
}

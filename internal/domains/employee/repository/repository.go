package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/JokoCodes/service-scheduler/infras/otel"
	"github.com/JokoCodes/service-scheduler/infras/postgres"
	"github.com/JokoCodes/service-scheduler/internal/domains/employee/model"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	"github.com/JokoCodes/service-scheduler/shared/failure"
	gRepo "github.com/JokoCodes/service-scheduler/shared/repository"
)

type Employee interface {
	Insert(ctx context.Context, model model.Employee) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Employee, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Employee, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Employee]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Employee {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Employee](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Insert translates a unique violation on auth_user_id into a Conflict so the
// service can resolve a provisioning race by re-reading the winner's row.
func (repo *repositoryImpl) Insert(ctx context.Context, employee model.Employee) error {
	err := repo.Repository.Insert(ctx, employee)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
		return failure.Conflict("an employee record already exists for this identity")
	}

	return err
}

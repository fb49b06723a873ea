package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/JokoCodes/service-scheduler/infras/otel"
	"github.com/JokoCodes/service-scheduler/infras/postgres"
	"github.com/JokoCodes/service-scheduler/internal/domains/notification/model"
	"github.com/JokoCodes/service-scheduler/shared/timezone"

	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	gRepo "github.com/JokoCodes/service-scheduler/shared/repository"
)

type Notification interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, row model.Outbox) error
	GetUnsent(ctx context.Context, limit int) ([]model.Outbox, error)
	MarkSent(ctx context.Context, ids []string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Outbox]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Outbox](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetUnsent returns the oldest pending rows first so delivery order roughly
// follows event order.
func (repo *repositoryImpl) GetUnsent(ctx context.Context, limit int) ([]model.Outbox, error) {
	params := gDto.QueryParams{
		Limit:   limit,
		SortBy:  model.FieldCreatedAt,
		SortDir: "ASC",
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldSentAt,
				Operator: gDto.FilterIsNull,
				Table:    model.TableName,
			},
		},
	}

	return repo.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) MarkSent(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    model.TableName,
			},
		},
	}

	return repo.Update(ctx, map[string]any{model.FieldSentAt: timezone.Now()}, filter) //nolint:wrapcheck
}

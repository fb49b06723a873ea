package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/JokoCodes/service-scheduler/infras/otel/mocks"
	"github.com/JokoCodes/service-scheduler/infras/postgres"
	"github.com/JokoCodes/service-scheduler/shared/dto"
	"github.com/JokoCodes/service-scheduler/shared/failure"
	"github.com/JokoCodes/service-scheduler/shared/repository"
)

type thing struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func newThingRepo(t *testing.T) (repository.Repository[thing], sqlmock.Sqlmock) {
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

	return repository.NewRepository[thing]("thing", "things", "id", conn, mocks.NewOtel()), mock
}

func TestRepository_GetAll_SortsByModelColumn(t *testing.T) {
	repo, mock := newThingRepo(t)

	mock.ExpectPrepare("SELECT things.id, things.name FROM things .*ORDER BY name ASC").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("thing-1", "alpha"))

	params := dto.QueryParams{SortBy: "name", SortDir: "ASC"}

	things, err := repo.GetAll(context.Background(), params, dto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, things, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Sort keys come straight from the query string. Anything that is not one of
// the model's columns must be refused before a query is built, so no
// expectations are registered here: touching the database fails the test.
func TestRepository_GetAll_RejectsNonColumnSortKey(t *testing.T) {
	repo, mock := newThingRepo(t)

	params := dto.QueryParams{SortBy: "name; DROP TABLE things--", SortDir: "ASC"}

	things, err := repo.GetAll(context.Background(), params, dto.FilterGroup{})

	assert.Error(t, err)
	assert.Nil(t, things)
	assert.True(t, failure.IsKind(err, failure.KindBadRequest))
	assert.NoError(t, mock.ExpectationsWereMet())
}

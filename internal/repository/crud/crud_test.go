package crud_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mjosh1982/customerservice-repo/internal/model"
	"github.com/mjosh1982/customerservice-repo/internal/repository/crud"
)

func newCustomerCrud(t *testing.T) (*crud.GormRepository[model.Customer], sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return crud.New[model.Customer](db), mock
}

func TestGormRepository_FindAll(t *testing.T) {
	repo, mock := newCustomerCrud(t)

	mock.ExpectQuery(`SELECT \* FROM "customer"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age"}).
			AddRow(1, "Alex", "alex@gmail.com", 21).
			AddRow(2, "Jamila", "jamila@gmail.com", 19))

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Customer{
		{ID: 1, Name: "Alex", Email: "alex@gmail.com", Age: 21},
		{ID: 2, Name: "Jamila", Email: "jamila@gmail.com", Age: 19},
	}, all)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_FindByIDNotFound(t *testing.T) {
	repo, mock := newCustomerCrud(t)

	mock.ExpectQuery(`SELECT \* FROM "customer" WHERE "customer"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age"}))

	c, err := repo.FindByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_SaveInsertsNewEntity(t *testing.T) {
	repo, mock := newCustomerCrud(t)

	mock.ExpectQuery(`INSERT INTO "customer"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	c := &model.Customer{Name: "Alex", Email: "alex@gmail.com", Age: 21}
	require.NoError(t, repo.Save(context.Background(), c))

	assert.Equal(t, 12, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_ExistsBy(t *testing.T) {
	repo, mock := newCustomerCrud(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "customer" WHERE .*email.* = \$1`).
		WithArgs("alex@gmail.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsBy(context.Background(), "email", "alex@gmail.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_ExistsByID(t *testing.T) {
	repo, mock := newCustomerCrud(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "customer" WHERE id = \$1`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.ExistsByID(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_DeleteByID(t *testing.T) {
	repo, mock := newCustomerCrud(t)

	mock.ExpectExec(`DELETE FROM "customer" WHERE "customer"."id" = \$1`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteByID(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

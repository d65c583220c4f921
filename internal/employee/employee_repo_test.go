package employee_test

import (
	"context"
	"testing"

	"go-timesheet/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (employee.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return employee.NewRepository(gdb), mock
}

func TestEmployeeRepository_FindEligible(t *testing.T) {
	repo, mock := setupRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "employees" WHERE employment_status <> \$1 ORDER BY id`).
		WithArgs(employee.StatusTerminated).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employment_status", "is_full_salary"}).
			AddRow(id.String(), employee.StatusActive, true))

	rows, err := repo.FindEligible(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].ID)
	assert.False(t, rows[0].IsTerminated())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_IncrementAvailableLeaveDays(t *testing.T) {
	id := uuid.New()

	t.Run("adds to the stored balance", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "employees" SET "available_leave_days"=available_leave_days \+ \$1 WHERE id = \$2`).
			WithArgs(sqlmock.AnyArg(), id.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.IncrementAvailableLeaveDays(context.Background(), id, decimal.NewFromInt(1))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing employee", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "employees"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.IncrementAvailableLeaveDays(context.Background(), id, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

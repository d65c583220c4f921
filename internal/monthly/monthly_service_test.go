package monthly_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-timesheet/internal/config"
	employeeerrors "go-timesheet/internal/employee/errors"
	"go-timesheet/internal/monthly"
	monthlyerrors "go-timesheet/internal/monthly/errors"
	"go-timesheet/internal/shared/period"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now      = time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)
	january  = period.Month{Year: 2026, Month: time.January}
	february = period.Month{Year: 2026, Month: time.February}
	march    = period.Month{Year: 2026, Month: time.March}
	april    = period.Month{Year: 2026, Month: time.April}
)

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	repo      *memRepo
	entries   *fakeEntries
	employees *fakeEmployees
	leaves    *fakeLeaves
	service   monthly.Service
}

func setupServiceTest(t *testing.T, employeeIDs []uuid.UUID, rows ...monthly.MonthlyTimesheet) *serviceDeps {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	policy := config.DefaultPolicy()
	policy.DefaultOpeningLeaveBalance = dec("12")

	d := &serviceDeps{
		sqlMock:   sqlMock,
		repo:      newMemRepo(rows...),
		entries:   &fakeEntries{},
		employees: employees(employeeIDs...),
		leaves:    &fakeLeaves{days: map[monthKey]string{}, fail: map[monthKey]error{}},
	}
	d.service = monthly.NewService(db, d.repo, monthly.Dependencies{
		Entries:   d.entries,
		Employees: d.employees,
		Leaves:    d.leaves,
		Policy:    policy,
		Now:       fixedNow(now),
	})
	t.Cleanup(func() { assert.NoError(t, sqlMock.ExpectationsWereMet()) })
	return d
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestMonthlyService_RefreshForEmployeeMonth(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("aggregates hours, working days and leave", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})
		deps.entries.add(
			entry(employeeID, "2026-03-02", "4", "4", "0", true, strPtr("1.00")),
			entry(employeeID, "2026-03-03", "4", "0", "2", false, strPtr("0.50")),
			entry(employeeID, "2026-03-07", "3", "0", "0", true, nil),
		)
		deps.leaves.days[monthKey{employeeID, march}] = "2"
		expectTx(t, deps.sqlMock, true)

		got, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march)
		require.NoError(t, err)

		assert.True(t, dec("15").Equal(got.OfficialHours))
		assert.True(t, dec("2").Equal(got.OvertimeHours))
		assert.True(t, dec("17").Equal(got.TotalWorkedHours))
		assert.Equal(t, "1.88", got.WorkingDaysValue.StringFixed(2))
		assert.True(t, dec("1").Equal(got.OfficialWorkingDays))
		assert.True(t, dec("0.5").Equal(got.ProbationWorkingDays))
		assert.True(t, dec("1.5").Equal(got.TotalWorkingDays))
		assert.True(t, dec("12").Equal(got.OpeningBalanceLeaveDays))
		assert.True(t, dec("2").Equal(got.LeaveConsumedDays))
		assert.True(t, dec("10").Equal(got.RemainingLeaveDays))
		assert.False(t, got.NeedRefresh)
		assert.Equal(t, "2026-03-01", got.ReportDate.Format(period.DateLayout))

		stored := deps.repo.get(employeeID, march)
		assert.False(t, stored.NeedRefresh)
		assert.Equal(t, 1, deps.repo.saves)
	})

	t.Run("rerun without changes is a no-op", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})
		deps.entries.add(entry(employeeID, "2026-03-02", "4", "4", "1", true, strPtr("1.00")))
		expectTx(t, deps.sqlMock, true)
		expectTx(t, deps.sqlMock, false)

		first, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march)
		require.NoError(t, err)
		second, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march)
		require.NoError(t, err)

		assert.Equal(t, monthly.MapToResponse(*first), monthly.MapToResponse(*second))
		assert.Equal(t, 1, deps.repo.saves)
	})

	t.Run("opening balance carries the previous remaining balance", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID}, cleanMonth(employeeID, february, "7.5"))
		deps.leaves.days[monthKey{employeeID, march}] = "1"
		expectTx(t, deps.sqlMock, true)

		got, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march)
		require.NoError(t, err)
		assert.True(t, dec("7.5").Equal(got.OpeningBalanceLeaveDays))
		assert.True(t, dec("6.5").Equal(got.RemainingLeaveDays))
	})

	t.Run("leave increment is added to the remaining balance", func(t *testing.T) {
		row := dirtyMonth(employeeID, march)
		row.LeaveIncrementDays = dec("1")
		deps := setupServiceTest(t, []uuid.UUID{employeeID}, cleanMonth(employeeID, february, "10"), row)
		expectTx(t, deps.sqlMock, true)

		got, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march)
		require.NoError(t, err)
		assert.True(t, dec("11").Equal(got.RemainingLeaveDays))
	})

	t.Run("stale previous month blocks aggregation", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID}, dirtyMonth(employeeID, february))
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march)
		assert.ErrorIs(t, err, monthlyerrors.ErrPreviousMonthStale)
		assert.Equal(t, 0, deps.repo.saves)
	})

	t.Run("unknown employee is not found and creates nothing", func(t *testing.T) {
		deps := setupServiceTest(t, nil)

		_, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.Empty(t, deps.repo.rows)
	})

	t.Run("future month is rejected", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})

		_, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, april.Next())
		assert.ErrorIs(t, err, monthlyerrors.ErrFutureMonth)
	})

	t.Run("current month is allowed", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})
		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, april)
		assert.NoError(t, err)
	})

	t.Run("partial refresh keeps the record flagged", func(t *testing.T) {
		row := dirtyMonth(employeeID, march)
		row.RemainingLeaveDays = dec("3")
		deps := setupServiceTest(t, []uuid.UUID{employeeID}, row)
		deps.entries.add(entry(employeeID, "2026-03-02", "4", "4", "0", true, strPtr("1.00")))
		expectTx(t, deps.sqlMock, true)

		got, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march, monthly.FieldHours)
		require.NoError(t, err)
		assert.True(t, dec("8").Equal(got.OfficialHours))
		assert.True(t, got.WorkingDaysValue.IsZero())
		assert.True(t, dec("3").Equal(got.RemainingLeaveDays))
		assert.True(t, got.NeedRefresh)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})

		_, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march, monthly.Field("salary"))
		assert.ErrorIs(t, err, monthlyerrors.ErrInvalidField)
	})

	t.Run("entry read failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})
		deps.entries.err = errors.New("db down")
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march)
		assert.Error(t, err)
		assert.Equal(t, 0, deps.repo.saves)
	})
}

func TestMonthlyService_OutOfOrderRefresh(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupServiceTest(t, []uuid.UUID{employeeID})
	deps.leaves.days[monthKey{employeeID, february}] = "2"
	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, true)

	// March first: February does not exist yet, so March opens with the default balance.
	mar, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, march)
	require.NoError(t, err)
	feb, err := deps.service.RefreshForEmployeeMonth(ctx, employeeID, february)
	require.NoError(t, err)

	assert.True(t, dec("10").Equal(feb.RemainingLeaveDays))
	assert.False(t, mar.OpeningBalanceLeaveDays.Equal(feb.RemainingLeaveDays),
		"march opened before february was aggregated")
	assert.True(t, deps.repo.get(employeeID, march).NeedRefresh, "february aggregation flags march")

	sum, err := deps.service.RefreshDue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, monthly.DueSummary{Refreshed: 1}, sum)

	repaired := deps.repo.get(employeeID, march)
	assert.True(t, repaired.OpeningBalanceLeaveDays.Equal(feb.RemainingLeaveDays))
	assert.False(t, repaired.NeedRefresh)
}

func TestMonthlyService_RefreshDue(t *testing.T) {
	ctx := context.Background()
	first := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	second := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	deps := setupServiceTest(t, []uuid.UUID{first, second},
		dirtyMonth(first, february),
		dirtyMonth(first, march),
		dirtyMonth(second, january),
	)
	deps.leaves.fail[monthKey{first, february}] = errors.New("leave service unavailable")
	expectTx(t, deps.sqlMock, false)
	expectTx(t, deps.sqlMock, true)

	sum, err := deps.service.RefreshDue(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, monthly.DueSummary{Refreshed: 1, Failed: 1, Skipped: 1}, sum)

	assert.True(t, deps.repo.get(first, february).NeedRefresh)
	assert.True(t, deps.repo.get(first, march).NeedRefresh)
	assert.False(t, deps.repo.get(second, january).NeedRefresh)
	assert.True(t, dec("12").Equal(deps.repo.get(second, january).RemainingLeaveDays))
}

func TestMonthlyService_RefreshUpTo(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupServiceTest(t, []uuid.UUID{employeeID},
		dirtyMonth(employeeID, january),
		dirtyMonth(employeeID, february),
	)
	deps.leaves.days[monthKey{employeeID, january}] = "1"
	deps.leaves.days[monthKey{employeeID, february}] = "3"
	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, true)

	got, err := deps.service.RefreshUpTo(ctx, employeeID, march)
	require.NoError(t, err)

	assert.True(t, dec("11").Equal(deps.repo.get(employeeID, january).RemainingLeaveDays))
	assert.True(t, dec("8").Equal(deps.repo.get(employeeID, february).RemainingLeaveDays))
	assert.True(t, dec("8").Equal(got.OpeningBalanceLeaveDays))
	assert.False(t, deps.repo.get(employeeID, february).NeedRefresh)
}

func TestMonthlyService_RefreshRange(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("refreshes every month in order", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})
		deps.leaves.days[monthKey{employeeID, january}] = "2"
		expectTx(t, deps.sqlMock, true)
		expectTx(t, deps.sqlMock, true)
		expectTx(t, deps.sqlMock, true)

		rows, err := deps.service.RefreshRange(ctx, employeeID, january, march)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		for i := 1; i < len(rows); i++ {
			assert.True(t, rows[i].OpeningBalanceLeaveDays.Equal(rows[i-1].RemainingLeaveDays))
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})

		_, err := deps.service.RefreshRange(ctx, employeeID, march, january)
		assert.ErrorIs(t, err, monthlyerrors.ErrInvalidRange)
	})

	t.Run("range reaching into the future", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})

		_, err := deps.service.RefreshRange(ctx, employeeID, march, april.Next())
		assert.ErrorIs(t, err, monthlyerrors.ErrFutureMonth)
	})
}

func TestMonthlyService_GetEmployeeMonth(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("returns entries and summary", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID}, cleanMonth(employeeID, march, "9"))
		deps.entries.add(
			entry(employeeID, "2026-03-02", "4", "4", "0", true, strPtr("1.00")),
			entry(employeeID, "2026-03-03", "4", "0", "0", true, strPtr("0.50")),
		)

		got, err := deps.service.GetEmployeeMonth(ctx, employeeID, march)
		require.NoError(t, err)
		assert.Equal(t, "2026-03", got.Period)
		assert.Equal(t, employeeID.String(), got.Employee.ID)
		require.Len(t, got.Entries, 2)
		require.NotNil(t, got.Summary)
		assert.True(t, dec("9").Equal(got.Summary.RemainingLeaveDays))
	})

	t.Run("summary is empty before aggregation", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})

		got, err := deps.service.GetEmployeeMonth(ctx, employeeID, march)
		require.NoError(t, err)
		assert.Nil(t, got.Summary)
		assert.Empty(t, got.Entries)
	})

	t.Run("future month", func(t *testing.T) {
		deps := setupServiceTest(t, []uuid.UUID{employeeID})

		_, err := deps.service.GetEmployeeMonth(ctx, employeeID, april.Next())
		assert.ErrorIs(t, err, monthlyerrors.ErrFutureMonth)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t, nil)

		_, err := deps.service.GetEmployeeMonth(ctx, employeeID, march)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

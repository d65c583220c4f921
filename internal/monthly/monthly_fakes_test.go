package monthly_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"go-timesheet/internal/employee"
	"go-timesheet/internal/monthly"
	"go-timesheet/internal/shared/period"
	"go-timesheet/internal/timesheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type monthKey struct {
	employeeID uuid.UUID
	month      period.Month
}

// memRepo is an in-memory monthly.Repository.
type memRepo struct {
	mu    sync.Mutex
	rows  map[monthKey]monthly.MonthlyTimesheet
	saves int
}

func newMemRepo(rows ...monthly.MonthlyTimesheet) *memRepo {
	r := &memRepo{rows: map[monthKey]monthly.MonthlyTimesheet{}}
	for _, m := range rows {
		r.rows[monthKey{m.EmployeeID, m.Period()}] = m
	}
	return r
}

func (r *memRepo) WithTx(*sql.Tx) monthly.Repository { return r }

func (r *memRepo) FindByEmployeeMonth(_ context.Context, employeeID uuid.UUID, month period.Month) (*monthly.MonthlyTimesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[monthKey{employeeID, month}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *memRepo) Save(_ context.Context, m *monthly.MonthlyTimesheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.rows[monthKey{m.EmployeeID, m.Period()}] = *m
	return nil
}

func (r *memRepo) EnsureMonth(_ context.Context, employeeID uuid.UUID, month period.Month) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := monthKey{employeeID, month}
	if _, ok := r.rows[k]; !ok {
		r.rows[k] = dirtyMonth(employeeID, month)
	}
	return nil
}

func (r *memRepo) MarkNeedRefreshFrom(_ context.Context, employeeID uuid.UUID, month period.Month) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, m := range r.rows {
		if k.employeeID == employeeID && !k.month.Before(month) && !m.NeedRefresh {
			m.NeedRefresh = true
			r.rows[k] = m
			n++
		}
	}
	return n, nil
}

func (r *memRepo) sorted(keep func(monthly.MonthlyTimesheet) bool) []monthly.MonthlyTimesheet {
	var out []monthly.MonthlyTimesheet
	for _, m := range r.rows {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID.String() < out[j].EmployeeID.String()
		}
		return out[i].Period().Before(out[j].Period())
	})
	return out
}

func (r *memRepo) FindDue(_ context.Context, limit int) ([]monthly.MonthlyTimesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(m monthly.MonthlyTimesheet) bool { return m.NeedRefresh })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) FindDueBefore(_ context.Context, employeeID uuid.UUID, month period.Month) ([]monthly.MonthlyTimesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(m monthly.MonthlyTimesheet) bool {
		return m.EmployeeID == employeeID && m.NeedRefresh && m.Period().Before(month)
	}), nil
}

func (r *memRepo) MarkLeaveIncremented(_ context.Context, employeeID uuid.UUID, month period.Month, days decimal.Decimal, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := monthKey{employeeID, month}
	m, ok := r.rows[k]
	if !ok || m.LeaveIncrementedAt != nil {
		return false, nil
	}
	m.LeaveIncrementedAt = &at
	m.LeaveIncrementDays = days
	m.NeedRefresh = true
	r.rows[k] = m
	return true, nil
}

func (r *memRepo) get(employeeID uuid.UUID, month period.Month) monthly.MonthlyTimesheet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[monthKey{employeeID, month}]
}

func dirtyMonth(employeeID uuid.UUID, month period.Month) monthly.MonthlyTimesheet {
	return monthly.MonthlyTimesheet{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		Year:        month.Year,
		Month:       int(month.Month),
		ReportDate:  month.FirstDay(time.UTC),
		NeedRefresh: true,
	}
}

func cleanMonth(employeeID uuid.UUID, month period.Month, remaining string) monthly.MonthlyTimesheet {
	m := dirtyMonth(employeeID, month)
	m.NeedRefresh = false
	m.RemainingLeaveDays = dec(remaining)
	return m
}

type fakeEntries struct {
	rows map[monthKey][]timesheet.Entry
	err  error
}

func (f *fakeEntries) FindByEmployeeMonth(_ context.Context, employeeID uuid.UUID, month period.Month) ([]timesheet.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[monthKey{employeeID, month}], nil
}

func (f *fakeEntries) add(entries ...timesheet.Entry) {
	if f.rows == nil {
		f.rows = map[monthKey][]timesheet.Entry{}
	}
	for _, e := range entries {
		k := monthKey{e.EmployeeID, period.MonthOf(e.EntryDate)}
		f.rows[k] = append(f.rows[k], e)
	}
}

type fakeEmployees struct {
	known map[uuid.UUID]employee.Employee
}

func employees(ids ...uuid.UUID) *fakeEmployees {
	f := &fakeEmployees{known: map[uuid.UUID]employee.Employee{}}
	for _, id := range ids {
		f.known[id] = employee.Employee{ID: id, FullName: "Employee " + id.String()[:8], EmploymentStatus: employee.StatusActive, IsFullSalary: true}
	}
	return f
}

func (f *fakeEmployees) FindByID(_ context.Context, id uuid.UUID) (*employee.Employee, error) {
	e, ok := f.known[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

// fakeLeaves returns consumed days per (employee, month of from).
type fakeLeaves struct {
	days map[monthKey]string
	fail map[monthKey]error
}

func (f *fakeLeaves) SumApprovedDaysInRange(_ context.Context, employeeID uuid.UUID, from, _ time.Time) (decimal.Decimal, error) {
	k := monthKey{employeeID, period.MonthOf(from)}
	if err := f.fail[k]; err != nil {
		return decimal.Zero, err
	}
	if v, ok := f.days[k]; ok {
		return dec(v), nil
	}
	return decimal.Zero, nil
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func entry(employeeID uuid.UUID, date string, morning, afternoon, overtime string, fullSalary bool, workingDays *string) timesheet.Entry {
	d, _ := period.ParseDate(date, time.UTC)
	e := timesheet.Entry{
		ID:             uuid.New(),
		EmployeeID:     employeeID,
		EntryDate:      d,
		MorningHours:   dec(morning),
		AfternoonHours: dec(afternoon),
		OvertimeHours:  dec(overtime),
		IsFullSalary:   fullSalary,
	}
	if workingDays != nil {
		e.WorkingDays = decimal.NewNullDecimal(dec(*workingDays))
	}
	return e
}

func strPtr(v string) *string { return &v }

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

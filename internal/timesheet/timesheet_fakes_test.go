package timesheet_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"go-timesheet/internal/employee"
	"go-timesheet/internal/shared/period"
	"go-timesheet/internal/timesheet"
	"go-timesheet/internal/workschedule"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memRepo is an in-memory timesheet.Repository keyed by (employee, date).
type memRepo struct {
	mu      sync.Mutex
	rows    map[string]timesheet.Entry
	creates int
	updates int
	batches [][]timesheet.Entry
}

func newMemRepo(rows ...timesheet.Entry) *memRepo {
	r := &memRepo{rows: map[string]timesheet.Entry{}}
	for _, e := range rows {
		r.rows[key(e.EmployeeID, e.EntryDate)] = e
	}
	return r
}

func key(employeeID uuid.UUID, date time.Time) string {
	return employeeID.String() + "|" + date.Format(period.DateLayout)
}

func (r *memRepo) WithTx(*sql.Tx) timesheet.Repository { return r }

func (r *memRepo) FindByEmployeeAndDate(_ context.Context, employeeID uuid.UUID, date time.Time) (*timesheet.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[key(employeeID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *memRepo) FindByEmployeeMonth(_ context.Context, employeeID uuid.UUID, month period.Month) ([]timesheet.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []timesheet.Entry
	for _, e := range r.rows {
		if e.EmployeeID == employeeID && period.MonthOf(e.EntryDate) == month {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.Before(out[j].EntryDate) })
	return out, nil
}

func (r *memRepo) FindExistingDates(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	rows, _ := r.FindByEmployeeMonth(ctx, employeeID, period.MonthOf(from))
	dates := make([]time.Time, 0, len(rows))
	for _, e := range rows {
		if !e.EntryDate.Before(from) && !e.EntryDate.After(to) {
			dates = append(dates, e.EntryDate)
		}
	}
	return dates, nil
}

func (r *memRepo) Create(_ context.Context, e *timesheet.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	r.rows[key(e.EmployeeID, e.EntryDate)] = *e
	return nil
}

func (r *memRepo) CreateMissing(_ context.Context, rows []timesheet.Entry) ([]timesheet.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, rows)
	var inserted []timesheet.Entry
	for _, e := range rows {
		k := key(e.EmployeeID, e.EntryDate)
		if _, ok := r.rows[k]; ok {
			continue
		}
		r.rows[k] = e
		inserted = append(inserted, e)
	}
	return inserted, nil
}

func (r *memRepo) Update(_ context.Context, e *timesheet.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	r.rows[key(e.EmployeeID, e.EntryDate)] = *e
	return nil
}

func (r *memRepo) get(employeeID uuid.UUID, date time.Time) timesheet.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[key(employeeID, date)]
}

type fakeEmployees struct {
	FindByIDFn func(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
}

func (f *fakeEmployees) FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return f.FindByIDFn(ctx, id)
}

func knownEmployee(fullSalary bool) *fakeEmployees {
	return &fakeEmployees{FindByIDFn: func(_ context.Context, id uuid.UUID) (*employee.Employee, error) {
		return &employee.Employee{ID: id, EmploymentStatus: employee.StatusActive, IsFullSalary: fullSalary}, nil
	}}
}

// weekSchedules serves a full Monday-Friday week with weekends off.
type weekSchedules struct{}

func (weekSchedules) GetForWeekday(_ context.Context, weekday workschedule.Weekday, _ bool) (*workschedule.WorkSchedule, error) {
	if !weekday.RequiresFullDay() {
		return nil, nil
	}
	s := fullSchedule()
	s.Weekday = weekday
	return s, nil
}

type markCall struct {
	employeeID uuid.UUID
	date       time.Time
	inTx       bool
}

type fakeMarker struct {
	mu    sync.Mutex
	calls []markCall
	err   error
}

func (m *fakeMarker) MarkNeedRefresh(_ context.Context, tx *sql.Tx, employeeID uuid.UUID, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, markCall{employeeID: employeeID, date: date, inTx: tx != nil})
	return m.err
}

type recordingListener struct {
	mu     sync.Mutex
	events []timesheet.EntryCreated
	inTx   []bool
	failOn func(evt timesheet.EntryCreated) error
}

func (l *recordingListener) OnEntryCreated(_ context.Context, tx *sql.Tx, evt timesheet.EntryCreated) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
	l.inTx = append(l.inTx, tx != nil)
	if l.failOn != nil {
		return l.failOn(evt)
	}
	return nil
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

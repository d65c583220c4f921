package timesheet

import (
	"context"
	"database/sql"
	"time"

	"go-timesheet/internal/employee"
	"go-timesheet/internal/workschedule"

	"github.com/google/uuid"
)

type EmployeeReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
}

// ScheduleProvider is satisfied by workschedule.Service. A nil schedule means a day off.
type ScheduleProvider interface {
	GetForWeekday(ctx context.Context, weekday workschedule.Weekday, useCache bool) (*workschedule.WorkSchedule, error)
}

// RefreshMarker flags the monthly aggregate containing date, and every later month
// of the employee, as needing recomputation. It joins tx when tx is not nil.
type RefreshMarker interface {
	MarkNeedRefresh(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID, date time.Time) error
}

type EntryCreated struct {
	Entry  Entry
	Source string
}

// EntryCreatedListener is notified once for every inserted entry. tx is the writer's
// transaction for single inserts and nil after a batch insert has committed.
type EntryCreatedListener interface {
	OnEntryCreated(ctx context.Context, tx *sql.Tx, evt EntryCreated) error
}

type EntryCreatedListenerFunc func(ctx context.Context, tx *sql.Tx, evt EntryCreated) error

func (f EntryCreatedListenerFunc) OnEntryCreated(ctx context.Context, tx *sql.Tx, evt EntryCreated) error {
	return f(ctx, tx, evt)
}

type noopMarker struct{}

func (noopMarker) MarkNeedRefresh(context.Context, *sql.Tx, uuid.UUID, time.Time) error {
	return nil
}

package timesheet

import (
	"context"
	"sync"
	"time"

	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/period"
	timesheeterrors "go-timesheet/internal/timesheet/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Finalizer is the part of Service the builder needs after inserting a month.
type Finalizer interface {
	FinalizePastEntries(ctx context.Context, employeeID uuid.UUID, month period.Month) (int, error)
}

// Builder seeds one entry per calendar day of a month for an employee.
type Builder struct {
	repo      Repository
	employees EmployeeReader
	finalizer Finalizer
	calc      Calculator
	now       func() time.Time
	logger    *zap.Logger

	mu        sync.RWMutex
	listeners []EntryCreatedListener
}

func NewBuilder(repo Repository, finalizer Finalizer, deps Dependencies, logger ...*zap.Logger) *Builder {
	l := zap.L().Named("timesheet.builder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.builder")
	}
	deps = deps.withDefaults()
	b := &Builder{
		repo:      repo,
		employees: deps.Employees,
		finalizer: finalizer,
		calc:      deps.Calculator,
		now:       deps.Now,
		logger:    l,
	}
	b.listeners = append(b.listeners, deps.Listeners...)
	return b
}

func (b *Builder) Subscribe(l EntryCreatedListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// CreateEntriesForEmployeeMonth inserts the days of month that have no entry yet with a
// single multi-row insert, then emits one EntryCreated per inserted row. A failing
// listener is logged and skipped: a later finalize pass repairs what it missed.
// Entries dated before today are finalized afterwards. It returns the inserted entries.
func (b *Builder) CreateEntriesForEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]Entry, error) {
	log := contextutil.GetLogger(ctx, b.logger).With(
		zap.String("employee_id", employeeID.String()),
		zap.String("month", month.String()),
	)
	loc := b.calc.Location()

	if month.IsFuture(b.calc.DateOf(b.now())) {
		return nil, timesheeterrors.ErrFutureMonth
	}

	emp, err := b.employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, mapEmployeeError(err)
	}

	first, last := month.FirstDay(loc), month.LastDay(loc)
	existing, err := b.repo.FindExistingDates(ctx, employeeID, first, last)
	if err != nil {
		log.Error("build month existing dates lookup failed", zap.Error(err))
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		seen[d.Format(period.DateLayout)] = struct{}{}
	}

	var rows []Entry
	for _, day := range month.Days(loc) {
		if _, ok := seen[day.Format(period.DateLayout)]; ok {
			continue
		}
		rows = append(rows, Entry{
			ID:           uuid.New(),
			EmployeeID:   employeeID,
			EntryDate:    day,
			IsFullSalary: emp.IsFullSalary,
			Source:       SourceBatch,
		})
	}

	inserted, err := b.repo.CreateMissing(ctx, rows)
	if err != nil {
		log.Error("build month batch insert failed", zap.Int("rows", len(rows)), zap.Error(err))
		return nil, err
	}

	failed := b.dispatch(ctx, log, inserted)

	if _, err := b.finalizer.FinalizePastEntries(ctx, employeeID, month); err != nil {
		log.Error("build month finalize failed", zap.Error(err))
		return inserted, err
	}

	log.Info("build month success",
		zap.Int("existing", len(existing)),
		zap.Int("inserted", len(inserted)),
		zap.Int("listener_failures", failed),
	)
	return inserted, nil
}

func (b *Builder) dispatch(ctx context.Context, log *zap.Logger, inserted []Entry) int {
	b.mu.RLock()
	listeners := make([]EntryCreatedListener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	failed := 0
	for _, row := range inserted {
		evt := EntryCreated{Entry: row, Source: SourceBatch}
		for _, l := range listeners {
			if err := l.OnEntryCreated(ctx, nil, evt); err != nil {
				failed++
				log.Warn("entry-created listener failed",
					zap.String("entry_id", row.ID.String()),
					zap.Time("date", row.EntryDate),
					zap.Error(err),
				)
			}
		}
	}
	return failed
}

package preparation

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"go-timesheet/internal/config"
	"go-timesheet/internal/employee"
	employeeerrors "go-timesheet/internal/employee/errors"
	"go-timesheet/internal/monthly"
	monthlyerrors "go-timesheet/internal/monthly/errors"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/period"
	"go-timesheet/internal/timesheet"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service prepares monthly timesheets: it seeds the month's entries, accrues leave once
// per employee and month, then refreshes the monthly aggregate.
type Service interface {
	Prepare(ctx context.Context, req PrepareRequest) (Summary, error)
}

type EntryBuilder interface {
	CreateEntriesForEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]timesheet.Entry, error)
}

type Aggregator interface {
	RefreshUpTo(ctx context.Context, employeeID uuid.UUID, month period.Month) (*monthly.MonthlyTimesheet, error)
}

type Dependencies struct {
	Builder    EntryBuilder
	Aggregator Aggregator
	Employees  employee.Repository
	Months     monthly.Repository
	Policy     config.Policy
	// Workers bounds how many employees are prepared concurrently.
	Workers int
	Now     func() time.Time
}

type service struct {
	db     *sql.DB
	deps   Dependencies
	logger *zap.Logger
}

func NewService(db *sql.DB, deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("preparation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("preparation.service")
	}
	if deps.Workers < 1 {
		deps.Workers = 1
	}
	if deps.Policy.Location == nil {
		deps.Policy.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{db: db, deps: deps, logger: l}
}

func (s *service) Prepare(ctx context.Context, req PrepareRequest) (Summary, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	month, err := period.NewMonth(req.Year, req.Month)
	if err != nil {
		return Summary{}, monthlyerrors.ErrInvalidPeriod
	}
	if month.IsFuture(period.DateOf(s.deps.Now(), s.deps.Policy.Location)) {
		return Summary{}, monthlyerrors.ErrFutureMonth
	}
	summary := Summary{Period: month.String(), Failed: []Failure{}}

	if req.EmployeeID != nil {
		employeeID, err := uuid.Parse(*req.EmployeeID)
		if err != nil {
			return Summary{}, employeeerrors.ErrInvalidEmployeeID
		}
		if _, err := s.prepareEmployee(ctx, employeeID, month, false); err != nil {
			log.Warn("prepare employee month failed",
				zap.String("employee_id", employeeID.String()),
				zap.String("month", month.String()),
				zap.Error(err),
			)
			return Summary{}, err
		}
		summary.Processed = 1
		return summary, nil
	}

	employees, err := s.deps.Employees.FindEligible(ctx)
	if err != nil {
		log.Error("prepare list employees failed", zap.Error(err))
		return Summary{}, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.deps.Workers)
	for _, emp := range employees {
		g.Go(func() error {
			incremented, err := s.prepareEmployee(gctx, emp.ID, month, req.IncrementLeave)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("prepare employee month failed",
					zap.String("employee_id", emp.ID.String()),
					zap.String("month", month.String()),
					zap.Error(err),
				)
				summary.Failed = append(summary.Failed, Failure{EmployeeID: emp.ID.String(), Error: err.Error()})
				return nil
			}
			summary.Processed++
			if incremented {
				summary.LeaveIncremented++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	sort.Slice(summary.Failed, func(i, j int) bool {
		return summary.Failed[i].EmployeeID < summary.Failed[j].EmployeeID
	})

	log.Info("prepare monthly timesheets finished",
		zap.String("month", month.String()),
		zap.Int("employees", len(employees)),
		zap.Int("processed", summary.Processed),
		zap.Int("leave_incremented", summary.LeaveIncremented),
		zap.Int("failed", len(summary.Failed)),
	)
	return summary, ctx.Err()
}

// prepareEmployee runs the steps of one employee in order. Months of the same employee
// are never prepared concurrently within a run.
func (s *service) prepareEmployee(ctx context.Context, employeeID uuid.UUID, month period.Month, incrementLeave bool) (bool, error) {
	if _, err := s.deps.Builder.CreateEntriesForEmployeeMonth(ctx, employeeID, month); err != nil {
		return false, err
	}

	incremented := false
	if incrementLeave && s.deps.Policy.MonthlyLeaveAccrual.IsPositive() {
		var err error
		if incremented, err = s.accrueLeave(ctx, employeeID, month); err != nil {
			return false, err
		}
	}

	if _, err := s.deps.Aggregator.RefreshUpTo(ctx, employeeID, month); err != nil {
		return incremented, err
	}
	return incremented, nil
}

// accrueLeave adds the monthly accrual to the employee balance unless the month already
// carries the accrual marker. The marker and the balance move in one transaction.
func (s *service) accrueLeave(ctx context.Context, employeeID uuid.UUID, month period.Month) (bool, error) {
	accrual := s.deps.Policy.MonthlyLeaveAccrual

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	months := s.deps.Months.WithTx(tx)
	if err := months.EnsureMonth(ctx, employeeID, month); err != nil {
		return false, err
	}
	marked, err := months.MarkLeaveIncremented(ctx, employeeID, month, accrual, s.deps.Now())
	if err != nil {
		return false, err
	}
	if !marked {
		return false, nil
	}
	if err := s.deps.Employees.WithTx(tx).IncrementAvailableLeaveDays(ctx, employeeID, accrual); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	s.logger.Info("leave accrued",
		zap.String("employee_id", employeeID.String()),
		zap.String("month", month.String()),
		zap.String("days", accrual.String()),
	)
	return true, nil
}

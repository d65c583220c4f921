package monthly

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-timesheet/internal/config"
	"go-timesheet/internal/employee"
	employeeerrors "go-timesheet/internal/employee/errors"
	monthlyerrors "go-timesheet/internal/monthly/errors"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/period"
	"go-timesheet/internal/timesheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service aggregates timesheet entries into monthly records.
//
// Months of one employee form a chain through the leave balance: the opening balance of
// month N is the remaining balance of month N-1. RefreshForEmployeeMonth therefore refuses
// to run while the previous month is flagged for refresh; RefreshUpTo, RefreshRange and
// RefreshDue walk the chain oldest first.
type Service interface {
	RefreshForEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month, fields ...Field) (*MonthlyTimesheet, error)
	// RefreshUpTo refreshes every flagged month of the employee older than month, then month itself.
	RefreshUpTo(ctx context.Context, employeeID uuid.UUID, month period.Month) (*MonthlyTimesheet, error)
	RefreshRange(ctx context.Context, employeeID uuid.UUID, from, to period.Month) ([]MonthlyTimesheet, error)
	RefreshDue(ctx context.Context, limit int) (DueSummary, error)
	GetEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) (EmployeeMonthResponse, error)
}

type EntryReader interface {
	FindByEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]timesheet.Entry, error)
}

type EmployeeReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error)
}

type LeaveReader interface {
	SumApprovedDaysInRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type Dependencies struct {
	Entries   EntryReader
	Employees EmployeeReader
	Leaves    LeaveReader
	Policy    config.Policy
	Now       func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	def := config.DefaultPolicy()
	if d.Policy.Location == nil {
		d.Policy.Location = def.Location
	}
	if !d.Policy.HoursPerDay.IsPositive() {
		d.Policy.HoursPerDay = def.HoursPerDay
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type DueSummary struct {
	Refreshed int `json:"refreshed"`
	Failed    int `json:"failed"`
	// Skipped counts months left flagged because an older month of the same employee failed.
	Skipped int `json:"skipped"`
}

type service struct {
	db     *sql.DB
	repo   Repository
	deps   Dependencies
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("monthly.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("monthly.service")
	}
	return &service{db: db, repo: repo, deps: deps.withDefaults(), logger: l}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) today() time.Time {
	return period.DateOf(s.deps.Now(), s.deps.Policy.Location)
}

func (s *service) RefreshForEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month, fields ...Field) (*MonthlyTimesheet, error) {
	log := s.log(ctx)

	if month.IsFuture(s.today()) {
		return nil, monthlyerrors.ErrFutureMonth
	}
	set, err := validFieldSet(fields)
	if err != nil {
		return nil, err
	}
	if _, err := s.deps.Employees.FindByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	prev, err := findOptional(ctx, qtx, employeeID, month.Prev())
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.NeedRefresh {
		log.Warn("refresh month blocked by stale previous month",
			zap.String("employee_id", employeeID.String()),
			zap.String("month", month.String()),
		)
		return nil, monthlyerrors.ErrPreviousMonthStale
	}

	cur, err := findOptional(ctx, qtx, employeeID, month)
	if err != nil {
		return nil, err
	}
	created := cur == nil
	if created {
		cur = newMonthlyTimesheet(employeeID, month)
	}
	before := *cur

	if set[FieldHours] || set[FieldWorkingDays] {
		entries, err := s.deps.Entries.FindByEmployeeMonth(ctx, employeeID, month)
		if err != nil {
			return nil, err
		}
		if set[FieldHours] {
			s.applyHours(cur, entries)
		}
		if set[FieldWorkingDays] {
			s.applyWorkingDays(cur, entries)
		}
	}
	if set[FieldLeave] {
		if err := s.applyLeave(ctx, cur, prev, month); err != nil {
			return nil, err
		}
	}
	if set.complete() {
		cur.NeedRefresh = false
	}

	if !created && sameAggregate(before, *cur) {
		log.Debug("refresh month unchanged",
			zap.String("employee_id", employeeID.String()),
			zap.String("month", month.String()),
		)
		return cur, nil
	}

	if err := qtx.Save(ctx, cur); err != nil {
		log.Error("refresh month persist failed", zap.Error(err))
		return nil, err
	}
	if created || !before.RemainingLeaveDays.Equal(cur.RemainingLeaveDays) {
		if _, err := qtx.MarkNeedRefreshFrom(ctx, employeeID, month.Next()); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("refresh month success",
		zap.String("employee_id", employeeID.String()),
		zap.String("month", month.String()),
		zap.String("total_worked_hours", cur.TotalWorkedHours.String()),
		zap.String("total_working_days", cur.TotalWorkingDays.String()),
		zap.String("remaining_leave_days", cur.RemainingLeaveDays.String()),
	)
	return cur, nil
}

func (s *service) applyHours(m *MonthlyTimesheet, entries []timesheet.Entry) {
	official, overtime := decimal.Zero, decimal.Zero
	for _, e := range entries {
		official = official.Add(e.OfficialHours())
		overtime = overtime.Add(e.OvertimeHours)
	}
	m.OfficialHours = official.Round(2)
	m.OvertimeHours = overtime.Round(2)
	m.TotalWorkedHours = official.Add(overtime).Round(2)
}

func (s *service) applyWorkingDays(m *MonthlyTimesheet, entries []timesheet.Entry) {
	official, probation, hours := decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range entries {
		hours = hours.Add(e.OfficialHours())
		if !e.WorkingDays.Valid {
			continue
		}
		if e.IsFullSalary {
			official = official.Add(e.WorkingDays.Decimal)
		} else {
			probation = probation.Add(e.WorkingDays.Decimal)
		}
	}
	m.WorkingDaysValue = hours.DivRound(s.deps.Policy.HoursPerDay, 2)
	m.OfficialWorkingDays = official.Round(2)
	m.ProbationWorkingDays = probation.Round(2)
	m.TotalWorkingDays = official.Add(probation).Round(2)
}

func (s *service) applyLeave(ctx context.Context, m, prev *MonthlyTimesheet, month period.Month) error {
	opening := s.deps.Policy.DefaultOpeningLeaveBalance
	if prev != nil {
		opening = prev.RemainingLeaveDays
	}
	loc := s.deps.Policy.Location
	consumed, err := s.deps.Leaves.SumApprovedDaysInRange(ctx, m.EmployeeID, month.FirstDay(loc), month.LastDay(loc))
	if err != nil {
		return err
	}
	m.OpeningBalanceLeaveDays = opening.Round(2)
	m.LeaveConsumedDays = consumed.Round(2)
	m.RemainingLeaveDays = opening.Sub(consumed).Add(m.LeaveIncrementDays).Round(2)
	return nil
}

func (s *service) RefreshUpTo(ctx context.Context, employeeID uuid.UUID, month period.Month) (*MonthlyTimesheet, error) {
	due, err := s.repo.FindDueBefore(ctx, employeeID, month)
	if err != nil {
		return nil, err
	}
	for _, m := range due {
		if _, err := s.RefreshForEmployeeMonth(ctx, employeeID, m.Period()); err != nil {
			return nil, err
		}
	}
	return s.RefreshForEmployeeMonth(ctx, employeeID, month)
}

func (s *service) RefreshRange(ctx context.Context, employeeID uuid.UUID, from, to period.Month) ([]MonthlyTimesheet, error) {
	if to.Before(from) {
		return nil, monthlyerrors.ErrInvalidRange
	}
	if to.IsFuture(s.today()) {
		return nil, monthlyerrors.ErrFutureMonth
	}

	var out []MonthlyTimesheet
	for m := from; !to.Before(m); m = m.Next() {
		row, err := s.RefreshForEmployeeMonth(ctx, employeeID, m)
		if err != nil {
			return out, err
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s *service) RefreshDue(ctx context.Context, limit int) (DueSummary, error) {
	log := s.log(ctx)

	rows, err := s.repo.FindDue(ctx, limit)
	if err != nil {
		return DueSummary{}, err
	}

	var sum DueSummary
	failed := make(map[uuid.UUID]bool)
	for _, row := range rows {
		if failed[row.EmployeeID] {
			sum.Skipped++
			continue
		}
		if _, err := s.RefreshForEmployeeMonth(ctx, row.EmployeeID, row.Period()); err != nil {
			log.Warn("refresh due month failed",
				zap.String("employee_id", row.EmployeeID.String()),
				zap.String("month", row.Period().String()),
				zap.Error(err),
			)
			failed[row.EmployeeID] = true
			sum.Failed++
			continue
		}
		sum.Refreshed++
	}

	log.Info("refresh due finished",
		zap.Int("refreshed", sum.Refreshed),
		zap.Int("failed", sum.Failed),
		zap.Int("skipped", sum.Skipped),
	)
	return sum, nil
}

func (s *service) GetEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) (EmployeeMonthResponse, error) {
	if month.IsFuture(s.today()) {
		return EmployeeMonthResponse{}, monthlyerrors.ErrFutureMonth
	}
	emp, err := s.deps.Employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeMonthResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeMonthResponse{}, err
	}

	entries, err := s.deps.Entries.FindByEmployeeMonth(ctx, employeeID, month)
	if err != nil {
		return EmployeeMonthResponse{}, err
	}
	agg, err := findOptional(ctx, s.repo, employeeID, month)
	if err != nil {
		return EmployeeMonthResponse{}, err
	}

	resp := EmployeeMonthResponse{
		Employee: mapEmployee(*emp),
		Period:   month.String(),
		Entries:  timesheet.MapToListResponse(entries),
	}
	if agg != nil {
		summary := MapToResponse(*agg)
		resp.Summary = &summary
	}
	return resp, nil
}

func findOptional(ctx context.Context, repo Repository, employeeID uuid.UUID, month period.Month) (*MonthlyTimesheet, error) {
	m, err := repo.FindByEmployeeMonth(ctx, employeeID, month)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return m, err
}

func validFieldSet(fields []Field) (fieldSet, error) {
	for _, f := range fields {
		if !f.valid() {
			return nil, monthlyerrors.ErrInvalidField
		}
	}
	return newFieldSet(fields), nil
}

// ParseFields converts request field names, rejecting unknown ones.
func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		f := Field(n)
		if !f.valid() {
			return nil, monthlyerrors.ErrInvalidField
		}
		fields = append(fields, f)
	}
	return fields, nil
}

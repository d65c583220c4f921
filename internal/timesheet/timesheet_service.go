package timesheet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	employeeerrors "go-timesheet/internal/employee/errors"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/period"
	timesheeterrors "go-timesheet/internal/timesheet/errors"
	"go-timesheet/internal/workschedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	// RecordPunch creates or updates the entry of (employee, date) with the given punches
	// and recomputes it in the mode matching the date.
	RecordPunch(ctx context.Context, req PunchRequest) (EntryResponse, error)
	Recompute(ctx context.Context, employeeID, date string, forceFinalize bool) (EntryResponse, error)
	// FinalizePastEntries recomputes in finalize mode every entry of the month dated
	// before today and returns how many of them changed.
	FinalizePastEntries(ctx context.Context, employeeID uuid.UUID, month period.Month) (int, error)
	ListMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]Entry, error)
}

type Dependencies struct {
	Employees  EmployeeReader
	Schedules  ScheduleProvider
	Marker     RefreshMarker
	Listeners  []EntryCreatedListener
	Calculator Calculator
	Now        func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Marker == nil {
		d.Marker = noopMarker{}
	}
	if d.Calculator.loc == nil {
		d.Calculator = NewCalculator(time.UTC)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type service struct {
	db     *sql.DB
	repo   Repository
	deps   Dependencies
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("timesheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.service")
	}
	return &service{db: db, repo: repo, deps: deps.withDefaults(), logger: l}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) RecordPunch(ctx context.Context, req PunchRequest) (EntryResponse, error) {
	log := s.log(ctx)
	log.Debug("record punch requested", zap.String("employee_id", req.EmployeeID), zap.String("date", req.Date))

	if req.CheckIn == nil && req.CheckOut == nil && req.OvertimeHours == nil {
		return EntryResponse{}, timesheeterrors.ErrEmptyPunch
	}
	if req.OvertimeHours != nil && req.OvertimeHours.IsNegative() {
		return EntryResponse{}, timesheeterrors.ErrNegativeOvertime
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return EntryResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	calc := s.deps.Calculator
	date, err := period.ParseDate(req.Date, calc.Location())
	if err != nil {
		return EntryResponse{}, timesheeterrors.ErrInvalidDate
	}
	now := s.deps.Now()
	if date.After(calc.DateOf(now)) {
		return EntryResponse{}, timesheeterrors.ErrFutureDate
	}
	checkIn, err := clockOn(date, req.CheckIn)
	if err != nil {
		return EntryResponse{}, err
	}
	checkOut, err := clockOn(date, req.CheckOut)
	if err != nil {
		return EntryResponse{}, err
	}

	emp, err := s.deps.Employees.FindByID(ctx, employeeID)
	if err != nil {
		return EntryResponse{}, mapEmployeeError(err)
	}
	schedule, err := s.deps.Schedules.GetForWeekday(ctx, workschedule.WeekdayOf(date), true)
	if err != nil {
		log.Error("record punch schedule lookup failed", zap.Error(err))
		return EntryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, date)
	created := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("record punch lookup failed", zap.Error(err))
			return EntryResponse{}, err
		}
		created = true
		row = &Entry{
			ID:           uuid.New(),
			EmployeeID:   employeeID,
			EntryDate:    date,
			IsFullSalary: emp.IsFullSalary,
			Source:       SourcePunch,
		}
	}

	if checkIn != nil {
		row.CheckInAt = checkIn
	}
	if checkOut != nil {
		row.CheckOutAt = checkOut
	}
	if req.OvertimeHours != nil {
		row.OvertimeHours = req.OvertimeHours.Round(2)
	}

	mode := calc.ModeFor(date, now)
	if err := calc.Calculate(row, schedule, mode, now); err != nil {
		log.Warn("record punch calculation rejected", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return EntryResponse{}, err
	}

	if created {
		err = qtx.Create(ctx, row)
	} else {
		err = qtx.Update(ctx, row)
	}
	if err != nil {
		log.Error("record punch persist failed", zap.Error(err))
		return EntryResponse{}, err
	}

	if err := s.deps.Marker.MarkNeedRefresh(ctx, tx, employeeID, date); err != nil {
		log.Error("record punch mark month failed", zap.Error(err))
		return EntryResponse{}, err
	}
	if created {
		evt := EntryCreated{Entry: *row, Source: SourcePunch}
		for _, l := range s.deps.Listeners {
			if err := l.OnEntryCreated(ctx, tx, evt); err != nil {
				log.Error("record punch entry-created listener failed", zap.Error(err))
				return EntryResponse{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	log.Info("record punch success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("mode", mode.String()),
		zap.String("status", string(row.Status)),
		zap.Bool("created", created),
	)
	return MapToResponse(*row), nil
}

func (s *service) Recompute(ctx context.Context, employeeID, date string, forceFinalize bool) (EntryResponse, error) {
	log := s.log(ctx)

	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return EntryResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	calc := s.deps.Calculator
	day, err := period.ParseDate(date, calc.Location())
	if err != nil {
		return EntryResponse{}, timesheeterrors.ErrInvalidDate
	}
	now := s.deps.Now()
	if day.After(calc.DateOf(now)) {
		return EntryResponse{}, timesheeterrors.ErrFutureDate
	}

	schedule, err := s.deps.Schedules.GetForWeekday(ctx, workschedule.WeekdayOf(day), true)
	if err != nil {
		return EntryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByEmployeeAndDate(ctx, empID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EntryResponse{}, timesheeterrors.ErrEntryNotFound
		}
		return EntryResponse{}, err
	}

	mode := calc.ModeFor(day, now)
	if forceFinalize {
		mode = ModeFinalize
	}
	if err := calc.Calculate(row, schedule, mode, now); err != nil {
		return EntryResponse{}, err
	}
	if err := qtx.Update(ctx, row); err != nil {
		log.Error("recompute entry persist failed", zap.Error(err))
		return EntryResponse{}, err
	}
	if err := s.deps.Marker.MarkNeedRefresh(ctx, tx, empID, day); err != nil {
		return EntryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	log.Info("recompute entry success",
		zap.String("employee_id", employeeID),
		zap.String("date", date),
		zap.String("mode", mode.String()),
		zap.String("status", string(row.Status)),
	)
	return MapToResponse(*row), nil
}

func (s *service) FinalizePastEntries(ctx context.Context, employeeID uuid.UUID, month period.Month) (int, error) {
	log := s.log(ctx)
	calc := s.deps.Calculator
	now := s.deps.Now()
	today := calc.DateOf(now)

	if !month.FirstDay(calc.Location()).Before(today) {
		return 0, nil
	}

	schedules := make(map[workschedule.Weekday]*workschedule.WorkSchedule, 7)
	scheduleFor := func(day time.Time) (*workschedule.WorkSchedule, error) {
		wd := workschedule.WeekdayOf(day)
		if sc, ok := schedules[wd]; ok {
			return sc, nil
		}
		sc, err := s.deps.Schedules.GetForWeekday(ctx, wd, true)
		if err != nil {
			return nil, err
		}
		schedules[wd] = sc
		return sc, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rows, err := qtx.FindByEmployeeMonth(ctx, employeeID, month)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range rows {
		row := rows[i]
		if calc.ModeFor(row.EntryDate, now) != ModeFinalize {
			continue
		}
		sc, err := scheduleFor(row.EntryDate)
		if err != nil {
			return 0, err
		}
		before := row
		if err := calc.Calculate(&row, sc, ModeFinalize, now); err != nil {
			return 0, err
		}
		if sameComputed(before, row) {
			continue
		}
		if err := qtx.Update(ctx, &row); err != nil {
			log.Error("finalize entry persist failed",
				zap.String("employee_id", employeeID.String()),
				zap.Time("date", row.EntryDate),
				zap.Error(err),
			)
			return 0, err
		}
		changed++
	}

	if changed > 0 {
		if err := s.deps.Marker.MarkNeedRefresh(ctx, tx, employeeID, month.FirstDay(calc.Location())); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	log.Info("finalize past entries success",
		zap.String("employee_id", employeeID.String()),
		zap.String("month", month.String()),
		zap.Int("changed", changed),
	)
	return changed, nil
}

func (s *service) ListMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]Entry, error) {
	return s.repo.FindByEmployeeMonth(ctx, employeeID, month)
}

// clockOn anchors an "HH:MM" wall-clock time on date.
func clockOn(date time.Time, v *string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	offset, err := workschedule.ParseClock(*v)
	if err != nil {
		return nil, timesheeterrors.ErrInvalidPunchTime
	}
	t := date.Add(offset)
	return &t, nil
}

func mapEmployeeError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	return err
}

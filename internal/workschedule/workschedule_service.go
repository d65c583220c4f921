package workschedule

import (
	"context"
	"errors"
	"strings"

	workscheduleerrors "go-timesheet/internal/workschedule/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type Service interface {
	GetAll(ctx context.Context) ([]WorkSchedule, error)
	// GetForWeekday returns nil without error when the weekday has no schedule (non-working day).
	// useCache=false reads the table directly.
	GetForWeekday(ctx context.Context, weekday Weekday, useCache bool) (*WorkSchedule, error)
	Create(ctx context.Context, req CreateWorkScheduleRequest) (WorkScheduleResponse, error)
	Update(ctx context.Context, weekday string, req UpdateWorkScheduleRequest) (WorkScheduleResponse, error)
	Delete(ctx context.Context, weekday string) error
}

type service struct {
	repo   Repository
	cache  Cache
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, cache Cache, logger ...*zap.Logger) Service {
	l := zap.L().Named("workschedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workschedule.service")
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &service{repo: repo, cache: cache, sf: &singleflight.Group{}, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]WorkSchedule, error) {
	version, err := s.cache.Version(ctx)
	if err != nil {
		s.logger.Warn("work schedule cache version unavailable, reading database", zap.Error(err))
		return s.repo.FindAll(ctx)
	}

	cached, ok, err := s.cache.Get(ctx, version)
	if err != nil {
		s.logger.Warn("work schedule cache read failed, falling back to database", zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	// Loads are shared per generation so a reader arriving after a write never joins a
	// load that started before it.
	v, err, _ := s.sf.Do(SnapshotKey(version), func() (interface{}, error) {
		rows, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, version, rows); err != nil {
			s.logger.Warn("work schedule cache fill failed", zap.Error(err))
		}
		return rows, nil
	})
	if err != nil {
		s.logger.Error("get all work schedules failed", zap.Error(err))
		return nil, err
	}
	return v.([]WorkSchedule), nil
}

func (s *service) GetForWeekday(ctx context.Context, weekday Weekday, useCache bool) (*WorkSchedule, error) {
	if !useCache {
		row, err := s.repo.FindByWeekday(ctx, weekday)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return row, nil
	}

	rows, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Weekday == weekday {
			row := rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (s *service) Create(ctx context.Context, req CreateWorkScheduleRequest) (WorkScheduleResponse, error) {
	s.logger.Debug("create work schedule requested", zap.String("weekday", req.Weekday))

	weekday, err := ParseWeekday(req.Weekday)
	if err != nil {
		return WorkScheduleResponse{}, err
	}
	row := &WorkSchedule{ID: uuid.New(), Weekday: weekday}
	applyTimes(row, req.ScheduleTimes)
	if err := row.Validate(); err != nil {
		s.logger.Warn("create work schedule validation failed", zap.String("weekday", req.Weekday), zap.Error(err))
		return WorkScheduleResponse{}, err
	}

	if _, err := s.repo.FindByWeekday(ctx, weekday); err == nil {
		return WorkScheduleResponse{}, workscheduleerrors.ErrScheduleAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return WorkScheduleResponse{}, err
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("create work schedule persist failed", zap.Error(err))
		return WorkScheduleResponse{}, mapRepositoryError(err)
	}
	if err := s.invalidate(ctx); err != nil {
		return WorkScheduleResponse{}, err
	}

	s.logger.Info("create work schedule success", zap.String("weekday", string(weekday)))
	return MapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, weekday string, req UpdateWorkScheduleRequest) (WorkScheduleResponse, error) {
	s.logger.Debug("update work schedule requested", zap.String("weekday", weekday))

	day, err := ParseWeekday(weekday)
	if err != nil {
		return WorkScheduleResponse{}, err
	}
	row, err := s.repo.FindByWeekday(ctx, day)
	if err != nil {
		return WorkScheduleResponse{}, mapRepositoryError(err)
	}

	applyTimes(row, req.ScheduleTimes)
	if err := row.Validate(); err != nil {
		s.logger.Warn("update work schedule validation failed", zap.String("weekday", weekday), zap.Error(err))
		return WorkScheduleResponse{}, err
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("update work schedule persist failed", zap.Error(err))
		return WorkScheduleResponse{}, mapRepositoryError(err)
	}
	if err := s.invalidate(ctx); err != nil {
		return WorkScheduleResponse{}, err
	}

	s.logger.Info("update work schedule success", zap.String("weekday", weekday))
	return MapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, weekday string) error {
	day, err := ParseWeekday(weekday)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, day); err != nil {
		s.logger.Error("delete work schedule failed", zap.String("weekday", weekday), zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := s.invalidate(ctx); err != nil {
		return err
	}

	s.logger.Info("delete work schedule success", zap.String("weekday", weekday))
	return nil
}

// invalidate runs before a write returns so the next read cannot see the previous snapshot.
func (s *service) invalidate(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("failed to invalidate work schedule cache",
			zap.Error(err),
			zap.String("key", VersionKey),
		)
		return err
	}
	return nil
}

func applyTimes(row *WorkSchedule, t ScheduleTimes) {
	row.MorningStart = t.MorningStart
	row.MorningEnd = t.MorningEnd
	row.NoonStart = t.NoonStart
	row.NoonEnd = t.NoonEnd
	row.AfternoonStart = t.AfternoonStart
	row.AfternoonEnd = t.AfternoonEnd
	row.AllowedLateMinutes = t.AllowedLateMinutes
	row.Note = t.Note
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return workscheduleerrors.ErrScheduleNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return workscheduleerrors.ErrScheduleAlreadyExists
	}
	if strings.Contains(strings.ToLower(err.Error()), "uq_work_schedule_weekday") {
		return workscheduleerrors.ErrScheduleAlreadyExists
	}
	return err
}

func MapToResponse(s WorkSchedule) WorkScheduleResponse {
	return WorkScheduleResponse{
		ID:                 s.ID.String(),
		Weekday:            string(s.Weekday),
		MorningStart:       s.MorningStart,
		MorningEnd:         s.MorningEnd,
		NoonStart:          s.NoonStart,
		NoonEnd:            s.NoonEnd,
		AfternoonStart:     s.AfternoonStart,
		AfternoonEnd:       s.AfternoonEnd,
		AllowedLateMinutes: s.AllowedLateMinutes,
		Note:               s.Note,
		IsWorkingDay:       s.IsWorkingDay(),
	}
}

func MapToListResponse(rows []WorkSchedule) []WorkScheduleResponse {
	resp := make([]WorkScheduleResponse, len(rows))
	for i, r := range rows {
		resp[i] = MapToResponse(r)
	}
	return resp
}

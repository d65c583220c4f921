package workschedule_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-timesheet/internal/workschedule"
	workscheduleerrors "go-timesheet/internal/workschedule/errors"
	workscheduleMock "go-timesheet/internal/workschedule/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	service   workschedule.Service
	repo      *workscheduleMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	rdb, redisMock := redismock.NewClientMock()
	repo := workscheduleMock.NewMockRepository(ctrl)
	svc := workschedule.NewService(repo, workschedule.NewRedisCache(rdb))

	return &serviceDeps{service: svc, repo: repo, redismock: redisMock}
}

func weekSchedules() []workschedule.WorkSchedule {
	monday := fullDay(workschedule.Monday)
	monday.ID = uuid.New()
	saturday := workschedule.WorkSchedule{
		ID:           uuid.New(),
		Weekday:      workschedule.Saturday,
		MorningStart: strPtr("08:00"),
		MorningEnd:   strPtr("12:00"),
	}
	return []workschedule.WorkSchedule{monday, saturday}
}

func fullTimes() workschedule.ScheduleTimes {
	return workschedule.ScheduleTimes{
		MorningStart:       strPtr("08:00"),
		MorningEnd:         strPtr("12:00"),
		NoonStart:          strPtr("12:00"),
		NoonEnd:            strPtr("13:00"),
		AfternoonStart:     strPtr("13:00"),
		AfternoonEnd:       strPtr("17:00"),
		AllowedLateMinutes: intPtr(15),
	}
}

func TestWorkScheduleService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips database", func(t *testing.T) {
		deps := setupServiceTest(t)
		rows := weekSchedules()
		payload, _ := json.Marshal(rows)

		deps.redismock.ExpectGet(workschedule.VersionKey).SetVal("3")
		deps.redismock.ExpectGet(workschedule.SnapshotKey(3)).SetVal(string(payload))

		got, err := deps.service.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, workschedule.Monday, got[0].Weekday)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and fills cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		rows := weekSchedules()
		payload, _ := json.Marshal(rows)

		deps.redismock.ExpectGet(workschedule.VersionKey).RedisNil()
		deps.redismock.ExpectGet(workschedule.SnapshotKey(0)).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return(rows, nil)
		deps.redismock.ExpectSet(workschedule.SnapshotKey(0), string(payload), workschedule.CacheTTL).SetVal("OK")

		got, err := deps.service.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, rows, got)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("redis failure falls back to database", func(t *testing.T) {
		deps := setupServiceTest(t)
		rows := weekSchedules()

		deps.redismock.ExpectGet(workschedule.VersionKey).SetErr(errors.New("connection refused"))
		deps.repo.EXPECT().FindAll(ctx).Return(rows, nil)

		got, err := deps.service.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("database error", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redismock.ExpectGet(workschedule.VersionKey).SetVal("1")
		deps.redismock.ExpectGet(workschedule.SnapshotKey(1)).RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return(nil, errors.New("db down"))

		_, err := deps.service.GetAll(ctx)
		assert.EqualError(t, err, "db down")
	})
}

func TestWorkScheduleService_GetForWeekday(t *testing.T) {
	ctx := context.Background()

	t.Run("cached lookup", func(t *testing.T) {
		deps := setupServiceTest(t)
		payload, _ := json.Marshal(weekSchedules())
		deps.redismock.ExpectGet(workschedule.VersionKey).SetVal("2")
		deps.redismock.ExpectGet(workschedule.SnapshotKey(2)).SetVal(string(payload))

		got, err := deps.service.GetForWeekday(ctx, workschedule.Saturday, true)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Len(t, got.Sessions(), 1)
	})

	t.Run("missing weekday is a day off", func(t *testing.T) {
		deps := setupServiceTest(t)
		payload, _ := json.Marshal(weekSchedules())
		deps.redismock.ExpectGet(workschedule.VersionKey).SetVal("2")
		deps.redismock.ExpectGet(workschedule.SnapshotKey(2)).SetVal(string(payload))

		got, err := deps.service.GetForWeekday(ctx, workschedule.Sunday, true)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("bypass cache reads table directly", func(t *testing.T) {
		deps := setupServiceTest(t)
		row := fullDay(workschedule.Friday)
		deps.repo.EXPECT().FindByWeekday(ctx, workschedule.Friday).Return(&row, nil)

		got, err := deps.service.GetForWeekday(ctx, workschedule.Friday, false)
		require.NoError(t, err)
		assert.Equal(t, workschedule.Friday, got.Weekday)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("bypass cache not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByWeekday(ctx, workschedule.Sunday).Return(nil, gorm.ErrRecordNotFound)

		got, err := deps.service.GetForWeekday(ctx, workschedule.Sunday, false)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestWorkScheduleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success invalidates cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := workschedule.CreateWorkScheduleRequest{Weekday: "monday", ScheduleTimes: fullTimes()}

		deps.repo.EXPECT().FindByWeekday(ctx, workschedule.Monday).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, s *workschedule.WorkSchedule) error {
				assert.Equal(t, workschedule.Monday, s.Weekday)
				assert.Equal(t, "13:00", *s.AfternoonStart)
				return nil
			})
		deps.redismock.ExpectIncr(workschedule.VersionKey).SetVal(1)

		resp, err := deps.service.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "MONDAY", resp.Weekday)
		assert.True(t, resp.IsWorkingDay)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("partial weekday schedule rejected before persistence", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := workschedule.CreateWorkScheduleRequest{
			Weekday: "MONDAY",
			ScheduleTimes: workschedule.ScheduleTimes{
				MorningStart: strPtr("08:00"),
				MorningEnd:   strPtr("12:00"),
			},
		}

		_, err := deps.service.Create(ctx, req)
		assert.ErrorIs(t, err, workscheduleerrors.ErrIncompleteSchedule)
	})

	t.Run("weekday already configured", func(t *testing.T) {
		deps := setupServiceTest(t)
		existing := fullDay(workschedule.Monday)
		deps.repo.EXPECT().FindByWeekday(ctx, workschedule.Monday).Return(&existing, nil)

		_, err := deps.service.Create(ctx, workschedule.CreateWorkScheduleRequest{Weekday: "MONDAY", ScheduleTimes: fullTimes()})
		assert.ErrorIs(t, err, workscheduleerrors.ErrScheduleAlreadyExists)
	})

	t.Run("unique violation from concurrent insert", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByWeekday(ctx, workschedule.Tuesday).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(&pgconn.PgError{Code: "23505"})

		_, err := deps.service.Create(ctx, workschedule.CreateWorkScheduleRequest{Weekday: "TUESDAY", ScheduleTimes: fullTimes()})
		assert.ErrorIs(t, err, workscheduleerrors.ErrScheduleAlreadyExists)
	})

	t.Run("invalidation failure is reported", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByWeekday(ctx, workschedule.Monday).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.redismock.ExpectIncr(workschedule.VersionKey).SetErr(errors.New("redis down"))

		_, err := deps.service.Create(ctx, workschedule.CreateWorkScheduleRequest{Weekday: "MONDAY", ScheduleTimes: fullTimes()})
		assert.EqualError(t, err, "redis down")
	})
}

func TestWorkScheduleService_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update invalidates cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		row := fullDay(workschedule.Wednesday)
		deps.repo.EXPECT().FindByWeekday(ctx, workschedule.Wednesday).Return(&row, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, s *workschedule.WorkSchedule) error {
				assert.Equal(t, 15, *s.AllowedLateMinutes)
				return nil
			})
		deps.redismock.ExpectIncr(workschedule.VersionKey).SetVal(1)

		_, err := deps.service.Update(ctx, "WEDNESDAY", workschedule.UpdateWorkScheduleRequest{ScheduleTimes: fullTimes()})
		require.NoError(t, err)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("update unknown weekday", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByWeekday(ctx, workschedule.Sunday).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, "SUNDAY", workschedule.UpdateWorkScheduleRequest{})
		assert.ErrorIs(t, err, workscheduleerrors.ErrScheduleNotFound)
	})

	t.Run("delete invalidates cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().Delete(ctx, workschedule.Saturday).Return(nil)
		deps.redismock.ExpectIncr(workschedule.VersionKey).SetVal(1)

		require.NoError(t, deps.service.Delete(ctx, "saturday"))
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("delete invalid weekday", func(t *testing.T) {
		deps := setupServiceTest(t)
		assert.ErrorIs(t, deps.service.Delete(ctx, "holiday"), workscheduleerrors.ErrInvalidWeekday)
	})
}

func TestWorkScheduleService_MemoryCacheSeesWrites(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := workscheduleMock.NewMockRepository(ctrl)
	svc := workschedule.NewService(repo, nil)

	before := []workschedule.WorkSchedule{fullDay(workschedule.Monday)}
	updated := fullDay(workschedule.Monday)
	updated.AllowedLateMinutes = intPtr(15)

	gomock.InOrder(
		repo.EXPECT().FindAll(ctx).Return(before, nil),
		repo.EXPECT().FindByWeekday(ctx, workschedule.Monday).Return(&before[0], nil),
		repo.EXPECT().Update(ctx, gomock.Any()).Return(nil),
		repo.EXPECT().FindAll(ctx).Return([]workschedule.WorkSchedule{updated}, nil),
	)

	got, err := svc.GetForWeekday(ctx, workschedule.Monday, true)
	require.NoError(t, err)
	assert.Equal(t, 10, *got.AllowedLateMinutes)

	// second read is served from memory
	_, err = svc.GetForWeekday(ctx, workschedule.Monday, true)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "MONDAY", workschedule.UpdateWorkScheduleRequest{ScheduleTimes: fullTimes()})
	require.NoError(t, err)

	got, err = svc.GetForWeekday(ctx, workschedule.Monday, true)
	require.NoError(t, err)
	assert.Equal(t, 15, *got.AllowedLateMinutes)
}

func TestWorkScheduleService_FillAfterWriteIsDiscarded(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := workscheduleMock.NewMockRepository(ctrl)
	svc := workschedule.NewService(repo, workschedule.NewMemoryCache())

	old := fullDay(workschedule.Monday)
	old.Note = "old"
	stale := []workschedule.WorkSchedule{old}
	current := old
	fresh := fullDay(workschedule.Monday)
	fresh.Note = "new"

	loading := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		repo.EXPECT().FindAll(gomock.Any()).DoAndReturn(func(context.Context) ([]workschedule.WorkSchedule, error) {
			close(loading)
			<-release
			return stale, nil
		}),
		repo.EXPECT().FindByWeekday(ctx, workschedule.Monday).Return(&current, nil),
		repo.EXPECT().Update(ctx, gomock.Any()).Return(nil),
		repo.EXPECT().FindAll(gomock.Any()).Return([]workschedule.WorkSchedule{fresh}, nil),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		rows, err := svc.GetAll(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "old", rows[0].Note)
	}()

	<-loading
	times := fullTimes()
	times.Note = "new"
	_, err := svc.Update(ctx, "MONDAY", workschedule.UpdateWorkScheduleRequest{ScheduleTimes: times})
	require.NoError(t, err)
	close(release)
	<-done

	got, err := svc.GetForWeekday(ctx, workschedule.Monday, true)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Note)
}

func TestWorkScheduleService_RedisFillAfterWriteUsesOldGeneration(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)

	old := fullDay(workschedule.Monday)
	old.Note = "old"
	stale := []workschedule.WorkSchedule{old}
	stalePayload, _ := json.Marshal(stale)
	current := old
	fresh := []workschedule.WorkSchedule{fullDay(workschedule.Monday)}
	fresh[0].Note = "new"
	freshPayload, _ := json.Marshal(fresh)

	loading := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		deps.repo.EXPECT().FindAll(gomock.Any()).DoAndReturn(func(context.Context) ([]workschedule.WorkSchedule, error) {
			close(loading)
			<-release
			return stale, nil
		}),
		deps.repo.EXPECT().FindByWeekday(ctx, workschedule.Monday).Return(&current, nil),
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil),
		deps.repo.EXPECT().FindAll(gomock.Any()).Return(fresh, nil),
	)

	deps.redismock.ExpectGet(workschedule.VersionKey).SetVal("4")
	deps.redismock.ExpectGet(workschedule.SnapshotKey(4)).RedisNil()
	deps.redismock.ExpectIncr(workschedule.VersionKey).SetVal(5)
	deps.redismock.ExpectSet(workschedule.SnapshotKey(4), string(stalePayload), workschedule.CacheTTL).SetVal("OK")
	deps.redismock.ExpectGet(workschedule.VersionKey).SetVal("5")
	deps.redismock.ExpectGet(workschedule.SnapshotKey(5)).RedisNil()
	deps.redismock.ExpectSet(workschedule.SnapshotKey(5), string(freshPayload), workschedule.CacheTTL).SetVal("OK")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := deps.service.GetAll(ctx)
		assert.NoError(t, err)
	}()

	<-loading
	_, err := deps.service.Update(ctx, "MONDAY", workschedule.UpdateWorkScheduleRequest{ScheduleTimes: fullTimes()})
	require.NoError(t, err)
	close(release)
	<-done

	rows, err := deps.service.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", rows[0].Note)
	assert.NoError(t, deps.redismock.ExpectationsWereMet())
}

package app

import (
	"database/sql"
	"time"

	"go-timesheet/internal/config"
	"go-timesheet/internal/employee"
	"go-timesheet/internal/leave"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/monthly"
	"go-timesheet/internal/preparation"
	"go-timesheet/internal/timesheet"
	"go-timesheet/internal/workschedule"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// modules holds the services shared by the api, worker and consumer processes.
type modules struct {
	schedules   workschedule.Service
	timesheets  timesheet.Service
	builder     *timesheet.Builder
	monthly     monthly.Service
	preparation preparation.Service
}

func buildModules(cfg config.Config, db *sql.DB, gormDB *gorm.DB, rdb *redis.Client, logger *zap.Logger) *modules {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	scheduleRepo := workschedule.NewRepository(gormDB)
	entryRepo := timesheet.NewRepository(gormDB)
	monthlyRepo := monthly.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Schedule cache ---
	var cache workschedule.Cache = workschedule.NewMemoryCache()
	if rdb != nil {
		cache = workschedule.NewRedisCache(rdb)
	}
	scheduleService := workschedule.NewService(scheduleRepo, cache, logger)

	// --- Timesheet ---
	marker := monthly.NewMarker(monthlyRepo, logger)
	outboxListener := timesheet.NewOutboxListener(outboxRepo)
	deps := timesheet.Dependencies{
		Employees:  employeeRepo,
		Schedules:  scheduleService,
		Marker:     marker,
		Listeners:  []timesheet.EntryCreatedListener{outboxListener},
		Calculator: timesheet.NewCalculator(cfg.Policy.Location),
		Now:        time.Now,
	}
	timesheetService := timesheet.NewService(db, entryRepo, deps, logger)
	builder := timesheet.NewBuilder(entryRepo, timesheetService, deps, logger)
	builder.Subscribe(marker)

	// --- Monthly ---
	monthlyService := monthly.NewService(db, monthlyRepo, monthly.Dependencies{
		Entries:   entryRepo,
		Employees: employeeRepo,
		Leaves:    leaveRepo,
		Policy:    cfg.Policy,
		Now:       time.Now,
	}, logger)

	preparationService := preparation.NewService(db, preparation.Dependencies{
		Builder:    builder,
		Aggregator: monthlyService,
		Employees:  employeeRepo,
		Months:     monthlyRepo,
		Policy:     cfg.Policy,
		Workers:    cfg.Jobs.PrepareWorkers,
		Now:        time.Now,
	}, logger)

	return &modules{
		schedules:   scheduleService,
		timesheets:  timesheetService,
		builder:     builder,
		monthly:     monthlyService,
		preparation: preparationService,
	}
}

func connectDatabase(cfg config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connectGORM(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

package app

import (
	"go-timesheet/internal/config"
	"go-timesheet/internal/middleware"
	"go-timesheet/internal/monthly"
	"go-timesheet/internal/preparation"
	"go-timesheet/internal/shared/connection"
	"go-timesheet/internal/timesheet"
	"go-timesheet/internal/workschedule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func connectGORM(cfg config.Config) (*gorm.DB, error) {
	return connection.ConnectGORMWithRetry(
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
		5,
	)
}

// BuildApp connects the infrastructure and registers every HTTP module on router.
func BuildApp(router *gin.Engine, cfg config.Config) error {
	logger := zap.L().Named("app")

	gormDB, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	m := buildModules(cfg, sqlDB, gormDB, redisClient, zap.L())

	router.Use(
		middleware.RequestID(),
		middleware.RateLimitByIP(20, 40),
	)

	api := router.Group("/api/v1")
	{
		workschedule.RegisterRoutes(api, workschedule.NewHandler(m.schedules))
		timesheet.RegisterRoutes(api, timesheet.NewHandler(m.timesheets))
		monthly.RegisterRoutes(api, monthly.NewHandler(m.monthly))
		preparation.RegisterRoutes(api, preparation.NewHandler(m.preparation), redisClient)
	}

	return nil
}

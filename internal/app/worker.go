package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-timesheet/internal/config"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/messaging/kafka/producer"
	"go-timesheet/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes the outbox and runs the scheduled monthly jobs until SIGINT or SIGTERM.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	m := buildModules(cfg, sqlDB, gormDB, redisClient, zap.L())

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	scheduler, err := newScheduler(&monthlyJobs{
		preparation: m.preparation,
		monthly:     m.monthly,
		outbox:      outboxRepo,
		cfg:         cfg,
		now:         time.Now,
		logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("schedule monthly jobs: %w", err)
	}
	scheduler.Start()
	logger.Info("monthly jobs scheduled",
		zap.String("prepare_cron", cfg.Jobs.PrepareCron),
		zap.String("refresh_cron", cfg.Jobs.RefreshCron),
		zap.String("outbox_purge_cron", cfg.Jobs.OutboxPurgeCron),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()
	<-scheduler.Stop().Done()

	return nil
}

package app

import (
	"context"
	"time"

	"go-timesheet/internal/config"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/monthly"
	"go-timesheet/internal/preparation"
	"go-timesheet/internal/shared/period"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Minute

// monthlyJobs are the periodic runs of the worker process.
type monthlyJobs struct {
	preparation preparation.Service
	monthly     monthly.Service
	outbox      kafka.OutboxRepository
	cfg         config.Config
	now         func() time.Time
	logger      *zap.Logger
}

func newScheduler(jobs *monthlyJobs) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(jobs.cfg.Policy.Location),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(jobs.cfg.Jobs.PrepareCron, jobs.runPrepare); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(jobs.cfg.Jobs.RefreshCron, jobs.runRefreshDue); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(jobs.cfg.Jobs.OutboxPurgeCron, jobs.runPurgeOutbox); err != nil {
		return nil, err
	}
	return c, nil
}

func (j *monthlyJobs) runPrepare() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	_ = j.prepareCurrentMonth(ctx)
}

func (j *monthlyJobs) runRefreshDue() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	_ = j.refreshDue(ctx)
}

func (j *monthlyJobs) runPurgeOutbox() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	_ = j.purgeOutbox(ctx)
}

// prepareCurrentMonth runs the all-employee preparation, accruing leave, for the month
// containing now in the configured location.
func (j *monthlyJobs) prepareCurrentMonth(ctx context.Context) error {
	month := period.MonthOf(j.now().In(j.cfg.Policy.Location))
	summary, err := j.preparation.Prepare(ctx, preparation.PrepareRequest{
		Year:           month.Year,
		Month:          int(month.Month),
		IncrementLeave: true,
	})
	if err != nil {
		j.logger.Error("scheduled monthly preparation failed", zap.String("month", month.String()), zap.Error(err))
		return err
	}
	j.logger.Info("scheduled monthly preparation finished",
		zap.String("month", summary.Period),
		zap.Int("processed", summary.Processed),
		zap.Int("leave_incremented", summary.LeaveIncremented),
		zap.Int("failed", len(summary.Failed)),
	)
	return nil
}

func (j *monthlyJobs) refreshDue(ctx context.Context) error {
	summary, err := j.monthly.RefreshDue(ctx, j.cfg.Jobs.RefreshBatch)
	if err != nil {
		j.logger.Error("scheduled monthly refresh failed", zap.Error(err))
		return err
	}
	if summary.Refreshed+summary.Failed+summary.Skipped > 0 {
		j.logger.Info("scheduled monthly refresh finished",
			zap.Int("refreshed", summary.Refreshed),
			zap.Int("failed", summary.Failed),
			zap.Int("skipped", summary.Skipped),
		)
	}
	return nil
}

func (j *monthlyJobs) purgeOutbox(ctx context.Context) error {
	before := j.now().AddDate(0, 0, -j.cfg.Jobs.OutboxRetentionDays)
	n, err := j.outbox.PurgeSent(ctx, before)
	if err != nil {
		j.logger.Error("scheduled outbox purge failed", zap.Error(err))
		return err
	}
	j.logger.Info("scheduled outbox purge finished",
		zap.Time("before", before),
		zap.Int64("deleted", n),
	)
	return nil
}

package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-timesheet/internal/employee/errors"
	"go-timesheet/internal/events"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/period"
	"go-timesheet/internal/timesheet"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type MonthBuilder interface {
	CreateEntriesForEmployeeMonth(ctx context.Context, employeeID uuid.UUID, month period.Month) ([]timesheet.Entry, error)
}

// Backoff spaces the in-place retries of a message whose handling failed.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

var DefaultBackoff = Backoff{Initial: time.Second, Max: 30 * time.Second}

// ConsumeEmployeeLifecycle seeds the current month's timesheet entries for every new
// employee. A message is committed only once handled. A failed build is retried in place
// with backoff, so the group offset never moves past an unhandled message.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	builder MonthBuilder,
	now func() time.Time,
	loc *time.Location,
	backoff Backoff,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")
	if backoff.Initial <= 0 {
		backoff = DefaultBackoff
	}

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		month := period.MonthOf(now().In(loc))
		if !handleWithRetry(ctx, msg, builder, month, backoff, log) {
			log.Info("employee lifecycle consumer stopped",
				zap.Int64("uncommitted_offset", msg.Offset),
			)
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
		}
	}
}

// handleWithRetry returns false when ctx ends before the message is handled.
func handleWithRetry(ctx context.Context, msg kafkago.Message, builder MonthBuilder, month period.Month, backoff Backoff, log *zap.Logger) bool {
	delay := backoff.Initial
	for attempt := 1; ; attempt++ {
		if err := handleEmployeeLifecycle(ctx, msg, builder, month, log); err == nil {
			return true
		}

		log.Warn("retrying employee lifecycle message",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		delay *= 2
		if backoff.Max > 0 && delay > backoff.Max {
			delay = backoff.Max
		}
	}
}

// handleEmployeeLifecycle returns an error only when the message should be retried.
func handleEmployeeLifecycle(ctx context.Context, msg kafkago.Message, builder MonthBuilder, month period.Month, log *zap.Logger) error {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee lifecycle event failed", zap.Error(err))
		return nil
	}
	if event.EventType != events.EmployeeCreatedEventType {
		log.Debug("ignore employee lifecycle event", zap.String("event_type", event.EventType))
		return nil
	}

	employeeID, err := uuid.Parse(event.EmployeeID)
	if err != nil {
		log.Warn("employee_created event has invalid employee id", zap.String("employee_id", event.EmployeeID))
		return nil
	}
	if event.RequestID != "" {
		ctx = contextutil.WithRequestID(ctx, event.RequestID)
	}

	created, err := builder.CreateEntriesForEmployeeMonth(ctx, employeeID, month)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			log.Warn("employee from employee_created event not found, skipping",
				zap.String("employee_id", event.EmployeeID),
			)
			return nil
		}
		log.Error("build timesheet month from employee_created event failed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("month", month.String()),
			zap.Error(err),
		)
		return err
	}

	log.Info("timesheet month built from employee_created event",
		zap.String("employee_id", event.EmployeeID),
		zap.String("month", month.String()),
		zap.Int("created", len(created)),
	)
	return nil
}

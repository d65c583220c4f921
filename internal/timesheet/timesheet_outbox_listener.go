package timesheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-timesheet/internal/events"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/shared/contextutil"
	"go-timesheet/internal/shared/period"

	"github.com/google/uuid"
)

type outboxListener struct {
	outbox kafka.OutboxRepository
	now    func() time.Time
}

// NewOutboxListener writes a timesheet_entry_created outbox row per created entry;
// the producer worker publishes it to Kafka.
func NewOutboxListener(outbox kafka.OutboxRepository) EntryCreatedListener {
	return &outboxListener{outbox: outbox, now: time.Now}
}

func (l *outboxListener) OnEntryCreated(ctx context.Context, tx *sql.Tx, evt EntryCreated) error {
	requestID := contextutil.GetRequestID(ctx)
	payload, err := json.Marshal(events.TimesheetEntryCreatedEvent{
		EventType:  events.TimesheetEntryCreatedEventType,
		EntryID:    evt.Entry.ID.String(),
		EmployeeID: evt.Entry.EmployeeID.String(),
		EntryDate:  evt.Entry.EntryDate.Format(period.DateLayout),
		Source:     evt.Source,
		RequestID:  requestID,
		OccurredAt: l.now().UTC(),
	})
	if err != nil {
		return err
	}

	repo := l.outbox
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	event := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: "timesheet_entry",
		AggregateID:   evt.Entry.EmployeeID.String(),
		EventType:     events.TimesheetEntryCreatedEventType,
		Topic:         events.TimesheetEntryCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(event); err != nil {
		return err
	}
	return repo.Create(ctx, event)
}

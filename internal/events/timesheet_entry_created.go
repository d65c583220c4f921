package events

import "time"

const (
	TimesheetEntryCreatedTopic     = "hr.timesheet.entry.created.v1"
	TimesheetEntryCreatedEventType = "timesheet_entry_created"
)

// TimesheetEntryCreatedEvent is emitted once per newly inserted entry, whether it
// was created by a punch or by the batch month builder.
type TimesheetEntryCreatedEvent struct {
	EventType  string    `json:"event_type"`
	EntryID    string    `json:"entry_id"`
	EmployeeID string    `json:"employee_id"`
	EntryDate  string    `json:"entry_date"`
	Source     string    `json:"source"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

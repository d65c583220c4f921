package timesheet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusUnset             Status = ""
	StatusOnTime            Status = "ON_TIME"
	StatusLate              Status = "LATE"
	StatusEarlyLeave        Status = "EARLY_LEAVE"
	StatusLateAndEarlyLeave Status = "LATE_AND_EARLY_LEAVE"
	StatusSinglePunch       Status = "SINGLE_PUNCH"
	StatusAbsent            Status = "ABSENT"
)

const (
	SourcePunch = "PUNCH"
	SourceBatch = "BATCH"
)

// Entry is one employee's timesheet for one calendar date.
type Entry struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey"`
	EmployeeID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uq_timesheet_entry_employee_date,priority:1"`
	EntryDate      time.Time           `gorm:"type:date;not null;uniqueIndex:uq_timesheet_entry_employee_date,priority:2"`
	CheckInAt      *time.Time          `gorm:"column:check_in_at"`
	CheckOutAt     *time.Time          `gorm:"column:check_out_at"`
	MorningHours   decimal.Decimal     `gorm:"type:numeric(6,2);not null"`
	AfternoonHours decimal.Decimal     `gorm:"type:numeric(6,2);not null"`
	OvertimeHours  decimal.Decimal     `gorm:"type:numeric(6,2);not null"`
	IsFullSalary   bool                `gorm:"not null"`
	Status         Status              `gorm:"type:varchar(32);not null"`
	WorkingDays    decimal.NullDecimal `gorm:"type:numeric(4,2)"`
	IsFinalized    bool                `gorm:"not null"`
	Source         string              `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Entry) TableName() string {
	return "timesheet_entries"
}

func (e Entry) OfficialHours() decimal.Decimal {
	return e.MorningHours.Add(e.AfternoonHours)
}

func (e Entry) TotalWorkedHours() decimal.Decimal {
	return e.OfficialHours().Add(e.OvertimeHours)
}

func (e Entry) HasCheckIn() bool  { return e.CheckInAt != nil }
func (e Entry) HasCheckOut() bool { return e.CheckOutAt != nil }

// sameComputed reports whether the calculator-owned fields of a and b match.
func sameComputed(a, b Entry) bool {
	return a.Status == b.Status &&
		a.IsFinalized == b.IsFinalized &&
		a.MorningHours.Equal(b.MorningHours) &&
		a.AfternoonHours.Equal(b.AfternoonHours) &&
		a.WorkingDays.Valid == b.WorkingDays.Valid &&
		a.WorkingDays.Decimal.Equal(b.WorkingDays.Decimal)
}

package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeAnnual = "ANNUAL"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType string    `gorm:"type:varchar(30);not null;default:'ANNUAL'"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`

	Status     string `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}

// DaysWithin counts the leave's days falling inside the inclusive range [from, to].
// A leave that ends the day before from, or starts the day after to, contributes nothing.
// The result never exceeds TotalDays, which already excludes non-working days for leaves
// fully inside the range.
func (l Leave) DaysWithin(from, to time.Time) int {
	start, end := dateOnly(l.StartDate), dateOnly(l.EndDate)
	from, to = dateOnly(from), dateOnly(to)
	if end.Before(from) || start.After(to) {
		return 0
	}
	if !start.Before(from) && !end.After(to) {
		return l.TotalDays
	}

	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days > l.TotalDays {
		return l.TotalDays
	}
	return days
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

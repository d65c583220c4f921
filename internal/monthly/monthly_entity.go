package monthly

import (
	"time"

	"go-timesheet/internal/shared/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyTimesheet is the per (employee, year, month) roll-up of timesheet entries
// together with the leave balance carried from the previous month.
type MonthlyTimesheet struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_monthly_timesheet_employee_period,priority:1"`
	Year       int       `gorm:"not null;uniqueIndex:uq_monthly_timesheet_employee_period,priority:2"`
	Month      int       `gorm:"not null;uniqueIndex:uq_monthly_timesheet_employee_period,priority:3"`
	ReportDate time.Time `gorm:"type:date;not null"`

	OfficialHours        decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	OvertimeHours        decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	TotalWorkedHours     decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	WorkingDaysValue     decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	OfficialWorkingDays  decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	ProbationWorkingDays decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	TotalWorkingDays     decimal.Decimal `gorm:"type:numeric(6,2);not null"`

	OpeningBalanceLeaveDays decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	LeaveConsumedDays       decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	LeaveIncrementDays      decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	RemainingLeaveDays      decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	// LeaveIncrementedAt marks the month's accrual as applied to the employee balance.
	LeaveIncrementedAt *time.Time

	NeedRefresh bool `gorm:"not null;index:idx_monthly_timesheet_need_refresh"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (MonthlyTimesheet) TableName() string {
	return "employee_monthly_timesheets"
}

func (m MonthlyTimesheet) Period() period.Month {
	return period.Month{Year: m.Year, Month: time.Month(m.Month)}
}

func newMonthlyTimesheet(employeeID uuid.UUID, month period.Month) *MonthlyTimesheet {
	return &MonthlyTimesheet{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		Year:        month.Year,
		Month:       int(month.Month),
		ReportDate:  month.FirstDay(time.UTC),
		NeedRefresh: true,
	}
}

type Field string

const (
	FieldHours       Field = "hours"
	FieldWorkingDays Field = "working_days"
	FieldLeave       Field = "leave"
)

var allFields = []Field{FieldHours, FieldWorkingDays, FieldLeave}

func (f Field) valid() bool {
	switch f {
	case FieldHours, FieldWorkingDays, FieldLeave:
		return true
	}
	return false
}

type fieldSet map[Field]bool

func newFieldSet(fields []Field) fieldSet {
	if len(fields) == 0 {
		fields = allFields
	}
	set := make(fieldSet, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func (s fieldSet) complete() bool {
	for _, f := range allFields {
		if !s[f] {
			return false
		}
	}
	return true
}

func sameAggregate(a, b MonthlyTimesheet) bool {
	return a.OfficialHours.Equal(b.OfficialHours) &&
		a.OvertimeHours.Equal(b.OvertimeHours) &&
		a.TotalWorkedHours.Equal(b.TotalWorkedHours) &&
		a.WorkingDaysValue.Equal(b.WorkingDaysValue) &&
		a.OfficialWorkingDays.Equal(b.OfficialWorkingDays) &&
		a.ProbationWorkingDays.Equal(b.ProbationWorkingDays) &&
		a.TotalWorkingDays.Equal(b.TotalWorkingDays) &&
		a.OpeningBalanceLeaveDays.Equal(b.OpeningBalanceLeaveDays) &&
		a.LeaveConsumedDays.Equal(b.LeaveConsumedDays) &&
		a.LeaveIncrementDays.Equal(b.LeaveIncrementDays) &&
		a.RemainingLeaveDays.Equal(b.RemainingLeaveDays) &&
		a.NeedRefresh == b.NeedRefresh
}

package monthly

import (
	"time"

	"go-timesheet/internal/employee"
	"go-timesheet/internal/timesheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MonthlyResponse struct {
	ID                      string          `json:"id"`
	EmployeeID              string          `json:"employee_id"`
	Year                    int             `json:"year"`
	Month                   int             `json:"month"`
	ReportDate              string          `json:"report_date"`
	OfficialHours           decimal.Decimal `json:"official_hours"`
	OvertimeHours           decimal.Decimal `json:"overtime_hours"`
	TotalWorkedHours        decimal.Decimal `json:"total_worked_hours"`
	WorkingDaysValue        decimal.Decimal `json:"working_days_value"`
	OfficialWorkingDays     decimal.Decimal `json:"official_working_days"`
	ProbationWorkingDays    decimal.Decimal `json:"probation_working_days"`
	TotalWorkingDays        decimal.Decimal `json:"total_working_days"`
	OpeningBalanceLeaveDays decimal.Decimal `json:"opening_balance_leave_days"`
	LeaveConsumedDays       decimal.Decimal `json:"leave_consumed_days"`
	LeaveIncrementDays      decimal.Decimal `json:"leave_increment_days"`
	RemainingLeaveDays      decimal.Decimal `json:"remaining_leave_days"`
	LeaveIncrementedAt      *time.Time      `json:"leave_incremented_at"`
	NeedRefresh             bool            `json:"need_refresh"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

type EmployeeSummary struct {
	ID               string          `json:"id"`
	EmployeeNumber   string          `json:"employee_number"`
	FullName         string          `json:"full_name"`
	BranchID         *string         `json:"branch_id"`
	BlockID          *string         `json:"block_id"`
	DepartmentID     *string         `json:"department_id"`
	PositionID       *string         `json:"position_id"`
	EmploymentStatus string          `json:"employment_status"`
	IsFullSalary     bool            `json:"is_full_salary"`
	AvailableLeave   decimal.Decimal `json:"available_leave_days"`
}

// EmployeeMonthResponse is the reporting view of one employee month. Summary is nil
// until the month has been aggregated at least once.
type EmployeeMonthResponse struct {
	Employee EmployeeSummary           `json:"employee"`
	Period   string                    `json:"period"`
	Summary  *MonthlyResponse          `json:"summary"`
	Entries  []timesheet.EntryResponse `json:"entries"`
}

type RecomputeMonthRequest struct {
	Fields []string `json:"fields" binding:"omitempty,dive,oneof=hours working_days leave"`
}

func MapToResponse(m MonthlyTimesheet) MonthlyResponse {
	return MonthlyResponse{
		ID:                      m.ID.String(),
		EmployeeID:              m.EmployeeID.String(),
		Year:                    m.Year,
		Month:                   m.Month,
		ReportDate:              m.ReportDate.Format("2006-01-02"),
		OfficialHours:           m.OfficialHours,
		OvertimeHours:           m.OvertimeHours,
		TotalWorkedHours:        m.TotalWorkedHours,
		WorkingDaysValue:        m.WorkingDaysValue,
		OfficialWorkingDays:     m.OfficialWorkingDays,
		ProbationWorkingDays:    m.ProbationWorkingDays,
		TotalWorkingDays:        m.TotalWorkingDays,
		OpeningBalanceLeaveDays: m.OpeningBalanceLeaveDays,
		LeaveConsumedDays:       m.LeaveConsumedDays,
		LeaveIncrementDays:      m.LeaveIncrementDays,
		RemainingLeaveDays:      m.RemainingLeaveDays,
		LeaveIncrementedAt:      m.LeaveIncrementedAt,
		NeedRefresh:             m.NeedRefresh,
		UpdatedAt:               m.UpdatedAt,
	}
}

func mapEmployee(e employee.Employee) EmployeeSummary {
	return EmployeeSummary{
		ID:               e.ID.String(),
		EmployeeNumber:   e.EmployeeNumber,
		FullName:         e.FullName,
		BranchID:         uuidString(e.BranchID),
		BlockID:          uuidString(e.BlockID),
		DepartmentID:     uuidString(e.DepartmentID),
		PositionID:       uuidString(e.PositionID),
		EmploymentStatus: e.EmploymentStatus,
		IsFullSalary:     e.IsFullSalary,
		AvailableLeave:   e.AvailableLeaveDays,
	}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

package timesheet

import (
	"time"

	"go-timesheet/internal/shared/period"

	"github.com/shopspring/decimal"
)

type PunchRequest struct {
	EmployeeID    string           `json:"employee_id" binding:"omitempty,uuid"`
	Date          string           `json:"date" binding:"required,datetime=2006-01-02"`
	CheckIn       *string          `json:"check_in" binding:"omitempty,datetime=15:04"`
	CheckOut      *string          `json:"check_out" binding:"omitempty,datetime=15:04"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours"`
}

type RecomputeRequest struct {
	ForceFinalize bool `json:"force_finalize"`
}

type EntryResponse struct {
	ID               string              `json:"id"`
	EmployeeID       string              `json:"employee_id"`
	Date             string              `json:"date"`
	CheckInAt        *time.Time          `json:"check_in_at"`
	CheckOutAt       *time.Time          `json:"check_out_at"`
	MorningHours     decimal.Decimal     `json:"morning_hours"`
	AfternoonHours   decimal.Decimal     `json:"afternoon_hours"`
	OfficialHours    decimal.Decimal     `json:"official_hours"`
	OvertimeHours    decimal.Decimal     `json:"overtime_hours"`
	TotalWorkedHours decimal.Decimal     `json:"total_worked_hours"`
	IsFullSalary     bool                `json:"is_full_salary"`
	Status           string              `json:"status"`
	WorkingDays      decimal.NullDecimal `json:"working_days"`
	IsFinalized      bool                `json:"is_finalized"`
}

func MapToResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:               e.ID.String(),
		EmployeeID:       e.EmployeeID.String(),
		Date:             e.EntryDate.Format(period.DateLayout),
		CheckInAt:        e.CheckInAt,
		CheckOutAt:       e.CheckOutAt,
		MorningHours:     e.MorningHours,
		AfternoonHours:   e.AfternoonHours,
		OfficialHours:    e.OfficialHours(),
		OvertimeHours:    e.OvertimeHours,
		TotalWorkedHours: e.TotalWorkedHours(),
		IsFullSalary:     e.IsFullSalary,
		Status:           string(e.Status),
		WorkingDays:      e.WorkingDays,
		IsFinalized:      e.IsFinalized,
	}
}

func MapToListResponse(rows []Entry) []EntryResponse {
	resp := make([]EntryResponse, len(rows))
	for i, r := range rows {
		resp[i] = MapToResponse(r)
	}
	return resp
}

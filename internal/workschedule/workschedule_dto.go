package workschedule

type ScheduleTimes struct {
	MorningStart       *string `json:"morning_start" binding:"omitempty,datetime=15:04"`
	MorningEnd         *string `json:"morning_end" binding:"omitempty,datetime=15:04"`
	NoonStart          *string `json:"noon_start" binding:"omitempty,datetime=15:04"`
	NoonEnd            *string `json:"noon_end" binding:"omitempty,datetime=15:04"`
	AfternoonStart     *string `json:"afternoon_start" binding:"omitempty,datetime=15:04"`
	AfternoonEnd       *string `json:"afternoon_end" binding:"omitempty,datetime=15:04"`
	AllowedLateMinutes *int    `json:"allowed_late_minutes" binding:"omitempty,min=0"`
	Note               string  `json:"note"`
}

type CreateWorkScheduleRequest struct {
	Weekday string `json:"weekday" binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	ScheduleTimes
}

type UpdateWorkScheduleRequest struct {
	ScheduleTimes
}

type WorkScheduleResponse struct {
	ID                 string  `json:"id"`
	Weekday            string  `json:"weekday"`
	MorningStart       *string `json:"morning_start"`
	MorningEnd         *string `json:"morning_end"`
	NoonStart          *string `json:"noon_start"`
	NoonEnd            *string `json:"noon_end"`
	AfternoonStart     *string `json:"afternoon_start"`
	AfternoonEnd       *string `json:"afternoon_end"`
	AllowedLateMinutes *int    `json:"allowed_late_minutes"`
	Note               string  `json:"note"`
	IsWorkingDay       bool    `json:"is_working_day"`
}

package workscheduleerrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrInvalidWeekday = apperror.New(
		apperror.CodeInvalidInput,
		"invalid weekday, expected MONDAY..SUNDAY",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrIncompleteSchedule = apperror.New(
		apperror.CodeInvalidInput,
		"all six time fields are required on a weekday once any of them is set",
		http.StatusBadRequest,
	)
	ErrUnpairedWindow = apperror.New(
		apperror.CodeInvalidInput,
		"start and end of a time window must be set together",
		http.StatusBadRequest,
	)
	ErrNonMonotonicTimes = apperror.New(
		apperror.CodeInvalidInput,
		"time fields must be non-decreasing from morning_start to afternoon_end",
		http.StatusBadRequest,
	)
	ErrInvalidAllowedLate = apperror.New(
		apperror.CodeInvalidInput,
		"allowed_late_minutes must not be negative",
		http.StatusBadRequest,
	)
	ErrScheduleNotFound = apperror.New(
		apperror.CodeNotFound,
		"work schedule not found",
		http.StatusNotFound,
	)
	ErrScheduleAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"work schedule already exists for this weekday",
		http.StatusConflict,
	)
)

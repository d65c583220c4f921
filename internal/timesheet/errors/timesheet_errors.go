package timesheeterrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrFutureDate = apperror.New(
		apperror.CodeInvalidInput,
		"date cannot be in the future",
		http.StatusBadRequest,
	)
	ErrFutureMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month cannot be in the future",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPunchTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid punch time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrCheckOutBeforeCheckIn = apperror.New(
		apperror.CodeInvalidInput,
		"check-out cannot be earlier than check-in",
		http.StatusBadRequest,
	)
	ErrNegativeOvertime = apperror.New(
		apperror.CodeInvalidInput,
		"overtime hours must not be negative",
		http.StatusBadRequest,
	)
	ErrEmptyPunch = apperror.New(
		apperror.CodeInvalidInput,
		"at least one of check_in, check_out or overtime_hours is required",
		http.StatusBadRequest,
	)
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"timesheet entry not found",
		http.StatusNotFound,
	)
)

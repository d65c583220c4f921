package monthlyerrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year or month",
		http.StatusBadRequest,
	)
	ErrFutureMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month cannot be in the future",
		http.StatusBadRequest,
	)
	ErrInvalidField = apperror.New(
		apperror.CodeInvalidInput,
		"unknown refresh field, expected hours, working_days or leave",
		http.StatusBadRequest,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"range start must not be after range end",
		http.StatusBadRequest,
	)
	// ErrPreviousMonthStale guards the month-to-month carry-over: month N can only be
	// aggregated once month N-1 is up to date.
	ErrPreviousMonthStale = apperror.New(
		apperror.CodeInvalidState,
		"previous month needs refresh before this month can be aggregated",
		http.StatusConflict,
	)
)

package monthly

import (
	"net/http"
	"strconv"

	employeeerrors "go-timesheet/internal/employee/errors"
	monthlyerrors "go-timesheet/internal/monthly/errors"
	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/period"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("monthly.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("monthly.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("monthly request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetEmployeeMonth(c *gin.Context) {
	employeeID, month, err := ParseEmployeeMonth(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetEmployeeMonth(c.Request.Context(), employeeID, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	employeeID, month, err := ParseEmployeeMonth(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	var req RecomputeMonthRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}
	fields, err := ParseFields(req.Fields)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	row, err := h.service.RefreshForEmployeeMonth(c.Request.Context(), employeeID, month, fields...)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MapToResponse(*row), nil)
}

// ParseEmployeeMonth reads the :employee_id, :year and :month path parameters.
func ParseEmployeeMonth(c *gin.Context) (uuid.UUID, period.Month, error) {
	employeeID, err := uuid.Parse(c.Param("employee_id"))
	if err != nil {
		return uuid.Nil, period.Month{}, employeeerrors.ErrInvalidEmployeeID
	}
	month, err := ParseMonth(c)
	if err != nil {
		return uuid.Nil, period.Month{}, err
	}
	return employeeID, month, nil
}

func ParseMonth(c *gin.Context) (period.Month, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return period.Month{}, monthlyerrors.ErrInvalidPeriod
	}
	m, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return period.Month{}, monthlyerrors.ErrInvalidPeriod
	}
	month, err := period.NewMonth(year, m)
	if err != nil {
		return period.Month{}, monthlyerrors.ErrInvalidPeriod
	}
	return month, nil
}

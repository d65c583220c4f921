package preparation

import (
	"net/http"

	"go-timesheet/internal/monthly"
	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("preparation.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("preparation.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("preparation request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// PrepareMonth runs the monthly preparation for every eligible employee.
// Leave is accrued unless the body sets increment_leave to false.
func (h *Handler) PrepareMonth(c *gin.Context) {
	month, err := monthly.ParseMonth(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	var body PrepareBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}
	increment := true
	if body.IncrementLeave != nil {
		increment = *body.IncrementLeave
	}

	summary, err := h.service.Prepare(c.Request.Context(), PrepareRequest{
		Year:           month.Year,
		Month:          int(month.Month),
		IncrementLeave: increment,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) RecomputeEmployeeMonth(c *gin.Context) {
	employeeID := c.Param("employee_id")
	month, err := monthly.ParseMonth(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	summary, err := h.service.Prepare(c.Request.Context(), PrepareRequest{
		EmployeeID: &employeeID,
		Year:       month.Year,
		Month:      int(month.Month),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary, nil)
}

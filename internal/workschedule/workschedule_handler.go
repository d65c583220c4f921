package workschedule

import (
	"net/http"

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
	l := zap.L().Named("workschedule.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workschedule.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("work schedule request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	rows, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, MapToListResponse(rows), nil)
}

func (h *Handler) GetByWeekday(c *gin.Context) {
	weekday, err := ParseWeekday(c.Param("weekday"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// Admin screens read straight from the table so a just-saved change is visible.
	row, err := h.service.GetForWeekday(c.Request.Context(), weekday, false)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if row == nil {
		response.Success(c, http.StatusOK, nil, nil)
		return
	}
	response.Success(c, http.StatusOK, MapToResponse(*row), nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateWorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create work schedule validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateWorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update work schedule validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("weekday"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("weekday")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

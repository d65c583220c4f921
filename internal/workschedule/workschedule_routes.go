package workschedule

import (
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	schedules := r.Group("/work-schedules")
	schedules.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L()))
	{
		schedules.GET("", h.GetAll)
		schedules.GET("/:weekday", h.GetByWeekday)
		schedules.POST("", middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleHR), h.Create)
		schedules.PUT("/:weekday", middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleHR), h.Update)
		schedules.DELETE("/:weekday", middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleHR), h.Delete)
	}
}

package monthly

import (
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	months := r.Group("/timesheets/employees/:employee_id/months/:year/:month")
	months.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L()))
	{
		months.GET("", middleware.SelfOrRole(middleware.RoleAdmin, middleware.RoleHR), h.GetEmployeeMonth)
		months.POST("/refresh", middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleHR), h.Refresh)
	}
}

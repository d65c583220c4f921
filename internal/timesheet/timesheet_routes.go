package timesheet

import (
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	timesheets := r.Group("/timesheets")
	timesheets.Use(middleware.AuthMiddleware(), middleware.ContextLogger(zap.L()))
	{
		timesheets.POST("/punch", middleware.RateLimitByUser(rate.Limit(2), 5), h.Punch)
		timesheets.POST("/employees/:employee_id/dates/:date/recompute",
			middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleHR),
			h.Recompute,
		)
	}
}

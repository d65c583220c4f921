package preparation

import (
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	timesheets := r.Group("/timesheets")
	timesheets.Use(
		middleware.AuthMiddleware(),
		middleware.ContextLogger(zap.L()),
		middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleHR),
	)
	{
		timesheets.POST("/months/:year/:month/prepare", middleware.Idempotency(rdb), h.PrepareMonth)
		timesheets.POST("/employees/:employee_id/months/:year/:month/recompute", middleware.Idempotency(rdb), h.RecomputeEmployeeMonth)
	}
}

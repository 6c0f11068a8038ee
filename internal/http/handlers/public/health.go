package public

import (
	"context"
	"time"

	"github.com/foody-next/internal/cache"
	handlershared "github.com/foody-next/internal/http/handlers/shared"
	"github.com/foody-next/internal/http/response"
	"github.com/foody-next/internal/models"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// Health 健康检查，数据库不可用时返回 503
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
	if err := models.PingDB(ctx, h.DB); err != nil {
		handlershared.RequestLog(c).Warnw("health_database_failed", "error", err)
		response.ErrorWithData(c, response.CodeServiceUnavailable, "database unavailable", gin.H{"status": "degraded", "database": "error"})
		return
	}
	if cache.Enabled() {
		status["redis"] = "ok"
		if err := cache.Ping(ctx); err != nil {
			handlershared.RequestLog(c).Warnw("health_redis_failed", "error", err)
			status["redis"] = "error"
		}
	}
	response.Success(c, status)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/EstebanRsh/UP/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports Postgres and Redis connectivity plus the parked
// receipt-render job count, so a stalled PDF pipeline shows up in
// monitoring before a customer asks for a missing receipt. Never exposes
// credentials or connection internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var parkedRenders int64
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			parkedRenders, _ = worker.DLQLength(ctx, rdb, worker.QueueReceiptRender)
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":         status == http.StatusOK,
			"db":         dbStatus,
			"redis":      redisStatus,
			"render_dlq": parkedRenders,
		})
	}
}

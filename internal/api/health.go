package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/coffeeshop/backend/internal/middleware"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// Health responds with {"status":"ok"} when ping succeeds.
func Health(ping Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			middleware.AbortWithError(c, http.StatusServiceUnavailable, "database unavailable", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

package ratelimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Middleware limits requests per client IP. When redis is unreachable the
// request is let through with a warning: losing rate limiting briefly is
// preferable to taking the whole API down with it.
func Middleware(limiter *Limiter, message string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warnf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if !allowed {
			if message != "" {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			} else {
				c.AbortWithStatus(http.StatusTooManyRequests)
			}
			return
		}
		c.Next()
	}
}

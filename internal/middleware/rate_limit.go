package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chat_console/internal/service"
	"chat_console/pkg/logger"
)

type RateLimitMiddleware struct {
	rateLimitService service.RateLimitService
	log              logger.Logger
}

func NewRateLimitMiddleware(rateLimitService service.RateLimitService, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		log:              log,
	}
}

// Limit ограничивает число запросов с одного IP в окне windowSeconds
func (m *RateLimitMiddleware) Limit(prefix string, limit, windowSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := prefix + ":" + c.ClientIP()

		allowed, remaining, err := m.rateLimitService.Allow(c.Request.Context(), key, limit, windowSeconds)
		if err != nil {
			// Недоступность redis не должна запирать вход
			m.log.Error("Rate limit check failed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

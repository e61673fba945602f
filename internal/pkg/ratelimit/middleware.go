package ratelimit

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/medcamp/internal/pkg/response"
)

// Middleware limits requests per client IP.
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return CustomKeyMiddleware(limiter, func(c *gin.Context) string { return c.ClientIP() })
}

// CustomKeyMiddleware limits requests per key; an empty key falls back to the client IP.
func CustomKeyMiddleware(limiter *RateLimiter, keyFunc func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if key == "" {
			key = c.ClientIP()
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Burst()))

		if !limiter.Allow(key) {
			wait := int(math.Ceil(limiter.RetryAfter(key).Seconds()))
			if wait < 1 {
				wait = 1
			}
			c.Header("Retry-After", strconv.Itoa(wait))
			response.TooManyRequests(c, "Rate limit exceeded. Try again later.", "RATE_LIMITED")
			c.Abort()
			return
		}

		c.Next()
	}
}

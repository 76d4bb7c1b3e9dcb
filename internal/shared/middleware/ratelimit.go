package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/ratelimit"
	"github.com/giftregistry/server/internal/shared/response"
)

const (
	// RateLimitRemaining is the header for remaining requests.
	RateLimitRemaining = "X-RateLimit-Remaining"
	// RateLimitLimit is the header for the limit.
	RateLimitLimit = "X-RateLimit-Limit"
	// RetryAfter is the header for retry time.
	RetryAfter = "Retry-After"
)

// RateLimitByEndpoint limits requests per route and client IP.
// A nil limiter disables the check.
func RateLimitByEndpoint(limiter ratelimit.Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("endpoint:%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())
		res, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			// Fail open; the limiter backend is best effort.
			_ = c.Error(err)
			c.Next()
			return
		}

		c.Header(RateLimitLimit, strconv.Itoa(limit))
		c.Header(RateLimitRemaining, strconv.Itoa(res.Remaining))

		if !res.Allowed {
			retry := int(time.Until(res.ResetAt).Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header(RetryAfter, strconv.Itoa(retry))
			response.AbortWithCode(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many requests, please try again later")
			return
		}

		c.Next()
	}
}

// WritesOnly runs h for requests that change state and skips reads.
func WritesOnly(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			h(c)
		}
	}
}

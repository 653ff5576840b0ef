package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"snaptext/internal/infrastructure/ratelimit"
	"snaptext/pkg/errors"
	"snaptext/pkg/logger"
)

type RateLimitResponse struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retry_after"`
}

type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// Limit throttles action per authenticated user, falling back to the client
// IP when the route is not behind Authenticate.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := UserID(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			allowed, retryAfter := m.limiter.Allow(key, action)
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				logger.Warn("RATE LIMIT: %s exceeded %s, retry in %ds", key, action, seconds)

				appErr := errors.TooManyRequests("Too many requests. Please slow down.")
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return c.JSON(appErr.Status, RateLimitResponse{
					Message:    appErr.Message,
					Code:       appErr.Code,
					RetryAfter: seconds,
				})
			}

			return next(c)
		}
	}
}

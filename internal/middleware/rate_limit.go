package middleware

import (
	"net/http"
	"time"

	"github.com/bazario/marketplace-api/internal/errs"
	"github.com/bazario/marketplace-api/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	rateLimitPeriod = 1 * time.Minute // window length
	rateLimitCount  = 60              // allowed requests per window per IP
)

// RateLimitMiddleware enforces a fixed-window per-IP request limit
// backed by Redis. Applied to mutating product routes.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the rate limiting middleware.
//
// Without Redis (or when Redis errors) requests pass through: limiting
// is protection, not a hard dependency.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.server.Redis == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			key := "rate_limit:" + c.RealIP()

			count, err := r.server.Redis.Incr(ctx, key).Result()
			if err != nil {
				r.server.Logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			// First hit in the window starts the expiry clock.
			if count == 1 {
				r.server.Redis.Expire(ctx, key, rateLimitPeriod)
			}

			if count > rateLimitCount {
				return &errs.HTTPError{
					Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
					Message: "Too many requests, please try again later",
					Status:  http.StatusTooManyRequests,
				}
			}

			return next(c)
		}
	}
}

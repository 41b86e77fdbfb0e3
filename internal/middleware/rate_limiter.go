package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/tourismoam/backoffice/internal/dto"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterTTL is how long an idle client IP keeps its limiter.
const limiterTTL = 3 * time.Minute

// RateLimit allows perMin requests per minute from each client IP. Zero or less disables it.
func RateLimit(perMin int, log *zap.Logger) echo.MiddlewareFunc {
	return rateLimit(perMin, limiterTTL, log)
}

func rateLimit(perMin int, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	if perMin <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if log == nil {
		log = zap.NewNop()
	}

	store := echoMw.NewRateLimiterMemoryStoreWithConfig(echoMw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(time.Minute / time.Duration(perMin)),
		Burst:     perMin,
		ExpiresIn: ttl,
	})

	return echoMw.RateLimiterWithConfig(echoMw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client")
		},
		DenyHandler: func(c echo.Context, ip string, err error) error {
			log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("uri", c.Request().RequestURI))
			return c.JSON(http.StatusTooManyRequests, dto.Fail("Too many requests. Try again later."))
		},
	})
}

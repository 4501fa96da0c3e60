package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/amitosh2002/yuno-assignment/internal/middleware/auth"
)

// CounterStore increments a counter for a key within a fixed window and
// reports the running count. The store owns expiry of the window.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

const (
	defaultLimit  = 30
	defaultWindow = time.Minute
)

// Config holds rate limiter settings
type Config struct {
	// Limit is the number of requests allowed per window
	Limit int
	// Window is the fixed window length
	Window time.Duration
	Store  CounterStore
	Logger *zap.Logger
}

// Middleware returns a fixed-window rate limiter keyed by the authenticated
// user, falling back to the client IP for anonymous requests. The counter
// lives in the store so the limit holds across instances.
func Middleware(config Config) echo.MiddlewareFunc {
	if config.Limit <= 0 {
		config.Limit = defaultLimit
	}
	if config.Window <= 0 {
		config.Window = defaultWindow
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := clientIdentity(c)
			window := time.Now().Unix() / int64(config.Window.Seconds())
			key := fmt.Sprintf("ratelimit:%s:%d", identity, window)

			count, err := config.Store.Incr(c.Request().Context(), key, config.Window)
			if err != nil {
				// an unavailable counter store must not take payments down
				config.Logger.Error("rate limit counter unavailable, allowing request",
					zap.String("identity", identity), zap.Error(err))
				return next(c)
			}

			if count > int64(config.Limit) {
				retryAfter := config.Window.Seconds() - float64(time.Now().Unix()%int64(config.Window.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter)))
				config.Logger.Warn("rate limit exceeded",
					zap.String("identity", identity),
					zap.Int64("count", count),
					zap.Int("limit", config.Limit))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": "Too many requests",
					"code":  "RATE_LIMIT_EXCEEDED",
				})
			}

			return next(c)
		}
	}
}

func clientIdentity(c echo.Context) string {
	if userID, err := auth.GetUserID(c); err == nil {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	return "ip:" + c.RealIP()
}

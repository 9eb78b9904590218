package middleware

import (
	"net/http"
	"sponsorship_console/templates/partials"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc returns the key requests are counted under (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
}

// RateLimiter is a fixed-window limiter. Counters expire with their window.
type RateLimiter struct {
	config  RateLimitConfig
	mu      sync.Mutex
	windows *cache.Cache
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	return &RateLimiter{
		config:  config,
		windows: cache.New(config.Window, time.Minute),
	}
}

// Allow counts one request for key and reports whether it is within the limit
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if _, found := rl.windows.Get(key); !found {
		rl.windows.Set(key, 1, rl.config.Window)
		return true
	}

	count, err := rl.windows.IncrementInt(key, 1)
	if err != nil {
		rl.windows.Set(key, 1, rl.config.Window)
		return true
	}
	return count <= rl.config.Requests
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl.Allow(rl.config.KeyFunc(c)) {
				return next(c)
			}

			if IsHTMX(c) {
				c.Response().WriteHeader(http.StatusTooManyRequests)
				return partials.Toast(partials.ToastError, rl.config.Message).Render(c.Request().Context(), c.Response())
			}
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"success": false,
				"error":   rl.config.Message,
			})
		}
	}
}

// NewLoginRateLimiter limits sign-in attempts to 5 per minute per IP
func NewLoginRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Requests: 5,
		Window:   time.Minute,
		Message:  "Too many login attempts. Please wait a minute before trying again.",
	})
}

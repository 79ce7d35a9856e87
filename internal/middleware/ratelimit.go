package middleware

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"todoflow/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Global limits (per IP)
	GlobalAPIMax        int
	GlobalAPIExpiration time.Duration

	// Authenticated endpoint limits (per user ID, Redis-backed)
	AuthenticatedMax        int
	AuthenticatedExpiration time.Duration

	// Login/signup attempts (per IP)
	AuthAttemptMax        int
	AuthAttemptExpiration time.Duration
}

// DefaultRateLimitConfig returns production-safe defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// Global: 200/min - generous for normal mobile client use
		GlobalAPIMax:        200,
		GlobalAPIExpiration: 1 * time.Minute,

		// Authenticated operations: 120/min - drag reorders can burst
		AuthenticatedMax:        120,
		AuthenticatedExpiration: 1 * time.Minute,

		// Login attempts: 10 per 15 minutes
		AuthAttemptMax:        10,
		AuthAttemptExpiration: 15 * time.Minute,
	}
}

// LoadRateLimitConfig loads config from environment variables with defaults
func LoadRateLimitConfig() *RateLimitConfig {
	config := DefaultRateLimitConfig()

	if v := os.Getenv("RATE_LIMIT_GLOBAL_API"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.GlobalAPIMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_AUTHENTICATED"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.AuthenticatedMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_AUTH_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.AuthAttemptMax = n
		}
	}

	return config
}

// GlobalAPIRateLimiter applies a per-IP limit across all API routes.
// First line of DDoS defense; health and metrics are excluded by mounting.
func GlobalAPIRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.GlobalAPIMax,
		Expiration: config.GlobalAPIExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please slow down",
			})
		},
	})
}

// AuthAttemptRateLimiter applies a strict per-IP limit to login and signup
func AuthAttemptRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.AuthAttemptMax,
		Expiration: config.AuthAttemptExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many authentication attempts, try again later",
			})
		},
	})
}

// UserRateLimiter applies a per-user fixed-window limit backed by Redis,
// shared across instances. Passes through when Redis is unavailable.
func UserRateLimiter(redisService *services.RedisService, config *RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisService == nil {
			return c.Next()
		}

		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:user:%s", userID)
		_, exceeded, err := redisService.CheckRateLimit(c.Context(), key,
			int64(config.AuthenticatedMax), config.AuthenticatedExpiration)
		if err != nil {
			// Rate limiting is best-effort: never fail a request on a
			// Redis hiccup.
			log.Printf("⚠️  Rate limit check failed for user %s: %v", userID, err)
			return c.Next()
		}

		if exceeded {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded",
			})
		}

		return c.Next()
	}
}
